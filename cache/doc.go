// Package cache provides the key resolver and the key-value store contract
// the career cache-coherency core is built on.
//
// # Overview
//
// Three pieces live here:
//
//   - Key builders: pure, deterministic colon-delimited key templates, one
//     per resource class (user orgs list, org singleton, position singleton,
//     benchmark lists and singletons, plan, flags, tokens).
//   - Store: the narrow cache interface covering hash entries, ordered lists
//     with value-equality removal, plain values, and pattern key discovery.
//   - Codec: the canonical JSON encoding shared by all Store backends, which
//     is what makes value-equality list removal deterministic.
//
// # Backends
//
// Two Store implementations ship in internal/cacheinfra: an in-process
// sturdyc-backed store (NewMemoryStore) and a Redis-backed store for shared
// deployments. Both treat entries as advisory: TTL expiry and eviction can
// drop any entry at any time, and readers repopulate from the backing store
// on the next read.
//
// # Key Discipline
//
// Every segment is lower-cased, identifiers never contain the separator, and
// distinct resource classes never collide. The caller supplies validated,
// normalized identifiers; key building itself cannot fail.
package cache
