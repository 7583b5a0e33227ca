// Package careercache is the cache-coherent core over the career store.
//
// Reads go through the cache: lists and singletons repopulate from the
// authoritative store on miss. Writes commit to the store first, then fan
// out the dependent cache updates concurrently. A patch keeps the list
// item, the singleton entry, and the store row in agreement, merging the
// submitted fields over whatever copies exist with the list item taking
// priority, then the singleton, then the store.
//
// Creations are gated by per-tier plan ceilings: the cached collection
// size refuses immediately at the ceiling, and only an under-ceiling cache
// is re-checked against the store.
//
// A partial fan-out can still leave cache and store diverged; the
// Reconciler rebuilds a namespace from the store when that happens.
package careercache
