// Package career defines the domain model shared by the cache and store
// layers: organizations, positions, the four benchmark categories, plan
// tiers, and the error taxonomy the core surfaces.
//
// # Benchmark Categories
//
// A benchmark is one of four shapes (Achievement, Failure, Challenge, or
// Project) sharing a common meta block of title, slug, description, and
// timestamps. The Category value is parsed once at the boundary with
// ParseCategory and threaded through as a typed value; the Benchmark
// interface is the tagged variant over the four concrete records. A
// benchmark's category is immutable after creation: every cross-category
// patch attempt is rejected during validation.
//
// # Normalization
//
// Free-text fields (names, titles, descriptions) are lower-cased before they
// reach either the cache or the store; months are upper-cased. Slugs are
// derived from titles plus a 12-character random suffix and may change when
// a title changes.
//
// # Errors
//
// The three caller-visible error classes are NotFound, BadRequest, and
// QuotaExceeded, classified through IsNotFound, IsBadRequest, and
// IsQuotaExceeded rather than message matching.
package career
