package cache

import "strings"

// KeySeparator delimits cache key segments.
const KeySeparator = ":"

// Key builders are pure functions over already-validated identifiers: given
// the same tuple they always return the same key, every segment is
// lower-cased, and distinct resource classes use distinct templates that
// cannot collide (slugs and emails never contain the separator; the literal
// segments disambiguate the rest). Callers supply non-empty, normalized
// identifiers.

func join(segments ...string) string {
	for i, s := range segments {
		segments[i] = strings.ToLower(s)
	}
	return strings.Join(segments, KeySeparator)
}

// FirstTimeKey is the first-time-user flag for an email namespace.
func FirstTimeKey(email string) string {
	return join("user", email, "first-time")
}

// AccessTokenKey is the cached auth access token for an email namespace.
func AccessTokenKey(email string) string {
	return join("user", email, "access-token")
}

// UserPlanKey is the cached plan record for an email namespace.
func UserPlanKey(email string) string {
	return join("user", email, "plan")
}

// PlanLimitsKey is the cached numeric ceilings for a plan tier.
func PlanLimitsKey(tier string) string {
	return join("plan", tier, "limits")
}

// UserOrgsKey is the list entry holding a user's organization refs.
func UserOrgsKey(email string) string {
	return join("user", email, "orgs")
}

// OrgKey is the singleton hash entry for one organization.
func OrgKey(email, orgSlug string) string {
	return join("user", email, "org", orgSlug)
}

// OrgPositionsKey is the list entry holding an organization's position refs.
func OrgPositionsKey(email, orgSlug string) string {
	return join("user", email, "org", orgSlug, "pos")
}

// PositionKey is the singleton hash entry for one position.
func PositionKey(email, orgSlug, positionSlug string) string {
	return join("user", email, "org", orgSlug, "pos", positionSlug)
}

// BenchmarkListKey is the list entry holding a position's benchmark refs for
// one category. The category travels as its full name ("achievements", ...).
func BenchmarkListKey(email, orgSlug, positionSlug, category string) string {
	return join("user", email, "org", orgSlug, "pos", positionSlug, category)
}

// BenchmarkKey is the singleton hash entry for one benchmark. The category
// travels as its three-letter code ("ach", "cha", "fai", "pro"), keeping
// singleton keys disjoint from the category list keys.
func BenchmarkKey(email, orgSlug, positionSlug, categoryCode, slug string) string {
	return join("user", email, "org", orgSlug, "pos", positionSlug, categoryCode, slug)
}

// Patterns for prefix-scan deletion. They match every key carrying the
// resource's identifying chain, including all descendant entries.

// UserPattern matches every key in an email namespace.
func UserPattern(email string) string {
	return "*" + join("user", email) + "*"
}

// OrgPattern matches the organization singleton and all descendants.
func OrgPattern(email, orgSlug string) string {
	return "*" + OrgKey(email, orgSlug) + "*"
}

// PositionPattern matches the position singleton and all descendants.
func PositionPattern(email, orgSlug, positionSlug string) string {
	return "*" + PositionKey(email, orgSlug, positionSlug) + "*"
}

// BenchmarkPattern matches one benchmark singleton.
func BenchmarkPattern(email, orgSlug, positionSlug, categoryCode, slug string) string {
	return "*" + BenchmarkKey(email, orgSlug, positionSlug, categoryCode, slug) + "*"
}
