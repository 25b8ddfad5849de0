package fuzzy

import "strings"

// Normalize lowercases and collapses whitespace so identity matching is
// insensitive to casing and formatting noise.
func Normalize(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// EitherContains reports whether either normalized string contains the other.
// "Google" matches "Google LLC" and vice versa; empty strings never match.
func EitherContains(a, b string) bool {
	a = Normalize(a)
	b = Normalize(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
