package query

import "strings"

const (
	wildcard        = "%"
	escapedWildcard = `\%`
)

// escapeFirstWildcardOnly escapes the first literal '%' in s and leaves any
// later ones untouched. A value holding two or more percent signs therefore
// does not survive a round trip; filters persisted so far rely on exactly
// this output, so it must not become a global replace.
func escapeFirstWildcardOnly(s string) string {
	return strings.Replace(s, wildcard, escapedWildcard, 1)
}

// unescapeFirstWildcardOnly is the inverse of escapeFirstWildcardOnly.
func unescapeFirstWildcardOnly(s string) string {
	return strings.Replace(s, escapedWildcard, wildcard, 1)
}

// escapeLikePattern keeps the first and last byte of a user pattern as typed,
// so leading and trailing wildcards stay wildcards, and escapes the first '%'
// in between. Patterns shorter than two bytes are returned unchanged.
func escapeLikePattern(s string) string {
	if len(s) < 2 {
		return s
	}
	return s[:1] + escapeFirstWildcardOnly(s[1:len(s)-1]) + s[len(s)-1:]
}

// classifyPattern maps an $iLike pattern onto the editor operator that
// would have produced it.
func classifyPattern(pattern string) (Operator, string) {
	// An escaped wildcard cannot be told apart from a structural one by
	// position alone, keep the pattern as a like expression instead.
	if strings.Contains(pattern, escapedWildcard) {
		return OpLike, unescapeFirstWildcardOnly(pattern)
	}

	var mask uint8
	if strings.HasPrefix(pattern, wildcard) {
		mask |= 0b10
	}
	if strings.HasSuffix(pattern, wildcard) {
		mask |= 0b01
	}

	switch mask {
	case 0b00:
		return OpIsExactly, pattern
	case 0b01:
		return OpBeginsWith, strings.TrimSuffix(pattern, wildcard)
	case 0b10:
		return OpEndsWith, strings.TrimPrefix(pattern, wildcard)
	default:
		return OpContains, strings.TrimSuffix(strings.TrimPrefix(pattern, wildcard), wildcard)
	}
}
