package domain

import "strings"

// NormalizeKey canonicalizes free text into the key used for
// repetition detection: surrounding whitespace is trimmed, internal
// whitespace runs collapse to single spaces, and the result is
// case-folded. Two writes are the same memory iff their keys are equal;
// there is no fuzzy or semantic matching.
//
// Whitespace-only input yields the empty key. Callers are expected to
// validate content before deriving a key.
func NormalizeKey(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
