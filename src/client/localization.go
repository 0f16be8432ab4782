package client

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Localizations maps a locale tag such as "en-GB" to a translated string.
type Localizations map[string]string

var equateEmpty = cmpopts.EquateEmpty()

// LocalizationsEqual reports whether a and b hold the same translations. A
// nil map equals an empty one.
func LocalizationsEqual(a, b Localizations) bool {
	return cmp.Equal(a, b, equateEmpty)
}

// listEqual compares ordered lists with nil equal to empty.
func listEqual[T comparable](a, b []T) bool {
	return cmp.Equal(a, b, equateEmpty)
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// sliceLen returns -1 for a nil slice so that an absent list and an empty
// one have different lengths.
func sliceLen[T any](s []T) int {
	if s == nil {
		return -1
	}
	return len(s)
}
