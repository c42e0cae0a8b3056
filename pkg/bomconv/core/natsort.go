package core

import (
	"sort"
	"strings"
)

// naturalKey splits s into alternating non-digit and digit runs. The first element is
// always a (possibly empty) non-digit run, so keys of different strings align by kind.
func naturalKey(s string) []string {
	s = strings.ToLower(StripParens(s))
	key := []string{""}
	digits := false
	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d != digits {
			key = append(key, "")
			digits = d
		}
		key[len(key)-1] += s[i : i+1]
	}
	return key
}

// compareDigits compares two runs of ASCII digits by numeric value.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// CompareNatural orders references naturally: digit runs compare as integers and other
// runs compare case-insensitively, so R2 < R10 < R10A. Parentheses are ignored. Strings
// with equal keys fall back to plain comparison.
func CompareNatural(a, b string) int {
	ka, kb := naturalKey(a), naturalKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		var c int
		if i%2 == 1 {
			c = compareDigits(ka[i], kb[i])
		} else {
			c = strings.Compare(ka[i], kb[i])
		}
		if c != 0 {
			return c
		}
	}
	if len(ka) != len(kb) {
		if len(ka) < len(kb) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// SortRefs sorts refs in natural order, in place, and returns them.
func SortRefs(refs []string) []string {
	sort.SliceStable(refs, func(i, j int) bool {
		return CompareNatural(refs[i], refs[j]) < 0
	})
	return refs
}
