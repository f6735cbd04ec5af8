// Package natsort implements numeric-aware string comparison so that
// serials like "D2" sort before "D10". It is used everywhere serials and
// customer numbers are displayed or exported.
package natsort

import (
	"sort"
	"strings"
	"unicode"
)

// Compare returns -1, 0 or 1 ordering a before, equal to, or after b.
// Embedded digit runs are compared by numeric value, non-digit runs
// case-insensitively, with ties broken by exact comparison so the result
// is a total order and repeated sorts are stable.
func Compare(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		if unicode.IsDigit(ra[i]) && unicode.IsDigit(rb[j]) {
			si, sj := i, j
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}
			na := strings.TrimLeft(string(ra[si:i]), "0")
			nb := strings.TrimLeft(string(rb[sj:j]), "0")
			// More significant digits means a larger number.
			if len(na) != len(nb) {
				if len(na) < len(nb) {
					return -1
				}
				return 1
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			continue
		}
		ca, cb := unicode.ToLower(ra[i]), unicode.ToLower(rb[j])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(ra):
		return 1
	case j < len(rb):
		return -1
	}
	// Equal up to case and leading zeros; exact comparison keeps the
	// order total ("A01" vs "A1", "a1" vs "A1").
	return strings.Compare(a, b)
}

// Less reports whether a orders before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Strings sorts xs in place.
func Strings(xs []string) {
	sort.Slice(xs, func(i, j int) bool { return Less(xs[i], xs[j]) })
}
