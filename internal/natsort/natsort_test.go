package natsort

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "Plain numeric", a: "2", b: "10", expected: -1},
		{name: "Prefixed numeric", a: "D2", b: "D10", expected: -1},
		{name: "Equal", a: "D17", b: "D17", expected: 0},
		{name: "Numeric before longer run", a: "A2", b: "A10", expected: -1},
		{name: "Case insensitive letters", a: "a2", b: "B1", expected: -1},
		{name: "Prefix orders first", a: "D1", b: "D1a", expected: -1},
		{name: "Leading zeros tie-break", a: "A01", b: "A1", expected: -1},
		{name: "Different prefixes", a: "B9", b: "C1", expected: -1},
		{name: "Multi-segment", a: "D2-3", b: "D2-10", expected: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Compare(tc.a, tc.b))
			assert.Equal(t, -tc.expected, Compare(tc.b, tc.a))
		})
	}
}

func TestStrings(t *testing.T) {
	serials := []string{"A10", "A2", "A1"}
	Strings(serials)
	assert.Equal(t, []string{"A1", "A2", "A10"}, serials)

	serials = []string{"D20", "D3", "d11", "C5", "D1"}
	Strings(serials)
	assert.Equal(t, []string{"C5", "D1", "D3", "d11", "D20"}, serials)
}

// Repeated sorts of the same data must produce the same sequence.
func TestStringsDeterministic(t *testing.T) {
	a := []string{"B1", "a1", "A01", "A1", "b1"}
	b := append([]string(nil), a...)
	sort.Sort(sort.Reverse(sort.StringSlice(b)))
	Strings(a)
	Strings(b)
	assert.Equal(t, a, b)
}
