package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemID(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int64
		expectErr bool
	}{
		{name: "Plain", raw: "1", expected: 1},
		{name: "Large", raw: "9999", expected: 9999},
		{name: "Whitespace", raw: " 42 ", expected: 42},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Letters", raw: "abc", expectErr: true},
		{name: "Zero", raw: "0", expectErr: true},
		{name: "Negative", raw: "-3", expectErr: true},
		{name: "Fraction", raw: "1.5", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ItemID(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, id)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("Borrow")
	assert.NoError(t, err)
	assert.Equal(t, ActionBorrow, a)

	a, err = ParseAction("return")
	assert.NoError(t, err)
	assert.Equal(t, ActionReturn, a)

	_, err = ParseAction("steal")
	assert.Error(t, err)
}
