package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5", 5, true},
		{" 12.5 ", 12.5, true},
		{"12,5", 12.5, true},
		{"1.234,50", 1234.5, true},
		{"1,234.50", 1234.5, true},
		{"1 234,5", 1234.5, true},
		{"1 234", 1234, true},
		{"1.000.000", 1000000, true},
		{"12 buc", 12, true},
		{"3kg", 3, true},
		{"-4", -4, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"buc 5", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"1e3", 1000, true},
		{"1,5E-2", 0.015, true},
		{"2.5e+2 kg", 250, true},
		{"12 elemente", 12, true},
		{"7e", 7, true},
		{"1e999", 0, false},
		{"NaN", 0, false},
		{"Infinity", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		assert.Equal(t, c.ok, ok, "ok for %q", c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 1e-9, "value for %q", c.in)
		}
	}
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("da", false))
	assert.False(t, ToBool("off", true))
	assert.True(t, ToBool("maybe", true))
	assert.Equal(t, 7, Atoi(" 7 ", 0))
	assert.Equal(t, 3, Atoi("x", 3))
}
