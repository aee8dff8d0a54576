package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in     string
		prefix string
		want   string
	}{
		{"+15550000001", "+1", "5550000001"},
		{"5550000001", "+1", "5550000001"},
		{" +15550000001 ", "+1", "5550000001"},
		{"+445550000001", "+1", "+445550000001"}, // 不认识的国家码原样保留
		{"5550000001", "", "5550000001"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.in, tc.prefix), "in=%q prefix=%q", tc.in, tc.prefix)
	}
}

func TestWithCountryPrefix(t *testing.T) {
	assert.Equal(t, "+15550000001", WithCountryPrefix("5550000001", "+1"))
	assert.Equal(t, "+15550000001", WithCountryPrefix("+15550000001", "+1"), "already prefixed")
	assert.Equal(t, "5550000001", WithCountryPrefix("5550000001", ""))
}

func TestNormalizeThenPrefixRoundTrip(t *testing.T) {
	stored := NormalizePhone("+15550000001", "+1")
	assert.Equal(t, "+15550000001", WithCountryPrefix(stored, "+1"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "******0001", MaskPhone("5550000001"))
	assert.Equal(t, "***", MaskPhone("123"))
	assert.Equal(t, "", MaskPhone(""))
}
