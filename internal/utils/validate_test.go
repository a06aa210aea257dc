package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUsername(t *testing.T) {
	for _, ok := range []string{"bob", "alice_99", "ABC123", "x_______perfect_x"} {
		assert.True(t, IsValidUsername(ok), "username %q", ok)
	}
	for _, bad := range []string{"", "ab", "has space", "toolongusername_exceeds20", "dots.dots", "émile"} {
		assert.False(t, IsValidUsername(bad), "username %q", bad)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.True(t, IsValidEmail("  a.b+c@sub.domain.org  "))

	for _, bad := range []string{"", "plain", "no@tld", "two@@example.com", "spaces in@example.com"} {
		assert.False(t, IsValidEmail(bad), "email %q", bad)
	}
}

func TestIsValidFullName(t *testing.T) {
	for _, ok := range []string{"Jo Li", "Mary-Jane O'Neil", "Dr. Smith"} {
		assert.True(t, IsValidFullName(ok), "name %q", ok)
	}
	for _, bad := range []string{"", "X", "Name42", "semi;colon"} {
		assert.False(t, IsValidFullName(bad), "name %q", bad)
	}
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("abc123"))
	assert.True(t, IsValidPassword("L0ngerPassword"))

	// Needs length, a letter and a digit.
	assert.False(t, IsValidPassword("a1"))
	assert.False(t, IsValidPassword("abcdef"))
	assert.False(t, IsValidPassword("123456"))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pw", 4) // min cost keeps the test fast
	assert.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret-pw"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestHashPasswordCostFallback(t *testing.T) {
	// An out-of-range cost falls back to the default instead of failing.
	hash, err := HashPassword("s3cret-pw", 99)
	assert.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret-pw"))
}
