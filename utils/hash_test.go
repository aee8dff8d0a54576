package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPasswordDeterministic(t *testing.T) {
	h1 := HashPassword("s3cret")
	h2 := HashPassword("s3cret")

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "hex-encoded sha256")
	assert.NotEqual(t, h1, HashPassword("other"))
}

func TestVerifyPassword(t *testing.T) {
	hashed := HashPassword("s3cret")

	assert.True(t, VerifyPassword("s3cret", hashed))
	assert.False(t, VerifyPassword("wrong", hashed))
	assert.False(t, VerifyPassword("s3cret", "not-a-hash"))
}
