package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("5550000001"))
	assert.False(t, ValidatePhone("+15550000001"), "stored form is bare, no country code")
	assert.False(t, ValidatePhone("555000001"))
	assert.False(t, ValidatePhone("55500000012"))
	assert.False(t, ValidatePhone("555-000-0001"))
	assert.False(t, ValidatePhone(""))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("dana@acme.test"))
	assert.False(t, ValidateEmail("dana@acme"))
	assert.False(t, ValidateEmail("dana acme.test"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateSendHour(t *testing.T) {
	assert.True(t, ValidateSendHour(0))
	assert.True(t, ValidateSendHour(23))
	assert.False(t, ValidateSendHour(-1))
	assert.False(t, ValidateSendHour(24))
}
