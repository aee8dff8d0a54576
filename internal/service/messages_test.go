package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWellnessCheckBody(t *testing.T) {
	body := WellnessCheckBody("Alice")

	assert.Contains(t, body, "Good morning Alice.")
	assert.Contains(t, body, "'yes' or 'no'")
}

func TestAdminAlertBody(t *testing.T) {
	body := AdminAlertBody("Alice Tester", "2026-08-30T15:04:00Z")

	assert.Contains(t, body, "Alice Tester")
	assert.Contains(t, body, "2026-08-30T15:04:00Z")
	assert.Contains(t, body, "not feeling well")
}
