package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 8, 30, 23, 59, 59, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}

func TestStartOfDayCrossesTimezone(t *testing.T) {
	// 本地 2026-08-30 20:00 -07:00 是 UTC 2026-08-31 03:00，日界按 UTC 算
	loc := time.FixedZone("PDT", -7*3600)
	in := time.Date(2026, 8, 30, 20, 0, 0, 0, loc)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}

func TestDayKey(t *testing.T) {
	loc := time.FixedZone("PDT", -7*3600)
	assert.Equal(t, "2026-08-31", DayKey(time.Date(2026, 8, 30, 20, 0, 0, 0, loc)))
	assert.Equal(t, "2026-08-30", DayKey(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 8, 30, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}
