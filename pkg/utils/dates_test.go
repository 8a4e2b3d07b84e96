package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf(t *testing.T) {
	ts := time.Date(2018, 5, 1, 15, 23, 42, 999, time.UTC)
	assert.Equal(t, time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC), DateOf(ts))

	midnight := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, midnight, DateOf(midnight))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2018, 5, 1, 10, 0, 0, 0, time.UTC)
	b := time.Date(2018, 5, 31, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 30, DaysBetween(a, b))
	assert.Equal(t, -30, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a.Add(5*time.Hour)))
}

func TestAddDays(t *testing.T) {
	start := time.Date(2018, 12, 27, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2019, 1, 26, 0, 0, 0, 0, time.UTC), AddDays(start, 30))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 664.79, Round2(664.78884))
	assert.Equal(t, 690.0, Round2(690.0))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, -1.23, Round2(-1.234))
}
