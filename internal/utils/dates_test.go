package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNextOptionsExpiration(t *testing.T) {
	cases := map[string]string{
		"2026-10-01": "2026-10-16",
		"2026-10-08": "2026-10-16",
		"2026-10-09": "2026-11-20", // expiration week
		"2026-10-16": "2026-11-20",
		"2026-12-20": "2027-01-15",
	}
	for today, want := range cases {
		got := NextOptionsExpiration(day(today).Add(10 * time.Hour))
		assert.Equal(t, want, got.Format(DateLayout), today)
		assert.Equal(t, time.Friday, got.Weekday(), today)
	}
}

func TestYearsUntil(t *testing.T) {
	now := day("2026-10-16").Add(15*time.Hour + 30*time.Minute)

	years, err := YearsUntil("2027-01-15", now)
	require.NoError(t, err)
	assert.InDelta(t, 91.0/365.0, years, 1e-12)

	years, err = YearsUntil("2027-10-16", now)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, years, 1e-12)

	_, err = YearsUntil("2026-10-16", now)
	assert.Error(t, err)
	_, err = YearsUntil("16/10/2027", now)
	assert.Error(t, err)
}
