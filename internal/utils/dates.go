package utils

import (
	"fmt"
	"time"
)

// DateLayout is the expiration date format accepted by the CLI and API.
const DateLayout = "2006-01-02"

// daysPerYear converts calendar days into the year fractions used for T.
const daysPerYear = 365.0

// NextOptionsExpiration implements the standard monthly expiration rule:
// - Third Friday of the current month if we haven't reached the expiration week yet
// - Third Friday of next month if we're in or past the expiration week
func NextOptionsExpiration(today time.Time) time.Time {
	thirdFriday := thirdFridayOf(today.Year(), today.Month(), today.Location())
	weekStart := thirdFriday.AddDate(0, 0, -7)

	if !today.Before(weekStart) {
		next := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location())
		return thirdFridayOf(next.Year(), next.Month(), today.Location())
	}
	return thirdFriday
}

func thirdFridayOf(year int, month time.Month, loc *time.Location) time.Time {
	firstFriday := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	for firstFriday.Weekday() != time.Friday {
		firstFriday = firstFriday.AddDate(0, 0, 1)
	}
	return firstFriday.AddDate(0, 0, 14)
}

// YearsUntil converts an expiration date into time to expiry in years
// (calendar days / 365), measured from the start of today's date.
func YearsUntil(expiration string, today time.Time) (float64, error) {
	exp, err := time.ParseInLocation(DateLayout, expiration, today.Location())
	if err != nil {
		return 0, fmt.Errorf("invalid expiration date format: %w", err)
	}
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	days := exp.Sub(start).Hours() / 24
	if days <= 0 {
		return 0, fmt.Errorf("expiration date %s is not after %s", expiration, start.Format(DateLayout))
	}
	return days / daysPerYear, nil
}
