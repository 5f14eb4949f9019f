package dateutil

import (
	"fmt"
	"time"
)

// DayKeyLayout is the canonical local-date key format used everywhere a
// calendar day is stored or compared.
const DayKeyLayout = "2006-01-02"

// DayKey formats t's local calendar date as YYYY-MM-DD. The key is built
// from the local year/month/day fields directly: converting through UTC
// shifts the key across midnight near timezone boundaries.
func DayKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseDayKey parses a YYYY-MM-DD key as local midnight.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// Midnight truncates t to local midnight of the same calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayNumber maps a calendar date to a day count that is stable across DST
// transitions (noon UTC keeps the division away from any offset edge).
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Unix() / 86400)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return dayNumber(b) - dayNumber(a)
}

// DaysInclusive counts the days from a through b, both ends included,
// clamped to a minimum of 1.
func DaysInclusive(a, b time.Time) int {
	n := DaysBetween(a, b) + 1
	if n < 1 {
		return 1
	}
	return n
}

// IsFutureDay reports whether d falls on a later calendar day than today.
func IsFutureDay(d, today time.Time) bool {
	return DaysBetween(today, d) > 0
}

// AddDays moves n calendar days from t, staying at local midnight.
func AddDays(t time.Time, n int) time.Time {
	return Midnight(t).AddDate(0, 0, n)
}

// RangeDays enumerates day keys from a through b ascending. Returns nil
// when b precedes a.
func RangeDays(a, b time.Time) []string {
	n := DaysBetween(a, b)
	if n < 0 {
		return nil
	}
	keys := make([]string, 0, n+1)
	day := Midnight(a)
	for i := 0; i <= n; i++ {
		keys = append(keys, DayKey(day))
		day = day.AddDate(0, 0, 1)
	}
	return keys
}
