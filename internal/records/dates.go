package records

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// serialEpoch is day zero of the spreadsheet date serial scheme. Serial 1
// lands on 1899-12-31; the off-by-one absorbs the format's historical
// 1900 leap-year bug.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in priority order. MM/DD/YYYY is deliberately
// ahead of DD/MM/YYYY: when a slash date is valid under both readings the
// first wins, preserving the behaviour uploads have always had.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"02/01/2006",
}

// ParseCell converts a spreadsheet cell into a calendar date. It accepts a
// numeric date serial or a string in one of the supported layouts and
// reports false for anything else. It never returns a partially valid
// date: a string that fails every layout is simply unparseable.
func ParseCell(v any) (time.Time, bool) {
	switch t := v.(type) {
	case float64:
		return ParseSerial(t)
	case string:
		return ParseDateString(t)
	default:
		return time.Time{}, false
	}
}

// ParseSerial converts a spreadsheet numeric date serial to a date.
func ParseSerial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	ms := serial * 24 * 60 * 60 * 1000
	return serialEpoch.Add(time.Duration(ms) * time.Millisecond), true
}

// ParseDateString parses a date string, trying each supported layout in
// order and returning the first that yields a valid date.
func ParseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDDMMYYYY renders a date in the canonical display form. Zero times
// render as the empty string so unparseable cells stay blank in tables.
func FormatDDMMYYYY(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d-%02d-%04d", t.Day(), int(t.Month()), t.Year())
}

// DayOf truncates a timestamp to midnight in its own location. Date-range
// comparisons operate on truncated values so both bounds are inclusive.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
