// Package daterange parses and bounds the [start, end] ranges used by order
// listing and reports.
//
// Both bounds accept "2006-01-02" or RFC 3339. The end bound is inclusive
// through the end of its UTC day (23:59:59.999).
package daterange

import (
	"strings"
	"time"

	"github.com/dalemusser/menuhub/internal/app/system/apperr"
)

// DayLayout is the calendar-day format used for parsing and for report keys.
const DayLayout = "2006-01-02"

// Range is a closed interval of instants, both in UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

// Days returns the length of the range in whole or partial days.
func (r Range) Days() int {
	d := r.End.Sub(r.Start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Contains reports whether t falls within the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last millisecond of t's UTC day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

func parseBound(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperr.Validationf("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", field)
}

// Parse builds a range from required start and end strings.
func Parse(start, end string) (Range, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return Range{}, apperr.Validation("start and end dates are required")
	}
	return ParseOrDefault(start, end, time.Time{}, 0)
}

// ParseOrDefault builds a range where a missing end defaults to now and a
// missing start defaults to defaultDays before now.
func ParseOrDefault(start, end string, now time.Time, defaultDays int) (Range, error) {
	var r Range
	var err error

	if strings.TrimSpace(start) == "" {
		r.Start = StartOfDay(now.AddDate(0, 0, -defaultDays))
	} else if r.Start, err = parseBound("start", start); err != nil {
		return Range{}, err
	}

	endAt := now.UTC()
	if strings.TrimSpace(end) != "" {
		if endAt, err = parseBound("end", end); err != nil {
			return Range{}, err
		}
	}
	r.End = EndOfDay(endAt)

	if r.Start.After(r.End) {
		return Range{}, apperr.Validation("start must not be after end")
	}
	return r, nil
}

// Check rejects ranges longer than maxDays. maxDays <= 0 disables the check.
func (r Range) Check(maxDays int) error {
	if maxDays > 0 && r.Days() > maxDays {
		return apperr.Validationf("date range must not exceed %d days", maxDays)
	}
	return nil
}
