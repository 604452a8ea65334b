// Package businessday defines the calendar-day boundaries used for order
// numbering, day close and reporting. A business day is a local calendar
// day identified by its "YYYY-MM-DD" string.
package businessday

import (
	"fmt"
	"time"
)

// Layout is the canonical date format for business days.
const Layout = "2006-01-02"

// Date identifies one local calendar day as "YYYY-MM-DD".
type Date string

// Clock abstracts time.Now so day boundaries are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ZoneClock reports the wrapped clock's time in a fixed location, so
// Today tracks the configured business-day timezone rather than the
// zone the wrapped clock happens to run in.
type ZoneClock struct {
	Clock Clock
	Loc   *time.Location
}

func (c ZoneClock) Now() time.Time { return c.Clock.Now().In(c.Loc) }

// FromTime returns the Date of t in t's location.
func FromTime(t time.Time) Date {
	return Date(t.Format(Layout))
}

// Today returns the current Date according to clock.
func Today(clock Clock) Date {
	return FromTime(clock.Now())
}

// Parse validates s as a "YYYY-MM-DD" date in loc.
func Parse(s string, loc *time.Location) (Date, error) {
	if _, err := time.ParseInLocation(Layout, s, loc); err != nil {
		return "", fmt.Errorf("parse business day %q: %w", s, err)
	}
	return Date(s), nil
}

func (d Date) String() string { return string(d) }

// Start returns the first instant of the day in loc.
func (d Date) Start(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, string(d), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("business day %q: %w", d, err)
	}
	return t, nil
}

// Range returns the inclusive millisecond timestamps covering the whole
// day in loc: [00:00:00.000, 23:59:59.999]. Timestamps stored per order
// are compared against this closed interval.
func (d Date) Range(loc *time.Location) (startMs, endMs int64, err error) {
	start, err := d.Start(loc)
	if err != nil {
		return 0, 0, err
	}
	// AddDate handles DST transitions; the last covered millisecond is
	// one short of the next day's start.
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start.UnixMilli(), end.UnixMilli(), nil
}

// AddDays returns the Date n days after d in loc.
func (d Date) AddDays(n int, loc *time.Location) (Date, error) {
	start, err := d.Start(loc)
	if err != nil {
		return "", err
	}
	return FromTime(start.AddDate(0, 0, n)), nil
}

// Before reports whether d sorts before other. The "YYYY-MM-DD" layout
// makes lexicographic and chronological order identical.
func (d Date) Before(other Date) bool { return string(d) < string(other) }

// Days enumerates every Date from start to end inclusive.
func Days(start, end Date, loc *time.Location) ([]Date, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s before start %s", end, start)
	}
	var out []Date
	for d := start; !end.Before(d); {
		out = append(out, d)
		next, err := d.AddDays(1, loc)
		if err != nil {
			return nil, err
		}
		d = next
	}
	return out, nil
}
