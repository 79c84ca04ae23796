package gallery

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order; only the calendar day is kept
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// DayParser parses request dates into calendar days in a fixed location.
type DayParser struct {
	loc *time.Location
}

// NewDayParser creates a parser that interprets days in loc (UTC when nil)
func NewDayParser(loc *time.Location) *DayParser {
	if loc == nil {
		loc = time.UTC
	}
	return &DayParser{loc: loc}
}

// Parse returns the start of the day named by value
func (p *DayParser) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, value, p.loc)
		if err == nil {
			return StartOfDay(t.In(p.loc)), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q (expected YYYY-MM-DD)", value)
}

// StartOfDay truncates t to 00:00:00 in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
