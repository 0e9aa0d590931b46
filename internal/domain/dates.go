package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical YYYY-MM-DD form used in storage and APIs
	DateLayout = "2006-01-02"
	// CompactDateLayout is the YYYYMMDD form used in snapshot column qualifiers and file names
	CompactDateLayout = "20060102"
)

// ParseDate parses YYYY-MM-DD or YYYYMMDD into midnight of that day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	layout := DateLayout
	if len(s) == len(CompactDateLayout) && !strings.Contains(s, "-") {
		layout = CompactDateLayout
	}
	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey formats t as YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// CompactDate formats t as YYYYMMDD
func CompactDate(t time.Time) string {
	return t.Format(CompactDateLayout)
}
