package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	MonthLayout    = "2006-01"
)

// Period is the reporting interval of a single run. Both ends are inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod validates that end does not precede start
func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("period end %s is before start %s",
			end.Format(DateTimeLayout), start.Format(DateTimeLayout))
	}
	return Period{Start: start, End: end}, nil
}

// ParsePeriod parses literal start/end values. A bare date starts at 00:00:00 when
// used as the start and ends at 23:59:59 when used as the end.
func ParsePeriod(start, end string) (Period, error) {
	s, err := ParseTimestamp(start, false)
	if err != nil {
		return Period{}, fmt.Errorf("invalid start: %w", err)
	}
	e, err := ParseTimestamp(end, true)
	if err != nil {
		return Period{}, fmt.Errorf("invalid end: %w", err)
	}
	return NewPeriod(s, e)
}

// MonthPeriod returns the full calendar month
func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return Period{Start: start, End: end}
}

// PreviousMonth is the last full calendar month before now
func PreviousMonth(now time.Time) Period {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return MonthPeriod(first.Year(), first.Month())
}

// ParseMonth parses YYYY-MM into the full calendar month
func ParseMonth(s string) (Period, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return MonthPeriod(t.Year(), t.Month()), nil
}

// ParseTimestamp accepts "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS".
func ParseTimestamp(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) <= len(DateLayout) {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return time.Time{}, err
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t, nil
	}
	return time.Parse(DateTimeLayout, s)
}

// Naive drops the location of t while keeping its wall clock. The maintenance
// database stores local timestamps without zone information.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// YearMonth is the month column the report is filtered to
func (p Period) YearMonth() string {
	return p.Start.Format(MonthLayout)
}

func (p Period) String() string {
	return p.Start.Format(DateTimeLayout) + " - " + p.End.Format(DateTimeLayout)
}
