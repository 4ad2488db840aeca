// Package period implements the 16th-to-15th pay period arithmetic.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// PeriodStartRule generates the first day of every pay period
const PeriodStartRule = "FREQ=MONTHLY;BYMONTHDAY=16"

const (
	startDay = 16
	endDay   = 15
)

var monthAbbrev = []string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Period is a pay period running from the 16th of one month to the 15th of the next
type Period struct {
	Start time.Time
	End   time.Time
}

// Label renders the period as "16 jan 2025 – 15 fev 2025"
func (p Period) Label() string {
	return fmt.Sprintf("%s – %s", formatDay(p.Start), formatDay(p.End))
}

// Contains reports whether d falls inside the period (inclusive)
func (p Period) Contains(d time.Time) bool {
	d = Date(d)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns every date of the period
func (p Period) Days() []time.Time {
	return Days(p.Start, p.End)
}

func formatDay(d time.Time) string {
	return fmt.Sprintf("%d %s %d", d.Day(), monthAbbrev[d.Month()-1], d.Year())
}

// Date truncates t to a civil date at midnight UTC
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// For returns the pay period containing ref
func For(ref time.Time) Period {
	ref = Date(ref)
	start := time.Date(ref.Year(), ref.Month(), startDay, 0, 0, 0, 0, time.UTC)
	if ref.Day() < startDay {
		start = start.AddDate(0, -1, 0)
	}
	return Period{Start: start, End: endOf(start)}
}

// endOf returns day 15 of the month following start
func endOf(start time.Time) time.Time {
	return time.Date(start.Year(), start.Month()+1, endDay, 0, 0, 0, 0, time.UTC)
}

// ListRecent returns n periods, most recent first, starting with the one containing ref
func ListRecent(ref time.Time, n int) ([]Period, error) {
	if n <= 0 {
		return []Period{}, nil
	}

	current := For(ref)
	oldest := current.Start.AddDate(0, -(n - 1), 0)

	rule, err := rrule.StrToRRule(PeriodStartRule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse period rule: %w", err)
	}
	rule.DTStart(oldest)

	starts := rule.Between(oldest, current.Start, true)
	if len(starts) != n {
		return nil, fmt.Errorf("expected %d period starts, got %d", n, len(starts))
	}

	periods := make([]Period, 0, n)
	for i := len(starts) - 1; i >= 0; i-- {
		start := Date(starts[i])
		periods = append(periods, Period{Start: start, End: endOf(start)})
	}
	return periods, nil
}

// Days returns every date from start to end inclusive. The result is empty when end < start.
func Days(start, end time.Time) []time.Time {
	start, end = Date(start), Date(end)
	if end.Before(start) {
		return []time.Time{}
	}

	n := int(end.Sub(start).Hours()/24) + 1
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MinimumFillable returns the earliest date that may still be edited on ref:
// the start of the period containing ref
func MinimumFillable(ref time.Time) time.Time {
	return For(ref).Start
}

// Clamp moves d forward to the minimum fillable date when it lies in a closed period
func Clamp(d, ref time.Time) time.Time {
	d = Date(d)
	minDate := MinimumFillable(ref)
	if d.Before(minDate) {
		return minDate
	}
	return d
}

// ParseDate accepts ISO (2006-01-02) and Brazilian (02/01/2006) dates
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or DD/MM/YYYY)", s)
}

// ISO formats a date as used for grid column keys
func ISO(d time.Time) string {
	return d.Format("2006-01-02")
}
