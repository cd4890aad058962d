package models

import (
	"time"

	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

// DateRange is the {from?, to?} input every aggregation takes. Both sides are
// optional; the default is the trailing 30 days ending now.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

const defaultWindowDays = 30

// Window resolves the concrete [start, end] reconciliation window. The end is
// inclusive and normalized to end-of-day; from > to is a validation error.
func (dr DateRange) Window() (time.Time, time.Time, error) {
	now := time.Now().UTC()

	var end time.Time
	if dr.To != nil {
		end = endOfDay(dr.To.UTC())
	} else {
		end = now
	}

	var start time.Time
	if dr.From != nil {
		start = startOfDay(dr.From.UTC())
	} else {
		start = end.AddDate(0, 0, -defaultWindowDays)
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, utils.NewValidationError("dateRange", "from is after to")
	}
	return start, end, nil
}

// PreviousWindow is the immediately-preceding window of identical duration:
// it ends 1ms before start and spans end-start.
func PreviousWindow(start, end time.Time) (time.Time, time.Time) {
	prevEnd := start.Add(-time.Millisecond)
	prevStart := prevEnd.Add(-end.Sub(start))
	return prevStart, prevEnd
}

// DayKey buckets a timestamp into its UTC calendar day.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}
