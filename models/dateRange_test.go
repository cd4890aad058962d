package models

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

func TestDateRange_DefaultsToTrailing30Days(t *testing.T) {
	start, end, err := DateRange{}.Window()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := end.Sub(start); got != 30*24*time.Hour {
		t.Fatalf("expected 30 day window, got %v", got)
	}
}

func TestDateRange_EndNormalizedToEndOfDay(t *testing.T) {
	from := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)
	start, end, err := DateRange{From: &from, To: &to}.Window()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start not normalized: %v", start)
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("end not normalized to end-of-day: %v", end)
	}
}

func TestDateRange_FromAfterToIsValidationError(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := DateRange{From: &from, To: &to}.Window()
	if !utils.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPreviousWindow_AdjacentEqualLength(t *testing.T) {
	start := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 20, 23, 59, 59, 0, time.UTC)
	prevStart, prevEnd := PreviousWindow(start, end)

	if !prevEnd.Equal(start.Add(-time.Millisecond)) {
		t.Fatalf("previous end should be 1ms before start, got %v", prevEnd)
	}
	if prevEnd.Sub(prevStart) != end.Sub(start) {
		t.Fatalf("previous window duration mismatch: %v vs %v", prevEnd.Sub(prevStart), end.Sub(start))
	}
}
