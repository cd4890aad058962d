package models

import (
	"testing"
	"time"
)

func TestParseMoney_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"₱125.00", "125"},
		{"₱1,234.50", "1234.5"},
		{"150", "150"},
		{"PHP 99.25", "99.25"},
	}
	for _, tc := range cases {
		d := ParseMoney(tc.in)
		if d.String() != tc.expected {
			t.Fatalf("ParseMoney(%q) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestParseMoney_CoercesMalformedToZero(t *testing.T) {
	cases := []string{"N/A", "", "₱", "12.3.4", "-50.00", "₱-125.00"}
	for _, in := range cases {
		if d := ParseMoney(in); !d.IsZero() {
			t.Fatalf("ParseMoney(%q) expected 0, got %s", in, d.String())
		}
	}
}

func TestParseEpochMillis(t *testing.T) {
	ts := ParseEpochMillis("1735689600000")
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("expected %v, got %v", want, ts)
	}
}

func TestParseEpochMillis_FallsBackToNow(t *testing.T) {
	before := time.Now().UTC()
	ts := ParseEpochMillis("not-a-timestamp")
	after := time.Now().UTC()
	if ts.Before(before.Add(-time.Second)) || ts.After(after.Add(time.Second)) {
		t.Fatalf("expected fallback near now, got %v", ts)
	}
}
