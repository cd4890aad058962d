package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/config"
	"bitbucket.org/mmdatafocus/busops_backend/models"
	"bitbucket.org/mmdatafocus/busops_backend/store"
	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

var testCols = config.CollectionConfig{
	Trips:       "trips",
	Remittances: "remittances",
	Buses:       "buses",
	Users:       "users",
}

func seedTrip(t *testing.T, rs store.RecordStore, ts time.Time, fare, method, from, to, bus, conductor string) {
	t.Helper()
	_, err := rs.Create(context.Background(), testCols.Trips, "", map[string]string{
		"timestamp":     models.FormatEpochMillis(ts),
		"fare":          fare,
		"paymentMethod": method,
		"from":          from,
		"to":            to,
		"busNumber":     bus,
		"conductorId":   conductor,
	})
	if err != nil {
		t.Fatalf("seed trip: %v", err)
	}
}

func dayRange(day time.Time) models.DateRange {
	from := day
	to := day
	return models.DateRange{From: &from, To: &to}
}

func TestPercentageChange(t *testing.T) {
	cases := []struct {
		current  int64
		previous int64
		expected float64
	}{
		{0, 0, 0},
		{50, 0, 100},
		{150, 100, 50},
		{50, 100, -50},
	}
	for _, tc := range cases {
		got := PercentageChange(decimal.NewFromInt(tc.current), decimal.NewFromInt(tc.previous))
		if got != tc.expected {
			t.Fatalf("PercentageChange(%d, %d) expected %v, got %v", tc.current, tc.previous, tc.expected, got)
		}
	}
}

func TestSnapshot_RevenueScenario(t *testing.T) {
	rs := store.NewMemoryStore()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	seedTrip(t, rs, day, "₱100.00", "QR", "Cubao", "Baguio", "BUS-001", "cond-1")
	seedTrip(t, rs, day.Add(time.Hour), "₱50.00", "CASH", "Cubao", "Baguio", "BUS-001", "cond-1")

	snap, err := NewAggregator(rs, testCols).Snapshot(context.Background(), dayRange(day))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !snap.TotalRevenue.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("totalRevenue expected 150, got %s", snap.TotalRevenue)
	}
	if !snap.QRRevenue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("qrRevenue expected 100, got %s", snap.QRRevenue)
	}
	if !snap.CashRevenue.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("cashRevenue expected 50, got %s", snap.CashRevenue)
	}
	if snap.TotalTrips != 2 {
		t.Fatalf("totalTrips expected 2, got %d", snap.TotalTrips)
	}
	if !snap.TotalRevenue.Equal(snap.QRRevenue.Add(snap.CashRevenue)) {
		t.Fatalf("totalRevenue != qrRevenue + cashRevenue")
	}
	if len(snap.DailyRevenueData) != 1 || snap.DailyRevenueData[0].Date != "2025-03-10" {
		t.Fatalf("unexpected daily buckets: %+v", snap.DailyRevenueData)
	}
	// Empty previous window with a non-empty current one reads as +100%.
	if snap.RevenueChange != 100 || snap.TripsChange != 100 {
		t.Fatalf("expected 100%% deltas, got %v / %v", snap.RevenueChange, snap.TripsChange)
	}
}

func TestSnapshot_MalformedFareCountsTripButNotRevenue(t *testing.T) {
	rs := store.NewMemoryStore()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	seedTrip(t, rs, day, "N/A", "CASH", "Pasay", "Batangas", "BUS-002", "cond-2")

	snap, err := NewAggregator(rs, testCols).Snapshot(context.Background(), dayRange(day))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snap.TotalRevenue.IsZero() || !snap.CashRevenue.IsZero() {
		t.Fatalf("malformed fare should contribute 0, got %s total", snap.TotalRevenue)
	}
	if snap.TotalTrips != 1 {
		t.Fatalf("malformed fare should still count the trip, got %d", snap.TotalTrips)
	}
}

func TestSnapshot_TopRoutesTruncatedWithEncounterOrderTies(t *testing.T) {
	rs := store.NewMemoryStore()
	day := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

	// Route A dominates; B..G tie at one trip each in encounter order.
	for i := 0; i < 3; i++ {
		seedTrip(t, rs, day.Add(time.Duration(i)*time.Minute), "₱10.00", "CASH", "A", "A'", "BUS-001", "c1")
	}
	for i, name := range []string{"B", "C", "D", "E", "F", "G"} {
		seedTrip(t, rs, day.Add(time.Hour+time.Duration(i)*time.Minute), "₱10.00", "CASH", name, name+"'", "BUS-001", "c1")
	}

	snap, err := NewAggregator(rs, testCols).Snapshot(context.Background(), dayRange(day))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.TopRoutes) != 5 {
		t.Fatalf("topRoutes expected 5 entries, got %d", len(snap.TopRoutes))
	}
	if snap.TopRoutes[0].Route != "A - A'" || snap.TopRoutes[0].Count != 3 {
		t.Fatalf("unexpected leader: %+v", snap.TopRoutes[0])
	}
	for i, want := range []string{"B - B'", "C - C'", "D - D'", "E - E'"} {
		if snap.TopRoutes[i+1].Route != want {
			t.Fatalf("tie order broken at %d: expected %s, got %s", i+1, want, snap.TopRoutes[i+1].Route)
		}
	}
}

func TestSnapshot_EmptyWindow(t *testing.T) {
	rs := store.NewMemoryStore()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	snap, err := NewAggregator(rs, testCols).Snapshot(context.Background(), dayRange(day))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TotalTrips != 0 || !snap.TotalRevenue.IsZero() {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
	if len(snap.TopRoutes) != 0 || len(snap.TopBuses) != 0 || len(snap.DailyRevenueData) != 0 {
		t.Fatalf("expected empty collections, got %+v", snap)
	}
	if snap.RevenueChange != 0 || snap.TripsChange != 0 {
		t.Fatalf("zero against zero should be 0%%, got %v / %v", snap.RevenueChange, snap.TripsChange)
	}
}

// previousFailingStore errors on any window that starts before the cutoff,
// which is how the previous-period fetch looks to the aggregator.
type previousFailingStore struct {
	store.RecordStore
	cutoff int64
}

func (s *previousFailingStore) List(ctx context.Context, collection string, q store.Query) ([]store.RawDocument, error) {
	if q.GTE != nil && *q.GTE < s.cutoff {
		return nil, fmt.Errorf("simulated outage")
	}
	return s.RecordStore.List(ctx, collection, q)
}

func TestSnapshot_PreviousPeriodFailureFallsBackToZero(t *testing.T) {
	mem := store.NewMemoryStore()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	seedTrip(t, mem, day, "₱200.00", "QR", "Cubao", "Baguio", "BUS-001", "cond-1")

	rs := &previousFailingStore{
		RecordStore: mem,
		cutoff:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).UnixMilli(),
	}

	snap, err := NewAggregator(rs, testCols).Snapshot(context.Background(), dayRange(day))
	if err != nil {
		t.Fatalf("primary reporting must survive a comparison-period outage: %v", err)
	}
	if !snap.TotalRevenue.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("current figures corrupted: %s", snap.TotalRevenue)
	}
	if snap.RevenueChange != 100 {
		t.Fatalf("fallback previous should be all-zero, got change %v", snap.RevenueChange)
	}
}

func TestSnapshot_InvalidRangeRejected(t *testing.T) {
	rs := store.NewMemoryStore()
	from := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := NewAggregator(rs, testCols).Snapshot(context.Background(), models.DateRange{From: &from, To: &to})
	if !utils.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
