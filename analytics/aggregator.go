// Package analytics turns a time-bounded set of trips into a revenue/traffic
// snapshot and compares it against the immediately-preceding window of
// identical duration.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/config"
	"bitbucket.org/mmdatafocus/busops_backend/models"
	"bitbucket.org/mmdatafocus/busops_backend/store"
)

type Aggregator struct {
	rs   store.RecordStore
	cols config.CollectionConfig
}

func NewAggregator(rs store.RecordStore, cols config.CollectionConfig) *Aggregator {
	return &Aggregator{rs: rs, cols: cols}
}

type RouteCount struct {
	Route string `json:"route"`
	Count int    `json:"count"`
}

type BusCount struct {
	BusNumber string `json:"busNumber"`
	Count     int    `json:"count"`
}

type DailyRevenue struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type Snapshot struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	QRRevenue         decimal.Decimal `json:"qrRevenue"`
	CashRevenue       decimal.Decimal `json:"cashRevenue"`
	TotalTrips        int             `json:"totalTrips"`
	TopRoutes         []RouteCount    `json:"topRoutes"`
	TopBuses          []BusCount      `json:"topBuses"`
	DailyRevenueData  []DailyRevenue  `json:"dailyRevenueData"`
	RevenueChange     float64         `json:"revenueChange"`
	TripsChange       float64         `json:"tripsChange"`
	QRRevenueChange   float64         `json:"qrRevenueChange"`
	CashRevenueChange float64         `json:"cashRevenueChange"`
}

const topN = 5

// Snapshot aggregates the window and enriches it with period-over-period
// deltas. A store failure fetching the previous window never blocks primary
// reporting: the comparison falls back to an all-zero previous period.
func (a *Aggregator) Snapshot(ctx context.Context, dr models.DateRange) (*Snapshot, error) {
	start, end, err := dr.Window()
	if err != nil {
		return nil, err
	}

	trips, err := a.fetchTrips(ctx, start, end)
	if err != nil {
		return nil, err
	}
	current := reduce(trips)

	prevStart, prevEnd := models.PreviousWindow(start, end)
	previous := reduction{}
	if prevTrips, prevErr := a.fetchTrips(ctx, prevStart, prevEnd); prevErr != nil {
		config.LogError(config.GetLogger(), "analytics", "Snapshot",
			"previous period fetch failed, comparing against zero", prevStart, prevErr)
	} else {
		previous = reduce(prevTrips)
	}

	snap := current.snapshot()
	snap.RevenueChange = PercentageChange(current.totalRevenue, previous.totalRevenue)
	snap.TripsChange = PercentageChange(decimal.NewFromInt(int64(current.totalTrips)), decimal.NewFromInt(int64(previous.totalTrips)))
	snap.QRRevenueChange = PercentageChange(current.qrRevenue, previous.qrRevenue)
	snap.CashRevenueChange = PercentageChange(current.cashRevenue, previous.cashRevenue)
	return snap, nil
}

func (a *Aggregator) fetchTrips(ctx context.Context, start, end time.Time) ([]models.Trip, error) {
	docs, err := store.ScanAll(ctx, a.rs, a.cols.Trips, store.Query{
		RangeField: "timestamp",
		GTE:        store.Int64Ptr(start.UnixMilli()),
		LTE:        store.Int64Ptr(end.UnixMilli()),
	})
	if err != nil {
		return nil, err
	}
	return models.TripsFromDocuments(docs), nil
}

// PercentageChange follows the dashboard rule: previous 0 means 100% when
// anything appeared, 0% when nothing did.
func PercentageChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	change, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
	return change
}

// reduction accumulates one pass over the window's trips. Route and bus
// counters keep their first-encounter order so top-N ties break the way the
// records arrived.
type reduction struct {
	totalRevenue decimal.Decimal
	qrRevenue    decimal.Decimal
	cashRevenue  decimal.Decimal
	totalTrips   int
	routeOrder   []string
	routeCounts  map[string]int
	busOrder     []string
	busCounts    map[string]int
	dailyRevenue map[string]decimal.Decimal
}

func reduce(trips []models.Trip) reduction {
	r := reduction{
		routeCounts:  map[string]int{},
		busCounts:    map[string]int{},
		dailyRevenue: map[string]decimal.Decimal{},
	}
	for _, trip := range trips {
		r.totalTrips++
		r.totalRevenue = r.totalRevenue.Add(trip.Fare)
		if trip.IsQR() {
			r.qrRevenue = r.qrRevenue.Add(trip.Fare)
		} else {
			r.cashRevenue = r.cashRevenue.Add(trip.Fare)
		}

		route := trip.Route()
		if _, seen := r.routeCounts[route]; !seen {
			r.routeOrder = append(r.routeOrder, route)
		}
		r.routeCounts[route]++

		if _, seen := r.busCounts[trip.BusNumber]; !seen {
			r.busOrder = append(r.busOrder, trip.BusNumber)
		}
		r.busCounts[trip.BusNumber]++

		day := models.DayKey(trip.Timestamp)
		r.dailyRevenue[day] = r.dailyRevenue[day].Add(trip.Fare)
	}
	return r
}

func (r reduction) snapshot() *Snapshot {
	snap := &Snapshot{
		TotalRevenue:     r.totalRevenue,
		QRRevenue:        r.qrRevenue,
		CashRevenue:      r.cashRevenue,
		TotalTrips:       r.totalTrips,
		TopRoutes:        []RouteCount{},
		TopBuses:         []BusCount{},
		DailyRevenueData: []DailyRevenue{},
	}

	for _, route := range topKeys(r.routeOrder, r.routeCounts) {
		snap.TopRoutes = append(snap.TopRoutes, RouteCount{Route: route, Count: r.routeCounts[route]})
	}
	for _, bus := range topKeys(r.busOrder, r.busCounts) {
		snap.TopBuses = append(snap.TopBuses, BusCount{BusNumber: bus, Count: r.busCounts[bus]})
	}

	days := make([]string, 0, len(r.dailyRevenue))
	for day := range r.dailyRevenue {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		snap.DailyRevenueData = append(snap.DailyRevenueData, DailyRevenue{Date: day, Amount: r.dailyRevenue[day]})
	}
	return snap
}

// topKeys sorts encounter-ordered keys descending by count and truncates to
// topN. The stable sort keeps encounter order for equal counts.
func topKeys(order []string, counts map[string]int) []string {
	keys := append([]string(nil), order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return counts[keys[i]] > counts[keys[j]]
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}
	return keys
}
