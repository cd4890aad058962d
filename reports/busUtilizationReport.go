package reports

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/models"
)

// buses: per-bus trip counts, revenue and the cardinality of distinct
// conductors observed in-window.
func buildBusUtilizationReport(rep *Report, trips []models.Trip) {
	rep.Columns = []string{"Bus", "Trips", "Revenue", "Conductors", "Average Revenue Per Trip"}

	type busTotals struct {
		trips      int
		revenue    decimal.Decimal
		conductors map[string]struct{}
	}
	var order []string
	byBus := map[string]*busTotals{}
	for _, trip := range trips {
		totals, ok := byBus[trip.BusNumber]
		if !ok {
			totals = &busTotals{conductors: map[string]struct{}{}}
			byBus[trip.BusNumber] = totals
			order = append(order, trip.BusNumber)
		}
		totals.trips++
		totals.revenue = totals.revenue.Add(trip.Fare)
		totals.conductors[trip.ConductorID] = struct{}{}
	}

	mostUtilized := "N/A"
	bestCount := 0
	rep.Rows = make([][]any, 0, len(order))
	for _, bus := range order {
		totals := byBus[bus]
		rep.Rows = append(rep.Rows, []any{
			bus,
			totals.trips,
			totals.revenue,
			len(totals.conductors),
			safeAverage(totals.revenue, totals.trips),
		})
		if totals.trips > bestCount {
			bestCount = totals.trips
			mostUtilized = bus
		}
	}

	rep.Summary = map[string]any{
		"totalBuses":      len(order),
		"mostUtilizedBus": mostUtilized,
	}
}
