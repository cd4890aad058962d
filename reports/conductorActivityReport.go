package reports

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/models"
)

// users: per-conductor trip counts and revenue, joined against the Users
// collection for display names. Unresolved conductor ids render as "Unknown".
func buildConductorActivityReport(rep *Report, trips []models.Trip, names map[string]string) {
	rep.Columns = []string{"Conductor", "Trips", "Revenue", "Average Revenue Per Trip"}

	type conductorTotals struct {
		trips   int
		revenue decimal.Decimal
	}
	var order []string
	byConductor := map[string]*conductorTotals{}
	var totalRevenue decimal.Decimal
	for _, trip := range trips {
		totals, ok := byConductor[trip.ConductorID]
		if !ok {
			totals = &conductorTotals{}
			byConductor[trip.ConductorID] = totals
			order = append(order, trip.ConductorID)
		}
		totals.trips++
		totals.revenue = totals.revenue.Add(trip.Fare)
		totalRevenue = totalRevenue.Add(trip.Fare)
	}

	rep.Rows = make([][]any, 0, len(order))
	for _, conductorID := range order {
		totals := byConductor[conductorID]
		name := names[conductorID]
		if name == "" {
			name = "Unknown"
		}
		rep.Rows = append(rep.Rows, []any{
			name,
			totals.trips,
			totals.revenue,
			safeAverage(totals.revenue, totals.trips),
		})
	}

	rep.Summary = map[string]any{
		"totalConductors": len(order),
		"totalRevenue":    totalRevenue,
	}
}
