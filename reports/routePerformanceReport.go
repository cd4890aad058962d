package reports

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/models"
)

// routes: per-route trip counts, revenue and average fare. The most popular
// and highest revenue routes are computed independently, so they may differ.
func buildRoutePerformanceReport(rep *Report, trips []models.Trip) {
	rep.Columns = []string{"Route", "Trips", "Revenue", "Average Fare"}

	type routeTotals struct {
		trips   int
		revenue decimal.Decimal
	}
	var order []string
	byRoute := map[string]*routeTotals{}
	for _, trip := range trips {
		route := trip.Route()
		totals, ok := byRoute[route]
		if !ok {
			totals = &routeTotals{}
			byRoute[route] = totals
			order = append(order, route)
		}
		totals.trips++
		totals.revenue = totals.revenue.Add(trip.Fare)
	}

	mostPopular := "N/A"
	highestRevenue := "N/A"
	bestCount := 0
	bestRevenue := decimal.Zero
	rep.Rows = make([][]any, 0, len(order))
	for _, route := range order {
		totals := byRoute[route]
		rep.Rows = append(rep.Rows, []any{
			route,
			totals.trips,
			totals.revenue,
			safeAverage(totals.revenue, totals.trips),
		})
		if totals.trips > bestCount {
			bestCount = totals.trips
			mostPopular = route
		}
		if totals.revenue.GreaterThan(bestRevenue) {
			bestRevenue = totals.revenue
			highestRevenue = route
		}
	}

	rep.Summary = map[string]any{
		"totalRoutes":         len(order),
		"mostPopularRoute":    mostPopular,
		"highestRevenueRoute": highestRevenue,
	}
}
