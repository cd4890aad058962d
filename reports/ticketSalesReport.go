package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/models"
)

// tickets: day-bucketed sales counts and revenue, ascending by date.
func buildTicketSalesReport(rep *Report, trips []models.Trip) {
	rep.Columns = []string{"Date", "Tickets Sold", "Revenue"}

	type dayTotals struct {
		tickets int
		revenue decimal.Decimal
	}
	byDay := map[string]*dayTotals{}
	var totalRevenue decimal.Decimal
	for _, trip := range trips {
		day := models.DayKey(trip.Timestamp)
		totals, ok := byDay[day]
		if !ok {
			totals = &dayTotals{}
			byDay[day] = totals
		}
		totals.tickets++
		totals.revenue = totals.revenue.Add(trip.Fare)
		totalRevenue = totalRevenue.Add(trip.Fare)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	rep.Rows = make([][]any, 0, len(days))
	for _, day := range days {
		rep.Rows = append(rep.Rows, []any{day, byDay[day].tickets, byDay[day].revenue})
	}

	averagePerDay := decimal.Zero
	if len(days) > 0 {
		averagePerDay = decimal.NewFromInt(int64(len(trips))).
			Div(decimal.NewFromInt(int64(len(days)))).Round(2)
	}
	rep.Summary = map[string]any{
		"totalTickets":         len(trips),
		"totalRevenue":         totalRevenue,
		"averageTicketsPerDay": averagePerDay,
	}
}
