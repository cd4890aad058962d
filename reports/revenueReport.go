package reports

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/models"
)

// revenue: one row per trip plus window totals and the average fare.
func buildRevenueReport(rep *Report, trips []models.Trip) {
	rep.Columns = []string{"Date", "Transaction", "Bus", "Route", "Payment Method", "Fare"}
	rep.Rows = make([][]any, 0, len(trips))

	var totalRevenue, cashRevenue, qrRevenue decimal.Decimal
	for _, trip := range trips {
		totalRevenue = totalRevenue.Add(trip.Fare)
		if trip.IsQR() {
			qrRevenue = qrRevenue.Add(trip.Fare)
		} else {
			cashRevenue = cashRevenue.Add(trip.Fare)
		}
		rep.Rows = append(rep.Rows, []any{
			models.DayKey(trip.Timestamp),
			trip.TransactionID,
			trip.BusNumber,
			trip.Route(),
			string(trip.PaymentMethod),
			trip.Fare,
		})
	}

	rep.Summary = map[string]any{
		"totalRevenue": totalRevenue,
		"cashRevenue":  cashRevenue,
		"qrRevenue":    qrRevenue,
		"totalTrips":   len(trips),
		"averageFare":  safeAverage(totalRevenue, len(trips)),
	}
}

// safeAverage guards the divide-by-zero: an empty denominator yields 0,
// never NaN or Infinity.
func safeAverage(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}
