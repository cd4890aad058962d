package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusRevenueAggregate is the per-(bus, conductor) revenue summary for one
// reconciliation window, with the remittance state overlaid. Derived fresh on
// every query, never persisted.
type BusRevenueAggregate struct {
	BusNumber             string           `json:"busNumber"`
	ConductorID           string           `json:"conductorId"`
	QRRevenue             decimal.Decimal  `json:"qrRevenue"`
	CashRevenue           decimal.Decimal  `json:"cashRevenue"`
	TotalRevenue          decimal.Decimal  `json:"totalRevenue"`
	TripCount             int              `json:"tripCount"`
	RemittanceStatus      RemittanceStatus `json:"remittanceStatus"`
	RemittanceAmount      decimal.Decimal  `json:"remittanceAmount"`
	RemittanceNotes       string           `json:"remittanceNotes"`
	VerificationTimestamp *time.Time       `json:"verificationTimestamp,omitempty"`
}
