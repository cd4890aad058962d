package models

import (
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/store"
)

// Trip is one completed fare-paying ride. Trips are written by the
// conductor-facing system and are read-only here.
type Trip struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	Fare          decimal.Decimal `json:"fare"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	BusNumber     string          `json:"busNumber"`
	ConductorID   string          `json:"conductorId"`
	PassengerName string          `json:"passengerName"`
	TransactionID string          `json:"transactionId"`
}

func TripFromDocument(doc store.RawDocument) Trip {
	return Trip{
		ID:            doc.ID,
		Timestamp:     ParseEpochMillis(doc.Field("timestamp")),
		Fare:          ParseMoney(doc.Field("fare")),
		PaymentMethod: NormalizePaymentMethod(doc.Field("paymentMethod")),
		From:          doc.Field("from"),
		To:            doc.Field("to"),
		BusNumber:     doc.Field("busNumber"),
		ConductorID:   doc.Field("conductorId"),
		PassengerName: doc.Field("passengerName"),
		TransactionID: doc.Field("transactionId"),
	}
}

func TripsFromDocuments(docs []store.RawDocument) []Trip {
	trips := make([]Trip, 0, len(docs))
	for _, doc := range docs {
		trips = append(trips, TripFromDocument(doc))
	}
	return trips
}

// Route renders the free-text endpoints the way the dashboard displays them.
func (t Trip) Route() string {
	return t.From + " - " + t.To
}

func (t Trip) IsQR() bool {
	return t.PaymentMethod == PaymentMethodQR
}
