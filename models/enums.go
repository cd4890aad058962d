package models

import "fmt"

type PaymentMethod string

const (
	PaymentMethodQR   PaymentMethod = "QR"
	PaymentMethodCash PaymentMethod = "CASH"
)

// NormalizePaymentMethod treats anything that is not exactly "QR" as cash:
// the conductor app has shipped several non-QR labels over time.
func NormalizePaymentMethod(raw string) PaymentMethod {
	if raw == string(PaymentMethodQR) {
		return PaymentMethodQR
	}
	return PaymentMethodCash
}

type RemittanceStatus string

const (
	RemittanceStatusNone     RemittanceStatus = "none"
	RemittanceStatusPending  RemittanceStatus = "pending"
	RemittanceStatusRemitted RemittanceStatus = "remitted"
)

type ReportKind string

const (
	ReportKindRevenue ReportKind = "revenue"
	ReportKindTickets ReportKind = "tickets"
	ReportKindRoutes  ReportKind = "routes"
	ReportKindBuses   ReportKind = "buses"
	ReportKindUsers   ReportKind = "users"
)

func ParseReportKind(raw string) (ReportKind, error) {
	switch ReportKind(raw) {
	case ReportKindRevenue, ReportKindTickets, ReportKindRoutes, ReportKindBuses, ReportKindUsers:
		return ReportKind(raw), nil
	default:
		return "", fmt.Errorf("%q", raw)
	}
}
