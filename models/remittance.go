package models

import (
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/store"
)

// RemittanceRecord tracks cash handed over by a conductor until an admin
// verifies it. The store keeps exactly one live record per bus; a status
// change overwrites the previous one in place.
type RemittanceRecord struct {
	ID          string           `json:"id"`
	BusID       string           `json:"busId"`
	BusNumber   string           `json:"busNumber"`
	ConductorID string           `json:"conductorId"`
	Status      RemittanceStatus `json:"status"`
	Amount      decimal.Decimal  `json:"amount"`
	Notes       string           `json:"notes"`
	Timestamp   time.Time        `json:"timestamp"`
	VerifiedAt  *time.Time       `json:"verifiedAt,omitempty"`
}

func RemittanceFromDocument(doc store.RawDocument) RemittanceRecord {
	rec := RemittanceRecord{
		ID:          doc.ID,
		BusID:       doc.Field("busId"),
		BusNumber:   doc.Field("busNumber"),
		ConductorID: doc.Field("conductorId"),
		Status:      RemittanceStatus(doc.Field("status")),
		Amount:      ParseMoney(doc.Field("amount")),
		Notes:       doc.Field("notes"),
		Timestamp:   ParseEpochMillis(doc.Field("timestamp")),
	}
	if rec.Status != RemittanceStatusPending && rec.Status != RemittanceStatusRemitted {
		rec.Status = RemittanceStatusPending
	}
	if raw := doc.Field("verifiedAt"); raw != "" {
		t := ParseEpochMillis(raw)
		rec.VerifiedAt = &t
	}
	return rec
}

// Fields serializes the record back into store-typed string fields.
func (r RemittanceRecord) Fields() map[string]string {
	fields := map[string]string{
		"busId":       r.BusID,
		"busNumber":   r.BusNumber,
		"conductorId": r.ConductorID,
		"status":      string(r.Status),
		"amount":      r.Amount.String(),
		"notes":       r.Notes,
		"timestamp":   FormatEpochMillis(r.Timestamp),
	}
	if r.VerifiedAt != nil {
		fields["verifiedAt"] = FormatEpochMillis(*r.VerifiedAt)
	} else {
		fields["verifiedAt"] = ""
	}
	return fields
}
