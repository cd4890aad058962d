// Package remittance tracks physical cash handed over by bus conductors
// until an administrator verifies it. Revenue is always re-derived from raw
// trips per query; only RemittanceRecords are ever written, and only here.
package remittance

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/busops_backend/config"
	"bitbucket.org/mmdatafocus/busops_backend/models"
	"bitbucket.org/mmdatafocus/busops_backend/store"
	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

type Ledger struct {
	rs       store.RecordStore
	cols     config.CollectionConfig
	validate *validator.Validate
}

func NewLedger(rs store.RecordStore, cols config.CollectionConfig) *Ledger {
	return &Ledger{rs: rs, cols: cols, validate: validator.New()}
}

// Decision is the administrator's verification input. The UI validates too,
// but the ledger re-validates: a malformed amount must never reach the store.
type Decision struct {
	Remitted bool    `json:"remitted"`
	Amount   float64 `json:"amount" validate:"gte=0"`
	Notes    string  `json:"notes"`
}

// ListBusRevenue enumerates the distinct (busNumber, conductorId) pairs
// observed in the window, sums qr/cash/total revenue per pair and overlays
// the remittance status. Pairs without a record default to pending when cash
// was collected, none otherwise.
func (l *Ledger) ListBusRevenue(ctx context.Context, dr models.DateRange) ([]models.BusRevenueAggregate, error) {
	start, end, err := dr.Window()
	if err != nil {
		return nil, err
	}

	tripDocs, err := store.ScanAll(ctx, l.rs, l.cols.Trips, rangeQuery(start, end))
	if err != nil {
		return nil, err
	}

	type key struct{ busNumber, conductorID string }
	var order []key
	byKey := map[key]*models.BusRevenueAggregate{}
	for _, trip := range models.TripsFromDocuments(tripDocs) {
		k := key{trip.BusNumber, trip.ConductorID}
		agg, ok := byKey[k]
		if !ok {
			agg = &models.BusRevenueAggregate{
				BusNumber:   trip.BusNumber,
				ConductorID: trip.ConductorID,
			}
			byKey[k] = agg
			order = append(order, k)
		}
		agg.TripCount++
		agg.TotalRevenue = agg.TotalRevenue.Add(trip.Fare)
		if trip.IsQR() {
			agg.QRRevenue = agg.QRRevenue.Add(trip.Fare)
		} else {
			agg.CashRevenue = agg.CashRevenue.Add(trip.Fare)
		}
	}

	remDocs, err := store.ScanAll(ctx, l.rs, l.cols.Remittances, rangeQuery(start, end))
	if err != nil {
		return nil, err
	}
	latest := map[key]models.RemittanceRecord{}
	for _, doc := range remDocs {
		rec := models.RemittanceFromDocument(doc)
		k := key{rec.BusNumber, rec.ConductorID}
		if prev, ok := latest[k]; !ok || rec.Timestamp.After(prev.Timestamp) {
			latest[k] = rec
		}
	}

	out := make([]models.BusRevenueAggregate, 0, len(order))
	for _, k := range order {
		agg := *byKey[k]
		switch {
		case agg.CashRevenue.IsZero():
			// No cash collected in-window: nothing to remit, regardless of
			// any record left over from an earlier cycle.
			agg.RemittanceStatus = models.RemittanceStatusNone
		default:
			agg.RemittanceStatus = models.RemittanceStatusPending
			if rec, ok := latest[k]; ok {
				agg.RemittanceStatus = rec.Status
				agg.RemittanceAmount = rec.Amount
				agg.RemittanceNotes = rec.Notes
				agg.VerificationTimestamp = rec.VerifiedAt
			}
		}
		out = append(out, agg)
	}
	return out, nil
}

// SetRemittanceStatus upserts the bus's single live RemittanceRecord:
// remitted=true verifies the handover, remitted=false is the admin reject
// path back to pending. Last writer wins; there is no version check.
func (l *Ledger) SetRemittanceStatus(ctx context.Context, busID string, d Decision) (models.RemittanceRecord, error) {
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) {
		return models.RemittanceRecord{}, utils.NewValidationError("amount", "must be a finite number")
	}
	if err := l.validate.Struct(d); err != nil {
		return models.RemittanceRecord{}, utils.NewValidationError("amount", "must be non-negative")
	}

	busDoc, err := l.rs.Get(ctx, l.cols.Buses, busID)
	if err != nil {
		return models.RemittanceRecord{}, err
	}
	bus := models.BusFromDocument(busDoc)

	now := time.Now().UTC()
	rec := models.RemittanceRecord{
		BusID:       bus.ID,
		BusNumber:   bus.BusNumber,
		ConductorID: bus.ConductorID,
		Status:      models.RemittanceStatusPending,
		Amount:      decimal.NewFromFloat(d.Amount),
		Notes:       d.Notes,
		Timestamp:   now,
	}
	if d.Remitted {
		rec.Status = models.RemittanceStatusRemitted
		rec.VerifiedAt = &now
	}

	existing, err := l.latestForBus(ctx, bus.ID)
	if err != nil && err != utils.ErrorRecordNotFound {
		return models.RemittanceRecord{}, err
	}

	var saved store.RawDocument
	if err == utils.ErrorRecordNotFound {
		saved, err = l.rs.Create(ctx, l.cols.Remittances, "", rec.Fields())
	} else {
		saved, err = l.rs.Update(ctx, l.cols.Remittances, existing.ID, rec.Fields())
	}
	if err != nil {
		return models.RemittanceRecord{}, err
	}
	return models.RemittanceFromDocument(saved), nil
}

// ResetAccruedCashRevenue stamps the verification timestamp on the
// conductor's latest remitted record. Cash revenue is re-derived from trips
// per query, so the reset takes effect by scoping the next reconciliation
// window after this point; no trip record is touched.
func (l *Ledger) ResetAccruedCashRevenue(ctx context.Context, conductorID string) error {
	docs, err := l.rs.List(ctx, l.cols.Remittances, store.Query{
		Equals: map[string]string{
			"conductorId": conductorID,
			"status":      string(models.RemittanceStatusRemitted),
		},
		OrderBy:    "timestamp",
		Descending: true,
		Limit:      1,
	})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return utils.ErrorRecordNotFound
	}

	rec := models.RemittanceFromDocument(docs[0])
	now := time.Now().UTC()
	rec.VerifiedAt = &now
	_, err = l.rs.Update(ctx, l.cols.Remittances, rec.ID, rec.Fields())
	return err
}

// ListRemittanceHistory returns matching records in the window, most recent
// first. With one live record per bus this is at most one row per call; the
// query stays range-shaped so an append-only backend returns the full trail.
func (l *Ledger) ListRemittanceHistory(ctx context.Context, busID, conductorID string, dr models.DateRange) ([]models.RemittanceRecord, error) {
	start, end, err := dr.Window()
	if err != nil {
		return nil, err
	}

	q := rangeQuery(start, end)
	q.Equals = map[string]string{
		"busId":       busID,
		"conductorId": conductorID,
	}
	docs, err := store.ScanAll(ctx, l.rs, l.cols.Remittances, q)
	if err != nil {
		return nil, err
	}

	recs := make([]models.RemittanceRecord, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, models.RemittanceFromDocument(doc))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Timestamp.After(recs[j].Timestamp)
	})
	return recs, nil
}

func (l *Ledger) latestForBus(ctx context.Context, busID string) (models.RemittanceRecord, error) {
	docs, err := l.rs.List(ctx, l.cols.Remittances, store.Query{
		Equals:     map[string]string{"busId": busID},
		OrderBy:    "timestamp",
		Descending: true,
		Limit:      1,
	})
	if err != nil {
		return models.RemittanceRecord{}, err
	}
	if len(docs) == 0 {
		return models.RemittanceRecord{}, utils.ErrorRecordNotFound
	}
	return models.RemittanceFromDocument(docs[0]), nil
}

func rangeQuery(start, end time.Time) store.Query {
	return store.Query{
		RangeField: "timestamp",
		GTE:        store.Int64Ptr(start.UnixMilli()),
		LTE:        store.Int64Ptr(end.UnixMilli()),
	}
}
