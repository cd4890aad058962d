// Package reports compiles filtered trip/transaction data into exportable
// tabular envelopes. Every kind is an independent single-pass reduction over
// the window's trips; downstream exporters consume the normalized
// {rows, summary, metadata} shape.
package reports

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/busops_backend/config"
	"bitbucket.org/mmdatafocus/busops_backend/models"
	"bitbucket.org/mmdatafocus/busops_backend/store"
	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type Metadata struct {
	TotalRecords int       `json:"totalRecords"`
	DateRange    Window    `json:"dateRange"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

type Report struct {
	Kind     models.ReportKind `json:"kind"`
	Columns  []string          `json:"columns"`
	Rows     [][]any           `json:"rows"`
	Summary  map[string]any    `json:"summary"`
	Metadata Metadata          `json:"metadata"`
}

type Compiler struct {
	rs   store.RecordStore
	cols config.CollectionConfig
}

func NewCompiler(rs store.RecordStore, cols config.CollectionConfig) *Compiler {
	return &Compiler{rs: rs, cols: cols}
}

// Compile rejects an unsupported kind before any store query is issued; a
// store failure propagates unchanged, there is no partial report.
func (c *Compiler) Compile(ctx context.Context, kind models.ReportKind, dr models.DateRange) (*Report, error) {
	switch kind {
	case models.ReportKindRevenue, models.ReportKindTickets, models.ReportKindRoutes,
		models.ReportKindBuses, models.ReportKindUsers:
	default:
		return nil, fmt.Errorf("%w: %q", utils.ErrUnsupportedReportKind, kind)
	}

	start, end, err := dr.Window()
	if err != nil {
		return nil, err
	}

	cacheKey := reportCacheKey(kind, start, end)
	if cached, ok := cacheGet(cacheKey); ok {
		return cached, nil
	}
	started := time.Now()

	tripDocs, err := store.ScanAll(ctx, c.rs, c.cols.Trips, store.Query{
		RangeField: "timestamp",
		GTE:        store.Int64Ptr(start.UnixMilli()),
		LTE:        store.Int64Ptr(end.UnixMilli()),
	})
	if err != nil {
		return nil, err
	}
	trips := models.TripsFromDocuments(tripDocs)

	rep := &Report{Kind: kind}
	switch kind {
	case models.ReportKindRevenue:
		buildRevenueReport(rep, trips)
	case models.ReportKindTickets:
		buildTicketSalesReport(rep, trips)
	case models.ReportKindRoutes:
		buildRoutePerformanceReport(rep, trips)
	case models.ReportKindBuses:
		buildBusUtilizationReport(rep, trips)
	case models.ReportKindUsers:
		names, err := c.conductorNames(ctx)
		if err != nil {
			return nil, err
		}
		buildConductorActivityReport(rep, trips, names)
	}

	rep.Metadata = Metadata{
		TotalRecords: len(trips),
		DateRange:    Window{From: start, To: end},
		GeneratedAt:  time.Now().UTC(),
	}

	cacheSet(cacheKey, rep)
	logSlowReport(string(kind), started, len(trips))
	return rep, nil
}

func (c *Compiler) conductorNames(ctx context.Context) (map[string]string, error) {
	docs, err := store.ScanAll(ctx, c.rs, c.cols.Users, store.Query{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(docs))
	for _, doc := range docs {
		user := models.UserFromDocument(doc)
		names[user.ID] = user.Name
	}
	return names, nil
}
