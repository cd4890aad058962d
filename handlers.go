package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/busops_backend/analytics"
	"bitbucket.org/mmdatafocus/busops_backend/config"
	"bitbucket.org/mmdatafocus/busops_backend/models"
	"bitbucket.org/mmdatafocus/busops_backend/remittance"
	"bitbucket.org/mmdatafocus/busops_backend/reports"
	"bitbucket.org/mmdatafocus/busops_backend/store"
	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

type engine struct {
	rs         store.RecordStore
	cols       config.CollectionConfig
	aggregator *analytics.Aggregator
	ledger     *remittance.Ledger
	compiler   *reports.Compiler
}

func newEngine(rs store.RecordStore, cols config.CollectionConfig) *engine {
	return &engine{
		rs:         rs,
		cols:       cols,
		aggregator: analytics.NewAggregator(rs, cols),
		ledger:     remittance.NewLedger(rs, cols),
		compiler:   reports.NewCompiler(rs, cols),
	}
}

func (e *engine) analyticsHandler(c *gin.Context) {
	dr, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := e.aggregator.Snapshot(c.Request.Context(), dr)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (e *engine) busRevenueHandler(c *gin.Context) {
	dr, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	aggs, err := e.ledger.ListBusRevenue(c.Request.Context(), dr)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buses": aggs})
}

func (e *engine) setRemittanceHandler(c *gin.Context) {
	var decision remittance.Decision
	if err := c.ShouldBindJSON(&decision); err != nil {
		respondError(c, utils.NewValidationError("body", err.Error()))
		return
	}
	rec, err := e.ledger.SetRemittanceStatus(c.Request.Context(), c.Param("busId"), decision)
	if err != nil {
		respondError(c, err)
		return
	}
	if rec.Status == models.RemittanceStatusRemitted {
		// Verified handover: zero the conductor's outstanding balance so the
		// next reconciliation window does not double-count this cash.
		if err := e.ledger.ResetAccruedCashRevenue(c.Request.Context(), rec.ConductorID); err != nil {
			config.LogError(config.GetLogger(), "handlers.go", "setRemittanceHandler",
				"reset accrued cash revenue", rec.ConductorID, err)
		}
	}
	c.JSON(http.StatusOK, rec)
}

func (e *engine) resetRemittanceHandler(c *gin.Context) {
	busDoc, err := e.rs.Get(c.Request.Context(), e.cols.Buses, c.Param("busId"))
	if err != nil {
		respondError(c, err)
		return
	}
	bus := models.BusFromDocument(busDoc)
	if err := e.ledger.ResetAccruedCashRevenue(c.Request.Context(), bus.ConductorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (e *engine) remittanceHistoryHandler(c *gin.Context) {
	dr, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	recs, err := e.ledger.ListRemittanceHistory(c.Request.Context(),
		c.Query("busId"), c.Query("conductorId"), dr)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"remittances": recs})
}

func (e *engine) reportHandler(c *gin.Context) {
	rep, err := e.compileFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (e *engine) reportExportHandler(c *gin.Context) {
	rep, err := e.compileFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}
	f, err := reports.ExportExcel(rep)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+string(rep.Kind)+"-report.xlsx")
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "handlers.go", "reportExportHandler", "write xlsx", rep.Kind, err)
	}
}

func (e *engine) compileFromRequest(c *gin.Context) (*reports.Report, error) {
	kind, err := models.ParseReportKind(c.Param("kind"))
	if err != nil {
		return nil, utils.ErrUnsupportedReportKind
	}
	dr, err := parseDateRange(c)
	if err != nil {
		return nil, err
	}
	return e.compiler.Compile(c.Request.Context(), kind, dr)
}

// listFaresHandler pages through trips with the store cursor: fetch a page,
// hand the last id back as the next cursor.
func (e *engine) listFaresHandler(c *gin.Context) {
	limit := store.DefaultPageSize
	if v := c.Query("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			limit = utils.MinInt(n, store.DefaultPageSize)
		}
	}
	docs, err := e.rs.List(c.Request.Context(), e.cols.Trips, store.Query{
		Limit:       limit,
		CursorAfter: c.Query("cursor"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	next := ""
	if len(docs) == limit {
		next = docs[len(docs)-1].ID
	}
	c.JSON(http.StatusOK, gin.H{
		"fares":      models.TripsFromDocuments(docs),
		"nextCursor": next,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (e *engine) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.NewValidationError("body", err.Error()))
		return
	}
	docs, err := e.rs.List(c.Request.Context(), e.cols.Users, store.Query{
		Equals: map[string]string{"username": req.Username},
		Limit:  1,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if len(docs) == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	user := models.UserFromDocument(docs[0])
	if !user.Active || utils.ComparePassword(user.PasswordHash, req.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := utils.JwtGenerate(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func parseDateRange(c *gin.Context) (models.DateRange, error) {
	dr := models.DateRange{}
	if raw := c.Query("from"); raw != "" {
		t, err := parseDateParam(raw)
		if err != nil {
			return dr, utils.NewValidationError("from", "expected epoch millis or YYYY-MM-DD")
		}
		dr.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseDateParam(raw)
		if err != nil {
			return dr, utils.NewValidationError("to", "expected epoch millis or YYYY-MM-DD")
		}
		dr.To = &t
	}
	return dr, nil
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	if n, err := parsePositiveInt64(raw); err == nil {
		return time.UnixMilli(n).UTC(), nil
	}
	return time.Time{}, errors.New("unparseable date")
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("expected positive integer")
	}
	return n, nil
}

func parsePositiveInt64(raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.New("expected positive integer")
	}
	return n, nil
}

func respondError(c *gin.Context, err error) {
	switch {
	case utils.IsValidation(err), errors.Is(err, utils.ErrUnsupportedReportKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrCollectionNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrStoreUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
