package handlers

import (
	"errors"
	"net/http"

	"dsm-settlement/internal/api/models"
	"dsm-settlement/internal/settlement"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SettlementHandler handles settlement and aggregation requests
type SettlementHandler struct {
	Deps
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(deps Deps) *SettlementHandler {
	return &SettlementHandler{Deps: deps.withDefaults()}
}

// SettleDay handles POST /api/v1/settlements/day
func (h *SettlementHandler) SettleDay(c *gin.Context) {
	var req models.SettleDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	site, err := h.resolveSite(req.Site)
	if err != nil {
		badRequest(c, "INVALID_SITE", err)
		return
	}

	resolver, err := h.buildResolver(req.Prices, req.FallbackPrice)
	if err != nil {
		h.respondError(c, err)
		return
	}

	day, err := h.engine(resolver).SettleDay(site, req.Schedule, req.Generation)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.ObserveDays(1, day.Summary.FallbackPriceBlocks)
	}

	id := uuid.NewString()
	h.Log.WithFields(logrus.Fields{
		"run_id":          id,
		"site_id":         site.ID,
		"date":            day.Date.String(),
		"net":             day.Summary.Net,
		"fallback_blocks": day.Summary.FallbackPriceBlocks,
	}).Info("settled day")

	c.JSON(http.StatusOK, buildDayResponse(id, day, req.Options))
}

func buildDayResponse(id string, day *settlement.DaySettlement, opts models.SettleOptions) models.SettleDayResponse {
	resp := models.SettleDayResponse{
		ID:      id,
		Status:  "completed",
		Summary: day.Summary,
	}
	if !opts.IncludeBlocks {
		resp.Summary.Blocks = nil
	}
	if opts.IncludeLedger {
		resp.Ledger = make([]models.LedgerRow, len(day.Ledger))
		for i, row := range day.Ledger {
			resp.Ledger[i] = models.LedgerRow{
				BlockNo:          row.BlockNo,
				BlockStart:       row.BlockStart,
				BlockEnd:         row.BlockEnd,
				ScheduledMW:      row.ScheduledMW,
				ActualMW:         row.ActualMW,
				MarketPrice:      row.Price,
				PriceSource:      row.PriceSource,
				DeviationPercent: row.DeviationPercent,
				PenaltyBand:      row.PenaltyBand,
				DSMPayable:       row.DSMPayable,
				DSMReceivable:    row.DSMReceivable,
				CumPayable:       row.CumPayable,
				CumReceivable:    row.CumReceivable,
			}
		}
	}
	return resp
}

// AggregateMonth handles POST /api/v1/settlements/month
func (h *SettlementHandler) AggregateMonth(c *gin.Context) {
	var req models.MonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	if req.Month.IsZero() {
		badRequest(c, "INVALID_REQUEST", errors.New("month is required"))
		return
	}

	// MonthBook gives the same replace-by-date semantics as AggregateMonth
	// and also reports which days are still missing.
	book := settlement.NewMonthBook(req.SiteID, req.Month)
	for _, d := range req.Days {
		if _, err := book.Upsert(d); err != nil {
			h.respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, models.MonthResponse{
		ID:           uuid.NewString(),
		Summary:      book.Summary(),
		MissingDates: book.MissingDates(),
	})
}

// AggregateWeek handles POST /api/v1/settlements/week
func (h *SettlementHandler) AggregateWeek(c *gin.Context) {
	var req models.WeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	summary, err := settlement.AggregateWeek(req.SiteID, req.ISOYear, req.ISOWeek, req.Days)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WeekResponse{ID: uuid.NewString(), Summary: summary})
}

// Consolidate handles POST /api/v1/settlements/consolidated
func (h *SettlementHandler) Consolidate(c *gin.Context) {
	var req models.ConsolidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	if req.Month.IsZero() {
		badRequest(c, "INVALID_REQUEST", errors.New("month is required"))
		return
	}

	summary, err := settlement.Consolidate(req.Month, req.Monthlies)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConsolidateResponse{ID: uuid.NewString(), Summary: summary})
}
