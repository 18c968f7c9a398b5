package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"dsm-settlement/internal/api/models"
	"dsm-settlement/internal/model"
	"dsm-settlement/internal/revenue"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RevenueHandler handles revenue scenario and ranking requests
type RevenueHandler struct {
	Deps
}

// NewRevenueHandler creates a new revenue handler
func NewRevenueHandler(deps Deps) *RevenueHandler {
	return &RevenueHandler{Deps: deps.withDefaults()}
}

// Analyze handles POST /api/v1/revenue
func (h *RevenueHandler) Analyze(c *gin.Context) {
	var req models.RevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	if req.Month.IsZero() {
		badRequest(c, "INVALID_REQUEST", errors.New("month is required"))
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

	analyzer := revenue.NewAnalyzer(h.engine(resolver), h.Config.Settlement.Workers)
	scenario, err := analyzer.Analyze(c.Request.Context(), site, req.Month, req.Schedules, req.Generations)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.observe(scenario)

	id := uuid.NewString()
	h.Log.WithFields(logrus.Fields{
		"run_id":   id,
		"site_id":  site.ID,
		"month":    req.Month.String(),
		"dsm_loss": scenario.DSMLoss,
	}).Info("analyzed revenue")

	c.JSON(http.StatusOK, models.RevenueResponse{
		ID:       id,
		Currency: h.Config.Settlement.Currency,
		Scenario: scenario,
	})
}

// Rank handles POST /api/v1/revenue/rank
func (h *RevenueHandler) Rank(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	if req.Month.IsZero() {
		badRequest(c, "INVALID_REQUEST", errors.New("month is required"))
		return
	}

	resolver, err := h.buildResolver(req.Prices, req.FallbackPrice)
	if err != nil {
		h.respondError(c, err)
		return
	}
	analyzer := revenue.NewAnalyzer(h.engine(resolver), h.Config.Settlement.Workers)

	scenarios := make([]model.RevenueScenario, 0, len(req.Sites))
	for i, in := range req.Sites {
		site, err := h.resolveSite(in.Site)
		if err != nil {
			badRequest(c, "INVALID_SITE", fmt.Errorf("sites[%d]: %w", i, err))
			return
		}
		scenario, err := analyzer.Analyze(c.Request.Context(), site, req.Month, in.Schedules, in.Generations)
		if err != nil {
			h.respondError(c, fmt.Errorf("site %s: %w", site.ID, err))
			return
		}
		h.observe(scenario)
		scenarios = append(scenarios, scenario)
	}

	rankings := revenue.RankByLoss(scenarios)
	if req.Limit > 0 && req.Limit < len(rankings) {
		rankings = rankings[:req.Limit]
	}

	c.JSON(http.StatusOK, models.RankResponse{
		ID:       uuid.NewString(),
		Currency: h.Config.Settlement.Currency,
		Rankings: rankings,
	})
}

func (h *RevenueHandler) observe(s model.RevenueScenario) {
	if h.Metrics != nil {
		h.Metrics.ObserveDays(s.Days, s.FallbackPriceBlocks)
	}
}
