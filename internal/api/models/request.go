package models

import "dsm-settlement/internal/model"

// SettleDayRequest represents the request body for settling one site-day.
//
// Site may carry only site_id when the site is configured server side;
// any fields given override the preset.
type SettleDayRequest struct {
	Site          model.Site                `json:"site"`
	Schedule      model.ScheduleSeries      `json:"schedule"`
	Generation    model.GenerationSeries    `json:"generation"`
	Prices        []model.MarketPriceSeries `json:"prices,omitempty"`
	FallbackPrice *float64                  `json:"fallback_price,omitempty"` // default: settlement.fallback_price
	Options       SettleOptions             `json:"options,omitempty"`
}

// SettleOptions contains optional settlement parameters
type SettleOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
	IncludeBlocks bool `json:"include_blocks,omitempty"` // default: false
}

// MonthRequest aggregates daily summaries into one site-month.
type MonthRequest struct {
	SiteID string               `json:"site_id" binding:"required"`
	Month  model.Month          `json:"month"`
	Days   []model.DailySummary `json:"days"`
}

// WeekRequest aggregates daily summaries into one ISO week.
type WeekRequest struct {
	SiteID  string               `json:"site_id" binding:"required"`
	ISOYear int                  `json:"iso_year" binding:"required"`
	ISOWeek int                  `json:"iso_week" binding:"required,min=1,max=53"`
	Days    []model.DailySummary `json:"days"`
}

// ConsolidateRequest rolls up several sites' monthly summaries.
type ConsolidateRequest struct {
	Month     model.Month            `json:"month"`
	Monthlies []model.MonthlySummary `json:"monthlies" binding:"required"`
}

// RevenueRequest holds a month of inputs for one site.
type RevenueRequest struct {
	Site          model.Site                `json:"site"`
	Month         model.Month               `json:"month"`
	Schedules     []model.ScheduleSeries    `json:"schedules" binding:"required"`
	Generations   []model.GenerationSeries  `json:"generations" binding:"required"`
	Prices        []model.MarketPriceSeries `json:"prices,omitempty"`
	FallbackPrice *float64                  `json:"fallback_price,omitempty"`
}

// RankRequest ranks several sites over the same month and price curve.
type RankRequest struct {
	Month         model.Month               `json:"month"`
	Prices        []model.MarketPriceSeries `json:"prices,omitempty"`
	FallbackPrice *float64                  `json:"fallback_price,omitempty"`
	Sites         []SiteInputs              `json:"sites" binding:"required,min=1"`
	Limit         int                       `json:"limit,omitempty"` // 0 = all
}

// SiteInputs is one site's schedule and generation for a rank request.
type SiteInputs struct {
	Site        model.Site               `json:"site"`
	Schedules   []model.ScheduleSeries   `json:"schedules"`
	Generations []model.GenerationSeries `json:"generations"`
}

// ValidateRequest checks any combination of uploads without settling them.
type ValidateRequest struct {
	Schedules   []model.ScheduleSeries    `json:"schedules,omitempty"`
	Generations []model.GenerationSeries  `json:"generations,omitempty"`
	Prices      []model.MarketPriceSeries `json:"prices,omitempty"`
}
