package models

import (
	"time"

	"dsm-settlement/internal/model"
	"dsm-settlement/internal/revenue"
)

// SettleDayResponse represents the response from a day settlement
type SettleDayResponse struct {
	ID      string             `json:"id"`
	Status  string             `json:"status"`
	Summary model.DailySummary `json:"summary"`
	Ledger  []LedgerRow        `json:"ledger,omitempty"`
}

// LedgerRow represents one block in the settlement ledger
type LedgerRow struct {
	BlockNo          int               `json:"block_no"`
	BlockStart       time.Time         `json:"block_start"`
	BlockEnd         time.Time         `json:"block_end"`
	ScheduledMW      float64           `json:"scheduled_mw"`
	ActualMW         float64           `json:"actual_mw"`
	MarketPrice      float64           `json:"market_price"`
	PriceSource      model.PriceSource `json:"price_source"`
	DeviationPercent float64           `json:"deviation_percent"`
	PenaltyBand      model.PenaltyBand `json:"penalty_band"`
	DSMPayable       float64           `json:"dsm_payable"`
	DSMReceivable    float64           `json:"dsm_receivable"`
	CumPayable       float64           `json:"cum_payable"`
	CumReceivable    float64           `json:"cum_receivable"`
}

// MonthResponse wraps a monthly summary
type MonthResponse struct {
	ID      string               `json:"id"`
	Summary model.MonthlySummary `json:"summary"`
	// Dates of the month with no daily summary.
	MissingDates []model.Date `json:"missing_dates"`
}

// WeekResponse wraps a weekly summary
type WeekResponse struct {
	ID      string              `json:"id"`
	Summary model.WeeklySummary `json:"summary"`
}

// ConsolidateResponse wraps a multi-site summary
type ConsolidateResponse struct {
	ID      string                    `json:"id"`
	Summary model.ConsolidatedSummary `json:"summary"`
}

// RevenueResponse wraps one site's revenue scenario
type RevenueResponse struct {
	ID       string                `json:"id"`
	Currency string                `json:"currency"`
	Scenario model.RevenueScenario `json:"scenario"`
}

// RankResponse represents the response from ranking sites
type RankResponse struct {
	ID       string                   `json:"id"`
	Currency string                   `json:"currency"`
	Rankings []revenue.RankedScenario `json:"rankings"`
}

// ValidateResponse lists every violation across the submitted uploads
type ValidateResponse struct {
	Valid  bool                     `json:"valid"`
	Checks int                      `json:"checks"`
	Errors []*model.ValidationError `json:"errors"`
}

// SiteInfo represents information about a site preset
type SiteInfo struct {
	model.Site
	Source string `json:"source"` // "config" or preset file name
}

// BandInfo describes one penalty band
type BandInfo struct {
	Band          model.PenaltyBand `json:"band"`
	MinDeviation  float64           `json:"min_abs_deviation_percent"` // exclusive, except for none
	MaxDeviation  *float64          `json:"max_abs_deviation_percent"` // inclusive; null means unbounded
	PenaltyFactor float64           `json:"penalty_factor"`
	Description   string            `json:"description"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
