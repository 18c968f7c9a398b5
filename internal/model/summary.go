package model

// PriceSource says where a settlement price came from.
type PriceSource string

const (
	PriceSourceDAM      PriceSource = "dam"
	PriceSourceRTM      PriceSource = "rtm"
	PriceSourceFallback PriceSource = "fallback"
)

// Authoritative reports whether the price came from market data.
func (s PriceSource) Authoritative() bool {
	return s == PriceSourceDAM || s == PriceSourceRTM
}

// BlockResult is a DeviationResult tied to its block, with the price used.
type BlockResult struct {
	BlockNo     int         `json:"block_no"`
	Price       float64     `json:"market_price"`
	PriceSource PriceSource `json:"price_source"`
	DeviationResult
}

// DailySummary totals one site/date. Complete is true only with all 96 blocks.
type DailySummary struct {
	SiteID              string        `json:"site_id"`
	Date                Date          `json:"date"`
	TotalPayable        float64       `json:"total_payable"`
	TotalReceivable     float64       `json:"total_receivable"`
	Net                 float64       `json:"net"`
	BlockCount          int           `json:"block_count"`
	Complete            bool          `json:"complete"`
	FallbackPriceBlocks int           `json:"fallback_price_blocks"`
	Blocks              []BlockResult `json:"blocks,omitempty"`
}

// WeeklySummary totals the days of one ISO week present for a site.
type WeeklySummary struct {
	SiteID          string  `json:"site_id"`
	ISOYear         int     `json:"iso_year"`
	ISOWeek         int     `json:"iso_week"`
	TotalPayable    float64 `json:"total_payable"`
	TotalReceivable float64 `json:"total_receivable"`
	Net             float64 `json:"net"`
	DaysPresent     int     `json:"days_present"`
	Dates           []Date  `json:"dates"`
}

// MonthlySummary totals the days present for a site/month.
// Missing days are absent from the sums, never zero-filled.
type MonthlySummary struct {
	SiteID              string  `json:"site_id"`
	Month               Month   `json:"month"`
	TotalPayable        float64 `json:"total_payable"`
	TotalReceivable     float64 `json:"total_receivable"`
	Net                 float64 `json:"net"`
	DaysPresent         int     `json:"days_present"`
	CompleteDays        int     `json:"complete_days"`
	FallbackPriceBlocks int     `json:"fallback_price_blocks"`
	Dates               []Date  `json:"dates"`
}

// ConsolidatedSummary rolls several sites' months into one portfolio view.
type ConsolidatedSummary struct {
	Month           Month            `json:"month"`
	TotalPayable    float64          `json:"total_payable"`
	TotalReceivable float64          `json:"total_receivable"`
	Net             float64          `json:"net"`
	Sites           []MonthlySummary `json:"sites"`
}

// RevenueScenario compares realized revenue against a schedule-priced baseline.
type RevenueScenario struct {
	SiteID                 string  `json:"site_id"`
	Month                  Month   `json:"month"`
	TotalRevenueWithDSM    float64 `json:"total_revenue_with_dsm"`
	TotalRevenueWithoutDSM float64 `json:"total_revenue_without_dsm"`
	DSMLoss                float64 `json:"dsm_loss"`
	DSMPayable             float64 `json:"dsm_payable"`
	DSMReceivable          float64 `json:"dsm_receivable"`
	Days                   int     `json:"days"`
	FallbackPriceBlocks    int     `json:"fallback_price_blocks"`
}
