package settlement

import (
	"time"

	"dsm-settlement/internal/model"
)

// LedgerRow is one row of per-block output.
// This is the primary artifact for "what was settled" on a day.
type LedgerRow struct {
	SiteID  string
	Date    model.Date
	BlockNo int

	BlockStart time.Time
	BlockEnd   time.Time

	ScheduledMW float64
	ActualMW    float64
	CapacityMW  float64

	Price         float64
	PriceSource   model.PriceSource
	Authoritative bool

	model.DeviationResult

	CumPayable    float64
	CumReceivable float64
}

// DaySettlement is the full outcome for one site/date.
type DaySettlement struct {
	Site    model.Site
	Date    model.Date
	Ledger  []LedgerRow
	Summary model.DailySummary
}

// BlockResults returns the ledger reduced to the per-block results
// that AggregateDay consumes.
func (d *DaySettlement) BlockResults() []model.BlockResult {
	out := make([]model.BlockResult, 0, len(d.Ledger))
	for _, r := range d.Ledger {
		out = append(out, r.BlockResult())
	}
	return out
}

func (r LedgerRow) BlockResult() model.BlockResult {
	return model.BlockResult{
		BlockNo:         r.BlockNo,
		Price:           r.Price,
		PriceSource:     r.PriceSource,
		DeviationResult: r.DeviationResult,
	}
}
