package revenue

import (
	"context"
	"errors"
	"fmt"

	"dsm-settlement/internal/model"
	"dsm-settlement/internal/money"
	"dsm-settlement/internal/settlement"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingGeneration = settlement.ErrMissingGeneration
	ErrMissingSchedule   = settlement.ErrMissingSchedule
	ErrOutsideMonth      = errors.New("series date outside month")
	ErrForeignSite       = errors.New("series belongs to another site")
)

// Analyzer compares realized (with-DSM) revenue against the revenue the
// site would have earned had it generated exactly to schedule.
type Analyzer struct {
	engine  *settlement.Engine
	workers int
}

func NewAnalyzer(engine *settlement.Engine, workers int) *Analyzer {
	return &Analyzer{engine: engine, workers: workers}
}

// Analyze settles every day of the month present in both inputs and reports:
//
//	without_dsm = Σ scheduled_mw × price
//	with_dsm    = Σ actual_mw × price − Σ payable + Σ receivable
//	dsm_loss    = max(0, without_dsm − with_dsm)
//
// Validation is the engine's; Analyze only pairs days and checks ownership.
func (a *Analyzer) Analyze(ctx context.Context, site model.Site, month model.Month, schedule []model.ScheduleSeries, generation []model.GenerationSeries) (model.RevenueScenario, error) {
	jobs, err := pairDays(site, month, schedule, generation)
	if err != nil {
		return model.RevenueScenario{}, err
	}

	days, err := a.engine.SettleDays(ctx, jobs, a.workers)
	if err != nil {
		return model.RevenueScenario{}, err
	}

	without := decimal.Zero
	withEnergy := decimal.Zero
	var payable, receivable money.Sum
	fallbacks := 0
	for _, day := range days {
		for _, row := range day.Ledger {
			without = without.Add(decimal.NewFromFloat(row.ScheduledMW * row.Price))
			withEnergy = withEnergy.Add(decimal.NewFromFloat(row.ActualMW * row.Price))
		}
		payable.Add(day.Summary.TotalPayable)
		receivable.Add(day.Summary.TotalReceivable)
		fallbacks += day.Summary.FallbackPriceBlocks
	}

	with := withEnergy.Sub(payable.Decimal()).Add(receivable.Decimal())
	loss := without.Sub(with)
	if loss.IsNegative() {
		loss = decimal.Zero
	}

	return model.RevenueScenario{
		SiteID:                 site.ID,
		Month:                  month,
		TotalRevenueWithDSM:    with.Round(money.Places).InexactFloat64(),
		TotalRevenueWithoutDSM: without.Round(money.Places).InexactFloat64(),
		DSMLoss:                loss.Round(money.Places).InexactFloat64(),
		DSMPayable:             payable.Float(),
		DSMReceivable:          receivable.Float(),
		Days:                   len(days),
		FallbackPriceBlocks:    fallbacks,
	}, nil
}

// pairDays checks every series belongs to site and month before pairing.
func pairDays(site model.Site, month model.Month, schedule []model.ScheduleSeries, generation []model.GenerationSeries) ([]settlement.DayJob, error) {
	for _, s := range schedule {
		if err := owned(site, month, s.SiteID, s.Date); err != nil {
			return nil, err
		}
	}
	for _, g := range generation {
		if err := owned(site, month, g.SiteID, g.Date); err != nil {
			return nil, err
		}
	}
	return settlement.PairDays(site, schedule, generation)
}

func owned(site model.Site, month model.Month, siteID string, d model.Date) error {
	if siteID != site.ID {
		return fmt.Errorf("%w: %q for site %q", ErrForeignSite, siteID, site.ID)
	}
	if !month.Contains(d) {
		return fmt.Errorf("%w: %s not in %s", ErrOutsideMonth, d, month)
	}
	return nil
}
