package settlement

import (
	"errors"
	"fmt"
	"sort"

	"dsm-settlement/internal/model"
	"dsm-settlement/internal/money"
)

var (
	ErrForeignSite  = errors.New("summary belongs to another site")
	ErrOutsideMonth = errors.New("summary date outside month")
	ErrOutsideWeek  = errors.New("summary date outside ISO week")
	ErrMonthMixed   = errors.New("monthly summaries for different months")
)

// AggregateDay totals per-block results for one site/date.
//
// A block number given more than once counts once: the later result
// replaces the earlier one. Fewer than 96 blocks is allowed and yields
// Complete=false. Sums run in block order with exact decimals, so any
// permutation of the input produces identical totals.
func AggregateDay(siteID string, date model.Date, results []model.BlockResult) model.DailySummary {
	latest := make(map[int]model.BlockResult, len(results))
	for _, r := range results {
		latest[r.BlockNo] = r
	}

	blocks := make([]model.BlockResult, 0, len(latest))
	for _, r := range latest {
		blocks = append(blocks, r)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].BlockNo < blocks[j].BlockNo })

	var payable, receivable money.Sum
	fallbacks := 0
	for _, r := range blocks {
		payable.Add(r.DSMPayable)
		receivable.Add(r.DSMReceivable)
		if r.PriceSource == model.PriceSourceFallback {
			fallbacks++
		}
	}

	return model.DailySummary{
		SiteID:              siteID,
		Date:                date,
		TotalPayable:        payable.Float(),
		TotalReceivable:     receivable.Float(),
		Net:                 money.Sub(receivable.Float(), payable.Float()),
		BlockCount:          len(blocks),
		Complete:            len(blocks) == model.BlocksPerDay,
		FallbackPriceBlocks: fallbacks,
		Blocks:              blocks,
	}
}

// AggregateMonth totals the daily summaries present for a site/month.
//
// Days are keyed by date; a repeated date replaces the earlier summary so a
// recomputed day never double counts. Missing days are simply absent.
func AggregateMonth(siteID string, month model.Month, days []model.DailySummary) (model.MonthlySummary, error) {
	latest := make(map[model.Date]model.DailySummary, len(days))
	for _, d := range days {
		if d.SiteID != siteID {
			return model.MonthlySummary{}, fmt.Errorf("%w: %q in month of %q", ErrForeignSite, d.SiteID, siteID)
		}
		if !month.Contains(d.Date) {
			return model.MonthlySummary{}, fmt.Errorf("%w: %s not in %s", ErrOutsideMonth, d.Date, month)
		}
		latest[d.Date] = d
	}

	ordered := sortedDays(latest)
	var payable, receivable money.Sum
	out := model.MonthlySummary{
		SiteID: siteID,
		Month:  month,
		Dates:  make([]model.Date, 0, len(ordered)),
	}
	for _, d := range ordered {
		payable.Add(d.TotalPayable)
		receivable.Add(d.TotalReceivable)
		out.DaysPresent++
		if d.Complete {
			out.CompleteDays++
		}
		out.FallbackPriceBlocks += d.FallbackPriceBlocks
		out.Dates = append(out.Dates, d.Date)
	}
	out.TotalPayable = payable.Float()
	out.TotalReceivable = receivable.Float()
	out.Net = money.Sub(out.TotalReceivable, out.TotalPayable)
	return out, nil
}

// AggregateWeek totals the days present in one ISO week.
func AggregateWeek(siteID string, isoYear, isoWeek int, days []model.DailySummary) (model.WeeklySummary, error) {
	latest := make(map[model.Date]model.DailySummary, len(days))
	for _, d := range days {
		if d.SiteID != siteID {
			return model.WeeklySummary{}, fmt.Errorf("%w: %q in week of %q", ErrForeignSite, d.SiteID, siteID)
		}
		if y, w := d.Date.ISOWeek(); y != isoYear || w != isoWeek {
			return model.WeeklySummary{}, fmt.Errorf("%w: %s not in %d-W%02d", ErrOutsideWeek, d.Date, isoYear, isoWeek)
		}
		latest[d.Date] = d
	}

	ordered := sortedDays(latest)
	var payable, receivable money.Sum
	out := model.WeeklySummary{
		SiteID:  siteID,
		ISOYear: isoYear,
		ISOWeek: isoWeek,
		Dates:   make([]model.Date, 0, len(ordered)),
	}
	for _, d := range ordered {
		payable.Add(d.TotalPayable)
		receivable.Add(d.TotalReceivable)
		out.Dates = append(out.Dates, d.Date)
	}
	out.DaysPresent = len(ordered)
	out.TotalPayable = payable.Float()
	out.TotalReceivable = receivable.Float()
	out.Net = money.Sub(out.TotalReceivable, out.TotalPayable)
	return out, nil
}

// Consolidate rolls several sites' monthly summaries into a portfolio view.
// A site given twice keeps its later summary.
func Consolidate(month model.Month, monthlies []model.MonthlySummary) (model.ConsolidatedSummary, error) {
	latest := make(map[string]model.MonthlySummary, len(monthlies))
	for _, m := range monthlies {
		if m.Month != month {
			return model.ConsolidatedSummary{}, fmt.Errorf("%w: %s vs %s", ErrMonthMixed, m.Month, month)
		}
		latest[m.SiteID] = m
	}

	sites := make([]model.MonthlySummary, 0, len(latest))
	for _, m := range latest {
		sites = append(sites, m)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].SiteID < sites[j].SiteID })

	var payable, receivable money.Sum
	for _, m := range sites {
		payable.Add(m.TotalPayable)
		receivable.Add(m.TotalReceivable)
	}
	return model.ConsolidatedSummary{
		Month:           month,
		TotalPayable:    payable.Float(),
		TotalReceivable: receivable.Float(),
		Net:             money.Sub(receivable.Float(), payable.Float()),
		Sites:           sites,
	}, nil
}

func sortedDays(m map[model.Date]model.DailySummary) []model.DailySummary {
	out := make([]model.DailySummary, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
