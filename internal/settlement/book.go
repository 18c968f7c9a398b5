package settlement

import (
	"fmt"
	"sync"

	"dsm-settlement/internal/model"
)

// MonthBook collects daily summaries for one site/month with replace-on-upsert
// semantics: settling a day again overwrites its previous summary.
type MonthBook struct {
	mu     sync.Mutex
	siteID string
	month  model.Month
	days   map[model.Date]model.DailySummary
}

func NewMonthBook(siteID string, month model.Month) *MonthBook {
	return &MonthBook{
		siteID: siteID,
		month:  month,
		days:   map[model.Date]model.DailySummary{},
	}
}

// Upsert stores day, replacing any summary already held for its date.
// It reports whether an earlier summary was replaced.
func (b *MonthBook) Upsert(day model.DailySummary) (bool, error) {
	if day.SiteID != b.siteID {
		return false, fmt.Errorf("%w: %q in book of %q", ErrForeignSite, day.SiteID, b.siteID)
	}
	if !b.month.Contains(day.Date) {
		return false, fmt.Errorf("%w: %s not in %s", ErrOutsideMonth, day.Date, b.month)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, replaced := b.days[day.Date]
	b.days[day.Date] = day
	return replaced, nil
}

func (b *MonthBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.days)
}

// MissingDates lists calendar days of the month with no summary.
func (b *MonthBook) MissingDates() []model.Date {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Date
	for _, d := range b.month.Days() {
		if _, ok := b.days[d]; !ok {
			out = append(out, d)
		}
	}
	return out
}

func (b *MonthBook) Summary() model.MonthlySummary {
	b.mu.Lock()
	days := make([]model.DailySummary, 0, len(b.days))
	for _, d := range b.days {
		days = append(days, d)
	}
	b.mu.Unlock()

	// every entry was checked on Upsert
	out, _ := AggregateMonth(b.siteID, b.month, days)
	return out
}
