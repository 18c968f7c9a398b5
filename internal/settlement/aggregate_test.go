package settlement

import (
	"math/rand"
	"testing"
	"time"

	"dsm-settlement/internal/dsm"
	"dsm-settlement/internal/model"
	"dsm-settlement/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomBlocks builds 96 block results with awkward amounts to expose
// any order-dependent float accumulation.
func randomBlocks(seed int64) []model.BlockResult {
	rng := rand.New(rand.NewSource(seed))
	out := make([]model.BlockResult, model.BlocksPerDay)
	for i := range out {
		sched := 5 + rng.Float64()*10
		act := sched * (0.6 + rng.Float64()*0.8)
		price := 2 + rng.Float64()*5
		out[i] = model.BlockResult{
			BlockNo:         i + 1,
			Price:           price,
			PriceSource:     model.PriceSourceDAM,
			DeviationResult: dsm.Compute(sched, act, 37.3, price),
		}
	}
	return out
}

func TestAggregateDay_Commutative(t *testing.T) {
	blocks := randomBlocks(7)
	want := AggregateDay("S1", testDay, blocks)
	assert.True(t, want.Complete)
	assert.Equal(t, model.BlocksPerDay, want.BlockCount)

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 25; i++ {
		shuffled := append([]model.BlockResult(nil), blocks...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := AggregateDay("S1", testDay, shuffled)
		assert.Equal(t, want, got)
	}
}

func TestAggregateDay_Totals(t *testing.T) {
	results := []model.BlockResult{
		{BlockNo: 1, DeviationResult: model.DeviationResult{PenaltyBand: model.BandFull, DSMPayable: 0.1}},
		{BlockNo: 2, DeviationResult: model.DeviationResult{PenaltyBand: model.BandFull, DSMPayable: 0.2}},
		{BlockNo: 3, PriceSource: model.PriceSourceFallback, DeviationResult: model.DeviationResult{PenaltyBand: model.BandNone, DSMReceivable: 1.05}},
	}

	s := AggregateDay("S1", testDay, results)
	assert.Equal(t, 0.3, s.TotalPayable, "decimal sum, not 0.30000000000000004")
	assert.Equal(t, 1.05, s.TotalReceivable)
	assert.Equal(t, 0.75, s.Net)
	assert.Equal(t, 3, s.BlockCount)
	assert.False(t, s.Complete, "partial day is summable but incomplete")
	assert.Equal(t, 1, s.FallbackPriceBlocks)
}

func TestAggregateDay_RecomputedBlockReplaces(t *testing.T) {
	blocks := randomBlocks(3)
	base := AggregateDay("S1", testDay, blocks)

	// the same block settled again must not add to the total
	again := append(append([]model.BlockResult(nil), blocks...), blocks[10])
	assert.Equal(t, base, AggregateDay("S1", testDay, again))

	revised := blocks[10]
	revised.DeviationResult = model.DeviationResult{PenaltyBand: model.BandNone}
	withRevision := append(append([]model.BlockResult(nil), blocks...), revised)
	got := AggregateDay("S1", testDay, withRevision)
	assert.Equal(t, model.BlocksPerDay, got.BlockCount)
	assert.Equal(t, model.BandNone, got.Blocks[10].PenaltyBand)
}

func TestAggregateDay_Empty(t *testing.T) {
	s := AggregateDay("S1", testDay, nil)
	assert.Zero(t, s.TotalPayable)
	assert.Zero(t, s.BlockCount)
	assert.False(t, s.Complete)
}

func TestAggregateMonth(t *testing.T) {
	month := model.Month{Year: 2025, Month: time.October}
	var days []model.DailySummary
	var wantPayable, wantReceivable float64
	for i := 0; i < 10; i++ {
		d := AggregateDay("S1", month.First().AddDays(i*3), randomBlocks(int64(i)))
		days = append(days, d)
		wantPayable += d.TotalPayable
		wantReceivable += d.TotalReceivable
	}

	m, err := AggregateMonth("S1", month, days)
	require.NoError(t, err)
	assert.Equal(t, 10, m.DaysPresent, "missing days are absent, not zero-filled")
	assert.Equal(t, 10, m.CompleteDays)
	assert.InDelta(t, wantPayable, m.TotalPayable, 1e-6)
	assert.InDelta(t, wantReceivable, m.TotalReceivable, 1e-6)
	assert.InDelta(t, m.TotalReceivable-m.TotalPayable, m.Net, 1e-9)
	assert.Len(t, m.Dates, 10)
	assert.Equal(t, month.First(), m.Dates[0])

	t.Run("order does not matter", func(t *testing.T) {
		reversed := make([]model.DailySummary, len(days))
		for i := range days {
			reversed[len(days)-1-i] = days[i]
		}
		again, err := AggregateMonth("S1", month, reversed)
		require.NoError(t, err)
		assert.Equal(t, m, again)
	})

	t.Run("recomputed day replaces", func(t *testing.T) {
		recomputed := AggregateDay("S1", days[4].Date, randomBlocks(4))
		again, err := AggregateMonth("S1", month, append(append([]model.DailySummary(nil), days...), recomputed))
		require.NoError(t, err)
		assert.Equal(t, m, again)
	})

	t.Run("sum of daily totals", func(t *testing.T) {
		// split into two halves, aggregate each, merge: same as whole
		first, err := AggregateMonth("S1", month, days[:5])
		require.NoError(t, err)
		second, err := AggregateMonth("S1", month, days[5:])
		require.NoError(t, err)
		c, err := Consolidate(month, []model.MonthlySummary{first, withSite(second, "S1b")})
		require.NoError(t, err)
		assert.Equal(t, m.TotalPayable, c.TotalPayable)
		assert.Equal(t, m.TotalReceivable, c.TotalReceivable)
	})
}

func withSite(m model.MonthlySummary, id string) model.MonthlySummary {
	m.SiteID = id
	return m
}

func TestAggregateMonth_Rejects(t *testing.T) {
	month := model.Month{Year: 2025, Month: time.October}

	_, err := AggregateMonth("S1", month, []model.DailySummary{{SiteID: "S2", Date: month.First()}})
	assert.ErrorIs(t, err, ErrForeignSite)

	_, err = AggregateMonth("S1", month, []model.DailySummary{{SiteID: "S1", Date: model.NewDate(2025, 11, 1)}})
	assert.ErrorIs(t, err, ErrOutsideMonth)
}

func TestAggregateWeek(t *testing.T) {
	// 2025-10-06 is the Monday of ISO week 41
	monday := model.NewDate(2025, 10, 6)
	var days []model.DailySummary
	for i := 0; i < 7; i++ {
		days = append(days, model.DailySummary{SiteID: "S1", Date: monday.AddDays(i), TotalPayable: 10.1, TotalReceivable: 0.2})
	}

	w, err := AggregateWeek("S1", 2025, 41, days)
	require.NoError(t, err)
	assert.Equal(t, 7, w.DaysPresent)
	assert.Equal(t, 70.7, w.TotalPayable)
	assert.Equal(t, 1.4, w.TotalReceivable)
	assert.Equal(t, -69.3, w.Net)

	_, err = AggregateWeek("S1", 2025, 41, append(days, model.DailySummary{SiteID: "S1", Date: monday.AddDays(7)}))
	assert.ErrorIs(t, err, ErrOutsideWeek)
}

func TestConsolidate(t *testing.T) {
	month := model.Month{Year: 2025, Month: time.October}
	c, err := Consolidate(month, []model.MonthlySummary{
		{SiteID: "B", Month: month, TotalPayable: 100.5, TotalReceivable: 20},
		{SiteID: "A", Month: month, TotalPayable: 0.25, TotalReceivable: 300},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.75, c.TotalPayable)
	assert.Equal(t, 320.0, c.TotalReceivable)
	assert.Equal(t, 219.25, c.Net)
	require.Len(t, c.Sites, 2)
	assert.Equal(t, "A", c.Sites[0].SiteID)

	_, err = Consolidate(month, []model.MonthlySummary{{SiteID: "A", Month: model.Month{Year: 2025, Month: time.November}}})
	assert.ErrorIs(t, err, ErrMonthMixed)
}

func TestMonthBook_Idempotent(t *testing.T) {
	month := model.Month{Year: 2025, Month: time.October}
	e := newTestEngine(t)
	book := NewMonthBook("S1", month)

	settle := func(d model.Date) model.DailySummary {
		day, err := e.SettleDay(testutil.CreateTestSite("S1", 40),
			testutil.CreateTestSchedule("S1", d, 10),
			testutil.CreateTestGenerationWith("S1", d, 9, map[int]float64{12: 14}))
		require.NoError(t, err)
		return day.Summary
	}

	for i := 0; i < 5; i++ {
		replaced, err := book.Upsert(settle(month.First().AddDays(i)))
		require.NoError(t, err)
		assert.False(t, replaced)
	}
	once := book.Summary()

	// settle the same days again
	for i := 0; i < 5; i++ {
		replaced, err := book.Upsert(settle(month.First().AddDays(i)))
		require.NoError(t, err)
		assert.True(t, replaced)
	}
	assert.Equal(t, once, book.Summary())
	assert.Equal(t, 5, book.Len())
	assert.Len(t, book.MissingDates(), 31-5)

	_, err := book.Upsert(model.DailySummary{SiteID: "S1", Date: model.NewDate(2025, 9, 30)})
	assert.ErrorIs(t, err, ErrOutsideMonth)
}
