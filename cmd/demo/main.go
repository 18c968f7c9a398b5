package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"dsm-settlement/internal/config"
	"dsm-settlement/internal/data"
	"dsm-settlement/internal/logging"
	"dsm-settlement/internal/model"
	"dsm-settlement/internal/pricing"
	"dsm-settlement/internal/revenue"
	"dsm-settlement/internal/settlement"
)

// Demo:
// - Synthesize a solar day: bell-curve schedule, noisy generation, a price
//   curve with a few gaps
// - Settle it and print the band histogram and totals
// - Optionally settle a run of days and compare revenue with and without DSM
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	capacity := flag.Float64("capacity", 50, "Site capacity in MW")
	dateStr := flag.String("date", "2025-10-01", "First day to synthesize (YYYY-MM-DD)")
	days := flag.Int("days", 1, "Number of days to synthesize")
	seed := flag.Int64("seed", 42, "Random seed")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")
	inputsDir := flag.String("write-inputs", "", "Optional directory to write the synthetic uploads to")
	flag.Parse()

	log := logging.Setup()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load config")
		}
		cfg = loaded
	}
	start, err := model.ParseDate(*dateStr)
	if err != nil {
		log.WithError(err).Fatal("invalid --date")
	}

	site := model.Site{ID: "DEMO-1", Name: "Demo Solar Park", CapacityMW: *capacity, Region: "South", State: "KA"}
	rng := rand.New(rand.NewSource(*seed))

	var schedules []model.ScheduleSeries
	var generations []model.GenerationSeries
	var prices []model.MarketPriceSeries
	for i := 0; i < *days; i++ {
		d := start.AddDays(i)
		s, g := synthDay(rng, site, d)
		schedules = append(schedules, s)
		generations = append(generations, g)
		prices = append(prices, synthPrices(rng, d))
	}

	if *inputsDir != "" {
		for i := range schedules {
			name := schedules[i].Date.String() + ".json"
			must(data.SaveJSON(schedules[i], filepath.Join(*inputsDir, data.ScheduleDir, name)))
			must(data.SaveJSON(generations[i], filepath.Join(*inputsDir, data.GenerationDir, name)))
			must(data.SaveJSON(prices[i], filepath.Join(*inputsDir, data.PricesDir, name)))
		}
		fmt.Printf("Wrote %d day(s) of uploads to %s\n", len(schedules), *inputsDir)
	}

	resolver, err := pricing.NewResolver(pricing.NewTable(prices...), cfg.Fallback())
	if err != nil {
		log.WithError(err).Fatal("invalid fallback price")
	}
	engine := settlement.New(resolver, settlement.WithLogger(log), settlement.WithLocation(cfg.Location()))

	first, err := engine.SettleDay(site, schedules[0], generations[0])
	if err != nil {
		log.WithError(err).Fatal("settlement failed")
	}
	printHistogram(first)

	if *outCSV != "" {
		must(os.MkdirAll(filepath.Dir(*outCSV), 0o755))
		must(settlement.WriteLedgerCSV(*outCSV, first.Ledger))
		fmt.Printf("Wrote %d rows to %s\n", len(first.Ledger), *outCSV)
	}

	if *days > 1 {
		month := start.Month()
		var s []model.ScheduleSeries
		var g []model.GenerationSeries
		for i := range schedules {
			if month.Contains(schedules[i].Date) {
				s = append(s, schedules[i])
				g = append(g, generations[i])
			}
		}
		scenario, err := revenue.NewAnalyzer(engine, cfg.Settlement.Workers).Analyze(context.Background(), site, month, s, g)
		if err != nil {
			log.WithError(err).Fatal("revenue analysis failed")
		}
		fmt.Println()
		fmt.Printf("Revenue %s over %d day(s) (%s):\n", month, scenario.Days, cfg.Settlement.Currency)
		fmt.Printf("  without DSM  %12.2f\n", scenario.TotalRevenueWithoutDSM)
		fmt.Printf("  with DSM     %12.2f\n", scenario.TotalRevenueWithDSM)
		fmt.Printf("  DSM loss     %12.2f\n", scenario.DSMLoss)
	}
}

// synthDay builds a clear-sky bell schedule between 06:00 and 18:45 and a
// generation series with noise and an occasional passing cloud.
func synthDay(rng *rand.Rand, site model.Site, d model.Date) (model.ScheduleSeries, model.GenerationSeries) {
	sunrise, _ := model.BlockFromHHMM("06:00")
	sunset, _ := model.BlockFromHHMM("18:45")
	peak := 0.8 * site.CapacityMW

	sched := model.ScheduleSeries{SiteID: site.ID, Date: d, Blocks: make([]model.ScheduleBlock, model.BlocksPerDay)}
	gen := model.GenerationSeries{SiteID: site.ID, Date: d, Blocks: make([]model.GenerationBlock, model.BlocksPerDay)}

	cloudFrom := sunrise + rng.Intn(sunset-sunrise)
	cloudLen := rng.Intn(6)
	for i := 0; i < model.BlocksPerDay; i++ {
		b := i + 1
		var mw float64
		if b >= sunrise && b <= sunset {
			x := float64(b-sunrise) / float64(sunset-sunrise)
			mw = peak * math.Sin(math.Pi*x)
		}
		mw = round3(mw)
		sched.Blocks[i] = model.ScheduleBlock{BlockNo: b, ScheduledMW: mw}

		act := mw * (1 + rng.NormFloat64()*0.08)
		if b >= cloudFrom && b < cloudFrom+cloudLen {
			act *= 0.55
		}
		gen.Blocks[i] = model.GenerationBlock{BlockNo: b, ActualMW: round3(math.Max(0, act))}
	}
	return sched, gen
}

// synthPrices returns a DAM curve with an evening peak. A few blocks carry
// only RTM and a few carry nothing so the fallback gets exercised.
func synthPrices(rng *rand.Rand, d model.Date) model.MarketPriceSeries {
	out := model.MarketPriceSeries{Date: d, Blocks: make([]model.MarketPriceBlock, model.BlocksPerDay)}
	for i := range out.Blocks {
		b := i + 1
		hour := float64(b-1) / 4
		p := 3 + 4*math.Exp(-math.Pow(hour-19, 2)/6) + rng.Float64()*0.5
		blk := model.MarketPriceBlock{BlockNo: b}
		switch r := rng.Float64(); {
		case r < 0.03:
		case r < 0.08:
			blk.RTMPrice = model.Price(round3(p * 1.1))
		default:
			blk.DAMPrice = model.Price(round3(p))
		}
		out.Blocks[i] = blk
	}
	return out
}

func printHistogram(day *settlement.DaySettlement) {
	counts := map[model.PenaltyBand]int{}
	sources := map[model.PriceSource]int{}
	for _, r := range day.Ledger {
		counts[r.PenaltyBand]++
		sources[r.PriceSource]++
	}

	fmt.Printf("%s %s (%.0f MW)\n", day.Site.Name, day.Date, day.Site.CapacityMW)
	fmt.Println("band      blocks")
	for _, b := range model.Bands {
		fmt.Printf("%-9s %3d %s\n", b, counts[b], strings.Repeat("#", counts[b]))
	}
	fmt.Printf("prices: dam=%d rtm=%d fallback=%d\n",
		sources[model.PriceSourceDAM], sources[model.PriceSourceRTM], sources[model.PriceSourceFallback])

	s := day.Summary
	fmt.Printf("payable=%.2f receivable=%.2f net=%.2f\n", s.TotalPayable, s.TotalReceivable, s.Net)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
