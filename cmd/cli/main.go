package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"dsm-settlement/internal/config"
	"dsm-settlement/internal/data"
	"dsm-settlement/internal/logging"
	"dsm-settlement/internal/model"
	"dsm-settlement/internal/pricing"
	"dsm-settlement/internal/revenue"
	"dsm-settlement/internal/settlement"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

func main() {
	logging.Setup()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "settle":
		cmdSettle(os.Args[2:])
	case "month":
		cmdMonth(os.Args[2:])
	case "revenue":
		cmdRevenue(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli settle   --schedule s.json --generation g.json [--prices p.json] --site S1 [--capacity 50] [--config config.yaml] --out results/ledger.csv")
	fmt.Println("  cli month    --dir inputs/ --site S1 --month 2025-10 [--config config.yaml] [--out results/month.csv]")
	fmt.Println("  cli revenue  --dir inputs/ --site S1 --month 2025-10 [--config config.yaml]")
	fmt.Println("  cli validate [--schedule s.json] [--generation g.json] [--prices p.json]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - inputs/ holds schedule/*.json, generation/*.json and optionally prices/*.json")
	fmt.Println("  - blocks with no usable DAM or RTM price settle at settlement.fallback_price")
}

// siteFlags are shared by every subcommand that settles.
type siteFlags struct {
	cfgPath  *string
	siteID   *string
	capacity *float64
	fallback *float64
}

func addSiteFlags(fs *flag.FlagSet) siteFlags {
	return siteFlags{
		cfgPath:  fs.String("config", "", "Path to YAML config (optional)"),
		siteID:   fs.String("site", "", "Site id"),
		capacity: fs.Float64("capacity", 0, "Site capacity in MW (overrides config)"),
		fallback: fs.Float64("fallback", -1, "Fallback price (overrides config; <0 = use config)"),
	}
}

func (f siteFlags) load() (*config.Config, model.Site) {
	cfg := config.Default()
	if *f.cfgPath != "" {
		loaded, err := config.Load(*f.cfgPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load config")
		}
		cfg = loaded
	}
	if *f.fallback >= 0 {
		fb := *f.fallback
		cfg.Settlement.FallbackPrice = &fb
	}
	if *f.siteID == "" {
		log.Fatal("--site is required")
	}

	site, _ := cfg.Site(*f.siteID)
	site.ID = *f.siteID
	if *f.capacity > 0 {
		site.CapacityMW = *f.capacity
	}
	if err := site.Validate(); err != nil {
		log.WithError(err).Fatal("invalid site (set --capacity or configure it)")
	}
	return cfg, site
}

func newEngine(cfg *config.Config, prices []model.MarketPriceSeries) *settlement.Engine {
	for _, p := range prices {
		if err := model.ValidateMarketPrices(p); err != nil {
			fatalValidation(err)
		}
	}
	r, err := pricing.NewResolver(pricing.NewTable(prices...), cfg.Fallback())
	if err != nil {
		log.WithError(err).Fatal("invalid fallback price")
	}
	return settlement.New(r, settlement.WithLogger(log), settlement.WithLocation(cfg.Location()))
}

func cmdSettle(args []string) {
	fs := flag.NewFlagSet("settle", flag.ExitOnError)
	sf := addSiteFlags(fs)
	schedPath := fs.String("schedule", "", "Schedule upload JSON")
	genPath := fs.String("generation", "", "Generation upload JSON")
	pricesPath := fs.String("prices", "", "Market price JSON (optional)")
	outPath := fs.String("out", "results/ledger.csv", "Output CSV path")
	_ = fs.Parse(args)

	if *schedPath == "" || *genPath == "" {
		fmt.Println("--schedule and --generation are required")
		os.Exit(2)
	}
	cfg, site := sf.load()

	schedules, err := data.LoadSchedules(*schedPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load schedule")
	}
	generations, err := data.LoadGenerations(*genPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load generation")
	}
	var prices []model.MarketPriceSeries
	if *pricesPath != "" {
		if prices, err = data.LoadMarketPrices(*pricesPath); err != nil {
			log.WithError(err).Fatal("failed to load prices")
		}
	}

	days := settleAll(cfg, site, schedules, generations, prices)

	var ledger []settlement.LedgerRow
	for _, d := range days {
		ledger = append(ledger, d.Ledger...)
		printDay(d.Summary)
	}
	writeCSV(*outPath, ledger)
}

func cmdMonth(args []string) {
	fs := flag.NewFlagSet("month", flag.ExitOnError)
	sf := addSiteFlags(fs)
	dir := fs.String("dir", "inputs", "Directory with schedule/, generation/ and prices/")
	monthStr := fs.String("month", "", "Month to settle (YYYY-MM)")
	outPath := fs.String("out", "", "Optional ledger CSV path")
	_ = fs.Parse(args)

	month := mustMonth(*monthStr)
	cfg, site := sf.load()
	in, err := data.LoadInputsDir(*dir)
	if err != nil {
		log.WithError(err).Fatal("failed to load inputs")
	}

	schedules, generations := inMonth(month, in.Schedules, in.Generations)
	days := settleAll(cfg, site, schedules, generations, in.Prices)

	book := settlement.NewMonthBook(site.ID, month)
	var ledger []settlement.LedgerRow
	for _, d := range days {
		if _, err := book.Upsert(d.Summary); err != nil {
			log.WithError(err).Fatal("failed to add day")
		}
		ledger = append(ledger, d.Ledger...)
	}

	s := book.Summary()
	fmt.Printf("%s %s: days=%d complete=%d fallback_blocks=%d\n", s.SiteID, s.Month, s.DaysPresent, s.CompleteDays, s.FallbackPriceBlocks)
	fmt.Printf("payable=%.2f receivable=%.2f net=%.2f %s\n", s.TotalPayable, s.TotalReceivable, s.Net, cfg.Settlement.Currency)
	if missing := book.MissingDates(); len(missing) > 0 {
		fmt.Printf("missing %d day(s), first %s\n", len(missing), missing[0])
	}
	if *outPath != "" {
		writeCSV(*outPath, ledger)
	}
}

func cmdRevenue(args []string) {
	fs := flag.NewFlagSet("revenue", flag.ExitOnError)
	sf := addSiteFlags(fs)
	dir := fs.String("dir", "inputs", "Directory with schedule/, generation/ and prices/")
	monthStr := fs.String("month", "", "Month to analyze (YYYY-MM)")
	_ = fs.Parse(args)

	month := mustMonth(*monthStr)
	cfg, site := sf.load()
	in, err := data.LoadInputsDir(*dir)
	if err != nil {
		log.WithError(err).Fatal("failed to load inputs")
	}

	schedules, generations := inMonth(month, in.Schedules, in.Generations)
	analyzer := revenue.NewAnalyzer(newEngine(cfg, in.Prices), cfg.Settlement.Workers)
	scenario, err := analyzer.Analyze(context.Background(), site, month, schedules, generations)
	if err != nil {
		fatalValidation(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(scenario)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	schedPath := fs.String("schedule", "", "Schedule upload JSON")
	genPath := fs.String("generation", "", "Generation upload JSON")
	pricesPath := fs.String("prices", "", "Market price JSON")
	_ = fs.Parse(args)

	var errs []error
	if *schedPath != "" {
		items, err := data.LoadSchedules(*schedPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load schedule")
		}
		for _, s := range items {
			errs = append(errs, model.ValidateSchedule(s))
		}
	}
	if *genPath != "" {
		items, err := data.LoadGenerations(*genPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load generation")
		}
		for _, g := range items {
			errs = append(errs, model.ValidateGeneration(g))
		}
	}
	if *pricesPath != "" {
		items, err := data.LoadMarketPrices(*pricesPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load prices")
		}
		for _, p := range items {
			errs = append(errs, model.ValidateMarketPrices(p))
		}
	}

	failed := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		failed++
		printViolations(err)
	}
	fmt.Printf("checked %d series, %d invalid\n", len(errs), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func settleAll(cfg *config.Config, site model.Site, schedules []model.ScheduleSeries, generations []model.GenerationSeries, prices []model.MarketPriceSeries) []*settlement.DaySettlement {
	jobs, err := settlement.PairDays(site, schedules, generations)
	if err != nil {
		log.WithError(err).Fatal("schedule and generation days do not pair up")
	}

	days, err := newEngine(cfg, prices).SettleDays(context.Background(), jobs, cfg.Settlement.Workers)
	if err != nil {
		fatalValidation(err)
	}
	return days
}

func inMonth(month model.Month, schedules []model.ScheduleSeries, generations []model.GenerationSeries) ([]model.ScheduleSeries, []model.GenerationSeries) {
	var s []model.ScheduleSeries
	for _, x := range schedules {
		if month.Contains(x.Date) {
			s = append(s, x)
		}
	}
	var g []model.GenerationSeries
	for _, x := range generations {
		if month.Contains(x.Date) {
			g = append(g, x)
		}
	}
	return s, g
}

func mustMonth(s string) model.Month {
	if s == "" {
		fmt.Println("--month is required")
		os.Exit(2)
	}
	m, err := model.ParseMonth(s)
	if err != nil {
		log.WithError(err).Fatal("invalid --month")
	}
	return m
}

func writeCSV(path string, ledger []settlement.LedgerRow) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.WithError(err).Fatal("failed to create output dir")
	}
	if err := settlement.WriteLedgerCSV(path, ledger); err != nil {
		log.WithError(err).Fatal("failed to write ledger")
	}
	fmt.Printf("Wrote %d rows to %s\n", len(ledger), path)
}

func printDay(s model.DailySummary) {
	fmt.Printf("%s %s: blocks=%d complete=%v payable=%.2f receivable=%.2f net=%.2f fallback_blocks=%d\n",
		s.SiteID, s.Date, s.BlockCount, s.Complete, s.TotalPayable, s.TotalReceivable, s.Net, s.FallbackPriceBlocks)
}

func printViolations(err error) {
	verr, ok := model.AsValidationError(err)
	if !ok {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s series site=%q date=%s: %d violation(s) %v\n", verr.Kind, verr.SiteID, verr.Date, len(verr.Violations), verr.Rules())
	for _, v := range verr.Violations {
		fmt.Printf("  [%d] block %d %s: %s\n", v.Index, v.BlockNo, v.Rule, v.Detail)
	}
}

func fatalValidation(err error) {
	printViolations(err)
	os.Exit(1)
}
