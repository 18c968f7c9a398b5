package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"dsm-settlement/internal/model"
)

// Upload files hold one series object or an array of them:
//
//	{"site_id":"S1","date":"2025-10-07","blocks":[{"block_no":1,"scheduled_mw":10}, ...]}
//
// Market files carry dam_price/rtm_price per block and no site_id.

func LoadSchedules(path string) ([]model.ScheduleSeries, error) {
	return loadSeries[model.ScheduleSeries](path)
}

func LoadGenerations(path string) ([]model.GenerationSeries, error) {
	return loadSeries[model.GenerationSeries](path)
}

func LoadMarketPrices(path string) ([]model.MarketPriceSeries, error) {
	return loadSeries[model.MarketPriceSeries](path)
}

// MonthInputs is everything needed to settle a run of days.
type MonthInputs struct {
	Schedules   []model.ScheduleSeries
	Generations []model.GenerationSeries
	Prices      []model.MarketPriceSeries
}

// Subdirectories read by LoadInputsDir. Prices are optional.
const (
	ScheduleDir   = "schedule"
	GenerationDir = "generation"
	PricesDir     = "prices"
)

// LoadInputsDir reads every *.json under dir/schedule, dir/generation and
// dir/prices, in file name order.
func LoadInputsDir(dir string) (*MonthInputs, error) {
	var in MonthInputs
	var err error
	if in.Schedules, err = loadDir(filepath.Join(dir, ScheduleDir), LoadSchedules); err != nil {
		return nil, err
	}
	if in.Generations, err = loadDir(filepath.Join(dir, GenerationDir), LoadGenerations); err != nil {
		return nil, err
	}
	pricesDir := filepath.Join(dir, PricesDir)
	if _, statErr := os.Stat(pricesDir); statErr == nil {
		if in.Prices, err = loadDir(pricesDir, LoadMarketPrices); err != nil {
			return nil, err
		}
	}
	return &in, nil
}

func loadDir[T any](dir string, load func(string) ([]T, error)) ([]T, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no *.json files in %s", dir)
	}
	sort.Strings(files)
	var out []T
	for _, f := range files {
		items, err := load(f)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func loadSeries[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	out, err := decodeOneOrMany[T](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return out, nil
}

func decodeOneOrMany[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

// SaveJSON writes v as indented JSON, creating parent directories.
func SaveJSON(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
