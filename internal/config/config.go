package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"dsm-settlement/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFallbackPrice = 3.0
	DefaultCurrency      = "INR"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load site presets from a separate YAML (e.g. sites/*.yaml).
	// Inline sites with the same site_id override fields from SitesFile.
	SitesFile  string           `yaml:"sites_file"`
	Sites      []SiteConfig     `yaml:"sites"`
	Settlement SettlementConfig `yaml:"settlement"`
}

type SettlementConfig struct {
	// Price used for a block when neither DAM nor RTM is usable.
	FallbackPrice *float64 `yaml:"fallback_price"`
	Currency      string   `yaml:"currency"`
	// Upper bound on concurrently settled site-days; 0 means one per day.
	Workers int `yaml:"workers"`
	// IANA zone for ledger block timestamps, e.g. Asia/Kolkata. Empty is UTC.
	Timezone string `yaml:"timezone"`
}

type SiteConfig struct {
	ID         string  `yaml:"site_id"`
	Name       string  `yaml:"name"`
	CapacityMW float64 `yaml:"capacity_mw"`
	Region     string  `yaml:"region"`
	State      string  `yaml:"state"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.SitesFile != "" {
		sitesPath := c.SitesFile
		if !filepath.IsAbs(sitesPath) {
			// Relative to the config file first, then to cwd.
			cand := filepath.Join(filepath.Dir(path), sitesPath)
			if _, err := os.Stat(cand); err == nil {
				sitesPath = cand
			}
		}
		loaded, err := LoadSitesFile(sitesPath)
		if err != nil {
			return nil, err
		}
		c.Sites = MergeSites(loaded, c.Sites)
	}
	return &c, nil
}

// Default returns a config usable without a file.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Settlement.FallbackPrice == nil {
		p := DefaultFallbackPrice
		c.Settlement.FallbackPrice = &p
	}
	if c.Settlement.Currency == "" {
		c.Settlement.Currency = DefaultCurrency
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if p := c.Settlement.FallbackPrice; p != nil && (*p < 0 || math.IsNaN(*p) || math.IsInf(*p, 0)) {
		return fmt.Errorf("settlement.fallback_price must be a finite value >= 0, got %v", *p)
	}
	if c.Settlement.Workers < 0 {
		return fmt.Errorf("settlement.workers must be >= 0, got %d", c.Settlement.Workers)
	}
	if _, err := time.LoadLocation(c.Settlement.Timezone); err != nil {
		return fmt.Errorf("settlement.timezone: %w", err)
	}
	seen := map[string]bool{}
	for i, s := range c.Sites {
		site := s.ToModel()
		if err := site.Validate(); err != nil {
			return fmt.Errorf("sites[%d]: %w", i, err)
		}
		if seen[s.ID] {
			return fmt.Errorf("sites[%d]: duplicate site_id %q", i, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Fallback returns the configured fallback price (default applied).
func (c *Config) Fallback() float64 {
	if c.Settlement.FallbackPrice == nil {
		return DefaultFallbackPrice
	}
	return *c.Settlement.FallbackPrice
}

// Location returns the ledger time zone. An unknown zone falls back to UTC;
// Validate reports it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Settlement.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Site looks up a configured site by id.
func (c *Config) Site(id string) (model.Site, bool) {
	for _, s := range c.Sites {
		if s.ID == id {
			return s.ToModel(), true
		}
	}
	return model.Site{}, false
}

func (s SiteConfig) ToModel() model.Site {
	return model.Site{
		ID:         s.ID,
		Name:       s.Name,
		CapacityMW: s.CapacityMW,
		Region:     s.Region,
		State:      s.State,
	}
}

type sitesFileWrapper struct {
	Sites []SiteConfig `yaml:"sites"`
}

// LoadSitesFile reads a YAML file holding a top-level "sites:" list.
func LoadSitesFile(path string) ([]SiteConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w sitesFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Sites, nil
}

// LoadSitesDir reads every *.yaml site preset file in dir, in name order.
// Files that fail to parse are returned in skipped rather than failing the
// whole listing.
func LoadSitesDir(dir string) (sites []SiteConfig, skipped map[string]error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !(strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	skipped = map[string]error{}
	for _, name := range names {
		loaded, err := LoadSitesFile(filepath.Join(dir, name))
		if err != nil {
			skipped[name] = err
			continue
		}
		sites = MergeSites(sites, loaded)
	}
	return sites, skipped, nil
}

// MergeSites overlays non-zero fields of overrides onto base by site_id.
// Overrides for unknown ids are appended.
func MergeSites(base, overrides []SiteConfig) []SiteConfig {
	out := append([]SiteConfig(nil), base...)
	index := map[string]int{}
	for i, s := range out {
		index[s.ID] = i
	}
	for _, o := range overrides {
		i, ok := index[o.ID]
		if !ok {
			index[o.ID] = len(out)
			out = append(out, o)
			continue
		}
		out[i] = MergeSite(out[i], o)
	}
	return out
}

func MergeSite(base, override SiteConfig) SiteConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityMW != 0 {
		out.CapacityMW = override.CapacityMW
	}
	if override.Region != "" {
		out.Region = override.Region
	}
	if override.State != "" {
		out.State = override.State
	}
	return out
}
