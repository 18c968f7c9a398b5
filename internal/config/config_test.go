package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", `
sites:
  - site_id: S1
    name: Pavagada
    capacity_mw: 50
    region: South
    state: KA
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, DefaultFallbackPrice, c.Fallback())
	assert.Equal(t, DefaultCurrency, c.Settlement.Currency)

	s, ok := c.Site("S1")
	require.True(t, ok)
	assert.Equal(t, 50.0, s.CapacityMW)
	assert.Equal(t, "KA", s.State)

	_, ok = c.Site("nope")
	assert.False(t, ok)
}

func TestLoad_ZeroFallbackIsKept(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", "settlement:\n  fallback_price: 0\n")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Fallback())
}

func TestLoad_SitesFileMerge(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sites"), 0o755))
	writeFile(t, filepath.Join(dir, "sites"), "south.yaml", `
sites:
  - site_id: S1
    name: Pavagada
    capacity_mw: 50
    region: South
    state: KA
  - site_id: S2
    name: Kamuthi
    capacity_mw: 100
    region: South
    state: TN
`)
	p := writeFile(t, dir, "config.yaml", `
sites_file: sites/south.yaml
sites:
  - site_id: S2
    capacity_mw: 120
  - site_id: S3
    name: Bhadla
    capacity_mw: 75
    state: RJ
settlement:
  fallback_price: 4.5
  workers: 8
  timezone: Asia/Kolkata
`)
	c, err := Load(p)
	require.NoError(t, err)
	require.Len(t, c.Sites, 3)

	s2, _ := c.Site("S2")
	assert.Equal(t, 120.0, s2.CapacityMW, "inline override wins")
	assert.Equal(t, "Kamuthi", s2.Name, "unset fields come from sites_file")
	assert.Equal(t, "S3", c.Sites[2].ID)
	assert.Equal(t, 4.5, c.Fallback())
	assert.Equal(t, 8, c.Settlement.Workers)
	assert.Equal(t, "Asia/Kolkata", c.Location().String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative fallback", "settlement:\n  fallback_price: -1\n"},
		{"negative workers", "settlement:\n  workers: -2\n"},
		{"unknown timezone", "settlement:\n  timezone: Mars/Olympus\n"},
		{"zero capacity", "sites:\n  - site_id: S1\n    capacity_mw: 0\n"},
		{"missing id", "sites:\n  - capacity_mw: 5\n"},
		{"duplicate id", "sites:\n  - site_id: S1\n    capacity_mw: 5\n  - site_id: S1\n    capacity_mw: 6\n"},
		{"bad yaml", "sites: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), "config.yaml", tt.body)
			_, err := Load(p)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultFallbackPrice, c.Fallback())
	assert.Equal(t, time.UTC, c.Location())
}

func TestLoadSitesDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "sites:\n  - site_id: S2\n    capacity_mw: 20\n")
	writeFile(t, dir, "a.yaml", "sites:\n  - site_id: S1\n    capacity_mw: 10\n  - site_id: S2\n    capacity_mw: 15\n    name: Two\n")
	writeFile(t, dir, "broken.yaml", "sites: [\n")
	writeFile(t, dir, "notes.txt", "ignored")

	sites, skipped, err := LoadSitesDir(dir)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "S1", sites[0].ID)
	assert.Equal(t, 20.0, sites[1].CapacityMW, "later file overrides")
	assert.Equal(t, "Two", sites[1].Name)
	assert.Contains(t, skipped, "broken.yaml")

	_, _, err = LoadSitesDir(filepath.Join(dir, "absent"))
	assert.Error(t, err)
}
