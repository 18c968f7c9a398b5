package data

import (
	"os"
	"path/filepath"
	"testing"

	"dsm-settlement/internal/model"
	"dsm-settlement/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchedules_SingleObject(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(p, []byte(`
{"site_id":"S1","date":"2025-10-07","blocks":[{"block_no":1,"scheduled_mw":10.5},{"block_no":2,"scheduled_mw":0}]}`), 0o644))

	got, err := LoadSchedules(p)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S1", got[0].SiteID)
	assert.Equal(t, model.NewDate(2025, 10, 7), got[0].Date)
	assert.Equal(t, model.ScheduleBlock{BlockNo: 1, ScheduledMW: 10.5}, got[0].Blocks[0])
}

func TestLoadMarketPrices_ArrayAndMissingPrices(t *testing.T) {
	p := filepath.Join(t.TempDir(), "m.json")
	require.NoError(t, os.WriteFile(p, []byte(`[
{"date":"2025-10-07","blocks":[{"block_no":1,"dam_price":3.2},{"block_no":2,"rtm_price":4}]},
{"date":"2025-10-08","blocks":[{"block_no":1}]}
]`), 0o644))

	got, err := LoadMarketPrices(p)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Blocks[0].DAMPrice)
	assert.Equal(t, 3.2, *got[0].Blocks[0].DAMPrice)
	assert.Nil(t, got[0].Blocks[0].RTMPrice)
	assert.Nil(t, got[1].Blocks[0].DAMPrice)
}

func TestLoad_BadInput(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"site_id":"S1","date":"07/10/2025"}`), 0o644))

	_, err := LoadGenerations(bad)
	assert.Error(t, err)

	_, err = LoadGenerations(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInputsDir_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	d1 := model.NewDate(2025, 10, 1)
	d2 := d1.AddDays(1)

	require.NoError(t, SaveJSON(testutil.CreateTestSchedule("S1", d2, 10), filepath.Join(dir, ScheduleDir, "02.json")))
	require.NoError(t, SaveJSON(testutil.CreateTestSchedule("S1", d1, 10), filepath.Join(dir, ScheduleDir, "01.json")))
	require.NoError(t, SaveJSON([]model.GenerationSeries{
		testutil.CreateTestGeneration("S1", d1, 9),
		testutil.CreateTestGeneration("S1", d2, 11),
	}, filepath.Join(dir, GenerationDir, "all.json")))

	in, err := LoadInputsDir(dir)
	require.NoError(t, err)
	require.Len(t, in.Schedules, 2)
	assert.Equal(t, d1, in.Schedules[0].Date, "files are read in name order")
	assert.Len(t, in.Generations, 2)
	assert.Empty(t, in.Prices, "prices directory is optional")
	assert.Len(t, in.Schedules[0].Blocks, model.BlocksPerDay)
}

func TestLoadInputsDir_MissingSchedules(t *testing.T) {
	_, err := LoadInputsDir(t.TempDir())
	assert.Error(t, err)
}
