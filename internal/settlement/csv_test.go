package settlement

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"dsm-settlement/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLedgerCSV(t *testing.T) {
	e := newTestEngine(t, testutil.CreateTestDAMPrices(testDay, 3.0))
	day, err := e.SettleDay(testutil.CreateTestSite("S1", 50),
		testutil.CreateTestSchedule("S1", testDay, 10),
		testutil.CreateTestGenerationWith("S1", testDay, 10, map[int]float64{1: 12.5}))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, WriteLedgerCSV(path, day.Ledger))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 1+96)
	assert.Equal(t, "block_no", rows[0][2])
	assert.Equal(t, []string{"S1", "2025-10-07", "1", "00:00-00:15"}, rows[1][:4])
	assert.Equal(t, "23:45-24:00", rows[96][3])
	assert.Equal(t, "dam", rows[1][10])
	assert.Equal(t, "25.00", rows[1][11])
	assert.Equal(t, "full", rows[1][12])
	assert.Equal(t, "375.00", rows[1][13])
	assert.Equal(t, "375.00", rows[96][15], "cumulative payable carried to the last block")
}
