package settlement

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"dsm-settlement/internal/model"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{
		"site_id",
		"date",
		"block_no",
		"block_time",
		"block_start",
		"block_end",
		"scheduled_mw",
		"actual_mw",
		"capacity_mw",
		"market_price",
		"price_source",
		"deviation_percent",
		"penalty_band",
		"dsm_payable",
		"dsm_receivable",
		"cum_payable",
		"cum_receivable",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			r.SiteID,
			r.Date.String(),
			strconv.Itoa(r.BlockNo),
			model.BlockLabel(r.BlockNo),
			fmtTime(r.BlockStart),
			fmtTime(r.BlockEnd),
			fmtFloat(r.ScheduledMW),
			fmtFloat(r.ActualMW),
			fmtFloat(r.CapacityMW),
			fmtFloat(r.Price),
			string(r.PriceSource),
			fmtMoney(r.DeviationPercent),
			string(r.PenaltyBand),
			fmtMoney(r.DSMPayable),
			fmtMoney(r.DSMReceivable),
			fmtMoney(r.CumPayable),
			fmtMoney(r.CumReceivable),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func fmtMoney(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
