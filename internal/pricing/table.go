package pricing

import "dsm-settlement/internal/model"

type tableKey struct {
	date    model.Date
	blockNo int
}

// Table is an in-memory Source built from uploaded price curves.
// Later series override earlier ones for the same date/block.
type Table struct {
	rows map[tableKey]model.MarketPriceBlock
}

func NewTable(series ...model.MarketPriceSeries) *Table {
	t := &Table{rows: map[tableKey]model.MarketPriceBlock{}}
	for _, s := range series {
		t.Add(s)
	}
	return t
}

func (t *Table) Add(s model.MarketPriceSeries) {
	for _, b := range s.Blocks {
		t.rows[tableKey{date: s.Date, blockNo: b.BlockNo}] = b
	}
}

func (t *Table) Lookup(date model.Date, blockNo int) (model.MarketPriceBlock, bool) {
	if t == nil {
		return model.MarketPriceBlock{}, false
	}
	b, ok := t.rows[tableKey{date: date, blockNo: blockNo}]
	return b, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}
