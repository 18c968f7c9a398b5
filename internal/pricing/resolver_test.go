package pricing

import (
	"math"
	"testing"

	"dsm-settlement/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	day := model.NewDate(2025, 10, 7)

	tests := []struct {
		name  string
		block model.MarketPriceBlock
		found bool
		want  Resolution
	}{
		{
			name:  "DAM wins when present",
			block: model.MarketPriceBlock{BlockNo: 1, DAMPrice: model.Price(4.5), RTMPrice: model.Price(6.0)},
			found: true,
			want:  Resolution{Price: 4.5, Source: model.PriceSourceDAM, Authoritative: true},
		},
		{
			name:  "RTM when DAM missing",
			block: model.MarketPriceBlock{BlockNo: 1, RTMPrice: model.Price(6.0)},
			found: true,
			want:  Resolution{Price: 6.0, Source: model.PriceSourceRTM, Authoritative: true},
		},
		{
			name:  "fallback when both missing",
			block: model.MarketPriceBlock{BlockNo: 1},
			found: true,
			want:  Resolution{Price: 3.0, Source: model.PriceSourceFallback, Authoritative: false},
		},
		{
			name:  "fallback when block unknown",
			found: false,
			want:  Resolution{Price: 3.0, Source: model.PriceSourceFallback, Authoritative: false},
		},
		{
			name:  "negative DAM treated as absent",
			block: model.MarketPriceBlock{BlockNo: 1, DAMPrice: model.Price(-2), RTMPrice: model.Price(5.5)},
			found: true,
			want:  Resolution{Price: 5.5, Source: model.PriceSourceRTM, Authoritative: true},
		},
		{
			name:  "NaN RTM treated as absent",
			block: model.MarketPriceBlock{BlockNo: 1, RTMPrice: model.Price(math.NaN())},
			found: true,
			want:  Resolution{Price: 3.0, Source: model.PriceSourceFallback, Authoritative: false},
		},
		{
			name:  "zero DAM is a valid price",
			block: model.MarketPriceBlock{BlockNo: 1, DAMPrice: model.Price(0), RTMPrice: model.Price(5.5)},
			found: true,
			want:  Resolution{Price: 0, Source: model.PriceSourceDAM, Authoritative: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := SourceFunc(func(d model.Date, blockNo int) (model.MarketPriceBlock, bool) {
				assert.Equal(t, day, d)
				return tt.block, tt.found
			})
			r, err := NewResolver(src, 3.0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Resolve(day, 1))
		})
	}
}

func TestResolver_NilSource(t *testing.T) {
	r, err := NewResolver(nil, 2.75)
	require.NoError(t, err)
	res := r.Resolve(model.NewDate(2025, 1, 1), 42)
	assert.Equal(t, 2.75, res.Price)
	assert.False(t, res.Authoritative)
}

func TestNewResolver_RejectsBadFallback(t *testing.T) {
	_, err := NewResolver(nil, -1)
	assert.ErrorIs(t, err, ErrInvalidFallback)
	_, err = NewResolver(nil, math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidFallback)
}

func TestTable_Lookup(t *testing.T) {
	d1 := model.NewDate(2025, 10, 7)
	d2 := model.NewDate(2025, 10, 8)
	tbl := NewTable(
		model.MarketPriceSeries{Date: d1, Blocks: []model.MarketPriceBlock{{BlockNo: 1, DAMPrice: model.Price(3.2)}}},
		model.MarketPriceSeries{Date: d2, Blocks: []model.MarketPriceBlock{{BlockNo: 1, RTMPrice: model.Price(4.1)}}},
	)
	assert.Equal(t, 2, tbl.Len())

	r, err := NewResolver(tbl, 3.0)
	require.NoError(t, err)
	assert.Equal(t, model.PriceSourceDAM, r.Resolve(d1, 1).Source)
	assert.Equal(t, model.PriceSourceRTM, r.Resolve(d2, 1).Source)
	assert.Equal(t, model.PriceSourceFallback, r.Resolve(d1, 2).Source)

	// later series replace earlier rows
	tbl.Add(model.MarketPriceSeries{Date: d1, Blocks: []model.MarketPriceBlock{{BlockNo: 1, DAMPrice: model.Price(9.9)}}})
	assert.Equal(t, 9.9, r.Resolve(d1, 1).Price)
}
