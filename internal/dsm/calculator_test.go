package dsm

import (
	"math"
	"math/rand"
	"testing"

	"dsm-settlement/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		scheduled float64
		actual    float64
		capacity  float64
		price     float64
		expected  model.DeviationResult
	}{
		{
			name:      "zero schedule is never penalised",
			scheduled: 0,
			actual:    7,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{PenaltyBand: model.BandNone},
		},
		{
			name:      "small over-injection within tolerance",
			scheduled: 10,
			actual:    10.5,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{DeviationPercent: 5, PenaltyBand: model.BandNone},
		},
		{
			name:      "25% over-injection pays full rate",
			scheduled: 10,
			actual:    12.5,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{DeviationPercent: 25, PenaltyBand: model.BandFull, DSMPayable: 375},
		},
		{
			name:      "17% under-injection credits full rate in partial band",
			scheduled: 10,
			actual:    8.3,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{DeviationPercent: -17, PenaltyBand: model.BandPartial, DSMReceivable: 255},
		},
		{
			name:      "18% over-injection pays half",
			scheduled: 10,
			actual:    11.8,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{DeviationPercent: 18, PenaltyBand: model.BandPartial, DSMPayable: 135},
		},
		{
			name:      "exactly 15% over stays in none band",
			scheduled: 10,
			actual:    11.5,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{DeviationPercent: 15, PenaltyBand: model.BandNone},
		},
		{
			name:      "exactly 20% over is partial",
			scheduled: 10,
			actual:    12,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{DeviationPercent: 20, PenaltyBand: model.BandPartial, DSMPayable: 150},
		},
		{
			name:      "exactly 15% under is none band but still credited",
			scheduled: 10,
			actual:    8.5,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{DeviationPercent: -15, PenaltyBand: model.BandNone, DSMReceivable: 225},
		},
		{
			name:      "exactly 20% under is partial",
			scheduled: 10,
			actual:    8,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{DeviationPercent: -20, PenaltyBand: model.BandPartial, DSMReceivable: 300},
		},
		{
			name:      "exact match",
			scheduled: 10,
			actual:    10,
			capacity:  50,
			price:     3,
			expected:  model.DeviationResult{PenaltyBand: model.BandNone},
		},
		{
			name:      "total shortfall",
			scheduled: 4,
			actual:    0,
			capacity:  10,
			price:     2.5,
			expected:  model.DeviationResult{DeviationPercent: -100, PenaltyBand: model.BandFull, DSMReceivable: 100},
		},
		{
			name:      "rounding happens at the end",
			scheduled: 3,
			actual:    4,
			capacity:  1,
			price:     1.005,
			expected:  model.DeviationResult{DeviationPercent: 33.33, PenaltyBand: model.BandFull, DSMPayable: 1.01},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.scheduled, tt.actual, tt.capacity, tt.price)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, model.BandNone, Classify(0))
	assert.Equal(t, model.BandNone, Classify(15))
	assert.Equal(t, model.BandPartial, Classify(15.0001))
	assert.Equal(t, model.BandPartial, Classify(20))
	assert.Equal(t, model.BandFull, Classify(20.0001))
}

func TestCompute_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		scheduled := math.Round(rng.Float64()*400) / 10
		actual := math.Round(rng.Float64()*400) / 10
		capacity := 1 + rng.Float64()*99
		price := rng.Float64() * 10

		res := Compute(scheduled, actual, capacity, price)

		assert.False(t, res.DSMPayable != 0 && res.DSMReceivable != 0,
			"both sides non-zero for s=%v a=%v", scheduled, actual)
		assert.GreaterOrEqual(t, res.DSMPayable, 0.0)
		assert.GreaterOrEqual(t, res.DSMReceivable, 0.0)
		assert.True(t, res.PenaltyBand.Valid())

		if scheduled == 0 {
			assert.Equal(t, model.DeviationResult{PenaltyBand: model.BandNone}, res)
			continue
		}
		if actual < scheduled {
			// credited at full rate regardless of band
			want := math.Round((scheduled-actual)*price*capacity*100) / 100
			assert.InDelta(t, want, res.DSMReceivable, 0.011)
			assert.Zero(t, res.DSMPayable)
		}
		if actual > scheduled && res.PenaltyBand == model.BandNone {
			assert.Zero(t, res.DSMPayable)
		}
	}
}
