package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.01},
		{-1.005, -1.01},
		{2.675, 2.68},
		{0.125, 0.13},
		{254.9999999999999, 255},
		{-16.999999999999993, -17},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in), "Round(%v)", tt.in)
	}
}

func TestSum_Exact(t *testing.T) {
	var s Sum
	for i := 0; i < 10; i++ {
		s.Add(0.1)
	}
	assert.Equal(t, 1.0, s.Float())

	s.Add(-0.35)
	assert.Equal(t, 0.65, s.Float())
}

func TestSub(t *testing.T) {
	assert.Equal(t, 0.3, Sub(0.5, 0.2))
	assert.Equal(t, -69.3, Sub(1.4, 70.7))
}
