// Package money holds the currency rounding and summation rules used by
// settlement output. Amounts travel as float64; decimal is used only where
// a value is rounded or summed so that results are exact and order-free.
package money

import "github.com/shopspring/decimal"

// Places is the fixed currency precision of every reported amount.
const Places = 2

// Round rounds half away from zero to Places decimals.
func Round(x float64) float64 {
	return decimal.NewFromFloat(x).Round(Places).InexactFloat64()
}

// Sum accumulates already-rounded amounts exactly.
type Sum struct {
	d decimal.Decimal
}

func (s *Sum) Add(x float64) {
	s.d = s.d.Add(decimal.NewFromFloat(x))
}

func (s Sum) Float() float64 {
	return s.d.Round(Places).InexactFloat64()
}

func (s Sum) Decimal() decimal.Decimal {
	return s.d
}

// Sub returns a-b computed in decimal, rounded.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(Places).InexactFloat64()
}
