package pricing

import (
	"errors"
	"fmt"
	"math"

	"dsm-settlement/internal/model"
)

var ErrInvalidFallback = errors.New("fallback price must be a finite number >= 0")

// Source supplies whatever market prices are known for a block.
type Source interface {
	Lookup(date model.Date, blockNo int) (model.MarketPriceBlock, bool)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(date model.Date, blockNo int) (model.MarketPriceBlock, bool)

func (f SourceFunc) Lookup(date model.Date, blockNo int) (model.MarketPriceBlock, bool) {
	return f(date, blockNo)
}

// Resolution is the price chosen for a block and where it came from.
// Authoritative is false when the configured fallback was used.
type Resolution struct {
	Price         float64           `json:"price"`
	Source        model.PriceSource `json:"source"`
	Authoritative bool              `json:"authoritative"`
}

// Resolver picks a settlement price: DAM, then RTM, then the fallback.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	source   Source
	fallback float64
}

func NewResolver(src Source, fallbackPrice float64) (*Resolver, error) {
	if !usable(fallbackPrice) {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidFallback, fallbackPrice)
	}
	return &Resolver{source: src, fallback: fallbackPrice}, nil
}

func (r *Resolver) FallbackPrice() float64 { return r.fallback }

// Resolve never fails; missing or unusable market data yields the fallback.
func (r *Resolver) Resolve(date model.Date, blockNo int) Resolution {
	if r.source != nil {
		if p, ok := r.source.Lookup(date, blockNo); ok {
			if p.DAMPrice != nil && usable(*p.DAMPrice) {
				return Resolution{Price: *p.DAMPrice, Source: model.PriceSourceDAM, Authoritative: true}
			}
			if p.RTMPrice != nil && usable(*p.RTMPrice) {
				return Resolution{Price: *p.RTMPrice, Source: model.PriceSourceRTM, Authoritative: true}
			}
		}
	}
	return Resolution{Price: r.fallback, Source: model.PriceSourceFallback, Authoritative: false}
}

// usable treats negative and non-finite prices as absent.
func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
