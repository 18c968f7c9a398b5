package model

// MarketPriceBlock carries the grid-wide prices for one block.
// Either price may be missing; pricing.Resolver decides what to use.
// Prices are in currency per unit energy (INR/kWh in the default config).
type MarketPriceBlock struct {
	BlockNo  int      `json:"block_no"`
	DAMPrice *float64 `json:"dam_price,omitempty"`
	RTMPrice *float64 `json:"rtm_price,omitempty"`
}

// MarketPriceSeries is the price curve for one trading day. It has no site.
type MarketPriceSeries struct {
	Date   Date               `json:"date"`
	Blocks []MarketPriceBlock `json:"blocks"`
}

// Price is a small helper for building optional price fields.
func Price(v float64) *float64 {
	return &v
}
