package model

import "fmt"

// PenaltyBand is the deviation-magnitude tier of a block.
// Keep these values stable; they are part of the JSON and CSV output.
type PenaltyBand string

const (
	BandNone    PenaltyBand = "none"
	BandPartial PenaltyBand = "partial"
	BandFull    PenaltyBand = "full"
)

// Bands lists every band in ascending severity.
var Bands = []PenaltyBand{BandNone, BandPartial, BandFull}

// PenaltyFactor is the share of an over-injection's value that is payable.
func (b PenaltyBand) PenaltyFactor() float64 {
	switch b {
	case BandPartial:
		return 0.5
	case BandFull:
		return 1.0
	default:
		return 0.0
	}
}

func (b PenaltyBand) Valid() bool {
	switch b {
	case BandNone, BandPartial, BandFull:
		return true
	}
	return false
}

func ParsePenaltyBand(s string) (PenaltyBand, error) {
	b := PenaltyBand(s)
	if !b.Valid() {
		return "", fmt.Errorf("unknown penalty band %q", s)
	}
	return b, nil
}

func (b PenaltyBand) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("unknown penalty band %q", string(b))
	}
	return []byte(b), nil
}

func (b *PenaltyBand) UnmarshalText(text []byte) error {
	parsed, err := ParsePenaltyBand(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// DeviationResult is the settlement outcome of one block.
// At most one of DSMPayable and DSMReceivable is non-zero.
type DeviationResult struct {
	DeviationPercent float64     `json:"deviation_percent"`
	PenaltyBand      PenaltyBand `json:"penalty_band"`
	DSMPayable       float64     `json:"dsm_payable"`
	DSMReceivable    float64     `json:"dsm_receivable"`
}
