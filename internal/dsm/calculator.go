package dsm

import (
	"math"

	"dsm-settlement/internal/model"
	"dsm-settlement/internal/money"
)

// Band thresholds on |deviation %|. Each bound belongs to the lower band.
const (
	NoPenaltyLimit      = 15.0
	PartialPenaltyLimit = 20.0
)

// Classify maps an absolute deviation percentage to its penalty band.
//   - |dev| <= 15       -> none
//   - 15 < |dev| <= 20  -> partial
//   - |dev| > 20        -> full
func Classify(absDeviationPercent float64) model.PenaltyBand {
	switch {
	case absDeviationPercent <= NoPenaltyLimit:
		return model.BandNone
	case absDeviationPercent <= PartialPenaltyLimit:
		return model.BandPartial
	default:
		return model.BandFull
	}
}

// Compute settles one block.
//
// Over-injection (actual > scheduled) pays base × band factor.
// Under-injection is credited at the full rate whatever the band.
// base = |actual - scheduled| × price × capacity.
//
// Only the returned values are rounded; intermediates keep full precision.
func Compute(scheduledMW, actualMW, capacityMW, price float64) model.DeviationResult {
	if scheduledMW == 0 {
		return model.DeviationResult{PenaltyBand: model.BandNone}
	}

	deviationMW := actualMW - scheduledMW
	// diff*100/scheduled keeps exact band boundaries exact (e.g. 1.5/10 -> 15).
	deviationPercent := deviationMW * 100 / scheduledMW
	band := Classify(math.Abs(deviationPercent))
	base := math.Abs(deviationMW) * price * capacityMW

	var payable, receivable float64
	switch {
	case deviationMW > 0:
		payable = base * band.PenaltyFactor()
	case deviationMW < 0:
		receivable = base
	default:
		band = model.BandNone
	}

	return model.DeviationResult{
		DeviationPercent: money.Round(deviationPercent),
		PenaltyBand:      band,
		DSMPayable:       money.Round(payable),
		DSMReceivable:    money.Round(receivable),
	}
}
