package revenue

import (
	"sort"

	"dsm-settlement/internal/model"
)

type RankedScenario struct {
	Rank int `json:"rank"`
	model.RevenueScenario
}

// RankByLoss sorts sites by DSM loss, worst first. Ties keep site order.
func RankByLoss(scenarios []model.RevenueScenario) []RankedScenario {
	out := make([]RankedScenario, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, RankedScenario{RevenueScenario: s})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DSMLoss != out[j].DSMLoss {
			return out[i].DSMLoss > out[j].DSMLoss
		}
		return out[i].SiteID < out[j].SiteID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
