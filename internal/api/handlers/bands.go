package handlers

import (
	"net/http"

	"dsm-settlement/internal/api/models"
	"dsm-settlement/internal/dsm"
	"dsm-settlement/internal/model"

	"github.com/gin-gonic/gin"
)

// ListBands handles GET /api/v1/bands
func ListBands(c *gin.Context) {
	noLimit := dsm.NoPenaltyLimit
	partialLimit := dsm.PartialPenaltyLimit
	bands := []models.BandInfo{
		{
			Band:          model.BandNone,
			MinDeviation:  0,
			MaxDeviation:  &noLimit,
			PenaltyFactor: model.BandNone.PenaltyFactor(),
			Description:   "Within tolerance. No charge on over-injection.",
		},
		{
			Band:          model.BandPartial,
			MinDeviation:  noLimit,
			MaxDeviation:  &partialLimit,
			PenaltyFactor: model.BandPartial.PenaltyFactor(),
			Description:   "Over-injection pays half of |deviation| x price x capacity.",
		},
		{
			Band:          model.BandFull,
			MinDeviation:  partialLimit,
			PenaltyFactor: model.BandFull.PenaltyFactor(),
			Description:   "Over-injection pays |deviation| x price x capacity in full.",
		},
	}
	c.JSON(http.StatusOK, gin.H{
		"bands": bands,
		"note":  "Under-injection is credited at the full rate regardless of band.",
	})
}
