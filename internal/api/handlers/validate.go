package handlers

import (
	"net/http"

	"dsm-settlement/internal/api/models"
	"dsm-settlement/internal/model"

	"github.com/gin-gonic/gin"
)

// ValidateHandler checks uploads against the block-series rules
type ValidateHandler struct {
	Deps
}

func NewValidateHandler(deps Deps) *ValidateHandler {
	return &ValidateHandler{Deps: deps.withDefaults()}
}

// Validate handles POST /api/v1/validate. It always answers 200 with a
// report; a failing upload is not a failed request.
func (h *ValidateHandler) Validate(c *gin.Context) {
	var req models.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	resp := models.ValidateResponse{Errors: []*model.ValidationError{}}
	collect := func(err error) {
		resp.Checks++
		if err == nil {
			return
		}
		if h.Metrics != nil {
			h.Metrics.ObserveError(err)
		}
		if verr, ok := model.AsValidationError(err); ok {
			resp.Errors = append(resp.Errors, verr)
		}
	}

	for _, s := range req.Schedules {
		collect(model.ValidateSchedule(s))
	}
	for _, g := range req.Generations {
		collect(model.ValidateGeneration(g))
	}
	for _, p := range req.Prices {
		collect(model.ValidateMarketPrices(p))
	}

	resp.Valid = len(resp.Errors) == 0
	c.JSON(http.StatusOK, resp)
}
