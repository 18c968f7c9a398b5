package handlers

import (
	"errors"
	"net/http"

	"dsm-settlement/internal/api/models"
	"dsm-settlement/internal/config"
	"dsm-settlement/internal/metrics"
	"dsm-settlement/internal/model"
	"dsm-settlement/internal/pricing"
	"dsm-settlement/internal/revenue"
	"dsm-settlement/internal/settlement"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps are shared by every handler.
type Deps struct {
	Config  *config.Config
	Metrics *metrics.Metrics
	Log     logrus.FieldLogger
}

func (d Deps) withDefaults() Deps {
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	return d
}

func abortWith(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func badRequest(c *gin.Context, code string, err error) {
	abortWith(c, http.StatusBadRequest, code, err.Error(), nil)
}

// respondError maps settlement errors onto the error envelope.
func (d Deps) respondError(c *gin.Context, err error) {
	if d.Metrics != nil {
		d.Metrics.ObserveError(err)
	}

	verr, invalid := model.AsValidationError(err)
	switch {
	case invalid:
		abortWith(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), map[string]interface{}{
			"kind":       verr.Kind,
			"site_id":    verr.SiteID,
			"date":       verr.Date,
			"rules":      verr.Rules(),
			"violations": verr.Violations,
		})
	case errors.Is(err, pricing.ErrInvalidFallback):
		badRequest(c, "INVALID_FALLBACK", err)
	case errors.Is(err, settlement.ErrSiteMismatch), errors.Is(err, settlement.ErrDateMismatch):
		badRequest(c, "SERIES_MISMATCH", err)
	case errors.Is(err, revenue.ErrMissingGeneration), errors.Is(err, revenue.ErrMissingSchedule):
		badRequest(c, "MISSING_SERIES", err)
	case errors.Is(err, revenue.ErrOutsideMonth), errors.Is(err, revenue.ErrForeignSite),
		errors.Is(err, settlement.ErrOutsideMonth), errors.Is(err, settlement.ErrOutsideWeek),
		errors.Is(err, settlement.ErrForeignSite), errors.Is(err, settlement.ErrMonthMixed):
		badRequest(c, "OUT_OF_SCOPE", err)
	default:
		d.Log.WithError(err).Error("settlement failed")
		abortWith(c, http.StatusInternalServerError, "SETTLEMENT_ERROR", err.Error(), nil)
	}
}

// resolveSite fills a request site from the configured preset with the
// same id. Fields set in the request win.
func (d Deps) resolveSite(in model.Site) (model.Site, error) {
	site := in
	if preset, ok := d.Config.Site(in.ID); ok {
		merged := config.MergeSite(siteConfig(preset), siteConfig(in))
		site = merged.ToModel()
	}
	if err := site.Validate(); err != nil {
		return model.Site{}, err
	}
	return site, nil
}

func siteConfig(s model.Site) config.SiteConfig {
	return config.SiteConfig{ID: s.ID, Name: s.Name, CapacityMW: s.CapacityMW, Region: s.Region, State: s.State}
}

// buildResolver validates the price uploads and wraps them in a resolver.
func (d Deps) buildResolver(prices []model.MarketPriceSeries, fallback *float64) (*pricing.Resolver, error) {
	for _, p := range prices {
		if err := model.ValidateMarketPrices(p); err != nil {
			return nil, err
		}
	}
	fb := d.Config.Fallback()
	if fallback != nil {
		fb = *fallback
	}
	return pricing.NewResolver(pricing.NewTable(prices...), fb)
}

func (d Deps) engine(r *pricing.Resolver) *settlement.Engine {
	return settlement.New(r, settlement.WithLogger(d.Log), settlement.WithLocation(d.Config.Location()))
}
