// Package api wires the HTTP surface of the settlement engine.
package api

import (
	"net/http"
	"os"

	"dsm-settlement/internal/api/handlers"
	"dsm-settlement/internal/api/middleware"
	"dsm-settlement/internal/config"
	"dsm-settlement/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Config   *config.Config
	Log      logrus.FieldLogger
	Registry *prometheus.Registry
	// SitesDir holds site preset YAML files; empty means $SITES_DIR.
	SitesDir string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	m := metrics.New(opts.Registry)
	deps := handlers.Deps{Config: opts.Config, Metrics: m, Log: opts.Log}

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(opts.Log))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.ErrorHandler(opts.Log))

	settlementHandler := handlers.NewSettlementHandler(deps)
	revenueHandler := handlers.NewRevenueHandler(deps)
	siteHandler := handlers.NewSiteHandler(deps, opts.SitesDir)
	validateHandler := handlers.NewValidateHandler(deps)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/sites", siteHandler.ListSites)
		v1.GET("/bands", handlers.ListBands)

		v1.POST("/settlements/day", settlementHandler.SettleDay)
		v1.POST("/settlements/month", settlementHandler.AggregateMonth)
		v1.POST("/settlements/week", settlementHandler.AggregateWeek)
		v1.POST("/settlements/consolidated", settlementHandler.Consolidate)

		v1.POST("/revenue", revenueHandler.Analyze)
		v1.POST("/revenue/rank", revenueHandler.Rank)

		v1.POST("/validate", validateHandler.Validate)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"code": "NOT_FOUND", "message": "route " + c.Request.URL.Path + " not found"},
		})
	})
	return router
}

// Mode picks gin's mode from API_ENV.
func Mode() string {
	if os.Getenv("API_ENV") == "production" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
