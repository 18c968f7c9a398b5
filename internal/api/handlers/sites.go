package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"dsm-settlement/internal/api/models"
	"dsm-settlement/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SiteHandler handles site preset requests
type SiteHandler struct {
	Deps
	sitesDir string
}

// NewSiteHandler creates a new site handler. dir defaults to $SITES_DIR,
// then ./sites.
func NewSiteHandler(deps Deps, dir string) *SiteHandler {
	deps = deps.withDefaults()
	if dir == "" {
		dir = os.Getenv("SITES_DIR")
	}
	if dir == "" {
		dir = "./sites"
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	deps.Log.WithField("sites_dir", dir).Debug("site presets directory")
	return &SiteHandler{Deps: deps, sitesDir: dir}
}

// ListSites handles GET /api/v1/sites
//
// Configured sites come first; presets from the sites directory follow
// unless a configured site already has their id.
func (h *SiteHandler) ListSites(c *gin.Context) {
	sites := []models.SiteInfo{}
	seen := map[string]bool{}
	for _, s := range h.Config.Sites {
		sites = append(sites, models.SiteInfo{Site: s.ToModel(), Source: "config"})
		seen[s.ID] = true
	}

	presets, skipped, err := config.LoadSitesDir(h.sitesDir)
	if err != nil {
		if !os.IsNotExist(err) {
			h.Log.WithError(err).WithField("sites_dir", h.sitesDir).Warn("failed to read sites directory")
		}
		c.JSON(http.StatusOK, gin.H{"sites": sites})
		return
	}
	for name, err := range skipped {
		h.Log.WithFields(logrus.Fields{"file": name, "error": err}).Warn("skipping invalid site preset")
	}

	for _, p := range presets {
		if seen[p.ID] {
			continue
		}
		site := p.ToModel()
		if err := site.Validate(); err != nil {
			h.Log.WithFields(logrus.Fields{"site_id": p.ID, "error": err}).Warn("skipping invalid site preset")
			continue
		}
		sites = append(sites, models.SiteInfo{Site: site, Source: "preset"})
	}

	c.JSON(http.StatusOK, gin.H{"sites": sites})
}
