package model

import (
	"errors"
	"math"
	"strings"
)

// Site is a generation site being settled.
// Units:
// - CapacityMW: nameplate MW, used as the settlement scaling factor
type Site struct {
	ID         string  `json:"site_id"`
	Name       string  `json:"site_name,omitempty"`
	CapacityMW float64 `json:"capacity_mw"`
	Region     string  `json:"region,omitempty"`
	State      string  `json:"state,omitempty"`
}

func (s *Site) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("site id is required")
	}
	if math.IsNaN(s.CapacityMW) || math.IsInf(s.CapacityMW, 0) || s.CapacityMW <= 0 {
		return errors.New("CapacityMW must be > 0")
	}
	return nil
}
