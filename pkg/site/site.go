// Package site defines the monitored-site domain model: user-owned
// fields and forests with a GeoJSON polygon boundary and the latest
// health metrics attached by the analysis backend.
package site

import (
	"github.com/paulmach/orb"
)

// ID is the opaque site identifier assigned by the data layer.
type ID string

// Type discriminates what kind of site is being monitored.
type Type string

const (
	TypeField  Type = "FIELD"
	TypeForest Type = "FOREST"
)

// Fire risk levels reported by forest analysis. MEDIUM is a legacy
// spelling of MODERATE that still appears in stored alerts.
const (
	FireRiskLow      = "LOW"
	FireRiskModerate = "MODERATE"
	FireRiskMedium   = "MEDIUM"
	FireRiskHigh     = "HIGH"
	FireRiskCritical = "CRITICAL"
)

// Metrics carries the latest analysis values for a site. NDVI is nil
// when no vegetation analysis has run yet; FireRisk is empty when no
// fire-risk analysis exists.
type Metrics struct {
	NDVI     *float64
	FireRisk string
}

// Site is one monitored site. The map core treats sites as read-only
// snapshots owned by the external data layer.
type Site struct {
	ID       ID
	Name     string
	Type     Type
	Geometry orb.Polygon
	Metrics  Metrics
}

// HasGeometry reports whether the site has a non-empty boundary ring.
func (s Site) HasGeometry() bool {
	return len(s.Geometry) > 0 && len(s.Geometry[0]) > 0
}

// Bound returns the bounding box of the site boundary.
func (s Site) Bound() orb.Bound {
	return s.Geometry.Bound()
}
