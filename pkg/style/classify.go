// Package style maps a site's type and health metrics to the display
// color used on the map. Classification is pure and total: every input
// yields exactly one of the four palette colors.
package style

import (
	"strings"

	"github.com/atlasfield/mapview/pkg/site"
)

// Color is a semantic display color.
type Color string

const (
	Green Color = "green"
	Amber Color = "amber"
	Red   Color = "red"
	Gray  Color = "gray"
)

// Hex returns the CSS color for c. Unknown colors render as Gray.
func (c Color) Hex() string {
	switch c {
	case Green:
		return "#22c55e"
	case Amber:
		return "#f59e0b"
	case Red:
		return "#ef4444"
	default:
		return "#9ca3af"
	}
}

// NDVI thresholds for field health.
const (
	ndviHealthy  = 0.6
	ndviStressed = 0.4
)

// Classify returns the display color for a site type and its metrics.
//
// Forests classify by fire risk (case-insensitive), defaulting to Green
// when the risk is absent or unrecognized. Fields classify by NDVI, and
// Gray when no NDVI exists yet. Unrecognized site types are treated as
// a field with no metrics so future types degrade to Gray instead of
// misreporting health.
func Classify(t site.Type, m site.Metrics) Color {
	if t == site.TypeForest {
		switch strings.ToUpper(m.FireRisk) {
		case site.FireRiskModerate, site.FireRiskMedium:
			return Amber
		case site.FireRiskHigh, site.FireRiskCritical:
			return Red
		default:
			return Green
		}
	}

	if t != site.TypeField {
		return Gray
	}
	if m.NDVI == nil {
		return Gray
	}
	switch v := *m.NDVI; {
	case v >= ndviHealthy:
		return Green
	case v >= ndviStressed:
		return Amber
	default:
		return Red
	}
}

// ClassifySite is a convenience wrapper over Classify.
func ClassifySite(s site.Site) Color {
	return Classify(s.Type, s.Metrics)
}
