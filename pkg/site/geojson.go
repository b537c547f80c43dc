package site

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Property keys carried on site features. These match the summaries the
// sites API emits: latest NDVI and fire-risk level flattened onto the
// feature properties.
const (
	PropName     = "name"
	PropSiteType = "siteType"
	PropNDVI     = "ndvi"
	PropFireRisk = "fireRisk"
)

// DecodeCollection parses a GeoJSON FeatureCollection of sites. Features
// whose geometry is not a single polygon decode with an empty boundary;
// the layer synchronizer skips those rather than failing the whole list.
func DecodeCollection(data []byte) ([]Site, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding sites: %w", err)
	}

	sites := make([]Site, 0, len(fc.Features))
	for _, f := range fc.Features {
		sites = append(sites, FromFeature(f))
	}
	return sites, nil
}

// FromFeature builds a Site from one GeoJSON feature.
func FromFeature(f *geojson.Feature) Site {
	s := Site{
		ID:   featureID(f),
		Name: f.Properties.MustString(PropName, ""),
		Type: Type(strings.ToUpper(f.Properties.MustString(PropSiteType, ""))),
	}

	if poly, ok := f.Geometry.(orb.Polygon); ok {
		s.Geometry = poly
	}

	if _, ok := f.Properties[PropNDVI]; ok {
		v := f.Properties.MustFloat64(PropNDVI, 0)
		s.Metrics.NDVI = &v
	}
	s.Metrics.FireRisk = f.Properties.MustString(PropFireRisk, "")

	return s
}

// Collection converts sites back to a GeoJSON FeatureCollection, the
// wire format consumed by external collaborators.
func Collection(sites []Site) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range sites {
		f := geojson.NewFeature(s.Geometry)
		f.ID = string(s.ID)
		f.Properties[PropName] = s.Name
		f.Properties[PropSiteType] = string(s.Type)
		if s.Metrics.NDVI != nil {
			f.Properties[PropNDVI] = *s.Metrics.NDVI
		}
		if s.Metrics.FireRisk != "" {
			f.Properties[PropFireRisk] = s.Metrics.FireRisk
		}
		fc.Append(f)
	}
	return fc
}

// featureID extracts a stable identifier from a feature: the top-level
// ID when present, otherwise an "id" property. JSON numbers arrive as
// float64 and are rendered without a fractional part.
func featureID(f *geojson.Feature) ID {
	id := f.ID
	if id == nil {
		id = f.Properties["id"]
	}
	switch v := id.(type) {
	case string:
		return ID(v)
	case float64:
		return ID(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		return ID(strconv.Itoa(v))
	case nil:
		return ""
	default:
		return ID(fmt.Sprint(v))
	}
}
