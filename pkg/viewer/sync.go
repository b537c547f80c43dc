package viewer

import (
	"errors"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/atlasfield/mapview/pkg/mapengine"
	"github.com/atlasfield/mapview/pkg/site"
	"github.com/atlasfield/mapview/pkg/style"
)

const (
	fitPadding   = 40
	fillOpacity  = 0.25
	outlineWidth = 2
)

// SetSites replaces the rendered snapshot. Before the engine's style has
// loaded the snapshot is held and rendered when the signal fires; after
// that every call tears down the previous layers and rebuilds them.
//
// Rebuilding wholesale instead of diffing is deliberate: snapshots are
// small and keyed layer identity is not worth the bookkeeping.
func (v *Viewer) SetSites(sites []site.Site) {
	if v.closed {
		return
	}
	v.sites = append([]site.Site(nil), sites...)
	if !v.styleReady {
		v.pendingSync = true
		v.log.Debug("style not loaded yet, deferring site sync", "sites", len(sites))
		return
	}
	v.rebuild()
}

// Sites returns the current snapshot.
func (v *Viewer) Sites() []site.Site {
	return append([]site.Site(nil), v.sites...)
}

func (v *Viewer) rebuild() {
	// Guard against overlapping teardown/rebuild if ever triggered
	// reentrantly; the host event loop normally serializes this.
	if v.syncing {
		return
	}
	v.syncing = true
	defer func() { v.syncing = false }()

	v.teardownSiteLayers()

	var bounds orb.Bound
	haveBounds := false

	for i, s := range v.sites {
		if !s.HasGeometry() {
			v.log.Warn("skipping site without geometry", "site", string(s.ID), "name", s.Name)
			continue
		}

		key := layerKey(i, s)
		sourceID := "site-" + key
		fillID := sourceID + "-fill"
		outlineID := sourceID + "-outline"

		fc := geojson.NewFeatureCollection()
		f := geojson.NewFeature(s.Geometry)
		f.ID = string(s.ID)
		f.Properties[site.PropName] = s.Name
		fc.Append(f)

		if err := v.engine.AddSource(sourceID, mapengine.Source{GeoJSON: fc}); err != nil {
			v.log.Warn("adding site source", "site", key, "err", err)
			continue
		}
		v.siteSources = append(v.siteSources, sourceID)

		hex := style.ClassifySite(s).Hex()
		if err := v.engine.AddLayer(mapengine.LayerSpec{
			ID:     fillID,
			Source: sourceID,
			Type:   mapengine.LayerFill,
			Paint:  mapengine.Paint{FillColor: hex, FillOpacity: fillOpacity},
		}); err != nil {
			v.log.Warn("adding site fill layer", "site", key, "err", err)
			continue
		}
		v.siteLayers = append(v.siteLayers, fillID)

		if err := v.engine.AddLayer(mapengine.LayerSpec{
			ID:     outlineID,
			Source: sourceID,
			Type:   mapengine.LayerLine,
			Paint:  mapengine.Paint{LineColor: hex, LineWidth: outlineWidth},
		}); err != nil {
			v.log.Warn("adding site outline layer", "site", key, "err", err)
		} else {
			v.siteLayers = append(v.siteLayers, outlineID)
		}

		v.bindSiteHandlers(fillID, s.ID)

		b := s.Bound()
		if haveBounds {
			bounds = bounds.Union(b)
		} else {
			bounds = b
			haveBounds = true
		}
	}

	if haveBounds {
		v.engine.FitBounds(bounds, fitPadding)
	}
}

// teardownSiteLayers removes every layer and source created by the
// previous sync. Removal is guarded: a layer the engine already dropped
// is not an error.
func (v *Viewer) teardownSiteLayers() {
	for _, id := range v.siteLayers {
		if err := v.engine.RemoveLayer(id); err != nil && !errors.Is(err, mapengine.ErrNotFound) {
			v.log.Warn("removing site layer", "layer", id, "err", err)
		}
	}
	for _, id := range v.siteSources {
		if err := v.engine.RemoveSource(id); err != nil && !errors.Is(err, mapengine.ErrNotFound) {
			v.log.Warn("removing site source", "source", id, "err", err)
		}
	}
	v.siteLayers = nil
	v.siteSources = nil
}

func (v *Viewer) bindSiteHandlers(fillID string, id site.ID) {
	v.engine.On(mapengine.EventClick, fillID, func(mapengine.PointerEvent) {
		if v.handlers.OnSiteClick != nil {
			v.handlers.OnSiteClick(id)
		}
	})
	v.engine.On(mapengine.EventMouseEnter, fillID, func(mapengine.PointerEvent) {
		v.engine.SetCursor(mapengine.CursorPointer)
	})
	v.engine.On(mapengine.EventMouseLeave, fillID, func(mapengine.PointerEvent) {
		v.engine.SetCursor(mapengine.CursorDefault)
	})
}

// layerKey derives a stable per-snapshot key for a site's source and
// layer IDs: the site ID when present, otherwise its snapshot index.
func layerKey(i int, s site.Site) string {
	if s.ID != "" {
		return string(s.ID)
	}
	return strconv.Itoa(i)
}
