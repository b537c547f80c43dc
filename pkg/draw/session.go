// Package draw implements the polygon-capture session: pointer clicks
// collected into an ordered point sequence, a live preview layer, and a
// closed ring emitted on completion.
//
// A Session is driven from the host event loop and is not safe for
// concurrent use.
package draw

import (
	"errors"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/atlasfield/mapview/pkg/mapengine"
	"github.com/atlasfield/mapview/pkg/site"
)

// Phase is the session state.
type Phase int

const (
	// Idle means no capture is in progress.
	Idle Phase = iota
	// Collecting means clicks are being appended to the point sequence.
	Collecting
)

func (p Phase) String() string {
	if p == Collecting {
		return "collecting"
	}
	return "idle"
}

const (
	previewSourceID  = "draw-preview"
	previewFillID    = "draw-preview-fill"
	previewOutlineID = "draw-preview-outline"

	// Preview accent colors, independent of site classification.
	previewFill   = "#3388ff"
	previewStroke = "#2266cc"

	previewFillOpacity = 0.3
	previewLineWidth   = 2
)

// Session captures one polygon at a time on a map. Only one session
// should be attached per map instance.
type Session struct {
	engine     mapengine.Map
	log        *slog.Logger
	onComplete func(orb.Polygon)

	phase    Phase
	points   []orb.Point
	attached bool
}

// NewSession creates a detached session. onComplete receives the closed
// ring (first point repeated last) wrapped as a single-ring polygon.
func NewSession(engine mapengine.Map, logger *slog.Logger, onComplete func(orb.Polygon)) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{engine: engine, log: logger, onComplete: onComplete}
}

// Attach binds the session's click and double-click handlers to the map
// canvas. Call when the host enables editable mode. No-op if already
// attached.
func (s *Session) Attach() {
	if s.attached {
		return
	}
	s.engine.On(mapengine.EventClick, "", func(ev mapengine.PointerEvent) {
		s.Click(ev.LngLat)
	})
	s.engine.On(mapengine.EventDoubleClick, "", func(mapengine.PointerEvent) {
		s.DoubleClick()
	})
	s.attached = true
}

// Detach unbinds both pointer handlers and cancels any capture in
// progress, so no handler can fire into a torn-down session. No-op if
// not attached.
func (s *Session) Detach() {
	if !s.attached {
		return
	}
	s.engine.Off(mapengine.EventClick, "")
	s.engine.Off(mapengine.EventDoubleClick, "")
	s.attached = false
	s.Cancel()
}

// Begin starts collecting points. Beginning while already collecting
// restarts the session, discarding uncommitted points.
func (s *Session) Begin() {
	s.phase = Collecting
	s.points = nil
	s.renderPreview()
}

// Cancel discards all collected points and returns to Idle.
func (s *Session) Cancel() {
	s.phase = Idle
	s.points = nil
	s.removePreview()
}

// Click appends a point while collecting; ignored otherwise.
func (s *Session) Click(p orb.Point) {
	if s.phase != Collecting {
		return
	}
	s.points = append(s.points, p)
	s.renderPreview()
}

// DoubleClick closes the ring if at least site.MinRingPoints points were
// collected, emits it, and resets to Idle. With fewer points it is a
// no-op and the session keeps collecting.
func (s *Session) DoubleClick() {
	if s.phase != Collecting {
		return
	}
	ring, err := site.CloseRing(s.points)
	if err != nil {
		if !errors.Is(err, site.ErrTooFewPoints) {
			s.log.Warn("closing ring", "err", err)
		}
		return
	}

	polygon := orb.Polygon{ring}
	s.phase = Idle
	s.points = nil
	s.removePreview()

	s.log.Info("polygon captured",
		"points", len(ring)-1,
		"hectares", site.AreaHectares(polygon))
	if s.onComplete != nil {
		s.onComplete(polygon)
	}
}

// Phase returns the current session state.
func (s *Session) Phase() Phase {
	return s.phase
}

// Points returns a copy of the collected points.
func (s *Session) Points() []orb.Point {
	return append([]orb.Point(nil), s.points...)
}

// renderPreview redraws the preview layer for the current points: an
// open line below 3 points, a translucent closed polygon from 3 up.
func (s *Session) renderPreview() {
	s.removePreview()
	if len(s.points) == 0 {
		return
	}

	var geom orb.Geometry
	closed := len(s.points) >= site.MinRingPoints
	if closed {
		ring, err := site.CloseRing(s.points)
		if err != nil {
			return
		}
		geom = orb.Polygon{ring}
	} else {
		geom = orb.LineString(append([]orb.Point(nil), s.points...))
	}

	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(geom))
	if err := s.engine.AddSource(previewSourceID, mapengine.Source{GeoJSON: fc}); err != nil {
		s.log.Warn("adding preview source", "err", err)
		return
	}

	if closed {
		if err := s.engine.AddLayer(mapengine.LayerSpec{
			ID:     previewFillID,
			Source: previewSourceID,
			Type:   mapengine.LayerFill,
			Paint:  mapengine.Paint{FillColor: previewFill, FillOpacity: previewFillOpacity},
		}); err != nil {
			s.log.Warn("adding preview fill", "err", err)
		}
	}
	if err := s.engine.AddLayer(mapengine.LayerSpec{
		ID:     previewOutlineID,
		Source: previewSourceID,
		Type:   mapengine.LayerLine,
		Paint:  mapengine.Paint{LineColor: previewStroke, LineWidth: previewLineWidth},
	}); err != nil {
		s.log.Warn("adding preview outline", "err", err)
	}
}

// removePreview is guarded: a missing preview or an already-destroyed
// map is not an error, so detaching after map teardown stays silent.
func (s *Session) removePreview() {
	ignorable := func(err error) bool {
		return errors.Is(err, mapengine.ErrNotFound) || errors.Is(err, mapengine.ErrDestroyed)
	}
	for _, id := range []string{previewFillID, previewOutlineID} {
		if err := s.engine.RemoveLayer(id); err != nil && !ignorable(err) {
			s.log.Warn("removing preview layer", "layer", id, "err", err)
		}
	}
	if err := s.engine.RemoveSource(previewSourceID); err != nil && !ignorable(err) {
		s.log.Warn("removing preview source", "err", err)
	}
}
