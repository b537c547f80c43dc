package draw

import (
	"io"
	"log/slog"
	"testing"

	"github.com/paulmach/orb"

	"github.com/atlasfield/mapview/pkg/mapengine"
	"github.com/atlasfield/mapview/pkg/mapengine/headless"
)

func newTestSession(t *testing.T) (*Session, *headless.Engine, *[]orb.Polygon) {
	t.Helper()
	eng := headless.New(mapengine.Options{})
	eng.FinishStyleLoad()

	var completed []orb.Polygon
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewSession(eng, logger, func(p orb.Polygon) {
		completed = append(completed, p)
	})
	return s, eng, &completed
}

var clicks = []orb.Point{{8, 45}, {8.1, 45}, {8.1, 45.1}, {8, 45.1}}

func TestMinimumPointsLaw(t *testing.T) {
	s, _, completed := newTestSession(t)

	s.Begin()
	s.Click(clicks[0])
	s.Click(clicks[1])
	s.DoubleClick()

	if s.Phase() != Collecting {
		t.Errorf("phase = %s, want collecting", s.Phase())
	}
	if got := s.Points(); len(got) != 2 {
		t.Errorf("points retained = %d, want 2", len(got))
	}
	if len(*completed) != 0 {
		t.Error("polygon emitted with 2 points")
	}
}

func TestCompletionLaw(t *testing.T) {
	s, eng, completed := newTestSession(t)

	s.Begin()
	for _, p := range clicks[:3] {
		s.Click(p)
	}
	s.DoubleClick()

	if len(*completed) != 1 {
		t.Fatalf("emitted %d polygons, want 1", len(*completed))
	}
	poly := (*completed)[0]
	if len(poly) != 1 {
		t.Fatalf("polygon has %d rings, want 1", len(poly))
	}
	ring := poly[0]
	if len(ring) != 4 {
		t.Fatalf("ring length = %d, want 4", len(ring))
	}
	if ring[0] != clicks[0] || ring[3] != clicks[0] {
		t.Errorf("ring not closed on first click: first %v, last %v", ring[0], ring[3])
	}

	if s.Phase() != Idle {
		t.Errorf("phase after completion = %s, want idle", s.Phase())
	}
	if len(s.Points()) != 0 {
		t.Errorf("points after completion = %d, want 0", len(s.Points()))
	}
	if _, ok := eng.Source(previewSourceID); ok {
		t.Error("preview source survived completion")
	}
}

func TestCancelLaw(t *testing.T) {
	for n := 0; n <= 4; n++ {
		s, eng, completed := newTestSession(t)
		s.Begin()
		for i := 0; i < n; i++ {
			s.Click(clicks[i%len(clicks)])
		}
		s.Cancel()

		if s.Phase() != Idle {
			t.Errorf("n=%d: phase = %s, want idle", n, s.Phase())
		}
		if len(s.Points()) != 0 {
			t.Errorf("n=%d: %d points after cancel, want 0", n, len(s.Points()))
		}
		if len(*completed) != 0 {
			t.Errorf("n=%d: cancel emitted a polygon", n)
		}
		if _, ok := eng.Source(previewSourceID); ok {
			t.Errorf("n=%d: preview survived cancel", n)
		}
	}
}

func TestBeginRestartsSession(t *testing.T) {
	s, _, completed := newTestSession(t)

	s.Begin()
	s.Click(clicks[0])
	s.Click(clicks[1])
	s.Begin() // implicit cancel + begin

	if s.Phase() != Collecting {
		t.Errorf("phase = %s, want collecting", s.Phase())
	}
	if len(s.Points()) != 0 {
		t.Errorf("points after restart = %d, want 0", len(s.Points()))
	}
	if len(*completed) != 0 {
		t.Error("restart emitted a polygon")
	}
}

func TestClicksIgnoredWhileIdle(t *testing.T) {
	s, eng, completed := newTestSession(t)

	s.Click(clicks[0])
	s.DoubleClick()

	if len(s.Points()) != 0 || len(*completed) != 0 {
		t.Error("idle session reacted to pointer input")
	}
	if _, ok := eng.Source(previewSourceID); ok {
		t.Error("idle session rendered a preview")
	}
}

func TestPreviewLineThenPolygon(t *testing.T) {
	s, eng, _ := newTestSession(t)
	s.Begin()

	s.Click(clicks[0])
	s.Click(clicks[1])
	src, ok := eng.Source(previewSourceID)
	if !ok {
		t.Fatal("no preview source after 2 clicks")
	}
	if _, isLine := src.GeoJSON.Features[0].Geometry.(orb.LineString); !isLine {
		t.Errorf("preview geometry = %T, want LineString below 3 points", src.GeoJSON.Features[0].Geometry)
	}
	if _, ok := eng.Layer(previewFillID); ok {
		t.Error("fill layer present for an open line preview")
	}
	if _, ok := eng.Layer(previewOutlineID); !ok {
		t.Error("outline layer missing for line preview")
	}

	s.Click(clicks[2])
	src, ok = eng.Source(previewSourceID)
	if !ok {
		t.Fatal("no preview source after 3 clicks")
	}
	poly, isPoly := src.GeoJSON.Features[0].Geometry.(orb.Polygon)
	if !isPoly {
		t.Fatalf("preview geometry = %T, want Polygon at 3 points", src.GeoJSON.Features[0].Geometry)
	}
	if len(poly[0]) != 4 || poly[0][0] != poly[0][3] {
		t.Errorf("preview ring = %v, want closed 4-point ring", poly[0])
	}
	if _, ok := eng.Layer(previewFillID); !ok {
		t.Error("fill layer missing for closed preview")
	}
}

func TestAttachDetachHandlerPair(t *testing.T) {
	s, eng, completed := newTestSession(t)

	s.Attach()
	if !eng.HasHandler(mapengine.EventClick, "") || !eng.HasHandler(mapengine.EventDoubleClick, "") {
		t.Fatal("attach did not bind both pointer handlers")
	}
	s.Attach() // no-op

	// Events drive the session through the engine.
	s.Begin()
	for _, p := range clicks[:3] {
		eng.Fire(mapengine.EventClick, "", mapengine.PointerEvent{LngLat: p})
	}
	eng.Fire(mapengine.EventDoubleClick, "", mapengine.PointerEvent{})
	if len(*completed) != 1 {
		t.Fatalf("engine events completed %d polygons, want 1", len(*completed))
	}

	s.Detach()
	if eng.HasHandler(mapengine.EventClick, "") || eng.HasHandler(mapengine.EventDoubleClick, "") {
		t.Fatal("detach left handlers bound")
	}
	if eng.Fire(mapengine.EventClick, "", mapengine.PointerEvent{LngLat: clicks[0]}) {
		t.Error("pointer event reached a detached session")
	}
	s.Detach() // no-op
}

func TestDetachCancelsActiveCapture(t *testing.T) {
	s, eng, _ := newTestSession(t)
	s.Attach()
	s.Begin()
	s.Click(clicks[0])

	s.Detach()
	if s.Phase() != Idle {
		t.Errorf("phase after detach = %s, want idle", s.Phase())
	}
	if _, ok := eng.Source(previewSourceID); ok {
		t.Error("preview survived detach")
	}
}

func TestDetachAfterMapDestroy(t *testing.T) {
	s, eng, _ := newTestSession(t)
	s.Attach()
	s.Begin()
	s.Click(clicks[0])

	eng.Destroy()
	s.Detach() // must not panic on a torn-down map

	if s.Phase() != Idle {
		t.Errorf("phase = %s, want idle", s.Phase())
	}
}
