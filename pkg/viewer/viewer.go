// Package viewer owns the live map: engine handle lifecycle, the base
// imagery layer and navigation control, and keeping the rendered site
// layers in sync with the current snapshot.
//
// A Viewer is driven from the host event loop and is not safe for
// concurrent use.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"

	"github.com/atlasfield/mapview/pkg/mapengine"
	"github.com/atlasfield/mapview/pkg/site"
)

const (
	baseSourceID = "base-imagery"
	baseLayerID  = "base-imagery"
)

// Handlers are the callbacks the viewer hands interaction results to.
type Handlers struct {
	// OnSiteClick fires when a rendered site's fill layer is clicked.
	OnSiteClick func(site.ID)
}

// Options configure a new Viewer.
type Options struct {
	Container  string
	Center     orb.Point
	Zoom       float64
	ImageryURL string // raster tile template for the base layer
	Logger     *slog.Logger
}

// Viewer is the map controller for one map instance.
type Viewer struct {
	engine   mapengine.Map
	log      *slog.Logger
	handlers Handlers

	imageryURL string

	sites       []site.Site
	styleReady  bool
	pendingSync bool
	syncing     bool

	siteSources []string
	siteLayers  []string

	closed bool
}

// New creates the map through factory and registers the style-load hook.
// The base layer and any pending site sync happen once the engine
// reports its style loaded.
func New(factory mapengine.Factory, opts Options, handlers Handlers) (*Viewer, error) {
	if factory == nil {
		return nil, errors.New("viewer: nil engine factory")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	engine, err := factory(mapengine.Options{
		Container: opts.Container,
		Center:    opts.Center,
		Zoom:      opts.Zoom,
	})
	if err != nil {
		return nil, fmt.Errorf("viewer: creating map: %w", err)
	}

	v := &Viewer{
		engine:     engine,
		log:        log,
		handlers:   handlers,
		imageryURL: opts.ImageryURL,
	}
	engine.OnceStyleLoaded(v.styleLoaded)
	return v, nil
}

func (v *Viewer) styleLoaded() {
	if v.closed {
		return
	}
	v.addBaseLayer()
	v.engine.AddControl(mapengine.ControlNavigation)
	v.styleReady = true
	if v.pendingSync {
		v.pendingSync = false
		v.rebuild()
	}
}

func (v *Viewer) addBaseLayer() {
	if v.imageryURL == "" {
		v.log.Debug("no imagery url configured, skipping base layer")
		return
	}
	if err := v.engine.AddSource(baseSourceID, mapengine.Source{
		RasterTiles: []string{v.imageryURL},
		TileSize:    256,
	}); err != nil {
		v.log.Warn("adding base imagery source", "err", err)
		return
	}
	if err := v.engine.AddLayer(mapengine.LayerSpec{
		ID:     baseLayerID,
		Source: baseSourceID,
		Type:   mapengine.LayerRaster,
	}); err != nil {
		v.log.Warn("adding base imagery layer", "err", err)
	}
}

// Engine returns the underlying map handle, for attaching a draw
// session to the same map.
func (v *Viewer) Engine() mapengine.Map {
	return v.engine
}

// Close destroys the map handle and releases all engine resources,
// including listeners bound by the synchronizer and any draw session on
// the same map. Safe to call more than once.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.engine.Destroy()
}
