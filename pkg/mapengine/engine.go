// Package mapengine defines the capability surface the map core expects
// from a rendering engine: sources, layers, pointer events, viewport
// control, and the one-shot style-load signal. The real engine (a GL map
// in a webview, or a remote-controlled browser map) lives behind the Map
// interface; pkg/mapengine/headless provides an in-memory implementation
// used for tests and dry-run rendering.
package mapengine

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	// ErrNotFound is returned when removing a source or layer that does
	// not exist. Callers performing guarded teardown ignore it.
	ErrNotFound = errors.New("mapengine: not found")

	// ErrDuplicateID is returned when adding a source or layer whose ID
	// is already registered on the map.
	ErrDuplicateID = errors.New("mapengine: duplicate id")

	// ErrDestroyed is returned by mutating calls on a destroyed map.
	ErrDestroyed = errors.New("mapengine: map destroyed")
)

// EventType identifies a pointer event class.
type EventType string

const (
	EventClick       EventType = "click"
	EventDoubleClick EventType = "dblclick"
	EventMouseEnter  EventType = "mouseenter"
	EventMouseLeave  EventType = "mouseleave"
)

// PointerEvent carries the geographic location of a pointer event.
type PointerEvent struct {
	LngLat orb.Point
}

// Handler receives pointer events for a bound (event, layer) pair.
type Handler func(PointerEvent)

// Cursor is the pointer cursor shown over the map canvas.
type Cursor string

const (
	CursorDefault Cursor = ""
	CursorPointer Cursor = "pointer"
)

// LayerType is the rendering mode of a layer.
type LayerType string

const (
	LayerFill   LayerType = "fill"
	LayerLine   LayerType = "line"
	LayerRaster LayerType = "raster"
)

// Paint holds the style properties the core uses. Zero values mean
// "engine default".
type Paint struct {
	FillColor   string
	FillOpacity float64
	LineColor   string
	LineWidth   float64
}

// LayerSpec describes one layer to add to the map.
type LayerSpec struct {
	ID     string
	Source string // ID of the source the layer draws from
	Type   LayerType
	Paint  Paint
}

// Source is the data behind one or more layers. Exactly one of GeoJSON
// or RasterTiles should be set.
type Source struct {
	GeoJSON     *geojson.FeatureCollection
	RasterTiles []string // tile URL templates with {z}/{x}/{y}
	TileSize    int
}

// Control is a built-in UI widget attached to the map canvas.
type Control string

const ControlNavigation Control = "navigation"

// Options configure map creation.
type Options struct {
	Container string // host DOM element or window identifier
	Center    orb.Point
	Zoom      float64
}

// Map is the handle to one live map instance.
//
// All methods must be called from the host event loop; implementations
// are not required to be safe for concurrent use. Removing a layer also
// unbinds any handlers scoped to it.
type Map interface {
	// AddSource registers a data source under id.
	AddSource(id string, src Source) error
	// RemoveSource removes a source, returning ErrNotFound if absent.
	RemoveSource(id string) error
	// AddLayer adds a layer drawing from an existing source.
	AddLayer(spec LayerSpec) error
	// RemoveLayer removes a layer and its handlers, returning
	// ErrNotFound if absent.
	RemoveLayer(id string) error
	// AddControl attaches a built-in control to the canvas.
	AddControl(c Control)

	// On binds h to an event. An empty layerID binds to the whole map
	// canvas. At most one handler per (event, layer) pair; On replaces.
	On(event EventType, layerID string, h Handler)
	// Off unbinds the handler for an (event, layer) pair, if any.
	Off(event EventType, layerID string)

	// OnceStyleLoaded invokes fn once the base style has finished its
	// asynchronous load. If the style is already loaded, fn runs
	// synchronously before OnceStyleLoaded returns. Sources and layers
	// must not be added before this signal fires.
	OnceStyleLoaded(fn func())

	// FitBounds moves the camera to frame b with padding in pixels.
	FitBounds(b orb.Bound, padding float64)
	// SetCursor changes the canvas cursor.
	SetCursor(c Cursor)

	// Destroy releases the map and all its resources. Idempotent.
	Destroy()
}

// Factory creates a Map. The viewer takes a Factory so callers choose
// the engine (real or headless) without the core knowing the difference.
type Factory func(Options) (Map, error)
