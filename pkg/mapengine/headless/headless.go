// Package headless implements mapengine.Map in memory, without a GPU or
// DOM. It records every source, layer, and camera instruction so callers
// can inspect what a real engine would have rendered. It backs the unit
// tests of the map core and the `mapview render` dry-run command.
package headless

import (
	"github.com/paulmach/orb"

	"github.com/atlasfield/mapview/pkg/mapengine"
)

type handlerKey struct {
	event mapengine.EventType
	layer string
}

// FitCall records one FitBounds instruction.
type FitCall struct {
	Bounds  orb.Bound
	Padding float64
}

// Engine is an in-memory mapengine.Map.
//
// The style starts unloaded; call FinishStyleLoad to fire the style-load
// signal the way a real engine would after fetching its base style.
type Engine struct {
	opts mapengine.Options

	sources    map[string]mapengine.Source
	layers     map[string]mapengine.LayerSpec
	layerOrder []string
	handlers   map[handlerKey]mapengine.Handler
	controls   []mapengine.Control

	styleLoaded  bool
	pendingStyle []func()

	cursor    mapengine.Cursor
	fits      []FitCall
	destroyed bool
}

// New creates a headless engine.
func New(opts mapengine.Options) *Engine {
	return &Engine{
		opts:     opts,
		sources:  make(map[string]mapengine.Source),
		layers:   make(map[string]mapengine.LayerSpec),
		handlers: make(map[handlerKey]mapengine.Handler),
	}
}

// NewMap is a mapengine.Factory producing headless engines.
func NewMap(opts mapengine.Options) (mapengine.Map, error) {
	return New(opts), nil
}

func (e *Engine) AddSource(id string, src mapengine.Source) error {
	if e.destroyed {
		return mapengine.ErrDestroyed
	}
	if _, exists := e.sources[id]; exists {
		return mapengine.ErrDuplicateID
	}
	e.sources[id] = src
	return nil
}

func (e *Engine) RemoveSource(id string) error {
	if e.destroyed {
		return mapengine.ErrDestroyed
	}
	if _, exists := e.sources[id]; !exists {
		return mapengine.ErrNotFound
	}
	delete(e.sources, id)
	return nil
}

func (e *Engine) AddLayer(spec mapengine.LayerSpec) error {
	if e.destroyed {
		return mapengine.ErrDestroyed
	}
	if _, exists := e.layers[spec.ID]; exists {
		return mapengine.ErrDuplicateID
	}
	e.layers[spec.ID] = spec
	e.layerOrder = append(e.layerOrder, spec.ID)
	return nil
}

func (e *Engine) RemoveLayer(id string) error {
	if e.destroyed {
		return mapengine.ErrDestroyed
	}
	if _, exists := e.layers[id]; !exists {
		return mapengine.ErrNotFound
	}
	delete(e.layers, id)
	for i, lid := range e.layerOrder {
		if lid == id {
			e.layerOrder = append(e.layerOrder[:i], e.layerOrder[i+1:]...)
			break
		}
	}
	// A real engine drops layer-scoped listeners with the layer.
	for k := range e.handlers {
		if k.layer == id {
			delete(e.handlers, k)
		}
	}
	return nil
}

func (e *Engine) AddControl(c mapengine.Control) {
	if e.destroyed {
		return
	}
	e.controls = append(e.controls, c)
}

func (e *Engine) On(event mapengine.EventType, layerID string, h mapengine.Handler) {
	if e.destroyed {
		return
	}
	e.handlers[handlerKey{event, layerID}] = h
}

func (e *Engine) Off(event mapengine.EventType, layerID string) {
	delete(e.handlers, handlerKey{event, layerID})
}

func (e *Engine) OnceStyleLoaded(fn func()) {
	if e.destroyed {
		return
	}
	if e.styleLoaded {
		fn()
		return
	}
	e.pendingStyle = append(e.pendingStyle, fn)
}

func (e *Engine) FitBounds(b orb.Bound, padding float64) {
	if e.destroyed {
		return
	}
	e.fits = append(e.fits, FitCall{Bounds: b, Padding: padding})
}

func (e *Engine) SetCursor(c mapengine.Cursor) {
	if e.destroyed {
		return
	}
	e.cursor = c
}

func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.sources = map[string]mapengine.Source{}
	e.layers = map[string]mapengine.LayerSpec{}
	e.layerOrder = nil
	e.handlers = map[handlerKey]mapengine.Handler{}
	e.controls = nil
	e.pendingStyle = nil
}

// FinishStyleLoad marks the style as loaded and fires queued callbacks
// in registration order. Calling it again is a no-op.
func (e *Engine) FinishStyleLoad() {
	if e.destroyed || e.styleLoaded {
		return
	}
	e.styleLoaded = true
	pending := e.pendingStyle
	e.pendingStyle = nil
	for _, fn := range pending {
		fn()
	}
}

// Fire delivers a pointer event to the handler bound to (event, layerID),
// reporting whether a handler was invoked.
func (e *Engine) Fire(event mapengine.EventType, layerID string, ev mapengine.PointerEvent) bool {
	h, ok := e.handlers[handlerKey{event, layerID}]
	if !ok {
		return false
	}
	h(ev)
	return true
}

// HasHandler reports whether a handler is bound to (event, layerID).
func (e *Engine) HasHandler(event mapengine.EventType, layerID string) bool {
	_, ok := e.handlers[handlerKey{event, layerID}]
	return ok
}

// Options returns the creation options.
func (e *Engine) Options() mapengine.Options { return e.opts }

// Source returns the source registered under id.
func (e *Engine) Source(id string) (mapengine.Source, bool) {
	src, ok := e.sources[id]
	return src, ok
}

// SourceCount returns the number of registered sources.
func (e *Engine) SourceCount() int { return len(e.sources) }

// Layers returns all layers in the order they were added.
func (e *Engine) Layers() []mapengine.LayerSpec {
	out := make([]mapengine.LayerSpec, 0, len(e.layerOrder))
	for _, id := range e.layerOrder {
		out = append(out, e.layers[id])
	}
	return out
}

// Layer returns the layer registered under id.
func (e *Engine) Layer(id string) (mapengine.LayerSpec, bool) {
	spec, ok := e.layers[id]
	return spec, ok
}

// Controls returns the attached controls.
func (e *Engine) Controls() []mapengine.Control { return e.controls }

// Cursor returns the current canvas cursor.
func (e *Engine) Cursor() mapengine.Cursor { return e.cursor }

// Fits returns every FitBounds call, oldest first.
func (e *Engine) Fits() []FitCall { return e.fits }

// Destroyed reports whether Destroy has been called.
func (e *Engine) Destroyed() bool { return e.destroyed }

// Ensure Engine implements Map.
var _ mapengine.Map = (*Engine)(nil)
