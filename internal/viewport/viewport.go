// Package viewport maps between screen space (pointer coordinates relative to
// the canvas element) and world space (where node positions live) under the
// current pan and zoom.
package viewport

import (
	"math"

	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

const (
	DefaultMinZoom    = 0.1
	DefaultMaxZoom    = 3.0
	DefaultZoomFactor = 1.2
)

// Options bounds the zoom range and sets the step used by ZoomIn/ZoomOut.
type Options struct {
	MinZoom    float64
	MaxZoom    float64
	ZoomFactor float64
}

// DefaultOptions returns the stock [0.1, 3] range with a 1.2 step.
func DefaultOptions() Options {
	return Options{
		MinZoom:    DefaultMinZoom,
		MaxZoom:    DefaultMaxZoom,
		ZoomFactor: DefaultZoomFactor,
	}
}

// normalize replaces unusable values with defaults so a Viewport can never
// reach zoom <= 0.
func (o Options) normalize() Options {
	d := DefaultOptions()
	if !(o.MinZoom > 0) {
		o.MinZoom = d.MinZoom
	}
	if !(o.MaxZoom > 0) {
		o.MaxZoom = d.MaxZoom
	}
	if o.MaxZoom < o.MinZoom {
		o.MinZoom, o.MaxZoom = o.MaxZoom, o.MinZoom
	}
	if !(o.ZoomFactor > 1) {
		o.ZoomFactor = d.ZoomFactor
	}
	return o
}

// ViewState is the process-wide pan/zoom pair. Pan is in screen pixels.
type ViewState struct {
	Zoom float64    `json:"zoom"`
	Pan  geom.Point `json:"pan"`
}

// WorldToScreen returns world*zoom + pan.
func WorldToScreen(world geom.Point, zoom float64, pan geom.Point) geom.Point {
	return world.Mul(zoom).Add(pan)
}

// ScreenToWorld returns (screen - pan) / zoom. zoom must be positive; a
// non-positive zoom is treated as 1 rather than producing Inf/NaN.
func ScreenToWorld(screen geom.Point, zoom float64, pan geom.Point) geom.Point {
	if !(zoom > 0) {
		zoom = 1
	}
	return screen.Sub(pan).Mul(1 / zoom)
}

// Viewport owns a ViewState and enforces the configured zoom range.
// Zoom changes never touch pan, so zooming is anchored at the world origin.
type Viewport struct {
	opts  Options
	state ViewState
}

// New creates a viewport at zoom 1 and pan (0,0).
func New(opts Options) *Viewport {
	return &Viewport{
		opts:  opts.normalize(),
		state: ViewState{Zoom: 1},
	}
}

// Options returns the effective (normalized) options.
func (v *Viewport) Options() Options {
	return v.opts
}

// State returns a copy of the current view state.
func (v *Viewport) State() ViewState {
	return v.state
}

func (v *Viewport) Zoom() float64   { return v.state.Zoom }
func (v *Viewport) Pan() geom.Point { return v.state.Pan }

// SetPan moves the canvas. Non-finite components are ignored.
func (v *Viewport) SetPan(p geom.Point) {
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		return
	}
	v.state.Pan = p
}

// SetZoom sets zoom clamped to [MinZoom, MaxZoom]. NaN is ignored.
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	v.state.Zoom = v.clamp(z)
}

// ZoomIn multiplies zoom by the zoom factor, clamped to MaxZoom.
func (v *Viewport) ZoomIn() {
	v.SetZoom(v.state.Zoom * v.opts.ZoomFactor)
}

// ZoomOut divides zoom by the zoom factor, clamped to MinZoom.
func (v *Viewport) ZoomOut() {
	v.SetZoom(v.state.Zoom / v.opts.ZoomFactor)
}

// Wheel applies one zoom step per wheel event: scrolling up (negative
// deltaY) zooms in, scrolling down zooms out, zero is ignored.
func (v *Viewport) Wheel(deltaY float64) {
	switch {
	case deltaY < 0:
		v.ZoomIn()
	case deltaY > 0:
		v.ZoomOut()
	}
}

// Reset restores zoom 1 and pan (0,0).
func (v *Viewport) Reset() {
	v.state = ViewState{Zoom: v.clamp(1)}
}

// ZoomPercent is the rounded zoom level shown next to the zoom controls.
func (v *Viewport) ZoomPercent() int {
	return int(math.Round(v.state.Zoom * 100))
}

func (v *Viewport) WorldToScreen(p geom.Point) geom.Point {
	return WorldToScreen(p, v.state.Zoom, v.state.Pan)
}

// ScreenToWorld applies the inverse of Matrix. A singular matrix falls back
// to the plain formula, which guards against a zero zoom.
func (v *Viewport) ScreenToWorld(p geom.Point) geom.Point {
	inv, ok := v.Matrix().Invert()
	if !ok {
		return ScreenToWorld(p, v.state.Zoom, v.state.Pan)
	}
	return inv.Apply(p)
}

// Matrix returns the world->screen transform, Translate(pan) * Scale(zoom).
func (v *Viewport) Matrix() geom.Matrix2D {
	return geom.Translate(v.state.Pan.X, v.state.Pan.Y).
		Multiply(geom.Scale(v.state.Zoom, v.state.Zoom))
}

func (v *Viewport) clamp(z float64) float64 {
	return min(max(z, v.opts.MinZoom), v.opts.MaxZoom)
}
