package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/events"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
	"github.com/laakri/flowcanvas/backend-go/internal/interaction"
	"github.com/laakri/flowcanvas/backend-go/internal/layout"
	"github.com/laakri/flowcanvas/backend-go/internal/routing"
	"github.com/laakri/flowcanvas/backend-go/internal/viewport"
)

const (
	DefaultHandleRadius = 8.0
	// DefaultNodeOrigin is where menu-added nodes land in an untouched view.
	DefaultNodeOrigin = 200.0
)

type Options struct {
	Viewport viewport.Options
	// HandleRadius is the port hit radius in screen pixels.
	HandleRadius float64
	Seed         bool
	Logger       *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Viewport:     viewport.DefaultOptions(),
		HandleRadius: DefaultHandleRadius,
		Seed:         true,
	}
}

// Engine owns the diagram, the view and the active gesture. It processes
// commands from the renderer and menu UI and answers render queries. An
// Engine is not safe for concurrent use; callers feed it events in order.
type Engine struct {
	opts Options
	log  *slog.Logger

	doc  *document.Diagram
	view *viewport.Viewport
	ctl  *interaction.Controller
	bus  *events.Bus

	menu      *Menu
	menuScope events.Scope
}

// NewEngine creates an engine, loaded with the seed diagram when opts.Seed
// is set.
func NewEngine(opts Options) *Engine {
	if opts.HandleRadius <= 0 {
		opts.HandleRadius = DefaultHandleRadius
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		opts: opts,
		log:  log,
		view: viewport.New(opts.Viewport),
		bus:  events.NewBus(),
	}
	if opts.Seed {
		e.setDiagram(document.NewSeedDiagram())
	} else {
		e.setDiagram(document.New())
	}
	return e
}

func (e *Engine) setDiagram(d *document.Diagram) {
	e.doc = d
	e.ctl = interaction.NewController(d, e.view)
	e.CloseMenu()
}

// --- Commands (renderer / menu UI → engine) ---

// LoadSeed replaces the diagram with the seed diagram. The view is kept.
func (e *Engine) LoadSeed() {
	e.setDiagram(document.NewSeedDiagram())
}

// PointerDown starts a gesture. A nil target is resolved by hit testing.
// Any pointer-down closes an open menu.
func (e *Engine) PointerDown(screen geom.Point, button int, target *layout.Target) bool {
	e.bus.Publish(events.Event{Kind: events.KindPointerDown, Screen: screen})
	return e.ctl.PointerDown(interaction.Pointer{
		Screen: screen,
		Button: button,
		Target: e.resolve(screen, target),
	})
}

func (e *Engine) PointerMove(screen geom.Point) (bool, error) {
	changed, err := e.ctl.PointerMove(interaction.Pointer{Screen: screen})
	if err != nil {
		return changed, e.reject("pointer move", err)
	}
	return changed, nil
}

// PointerUp ends the gesture and returns the connection it created, if any.
func (e *Engine) PointerUp(screen geom.Point, target *layout.Target) (*document.Connection, error) {
	var t layout.Target
	if e.ctl.State().Mode == interaction.ModeLinking {
		t = e.resolve(screen, target)
	}
	conn, err := e.ctl.PointerUp(interaction.Pointer{Screen: screen, Target: t})
	if err != nil {
		return nil, e.reject("pointer up", err)
	}
	return conn, nil
}

func (e *Engine) Wheel(deltaY float64) { e.view.Wheel(deltaY) }
func (e *Engine) ZoomIn()              { e.view.ZoomIn() }
func (e *Engine) ZoomOut()             { e.view.ZoomOut() }
func (e *Engine) ResetView()           { e.view.Reset() }

// AddNode adds a node of the given shape. Without an explicit position the
// node goes where the canvas menu was opened, or at the default origin
// adjusted for the current view.
func (e *Engine) AddNode(shape document.Shape, pos *geom.Point) (document.Node, error) {
	var at geom.Point
	switch {
	case pos != nil:
		at = *pos
	case e.menu != nil && e.menu.Kind == MenuCanvas:
		at = e.menu.World
	default:
		at = e.DefaultNodePosition()
	}

	n, err := e.doc.AddNode(shape, at)
	if err != nil {
		return document.Node{}, e.reject("add node", err)
	}
	e.CloseMenu()
	return n, nil
}

// DefaultNodePosition is (200,200) shifted by the current pan so new nodes
// appear in roughly the same screen spot.
func (e *Engine) DefaultNodePosition() geom.Point {
	pan, zoom := e.view.Pan(), e.view.Zoom()
	return geom.Pt(DefaultNodeOrigin-pan.X/zoom, DefaultNodeOrigin-pan.Y/zoom)
}

// DeleteNode removes a node with its connections and returns the removed
// connection ids.
func (e *Engine) DeleteNode(id string) ([]string, error) {
	removed, err := e.doc.DeleteNode(id)
	if err != nil {
		return nil, e.reject("delete node", err)
	}
	if e.ctl.Selected() == id {
		e.ctl.ClearSelection()
	}
	e.dropGestureOn(id)
	e.closeMenuOn(id, removed)
	return removed, nil
}

func (e *Engine) AddInput(id string) ([]string, error) {
	return e.ports("add input", id, e.doc.AddInput)
}

func (e *Engine) RemoveInput(id string) ([]string, error) {
	return e.ports("remove input", id, e.doc.RemoveInput)
}

func (e *Engine) AddOutput(id string) ([]string, error) {
	return e.ports("add output", id, e.doc.AddOutput)
}

func (e *Engine) RemoveOutput(id string) ([]string, error) {
	return e.ports("remove output", id, e.doc.RemoveOutput)
}

func (e *Engine) ports(op, id string, fn func(string) ([]string, error)) ([]string, error) {
	removed, err := fn(id)
	if err != nil {
		return nil, e.reject(op, err)
	}
	if src := e.ctl.State().Source; src != nil && !e.doc.HasPort(*src) {
		e.ctl.Cancel()
	}
	e.closeMenuOn("", removed)
	return removed, nil
}

func (e *Engine) SetLabel(id, label string) error {
	return e.reject("set label", e.doc.SetLabel(id, label))
}

func (e *Engine) SetColor(id string, c document.Color) error {
	return e.reject("set color", e.doc.SetColor(id, c))
}

func (e *Engine) SetIcon(id string, ic document.Icon) error {
	return e.reject("set icon", e.doc.SetIcon(id, ic))
}

func (e *Engine) SetSubIcon(id string, ic document.Icon) error {
	return e.reject("set sub icon", e.doc.SetSubIcon(id, ic))
}

func (e *Engine) SetSize(id string, s document.Size) error {
	return e.reject("set size", e.doc.SetSize(id, s))
}

// UpdateNode sets several node attributes at once. Either all of them are
// applied or none.
func (e *Engine) UpdateNode(id string, patch document.NodePatch) (document.Node, error) {
	n, err := e.doc.UpdateNode(id, patch)
	if err != nil {
		return n, e.reject("update node", err)
	}
	return n, nil
}

func (e *Engine) UpdateConnection(id string, patch document.ConnectionPatch) (document.Connection, error) {
	c, err := e.doc.UpdateConnection(id, patch)
	if err != nil {
		return c, e.reject("update connection", err)
	}
	return c, nil
}

func (e *Engine) DeleteConnection(id string) error {
	if err := e.doc.DeleteConnection(id); err != nil {
		return e.reject("delete connection", err)
	}
	e.closeMenuOn("", []string{id})
	return nil
}

// ClearAll empties the canvas.
func (e *Engine) ClearAll() {
	e.doc.ClearAll()
	e.ctl.Cancel()
	e.ctl.ClearSelection()
	e.CloseMenu()
}

// ClearConnections removes every connection and keeps the nodes.
func (e *Engine) ClearConnections() {
	e.doc.ClearConnections()
	if e.menu != nil && e.menu.Kind == MenuConnection {
		e.CloseMenu()
	}
}

// dropGestureOn cancels a drag of, or a link from, node id.
func (e *Engine) dropGestureOn(id string) {
	s := e.ctl.State()
	if s.NodeID == id || (s.Source != nil && s.Source.NodeID == id) {
		e.ctl.Cancel()
	}
}

// reject logs a refused command. It returns err unchanged, nil included.
func (e *Engine) reject(op string, err error) error {
	if err == nil {
		return nil
	}
	e.log.Debug("command rejected", "op", op, "error", err)
	return err
}

// --- Queries (renderer ← engine) ---

// HitTest resolves a screen point to a port handle, node body or the canvas.
func (e *Engine) HitTest(screen geom.Point) layout.Target {
	world := e.view.ScreenToWorld(screen)
	return layout.HitTest(e.doc.Nodes(), world, e.opts.HandleRadius/e.view.Zoom())
}

func (e *Engine) resolve(screen geom.Point, target *layout.Target) layout.Target {
	if target != nil {
		return *target
	}
	return e.HitTest(screen)
}

func (e *Engine) Node(id string) (document.Node, bool) { return e.doc.Node(id) }

func (e *Engine) Connection(id string) (document.Connection, bool) { return e.doc.Connection(id) }

func (e *Engine) ViewState() viewport.ViewState { return e.view.State() }

func (e *Engine) Interaction() interaction.State { return e.ctl.State() }

func (e *Engine) Selected() string { return e.ctl.Selected() }

// ContentBounds is the world box around every node and drawable
// connection. It is empty when the canvas is.
func (e *Engine) ContentBounds() geom.Rect {
	var r geom.Rect
	for _, n := range e.doc.Nodes() {
		r = r.Union(layout.Bounds(n))
	}
	for _, c := range e.doc.Connections() {
		r = r.Union(routing.ConnectionPath(e.doc, c).Bounds(geom.Identity()))
	}
	return r
}

type ViewSnapshot struct {
	Zoom        float64    `json:"zoom"`
	Pan         geom.Point `json:"pan"`
	ZoomPercent int        `json:"zoomPercent"`
	// Content is ContentBounds in screen pixels, for minimaps and scrollbars.
	Content *geom.Rect `json:"content,omitempty"`
}

// Snapshot is everything a renderer or menu needs to draw one frame.
type Snapshot struct {
	Nodes       []document.Node       `json:"nodes"`
	Connections []document.Connection `json:"connections"`
	View        ViewSnapshot          `json:"view"`
	Interaction interaction.State     `json:"interaction"`
	Selected    string                `json:"selected,omitempty"`
	Menu        *MenuView             `json:"menu,omitempty"`
	Bounds      *geom.Rect            `json:"bounds,omitempty"`
}

func (e *Engine) Snapshot() Snapshot {
	vs := e.view.State()
	snap := Snapshot{
		Nodes:       e.doc.Nodes(),
		Connections: e.doc.Connections(),
		View: ViewSnapshot{
			Zoom:        vs.Zoom,
			Pan:         vs.Pan,
			ZoomPercent: e.view.ZoomPercent(),
		},
		Interaction: e.ctl.State(),
		Selected:    e.ctl.Selected(),
		Menu:        e.MenuView(),
	}
	if b := e.ContentBounds(); !b.IsEmpty() {
		screen := e.view.Matrix().TransformRect(b)
		snap.Bounds = &b
		snap.View.Content = &screen
	}
	return snap
}

// SnapshotJSON returns Snapshot serialized, or "{}" if that fails.
func (e *Engine) SnapshotJSON() string {
	data, err := json.Marshal(e.Snapshot())
	if err != nil {
		e.log.Error("marshal snapshot", "error", err)
		return "{}"
	}
	return string(data)
}

// Render compiles the current frame to draw commands as JSON.
func (e *Engine) Render() string {
	result, err := DrawCommandsToJSON(e.DrawCommands())
	if err != nil {
		e.log.Error("marshal draw commands", "error", err)
	}
	return result
}

func (e *Engine) String() string {
	return fmt.Sprintf("engine(nodes=%d connections=%d zoom=%d%%)",
		e.doc.NodeCount(), e.doc.ConnectionCount(), e.view.ZoomPercent())
}
