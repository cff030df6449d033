package engine

import (
	"encoding/json"
	"math"

	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
	"github.com/laakri/flowcanvas/backend-go/internal/layout"
	"github.com/laakri/flowcanvas/backend-go/internal/routing"
)

// GridSpacing is the background grid pitch in world units.
const GridSpacing = 20.0

// HandleDrawRadius is the drawn port handle radius in world units.
const HandleDrawRadius = 6.0

const (
	OpGrid   = "grid"
	OpPath   = "path"
	OpHandle = "handle"
)

const (
	KindConnection = "connection"
	KindPreview    = "preview"
	KindNode       = "node"
	KindPort       = "port"
)

// DrawCommand is a single drawing operation for the renderer. Geometry is in
// world space; Transform maps it to the screen and is omitted at the identity
// view.
type DrawCommand struct {
	Op        string    `json:"op"`             // "grid", "path", "handle"
	Kind      string    `json:"kind,omitempty"` // what the command draws
	ObjectID  string    `json:"objectId,omitempty"`
	Transform []float64 `json:"transform,omitempty"` // [a, b, c, d, e, f]
	Path      geom.Path `json:"path,omitempty"`
	D         string    `json:"d,omitempty"` // Path in SVG syntax

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	DashArray   string  `json:"dashArray,omitempty"`
	LineCap     string  `json:"lineCap,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Class       string  `json:"class,omitempty"`

	// node and port handle
	Label    string             `json:"label,omitempty"`
	Icon     document.Icon      `json:"icon,omitempty"`
	SubIcon  document.Icon      `json:"subIcon,omitempty"`
	Bounds   *geom.Rect         `json:"bounds,omitempty"`
	Selected bool               `json:"selected,omitempty"`
	Shape    document.Shape     `json:"shape,omitempty"`
	Handle   string             `json:"handle,omitempty"`
	Dir      document.Direction `json:"direction,omitempty"`
	Center   *geom.Point        `json:"center,omitempty"` // handle center, or where a node's label and icon sit
	Radius   float64            `json:"radius,omitempty"`
	Grid     *GridParams        `json:"grid,omitempty"`
}

// GridParams is the background grid in screen pixels.
type GridParams struct {
	Spacing float64    `json:"spacing"`
	Offset  geom.Point `json:"offset"`
}

// Grid returns the screen-space grid for the given view. The pitch scales
// with zoom and the offset follows pan.
func Grid(zoom float64, pan geom.Point) GridParams {
	spacing := GridSpacing * zoom
	return GridParams{
		Spacing: spacing,
		Offset:  geom.Pt(wrap(pan.X, spacing), wrap(pan.Y, spacing)),
	}
}

func wrap(v, m float64) float64 {
	if m <= 0 {
		return 0
	}
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

// DrawCommands compiles the current frame in painter's order: grid,
// connections, the link preview, then nodes with their port handles.
func (e *Engine) DrawCommands() []DrawCommand {
	vs := e.view.State()
	var transform []float64
	if m := e.view.Matrix(); !m.IsIdentity() {
		transform = m.ToSlice()
	}
	grid := Grid(vs.Zoom, vs.Pan)

	commands := []DrawCommand{{Op: OpGrid, Grid: &grid}}

	for _, c := range e.doc.Connections() {
		path := routing.ConnectionPath(e.doc, c)
		if path.IsEmpty() {
			continue
		}
		d := path.String()
		for _, s := range routing.Strokes(c) {
			commands = append(commands, strokeCommand(KindConnection, c.ID, transform, path, d, s))
		}
	}

	if st := e.ctl.State(); st.Source != nil {
		path := routing.PreviewPath(e.doc, *st.Source, st.Cursor)
		if !path.IsEmpty() {
			commands = append(commands, strokeCommand(KindPreview, "", transform, path, path.String(), routing.PreviewStroke()))
		}
	}

	selected := e.ctl.Selected()
	for _, n := range e.doc.Nodes() {
		commands = append(commands, nodeCommand(n, transform, n.ID == selected))
		for _, p := range layout.Ports(n) {
			center := p.Position
			commands = append(commands, DrawCommand{
				Op:        OpHandle,
				Kind:      KindPort,
				ObjectID:  n.ID,
				Transform: transform,
				Handle:    p.Ref.Handle(),
				Dir:       p.Ref.Direction,
				Center:    &center,
				Radius:    HandleDrawRadius,
				Fill:      "background",
				Stroke:    "primary",
			})
		}
	}
	return commands
}

func strokeCommand(kind, id string, transform []float64, path geom.Path, d string, s routing.Stroke) DrawCommand {
	return DrawCommand{
		Op:          OpPath,
		Kind:        kind,
		ObjectID:    id,
		Transform:   transform,
		Path:        path,
		D:           d,
		Stroke:      s.Color,
		StrokeWidth: s.Width,
		DashArray:   s.DashArray,
		LineCap:     s.LineCap,
		Opacity:     s.Opacity,
		Class:       s.Class,
	}
}

func nodeCommand(n document.Node, transform []float64, selected bool) DrawCommand {
	path := layout.NodeOutline(n)
	bounds := layout.Bounds(n)
	center := bounds.Center()
	stroke := "border"
	if selected {
		stroke = "primary"
	}

	cmd := DrawCommand{
		Op:          OpPath,
		Kind:        KindNode,
		ObjectID:    n.ID,
		Transform:   transform,
		Path:        path,
		D:           path.String(),
		Fill:        string(n.Color.OrDefault()),
		Stroke:      stroke,
		StrokeWidth: 2,
		Opacity:     1,
		Bounds:      &bounds,
		Center:      &center,
		Selected:    selected,
		Shape:       n.Shape,
	}
	if !n.Shape.IconOnly() {
		cmd.Label = n.Label
	}
	if n.Icon.Visible() {
		cmd.Icon = n.Icon
	}
	if n.SubIcon.Visible() {
		cmd.SubIcon = n.SubIcon
	}
	return cmd
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
