package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

type Shape string

const (
	ShapeRectangle  Shape = "rectangle"
	ShapeRounded    Shape = "rounded"
	ShapeCircle     Shape = "circle"
	ShapeDiamond    Shape = "diamond"
	ShapeHexagon    Shape = "hexagon"
	ShapeHalfmoon   Shape = "halfmoon"
	ShapePill       Shape = "pill"
	ShapeIconCircle Shape = "iconCircle"
	ShapeIconSquare Shape = "iconSquare"
)

// ShapeSpec is the per-shape row of the shape table.
type ShapeSpec struct {
	Label   string // menu label
	Glyph   string // menu glyph
	Icon    Icon   // default main icon
	SubIcon Icon   // default corner icon
	// IconOnly shapes render just their icon: no label and no ports.
	IconOnly bool
}

// Shapes lists every shape in menu order.
var Shapes = []Shape{
	ShapeRounded, ShapeRectangle, ShapeCircle, ShapeDiamond, ShapeHexagon,
	ShapeHalfmoon, ShapePill, ShapeIconCircle, ShapeIconSquare,
}

var shapeTable = map[Shape]ShapeSpec{
	ShapeRounded:    {Label: "Rounded", Glyph: "▢", Icon: IconCircle, SubIcon: IconArrowRight},
	ShapeRectangle:  {Label: "Rectangle", Glyph: "□", Icon: IconSquare, SubIcon: IconGrid2x2},
	ShapeCircle:     {Label: "Circle", Glyph: "○", Icon: IconCircleDot, SubIcon: IconTarget},
	ShapeDiamond:    {Label: "Diamond", Glyph: "◇", Icon: IconDiamond, SubIcon: IconAlertTriangle},
	ShapeHexagon:    {Label: "Hexagon", Glyph: "⬡", Icon: IconHexagon, SubIcon: IconLayers},
	ShapeHalfmoon:   {Label: "Half Moon", Glyph: "◐", Icon: IconMoon, SubIcon: IconStar},
	ShapePill:       {Label: "Pill", Glyph: "⬭", Icon: IconPill, SubIcon: IconHeart},
	ShapeIconCircle: {Label: "Icon Circle", Glyph: "◉", Icon: IconCircle, SubIcon: IconNone, IconOnly: true},
	ShapeIconSquare: {Label: "Icon Square", Glyph: "▣", Icon: IconSquare, SubIcon: IconNone, IconOnly: true},
}

// Spec returns the table row for s. ok is false for unknown shapes.
func (s Shape) Spec() (ShapeSpec, bool) {
	spec, ok := shapeTable[s]
	return spec, ok
}

func (s Shape) Valid() bool {
	_, ok := shapeTable[s]
	return ok
}

func (s Shape) IconOnly() bool {
	return shapeTable[s].IconOnly
}

type Size string

const (
	SizeXS Size = "xs"
	SizeS  Size = "s"
	SizeMD Size = "md"
	SizeLG Size = "lg"
	SizeXL Size = "xl"
)

// Sizes lists the size classes smallest first.
var Sizes = []Size{SizeXS, SizeS, SizeMD, SizeLG, SizeXL}

func (s Size) Valid() bool {
	switch s {
	case SizeXS, SizeS, SizeMD, SizeLG, SizeXL:
		return true
	}
	return false
}

// OrDefault maps an unset size to md.
func (s Size) OrDefault() Size {
	if s == "" {
		return SizeMD
	}
	return s
}

type Color string

const (
	ColorDefault   Color = "default"
	ColorPrimary   Color = "primary"
	ColorSecondary Color = "secondary"
	ColorAccent    Color = "accent"
	ColorGreen     Color = "green"
	ColorBlue      Color = "blue"
	ColorPurple    Color = "purple"
	ColorRed       Color = "red"
	ColorOrange    Color = "orange"
	ColorYellow    Color = "yellow"
	ColorPink      Color = "pink"
	ColorCyan      Color = "cyan"
	ColorIndigo    Color = "indigo"
	ColorEmerald   Color = "emerald"
	ColorTeal      Color = "teal"
	ColorSky       Color = "sky"
	ColorViolet    Color = "violet"
	ColorFuchsia   Color = "fuchsia"
	ColorRose      Color = "rose"
	ColorAmber     Color = "amber"
	ColorLime      Color = "lime"
)

// NodeColors is the node palette in picker order.
var NodeColors = []Color{
	ColorDefault, ColorPrimary, ColorSecondary, ColorAccent,
	ColorGreen, ColorBlue, ColorPurple, ColorRed, ColorOrange, ColorYellow,
	ColorPink, ColorCyan, ColorIndigo, ColorEmerald, ColorTeal, ColorSky,
	ColorViolet, ColorFuchsia, ColorRose, ColorAmber, ColorLime,
}

// ConnectionColors is the smaller palette offered for connections.
var ConnectionColors = []Color{
	ColorDefault, ColorBlue, ColorGreen, ColorRed,
	ColorPurple, ColorOrange, ColorPink, ColorCyan,
}

func (c Color) ValidForNode() bool       { return contains(NodeColors, c) }
func (c Color) ValidForConnection() bool { return contains(ConnectionColors, c) }

// OrDefault maps an unset color to "default".
func (c Color) OrDefault() Color {
	if c == "" {
		return ColorDefault
	}
	return c
}

type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
	LineDouble LineStyle = "double"
)

var LineStyles = []LineStyle{LineSolid, LineDashed, LineDotted, LineDouble}

func (s LineStyle) Valid() bool { return contains(LineStyles, s) }

type Animation string

const (
	AnimationNone  Animation = "none"
	AnimationFlow  Animation = "flow"
	AnimationPulse Animation = "pulse"
	AnimationGlow  Animation = "glow"
)

var Animations = []Animation{AnimationNone, AnimationFlow, AnimationPulse, AnimationGlow}

func (a Animation) Valid() bool { return contains(Animations, a) }

// Direction is the side of a node a port sits on.
type Direction string

const (
	DirIn  Direction = "in"
	DirOut Direction = "out"
)

func (d Direction) Valid() bool { return d == DirIn || d == DirOut }

// PortRef addresses a port. Ports are not stored; they exist as long as the
// owning node exists and Index < the node's count for Direction.
type PortRef struct {
	NodeID    string    `json:"nodeId" validate:"required"`
	Direction Direction `json:"direction" validate:"oneof=in out"`
	Index     int       `json:"index" validate:"min=0"`
}

// Handle returns the "out-0" style handle name used by renderers.
func (p PortRef) Handle() string {
	return string(p.Direction) + "-" + strconv.Itoa(p.Index)
}

func (p PortRef) String() string {
	return p.NodeID + ":" + p.Handle()
}

// ParseHandle parses an "in-2" / "out-0" handle name.
func ParseHandle(nodeID, handle string) (PortRef, error) {
	dir, idx, ok := strings.Cut(handle, "-")
	if !ok {
		return PortRef{}, fmt.Errorf("handle %q: missing index", handle)
	}
	d := Direction(dir)
	if !d.Valid() {
		return PortRef{}, fmt.Errorf("handle %q: unknown direction", handle)
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return PortRef{}, fmt.Errorf("handle %q: invalid index", handle)
	}
	return PortRef{NodeID: nodeID, Direction: d, Index: i}, nil
}

type Node struct {
	ID       string     `json:"id"`
	Shape    Shape      `json:"type"`
	Position geom.Point `json:"position"`
	Size     Size       `json:"size,omitempty"`
	Inputs   int        `json:"inputs"`
	Outputs  int        `json:"outputs"`
	Label    string     `json:"label,omitempty"`
	Color    Color      `json:"color,omitempty"`
	Icon     Icon       `json:"icon,omitempty"`
	SubIcon  Icon       `json:"subIcon,omitempty"`
}

// PortCount returns the number of ports on the given side.
func (n Node) PortCount(d Direction) int {
	if d == DirOut {
		return n.Outputs
	}
	return n.Inputs
}

// HasPort reports whether p addresses an existing port of n.
func (n Node) HasPort(p PortRef) bool {
	return p.NodeID == n.ID && p.Direction.Valid() && p.Index >= 0 && p.Index < n.PortCount(p.Direction)
}

type Connection struct {
	ID        string    `json:"id"`
	Source    PortRef   `json:"source"`
	Target    PortRef   `json:"target"`
	Style     LineStyle `json:"style"`
	Animation Animation `json:"animation"`
	Color     Color     `json:"color"`
}

// ConnectionPatch carries the style attributes to change; nil fields are kept.
type ConnectionPatch struct {
	Style     *LineStyle `json:"style,omitempty" validate:"omitempty,oneof=solid dashed dotted double"`
	Animation *Animation `json:"animation,omitempty" validate:"omitempty,oneof=none flow pulse glow"`
	Color     *Color     `json:"color,omitempty"`
}

// NodePatch carries the node attributes to change; nil fields are kept.
type NodePatch struct {
	Label   *string `json:"label,omitempty" validate:"omitempty,max=200"`
	Color   *Color  `json:"color,omitempty"`
	Icon    *Icon   `json:"icon,omitempty"`
	SubIcon *Icon   `json:"subIcon,omitempty"`
	Size    *Size   `json:"size,omitempty" validate:"omitempty,oneof=xs s md lg xl"`
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
