// Package layout derives node geometry from the diagram: box dimensions,
// port positions, outline paths and hit testing. Everything here is pure and
// in world space.
package layout

import (
	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

// Dimensions is a node box size in world units.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var sizeTable = map[document.Size]Dimensions{
	document.SizeXS: {Width: 80, Height: 60},
	document.SizeS:  {Width: 100, Height: 70},
	document.SizeMD: {Width: 120, Height: 80},
	document.SizeLG: {Width: 150, Height: 100},
	document.SizeXL: {Width: 180, Height: 120},
}

// DimensionsOf returns the box for a size class. Unset or unknown sizes get
// the md box.
func DimensionsOf(s document.Size) Dimensions {
	if d, ok := sizeTable[s]; ok {
		return d
	}
	return sizeTable[document.SizeMD]
}

// Bounds returns the node's box in world space.
func Bounds(n document.Node) geom.Rect {
	d := DimensionsOf(n.Size)
	return geom.Rect{X: n.Position.X, Y: n.Position.Y, Width: d.Width, Height: d.Height}
}

// Reach is the area a pointer can hit on n: its box plus every port handle
// of the given radius.
func Reach(n document.Node, handleRadius float64) geom.Rect {
	r := Bounds(n)
	for _, p := range Ports(n) {
		r = r.Union(geom.Rect{
			X:      p.Position.X - handleRadius,
			Y:      p.Position.Y - handleRadius,
			Width:  2 * handleRadius,
			Height: 2 * handleRadius,
		})
	}
	return r
}

// PortPosition returns the world position of port index on the given side.
// Inputs sit on the left edge and outputs on the right, spaced evenly at
// (index+1)/(count+1) of the height. ok is false when the port does not
// exist.
func PortPosition(n document.Node, dir document.Direction, index int) (geom.Point, bool) {
	count := n.PortCount(dir)
	if !dir.Valid() || index < 0 || index >= count {
		return geom.Point{}, false
	}

	d := DimensionsOf(n.Size)
	x := n.Position.X
	if dir == document.DirOut {
		x += d.Width
	}
	y := n.Position.Y + float64(index+1)/float64(count+1)*d.Height
	return geom.Pt(x, y), true
}

// PortRefPosition resolves p against n. ok is false when p is not on n.
func PortRefPosition(n document.Node, p document.PortRef) (geom.Point, bool) {
	if p.NodeID != n.ID {
		return geom.Point{}, false
	}
	return PortPosition(n, p.Direction, p.Index)
}

// Port is a resolved port handle.
type Port struct {
	Ref      document.PortRef `json:"ref"`
	Position geom.Point       `json:"position"`
}

// Ports lists every port of n, inputs first.
func Ports(n document.Node) []Port {
	out := make([]Port, 0, n.Inputs+n.Outputs)
	for _, dir := range []document.Direction{document.DirIn, document.DirOut} {
		for i := 0; i < n.PortCount(dir); i++ {
			pos, _ := PortPosition(n, dir, i)
			out = append(out, Port{
				Ref:      document.PortRef{NodeID: n.ID, Direction: dir, Index: i},
				Position: pos,
			})
		}
	}
	return out
}
