// Package routing turns connections into drawable bezier paths and resolves
// their stroke styling.
package routing

import (
	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
	"github.com/laakri/flowcanvas/backend-go/internal/layout"
)

// Path returns the horizontal S-curve from start to end. Both control points
// share the midpoint x, so the curve leaves and enters horizontally no matter
// which sides the ports are on.
func Path(start, end geom.Point) geom.Path {
	midX := (start.X + end.X) / 2
	return geom.Path{
		geom.MoveTo(start),
		geom.CurveTo(geom.Pt(midX, start.Y), geom.Pt(midX, end.Y), end),
	}
}

// NodeLookup is the read side of the diagram the router needs.
type NodeLookup interface {
	Node(id string) (document.Node, bool)
}

// Endpoints resolves both ends of c to world points. ok is false when either
// node is gone or either port index is out of range.
func Endpoints(nodes NodeLookup, c document.Connection) (start, end geom.Point, ok bool) {
	start, ok = resolve(nodes, c.Source)
	if !ok {
		return geom.Point{}, geom.Point{}, false
	}
	end, ok = resolve(nodes, c.Target)
	if !ok {
		return geom.Point{}, geom.Point{}, false
	}
	return start, end, true
}

// ConnectionPath returns the path for c, or an empty path when an endpoint
// cannot be resolved. Renderers skip empty paths.
func ConnectionPath(nodes NodeLookup, c document.Connection) geom.Path {
	start, end, ok := Endpoints(nodes, c)
	if !ok {
		return nil
	}
	return Path(start, end)
}

// PreviewPath is the rubber band drawn while linking, from the origin port to
// the cursor. It is empty until the cursor has moved or when the origin port
// has gone away.
func PreviewPath(nodes NodeLookup, origin document.PortRef, cursor *geom.Point) geom.Path {
	if cursor == nil {
		return nil
	}
	start, ok := resolve(nodes, origin)
	if !ok {
		return nil
	}
	return Path(start, *cursor)
}

func resolve(nodes NodeLookup, p document.PortRef) (geom.Point, bool) {
	n, ok := nodes.Node(p.NodeID)
	if !ok {
		return geom.Point{}, false
	}
	return layout.PortRefPosition(n, p)
}
