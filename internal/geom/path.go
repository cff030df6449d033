package geom

import (
	"math"
	"strconv"
	"strings"
)

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []interface{}

// Path is an ordered list of path commands. A nil or empty Path means
// "nothing to draw" and renderers must skip it.
type Path []PathCommand

func MoveTo(p Point) PathCommand { return PathCommand{"M", p.X, p.Y} }
func LineTo(p Point) PathCommand { return PathCommand{"L", p.X, p.Y} }
func Close() PathCommand         { return PathCommand{"Z"} }

// CurveTo is a cubic bezier segment through control points c1, c2 ending at p.
func CurveTo(c1, c2, p Point) PathCommand {
	return PathCommand{"C", c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y}
}

// IsEmpty reports whether the path has no drawable commands.
func (p Path) IsEmpty() bool {
	return len(p) == 0
}

// String renders the path in SVG "d" attribute syntax.
func (p Path) String() string {
	var sb strings.Builder
	for i, cmd := range p {
		if len(cmd) == 0 {
			continue
		}
		op, ok := cmd[0].(string)
		if !ok {
			continue
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(op)
		args := cmd[1:]
		for j := 0; j+1 < len(args); j += 2 {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(toFloat64(args[j])))
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(toFloat64(args[j+1])))
		}
	}
	return sb.String()
}

// Bounds computes the axis-aligned bounding box of the path's points
// (bezier control points included) after applying m.
func (p Path) Bounds(m Matrix2D) Rect {
	var minX, minY, maxX, maxY float64
	first := true

	for _, cmd := range p {
		if len(cmd) == 0 {
			continue
		}
		if _, ok := cmd[0].(string); !ok {
			continue
		}
		args := cmd[1:]
		for j := 0; j+1 < len(args); j += 2 {
			w := m.Apply(Point{toFloat64(args[j]), toFloat64(args[j+1])})
			if first {
				minX, maxX = w.X, w.X
				minY, maxY = w.Y, w.Y
				first = false
				continue
			}
			minX = math.Min(minX, w.X)
			maxX = math.Max(maxX, w.X)
			minY = math.Min(minY, w.Y)
			maxY = math.Max(maxY, w.Y)
		}
	}

	if first {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// toFloat64 converts an interface{} to float64.
func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
