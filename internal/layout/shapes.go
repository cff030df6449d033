package layout

import (
	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

// kappa places cubic control points for a quarter ellipse.
// k = 4 * (sqrt(2) - 1) / 3
const kappa = 0.5522847498

const (
	cornerRadius     = 12
	iconCornerRadius = 8
)

// Outline returns the node's outline in local coordinates, with the box
// spanning (0,0) to (width,height).
func Outline(shape document.Shape, d Dimensions) geom.Path {
	w, h := d.Width, d.Height
	switch shape {
	case document.ShapeRectangle:
		return roundRect(w, h, 0, 0, 0, 0)
	case document.ShapeRounded:
		return roundRect(w, h, cornerRadius, cornerRadius, cornerRadius, cornerRadius)
	case document.ShapeIconSquare:
		return roundRect(w, h, iconCornerRadius, iconCornerRadius, iconCornerRadius, iconCornerRadius)
	case document.ShapeCircle, document.ShapeIconCircle:
		return ellipse(w, h)
	case document.ShapeDiamond:
		return polygon(geom.Pt(w/2, 0), geom.Pt(w, h/2), geom.Pt(w/2, h), geom.Pt(0, h/2))
	case document.ShapeHexagon:
		return polygon(
			geom.Pt(w*0.25, 0), geom.Pt(w*0.75, 0), geom.Pt(w, h/2),
			geom.Pt(w*0.75, h), geom.Pt(w*0.25, h), geom.Pt(0, h/2),
		)
	case document.ShapeHalfmoon:
		r := min(w, h) / 2
		return roundRect(w, h, r, 0, 0, r)
	case document.ShapePill:
		r := min(w, h) / 2
		return roundRect(w, h, r, r, r, r)
	}
	return roundRect(w, h, 0, 0, 0, 0)
}

// NodeOutline returns the outline of n placed in world space.
func NodeOutline(n document.Node) geom.Path {
	return transformPath(Outline(n.Shape, DimensionsOf(n.Size)), geom.Translate(n.Position.X, n.Position.Y))
}

func polygon(pts ...geom.Point) geom.Path {
	p := geom.Path{geom.MoveTo(pts[0])}
	for _, pt := range pts[1:] {
		p = append(p, geom.LineTo(pt))
	}
	return append(p, geom.Close())
}

func ellipse(w, h float64) geom.Path {
	rx, ry := w/2, h/2
	kx, ky := rx*kappa, ry*kappa
	cx, cy := rx, ry
	return geom.Path{
		geom.MoveTo(geom.Pt(cx+rx, cy)),
		geom.CurveTo(geom.Pt(cx+rx, cy+ky), geom.Pt(cx+kx, cy+ry), geom.Pt(cx, cy+ry)),
		geom.CurveTo(geom.Pt(cx-kx, cy+ry), geom.Pt(cx-rx, cy+ky), geom.Pt(cx-rx, cy)),
		geom.CurveTo(geom.Pt(cx-rx, cy-ky), geom.Pt(cx-kx, cy-ry), geom.Pt(cx, cy-ry)),
		geom.CurveTo(geom.Pt(cx+kx, cy-ry), geom.Pt(cx+rx, cy-ky), geom.Pt(cx+rx, cy)),
		geom.Close(),
	}
}

// roundRect traces a w x h box clockwise from the top-left with per-corner
// radii (top-left, top-right, bottom-right, bottom-left).
func roundRect(w, h, tl, tr, br, bl float64) geom.Path {
	limit := min(w, h) / 2
	tl, tr, br, bl = min(tl, limit), min(tr, limit), min(br, limit), min(bl, limit)

	p := geom.Path{geom.MoveTo(geom.Pt(tl, 0)), geom.LineTo(geom.Pt(w-tr, 0))}
	if tr > 0 {
		p = append(p, geom.CurveTo(geom.Pt(w-tr+tr*kappa, 0), geom.Pt(w, tr-tr*kappa), geom.Pt(w, tr)))
	}
	p = append(p, geom.LineTo(geom.Pt(w, h-br)))
	if br > 0 {
		p = append(p, geom.CurveTo(geom.Pt(w, h-br+br*kappa), geom.Pt(w-br+br*kappa, h), geom.Pt(w-br, h)))
	}
	p = append(p, geom.LineTo(geom.Pt(bl, h)))
	if bl > 0 {
		p = append(p, geom.CurveTo(geom.Pt(bl-bl*kappa, h), geom.Pt(0, h-bl+bl*kappa), geom.Pt(0, h-bl)))
	}
	p = append(p, geom.LineTo(geom.Pt(0, tl)))
	if tl > 0 {
		p = append(p, geom.CurveTo(geom.Pt(0, tl-tl*kappa), geom.Pt(tl-tl*kappa, 0), geom.Pt(tl, 0)))
	}
	return append(p, geom.Close())
}

// transformPath maps every coordinate pair of p through m.
func transformPath(p geom.Path, m geom.Matrix2D) geom.Path {
	out := make(geom.Path, len(p))
	for i, cmd := range p {
		c := make(geom.PathCommand, len(cmd))
		copy(c, cmd)
		for j := 1; j+1 < len(c); j += 2 {
			x, xok := c[j].(float64)
			y, yok := c[j+1].(float64)
			if !xok || !yok {
				continue
			}
			w := m.Apply(geom.Pt(x, y))
			c[j], c[j+1] = w.X, w.Y
		}
		out[i] = c
	}
	return out
}
