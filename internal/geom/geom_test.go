package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(120, -40).Multiply(Scale(2.5, 2.5))
	inv, ok := m.Invert()
	require.True(t, ok)

	p := Pt(33, 71)
	back := inv.Apply(m.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.True(t, m.Multiply(inv).IsIdentity())
}

func TestMatrixInvertSingular(t *testing.T) {
	inv, ok := Scale(0, 0).Invert()
	assert.False(t, ok)
	assert.True(t, inv.IsIdentity())
}

func TestTransformRect(t *testing.T) {
	r := Translate(10, 20).Multiply(Scale(2, 2)).TransformRect(Rect{X: 1, Y: 1, Width: 5, Height: 3})
	assert.Equal(t, Rect{X: 12, Y: 22, Width: 10, Height: 6}, r)
}

func TestRectUnionAndContains(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 5, Height: 20}

	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 25, Height: 25}, u)
	assert.Equal(t, b, Rect{}.Union(b))
	assert.True(t, a.Contains(Pt(10, 10)))
	assert.False(t, a.Contains(Pt(10.01, 5)))
	assert.Equal(t, Pt(5, 5), a.Center())
}

func TestPathString(t *testing.T) {
	p := Path{
		MoveTo(Pt(480, 380)),
		CurveTo(Pt(535, 380), Pt(535, 285), Pt(590, 285)),
	}
	assert.Equal(t, "M 480 380 C 535 380, 535 285, 590 285", p.String())
	assert.Equal(t, "", Path(nil).String())
}

func TestPathBounds(t *testing.T) {
	p := Path{MoveTo(Pt(0, 0)), LineTo(Pt(4, 0)), LineTo(Pt(4, 2)), Close()}
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 4, Height: 2}, p.Bounds(Identity()))
	assert.Equal(t, Rect{X: 1, Y: 1, Width: 8, Height: 4}, p.Bounds(Translate(1, 1).Multiply(Scale(2, 2))))
	assert.Equal(t, Rect{}, Path(nil).Bounds(Identity()))
}
