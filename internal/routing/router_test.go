package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

func TestPath(t *testing.T) {
	p := Path(geom.Pt(480, 380), geom.Pt(590, 285))
	assert.Equal(t, "M 480 380 C 535 380, 535 285, 590 285", p.String())

	// Reversed endpoints give the mirrored curve.
	assert.Equal(t, "M 590 285 C 535 285, 535 380, 480 380", Path(geom.Pt(590, 285), geom.Pt(480, 380)).String())
}

func TestConnectionPath(t *testing.T) {
	d := document.NewSeedDiagram()
	c1, _ := d.Connection("c1")

	assert.Equal(t, "M 480 380 C 535 380, 535 285, 590 285", ConnectionPath(d, c1).String())

	// Out of range index on an existing node is "no path".
	stale := c1
	stale.Source.Index = 4
	assert.True(t, ConnectionPath(d, stale).IsEmpty())

	_, err := d.DeleteNode("2")
	require.NoError(t, err)
	assert.True(t, ConnectionPath(d, c1).IsEmpty())
}

func TestInputToInputConnection(t *testing.T) {
	d := document.NewSeedDiagram()
	c, err := d.AddConnection(
		document.PortRef{NodeID: "2", Direction: document.DirIn, Index: 0},
		document.PortRef{NodeID: "3", Direction: document.DirIn, Index: 0},
	)
	require.NoError(t, err)

	start, end, ok := Endpoints(d, c)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(590, 285), start)
	assert.Equal(t, geom.Pt(800, 380), end)
}

func TestPreviewPath(t *testing.T) {
	d := document.NewSeedDiagram()
	origin := document.PortRef{NodeID: "1", Direction: document.DirOut}

	assert.True(t, PreviewPath(d, origin, nil).IsEmpty())

	cursor := geom.Pt(500, 500)
	assert.Equal(t, "M 480 380 C 490 380, 490 500, 500 500", PreviewPath(d, origin, &cursor).String())

	origin.NodeID = "gone"
	assert.True(t, PreviewPath(d, origin, &cursor).IsEmpty())
}

func TestStrokes(t *testing.T) {
	tests := []struct {
		name string
		conn document.Connection
		want []Stroke
	}{
		{
			name: "solid default",
			conn: document.Connection{Style: document.LineSolid, Animation: document.AnimationNone, Color: document.ColorDefault},
			want: []Stroke{{Color: "text-muted-foreground", Width: 3, LineCap: "round", Opacity: 1}},
		},
		{
			name: "dashed flow",
			conn: document.Connection{Style: document.LineDashed, Animation: document.AnimationFlow, Color: document.ColorBlue},
			want: []Stroke{{Color: "text-blue-500", Width: 3, DashArray: "8,4", LineCap: "round", Opacity: 1, Class: "connection-flow"}},
		},
		{
			name: "dotted",
			conn: document.Connection{Style: document.LineDotted, Animation: document.AnimationGlow, Color: document.ColorRed},
			want: []Stroke{{Color: "text-red-500", Width: 3, DashArray: "2,4", LineCap: "round", Opacity: 1, Class: "connection-glow"}},
		},
		{
			name: "double",
			conn: document.Connection{Style: document.LineDouble, Animation: document.AnimationPulse, Color: document.ColorGreen},
			want: []Stroke{
				{Color: "text-green-500", Width: 5, Opacity: 1, Class: "connection-pulse"},
				{Color: "background", Width: 2, Opacity: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strokes(tt.conn))
		})
	}

	assert.Equal(t, 0.7, PreviewStroke().Opacity)
	assert.Equal(t, "8 4", PreviewStroke().DashArray)
}
