package document

import "github.com/laakri/flowcanvas/backend-go/internal/geom"

// Seed ids are fixed so clients and tests can address them directly.
const (
	SeedStartID   = "1"
	SeedProcessID = "2"
	SeedEndID     = "3"
	SeedLink1ID   = "c1"
	SeedLink2ID   = "c2"
)

// SeedNodes is the Start -> Process -> End diagram shown on a fresh canvas.
func SeedNodes() []Node {
	return []Node{
		{
			ID:       SeedStartID,
			Shape:    ShapeRounded,
			Position: geom.Pt(400, 350),
			Size:     SizeXS,
			Inputs:   0,
			Outputs:  1,
			Label:    "Start",
			Color:    ColorPurple,
			Icon:     IconPlay,
			SubIcon:  IconArrowRight,
		},
		{
			ID:       SeedProcessID,
			Shape:    ShapeRectangle,
			Position: geom.Pt(590, 250),
			Size:     SizeS,
			Inputs:   1,
			Outputs:  1,
			Label:    "Process",
			Color:    ColorBlue,
			Icon:     IconSettings,
			SubIcon:  IconZap,
		},
		{
			ID:       SeedEndID,
			Shape:    ShapeCircle,
			Position: geom.Pt(800, 350),
			Size:     SizeXS,
			Inputs:   1,
			Outputs:  0,
			Label:    "End",
			Color:    ColorRed,
			Icon:     IconCheck,
			SubIcon:  IconNone,
		},
	}
}

func SeedConnections() []Connection {
	return []Connection{
		{
			ID:        SeedLink1ID,
			Source:    PortRef{NodeID: SeedStartID, Direction: DirOut, Index: 0},
			Target:    PortRef{NodeID: SeedProcessID, Direction: DirIn, Index: 0},
			Style:     LineSolid,
			Animation: AnimationFlow,
			Color:     ColorBlue,
		},
		{
			ID:        SeedLink2ID,
			Source:    PortRef{NodeID: SeedProcessID, Direction: DirOut, Index: 0},
			Target:    PortRef{NodeID: SeedEndID, Direction: DirIn, Index: 0},
			Style:     LineSolid,
			Animation: AnimationNone,
			Color:     ColorRed,
		},
	}
}

// NewSeedDiagram returns a diagram holding the seed nodes and connections.
func NewSeedDiagram() *Diagram {
	d := New()
	for _, n := range SeedNodes() {
		if err := d.InsertNode(n); err != nil {
			panic(err)
		}
	}
	for _, c := range SeedConnections() {
		if err := d.InsertConnection(c); err != nil {
			panic(err)
		}
	}
	return d
}
