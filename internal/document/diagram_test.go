package document

import (
	"fmt"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

func intp(v int) *int { return &v }

func nodeIDs(ns []Node) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func connIDs(cs []Connection) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestSeedDiagram(t *testing.T) {
	d := NewSeedDiagram()
	assert.Equal(t, []string{"1", "2", "3"}, nodeIDs(d.Nodes()))
	assert.Equal(t, []string{"c1", "c2"}, connIDs(d.Connections()))

	start, ok := d.Node("1")
	require.True(t, ok)
	assert.Equal(t, geom.Pt(400, 350), start.Position)
	assert.Equal(t, 0, start.Inputs)
	assert.Equal(t, 1, start.Outputs)

	c1, ok := d.Connection("c1")
	require.True(t, ok)
	assert.Equal(t, AnimationFlow, c1.Animation)
	assert.Equal(t, ColorBlue, c1.Color)
}

func TestUpdatePortsPrunesStaleConnections(t *testing.T) {
	d := NewSeedDiagram()

	removed, err := d.UpdatePorts("2", intp(0), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, removed)
	assert.Equal(t, []string{"c2"}, connIDs(d.Connections()))

	n, _ := d.Node("2")
	assert.Equal(t, 0, n.Inputs)
	assert.Equal(t, 1, n.Outputs)
}

func TestUpdatePortsOnlyTouchesChangedSide(t *testing.T) {
	d := NewSeedDiagram()

	// Output side of node 2 grows; nothing references a missing port.
	removed, err := d.UpdatePorts("2", nil, intp(3))
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.Equal(t, 2, d.ConnectionCount())

	removed, err = d.UpdatePorts("2", nil, intp(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, removed)
	assert.Equal(t, []string{"c1"}, connIDs(d.Connections()))
}

func TestUpdatePortsClampsNegative(t *testing.T) {
	d := NewSeedDiagram()
	_, err := d.UpdatePorts("3", intp(-4), nil)
	require.NoError(t, err)
	n, _ := d.Node("3")
	assert.Equal(t, 0, n.Inputs)
	assert.Equal(t, 1, d.ConnectionCount())
}

func TestStepPorts(t *testing.T) {
	d := NewSeedDiagram()

	_, err := d.AddInput("2")
	require.NoError(t, err)
	n, _ := d.Node("2")
	assert.Equal(t, 2, n.Inputs)

	removed, err := d.RemoveOutput("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, removed)

	// Removing from an empty side stays at zero.
	_, err = d.RemoveOutput("1")
	require.NoError(t, err)
	n, _ = d.Node("1")
	assert.Equal(t, 0, n.Outputs)

	_, err = d.AddOutput("missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestDeleteNodeCascades(t *testing.T) {
	d := NewSeedDiagram()

	removed, err := d.DeleteNode("2")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, removed)
	assert.Equal(t, []string{"1", "3"}, nodeIDs(d.Nodes()))
	assert.Zero(t, d.ConnectionCount())
	assert.Empty(t, d.ConnectionsOf("1"))

	_, err = d.DeleteNode("2")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestAddNodeDefaults(t *testing.T) {
	d := New()

	n, err := d.AddNode(ShapeDiamond, geom.Pt(10, 20))
	require.NoError(t, err)
	assert.Equal(t, SizeS, n.Size)
	assert.Equal(t, DefaultNodeLabel, n.Label)
	assert.Equal(t, 1, n.Inputs)
	assert.Equal(t, 1, n.Outputs)
	assert.Equal(t, IconDiamond, n.Icon)
	assert.Equal(t, IconAlertTriangle, n.SubIcon)

	ic, err := d.AddNode(ShapeIconCircle, geom.Pt(0, 0))
	require.NoError(t, err)
	assert.Empty(t, ic.Label)
	assert.Zero(t, ic.Inputs)
	assert.Zero(t, ic.Outputs)
	assert.NotEqual(t, n.ID, ic.ID)

	_, err = d.AddNode("blob", geom.Pt(0, 0))
	assert.ErrorIs(t, err, ErrInvalidAttribute)
	assert.Equal(t, 2, d.NodeCount())
}

func TestAddConnection(t *testing.T) {
	d := NewSeedDiagram()

	// Any direction pairing is accepted, duplicates included.
	c, err := d.AddConnection(
		PortRef{NodeID: "3", Direction: DirIn, Index: 0},
		PortRef{NodeID: "1", Direction: DirOut, Index: 0},
	)
	require.NoError(t, err)
	assert.Equal(t, LineSolid, c.Style)
	assert.Equal(t, AnimationNone, c.Animation)
	assert.Equal(t, ColorDefault, c.Color)

	_, err = d.AddConnection(c.Source, c.Target)
	require.NoError(t, err)
	assert.Equal(t, 4, d.ConnectionCount())
	assert.Len(t, d.ConnectionsOf("1"), 3)

	_, err = d.AddConnection(
		PortRef{NodeID: "1", Direction: DirIn, Index: 0},
		PortRef{NodeID: "2", Direction: DirIn, Index: 0},
	)
	assert.ErrorIs(t, err, ErrPortNotFound)

	_, err = d.AddConnection(
		PortRef{NodeID: "9", Direction: DirOut, Index: 0},
		PortRef{NodeID: "2", Direction: DirIn, Index: 0},
	)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestUpdateConnection(t *testing.T) {
	d := NewSeedDiagram()

	dashed := LineDashed
	c, err := d.UpdateConnection("c2", ConnectionPatch{Style: &dashed})
	require.NoError(t, err)
	assert.Equal(t, LineDashed, c.Style)
	assert.Equal(t, ColorRed, c.Color)

	bad := Color("magenta")
	pulse := AnimationPulse
	_, err = d.UpdateConnection("c2", ConnectionPatch{Animation: &pulse, Color: &bad})
	assert.ErrorIs(t, err, ErrInvalidAttribute)
	got, _ := d.Connection("c2")
	assert.Equal(t, AnimationNone, got.Animation)

	_, err = d.UpdateConnection("nope", ConnectionPatch{})
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestNodeSetters(t *testing.T) {
	d := NewSeedDiagram()

	require.NoError(t, d.SetLabel("1", "Begin"))
	require.NoError(t, d.SetColor("1", ColorLime))
	require.NoError(t, d.SetIcon("1", "database"))
	require.NoError(t, d.SetSubIcon("1", IconNone))
	require.NoError(t, d.SetSize("1", SizeXL))

	n, _ := d.Node("1")
	assert.Equal(t, "Begin", n.Label)
	assert.Equal(t, ColorLime, n.Color)
	assert.Equal(t, Icon("database"), n.Icon)
	assert.Equal(t, SizeXL, n.Size)

	assert.ErrorIs(t, d.SetColor("1", "plaid"), ErrInvalidAttribute)
	assert.ErrorIs(t, d.SetIcon("1", "unicorn"), ErrInvalidAttribute)
	assert.ErrorIs(t, d.SetSize("1", "xxl"), ErrInvalidAttribute)
	assert.ErrorIs(t, d.SetLabel("9", "x"), ErrNodeNotFound)

	n, _ = d.Node("1")
	assert.Equal(t, ColorLime, n.Color)
}

func TestUpdateNode(t *testing.T) {
	d := NewSeedDiagram()
	label, color, size := "Worker", Color("teal"), SizeLG

	n, err := d.UpdateNode("2", NodePatch{Label: &label, Color: &color, Size: &size})
	require.NoError(t, err)
	assert.Equal(t, "Worker", n.Label)
	assert.Equal(t, color, n.Color)
	assert.Equal(t, SizeLG, n.Size)

	bad, badSize := Color("plaid"), Size("xxl")
	renamed := "Renamed"
	_, err = d.UpdateNode("2", NodePatch{Label: &renamed, Color: &bad})
	assert.ErrorIs(t, err, ErrInvalidAttribute)
	_, err = d.UpdateNode("2", NodePatch{Label: &renamed, Size: &badSize})
	assert.ErrorIs(t, err, ErrInvalidAttribute)
	_, err = d.UpdateNode("9", NodePatch{Label: &renamed})
	assert.ErrorIs(t, err, ErrNodeNotFound)

	n, _ = d.Node("2")
	assert.Equal(t, "Worker", n.Label)
	assert.Equal(t, color, n.Color)
}

func TestMoveNode(t *testing.T) {
	d := NewSeedDiagram()
	require.NoError(t, d.MoveNode("3", geom.Pt(-5, 7)))
	n, _ := d.Node("3")
	assert.Equal(t, geom.Pt(-5, 7), n.Position)
	assert.ErrorIs(t, d.MoveNode("x", geom.Pt(0, 0)), ErrNodeNotFound)
}

func TestClear(t *testing.T) {
	d := NewSeedDiagram()
	d.ClearConnections()
	assert.Equal(t, 3, d.NodeCount())
	assert.Zero(t, d.ConnectionCount())

	d = NewSeedDiagram()
	d.ClearAll()
	assert.Zero(t, d.NodeCount())
	assert.Zero(t, d.ConnectionCount())
}

func TestInsertRejectsDuplicates(t *testing.T) {
	d := NewSeedDiagram()
	assert.ErrorIs(t, d.InsertNode(SeedNodes()[0]), ErrDuplicateID)
	assert.ErrorIs(t, d.InsertConnection(SeedConnections()[0]), ErrDuplicateID)
}

func TestParseHandle(t *testing.T) {
	p, err := ParseHandle("2", "out-3")
	require.NoError(t, err)
	assert.Equal(t, PortRef{NodeID: "2", Direction: DirOut, Index: 3}, p)
	assert.Equal(t, "out-3", p.Handle())

	for _, h := range []string{"out", "up-1", "in-x", "in--1"} {
		_, err := ParseHandle("2", h)
		assert.Error(t, err, h)
	}
}

// randomDiagram builds a chain of n nodes with k ports per side and wires
// every output i of node j to input i of node j+1. Even nodes also get an
// output-to-output link so both directions land on the same node.
func randomDiagram(n, k int) *Diagram {
	d := New()
	for j := 0; j < n; j++ {
		_ = d.InsertNode(Node{ID: fmt.Sprint(j), Shape: ShapeRectangle, Inputs: k, Outputs: k})
	}
	for j := 0; j+1 < n; j++ {
		for i := 0; i < k; i++ {
			_, _ = d.AddConnection(
				PortRef{NodeID: fmt.Sprint(j), Direction: DirOut, Index: i},
				PortRef{NodeID: fmt.Sprint(j + 1), Direction: DirIn, Index: i},
			)
			if j%2 == 0 {
				_, _ = d.AddConnection(
					PortRef{NodeID: fmt.Sprint(j), Direction: DirOut, Index: i},
					PortRef{NodeID: fmt.Sprint(j + 1), Direction: DirOut, Index: i},
				)
			}
		}
	}
	return d
}

// consistent checks that every connection references existing ports.
func consistent(d *Diagram) bool {
	for _, c := range d.Connections() {
		if !d.HasPort(c.Source) || !d.HasPort(c.Target) {
			return false
		}
	}
	return true
}

func TestDiagramProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("port pruning removes exactly the out-of-range connections", prop.ForAll(
		func(n, k, target, in, out int) bool {
			d := randomDiagram(n, k)
			id := fmt.Sprint(target % n)
			stale := func(p PortRef) bool {
				if p.NodeID != id {
					return false
				}
				if p.Direction == DirIn {
					return p.Index >= in
				}
				return p.Index >= out
			}

			var wantRemoved, wantKept []string
			for _, c := range d.Connections() {
				if stale(c.Source) || stale(c.Target) {
					wantRemoved = append(wantRemoved, c.ID)
				} else {
					wantKept = append(wantKept, c.ID)
				}
			}

			removed, err := d.UpdatePorts(id, &in, &out)
			if err != nil || !consistent(d) {
				return false
			}
			return slices.Equal(removed, wantRemoved) && slices.Equal(connIDs(d.Connections()), wantKept)
		},
		gen.IntRange(2, 6),
		gen.IntRange(0, 4),
		gen.IntRange(0, 100),
		gen.IntRange(0, 5),
		gen.IntRange(0, 5),
	))

	properties.Property("deleting a node removes exactly its connections", prop.ForAll(
		func(n, k, target int) bool {
			d := randomDiagram(n, k)
			id := fmt.Sprint(target % n)
			touching := len(d.ConnectionsOf(id))
			before := d.ConnectionCount()
			removed, err := d.DeleteNode(id)
			if err != nil || len(removed) != touching {
				return false
			}
			for _, c := range d.Connections() {
				if c.Source.NodeID == id || c.Target.NodeID == id {
					return false
				}
			}
			return consistent(d) && d.ConnectionCount() == before-touching
		},
		gen.IntRange(1, 6),
		gen.IntRange(0, 4),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
