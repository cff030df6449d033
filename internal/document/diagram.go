package document

import (
	"errors"
	"fmt"
	"slices"

	"github.com/laakri/flowcanvas/backend-go/internal/geom"
	"github.com/laakri/flowcanvas/backend-go/internal/typeid"
)

var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrPortNotFound       = errors.New("port not found")
	ErrDuplicateID        = errors.New("duplicate id")
	ErrInvalidAttribute   = errors.New("invalid attribute")
)

const DefaultNodeLabel = "New Node"

type nodeEntry struct {
	node Node
	seq  uint64
}

type connEntry struct {
	conn Connection
	seq  uint64
}

// Diagram is the node/connection collection. It exclusively owns its
// entities: readers get copies, and every change goes through a method so
// that no connection ever outlives an endpoint node.
type Diagram struct {
	nodes  map[string]*nodeEntry
	conns  map[string]*connEntry
	byNode map[string]map[string]struct{} // nodeID -> ids of connections touching it
	seq    uint64

	newNodeID func() string
	newConnID func() string
}

// New returns an empty diagram that mints typeid-based ids.
func New() *Diagram {
	return &Diagram{
		nodes:     make(map[string]*nodeEntry),
		conns:     make(map[string]*connEntry),
		byNode:    make(map[string]map[string]struct{}),
		newNodeID: typeid.NewNodeID,
		newConnID: typeid.NewConnectionID,
	}
}

// --- Queries ---

func (d *Diagram) Node(id string) (Node, bool) {
	e, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	return e.node, true
}

func (d *Diagram) Connection(id string) (Connection, bool) {
	e, ok := d.conns[id]
	if !ok {
		return Connection{}, false
	}
	return e.conn, true
}

// Nodes returns all nodes in insertion order (back to front).
func (d *Diagram) Nodes() []Node {
	entries := make([]*nodeEntry, 0, len(d.nodes))
	for _, e := range d.nodes {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *nodeEntry) int { return cmpSeq(a.seq, b.seq) })

	out := make([]Node, len(entries))
	for i, e := range entries {
		out[i] = e.node
	}
	return out
}

// Connections returns all connections in insertion order.
func (d *Diagram) Connections() []Connection {
	entries := make([]*connEntry, 0, len(d.conns))
	for _, e := range d.conns {
		entries = append(entries, e)
	}
	return sortedConns(entries)
}

// ConnectionsOf returns the connections with an endpoint on nodeID.
func (d *Diagram) ConnectionsOf(nodeID string) []Connection {
	ids := d.byNode[nodeID]
	entries := make([]*connEntry, 0, len(ids))
	for id := range ids {
		entries = append(entries, d.conns[id])
	}
	return sortedConns(entries)
}

func (d *Diagram) NodeCount() int       { return len(d.nodes) }
func (d *Diagram) ConnectionCount() int { return len(d.conns) }

// HasPort reports whether p addresses a port on an existing node.
func (d *Diagram) HasPort(p PortRef) bool {
	e, ok := d.nodes[p.NodeID]
	return ok && e.node.HasPort(p)
}

// --- Node mutations ---

// AddNode creates a node of the given shape at pos with the shape's defaults:
// one input and one output (none for icon-only shapes), size s, the shape's
// default icons, and the default label for shapes that show one.
func (d *Diagram) AddNode(shape Shape, pos geom.Point) (Node, error) {
	spec, ok := shape.Spec()
	if !ok {
		return Node{}, fmt.Errorf("%w: shape %q", ErrInvalidAttribute, shape)
	}

	n := Node{
		ID:       d.freshID(d.newNodeID, d.hasNode),
		Shape:    shape,
		Position: pos,
		Size:     SizeS,
		Icon:     spec.Icon,
		SubIcon:  spec.SubIcon,
	}
	if !spec.IconOnly {
		n.Inputs, n.Outputs = 1, 1
		n.Label = DefaultNodeLabel
	}

	d.insertNode(n)
	return n, nil
}

// InsertNode adds a fully specified node, e.g. from the seed diagram.
func (d *Diagram) InsertNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("%w: empty node id", ErrInvalidAttribute)
	}
	if d.hasNode(n.ID) {
		return fmt.Errorf("%w: node %s", ErrDuplicateID, n.ID)
	}
	if err := validateNode(n); err != nil {
		return err
	}
	d.insertNode(n)
	return nil
}

func (d *Diagram) insertNode(n Node) {
	d.seq++
	d.nodes[n.ID] = &nodeEntry{node: n, seq: d.seq}
}

// MoveNode sets a node's world position.
func (d *Diagram) MoveNode(id string, pos geom.Point) error {
	e, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	e.node.Position = pos
	return nil
}

// UpdatePorts sets the input and/or output count of a node (nil leaves a side
// unchanged, negative counts are clamped to zero) and removes every connection
// endpoint on that node whose index no longer exists on a changed side. The
// ids of removed connections are returned in insertion order.
func (d *Diagram) UpdatePorts(id string, inputs, outputs *int) ([]string, error) {
	e, ok := d.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	if inputs != nil {
		e.node.Inputs = max(*inputs, 0)
	}
	if outputs != nil {
		e.node.Outputs = max(*outputs, 0)
	}

	stale := func(p PortRef) bool {
		if p.NodeID != id {
			return false
		}
		switch p.Direction {
		case DirIn:
			return inputs != nil && p.Index >= e.node.Inputs
		case DirOut:
			return outputs != nil && p.Index >= e.node.Outputs
		}
		return false
	}

	var doomed []*connEntry
	for _, c := range d.ConnectionsOf(id) {
		if stale(c.Source) || stale(c.Target) {
			doomed = append(doomed, d.conns[c.ID])
		}
	}
	return d.removeConns(doomed), nil
}

func (d *Diagram) AddInput(id string) ([]string, error) {
	return d.stepPorts(id, DirIn, 1)
}

func (d *Diagram) RemoveInput(id string) ([]string, error) {
	return d.stepPorts(id, DirIn, -1)
}

func (d *Diagram) AddOutput(id string) ([]string, error) {
	return d.stepPorts(id, DirOut, 1)
}

func (d *Diagram) RemoveOutput(id string) ([]string, error) {
	return d.stepPorts(id, DirOut, -1)
}

func (d *Diagram) stepPorts(id string, dir Direction, delta int) ([]string, error) {
	e, ok := d.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	next := max(e.node.PortCount(dir)+delta, 0)
	if dir == DirIn {
		return d.UpdatePorts(id, &next, nil)
	}
	return d.UpdatePorts(id, nil, &next)
}

// DeleteNode removes a node and every connection touching it. The ids of the
// removed connections are returned.
func (d *Diagram) DeleteNode(id string) ([]string, error) {
	if _, ok := d.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	touching := d.ConnectionsOf(id)
	doomed := make([]*connEntry, len(touching))
	for i, c := range touching {
		doomed[i] = d.conns[c.ID]
	}
	removed := d.removeConns(doomed)

	delete(d.nodes, id)
	delete(d.byNode, id)
	return removed, nil
}

func (d *Diagram) SetLabel(id, label string) error {
	return d.editNode(id, func(n *Node) error {
		n.Label = label
		return nil
	})
}

func (d *Diagram) SetColor(id string, c Color) error {
	return d.editNode(id, func(n *Node) error {
		if !c.ValidForNode() {
			return fmt.Errorf("%w: node color %q", ErrInvalidAttribute, c)
		}
		n.Color = c
		return nil
	})
}

func (d *Diagram) SetIcon(id string, ic Icon) error {
	return d.editNode(id, func(n *Node) error {
		if ic != "" && !ic.Valid() {
			return fmt.Errorf("%w: icon %q", ErrInvalidAttribute, ic)
		}
		n.Icon = ic
		return nil
	})
}

func (d *Diagram) SetSubIcon(id string, ic Icon) error {
	return d.editNode(id, func(n *Node) error {
		if ic != "" && !ic.Valid() {
			return fmt.Errorf("%w: sub icon %q", ErrInvalidAttribute, ic)
		}
		n.SubIcon = ic
		return nil
	})
}

func (d *Diagram) SetSize(id string, s Size) error {
	return d.editNode(id, func(n *Node) error {
		if !s.Valid() {
			return fmt.Errorf("%w: size %q", ErrInvalidAttribute, s)
		}
		n.Size = s
		return nil
	})
}

// UpdateNode applies the non-nil fields of patch. Nothing changes when any
// field is invalid.
func (d *Diagram) UpdateNode(id string, patch NodePatch) (Node, error) {
	var out Node
	err := d.editNode(id, func(n *Node) error {
		switch {
		case patch.Color != nil && !patch.Color.ValidForNode():
			return fmt.Errorf("%w: node color %q", ErrInvalidAttribute, *patch.Color)
		case patch.Icon != nil && *patch.Icon != "" && !patch.Icon.Valid():
			return fmt.Errorf("%w: icon %q", ErrInvalidAttribute, *patch.Icon)
		case patch.SubIcon != nil && *patch.SubIcon != "" && !patch.SubIcon.Valid():
			return fmt.Errorf("%w: sub icon %q", ErrInvalidAttribute, *patch.SubIcon)
		case patch.Size != nil && !patch.Size.Valid():
			return fmt.Errorf("%w: size %q", ErrInvalidAttribute, *patch.Size)
		}

		if patch.Label != nil {
			n.Label = *patch.Label
		}
		if patch.Color != nil {
			n.Color = *patch.Color
		}
		if patch.Icon != nil {
			n.Icon = *patch.Icon
		}
		if patch.SubIcon != nil {
			n.SubIcon = *patch.SubIcon
		}
		if patch.Size != nil {
			n.Size = *patch.Size
		}
		out = *n
		return nil
	})
	return out, err
}

// editNode applies fn to a scratch copy and commits only if fn succeeds.
func (d *Diagram) editNode(id string, fn func(*Node) error) error {
	e, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n := e.node
	if err := fn(&n); err != nil {
		return err
	}
	e.node = n
	return nil
}

// --- Connection mutations ---

// AddConnection links two existing ports with the default style. Any
// combination of directions is accepted and duplicates are allowed.
func (d *Diagram) AddConnection(source, target PortRef) (Connection, error) {
	c := Connection{
		ID:        d.freshID(d.newConnID, d.hasConn),
		Source:    source,
		Target:    target,
		Style:     LineSolid,
		Animation: AnimationNone,
		Color:     ColorDefault,
	}
	if err := d.InsertConnection(c); err != nil {
		return Connection{}, err
	}
	return c, nil
}

// InsertConnection adds a fully specified connection. Empty style fields are
// filled with their defaults.
func (d *Diagram) InsertConnection(c Connection) error {
	if c.ID == "" {
		return fmt.Errorf("%w: empty connection id", ErrInvalidAttribute)
	}
	if d.hasConn(c.ID) {
		return fmt.Errorf("%w: connection %s", ErrDuplicateID, c.ID)
	}
	for _, p := range []PortRef{c.Source, c.Target} {
		e, ok := d.nodes[p.NodeID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, p.NodeID)
		}
		if !e.node.HasPort(p) {
			return fmt.Errorf("%w: %s", ErrPortNotFound, p)
		}
	}

	if c.Style == "" {
		c.Style = LineSolid
	}
	if c.Animation == "" {
		c.Animation = AnimationNone
	}
	c.Color = c.Color.OrDefault()
	if err := validateStyle(c.Style, c.Animation, c.Color); err != nil {
		return err
	}

	d.seq++
	d.conns[c.ID] = &connEntry{conn: c, seq: d.seq}
	d.index(c.Source.NodeID, c.ID)
	d.index(c.Target.NodeID, c.ID)
	return nil
}

// UpdateConnection applies the non-nil fields of patch. Nothing changes when
// any field is invalid.
func (d *Diagram) UpdateConnection(id string, patch ConnectionPatch) (Connection, error) {
	e, ok := d.conns[id]
	if !ok {
		return Connection{}, fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
	}

	c := e.conn
	if patch.Style != nil {
		c.Style = *patch.Style
	}
	if patch.Animation != nil {
		c.Animation = *patch.Animation
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	if err := validateStyle(c.Style, c.Animation, c.Color); err != nil {
		return e.conn, err
	}

	e.conn = c
	return c, nil
}

func (d *Diagram) DeleteConnection(id string) error {
	e, ok := d.conns[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
	}
	d.removeConns([]*connEntry{e})
	return nil
}

// ClearConnections removes every connection and keeps the nodes.
func (d *Diagram) ClearConnections() {
	d.conns = make(map[string]*connEntry)
	d.byNode = make(map[string]map[string]struct{})
}

// ClearAll removes every node and connection.
func (d *Diagram) ClearAll() {
	d.ClearConnections()
	d.nodes = make(map[string]*nodeEntry)
}

// --- internals ---

func (d *Diagram) hasNode(id string) bool { _, ok := d.nodes[id]; return ok }
func (d *Diagram) hasConn(id string) bool { _, ok := d.conns[id]; return ok }

// freshID draws ids until one is unused. typeids are time-ordered and random
// so the loop practically never repeats.
func (d *Diagram) freshID(gen func() string, taken func(string) bool) string {
	for {
		if id := gen(); !taken(id) {
			return id
		}
	}
}

func (d *Diagram) index(nodeID, connID string) {
	set, ok := d.byNode[nodeID]
	if !ok {
		set = make(map[string]struct{})
		d.byNode[nodeID] = set
	}
	set[connID] = struct{}{}
}

func (d *Diagram) unindex(nodeID, connID string) {
	set := d.byNode[nodeID]
	delete(set, connID)
	if len(set) == 0 {
		delete(d.byNode, nodeID)
	}
}

// removeConns deletes the given entries and returns their ids in insertion order.
func (d *Diagram) removeConns(entries []*connEntry) []string {
	sorted := sortedConns(entries)
	ids := make([]string, len(sorted))
	for i, c := range sorted {
		delete(d.conns, c.ID)
		d.unindex(c.Source.NodeID, c.ID)
		d.unindex(c.Target.NodeID, c.ID)
		ids[i] = c.ID
	}
	return ids
}

func sortedConns(entries []*connEntry) []Connection {
	slices.SortFunc(entries, func(a, b *connEntry) int { return cmpSeq(a.seq, b.seq) })
	out := make([]Connection, len(entries))
	for i, e := range entries {
		out[i] = e.conn
	}
	return out
}

func cmpSeq(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func validateNode(n Node) error {
	switch {
	case !n.Shape.Valid():
		return fmt.Errorf("%w: shape %q", ErrInvalidAttribute, n.Shape)
	case n.Size != "" && !n.Size.Valid():
		return fmt.Errorf("%w: size %q", ErrInvalidAttribute, n.Size)
	case n.Inputs < 0 || n.Outputs < 0:
		return fmt.Errorf("%w: negative port count", ErrInvalidAttribute)
	case n.Color != "" && !n.Color.ValidForNode():
		return fmt.Errorf("%w: node color %q", ErrInvalidAttribute, n.Color)
	case n.Icon != "" && !n.Icon.Valid():
		return fmt.Errorf("%w: icon %q", ErrInvalidAttribute, n.Icon)
	case n.SubIcon != "" && !n.SubIcon.Valid():
		return fmt.Errorf("%w: sub icon %q", ErrInvalidAttribute, n.SubIcon)
	}
	return nil
}

func validateStyle(s LineStyle, a Animation, c Color) error {
	switch {
	case !s.Valid():
		return fmt.Errorf("%w: line style %q", ErrInvalidAttribute, s)
	case !a.Valid():
		return fmt.Errorf("%w: animation %q", ErrInvalidAttribute, a)
	case !c.ValidForConnection():
		return fmt.Errorf("%w: connection color %q", ErrInvalidAttribute, c)
	}
	return nil
}
