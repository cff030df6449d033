// Package interaction implements the pointer gesture state machine: node
// dragging, canvas panning and port linking. Exactly one gesture is active
// at a time and a new one can only start from Idle.
package interaction

import (
	"errors"
	"fmt"

	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
	"github.com/laakri/flowcanvas/backend-go/internal/layout"
	"github.com/laakri/flowcanvas/backend-go/internal/viewport"
)

var ErrGestureAborted = errors.New("gesture aborted")

type Mode string

const (
	ModeIdle         Mode = "idle"
	ModeDraggingNode Mode = "draggingNode"
	ModePanning      Mode = "panning"
	ModeLinking      Mode = "linking"
)

// ButtonPrimary is the only button that starts gestures.
const ButtonPrimary = 0

// moveEpsilon is the world distance below which a drag leaves the node alone.
const moveEpsilon = 1e-9

// State is a snapshot of the active gesture. Only the fields of the current
// mode are set.
type State struct {
	Mode Mode `json:"mode"`

	// draggingNode
	NodeID     string     `json:"nodeId,omitempty"`
	GrabOffset geom.Point `json:"grabOffset"`

	// panning: pointer screen position minus pan at press time
	Anchor geom.Point `json:"anchor"`

	// linking
	Source   *document.PortRef `json:"source,omitempty"`
	Reversed bool              `json:"reversed,omitempty"`
	Cursor   *geom.Point       `json:"cursor,omitempty"`
}

func (s State) Idle() bool { return s.Mode == ModeIdle }

// Pointer is one pointer event. Screen is relative to the canvas element and
// Target is what the event landed on.
type Pointer struct {
	Screen geom.Point
	Button int
	Target layout.Target
}

// Model is the part of the diagram the controller mutates.
type Model interface {
	Node(id string) (document.Node, bool)
	HasPort(p document.PortRef) bool
	MoveNode(id string, pos geom.Point) error
	AddConnection(source, target document.PortRef) (document.Connection, error)
}

type Controller struct {
	model    Model
	view     *viewport.Viewport
	state    State
	selected string
}

func NewController(model Model, view *viewport.Viewport) *Controller {
	return &Controller{
		model: model,
		view:  view,
		state: State{Mode: ModeIdle},
	}
}

func (c *Controller) State() State { return c.state }

// Selected returns the selected node id, or "" when nothing is selected.
func (c *Controller) Selected() string { return c.selected }

func (c *Controller) Select(id string) { c.selected = id }

func (c *Controller) ClearSelection() { c.selected = "" }

// PointerDown starts a gesture from Idle. It reports whether one started;
// presses during an active gesture or with a non-primary button are ignored.
func (c *Controller) PointerDown(ev Pointer) bool {
	if !c.state.Idle() || ev.Button != ButtonPrimary {
		return false
	}

	switch ev.Target.Kind {
	case layout.TargetPort:
		if ev.Target.Port == nil || !c.model.HasPort(*ev.Target.Port) {
			return false
		}
		src := *ev.Target.Port
		c.state = State{
			Mode:     ModeLinking,
			Source:   &src,
			Reversed: src.Direction == document.DirIn,
		}
		return true

	case layout.TargetNode:
		n, ok := c.model.Node(ev.Target.NodeID)
		if !ok {
			return false
		}
		c.selected = n.ID
		c.state = State{
			Mode:       ModeDraggingNode,
			NodeID:     n.ID,
			GrabOffset: c.view.ScreenToWorld(ev.Screen).Sub(n.Position),
		}
		return true

	default:
		c.selected = ""
		c.state = State{
			Mode:   ModePanning,
			Anchor: ev.Screen.Sub(c.view.Pan()),
		}
		return true
	}
}

// PointerMove advances the active gesture. It reports whether anything
// changed. A drag whose node disappeared is aborted with ErrGestureAborted.
func (c *Controller) PointerMove(ev Pointer) (bool, error) {
	switch c.state.Mode {
	case ModeDraggingNode:
		pos := c.view.ScreenToWorld(ev.Screen).Sub(c.state.GrabOffset)
		if n, ok := c.model.Node(c.state.NodeID); ok && n.Position.Near(pos, moveEpsilon) {
			return false, nil
		}
		if err := c.model.MoveNode(c.state.NodeID, pos); err != nil {
			c.reset()
			return true, fmt.Errorf("%w: %w", ErrGestureAborted, err)
		}
		return true, nil

	case ModePanning:
		c.view.SetPan(ev.Screen.Sub(c.state.Anchor))
		return true, nil

	case ModeLinking:
		w := c.view.ScreenToWorld(ev.Screen)
		if c.state.Cursor != nil && c.state.Cursor.Near(w, moveEpsilon) {
			return false, nil
		}
		c.state.Cursor = &w
		return true, nil
	}
	return false, nil
}

// PointerUp ends the active gesture. Releasing on a port while linking
// creates a connection from the origin port to that port, whatever their
// directions; any other release just returns to Idle. The returned
// connection is nil when none was created.
func (c *Controller) PointerUp(ev Pointer) (*document.Connection, error) {
	prev := c.state
	c.reset()

	if prev.Mode != ModeLinking || prev.Source == nil {
		return nil, nil
	}
	if ev.Target.Kind != layout.TargetPort || ev.Target.Port == nil {
		return nil, nil
	}
	if !c.model.HasPort(*ev.Target.Port) {
		return nil, nil
	}

	conn, err := c.model.AddConnection(*prev.Source, *ev.Target.Port)
	if err != nil {
		return nil, fmt.Errorf("link %s -> %s: %w", prev.Source, ev.Target.Port, err)
	}
	return &conn, nil
}

// Cancel drops any active gesture without touching the model.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.state = State{Mode: ModeIdle}
}
