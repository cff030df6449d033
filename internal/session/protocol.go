package session

import (
	"encoding/json"

	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/engine"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Pointer and view
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"
	TypeWheel       = "wheel"
	TypeZoomIn      = "view.zoomIn"
	TypeZoomOut     = "view.zoomOut"
	TypeViewReset   = "view.reset"

	// Diagram edits
	TypeNodeAdd          = "node.add"
	TypeNodeDelete       = "node.delete"
	TypeNodePorts        = "node.ports"
	TypeNodeUpdate       = "node.update"
	TypeConnectionUpdate = "connection.update"
	TypeConnectionDelete = "connection.delete"
	TypeCanvasClear      = "canvas.clear"
	TypeCanvasClearLinks = "canvas.clearConnections"

	// Menus
	TypeMenuOpen  = "menu.open"
	TypeMenuClose = "menu.close"

	// Server → client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeError   = "error"
)

// Error codes sent in ErrorPayload.Code.
const (
	CodeBadRequest  = "bad_request"
	CodeUnknownType = "unknown_type"
	CodeNotFound    = "not_found"
	CodeInvalid     = "invalid"
	CodeInternal    = "internal"
)

// --- Client → server payloads ---

// TargetPayload names what a pointer event landed on when the client hit
// tested it itself. Handle is "in-0" / "out-2" style.
type TargetPayload struct {
	Kind   string `json:"kind" validate:"oneof=canvas node port"`
	NodeID string `json:"nodeId,omitempty" validate:"required_unless=Kind canvas"`
	Handle string `json:"handle,omitempty" validate:"required_if=Kind port"`
}

type PointerPayload struct {
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Button int            `json:"button" validate:"min=0,max=4"`
	Target *TargetPayload `json:"target,omitempty"`
}

type WheelPayload struct {
	DeltaY float64 `json:"deltaY"`
}

type NodeAddPayload struct {
	Shape    document.Shape `json:"shape" validate:"required"`
	Position *geom.Point    `json:"position,omitempty"`
}

type NodeIDPayload struct {
	NodeID string `json:"nodeId" validate:"required"`
}

// NodePortsPayload adds or removes one port on one side.
type NodePortsPayload struct {
	NodeID    string             `json:"nodeId" validate:"required"`
	Direction document.Direction `json:"direction" validate:"oneof=in out"`
	Delta     int                `json:"delta" validate:"oneof=-1 1"`
}

// NodeUpdatePayload sets any subset of a node's attributes. A bad field
// rejects the whole update.
type NodeUpdatePayload struct {
	NodeID string `json:"nodeId" validate:"required"`
	document.NodePatch
}

type ConnectionUpdatePayload struct {
	ConnectionID string `json:"connectionId" validate:"required"`
	document.ConnectionPatch
}

type ConnectionIDPayload struct {
	ConnectionID string `json:"connectionId" validate:"required"`
}

type MenuOpenPayload struct {
	Kind     engine.MenuKind `json:"kind" validate:"oneof=node connection canvas"`
	TargetID string          `json:"targetId,omitempty" validate:"required_unless=Kind canvas"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
}

// --- Server → client payloads ---

// WelcomePayload carries the session id and the closed value sets the menus
// offer.
type WelcomePayload struct {
	SessionID        string               `json:"sessionId"`
	Shapes           []ShapeInfo          `json:"shapes"`
	Sizes            []document.Size      `json:"sizes"`
	NodeColors       []document.Color     `json:"nodeColors"`
	ConnectionColors []document.Color     `json:"connectionColors"`
	LineStyles       []document.LineStyle `json:"lineStyles"`
	Animations       []document.Animation `json:"animations"`
	IconGroups       []document.IconGroup `json:"iconGroups"`
	Frame            FramePayload         `json:"frame"`
}

type ShapeInfo struct {
	Shape    document.Shape `json:"shape"`
	Label    string         `json:"label"`
	Glyph    string         `json:"glyph"`
	IconOnly bool           `json:"iconOnly"`
}

// FramePayload is sent after every accepted message.
type FramePayload struct {
	Snapshot engine.Snapshot      `json:"snapshot"`
	Commands []engine.DrawCommand `json:"commands"`
	Created  *document.Connection `json:"created,omitempty"`
	Removed  []string             `json:"removed,omitempty"`
	Node     *document.Node       `json:"node,omitempty"`
}

type ErrorPayload struct {
	Seq     int64  `json:"seq,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func shapeInfos() []ShapeInfo {
	out := make([]ShapeInfo, 0, len(document.Shapes))
	for _, s := range document.Shapes {
		spec, _ := s.Spec()
		out = append(out, ShapeInfo{Shape: s, Label: spec.Label, Glyph: spec.Glyph, IconOnly: spec.IconOnly})
	}
	return out
}
