package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/engine"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
	"github.com/laakri/flowcanvas/backend-go/internal/layout"
	"github.com/laakri/flowcanvas/backend-go/internal/metrics"
)

var (
	ErrUnknownType = errors.New("unknown message type")
	ErrBadPayload  = errors.New("bad payload")
)

var validate = validator.New()

// Session applies one client's messages to its own engine. It is driven by a
// single read loop, so messages are handled strictly in arrival order.
type Session struct {
	ID      string
	engine  *engine.Engine
	log     *slog.Logger
	metrics *metrics.Registry
}

func NewSession(id string, opts engine.Options, log *slog.Logger, m *metrics.Registry) *Session {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("session", id)
	opts.Logger = log
	return &Session{
		ID:      id,
		engine:  engine.NewEngine(opts),
		log:     log,
		metrics: m,
	}
}

func (s *Session) Engine() *engine.Engine { return s.engine }

// Welcome builds the first message sent on a new connection.
func (s *Session) Welcome() *Message {
	return s.message(TypeWelcome, 0, WelcomePayload{
		SessionID:        s.ID,
		Shapes:           shapeInfos(),
		Sizes:            document.Sizes,
		NodeColors:       document.NodeColors,
		ConnectionColors: document.ConnectionColors,
		LineStyles:       document.LineStyles,
		Animations:       document.Animations,
		IconGroups:       document.IconGroups,
		Frame:            s.frame(result{}),
	})
}

// result carries what a command produced beyond the new frame.
type result struct {
	created *document.Connection
	removed []string
	node    *document.Node
}

// Handle applies msg and returns the reply: a frame on success, an error
// message otherwise. The connection is never closed for a bad message.
func (s *Session) Handle(msg *Message) *Message {
	start := time.Now()
	res, err := s.apply(msg)

	code := ""
	if err != nil {
		code = errorCode(err)
		s.log.Warn("message rejected", "type", msg.Type, "seq", msg.Seq, "code", code, "error", err)
	}
	s.metrics.ObserveMessage(msg.Type, code, time.Since(start))

	if err != nil {
		return s.message(TypeError, msg.Seq, ErrorPayload{Seq: msg.Seq, Code: code, Message: err.Error()})
	}
	return s.message(TypeFrame, msg.Seq, s.frame(res))
}

func (s *Session) apply(msg *Message) (result, error) {
	e := s.engine

	switch msg.Type {
	case TypePointerDown:
		var p PointerPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		target, err := p.target()
		if err != nil {
			return result{}, err
		}
		e.PointerDown(geom.Pt(p.X, p.Y), p.Button, target)
		return result{}, nil

	case TypePointerMove:
		var p PointerPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		_, err := e.PointerMove(geom.Pt(p.X, p.Y))
		return result{}, err

	case TypePointerUp:
		var p PointerPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		target, err := p.target()
		if err != nil {
			return result{}, err
		}
		conn, err := e.PointerUp(geom.Pt(p.X, p.Y), target)
		return result{created: conn}, err

	case TypeWheel:
		var p WheelPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		e.Wheel(p.DeltaY)
		return result{}, nil

	case TypeZoomIn:
		e.ZoomIn()
		return result{}, nil

	case TypeZoomOut:
		e.ZoomOut()
		return result{}, nil

	case TypeViewReset:
		e.ResetView()
		return result{}, nil

	case TypeNodeAdd:
		var p NodeAddPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		n, err := e.AddNode(p.Shape, p.Position)
		if err != nil {
			return result{}, err
		}
		return result{node: &n}, nil

	case TypeNodeDelete:
		var p NodeIDPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		removed, err := e.DeleteNode(p.NodeID)
		return result{removed: removed}, err

	case TypeNodePorts:
		var p NodePortsPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		removed, err := s.stepPorts(p)
		return result{removed: removed}, err

	case TypeNodeUpdate:
		var p NodeUpdatePayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		n, err := e.UpdateNode(p.NodeID, p.NodePatch)
		if err != nil {
			return result{}, err
		}
		return result{node: &n}, nil

	case TypeConnectionUpdate:
		var p ConnectionUpdatePayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		_, err := e.UpdateConnection(p.ConnectionID, p.ConnectionPatch)
		return result{}, err

	case TypeConnectionDelete:
		var p ConnectionIDPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		if err := e.DeleteConnection(p.ConnectionID); err != nil {
			return result{}, err
		}
		return result{removed: []string{p.ConnectionID}}, nil

	case TypeCanvasClear:
		e.ClearAll()
		return result{}, nil

	case TypeCanvasClearLinks:
		e.ClearConnections()
		return result{}, nil

	case TypeMenuOpen:
		var p MenuOpenPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return result{}, e.OpenMenu(p.Kind, p.TargetID, geom.Pt(p.X, p.Y))

	case TypeMenuClose:
		e.CloseMenu()
		return result{}, nil
	}

	return result{}, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
}

func (s *Session) stepPorts(p NodePortsPayload) ([]string, error) {
	e := s.engine
	switch {
	case p.Direction == document.DirIn && p.Delta > 0:
		return e.AddInput(p.NodeID)
	case p.Direction == document.DirIn:
		return e.RemoveInput(p.NodeID)
	case p.Delta > 0:
		return e.AddOutput(p.NodeID)
	default:
		return e.RemoveOutput(p.NodeID)
	}
}

// target converts the optional client-side hit test result. nil lets the
// engine hit test.
func (p PointerPayload) target() (*layout.Target, error) {
	if p.Target == nil {
		return nil, nil
	}
	var t layout.Target
	switch p.Target.Kind {
	case string(layout.TargetPort):
		ref, err := document.ParseHandle(p.Target.NodeID, p.Target.Handle)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		t = layout.PortTarget(ref)
	case string(layout.TargetNode):
		t = layout.NodeTarget(p.Target.NodeID)
	default:
		t = layout.CanvasTarget()
	}
	return &t, nil
}

func (s *Session) frame(res result) FramePayload {
	return FramePayload{
		Snapshot: s.engine.Snapshot(),
		Commands: s.engine.DrawCommands(),
		Created:  res.created,
		Removed:  res.removed,
		Node:     res.node,
	}
}

func (s *Session) message(typ string, seq int64, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("marshal payload", "type", typ, "error", err)
		data, _ = json.Marshal(ErrorPayload{Seq: seq, Code: CodeInternal, Message: "encode reply"})
		typ = TypeError
	}
	return &Message{Type: typ, Seq: seq, Payload: data}
}

// decode unmarshals and validates a payload. An empty payload decodes as {}.
func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	e := verrs[0]
	switch e.Tag() {
	case "required", "required_if", "required_unless":
		return fmt.Errorf("%s: field is required", e.Field())
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s]", e.Field(), e.Param())
	case "min":
		return fmt.Errorf("%s: must be at least %s", e.Field(), e.Param())
	case "max":
		return fmt.Errorf("%s: must not exceed %s", e.Field(), e.Param())
	default:
		return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownType):
		return CodeUnknownType
	case errors.Is(err, ErrBadPayload):
		return CodeBadRequest
	case errors.Is(err, document.ErrNodeNotFound),
		errors.Is(err, document.ErrConnectionNotFound),
		errors.Is(err, document.ErrPortNotFound):
		return CodeNotFound
	case errors.Is(err, document.ErrInvalidAttribute),
		errors.Is(err, engine.ErrUnknownMenu):
		return CodeInvalid
	}
	return CodeInternal
}
