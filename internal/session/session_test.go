package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laakri/flowcanvas/backend-go/internal/engine"
	"github.com/laakri/flowcanvas/backend-go/internal/metrics"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	return NewSession("sess_test", engine.DefaultOptions(), nil, metrics.NewRegistry())
}

func send(t *testing.T, s *Session, typ string, seq int64, payload any) *Message {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = data
	}
	return s.Handle(&Message{Type: typ, Seq: seq, Payload: raw})
}

func frameOf(t *testing.T, msg *Message) FramePayload {
	t.Helper()
	require.Equal(t, TypeFrame, msg.Type, string(msg.Payload))
	var f FramePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &f))
	return f
}

func errorOf(t *testing.T, msg *Message) ErrorPayload {
	t.Helper()
	require.Equal(t, TypeError, msg.Type)
	var e ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &e))
	return e
}

func TestWelcome(t *testing.T) {
	s := newSession(t)
	msg := s.Welcome()
	require.Equal(t, TypeWelcome, msg.Type)

	var w WelcomePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &w))
	assert.Equal(t, "sess_test", w.SessionID)
	assert.Len(t, w.Shapes, 9)
	assert.Len(t, w.NodeColors, 21)
	assert.Len(t, w.ConnectionColors, 8)
	assert.Len(t, w.Frame.Snapshot.Nodes, 3)
}

func TestLinkGestureOverProtocol(t *testing.T) {
	s := newSession(t)

	f := frameOf(t, send(t, s, TypePointerDown, 1, PointerPayload{
		X: 480, Y: 380,
		Target: &TargetPayload{Kind: "port", NodeID: "1", Handle: "out-0"},
	}))
	assert.Equal(t, "linking", string(f.Snapshot.Interaction.Mode))

	frameOf(t, send(t, s, TypePointerMove, 2, PointerPayload{X: 500, Y: 500}))

	f = frameOf(t, send(t, s, TypePointerUp, 3, PointerPayload{
		X: 800, Y: 380,
		Target: &TargetPayload{Kind: "port", NodeID: "3", Handle: "in-0"},
	}))
	require.NotNil(t, f.Created)
	assert.Equal(t, "1", f.Created.Source.NodeID)
	assert.Equal(t, "3", f.Created.Target.NodeID)
	assert.Len(t, f.Snapshot.Connections, 3)
	assert.Equal(t, "idle", string(f.Snapshot.Interaction.Mode))
}

func TestNodeCommands(t *testing.T) {
	s := newSession(t)

	f := frameOf(t, send(t, s, TypeNodePorts, 1, NodePortsPayload{NodeID: "2", Direction: "in", Delta: -1}))
	assert.Equal(t, []string{"c1"}, f.Removed)

	label, color := "Worker", "teal"
	f = frameOf(t, send(t, s, TypeNodeUpdate, 2, map[string]any{"nodeId": "2", "label": label, "color": color, "size": "lg"}))
	require.NotNil(t, f.Node)
	assert.Equal(t, "Worker", f.Node.Label)
	assert.Equal(t, "teal", string(f.Node.Color))
	assert.Equal(t, "lg", string(f.Node.Size))

	f = frameOf(t, send(t, s, TypeNodeAdd, 3, map[string]any{"shape": "hexagon", "position": map[string]float64{"x": 5, "y": 6}}))
	require.NotNil(t, f.Node)
	assert.Equal(t, 5.0, f.Node.Position.X)

	f = frameOf(t, send(t, s, TypeNodeDelete, 4, NodeIDPayload{NodeID: "2"}))
	assert.Equal(t, []string{"c2"}, f.Removed)
	assert.Len(t, f.Snapshot.Nodes, 3)
}

func TestNodeUpdateIsAllOrNothing(t *testing.T) {
	s := newSession(t)

	e := errorOf(t, send(t, s, TypeNodeUpdate, 1, map[string]any{"nodeId": "1", "label": "Changed", "color": "bogus"}))
	assert.Equal(t, CodeInvalid, e.Code)

	n, ok := s.Engine().Node("1")
	require.True(t, ok)
	assert.Equal(t, "Start", n.Label)
	assert.NotEqual(t, "bogus", string(n.Color))
}

func TestConnectionAndCanvasCommands(t *testing.T) {
	s := newSession(t)

	f := frameOf(t, send(t, s, TypeConnectionUpdate, 1, map[string]any{"connectionId": "c2", "style": "double", "color": "pink"}))
	assert.Equal(t, "double", string(f.Snapshot.Connections[1].Style))
	assert.Equal(t, "pink", string(f.Snapshot.Connections[1].Color))

	f = frameOf(t, send(t, s, TypeConnectionDelete, 2, ConnectionIDPayload{ConnectionID: "c1"}))
	assert.Equal(t, []string{"c1"}, f.Removed)

	f = frameOf(t, send(t, s, TypeCanvasClearLinks, 3, nil))
	assert.Empty(t, f.Snapshot.Connections)

	f = frameOf(t, send(t, s, TypeCanvasClear, 4, nil))
	assert.Empty(t, f.Snapshot.Nodes)
}

func TestViewAndMenuCommands(t *testing.T) {
	s := newSession(t)

	f := frameOf(t, send(t, s, TypeZoomIn, 1, nil))
	assert.Equal(t, 120, f.Snapshot.View.ZoomPercent)
	f = frameOf(t, send(t, s, TypeWheel, 2, WheelPayload{DeltaY: 40}))
	assert.Equal(t, 100, f.Snapshot.View.ZoomPercent)
	frameOf(t, send(t, s, TypeZoomOut, 3, nil))
	f = frameOf(t, send(t, s, TypeViewReset, 4, nil))
	assert.Equal(t, 1.0, f.Snapshot.View.Zoom)

	f = frameOf(t, send(t, s, TypeMenuOpen, 5, MenuOpenPayload{Kind: engine.MenuNode, TargetID: "3", X: 10, Y: 10}))
	require.NotNil(t, f.Snapshot.Menu)
	require.NotNil(t, f.Snapshot.Menu.Node)
	assert.Equal(t, "End", f.Snapshot.Menu.Node.Label)

	f = frameOf(t, send(t, s, TypeMenuClose, 6, nil))
	assert.Nil(t, f.Snapshot.Menu)
}

func TestRejectedMessages(t *testing.T) {
	s := newSession(t)

	tests := []struct {
		name    string
		typ     string
		payload any
		code    string
	}{
		{"unknown type", "node.explode", nil, CodeUnknownType},
		{"missing node id", TypeNodeDelete, map[string]any{}, CodeBadRequest},
		{"bad delta", TypeNodePorts, NodePortsPayload{NodeID: "2", Direction: "in", Delta: 3}, CodeBadRequest},
		{"bad handle", TypePointerDown, PointerPayload{Target: &TargetPayload{Kind: "port", NodeID: "1", Handle: "side-0"}}, CodeBadRequest},
		{"port without handle", TypePointerDown, PointerPayload{Target: &TargetPayload{Kind: "port", NodeID: "1"}}, CodeBadRequest},
		{"missing node", TypeNodeDelete, NodeIDPayload{NodeID: "99"}, CodeNotFound},
		{"bad color", TypeNodeUpdate, map[string]any{"nodeId": "1", "color": "plaid"}, CodeInvalid},
		{"bad style", TypeConnectionUpdate, map[string]any{"connectionId": "c1", "style": "wavy"}, CodeBadRequest},
		{"menu without target", TypeMenuOpen, MenuOpenPayload{Kind: engine.MenuConnection}, CodeBadRequest},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := errorOf(t, send(t, s, tt.typ, int64(i+1), tt.payload))
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, int64(i+1), e.Seq)
		})
	}

	// Nothing above changed the diagram.
	f := frameOf(t, send(t, s, TypeMenuClose, 100, nil))
	assert.Len(t, f.Snapshot.Nodes, 3)
	assert.Len(t, f.Snapshot.Connections, 2)
}
