//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/laakri/flowcanvas/backend-go/internal/engine"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
	"github.com/laakri/flowcanvas/backend-go/internal/session"
	"github.com/laakri/flowcanvas/backend-go/internal/typeid"
)

var sess *session.Session

func main() {
	sess = session.NewSession(typeid.NewSessionID(), engine.DefaultOptions(), nil, nil)

	// Create the engine API object
	canvas := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	// handle takes a protocol message and returns the frame or error reply,
	// the same messages the websocket server speaks.
	canvas.Set("handle", js.FuncOf(handle))
	canvas.Set("loadSeed", js.FuncOf(loadSeed))

	// --- Queries (frontend ← backend) ---
	canvas.Set("welcome", js.FuncOf(welcome))
	canvas.Set("render", js.FuncOf(render))
	canvas.Set("snapshot", js.FuncOf(snapshot))
	canvas.Set("hitTest", js.FuncOf(hitTest))
	canvas.Set("getViewState", js.FuncOf(getViewState))

	// Register on global scope
	js.Global().Set("flowCanvas", canvas)

	// Signal that WASM is ready
	js.Global().Set("flowCanvasWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func handle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing message JSON"})
	}

	var msg session.Message
	if err := json.Unmarshal([]byte(args[0].String()), &msg); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(toJSON(sess.Handle(&msg)))
}

func loadSeed(this js.Value, args []js.Value) interface{} {
	sess.Engine().LoadSeed()
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Query Handlers ---

func welcome(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(toJSON(sess.Welcome()))
}

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(sess.Engine().Render())
}

func snapshot(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(sess.Engine().SnapshotJSON())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("{}")
	}
	target := sess.Engine().HitTest(geom.Pt(args[0].Float(), args[1].Float()))
	return js.ValueOf(toJSON(target))
}

func getViewState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(toJSON(sess.Engine().ViewState()))
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
