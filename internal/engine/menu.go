package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/events"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

var ErrUnknownMenu = errors.New("unknown menu kind")

type MenuKind string

const (
	MenuNode       MenuKind = "node"
	MenuConnection MenuKind = "connection"
	MenuCanvas     MenuKind = "canvas"
)

// Menu is the open context menu. At most one is open at a time.
type Menu struct {
	Kind     MenuKind   `json:"kind"`
	TargetID string     `json:"targetId,omitempty"`
	Screen   geom.Point `json:"screen"`
	// World is the click position in world space; AddNode uses it for the
	// canvas menu.
	World geom.Point `json:"world"`
}

// MenuView is the open menu with the current attribute values of its target
// so pickers can pre-select them.
type MenuView struct {
	Menu
	Node       *document.Node       `json:"node,omitempty"`
	Connection *document.Connection `json:"connection,omitempty"`
}

func (e *Engine) OpenNodeMenu(id string, screen geom.Point) error {
	if _, ok := e.doc.Node(id); !ok {
		return e.reject("open node menu", fmt.Errorf("%w: %s", document.ErrNodeNotFound, id))
	}
	e.openMenu(Menu{Kind: MenuNode, TargetID: id, Screen: screen})
	return nil
}

func (e *Engine) OpenConnectionMenu(id string, screen geom.Point) error {
	if _, ok := e.doc.Connection(id); !ok {
		return e.reject("open connection menu", fmt.Errorf("%w: %s", document.ErrConnectionNotFound, id))
	}
	e.openMenu(Menu{Kind: MenuConnection, TargetID: id, Screen: screen})
	return nil
}

func (e *Engine) OpenCanvasMenu(screen geom.Point) {
	e.openMenu(Menu{Kind: MenuCanvas, Screen: screen})
}

// OpenMenu dispatches on kind.
func (e *Engine) OpenMenu(kind MenuKind, targetID string, screen geom.Point) error {
	switch kind {
	case MenuNode:
		return e.OpenNodeMenu(targetID, screen)
	case MenuConnection:
		return e.OpenConnectionMenu(targetID, screen)
	case MenuCanvas:
		e.OpenCanvasMenu(screen)
		return nil
	}
	return e.reject("open menu", fmt.Errorf("%w: %q", ErrUnknownMenu, kind))
}

// openMenu announces the new menu, which closes any other through its
// subscription, then subscribes the new one to outside pointer-downs and
// to later menu openings.
func (e *Engine) openMenu(m Menu) {
	e.bus.Publish(events.Event{Kind: events.KindMenuOpened, Screen: m.Screen, Source: string(m.Kind)})

	m.World = e.view.ScreenToWorld(m.Screen)
	e.menu = &m

	closeMenu := func(events.Event) { e.CloseMenu() }
	e.menuScope.Add(e.bus.Subscribe(events.KindPointerDown, closeMenu))
	e.menuScope.Add(e.bus.Subscribe(events.KindMenuOpened, closeMenu))
}

// CloseMenu closes the open menu, if any, and releases its subscriptions.
func (e *Engine) CloseMenu() {
	e.menu = nil
	e.menuScope.Close()
}

func (e *Engine) Menu() *Menu {
	if e.menu == nil {
		return nil
	}
	m := *e.menu
	return &m
}

func (e *Engine) MenuView() *MenuView {
	if e.menu == nil {
		return nil
	}
	v := &MenuView{Menu: *e.menu}
	switch v.Kind {
	case MenuNode:
		if n, ok := e.doc.Node(v.TargetID); ok {
			v.Node = &n
		}
	case MenuConnection:
		if c, ok := e.doc.Connection(v.TargetID); ok {
			v.Connection = &c
		}
	}
	return v
}

// closeMenuOn closes the menu when its target is node id or one of the
// given connection ids.
func (e *Engine) closeMenuOn(nodeID string, connIDs []string) {
	if e.menu == nil {
		return
	}
	switch e.menu.Kind {
	case MenuNode:
		if nodeID != "" && e.menu.TargetID == nodeID {
			e.CloseMenu()
		}
	case MenuConnection:
		if slices.Contains(connIDs, e.menu.TargetID) {
			e.CloseMenu()
		}
	}
}
