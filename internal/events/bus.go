// Package events is a small synchronous publish/subscribe bus. Subscriptions
// are explicit values that their owner closes when it goes away, so no
// listener outlives the component that registered it.
package events

import (
	"slices"
	"sync"

	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

type Kind string

const (
	KindPointerDown Kind = "pointer.down"
	KindMenuOpened  Kind = "menu.opened"
)

type Event struct {
	Kind   Kind
	Screen geom.Point
	// Source names who published the event, e.g. the menu that opened.
	Source string
}

type Handler func(Event)

type Bus struct {
	mu   sync.Mutex
	next uint64
	subs map[Kind]map[uint64]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Kind]map[uint64]Handler)}
}

// Subscribe registers h for events of kind until the returned subscription
// is closed.
func (b *Bus) Subscribe(kind Kind, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	set, ok := b.subs[kind]
	if !ok {
		set = make(map[uint64]Handler)
		b.subs[kind] = set
	}
	set[id] = h
	return &Subscription{bus: b, kind: kind, id: id}
}

// Publish delivers ev to the handlers subscribed to its kind, oldest first.
// Handlers run on the caller's goroutine and may close subscriptions,
// including their own, while being called.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	set := b.subs[ev.Kind]
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	b.mu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		b.mu.Lock()
		h, ok := b.subs[ev.Kind][id]
		b.mu.Unlock()
		if ok {
			h(ev)
		}
	}
}

// Len returns the number of live subscriptions for kind.
func (b *Bus) Len(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[kind])
}

func (b *Bus) remove(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.subs[kind]
	delete(set, id)
	if len(set) == 0 {
		delete(b.subs, kind)
	}
}

type Subscription struct {
	bus    *Bus
	kind   Kind
	id     uint64
	closed bool
}

// Close unsubscribes. Closing twice is a no-op.
func (s *Subscription) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.bus.remove(s.kind, s.id)
}

// Scope groups the subscriptions of one owner so they can be released
// together.
type Scope struct {
	subs []*Subscription
}

func (s *Scope) Add(sub *Subscription) {
	s.subs = append(s.subs, sub)
}

// Close releases every subscription in the scope. The scope can be reused.
func (s *Scope) Close() {
	for _, sub := range s.subs {
		sub.Close()
	}
	s.subs = nil
}

func (s *Scope) Len() int { return len(s.subs) }
