//go:build !js

package session

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/laakri/flowcanvas/backend-go/internal/metrics"
)

// Registry tracks live clients so the server can report and close them.
// Sessions are independent: nothing is shared or broadcast between them.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
	metrics *metrics.Registry
}

func NewRegistry(m *metrics.Registry) *Registry {
	return &Registry{
		clients: make(map[string]*Client),
		metrics: m,
	}
}

// Register adds c. It reports false once the registry has been stopped.
func (r *Registry) Register(c *Client) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.clients[c.ID()] = c
	r.mu.Unlock()

	r.metrics.SessionOpened()
	slog.Info("client joined", "session", c.ID())
	return true
}

func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	if _, ok := r.clients[c.ID()]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.clients, c.ID())
	close(c.send)
	r.mu.Unlock()

	r.metrics.SessionClosed()
	slog.Info("client left", "session", c.ID())
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Stop refuses new clients and closes every open connection with
// StatusGoingAway.
func (r *Registry) Stop() {
	r.mu.Lock()
	r.closed = true
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		if c.conn != nil {
			c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
	slog.Info("sessions stopped", "count", len(clients))
}
