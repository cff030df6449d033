//go:build !js

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

// Client is one websocket connection and the session it drives.
type Client struct {
	registry *Registry
	conn     *websocket.Conn
	send     chan []byte
	session  *Session
	log      *slog.Logger
}

func NewClient(registry *Registry, conn *websocket.Conn, session *Session) *Client {
	return &Client{
		registry: registry,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		session:  session,
		log:      slog.Default().With("session", session.ID),
	}
}

func (c *Client) ID() string { return c.session.ID }

// ReadPump reads messages until the connection closes and answers each one
// in order. It unregisters the client on return.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.registry.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.Send(c.session.Welcome())

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			c.log.Debug("read error", "error", err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("invalid message", "error", err)
			c.Send(c.session.message(TypeError, 0, ErrorPayload{Code: CodeBadRequest, Message: "malformed message"}))
			continue
		}

		c.Send(c.session.Handle(&msg))
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg without blocking. When the buffer is full the message is
// dropped; the next frame carries the full state anyway.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
		c.registry.metrics.FrameSent()
	default:
		c.registry.metrics.FrameDropped()
		c.log.Warn("client send buffer full, dropping message", "type", msg.Type)
	}
}
