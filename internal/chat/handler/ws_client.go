package handler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"evently/api/chatwire"
	"evently/internal/config"
)

// wsClient is one user's live connection. It implements registry.Conn:
// Send enqueues onto a buffered channel and never blocks; the write pump
// is the only goroutine touching the socket for writes.
type wsClient struct {
	userID uint64
	conn   *websocket.Conn
	cfg    config.ChatConfig

	mu     sync.Mutex
	closed bool
	send   chan *chatwire.Envelope
}

func newWSClient(userID uint64, conn *websocket.Conn, cfg config.ChatConfig) *wsClient {
	return &wsClient{
		userID: userID,
		conn:   conn,
		cfg:    cfg,
		send:   make(chan *chatwire.Envelope, cfg.SendBuffer),
	}
}

// Send enqueues a frame for the write pump. Drops with an error when the
// buffer is full or the connection is already closed; the caller treats
// both as a transport failure and moves on.
func (c *wsClient) Send(v any) error {
	env, ok := v.(*chatwire.Envelope)
	if !ok {
		return fmt.Errorf("unsupported frame type %T", v)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- env:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// close shuts the outbound queue, which makes the write pump finish and
// close the socket. Safe to call more than once.
func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// writePump drains the send queue onto the socket and keeps the
// connection alive with pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(time.Duration(c.cfg.PingInterval) * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	writeWait := time.Duration(c.cfg.WriteWait) * time.Second

	for {
		select {
		case env, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
