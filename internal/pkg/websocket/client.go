package websocket

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/piresc/intranet-notify/internal/pkg/models"
)

// ErrClientClosed is returned when writing to a client that has been closed
var ErrClientClosed = errors.New("websocket: client closed")

// Transport is the part of *websocket.Conn the manager and broadcaster use
type Transport interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one registered connection and the identity it authenticated as
type Client struct {
	ID          string
	Identity    models.Identity
	ConnectedAt time.Time

	conn    Transport
	writeMu sync.Mutex
	closed  atomic.Bool
}

// NewClient wraps conn for identity
func NewClient(conn Transport, identity models.Identity) *Client {
	return &Client{
		ID:          uuid.NewString(),
		Identity:    identity,
		ConnectedAt: time.Now(),
		conn:        conn,
	}
}

// Sendable reports whether the client still accepts writes
func (c *Client) Sendable() bool {
	return !c.closed.Load()
}

// Send writes one text frame. Writes are serialized per client.
func (c *Client) Send(data []byte, writeWait time.Duration) error {
	if !c.Sendable() {
		return ErrClientClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if writeWait > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Ping writes a ping control frame
func (c *Client) Ping(writeWait time.Duration) error {
	if !c.Sendable() {
		return ErrClientClosed
	}
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Close closes the transport once. It reports whether this call closed it.
func (c *Client) Close() bool {
	if !c.closed.CompareAndSwap(false, true) {
		return false
	}
	_ = c.conn.Close()
	return true
}
