package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

// Conn is the minimal surface the client needs from a WebSocket connection.
// Satisfied by *websocket.Conn; tests substitute a recorder.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client wraps one live connection with a buffered outbound queue so slow
// readers never block a sender.
type Client struct {
	ID   string
	conn Conn

	send chan []byte

	mu     sync.Mutex
	closed bool
}

// NewClient creates a client around an accepted connection.
func NewClient(id string, conn Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Enqueue queues an envelope for delivery. Returns false when the buffer is
// full or the client is closed; callers treat that as "not delivered".
func (c *Client) Enqueue(msg *Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		return false
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// WritePump drains the send queue onto the wire. Runs in its own goroutine
// for the lifetime of the connection.
func (c *Client) WritePump() {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// Close marks the client closed and releases the write pump.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}
