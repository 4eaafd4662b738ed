package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Dashboard clients only send control frames.
	maxMessageSize = 4 * 1024
)

// Client is one websocket connection subscribed to a hub.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// after skips broadcasts the client already received another way.
	after uint64
}

// NewClient creates a client for conn and registers it with h.
func NewClient(h *Hub, conn *websocket.Conn) *Client {
	return NewClientAfter(h, conn, 0)
}

// NewClientAfter registers a client that only receives broadcasts with a
// sequence number above seq. It is returned registered, so no broadcast made
// after this call is missed.
func NewClientAfter(h *Hub, conn *websocket.Conn, seq uint64) *Client {
	c := &Client{
		id:    uuid.NewString(),
		hub:   h,
		conn:  conn,
		send:  make(chan Message, sendQueue),
		after: seq,
	}
	h.join(c)
	return c
}

// ID returns the client's connection id.
func (c *Client) ID() string {
	return c.id
}

// After returns the last broadcast sequence number the client skips.
func (c *Client) After() uint64 {
	return c.after
}

// Close unregisters a client whose Run was never started.
func (c *Client) Close() {
	c.hub.leave(c)
}

// Run pumps messages to the connection and blocks until it closes.
// Call it from the websocket handler.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump drains incoming frames so pongs and disconnects are noticed.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("client read error", "client", c.id, "error", err)
			}
			return
		}
	}
}

// writePump is the only goroutine that writes to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(msg.frameType(), msg.Data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
