package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

const (
	// write timeout
	writeWait = 10 * time.Second

	// pong wait; the read deadline is pushed on every pong
	pongWait = 60 * time.Second

	// ping interval, must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maximum inbound frame size
	maxMessageSize = 4096

	// outbound buffer; a full buffer drops the connection
	sendBufferSize = 256
)

// Client is one connected player.
type Client struct {
	ID       string
	Name     string
	RoomCode string

	server *Server
	conn   *websocket.Conn
	send   chan []byte
	log    *logrus.Entry

	mu     sync.RWMutex
	closed bool
}

// NewClient wraps an upgraded connection with its durable identity.
func NewClient(s *Server, conn *websocket.Conn, id, name string) *Client {
	return &Client{
		ID:     id,
		Name:   name,
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		log:    logrus.WithFields(logrus.Fields{"component": "client", "player": id}),
	}
}

// ReadPump reads frames off the socket and hands them to the handler.
// It owns the connection teardown.
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("read error")
			}
			break
		}

		msg, err := codec.Decode(data)
		if err != nil {
			c.log.WithError(err).Warn("undecodable message")
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Handle(c, msg)
	}
}

// WritePump drains the send channel onto the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// SendMessage queues a message for delivery. A client that cannot drain
// its buffer is closed rather than allowed to stall the whole room.
// The lock is held across the channel send: broadcasts arrive from AI
// timer goroutines concurrently with Close, and the send must not race
// the close of c.send.
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		c.log.WithError(err).Error("encode failed")
		return
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}

	select {
	case c.send <- data:
		c.mu.RUnlock()
	default:
		c.mu.RUnlock()
		c.log.Warn("send buffer full, dropping connection")
		c.Close()
	}
}

// handleDisconnect runs once when the read pump exits. The session goes
// offline but survives, so the player can reclaim their seat.
func (c *Client) handleDisconnect() {
	// A superseded connection must not mark its replacement offline
	if cur := c.server.GetClientByID(c.ID); cur != nil && cur != types.ClientInterface(c) {
		c.server.unregisterClient(c)
		return
	}

	c.server.sessionManager.SetOffline(c.ID)
	c.server.roomManager.Disconnect(c)
	c.server.unregisterClient(c)
}

// Close shuts the outbound channel. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// GetID returns the durable player ID.
func (c *Client) GetID() string { return c.ID }

// GetName returns the display name.
func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Name
}

// SetName updates the display name, e.g. from a create_room or
// join_room payload carrying one.
func (c *Client) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Name = name
}

// GetRoom returns the current room code, or empty.
func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RoomCode
}

// SetRoom records the current room code.
func (c *Client) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RoomCode = code
}
