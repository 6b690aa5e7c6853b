package web

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// errSlowClient is returned when a client's send buffer is full.
var errSlowClient = errors.New("web: client send buffer full")

// errClosed is returned when sending to a client the hub already dropped.
var errClosed = errors.New("web: connection closed")

// Connection wraps a WebSocket with its outgoing queue.
type Connection struct {
	id     string
	ws     *websocket.Conn
	send   chan []byte
	logger *log.Logger

	mu     sync.Mutex
	closed bool
}

// NewConnection wraps ws and assigns it a random ID.
func NewConnection(ws *websocket.Conn, logger *log.Logger) *Connection {
	id := uuid.NewString()
	return &Connection{
		id:     id,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		logger: logger.With("client", id),
	}
}

// ID returns the connection's unique ID.
func (c *Connection) ID() string {
	return c.id
}

// MessageHandler handles one decoded client message.
type MessageHandler interface {
	HandleMessage(conn *Connection, msg ClientMessage)
}

// ReadPump reads messages until the connection fails or closes.
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.ws.Close()

	c.ws.SetReadLimit(maxMessageSize)
	//nolint:errcheck // A failed deadline surfaces on the next read
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("read failed", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			//nolint:errcheck // Best-effort reply
			c.SendMessage(errorMessage("malformed message"))
			continue
		}
		h.HandleMessage(c, msg)
	}
}

// WritePump sends queued messages and keepalive pings until send is closed.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // A failed deadline surfaces on the write
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				//nolint:errcheck // Connection is going away anyway
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			//nolint:errcheck // A failed deadline surfaces on the write
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues msg without blocking. A client that cannot keep up is
// disconnected rather than allowed to stall the broadcaster.
func (c *Connection) SendMessage(msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		c.ws.Close()
		return errSlowClient
	}
}

// closeSend closes the outgoing queue once, which ends WritePump.
func (c *Connection) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
