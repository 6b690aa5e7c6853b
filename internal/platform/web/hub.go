package web

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Hub tracks connected clients and fans messages out to them.
type Hub struct {
	clients map[string]*Connection
	mutex   sync.RWMutex
	logger  *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Connection),
		logger:  logger,
	}
}

// Add registers a client.
func (h *Hub) Add(c *Connection) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[c.ID()] = c
}

// Remove unregisters a client and closes its send queue.
func (h *Hub) Remove(c *Connection) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[c.ID()]; ok {
		delete(h.clients, c.ID())
		c.closeSend()
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every client.
func (h *Hub) Broadcast(msg ServerMessage) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for id, c := range h.clients {
		if err := c.SendMessage(msg); err != nil {
			h.logger.Warn("broadcast failed", "client", id, "error", err)
		}
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		c.closeSend()
	}
}
