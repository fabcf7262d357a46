package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Event types pushed to connected admin dashboards
const (
	EventApplicationSubmitted = "application_submitted"
	EventApplicationUpdated   = "application_status_changed"
)

// Event is a message sent over the admin WebSocket feed
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents a connected admin dashboard
type Client struct {
	UserID string
	Conn   *websocket.Conn
}

// Hub maintains the set of connected admin clients and broadcasts
// application events to them
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Conn.Close()
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every connected admin. Write failures are
// ignored; the read loop notices the dead connection and unregisters it.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.Conn.WriteJSON(event)
	}
}

// NotifyApplicationSubmitted pushes a new application to the dashboards
func (h *Hub) NotifyApplicationSubmitted(application interface{}) {
	h.Broadcast(Event{
		Type:    EventApplicationSubmitted,
		Message: "New housing application received",
		Data:    application,
	})
}

// NotifyApplicationUpdated pushes a status transition to the dashboards
func (h *Hub) NotifyApplicationUpdated(application interface{}) {
	h.Broadcast(Event{
		Type:    EventApplicationUpdated,
		Message: "Housing application status changed",
		Data:    application,
	})
}
