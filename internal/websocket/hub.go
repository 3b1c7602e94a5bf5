package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cx-tal-miterani/flight-search/shared/models"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSearchStarted   MessageType = "search_started"
	MessageTypeSearchCompleted MessageType = "search_completed"
	MessageTypeSearchFailed    MessageType = "search_failed"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Message represents a WebSocket message
type Message struct {
	Type         MessageType        `json:"type"`
	Route        string             `json:"route"`
	SearchID     string             `json:"searchId"`
	TotalResults int                `json:"totalResults,omitempty"`
	PriceRange   *models.PriceRange `json:"priceRange,omitempty"`
	Message      string             `json:"message,omitempty"`
	Timestamp    int64              `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	route string
}

// Hub manages WebSocket connections per route, e.g. "EZE-MIA"
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewHub creates a new Hub. Call Run to start dispatching.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are enforced by the CORS layer
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With("component", "websocket"),
	}
}

// Run dispatches registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.route] == nil {
				h.clients[client.route] = make(map[*Client]bool)
			}
			h.clients[client.route][client] = true
			total := len(h.clients[client.route])
			h.mu.Unlock()
			h.logger.Info("Client registered", "route", client.route, "total", total)

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("Failed to marshal message", "error", err)
				continue
			}

			h.mu.Lock()
			clients := h.clients[message.Route]
			h.logger.Debug("Broadcasting", "type", message.Type, "route", message.Route, "clients", len(clients))
			for client := range clients {
				select {
				case client.send <- data:
				default:
					// slow consumer
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops a client; callers hold h.mu
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.route]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	h.logger.Info("Client unregistered", "route", client.route, "remaining", len(clients))
	if len(clients) == 0 {
		delete(h.clients, client.route)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.remove(client)
		}
	}
}

func (h *Hub) publish(msg *Message) {
	if h.GetClientCount(msg.Route) == 0 {
		return
	}
	msg.Timestamp = time.Now().UnixMilli()
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast queue full, dropping message", "type", msg.Type, "route", msg.Route)
	}
}

// SearchStarted notifies clients watching route that a search began
func (h *Hub) SearchStarted(route, searchID string) {
	h.publish(&Message{
		Type:     MessageTypeSearchStarted,
		Route:    route,
		SearchID: searchID,
	})
}

// SearchCompleted notifies clients watching route of a finished search
func (h *Hub) SearchCompleted(route, searchID string, totalResults int, prices models.PriceRange) {
	h.publish(&Message{
		Type:         MessageTypeSearchCompleted,
		Route:        route,
		SearchID:     searchID,
		TotalResults: totalResults,
		PriceRange:   &prices,
	})
}

// SearchFailed notifies clients watching route that a search did not complete
func (h *Hub) SearchFailed(route, searchID, reason string) {
	h.publish(&Message{
		Type:     MessageTypeSearchFailed,
		Route:    route,
		SearchID: searchID,
		Message:  reason,
	})
}

// GetClientCount returns the number of clients watching a route
func (h *Hub) GetClientCount(route string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[route])
}

// RouteKey builds the hub key for an origin and destination pair
func RouteKey(origin, destination string) string {
	return strings.ToUpper(origin) + "-" + strings.ToUpper(destination)
}

// HandleWebSocket handles GET /api/routes/{origin}/{destination}/ws
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	route := RouteKey(vars["origin"], vars["destination"])

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Upgrade failed", "route", route, "error", err)
		return
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		route: route,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump discards inbound messages and detects closed connections
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
