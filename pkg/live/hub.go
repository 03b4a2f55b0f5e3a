package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vhead/pkg/ssr"
)

// MessageType is the kind of a live message.
type MessageType string

const (
	// MessageHead carries new head markup.
	MessageHead MessageType = "head"
	// MessageError reports a declaration that could not be loaded.
	MessageError MessageType = "error"
	// MessageClear clears a previously reported error.
	MessageClear MessageType = "clear"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type MessageType `json:"type"`

	// Head is the markup of every head datum, title included.
	Head string `json:"head,omitempty"`
	// Title is the plain title text.
	Title string `json:"title,omitempty"`
	// HTMLAttributes and BodyAttributes are rendered attribute strings.
	HTMLAttributes string `json:"htmlAttributes,omitempty"`
	BodyAttributes string `json:"bodyAttributes,omitempty"`

	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
}

// HeadMessage builds the head message for a materialized state.
func HeadMessage(st *ssr.State, file string) Message {
	var sb strings.Builder
	// strings.Builder never fails.
	_ = st.WriteHead(&sb)

	return Message{
		Type:           MessageHead,
		Head:           sb.String(),
		Title:          st.Title.Text(),
		HTMLAttributes: st.HTMLAttributes.String(),
		BodyAttributes: st.BodyAttributes.String(),
		File:           file,
	}
}

// client serializes writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithCheckOrigin sets the origin check of the WebSocket upgrader.
// By default every origin is accepted.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}

// Hub fans head updates out to connected browsers. A browser that
// connects late receives the latest head message first.
type Hub struct {
	clients  map[*client]struct{}
	last     []byte
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "live")
	return h
}

// ServeHTTP upgrades the request and keeps the connection until the
// browser disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}

	// The last head goes out before the client is visible to Broadcast,
	// so a newer head can never arrive ahead of it.
	h.mu.Lock()
	if h.last != nil {
		if err := c.write(h.last); err != nil {
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

// Publish sends the head of st to every browser.
func (h *Hub) Publish(st *ssr.State, file string) {
	h.Broadcast(HeadMessage(st, file))
}

// NotifyError reports a failed load of file.
func (h *Hub) NotifyError(file string, err error) {
	h.Broadcast(Message{Type: MessageError, File: file, Error: err.Error()})
}

// ClearError clears the error overlay on all browsers.
func (h *Hub) ClearError() {
	h.Broadcast(Message{Type: MessageClear})
}

// Broadcast sends msg to every browser. Head messages are kept for
// browsers that connect later.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode live message", "error", err)
		return
	}

	h.mu.Lock()
	if msg.Type == MessageHead {
		h.last = data
	}
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Debug("dropping live client", "error", err)
			h.drop(c)
		}
	}
}

// ClientCount returns the number of connected browsers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}
