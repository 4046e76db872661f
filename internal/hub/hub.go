// Package hub pushes dataset events to websocket clients and answers their
// live queries.
package hub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Message is the envelope for every frame in both directions.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type clientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandlerFunc answers one inbound message type.
type HandlerFunc func(data json.RawMessage) (Message, error)

type client struct {
	id   string
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) send(m Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteJSON(m)
}

type Hub struct {
	log *zap.Logger

	mu       sync.RWMutex
	clients  map[string]*client
	handlers map[string]HandlerFunc
}

func New(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{log: log, clients: map[string]*client{}, handlers: map[string]HandlerFunc{}}
}

// Handle registers fn for inbound messages of type typ.
func (h *Hub) Handle(typ string, fn HandlerFunc) {
	h.mu.Lock()
	h.handlers[typ] = fn
	h.mu.Unlock()
}

// Count is the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and starts the client's read loop. The client is
// greeted with a "hello" message carrying its id.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws: upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	c := &client{id: uuid.NewString(), conn: conn}
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("ws: connect", zap.String("id", c.id), zap.String("remote", r.RemoteAddr), zap.Int("clients", n))

	if err := c.send(Message{Type: "hello", Data: map[string]string{"id": c.id}}); err != nil {
		h.drop(c)
		return
	}
	go h.read(c)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	_ = c.conn.Close()
	h.log.Info("ws: closed", zap.String("id", c.id))
}

func (h *Hub) read(c *client) {
	defer h.drop(c)
	for {
		var in clientIn
		if err := c.conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("ws: read error", zap.String("id", c.id), zap.Error(err))
			}
			return
		}
		h.log.Debug("ws: recv", zap.String("id", c.id), zap.String("type", in.Type))

		reply := h.dispatch(in)
		if err := c.send(reply); err != nil {
			h.log.Warn("ws: write error", zap.String("id", c.id), zap.Error(err))
			return
		}
	}
}

func (h *Hub) dispatch(in clientIn) Message {
	if in.Type == "ping" {
		return Message{Type: "pong"}
	}
	h.mu.RLock()
	fn, ok := h.handlers[in.Type]
	h.mu.RUnlock()
	if !ok {
		return Message{Type: "error", Data: fmt.Sprintf("unknown message type %q", in.Type)}
	}
	out, err := fn(in.Data)
	if err != nil {
		return Message{Type: "error", Data: err.Error()}
	}
	return out
}

// Broadcast sends m to every client. Clients that fail the write are dropped by
// their read loop once the connection errors.
func (h *Hub) Broadcast(m Message) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	for _, c := range targets {
		if err := c.send(m); err != nil {
			h.log.Warn("ws: broadcast write error", zap.String("id", c.id), zap.Error(err))
			_ = c.conn.Close()
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.wmu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"))
		c.wmu.Unlock()
		_ = c.conn.Close()
	}
}
