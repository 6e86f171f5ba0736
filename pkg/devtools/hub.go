package devtools

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = time.Second

	// clientBuffer is the number of live events queued per client on top of
	// its backlog. A client that falls further behind is disconnected.
	clientBuffer = 256
)

// client is one connected inspector. Only its write loop writes to conn.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	// after is the Seq of the last backlog event queued for the client.
	// Numbered events up to it are not sent again.
	after uint64
}

// Hub is a Sink that streams events to connected WebSocket clients as JSON
// text messages, one event per message.
//
// Record never blocks on the network: events are queued per client and
// written by one goroutine per connection.
type Hub struct {
	clients  map[string]*client
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// backlog, when set, is queued for each client as it registers.
	backlog func() []Event
}

// NewHub creates a hub with no clients.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Inspector is a local dev tool
			},
		},
		logger: slog.Default().With("component", "devtools"),
	}
}

// HandleWebSocket upgrades the request and keeps the client registered until
// it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := h.register(conn)
	h.logger.Debug("inspector client connected", "client", c.id)
	go h.writeLoop(c)

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

// register queues the backlog for a new client and adds it to the hub in one
// step, so no event is both replayed and broadcast.
func (h *Hub) register(conn *websocket.Conn) *client {
	h.mu.Lock()
	defer h.mu.Unlock()

	var backlog []Event
	if h.backlog != nil {
		backlog = h.backlog()
	}
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, len(backlog)+clientBuffer),
	}
	for _, e := range backlog {
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		c.send <- data
		c.after = max(c.after, e.Seq)
	}
	h.clients[c.id] = c
	return c
}

// writeLoop writes queued messages until the send channel is closed.
func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.drop(c)
			return
		}
	}
}

// Record implements Sink by queueing e for every client. Clients whose
// queue is full are disconnected.
func (h *Hub) Record(e Event) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		h.mu.RUnlock()
		h.logger.Debug("event not encodable", "error", err)
		return
	}
	var slow []*client
	for _, c := range h.clients {
		if e.Seq != 0 && e.Seq <= c.after {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("inspector client too slow, disconnecting", "client", c.id)
		h.drop(c)
	}
}

// drop unregisters c and closes its connection. Dropping twice is a no-op.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		c.conn.Close()
		h.logger.Debug("inspector client disconnected", "client", c.id)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
		c.conn.Close()
	}
}
