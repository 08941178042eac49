package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// Hub keeps the connected admin dashboards and pushes every order event to
// them as a JSON text frame.
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub accepts upgrades from any origin; CORS on the HTTP side is the
// access boundary, the feed route itself is admin-only.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Name() string { return "websocket" }

// ServeWS upgrades the request and blocks until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	h.add(conn)
	defer h.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("feed client connected", zap.String("remote", conn.RemoteAddr().String()))
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Clients returns the number of connected feed clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Send writes event to every client. The client set is copied under the lock
// and written outside it so a slow client does not hold up connects. Fanout
// calls Send from its single worker, which keeps writes to a connection
// serialized.
func (h *Hub) Send(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("dropping feed client", zap.Error(err))
			h.remove(conn)
		}
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.clients, conn)
	}
}
