package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/pageroute/pkg/router"
)

// Hub streams visited-page cache snapshots to WebSocket clients.
type Hub struct {
	cache        *router.PageCache
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	logger       *slog.Logger

	// onConnect and onDisconnect observe client counts.
	onConnect    func()
	onDisconnect func()

	mu      sync.RWMutex
	clients map[*websocket.Conn]context.CancelFunc
}

// NewHub creates a hub streaming cache.
func NewHub(cache *router.PageCache, config *Config, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		cache: cache,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		writeTimeout: config.WriteTimeout,
		logger:       logger,
		clients:      make(map[*websocket.Conn]context.CancelFunc),
	}
}

// HandleWebSocket upgrades the request and sends the current snapshot
// followed by every later one until the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("stream upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.add(conn, cancel)
	defer h.remove(conn)

	// Reads only detect the client closing.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for pages := range h.cache.Stream().Watch(ctx) {
		data, err := json.Marshal(pages)
		if err != nil {
			h.logger.Error("encode snapshot", "error", err)
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			cancel()
		}
	}
}

func (h *Hub) add(conn *websocket.Conn, cancel context.CancelFunc) {
	h.mu.Lock()
	h.clients[conn] = cancel
	h.mu.Unlock()

	if h.onConnect != nil {
		h.onConnect()
	}
	h.logger.Debug("stream client connected", "remote", conn.RemoteAddr().String())
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	cancel, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()

	if !ok {
		return
	}
	cancel()
	conn.Close()
	if h.onDisconnect != nil {
		h.onDisconnect()
	}
	h.logger.Debug("stream client disconnected", "remote", conn.RemoteAddr().String())
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(time.Second))
		h.remove(conn)
	}
}
