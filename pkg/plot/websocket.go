package plot

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/chartspec/pkg/logger"
)

const (
	messageTypeSpec  = "spec"
	messageTypeError = "error"
	writeWait        = 10 * time.Second
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// wsClient serializes writes; gorilla connections support one concurrent writer
type wsClient struct {
	sync.Mutex
	conn *websocket.Conn
	pair string
}

func (c *wsClient) send(msg WebSocketMessage) error {
	c.Lock()
	defer c.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// WebSocketManager pushes freshly composed specs to the clients watching a pair
type WebSocketManager struct {
	sync.RWMutex
	clients   map[*wsClient]struct{}
	upgrader  websocket.Upgrader
	updates   chan string
	done      chan struct{}
	closeOnce sync.Once
	compose   func(ctx context.Context, pair string) (Spec, error)
	log       logger.Logger
}

// NewWebSocketManager starts the broadcast loop; compose builds the spec sent for a pair
func NewWebSocketManager(log logger.Logger, compose func(ctx context.Context, pair string) (Spec, error)) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		updates: make(chan string, 100),
		done:    make(chan struct{}),
		compose: compose,
		log:     log,
	}

	go manager.handleBroadcasts()

	return manager
}

// Notify queues a spec refresh for every client of pair. Drops the update when the queue is full.
func (m *WebSocketManager) Notify(pair string) {
	select {
	case <-m.done:
	case m.updates <- pair:
	default:
		m.log.WithField("pair", pair).Warn("websocket update queue full, dropping update")
	}
}

// Close stops broadcasting and disconnects every client
func (m *WebSocketManager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)

		m.Lock()
		for client := range m.clients {
			client.conn.Close()
		}
		m.Unlock()
	})
}

// Clients returns the number of connected clients
func (m *WebSocketManager) Clients() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

func (m *WebSocketManager) watching(pair string) []*wsClient {
	m.RLock()
	defer m.RUnlock()

	clients := make([]*wsClient, 0)
	for client := range m.clients {
		if client.pair == pair {
			clients = append(clients, client)
		}
	}
	return clients
}

func (m *WebSocketManager) handleBroadcasts() {
	for {
		select {
		case <-m.done:
			return
		case pair := <-m.updates:
			clients := m.watching(pair)
			if len(clients) == 0 {
				continue
			}

			msg := m.message(context.Background(), pair)
			for _, client := range clients {
				if err := client.send(msg); err != nil {
					m.log.Error("Error sending WebSocket message: ", err)
					// the reader goroutine unregisters the client
					client.conn.Close()
				}
			}
		}
	}
}

func (m *WebSocketManager) message(ctx context.Context, pair string) WebSocketMessage {
	spec, err := m.compose(ctx, pair)
	if err != nil {
		m.log.WithField("pair", pair).WithError(err).Warn("failed to compose chart")
		return WebSocketMessage{Type: messageTypeError, Payload: err.Error()}
	}
	return WebSocketMessage{Type: messageTypeSpec, Payload: spec}
}

// HandleWebSocket upgrades the request and sends the current spec of the requested pair
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")
	if pair == "" {
		http.Error(w, "Missing pair parameter", http.StatusBadRequest)
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Error("Failed to upgrade connection to WebSocket: ", err)
		return
	}

	client := &wsClient{conn: conn, pair: pair}

	m.Lock()
	m.clients[client] = struct{}{}
	clientCount := len(m.clients)
	m.Unlock()

	m.log.WithField("pair", pair).Infof("WebSocket client connected, total: %d", clientCount)

	if err := client.send(m.message(r.Context(), pair)); err != nil {
		m.log.Error("Error sending initial spec: ", err)
	}

	go m.handleClient(client)
}

// handleClient reads until the client goes away, answering pings
func (m *WebSocketManager) handleClient(client *wsClient) {
	defer func() {
		m.Lock()
		delete(m.clients, client)
		remaining := len(m.clients)
		m.Unlock()

		client.conn.Close()
		m.log.Infof("WebSocket client disconnected, remaining: %d", remaining)
	}()

	client.conn.SetPingHandler(func(appData string) error {
		return client.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.Error("WebSocket read error: ", err)
			}
			return
		}
	}
}
