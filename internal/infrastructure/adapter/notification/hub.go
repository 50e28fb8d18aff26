package notification

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Envelope is the frame pushed to clients
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type client struct {
	id        string
	accountID uuid.UUID
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
}

// Hub owns the websocket connections of logged-in accounts and implements
// notification.Notifier on top of a PresenceRegistry
type Hub struct {
	registry notification.PresenceRegistry
	logger   coreport.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

var _ notification.Notifier = (*Hub)(nil)

// NewHub creates a hub backed by registry
func NewHub(registry notification.PresenceRegistry, logger coreport.Logger) *Hub {
	return &Hub{
		registry: registry,
		logger:   logger,
		clients:  make(map[string]*client),
	}
}

// Serve attaches conn to accountID and blocks until the connection closes
func (h *Hub) Serve(accountID uuid.UUID, conn *websocket.Conn) {
	c := &client{
		id:        uuid.NewString(),
		accountID: accountID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.registry.Register(accountID, c.id)

	h.logger.Debug("Realtime connection opened", map[string]any{
		"account_id": accountID.String(),
		"conn_id":    c.id,
	})

	go h.writePump(c)
	h.readPump(c)

	h.registry.Unregister(c.id)
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	close(c.done)

	h.logger.Debug("Realtime connection closed", map[string]any{
		"account_id": accountID.String(),
		"conn_id":    c.id,
	})
}

// Notify queues event for every live connection of accountID. A connection
// whose buffer is full misses the event.
func (h *Hub) Notify(accountID uuid.UUID, event string, payload any) error {
	connIDs := h.registry.Connections(accountID)
	if len(connIDs) == 0 {
		return nil
	}

	frame, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, id := range connIDs {
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case c.send <- frame:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		return fmt.Errorf("%s event dropped for %d of %d connections", event, dropped, len(connIDs))
	}
	return nil
}

// ConnectionCount returns the number of live connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close asks every live connection to close
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = c.conn.Close()
	}
}

// readPump discards client frames and keeps the connection alive via pongs
func (h *Hub) readPump(c *client) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Realtime connection read failed", map[string]any{
					"conn_id": c.id,
					"error":   err.Error(),
				})
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
