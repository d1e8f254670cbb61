// Package realtime pushes upload status changes to connected dealers over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"stressorleads/internal/domain/upload"
	"stressorleads/internal/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 32
)

const EventUploadFinished = "upload.finished"

// Event is a message pushed to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type connection struct {
	dealerID int64
	conn     *websocket.Conn
	send     chan []byte
}

// Hub tracks every open connection per dealer. A dealer may have several.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]map[*connection]struct{}
	log         *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		connections: make(map[int64]map[*connection]struct{}),
		log:         log,
	}
}

// UploadFinished sends the final upload record to its dealer.
func (h *Hub) UploadFinished(ctx context.Context, u *upload.Upload) {
	h.Publish(u.DealerID, &Event{Type: EventUploadFinished, Payload: u})
}

// Publish delivers event to all connections of dealerID. Slow clients miss it.
func (h *Hub) Publish(dealerID int64, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("failed to encode websocket event", "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections[dealerID] {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Connections reports how many sockets dealerID has open.
func (h *Hub) Connections(dealerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[dealerID])
}

// Serve runs an upgraded connection until the client goes away.
func (h *Hub) Serve(conn *websocket.Conn, dealerID int64) {
	c := &connection{
		dealerID: dealerID,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.dealerID]
	if !ok {
		set = make(map[*connection]struct{})
		h.connections[c.dealerID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.connections[c.dealerID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.connections, c.dealerID)
	}
	close(c.send)
}

// readPump only handles control frames; clients have nothing to say.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// NewUpgrader accepts requests without an Origin header and those whose origin is listed.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		},
	}
}
