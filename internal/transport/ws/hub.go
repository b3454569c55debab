package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// sendQueueSize bounds each connection's outbound queue. A slow consumer
// loses its oldest pending snapshot instead of growing the queue without
// limit; the 1 Hz redundant broadcast repairs anything dropped.
const sendQueueSize = 64

// Hub tracks live WebSocket connections by connection ID and delivers
// events to individual connections. It implements service.Broadcaster.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Connection

	log *zap.SugaredLogger
}

// Connection represents one player connection.
type Connection struct {
	ID   string
	Send chan []byte

	closeOnce sync.Once
}

// NewHub creates a new hub.
func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		conns: make(map[string]*Connection),
		log:   log,
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.mu.Unlock()
	h.log.Infof("connection %s registered", conn.ID)
}

// Unregister removes a connection and closes its send queue.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	existing, ok := h.conns[conn.ID]
	if ok && existing == conn {
		delete(h.conns, conn.ID)
		conn.closeOnce.Do(func() { close(conn.Send) })
	}
	h.mu.Unlock()
	if ok && existing == conn {
		h.log.Infof("connection %s unregistered", conn.ID)
	}
}

// Send delivers one event to one connection (implements
// service.Broadcaster). Unknown connection IDs are dropped silently: a
// timer may legitimately fire while its target is mid-disconnect.
func (h *Hub) Send(connID string, event string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.Errorf("failed to marshal %s payload: %v", event, err)
		return
	}
	data, err := json.Marshal(&Message{Type: event, Payload: raw})
	if err != nil {
		h.log.Errorf("failed to marshal %s envelope: %v", event, err)
		return
	}

	// Enqueue while holding the read lock: Unregister closes the send
	// queue under the write lock, so an in-flight enqueue can never hit a
	// closed channel.
	h.mu.RLock()
	defer h.mu.RUnlock()
	conn, ok := h.conns[connID]
	if !ok {
		return
	}
	conn.enqueue(data)
}

// enqueue appends to the send queue, dropping the oldest pending message
// when full.
func (c *Connection) enqueue(data []byte) {
	select {
	case c.Send <- data:
		return
	default:
	}
	select {
	case <-c.Send:
	default:
	}
	select {
	case c.Send <- data:
	default:
	}
}
