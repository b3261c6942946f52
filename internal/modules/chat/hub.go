package chat

import (
	"sync"

	"github.com/gorilla/websocket"

	"stayhaven/internal/domain"
)

// Event is the envelope pushed to connected chat clients.
type Event struct {
	Type    string              `json:"type"`
	Message *domain.ChatMessage `json:"message,omitempty"`
}

func newMessageEvent(m *domain.ChatMessage) Event {
	return Event{Type: "new_message", Message: m}
}

// Hub tracks at most one live socket per user.
type Hub struct {
	mu    sync.Mutex
	conns map[int64]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[int64]*websocket.Conn),
	}
}

// Attach binds the connection to the user, closing any previous one.
func (h *Hub) Attach(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	old := h.conns[userID]
	h.conns[userID] = conn
	h.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
}

// Detach removes the user's connection only if it is still the given one.
// A reconnect's cleanup of its replaced socket must not drop the new session.
func (h *Hub) Detach(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	if h.conns[userID] == conn {
		delete(h.conns, userID)
	}
	h.mu.Unlock()

	_ = conn.Close()
}

// Push delivers the event to the user if they are connected. A failed write
// tears the connection down; the client is expected to reconnect.
func (h *Hub) Push(userID int64, ev Event) bool {
	h.mu.Lock()
	conn := h.conns[userID]
	h.mu.Unlock()

	if conn == nil {
		return false
	}
	if err := conn.WriteJSON(ev); err != nil {
		h.Detach(userID, conn)
		return false
	}
	return true
}

func (h *Hub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[int64]*websocket.Conn)
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}
