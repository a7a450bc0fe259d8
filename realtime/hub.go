package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/projectflow/utils"
)

// Event types
const (
	EventNotification = "notification"
	EventUnreadCount  = "unread_count"
	EventStatusSweep  = "status_sweep"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks open websocket connections per user. A user may hold several
// connections (one per browser tab).
type Hub struct {
	clients map[uint]map[*websocket.Conn]struct{}
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*websocket.Conn]struct{})}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	conns, ok := h.clients[userID]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.clients[userID] = conns
	}
	conns[conn] = struct{}{}
}

func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(userID, conn)
}

// remove must be called with the mutex held.
func (h *Hub) remove(userID uint, conn *websocket.Conn) {
	conns, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
	conn.Close()
}

// Online reports whether the user has at least one open connection.
func (h *Hub) Online(userID uint) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[userID]) > 0
}

// Push sends one event to every connection of a user. Users without a
// connection are skipped silently.
func (h *Hub) Push(userID uint, event string, data interface{}) {
	h.SendToUser(userID, Message{Event: event, Data: data})
}

func (h *Hub) SendToUser(userID uint, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to user %d: %v", msg.Event, userID, err)
			h.remove(userID, conn)
		}
	}
}

// Broadcast sends a message to every connected user.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for userID, conns := range h.clients {
		for conn := range conns {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				utils.ErrorLogger.Printf("Error broadcasting %s to user %d: %v", msg.Event, userID, err)
				h.remove(userID, conn)
			}
		}
	}
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for userID, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		delete(h.clients, userID)
	}
}
