package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is the wire envelope pushed to waiting-room and spectator views.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans room events out to every socket watching a room code.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*websocket.Conn]bool
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*websocket.Conn]bool),
		logger: logger,
	}
}

func (h *Hub) AddConnection(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[roomID][conn] = true
	h.logger.Info("watcher connected",
		zap.String("room_id", roomID),
		zap.Int("total", len(h.rooms[roomID])),
	)
}

func (h *Hub) RemoveConnection(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
		h.logger.Info("watcher disconnected", zap.String("room_id", roomID))
	}
}

// Broadcast writes the event to every watcher of the room, evicting
// connections whose writes fail.
func (h *Hub) Broadcast(roomID string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal event", zap.Error(err))
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("drop watcher", zap.String("room_id", roomID), zap.Error(err))
			conn.Close()
			delete(conns, conn)
		}
	}
}
