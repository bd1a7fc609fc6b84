package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"easetest-backend/internal/services"
	"easetest-backend/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type LiveHandler struct {
	live      *services.LiveService
	lifecycle *services.Lifecycle
	hub       *ws.Hub
	logger    *zap.Logger
}

func NewLiveHandler(live *services.LiveService, lifecycle *services.Lifecycle, hub *ws.Hub, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{live: live, lifecycle: lifecycle, hub: hub, logger: logger}
}

// WatchRoom upgrades to a websocket and streams room events to waiting-room
// and spectator views until the client goes away.
func (h *LiveHandler) WatchRoom(c *gin.Context) {
	roomID := c.Param("code")
	if _, err := h.lifecycle.GetRoom(roomID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.AddConnection(roomID, conn)
	defer h.hub.RemoveConnection(roomID, conn)

	// Watchers only listen; the read loop just detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// RequestCapture godoc
// @Summary      Request a local capture stream
// @Description  Screen share placeholder; always fails with the contract error
// @Tags         live
// @Produce      json
// @Param        id path string true "Room code"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      501 {object} ErrorResponse
// @Router       /api/v1/live/rooms/{id}/capture [post]
func (h *LiveHandler) RequestCapture(c *gin.Context) {
	if err := h.live.RequestCapture(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "capture started"})
}
