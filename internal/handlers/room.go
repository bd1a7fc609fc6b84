package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"easetest-backend/internal/models"
	"easetest-backend/internal/services"
	"easetest-backend/internal/ws"
)

type RoomHandler struct {
	lifecycle *services.Lifecycle
	hub       *ws.Hub
}

func NewRoomHandler(lifecycle *services.Lifecycle, hub *ws.Hub) *RoomHandler {
	return &RoomHandler{lifecycle: lifecycle, hub: hub}
}

type CreateRoomRequest struct {
	Title           string            `json:"title" binding:"required,min=1,max=255" example:"Frontend Assessment"`
	Description     string            `json:"description" binding:"required" example:"React and CSS fundamentals"`
	Date            string            `json:"date" example:"2026-09-01"`
	StartTime       string            `json:"start_time" example:"14:00"`
	Duration        int               `json:"duration" example:"60"`
	MaxParticipants int               `json:"max_participants" example:"10"`
	IsLive          bool              `json:"is_live" example:"true"`
	AllowGuests     bool              `json:"allow_guests" example:"false"`
	Questions       []models.Question `json:"questions"`
}

// CreateRoom godoc
// @Summary      Create an assessment room
// @Description  Publish a room definition and get back its shareable code
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body CreateRoomRequest true "Room definition"
// @Success      201 {object} Room
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.lifecycle.CreateRoom(services.CreateRoomInput{
		Title:       req.Title,
		Description: req.Description,
		Schedule: models.Schedule{
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: req.Duration,
		},
		MaxParticipants: req.MaxParticipants,
		IsLive:          req.IsLive,
		AllowGuests:     req.AllowGuests,
		Questions:       req.Questions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms godoc
// @Summary      List rooms
// @Description  All rooms on this device, in creation order
// @Tags         rooms
// @Produce      json
// @Success      200 {array} Room
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.lifecycle.ListRooms()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom godoc
// @Summary      Get a room by code
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room code"
// @Success      200 {object} Room
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.lifecycle.GetRoom(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// GetRoomParticipant godoc
// @Summary      Get the participant recorded for a room
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room code"
// @Success      200 {object} Participant
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/participant [get]
func (h *RoomHandler) GetRoomParticipant(c *gin.Context) {
	p, err := h.lifecycle.ParticipantForRoom(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetRoomAnswers godoc
// @Summary      Get the submitted answer set for a room
// @Description  Reader side of the scorecard view
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room code"
// @Success      200 {object} map[string]models.Answer
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/answers [get]
func (h *RoomHandler) GetRoomAnswers(c *gin.Context) {
	answers, err := h.lifecycle.AnswersForRoom(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}
