package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"easetest-backend/internal/services"
	"easetest-backend/internal/ws"
)

type PlayHandler struct {
	lifecycle *services.Lifecycle
	runner    *services.RunnerService
	hub       *ws.Hub
}

func NewPlayHandler(lifecycle *services.Lifecycle, runner *services.RunnerService, hub *ws.Hub) *PlayHandler {
	return &PlayHandler{lifecycle: lifecycle, runner: runner, hub: hub}
}

type JoinRequest struct {
	Code string `json:"code" binding:"required" example:"K3X9QB"`
	Name string `json:"name" binding:"required,min=1,max=100" example:"Ada"`
}

type NavigateRequest struct {
	// Direction is "prev" or "next"; Index jumps when Direction is empty.
	Direction string `json:"direction" example:"next"`
	Index     *int   `json:"index"`
}

type AnswerRequest struct {
	QuestionID string   `json:"question_id" binding:"required" example:"1"`
	Values     []string `json:"values" binding:"required"`
}

type RunRequest struct {
	QuestionID string `json:"question_id" binding:"required" example:"3"`
	Text       string `json:"text"`
}

type ChangeRequest struct {
	QuestionID string `json:"question_id" binding:"required" example:"3"`
	Text       string `json:"text"`
}

// Join godoc
// @Summary      Join a room by code
// @Description  Records the participant and opens a waiting attempt
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        request body JoinRequest true "Room code and display name"
// @Success      200 {object} AttemptState
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/join [post]
func (h *PlayHandler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	attempt, err := h.lifecycle.Join(req.Code, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	state, err := h.lifecycle.State(attempt.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(state.RoomID, ws.Event{Type: "participant_joined", Data: state.Participant})

	c.JSON(http.StatusOK, state)
}

// Start godoc
// @Summary      Start answering
// @Description  Moves the attempt from waiting to answering and arms the countdown
// @Tags         play
// @Produce      json
// @Param        id path string true "Attempt id"
// @Success      200 {object} AttemptState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/attempts/{id}/start [post]
func (h *PlayHandler) Start(c *gin.Context) {
	state, err := h.lifecycle.Start(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(state.RoomID, ws.Event{Type: "attempt_started", Data: gin.H{"attempt_id": state.ID}})

	c.JSON(http.StatusOK, state)
}

// State godoc
// @Summary      Current attempt state
// @Tags         play
// @Produce      json
// @Param        id path string true "Attempt id"
// @Success      200 {object} AttemptState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/attempts/{id} [get]
func (h *PlayHandler) State(c *gin.Context) {
	state, err := h.lifecycle.State(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Navigate godoc
// @Summary      Move between questions
// @Description  Prev/next or jump to an index, clamped to the question range
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        id path string true "Attempt id"
// @Param        request body NavigateRequest true "Direction or index"
// @Success      200 {object} AttemptState
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/attempts/{id}/navigate [post]
func (h *PlayHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var (
		state services.AttemptState
		err   error
	)
	switch {
	case req.Direction == "prev":
		state, err = h.lifecycle.Navigate(c.Param("id"), -1)
	case req.Direction == "next":
		state, err = h.lifecycle.Navigate(c.Param("id"), 1)
	case req.Index != nil:
		state, err = h.lifecycle.Goto(c.Param("id"), *req.Index)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "direction or index required"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Answer godoc
// @Summary      Record an answer
// @Description  Last write per question wins
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        id path string true "Attempt id"
// @Param        request body AnswerRequest true "Question id and values"
// @Success      200 {object} AttemptState
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/attempts/{id}/answer [post]
func (h *PlayHandler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.lifecycle.RecordAnswer(c.Param("id"), req.QuestionID, req.Values)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Submit godoc
// @Summary      Submit the attempt
// @Description  Requires one answer per question; persists the answer set
// @Tags         play
// @Produce      json
// @Param        id path string true "Attempt id"
// @Success      200 {object} AttemptState
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/attempts/{id}/submit [post]
func (h *PlayHandler) Submit(c *gin.Context) {
	state, err := h.lifecycle.Submit(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(state.RoomID, ws.Event{Type: "attempt_submitted", Data: gin.H{"attempt_id": state.ID}})

	c.JSON(http.StatusOK, state)
}

// Cancel godoc
// @Summary      Tear down an attempt
// @Description  Stops the countdown without submitting
// @Tags         play
// @Produce      json
// @Param        id path string true "Attempt id"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/attempts/{id} [delete]
func (h *PlayHandler) Cancel(c *gin.Context) {
	if err := h.lifecycle.Cancel(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "attempt cancelled"})
}

// Score godoc
// @Summary      Scorecard stub
// @Description  No grading happens on this device; reports progress only
// @Tags         play
// @Produce      json
// @Param        id path string true "Attempt id"
// @Success      200 {object} services.ScoreCard
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/attempts/{id}/score [get]
func (h *PlayHandler) Score(c *gin.Context) {
	card, err := h.lifecycle.Score(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Run godoc
// @Summary      Run a code buffer
// @Description  Code-widget run contract: captures the text as the answer and acknowledges
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        id path string true "Attempt id"
// @Param        request body RunRequest true "Question id and buffer text"
// @Success      200 {object} services.RunReceipt
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/attempts/{id}/run [post]
func (h *PlayHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	receipt, err := h.runner.Run(c.Param("id"), req.QuestionID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// Change godoc
// @Summary      Record a code buffer edit
// @Description  Code-widget on-change contract: captures the text as the answer, no receipt
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        id path string true "Attempt id"
// @Param        request body ChangeRequest true "Question id and buffer text"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/attempts/{id}/change [post]
func (h *PlayHandler) Change(c *gin.Context) {
	var req ChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.runner.Change(c.Param("id"), req.QuestionID, req.Text); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "change recorded"})
}
