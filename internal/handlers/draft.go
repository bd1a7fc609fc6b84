package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"easetest-backend/internal/models"
	"easetest-backend/internal/services"
)

type DraftHandler struct {
	authoring *services.AuthoringService
	lifecycle *services.Lifecycle
}

func NewDraftHandler(authoring *services.AuthoringService, lifecycle *services.Lifecycle) *DraftHandler {
	return &DraftHandler{authoring: authoring, lifecycle: lifecycle}
}

type DraftInfoRequest struct {
	Title           string `json:"title" example:"Frontend Assessment"`
	Description     string `json:"description" example:"React and CSS fundamentals"`
	Date            string `json:"date" example:"2026-09-01"`
	StartTime       string `json:"start_time" example:"14:00"`
	Duration        int    `json:"duration" example:"60"`
	MaxParticipants int    `json:"max_participants" example:"10"`
	IsLive          bool   `json:"is_live"`
	AllowGuests     bool   `json:"allow_guests"`
}

type SetKindRequest struct {
	Kind models.Kind `json:"kind" binding:"required" example:"multi-choice"`
}

type OptionRequest struct {
	Value string `json:"value"`
}

type ToggleCorrectRequest struct {
	Option string `json:"option" binding:"required" example:"B"`
}

// CreateDraft godoc
// @Summary      Open a new room draft
// @Tags         drafts
// @Produce      json
// @Success      201 {object} Draft
// @Router       /api/v1/drafts [post]
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	c.JSON(http.StatusCreated, h.authoring.CreateDraft())
}

// GetDraft godoc
// @Summary      Get a draft
// @Tags         drafts
// @Produce      json
// @Param        id path string true "Draft id"
// @Success      200 {object} Draft
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id} [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	draft, err := h.authoring.GetDraft(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// UpdateInfo godoc
// @Summary      Update draft metadata
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id path string true "Draft id"
// @Param        request body DraftInfoRequest true "Basic info"
// @Success      200 {object} Draft
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id} [put]
func (h *DraftHandler) UpdateInfo(c *gin.Context) {
	var req DraftInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	draft, err := h.authoring.Mutate(c.Param("id"), func(d *services.Draft) error {
		d.Title = req.Title
		d.Description = req.Description
		d.Schedule = models.Schedule{
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: req.Duration,
		}
		d.MaxParticipants = req.MaxParticipants
		d.IsLive = req.IsLive
		d.AllowGuests = req.AllowGuests
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// AddQuestion godoc
// @Summary      Append a question to a draft
// @Description  Blank prompts are silently dropped, matching the editor
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id path string true "Draft id"
// @Param        request body Question true "Question"
// @Success      200 {object} Draft
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions [post]
func (h *DraftHandler) AddQuestion(c *gin.Context) {
	var q models.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	draft, err := h.authoring.Mutate(c.Param("id"), func(d *services.Draft) error {
		d.AddQuestion(q)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// UpdateQuestion godoc
// @Summary      Replace the question at an index
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id path string true "Draft id"
// @Param        index path int true "Question index"
// @Param        request body Question true "Question"
// @Success      200 {object} Draft
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions/{index} [put]
func (h *DraftHandler) UpdateQuestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question index"})
		return
	}

	var q models.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	draft, err := h.authoring.Mutate(c.Param("id"), func(d *services.Draft) error {
		return d.UpdateQuestion(index, q)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// RemoveQuestion godoc
// @Summary      Remove the question at an index
// @Tags         drafts
// @Produce      json
// @Param        id path string true "Draft id"
// @Param        index path int true "Question index"
// @Success      200 {object} Draft
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions/{index} [delete]
func (h *DraftHandler) RemoveQuestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question index"})
		return
	}

	draft, err := h.authoring.Mutate(c.Param("id"), func(d *services.Draft) error {
		return d.RemoveQuestion(index)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SetKind godoc
// @Summary      Change a question's kind
// @Description  Resets options, correct answers and language to the kind defaults
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id path string true "Draft id"
// @Param        index path int true "Question index"
// @Param        request body SetKindRequest true "New kind"
// @Success      200 {object} Draft
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions/{index}/kind [put]
func (h *DraftHandler) SetKind(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question index"})
		return
	}

	var req SetKindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	draft, err := h.authoring.Mutate(c.Param("id"), func(d *services.Draft) error {
		return d.SetKind(index, req.Kind)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// AddOption godoc
// @Summary      Append an empty option to a choice question
// @Tags         drafts
// @Produce      json
// @Param        id path string true "Draft id"
// @Param        index path int true "Question index"
// @Success      200 {object} Draft
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions/{index}/options [post]
func (h *DraftHandler) AddOption(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question index"})
		return
	}

	draft, err := h.authoring.Mutate(c.Param("id"), func(d *services.Draft) error {
		return d.AddOption(index)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// UpdateOption godoc
// @Summary      Set an option's text
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id path string true "Draft id"
// @Param        index path int true "Question index"
// @Param        option path int true "Option index"
// @Param        request body OptionRequest true "Option text"
// @Success      200 {object} Draft
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions/{index}/options/{option} [put]
func (h *DraftHandler) UpdateOption(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question index"})
		return
	}
	optionIndex, err := strconv.Atoi(c.Param("option"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid option index"})
		return
	}

	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	draft, err := h.authoring.Mutate(c.Param("id"), func(d *services.Draft) error {
		return d.UpdateOption(index, optionIndex, req.Value)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// RemoveOption godoc
// @Summary      Remove an option
// @Description  Correct-answer entries referencing the option are dropped with it
// @Tags         drafts
// @Produce      json
// @Param        id path string true "Draft id"
// @Param        index path int true "Question index"
// @Param        option path int true "Option index"
// @Success      200 {object} Draft
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions/{index}/options/{option} [delete]
func (h *DraftHandler) RemoveOption(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question index"})
		return
	}
	optionIndex, err := strconv.Atoi(c.Param("option"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid option index"})
		return
	}

	draft, err := h.authoring.Mutate(c.Param("id"), func(d *services.Draft) error {
		return d.RemoveOption(index, optionIndex)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ToggleCorrect godoc
// @Summary      Toggle an option's correctness
// @Description  Single-choice replaces the set; multi-choice toggles membership
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id path string true "Draft id"
// @Param        index path int true "Question index"
// @Param        request body ToggleCorrectRequest true "Option value"
// @Success      200 {object} Draft
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions/{index}/correct [put]
func (h *DraftHandler) ToggleCorrect(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question index"})
		return
	}

	var req ToggleCorrectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	draft, err := h.authoring.Mutate(c.Param("id"), func(d *services.Draft) error {
		return d.ToggleCorrect(index, req.Option)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Publish godoc
// @Summary      Publish a draft as a room
// @Description  Creates the room, assigns its shareable code and discards the draft
// @Tags         drafts
// @Produce      json
// @Param        id path string true "Draft id"
// @Success      201 {object} Room
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/publish [post]
func (h *DraftHandler) Publish(c *gin.Context) {
	draft, err := h.authoring.GetDraft(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	room, err := h.lifecycle.CreateRoom(services.CreateRoomInput{
		Title:           draft.Title,
		Description:     draft.Description,
		Schedule:        draft.Schedule,
		MaxParticipants: draft.MaxParticipants,
		IsLive:          draft.IsLive,
		AllowGuests:     draft.AllowGuests,
		Questions:       draft.Questions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.authoring.Discard(draft.ID)
	c.JSON(http.StatusCreated, room)
}
