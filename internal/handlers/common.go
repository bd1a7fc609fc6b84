package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"easetest-backend/internal/models"
	"easetest-backend/internal/services"
	"easetest-backend/internal/store"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Room = models.Room
type Question = models.Question
type Participant = models.Participant
type AttemptState = services.AttemptState
type Draft = services.Draft

// respondError maps the service and store sentinels onto HTTP statuses.
// Every error here is recoverable; the client can retry the action.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrAttemptNotFound),
		errors.Is(err, services.ErrDraftNotFound),
		errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateID):
		status = http.StatusConflict
	case errors.Is(err, services.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotSupported):
		status = http.StatusNotImplemented
	case errors.Is(err, store.ErrDecode):
		status = http.StatusInternalServerError
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
