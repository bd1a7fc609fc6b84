package store

import (
	"errors"

	"easetest-backend/internal/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("room id already exists")
	ErrDecode      = errors.New("malformed stored record")
)

// Store is the device-local persistence boundary for rooms, participants and
// answer sets. Implementations validate records on the way out and surface
// ErrDecode rather than returning a malformed shape. All reads return fresh
// snapshots; callers never hold a mutable copy of stored state.
type Store interface {
	CreateRoom(room models.Room) error
	GetRoom(id string) (models.Room, error)
	ListRooms() ([]models.Room, error)

	SaveParticipant(roomID string, p models.Participant) error
	GetParticipant(roomID string) (models.Participant, error)

	SaveAnswers(roomID string, answers models.AnswerSet) error
	GetAnswers(roomID string) (models.AnswerSet, error)
}
