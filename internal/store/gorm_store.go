package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"easetest-backend/internal/models"
)

const roomsKey = "rooms"

func participantKey(roomID string) string { return "participant_" + roomID }
func answersKey(roomID string) string     { return "answers_" + roomID }

// Record is one persisted key-value entry. The whole room collection lives
// under a single key; participant and answer-set records are keyed by a
// fixed prefix plus the room id.
type Record struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// GormStore persists records in a local SQLite database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateRoom(room models.Room) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		rooms, err := loadRooms(tx)
		if err != nil {
			return err
		}
		for _, existing := range rooms {
			if existing.ID == room.ID {
				return ErrDuplicateID
			}
		}
		rooms = append(rooms, room)
		return putJSON(tx, roomsKey, rooms)
	})
}

func (s *GormStore) GetRoom(id string) (models.Room, error) {
	rooms, err := loadRooms(s.db)
	if err != nil {
		return models.Room{}, err
	}
	for _, room := range rooms {
		if room.ID == id {
			return room.Clone(), nil
		}
	}
	return models.Room{}, ErrNotFound
}

func (s *GormStore) ListRooms() ([]models.Room, error) {
	rooms, err := loadRooms(s.db)
	if err != nil {
		return nil, err
	}
	out := make([]models.Room, len(rooms))
	for i, room := range rooms {
		out[i] = room.Clone()
	}
	return out, nil
}

func (s *GormStore) SaveParticipant(roomID string, p models.Participant) error {
	return putJSON(s.db, participantKey(roomID), p)
}

func (s *GormStore) GetParticipant(roomID string) (models.Participant, error) {
	var p models.Participant
	if err := getJSON(s.db, participantKey(roomID), &p); err != nil {
		return models.Participant{}, err
	}
	if p.Name == "" {
		return models.Participant{}, fmt.Errorf("%w: participant without a name", ErrDecode)
	}
	return p, nil
}

func (s *GormStore) SaveAnswers(roomID string, answers models.AnswerSet) error {
	return putJSON(s.db, answersKey(roomID), answers)
}

func (s *GormStore) GetAnswers(roomID string) (models.AnswerSet, error) {
	var answers models.AnswerSet
	if err := getJSON(s.db, answersKey(roomID), &answers); err != nil {
		return nil, err
	}
	for id, a := range answers {
		if a.QuestionID != id {
			return nil, fmt.Errorf("%w: answer keyed by %q carries question id %q", ErrDecode, id, a.QuestionID)
		}
	}
	return answers, nil
}

// loadRooms decodes and validates the room collection. A missing record is
// an empty collection, not an error.
func loadRooms(db *gorm.DB) ([]models.Room, error) {
	var rooms []models.Room
	err := getJSON(db, roomsKey, &rooms)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if rooms[i].ID == "" {
			return nil, fmt.Errorf("%w: room without an id", ErrDecode)
		}
		for j := range rooms[i].Questions {
			if err := rooms[i].Questions[j].Validate(); err != nil {
				return nil, fmt.Errorf("%w: room %s: %v", ErrDecode, rooms[i].ID, err)
			}
		}
	}
	return rooms, nil
}

func putJSON(db *gorm.DB, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	rec := Record{Key: key, Value: string(data), UpdatedAt: time.Now()}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}

func getJSON(db *gorm.DB, key string, out any) error {
	var rec Record
	if err := db.First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal([]byte(rec.Value), out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	return nil
}
