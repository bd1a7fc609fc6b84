package store

import (
	"sync"

	"easetest-backend/internal/models"
)

// MemoryStore keeps all records in process memory. It backs tests and
// ephemeral runs; semantics match GormStore.
type MemoryStore struct {
	mu           sync.RWMutex
	rooms        []models.Room
	participants map[string]models.Participant
	answers      map[string]models.AnswerSet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		participants: make(map[string]models.Participant),
		answers:      make(map[string]models.AnswerSet),
	}
}

func (s *MemoryStore) CreateRoom(room models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rooms {
		if existing.ID == room.ID {
			return ErrDuplicateID
		}
	}
	s.rooms = append(s.rooms, room.Clone())
	return nil
}

func (s *MemoryStore) GetRoom(id string) (models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, room := range s.rooms {
		if room.ID == id {
			return room.Clone(), nil
		}
	}
	return models.Room{}, ErrNotFound
}

func (s *MemoryStore) ListRooms() ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Room, len(s.rooms))
	for i, room := range s.rooms {
		out[i] = room.Clone()
	}
	return out, nil
}

func (s *MemoryStore) SaveParticipant(roomID string, p models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[roomID] = p
	return nil
}

func (s *MemoryStore) GetParticipant(roomID string) (models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[roomID]
	if !ok {
		return models.Participant{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) SaveAnswers(roomID string, answers models.AnswerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[roomID] = answers.Clone()
	return nil
}

func (s *MemoryStore) GetAnswers(roomID string) (models.AnswerSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers, ok := s.answers[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return answers.Clone(), nil
}
