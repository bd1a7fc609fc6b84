package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"easetest-backend/internal/models"
	"easetest-backend/internal/store"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrRoomNotFound      = errors.New("room not found")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrIncompleteAnswers = errors.New("answer set is incomplete")
	ErrNotAnswering      = errors.New("attempt is not accepting answers")
	ErrAlreadySubmitted  = errors.New("attempt already submitted")
)

const (
	AttemptStatusWaiting   = "waiting"
	AttemptStatusAnswering = "answering"
	AttemptStatusSubmitted = "submitted"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const codeLength = 6

// Attempt is one participant's run through a room: waiting, then answering
// under a countdown, then submitted. Submitted is terminal; the answer set
// cannot change afterwards.
type Attempt struct {
	ID          string
	Room        models.Room
	Participant models.Participant

	Status       string
	CurrentIndex int
	Answers      models.AnswerSet

	Deadline time.Time
	timer    *time.Timer

	mu sync.Mutex
}

// AttemptState is the snapshot handed to the answering view.
type AttemptState struct {
	ID               string             `json:"id"`
	RoomID           string             `json:"room_id"`
	Participant      models.Participant `json:"participant"`
	Status           string             `json:"status"`
	CurrentIndex     int                `json:"current_index"`
	CurrentQuestion  *models.Question   `json:"current_question,omitempty"`
	TotalQuestions   int                `json:"total_questions"`
	AnsweredCount    int                `json:"answered_count"`
	RemainingSeconds int                `json:"remaining_seconds"`
}

// ScoreCard is the scoring stub: no grading happens on this device, so it
// only reports submission progress.
type ScoreCard struct {
	RoomID        string `json:"room_id"`
	Participant   string `json:"participant"`
	Status        string `json:"status"`
	AnsweredCount int    `json:"answered_count"`
	TotalCount    int    `json:"total_count"`
	Pending       bool   `json:"pending"`
}

type CreateRoomInput struct {
	Title           string
	Description     string
	Schedule        models.Schedule
	MaxParticipants int
	IsLive          bool
	AllowGuests     bool
	Questions       []models.Question
}

// Lifecycle sequences rooms from authoring through submission. Rooms,
// participants and answer sets go through the injected store; attempts are
// in-memory per process.
type Lifecycle struct {
	store  store.Store
	logger *zap.Logger

	mu       sync.RWMutex
	attempts map[string]*Attempt
}

func NewLifecycle(st store.Store, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		store:    st,
		logger:   logger,
		attempts: make(map[string]*Attempt),
	}
}

// CreateRoom validates the definition, assigns a shareable code and persists
// the room. This is the authoring-to-published transition; the room is
// immutable from here on.
func (s *Lifecycle) CreateRoom(input CreateRoomInput) (models.Room, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Room{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return models.Room{}, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if input.Schedule.DurationMinutes <= 0 {
		return models.Room{}, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	if len(input.Questions) == 0 {
		return models.Room{}, fmt.Errorf("%w: at least one question is required", ErrValidation)
	}
	for i := range input.Questions {
		if err := input.Questions[i].Validate(); err != nil {
			return models.Room{}, fmt.Errorf("%w: question %d: %v", ErrValidation, i+1, err)
		}
	}

	id, err := s.generateRoomID()
	if err != nil {
		return models.Room{}, err
	}

	room := models.Room{
		ID:              id,
		Title:           input.Title,
		Description:     input.Description,
		Schedule:        input.Schedule,
		MaxParticipants: input.MaxParticipants,
		IsLive:          input.IsLive,
		AllowGuests:     input.AllowGuests,
		Questions:       input.Questions,
		CreatedAt:       time.Now(),
	}
	if err := s.store.CreateRoom(room); err != nil {
		return models.Room{}, err
	}

	s.logger.Info("room published",
		zap.String("room_id", room.ID),
		zap.Int("questions", len(room.Questions)),
	)
	return room, nil
}

func (s *Lifecycle) GetRoom(id string) (models.Room, error) {
	room, err := s.store.GetRoom(id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Room{}, ErrRoomNotFound
	}
	return room, err
}

func (s *Lifecycle) ListRooms() ([]models.Room, error) {
	return s.store.ListRooms()
}

// ParticipantForRoom returns the joiner recorded for a room on this device.
func (s *Lifecycle) ParticipantForRoom(roomID string) (models.Participant, error) {
	return s.store.GetParticipant(roomID)
}

// AnswersForRoom returns the persisted answer set; the scorecard view reads
// through this.
func (s *Lifecycle) AnswersForRoom(roomID string) (models.AnswerSet, error) {
	return s.store.GetAnswers(roomID)
}

// Join matches a room code to a stored room, persists the participant
// (overwriting any earlier joiner on this device) and opens a waiting
// attempt. Codes are matched case-insensitively.
func (s *Lifecycle) Join(code, name string) (*Attempt, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	room, err := s.store.GetRoom(code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	participant := models.Participant{
		ID:       uuid.NewString(),
		Name:     name,
		JoinedAt: time.Now(),
	}
	if err := s.store.SaveParticipant(room.ID, participant); err != nil {
		return nil, err
	}

	attempt := &Attempt{
		ID:          uuid.NewString(),
		Room:        room,
		Participant: participant,
		Status:      AttemptStatusWaiting,
		Answers:     make(models.AnswerSet),
	}

	s.mu.Lock()
	s.attempts[attempt.ID] = attempt
	s.mu.Unlock()

	s.logger.Info("participant joined",
		zap.String("room_id", room.ID),
		zap.String("attempt_id", attempt.ID),
	)
	return attempt, nil
}

// Start moves a waiting attempt into answering and arms the countdown.
// Nothing gates this transition; there is no host signal in this scope.
func (s *Lifecycle) Start(attemptID string) (AttemptState, error) {
	attempt, err := s.attempt(attemptID)
	if err != nil {
		return AttemptState{}, err
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	switch attempt.Status {
	case AttemptStatusSubmitted:
		return AttemptState{}, ErrAlreadySubmitted
	case AttemptStatusAnswering:
		return attempt.stateLocked(), nil
	}

	duration := time.Duration(attempt.Room.Schedule.DurationMinutes) * time.Minute
	attempt.Status = AttemptStatusAnswering
	attempt.Deadline = time.Now().Add(duration)
	attempt.timer = time.AfterFunc(duration, func() { s.expire(attemptID) })

	return attempt.stateLocked(), nil
}

func (s *Lifecycle) State(attemptID string) (AttemptState, error) {
	attempt, err := s.attempt(attemptID)
	if err != nil {
		return AttemptState{}, err
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()
	return attempt.stateLocked(), nil
}

// Navigate moves the current question index by delta, clamped to the
// question range. It never touches the store.
func (s *Lifecycle) Navigate(attemptID string, delta int) (AttemptState, error) {
	attempt, err := s.attempt(attemptID)
	if err != nil {
		return AttemptState{}, err
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	attempt.CurrentIndex = clampIndex(attempt.CurrentIndex+delta, len(attempt.Room.Questions))
	return attempt.stateLocked(), nil
}

// Goto jumps to an absolute index, clamped the same way.
func (s *Lifecycle) Goto(attemptID string, index int) (AttemptState, error) {
	attempt, err := s.attempt(attemptID)
	if err != nil {
		return AttemptState{}, err
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	attempt.CurrentIndex = clampIndex(index, len(attempt.Room.Questions))
	return attempt.stateLocked(), nil
}

// RecordAnswer stores a response while answering. Recording again for the
// same question replaces the earlier answer; last write wins.
func (s *Lifecycle) RecordAnswer(attemptID, questionID string, values []string) (AttemptState, error) {
	attempt, err := s.attempt(attemptID)
	if err != nil {
		return AttemptState{}, err
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	switch attempt.Status {
	case AttemptStatusWaiting:
		return AttemptState{}, ErrNotAnswering
	case AttemptStatusSubmitted:
		return AttemptState{}, ErrAlreadySubmitted
	}

	question, ok := attempt.Room.QuestionByID(questionID)
	if !ok {
		return AttemptState{}, fmt.Errorf("%w: question %q is not part of this room", ErrValidation, questionID)
	}
	if len(values) == 0 {
		return AttemptState{}, fmt.Errorf("%w: answer values are required", ErrValidation)
	}
	if question.Kind != models.KindMultiChoice && len(values) != 1 {
		return AttemptState{}, fmt.Errorf("%w: question %q takes exactly one value", ErrValidation, questionID)
	}
	if question.Kind.IsChoice() {
		for _, v := range values {
			if !optionOf(question, v) {
				return AttemptState{}, fmt.Errorf("%w: %q is not an option of question %q", ErrValidation, v, questionID)
			}
		}
	}

	attempt.Answers[questionID] = models.Answer{
		QuestionID: questionID,
		Values:     append([]string(nil), values...),
	}
	return attempt.stateLocked(), nil
}

// Submit is the explicit path: it requires one answer per question, then
// persists the answer set and seals the attempt.
func (s *Lifecycle) Submit(attemptID string) (AttemptState, error) {
	attempt, err := s.attempt(attemptID)
	if err != nil {
		return AttemptState{}, err
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	switch attempt.Status {
	case AttemptStatusWaiting:
		return AttemptState{}, ErrNotAnswering
	case AttemptStatusSubmitted:
		return AttemptState{}, ErrAlreadySubmitted
	}

	if !attempt.Answers.Complete(&attempt.Room) {
		return AttemptState{}, ErrIncompleteAnswers
	}

	if err := s.sealLocked(attempt); err != nil {
		return AttemptState{}, err
	}
	return attempt.stateLocked(), nil
}

// Cancel stops the countdown and forgets the attempt without submitting.
// The answering view calls this on teardown so a stale timer cannot fire.
func (s *Lifecycle) Cancel(attemptID string) error {
	s.mu.Lock()
	attempt, ok := s.attempts[attemptID]
	if ok {
		delete(s.attempts, attemptID)
	}
	s.mu.Unlock()
	if !ok {
		return ErrAttemptNotFound
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()
	if attempt.timer != nil {
		attempt.timer.Stop()
		attempt.timer = nil
	}
	return nil
}

// Score is a stub. There is no grading engine on this device; the card only
// reports how far the attempt got.
func (s *Lifecycle) Score(attemptID string) (ScoreCard, error) {
	attempt, err := s.attempt(attemptID)
	if err != nil {
		return ScoreCard{}, err
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	return ScoreCard{
		RoomID:        attempt.Room.ID,
		Participant:   attempt.Participant.Name,
		Status:        attempt.Status,
		AnsweredCount: len(attempt.Answers),
		TotalCount:    len(attempt.Room.Questions),
		Pending:       true,
	}, nil
}

// expire is the countdown path: it submits whatever has been collected,
// deliberately skipping the completeness check the explicit path runs.
func (s *Lifecycle) expire(attemptID string) {
	attempt, err := s.attempt(attemptID)
	if err != nil {
		return
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	if attempt.Status != AttemptStatusAnswering {
		return
	}
	if err := s.sealLocked(attempt); err != nil {
		s.logger.Error("persist answers on expiry",
			zap.String("attempt_id", attemptID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("countdown expired, attempt submitted",
		zap.String("attempt_id", attemptID),
		zap.String("room_id", attempt.Room.ID),
		zap.Int("answered", len(attempt.Answers)),
	)
}

// sealLocked persists the answer set and makes the attempt terminal.
// Caller holds attempt.mu.
func (s *Lifecycle) sealLocked(attempt *Attempt) error {
	if err := s.store.SaveAnswers(attempt.Room.ID, attempt.Answers); err != nil {
		return err
	}
	attempt.Status = AttemptStatusSubmitted
	if attempt.timer != nil {
		attempt.timer.Stop()
		attempt.timer = nil
	}
	return nil
}

func (s *Lifecycle) attempt(id string) (*Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// generateRoomID draws 6 base-36 upper-case characters and retries until the
// code is unused. The store rejects duplicates as well, so a race between
// two creators still cannot end up with two rooms under one code.
func (s *Lifecycle) generateRoomID() (string, error) {
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(b)

		_, err := s.store.GetRoom(code)
		if errors.Is(err, store.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (a *Attempt) stateLocked() AttemptState {
	state := AttemptState{
		ID:             a.ID,
		RoomID:         a.Room.ID,
		Participant:    a.Participant,
		Status:         a.Status,
		CurrentIndex:   a.CurrentIndex,
		TotalQuestions: len(a.Room.Questions),
		AnsweredCount:  len(a.Answers),
	}
	if a.CurrentIndex >= 0 && a.CurrentIndex < len(a.Room.Questions) {
		q := a.Room.Questions[a.CurrentIndex].Clone()
		state.CurrentQuestion = &q
	}
	if a.Status == AttemptStatusAnswering {
		if remaining := time.Until(a.Deadline); remaining > 0 {
			state.RemainingSeconds = int(remaining / time.Second)
		}
	}
	return state
}

func clampIndex(index, count int) int {
	if index < 0 {
		return 0
	}
	if index > count-1 {
		return count - 1
	}
	return index
}

func optionOf(q models.Question, value string) bool {
	for _, o := range q.Options {
		if o == value {
			return true
		}
	}
	return false
}
