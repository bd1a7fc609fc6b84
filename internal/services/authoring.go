package services

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"easetest-backend/internal/models"
)

var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrIndexOutOfRange = errors.New("question index out of range")
	ErrNotChoiceKind   = errors.New("question kind has no options")
	ErrUnknownKind     = errors.New("unknown question kind")
	ErrUnknownOption   = errors.New("option not part of the question")
)

// Draft accumulates a room definition before it is published. Drafts live in
// memory only; nothing is persisted until publish.
type Draft struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Schedule        models.Schedule   `json:"schedule"`
	MaxParticipants int               `json:"max_participants"`
	IsLive          bool              `json:"is_live"`
	AllowGuests     bool              `json:"allow_guests"`
	Questions       []models.Question `json:"questions"`
}

// AddQuestion appends q when its prompt is non-blank after trimming.
// A blank prompt is silently dropped; the editor treats it as an empty row.
func (d *Draft) AddQuestion(q models.Question) {
	if strings.TrimSpace(q.Prompt) == "" {
		return
	}
	if q.ID == "" {
		q.ID = strconv.Itoa(len(d.Questions) + 1)
	}
	d.Questions = append(d.Questions, q.Clone())
}

func (d *Draft) UpdateQuestion(index int, q models.Question) error {
	if index < 0 || index >= len(d.Questions) {
		return ErrIndexOutOfRange
	}
	if q.ID == "" {
		q.ID = d.Questions[index].ID
	}
	d.Questions[index] = q.Clone()
	return nil
}

func (d *Draft) RemoveQuestion(index int) error {
	if index < 0 || index >= len(d.Questions) {
		return ErrIndexOutOfRange
	}
	d.Questions = append(d.Questions[:index], d.Questions[index+1:]...)
	return nil
}

// SetKind switches the question variant and resets the kind-specific fields:
// choice kinds start with one empty option, text and code carry none, and
// code gets the default language.
func (d *Draft) SetKind(index int, kind models.Kind) error {
	if index < 0 || index >= len(d.Questions) {
		return ErrIndexOutOfRange
	}
	if !kind.Valid() {
		return ErrUnknownKind
	}

	q := &d.Questions[index]
	q.Kind = kind
	q.CorrectAnswers = nil
	q.Language = ""
	if kind.IsChoice() {
		q.Options = []string{""}
	} else {
		q.Options = nil
		if kind == models.KindCode {
			q.Language = models.DefaultCodeLanguage
		}
	}
	return nil
}

func (d *Draft) AddOption(index int) error {
	q, err := d.choiceQuestion(index)
	if err != nil {
		return err
	}
	q.Options = append(q.Options, "")
	return nil
}

// UpdateOption sets the option's text and carries any correct-answer entry
// that referenced the old text over to the new one, so correct answers stay
// a subset of options across renames.
func (d *Draft) UpdateOption(index, optionIndex int, value string) error {
	q, err := d.choiceQuestion(index)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrIndexOutOfRange
	}

	old := q.Options[optionIndex]
	q.Options[optionIndex] = value
	for i, answer := range q.CorrectAnswers {
		if answer == old {
			q.CorrectAnswers[i] = value
		}
	}
	return nil
}

// RemoveOption drops the option at optionIndex and every correct-answer
// entry that referenced it, keeping correct answers a subset of options.
// The last remaining option cannot be removed.
func (d *Draft) RemoveOption(index, optionIndex int) error {
	q, err := d.choiceQuestion(index)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrIndexOutOfRange
	}
	if len(q.Options) <= 1 {
		return nil
	}

	q.Options = append(q.Options[:optionIndex], q.Options[optionIndex+1:]...)

	kept := q.CorrectAnswers[:0]
	for _, answer := range q.CorrectAnswers {
		for _, o := range q.Options {
			if o == answer {
				kept = append(kept, answer)
				break
			}
		}
	}
	q.CorrectAnswers = kept
	return nil
}

// ToggleCorrect flips the correctness of an option. Single-choice replaces
// the whole set with the toggled option; multi-choice adds or removes it.
// The value must be one of the question's options.
func (d *Draft) ToggleCorrect(index int, option string) error {
	q, err := d.choiceQuestion(index)
	if err != nil {
		return err
	}
	if !optionOf(*q, option) {
		return ErrUnknownOption
	}

	if q.Kind == models.KindSingleChoice {
		q.CorrectAnswers = []string{option}
		return nil
	}

	for i, answer := range q.CorrectAnswers {
		if answer == option {
			q.CorrectAnswers = append(q.CorrectAnswers[:i], q.CorrectAnswers[i+1:]...)
			return nil
		}
	}
	q.CorrectAnswers = append(q.CorrectAnswers, option)
	return nil
}

func (d *Draft) choiceQuestion(index int) (*models.Question, error) {
	if index < 0 || index >= len(d.Questions) {
		return nil, ErrIndexOutOfRange
	}
	q := &d.Questions[index]
	if !q.Kind.IsChoice() {
		return nil, ErrNotChoiceKind
	}
	return q, nil
}

// AuthoringService hands out drafts to the room-creation flow.
type AuthoringService struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewAuthoringService() *AuthoringService {
	return &AuthoringService{drafts: make(map[string]*Draft)}
}

func (s *AuthoringService) CreateDraft() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &Draft{ID: uuid.NewString()}
	s.drafts[d.ID] = d
	return d
}

func (s *AuthoringService) GetDraft(id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

// Mutate runs fn against the draft under the service lock so concurrent
// editor requests cannot interleave mid-operation.
func (s *AuthoringService) Mutate(id string, fn func(*Draft) error) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Discard removes a published or abandoned draft.
func (s *AuthoringService) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}
