package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RunReceipt acknowledges a code-widget run request. Nothing is executed;
// the widget's contract is text in, acknowledgement out.
type RunReceipt struct {
	QuestionID string    `json:"question_id"`
	Language   string    `json:"language"`
	Bytes      int       `json:"bytes"`
	ReceivedAt time.Time `json:"received_at"`
}

// RunnerService receives code-editor buffers from code questions. It records
// the text as the current answer and acknowledges; evaluation is out of
// scope on this device.
type RunnerService struct {
	lifecycle *Lifecycle
	logger    *zap.Logger
}

func NewRunnerService(lifecycle *Lifecycle, logger *zap.Logger) *RunnerService {
	return &RunnerService{lifecycle: lifecycle, logger: logger}
}

func (s *RunnerService) Run(attemptID, questionID, text string) (RunReceipt, error) {
	state, err := s.lifecycle.RecordAnswer(attemptID, questionID, []string{text})
	if err != nil {
		return RunReceipt{}, err
	}

	var language string
	if room, err := s.lifecycle.GetRoom(state.RoomID); err == nil {
		if q, ok := room.QuestionByID(questionID); ok {
			language = q.Language
		}
	}

	s.logger.Info("code buffer received",
		zap.String("attempt_id", attemptID),
		zap.String("question_id", questionID),
		zap.Int("bytes", len(text)),
	)
	return RunReceipt{
		QuestionID: questionID,
		Language:   language,
		Bytes:      len(text),
		ReceivedAt: time.Now(),
	}, nil
}

// Change is the widget's on-change contract: same capture, no receipt.
func (s *RunnerService) Change(attemptID, questionID, text string) error {
	if _, err := s.lifecycle.RecordAnswer(attemptID, questionID, []string{text}); err != nil {
		return fmt.Errorf("record code change: %w", err)
	}
	return nil
}
