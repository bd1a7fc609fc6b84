package services

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"easetest-backend/internal/models"
	"easetest-backend/internal/store"
)

func newLifecycle(t *testing.T) (*Lifecycle, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewLifecycle(st, zap.NewNop()), st
}

func frontendAssessment() CreateRoomInput {
	return CreateRoomInput{
		Title:       "Frontend Assessment",
		Description: "Screening round for frontend candidates",
		Schedule: models.Schedule{
			Date:            "2026-09-01",
			StartTime:       "10:00",
			DurationMinutes: 60,
		},
		MaxParticipants: 10,
		Questions: []models.Question{
			{
				ID:             "q1",
				Kind:           models.KindSingleChoice,
				Prompt:         "Which option is correct?",
				Options:        []string{"A", "B", "C"},
				CorrectAnswers: []string{"B"},
			},
		},
	}
}

func mustCreateRoom(t *testing.T, svc *Lifecycle) models.Room {
	t.Helper()
	room, err := svc.CreateRoom(frontendAssessment())
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return room
}

func mustJoin(t *testing.T, svc *Lifecycle, code, name string) *Attempt {
	t.Helper()
	attempt, err := svc.Join(code, name)
	if err != nil {
		t.Fatalf("join %q: %v", code, err)
	}
	return attempt
}

func TestCreateRoomAssignsShareableCode(t *testing.T) {
	svc, _ := newLifecycle(t)
	room := mustCreateRoom(t, svc)

	if len(room.ID) != 6 {
		t.Fatalf("expected a 6-character code, got %q", room.ID)
	}
	for _, c := range room.ID {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')) {
			t.Fatalf("code %q contains %q outside the base-36 upper alphabet", room.ID, c)
		}
	}
}

func TestCreateRoomValidation(t *testing.T) {
	svc, _ := newLifecycle(t)

	cases := []struct {
		name   string
		mutate func(*CreateRoomInput)
	}{
		{"blank title", func(in *CreateRoomInput) { in.Title = "  " }},
		{"blank description", func(in *CreateRoomInput) { in.Description = "" }},
		{"zero duration", func(in *CreateRoomInput) { in.Schedule.DurationMinutes = 0 }},
		{"no questions", func(in *CreateRoomInput) { in.Questions = nil }},
		{"invalid question", func(in *CreateRoomInput) {
			in.Questions[0].CorrectAnswers = []string{"Z"}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := frontendAssessment()
			tc.mutate(&in)
			if _, err := svc.CreateRoom(in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestJoinUnknownCode(t *testing.T) {
	svc, st := newLifecycle(t)

	if _, err := svc.Join("NOPE42", "Ada"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if _, err := st.GetParticipant("NOPE42"); !errors.Is(err, store.ErrNotFound) {
		t.Fatal("a failed join must not persist a participant")
	}
}

func TestJoinIsCaseInsensitiveAndPersistsParticipant(t *testing.T) {
	svc, st := newLifecycle(t)
	room := mustCreateRoom(t, svc)

	attempt := mustJoin(t, svc, "  "+strings.ToLower(room.ID)+" ", "Ada")
	if attempt.Status != AttemptStatusWaiting {
		t.Fatalf("fresh attempt should be waiting, got %q", attempt.Status)
	}
	if attempt.Room.ID != room.ID {
		t.Fatalf("attempt bound to %q, want %q", attempt.Room.ID, room.ID)
	}

	p, err := st.GetParticipant(room.ID)
	if err != nil {
		t.Fatalf("get participant: %v", err)
	}
	if p.Name != "Ada" {
		t.Fatalf("expected participant Ada, got %q", p.Name)
	}
}

func TestAnswerAndSubmitFlow(t *testing.T) {
	svc, st := newLifecycle(t)
	room := mustCreateRoom(t, svc)
	attempt := mustJoin(t, svc, room.ID, "Ada")

	// answering before start is rejected
	if _, err := svc.RecordAnswer(attempt.ID, "q1", []string{"B"}); !errors.Is(err, ErrNotAnswering) {
		t.Fatalf("expected ErrNotAnswering, got %v", err)
	}

	state, err := svc.Start(attempt.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if state.Status != AttemptStatusAnswering {
		t.Fatalf("expected answering, got %q", state.Status)
	}
	if state.RemainingSeconds <= 0 || state.RemainingSeconds > 60*60 {
		t.Fatalf("remaining seconds out of range: %d", state.RemainingSeconds)
	}

	// submit before the set is complete is rejected
	if _, err := svc.Submit(attempt.ID); !errors.Is(err, ErrIncompleteAnswers) {
		t.Fatalf("expected ErrIncompleteAnswers, got %v", err)
	}

	if _, err := svc.RecordAnswer(attempt.ID, "q1", []string{"B"}); err != nil {
		t.Fatalf("record answer: %v", err)
	}

	state, err = svc.Submit(attempt.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if state.Status != AttemptStatusSubmitted {
		t.Fatalf("expected submitted, got %q", state.Status)
	}

	answers, err := st.GetAnswers(room.ID)
	if err != nil {
		t.Fatalf("get answers: %v", err)
	}
	got, ok := answers["q1"]
	if !ok || len(got.Values) != 1 || got.Values[0] != "B" {
		t.Fatalf("persisted answers = %+v, want q1 -> [B]", answers)
	}

	// submitted is terminal
	if _, err := svc.RecordAnswer(attempt.ID, "q1", []string{"A"}); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if _, err := svc.Submit(attempt.ID); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted on re-submit, got %v", err)
	}
}

func TestRecordAnswerValidation(t *testing.T) {
	svc, _ := newLifecycle(t)
	room := mustCreateRoom(t, svc)
	attempt := mustJoin(t, svc, room.ID, "Ada")
	if _, err := svc.Start(attempt.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.RecordAnswer(attempt.ID, "missing", []string{"B"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown question: expected ErrValidation, got %v", err)
	}
	if _, err := svc.RecordAnswer(attempt.ID, "q1", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty values: expected ErrValidation, got %v", err)
	}
	if _, err := svc.RecordAnswer(attempt.ID, "q1", []string{"A", "B"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("single-choice with two values: expected ErrValidation, got %v", err)
	}
	if _, err := svc.RecordAnswer(attempt.ID, "q1", []string{"Z"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("value outside options: expected ErrValidation, got %v", err)
	}
}

func TestRecordAnswerLastWriteWins(t *testing.T) {
	svc, st := newLifecycle(t)
	room := mustCreateRoom(t, svc)
	attempt := mustJoin(t, svc, room.ID, "Ada")
	if _, err := svc.Start(attempt.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.RecordAnswer(attempt.ID, "q1", []string{"A"}); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if _, err := svc.RecordAnswer(attempt.ID, "q1", []string{"B"}); err != nil {
		t.Fatalf("second answer: %v", err)
	}
	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	answers, err := st.GetAnswers(room.ID)
	if err != nil {
		t.Fatalf("get answers: %v", err)
	}
	if got := answers["q1"].Values; len(got) != 1 || got[0] != "B" {
		t.Fatalf("expected the later answer to win, got %v", got)
	}
}

func TestExpireSubmitsIncompleteAnswers(t *testing.T) {
	svc, st := newLifecycle(t)
	room := mustCreateRoom(t, svc)
	attempt := mustJoin(t, svc, room.ID, "Ada")
	if _, err := svc.Start(attempt.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// no answers recorded; the countdown path submits anyway
	svc.expire(attempt.ID)

	state, err := svc.State(attempt.ID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Status != AttemptStatusSubmitted {
		t.Fatalf("expired attempt should be submitted, got %q", state.Status)
	}

	answers, err := st.GetAnswers(room.ID)
	if err != nil {
		t.Fatalf("get answers: %v", err)
	}
	if len(answers) != 0 {
		t.Fatalf("expected an empty persisted answer set, got %+v", answers)
	}
}

func TestExpireOnWaitingAttemptIsNoOp(t *testing.T) {
	svc, _ := newLifecycle(t)
	room := mustCreateRoom(t, svc)
	attempt := mustJoin(t, svc, room.ID, "Ada")

	svc.expire(attempt.ID)

	state, err := svc.State(attempt.ID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Status != AttemptStatusWaiting {
		t.Fatalf("expire must not touch waiting attempts, got %q", state.Status)
	}
}

func TestNavigateClampsToQuestionRange(t *testing.T) {
	svc, _ := newLifecycle(t)

	in := frontendAssessment()
	in.Questions = append(in.Questions, models.Question{
		ID:     "q2",
		Kind:   models.KindText,
		Prompt: "Explain event delegation",
	})
	room, err := svc.CreateRoom(in)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	attempt := mustJoin(t, svc, room.ID, "Ada")

	state, err := svc.Navigate(attempt.ID, -3)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if state.CurrentIndex != 0 {
		t.Fatalf("backward navigation should clamp to 0, got %d", state.CurrentIndex)
	}

	state, err = svc.Navigate(attempt.ID, 10)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if state.CurrentIndex != 1 {
		t.Fatalf("forward navigation should clamp to last question, got %d", state.CurrentIndex)
	}
	if state.CurrentQuestion == nil || state.CurrentQuestion.ID != "q2" {
		t.Fatalf("expected q2 as current question, got %+v", state.CurrentQuestion)
	}

	state, err = svc.Goto(attempt.ID, 0)
	if err != nil {
		t.Fatalf("goto: %v", err)
	}
	if state.CurrentIndex != 0 {
		t.Fatalf("goto should land on 0, got %d", state.CurrentIndex)
	}
}

func TestCancelForgetsAttempt(t *testing.T) {
	svc, _ := newLifecycle(t)
	room := mustCreateRoom(t, svc)
	attempt := mustJoin(t, svc, room.ID, "Ada")
	if _, err := svc.Start(attempt.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := svc.Cancel(attempt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.State(attempt.ID); !errors.Is(err, ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound after cancel, got %v", err)
	}
	if err := svc.Cancel(attempt.ID); !errors.Is(err, ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound on double cancel, got %v", err)
	}
}

func TestScoreReportsProgressOnly(t *testing.T) {
	svc, _ := newLifecycle(t)
	room := mustCreateRoom(t, svc)
	attempt := mustJoin(t, svc, room.ID, "Ada")
	if _, err := svc.Start(attempt.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.RecordAnswer(attempt.ID, "q1", []string{"B"}); err != nil {
		t.Fatalf("record answer: %v", err)
	}
	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	card, err := svc.Score(attempt.ID)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !card.Pending {
		t.Fatal("scorecard must report grading as pending")
	}
	if card.AnsweredCount != 1 || card.TotalCount != 1 {
		t.Fatalf("card = %+v, want 1/1 answered", card)
	}
	if card.Participant != "Ada" || card.RoomID != room.ID {
		t.Fatalf("card identity mismatch: %+v", card)
	}
}
