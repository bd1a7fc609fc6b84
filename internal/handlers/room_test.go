package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"easetest-backend/internal/models"
	"easetest-backend/internal/services"
	"easetest-backend/internal/store"
	"easetest-backend/internal/ws"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	st := store.NewMemoryStore()
	hub := ws.NewHub(logger)
	lifecycle := services.NewLifecycle(st, logger)
	runner := services.NewRunnerService(lifecycle, logger)

	roomHandler := NewRoomHandler(lifecycle, hub)
	playHandler := NewPlayHandler(lifecycle, runner, hub)

	r := gin.New()
	api := r.Group("/api/v1")
	rooms := api.Group("/rooms")
	{
		rooms.POST("", roomHandler.CreateRoom)
		rooms.GET("", roomHandler.ListRooms)
		rooms.GET("/:id", roomHandler.GetRoom)
		rooms.GET("/:id/participant", roomHandler.GetRoomParticipant)
		rooms.GET("/:id/answers", roomHandler.GetRoomAnswers)
	}
	play := api.Group("/play")
	{
		play.POST("/join", playHandler.Join)
		play.POST("/attempts/:id/start", playHandler.Start)
		play.GET("/attempts/:id", playHandler.State)
		play.POST("/attempts/:id/navigate", playHandler.Navigate)
		play.POST("/attempts/:id/answer", playHandler.Answer)
		play.POST("/attempts/:id/submit", playHandler.Submit)
		play.POST("/attempts/:id/run", playHandler.Run)
		play.POST("/attempts/:id/change", playHandler.Change)
		play.GET("/attempts/:id/score", playHandler.Score)
		play.DELETE("/attempts/:id", playHandler.Cancel)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func createRoomBody() gin.H {
	return gin.H{
		"title":       "Frontend Assessment",
		"description": "React and CSS fundamentals",
		"date":        "2026-09-01",
		"start_time":  "10:00",
		"duration":    60,
		"questions": []gin.H{
			{
				"id":              "q1",
				"kind":            "single-choice",
				"prompt":          "Which option is correct?",
				"options":         []string{"A", "B", "C"},
				"correct_answers": []string{"B"},
			},
		},
	}
}

func TestCreateRoomEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", createRoomBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	room := decode[models.Room](t, w)
	if len(room.ID) != 6 {
		t.Fatalf("expected a 6-character code, got %q", room.ID)
	}
	if room.Title != "Frontend Assessment" {
		t.Fatalf("title = %q", room.Title)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/rooms/"+room.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get room status = %d", w.Code)
	}
}

func TestCreateRoomRejectsInvalidDefinition(t *testing.T) {
	r := newTestRouter(t)

	body := createRoomBody()
	body["duration"] = 0
	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}
}

func TestGetRoomNotFound(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/rooms/NOPE42", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	resp := decode[ErrorResponse](t, w)
	if resp.Error == "" {
		t.Fatal("error body should carry a message")
	}
}

func TestPlayFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", createRoomBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("create room: %d %s", w.Code, w.Body.String())
	}
	room := decode[models.Room](t, w)

	w = doJSON(t, r, http.MethodPost, "/api/v1/play/join", gin.H{"code": room.ID, "name": "Ada"})
	if w.Code != http.StatusOK {
		t.Fatalf("join: %d %s", w.Code, w.Body.String())
	}
	state := decode[services.AttemptState](t, w)
	if state.Status != services.AttemptStatusWaiting {
		t.Fatalf("joined attempt status = %q", state.Status)
	}

	base := "/api/v1/play/attempts/" + state.ID

	w = doJSON(t, r, http.MethodPost, base+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}

	// incomplete submit is a client error
	w = doJSON(t, r, http.MethodPost, base+"/submit", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("incomplete submit: %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, base+"/answer", gin.H{"question_id": "q1", "values": []string{"B"}})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, base+"/submit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	state = decode[services.AttemptState](t, w)
	if state.Status != services.AttemptStatusSubmitted {
		t.Fatalf("submitted attempt status = %q", state.Status)
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%s/answers", room.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("answers: %d %s", w.Code, w.Body.String())
	}
	answers := decode[models.AnswerSet](t, w)
	if got := answers["q1"].Values; len(got) != 1 || got[0] != "B" {
		t.Fatalf("persisted answers = %+v", answers)
	}

	w = doJSON(t, r, http.MethodGet, base+"/score", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("score: %d %s", w.Code, w.Body.String())
	}
	card := decode[services.ScoreCard](t, w)
	if !card.Pending {
		t.Fatal("scorecard should report grading as pending")
	}
}

func TestJoinUnknownRoomCode(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/play/join", gin.H{"code": "NOPE42", "name": "Ada"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestNavigateEndpointClamps(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", createRoomBody())
	room := decode[models.Room](t, w)
	w = doJSON(t, r, http.MethodPost, "/api/v1/play/join", gin.H{"code": room.ID, "name": "Ada"})
	state := decode[services.AttemptState](t, w)

	base := "/api/v1/play/attempts/" + state.ID

	w = doJSON(t, r, http.MethodPost, base+"/navigate", gin.H{"direction": "next"})
	if w.Code != http.StatusOK {
		t.Fatalf("navigate: %d %s", w.Code, w.Body.String())
	}
	state = decode[services.AttemptState](t, w)
	if state.CurrentIndex != 0 {
		t.Fatalf("single-question room should clamp to index 0, got %d", state.CurrentIndex)
	}

	w = doJSON(t, r, http.MethodPost, base+"/navigate", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty navigate body: %d, want 400", w.Code)
	}
}

func TestChangeEndpointCapturesCodeBuffer(t *testing.T) {
	r := newTestRouter(t)

	body := createRoomBody()
	body["questions"] = []gin.H{
		{
			"id":       "q1",
			"kind":     "code",
			"prompt":   "Reverse a list",
			"language": "javascript",
		},
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create room: %d %s", w.Code, w.Body.String())
	}
	room := decode[models.Room](t, w)

	w = doJSON(t, r, http.MethodPost, "/api/v1/play/join", gin.H{"code": room.ID, "name": "Ada"})
	state := decode[services.AttemptState](t, w)
	base := "/api/v1/play/attempts/" + state.ID

	w = doJSON(t, r, http.MethodPost, base+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, base+"/change", gin.H{"question_id": "q1", "text": "const x = 1"})
	if w.Code != http.StatusOK {
		t.Fatalf("change: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, base+"/run", gin.H{"question_id": "q1", "text": "const x = 2"})
	if w.Code != http.StatusOK {
		t.Fatalf("run: %d %s", w.Code, w.Body.String())
	}
	receipt := decode[services.RunReceipt](t, w)
	if receipt.Language != "javascript" || receipt.Bytes != len("const x = 2") {
		t.Fatalf("receipt = %+v", receipt)
	}

	// both paths record the buffer; the later write is the answer
	w = doJSON(t, r, http.MethodPost, base+"/submit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%s/answers", room.ID), nil)
	answers := decode[models.AnswerSet](t, w)
	if got := answers["q1"].Values; len(got) != 1 || got[0] != "const x = 2" {
		t.Fatalf("persisted answers = %+v", answers)
	}
}

func TestCancelEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", createRoomBody())
	room := decode[models.Room](t, w)
	w = doJSON(t, r, http.MethodPost, "/api/v1/play/join", gin.H{"code": room.ID, "name": "Ada"})
	state := decode[services.AttemptState](t, w)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/play/attempts/"+state.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/play/attempts/"+state.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("state after cancel: %d, want 404", w.Code)
	}
}
