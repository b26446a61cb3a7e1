package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/infra/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	quizID int64
}

func newTestServer(t *testing.T, gen app.Generator) *testServer {
	t.Helper()
	store := memory.NewStore()
	quizID := seedCapitals(t, store)
	quizzes := app.NewQuizService(store, memory.NewQuestionCache(store, time.Minute), store, app.NewLeaderboardHub())
	assessments := app.NewAssessmentService(gen, quizzes, app.AssessmentConfig{Timeout: time.Second, InitialBackoff: time.Millisecond})
	router := NewRouter(RouterConfig{Quizzes: quizzes, Assessments: assessments, Store: store})
	return &testServer{router: router, store: store, quizID: quizID}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

// seedCapitals stores a four question quiz whose answers are A, B, C, D in order.
func seedCapitals(t *testing.T, store *memory.Store) int64 {
	t.Helper()
	ctx := context.Background()
	quizID, err := store.CreateQuiz(ctx, domain.NewQuiz{Title: "Capitals"})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	opts := domain.Options{A: "Paris", B: "Rome", C: "Berlin", D: "Oslo"}
	for _, q := range []domain.NewQuestion{
		{Text: "Capital of France?", Options: opts, CorrectOption: domain.OptionA},
		{Text: "Capital of Italy?", Options: opts, CorrectOption: domain.OptionB},
		{Text: "Capital of Germany?", Options: opts, CorrectOption: domain.OptionC},
		{Text: "Capital of Norway?", Options: opts, CorrectOption: domain.OptionD},
	} {
		if _, err := store.AddQuestion(ctx, quizID, q); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}
	return quizID
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)
	if rec := s.do(t, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	down := NewRouter(RouterConfig{Store: downStore{}})
	rec := httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the database is down, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/quizzes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
