package http

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"quiz-assessment-service/internal/domain"
)

func TestQuestionsEndpointHidesAnswers(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/quiz/%d/questions", s.quizID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "correct") {
		t.Fatalf("answer key leaked: %s", rec.Body.String())
	}
	var body struct {
		Questions []domain.PublicQuestion `json:"questions"`
	}
	decode(t, rec, &body)
	if len(body.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(body.Questions))
	}

	if rec := s.do(t, http.MethodGet, "/api/quiz/999/questions", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/quiz/abc/questions", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	path := fmt.Sprintf("/api/quiz/%d/submit", s.quizID)
	answers := []map[string]any{
		{"question_id": 1, "selected_option": "A"},
		{"question_id": 2, "selected_option": "B"},
		{"question_id": 3, "selected_option": "A"},
		{"question_id": 4, "selected_option": "D"},
	}

	rec := s.do(t, http.MethodPost, path, map[string]any{"answers": answers})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var plain domain.Result
	decode(t, rec, &plain)
	if plain.ScorePercentage != 75 || plain.CorrectAnswers != 3 || plain.TotalQuestions != 4 {
		t.Fatalf("expected 3/4 = 75, got %+v", plain)
	}
	if strings.Contains(rec.Body.String(), "details") || strings.Contains(rec.Body.String(), "attempt_id") {
		t.Fatalf("expected no details or attempt id: %s", rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, path+"?details=true", map[string]any{
		"answers": answers,
		"user":    map[string]string{"username": "alice", "email": "alice@example.com"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var detailed domain.Result
	decode(t, rec, &detailed)
	if len(detailed.Details) != 4 || detailed.AttemptID == nil {
		t.Fatalf("expected details and an attempt id, got %+v", detailed)
	}
	if detailed.Details[2].UserAnswer != "Paris" || detailed.Details[2].IsCorrect {
		t.Fatalf("unexpected detail %+v", detailed.Details[2])
	}
}

func TestSubmitEndpointRejects(t *testing.T) {
	s := newTestServer(t, nil)
	path := fmt.Sprintf("/api/quiz/%d/submit", s.quizID)

	cases := []struct {
		name string
		path string
		body any
		want int
	}{
		{"malformed json", path, "{", http.StatusBadRequest},
		{"no answers field", path, map[string]any{}, http.StatusBadRequest},
		{"bad letter", path, map[string]any{"answers": []map[string]any{{"question_id": 1, "selected_option": "Z"}}}, http.StatusBadRequest},
		{"duplicate", path, map[string]any{"answers": []map[string]any{
			{"question_id": 1, "selected_option": "A"},
			{"question_id": 1, "selected_option": "B"},
		}}, http.StatusBadRequest},
		{"bad email", path, map[string]any{"answers": []any{}, "user": map[string]string{"username": "x", "email": "nope"}}, http.StatusBadRequest},
		{"missing email", path, map[string]any{"answers": []any{}, "user": map[string]string{"username": "x"}}, http.StatusBadRequest},
		{"unknown quiz", "/api/quiz/999/submit", map[string]any{"answers": []any{}}, http.StatusNotFound},
	}
	for _, tc := range cases {
		if rec := s.do(t, http.MethodPost, tc.path, tc.body); rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.want, rec.Code, rec.Body.String())
		}
	}
}

func TestAttemptsAndLeaderboardEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	submit := fmt.Sprintf("/api/quiz/%d/submit", s.quizID)
	for _, u := range []struct {
		email  string
		option string
	}{{"bob@example.com", "B"}, {"alice@example.com", "A"}, {"alice@example.com", "C"}} {
		body := map[string]any{
			"answers": []map[string]any{{"question_id": 1, "selected_option": u.option}},
			"user":    map[string]string{"username": u.email, "email": u.email},
		}
		if rec := s.do(t, http.MethodPost, submit, body); rec.Code != http.StatusOK {
			t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
		}
	}

	if rec := s.do(t, http.MethodGet, "/api/quiz/attempts", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without email, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/quiz/attempts?email=a@b.c&quizId=x", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad quiz id, got %d", rec.Code)
	}

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/quiz/attempts?email=Alice@Example.com&quizId=%d", s.quizID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var attempts struct {
		Attempts []domain.Attempt `json:"attempts"`
	}
	decode(t, rec, &attempts)
	if len(attempts.Attempts) != 2 || attempts.Attempts[0].QuizTitle != "Capitals" {
		t.Fatalf("expected 2 attempts for alice, got %+v", attempts.Attempts)
	}

	rec = s.do(t, http.MethodGet, "/api/quiz/attempts?email=nobody@example.com", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"attempts":[]`) {
		t.Fatalf("expected empty list, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/quiz/%d/leaderboard?limit=2", s.quizID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var lb domain.Leaderboard
	decode(t, rec, &lb)
	if len(lb.Entries) != 2 {
		t.Fatalf("expected limit to apply, got %d entries", len(lb.Entries))
	}
	if lb.Entries[0].Email != "alice@example.com" || lb.Entries[0].ScorePercentage != 25 || lb.Entries[1].Rank != 2 {
		t.Fatalf("unexpected leaderboard %+v", lb.Entries)
	}

	if rec := s.do(t, http.MethodGet, "/api/quiz/999/leaderboard", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAuthoringEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	if rec := s.do(t, http.MethodPost, "/api/quizzes", map[string]string{"description": "no title"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without title, got %d", rec.Code)
	}
	rec := s.do(t, http.MethodPost, "/api/quizzes", map[string]string{"title": "Go", "category": "programming", "level": "basic"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &created)

	question := map[string]string{
		"question_text":  "Which keyword starts a goroutine?",
		"option_a":       "go",
		"option_b":       "async",
		"option_c":       "spawn",
		"option_d":       "thread",
		"correct_option": "A",
	}
	if rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/questions", created.ID), question); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodPost, "/api/quizzes/999/questions", question); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	question["correct_option"] = "E"
	if rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/questions", created.ID), question); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/quizzes?category=programming", nil)
	var list struct {
		Quizzes []domain.Quiz `json:"quizzes"`
	}
	decode(t, rec, &list)
	if len(list.Quizzes) != 1 || list.Quizzes[0].QuestionCount != 1 {
		t.Fatalf("expected one programming quiz with one question, got %+v", list.Quizzes)
	}
}

func TestSubmitEndpointNormalizesPaddedEmail(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/quiz/%d/submit", s.quizID), map[string]any{
		"answers": []map[string]any{{"question_id": 1, "selected_option": "A"}},
		"user":    map[string]string{"username": "Al", "email": " Al@Example.com "},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/quiz/attempts?email=al@example.com", nil)
	var body struct {
		Attempts []domain.Attempt `json:"attempts"`
	}
	decode(t, rec, &body)
	if len(body.Attempts) != 1 || body.Attempts[0].Email != "al@example.com" {
		t.Fatalf("expected attempt stored under the normalized email, got %+v", body.Attempts)
	}
}

func TestAuthoringEndpointsAnswerPlainMessages(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/questions", s.quizID), map[string]string{
		"question_text":  "Which keyword starts a goroutine?",
		"option_b":       "async",
		"option_c":       "spawn",
		"option_d":       "thread",
		"correct_option": "A",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	if body.Error != "option_a is required" {
		t.Fatalf("expected a plain message, got %q", body.Error)
	}

	rec = s.do(t, http.MethodPost, "/api/quizzes", "{")
	decode(t, rec, &body)
	if rec.Code != http.StatusBadRequest || body.Error != "Invalid quiz format" {
		t.Fatalf("expected 400 Invalid quiz format, got %d %q", rec.Code, body.Error)
	}
	if strings.Contains(rec.Body.String(), "Key:") {
		t.Fatalf("validator internals leaked: %s", rec.Body.String())
	}
}
