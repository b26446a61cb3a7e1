package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-assessment-service/internal/domain"
)

func TestLiveLeaderboardFlow(t *testing.T) {
	s := newTestServer(t, nil)
	server := httptest.NewServer(s.router)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + fmt.Sprintf("/api/quiz/%d/leaderboard/live", s.quizID)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	initial := readLeaderboard(t, conn)
	if len(initial.Entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %+v", initial.Entries)
	}

	body := `{"answers":[{"question_id":1,"selected_option":"A"},{"question_id":2,"selected_option":"B"}],
		"user":{"username":"alice","email":"alice@example.com"}}`
	resp, err := http.Post(server.URL+fmt.Sprintf("/api/quiz/%d/submit", s.quizID), "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	update := readLeaderboard(t, conn)
	if len(update.Entries) != 1 || update.Entries[0].ScorePercentage != 50 || update.Entries[0].Username != "alice" {
		t.Fatalf("unexpected live update %+v", update.Entries)
	}
}

func TestLiveLeaderboardUnknownQuiz(t *testing.T) {
	s := newTestServer(t, nil)
	server := httptest.NewServer(s.router)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/api/quiz/999/leaderboard/live", nil)
	if err == nil {
		t.Fatalf("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 response, got %+v", resp)
	}
}

func readLeaderboard(t *testing.T, conn *websocket.Conn) domain.Leaderboard {
	t.Helper()
	var msg struct {
		Type    string             `json:"type"`
		Payload domain.Leaderboard `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected leaderboard message, got %s", msg.Type)
	}
	return msg.Payload
}
