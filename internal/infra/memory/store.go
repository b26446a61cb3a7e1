package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-assessment-service/internal/domain"
)

// Store is an in-memory implementation of app.QuizStore and app.AttemptStore
// (useful for tests/demos and when no database is configured).
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	quizzes   map[int64]domain.Quiz
	questions map[int64][]domain.Question
	users     map[string]domain.User
	attempts  []domain.Attempt

	nextQuizID     int64
	nextQuestionID int64
	nextUserID     int64
	nextAttemptID  int64
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock is test-only for deterministic timestamps.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:       now,
		quizzes:   make(map[int64]domain.Quiz),
		questions: make(map[int64][]domain.Question),
		users:     make(map[string]domain.User),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) ListQuizzes(_ context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		if filter.Category != "" && (q.Category == nil || *q.Category != filter.Category) {
			continue
		}
		if filter.Level != "" && (q.Level == nil || *q.Level != filter.Level) {
			continue
		}
		q.QuestionCount = len(s.questions[q.ID])
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) QuizExists(_ context.Context, quizID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.quizzes[quizID]
	return ok, nil
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.NewQuiz) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createQuizLocked(quiz), nil
}

func (s *Store) AddQuestion(_ context.Context, quizID int64, question domain.NewQuestion) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return 0, domain.ErrQuizNotFound
	}
	return s.addQuestionLocked(quizID, question), nil
}

// CreateQuizWithQuestions stores the quiz and its questions under one lock,
// so readers never observe a partially built quiz.
func (s *Store) CreateQuizWithQuestions(_ context.Context, quiz domain.NewQuiz, questions []domain.NewQuestion) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quizID := s.createQuizLocked(quiz)
	for _, q := range questions {
		s.addQuestionLocked(quizID, q)
	}
	return quizID, nil
}

func (s *Store) createQuizLocked(quiz domain.NewQuiz) int64 {
	s.nextQuizID++
	s.quizzes[s.nextQuizID] = domain.Quiz{
		ID:          s.nextQuizID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Category:    quiz.Category,
		Level:       quiz.Level,
		CreatedAt:   s.now(),
	}
	return s.nextQuizID
}

func (s *Store) addQuestionLocked(quizID int64, question domain.NewQuestion) int64 {
	s.nextQuestionID++
	s.questions[quizID] = append(s.questions[quizID], domain.Question{
		ID:            s.nextQuestionID,
		QuizID:        quizID,
		Text:          question.Text,
		Options:       question.Options,
		CorrectOption: question.CorrectOption,
	})
	return s.nextQuestionID
}

// LoadQuestions implements QuestionLoader.
func (s *Store) LoadQuestions(_ context.Context, quizID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]domain.Question, len(s.questions[quizID]))
	copy(questions, s.questions[quizID])
	return questions, nil
}

func (s *Store) UpsertUser(_ context.Context, identity domain.Identity) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[identity.Email]; ok {
		user.Username = identity.Username
		s.users[identity.Email] = user
		return user.ID, nil
	}
	s.nextUserID++
	s.users[identity.Email] = domain.User{
		ID:        s.nextUserID,
		Email:     identity.Email,
		Username:  identity.Username,
		CreatedAt: s.now(),
	}
	return s.nextUserID, nil
}

func (s *Store) RecordAttempt(_ context.Context, userID, quizID int64, result domain.Result) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return 0, domain.ErrQuizNotFound
	}
	s.nextAttemptID++
	s.attempts = append(s.attempts, domain.Attempt{
		ID:              s.nextAttemptID,
		UserID:          userID,
		QuizID:          quizID,
		TotalQuestions:  result.TotalQuestions,
		CorrectAnswers:  result.CorrectAnswers,
		ScorePercentage: result.ScorePercentage,
		CreatedAt:       s.now(),
	})
	return s.nextAttemptID, nil
}

func (s *Store) AttemptsForUser(_ context.Context, email string, quizID *int64) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return []domain.Attempt{}, nil
	}

	out := make([]domain.Attempt, 0)
	for i := len(s.attempts) - 1; i >= 0; i-- {
		a := s.attempts[i]
		if a.UserID != user.ID || (quizID != nil && a.QuizID != *quizID) {
			continue
		}
		out = append(out, s.decorateLocked(a))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Leaderboard(_ context.Context, quizID int64, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	var attempts []domain.Attempt
	for _, a := range s.attempts {
		if a.QuizID == quizID {
			attempts = append(attempts, s.decorateLocked(a))
		}
	}
	s.mu.RUnlock()

	entries := domain.RankAttempts(attempts)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// UserCount reports how many distinct users exist.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) decorateLocked(a domain.Attempt) domain.Attempt {
	a.QuizTitle = s.quizzes[a.QuizID].Title
	for _, u := range s.users {
		if u.ID == a.UserID {
			a.Username = u.Username
			a.Email = u.Email
			break
		}
	}
	return a
}
