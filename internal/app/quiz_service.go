package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"quiz-assessment-service/internal/domain"
)

const (
	// DefaultLeaderboardLimit is used when the caller does not ask for a size.
	DefaultLeaderboardLimit = 50
	// MaxLeaderboardLimit caps leaderboard responses.
	MaxLeaderboardLimit = 100
)

// QuizStore persists quizzes and questions (Postgres, in-memory, etc).
type QuizStore interface {
	ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error)
	QuizExists(ctx context.Context, quizID int64) (bool, error)
	CreateQuiz(ctx context.Context, quiz domain.NewQuiz) (int64, error)
	AddQuestion(ctx context.Context, quizID int64, question domain.NewQuestion) (int64, error)
	// CreateQuizWithQuestions stores the quiz and its questions atomically.
	CreateQuizWithQuestions(ctx context.Context, quiz domain.NewQuiz, questions []domain.NewQuestion) (int64, error)
}

// QuestionRepository loads quiz questions (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, quizID int64) ([]domain.Question, error)
	Invalidate(ctx context.Context, quizID int64)
}

// AttemptStore is the append-only attempt ledger plus its read models.
type AttemptStore interface {
	UpsertUser(ctx context.Context, identity domain.Identity) (int64, error)
	RecordAttempt(ctx context.Context, userID, quizID int64, result domain.Result) (int64, error)
	AttemptsForUser(ctx context.Context, email string, quizID *int64) ([]domain.Attempt, error)
	Leaderboard(ctx context.Context, quizID int64, limit int) ([]domain.LeaderboardEntry, error)
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	quizzes   QuizStore
	questions QuestionRepository
	attempts  AttemptStore
	hub       *LeaderboardHub
	validate  *validator.Validate
	now       func() time.Time
}

// NewQuizService wires the use cases. A nil hub gets a private one.
func NewQuizService(quizzes QuizStore, questions QuestionRepository, attempts AttemptStore, hub *LeaderboardHub) *QuizService {
	if hub == nil {
		hub = NewLeaderboardHub()
	}
	return &QuizService{
		quizzes:   quizzes,
		questions: questions,
		attempts:  attempts,
		hub:       hub,
		validate:  NewValidator(),
		now:       time.Now,
	}
}

// ListQuizzes returns quiz summaries matching filter.
func (s *QuizService) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzes(ctx, filter)
}

// Questions returns the questions of a quiz without their answer key.
func (s *QuizService) Questions(ctx context.Context, quizID int64) ([]domain.PublicQuestion, error) {
	if err := s.requireQuiz(ctx, quizID); err != nil {
		return nil, err
	}
	questions, err := s.questions.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	public := make([]domain.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	return public, nil
}

// Submit scores a submission and, when it carries an identity, records an attempt.
// Recording is best-effort: failures are logged and the score is still returned.
func (s *QuizService) Submit(ctx context.Context, quizID int64, submission domain.Submission, includeDetails bool) (domain.Result, error) {
	if err := submission.Validate(); err != nil {
		return domain.Result{}, err
	}
	var identity *domain.Identity
	if submission.User != nil {
		normalized, err := s.normalizeIdentity(*submission.User)
		if err != nil {
			return domain.Result{}, err
		}
		identity = &normalized
	}

	if err := s.requireQuiz(ctx, quizID); err != nil {
		return domain.Result{}, err
	}
	questions, err := s.questions.GetQuestions(ctx, quizID)
	if err != nil {
		return domain.Result{}, err
	}
	result, err := Score(questions, submission.Answers, includeDetails)
	if err != nil {
		return domain.Result{}, err
	}

	if identity != nil {
		if attemptID, ok := s.recordAttempt(ctx, quizID, *identity, result); ok {
			result.AttemptID = &attemptID
		}
	}
	return result, nil
}

func (s *QuizService) recordAttempt(ctx context.Context, quizID int64, identity domain.Identity, result domain.Result) (int64, bool) {
	userID, err := s.attempts.UpsertUser(ctx, identity)
	if err != nil {
		log.Printf("upsert user %s: %v", identity.Email, err)
		return 0, false
	}
	attemptID, err := s.attempts.RecordAttempt(ctx, userID, quizID, result)
	if err != nil {
		log.Printf("record attempt quiz=%d user=%d: %v", quizID, userID, err)
		return 0, false
	}
	s.publishLeaderboard(ctx, quizID)
	return attemptID, true
}

func (s *QuizService) publishLeaderboard(ctx context.Context, quizID int64) {
	if !s.hub.HasSubscribers(quizID) {
		return
	}
	lb, err := s.leaderboard(ctx, quizID, DefaultLeaderboardLimit)
	if err != nil {
		log.Printf("refresh live leaderboard quiz=%d: %v", quizID, err)
		return
	}
	s.hub.Publish(lb)
}

// Attempts lists the attempts of the user with email, newest first.
func (s *QuizService) Attempts(ctx context.Context, email string, quizID *int64) ([]domain.Attempt, error) {
	return s.attempts.AttemptsForUser(ctx, normalizeEmail(email), quizID)
}

// Leaderboard ranks the attempts for a quiz.
func (s *QuizService) Leaderboard(ctx context.Context, quizID int64, limit int) (domain.Leaderboard, error) {
	if err := s.requireQuiz(ctx, quizID); err != nil {
		return domain.Leaderboard{}, err
	}
	return s.leaderboard(ctx, quizID, ClampLeaderboardLimit(limit))
}

func (s *QuizService) leaderboard(ctx context.Context, quizID int64, limit int) (domain.Leaderboard, error) {
	entries, err := s.attempts.Leaderboard(ctx, quizID, limit)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return domain.Leaderboard{QuizID: quizID, Entries: entries, UpdatedAt: s.now()}, nil
}

// SubscribeLeaderboard returns a channel that receives the quiz leaderboard now
// and after every recorded attempt. The caller must invoke cancel.
func (s *QuizService) SubscribeLeaderboard(ctx context.Context, quizID int64) (<-chan domain.Leaderboard, func(), error) {
	if err := s.requireQuiz(ctx, quizID); err != nil {
		return nil, nil, err
	}
	ch, cancel, err := s.hub.Subscribe(quizID, func() (domain.Leaderboard, error) {
		return s.leaderboard(ctx, quizID, DefaultLeaderboardLimit)
	})
	if err != nil {
		return nil, nil, err
	}
	return ch, cancel, nil
}

// CreateQuiz stores a new quiz and returns its id.
func (s *QuizService) CreateQuiz(ctx context.Context, quiz domain.NewQuiz) (int64, error) {
	quiz.Title = strings.TrimSpace(quiz.Title)
	if quiz.Title == "" {
		return 0, domain.ErrTitleRequired
	}
	quiz.Description = strings.TrimSpace(quiz.Description)
	return s.quizzes.CreateQuiz(ctx, quiz)
}

// CreateQuizWithQuestions stores a quiz together with its questions. Nothing is
// stored when any question is invalid or the store fails.
func (s *QuizService) CreateQuizWithQuestions(ctx context.Context, quiz domain.NewQuiz, questions []domain.NewQuestion) (int64, error) {
	quiz.Title = strings.TrimSpace(quiz.Title)
	if quiz.Title == "" {
		return 0, domain.ErrTitleRequired
	}
	quiz.Description = strings.TrimSpace(quiz.Description)
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return 0, err
		}
	}
	return s.quizzes.CreateQuizWithQuestions(ctx, quiz, questions)
}

// AddQuestion appends a question to an existing quiz.
func (s *QuizService) AddQuestion(ctx context.Context, quizID int64, question domain.NewQuestion) (int64, error) {
	if err := question.Validate(); err != nil {
		return 0, err
	}
	id, err := s.quizzes.AddQuestion(ctx, quizID, question)
	if err != nil {
		return 0, err
	}
	s.questions.Invalidate(ctx, quizID)
	return id, nil
}

func (s *QuizService) requireQuiz(ctx context.Context, quizID int64) error {
	exists, err := s.quizzes.QuizExists(ctx, quizID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrQuizNotFound
	}
	return nil
}

// ClampLeaderboardLimit maps non-positive limits to the default and caps large ones.
func ClampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

func (s *QuizService) normalizeIdentity(identity domain.Identity) (domain.Identity, error) {
	identity.Username = strings.TrimSpace(identity.Username)
	identity.Email = normalizeEmail(identity.Email)
	if identity.Username == "" {
		return domain.Identity{}, domain.ErrInvalidIdentity
	}
	if err := s.validate.Var(identity.Email, "required,email"); err != nil {
		return domain.Identity{}, domain.ErrInvalidIdentity
	}
	return identity, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
