package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-assessment-service/internal/domain"
)

const foreignKeyViolation = "23503"

// Store implements app.QuizStore and app.AttemptStore on Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.id, q.title, q.description, q.category, q.level, q.created_at, COUNT(qs.id)
		FROM quizzes q
		LEFT JOIN questions qs ON qs.quiz_id = q.id
		WHERE ($1::text = '' OR q.category = $1) AND ($2::text = '' OR q.level = $2)
		GROUP BY q.id
		ORDER BY q.id`, filter.Category, filter.Level)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]domain.Quiz, 0)
	for rows.Next() {
		var q domain.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Category, &q.Level, &q.CreatedAt, &q.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (s *Store) QuizExists(ctx context.Context, quizID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quizzes WHERE id=$1)`, quizID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check quiz: %w", err)
	}
	return exists, nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (s *Store) CreateQuiz(ctx context.Context, quiz domain.NewQuiz) (int64, error) {
	return insertQuiz(ctx, s.pool, quiz)
}

func (s *Store) AddQuestion(ctx context.Context, quizID int64, question domain.NewQuestion) (int64, error) {
	return insertQuestion(ctx, s.pool, quizID, question)
}

// CreateQuizWithQuestions inserts the quiz and its questions in one transaction.
func (s *Store) CreateQuizWithQuestions(ctx context.Context, quiz domain.NewQuiz, questions []domain.NewQuestion) (int64, error) {
	var quizID int64
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		id, err := insertQuiz(ctx, tx, quiz)
		if err != nil {
			return err
		}
		for _, q := range questions {
			if _, err := insertQuestion(ctx, tx, id, q); err != nil {
				return err
			}
		}
		quizID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return quizID, nil
}

func insertQuiz(ctx context.Context, q querier, quiz domain.NewQuiz) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO quizzes (title, description, category, level)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, quiz.Title, quiz.Description, quiz.Category, quiz.Level).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert quiz: %w", err)
	}
	return id, nil
}

func insertQuestion(ctx context.Context, q querier, quizID int64, question domain.NewQuestion) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO questions (quiz_id, question_text, option_a, option_b, option_c, option_d, correct_option)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		quizID, question.Text,
		question.Options.A, question.Options.B, question.Options.C, question.Options.D,
		string(question.CorrectOption),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrQuizNotFound
		}
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

// LoadQuestions returns the questions of a quiz in insertion order.
func (s *Store) LoadQuestions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, quiz_id, question_text, option_a, option_b, option_c, option_d, correct_option
		FROM questions
		WHERE quiz_id=$1
		ORDER BY id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var (
			q       domain.Question
			correct string
		)
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.Options.A, &q.Options.B, &q.Options.C, &q.Options.D, &correct); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.CorrectOption = domain.OptionLetter(correct)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// UpsertUser inserts the user or, when the email already exists, refreshes the
// username. The unique email constraint makes concurrent first submissions safe.
func (s *Store) UpsertUser(ctx context.Context, identity domain.Identity) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, username)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id`, identity.Email, identity.Username).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}
	return id, nil
}

func (s *Store) RecordAttempt(ctx context.Context, userID, quizID int64, result domain.Result) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO attempts (user_id, quiz_id, total_questions, correct_answers, score_percentage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		userID, quizID, result.TotalQuestions, result.CorrectAnswers, result.ScorePercentage,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrQuizNotFound
		}
		return 0, fmt.Errorf("insert attempt: %w", err)
	}
	return id, nil
}

func (s *Store) AttemptsForUser(ctx context.Context, email string, quizID *int64) ([]domain.Attempt, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.user_id, a.quiz_id, q.title, u.username, u.email,
		       a.total_questions, a.correct_answers, a.score_percentage, a.created_at
		FROM attempts a
		JOIN users u ON u.id = a.user_id
		JOIN quizzes q ON q.id = a.quiz_id
		WHERE u.email = $1 AND ($2::bigint IS NULL OR a.quiz_id = $2)
		ORDER BY a.created_at DESC, a.id DESC`, email, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]domain.Attempt, 0)
	for rows.Next() {
		var a domain.Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.QuizTitle, &a.Username, &a.Email,
			&a.TotalQuestions, &a.CorrectAnswers, &a.ScorePercentage, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// Leaderboard ranks attempts by score with dense ranks; ties go to the earlier attempt.
func (s *Store) Leaderboard(ctx context.Context, quizID int64, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DENSE_RANK() OVER (ORDER BY a.score_percentage DESC),
		       a.id, u.username, u.email, a.correct_answers, a.total_questions, a.score_percentage, a.created_at
		FROM attempts a
		JOIN users u ON u.id = a.user_id
		WHERE a.quiz_id = $1
		ORDER BY a.score_percentage DESC, a.created_at ASC, a.id ASC
		LIMIT $2`, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.Rank, &e.AttemptID, &e.Username, &e.Email,
			&e.CorrectAnswers, &e.TotalQuestions, &e.ScorePercentage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
