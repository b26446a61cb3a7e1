package domain

import "time"

// OptionLetter identifies one of the four answer slots of a question.
type OptionLetter string

const (
	OptionA OptionLetter = "A"
	OptionB OptionLetter = "B"
	OptionC OptionLetter = "C"
	OptionD OptionLetter = "D"
)

// OptionLetters lists the valid letters in display order.
var OptionLetters = [...]OptionLetter{OptionA, OptionB, OptionC, OptionD}

// Valid reports whether l is one of A-D.
func (l OptionLetter) Valid() bool {
	switch l {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// Options holds the four answer texts of a question.
type Options struct {
	A string `json:"A" validate:"required"`
	B string `json:"B" validate:"required"`
	C string `json:"C" validate:"required"`
	D string `json:"D" validate:"required"`
}

// Text returns the option text stored under letter l.
func (o Options) Text(l OptionLetter) (string, bool) {
	switch l {
	case OptionA:
		return o.A, true
	case OptionB:
		return o.B, true
	case OptionC:
		return o.C, true
	case OptionD:
		return o.D, true
	}
	return "", false
}

// Quiz is a named collection of questions.
type Quiz struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      *string   `json:"category"`
	Level         *string   `json:"level"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuizFilter narrows quiz listings; empty fields match everything.
type QuizFilter struct {
	Category string
	Level    string
}

// NewQuiz carries the fields needed to create a quiz.
type NewQuiz struct {
	Title       string
	Description string
	Category    *string
	Level       *string
}

// Question models a multiple-choice item with exactly one correct letter.
type Question struct {
	ID            int64        `json:"id"`
	QuizID        int64        `json:"quiz_id"`
	Text          string       `json:"question_text"`
	Options       Options      `json:"options"`
	CorrectOption OptionLetter `json:"correct_option"`
}

// Public strips the correct option so the question can be shown to quiz takers.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Text: q.Text, Options: q.Options}
}

// PublicQuestion is a question without its answer key.
type PublicQuestion struct {
	ID      int64   `json:"id"`
	Text    string  `json:"question_text"`
	Options Options `json:"options"`
}

// NewQuestion carries the fields needed to add a question to a quiz.
type NewQuestion struct {
	Text          string
	Options       Options
	CorrectOption OptionLetter
}

// Validate checks that every option is filled and the correct letter is A-D.
func (q NewQuestion) Validate() error {
	if q.Text == "" {
		return ErrInvalidQuestion
	}
	for _, l := range OptionLetters {
		if text, _ := q.Options.Text(l); text == "" {
			return ErrInvalidQuestion
		}
	}
	if !q.CorrectOption.Valid() {
		return ErrInvalidOption
	}
	return nil
}

// Identity is the optional user information attached to a submission.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Answer is one (question, selected letter) pair of a submission.
type Answer struct {
	QuestionID     int64        `json:"question_id"`
	SelectedOption OptionLetter `json:"selected_option"`
}

// Submission is the transient set of answers sent by a quiz taker.
type Submission struct {
	Answers []Answer
	User    *Identity
}

// Validate rejects missing ids, letters outside A-D and repeated questions.
func (s Submission) Validate() error {
	seen := make(map[int64]struct{}, len(s.Answers))
	for _, a := range s.Answers {
		if a.QuestionID <= 0 || a.SelectedOption == "" {
			return ErrInvalidAnswer
		}
		if !a.SelectedOption.Valid() {
			return ErrInvalidOption
		}
		if _, dup := seen[a.QuestionID]; dup {
			return ErrDuplicateAnswer
		}
		seen[a.QuestionID] = struct{}{}
	}
	return nil
}

// NotAnswered is shown in review details for skipped questions.
const NotAnswered = "Not answered"

// Detail is the per-question review entry of a scored submission.
type Detail struct {
	QuestionID    int64  `json:"question_id"`
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// Result summarizes a scored submission.
type Result struct {
	TotalQuestions  int      `json:"total_questions"`
	CorrectAnswers  int      `json:"correct_answers"`
	ScorePercentage int      `json:"score_percentage"`
	Details         []Detail `json:"details,omitempty"`
	AttemptID       *int64   `json:"attempt_id,omitempty"`
}

// Attempt is the durable record of one scored submission.
type Attempt struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	QuizID          int64     `json:"quiz_id"`
	QuizTitle       string    `json:"quiz_title"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	TotalQuestions  int       `json:"total_questions"`
	CorrectAnswers  int       `json:"correct_answers"`
	ScorePercentage int       `json:"score_percentage"`
	CreatedAt       time.Time `json:"created_at"`
}

// LeaderboardEntry is one ranked attempt.
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	AttemptID       int64     `json:"attempt_id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	CorrectAnswers  int       `json:"correct_answers"`
	TotalQuestions  int       `json:"total_questions"`
	ScorePercentage int       `json:"score_percentage"`
	CreatedAt       time.Time `json:"created_at"`
}

// Leaderboard captures the ranked attempts for a quiz.
type Leaderboard struct {
	QuizID    int64              `json:"quiz_id"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// User is a quiz taker identified by a unique email.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
