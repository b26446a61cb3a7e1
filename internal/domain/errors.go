package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions is returned when scoring a quiz that has no questions.
	ErrNoQuestions = errors.New("no questions found for this quiz")
	// ErrInvalidAnswer indicates an answer without question_id or selected_option.
	ErrInvalidAnswer = errors.New("each answer must have question_id and selected_option")
	// ErrInvalidOption indicates an option letter outside A-D.
	ErrInvalidOption = errors.New("invalid option selected")
	// ErrDuplicateAnswer indicates the same question was answered twice in one submission.
	ErrDuplicateAnswer = errors.New("duplicate answer for the same question")
	// ErrInvalidQuestion indicates a question with missing text or options.
	ErrInvalidQuestion = errors.New("question text and all four options are required")
	// ErrTitleRequired is returned when creating a quiz without a title.
	ErrTitleRequired = errors.New("quiz title is required")
	// ErrInvalidIdentity indicates a submission user without username or email.
	ErrInvalidIdentity = errors.New("user must include username and a valid email")
)

// Quiz generation failures, one per phase.
var (
	ErrGeneratorUnavailable   = errors.New("AI generation is not configured")
	ErrGenerationFailed       = errors.New("failed to generate quiz questions")
	ErrGenerationTimeout      = errors.New("AI generation timed out")
	ErrGenerationTruncated    = errors.New("AI response was truncated - try requesting fewer questions")
	ErrGenerationInvalidJSON  = errors.New("invalid JSON response from AI - response may be truncated")
	ErrGenerationValidation   = errors.New("AI response validation failed")
	ErrInvalidGenerateRequest = errors.New("invalid generation request")
)
