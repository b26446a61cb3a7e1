package domain

// Difficulty of an AI generated quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// GenerateRequest describes the quiz the caller wants generated.
type GenerateRequest struct {
	Topic         string     `json:"topic" validate:"required,max=200"`
	Difficulty    Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
	QuestionCount int        `json:"questionCount" validate:"required,min=1,max=50"`
}

// GeneratedQuestion mirrors the JSON schema the model is asked to produce.
type GeneratedQuestion struct {
	Question      string       `json:"question" validate:"required"`
	Options       Options      `json:"options"`
	CorrectAnswer OptionLetter `json:"correct_answer" validate:"required,oneof=A B C D"`
	Explanation   string       `json:"explanation" validate:"required"`
}

// GeneratedQuiz is the validated model output.
type GeneratedQuiz struct {
	Questions []GeneratedQuestion `json:"questions" validate:"required,min=1,dive"`
}

// GenerateResult is returned once a generated quiz has been stored.
type GenerateResult struct {
	QuizID    int64               `json:"quizId"`
	Title     string              `json:"title"`
	Questions []GeneratedQuestion `json:"questions"`
}
