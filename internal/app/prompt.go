package app

import (
	"fmt"
	"strings"

	"quiz-assessment-service/internal/domain"
)

var difficultyFocus = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "fundamentals a beginner is expected to know",
	domain.DifficultyMedium: "intermediate concepts that need some hands-on experience",
	domain.DifficultyHard:   "advanced concepts that need deep knowledge and multi-step reasoning",
}

// BuildPrompt renders the generation prompt. The same request always yields the same prompt.
func BuildPrompt(req domain.GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You write multiple-choice quizzes. Produce %d questions about %q at %s difficulty.\n\n",
		req.QuestionCount, req.Topic, req.Difficulty)
	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "1. Every question targets %s.\n", difficultyFocus[req.Difficulty])
	b.WriteString("2. Every question has exactly four options labelled A, B, C and D.\n")
	b.WriteString("3. Exactly one option is correct.\n")
	b.WriteString("4. Explanations are at most three short sentences.\n")
	b.WriteString("5. Prefer practical, unambiguous questions; no trick questions.\n")
	b.WriteString("6. Keep question and option text short.\n\n")
	b.WriteString("Reply with JSON only, no markdown fences, shaped exactly like:\n")
	b.WriteString(`{
  "questions": [
    {
      "question": "Question text?",
      "options": {"A": "first", "B": "second", "C": "third", "D": "fourth"},
      "correct_answer": "A",
      "explanation": "Why A is right."
    }
  ]
}`)
	b.WriteString("\n\nMake sure the JSON is complete and closed; keep every field brief so the reply is not cut off.\n")
	return b.String()
}
