package app

import "quiz-assessment-service/internal/domain"

// Score grades answers against the quiz questions. Answers for questions that
// are not part of the quiz are ignored. Details follow question order.
func Score(questions []domain.Question, answers []domain.Answer, includeDetails bool) (domain.Result, error) {
	if len(questions) == 0 {
		return domain.Result{}, domain.ErrNoQuestions
	}

	selected := make(map[int64]domain.OptionLetter, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedOption
	}

	result := domain.Result{TotalQuestions: len(questions)}
	if includeDetails {
		result.Details = make([]domain.Detail, 0, len(questions))
	}

	for _, q := range questions {
		choice, answered := selected[q.ID]
		correct := answered && choice == q.CorrectOption
		if correct {
			result.CorrectAnswers++
		}
		if !includeDetails {
			continue
		}

		userAnswer := domain.NotAnswered
		if answered {
			if text, ok := q.Options.Text(choice); ok {
				userAnswer = text
			}
		}
		correctAnswer, _ := q.Options.Text(q.CorrectOption)
		result.Details = append(result.Details, domain.Detail{
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			UserAnswer:    userAnswer,
			CorrectAnswer: correctAnswer,
			IsCorrect:     correct,
		})
	}

	result.ScorePercentage = percentage(result.CorrectAnswers, result.TotalQuestions)
	return result, nil
}

// percentage rounds correct/total*100 half up using integer math.
func percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
