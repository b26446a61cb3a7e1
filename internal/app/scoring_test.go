package app

import (
	"testing"

	"quiz-assessment-service/internal/domain"
)

func fourQuestions() []domain.Question {
	letters := []domain.OptionLetter{domain.OptionA, domain.OptionB, domain.OptionC, domain.OptionD}
	questions := make([]domain.Question, 0, len(letters))
	for i, l := range letters {
		questions = append(questions, domain.Question{
			ID:            int64(i + 1),
			QuizID:        1,
			Text:          "Question " + string(l),
			Options:       domain.Options{A: "alpha", B: "bravo", C: "charlie", D: "delta"},
			CorrectOption: l,
		})
	}
	return questions
}

func TestScoreCountsMatches(t *testing.T) {
	answers := []domain.Answer{
		{QuestionID: 1, SelectedOption: domain.OptionA},
		{QuestionID: 2, SelectedOption: domain.OptionB},
		{QuestionID: 3, SelectedOption: domain.OptionA},
		{QuestionID: 4, SelectedOption: domain.OptionD},
	}
	result, err := Score(fourQuestions(), answers, false)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.TotalQuestions != 4 || result.CorrectAnswers != 3 || result.ScorePercentage != 75 {
		t.Fatalf("expected 3/4 = 75%%, got %+v", result)
	}
	if result.Details != nil {
		t.Fatalf("expected no details, got %+v", result.Details)
	}
}

func TestScoreAllCorrectAndNoneAnswered(t *testing.T) {
	questions := fourQuestions()
	var all []domain.Answer
	for _, q := range questions {
		all = append(all, domain.Answer{QuestionID: q.ID, SelectedOption: q.CorrectOption})
	}

	perfect, err := Score(questions, all, false)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if perfect.CorrectAnswers != len(questions) || perfect.ScorePercentage != 100 {
		t.Fatalf("expected perfect score, got %+v", perfect)
	}

	empty, err := Score(questions, nil, false)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if empty.CorrectAnswers != 0 || empty.ScorePercentage != 0 {
		t.Fatalf("expected zero score, got %+v", empty)
	}
}

func TestScoreRoundsHalfUp(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13},
		{1, 6, 17},
		{0, 7, 0},
		{7, 7, 100},
	}
	for _, tc := range cases {
		if got := percentage(tc.correct, tc.total); got != tc.want {
			t.Fatalf("percentage(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestScoreDetails(t *testing.T) {
	answers := []domain.Answer{
		{QuestionID: 1, SelectedOption: domain.OptionA},
		{QuestionID: 2, SelectedOption: domain.OptionC},
		{QuestionID: 99, SelectedOption: domain.OptionA},
	}
	result, err := Score(fourQuestions(), answers, true)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(result.Details) != 4 {
		t.Fatalf("expected 4 details, got %d", len(result.Details))
	}

	first := result.Details[0]
	if first.QuestionID != 1 || !first.IsCorrect || first.UserAnswer != "alpha" || first.CorrectAnswer != "alpha" {
		t.Fatalf("unexpected first detail %+v", first)
	}
	second := result.Details[1]
	if second.IsCorrect || second.UserAnswer != "charlie" || second.CorrectAnswer != "bravo" {
		t.Fatalf("unexpected second detail %+v", second)
	}
	third := result.Details[2]
	if third.IsCorrect || third.UserAnswer != domain.NotAnswered || third.CorrectAnswer != "charlie" {
		t.Fatalf("unexpected third detail %+v", third)
	}
	if result.CorrectAnswers != 1 {
		t.Fatalf("expected unknown question ids to be ignored, got %d correct", result.CorrectAnswers)
	}
}

func TestScoreRequiresQuestions(t *testing.T) {
	if _, err := Score(nil, nil, false); err != domain.ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}
