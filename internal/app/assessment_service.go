package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"

	"quiz-assessment-service/internal/domain"
)

// GenerationLimits bounds a single completion request.
type GenerationLimits struct {
	MaxOutputTokens int32
}

// Generator produces raw text for a prompt. Implementations return
// domain.ErrGenerationTruncated when the output hit the token limit.
type Generator interface {
	Generate(ctx context.Context, prompt string, limits GenerationLimits) (string, error)
}

// QuizAuthor stores a generated quiz with all of its questions, or nothing at
// all; *QuizService satisfies it.
type QuizAuthor interface {
	CreateQuizWithQuestions(ctx context.Context, quiz domain.NewQuiz, questions []domain.NewQuestion) (int64, error)
}

// AssessmentConfig tunes the upstream call.
type AssessmentConfig struct {
	Timeout         time.Duration
	MaxOutputTokens int32
	MaxRetries      uint64
	InitialBackoff  time.Duration
}

// AssessmentService turns a topic into a stored quiz via a Generator.
type AssessmentService struct {
	generator Generator
	author    QuizAuthor
	cfg       AssessmentConfig
	validate  *validator.Validate
}

// NewAssessmentService wires generation. generator may be nil, in which case
// every request fails with domain.ErrGeneratorUnavailable.
func NewAssessmentService(generator Generator, author QuizAuthor, cfg AssessmentConfig) *AssessmentService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 26384
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	return &AssessmentService{
		generator: generator,
		author:    author,
		cfg:       cfg,
		validate:  NewValidator(),
	}
}

// Generate asks the model for a quiz, validates the answer and stores it as a new quiz.
func (s *AssessmentService) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if err := s.validate.Struct(req); err != nil {
		return domain.GenerateResult{}, fmt.Errorf("%w: %s", domain.ErrInvalidGenerateRequest, ValidationMessage(err, err.Error()))
	}
	if s.generator == nil {
		return domain.GenerateResult{}, domain.ErrGeneratorUnavailable
	}

	text, err := s.complete(ctx, BuildPrompt(req))
	if err != nil {
		return domain.GenerateResult{}, err
	}
	generated, err := s.parse(text)
	if err != nil {
		return domain.GenerateResult{}, err
	}
	if len(generated.Questions) > req.QuestionCount {
		generated.Questions = generated.Questions[:req.QuestionCount]
	}
	return s.store(ctx, req, generated)
}

func (s *AssessmentService) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.cfg.InitialBackoff
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, s.cfg.MaxRetries), ctx)

	var text string
	err := backoff.Retry(func() error {
		out, err := s.generator.Generate(ctx, prompt, GenerationLimits{MaxOutputTokens: s.cfg.MaxOutputTokens})
		if err != nil {
			if errors.Is(err, domain.ErrGenerationTruncated) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			log.Printf("quiz generation attempt failed: %v", err)
			return err
		}
		text = out
		return nil
	}, retry)

	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, domain.ErrGenerationTruncated):
		return "", err
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", domain.ErrGenerationTimeout
	default:
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
}

func (s *AssessmentService) parse(text string) (domain.GeneratedQuiz, error) {
	cleaned := StripCodeFence(text)
	if cleaned == "" {
		return domain.GeneratedQuiz{}, domain.ErrGenerationInvalidJSON
	}
	if !strings.HasSuffix(cleaned, "}") && !strings.HasSuffix(cleaned, "]") {
		return domain.GeneratedQuiz{}, domain.ErrGenerationTruncated
	}

	var quiz domain.GeneratedQuiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return domain.GeneratedQuiz{}, fmt.Errorf("%w: %v", domain.ErrGenerationInvalidJSON, err)
	}
	if err := s.validate.Struct(quiz); err != nil {
		return domain.GeneratedQuiz{}, fmt.Errorf("%w: %s", domain.ErrGenerationValidation, ValidationMessage(err, err.Error()))
	}
	return quiz, nil
}

func (s *AssessmentService) store(ctx context.Context, req domain.GenerateRequest, generated domain.GeneratedQuiz) (domain.GenerateResult, error) {
	title := "AI Assessment: " + req.Topic
	category := "ai"
	level := string(req.Difficulty)

	questions := make([]domain.NewQuestion, 0, len(generated.Questions))
	for _, q := range generated.Questions {
		questions = append(questions, domain.NewQuestion{
			Text:          q.Question,
			Options:       q.Options,
			CorrectOption: q.CorrectAnswer,
		})
	}

	quizID, err := s.author.CreateQuizWithQuestions(ctx, domain.NewQuiz{
		Title:       title,
		Description: fmt.Sprintf("AI generated %s quiz about %s", req.Difficulty, req.Topic),
		Category:    &category,
		Level:       &level,
	}, questions)
	if err != nil {
		return domain.GenerateResult{}, fmt.Errorf("store generated quiz: %w", err)
	}
	return domain.GenerateResult{QuizID: quizID, Title: title, Questions: generated.Questions}, nil
}

// StripCodeFence removes a surrounding ``` or ```json fence if present.
func StripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimPrefix(cleaned, "json")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
