package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/domain"
)

type QuizHandler struct {
	service *app.QuizService
}

func NewQuizHandler(service *app.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

type answerRequest struct {
	QuestionID     int64  `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

type identityRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

type submitRequest struct {
	Answers *[]answerRequest `json:"answers"`
	User    *identityRequest `json:"user"`
}

type createQuizRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
	Level       *string `json:"level"`
}

type addQuestionRequest struct {
	QuestionText  string `json:"question_text" binding:"required"`
	OptionA       string `json:"option_a" binding:"required"`
	OptionB       string `json:"option_b" binding:"required"`
	OptionC       string `json:"option_c" binding:"required"`
	OptionD       string `json:"option_d" binding:"required"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=A B C D"`
}

// ListQuizzes handles GET /api/quizzes?category=&level=
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.service.ListQuizzes(c.Request.Context(), domain.QuizFilter{
		Category: c.Query("category"),
		Level:    c.Query("level"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

// Questions handles GET /api/quiz/:quizId/questions and never exposes the answer key.
func (h *QuizHandler) Questions(c *gin.Context) {
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}
	questions, err := h.service.Questions(c.Request.Context(), quizID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// Submit handles POST /api/quiz/:quizId/submit?details=true|false
func (h *QuizHandler) Submit(c *gin.Context) {
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidIdentity.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission format"})
		return
	}
	if req.Answers == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission format"})
		return
	}

	submission := domain.Submission{Answers: make([]domain.Answer, 0, len(*req.Answers))}
	for _, a := range *req.Answers {
		submission.Answers = append(submission.Answers, domain.Answer{
			QuestionID:     a.QuestionID,
			SelectedOption: domain.OptionLetter(a.SelectedOption),
		})
	}
	if req.User != nil {
		submission.User = &domain.Identity{Username: req.User.Username, Email: req.User.Email}
	}

	result, err := h.service.Submit(c.Request.Context(), quizID, submission, c.Query("details") == "true")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Attempts handles GET /api/quiz/attempts?email=&quizId=
func (h *QuizHandler) Attempts(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	var quizID *int64
	if raw := c.Query("quizId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
			return
		}
		quizID = &id
	}

	attempts, err := h.service.Attempts(c.Request.Context(), email, quizID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

// Leaderboard handles GET /api/quiz/:quizId/leaderboard?limit=
func (h *QuizHandler) Leaderboard(c *gin.Context) {
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = app.DefaultLeaderboardLimit
	}

	lb, err := h.service.Leaderboard(c.Request.Context(), quizID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lb)
}

// CreateQuiz handles POST /api/quizzes
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": app.ValidationMessage(err, "Invalid quiz format")})
		return
	}

	id, err := h.service.CreateQuiz(c.Request.Context(), domain.NewQuiz{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Level:       req.Level,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// AddQuestion handles POST /api/quizzes/:quizId/questions
func (h *QuizHandler) AddQuestion(c *gin.Context) {
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}
	var req addQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": app.ValidationMessage(err, "Invalid question format")})
		return
	}

	id, err := h.service.AddQuestion(c.Request.Context(), quizID, domain.NewQuestion{
		Text: req.QuestionText,
		Options: domain.Options{
			A: req.OptionA,
			B: req.OptionB,
			C: req.OptionC,
			D: req.OptionD,
		},
		CorrectOption: domain.OptionLetter(req.CorrectOption),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// quizIDParam parses :quizId, answering 400 itself when it is not a positive integer.
func quizIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("quizId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return 0, false
	}
	return id, true
}
