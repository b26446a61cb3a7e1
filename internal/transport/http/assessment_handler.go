package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/domain"
)

type AssessmentHandler struct {
	service *app.AssessmentService
}

func NewAssessmentHandler(service *app.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// generateRequest is only shape-checked here; AssessmentService validates the values.
type generateRequest struct {
	Topic         string `json:"topic"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
}

// Generate handles POST /api/ai-assessment/generate
func (h *AssessmentHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), domain.GenerateRequest{
		Topic:         req.Topic,
		Difficulty:    domain.Difficulty(req.Difficulty),
		QuestionCount: req.QuestionCount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
