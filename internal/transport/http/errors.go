package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-assessment-service/internal/domain"
)

var badRequestErrors = []error{
	domain.ErrInvalidAnswer,
	domain.ErrInvalidOption,
	domain.ErrDuplicateAnswer,
	domain.ErrInvalidQuestion,
	domain.ErrTitleRequired,
	domain.ErrInvalidIdentity,
	domain.ErrInvalidGenerateRequest,
}

// writeError maps domain errors to status codes. Unknown errors become a
// generic 500 so internals never reach the client.
func writeError(c *gin.Context, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
	case errors.Is(err, domain.ErrNoQuestions):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": domain.ErrNoQuestions.Error()})
	case errors.Is(err, domain.ErrGenerationValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrGenerationTruncated):
		c.JSON(http.StatusBadGateway, gin.H{"error": domain.ErrGenerationTruncated.Error()})
	case errors.Is(err, domain.ErrGenerationInvalidJSON):
		c.JSON(http.StatusBadGateway, gin.H{"error": domain.ErrGenerationInvalidJSON.Error()})
	case errors.Is(err, domain.ErrGenerationTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": domain.ErrGenerationTimeout.Error()})
	case errors.Is(err, domain.ErrGenerationFailed):
		log.Printf("quiz generation failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrGenerationFailed.Error()})
	case errors.Is(err, domain.ErrGeneratorUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrGeneratorUnavailable.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
