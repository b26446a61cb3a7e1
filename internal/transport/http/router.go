package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"quiz-assessment-service/internal/app"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Quizzes        *app.QuizService
	Assessments    *app.AssessmentService
	Store          Pinger
	AllowedOrigins []string
}

// NewRouter mounts every endpoint on a gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(app.JSONFieldName)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	quizHandler := NewQuizHandler(cfg.Quizzes)
	assessmentHandler := NewAssessmentHandler(cfg.Assessments)
	wsHandler := NewWSHandler(cfg.Quizzes)

	r.GET("/health", healthCheck(cfg.Store))

	api := r.Group("/api")
	{
		api.GET("/quizzes", quizHandler.ListQuizzes)
		api.POST("/quizzes", quizHandler.CreateQuiz)
		api.POST("/quizzes/:quizId/questions", quizHandler.AddQuestion)

		api.GET("/quiz/attempts", quizHandler.Attempts)
		api.GET("/quiz/:quizId/questions", quizHandler.Questions)
		api.POST("/quiz/:quizId/submit", quizHandler.Submit)
		api.GET("/quiz/:quizId/leaderboard", quizHandler.Leaderboard)
		api.GET("/quiz/:quizId/leaderboard/live", wsHandler.ServeLeaderboard)

		api.POST("/ai-assessment/generate", assessmentHandler.Generate)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	return cfg
}

func healthCheck(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store != nil {
			if err := store.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "error",
					"error":  "Database connection failed",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Quiz API is running"})
	}
}
