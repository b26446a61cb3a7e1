package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/config"
	"quiz-assessment-service/internal/infra/gemini"
	"quiz-assessment-service/internal/infra/memory"
	"quiz-assessment-service/internal/infra/postgres"
	rediscache "quiz-assessment-service/internal/infra/redis"
	transport "quiz-assessment-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// storage bundles whichever backend the config selected.
type storage struct {
	quizzes  app.QuizStore
	attempts app.AttemptStore
	loader   memory.QuestionLoader
	pinger   transport.Pinger
	close    func()
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	questionTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = rediscache.NewQuestionCache(redisClient, store.loader, questionTTL)
	} else {
		questions = memory.NewQuestionCache(store.loader, questionTTL)
	}

	quizService := app.NewQuizService(store.quizzes, questions, store.attempts, app.NewLeaderboardHub())

	var generator app.Generator
	if cfg.AI.APIKey != "" {
		gen, err := gemini.NewGenerator(ctx, gemini.Config{APIKey: cfg.AI.APIKey, Model: cfg.AI.Model})
		if err != nil {
			return err
		}
		generator = gen
	} else {
		log.Printf("ai api key not configured; quiz generation disabled")
	}
	assessments := app.NewAssessmentService(generator, quizService, app.AssessmentConfig{
		Timeout:         config.TTLDuration(cfg.AI.Timeout, 60*time.Second),
		MaxOutputTokens: cfg.AI.MaxOutputTokens,
		MaxRetries:      cfg.AI.MaxRetries,
	})

	router := transport.NewRouter(transport.RouterConfig{
		Quizzes:        quizService,
		Assessments:    assessments,
		Store:          store.pinger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Generation requests may run for the whole ai timeout.
	writeTimeout := config.TTLDuration(cfg.AI.Timeout, 60*time.Second) + 15*time.Second
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStorage(ctx context.Context, cfg config.Config) (storage, error) {
	if cfg.Postgres.URL == "" {
		log.Printf("postgres url not configured; using in-memory store")
		mem := memory.NewStore()
		return storage{quizzes: mem, attempts: mem, loader: mem, pinger: mem, close: func() {}}, nil
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return storage{}, err
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return storage{}, err
	}
	pg := postgres.NewStore(pool)
	return storage{quizzes: pg, attempts: pg, loader: pg, pinger: pg, close: pool.Close}, nil
}
