package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	anatomyHandlers "github.com/medikahub/medika-backend/internal/anatomy/handlers"
	calculatorHandlers "github.com/medikahub/medika-backend/internal/calculators/handlers"
	"github.com/medikahub/medika-backend/internal/common/database"
	"github.com/medikahub/medika-backend/internal/common/health"
	"github.com/medikahub/medika-backend/internal/common/metrics"
	"github.com/medikahub/medika-backend/internal/common/middleware"
	exerciseHandlers "github.com/medikahub/medika-backend/internal/exercises/handlers"
	flashcardHandlers "github.com/medikahub/medika-backend/internal/flashcards/handlers"
	flashcardServices "github.com/medikahub/medika-backend/internal/flashcards/services"
	"github.com/medikahub/medika-backend/internal/live"
	reminderHandlers "github.com/medikahub/medika-backend/internal/reminders/handlers"
	reminderServices "github.com/medikahub/medika-backend/internal/reminders/services"
	"github.com/medikahub/medika-backend/pkg/config"
	"github.com/medikahub/medika-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database (SQLite for development, PostgreSQL for production)
	if err := database.InitWithType(cfg.Database.Type, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Live session feed hub
	hub := live.NewHub()
	flashcardServices.SetLiveHub(hub)

	// Daily reminder refresh
	if cfg.Reminders.Enabled {
		reminderScheduler := reminderServices.NewScheduler(cfg.Reminders)
		if err := reminderScheduler.Start(); err != nil {
			log.Fatalf("Failed to start reminder scheduler: %v", err)
		}
		defer reminderScheduler.Stop()
	}

	// Create Gin engine. gin.New over gin.Default: the access log and
	// panic recovery come from our own middleware.
	router := gin.New()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.ErrorHandler())

	// Health and metrics endpoints
	healthChecker := health.NewChecker(database.GetDB())
	router.GET("/health", healthChecker.Handler())
	router.GET("/metrics", metrics.Handler())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		flashcardGroup := v1.Group("/flashcards")
		{
			flashcardGroup.GET("/decks", flashcardHandlers.ListDecks)
			flashcardGroup.POST("/decks", middleware.AuthRequired(), flashcardHandlers.CreateDeck)
			flashcardGroup.GET("/decks/:id", flashcardHandlers.GetDeck)
			flashcardGroup.DELETE("/decks/:id", middleware.AuthRequired(), flashcardHandlers.DeleteDeck)
			flashcardGroup.POST("/decks/:id/cards", middleware.AuthRequired(), flashcardHandlers.AddCard)
			flashcardGroup.POST("/decks/:id/import", middleware.AuthRequired(), flashcardHandlers.ImportDeck)
			flashcardGroup.GET("/decks/:id/start", middleware.AuthRequired(), flashcardHandlers.StartDeck)
			flashcardGroup.POST("/decks/:id/sessions", middleware.AuthRequired(), flashcardHandlers.StartSession)
			flashcardGroup.GET("/sessions/:token", middleware.AuthRequired(), flashcardHandlers.GetSession)
			flashcardGroup.POST("/answers", middleware.AuthRequired(), flashcardHandlers.SubmitAnswer)
		}

		anatomyGroup := v1.Group("/anatomy")
		{
			anatomyGroup.GET("/quizzes", anatomyHandlers.ListQuizzes)
			anatomyGroup.POST("/quizzes", middleware.AuthRequired(), anatomyHandlers.CreateQuiz)
			anatomyGroup.POST("/quizzes/:id/questions", middleware.AuthRequired(), anatomyHandlers.AddQuestion)
			anatomyGroup.GET("/quizzes/:id/start", middleware.AuthRequired(), anatomyHandlers.StartQuiz)
			anatomyGroup.GET("/quizzes/:id/stats", middleware.AuthRequired(), anatomyHandlers.QuizStats)
			anatomyGroup.POST("/answers", middleware.AuthRequired(), anatomyHandlers.SubmitAnswer)
		}

		exerciseGroup := v1.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandlers.ListExercises)
			exerciseGroup.POST("", middleware.AuthRequired(), exerciseHandlers.CreateExercise)
			exerciseGroup.POST("/:id/questions", middleware.AuthRequired(), exerciseHandlers.AddQuestion)
			exerciseGroup.GET("/:id/start", middleware.AuthRequired(), exerciseHandlers.StartExercise)
			exerciseGroup.GET("/:id/stats", middleware.AuthRequired(), exerciseHandlers.ExerciseStats)
			exerciseGroup.POST("/answers", middleware.AuthRequired(), exerciseHandlers.SubmitChoice)
		}

		calculatorGroup := v1.Group("/calculators")
		{
			calculatorGroup.GET("", calculatorHandlers.ListTopics)
			calculatorGroup.POST("", middleware.AuthRequired(), calculatorHandlers.CreateTopic)
			calculatorGroup.GET("/:id", calculatorHandlers.GetTopic)
			calculatorGroup.DELETE("/:id", middleware.AuthRequired(), calculatorHandlers.DeleteTopic)
			calculatorGroup.POST("/:id/evaluate", calculatorHandlers.Evaluate)
		}

		v1.GET("/reminders", middleware.AuthRequired(), reminderHandlers.GetReminder)

		// WebSocket feed: a second device follows a study session live.
		v1.GET("/live/sessions/:token", live.SessionFeed(hub))
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting medika server", zap.String("address", address))

	if err := router.Run(address); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
