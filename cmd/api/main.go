// @title TrainHub API
// @version 1.0
// @description Quiz-taking and scoring API for the hotel staff training portal.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"trainhub/internal/adapter"
	"trainhub/internal/cache"
	"trainhub/internal/config"
	"trainhub/internal/database"
	"trainhub/internal/handler"
	"trainhub/internal/logger"
	"trainhub/internal/middleware"
	"trainhub/internal/repository"
	"trainhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	progressRepository := repository.NewSQLXProgressRepository(db)
	certificateRepository := repository.NewSQLXCertificateRepository(db)

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize services
	quizCacheService := service.NewQuizCacheService(quizRepository, cacheAdapter, cfg.Cache.QuizTTL)
	certificateTrigger := service.NewCertificateTrigger(certificateRepository)
	sessionService := service.NewSessionService(quizCacheService, progressRepository, certificateTrigger)
	progressService := service.NewProgressService(progressRepository)
	authService := service.NewAuthService(cfg)
	appLogger.Info("Services initialized")

	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()
	sessionService.StartJanitor(janitorCtx)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	quizHandler := handler.NewQuizHandler(quizCacheService, progressService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// Swagger handler
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group, all routes protected
	apiGroup := app.Group("/api", middleware.Protected(authService))

	apiGroup.Post("/sessions", sessionHandler.StartSession)
	apiGroup.Get("/sessions/:id", sessionHandler.GetSession)
	apiGroup.Get("/sessions/:id/questions/:index", sessionHandler.GetQuestion)
	apiGroup.Put("/sessions/:id/answers/:question_id", sessionHandler.SetAnswer)
	apiGroup.Put("/sessions/:id/position", sessionHandler.Navigate)
	apiGroup.Post("/sessions/:id/submit", sessionHandler.Submit)
	apiGroup.Get("/sessions/:id/result", sessionHandler.GetResult)
	apiGroup.Delete("/sessions/:id", sessionHandler.Abandon)

	apiGroup.Get("/quizzes/:id", quizHandler.GetQuizSummary)
	apiGroup.Get("/progress", quizHandler.GetMyProgress)
	apiGroup.Get("/progress/:content_id", quizHandler.GetMyProgressForContent)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
