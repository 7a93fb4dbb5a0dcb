// @title Edu Classroom API
// @version 1.0
// @description Course enrollment, progress tracking and an AI tutor for the classroom platform.
// @contact.name API Support
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
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

	_ "edu-classroom/cmd/api/docs"
	"edu-classroom/internal/adapter"
	"edu-classroom/internal/adapter/tutor"
	"edu-classroom/internal/cache"
	"edu-classroom/internal/config"
	"edu-classroom/internal/database"
	"edu-classroom/internal/handler"
	"edu-classroom/internal/logger"
	"edu-classroom/internal/metrics"
	"edu-classroom/internal/middleware"
	"edu-classroom/internal/repository"
	"edu-classroom/internal/service"
	"edu-classroom/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(context.Background(), db.DB, cfg.DB.Driver); err != nil {
			appLogger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		appLogger.Info("Database migrations applied")
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	model, err := tutor.NewModel(cfg.Tutor)
	if err != nil {
		appLogger.Fatal("Failed to create tutor model", zap.Error(err))
	}
	aiTutor := tutor.NewLLMTutor(model, cfg.Tutor)
	appLogger.Info("AI tutor initialized", zap.String("provider", cfg.Tutor.Provider), zap.String("model", cfg.Tutor.Model))

	// Repositories
	txManager := repository.NewTransactionManagerAdapter(db)
	userRepo := repository.NewSQLXUserRepository(db)
	courseRepo := repository.NewCourseDatabaseAdapter(db)
	lessonRepo := repository.NewLessonDatabaseAdapter(db)
	enrollmentRepo := repository.NewEnrollmentDatabaseAdapter(db)
	progressRepo := repository.NewProgressDatabaseAdapter(db)
	conversationRepo := repository.NewConversationDatabaseAdapter(db)

	// Services
	validator := validation.NewValidator()
	authService, err := service.NewAuthService(userRepo, cacheAdapter, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(txManager, userRepo, enrollmentRepo, progressRepo, conversationRepo, conversationRepo)
	courseService := service.NewCourseService(txManager, courseRepo, lessonRepo, enrollmentRepo, progressRepo, cacheAdapter, cfg)
	enrollmentService := service.NewEnrollmentService(txManager, userRepo, courseRepo, lessonRepo, enrollmentRepo, progressRepo, validator)
	progressService := service.NewProgressService(txManager, progressRepo, courseRepo, lessonRepo, validator)
	conversationService := service.NewConversationService(txManager, conversationRepo, conversationRepo, aiTutor)

	body := middleware.NewBodyParser(validator)
	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService, body),
		User:         handler.NewUserHandler(userService, body),
		Course:       handler.NewCourseHandler(courseService, body),
		Enrollment:   handler.NewEnrollmentHandler(enrollmentService, body),
		Progress:     handler.NewProgressHandler(progressService, body),
		Conversation: handler.NewConversationHandler(conversationService, body),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	metrics.Init()
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(middleware.RequestMetrics())
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app.Group("/api"), handlers, authService)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
