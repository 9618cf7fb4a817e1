package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goaltracker/internal/access"
	"goaltracker/internal/auth"
	"goaltracker/internal/config"
	"goaltracker/internal/handler"
	"goaltracker/internal/middleware"
	"goaltracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	checker := access.NewChecker(participantRepo)
	// Один источник секрета для выдачи и проверки токенов
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiryHours)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, tokens)
	boardHandler := handler.NewBoardHandler(boardRepo, checker)
	participantHandler := handler.NewParticipantHandler(boardRepo, userRepo, participantRepo, checker)
	categoryHandler := handler.NewCategoryHandler(categoryRepo, boardRepo, checker)
	goalHandler := handler.NewGoalHandler(goalRepo, categoryRepo, checker)
	commentHandler := handler.NewCommentHandler(commentRepo, goalRepo, categoryRepo, checker)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// Participant routes
		authorized.GET("/boards/:id/participants", participantHandler.GetAll)
		authorized.PUT("/boards/:id/participants", participantHandler.Upsert)
		authorized.DELETE("/boards/:id/participants/:user_id", participantHandler.Remove)

		// Category routes
		authorized.POST("/categories", categoryHandler.Create)
		authorized.GET("/categories", categoryHandler.GetAll)
		authorized.GET("/categories/:id", categoryHandler.GetByID)
		authorized.PUT("/categories/:id", categoryHandler.Update)
		authorized.DELETE("/categories/:id", categoryHandler.Delete)

		// Goal routes
		authorized.POST("/goals", goalHandler.Create)
		authorized.GET("/goals", goalHandler.GetAll)
		authorized.GET("/goals/:id", goalHandler.GetByID)
		authorized.PUT("/goals/:id", goalHandler.Update)
		authorized.DELETE("/goals/:id", goalHandler.Delete)

		// Comment routes
		authorized.POST("/comments", commentHandler.Create)
		authorized.GET("/comments", commentHandler.GetAll)
		authorized.GET("/comments/:id", commentHandler.GetByID)
		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	databaseURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.New("file://"+cfg.MigrationsPath, databaseURL)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
