package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mathquest/internal/config"
	"mathquest/internal/database"
	"mathquest/internal/handlers"
	"mathquest/internal/repository"
	"mathquest/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed demo data when requested
	if cfg.SeedDemo {
		if err := service.NewSeedService(db).EnsureDemoData(); err != nil {
			log.Printf("Warning: Failed to seed demo data: %v", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	// Initialize services
	lessonService := service.NewLessonService(userRepo, lessonRepo, progressRepo)
	submissionService := service.NewSubmissionService(userRepo, lessonRepo, progressRepo, submissionRepo, cfg.XPPerCorrect)

	// Initialize handlers
	lessonHandler := handlers.NewLessonHandler(db, lessonService, submissionService)
	profileHandler := handlers.NewProfileHandler(lessonService)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handlers.Health)
	mux.HandleFunc("GET /api/lessons", lessonHandler.ListLessons)
	mux.HandleFunc("GET /api/lessons/{id}", lessonHandler.GetLesson)
	mux.HandleFunc("POST /api/lessons/{id}/submit", lessonHandler.Submit)
	mux.HandleFunc("GET /api/profile", profileHandler.GetProfile)

	// Wrap with middleware
	handler := handlers.Logging(handlers.CORS(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
