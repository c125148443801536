package main

import (
	"context"
	"errors"
	"fitnote/planner/internal/api"
	"fitnote/planner/internal/catalog"
	"fitnote/planner/internal/config"
	"fitnote/planner/internal/service"
	"fitnote/planner/internal/storage"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title FitNote Planner API
// @version 1.0
// @description Workout catalog and a single editable workout plan.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting FitNote Planner Server...")
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables")
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("FATAL: JWT_SECRET is not set")
	}
	log.Println("Configuration loaded.")

	// --- Storage ---
	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("FATAL: Could not open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer func() {
		log.Println("Closing storage...")
		if err := backend.Close(); err != nil {
			log.Printf("ERROR: Failed to close storage: %v", err)
		}
	}()
	// Only the S3 backend can hand out download links for the plan document.
	presigner, _ := backend.Store.(storage.Presigner)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	workoutCatalog := catalog.Default()
	planStore := service.NewPlanStore(backend.Store, cfg.Storage.Timeout)
	planService := service.NewPlanService(context.Background(), planStore, workoutCatalog)
	authService := service.NewAuthService(backend.Store, cfg.Auth, cfg.JWT.Secret, cfg.JWT.Expiration)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, authService, planService, workoutCatalog, presigner)

	// --- Start HTTP Server ---
	// No WriteTimeout: /plan/events is a long-lived stream. Streams end when
	// their request context does, so shutdown cancels the base context.
	baseCtx, stopStreams := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(stopStreams)

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
