package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finn/social-feed-api/internal/api"
	"github.com/finn/social-feed-api/internal/chat"
	"github.com/finn/social-feed-api/internal/config"
	"github.com/finn/social-feed-api/internal/outbox"
	"github.com/finn/social-feed-api/internal/repository/postgres"
	"github.com/finn/social-feed-api/internal/service"
	"github.com/finn/social-feed-api/internal/uploads"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// External service clients
	chatClient := chat.NewClient(cfg.ChatAPIKey, cfg.ChatAPISecret, cfg.ChatBaseURL)
	uploadClient := uploads.NewClient(cfg.UploadAppID, cfg.UploadSecret, cfg.UploadAPIURL)

	// Initialize services
	services := service.NewServices(repos, cfg, chatClient, uploadClient)

	// Start the outbox worker draining pending chat-side writes
	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker := outbox.NewWorker(repos.Outbox, chatClient, cfg.OutboxInterval)
	go worker.Run(workerCtx)

	// Initialize router
	router := api.NewRouter(services, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopWorker()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
