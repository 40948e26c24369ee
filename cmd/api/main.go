package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/smarthealthplus/wellness-service/internal/adapters/handler"
	"github.com/smarthealthplus/wellness-service/internal/adapters/middleware"
	"github.com/smarthealthplus/wellness-service/internal/adapters/repository"
	"github.com/smarthealthplus/wellness-service/internal/config"
	"github.com/smarthealthplus/wellness-service/internal/core/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database with retry logic
	db, err := config.ConnectDatabase(cfg.DatabaseURL, 5, 2*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize database schema
	if err := config.InitDatabase(db); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Initialize RabbitMQ dispatcher for reminder delivery
	reminderDispatcher, err := repository.NewRabbitMQDispatcher(cfg.RabbitMQURL, cfg.ReminderQueueName)
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ dispatcher: %v", err)
	}
	defer reminderDispatcher.Close()

	// Initialize repositories
	sqlRepo := repository.NewSQLRepository(db)

	// Initialize services
	healthService := services.NewHealthService(sqlRepo)
	cycleService := services.NewCycleService(sqlRepo)
	reminderService := services.NewReminderService(sqlRepo, reminderDispatcher)
	feedbackService := services.NewFeedbackService(sqlRepo)
	adminService := services.NewAdminService(sqlRepo, sqlRepo, sqlRepo)

	// Initialize RabbitMQ consumer for user provisioning
	// This consumer runs in the same pod as the wellness-service and mirrors
	// account records published by the identity-service via RabbitMQ
	userConsumer, err := repository.NewUserConsumer(cfg.RabbitMQURL, cfg.UserQueueName, sqlRepo)
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ user consumer: %v", err)
	}
	defer userConsumer.Close()

	// Start user consumer in background goroutine (non-blocking)
	// The consumer will process messages asynchronously while the HTTP server runs
	// Note: In multi-replica deployments, each replica will have its own consumer,
	// and RabbitMQ will distribute messages across replicas using round-robin
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	go func() {
		if err := userConsumer.StartConsuming(consumerCtx); err != nil {
			log.Printf("User consumer error: %v", err)
		}
	}()
	log.Println("User consumer started in background, listening for provisioning events")

	// Initialize handlers
	wellnessHandler := handler.NewWellnessHandler(healthService)
	cycleHandler := handler.NewCycleHandler(cycleService)
	reminderHandler := handler.NewReminderHandler(reminderService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	adminHandler := handler.NewAdminHandler(adminService)
	healthHandler := handler.NewHealthHandler(db)

	// Initialize JWT middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey)
	defer authMiddleware.Stop()

	// Setup HTTP router
	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible, no auth required)
	mux.HandleFunc("GET /metrics", handler.Metrics)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)

	// Health data endpoints (require authentication)
	mux.HandleFunc("POST /health-data", authMiddleware.RequireAuth(wellnessHandler.SaveHealthData))
	mux.HandleFunc("GET /health-data/score", authMiddleware.RequireAuth(wellnessHandler.GetTodayScore))
	mux.HandleFunc("GET /health-data/goal", authMiddleware.RequireAuth(wellnessHandler.GetGoal))
	mux.HandleFunc("GET /health-data/recommendation", authMiddleware.RequireAuth(wellnessHandler.GetRecommendation))
	mux.HandleFunc("GET /health-data/summary", authMiddleware.RequireAuth(wellnessHandler.GetSummary))

	// Cycle tracking endpoints (require authentication, female profile enforced in service)
	mux.HandleFunc("POST /periods", authMiddleware.RequireAuth(cycleHandler.SavePeriod))
	mux.HandleFunc("GET /periods", authMiddleware.RequireAuth(cycleHandler.ListPeriods))
	mux.HandleFunc("GET /periods/current", authMiddleware.RequireAuth(cycleHandler.GetCurrentStatus))
	mux.HandleFunc("GET /periods/chart", authMiddleware.RequireAuth(cycleHandler.GetChart))
	mux.HandleFunc("PUT /periods/{period_id}", authMiddleware.RequireAuth(cycleHandler.UpdatePeriod))
	mux.HandleFunc("DELETE /periods/{period_id}", authMiddleware.RequireAuth(cycleHandler.DeletePeriod))

	// Reminder endpoints (require authentication)
	mux.HandleFunc("POST /reminders", authMiddleware.RequireAuth(reminderHandler.CreateReminder))
	mux.HandleFunc("GET /reminders", authMiddleware.RequireAuth(reminderHandler.ListReminders))
	mux.HandleFunc("DELETE /reminders/{reminder_id}", authMiddleware.RequireAuth(reminderHandler.DeleteReminder))

	// Feedback endpoint (require authentication)
	mux.HandleFunc("POST /feedback", authMiddleware.RequireAuth(feedbackHandler.SubmitFeedback))

	// Admin endpoints - ADMIN only
	mux.HandleFunc("GET /admin/overview", authMiddleware.RequireRole("ADMIN", adminHandler.GetOverview))
	mux.HandleFunc("GET /admin/users", authMiddleware.RequireRole("ADMIN", adminHandler.ListUsers))
	mux.HandleFunc("GET /admin/feedback", authMiddleware.RequireRole("ADMIN", adminHandler.ListFeedback))
	mux.HandleFunc("PUT /admin/users/{user_id}/deactivate", authMiddleware.RequireRole("ADMIN", adminHandler.DeactivateUser))
	mux.HandleFunc("DELETE /admin/users/{user_id}", authMiddleware.RequireRole("ADMIN", adminHandler.DeleteUser))

	// Wrap mux with metrics middleware to track all HTTP requests
	loggedRouter := middleware.MetricsMiddleware(mux)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      loggedRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting Wellness Service on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Give server time to start and log success
	time.Sleep(500 * time.Millisecond)
	log.Println("Wellness Service is starting...")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Cancel consumer context first to stop processing new messages
	consumerCancel()
	log.Println("User consumer stopped")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
