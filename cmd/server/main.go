// Package main is the entry point for the disaster response coordination
// server. It provides a REST API for citizen disaster reports and aid
// requests, authority triage and volunteer assignment, and shelter
// management.
//
// Roles:
//   - Citizens file disaster reports and request aid
//   - Authorities activate reports, approve or reject aid requests,
//     manage shelters and assign volunteers
//   - Volunteers accept assignments and work them to completion
//
// Every status transition that touches more than one row (assignment,
// completion, cancellation) runs inside a database transaction.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/config"
	"github.com/drims/disaster-server/internal/database"
	"github.com/drims/disaster-server/internal/handlers"
	"github.com/drims/disaster-server/internal/middleware"
	"github.com/drims/disaster-server/internal/postgres"
	"github.com/drims/disaster-server/internal/services"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting Disaster Response Server",
		"port", cfg.Port,
		"env", cfg.Environment,
	)

	// Initialize database connection pool
	db, err := database.NewPool(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	st := postgres.New(db)
	if err := st.RunMigrations(context.Background()); err != nil {
		sugar.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional: without it the dashboard cache and rate limiter
	// are disabled.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sugar.Warnw("Redis unreachable, continuing without it", "error", err)
		}
	}

	// Initialize services
	tokenTTL := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	authSvc := services.NewAuthService(st, cfg.JWTSecret, tokenTTL, sugar)
	reportSvc := services.NewReportService(st, sugar)
	shelterSvc := services.NewShelterService(st, sugar)
	requestSvc := services.NewAidRequestService(st, sugar)
	assignmentSvc := services.NewAssignmentService(st, sugar)
	volunteerSvc := services.NewVolunteerService(st, sugar)
	dashboardSvc := services.NewDashboardService(st, rdb, time.Duration(cfg.DashboardCacheTTLSec)*time.Second, sugar)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc, sugar)
	reportHandler := handlers.NewReportHandler(reportSvc, sugar)
	shelterHandler := handlers.NewShelterHandler(shelterSvc, sugar)
	requestHandler := handlers.NewAidRequestHandler(requestSvc, sugar)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentSvc, sugar)
	volunteerHandler := handlers.NewVolunteerHandler(volunteerSvc, sugar)
	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc, sugar)
	healthHandler := handlers.NewHealthHandler(db, sugar)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting
	r.Use(middleware.RateLimit(rdb, cfg.RateLimitRPM, logger))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", healthHandler.Check)
		r.Get("/health/ready", healthHandler.Ready)

		// Auth endpoints (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Public reads: a token widens visibility but is not required
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWTSecret))

			r.Get("/reports", reportHandler.List)
			r.Get("/reports/{id}", reportHandler.Get)
			r.Get("/shelters", shelterHandler.List)
			r.Get("/skills", volunteerHandler.Skills)
		})

		// Everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))

			r.Route("/reports", func(r chi.Router) {
				r.Post("/", reportHandler.Create)
				r.Post("/{id}/toggle", reportHandler.ToggleActive)
			})

			r.Route("/shelters", func(r chi.Router) {
				r.Post("/", shelterHandler.Create)
				r.Put("/{id}", shelterHandler.Update)
				r.Post("/{id}/toggle", shelterHandler.ToggleActive)
			})

			r.Route("/aid-requests", func(r chi.Router) {
				r.Post("/", requestHandler.Create)
				r.Get("/", requestHandler.List)
				r.Get("/mine", requestHandler.ListMine)
				r.Get("/{id}", requestHandler.Get)
				r.Get("/{id}/detail", requestHandler.Detail)
				r.Get("/{id}/volunteers", volunteerHandler.AvailableForRequest)
				r.Put("/{id}/status", requestHandler.UpdateStatus)
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Post("/", assignmentHandler.Assign)
				r.Put("/{id}/status", assignmentHandler.UpdateStatus)
				r.Post("/{id}/cancel", assignmentHandler.Cancel)
			})

			r.Route("/volunteer", func(r chi.Router) {
				r.Get("/profile", volunteerHandler.Profile)
				r.Put("/profile", volunteerHandler.UpdateProfile)
				r.Get("/assignments", assignmentHandler.ListMine)
			})

			r.Route("/volunteers", func(r chi.Router) {
				r.Get("/", volunteerHandler.List)
				r.Get("/{id}", volunteerHandler.Detail)
			})

			r.Post("/skills", volunteerHandler.CreateSkill)
			r.Post("/users/{id}/toggle", authHandler.ToggleUserActive)
			r.Get("/dashboard", dashboardHandler.Stats)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
