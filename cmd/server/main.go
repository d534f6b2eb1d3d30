package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"

	"github.com/forgo/clubhouse/api/internal/config"
	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/forgo/clubhouse/api/internal/handler"
	"github.com/forgo/clubhouse/api/internal/metrics"
	"github.com/forgo/clubhouse/api/internal/middleware"
	"github.com/forgo/clubhouse/api/internal/repository"
	"github.com/forgo/clubhouse/api/internal/service"
	"github.com/forgo/clubhouse/api/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDevelopment() {
		logHandler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("endpoint", db.Endpoint()),
		slog.String("database", cfg.Database.Database),
	)

	// The server only validates tokens; clubctl signs them with the private key.
	jwtService, err := jwt.NewService(jwt.Config{
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)
	tracer := otel.Tracer("github.com/forgo/clubhouse/api")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	// Initialize services
	clubService := service.NewClubService(service.ClubServiceConfig{
		ClubRepo: clubRepo,
		UserRepo: userRepo,
		Tracer:   tracer,
		Recorder: collector,
		Logger:   logger,
	})
	membershipService := service.NewMembershipService(service.MembershipServiceConfig{
		ClubRepo:       clubRepo,
		UserRepo:       userRepo,
		MembershipRepo: membershipRepo,
		Mode:           service.MembershipMode(cfg.Membership.Mode),
		Tracer:         tracer,
		Recorder:       collector,
		Logger:         logger,
	})
	slog.Info("membership writes configured", slog.String("mode", string(membershipService.Mode())))

	// Initialize handlers
	clubHandler := handler.NewClubHandler(clubService, membershipService)
	healthHandler := handler.NewHealthHandler(db)

	// Global middleware
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		// Outside Recovery so recovered panics are counted as 500s.
		middleware.Metrics(collector),
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
		})
		defer rateLimiter.Stop()
	}

	// Ambient routes stay outside the rate limiter
	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", metrics.Handler(registry))

	r.Group(func(r chi.Router) {
		if rateLimiter != nil {
			// OptionalAuth first so the limiter keys authenticated callers by user.
			r.Use(middleware.OptionalAuth(jwtService), middleware.RateLimit(rateLimiter))
		}
		clubHandler.RegisterRoutes(r, jwtService)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
