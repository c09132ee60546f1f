package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/amora-labs/amora/internal/catalog"
	"github.com/amora-labs/amora/internal/config"
	dbRedis "github.com/amora-labs/amora/internal/db/redis"
	logpkg "github.com/amora-labs/amora/internal/logger"
	"github.com/amora-labs/amora/internal/metrics"
	interestrepo "github.com/amora-labs/amora/internal/repository/interest"
	profilerepo "github.com/amora-labs/amora/internal/repository/profile"
	responserepo "github.com/amora-labs/amora/internal/repository/response"
	chiTransport "github.com/amora-labs/amora/internal/transport/chi"
	compatuc "github.com/amora-labs/amora/internal/usecase/compat"
	directoryuc "github.com/amora-labs/amora/internal/usecase/directory"
	sessionuc "github.com/amora-labs/amora/internal/usecase/session"
	"github.com/amora-labs/amora/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting amora API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Load and validate the question catalog — fatal on violation
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("Failed to load question catalog", zap.Error(err))
	}
	logger.Info("Question catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("categories", len(cat.Categories())),
	)

	// Register discovery metrics explicitly (no init())
	metrics.RegisterDiscoveryMetrics()

	// Repositories
	profileRepo := profilerepo.New(store)
	if err := profileRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create profile search index", zap.Error(err))
	}
	interestRepo := interestrepo.New(store)
	responseRepo := responserepo.New(store)

	// Use case services
	compatSvc := compatuc.NewService(cat, logger).
		WithMetrics(metrics.ScoresComputedTotal)
	directorySvc := directoryuc.NewService(profileRepo, responseRepo, cat, logger)
	sessions := sessionuc.NewRegistry(
		profileRepo, interestRepo,
		time.Duration(cfg.Session.TTLMin)*time.Minute, logger,
	).
		WithFeedDefaults(cfg.Feed.DefaultPageSize, cfg.Feed.Lookahead).
		WithMetrics(metrics.SearchesTotal, metrics.FeedExhaustedTotal, metrics.InterestsTotal)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	sessions.StartSweeper(sweepCtx, time.Duration(cfg.Session.SweepSec)*time.Second)

	// Create chi server
	server := chiTransport.NewServer(sessions, directorySvc, compatSvc, store, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
