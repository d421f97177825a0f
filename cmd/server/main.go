package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadhub/leadhub/internal/api"
	"github.com/leadhub/leadhub/internal/auth"
	"github.com/leadhub/leadhub/internal/config"
	"github.com/leadhub/leadhub/internal/contact"
	"github.com/leadhub/leadhub/internal/lead"
	"github.com/leadhub/leadhub/internal/storage"
	"github.com/leadhub/leadhub/internal/task"
	"github.com/leadhub/leadhub/internal/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := storage.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userRepo := auth.NewRepository(db.Pool())
	authService := auth.NewService(userRepo, tokens, cfg.BcryptCost)

	router := api.NewRouter(api.RouterDeps{
		AuthService: authService,
		Tokens:      tokens,
		UserRepo:    userRepo,
		TeamRepo:    team.NewRepository(db.Pool()),
		LeadRepo:    lead.NewRepository(db.Pool()),
		ContactRepo: contact.NewRepository(db.Pool()),
		TaskRepo:    task.NewRepository(db.Pool()),
		DBPinger:    db,
		Version:     cfg.Version,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting leadhub server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
