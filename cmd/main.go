/*
Package main is the entry point for the Chatterbox server.

It is responsible for loading configuration, initializing the global logging
system, connecting to PostgreSQL and running migrations, wiring the session
registry and broadcaster, setting up the HTTP server, and gracefully handling
operating system interrupt signals (SIGINT, SIGTERM).
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatterbox/internal/app/auth"
	"chatterbox/internal/app/chat"
	"chatterbox/internal/app/db"
	"chatterbox/internal/app/history"
	"chatterbox/internal/app/user"
	"chatterbox/internal/configs"
	"chatterbox/internal/handler"
	"chatterbox/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Int("history_limit", cfg.HistoryLimit).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and apply migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	// Wire the core components
	registry := chat.NewRegistry()
	historyStore := history.NewStore(pool)
	broadcaster := chat.NewBroadcaster(registry, historyStore, cfg.HistoryLimit)
	sessions := auth.NewSessionStore()
	users := user.NewStore(pool)

	deps := &handler.AppDeps{
		Config:      cfg,
		Registry:    registry,
		Broadcaster: broadcaster,
		Sessions:    sessions,
		Users:       users,
		Messages:    historyStore,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Chatterbox Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	registry.Shutdown()

	logx.Info("Server gracefully stopped.")
}
