package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ijlaln/footycount-app/internal/auth"
	"github.com/ijlaln/footycount-app/internal/config"
	"github.com/ijlaln/footycount-app/internal/database"
	"github.com/ijlaln/footycount-app/internal/fanout"
	server "github.com/ijlaln/footycount-app/internal/http"
	"github.com/ijlaln/footycount-app/internal/matches"
	"github.com/ijlaln/footycount-app/internal/metrics"
	"github.com/ijlaln/footycount-app/internal/players"
	"github.com/ijlaln/footycount-app/internal/reminder"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	playerStore := players.New(db)
	matchStore := matches.New(db)
	tokens := auth.New(cfg.JWTSecret, cfg.SessionTTL)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	hub := fanout.NewHub(metricsSvc)
	go hub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reminderSvc := reminder.New(reminder.NewStore(db), hub, metricsSvc, cfg.ReminderInterval)
	go reminderSvc.Run(ctx)

	s := server.NewServer(
		playerStore,
		matchStore,
		tokens,
		hub,
		metricsSvc,
		metricsHandler,
		hub.ServeWS(),
		cfg,
	)

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
