// Package main is the entry point for the limit-up daily review service.
//
// Startup sequence:
//  1. Load configuration from the environment (.env supported)
//  2. Initialize logging
//  3. Wire databases, repositories, services and jobs
//  4. Schedule background jobs (snapshot directory import, WAL checkpoints)
//  5. Serve the HTTP API until SIGINT or SIGTERM
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // exchange time zone on hosts without zoneinfo

	"github.com/aristath/limitup/internal/config"
	"github.com/aristath/limitup/internal/di"
	"github.com/aristath/limitup/internal/scheduler"
	"github.com/aristath/limitup/internal/server"
	"github.com/aristath/limitup/pkg/logger"
)

// walCheckpointSchedule runs the WAL check at the top of every hour
const walCheckpointSchedule = "0 0 * * * *"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
		App:    "limitup",
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("timezone", cfg.Timezone).
		Msg("Starting limit-up review service")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	sched := scheduler.New(log)
	if jobs.ImportSnapshots != nil {
		if err := sched.AddJob(cfg.ImportSchedule, jobs.ImportSnapshots); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule snapshot import")
		}
		// Pick up files dropped while the service was down
		if err := sched.RunNow(jobs.ImportSnapshots); err != nil {
			log.Error().Err(err).Msg("Initial snapshot import failed")
		}
	}
	if err := sched.AddJob(walCheckpointSchedule, jobs.WALCheckpoint); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule WAL checkpoint")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
		Jobs:      jobs,
		Scheduler: sched,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Running jobs finish before the databases close
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
