package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pewarnaan/internal/bootstrap"
	"pewarnaan/internal/infra"
	"pewarnaan/internal/jobs"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.UsesDatabase() {
		logger.Fatal().Msg("worker: DATABASE_URL is required; without it the API runs the worker itself")
	}

	services, err := bootstrap.Build(ctx, cfg, logger, "worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to initialize services")
	}
	defer services.Close()

	worker, err := jobs.New(jobs.Options{
		Jobs:         services.Jobs,
		Engine:       services.Engine,
		PollInterval: cfg.JobPollInterval,
		Generations:  cfg.NSDEGenerations,
		Metrics:      services.Metrics,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure")
	}

	// The worker has no API surface; metrics get their own listener.
	metricsServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           services.Metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn().Err(err).Msg("worker: metrics listener stopped")
		}
	}()

	logger.Info().Dur("poll_interval", cfg.JobPollInterval).Msg("worker: started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	logger.Info().Msg("worker: stopped")
}
