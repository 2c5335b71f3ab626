package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"pewarnaan/internal/bootstrap"
	"pewarnaan/internal/http/handlers"
	httpapi "pewarnaan/internal/http/httpapi"
	"pewarnaan/internal/infra"
	"pewarnaan/internal/infra/geoip"
	"pewarnaan/internal/jobs"
	"pewarnaan/internal/middleware"
)

func main() {
	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := bootstrap.Build(ctx, cfg, logger, "api")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer services.Close()

	app, err := handlers.NewApp(handlers.Options{
		Catalog:        services.Catalog,
		Jobs:           services.Jobs,
		Store:          services.Store,
		Engine:         services.Engine,
		Analyzer:       services.Analyzer,
		Metrics:        services.Metrics,
		Logger:         logger,
		StorageBaseURL: cfg.StorageBaseURL,
		Generations:    cfg.NSDEGenerations,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build handlers")
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		countryLookup = resolver.CountryCode
		defer func() {
			_ = resolver.Close()
		}()
	}

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:          logger,
		Metrics:         services.Metrics,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   countryLookup,
		SubmitPerMinute: cfg.RateLimitPerMin,
	})

	var wg sync.WaitGroup
	if cfg.WorkerEmbedded {
		worker, err := jobs.New(jobs.Options{
			Jobs:         services.Jobs,
			Engine:       services.Engine,
			PollInterval: cfg.JobPollInterval,
			Generations:  cfg.NSDEGenerations,
			Metrics:      services.Metrics,
			Logger:       logger.With().Str("component", "worker").Logger(),
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build embedded worker")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("embedded worker stopped with error")
			}
		}()
	}

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().Str("addr", server.Addr()).Bool("embedded_worker", cfg.WorkerEmbedded).Msg("API listening")
	if err := server.Run(ctx, cfg.HTTPIdleTimeout); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}
	stop()
	wg.Wait()
	logger.Info().Msg("server stopped")
}
