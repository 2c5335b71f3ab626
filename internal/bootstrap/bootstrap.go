// Package bootstrap wires the repositories, storage and coloring engine shared
// by the service binaries.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"pewarnaan/internal/adapter/memory"
	"pewarnaan/internal/adapter/repo"
	"pewarnaan/internal/catalog"
	"pewarnaan/internal/coloring"
	"pewarnaan/internal/domain"
	"pewarnaan/internal/infra"
	"pewarnaan/internal/infra/credentials"
	"pewarnaan/internal/metrics"
	"pewarnaan/internal/providers/recommend"
	"pewarnaan/internal/scheme"
	"pewarnaan/internal/storage"
)

// Services holds everything a binary needs to serve or process jobs.
type Services struct {
	Config   *infra.Config
	Logger   zerolog.Logger
	Pool     *pgxpool.Pool
	Runner   *infra.SQLRunner
	Catalog  domain.CatalogRepository
	Jobs     domain.JobRepository
	Store    storage.Store
	Analyzer *scheme.Analyzer
	Engine   *coloring.Engine
	Metrics  *metrics.Registry
}

// Build connects to Postgres when DATABASE_URL is set and falls back to the
// in-memory repositories otherwise. The memory catalog is seeded with the
// built-in palette and the motifs found in storage.
func Build(ctx context.Context, cfg *infra.Config, logger zerolog.Logger, service string) (*Services, error) {
	s := &Services{Config: cfg, Logger: logger, Metrics: metrics.New(service)}

	store, err := storage.New(ctx, StorageOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("configure storage: %w", err)
	}
	s.Store = store

	if cfg.UsesDatabase() {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		s.Pool = pool
		s.Runner = infra.NewSQLRunner(pool, logger)
		s.Catalog = repo.NewCatalogRepository(s.Runner)
		s.Jobs = repo.NewJobRepository(s.Runner, cfg.JobTTL)
	} else {
		mem := memory.NewCatalogRepository(catalog.Palette(), catalog.Characteristics())
		stats, err := catalog.ImportMotifs(ctx, store, mem, catalog.UlosTypes, logger)
		if err != nil {
			return nil, fmt.Errorf("import motifs: %w", err)
		}
		logger.Info().Int("motifs", stats.Imported).Msg("using in-memory repositories")
		s.Catalog = mem
		s.Jobs = memory.NewJobRepository(cfg.JobTTL)
	}

	colors, err := s.Catalog.ListColors(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load palette: %w", err)
	}
	s.Analyzer = scheme.NewAnalyzer(colors)

	engine, err := coloring.NewEngine(coloring.EngineOptions{
		Catalog:     s.Catalog,
		Store:       store,
		Recommender: s.recommender(ctx),
		Analyzer:    s.Analyzer,
		Search:      coloring.Options{Generations: cfg.NSDEGenerations},
		Logger:      logger,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Engine = engine
	return s, nil
}

// StorageOptions maps the STORAGE_* and MINIO_* settings.
func StorageOptions(cfg *infra.Config) storage.Options {
	return storage.Options{
		Driver:         cfg.StorageDriver,
		Path:           cfg.StoragePath,
		MinioEndpoint:  cfg.MinioEndpoint,
		MinioBucket:    cfg.MinioBucket,
		MinioAccessKey: cfg.MinioAccessKey,
		MinioSecretKey: cfg.MinioSecretKey,
		MinioUseSSL:    cfg.MinioUseSSL,
	}
}

// recommender prefers RECOMMENDER_API_KEY and then the key stored with
// cmd/apikey. Without a key the deterministic recommender is used.
func (s *Services) recommender(ctx context.Context) recommend.Recommender {
	static := recommend.NewStaticRecommender(s.Analyzer)
	key := strings.TrimSpace(s.Config.RecommenderAPIKey)
	model := s.Config.RecommenderModel
	if key == "" && s.Runner != nil {
		cred, err := credentials.NewStore(s.Runner).RecommenderCredential(ctx)
		if err != nil {
			s.Logger.Warn().Err(err).Msg("failed to load recommender api key from store")
		} else {
			key = cred.Token
			if cred.Model != "" {
				model = cred.Model
			}
		}
	}
	if key == "" {
		s.Logger.Info().Msg("recommender api key missing, using palette similarity")
		return static
	}
	rec, err := recommend.NewOpenAIRecommender(recommend.OpenAIOptions{
		APIKey:     key,
		Model:      model,
		BaseURL:    s.Config.RecommenderBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Fallback:   static,
		OnFallback: func(reason string, err error) {
			s.Metrics.RecommenderFallback(reason)
			s.Logger.Warn().Err(err).Str("reason", reason).Msg("recommender fallback")
		},
		OnWarning: func(reason, detail string) {
			s.Logger.Warn().Str("reason", reason).Str("detail", detail).Msg("recommender configuration")
		},
	})
	if err != nil {
		s.Logger.Warn().Err(err).Msg("recommender unavailable, using palette similarity")
		return static
	}
	return rec
}

// Close releases the database pool.
func (s *Services) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}
