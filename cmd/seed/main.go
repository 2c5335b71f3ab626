package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pewarnaan/internal/adapter/repo"
	"pewarnaan/internal/bootstrap"
	"pewarnaan/internal/catalog"
	"pewarnaan/internal/infra"
	"pewarnaan/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newSeedCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newSeedCommand() *cobra.Command {
	var skipMotifs bool
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load the thread palette, fabric characteristics and motif images into the database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			logger := infra.NewLoggerTo(os.Stderr, cfg.AppEnv).With().Str("cmd", "seed").Logger()

			pool, err := infra.NewDBPool(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()
			catalogRepo := repo.NewCatalogRepository(infra.NewSQLRunner(pool, logger))

			created := 0
			for _, color := range catalog.Palette() {
				isNew, err := catalogRepo.UpsertColor(ctx, color)
				if err != nil {
					return fmt.Errorf("seed color %s: %w", color.Code, err)
				}
				if isNew {
					created++
				}
			}
			logger.Info().Int("created", created).Int("total", len(catalog.Palette())).Msg("thread colors seeded")

			for _, c := range catalog.Characteristics() {
				if err := catalogRepo.UpsertCharacteristic(ctx, c); err != nil {
					return fmt.Errorf("seed characteristic %s: %w", c.Name, err)
				}
			}
			logger.Info().Int("total", len(catalog.Characteristics())).Msg("fabric characteristics seeded")

			if skipMotifs {
				return nil
			}
			store, err := storage.New(ctx, bootstrap.StorageOptions(cfg))
			if err != nil {
				return fmt.Errorf("configure storage: %w", err)
			}
			stats, err := catalog.ImportMotifs(ctx, store, catalogRepo, catalog.UlosTypes, logger)
			if err != nil {
				return err
			}
			logger.Info().Int("imported", stats.Imported).Int("skipped", stats.Skipped).Msg("motifs imported")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipMotifs, "skip-motifs", false, "Only seed colors and characteristics")
	return cmd
}
