package main

import (
	"os"

	"github.com/spf13/cobra"

	"pewarnaan/internal/infra"
	"pewarnaan/migrations"
)

func main() {
	if err := newMigrateCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newMigrateCommand() *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the database migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			logger := infra.NewLoggerTo(os.Stderr, cfg.AppEnv).With().Str("cmd", "migrate").Logger()
			logger.Info().Str("direction", direction).Msg("running migrations")
			if err := infra.Migrate(cmd.Context(), cfg, migrations.FS, direction, logger); err != nil {
				logger.Error().Err(err).Msg("migration failed")
				return err
			}
			logger.Info().Msg("db migrated")
			return nil
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", "up", "Migration direction: up, or down to roll back one version")
	return cmd
}
