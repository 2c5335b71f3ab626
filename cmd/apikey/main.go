package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pewarnaan/internal/infra"
	"pewarnaan/internal/infra/credentials"
)

func main() {
	if err := newAPIKeyCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newAPIKeyCommand() *cobra.Command {
	var (
		key    string
		model  string
		remove bool
	)
	cmd := &cobra.Command{
		Use:          "apikey",
		Short:        "Store the thread recommender API key in the database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			key = strings.TrimSpace(key)
			if key == "" {
				key = strings.TrimSpace(os.Getenv("RECOMMENDER_API_KEY"))
			}
			if key == "" && !remove {
				return fmt.Errorf("API key is required via --key or RECOMMENDER_API_KEY")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			pool, err := infra.NewDBPool(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to create pool: %w", err)
			}
			defer pool.Close()

			logger := infra.NewLoggerTo(os.Stderr, "cli").With().Str("cmd", "apikey").Str("provider", credentials.ProviderRecommender).Logger()
			store := credentials.NewStore(infra.NewSQLRunner(pool, logger))

			if remove {
				deleted, err := store.Delete(ctx, credentials.ProviderRecommender)
				if err != nil {
					return fmt.Errorf("failed to delete api key: %w", err)
				}
				if !deleted {
					fmt.Fprintln(cmd.OutOrStdout(), "no stored API key")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
				return nil
			}
			if err := store.SetRecommenderAPIKey(ctx, key, model); err != nil {
				return fmt.Errorf("failed to persist api key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s API key stored successfully\n", strings.ToUpper(credentials.ProviderRecommender))
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "API key (falls back to RECOMMENDER_API_KEY)")
	cmd.Flags().StringVar(&model, "model", "", "Chat model stored with the key, e.g. deepseek-chat")
	cmd.Flags().BoolVar(&remove, "delete", false, "Remove the stored key instead")
	return cmd
}
