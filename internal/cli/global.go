// Package cli implements the pewarnaan command line client.
package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pewarnaan/internal/client"
	"pewarnaan/internal/config"
)

type GlobalOptions struct {
	ServerURL string
	Locale    string
	Timeout   time.Duration
}

func DefaultGlobalOptions() GlobalOptions {
	cfg := config.Load()
	return GlobalOptions{
		ServerURL: cfg.ServerURL,
		Locale:    cfg.Locale,
		Timeout:   30 * time.Second,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerURL, "server-url", "u", o.ServerURL, "Address of the coloring service (env PEWARNAAN_SERVER)")
	fs.StringVar(&o.Locale, "locale", o.Locale, "Language of server messages (id or en)")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Timeout of a single HTTP request")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	if o.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func (o *GlobalOptions) Client() (*client.Client, error) {
	return client.New(client.Options{
		BaseURL:    o.ServerURL,
		Locale:     o.Locale,
		HTTPClient: &http.Client{Timeout: o.Timeout},
	})
}
