package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pewarnaan/internal/form"
)

type ColorOptions struct {
	GlobalOptions

	UlosType     string
	Motif        string
	Colors       []string
	Simulate     bool
	Download     string
	PollInterval time.Duration
	Quiet        bool

	out io.Writer
}

func DefaultColorOptions() *ColorOptions {
	return &ColorOptions{
		GlobalOptions: DefaultGlobalOptions(),
		PollInterval:  form.DefaultPollInterval,
		out:           os.Stdout,
	}
}

func NewCmdColor() *cobra.Command {
	o := DefaultColorOptions()
	cmd := &cobra.Command{
		Use:   "color --type JENIS_ULOS --colors C001,C002 [--motif ID]",
		Short: "Color a motif with the selected thread colors.",
		Long: "Color a motif with the selected thread colors.\n\n" +
			"The first motif of the fabric type is used unless --motif is given. " +
			"Repeating a color code toggles it off again.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ColorOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.UlosType, "type", "t", o.UlosType, "Fabric type (jenis ulos)")
	fs.StringVarP(&o.Motif, "motif", "m", o.Motif, "Motif id; defaults to the first motif of the type")
	fs.StringSliceVarP(&o.Colors, "colors", "c", o.Colors, "Thread color codes, comma separated")
	fs.BoolVar(&o.Simulate, "simulate", o.Simulate, "Show simulated progress until the server reports")
	fs.StringVarP(&o.Download, "download", "o", o.Download, "Write the result archive (zip) to this path")
	fs.DurationVar(&o.PollInterval, "poll-interval", o.PollInterval, "Progress polling interval")
	fs.BoolVarP(&o.Quiet, "quiet", "q", o.Quiet, "Only print the result and errors")
}

func (o *ColorOptions) Complete(cmd *cobra.Command, args []string) error {
	o.out = cmd.OutOrStdout()
	o.UlosType = strings.ToLower(strings.TrimSpace(o.UlosType))
	return o.GlobalOptions.Complete(cmd, args)
}

func (o *ColorOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	return nil
}

func (o *ColorOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	view := NewTerminalView(o.out, o.Quiet)

	// Chips only need hex values; a missing palette leaves them out.
	palette := map[string]string{}
	if colors, err := c.Colors(ctx); err == nil {
		for _, col := range colors {
			palette[col.Code] = col.HexColor
		}
	}

	selection := form.NewSelection(palette, view)
	for _, code := range o.Colors {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			selection.Toggle(code)
		}
	}

	loader := form.NewMotifLoader(c, view, NewTerminalCarousel(o.out))
	if o.UlosType != "" {
		if err := loader.ChangeFabricType(ctx, o.UlosType); err != nil {
			return err
		}
	}
	if o.Motif != "" {
		if err := loader.SelectMotif(o.Motif); err != nil {
			return fmt.Errorf("motif %q: %w", o.Motif, err)
		}
	}

	var simulator *form.Simulator
	if o.Simulate && !o.Quiet {
		simulator = form.NewSimulator()
	}
	controller := form.NewController(form.ControllerOptions{
		API:       c,
		Selection: selection,
		Motifs:    loader,
		View:      view,
		Poller:    form.NewPoller(c, view, form.WithPollInterval(o.PollInterval), form.WithImageURL(c.ResolveStatic)),
		Simulator: simulator,
		ImageURL:  c.ResolveStatic,
	})
	res, err := controller.Submit(ctx)
	if err != nil {
		var failure *form.Failure
		if errors.Is(err, form.ErrInvalidInput) || errors.As(err, &failure) {
			// Already shown by the view.
			return fmt.Errorf("coloring failed")
		}
		return err
	}

	if o.Download != "" {
		if res.TaskID == "" {
			return fmt.Errorf("download is only available for queued jobs")
		}
		data, err := c.Download(ctx, res.TaskID)
		if err != nil {
			return fmt.Errorf("downloading result: %w", err)
		}
		if err := os.WriteFile(o.Download, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", o.Download, err)
		}
		fmt.Fprintf(o.out, "Arsip disimpan: %s\n", o.Download)
	}
	return nil
}
