package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pewarnaan/internal/form"
)

type MotifsOptions struct {
	GlobalOptions

	out io.Writer
}

func DefaultMotifsOptions() *MotifsOptions {
	return &MotifsOptions{GlobalOptions: DefaultGlobalOptions(), out: os.Stdout}
}

func NewCmdMotifs() *cobra.Command {
	o := DefaultMotifsOptions()
	cmd := &cobra.Command{
		Use:   "motifs JENIS_ULOS",
		Short: "List the motifs of a fabric type.",
		Args:  cobra.ExactArgs(1),
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

func (o *MotifsOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
}

func (o *MotifsOptions) Complete(cmd *cobra.Command, args []string) error {
	o.out = cmd.OutOrStdout()
	return o.GlobalOptions.Complete(cmd, args)
}

func (o *MotifsOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	view := NewTerminalView(o.out, true)
	carousel := NewTerminalCarousel(o.out)
	loader := form.NewMotifLoader(c, view, carousel)
	if err := loader.ChangeFabricType(ctx, args[0]); err != nil {
		return err
	}
	carousel.Print()
	return nil
}

type TypesOptions struct {
	GlobalOptions
}

func NewCmdTypes() *cobra.Command {
	o := &TypesOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the fabric types known to the service.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			c, err := o.Client()
			if err != nil {
				return fmt.Errorf("creating client: %w", err)
			}
			types, err := c.UlosTypes(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing fabric types: %w", err)
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

type ColorsOptions struct {
	GlobalOptions
}

func NewCmdColors() *cobra.Command {
	o := &ColorsOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   "colors",
		Short: "List the thread color palette.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			c, err := o.Client()
			if err != nil {
				return fmt.Errorf("creating client: %w", err)
			}
			colors, err := c.Colors(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing colors: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 1, '\t', 0)
			fmt.Fprintln(w, "CODE\tHEX\tHSV")
			for _, col := range colors {
				fmt.Fprintf(w, "%s\t%s\t%d,%d,%d\n", col.Code, col.HexColor, col.HSV.H, col.HSV.S, col.HSV.V)
			}
			return w.Flush()
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}
