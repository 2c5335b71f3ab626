package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pewarnaan/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := NewPewarnaanCommand()
	if err := command.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func NewPewarnaanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pewarnaan [flags] [options]",
		Short: "pewarnaan colors ulos motifs through the coloring service.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdColor())
	cmd.AddCommand(cli.NewCmdMotifs())
	cmd.AddCommand(cli.NewCmdTypes())
	cmd.AddCommand(cli.NewCmdColors())

	return cmd
}
