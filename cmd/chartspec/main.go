package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "chartspec",
		Short:        "Compose and serve trading backtest charts",
		Version:      "1.0.0",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(buildComposeCmd(), buildInspectCmd(), buildSchemaCmd(), buildServeCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
