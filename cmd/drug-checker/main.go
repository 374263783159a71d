package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mikey/drug-checker/internal/di"
	"github.com/mikey/drug-checker/internal/ports"
)

var (
	version = "0.1.0-dev"
	options di.Options
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "drug-checker",
		Short:         "Check drug pairs for documented interactions using FDA label data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withContainer(func(frontend ports.Frontend) error {
				return frontend.Run(ctx)
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&options.ConfigFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&options.DataDir, "data-dir", "d", "", "Directory for medications, history and cache")
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&options.JSONLog, "json-log", false, "Output logs in JSON format")

	rootCmd.AddCommand(
		newCheckCmd(),
		newSuggestCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// withContainer builds the dependency container, runs fn with its
// dependencies injected and releases whatever was opened, whether or not
// fn succeeded
func withContainer(fn interface{}) error {
	container, err := di.BuildContainer(options)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	runErr := container.Invoke(fn)
	closeErr := container.Invoke(func(res *di.Resources) error {
		return res.Close()
	})
	if runErr != nil {
		return runErr
	}
	return closeErr
}
