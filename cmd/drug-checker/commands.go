package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikey/drug-checker/internal/adapters/cli"
	"github.com/mikey/drug-checker/internal/config"
	"github.com/mikey/drug-checker/internal/core"
)

func newCheckCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "check <drug1> <drug2>",
		Short: "Check two drugs for an interaction",
		Long:  "Looks up both drugs in the FDA label data, rates the interaction and prints a short summary.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			return withContainer(func(service *core.InteractionService) error {
				result, err := service.CheckInteraction(ctx, args[0], args[1], !noCache)
				if err != nil {
					return fmt.Errorf("failed to check interaction: %w", err)
				}
				if result.FromCache {
					fmt.Fprintln(out, "⚡ Using cached result")
				}
				fmt.Fprintln(out, cli.NewRenderer(nil).ResultTable(result))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the cache and fetch fresh label data")

	return cmd
}

func newSuggestCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <partial>",
		Short: "List drug names matching a partial name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			partial := strings.Join(args, " ")

			return withContainer(func(service *core.InteractionService, cfg *config.Config) error {
				if limit <= 0 {
					limit = cfg.GetInt("labels.suggest_limit")
				}
				suggestions := service.Suggest(ctx, partial, limit)
				if len(suggestions) == 0 {
					fmt.Fprintln(out, "No suggestions found.")
					return nil
				}
				for i, name := range suggestions {
					fmt.Fprintf(out, "%d. %s\n", i+1, name)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of suggestions")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "drug-checker %s\n", version)
		},
	}
}
