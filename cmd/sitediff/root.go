package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitediff.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitediff",
		Short: "Snapshot a website and detect regressions between snapshots",
		Long: `sitediff crawls every page, stylesheet, script and image reachable
inside one domain and records the type, status code, size and rendered
height of each resource in a tab-separated capture snapshot.

Two snapshots of the same site (for example before and after a deploy)
can then be compared to flag missing pages, server errors, and changed
status codes, sizes or heights.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
