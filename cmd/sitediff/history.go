package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/sitediff/internal/config"
	"github.com/nao1215/sitediff/internal/database"
	"github.com/spf13/cobra"
)

// historyTimeLayout formats snapshot start times in the listing.
const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "List snapshots recorded in the catalog",
		Long: `History lists the crawls recorded in the snapshot catalog, newest first.

Every crawl is catalogued unless 'sitediff crawl --no-catalog' was used.
The IDs shown here can be passed to 'sitediff compare --old-id/--new-id'.
Crawls that were interrupted are marked as incomplete.

Examples:
  # List all catalogued snapshots
  sitediff history

  # List the snapshots of one site
  sitediff history example.com

  # List the sites present in the catalog
  sitediff history --domains`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("domains", "D", false,
		"List the catalogued domains instead of snapshots")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the snapshot catalog")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listDomains, err := cmd.Flags().GetBool("domains")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	catalog, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No snapshots have been catalogued yet.")
		fmt.Fprintln(out, "\nUse 'sitediff crawl <domain>' to crawl a site.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	ctx := cmd.Context()

	if listDomains {
		domains, err := catalog.ListDomains(ctx)
		if err != nil {
			return err
		}
		if len(domains) == 0 {
			fmt.Fprintln(out, "No snapshots have been catalogued yet.")
			return nil
		}
		fmt.Fprintf(out, "Catalogued domains (%d):\n\n", len(domains))
		for _, d := range domains {
			fmt.Fprintf(out, "  • %s\n", d)
		}
		return nil
	}

	var domain string
	if len(args) == 1 {
		domain = args[0]
	}

	snapshots, err := catalog.ListSnapshots(ctx, domain)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		if domain != "" {
			fmt.Fprintf(out, "No snapshots found for %s\n", domain)
		} else {
			fmt.Fprintln(out, "No snapshots have been catalogued yet.")
		}
		return nil
	}

	writeHistory(out, snapshots)
	if len(snapshots) >= 2 {
		fmt.Fprintf(out, "\nUse 'sitediff compare --old-id %d --new-id %d' to compare the latest two.\n",
			snapshots[1].ID, snapshots[0].ID)
	}
	return nil
}

// writeHistory prints one line per snapshot.
func writeHistory(out io.Writer, snapshots []database.SnapshotMeta) {
	fmt.Fprintf(out, "  %-6s  %-30s  %-19s  %-8s  %-8s  %s\n", "ID", "Domain", "Started", "Records", "Profile", "Status")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))

	for _, s := range snapshots {
		status := "complete"
		if !s.Complete {
			status = "incomplete"
		}
		fmt.Fprintf(out, "  %-6d  %-30s  %-19s  %-8d  %-8s  %s\n",
			s.ID,
			s.Domain,
			s.StartedAt.Local().Format(historyTimeLayout),
			s.Records,
			s.Profile,
			status,
		)
	}
}
