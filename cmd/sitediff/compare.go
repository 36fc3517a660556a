package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/sitediff/internal/config"
	"github.com/nao1215/sitediff/internal/database"
	"github.com/nao1215/sitediff/internal/diff"
	"github.com/nao1215/sitediff/internal/model"
	"github.com/nao1215/sitediff/internal/report"
	"github.com/nao1215/sitediff/internal/snapshot"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// comparePrefix starts the base name of every comparison output.
const comparePrefix = "compare-"

// errSameSnapshot is returned by the selection step when both sides point
// at the same snapshot. The command reports it and exits successfully.
var errSameSnapshot = errors.New("the same snapshot was selected twice; nothing to compare")

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [old-snapshot new-snapshot]",
		Short: "Compare two capture snapshots and flag regressions",
		Long: `Compare matches two capture snapshots URL by URL and flags:

  Not found in new       the URL is gone or answers 404/400 in the new snapshot
  Fatal error            the URL answers 500 in the new snapshot
  Not found in old       the URL is new
  Status code different  the status code changed
  Size different         the size changed
  Height different       the rendered height changed

The comparison is written to <out>/compare-<timestamp>.txt together with
an HTML page, and a summary is printed.

Without arguments the snapshots are picked interactively from --dir.
Snapshots recorded in the catalog can be compared by ID instead
(see 'sitediff history').

Examples:
  # Pick both snapshots from ./captures
  sitediff compare

  # Compare two capture files
  sitediff compare captures/example.com-capture-2025-01-01-10-00-00.txt \
                   captures/example.com-capture-2025-01-08-10-00-00.txt

  # Compare two catalogued snapshots and also write a Markdown summary
  sitediff compare --old-id 3 --new-id 7 --markdown

  # Print the comparison as JSON
  sitediff compare old.txt new.txt --json`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected 0 or 2 snapshot paths, got %d", len(args))
			}
			return nil
		},
		RunE: runCompareCmd,
	}

	cmd.Flags().StringP("dir", "d", config.DefaultCaptureDir,
		"Directory to pick capture snapshots from")
	cmd.Flags().StringP("out", "o", config.DefaultCompareDir,
		"Directory for comparison outputs")
	cmd.Flags().Int64("old-id", 0,
		"Catalog ID of the old snapshot (use with --new-id)")
	cmd.Flags().Int64("new-id", 0,
		"Catalog ID of the new snapshot (use with --old-id)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the snapshot catalog")

	cmd.Flags().BoolP("markdown", "m", false,
		"Also write a Markdown summary")
	cmd.Flags().BoolP("json", "j", false,
		"Print the comparison as JSON instead of the text summary")

	return cmd
}

// compareOptions holds the compare command flags.
type compareOptions struct {
	dir      string
	out      string
	oldID    int64
	newID    int64
	byID     bool
	dbDir    string
	markdown bool
	json     bool
	verbose  bool
}

// snapshotRef points at a capture file or a catalogued snapshot.
type snapshotRef struct {
	path string
	id   int64
}

// load reads the referenced snapshot.
func (r snapshotRef) load(ctx context.Context, catalog *database.Catalog) (*model.Snapshot, error) {
	if r.path != "" {
		return snapshot.Read(r.path)
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is not open")
	}
	return catalog.LoadSnapshot(ctx, r.id)
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	opts, err := compareFlags(cmd)
	if err != nil {
		return err
	}

	// JSON owns stdout; everything else goes to stderr.
	out := cmd.OutOrStdout()
	info := out
	if opts.json {
		info = cmd.ErrOrStderr()
	}

	var oldRef, newRef snapshotRef
	switch {
	case opts.byID && len(args) > 0:
		return errors.New("use either snapshot paths or --old-id/--new-id, not both")
	case opts.byID:
		oldRef, newRef, err = selectByID(opts)
	case len(args) == 2:
		oldRef, newRef, err = selectByPath(args[0], args[1])
	default:
		oldRef, newRef, err = selectInteractively(cmd.InOrStdin(), info, opts.dir)
	}
	if errors.Is(err, errSameSnapshot) {
		fmt.Fprintln(info, "The same snapshot was selected twice; nothing to compare.")
		return nil
	}
	if err != nil {
		return err
	}

	var catalog *database.Catalog
	if opts.byID {
		catalog, err = database.Open(opts.dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer catalog.Close()
	}

	prev, curr, err := loadPair(cmd.Context(), catalog, oldRef, newRef)
	if err != nil {
		return err
	}

	generatedAt := time.Now()
	comparison := report.NewComparison(prev.Source, curr.Source, diff.Compare(prev, curr), generatedAt)

	paths, err := writeComparisonFiles(comparison, opts)
	if err != nil {
		return err
	}

	if opts.json {
		if _, err := report.NewJSONWriter(out, report.WithPrettyPrint()).Write(comparison); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
	} else {
		if _, err := report.NewSimpleWriter(out, report.WithVerbose(opts.verbose)).Write(comparison); err != nil {
			return err
		}
	}

	fmt.Fprintln(info, "Comparison written to:")
	for _, p := range paths {
		fmt.Fprintf(info, "  %s\n", p)
	}
	return nil
}

// compareFlags reads the command flags.
func compareFlags(cmd *cobra.Command) (*compareOptions, error) {
	opts := &compareOptions{}
	var err error

	if opts.dir, err = cmd.Flags().GetString("dir"); err != nil {
		return nil, err
	}
	if opts.out, err = cmd.Flags().GetString("out"); err != nil {
		return nil, err
	}
	if opts.oldID, err = cmd.Flags().GetInt64("old-id"); err != nil {
		return nil, err
	}
	if opts.newID, err = cmd.Flags().GetInt64("new-id"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	opts.verbose = getVerboseFlag(cmd)

	oldSet := cmd.Flags().Changed("old-id")
	newSet := cmd.Flags().Changed("new-id")
	if oldSet != newSet {
		return nil, errors.New("--old-id and --new-id must be used together")
	}
	opts.byID = oldSet && newSet
	return opts, nil
}

// selectByID validates a pair of catalog IDs.
func selectByID(opts *compareOptions) (snapshotRef, snapshotRef, error) {
	if opts.oldID <= 0 || opts.newID <= 0 {
		return snapshotRef{}, snapshotRef{}, errors.New("snapshot IDs must be positive")
	}
	if opts.oldID == opts.newID {
		return snapshotRef{}, snapshotRef{}, errSameSnapshot
	}
	return snapshotRef{id: opts.oldID}, snapshotRef{id: opts.newID}, nil
}

// selectByPath checks that both files exist and are distinct.
func selectByPath(oldPath, newPath string) (snapshotRef, snapshotRef, error) {
	oldInfo, err := statSnapshot(oldPath)
	if err != nil {
		return snapshotRef{}, snapshotRef{}, err
	}
	newInfo, err := statSnapshot(newPath)
	if err != nil {
		return snapshotRef{}, snapshotRef{}, err
	}
	if os.SameFile(oldInfo, newInfo) {
		return snapshotRef{}, snapshotRef{}, errSameSnapshot
	}
	return snapshotRef{path: oldPath}, snapshotRef{path: newPath}, nil
}

func statSnapshot(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("snapshot file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access snapshot file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("snapshot path is a directory: %s", path)
	}
	return info, nil
}

// selectInteractively lists the capture files in dir and reads the two
// choices from in.
func selectInteractively(in io.Reader, out io.Writer, dir string) (snapshotRef, snapshotRef, error) {
	entries, err := snapshot.List(dir)
	if err != nil {
		return snapshotRef{}, snapshotRef{}, err
	}
	if len(entries) == 0 {
		return snapshotRef{}, snapshotRef{}, fmt.Errorf("no capture snapshots found in %s", dir)
	}

	fmt.Fprintf(out, "Capture snapshots in %s:\n\n", dir)
	for i, e := range entries {
		fmt.Fprintf(out, "  %3d  %s\n", i+1, e.Name)
	}
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	oldIdx, err := promptChoice(scanner, out, "Old snapshot", len(entries))
	if err != nil {
		return snapshotRef{}, snapshotRef{}, err
	}
	newIdx, err := promptChoice(scanner, out, "New snapshot", len(entries))
	if err != nil {
		return snapshotRef{}, snapshotRef{}, err
	}
	if oldIdx == newIdx {
		return snapshotRef{}, snapshotRef{}, errSameSnapshot
	}
	return snapshotRef{path: entries[oldIdx].Path}, snapshotRef{path: entries[newIdx].Path}, nil
}

// promptChoice asks for a number in [1, n] and returns it zero-based.
func promptChoice(scanner *bufio.Scanner, out io.Writer, label string, n int) (int, error) {
	fmt.Fprintf(out, "%s [1-%d]: ", label, n)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("failed to read selection: %w", err)
		}
		return 0, fmt.Errorf("no selection for %s", strings.ToLower(label))
	}

	answer := strings.TrimSpace(scanner.Text())
	choice, err := strconv.Atoi(answer)
	if err != nil || choice < 1 || choice > n {
		return 0, fmt.Errorf("invalid selection %q: enter a number between 1 and %d", answer, n)
	}
	return choice - 1, nil
}

// loadPair reads both snapshots concurrently.
func loadPair(ctx context.Context, catalog *database.Catalog, oldRef, newRef snapshotRef) (*model.Snapshot, *model.Snapshot, error) {
	var prev, curr *model.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := oldRef.load(gctx, catalog)
		if err != nil {
			return fmt.Errorf("failed to load old snapshot: %w", err)
		}
		prev = s
		return nil
	})
	g.Go(func() error {
		s, err := newRef.load(gctx, catalog)
		if err != nil {
			return fmt.Errorf("failed to load new snapshot: %w", err)
		}
		curr = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return prev, curr, nil
}

// reportFile pairs an output path with the writer rendering it.
type reportFile struct {
	path      string
	newWriter func(io.Writer) report.Writer
}

// writeComparisonFiles writes the TSV, HTML and optional Markdown outputs
// and returns their paths.
func writeComparisonFiles(c *report.Comparison, opts *compareOptions) ([]string, error) {
	if err := os.MkdirAll(opts.out, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	base := filepath.Join(opts.out, comparePrefix+c.GeneratedAt.Format(snapshot.TimestampLayout))

	outputs := []reportFile{
		{base + snapshot.FileExt, func(w io.Writer) report.Writer { return report.NewTSVWriter(w) }},
		{base + captureHTMLExt, func(w io.Writer) report.Writer { return report.NewHTMLWriter(w) }},
	}
	if opts.markdown {
		outputs = append(outputs, reportFile{base + ".md", func(w io.Writer) report.Writer { return report.NewMarkdownWriter(w) }})
	}

	files := make([]*os.File, 0, len(outputs))
	writers := make([]report.Writer, 0, len(outputs))
	paths := make([]string, 0, len(outputs))
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	for _, o := range outputs {
		f, err := os.OpenFile(filepath.Clean(o.path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", o.path, err)
		}
		files = append(files, f)
		writers = append(writers, o.newWriter(f))
		paths = append(paths, o.path)
	}

	if _, err := report.NewMultiWriter(writers...).Write(c); err != nil {
		return nil, fmt.Errorf("failed to write comparison: %w", err)
	}
	for i, f := range files {
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("failed to close %s: %w", paths[i], err)
		}
	}
	files = nil
	return paths, nil
}
