package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sitediff/internal/database"
	"github.com/nao1215/sitediff/internal/model"
)

func runHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seedCatalog records a finished crawl of example.com, a finished crawl of
// example.org and an interrupted crawl of example.com.
func seedCatalog(t *testing.T, dbDir string) []int64 {
	t.Helper()

	ctx := context.Background()
	catalog, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	defer catalog.Close()

	started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	crawls := []struct {
		domain   string
		finished bool
	}{
		{domain: "example.com", finished: true},
		{domain: "example.org", finished: true},
		{domain: "example.com", finished: false},
	}

	ids := make([]int64, 0, len(crawls))
	for i, c := range crawls {
		at := started.Add(time.Duration(i) * time.Hour)
		id, err := catalog.BeginSnapshot(ctx, database.SnapshotMeta{
			Domain:    c.domain,
			StartedAt: at,
			Profile:   "careful",
		})
		if err != nil {
			t.Fatalf("failed to begin snapshot: %v", err)
		}
		rec := model.CaptureRecord{Type: model.ResourceHTML, URL: "https://" + c.domain, StatusCode: 200, Size: 10, Height: 1, HasHeight: true}
		if err := catalog.AddCapture(ctx, id, 0, rec); err != nil {
			t.Fatalf("failed to add capture: %v", err)
		}
		if c.finished {
			if err := catalog.FinishSnapshot(ctx, id, at.Add(time.Minute)); err != nil {
				t.Fatalf("failed to finish snapshot: %v", err)
			}
		}
		ids = append(ids, id)
	}
	return ids
}

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	if cmd.Use != "history [domain]" {
		t.Errorf("unexpected use %q", cmd.Use)
	}
	if cmd.Flags().Lookup("domains") == nil {
		t.Error("expected domains flag")
	}
	if cmd.Flags().Lookup("db-dir") == nil {
		t.Error("expected db-dir flag")
	}
}

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	ids := seedCatalog(t, dbDir)

	t.Run("lists every snapshot newest first", func(t *testing.T) {
		t.Parallel()

		output, err := runHistory(t, "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		orgAt := strings.Index(output, "example.org")
		if orgAt < 0 {
			t.Fatalf("expected example.org in output:\n%s", output)
		}
		if strings.Count(output, "example.com") < 2 {
			t.Errorf("expected both example.com snapshots:\n%s", output)
		}
		if first := strings.Index(output, "incomplete"); first < 0 || first > orgAt {
			t.Errorf("expected the interrupted crawl first and marked incomplete:\n%s", output)
		}
	})

	t.Run("filters by domain", func(t *testing.T) {
		t.Parallel()

		output, err := runHistory(t, "--db-dir", dbDir, "example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(output, "example.org") {
			t.Errorf("expected only example.com:\n%s", output)
		}
		wantHint := "--old-id " + formatID(ids[0]) + " --new-id " + formatID(ids[2])
		if !strings.Contains(output, wantHint) {
			t.Errorf("expected compare hint %q:\n%s", wantHint, output)
		}
	})

	t.Run("unknown domain", func(t *testing.T) {
		t.Parallel()

		output, err := runHistory(t, "--db-dir", dbDir, "example.net")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "No snapshots found for example.net") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})

	t.Run("lists domains", func(t *testing.T) {
		t.Parallel()

		output, err := runHistory(t, "--db-dir", dbDir, "--domains")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "Catalogued domains (2)") {
			t.Errorf("expected two domains:\n%s", output)
		}
	})
}

func TestRunHistoryCmd_NoCatalog(t *testing.T) {
	t.Parallel()

	output, err := runHistory(t, "--db-dir", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "No snapshots have been catalogued yet.") {
		t.Errorf("unexpected output:\n%s", output)
	}
}
