package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitediff/internal/model"
)

// DBFileName is the catalog's file name inside its directory.
const DBFileName = "sitediff.db"

// busyTimeoutMillis bounds how long a connection waits for a lock.
const busyTimeoutMillis = "5000"

// ErrSnapshotNotFound is returned when no snapshot has the requested ID.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Catalog stores snapshot metadata and capture rows.
type Catalog struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Catalog behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the catalog in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Catalog, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check catalog path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	// Concurrent readers wait for the single writer instead of failing.
	dsn := dbPath + "?_pragma=busy_timeout(" + busyTimeoutMillis + ")"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	c := &Catalog{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := c.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return c, nil
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.dbPath
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (c *Catalog) createTables(ctx context.Context) error {
	schema := `
	-- One row per crawl
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT '',
		profile TEXT NOT NULL DEFAULT '',
		capture_path TEXT NOT NULL DEFAULT '',
		complete INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_domain ON snapshots(domain);
	CREATE INDEX IF NOT EXISTS idx_snapshots_started ON snapshots(started_at);

	-- Capture rows in discovery order, stored as the strings written to
	-- capture files
	CREATE TABLE IF NOT EXISTS captures (
		snapshot_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		type TEXT NOT NULL,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		size TEXT NOT NULL,
		height TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, seq)
	);
	`

	_, err := c.db.ExecContext(ctx, schema)
	return err
}

// SnapshotMeta describes one catalogued crawl.
type SnapshotMeta struct {
	ID          int64
	Domain      string
	StartedAt   time.Time
	FinishedAt  time.Time
	Profile     string
	CapturePath string

	// Records is the number of capture rows stored.
	Records int

	// Complete is false for crawls that were interrupted or are running.
	Complete bool
}

// BeginSnapshot registers a new crawl and returns its ID.
// ID, FinishedAt, Records and Complete in meta are ignored.
func (c *Catalog) BeginSnapshot(ctx context.Context, meta SnapshotMeta) (int64, error) {
	query := `
	INSERT INTO snapshots (domain, started_at, profile, capture_path)
	VALUES (?, ?, ?, ?)
	`

	result, err := c.db.ExecContext(ctx, query,
		meta.Domain,
		formatTimestamp(meta.StartedAt),
		meta.Profile,
		meta.CapturePath,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return result.LastInsertId()
}

// AddCapture stores rec as the seq-th row of the snapshot.
func (c *Catalog) AddCapture(ctx context.Context, snapshotID int64, seq int, rec model.CaptureRecord) error {
	row := rec.Row()
	query := `
	INSERT INTO captures (snapshot_id, seq, type, url, status, size, height)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := c.db.ExecContext(ctx, query,
		snapshotID, seq, row.Type, row.URL, row.Status, row.Size, row.Height,
	); err != nil {
		return fmt.Errorf("failed to insert capture %s: %w", rec.URL, err)
	}
	return nil
}

// FinishSnapshot marks the snapshot complete and stamps its finish time.
func (c *Catalog) FinishSnapshot(ctx context.Context, snapshotID int64, finishedAt time.Time) error {
	query := `UPDATE snapshots SET complete = 1, finished_at = ? WHERE id = ?`

	result, err := c.db.ExecContext(ctx, query, formatTimestamp(finishedAt), snapshotID)
	if err != nil {
		return fmt.Errorf("failed to finish snapshot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrSnapshotNotFound, snapshotID)
	}
	return nil
}

// snapshotColumns selects SnapshotMeta fields in scanMeta order.
const snapshotColumns = `
	s.id, s.domain, s.started_at, s.finished_at, s.profile, s.capture_path, s.complete,
	(SELECT COUNT(*) FROM captures c WHERE c.snapshot_id = s.id)
`

// GetSnapshot returns the metadata of one snapshot.
func (c *Catalog) GetSnapshot(ctx context.Context, snapshotID int64) (*SnapshotMeta, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots s WHERE s.id = ?`

	meta, err := scanMeta(c.db.QueryRowContext(ctx, query, snapshotID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrSnapshotNotFound, snapshotID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return meta, nil
}

// ListSnapshots returns the snapshots of domain, newest first.
// An empty domain lists every snapshot.
func (c *Catalog) ListSnapshots(ctx context.Context, domain string) ([]SnapshotMeta, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots s
	WHERE (? = '' OR s.domain = ?)
	ORDER BY s.started_at DESC, s.id DESC
	`

	rows, err := c.db.QueryContext(ctx, query, domain, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var list []SnapshotMeta
	for rows.Next() {
		meta, err := scanMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		list = append(list, *meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return list, nil
}

// ListDomains returns every catalogued domain in alphabetical order.
func (c *Catalog) ListDomains(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT domain FROM snapshots ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate domains: %w", err)
	}
	return domains, nil
}

// LoadSnapshot returns the snapshot's rows as a model.Snapshot, exactly as
// reading its capture file would.
func (c *Catalog) LoadSnapshot(ctx context.Context, snapshotID int64) (*model.Snapshot, error) {
	meta, err := c.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT type, url, status, size, height FROM captures
	WHERE snapshot_id = ?
	ORDER BY seq
	`
	rows, err := c.db.QueryContext(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load captures: %w", err)
	}
	defer rows.Close()

	var captured []model.Row
	for rows.Next() {
		var r model.Row
		if err := rows.Scan(&r.Type, &r.URL, &r.Status, &r.Size, &r.Height); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		captured = append(captured, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate captures: %w", err)
	}

	snap := model.NewSnapshot(meta.Domain, meta.StartedAt, captured)
	snap.Source = SnapshotRef(snapshotID)
	return snap, nil
}

// SnapshotRef is the display reference of a catalogued snapshot.
func SnapshotRef(snapshotID int64) string {
	return fmt.Sprintf("catalog:%d", snapshotID)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeta(s rowScanner) (*SnapshotMeta, error) {
	var (
		meta       SnapshotMeta
		startedAt  string
		finishedAt string
		complete   int
	)
	if err := s.Scan(
		&meta.ID,
		&meta.Domain,
		&startedAt,
		&finishedAt,
		&meta.Profile,
		&meta.CapturePath,
		&complete,
		&meta.Records,
	); err != nil {
		return nil, err
	}
	meta.StartedAt = parseTimestamp(startedAt)
	meta.FinishedAt = parseTimestamp(finishedAt)
	meta.Complete = complete != 0
	return &meta, nil
}

// timestampFormats contains the timestamp formats accepted when reading.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
}

// storedTimestampLayout has a fixed width so that, in UTC, lexical order
// is time order.
const storedTimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(storedTimestampLayout)
}

// parseTimestamp parses a stored timestamp. Empty or unknown formats yield
// the zero time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
