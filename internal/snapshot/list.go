package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry describes one capture file found on disk.
type Entry struct {
	// Path is the file path, joined with the listed directory.
	Path string

	// Name is the file's base name.
	Name string

	// Domain and CreatedAt come from the file name. They are zero when the
	// name does not follow the naming scheme.
	Domain    string
	CreatedAt time.Time
}

// List returns the capture files (".txt") in dir sorted by name, which
// groups them by domain and orders each domain's files by time.
// Subdirectories are not searched.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list capture directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), FileExt) {
			continue
		}
		e := Entry{
			Path: filepath.Join(dir, de.Name()),
			Name: de.Name(),
		}
		if domain, t, ok := ParseFileName(de.Name()); ok {
			e.Domain = domain
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}
