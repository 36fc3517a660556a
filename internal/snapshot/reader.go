package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/sitediff/internal/model"
)

// Read loads the capture file at path. Domain and creation time are taken
// from the file name when it follows the naming scheme.
func Read(path string) (*model.Snapshot, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()

	rows, err := ParseRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	domain, createdAt, ok := ParseFileName(path)
	if !ok {
		domain, createdAt = "", time.Time{}
	}

	snap := model.NewSnapshot(domain, createdAt, rows)
	snap.Source = path
	return snap, nil
}

// ParseRows reads capture lines from r. The first line is the header and is
// skipped. Only line terminators are trimmed, so an empty Height column is
// preserved. Lines that do not have exactly five tab-separated fields are
// skipped, which also drops a line cut short by an interrupted crawl.
func ParseRows(r io.Reader) ([]model.Row, error) {
	br := bufio.NewReader(r)

	header, err := br.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && header == "":
		return nil, ErrNoHeader
	case errors.Is(err, io.EOF):
		return []model.Row{}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read capture header: %w", err)
	}

	rows := make([]model.Row, 0)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if row, ok := parseLine(line); ok {
				rows = append(rows, row)
			}
		}
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("failed to read capture file: %w", err)
		}
	}
}

// parseLine splits one capture line into a Row.
func parseLine(line string) (model.Row, bool) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, fieldSeparator)
	if len(fields) != len(model.SnapshotHeader) {
		return model.Row{}, false
	}
	return model.Row{
		Type:   fields[0],
		URL:    fields[1],
		Status: fields[2],
		Size:   fields[3],
		Height: fields[4],
	}, true
}
