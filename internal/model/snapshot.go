package model

import "time"

// Snapshot is the complete record set of one crawl, in discovery order.
// A Snapshot is built once by NewSnapshot and is read-only afterwards.
type Snapshot struct {
	// Domain is the crawled host, when known.
	Domain string `json:"domain"`

	// CreatedAt is the crawl start time, when known.
	CreatedAt time.Time `json:"created_at"`

	// Source identifies where the snapshot was loaded from (a file path or
	// a catalog reference). It is informational only.
	Source string `json:"source"`

	urls  []string
	index map[string]Row
}

// NewSnapshot builds a Snapshot from rows in discovery order.
// If a URL appears more than once the first position is kept and the last
// values win.
func NewSnapshot(domain string, createdAt time.Time, rows []Row) *Snapshot {
	s := &Snapshot{
		Domain:    domain,
		CreatedAt: createdAt,
		urls:      make([]string, 0, len(rows)),
		index:     make(map[string]Row, len(rows)),
	}
	for _, row := range rows {
		if _, ok := s.index[row.URL]; !ok {
			s.urls = append(s.urls, row.URL)
		}
		s.index[row.URL] = row
	}
	return s
}

// Get returns the row stored for url.
func (s *Snapshot) Get(url string) (Row, bool) {
	row, ok := s.index[url]
	return row, ok
}

// Len returns the number of distinct URLs in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.urls)
}

// URLs returns the snapshot's URLs in discovery order.
func (s *Snapshot) URLs() []string {
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}

// Rows returns the snapshot's rows in discovery order.
func (s *Snapshot) Rows() []Row {
	rows := make([]Row, 0, len(s.urls))
	for _, u := range s.urls {
		rows = append(rows, s.index[u])
	}
	return rows
}
