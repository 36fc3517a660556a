package crawler

// Frontier holds the URLs waiting to be fetched and the normalized URLs
// already fetched. Dedup happens when a URL is dequeued, not when it is
// enqueued, so the same URL may sit in the queue several times.
//
// A Frontier is owned by a single crawl and is not safe for concurrent use.
type Frontier struct {
	pending []string
	visited map[string]struct{}
}

// NewFrontier creates a Frontier seeded with the given URLs.
func NewFrontier(seeds ...string) *Frontier {
	f := &Frontier{
		pending: make([]string, 0, len(seeds)),
		visited: make(map[string]struct{}),
	}
	for _, s := range seeds {
		f.Enqueue(s)
	}
	return f
}

// Enqueue appends rawURL to the pending queue unconditionally.
func (f *Frontier) Enqueue(rawURL string) {
	f.pending = append(f.pending, rawURL)
}

// Dequeue pops the oldest pending URL. It returns false when the queue is
// empty.
func (f *Frontier) Dequeue() (string, bool) {
	if len(f.pending) == 0 {
		return "", false
	}
	next := f.pending[0]
	f.pending[0] = ""
	f.pending = f.pending[1:]
	return next, true
}

// Visited reports whether the normalized URL has been marked visited.
func (f *Frontier) Visited(normalized string) bool {
	_, ok := f.visited[normalized]
	return ok
}

// MarkVisited records the normalized URL as visited.
func (f *Frontier) MarkVisited(normalized string) {
	f.visited[normalized] = struct{}{}
}

// Pending returns the number of queued URLs, duplicates included.
func (f *Frontier) Pending() int {
	return len(f.pending)
}

// VisitedCount returns the number of distinct visited URLs.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}

// Empty reports whether nothing is left to dequeue.
func (f *Frontier) Empty() bool {
	return len(f.pending) == 0
}
