package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/nao1215/sitediff/internal/config"
	"github.com/nao1215/sitediff/internal/model"
)

// Spider crawls one site breadth-first and produces a CaptureRecord for
// every resource it fetches.
type Spider struct {
	// client is the HTTP client handed to the Fetcher.
	client *http.Client

	// denylist holds the substrings that exclude a URL from the crawl.
	denylist []string

	// delayer is the politeness strategy.
	delayer Delayer

	// recorder receives every record as soon as it is produced.
	recorder Recorder

	// logger receives per-fetch progress and transport failures.
	logger *slog.Logger

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits how much of an HTML body is parsed.
	maxBodySize int64

	// maxPages stops the crawl after this many records. 0 means unlimited.
	maxPages int

	// stats accumulates counters for the most recent crawl.
	stats SpiderStats
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithDenylist replaces the denylist.
func WithDenylist(denylist []string) SpiderOption {
	return func(s *Spider) {
		s.denylist = append([]string(nil), denylist...)
	}
}

// WithDelayer sets the politeness strategy.
func WithDelayer(d Delayer) SpiderOption {
	return func(s *Spider) {
		s.delayer = d
	}
}

// WithRecorder sets the recorder that receives records as they are produced.
func WithRecorder(r Recorder) SpiderOption {
	return func(s *Spider) {
		s.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum HTML body size that is parsed.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithMaxPages stops the crawl after n records. 0 means unlimited.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// NewSpider creates a new Spider with the given HTTP client.
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:   client,
		denylist: config.DefaultDenylist(),
		delayer:  NoDelay{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Crawl fetches startURL and everything reachable from it on the same host.
// It returns the records in discovery order. The loop ends when the
// frontier is empty, the page limit is reached, the recorder fails or ctx
// is cancelled; in the last two cases the records collected so far are
// returned together with the error.
func (s *Spider) Crawl(ctx context.Context, startURL string) ([]model.CaptureRecord, error) {
	start, err := url.Parse(Normalize(startURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStartURL, err)
	}
	if start.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidStartURL, startURL)
	}
	start.Fragment = ""
	start.RawFragment = ""
	seed := Normalize(start.String())

	scope := NewScope(start.Host, s.denylist)
	fetcher := NewFetcher(s.client, scope,
		WithFetchDelayer(s.delayer),
		WithFetchUserAgent(s.userAgent),
		WithFetchMaxBodySize(s.maxBodySize),
	)
	frontier := NewFrontier(seed)

	s.stats = SpiderStats{}
	defer func() {
		s.stats.Visited = frontier.VisitedCount()
		s.stats.Queued = frontier.Pending()
	}()
	records := make([]model.CaptureRecord, 0)

	for s.maxPages <= 0 || len(records) < s.maxPages {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		pageURL, ok := s.next(frontier, scope)
		if !ok {
			break
		}
		frontier.MarkVisited(pageURL)

		s.logger.Info("crawling", "url", pageURL)
		result, err := fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return records, ctxErr
			}
			if !IsTransportError(err) {
				return records, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
			}
			s.stats.Failed++
			s.logger.Warn("fetch failed, dropping url", "url", pageURL, "error", err)
			continue
		}

		records = append(records, result.Record)
		s.stats.Fetched++
		if s.recorder != nil {
			if err := s.recorder.Record(result.Record); err != nil {
				return records, fmt.Errorf("failed to record %s: %w", pageURL, err)
			}
		}

		for _, link := range result.Links {
			if frontier.Visited(link) {
				continue
			}
			frontier.Enqueue(link)
			s.stats.Enqueued++
		}

		if err := fetcher.Wait(ctx); err != nil {
			return records, err
		}
	}

	s.logger.Debug("crawl finished",
		"fetched", s.stats.Fetched,
		"failed", s.stats.Failed,
		"duplicates", s.stats.Duplicates,
		"denylisted", s.stats.Denylisted,
		"visited", frontier.VisitedCount(),
		"queued", frontier.Pending(),
	)

	return records, nil
}

// next dequeues until it finds a URL that is neither visited nor
// denylisted. Denylisted URLs are skipped without being marked visited.
func (s *Spider) next(frontier *Frontier, scope Scope) (string, bool) {
	for {
		raw, ok := frontier.Dequeue()
		if !ok {
			return "", false
		}
		normalized := Normalize(raw)
		if frontier.Visited(normalized) {
			s.stats.Duplicates++
			continue
		}
		if scope.IsDenylisted(normalized) {
			s.stats.Denylisted++
			continue
		}
		return normalized, true
	}
}

// Stats returns the counters of the most recent crawl.
func (s *Spider) Stats() SpiderStats {
	return s.stats
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// Fetched is the number of records produced.
	Fetched int

	// Failed is the number of URLs dropped on transport failure.
	Failed int

	// Enqueued is the number of links handed to the frontier.
	Enqueued int

	// Duplicates is the number of dequeued URLs skipped as already visited.
	Duplicates int

	// Denylisted is the number of dequeued URLs skipped by the denylist.
	Denylisted int

	// Visited is the number of distinct URLs marked visited.
	Visited int

	// Queued is the number of frontier entries left when the crawl
	// stopped. It is non-zero only when the crawl ended early.
	Queued int
}

// IsTransportError reports whether err is a fetch transport failure.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}
