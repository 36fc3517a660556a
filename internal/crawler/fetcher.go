package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/nao1215/sitediff/internal/model"
)

// Result is the outcome of one successful fetch.
type Result struct {
	// Record is the fingerprint of the fetched resource.
	Record model.CaptureRecord

	// Links are the discovered targets that passed the Scope: same host,
	// no fragment, not denylisted. Only HTML resources yield links.
	Links []string
}

// Fetcher performs single GET requests and classifies their responses.
type Fetcher struct {
	// client performs the requests. Redirects, TLS and cookies are its concern.
	client *http.Client

	// scope filters discovered links.
	scope Scope

	// delayer is the politeness strategy applied by Wait.
	delayer Delayer

	// userAgent is sent unless the client's transport sets one.
	userAgent string

	// maxBodySize caps how much of an HTML body is buffered for parsing.
	// 0 means no cap. The recorded size always counts the full body.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchDelayer sets the politeness strategy.
func WithFetchDelayer(d Delayer) FetcherOption {
	return func(f *Fetcher) {
		f.delayer = d
	}
}

// WithFetchUserAgent sets the User-Agent header.
func WithFetchUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithFetchMaxBodySize caps the buffered HTML body size.
func WithFetchMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// NewFetcher creates a Fetcher that filters links through scope.
func NewFetcher(client *http.Client, scope Scope, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:  client,
		scope:   scope,
		delayer: NoDelay{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues one blocking GET for pageURL. Any failure to obtain a
// complete response is returned wrapped in ErrTransport; HTTP error statuses
// are not failures and produce a normal record.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	rec := model.CaptureRecord{
		Type:       model.ClassifyContentType(contentType),
		URL:        pageURL,
		StatusCode: resp.StatusCode,
	}

	if rec.Type != model.ResourceHTML {
		n, err := io.Copy(io.Discard, resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
		}
		rec.Size = n
		return &Result{Record: rec}, nil
	}

	body, size, err := f.readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}
	rec.Size = size

	links, height := f.inspectHTML(pageURL, body, contentType)
	rec.Height = height
	rec.HasHeight = true

	return &Result{Record: rec, Links: links}, nil
}

// Wait applies the politeness delay. The crawl calls it after every
// recorded fetch.
func (f *Fetcher) Wait(ctx context.Context) error {
	return f.delayer.Wait(ctx)
}

// readBody buffers up to maxBodySize bytes and counts the rest.
func (f *Fetcher) readBody(r io.Reader) ([]byte, int64, error) {
	var buf bytes.Buffer
	if f.maxBodySize <= 0 {
		n, err := io.Copy(&buf, r)
		return buf.Bytes(), n, err
	}

	n, err := io.Copy(&buf, io.LimitReader(r, f.maxBodySize))
	if err != nil {
		return nil, n, err
	}
	rest, err := io.Copy(io.Discard, r)
	return buf.Bytes(), n + rest, err
}

// inspectHTML computes the body height and the followable links. Parse
// problems degrade to the missing-body height and no links.
func (f *Fetcher) inspectHTML(pageURL string, body []byte, contentType string) ([]string, int) {
	parser, err := NewParser(pageURL)
	if err != nil {
		return nil, lineCount(missingBodyText)
	}
	result, err := parser.Parse(body, contentType)
	if err != nil {
		return nil, lineCount(missingBodyText)
	}

	links := make([]string, 0, len(result.Links))
	for _, link := range result.Links {
		if f.scope.Follow(link) {
			links = append(links, link)
		}
	}
	return links, result.Height
}
