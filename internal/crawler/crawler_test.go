package crawler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/sitediff/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no trailing slash", in: "https://example.com/a", want: "https://example.com/a"},
		{name: "one trailing slash", in: "https://example.com/a/", want: "https://example.com/a"},
		{name: "many trailing slashes", in: "https://example.com/a///", want: "https://example.com/a"},
		{name: "root", in: "https://example.com/", want: "https://example.com"},
		{name: "query untouched", in: "https://example.com/a?b=/", want: "https://example.com/a?b="},
		{name: "case preserved", in: "HTTPS://Example.com/A/", want: "HTTPS://Example.com/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{name: "absolute path", base: "https://example.com/a/b", ref: "/c/", want: "https://example.com/c"},
		{name: "relative path", base: "https://example.com/a/b", ref: "c", want: "https://example.com/a/c"},
		{name: "absolute url", base: "https://example.com/a", ref: "https://other.com/x/", want: "https://other.com/x"},
		{name: "fragment kept", base: "https://example.com/a", ref: "#top", want: "https://example.com/a#top"},
		{name: "surrounding whitespace", base: "https://example.com", ref: "  /about \n", want: "https://example.com/about"},
		{name: "parent segment", base: "https://example.com/a/b/c", ref: "../d", want: "https://example.com/a/d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tt.base, tt.ref)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
			}
		})
	}

	t.Run("invalid reference", func(t *testing.T) {
		t.Parallel()

		if _, err := Resolve("https://example.com", "http://[::1"); err == nil {
			t.Error("expected error for unparsable reference")
		}
	})
}

func TestScope(t *testing.T) {
	t.Parallel()

	scope := NewScope("example.com", []string{".php", "/wp-json/", "/wp-admin/"})

	tests := []struct {
		name       string
		url        string
		inScope    bool
		denylisted bool
	}{
		{name: "same host", url: "https://example.com/about", inScope: true},
		{name: "other host", url: "https://other.com/about"},
		{name: "subdomain", url: "https://www.example.com/about"},
		{name: "fragment", url: "https://example.com/about#team"},
		{name: "php page", url: "https://example.com/index.php", inScope: true, denylisted: true},
		{name: "wp-json", url: "https://example.com/wp-json/v2/posts", inScope: true, denylisted: true},
		{name: "wp-admin", url: "https://example.com/wp-admin/", inScope: true, denylisted: true},
		{name: "port differs", url: "https://example.com:8443/about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := scope.InScope(tt.url); got != tt.inScope {
				t.Errorf("InScope(%q) = %v, want %v", tt.url, got, tt.inScope)
			}
			if got := scope.IsDenylisted(tt.url); got != tt.denylisted {
				t.Errorf("IsDenylisted(%q) = %v, want %v", tt.url, got, tt.denylisted)
			}
			want := tt.inScope && !tt.denylisted
			if got := scope.Follow(tt.url); got != want {
				t.Errorf("Follow(%q) = %v, want %v", tt.url, got, want)
			}
		})
	}

	t.Run("empty denylist term is ignored", func(t *testing.T) {
		t.Parallel()

		s := NewScope("example.com", []string{""})
		if s.IsDenylisted("https://example.com/") {
			t.Error("empty term must not match every URL")
		}
	})
}

func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("fifo order with duplicates", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a")
		f.Enqueue("b")
		f.Enqueue("a")

		if f.Pending() != 3 {
			t.Fatalf("Pending() = %d, want 3", f.Pending())
		}

		var got []string
		for !f.Empty() {
			u, ok := f.Dequeue()
			if !ok {
				t.Fatal("Dequeue() returned false on non-empty frontier")
			}
			got = append(got, u)
		}
		if !slices.Equal(got, []string{"a", "b", "a"}) {
			t.Errorf("dequeue order = %v", got)
		}

		if _, ok := f.Dequeue(); ok {
			t.Error("Dequeue() on empty frontier returned true")
		}
	})

	t.Run("visited set", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		if f.Visited("a") {
			t.Error("fresh frontier reports a visited URL")
		}
		f.MarkVisited("a")
		f.MarkVisited("a")
		if !f.Visited("a") {
			t.Error("MarkVisited did not record the URL")
		}
		if f.VisitedCount() != 1 {
			t.Errorf("VisitedCount() = %d, want 1", f.VisitedCount())
		}
	})
}

func TestRandomDelay(t *testing.T) {
	t.Parallel()

	t.Run("draws stay within bounds", func(t *testing.T) {
		t.Parallel()

		d := NewRandomDelay(100*time.Millisecond, 500*time.Millisecond)
		for range 1000 {
			got := d.Next()
			if got < d.Min || got > d.Max {
				t.Fatalf("Next() = %v, outside [%v, %v]", got, d.Min, d.Max)
			}
		}
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		t.Parallel()

		d := NewRandomDelay(time.Second, 3*time.Second)
		d.rand = func(int64) int64 { return 0 }
		if got := d.Next(); got != time.Second {
			t.Errorf("lowest draw = %v, want 1s", got)
		}
		d.rand = func(n int64) int64 { return n - 1 }
		if got := d.Next(); got != 3*time.Second {
			t.Errorf("highest draw = %v, want 3s", got)
		}
	})

	t.Run("inverted bounds are swapped", func(t *testing.T) {
		t.Parallel()

		d := NewRandomDelay(2*time.Second, time.Second)
		if d.Min != time.Second || d.Max != 2*time.Second {
			t.Errorf("bounds = [%v, %v], want [1s, 2s]", d.Min, d.Max)
		}
	})

	t.Run("fixed delay", func(t *testing.T) {
		t.Parallel()

		d := NewRandomDelay(time.Millisecond, time.Millisecond)
		if got := d.Next(); got != time.Millisecond {
			t.Errorf("Next() = %v, want 1ms", got)
		}
	})

	t.Run("wait honors cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		d := NewRandomDelay(time.Hour, time.Hour)
		start := time.Now()
		if err := d.Wait(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Wait() error = %v, want context.Canceled", err)
		}
		if time.Since(start) > time.Second {
			t.Error("Wait() did not return promptly after cancellation")
		}
	})

	t.Run("no delay", func(t *testing.T) {
		t.Parallel()

		if err := (NoDelay{}).Wait(context.Background()); err != nil {
			t.Errorf("NoDelay.Wait() error = %v", err)
		}
	})
}

func TestParser(t *testing.T) {
	t.Parallel()

	t.Run("height counts body lines", func(t *testing.T) {
		t.Parallel()

		doc := "<html><head><title>t</title></head><body><p>a</p>\n<p>b</p>\n<p>c</p></body></html>"
		parser, err := NewParser("https://example.com/page")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse([]byte(doc), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if !result.hasBody {
			t.Error("expected body to be found")
		}
		if result.Height != 3 {
			t.Errorf("Height = %d, want 3", result.Height)
		}
	})

	t.Run("head lines do not count", func(t *testing.T) {
		t.Parallel()

		doc := "<html><head>\n\n\n<title>t</title>\n</head><body><p>only</p></body></html>"
		parser, _ := NewParser("https://example.com/")
		result, err := parser.Parse([]byte(doc), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.Height != 1 {
			t.Errorf("Height = %d, want 1", result.Height)
		}
	})

	t.Run("frameset document has height 1", func(t *testing.T) {
		t.Parallel()

		doc := `<html><head></head><frameset><frame src="/a"></frameset></html>`
		parser, _ := NewParser("https://example.com/")
		result, err := parser.Parse([]byte(doc), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.hasBody {
			t.Error("frameset document should have no body")
		}
		if result.Height != 1 {
			t.Errorf("Height = %d, want 1", result.Height)
		}
	})

	t.Run("document without body tag has height 1", func(t *testing.T) {
		t.Parallel()

		doc := "<html><head></head>\n<p>a</p>\n<p>b</p>\n<a href=\"/x\">x</a>\n</html>"
		parser, _ := NewParser("https://example.com/")
		result, err := parser.Parse([]byte(doc), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.hasBody {
			t.Error("document without a body tag should have no body")
		}
		if result.Height != 1 {
			t.Errorf("Height = %d, want 1", result.Height)
		}
		if !slices.Equal(result.Links, []string{"https://example.com/x"}) {
			t.Errorf("Links = %v, want the anchor outside a body", result.Links)
		}
	})

	t.Run("body tag inside a comment or script does not count", func(t *testing.T) {
		t.Parallel()

		doc := "<html><head><script>var s = '<body>';</script></head>\n<!-- <body> -->\n<p>a</p>\n</html>"
		parser, _ := NewParser("https://example.com/")
		result, err := parser.Parse([]byte(doc), "text/html")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.hasBody || result.Height != 1 {
			t.Errorf("hasBody = %v, Height = %d, want false and 1", result.hasBody, result.Height)
		}
	})

	t.Run("extracts anchors links and scripts", func(t *testing.T) {
		t.Parallel()

		doc := `<html><head>
			<link rel="stylesheet" href="/style.css">
			<script src="app.js"></script>
			<script>var inline = 1;</script>
		</head><body>
			<a href="/about/">About</a>
			<a name="anchor-without-href">x</a>
			<img src="/logo.png">
			<a href="https://other.com/x">Other</a>
			<a href="#top">Top</a>
		</body></html>`

		parser, _ := NewParser("https://example.com/docs/index")
		result, err := parser.Parse([]byte(doc), "text/html; charset=utf-8")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		want := []string{
			"https://example.com/style.css",
			"https://example.com/docs/app.js",
			"https://example.com/about",
			"https://other.com/x",
			"https://example.com/docs/index#top",
		}
		if !slices.Equal(result.Links, want) {
			t.Errorf("Links = %v, want %v", result.Links, want)
		}
	})

	t.Run("decodes declared charset", func(t *testing.T) {
		t.Parallel()

		doc := []byte("<html><body><a href=\"/caf\xe9\">x</a></body></html>")
		parser, _ := NewParser("https://example.com/")
		result, err := parser.Parse(doc, "text/html; charset=iso-8859-1")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if len(result.Links) != 1 || result.Links[0] != "https://example.com/caf%C3%A9" {
			t.Errorf("Links = %v, want the decoded path", result.Links)
		}
	})

	t.Run("malformed markup is tolerated", func(t *testing.T) {
		t.Parallel()

		doc := `<div><a href="/x">unterminated<p>para</div>`
		parser, _ := NewParser("https://example.com/")
		result, err := parser.Parse([]byte(doc), "")
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if len(result.Links) != 1 {
			t.Errorf("Links = %v, want one link", result.Links)
		}
	})
}

func TestFetcher(t *testing.T) {
	t.Parallel()

	image := strings.Repeat("x", 1234)
	page := "<html><body><p>" + strings.Repeat("a", 5000) + "</p>\n<a href=\"/next\">n</a></body></html>"

	mux := http.NewServeMux()
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = io.WriteString(w, image)
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, page)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "<html><body>gone</body></html>")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	host := strings.TrimPrefix(server.URL, "http://")
	scope := NewScope(host, nil)

	t.Run("non-html resource is sized but not parsed", func(t *testing.T) {
		t.Parallel()

		f := NewFetcher(server.Client(), scope)
		result, err := f.Fetch(context.Background(), server.URL+"/logo.png")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		rec := result.Record
		if rec.Type != model.ResourceImage {
			t.Errorf("Type = %v, want Image", rec.Type)
		}
		if rec.Size != int64(len(image)) {
			t.Errorf("Size = %d, want %d", rec.Size, len(image))
		}
		if rec.HasHeight {
			t.Error("non-HTML resource must not carry a height")
		}
		if len(result.Links) != 0 {
			t.Errorf("Links = %v, want none", result.Links)
		}
	})

	t.Run("size counts the whole body beyond the parse cap", func(t *testing.T) {
		t.Parallel()

		f := NewFetcher(server.Client(), scope, WithFetchMaxBodySize(100))
		result, err := f.Fetch(context.Background(), server.URL+"/big")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if result.Record.Size != int64(len(page)) {
			t.Errorf("Size = %d, want %d", result.Record.Size, len(page))
		}
		if !result.Record.HasHeight {
			t.Error("HTML resource must carry a height")
		}
	})

	t.Run("links from full body", func(t *testing.T) {
		t.Parallel()

		f := NewFetcher(server.Client(), scope)
		result, err := f.Fetch(context.Background(), server.URL+"/big")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !slices.Equal(result.Links, []string{server.URL + "/next"}) {
			t.Errorf("Links = %v", result.Links)
		}
		if result.Record.Height != 2 {
			t.Errorf("Height = %d, want 2", result.Record.Height)
		}
	})

	t.Run("error status is a normal record", func(t *testing.T) {
		t.Parallel()

		f := NewFetcher(server.Client(), scope)
		result, err := f.Fetch(context.Background(), server.URL+"/gone")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if result.Record.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", result.Record.StatusCode)
		}
	})

	t.Run("connection failure is a transport error", func(t *testing.T) {
		t.Parallel()

		closed := httptest.NewServer(http.NotFoundHandler())
		addr := closed.URL
		closed.Close()

		f := NewFetcher(http.DefaultClient, scope)
		_, err := f.Fetch(context.Background(), addr+"/")
		if !errors.Is(err, ErrTransport) {
			t.Errorf("Fetch() error = %v, want ErrTransport", err)
		}
		if !IsTransportError(err) {
			t.Error("IsTransportError() = false")
		}
	})
}

// siteServer serves a small site and records every requested path.
type siteServer struct {
	*httptest.Server

	mu        sync.Mutex
	requested []string
}

func newSiteServer(t *testing.T) *siteServer {
	t.Helper()

	s := &siteServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			s.serveOther(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, `<html><head><link rel="stylesheet" href="/style.css"></head><body>
<a href="/about">About</a>
<a href="/about/">About again</a>
<a href="/#top">Top</a>
<a href="https://external.example/x">External</a>
<a href="/index.php">Legacy</a>
<a href="/wp-admin/options">Admin</a>
<a href="/broken">Broken</a>
</body></html>`)
	})
	s.Server = httptest.NewServer(s.track(mux))
	t.Cleanup(s.Close)
	return s
}

func (s *siteServer) serveOther(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/about":
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><body><a href="/">Home</a></body></html>`)
	case "/style.css":
		w.Header().Set("Content-Type", "text/css")
		_, _ = io.WriteString(w, "body { margin: 0; }")
	case "/broken":
		hj, ok := w.(http.Hijacker)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		conn, _, err := hj.Hijack()
		if err == nil {
			_ = conn.Close()
		}
	default:
		http.NotFound(w, r)
	}
}

func (s *siteServer) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requested = append(s.requested, r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *siteServer) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requested...)
}

func TestSpiderCrawl(t *testing.T) {
	t.Parallel()

	t.Run("crawls the site once per url", func(t *testing.T) {
		t.Parallel()

		site := newSiteServer(t)
		spider := NewSpider(site.Client(), WithLogger(quietLogger()))

		records, err := spider.Crawl(context.Background(), site.URL+"/")
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}

		var urls []string
		for _, rec := range records {
			urls = append(urls, rec.URL)
		}
		want := []string{site.URL, site.URL + "/style.css", site.URL + "/about"}
		if !slices.Equal(urls, want) {
			t.Errorf("crawled URLs = %v, want %v", urls, want)
		}

		if records[0].Type != model.ResourceHTML || !records[0].HasHeight {
			t.Errorf("root record = %+v, want HTML with height", records[0])
		}
		if records[1].Type != model.ResourceAsset || records[1].HasHeight {
			t.Errorf("stylesheet record = %+v, want Asset without height", records[1])
		}

		stats := spider.Stats()
		if stats.Fetched != 3 {
			t.Errorf("Stats().Fetched = %d, want 3", stats.Fetched)
		}
		if stats.Failed != 1 {
			t.Errorf("Stats().Failed = %d, want 1", stats.Failed)
		}
		if stats.Duplicates == 0 {
			t.Error("Stats().Duplicates = 0, want the repeated /about link counted")
		}
		if stats.Queued != 0 {
			t.Errorf("Stats().Queued = %d, want 0 after a full crawl", stats.Queued)
		}
	})

	t.Run("start url fragment is dropped", func(t *testing.T) {
		t.Parallel()

		site := newSiteServer(t)
		spider := NewSpider(site.Client(), WithLogger(quietLogger()))
		records, err := spider.Crawl(context.Background(), site.URL+"/#intro")
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}
		if len(records) == 0 || records[0].URL != site.URL {
			t.Fatalf("first record = %v, want %s", records, site.URL)
		}
		for _, rec := range records[1:] {
			if rec.URL == site.URL {
				t.Errorf("root recorded twice: %v", records)
			}
		}
	})

	t.Run("denylisted urls are never requested", func(t *testing.T) {
		t.Parallel()

		site := newSiteServer(t)
		spider := NewSpider(site.Client(), WithLogger(quietLogger()))
		if _, err := spider.Crawl(context.Background(), site.URL); err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}

		for _, p := range site.paths() {
			if strings.Contains(p, ".php") || strings.Contains(p, "/wp-admin/") {
				t.Errorf("denylisted path %q was requested", p)
			}
		}
	})

	t.Run("custom denylist replaces the default", func(t *testing.T) {
		t.Parallel()

		site := newSiteServer(t)
		spider := NewSpider(site.Client(),
			WithLogger(quietLogger()),
			WithDenylist([]string{".php", "/wp-admin/", "/about"}),
		)
		records, err := spider.Crawl(context.Background(), site.URL)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}
		for _, rec := range records {
			if strings.HasSuffix(rec.URL, "/about") {
				t.Errorf("denylisted %s was recorded", rec.URL)
			}
		}
	})

	t.Run("recorder sees records in discovery order", func(t *testing.T) {
		t.Parallel()

		site := newSiteServer(t)
		var seen []model.CaptureRecord
		spider := NewSpider(site.Client(),
			WithLogger(quietLogger()),
			WithRecorder(RecorderFunc(func(rec model.CaptureRecord) error {
				seen = append(seen, rec)
				return nil
			})),
		)

		records, err := spider.Crawl(context.Background(), site.URL)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}
		if !slices.Equal(seen, records) {
			t.Errorf("recorder saw %v, crawl returned %v", seen, records)
		}
	})

	t.Run("recorder failure stops the crawl", func(t *testing.T) {
		t.Parallel()

		site := newSiteServer(t)
		errDisk := errors.New("disk full")
		spider := NewSpider(site.Client(),
			WithLogger(quietLogger()),
			WithRecorder(RecorderFunc(func(model.CaptureRecord) error { return errDisk })),
		)

		records, err := spider.Crawl(context.Background(), site.URL)
		if !errors.Is(err, errDisk) {
			t.Fatalf("Crawl() error = %v, want %v", err, errDisk)
		}
		if len(records) != 1 {
			t.Errorf("got %d records, want the one collected before the failure", len(records))
		}
	})

	t.Run("max pages", func(t *testing.T) {
		t.Parallel()

		site := newSiteServer(t)
		spider := NewSpider(site.Client(), WithLogger(quietLogger()), WithMaxPages(2))
		records, err := spider.Crawl(context.Background(), site.URL)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}
		if len(records) != 2 {
			t.Errorf("got %d records, want 2", len(records))
		}
		stats := spider.Stats()
		if stats.Visited != 2 {
			t.Errorf("Stats().Visited = %d, want 2", stats.Visited)
		}
		if stats.Queued == 0 {
			t.Error("Stats().Queued = 0, want the links left behind by the limit")
		}
	})

	t.Run("cancelled context returns partial result", func(t *testing.T) {
		t.Parallel()

		site := newSiteServer(t)
		ctx, cancel := context.WithCancel(context.Background())
		spider := NewSpider(site.Client(),
			WithLogger(quietLogger()),
			WithRecorder(RecorderFunc(func(model.CaptureRecord) error {
				cancel()
				return nil
			})),
		)

		records, err := spider.Crawl(ctx, site.URL)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Crawl() error = %v, want context.Canceled", err)
		}
		if len(records) != 1 {
			t.Errorf("got %d records, want 1", len(records))
		}
	})

	t.Run("start url without host", func(t *testing.T) {
		t.Parallel()

		spider := NewSpider(http.DefaultClient, WithLogger(quietLogger()))
		_, err := spider.Crawl(context.Background(), "just-a-path")
		if !errors.Is(err, ErrInvalidStartURL) {
			t.Errorf("Crawl() error = %v, want ErrInvalidStartURL", err)
		}
	})

	t.Run("unreachable start url yields empty result", func(t *testing.T) {
		t.Parallel()

		closed := httptest.NewServer(http.NotFoundHandler())
		addr := closed.URL
		closed.Close()

		spider := NewSpider(http.DefaultClient, WithLogger(quietLogger()))
		records, err := spider.Crawl(context.Background(), addr)
		if err != nil {
			t.Fatalf("Crawl() error = %v", err)
		}
		if len(records) != 0 {
			t.Errorf("got %d records, want 0", len(records))
		}
	})
}

func TestMultiRecorder(t *testing.T) {
	t.Parallel()

	errFirst := errors.New("first")
	var calls int
	m := MultiRecorder{
		RecorderFunc(func(model.CaptureRecord) error { calls++; return errFirst }),
		nil,
		RecorderFunc(func(model.CaptureRecord) error { calls++; return nil }),
	}

	err := m.Record(model.CaptureRecord{URL: "https://example.com"})
	if !errors.Is(err, errFirst) {
		t.Errorf("Record() error = %v, want %v", err, errFirst)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want every recorder invoked", calls)
	}
}
