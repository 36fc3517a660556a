// Package crawler implements the single-site breadth-first crawl engine.
//
// # Components
//
//   - Normalize/Resolve: URL canonicalization used for dedup and comparison
//   - Scope: same-host, fragment-free and denylist checks
//   - Frontier: FIFO of pending URLs plus the set of visited URLs
//   - Fetcher: one GET, content classification, body height and link
//     extraction for HTML, followed by the politeness delay
//   - Spider: drives Frontier, Fetcher and Scope until the frontier is empty
//
// # Politeness
//
// After every recorded fetch the Fetcher waits for a random duration drawn
// uniformly from the configured range. The wait is a Delayer so tests can
// substitute NoDelay.
//
// # Ordering
//
// The crawl is single-threaded. Records are emitted in discovery order and
// every normalized URL is fetched at most once per crawl.
//
// # Usage
//
//	spider := crawler.NewSpider(httpClient,
//		crawler.WithDelayer(crawler.NewRandomDelay(100*time.Millisecond, 500*time.Millisecond)),
//		crawler.WithRecorder(store),
//	)
//	records, err := spider.Crawl(ctx, "https://example.com")
package crawler
