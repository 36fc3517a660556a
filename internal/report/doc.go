// Package report renders crawl captures and snapshot comparisons.
//
// Comparison writers implement Writer and can be combined with MultiWriter:
//   - TSVWriter: the tab-separated comparison file
//   - HTMLWriter: a standalone page with one badge per flag
//   - MarkdownWriter: a summary with a mermaid pie chart of flag counts
//   - JSONWriter: structured output for tooling
//   - SimpleWriter: a short plain-text summary for the terminal
//
// CaptureHTML is different: it is a crawler.Recorder that streams one table
// row per record while a crawl is running and writes the page footer on
// Close. A page whose crawl was interrupted simply lacks the footer.
package report
