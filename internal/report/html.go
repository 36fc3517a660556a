package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/nao1215/sitediff/internal/model"
)

// pageStyle is shared by the capture and comparison pages. Flag badge
// classes are the flag names in lower case with dashes.
const pageStyle = `
body { font-family: sans-serif; margin: 1.5rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; vertical-align: top; }
td { max-width: 38vw; overflow-wrap: anywhere; min-width: 60px; }
tr:nth-child(even) { background-color: #f6f6f6; }
.flag-pill { display: inline-block; padding: 4px 10px; margin: 2px; border: 1px solid #ccc; border-radius: 15px; }
.not-found-in-old { background-color: darkblue; color: white; }
.not-found-in-new, .fatal-error { background-color: red; color: white; }
.status-code-different { background-color: pink; color: black; }
.size-different { background-color: blue; color: white; }
.height-different { background-color: blueviolet; color: white; }
`

var captureTemplates = template.Must(template.New("capture").Parse(`
{{define "header"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Domain}} capture {{.Started}}</title>
<style>{{.Style}}</style>
</head>
<body>
<h1>All URLs: {{.Domain}}</h1>
<p>Started {{.Started}}</p>
<table>
<tr><th>Type</th><th>URL</th><th>Status Code</th><th>Size</th><th>Height</th></tr>
{{end}}
{{define "row"}}<tr><td>{{.Type}}</td><td><a href="{{.URL}}" target="_blank">{{.URL}}</a></td><td>{{.Status}}</td><td>{{.Size}}</td><td>{{.Height}}</td></tr>
{{end}}
{{define "footer"}}</table>
</body>
</html>
{{end}}`))

var comparisonTemplate = template.Must(template.New("comparison").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Comparison {{.GeneratedAt}}</title>
<style>{{.Style}}</style>
</head>
<body>
<h1>Comparison</h1>
<p>Old: {{.OldSource}}<br>New: {{.NewSource}}<br>Generated {{.GeneratedAt}}</p>
<p>{{.Summary.Total}} URLs, {{.Summary.Flagged}} flagged, {{.Summary.Unchanged}} unchanged</p>
<table>
<tr><th>Type</th><th>URL</th><th>Old Status Code</th><th>New Status Code</th><th>Old Size</th><th>New Size</th><th>Old Height</th><th>New Height</th><th>Flag</th></tr>
{{range .Records}}<tr><td>{{.Type}}</td><td><a href="{{.URL}}" target="_blank">{{.URL}}</a></td><td>{{.OldStatus}}</td><td>{{.NewStatus}}</td><td>{{.OldSize}}</td><td>{{.NewSize}}</td><td>{{.OldHeight}}</td><td>{{.NewHeight}}</td><td>{{range .Flags.List}}<span class="flag-pill {{.CSSClass}}">{{.Name}}</span>{{end}}</td></tr>
{{end}}</table>
</body>
</html>
`))

const displayTimeLayout = "2006-01-02 15:04:05 MST"

// HTMLWriter renders a comparison as a standalone HTML page.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *HTMLWriter) Write(c *Comparison) (int, error) {
	cw := &countingWriter{w: w.output}
	err := comparisonTemplate.Execute(cw, struct {
		*Comparison
		GeneratedAt string
		Style       template.CSS
	}{
		Comparison:  c,
		GeneratedAt: c.GeneratedAt.Format(displayTimeLayout),
		Style:       template.CSS(pageStyle),
	})
	return cw.n, err
}

// CaptureHTML streams the human-readable companion of a capture file.
// The header is written by NewCaptureHTML, one row per Record and the
// footer by Close.
type CaptureHTML struct {
	out    io.Writer
	closer io.Closer
	closed bool
}

// NewCaptureHTML writes the page header for a crawl of domain started at
// started and returns a recorder appending rows to out. If out is an
// io.Closer it is closed by Close.
func NewCaptureHTML(out io.Writer, domain string, started time.Time) (*CaptureHTML, error) {
	c := &CaptureHTML{out: out}
	if closer, ok := out.(io.Closer); ok {
		c.closer = closer
	}

	err := captureTemplates.ExecuteTemplate(out, "header", struct {
		Domain  string
		Started string
		Style   template.CSS
	}{
		Domain:  domain,
		Started: started.Format(displayTimeLayout),
		Style:   template.CSS(pageStyle),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write capture page header: %w", err)
	}
	return c, nil
}

// Record implements crawler.Recorder.
func (c *CaptureHTML) Record(rec model.CaptureRecord) error {
	if c.closed {
		return fmt.Errorf("capture page is closed")
	}
	if err := captureTemplates.ExecuteTemplate(c.out, "row", rec.Row()); err != nil {
		return fmt.Errorf("failed to write capture page row %s: %w", rec.URL, err)
	}
	return nil
}

// Close writes the footer and closes the output if it is closable.
func (c *CaptureHTML) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	err := captureTemplates.ExecuteTemplate(c.out, "footer", nil)
	if c.closer != nil {
		if cerr := c.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
