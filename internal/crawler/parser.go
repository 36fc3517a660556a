package crawler

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// missingBodyText is what a document without a <body> tag serializes to.
// The HTML5 parser synthesizes a body for most such documents, so the
// source is scanned for a real <body> start tag first. The resulting
// height is 1.
const missingBodyText = "None"

// ParseResult contains what the crawler needs from an HTML document.
type ParseResult struct {
	// Height is the number of '\n'-separated lines in the serialized body
	// element.
	Height int

	// hasBody reports whether the source had a <body> tag.
	hasBody bool

	// Links are the href targets of <a> and <link> tags and the src
	// targets of <script> tags, resolved against the base URL and
	// normalized, in document order. Unresolvable values are dropped.
	Links []string
}

// Parser extracts the body height and link targets from HTML documents.
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving relative URLs.
	baseURL *url.URL
}

// NewParser creates a new HTML parser with the given base URL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse decodes body according to contentType (and any <meta charset>),
// then parses it. Parse never fails on malformed markup; it returns an
// error only if the serialized body cannot be rendered.
func (p *Parser) Parse(body []byte, contentType string) (*ParseResult, error) {
	decoded, err := io.ReadAll(decode(body, contentType))
	if err != nil {
		decoded = body
	}
	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return &ParseResult{Height: lineCount(missingBodyText)}, nil
	}

	result := &ParseResult{Links: make([]string, 0)}

	var bodyNode *html.Node
	if hasBodyTag(decoded) {
		bodyNode = findElement(doc, atom.Body)
	}
	serialized := missingBodyText
	if bodyNode != nil {
		var sb strings.Builder
		if err := html.Render(&sb, bodyNode); err != nil {
			return nil, err
		}
		serialized = sb.String()
		result.hasBody = true
	}
	result.Height = lineCount(serialized)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			p.processElement(n, result)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result, nil
}

// processElement collects link targets from a single element node.
func (p *Parser) processElement(n *html.Node, result *ParseResult) {
	var key string
	switch n.DataAtom {
	case atom.A, atom.Link:
		key = "href"
	case atom.Script:
		key = "src"
	default:
		return
	}

	value, ok := getAttr(n, key)
	if !ok {
		return
	}
	resolved, err := resolveAgainst(p.baseURL, value)
	if err != nil {
		return
	}
	result.Links = append(result.Links, resolved)
}

// decode converts body to UTF-8. If the charset cannot be determined or is
// unsupported the raw bytes are used.
func decode(body []byte, contentType string) io.Reader {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return bytes.NewReader(body)
	}
	return r
}

// hasBodyTag reports whether the markup contains a <body> start tag
// outside comments and raw text elements.
func hasBodyTag(data []byte) bool {
	z := html.NewTokenizer(bytes.NewReader(data))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Body {
				return true
			}
		}
	}
}

// findElement returns the first element with the given atom, depth-first.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// lineCount returns the number of pieces s splits into on '\n'.
func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
