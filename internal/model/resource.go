package model

import "strings"

// ResourceType classifies a fetched resource by its response content type.
type ResourceType int

const (
	// ResourceOther is any resource not matched by a more specific type.
	ResourceOther ResourceType = iota

	// ResourceHTML is a text/html document. Only HTML resources carry a height
	// and contribute outbound links to the crawl.
	ResourceHTML

	// ResourceAsset is a stylesheet or script.
	ResourceAsset

	// ResourceImage is any image/* resource.
	ResourceImage
)

// String returns the label written to snapshot files.
func (t ResourceType) String() string {
	switch t {
	case ResourceHTML:
		return "HTML"
	case ResourceAsset:
		return "Asset"
	case ResourceImage:
		return "Image"
	default:
		return "Other"
	}
}

// ClassifyContentType maps a Content-Type header value to a ResourceType.
// The checks run in a fixed order and the first match wins, so a header
// such as "text/html; charset=utf-8" is HTML regardless of what follows.
func ClassifyContentType(contentType string) ResourceType {
	switch {
	case strings.Contains(contentType, "text/html"):
		return ResourceHTML
	case strings.Contains(contentType, "text/css"),
		strings.Contains(contentType, "application/javascript"):
		return ResourceAsset
	case strings.Contains(contentType, "image/"):
		return ResourceImage
	default:
		return ResourceOther
	}
}
