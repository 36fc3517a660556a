package model

import "strconv"

// SnapshotHeader is the column header of a capture snapshot file.
var SnapshotHeader = []string{"Type", "URL", "Status_Code", "Size", "Height"}

// CaptureRecord is the fingerprint of one fetched resource.
// Records are created only by the crawler and never mutated afterwards.
type CaptureRecord struct {
	// Type is the classification derived from the response content type.
	Type ResourceType `json:"type"`

	// URL is the normalized absolute URL. It is unique within a snapshot.
	URL string `json:"url"`

	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"status_code"`

	// Size is the byte length of the raw response body.
	Size int64 `json:"size"`

	// Height is the number of lines in the serialized body element.
	// It is meaningful only when HasHeight is true.
	Height int `json:"height,omitempty"`

	// HasHeight reports whether Height was computed (HTML resources only).
	HasHeight bool `json:"has_height"`
}

// Row renders the record into its snapshot columns.
func (r CaptureRecord) Row() Row {
	row := Row{
		Type:   r.Type.String(),
		URL:    r.URL,
		Status: strconv.Itoa(r.StatusCode),
		Size:   strconv.FormatInt(r.Size, 10),
	}
	if r.HasHeight {
		row.Height = strconv.Itoa(r.Height)
	}
	return row
}

// Row is one snapshot line. All values are kept as the opaque strings found
// on disk; the diff engine compares them by exact string equality.
type Row struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Status string `json:"status_code"`
	Size   string `json:"size"`
	Height string `json:"height"`
}

// Fields returns the row's columns in snapshot header order.
func (r Row) Fields() []string {
	return []string{r.Type, r.URL, r.Status, r.Size, r.Height}
}
