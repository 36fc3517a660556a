package model

// NotAvailable marks a field whose snapshot side has no record for the URL.
// It never collides with a real value: statuses and sizes are numeric and
// an absent height is the empty string.
const NotAvailable = "N/A"

// UnknownType is the type reported when neither side carries a type.
const UnknownType = "unknown"

// ComparisonHeader is the column header of a comparison file.
var ComparisonHeader = []string{
	"Type", "URL",
	"Old Status Code", "New Status Code",
	"Old Size", "New Size",
	"Old Height", "New Height",
	"Flag",
}

// ComparisonRecord is the reconciled view of one URL across two snapshots.
// Records are derived on every diff run and never persisted into a snapshot.
type ComparisonRecord struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	OldStatus string `json:"old_status_code"`
	NewStatus string `json:"new_status_code"`
	OldSize   string `json:"old_size"`
	NewSize   string `json:"new_size"`
	OldHeight string `json:"old_height"`
	NewHeight string `json:"new_height"`
	Flags     Flag   `json:"flags"`
}

// Fields returns the record's columns in comparison header order.
func (c ComparisonRecord) Fields() []string {
	return []string{
		c.Type, c.URL,
		c.OldStatus, c.NewStatus,
		c.OldSize, c.NewSize,
		c.OldHeight, c.NewHeight,
		c.Flags.String(),
	}
}
