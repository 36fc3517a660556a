package diff

import (
	"encoding/json"

	"github.com/nao1215/sitediff/internal/model"
)

// Summary counts comparison records by flag.
type Summary struct {
	// Total is the number of compared URLs.
	Total int `json:"total"`

	// Unchanged is the number of URLs that raised no flag.
	Unchanged int `json:"unchanged"`

	// Flagged is the number of URLs that raised at least one flag.
	Flagged int `json:"flagged"`

	// ByFlag counts URLs per single flag. A URL with several flags is
	// counted once under each of them.
	ByFlag map[model.Flag]int `json:"-"`
}

// Summarize counts records per flag.
func Summarize(records []model.ComparisonRecord) Summary {
	s := Summary{
		Total:  len(records),
		ByFlag: make(map[model.Flag]int, len(model.AllFlags)),
	}
	for _, rec := range records {
		if rec.Flags.Empty() {
			s.Unchanged++
			continue
		}
		s.Flagged++
		for _, f := range rec.Flags.List() {
			s.ByFlag[f]++
		}
	}
	return s
}

// Count returns the number of URLs carrying flag.
func (s Summary) Count(flag model.Flag) int {
	return s.ByFlag[flag]
}

// Regressed reports whether any URL disappeared or failed in the newer
// snapshot.
func (s Summary) Regressed() bool {
	return s.Count(model.FlagNotFoundInNew) > 0 || s.Count(model.FlagFatalError) > 0
}

// MarshalJSON encodes ByFlag keyed by flag display name.
func (s Summary) MarshalJSON() ([]byte, error) {
	byName := make(map[string]int, len(s.ByFlag))
	for f, n := range s.ByFlag {
		byName[f.Name()] = n
	}
	return json.Marshal(struct {
		Total     int            `json:"total"`
		Unchanged int            `json:"unchanged"`
		Flagged   int            `json:"flagged"`
		ByFlag    map[string]int `json:"by_flag"`
	}{
		Total:     s.Total,
		Unchanged: s.Unchanged,
		Flagged:   s.Flagged,
		ByFlag:    byName,
	})
}
