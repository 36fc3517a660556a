package diff

import "github.com/nao1215/sitediff/internal/model"

// Status codes that raise flags on the newer side.
const (
	statusNotFound   = "404"
	statusBadRequest = "400"
	statusFatal      = "500"
)

// Compare reconciles the older snapshot prev with the newer snapshot curr
// by URL. The result covers exactly the
// union of both URL sets: URLs in prev's order first, then URLs only found
// in curr, in curr's order.
func Compare(prev, curr *model.Snapshot) []model.ComparisonRecord {
	oldURLs := urlsOf(prev)
	newURLs := urlsOf(curr)

	records := make([]model.ComparisonRecord, 0, len(oldURLs)+len(newURLs))
	for _, u := range oldURLs {
		records = append(records, compareURL(u, prev, curr))
	}
	for _, u := range newURLs {
		if _, ok := lookup(prev, u); ok {
			continue
		}
		records = append(records, compareURL(u, prev, curr))
	}
	return records
}

// compareURL builds the ComparisonRecord for one URL.
func compareURL(u string, prev, curr *model.Snapshot) model.ComparisonRecord {
	oldRow, inOld := lookup(prev, u)
	newRow, inNew := lookup(curr, u)

	rec := model.ComparisonRecord{
		Type:      resourceType(oldRow, inOld, newRow, inNew),
		URL:       u,
		OldStatus: model.NotAvailable,
		NewStatus: model.NotAvailable,
		OldSize:   model.NotAvailable,
		NewSize:   model.NotAvailable,
		OldHeight: model.NotAvailable,
		NewHeight: model.NotAvailable,
	}
	if inOld {
		rec.OldStatus, rec.OldSize, rec.OldHeight = oldRow.Status, oldRow.Size, oldRow.Height
	}
	if inNew {
		rec.NewStatus, rec.NewSize, rec.NewHeight = newRow.Status, newRow.Size, newRow.Height
	}

	rec.Flags = Flags(oldRow, inOld, newRow, inNew)
	return rec
}

// Flags derives the flag set for one URL from the rows found on each side.
// inOld and inNew report whether the URL exists in the respective snapshot;
// the corresponding row is ignored when it does not.
func Flags(oldRow model.Row, inOld bool, newRow model.Row, inNew bool) model.Flag {
	var f model.Flag

	if !inNew || newRow.Status == statusNotFound || newRow.Status == statusBadRequest {
		f |= model.FlagNotFoundInNew
	}
	if inNew && newRow.Status == statusFatal {
		f |= model.FlagFatalError
	}
	if !inOld {
		f |= model.FlagNotFoundInOld
	}

	if inOld && inNew {
		if oldRow.Status != newRow.Status {
			f |= model.FlagStatusCodeDifferent
		}
		if oldRow.Size != newRow.Size {
			f |= model.FlagSizeDifferent
		}
		if oldRow.Height != newRow.Height {
			f |= model.FlagHeightDifferent
		}
	}

	return f
}

func resourceType(oldRow model.Row, inOld bool, newRow model.Row, inNew bool) string {
	switch {
	case inOld:
		return oldRow.Type
	case inNew:
		return newRow.Type
	default:
		return model.UnknownType
	}
}

func urlsOf(s *model.Snapshot) []string {
	if s == nil {
		return nil
	}
	return s.URLs()
}

func lookup(s *model.Snapshot, u string) (model.Row, bool) {
	if s == nil {
		return model.Row{}, false
	}
	return s.Get(u)
}
