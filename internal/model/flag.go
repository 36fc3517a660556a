package model

import (
	"encoding/json"
	"strings"
)

// Flag is a set of regression conditions raised for one URL.
// The zero value is the empty set.
type Flag uint8

const (
	// FlagNotFoundInNew is raised when the URL is missing from the newer
	// snapshot or answers 404 or 400 there.
	FlagNotFoundInNew Flag = 1 << iota

	// FlagFatalError is raised when the newer snapshot recorded a 500.
	FlagFatalError

	// FlagNotFoundInOld is raised when the URL is missing from the older
	// snapshot.
	FlagNotFoundInOld

	// FlagStatusCodeDifferent is raised when both snapshots have the URL
	// with different status codes.
	FlagStatusCodeDifferent

	// FlagSizeDifferent is raised when both snapshots have the URL with
	// different sizes.
	FlagSizeDifferent

	// FlagHeightDifferent is raised when both snapshots have the URL with
	// different heights.
	FlagHeightDifferent
)

// AllFlags lists every single flag in evaluation order. Rendering always
// follows this order.
var AllFlags = []Flag{
	FlagNotFoundInNew,
	FlagFatalError,
	FlagNotFoundInOld,
	FlagStatusCodeDifferent,
	FlagSizeDifferent,
	FlagHeightDifferent,
}

// FlagSeparator joins flag names in the comparison file.
const FlagSeparator = "; "

var flagNames = map[Flag]string{
	FlagNotFoundInNew:       "Not found in new",
	FlagFatalError:          "Fatal error",
	FlagNotFoundInOld:       "Not found in old",
	FlagStatusCodeDifferent: "Status code different",
	FlagSizeDifferent:       "Size different",
	FlagHeightDifferent:     "Height different",
}

// Has reports whether every flag in other is set in f.
func (f Flag) Has(other Flag) bool {
	return other != 0 && f&other == other
}

// Empty reports whether no flag is set.
func (f Flag) Empty() bool {
	return f == 0
}

// List returns the individual flags set in f, in evaluation order.
func (f Flag) List() []Flag {
	out := make([]Flag, 0, len(AllFlags))
	for _, flag := range AllFlags {
		if f.Has(flag) {
			out = append(out, flag)
		}
	}
	return out
}

// Name returns the display name of a single flag.
// For a set of flags use Names or String.
func (f Flag) Name() string {
	if name, ok := flagNames[f]; ok {
		return name
	}
	return "unknown"
}

// Names returns the display names of the flags set in f, in evaluation order.
func (f Flag) Names() []string {
	list := f.List()
	names := make([]string, len(list))
	for i, flag := range list {
		names[i] = flag.Name()
	}
	return names
}

// String joins the flag names with FlagSeparator.
func (f Flag) String() string {
	return strings.Join(f.Names(), FlagSeparator)
}

// CSSClass returns the style class of a single flag,
// e.g. "not-found-in-new".
func (f Flag) CSSClass() string {
	return strings.ReplaceAll(strings.ToLower(f.Name()), " ", "-")
}

// MarshalJSON encodes the set as a list of display names.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}
