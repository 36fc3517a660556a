package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Built-in politeness profile names.
const (
	ProfileFast    = "fast"
	ProfileCareful = "careful"
)

// Profile is a politeness setting: after every fetch the crawler waits for a
// duration drawn uniformly from [MinDelay, MaxDelay].
type Profile struct {
	Name     string
	MinDelay time.Duration
	MaxDelay time.Duration
}

var profiles = map[string]Profile{
	ProfileFast:    {Name: ProfileFast, MinDelay: 100 * time.Millisecond, MaxDelay: 500 * time.Millisecond},
	ProfileCareful: {Name: ProfileCareful, MinDelay: 500 * time.Millisecond, MaxDelay: 3000 * time.Millisecond},
}

// ProfileByName returns the built-in profile with the given name.
// Names are matched case-insensitively.
func ProfileByName(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %s)", ErrInvalidProfile, name, strings.Join(ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames returns the names of the built-in profiles, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the delay range is usable.
func (p Profile) Validate() error {
	if p.MinDelay < 0 || p.MaxDelay < p.MinDelay {
		return ErrInvalidDelayRange
	}
	return nil
}

// String describes the profile, e.g. "fast (100ms-500ms)".
func (p Profile) String() string {
	return fmt.Sprintf("%s (%s-%s)", p.Name, p.MinDelay, p.MaxDelay)
}
