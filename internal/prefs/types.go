// Package prefs holds the user preferences and the per-season recent-search history, keeps
// coupled fields consistent and persists the whole state on every mutation.
package prefs

import (
	"fmt"
	"time"

	"github.com/shimteo/shimteo/internal/season"
)

// TypographyMode selects the presentation theme.
type TypographyMode string

const (
	ModeDefault TypographyMode = "default"
	ModeSenior  TypographyMode = "senior"
)

// TextSize is the settings-screen view of TypographyMode.
type TextSize string

const (
	SizeDefault TextSize = "default"
	SizeLarge   TextSize = "large"
)

// ParseTypographyMode validates a mode string.
func ParseTypographyMode(s string) (TypographyMode, error) {
	switch TypographyMode(s) {
	case ModeDefault, ModeSenior:
		return TypographyMode(s), nil
	}
	return "", fmt.Errorf("unknown typography mode %q", s)
}

// ParseTextSize validates a text size string.
func ParseTextSize(s string) (TextSize, error) {
	switch TextSize(s) {
	case SizeDefault, SizeLarge:
		return TextSize(s), nil
	}
	return "", fmt.Errorf("unknown text size %q", s)
}

// SizeFor returns the text size coupled to mode.
func SizeFor(mode TypographyMode) TextSize {
	if mode == ModeSenior {
		return SizeLarge
	}
	return SizeDefault
}

// ModeFor returns the typography mode coupled to size.
func ModeFor(size TextSize) TypographyMode {
	if size == SizeLarge {
		return ModeSenior
	}
	return ModeDefault
}

// Kind distinguishes recent-search entries.
type Kind string

const (
	KindShelter Kind = "shelter"
	KindKeyword Kind = "keyword"
)

// MaxRecentSearches caps each season's history.
const MaxRecentSearches = 10

// RecentSearchItem is one entry in a season's search history.
type RecentSearchItem struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	ShelterID int64  `json:"shelterId,omitempty"`
	Label     string `json:"label"`
	Address   string `json:"address,omitempty"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
}

// Created returns CreatedAt as a time.
func (r RecentSearchItem) Created() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

// sameTarget reports whether r and other refer to the same search target.
func (r RecentSearchItem) sameTarget(other RecentSearchItem) bool {
	if r.Kind != other.Kind {
		return false
	}
	if r.Kind == KindShelter {
		return r.ShelterID == other.ShelterID
	}
	return r.Label == other.Label
}

// Preferences is an immutable snapshot of the store.
type Preferences struct {
	TypographyMode       TypographyMode
	TextSize             TextSize
	ShowSeniorFacilities bool
	ShowColdShelters     bool
	Language             string
	AutoLocateOnLaunch   bool
	RecentSearches       map[season.Type][]RecentSearchItem
}

// Season is the season selected by the cold-shelter toggle.
func (p Preferences) Season() season.Type {
	return season.FromColdToggle(p.ShowColdShelters)
}
