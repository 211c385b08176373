package prefs

import (
	"encoding/json"
	"fmt"

	"github.com/shimteo/shimteo/internal/i18n"
	"github.com/shimteo/shimteo/internal/season"
)

// StorageKey is the key the blob is stored under.
const StorageKey = "shelter-settings"

// SchemaVersion is written into every saved blob. Blobs without a version are version 0 and
// share the same shape.
const SchemaVersion = 1

// Persister loads and saves the serialized blob. Load returns nil data when nothing is stored.
type Persister interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// envelope is the on-disk shape: {"state": {...}, "version": N}.
type envelope struct {
	State   storedState `json:"state"`
	Version *int        `json:"version,omitempty"`
}

type storedState struct {
	TypographyMode         string                        `json:"typographyMode,omitempty"`
	TextSize               string                        `json:"textSize,omitempty"`
	ShowSeniorFacilities   *bool                         `json:"showSeniorFacilities,omitempty"`
	ShowColdShelters       *bool                         `json:"showColdShelters,omitempty"`
	Language               string                        `json:"language,omitempty"`
	AutoLocateOnLaunch     *bool                         `json:"autoLocateOnLaunch,omitempty"`
	RecentSearchesBySeason map[string][]RecentSearchItem `json:"recentSearchesBySeason,omitempty"`
}

// state is the mutable in-memory form. The typography mode is the single source for both the
// mode and the text size.
type state struct {
	mode                 TypographyMode
	showSeniorFacilities bool
	showColdShelters     bool
	language             string
	autoLocateOnLaunch   bool
	recent               map[season.Type][]RecentSearchItem
}

func defaultState(language string) state {
	if !i18n.IsSupported(language) {
		language = i18n.Default
	}
	return state{
		mode:                 ModeDefault,
		showSeniorFacilities: true,
		showColdShelters:     false,
		language:             language,
		autoLocateOnLaunch:   true,
		recent: map[season.Type][]RecentSearchItem{
			season.Heat: {},
			season.Cold: {},
		},
	}
}

func (s state) snapshot() Preferences {
	recent := make(map[season.Type][]RecentSearchItem, len(s.recent))
	for k, v := range s.recent {
		recent[k] = append([]RecentSearchItem{}, v...)
	}
	return Preferences{
		TypographyMode:       s.mode,
		TextSize:             SizeFor(s.mode),
		ShowSeniorFacilities: s.showSeniorFacilities,
		ShowColdShelters:     s.showColdShelters,
		Language:             s.language,
		AutoLocateOnLaunch:   s.autoLocateOnLaunch,
		RecentSearches:       recent,
	}
}

func encode(s state) ([]byte, error) {
	version := SchemaVersion
	recent := make(map[string][]RecentSearchItem, len(s.recent))
	for k, v := range s.recent {
		recent[string(k)] = v
	}
	env := envelope{
		State: storedState{
			TypographyMode:         string(s.mode),
			TextSize:               string(SizeFor(s.mode)),
			ShowSeniorFacilities:   &s.showSeniorFacilities,
			ShowColdShelters:       &s.showColdShelters,
			Language:               s.language,
			AutoLocateOnLaunch:     &s.autoLocateOnLaunch,
			RecentSearchesBySeason: recent,
		},
		Version: &version,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}
	return data, nil
}

// decode overlays a stored blob onto the defaults. Unknown or invalid fields keep their
// defaults; only a blob that is not JSON at all is an error.
func decode(data []byte, defaults state) (state, int, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return defaults, 0, fmt.Errorf("unmarshal preferences: %w", err)
	}
	version := 0
	if env.Version != nil {
		version = *env.Version
	}

	s := defaults
	st := env.State

	// Mode wins over size when both are present and valid; otherwise whichever is valid.
	if mode, err := ParseTypographyMode(st.TypographyMode); err == nil {
		s.mode = mode
	} else if size, err := ParseTextSize(st.TextSize); err == nil {
		s.mode = ModeFor(size)
	}
	if st.ShowSeniorFacilities != nil {
		s.showSeniorFacilities = *st.ShowSeniorFacilities
	}
	if st.ShowColdShelters != nil {
		s.showColdShelters = *st.ShowColdShelters
	}
	if st.AutoLocateOnLaunch != nil {
		s.autoLocateOnLaunch = *st.AutoLocateOnLaunch
	}
	switch {
	case i18n.IsSupported(st.Language):
		s.language = st.Language
	case st.Language != "":
		if code, ok := i18n.FromName(st.Language); ok {
			s.language = code
		}
	}

	s.recent = map[season.Type][]RecentSearchItem{season.Heat: {}, season.Cold: {}}
	for key, items := range st.RecentSearchesBySeason {
		sn, err := season.Parse(key)
		if err != nil {
			continue
		}
		s.recent[sn] = sanitize(items)
	}
	return s, version, nil
}

// sanitize drops malformed entries and re-applies dedup and the cap to a loaded list.
func sanitize(items []RecentSearchItem) []RecentSearchItem {
	out := make([]RecentSearchItem, 0, len(items))
	for _, it := range items {
		if it.ID == "" || (it.Kind != KindShelter && it.Kind != KindKeyword) {
			continue
		}
		dup := false
		for _, kept := range out {
			if kept.sameTarget(it) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out = append(out, it)
		if len(out) == MaxRecentSearches {
			break
		}
	}
	return out
}
