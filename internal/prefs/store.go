package prefs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shimteo/shimteo/internal/i18n"
	"github.com/shimteo/shimteo/internal/logging"
	"github.com/shimteo/shimteo/internal/season"
)

// Presenter applies a typography mode to the presentation layer. It is called inside the
// store's critical section on every mode change, before the change is saved or observed, so it
// must not call back into the store.
type Presenter interface {
	ApplyMode(mode TypographyMode)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(TypographyMode)

func (f PresenterFunc) ApplyMode(mode TypographyMode) { f(mode) }

// Store is the single preferences instance of a running process. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	st        state
	persister Persister
	presenter Presenter
	logger    logging.Logger
	now       func() time.Time
	newID     func() (string, error)
	language  string

	subMu  sync.Mutex
	subs   map[int]func(Preferences)
	nextID int

	// notifyMu is taken before mu is released so callbacks run in mutation order.
	notifyMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithPersister sets where the blob is loaded from and saved to.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithPresenter sets the typography hook.
func WithPresenter(p Presenter) Option {
	return func(s *Store) { s.presenter = p }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithInitialLanguage sets the language used when nothing is stored yet.
func WithInitialLanguage(lang string) Option {
	return func(s *Store) { s.language = lang }
}

// New creates a store and rehydrates it from the persister. Missing or corrupt data falls back
// to defaults; New never fails.
func New(opts ...Option) *Store {
	s := &Store{
		logger:   logging.Nop{},
		now:      time.Now,
		newID:    newItemID,
		language: i18n.Default,
		subs:     make(map[int]func(Preferences)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.st = s.load()
	if s.presenter != nil {
		s.presenter.ApplyMode(s.st.mode)
	}
	return s
}

func (s *Store) load() state {
	defaults := defaultState(s.language)
	if s.persister == nil {
		return defaults
	}

	data, err := s.persister.Load()
	if err != nil {
		s.logger.Warn("prefs", "load failed, using defaults", map[string]interface{}{"error": err})
		return defaults
	}
	if data == nil {
		s.logger.Info("prefs", "no stored preferences, using defaults", nil)
		return defaults
	}

	st, version, err := decode(data, defaults)
	if err != nil {
		s.logger.Warn("prefs", "stored preferences corrupt, using defaults", map[string]interface{}{"error": err})
		return defaults
	}
	if version < SchemaVersion {
		s.logger.Info("prefs", "migrating stored preferences", map[string]interface{}{
			"from": version, "to": SchemaVersion,
		})
	}
	return st
}

// Snapshot returns a deep copy of the current preferences.
func (s *Store) Snapshot() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.snapshot()
}

// Season returns the active season.
func (s *Store) Season() season.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	return season.FromColdToggle(s.st.showColdShelters)
}

// Language returns the active language code.
func (s *Store) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.language
}

// RecentSearches returns a copy of the history for sn.
func (s *Store) RecentSearches(sn season.Type) []RecentSearchItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecentSearchItem{}, s.st.recent[sn]...)
}

// Subscribe registers fn to receive the snapshot after every mutation, in mutation order. fn may
// read the store but must not mutate it; hand the snapshot off (e.g. to a goroutine) instead.
// The returned function unregisters it.
func (s *Store) Subscribe(fn func(Preferences)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// SetTypographyMode sets the mode and, with it, the text size.
func (s *Store) SetTypographyMode(mode TypographyMode) error {
	if _, err := ParseTypographyMode(string(mode)); err != nil {
		return err
	}
	s.update(func(st *state) { st.mode = mode })
	return nil
}

// SetTextSize sets the text size and, with it, the typography mode.
func (s *Store) SetTextSize(size TextSize) error {
	if _, err := ParseTextSize(string(size)); err != nil {
		return err
	}
	return s.SetTypographyMode(ModeFor(size))
}

// SetShowSeniorFacilities toggles senior-only facilities on the map.
func (s *Store) SetShowSeniorFacilities(show bool) {
	s.update(func(st *state) { st.showSeniorFacilities = show })
}

// SetShowColdShelters toggles the season.
func (s *Store) SetShowColdShelters(show bool) {
	s.update(func(st *state) { st.showColdShelters = show })
}

// SetAutoLocateOnLaunch toggles locating on startup.
func (s *Store) SetAutoLocateOnLaunch(auto bool) {
	s.update(func(st *state) { st.autoLocateOnLaunch = auto })
}

// SetLanguage sets the language. Unsupported codes are rejected.
func (s *Store) SetLanguage(lang string) error {
	if !i18n.IsSupported(lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}
	s.update(func(st *state) { st.language = lang })
	return nil
}

// AddRecentSearch moves item to the front of sn's history, replacing any entry for the same
// target and dropping the oldest beyond MaxRecentSearches. An empty ID or CreatedAt is filled
// in. The stored item is returned.
func (s *Store) AddRecentSearch(item RecentSearchItem, sn season.Type) (RecentSearchItem, error) {
	if item.Kind != KindShelter && item.Kind != KindKeyword {
		return RecentSearchItem{}, fmt.Errorf("unknown recent search kind %q", item.Kind)
	}
	if _, err := season.Parse(string(sn)); err != nil {
		return RecentSearchItem{}, err
	}
	if item.ID == "" {
		id, err := s.newID()
		if err != nil {
			return RecentSearchItem{}, fmt.Errorf("generate id: %w", err)
		}
		item.ID = id
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = s.now().UnixMilli()
	}

	s.update(func(st *state) {
		st.recent[sn] = prepend(st.recent[sn], item)
	})
	return item, nil
}

// RemoveRecentSearch deletes the entry with id from sn's history. Unknown ids are ignored.
func (s *Store) RemoveRecentSearch(id string, sn season.Type) {
	s.update(func(st *state) {
		list := st.recent[sn]
		out := make([]RecentSearchItem, 0, len(list))
		for _, it := range list {
			if it.ID != id {
				out = append(out, it)
			}
		}
		st.recent[sn] = out
	})
}

// ClearRecentSearches empties sn's history.
func (s *Store) ClearRecentSearches(sn season.Type) {
	s.update(func(st *state) { st.recent[sn] = []RecentSearchItem{} })
}

// Reset restores the defaults, keeping the initial language.
func (s *Store) Reset() {
	s.update(func(st *state) { *st = defaultState(s.language) })
}

// update applies fn under the lock, applies a mode change to the presenter, persists the result
// and then notifies subscribers with the post-mutation snapshot. Notifications are delivered in
// the order the mutations happened.
func (s *Store) update(fn func(*state)) {
	s.mu.Lock()
	prevMode := s.st.mode
	fn(&s.st)
	if s.presenter != nil && s.st.mode != prevMode {
		s.presenter.ApplyMode(s.st.mode)
	}
	snap := s.st.snapshot()
	s.save()
	s.notifyMu.Lock()
	s.mu.Unlock()

	defer s.notifyMu.Unlock()
	s.notify(snap)
}

// save must be called with mu held so blobs are written in mutation order.
func (s *Store) save() {
	if s.persister == nil {
		return
	}
	data, err := encode(s.st)
	if err == nil {
		err = s.persister.Save(data)
	}
	if err != nil {
		s.logger.Error("prefs", "save failed", map[string]interface{}{"error": err})
	}
}

func (s *Store) notify(snap Preferences) {
	s.subMu.Lock()
	fns := make([]func(Preferences), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// prepend returns list with item at the front, any entry for the same target removed and the
// result capped.
func prepend(list []RecentSearchItem, item RecentSearchItem) []RecentSearchItem {
	out := make([]RecentSearchItem, 0, MaxRecentSearches)
	out = append(out, item)
	for _, it := range list {
		if len(out) == MaxRecentSearches {
			break
		}
		if it.sameTarget(item) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func newItemID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
