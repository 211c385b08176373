// Package search runs shelter searches and keeps the season's recent-search history.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/logging"
	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/season"
)

const (
	// DetailTTL is how long a resolved shelter detail is reused.
	DetailTTL       = 5 * time.Minute
	cleanupInterval = 10 * time.Minute
)

// ShelterSource is the backend surface used by the manager.
type ShelterSource interface {
	SearchShelters(ctx context.Context, q api.ShelterQuery) (api.Page[api.ShelterSearchItem], error)
	ShelterDetail(ctx context.Context, id int64, season string) (api.ShelterDetail, error)
}

// History is the slice of the preferences store the manager works on.
type History interface {
	Snapshot() prefs.Preferences
	Season() season.Type
	RecentSearches(sn season.Type) []prefs.RecentSearchItem
	AddRecentSearch(item prefs.RecentSearchItem, sn season.Type) (prefs.RecentSearchItem, error)
	RemoveRecentSearch(id string, sn season.Type)
	ClearRecentSearches(sn season.Type)
}

// Results is one page of search results.
type Results struct {
	Keyword string
	Season  season.Type
	Page    api.Page[api.ShelterSearchItem]
}

// Selection is the outcome of picking a recent-search entry.
type Selection struct {
	Kind prefs.Kind
	// Detail is set for shelter entries: the caller navigates home with it.
	Detail *api.ShelterDetail
	// Keyword and Results are set for keyword entries: the caller refills the input.
	Keyword string
	Results *Results
}

// Manager runs searches against the current season and records them.
type Manager struct {
	src     ShelterSource
	hist    History
	details *gocache.Cache
	logger  logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithDetailTTL overrides the detail cache expiry.
func WithDetailTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.details = gocache.New(ttl, cleanupInterval) }
}

// New creates a manager.
func New(src ShelterSource, hist History, opts ...Option) *Manager {
	m := &Manager{
		src:     src,
		hist:    hist,
		details: gocache.New(DetailTTL, cleanupInterval),
		logger:  logging.Nop{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Recent returns the current season's history, most recent first.
func (m *Manager) Recent() []prefs.RecentSearchItem {
	return m.hist.RecentSearches(m.hist.Season())
}

// Remove deletes one entry from the current season's history.
func (m *Manager) Remove(id string) {
	m.hist.RemoveRecentSearch(id, m.hist.Season())
}

// Clear empties the current season's history.
func (m *Manager) Clear() {
	m.hist.ClearRecentSearches(m.hist.Season())
}

// Search runs a keyword search in the current season and records the keyword on success. A
// blank keyword returns empty results without a request.
func (m *Manager) Search(ctx context.Context, keyword string, page int) (Results, error) {
	keyword = strings.TrimSpace(keyword)
	p := m.hist.Snapshot()
	sn := p.Season()
	if keyword == "" {
		return Results{Season: sn, Page: api.Page[api.ShelterSearchItem]{Empty: true}}, nil
	}

	q := api.ShelterQuery{Keyword: keyword, Season: string(sn), Page: page, Size: api.DefaultPageSize}
	if !p.ShowSeniorFacilities {
		q.Type = api.ShelterTypeGeneral
	}
	res, err := m.src.SearchShelters(ctx, q)
	if err != nil {
		return Results{}, fmt.Errorf("search shelters: %w", err)
	}

	if _, err := m.hist.AddRecentSearch(prefs.RecentSearchItem{
		Kind:  prefs.KindKeyword,
		Label: keyword,
	}, sn); err != nil {
		m.logger.Warn("search", "record keyword failed", map[string]interface{}{"error": err})
	}
	return Results{Keyword: keyword, Season: sn, Page: res}, nil
}

// ChooseShelter resolves the detail of a search result and records it.
func (m *Manager) ChooseShelter(ctx context.Context, item api.ShelterSearchItem) (api.ShelterDetail, error) {
	sn := m.hist.Season()
	detail, err := m.Detail(ctx, item.ID, sn)
	if err != nil {
		return api.ShelterDetail{}, err
	}

	address := item.ShortAddress
	if address == "" {
		address = detail.Address
	}
	label := item.Name
	if label == "" {
		label = detail.Name
	}
	if _, err := m.hist.AddRecentSearch(prefs.RecentSearchItem{
		Kind:      prefs.KindShelter,
		ShelterID: item.ID,
		Label:     label,
		Address:   address,
	}, sn); err != nil {
		m.logger.Warn("search", "record shelter failed", map[string]interface{}{"error": err})
	}
	return detail, nil
}

// Select acts on a history entry: shelters resolve their detail, keywords re-run the search.
// The entry stays in the history.
func (m *Manager) Select(ctx context.Context, item prefs.RecentSearchItem) (Selection, error) {
	switch item.Kind {
	case prefs.KindShelter:
		detail, err := m.ChooseShelter(ctx, api.ShelterSearchItem{
			ID:           item.ShelterID,
			Name:         item.Label,
			ShortAddress: item.Address,
		})
		if err != nil {
			return Selection{}, err
		}
		return Selection{Kind: prefs.KindShelter, Detail: &detail}, nil
	case prefs.KindKeyword:
		res, err := m.Search(ctx, item.Label, 0)
		if err != nil {
			return Selection{Kind: prefs.KindKeyword, Keyword: item.Label}, err
		}
		return Selection{Kind: prefs.KindKeyword, Keyword: item.Label, Results: &res}, nil
	}
	return Selection{}, fmt.Errorf("unknown recent search kind %q", item.Kind)
}

// Detail returns a shelter's detail, reusing a cached copy for DetailTTL.
func (m *Manager) Detail(ctx context.Context, id int64, sn season.Type) (api.ShelterDetail, error) {
	key := fmt.Sprintf("%s:%d", sn, id)
	if v, ok := m.details.Get(key); ok {
		return v.(api.ShelterDetail), nil
	}
	detail, err := m.src.ShelterDetail(ctx, id, string(sn))
	if err != nil {
		return api.ShelterDetail{}, fmt.Errorf("fetch shelter %d: %w", id, err)
	}
	m.details.SetDefault(key, detail)
	return detail, nil
}
