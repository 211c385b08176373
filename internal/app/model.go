// Package app is the bubbletea root model: five tabs (home, search, helper, hospitals,
// settings) plus the result and guideline screens of the self-assessment.
package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/geo"
	"github.com/shimteo/shimteo/internal/i18n"
	"github.com/shimteo/shimteo/internal/latest"
	"github.com/shimteo/shimteo/internal/logging"
	"github.com/shimteo/shimteo/internal/narration"
	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/search"
	"github.com/shimteo/shimteo/internal/symptom"
)

// Screen identifies what the TUI is showing.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenSearch
	ScreenHelper
	ScreenResult
	ScreenGuideline
	ScreenHospital
	ScreenSettings
)

// tabs is the navigation bar, in order.
var tabs = []Screen{ScreenHome, ScreenSearch, ScreenHelper, ScreenHospital, ScreenSettings}

// tab returns the navigation tab a screen belongs to.
func (s Screen) tab() Screen {
	switch s {
	case ScreenResult, ScreenGuideline:
		return ScreenHelper
	}
	return s
}

func (s Screen) labelKey() string {
	switch s {
	case ScreenSearch:
		return "nav.search"
	case ScreenHelper, ScreenResult, ScreenGuideline:
		return "nav.helper"
	case ScreenHospital:
		return "nav.hospital"
	case ScreenSettings:
		return "nav.settings"
	}
	return "nav.home"
}

// Backend is every API call the TUI makes.
type Backend interface {
	symptom.QuestionSource
	symptom.GuideSource
	search.ShelterSource
	Diagnose(ctx context.Context, sub api.Submission) (api.DiagnosisResult, error)
	SheltersInBounds(ctx context.Context, b api.Bounds, season, facilityType string) ([]api.ShelterGroup, error)
	NearbyHospitals(ctx context.Context, lat, lon float64, radiusM int) ([]api.HospitalGroup, error)
	SearchHospitals(ctx context.Context, keyword string, page, size int) (api.Page[api.HospitalSearchItem], error)
}

// Deps wires the model to its collaborators.
type Deps struct {
	Backend  Backend
	Prefs    *prefs.Store
	Narrator narration.Narrator
	Locator  geo.Locator
	// Center is used when the location cannot be acquired.
	Center          geo.Point
	HospitalRadiusM int
	Logger          logging.Logger
}

type searchFocus int

const (
	focusInput searchFocus = iota
	focusList
)

// Model is the root bubbletea model for the shimteo TUI.
type Model struct {
	backend  Backend
	prefs    *prefs.Store
	narrator narration.Narrator
	locator  geo.Locator
	center   geo.Point
	radiusM  int
	logger   logging.Logger

	catalog  *symptom.Catalog
	resolver *symptom.Resolver
	search   *search.Manager
	flow     *symptom.Flow

	// UI state
	screen Screen
	width  int
	height int
	// last is the preferences snapshot the screens were built for.
	last prefs.Preferences

	// Home
	homeReqs         *latest.Tracker
	located          bool
	locationFallback bool
	here             geo.Point
	homeLoading      bool
	homeErr          error
	groups           []api.ShelterGroup
	homeCursor       int
	expanded         int
	selected         *api.ShelterDetail

	// Search
	searchReqs    *latest.Tracker
	query         textInput
	focus         searchFocus
	searchLoading bool
	searchErr     error
	results       *search.Results
	searchCursor  int

	// Assessment
	modeCursor      int
	narrationPaused bool
	result          *api.DiagnosisResult

	// Guideline
	guideReqs    *latest.Tracker
	guideLoading bool
	guideErr     error
	guideline    *symptom.Guideline
	guideScroll  int

	// Hospitals
	hospitalReqs     *latest.Tracker
	hospitalLoading  bool
	hospitalErr      error
	hospitals        []api.HospitalGroup
	hospitalQuery    textInput
	hospitalTyping   bool
	hospitalResults  *api.Page[api.HospitalSearchItem]
	hospitalCursor   int

	// Settings
	settingsCursor int

	// Errors
	errorMessage   string
	errorTransient bool
}

// New creates a Model on the home screen.
func New(d Deps) Model {
	if d.Prefs == nil {
		d.Prefs = prefs.New()
	}
	if d.Narrator == nil {
		d.Narrator = narration.Noop{}
	}
	if d.Logger == nil {
		d.Logger = logging.Nop{}
	}
	if d.HospitalRadiusM <= 0 {
		d.HospitalRadiusM = api.DefaultHospitalRadius
	}

	overrides, err := symptom.BuiltinOverrides()
	if err != nil {
		d.Logger.Error("app", "guide overrides unavailable", map[string]interface{}{"error": err})
	}

	p := d.Prefs.Snapshot()
	return Model{
		backend:      d.Backend,
		prefs:        d.Prefs,
		narrator:     d.Narrator,
		locator:      d.Locator,
		center:       d.Center,
		radiusM:      d.HospitalRadiusM,
		logger:       d.Logger,
		catalog:      symptom.NewCatalog(d.Backend),
		resolver:     symptom.NewResolver(d.Backend, overrides),
		search:       search.New(d.Backend, d.Prefs, search.WithLogger(d.Logger)),
		flow:         symptom.NewFlow(d.Narrator, p.Season(), p.Language, d.Logger),
		last:         p,
		here:         d.Center,
		expanded:     -1,
		homeReqs:     &latest.Tracker{},
		searchReqs:   &latest.Tracker{},
		guideReqs:    &latest.Tracker{},
		hospitalReqs: &latest.Tracker{},
	}
}

// Init acquires the location for the home screen.
func (m Model) Init() tea.Cmd {
	return m.locate()
}

func (m Model) locate() tea.Cmd {
	if !m.prefs.Snapshot().AutoLocateOnLaunch {
		return fixedLocationCmd(m.center)
	}
	return locateCmd(m.locator, m.center)
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LocatedMsg:
		m.here = msg.Point
		m.located = true
		m.locationFallback = msg.FellBack
		if msg.Err != nil {
			m.logger.Warn("app", "location unavailable, using default center", map[string]interface{}{
				"error":  msg.Err,
				"center": msg.Point.String(),
			})
		}
		if m.screen != ScreenHome {
			return m, nil
		}
		cmd := m.fetchNearby()
		return m, cmd

	case NearbySheltersMsg:
		if !m.homeReqs.Current(msg.Ticket) {
			return m, nil
		}
		m.homeReqs.Done(msg.Ticket)
		m.homeLoading = false
		if msg.Err != nil {
			m.homeErr = msg.Err
			m.logger.Warn("app", "nearby shelters failed", map[string]interface{}{"error": msg.Err})
			return m, nil
		}
		m.homeErr = nil
		m.groups = msg.Groups
		m.expanded = -1
		if m.homeCursor >= len(m.groups) {
			m.homeCursor = max(0, len(m.groups)-1)
		}
		return m, nil

	case SearchResultsMsg:
		if !m.searchReqs.Current(msg.Ticket) {
			return m, nil
		}
		m.searchReqs.Done(msg.Ticket)
		m.searchLoading = false
		if msg.Err != nil {
			m.searchErr = msg.Err
			m.results = nil
			return m, nil
		}
		m.searchErr = nil
		m.results = &msg.Results
		m.searchCursor = 0
		return m, nil

	case ShelterChosenMsg:
		if !m.searchReqs.Current(msg.Ticket) {
			return m, nil
		}
		m.searchReqs.Done(msg.Ticket)
		m.searchLoading = false
		if msg.Err != nil {
			cmd := m.setTransientError(m.t("search.detail_failed"))
			return m, cmd
		}
		detail := msg.Detail
		m.selected = &detail
		cmd := m.navigate(ScreenHome)
		return m, cmd

	case RecentSelectedMsg:
		if !m.searchReqs.Current(msg.Ticket) {
			return m, nil
		}
		m.searchReqs.Done(msg.Ticket)
		m.searchLoading = false
		return m.applySelection(msg.Selection, msg.Err)

	case CatalogLoadedMsg:
		if m.flow.ApplyCatalog(msg.Ticket, msg.Questions, msg.Err) {
			m.narrationPaused = false
		}
		return m, nil

	case DiagnosisMsg:
		if !m.flow.ApplyResult(msg.Ticket, msg.Result, msg.Err) {
			return m, nil
		}
		if res, ok := m.flow.Result(); ok {
			m.result = &res
			m.guideline = nil
			cmd := m.navigate(ScreenResult)
			return m, cmd
		}
		return m, nil

	case GuidelineMsg:
		if !m.guideReqs.Current(msg.Ticket) {
			return m, nil
		}
		m.guideReqs.Done(msg.Ticket)
		m.guideLoading = false
		if msg.Err != nil {
			m.guideErr = msg.Err
			m.logger.Warn("app", "guideline resolution failed", map[string]interface{}{"error": msg.Err})
			return m, nil
		}
		g := msg.Guideline
		m.guideErr = nil
		m.guideline = &g
		m.guideScroll = 0
		return m, nil

	case NearbyHospitalsMsg:
		if !m.hospitalReqs.Current(msg.Ticket) {
			return m, nil
		}
		m.hospitalReqs.Done(msg.Ticket)
		m.hospitalLoading = false
		if msg.Err != nil {
			m.hospitalErr = msg.Err
			return m, nil
		}
		m.hospitalErr = nil
		m.hospitals = msg.Groups
		m.hospitalCursor = 0
		return m, nil

	case HospitalSearchMsg:
		if !m.hospitalReqs.Current(msg.Ticket) {
			return m, nil
		}
		m.hospitalReqs.Done(msg.Ticket)
		m.hospitalLoading = false
		if msg.Err != nil {
			m.hospitalErr = msg.Err
			return m, nil
		}
		page := msg.Page
		m.hospitalErr = nil
		m.hospitalResults = &page
		m.hospitalCursor = 0
		return m, nil

	case PrefsChangedMsg:
		cmd := m.syncPrefs()
		return m, cmd

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// applySelection handles the outcome of picking a recent-search entry.
func (m Model) applySelection(sel search.Selection, err error) (tea.Model, tea.Cmd) {
	switch sel.Kind {
	case prefs.KindKeyword:
		m.query.set(sel.Keyword)
		m.focus = focusInput
		if err != nil {
			m.searchErr = err
			m.results = nil
			return m, nil
		}
		m.searchErr = nil
		m.results = sel.Results
		m.searchCursor = 0
		return m, nil
	}
	if err != nil || sel.Detail == nil {
		cmd := m.setTransientError(m.t("search.detail_failed"))
		return m, cmd
	}
	m.selected = sel.Detail
	cmd := m.navigate(ScreenHome)
	return m, cmd
}

// handleKey processes key presses. While a text field has focus only ctrl+c and tab escape it.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == KeyCtrlC {
		return m.quit()
	}

	switch key {
	case KeyTab:
		cmd := m.navigate(m.adjacentTab(1))
		return m, cmd
	case KeyShiftTab:
		cmd := m.navigate(m.adjacentTab(-1))
		return m, cmd
	}

	if !m.typing() {
		if key == KeyQuit || key == KeyQuitUpper {
			return m.quit()
		}
		if s, ok := tabKeys[key]; ok {
			cmd := m.navigate(s)
			return m, cmd
		}
	}

	switch m.screen {
	case ScreenHome:
		return m.homeKey(key)
	case ScreenSearch:
		return m.searchKey(msg)
	case ScreenHelper:
		return m.helperKey(key)
	case ScreenResult:
		return m.resultKey(key)
	case ScreenGuideline:
		return m.guidelineKey(key)
	case ScreenHospital:
		return m.hospitalKey(msg)
	case ScreenSettings:
		return m.settingsKey(key)
	}
	return m, nil
}

func (m Model) typing() bool {
	switch m.screen {
	case ScreenSearch:
		return m.focus == focusInput
	case ScreenHospital:
		return m.hospitalTyping
	}
	return false
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.flow.Exit()
	m.narrator.Cancel()
	for _, t := range []*latest.Tracker{m.homeReqs, m.searchReqs, m.guideReqs, m.hospitalReqs} {
		t.Invalidate()
	}
	return m, tea.Quit
}

func (m Model) adjacentTab(step int) Screen {
	cur := m.screen.tab()
	for i, s := range tabs {
		if s == cur {
			return tabs[(i+step+len(tabs))%len(tabs)]
		}
	}
	return tabs[0]
}

// navigate switches screens. The screen being left drops its in-flight requests.
func (m *Model) navigate(to Screen) tea.Cmd {
	if to == m.screen {
		return nil
	}
	m.leave(m.screen)
	m.screen = to
	return m.enter(to)
}

func (m *Model) leave(from Screen) {
	switch from {
	case ScreenHome:
		m.homeReqs.Invalidate()
		m.homeLoading = false
	case ScreenSearch:
		m.searchReqs.Invalidate()
		m.searchLoading = false
	case ScreenHelper:
		m.flow.Exit()
		m.narrationPaused = false
	case ScreenGuideline:
		m.guideReqs.Invalidate()
		m.guideLoading = false
	case ScreenHospital:
		m.hospitalReqs.Invalidate()
		m.hospitalLoading = false
		m.hospitalTyping = false
	}
}

func (m *Model) enter(to Screen) tea.Cmd {
	switch to {
	case ScreenHome:
		if !m.located {
			return m.locate()
		}
		return m.fetchNearby()
	case ScreenSearch:
		m.focus = focusInput
	case ScreenResult, ScreenGuideline:
		if m.result == nil {
			m.logger.Info("app", "no diagnosis result, redirecting to the assessment", nil)
			m.screen = ScreenHelper
			m.flow.Exit()
			return m.setTransientError(m.t("helper.not_found"))
		}
		if to == ScreenGuideline {
			return m.resolveGuideline()
		}
	case ScreenHospital:
		return m.fetchHospitals()
	}
	return nil
}

// syncPrefs reacts to preference changes: season and language reload the catalog, season and
// the facility filter re-fetch the home list and drop season-scoped search results.
func (m *Model) syncPrefs() tea.Cmd {
	p := m.prefs.Snapshot()
	prev := m.last
	m.last = p

	var cmds []tea.Cmd
	if p.Season() != prev.Season() || p.Language != prev.Language {
		cmds = append(cmds, m.runFlow(m.flow.Reload(p.Season(), p.Language)))
	}
	if p.Season() != prev.Season() || p.ShowSeniorFacilities != prev.ShowSeniorFacilities {
		m.groups = nil
		m.results = nil
		m.searchCursor = 0
		if m.screen == ScreenHome {
			cmds = append(cmds, m.fetchNearby())
		} else {
			m.homeReqs.Invalidate()
		}
	}
	return tea.Batch(cmds...)
}

// runFlow turns a flow request into the command that serves it.
func (m Model) runFlow(req *symptom.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	switch req.Kind {
	case symptom.RequestCatalog:
		return catalogCmd(m.catalog, req)
	case symptom.RequestSubmit:
		return diagnoseCmd(m.backend, req)
	}
	return nil
}

func (m *Model) fetchNearby() tea.Cmd {
	if !m.located {
		return nil
	}
	p := m.prefs.Snapshot()
	sn := p.Season()
	facilityType := ""
	if !p.ShowSeniorFacilities {
		facilityType = api.ShelterTypeGeneral
	}
	tk, ctx := m.homeReqs.Begin(context.Background(), fmt.Sprintf("%s|%s|%s", sn, facilityType, m.here))
	m.homeLoading = true
	m.homeErr = nil
	return nearbySheltersCmd(ctx, m.backend, tk, geo.Bounds(m.here, geo.DefaultDelta), string(sn), facilityType)
}

func (m *Model) runSearch() tea.Cmd {
	kw := strings.TrimSpace(m.query.String())
	m.searchErr = nil
	if kw == "" {
		m.results = nil
		m.searchReqs.Invalidate()
		m.searchLoading = false
		return nil
	}
	tk, ctx := m.searchReqs.Begin(context.Background(), "search|"+kw)
	m.searchLoading = true
	return searchCmd(ctx, m.search, tk, kw)
}

func (m *Model) resolveGuideline() tea.Cmd {
	p := m.prefs.Snapshot()
	req := symptom.GuidelineRequest{
		Suspected:    m.result.Suspected,
		AssessmentID: m.result.AssessmentID,
		Season:       p.Season(),
		Language:     p.Language,
	}
	tk, ctx := m.guideReqs.Begin(context.Background(), fmt.Sprintf("%d|%t|%s", req.AssessmentID, req.Suspected, symptom.Key(req.Season, req.Language)))
	m.guideLoading = true
	m.guideErr = nil
	m.guideline = nil
	return guidelineCmd(ctx, m.resolver, tk, req)
}

func (m *Model) fetchHospitals() tea.Cmd {
	m.hospitalErr = nil
	m.hospitalLoading = true
	if kw := strings.TrimSpace(m.hospitalQuery.String()); kw != "" && m.hospitalResults != nil {
		tk, ctx := m.hospitalReqs.Begin(context.Background(), "search|"+kw)
		return searchHospitalsCmd(ctx, m.backend, tk, kw)
	}
	tk, ctx := m.hospitalReqs.Begin(context.Background(), "nearby|"+m.here.String())
	return nearbyHospitalsCmd(ctx, m.backend, tk, m.here, m.radiusM)
}

func (m *Model) setTransientError(message string) tea.Cmd {
	m.errorMessage = message
	m.errorTransient = true
	return clearTransientErrorCmd()
}

func (m Model) t(key string) string {
	return i18n.T(m.last.Language, key)
}
