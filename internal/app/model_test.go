package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/geo"
	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/season"
	"github.com/shimteo/shimteo/internal/symptom"
	"github.com/shimteo/shimteo/internal/ui"
)

func init() {
	transientErrorDelay = time.Millisecond
}

type boundsCall struct {
	bounds       api.Bounds
	season       string
	facilityType string
}

type fakeBackend struct {
	mu sync.Mutex

	questions      []api.Question
	questionsErr   error
	questionCalls  []string
	diagnosis      api.DiagnosisResult
	diagnoseErr    error
	submissions    []api.Submission
	general        []api.GuideEntry
	assessed       []api.GuideEntry
	ai             api.AIResult
	guideCalls     []string
	groups         []api.ShelterGroup
	boundsCalls    []boundsCall
	searchItems    []api.ShelterSearchItem
	searchCalls    []api.ShelterQuery
	details        map[int64]api.ShelterDetail
	hospitals      []api.HospitalGroup
	hospitalCalls  int
	hospitalSearch []string
}

func (f *fakeBackend) Questions(ctx context.Context, sn, lang string) ([]api.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questionCalls = append(f.questionCalls, sn+"|"+lang)
	return f.questions, f.questionsErr
}

func (f *fakeBackend) Diagnose(ctx context.Context, sub api.Submission) (api.DiagnosisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, sub)
	return f.diagnosis, f.diagnoseErr
}

func (f *fakeBackend) Guides(ctx context.Context, sn, lang string) ([]api.GuideEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guideCalls = append(f.guideCalls, "guides")
	return f.general, nil
}

func (f *fakeBackend) AssessmentGuides(ctx context.Context, id int64, lang string) ([]api.GuideEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guideCalls = append(f.guideCalls, "assessment-guides")
	return f.assessed, nil
}

func (f *fakeBackend) AIResult(ctx context.Context, id int64, lang string) (api.AIResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guideCalls = append(f.guideCalls, "ai-result")
	return f.ai, nil
}

func (f *fakeBackend) SearchShelters(ctx context.Context, q api.ShelterQuery) (api.Page[api.ShelterSearchItem], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, q)
	return api.Page[api.ShelterSearchItem]{Content: f.searchItems, TotalElements: len(f.searchItems)}, nil
}

func (f *fakeBackend) ShelterDetail(ctx context.Context, id int64, sn string) (api.ShelterDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[id]
	if !ok {
		return api.ShelterDetail{}, &api.HTTPError{Method: "GET", Path: "/shelters", Status: 404}
	}
	return d, nil
}

func (f *fakeBackend) SheltersInBounds(ctx context.Context, b api.Bounds, sn, facilityType string) ([]api.ShelterGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boundsCalls = append(f.boundsCalls, boundsCall{bounds: b, season: sn, facilityType: facilityType})
	return f.groups, nil
}

func (f *fakeBackend) NearbyHospitals(ctx context.Context, lat, lon float64, radiusM int) ([]api.HospitalGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hospitalCalls++
	return f.hospitals, nil
}

func (f *fakeBackend) SearchHospitals(ctx context.Context, keyword string, page, size int) (api.Page[api.HospitalSearchItem], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hospitalSearch = append(f.hospitalSearch, keyword)
	return api.Page[api.HospitalSearchItem]{Content: []api.HospitalSearchItem{{ID: 1, Name: keyword + " hospital"}}}, nil
}

type failingLocator struct{}

func (failingLocator) Locate(ctx context.Context) (geo.Point, error) {
	return geo.Point{}, errors.New("permission denied")
}

var testCenter = geo.Point{Lat: 37.5, Lon: 127.0}

func newTestModel(b *fakeBackend, store *prefs.Store) Model {
	if store == nil {
		store = prefs.New()
	}
	m := New(Deps{
		Backend: b,
		Prefs:   store,
		Locator: geo.Static{P: geo.Point{Lat: 35.1, Lon: 129.0}},
		Center:  testCenter,
	})
	m.width = 100
	m.height = 40
	return m
}

func applyUpdate(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drain runs cmd and feeds every resulting message back into the model until nothing is left.
func drain(m Model, cmd tea.Cmd) Model {
	for _, msg := range collect(cmd) {
		var next tea.Cmd
		m, next = applyUpdate(m, msg)
		m = drain(m, next)
	}
	return m
}

// press feeds one key and drains the resulting commands.
func press(m Model, key tea.KeyMsg) Model {
	m, cmd := applyUpdate(m, key)
	return drain(m, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
)

func TestNewModel(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	if m.screen != ScreenHome {
		t.Errorf("screen = %v, want home", m.screen)
	}
	if m.located {
		t.Error("new model should not be located")
	}
	if m.flow.State() != symptom.StateIntro {
		t.Errorf("flow state = %s, want Intro", m.flow.State())
	}
}

func TestInitLocatesAndFetchesNearby(t *testing.T) {
	b := &fakeBackend{groups: []api.ShelterGroup{{Address: "Jung-gu", Shelters: []api.ShelterSearchItem{{ID: 1, Name: "Hall"}}}}}
	m := newTestModel(b, nil)

	m = drain(m, m.Init())

	if !m.located || m.locationFallback {
		t.Fatalf("located=%v fallback=%v", m.located, m.locationFallback)
	}
	if len(m.groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(m.groups))
	}
	if len(b.boundsCalls) != 1 {
		t.Fatalf("bounds calls = %d, want 1", len(b.boundsCalls))
	}
	call := b.boundsCalls[0]
	if call.season != "HEAT" {
		t.Errorf("season = %q", call.season)
	}
	if call.facilityType != "" {
		t.Errorf("facilityType = %q, want omitted", call.facilityType)
	}
	if call.bounds.MinLat != 35.1-geo.DefaultDelta || call.bounds.MaxLon != 129.0+geo.DefaultDelta {
		t.Errorf("bounds = %+v", call.bounds)
	}
}

func TestLocationFailureUsesDefaultCenter(t *testing.T) {
	b := &fakeBackend{}
	m := New(Deps{Backend: b, Locator: failingLocator{}, Center: testCenter})
	m.width = 80

	m = drain(m, m.Init())

	if !m.locationFallback {
		t.Error("expected fallback to the default center")
	}
	if m.here != testCenter {
		t.Errorf("here = %v, want %v", m.here, testCenter)
	}
	if len(b.boundsCalls) != 1 {
		t.Fatal("nearby shelters should still be fetched")
	}
}

func TestAutoLocateOffSkipsLocator(t *testing.T) {
	b := &fakeBackend{}
	store := prefs.New()
	store.SetAutoLocateOnLaunch(false)
	m := newTestModel(b, store)

	m = drain(m, m.Init())

	if m.here != testCenter {
		t.Errorf("here = %v, want default center", m.here)
	}
	if m.locationFallback {
		t.Error("skipping location is not a failure")
	}
}

func TestNearbyPassesGeneralTypeWhenSeniorHidden(t *testing.T) {
	b := &fakeBackend{}
	store := prefs.New()
	store.SetShowSeniorFacilities(false)
	m := newTestModel(b, store)

	drain(m, m.Init())

	if b.boundsCalls[0].facilityType != api.ShelterTypeGeneral {
		t.Errorf("facilityType = %q, want GENERAL", b.boundsCalls[0].facilityType)
	}
}

func TestSeasonChangeSupersedesNearbyRequest(t *testing.T) {
	b := &fakeBackend{groups: []api.ShelterGroup{{Address: "A"}}}
	store := prefs.New()
	m := newTestModel(b, store)

	m, first := applyUpdate(m, LocatedMsg{Point: testCenter})
	firstMsgs := collect(first)

	store.SetShowColdShelters(true)
	m, second := applyUpdate(m, PrefsChangedMsg{})

	// The superseded response arrives after the newer request started.
	for _, msg := range firstMsgs {
		m, _ = applyUpdate(m, msg)
	}
	if m.groups != nil {
		t.Fatal("stale nearby result should be dropped")
	}

	m = drain(m, second)
	if len(m.groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(m.groups))
	}
	if got := b.boundsCalls[len(b.boundsCalls)-1].season; got != "COLD" {
		t.Errorf("latest request season = %q, want COLD", got)
	}
}

func TestHelperFlowReachesResult(t *testing.T) {
	b := &fakeBackend{
		questions: []api.Question{
			{ID: 2, Code: "q2", Text: "second", SortOrder: 2},
			{ID: 1, Code: "q1", Text: "first", SortOrder: 1},
		},
		diagnosis: api.DiagnosisResult{AssessmentID: 77, Suspected: true, Headline: "Heat exhaustion"},
	}
	m := newTestModel(b, nil)

	m = press(m, runes("3"))
	m = press(m, keyEnter)
	if m.flow.State() != symptom.StateModeSelect {
		t.Fatalf("state = %s, want ModeSelect", m.flow.State())
	}
	m = press(m, runes("m"))
	if m.flow.State() != symptom.StateAsking {
		t.Fatalf("state = %s, want Asking", m.flow.State())
	}
	if q, _ := m.flow.Current(); q.Code != "q1" {
		t.Errorf("first question = %q, want q1", q.Code)
	}

	m = press(m, runes("y"))
	m = press(m, runes("n"))

	if m.screen != ScreenResult {
		t.Fatalf("screen = %v, want result", m.screen)
	}
	if m.result == nil || m.result.AssessmentID != 77 {
		t.Fatalf("result = %+v", m.result)
	}
	if len(b.submissions) != 1 {
		t.Fatalf("submissions = %d", len(b.submissions))
	}
	sub := b.submissions[0]
	if len(sub.Answers) != 2 || sub.Answers[0].Answer != api.AnswerYes || sub.Answers[1].Answer != api.AnswerNo {
		t.Errorf("answers = %+v", sub.Answers)
	}
	if sub.Language != "ko" {
		t.Errorf("language = %q", sub.Language)
	}
}

func TestSubmitFailureOffersRetry(t *testing.T) {
	b := &fakeBackend{
		questions:   []api.Question{{ID: 1, Code: "q1"}},
		diagnoseErr: api.ErrNetwork,
	}
	m := newTestModel(b, nil)
	m = press(m, runes("3"))
	m = press(m, keyEnter)
	m = press(m, runes("m"))
	m = press(m, runes("y"))

	if m.flow.State() != symptom.StateError || m.flow.ErrKind() != symptom.ErrorSubmit {
		t.Fatalf("state = %s kind = %v", m.flow.State(), m.flow.ErrKind())
	}

	b.diagnoseErr = nil
	m = press(m, runes("r"))
	if m.screen != ScreenResult {
		t.Errorf("screen = %v, want result after retry", m.screen)
	}
	if len(b.submissions) != 2 {
		t.Errorf("submissions = %d, want 2", len(b.submissions))
	}
}

func TestLeavingHelperDropsLateCatalog(t *testing.T) {
	b := &fakeBackend{questions: []api.Question{{ID: 1, Code: "q1"}}}
	m := newTestModel(b, nil)
	m = press(m, runes("3"))
	m = press(m, keyEnter)

	m, load := applyUpdate(m, runes("m"))
	m = press(m, runes("1"))
	m = drain(m, load)

	if m.flow.State() != symptom.StateIntro {
		t.Errorf("state = %s, want Intro", m.flow.State())
	}
}

func TestSeasonChangeReloadsCatalogWhileAsking(t *testing.T) {
	b := &fakeBackend{questions: []api.Question{{ID: 1, Code: "q1"}, {ID: 2, Code: "q2"}}}
	store := prefs.New()
	m := newTestModel(b, store)
	m = press(m, runes("3"))
	m = press(m, keyEnter)
	m = press(m, runes("m"))
	m = press(m, runes("y"))

	store.SetShowColdShelters(true)
	m, cmd := applyUpdate(m, PrefsChangedMsg{})
	m = drain(m, cmd)

	last := b.questionCalls[len(b.questionCalls)-1]
	if last != "COLD|ko" {
		t.Errorf("last catalog request = %q, want COLD|ko", last)
	}
	if m.flow.Index() != 0 {
		t.Errorf("index = %d, want 0 after reload", m.flow.Index())
	}
	if _, answered := m.flow.AnswerFor("q1"); answered {
		t.Error("answers should be discarded on reload")
	}
}

func TestResultWithoutDiagnosisRedirects(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	m.navigate(ScreenResult)

	if m.screen != ScreenHelper {
		t.Errorf("screen = %v, want helper", m.screen)
	}
	if m.errorMessage == "" {
		t.Error("redirect should explain itself")
	}
}

func TestHospitalsOnlyWhenSuspected(t *testing.T) {
	b := &fakeBackend{hospitals: []api.HospitalGroup{{AddrRoad: "Road", Hospitals: []api.Hospital{{Name: "General", HasEmergencyRoom: true}}}}}
	m := newTestModel(b, nil)
	m.screen = ScreenResult
	m.result = &api.DiagnosisResult{AssessmentID: 1, Suspected: false}

	m = press(m, runes("h"))
	if m.screen != ScreenResult {
		t.Fatalf("screen = %v, hospitals should be unavailable", m.screen)
	}

	m.result.Suspected = true
	m = press(m, runes("h"))
	if m.screen != ScreenHospital {
		t.Fatalf("screen = %v, want hospitals", m.screen)
	}
	if b.hospitalCalls != 1 || len(m.hospitals) != 1 {
		t.Errorf("hospital calls = %d groups = %d", b.hospitalCalls, len(m.hospitals))
	}
}

func TestGuidelineForSuspectedDiagnosis(t *testing.T) {
	b := &fakeBackend{
		ai:       api.AIResult{Summary: "Rest in the shade"},
		assessed: []api.GuideEntry{{Disease: "A", Advice: []string{"drink water"}}},
		general:  []api.GuideEntry{{Disease: "B"}},
	}
	m := newTestModel(b, nil)
	m.screen = ScreenResult
	m.result = &api.DiagnosisResult{AssessmentID: 5, Suspected: true}

	m = press(m, runes("g"))

	if m.screen != ScreenGuideline {
		t.Fatalf("screen = %v", m.screen)
	}
	if m.guideline == nil || m.guideline.AI == nil {
		t.Fatalf("guideline = %+v", m.guideline)
	}
	if len(m.guideline.Entries) != 1 || m.guideline.Entries[0].Disease != "A" {
		t.Errorf("entries = %+v", m.guideline.Entries)
	}
	for _, c := range b.guideCalls {
		if c == "guides" {
			t.Error("suspected diagnosis should not request general guides")
		}
	}

	m = press(m, keyEnter)
	if m.screen != ScreenHelper || m.result != nil {
		t.Errorf("return to start: screen=%v result=%v", m.screen, m.result)
	}
}

func TestSearchThenChooseShelter(t *testing.T) {
	b := &fakeBackend{
		searchItems: []api.ShelterSearchItem{{ID: 9, Name: "Gym", ShortAddress: "Mapo"}},
		details:     map[int64]api.ShelterDetail{9: {ID: 9, Name: "Gym", Address: "1 Mapo-ro"}},
	}
	store := prefs.New()
	m := newTestModel(b, store)

	m = press(m, runes("2"))
	m = press(m, runes("gym"))
	m = press(m, keyEnter)

	if m.results == nil || len(m.results.Page.Content) != 1 {
		t.Fatalf("results = %+v", m.results)
	}
	if b.searchCalls[0].Keyword != "gym" || b.searchCalls[0].Season != "HEAT" {
		t.Errorf("query = %+v", b.searchCalls[0])
	}

	m = press(m, keyDown)
	m = press(m, keyEnter)

	if m.screen != ScreenHome {
		t.Fatalf("screen = %v, want home", m.screen)
	}
	if m.selected == nil || m.selected.Address != "1 Mapo-ro" {
		t.Errorf("selected = %+v", m.selected)
	}

	recent := store.RecentSearches(season.Heat)
	if len(recent) != 2 {
		t.Fatalf("recent = %d, want 2", len(recent))
	}
	if recent[0].Kind != prefs.KindShelter || recent[1].Kind != prefs.KindKeyword {
		t.Errorf("recent kinds = %s, %s", recent[0].Kind, recent[1].Kind)
	}
}

func TestBlankSearchSendsNothing(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(b, nil)
	m = press(m, runes("2"))
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})

	m, cmd := applyUpdate(m, keyEnter)
	if cmd != nil {
		t.Error("blank search should not issue a request")
	}
	if len(b.searchCalls) != 0 {
		t.Errorf("search calls = %d", len(b.searchCalls))
	}
	if m.results != nil {
		t.Error("blank search clears results")
	}
}

func TestRecentKeywordReplaysSearch(t *testing.T) {
	b := &fakeBackend{searchItems: []api.ShelterSearchItem{{ID: 1, Name: "Library"}}}
	store := prefs.New()
	store.AddRecentSearch(prefs.RecentSearchItem{Kind: prefs.KindKeyword, Label: "library"}, season.Heat)
	m := newTestModel(b, store)

	m = press(m, runes("2"))
	m = press(m, keyDown)
	m = press(m, keyEnter)

	if m.query.String() != "library" {
		t.Errorf("query = %q", m.query.String())
	}
	if m.results == nil || len(m.results.Page.Content) != 1 {
		t.Fatalf("results = %+v", m.results)
	}
	if len(store.RecentSearches(season.Heat)) != 1 {
		t.Error("replaying a keyword should not duplicate it")
	}
}

func TestDeleteAndClearRecent(t *testing.T) {
	store := prefs.New()
	store.AddRecentSearch(prefs.RecentSearchItem{Kind: prefs.KindKeyword, Label: "a"}, season.Heat)
	store.AddRecentSearch(prefs.RecentSearchItem{Kind: prefs.KindKeyword, Label: "b"}, season.Heat)
	m := newTestModel(&fakeBackend{}, store)

	m = press(m, runes("2"))
	m = press(m, keyDown)
	m = press(m, runes("d"))
	if got := store.RecentSearches(season.Heat); len(got) != 1 || got[0].Label != "a" {
		t.Fatalf("after delete = %+v", got)
	}

	m = press(m, runes("c"))
	if len(store.RecentSearches(season.Heat)) != 0 {
		t.Error("clear should empty the season's history")
	}
	if m.focus != focusInput {
		t.Error("empty list returns focus to the input")
	}
}

func TestTypingQDoesNotQuit(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	m = press(m, runes("2"))

	m, cmd := applyUpdate(m, runes("q"))
	if cmd != nil {
		t.Error("q in the search field should not quit")
	}
	if m.query.String() != "q" {
		t.Errorf("query = %q", m.query.String())
	}
}

func TestQuitOutsideInput(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	_, cmd := applyUpdate(m, runes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestTabCyclesScreens(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)

	m = press(m, keyTab)
	if m.screen != ScreenSearch {
		t.Errorf("tab: screen = %v, want search", m.screen)
	}
	m = press(m, keyShiftTab)
	m = press(m, keyShiftTab)
	if m.screen != ScreenSettings {
		t.Errorf("shift+tab twice: screen = %v, want settings", m.screen)
	}
}

func TestSettingsTextSizeSwitchesTheme(t *testing.T) {
	store := prefs.New(prefs.WithPresenter(ui.Presenter{}))
	t.Cleanup(func() { ui.ApplyMode(prefs.ModeDefault) })
	m := newTestModel(&fakeBackend{}, store)

	m = press(m, runes("5"))
	m = press(m, keyEnter)

	if store.Snapshot().TypographyMode != prefs.ModeSenior {
		t.Errorf("mode = %s, want senior", store.Snapshot().TypographyMode)
	}
	if ui.Current().Mode != prefs.ModeSenior {
		t.Error("theme should follow the typography mode")
	}
	if m.View() == "" {
		t.Error("view should render in senior mode")
	}
}

func TestSettingsLanguageCycle(t *testing.T) {
	store := prefs.New()
	m := newTestModel(&fakeBackend{}, store)
	m = press(m, runes("5"))
	for i := 0; i < rowLanguage; i++ {
		m = press(m, keyDown)
	}
	m = press(m, keyEnter)

	if store.Language() != "en" {
		t.Errorf("language = %q, want en", store.Language())
	}
	if !strings.Contains(m.View(), "Settings") {
		t.Error("view should switch to English")
	}
}

func TestTransientErrorClears(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	cmd := m.setTransientError("boom")
	if cmd == nil {
		t.Fatal("transient error should return a clear command")
	}
	m = drain(m, cmd)
	if m.errorMessage != "" {
		t.Errorf("errorMessage = %q", m.errorMessage)
	}
}

func TestViewRendersEveryScreen(t *testing.T) {
	m := newTestModel(&fakeBackend{}, nil)
	m.result = &api.DiagnosisResult{Headline: "ok", Suspected: true, Severity: api.SeverityHigh}
	m.guideline = &symptom.Guideline{Entries: []api.GuideEntry{{Disease: "A", Symptoms: []string{"dizziness"}}}}

	for _, s := range []Screen{ScreenHome, ScreenSearch, ScreenHelper, ScreenResult, ScreenGuideline, ScreenHospital, ScreenSettings} {
		m.screen = s
		view := m.View()
		if view == "" || view == "Initializing..." {
			t.Errorf("screen %v rendered %q", s, view)
		}
	}
}

func TestViewWithoutSize(t *testing.T) {
	m := New(Deps{Backend: &fakeBackend{}})
	view := m.View()
	if view != "Initializing..." {
		t.Errorf("view without size = %q, want 'Initializing...'", view)
	}
}

func TestWrapTextCountsDisplayWidth(t *testing.T) {
	lines := wrapText("열사병 의심 증상 확인", 10)
	for _, l := range lines {
		if w := lipgloss.Width(l); w > 10 {
			t.Errorf("line %q is %d cells wide", l, w)
		}
	}
	if len(lines) < 2 {
		t.Errorf("expected wrapping, got %q", lines)
	}
}
