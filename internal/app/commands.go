package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/geo"
	"github.com/shimteo/shimteo/internal/latest"
	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/search"
	"github.com/shimteo/shimteo/internal/symptom"
)

var (
	locateTimeout       = 10 * time.Second
	transientErrorDelay = 5 * time.Second
)

// locateCmd acquires the location once, falling back to def.
func locateCmd(l geo.Locator, def geo.Point) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), locateTimeout)
		defer cancel()
		p, fellBack, err := geo.LocateOr(ctx, l, def)
		return LocatedMsg{Point: p, FellBack: fellBack, Err: err}
	}
}

// fixedLocationCmd skips acquisition and reports p.
func fixedLocationCmd(p geo.Point) tea.Cmd {
	return func() tea.Msg {
		return LocatedMsg{Point: p}
	}
}

// nearbySheltersCmd fetches the shelter groups inside b.
func nearbySheltersCmd(ctx context.Context, b Backend, tk latest.Ticket, bounds api.Bounds, season, facilityType string) tea.Cmd {
	return func() tea.Msg {
		groups, err := b.SheltersInBounds(ctx, bounds, season, facilityType)
		return NearbySheltersMsg{Ticket: tk, Groups: groups, Err: err}
	}
}

// searchCmd runs a shelter search through the manager, which records the keyword.
func searchCmd(ctx context.Context, mgr *search.Manager, tk latest.Ticket, keyword string) tea.Cmd {
	return func() tea.Msg {
		res, err := mgr.Search(ctx, keyword, 0)
		return SearchResultsMsg{Ticket: tk, Results: res, Err: err}
	}
}

// chooseShelterCmd resolves a result's detail and records it.
func chooseShelterCmd(ctx context.Context, mgr *search.Manager, tk latest.Ticket, item api.ShelterSearchItem) tea.Cmd {
	return func() tea.Msg {
		detail, err := mgr.ChooseShelter(ctx, item)
		return ShelterChosenMsg{Ticket: tk, Detail: detail, Err: err}
	}
}

// selectRecentCmd acts on a recent-search entry.
func selectRecentCmd(ctx context.Context, mgr *search.Manager, tk latest.Ticket, item prefs.RecentSearchItem) tea.Cmd {
	return func() tea.Msg {
		sel, err := mgr.Select(ctx, item)
		return RecentSelectedMsg{Ticket: tk, Selection: sel, Err: err}
	}
}

// catalogCmd loads the questions for a flow request.
func catalogCmd(c *symptom.Catalog, req *symptom.Request) tea.Cmd {
	return func() tea.Msg {
		qs, err := c.Fetch(req.Ctx, req.Season, req.Language)
		return CatalogLoadedMsg{Ticket: req.Ticket, Questions: qs, Err: err}
	}
}

// diagnoseCmd submits the answers of a flow request.
func diagnoseCmd(b Backend, req *symptom.Request) tea.Cmd {
	return func() tea.Msg {
		res, err := b.Diagnose(req.Ctx, req.Submission)
		return DiagnosisMsg{Ticket: req.Ticket, Result: res, Err: err}
	}
}

// guidelineCmd resolves the guidance for a diagnosis.
func guidelineCmd(ctx context.Context, r *symptom.Resolver, tk latest.Ticket, req symptom.GuidelineRequest) tea.Cmd {
	return func() tea.Msg {
		g, err := r.Resolve(ctx, req)
		return GuidelineMsg{Ticket: tk, Guideline: g, Err: err}
	}
}

// nearbyHospitalsCmd fetches hospital groups around p.
func nearbyHospitalsCmd(ctx context.Context, b Backend, tk latest.Ticket, p geo.Point, radiusM int) tea.Cmd {
	return func() tea.Msg {
		groups, err := b.NearbyHospitals(ctx, p.Lat, p.Lon, radiusM)
		return NearbyHospitalsMsg{Ticket: tk, Groups: groups, Err: err}
	}
}

// searchHospitalsCmd searches hospitals by keyword.
func searchHospitalsCmd(ctx context.Context, b Backend, tk latest.Ticket, keyword string) tea.Cmd {
	return func() tea.Msg {
		page, err := b.SearchHospitals(ctx, keyword, 0, api.DefaultPageSize)
		return HospitalSearchMsg{Ticket: tk, Page: page, Err: err}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(transientErrorDelay, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}
