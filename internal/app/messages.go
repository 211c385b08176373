package app

import (
	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/geo"
	"github.com/shimteo/shimteo/internal/latest"
	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/search"
	"github.com/shimteo/shimteo/internal/symptom"
)

// LocatedMsg carries the single-shot location for the home screen.
type LocatedMsg struct {
	Point    geo.Point
	FellBack bool
	Err      error
}

// NearbySheltersMsg carries the shelter groups inside the home bounds.
type NearbySheltersMsg struct {
	Ticket latest.Ticket
	Groups []api.ShelterGroup
	Err    error
}

// SearchResultsMsg carries a page of shelter search results.
type SearchResultsMsg struct {
	Ticket  latest.Ticket
	Results search.Results
	Err     error
}

// ShelterChosenMsg carries the detail of a shelter picked from the results.
type ShelterChosenMsg struct {
	Ticket latest.Ticket
	Detail api.ShelterDetail
	Err    error
}

// RecentSelectedMsg carries the outcome of picking a recent-search entry.
type RecentSelectedMsg struct {
	Ticket    latest.Ticket
	Selection search.Selection
	Err       error
}

// CatalogLoadedMsg carries the question catalog for the assessment.
type CatalogLoadedMsg struct {
	Ticket    latest.Ticket
	Questions []api.Question
	Err       error
}

// DiagnosisMsg carries the response to an assessment submission.
type DiagnosisMsg struct {
	Ticket latest.Ticket
	Result api.DiagnosisResult
	Err    error
}

// GuidelineMsg carries the resolved guidance for a diagnosis.
type GuidelineMsg struct {
	Ticket    latest.Ticket
	Guideline symptom.Guideline
	Err       error
}

// NearbyHospitalsMsg carries hospital groups around the current location.
type NearbyHospitalsMsg struct {
	Ticket latest.Ticket
	Groups []api.HospitalGroup
	Err    error
}

// HospitalSearchMsg carries hospital search results.
type HospitalSearchMsg struct {
	Ticket latest.Ticket
	Page   api.Page[api.HospitalSearchItem]
	Err    error
}

// PrefsChangedMsg is sent when the preferences store changes outside Update.
type PrefsChangedMsg struct {
	Prefs prefs.Preferences
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
