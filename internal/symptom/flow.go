package symptom

import (
	"context"
	"errors"
	"fmt"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/i18n"
	"github.com/shimteo/shimteo/internal/latest"
	"github.com/shimteo/shimteo/internal/logging"
	"github.com/shimteo/shimteo/internal/narration"
	"github.com/shimteo/shimteo/internal/season"
)

// State is the flow's position.
type State int

const (
	StateIntro State = iota
	StateModeSelect
	StateLoading
	StateAsking
	StateSubmitting
	StateDone
	StateError
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateIntro:
		return "intro"
	case StateModeSelect:
		return "mode-select"
	case StateLoading:
		return "loading"
	case StateAsking:
		return "asking"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Mode is the presentation chosen on the mode-select step.
type Mode int

const (
	ModeManual Mode = iota
	ModeVoice
)

// ErrorKind says which step failed and therefore what Retry re-runs.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorCatalog
	ErrorSubmit
)

// ErrInvalidTransition is returned when an action is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid transition")

// RequestKind distinguishes the two kinds of work the flow hands to its caller.
type RequestKind int

const (
	RequestCatalog RequestKind = iota
	RequestSubmit
)

// Request is work the caller must run and report back through ApplyCatalog or ApplyResult.
type Request struct {
	Kind     RequestKind
	Ticket   latest.Ticket
	Ctx      context.Context
	Season   season.Type
	Language string
	// Submission is set for RequestSubmit.
	Submission api.Submission
}

// Flow is the assessment state machine. It is driven from a single goroutine (the TUI update
// loop); background work reports back through tickets so late results are dropped.
type Flow struct {
	narrator narration.Narrator
	logger   logging.Logger
	base     context.Context

	catalogReqs latest.Tracker
	submitReqs  latest.Tracker

	state    State
	errKind  ErrorKind
	err      error
	narrate  bool
	season   season.Type
	language string

	questions []api.Question
	index     int
	answers   map[string]bool
	pending   *api.Submission
	result    *api.DiagnosisResult
}

// NewFlow creates a flow in the Intro state for (sn, lang).
func NewFlow(n narration.Narrator, sn season.Type, lang string, logger logging.Logger) *Flow {
	if n == nil {
		n = narration.Noop{}
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Flow{
		narrator: n,
		logger:   logger,
		base:     context.Background(),
		season:   sn,
		language: lang,
		answers:  make(map[string]bool),
	}
}

// Start leaves the intro for the mode selection.
func (f *Flow) Start() error {
	if f.state != StateIntro {
		return fmt.Errorf("start from %s: %w", f.state, ErrInvalidTransition)
	}
	f.state = StateModeSelect
	return nil
}

// SelectMode records the presentation mode and starts loading the catalog.
func (f *Flow) SelectMode(m Mode) (*Request, error) {
	if f.state != StateModeSelect {
		return nil, fmt.Errorf("select mode from %s: %w", f.state, ErrInvalidTransition)
	}
	f.narrate = m == ModeVoice
	return f.load(), nil
}

// Reload switches the catalog key. While a catalog is loading or being answered, the catalog
// and answers are discarded and a new load starts; in other states only the key changes.
func (f *Flow) Reload(sn season.Type, lang string) *Request {
	if sn == f.season && lang == f.language {
		return nil
	}
	f.season = sn
	f.language = lang
	switch f.state {
	case StateLoading, StateAsking, StateEmpty:
		f.narrator.Cancel()
		return f.load()
	case StateError:
		if f.errKind == ErrorCatalog {
			return f.load()
		}
	}
	return nil
}

func (f *Flow) load() *Request {
	f.questions = nil
	f.index = 0
	f.answers = make(map[string]bool)
	f.pending = nil
	f.err = nil
	f.errKind = ErrorNone
	f.state = StateLoading

	tk, ctx := f.catalogReqs.Begin(f.base, Key(f.season, f.language))
	return &Request{Kind: RequestCatalog, Ticket: tk, Ctx: ctx, Season: f.season, Language: f.language}
}

// ApplyCatalog delivers a catalog result. It returns false when the ticket has been
// superseded, in which case nothing changes.
func (f *Flow) ApplyCatalog(tk latest.Ticket, qs []api.Question, err error) bool {
	if !f.catalogReqs.Current(tk) || f.state != StateLoading {
		return false
	}
	f.catalogReqs.Done(tk)

	if err != nil {
		f.state = StateError
		f.errKind = ErrorCatalog
		f.err = err
		f.logger.Warn("symptom", "catalog load failed", map[string]interface{}{
			"key": tk.Key, "error": err,
		})
		return true
	}
	if len(qs) == 0 {
		f.state = StateEmpty
		return true
	}
	f.questions = qs
	f.index = 0
	f.state = StateAsking
	f.speakCurrent()
	return true
}

// Answer records value for the current question and advances. At the last question the flow
// moves to Submitting and returns the submission request, built from the answer set including
// this answer.
func (f *Flow) Answer(value bool) (*Request, error) {
	if f.state != StateAsking {
		return nil, fmt.Errorf("answer from %s: %w", f.state, ErrInvalidTransition)
	}
	q := f.questions[f.index]
	f.answers[q.Code] = value

	if f.index+1 < len(f.questions) {
		f.index++
		f.speakCurrent()
		return nil, nil
	}

	sub, err := f.buildSubmission()
	if err != nil {
		return nil, err
	}
	f.pending = &sub
	return f.BeginSubmit()
}

// Back returns to the previous question, whose answer can then be overwritten.
func (f *Flow) Back() bool {
	if f.state != StateAsking || f.index == 0 {
		return false
	}
	f.index--
	f.speakCurrent()
	return true
}

// BeginSubmit starts (or restarts) submission of the pending answers.
func (f *Flow) BeginSubmit() (*Request, error) {
	if f.pending == nil {
		return nil, fmt.Errorf("submit without answers: %w", ErrInvalidTransition)
	}
	f.narrator.Cancel()
	f.state = StateSubmitting
	f.err = nil
	f.errKind = ErrorNone

	tk, ctx := f.submitReqs.Begin(f.base, Key(f.season, f.language))
	return &Request{
		Kind:       RequestSubmit,
		Ticket:     tk,
		Ctx:        ctx,
		Season:     f.season,
		Language:   f.language,
		Submission: *f.pending,
	}, nil
}

// ApplyResult delivers the diagnosis. It returns false for superseded tickets.
func (f *Flow) ApplyResult(tk latest.Ticket, result api.DiagnosisResult, err error) bool {
	if !f.submitReqs.Current(tk) || f.state != StateSubmitting {
		return false
	}
	f.submitReqs.Done(tk)

	if err != nil {
		f.state = StateError
		f.errKind = ErrorSubmit
		f.err = err
		f.logger.Warn("symptom", "submission failed", map[string]interface{}{"error": err})
		return true
	}
	f.result = &result
	f.state = StateDone
	f.logger.Info("symptom", "diagnosis received", map[string]interface{}{
		"assessmentId": result.AssessmentID,
		"suspected":    result.Suspected,
		"severity":     string(result.Severity),
	})
	return true
}

// Retry re-runs whatever failed: the catalog load with the same key, or the submission with
// the same answers.
func (f *Flow) Retry() (*Request, error) {
	if f.state != StateError {
		return nil, fmt.Errorf("retry from %s: %w", f.state, ErrInvalidTransition)
	}
	switch f.errKind {
	case ErrorCatalog:
		return f.load(), nil
	case ErrorSubmit:
		return f.BeginSubmit()
	}
	return nil, fmt.Errorf("retry without error: %w", ErrInvalidTransition)
}

// Exit abandons the session: narration stops, in-flight results are dropped and the flow is
// back at the intro.
func (f *Flow) Exit() {
	f.narrator.Cancel()
	f.catalogReqs.Invalidate()
	f.submitReqs.Invalidate()

	f.state = StateIntro
	f.questions = nil
	f.index = 0
	f.answers = make(map[string]bool)
	f.pending = nil
	f.result = nil
	f.err = nil
	f.errKind = ErrorNone
	f.narrate = false
}

// Restart exits and goes straight to the mode selection.
func (f *Flow) Restart() {
	f.Exit()
	f.state = StateModeSelect
}

func (f *Flow) buildSubmission() (api.Submission, error) {
	answers := make([]api.SubmissionAnswer, 0, len(f.questions))
	for _, q := range f.questions {
		v, ok := f.answers[q.Code]
		if !ok {
			return api.Submission{}, fmt.Errorf("question %q unanswered: %w", q.Code, ErrInvalidTransition)
		}
		answers = append(answers, api.SubmissionAnswer{ID: q.ID, Answer: api.AnswerFromBool(v)})
	}
	return api.Submission{Answers: answers, Language: f.language}, nil
}

// speakCurrent narrates the current question, stopping the previous utterance first.
func (f *Flow) speakCurrent() {
	if !f.narrate || f.state != StateAsking {
		return
	}
	f.narrator.Cancel()

	q := f.questions[f.index]
	text := i18n.QuestionText(f.language, q.Code, q.Text)
	if err := f.narrator.Speak(f.base, text, i18n.VoiceLocale(f.language)); err != nil {
		f.logger.Warn("symptom", "narration failed", map[string]interface{}{"error": err})
		if errors.Is(err, narration.ErrUnsupported) {
			f.narrator = narration.Noop{}
		}
	}
}

// State returns the current state.
func (f *Flow) State() State { return f.state }

// Err returns the failure behind StateError.
func (f *Flow) Err() error { return f.err }

// ErrKind reports which step failed.
func (f *Flow) ErrKind() ErrorKind { return f.errKind }

// NarrationEnabled reports whether voice mode was chosen.
func (f *Flow) NarrationEnabled() bool { return f.narrate }

// Season returns the active catalog season.
func (f *Flow) Season() season.Type { return f.season }

// Language returns the active catalog language.
func (f *Flow) Language() string { return f.language }

// Index returns the current question index.
func (f *Flow) Index() int { return f.index }

// Len returns the number of questions in the catalog.
func (f *Flow) Len() int { return len(f.questions) }

// Current returns the question being asked.
func (f *Flow) Current() (api.Question, bool) {
	if f.state != StateAsking {
		return api.Question{}, false
	}
	return f.questions[f.index], true
}

// CurrentText returns the localized text of the current question.
func (f *Flow) CurrentText() string {
	q, ok := f.Current()
	if !ok {
		return ""
	}
	return i18n.QuestionText(f.language, q.Code, q.Text)
}

// AnswerFor returns the recorded answer for a question code.
func (f *Flow) AnswerFor(code string) (bool, bool) {
	v, ok := f.answers[code]
	return v, ok
}

// Result returns the diagnosis once Done.
func (f *Flow) Result() (api.DiagnosisResult, bool) {
	if f.result == nil {
		return api.DiagnosisResult{}, false
	}
	return *f.result, true
}
