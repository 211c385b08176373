package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/narration"
	"github.com/shimteo/shimteo/internal/symptom"
	"github.com/shimteo/shimteo/internal/ui"
)

var modes = []symptom.Mode{symptom.ModeVoice, symptom.ModeManual}

func (m Model) helperKey(key string) (tea.Model, tea.Cmd) {
	f := m.flow
	switch f.State() {
	case symptom.StateIntro:
		if key == KeyEnter || key == KeySpace {
			if err := f.Start(); err != nil {
				m.logger.Warn("app", "start assessment", map[string]interface{}{"error": err})
			}
			m.modeCursor = 0
		}

	case symptom.StateModeSelect:
		switch key {
		case KeyUp, KeyK, KeyDown, KeyJ:
			m.modeCursor = 1 - m.modeCursor
		case KeyVoice:
			return m.selectMode(symptom.ModeVoice)
		case KeyManual:
			return m.selectMode(symptom.ModeManual)
		case KeyEnter:
			return m.selectMode(modes[m.modeCursor])
		case KeyEsc:
			f.Exit()
		}

	case symptom.StateAsking:
		switch key {
		case KeyYes:
			return m.answer(true)
		case KeyNo:
			return m.answer(false)
		case KeyBack, KeyBackspace, KeyLeft:
			f.Back()
			m.narrationPaused = false
		case KeyPause:
			m.togglePause()
		case KeyEsc:
			f.Exit()
		}

	case symptom.StateLoading, symptom.StateSubmitting:
		if key == KeyEsc {
			f.Exit()
		}

	case symptom.StateError:
		switch key {
		case KeyRetry, KeyEnter:
			req, err := f.Retry()
			if err != nil {
				m.logger.Warn("app", "retry assessment", map[string]interface{}{"error": err})
				return m, nil
			}
			return m, m.runFlow(req)
		case KeyEsc:
			f.Exit()
		}

	case symptom.StateEmpty:
		switch key {
		case KeyEnter, KeyRetry:
			f.Restart()
		case KeyEsc:
			f.Exit()
		}
	}
	return m, nil
}

func (m Model) selectMode(mode symptom.Mode) (tea.Model, tea.Cmd) {
	req, err := m.flow.SelectMode(mode)
	if err != nil {
		m.logger.Warn("app", "select mode", map[string]interface{}{"error": err})
		return m, nil
	}
	return m, m.runFlow(req)
}

func (m Model) answer(value bool) (tea.Model, tea.Cmd) {
	req, err := m.flow.Answer(value)
	if err != nil {
		m.logger.Warn("app", "answer", map[string]interface{}{"error": err})
		return m, nil
	}
	m.narrationPaused = false
	return m, m.runFlow(req)
}

func (m *Model) togglePause() {
	if !m.flow.NarrationEnabled() {
		return
	}
	var err error
	if m.narrationPaused {
		err = m.narrator.Resume()
	} else {
		err = m.narrator.Pause()
	}
	if err != nil {
		if !errors.Is(err, narration.ErrUnsupported) {
			m.logger.Warn("app", "narration pause toggle failed", map[string]interface{}{"error": err})
		}
		return
	}
	m.narrationPaused = !m.narrationPaused
}

func (m Model) resultKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyGuide, KeyEnter:
		cmd := m.navigate(ScreenGuideline)
		return m, cmd
	case KeyHospitals:
		if m.result != nil && m.result.Suspected {
			cmd := m.navigate(ScreenHospital)
			return m, cmd
		}
	case KeyRetry:
		cmd := m.restartAssessment()
		return m, cmd
	case KeyEsc:
		cmd := m.navigate(ScreenHelper)
		return m, cmd
	}
	return m, nil
}

// restartAssessment drops the result and goes back to the mode selection.
func (m *Model) restartAssessment() tea.Cmd {
	m.result = nil
	m.guideline = nil
	cmd := m.navigate(ScreenHelper)
	m.flow.Restart()
	m.modeCursor = 0
	return cmd
}

// returnToStart drops the result and goes back to the assessment intro.
func (m *Model) returnToStart() tea.Cmd {
	m.result = nil
	m.guideline = nil
	cmd := m.navigate(ScreenHelper)
	m.flow.Exit()
	return cmd
}

func (m Model) guidelineKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyUp, KeyK:
		if m.guideScroll > 0 {
			m.guideScroll--
		}
	case KeyDown, KeyJ:
		m.guideScroll++
	case KeyRetry:
		if m.guideErr != nil && m.result != nil {
			cmd := m.resolveGuideline()
			return m, cmd
		}
	case KeyEnter:
		cmd := m.returnToStart()
		return m, cmd
	case KeyEsc, KeyBack:
		cmd := m.navigate(ScreenResult)
		return m, cmd
	}
	return m, nil
}

func (m Model) renderHelper(th ui.Theme, width int) []string {
	f := m.flow
	var lines []string
	lines = append(lines, th.Header.Render(m.t("helper.title")))
	lines = append(lines, "")

	switch f.State() {
	case symptom.StateIntro:
		for _, l := range wrapText(m.t("helper.intro"), width-2) {
			lines = append(lines, th.Body.Render(l))
		}
		lines = append(lines, "")
		lines = append(lines, th.FooterKey.Render("[Enter] ")+th.Selected.Render(m.t("helper.start")))

	case symptom.StateModeSelect:
		lines = append(lines, th.Body.Render(m.t("helper.mode")))
		lines = append(lines, "")
		labels := []string{"[v] " + m.t("helper.mode.voice"), "[m] " + m.t("helper.mode.manual")}
		for i, label := range labels {
			lines = append(lines, m.listLine(th, i == m.modeCursor, label, width))
			lines = appendGap(lines, th)
		}

	case symptom.StateLoading:
		lines = append(lines, th.Dim.Render("  "+m.t("common.loading")))

	case symptom.StateAsking:
		lines = append(lines, th.Dim.Render(fmt.Sprintf(m.t("helper.progress"), f.Index()+1, f.Len())))
		if f.NarrationEnabled() {
			if m.narrationPaused {
				lines = append(lines, th.Dim.Render("⏸ "+m.t("helper.voice_paused")))
			} else {
				lines = append(lines, th.Badge.Render("🔊 "+m.t("helper.voice_on")))
			}
		}
		lines = append(lines, "")
		for _, l := range wrapText(f.CurrentText(), width-2) {
			lines = append(lines, th.Title.Render(l))
		}
		lines = append(lines, "")
		if q, ok := f.Current(); ok {
			if v, answered := f.AnswerFor(q.Code); answered {
				prev := m.t("common.no")
				if v {
					prev = m.t("common.yes")
				}
				lines = append(lines, th.Dim.Render(m.t("helper.answered")+": "+prev))
			}
		}
		lines = append(lines, th.FooterKey.Render("[y] ")+th.Selected.Render(m.t("common.yes"))+
			"    "+th.FooterKey.Render("[n] ")+th.Selected.Render(m.t("common.no")))

	case symptom.StateSubmitting:
		lines = append(lines, th.Dim.Render("  "+m.t("helper.submitting")))

	case symptom.StateError:
		msg := m.t("helper.catalog_failed")
		if f.ErrKind() == symptom.ErrorSubmit {
			msg = m.t("helper.submit_failed")
		}
		lines = append(lines, th.ErrorText.Render("  "+msg))
		lines = append(lines, th.Dim.Render("  [r] "+m.t("common.retry")))

	case symptom.StateEmpty:
		lines = append(lines, th.Dim.Render("  "+m.t("helper.empty")))
		lines = append(lines, th.Dim.Render("  [Enter] "+m.t("result.restart")))
	}
	return lines
}

func (m Model) severityStyle(th ui.Theme, sev api.Severity) func(...string) string {
	switch sev {
	case api.SeverityHigh, api.SeverityEmergency:
		return th.SeverityHigh.Render
	case api.SeverityMedium:
		return th.SeverityMid.Render
	}
	return th.SeverityLow.Render
}

func (m Model) renderResult(th ui.Theme, width int) []string {
	var lines []string
	lines = append(lines, th.Header.Render(m.t("result.title")))
	lines = append(lines, "")
	if m.result == nil {
		return lines
	}

	render := m.severityStyle(th, m.result.Severity)
	for _, l := range wrapText(m.result.Headline, width-2) {
		lines = append(lines, render(l))
	}
	lines = append(lines, "")
	for _, l := range wrapText(m.result.Description, width-2) {
		lines = append(lines, th.Body.Render(l))
	}
	lines = append(lines, "")

	lines = append(lines, th.FooterKey.Render("[g] ")+th.Body.Render(m.t("result.guidelines")))
	if m.result.Suspected {
		lines = append(lines, th.FooterKey.Render("[h] ")+th.Body.Render(m.t("result.hospitals")))
	}
	lines = append(lines, th.FooterKey.Render("[r] ")+th.Body.Render(m.t("result.restart")))
	return lines
}

func (m Model) renderGuideline(th ui.Theme, width int) []string {
	var lines []string
	title := m.t("guide.title.general")
	if m.result != nil && m.result.Suspected {
		title = m.t("guide.title.suspected")
	}
	lines = append(lines, th.Header.Render(title))
	lines = append(lines, "")

	switch {
	case m.guideLoading:
		lines = append(lines, th.Dim.Render("  "+m.t("common.loading")))
		return lines
	case m.guideErr != nil:
		lines = append(lines, th.ErrorText.Render("  "+m.t("guide.failed")))
		lines = append(lines, th.Dim.Render("  [r] "+m.t("common.retry")+"   [Enter] "+m.t("guide.return")))
		return lines
	case m.guideline == nil:
		return lines
	}

	var body []string
	g := m.guideline
	if g.AI != nil {
		body = append(body, th.Badge.Render(m.t("guide.ai")))
		body = append(body, th.Header.Render(m.t("guide.ai_summary")))
		for _, l := range wrapText(g.AI.Summary, width-4) {
			body = append(body, "  "+th.Body.Render(l))
		}
		if g.AI.Detail != "" {
			body = append(body, th.Header.Render(m.t("guide.ai_detail")))
			for _, l := range wrapText(g.AI.Detail, width-4) {
				body = append(body, "  "+th.Body.Render(l))
			}
		}
		body = append(body, "")
	}
	for _, e := range g.Entries {
		body = append(body, th.Title.Render(e.Disease))
		if e.Definition != "" {
			body = append(body, th.Header.Render(m.t("guide.definition")))
			for _, l := range wrapText(e.Definition, width-4) {
				body = append(body, "  "+th.Body.Render(l))
			}
		}
		body = appendBullets(body, th, m.t("guide.symptoms"), e.Symptoms, width)
		body = appendBullets(body, th, m.t("guide.advice"), e.Advice, width)
		body = append(body, "")
	}
	body = append(body, th.FooterKey.Render("[Enter] ")+th.Body.Render(m.t("guide.return")))

	start := min(m.guideScroll, max(0, len(body)-1))
	return append(lines, body[start:]...)
}

func appendBullets(lines []string, th ui.Theme, heading string, items []string, width int) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, th.Header.Render(heading))
	for _, item := range items {
		wrapped := wrapText(item, width-6)
		lines = append(lines, "  • "+th.Body.Render(wrapped[0]))
		for _, l := range wrapped[1:] {
			lines = append(lines, "    "+th.Body.Render(l))
		}
	}
	return lines
}
