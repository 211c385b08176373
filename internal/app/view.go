package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shimteo/shimteo/internal/i18n"
	"github.com/shimteo/shimteo/internal/season"
	"github.com/shimteo/shimteo/internal/symptom"
	"github.com/shimteo/shimteo/internal/ui"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	th := ui.Current()

	var sections []string
	sections = append(sections, m.renderHeader(th))
	sections = append(sections, m.renderTabs(th))
	sections = append(sections, th.Divider.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderBody(th))
	sections = append(sections, th.Divider.Render(strings.Repeat("─", m.width)))
	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar(th))
	}
	sections = append(sections, m.renderFooter(th))

	return strings.Join(sections, "\n")
}

func (m Model) bodyHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + tabs(1) + dividers(2) + error(1) + footer(1)
	return max(5, m.height-6)
}

func (m Model) renderBody(th ui.Theme) string {
	width := max(20, m.width-2)
	var lines []string
	switch m.screen {
	case ScreenHome:
		lines = m.renderHome(th, width)
	case ScreenSearch:
		lines = m.renderSearch(th, width)
	case ScreenHelper:
		lines = m.renderHelper(th, width)
	case ScreenResult:
		lines = m.renderResult(th, width)
	case ScreenGuideline:
		lines = m.renderGuideline(th, width)
	case ScreenHospital:
		lines = m.renderHospitals(th, width)
	case ScreenSettings:
		lines = m.renderSettings(th, width)
	}

	height := m.bodyHeight()
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = " " + truncateToWidth(l, width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader(th ui.Theme) string {
	title := th.Title.Render(m.t("app.title"))

	sn := m.last.Season()
	badge := th.SeasonHeat.Render(" ☀ " + m.t("season."+string(sn)))
	if sn == season.Cold {
		badge = th.SeasonCold.Render(" ❄ " + m.t("season."+string(sn)))
	}

	lang := th.Dim.Render(" · " + i18n.Name(m.last.Language))
	return title + badge + lang
}

func (m Model) renderTabs(th ui.Theme) string {
	active := m.screen.tab()
	var parts []string
	for i, s := range tabs {
		label := string(rune('1'+i)) + " " + m.t(s.labelKey())
		if s == active {
			parts = append(parts, th.TabActive.Render(label))
		} else {
			parts = append(parts, th.Tab.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderErrorBar(th ui.Theme) string {
	return th.Error.Render(m.t("common.error")+": ") + th.ErrorText.Render(m.errorMessage)
}

func (m Model) renderFooter(th ui.Theme) string {
	hint := func(key, desc string) string {
		return th.FooterKey.Render(key) + th.FooterDesc.Render(" "+desc)
	}

	var parts []string
	switch m.screen {
	case ScreenHome:
		parts = append(parts, hint("j/k", m.t("common.nav")), hint("Enter", m.t("home.expand")),
			hint("l", m.t("home.relocate")), hint("r", m.t("common.retry")))
	case ScreenSearch:
		if m.focus == focusInput {
			parts = append(parts, hint("Enter", m.t("common.search")), hint("↓", m.t("search.recent")))
		} else {
			parts = append(parts, hint("Enter", m.t("common.select")), hint("/", m.t("common.search")))
			if m.results == nil {
				parts = append(parts, hint("d", m.t("common.delete")), hint("c", m.t("common.clear")))
			}
		}
	case ScreenHelper:
		switch m.flow.State() {
		case symptom.StateAsking:
			parts = append(parts, hint("y", m.t("common.yes")), hint("n", m.t("common.no")), hint("b", m.t("common.back")))
			if m.flow.NarrationEnabled() {
				parts = append(parts, hint("p", m.t("common.pause")))
			}
		case symptom.StateError:
			parts = append(parts, hint("r", m.t("common.retry")))
		}
		parts = append(parts, hint("Esc", m.t("common.back")))
	case ScreenResult:
		parts = append(parts, hint("g", m.t("result.guidelines")), hint("r", m.t("result.restart")))
	case ScreenGuideline:
		parts = append(parts, hint("j/k", m.t("common.nav")), hint("Enter", m.t("guide.return")), hint("Esc", m.t("common.back")))
	case ScreenHospital:
		parts = append(parts, hint("/", m.t("hospital.search")), hint("r", m.t("common.retry")))
	case ScreenSettings:
		parts = append(parts, hint("j/k", m.t("common.nav")), hint("Enter", m.t("common.select")))
	}

	parts = append(parts, hint("Tab", m.t("common.tabs")))
	if !m.typing() {
		parts = append(parts, hint("q", m.t("common.quit")))
	}
	return strings.Join(parts, "  ")
}

// listLine renders one list row with the theme's cursor when selected.
func (m Model) listLine(th ui.Theme, selected bool, text string, width int) string {
	if selected {
		return truncateToWidth(th.Selected.Render(th.Cursor)+th.Selected.Render(text), width)
	}
	indent := strings.Repeat(" ", lipgloss.Width(th.Cursor))
	return truncateToWidth(indent+th.Body.Render(text), width)
}

// appendGap adds the theme's blank lines between list items.
func appendGap(lines []string, th ui.Theme) []string {
	for i := 0; i < th.LineGap; i++ {
		lines = append(lines, "")
	}
	return lines
}

// Helpers

func padRight(s string, width int) string {
	// Get visible length (ignoring ANSI codes)
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	// Styled text is left alone; the terminal clips it.
	if strings.Contains(s, "\x1b") {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "…"
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if lipgloss.Width(current)+1+lipgloss.Width(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
