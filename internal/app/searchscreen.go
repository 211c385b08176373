package app

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/ui"
)

// searchLen is the length of whichever list the search screen shows: results after a search,
// the season's recent searches otherwise.
func (m Model) searchLen() int {
	if m.results != nil {
		return len(m.results.Page.Content)
	}
	return len(m.search.Recent())
}

func (m Model) searchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.focus == focusInput {
		switch key {
		case KeyEnter:
			cmd := m.runSearch()
			return m, cmd
		case KeyDown:
			if m.searchLen() > 0 {
				m.focus = focusList
				m.searchCursor = 0
			}
		case KeyEsc:
			m.query.reset()
			m.results = nil
			m.searchErr = nil
			m.searchReqs.Invalidate()
			m.searchLoading = false
		default:
			m.query.update(msg)
		}
		return m, nil
	}

	switch key {
	case KeyUp, KeyK:
		if m.searchCursor == 0 {
			m.focus = focusInput
		} else {
			m.searchCursor--
		}
	case KeyDown, KeyJ:
		if m.searchCursor < m.searchLen()-1 {
			m.searchCursor++
		}
	case KeyEnter:
		cmd := m.activateSearchItem()
		return m, cmd
	case KeyDelete:
		if m.results == nil {
			recent := m.search.Recent()
			if m.searchCursor < len(recent) {
				m.search.Remove(recent[m.searchCursor].ID)
			}
			m.clampSearchCursor()
		}
	case KeyClear:
		if m.results == nil {
			m.search.Clear()
			m.clampSearchCursor()
		}
	case KeyEsc, KeySlash:
		m.focus = focusInput
	}
	return m, nil
}

func (m *Model) clampSearchCursor() {
	n := m.searchLen()
	if n == 0 {
		m.searchCursor = 0
		m.focus = focusInput
		return
	}
	if m.searchCursor >= n {
		m.searchCursor = n - 1
	}
}

// activateSearchItem opens the highlighted result or replays the highlighted recent search.
func (m *Model) activateSearchItem() tea.Cmd {
	if m.results != nil {
		items := m.results.Page.Content
		if m.searchCursor >= len(items) {
			return nil
		}
		item := items[m.searchCursor]
		tk, ctx := m.searchReqs.Begin(context.Background(), "choose|"+strconv.FormatInt(item.ID, 10))
		m.searchLoading = true
		return chooseShelterCmd(ctx, m.search, tk, item)
	}

	recent := m.search.Recent()
	if m.searchCursor >= len(recent) {
		return nil
	}
	item := recent[m.searchCursor]
	tk, ctx := m.searchReqs.Begin(context.Background(), "recent|"+item.ID)
	m.searchLoading = true
	if item.Kind == prefs.KindKeyword {
		m.query.set(item.Label)
	}
	return selectRecentCmd(ctx, m.search, tk, item)
}

func (m Model) renderSearch(th ui.Theme, width int) []string {
	var lines []string
	lines = append(lines, th.Header.Render(m.t("search.title")))
	lines = append(lines, m.query.view(th, m.t("search.hint"), m.focus == focusInput))
	lines = append(lines, "")

	listFocused := m.focus == focusList
	switch {
	case m.searchLoading:
		lines = append(lines, th.Dim.Render("  "+m.t("common.loading")))
	case m.searchErr != nil:
		lines = append(lines, th.ErrorText.Render("  "+m.t("search.failed")))
	case m.results != nil:
		if len(m.results.Page.Content) == 0 {
			lines = append(lines, th.Dim.Render("  "+m.t("search.none")))
			break
		}
		lines = append(lines, th.Dim.Render(fmt.Sprintf("  %d", m.results.Page.TotalElements)))
		for i, item := range m.results.Page.Content {
			label := item.Name
			if item.ShortAddress != "" {
				label += th.Dim.Render("  " + item.ShortAddress)
			}
			lines = append(lines, m.listLine(th, listFocused && i == m.searchCursor, label, width))
			lines = appendGap(lines, th)
		}
	default:
		lines = append(lines, th.Header.Render(m.t("search.recent")))
		recent := m.search.Recent()
		if len(recent) == 0 {
			lines = append(lines, th.Dim.Render("  "+m.t("search.no_recent")))
			break
		}
		for i, item := range recent {
			icon := "🔍 "
			label := item.Label
			if item.Kind == prefs.KindShelter {
				icon = "📍 "
				if item.Address != "" {
					label += th.Dim.Render("  " + item.Address)
				}
			}
			label += th.Dim.Render("  " + item.Created().Format("01.02"))
			lines = append(lines, m.listLine(th, listFocused && i == m.searchCursor, icon+label, width))
			lines = appendGap(lines, th)
		}
	}
	return lines
}
