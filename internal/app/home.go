package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimteo/shimteo/internal/ui"
)

func (m Model) homeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyUp, KeyK:
		if m.homeCursor > 0 {
			m.homeCursor--
		}
	case KeyDown, KeyJ:
		if m.homeCursor < len(m.groups)-1 {
			m.homeCursor++
		}
	case KeyEnter, KeySpace:
		if m.homeCursor < len(m.groups) {
			if m.expanded == m.homeCursor {
				m.expanded = -1
			} else {
				m.expanded = m.homeCursor
			}
		}
	case KeyRetry:
		cmd := m.fetchNearby()
		return m, cmd
	case KeyLocate:
		return m, locateCmd(m.locator, m.center)
	case KeyEsc:
		m.selected = nil
	}
	return m, nil
}

func (m Model) renderHome(th ui.Theme, width int) []string {
	var lines []string
	lines = append(lines, th.Header.Render(m.t("home.title")))

	if m.selected != nil {
		s := m.selected
		lines = append(lines, "")
		lines = append(lines, th.Badge.Render(m.t("home.selected"))+" "+th.Body.Render(s.Name))
		for _, detail := range []string{s.Address, s.DetailAddress, s.Phone, s.OperatingHours} {
			if detail != "" {
				lines = append(lines, th.Dim.Render("  "+detail))
			}
		}
		if s.Capacity > 0 {
			lines = append(lines, th.Dim.Render(fmt.Sprintf("  %d", s.Capacity)))
		}
	}

	if m.locationFallback {
		lines = append(lines, th.Dim.Render(m.t("home.default")))
	}
	lines = append(lines, "")

	switch {
	case !m.located:
		lines = append(lines, th.Dim.Render("  "+m.t("home.locating")))
	case m.homeLoading:
		lines = append(lines, th.Dim.Render("  "+m.t("common.loading")))
	case m.homeErr != nil:
		lines = append(lines, th.ErrorText.Render("  "+m.t("home.failed")))
		lines = append(lines, th.Dim.Render("  [r] "+m.t("common.retry")))
	case len(m.groups) == 0:
		lines = append(lines, th.Dim.Render("  "+m.t("home.none")))
	default:
		for i, g := range m.groups {
			label := fmt.Sprintf("%s (%d)", g.Address, len(g.Shelters))
			marker := "▸ "
			if i == m.expanded {
				marker = "▾ "
			}
			lines = append(lines, m.listLine(th, i == m.homeCursor, marker+label, width))
			if i == m.expanded {
				for _, s := range g.Shelters {
					lines = append(lines, th.Dim.Render("      "+s.Name+facilitySuffix(s.FacilityType)))
				}
			}
			lines = appendGap(lines, th)
		}
	}
	return lines
}

func facilitySuffix(facilityType string) string {
	if facilityType == "" {
		return ""
	}
	return " [" + facilityType + "]"
}
