package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimteo/shimteo/internal/ui"
)

func (m Model) hospitalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.hospitalTyping {
		switch key {
		case KeyEnter:
			m.hospitalTyping = false
			cmd := m.searchHospitals()
			return m, cmd
		case KeyEsc:
			m.hospitalTyping = false
		default:
			m.hospitalQuery.update(msg)
		}
		return m, nil
	}

	switch key {
	case KeySlash:
		m.hospitalTyping = true
	case KeyUp, KeyK:
		if m.hospitalCursor > 0 {
			m.hospitalCursor--
		}
	case KeyDown, KeyJ:
		if m.hospitalCursor < m.hospitalLen()-1 {
			m.hospitalCursor++
		}
	case KeyRetry:
		cmd := m.fetchHospitals()
		return m, cmd
	case KeyEsc:
		if m.hospitalResults != nil {
			m.hospitalResults = nil
			m.hospitalQuery.reset()
			cmd := m.fetchHospitals()
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) searchHospitals() tea.Cmd {
	kw := strings.TrimSpace(m.hospitalQuery.String())
	if kw == "" {
		m.hospitalResults = nil
		return m.fetchHospitals()
	}
	tk, ctx := m.hospitalReqs.Begin(context.Background(), "search|"+kw)
	m.hospitalLoading = true
	m.hospitalErr = nil
	return searchHospitalsCmd(ctx, m.backend, tk, kw)
}

func (m Model) hospitalLen() int {
	if m.hospitalResults != nil {
		return len(m.hospitalResults.Content)
	}
	n := 0
	for _, g := range m.hospitals {
		n += len(g.Hospitals)
	}
	return n
}

func formatDistance(meters float64) string {
	if meters <= 0 {
		return ""
	}
	if meters < 1000 {
		return fmt.Sprintf("%.0fm", meters)
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

func (m Model) hospitalLine(th ui.Theme, name, address string, er bool, distanceM float64) string {
	line := name
	if er {
		line += " " + th.Error.Render("["+m.t("hospital.er")+"]")
	}
	if d := formatDistance(distanceM); d != "" {
		line += th.Dim.Render("  " + d)
	}
	if address != "" {
		line += th.Dim.Render("  " + address)
	}
	return line
}

func (m Model) renderHospitals(th ui.Theme, width int) []string {
	var lines []string
	lines = append(lines, th.Header.Render(m.t("hospital.title")))
	if m.hospitalTyping || m.hospitalQuery.String() != "" {
		lines = append(lines, m.hospitalQuery.view(th, m.t("hospital.search"), m.hospitalTyping))
	}
	lines = append(lines, "")

	switch {
	case m.hospitalLoading:
		lines = append(lines, th.Dim.Render("  "+m.t("common.loading")))
	case m.hospitalErr != nil:
		lines = append(lines, th.ErrorText.Render("  "+m.t("hospital.failed")))
		lines = append(lines, th.Dim.Render("  [r] "+m.t("common.retry")))
	case m.hospitalLen() == 0:
		lines = append(lines, th.Dim.Render("  "+m.t("hospital.none")))
	case m.hospitalResults != nil:
		for i, h := range m.hospitalResults.Content {
			line := m.hospitalLine(th, h.Name, h.ShortAddress, h.HasEmergencyRoom, h.DistanceM)
			lines = append(lines, m.listLine(th, i == m.hospitalCursor, line, width))
			lines = appendGap(lines, th)
		}
	default:
		i := 0
		for _, g := range m.hospitals {
			addr := g.AddrRoad
			if addr == "" {
				addr = g.AddrJibun
			}
			lines = append(lines, th.Dim.Render(addr))
			for _, h := range g.Hospitals {
				line := m.hospitalLine(th, h.Name, "", h.HasEmergencyRoom, h.DistanceM)
				lines = append(lines, m.listLine(th, i == m.hospitalCursor, line, width))
				lines = appendGap(lines, th)
				i++
			}
		}
	}
	return lines
}
