package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimteo/shimteo/internal/i18n"
	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/ui"
)

const (
	rowTextSize = iota
	rowSenior
	rowCold
	rowLanguage
	rowAutoLocate
	settingsRows
)

func (m Model) settingsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyUp, KeyK:
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
	case KeyDown, KeyJ:
		if m.settingsCursor < settingsRows-1 {
			m.settingsCursor++
		}
	case KeyEnter, KeySpace, KeyLeft, KeyRight:
		m.toggleSetting(m.settingsCursor)
		cmd := m.syncPrefs()
		return m, cmd
	}
	return m, nil
}

func (m *Model) toggleSetting(row int) {
	p := m.prefs.Snapshot()
	var err error
	switch row {
	case rowTextSize:
		next := prefs.SizeLarge
		if p.TextSize == prefs.SizeLarge {
			next = prefs.SizeDefault
		}
		err = m.prefs.SetTextSize(next)
	case rowSenior:
		m.prefs.SetShowSeniorFacilities(!p.ShowSeniorFacilities)
	case rowCold:
		m.prefs.SetShowColdShelters(!p.ShowColdShelters)
	case rowLanguage:
		err = m.prefs.SetLanguage(i18n.Next(p.Language))
	case rowAutoLocate:
		m.prefs.SetAutoLocateOnLaunch(!p.AutoLocateOnLaunch)
	}
	if err != nil {
		m.logger.Warn("app", "settings change rejected", map[string]interface{}{"row": row, "error": err})
	}
}

func (m Model) onOff(v bool) string {
	if v {
		return m.t("common.on")
	}
	return m.t("common.off")
}

func (m Model) renderSettings(th ui.Theme, width int) []string {
	p := m.prefs.Snapshot()
	size := m.t("settings.text_size.default")
	if p.TextSize == prefs.SizeLarge {
		size = m.t("settings.text_size.large")
	}

	rows := []struct {
		section string
		label   string
		value   string
	}{
		{m.t("settings.app"), m.t("settings.text_size"), size},
		{m.t("settings.map"), m.t("settings.senior"), m.onOff(p.ShowSeniorFacilities)},
		{"", m.t("settings.cold"), m.onOff(p.ShowColdShelters)},
		{m.t("settings.app"), m.t("settings.language"), i18n.Name(p.Language)},
		{"", m.t("settings.auto_locate"), m.onOff(p.AutoLocateOnLaunch)},
	}

	var lines []string
	lines = append(lines, th.Header.Render(m.t("settings.title")))
	for i, r := range rows {
		if r.section != "" {
			lines = append(lines, "")
			lines = append(lines, th.Dim.Render(r.section))
		}
		label := padRight(r.label, max(20, width/2)) + th.Badge.Render(r.value)
		lines = append(lines, m.listLine(th, i == m.settingsCursor, label, width))
		lines = appendGap(lines, th)
	}
	return lines
}
