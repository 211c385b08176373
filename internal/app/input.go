package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimteo/shimteo/internal/ui"
)

// textInput is a single-line editor fed by key messages.
type textInput struct {
	value []rune
}

func (t *textInput) update(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyRunes:
		t.value = append(t.value, msg.Runes...)
	case tea.KeySpace:
		t.value = append(t.value, ' ')
	case tea.KeyBackspace:
		if len(t.value) > 0 {
			t.value = t.value[:len(t.value)-1]
		}
	case tea.KeyCtrlU:
		t.value = nil
	}
}

func (t *textInput) set(s string) { t.value = []rune(s) }

func (t *textInput) reset() { t.value = nil }

func (t textInput) String() string { return string(t.value) }

func (t textInput) view(th ui.Theme, placeholder string, focused bool) string {
	prompt := th.Dim.Render("🔍 ")
	if len(t.value) == 0 {
		line := prompt + th.Dim.Render(placeholder)
		if focused {
			line += "▌"
		}
		return line
	}
	line := prompt + th.Body.Render(string(t.value))
	if focused {
		line += "▌"
	}
	return line
}
