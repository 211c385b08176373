package app

import (
	"fmt"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/geo"
	"github.com/shimteo/shimteo/internal/symptom"
)

// TestLiveTUIFlow exercises the model against a real backend.
// Skipped unless SHIMTEO_LIVE_API points at one.
func TestLiveTUIFlow(t *testing.T) {
	baseURL := os.Getenv("SHIMTEO_LIVE_API")
	if baseURL == "" {
		t.Skip("SHIMTEO_LIVE_API not set")
	}

	client := api.New(baseURL, api.WithTimeout(15*time.Second))
	m := New(Deps{
		Backend: client,
		Locator: geo.Static{P: geo.Point{Lat: 37.5665, Lon: 126.978}},
		Center:  geo.Point{Lat: 37.5665, Lon: 126.978},
	})

	m, _ = applyUpdate(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.View() == "Initializing..." {
		t.Error("view should render after WindowSizeMsg")
	}

	m = drain(m, m.Init())
	if m.homeErr != nil {
		t.Fatalf("nearby shelters: %v", m.homeErr)
	}
	fmt.Printf("Nearby groups: %d\n", len(m.groups))
	fmt.Println("=== Home ===")
	fmt.Println(m.View())

	m = press(m, runes("3"))
	m = press(m, keyEnter)
	m = press(m, runes("m"))
	if m.flow.State() != symptom.StateAsking {
		t.Fatalf("state = %s, err = %v", m.flow.State(), m.flow.Err())
	}
	fmt.Printf("Questions: %d\n", m.flow.Len())
	fmt.Println("=== Helper ===")
	fmt.Println(m.View())

	for i := m.flow.Len(); i > 0 && m.screen == ScreenHelper; i-- {
		m = press(m, runes("n"))
	}
	if m.screen != ScreenResult {
		t.Fatalf("screen = %v, flow state = %s, err = %v", m.screen, m.flow.State(), m.flow.Err())
	}
	fmt.Printf("Result: suspected=%v headline=%q\n", m.result.Suspected, m.result.Headline)

	m = press(m, runes("g"))
	if m.guideErr != nil {
		t.Fatalf("guideline: %v", m.guideErr)
	}
	fmt.Println("=== Guideline ===")
	fmt.Println(m.View())

	m = press(m, runes("2"))
	m = press(m, runes("서울"))
	m = press(m, keyEnter)
	if m.searchErr != nil {
		t.Fatalf("search: %v", m.searchErr)
	}
	fmt.Println("=== Search ===")
	fmt.Println(m.View())
}
