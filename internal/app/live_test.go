package app

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jwulff/notesum/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// TestLiveTUIFlow exercises the model lifecycle against a running backend.
// Skipped unless NOTESUM_LIVE_API points at one.
func TestLiveTUIFlow(t *testing.T) {
	base := os.Getenv("NOTESUM_LIVE_API")
	if base == "" {
		t.Skip("NOTESUM_LIVE_API not set")
	}

	m := New(context.Background(), api.NewClient(base, nil), nil)
	m, _ = applyUpdate(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	fmt.Println("=== Initial View ===")
	fmt.Println(m.View())

	m.transcriptInput.SetValue("Alice: We agreed to ship the beta on Friday. Bob owns the release notes.")
	m.state = m.state.SetTranscript(m.transcriptInput.Value())

	m, cmd := applyUpdate(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if !m.State().Busy {
		t.Fatal("expected busy")
	}
	m, _ = applyUpdate(m, cmd())
	if m.State().Summary == nil {
		t.Fatal("no summary generated (see log for the backend error)")
	}
	fmt.Println("=== Summary View ===")
	fmt.Println(m.View())
}
