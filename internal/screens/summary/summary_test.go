package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/polyglot/internal/router"
	"github.com/abhisek/polyglot/internal/session"
	"github.com/abhisek/polyglot/internal/ui/theme"
)

func testSummary() session.Summary {
	return session.Summary{
		SessionID:  "s-1",
		Language:   "es-ES",
		Duration:   3*time.Minute + 7*time.Second,
		Attempts:   14,
		Correct:    11,
		Accuracy:   float64(11) / float64(14) * 100,
		BestStreak: 6,
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary())
	view := s.View(80, 24)
	for _, want := range []string{"Session complete!", "es-ES", "3:07", "Attempts", "14", "Best streak", "79%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_Empty(t *testing.T) {
	s := New(session.Summary{Language: "en-US"})
	if view := s.View(80, 24); !strings.Contains(view, "No rounds played") {
		t.Error("expected empty-session title")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{
		{Code: tea.KeyEnter},
		{Code: tea.KeyEscape},
	} {
		s := New(testSummary())
		_, cmd := s.Update(key)
		if cmd == nil {
			t.Fatalf("expected a command on %q", key.String())
		}
		if _, ok := cmd().(router.PopToRootMsg); !ok {
			t.Errorf("%q: expected PopToRootMsg", key.String())
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary())
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}

func TestAccuracyColor(t *testing.T) {
	tests := []struct {
		pct  float64
		want any
	}{
		{100, theme.Success},
		{80, theme.Success},
		{65, theme.ArcadeYellow},
		{10, theme.Error},
	}
	for _, tt := range tests {
		if got := accuracyColor(tt.pct); got != tt.want {
			t.Errorf("accuracyColor(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}
