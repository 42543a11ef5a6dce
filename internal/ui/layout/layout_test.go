package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{80, 23, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Practice", HeaderInfo{Language: "Spanish", Backend: "gemini", Streak: 3}, 100)
	for _, want := range []string{"Polyglot", "Practice", "Spanish", "gemini", "★ 3"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if got := lipgloss.Height(h); got != 3 {
		t.Errorf("header height = %d, want 3", got)
	}
}

func TestRenderFrame(t *testing.T) {
	header := RenderHeader("Home", HeaderInfo{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 24)

	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
	if !strings.Contains(frame, "Esc") || !strings.Contains(frame, "body") {
		t.Error("frame missing footer or content")
	}
}

func TestRenderHeader_LongTitleShortened(t *testing.T) {
	title := strings.Repeat("Trail › ", 20)
	h := RenderHeader(title, HeaderInfo{Language: "Spanish", Streak: 12}, 80)
	if got := lipgloss.Height(h); got != 3 {
		t.Fatalf("long title wrapped the header to %d lines", got)
	}
	if !strings.Contains(h, "…") || !strings.Contains(h, "★ 12") {
		t.Error("title should be ellipsized and the status kept")
	}
}

func TestRenderFooter_DropsHintsThatDoNotFit(t *testing.T) {
	var hints []KeyHint
	for i := 0; i < 12; i++ {
		hints = append(hints, KeyHint{Key: "Key", Description: "Something long"})
	}
	hints = append(hints, KeyHint{Key: "Ctrl+C", Description: "Quit"})

	f := RenderFooter(hints, 80)
	if got := lipgloss.Height(f); got != 3 {
		t.Fatalf("footer height = %d, want 3", got)
	}
	if !strings.Contains(f, "Ctrl+C") || !strings.Contains(f, "Quit") {
		t.Error("the last hint must survive trimming")
	}
}

func TestEllipsize(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Home", 10, "Home"},
		{"Home › History", 8, "Home › …"},
		{"abc", 1, "a"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := ellipsize(tt.in, tt.n); got != tt.want {
			t.Errorf("ellipsize(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
