// Package detector is the Teeth Detector screen: it classifies an image
// URL with a vision model and keeps the last few results.
package detector

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/router"
	"github.com/abhisek/polyglot/internal/screen"
	"github.com/abhisek/polyglot/internal/services"
	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/layout"
	"github.com/abhisek/polyglot/internal/ui/theme"
	"github.com/abhisek/polyglot/internal/vision"
)

// analyzeTimeout bounds one fetch plus classification.
const analyzeTimeout = 2 * time.Minute

// analyzeDoneMsg carries a classification result.
type analyzeDoneMsg struct {
	gen    uint64
	result *vision.Result
	err    error
}

// DetectorScreen implements screen.Screen for image classification.
type DetectorScreen struct {
	svc     *services.Services
	input   components.TextInput
	spinner spinner.Model

	gen       uint64
	cancel    context.CancelFunc
	analyzing bool

	result *vision.Result
	errMsg string
}

var _ screen.Screen = (*DetectorScreen)(nil)
var _ screen.KeyHintProvider = (*DetectorScreen)(nil)
var _ screen.EscapeHandler = (*DetectorScreen)(nil)

// New creates a DetectorScreen.
func New(svc *services.Services) *DetectorScreen {
	return &DetectorScreen{
		svc:   svc,
		input: components.NewTextInput("https://example.com/smile.jpg", false, 2048),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.ArcadeCyan)),
		),
	}
}

func (d *DetectorScreen) Init() tea.Cmd {
	return d.input.Focus()
}

func (d *DetectorScreen) Title() string {
	return "Teeth Detector"
}

// HandlesEscape lets the screen cancel an in-flight request before leaving.
func (d *DetectorScreen) HandlesEscape() bool { return true }

func (d *DetectorScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Analyze"}}
	if d.history() != nil && len(d.history().Entries()) > 0 && d.input.Value() == "" {
		hints = append(hints, layout.KeyHint{Key: "1-5", Description: "Recall"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (d *DetectorScreen) history() *vision.History {
	return d.svc.History
}

func (d *DetectorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzeDoneMsg:
		if msg.gen != d.gen {
			return d, nil
		}
		d.analyzing = false
		d.cancel = nil
		if msg.err != nil {
			d.errMsg = vision.Message(msg.err)
			d.result = nil
			return d, nil
		}
		d.errMsg = ""
		d.result = msg.result
		return d, nil

	case spinner.TickMsg:
		if !d.analyzing {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *DetectorScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		d.stop()
		return d, router.Back
	case "enter":
		return d, d.analyze()
	case "1", "2", "3", "4", "5":
		if d.input.Value() == "" && d.recall(int(key[0]-'1')) {
			return d, nil
		}
	}

	if d.analyzing {
		return d, nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// recall shows a saved result without calling the model again.
func (d *DetectorScreen) recall(i int) bool {
	h := d.history()
	if h == nil {
		return false
	}
	entries := h.Entries()
	if i < 0 || i >= len(entries) {
		return false
	}
	r := entries[i]
	d.result = &r
	d.errMsg = ""
	return true
}

// stop cancels any in-flight classification and drops its result.
func (d *DetectorScreen) stop() {
	d.gen++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.analyzing = false
}

func (d *DetectorScreen) analyze() tea.Cmd {
	url := strings.TrimSpace(d.input.Value())
	if url == "" || d.analyzing {
		return nil
	}
	if d.svc.Classifier == nil {
		d.errMsg = "No vision model configured. Set an API key for Gemini, OpenAI or Anthropic."
		return nil
	}

	d.stop()
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	d.cancel = cancel
	d.analyzing = true
	d.errMsg = ""
	d.result = nil
	gen := d.gen

	classifier := d.svc.Classifier
	hist := d.history()
	logger := d.svc.Log()

	run := func() tea.Msg {
		defer cancel()
		result, err := classifier.Analyze(ctx, url)
		if err != nil {
			return analyzeDoneMsg{gen: gen, err: err}
		}
		if hist != nil {
			if err := hist.Add(ctx, *result); err != nil {
				logger.Warn("failed to save detection history", zap.Error(err))
			}
		}
		return analyzeDoneMsg{gen: gen, result: result}
	}
	return tea.Batch(run, d.spinner.Tick)
}
