// Package settings edits the practice settings.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/router"
	"github.com/abhisek/polyglot/internal/screen"
	"github.com/abhisek/polyglot/internal/services"
	"github.com/abhisek/polyglot/internal/speech"
	"github.com/abhisek/polyglot/internal/ui/components"
	"github.com/abhisek/polyglot/internal/ui/layout"
	"github.com/abhisek/polyglot/internal/ui/theme"
)

// autoVoice lets the local engine pick the best voice for the language.
const autoVoice = "auto"

// Field order on screen.
const (
	fieldLanguage = iota
	fieldBackend
	fieldVoice
	fieldMin
	fieldMax
	fieldSpeed
	fieldCount
)

// localVoicesMsg carries the local engine's voices ranked for a language.
type localVoicesMsg struct {
	lang   string
	voices []string
	err    error
}

// SettingsScreen implements screen.Screen for editing round.Settings.
type SettingsScreen struct {
	svc *services.Services

	language components.Selector
	backend  components.Selector
	voice    components.Selector
	speed    components.Selector
	min      components.TextInput
	max      components.TextInput

	focus int
	err   string
	saved bool

	localVoices map[string][]string
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates a SettingsScreen showing the current settings.
func New(svc *services.Services) *SettingsScreen {
	cur := svc.Game.Settings()

	langLabels := make([]string, len(svc.Languages))
	current := ""
	for i, l := range svc.Languages {
		langLabels[i] = l.Label()
		if strings.EqualFold(l.Code, cur.Language) {
			current = langLabels[i]
		}
	}

	backends := make([]string, len(round.Backends))
	for i, b := range round.Backends {
		backends[i] = string(b)
	}

	rates := make([]string, len(round.PlaybackRates))
	for i, r := range round.PlaybackRates {
		rates[i] = formatRate(r)
	}

	s := &SettingsScreen{
		svc:         svc,
		language:    components.NewSelector("Language", langLabels, current),
		backend:     components.NewSelector("Backend", backends, string(cur.Backend)),
		speed:       components.NewSelector("Speed", rates, formatRate(cur.Rate())),
		min:         components.NewTextInput("1", true, 10),
		max:         components.NewTextInput("100", true, 10),
		localVoices: make(map[string][]string),
	}
	s.min.SetValue(strconv.Itoa(cur.Min))
	s.max.SetValue(strconv.Itoa(cur.Max))
	s.voice = components.NewSelector("Voice", s.voiceOptions(), cur.Voice)
	s.setFocus(fieldLanguage)
	return s
}

func formatRate(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64) + "x"
}

func parseRate(s string) float64 {
	r, _ := strconv.ParseFloat(strings.TrimSuffix(s, "x"), 64)
	return r
}

func (s *SettingsScreen) Init() tea.Cmd {
	return s.loadLocalVoices()
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Apply"},
		{Key: "Esc", Description: "Back"},
	}
}

// selectedLanguage maps the language selector back to the catalogue.
func (s *SettingsScreen) selectedLanguage() round.Language {
	i := s.language.Selected
	if i >= 0 && i < len(s.svc.Languages) {
		return s.svc.Languages[i]
	}
	return s.svc.Language()
}

// voiceOptions lists voices for the selected backend and language.
func (s *SettingsScreen) voiceOptions() []string {
	b := round.Backend(s.backend.Value())
	if b.IsRemote() {
		return round.VoicesFor(b)
	}
	opts := []string{autoVoice}
	return append(opts, s.localVoices[s.selectedLanguage().Code]...)
}

func (s *SettingsScreen) refreshVoices() {
	s.voice = components.NewSelector("Voice", s.voiceOptions(), s.voice.Value())
	s.voice.Focused = s.focus == fieldVoice
}

// loadLocalVoices asks the local engine for voices matching the selected
// language.
func (s *SettingsScreen) loadLocalVoices() tea.Cmd {
	if s.svc.Speech == nil || s.svc.Speech.Speaker() == nil {
		return nil
	}
	lang := s.selectedLanguage().Code
	if _, ok := s.localVoices[lang]; ok {
		return nil
	}
	speaker := s.svc.Speech.Speaker()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		voices, err := speaker.Voices(ctx)
		if err != nil {
			return localVoicesMsg{lang: lang, err: err}
		}
		var names []string
		for _, sv := range speech.RankVoices(voices, lang) {
			names = append(names, sv.Name)
		}
		return localVoicesMsg{lang: lang, voices: names}
	}
}

func (s *SettingsScreen) setFocus(f int) {
	s.focus = (f + fieldCount) % fieldCount
	s.language.Focused = s.focus == fieldLanguage
	s.backend.Focused = s.focus == fieldBackend
	s.voice.Focused = s.focus == fieldVoice
	s.speed.Focused = s.focus == fieldSpeed
	s.min.Blur()
	s.max.Blur()
}

func (s *SettingsScreen) focusCmd() tea.Cmd {
	switch s.focus {
	case fieldMin:
		return s.min.Focus()
	case fieldMax:
		return s.max.Focus()
	}
	return nil
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case localVoicesMsg:
		if msg.err != nil {
			s.svc.Log().Debug("local voices unavailable", zap.Error(msg.err))
			msg.voices = nil
		}
		s.localVoices[msg.lang] = msg.voices
		s.refreshVoices()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SettingsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, router.Back
	case "up", "shift+tab":
		s.setFocus(s.focus - 1)
		return s, s.focusCmd()
	case "down", "tab":
		s.setFocus(s.focus + 1)
		return s, s.focusCmd()
	case "enter":
		return s, s.apply()
	}

	s.saved = false
	var cmd tea.Cmd
	switch s.focus {
	case fieldLanguage:
		s.language, cmd = s.language.Update(msg)
		s.refreshVoices()
		cmd = tea.Batch(cmd, s.loadLocalVoices())
	case fieldBackend:
		s.backend, cmd = s.backend.Update(msg)
		s.refreshVoices()
	case fieldVoice:
		s.voice, cmd = s.voice.Update(msg)
	case fieldSpeed:
		s.speed, cmd = s.speed.Update(msg)
	case fieldMin:
		s.min, cmd = s.min.Update(msg)
	case fieldMax:
		s.max, cmd = s.max.Update(msg)
	}
	return s, cmd
}

// Settings builds round.Settings from the form. A blank or unparseable
// bound is an error.
func (s *SettingsScreen) Settings() (round.Settings, error) {
	lo, err := s.min.NumericValue()
	if err != nil {
		return round.Settings{}, errors.New("min must be a whole number")
	}
	hi, err := s.max.NumericValue()
	if err != nil {
		return round.Settings{}, errors.New("max must be a whole number")
	}
	voice := s.voice.Value()
	if voice == autoVoice {
		voice = ""
	}
	return round.Settings{
		Language:     s.selectedLanguage().Code,
		Min:          lo,
		Max:          hi,
		PlaybackRate: parseRate(s.speed.Value()),
		Voice:        voice,
		Backend:      round.Backend(s.backend.Value()),
	}, nil
}

func (s *SettingsScreen) apply() tea.Cmd {
	next, err := s.Settings()
	changed := false
	if err == nil {
		changed, err = s.svc.ApplySettings(next)
	}
	if err != nil {
		if errors.Is(err, round.ErrInvalidRange) {
			s.err = "Invalid range: Min > Max."
		} else {
			s.err = err.Error()
		}
		s.saved = false
		return nil
	}
	s.err = ""
	s.saved = changed
	return nil
}

func (s *SettingsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	const labelWidth = 12

	var b strings.Builder
	b.WriteString(s.language.View(labelWidth) + "\n\n")
	b.WriteString(s.backend.View(labelWidth) + "\n\n")
	b.WriteString(s.voice.View(labelWidth) + "\n\n")
	b.WriteString(s.inputRow("Min", s.min, s.focus == fieldMin, labelWidth) + "\n\n")
	b.WriteString(s.inputRow("Max", s.max, s.focus == fieldMax, labelWidth) + "\n\n")
	b.WriteString(s.speed.View(labelWidth))

	form := lipgloss.NewStyle().Align(lipgloss.Left).Render(b.String())
	sections := []string{components.ArcadeCard(form, cw)}

	backend := round.Backend(s.backend.Value())
	if s.svc.Speech != nil && !s.svc.Speech.Available(backend) {
		msg := fmt.Sprintf("⚠ %s is not available on this machine.", backend)
		if backend.IsRemote() {
			msg = fmt.Sprintf("⚠ %s needs an API key.", backend)
		}
		sections = append(sections, layout.Centered(msg, cw, lipgloss.NewStyle().Foreground(theme.Accent)))
	}

	switch {
	case s.err != "":
		sections = append(sections, layout.Centered(s.err, cw, theme.Incorrect))
	case s.saved:
		sections = append(sections, layout.Centered("Settings applied. A new round will start.", cw, theme.Correct))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (s *SettingsScreen) inputRow(label string, in components.TextInput, focused bool, labelWidth int) string {
	style := lipgloss.NewStyle().Width(labelWidth).Foreground(theme.TextDim)
	if focused {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return style.Render(label) + in.View()
}
