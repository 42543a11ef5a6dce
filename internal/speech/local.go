package speech

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/round"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// engineSpec describes how to drive one OS speech engine.
type engineSpec struct {
	name      string
	bin       string
	listArgs  []string
	parse     func(out string) []Voice
	speakArgs func(req Request, v *Voice) []string
}

const baseWordsPerMinute = 175

var engines = map[string]engineSpec{
	"say": {
		name:      "say",
		bin:       "say",
		listArgs:  []string{"-v", "?"},
		parse:     parseSayVoices,
		speakArgs: sayArgs,
	},
	"espeak-ng": {
		name:      "espeak-ng",
		bin:       "espeak-ng",
		listArgs:  []string{"--voices"},
		parse:     parseEspeakVoices,
		speakArgs: espeakArgs,
	},
	"espeak": {
		name:      "espeak",
		bin:       "espeak",
		listArgs:  []string{"--voices"},
		parse:     parseEspeakVoices,
		speakArgs: espeakArgs,
	},
	"spd-say": {
		name:      "spd-say",
		bin:       "spd-say",
		listArgs:  []string{"-L"},
		parse:     parseSpdVoices,
		speakArgs: spdArgs,
	},
	"sapi": {
		name:      "sapi",
		bin:       "powershell",
		listArgs:  powershellArgs(sapiListScript),
		parse:     parseSapiVoices,
		speakArgs: sapiArgs,
	},
}

// enginePreference is the probe order per GOOS.
func enginePreference(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"say"}
	case "windows":
		return []string{"sapi"}
	default:
		return []string{"espeak-ng", "espeak", "spd-say"}
	}
}

// EngineNames lists the engines that can be configured explicitly.
func EngineNames() []string {
	return []string{"say", "espeak-ng", "espeak", "spd-say", "sapi"}
}

// detectEngine resolves the configured engine, or probes the platform
// defaults when name is empty.
func detectEngine(name, goos string, lookPath func(string) (string, error)) (engineSpec, string, error) {
	candidates := enginePreference(goos)
	if name != "" {
		if _, ok := engines[name]; !ok {
			return engineSpec{}, "", fmt.Errorf("unknown speech engine %q (want one of %s)", name, strings.Join(EngineNames(), ", "))
		}
		candidates = []string{name}
	}
	for _, c := range candidates {
		spec := engines[c]
		if path, err := lookPath(spec.bin); err == nil {
			return spec, path, nil
		}
	}
	return engineSpec{}, "", ErrNoEngine
}

// LocalSpeaker speaks through an OS speech engine.
type LocalSpeaker struct {
	spec   engineSpec
	path   string
	run    Runner
	logger *zap.Logger

	mu     sync.Mutex
	voices []Voice
	loaded bool
}

// NewLocalSpeaker finds an installed engine. engine may name one of
// EngineNames; empty probes the platform defaults.
func NewLocalSpeaker(engine string, logger *zap.Logger) (*LocalSpeaker, error) {
	spec, path, err := detectEngine(engine, runtime.GOOS, exec.LookPath)
	if err != nil {
		return nil, err
	}
	return newLocalSpeaker(spec, path, execRunner, logger), nil
}

func newLocalSpeaker(spec engineSpec, path string, run Runner, logger *zap.Logger) *LocalSpeaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalSpeaker{
		spec:   spec,
		path:   path,
		run:    run,
		logger: logger.Named("speech.local").With(zap.String("engine", spec.name)),
	}
}

// Engine returns the engine name.
func (s *LocalSpeaker) Engine() string {
	return s.spec.name
}

// Voices lists the engine's voices. The list is loaded once.
func (s *LocalSpeaker) Voices(ctx context.Context) ([]Voice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.voices, nil
	}

	out, err := s.run(ctx, s.path, s.spec.listArgs...)
	if err != nil {
		return nil, &EngineError{Engine: s.spec.name, Err: fmt.Errorf("list voices: %w", err)}
	}
	s.voices = s.spec.parse(string(out))
	s.loaded = true
	s.logger.Debug("loaded voices", zap.Int("count", len(s.voices)))
	return s.voices, nil
}

// Speak runs the engine and waits for it to finish.
func (s *LocalSpeaker) Speak(ctx context.Context, req Request) error {
	var voice *Voice
	if voices, err := s.Voices(ctx); err != nil {
		s.logger.Warn("voice listing failed, using engine default", zap.Error(err))
	} else if v, ok := ChooseVoice(voices, req.Language.Code, req.Voice); ok {
		voice = &v
	}

	args := s.spec.speakArgs(req, voice)
	out, err := s.run(ctx, s.path, args...)
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return &EngineError{Engine: s.spec.name, Err: err}
	}
	return nil
}

func wordsPerMinute(speed float64) string {
	if speed <= 0 {
		speed = 1
	}
	return strconv.Itoa(int(math.Round(baseWordsPerMinute * speed)))
}

// relativeRate maps speed onto an engine's symmetric rate scale, e.g.
// -100..100 for speech-dispatcher.
func relativeRate(speed float64, limit int) string {
	r := int(math.Round((speed - 1) * float64(limit)))
	return strconv.Itoa(max(-limit, min(limit, r)))
}

// say -v '?' prints "Name    xx_YY    # sample text". Names may contain
// spaces and parentheses.
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}_[A-Za-z0-9]+)\s+#`)

func parseSayVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		m := sayVoiceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, Voice{Name: name, Lang: m[2], ID: name})
	}
	return voices
}

func sayArgs(req Request, v *Voice) []string {
	args := []string{"-r", wordsPerMinute(req.Speed)}
	if v != nil {
		args = append(args, "-v", v.ID)
	}
	return append(args, req.Text())
}

// espeak --voices prints a table:
// Pty Language Age/Gender VoiceName File Other Languages
func parseEspeakVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) < 4 || f[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{
			Name: strings.ReplaceAll(f[3], "_", " "),
			Lang: f[1],
			ID:   f[1],
		})
	}
	return voices
}

func espeakArgs(req Request, v *Voice) []string {
	id := round.BaseLanguage(req.Language.Code)
	if v != nil {
		id = v.ID
	}
	return []string{"-v", id, "-s", wordsPerMinute(req.Speed), req.Text()}
}

// spd-say -L prints "NAME LANGUAGE VARIANT" rows; names may contain spaces.
func parseSpdVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) < 3 || f[0] == "NAME" {
			continue
		}
		name := strings.Join(f[:len(f)-2], " ")
		voices = append(voices, Voice{Name: name, Lang: f[len(f)-2], ID: name})
	}
	return voices
}

func spdArgs(req Request, v *Voice) []string {
	lang := round.BaseLanguage(req.Language.Code)
	args := []string{"-w", "-r", relativeRate(req.Speed, 100)}
	if v != nil {
		lang = v.Lang
		args = append(args, "-y", v.ID)
	}
	args = append(args, "-l", lang)
	return append(args, req.Text())
}

const sapiListScript = `Add-Type -AssemblyName System.Speech; ` +
	`(New-Object System.Speech.Synthesis.SpeechSynthesizer).GetInstalledVoices() | ` +
	`ForEach-Object { $_.VoiceInfo.Name + '|' + $_.VoiceInfo.Culture.Name }`

func powershellArgs(script string) []string {
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

func parseSapiVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		name, lang, ok := strings.Cut(strings.TrimSpace(line), "|")
		if !ok || name == "" {
			continue
		}
		voices = append(voices, Voice{Name: name, Lang: lang, ID: name})
	}
	return voices
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sapiArgs(req Request, v *Voice) []string {
	var b strings.Builder
	b.WriteString("Add-Type -AssemblyName System.Speech; ")
	b.WriteString("$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; ")
	b.WriteString("$s.Rate = " + relativeRate(req.Speed, 10) + "; ")
	if v != nil {
		b.WriteString("$s.SelectVoice(" + psQuote(v.ID) + "); ")
	}
	b.WriteString("$s.Speak(" + psQuote(req.Text()) + ")")
	return powershellArgs(b.String())
}

var _ Speaker = (*LocalSpeaker)(nil)
