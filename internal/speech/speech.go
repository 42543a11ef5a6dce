// Package speech plays a practice round's target number aloud.
//
// Two kinds of strategy are supported. A Speaker drives an on-device engine
// that plays the audio itself (say, espeak-ng, spd-say, SAPI). A
// Synthesizer asks a remote model for audio which the Adapter decodes and
// plays through an audio.Sink. The Adapter enforces that at most one
// playback is active and caches remote clips for replay.
package speech

import (
	"context"
	"strconv"

	"github.com/abhisek/polyglot/internal/round"
)

// Request describes a single utterance.
type Request struct {
	Number   int
	Language round.Language
	Voice    string
	Speed    float64
}

// Text is the digit string handed to engines.
func (r Request) Text() string {
	return strconv.Itoa(r.Number)
}

// RequestFor builds a Request from the practice settings.
func RequestFor(number int, lang round.Language, s round.Settings) Request {
	return Request{
		Number:   number,
		Language: lang,
		Voice:    s.Voice,
		Speed:    s.Rate(),
	}
}

// OutputKind tags the payload of a remote response.
type OutputKind int

const (
	OutputEmpty OutputKind = iota
	OutputAudio
	OutputText
)

func (k OutputKind) String() string {
	switch k {
	case OutputAudio:
		return "audio"
	case OutputText:
		return "text"
	default:
		return "empty"
	}
}

// Output is what a remote model returned. Exactly one of Audio or Text is
// set, according to Kind.
type Output struct {
	Kind OutputKind

	// Audio is raw PCM16 little-endian mono.
	Audio      []byte
	SampleRate int

	// SpeedApplied is set when the provider already rendered the
	// requested speed.
	SpeedApplied bool

	Text string
}

// AudioOutput wraps PCM bytes.
func AudioOutput(pcm []byte, sampleRate int) Output {
	return Output{Kind: OutputAudio, Audio: pcm, SampleRate: sampleRate}
}

// TextOutput wraps a text-only reply.
func TextOutput(text string) Output {
	return Output{Kind: OutputText, Text: text}
}

// Synthesizer produces audio with a remote model.
type Synthesizer interface {
	Backend() round.Backend
	Model() string
	Synthesize(ctx context.Context, req Request) (Output, error)
}

// Speaker speaks through a local engine and returns when the engine exits.
// Cancelling ctx stops the engine.
type Speaker interface {
	Speak(ctx context.Context, req Request) error
	Voices(ctx context.Context) ([]Voice, error)
	Engine() string
}
