package speech

import (
	"context"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/abhisek/polyglot/internal/llm"
	"github.com/abhisek/polyglot/internal/round"
)

const (
	// DefaultGeminiModel is the Gemini TTS model.
	DefaultGeminiModel = "gemini-2.5-flash-preview-tts"

	// Gemini TTS returns 24 kHz mono s16le.
	geminiSampleRate = 24000
)

// GeminiSynthesizer generates speech with Gemini's audio modality.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
}

// NewGeminiSynthesizer creates a synthesizer on a shared client. A nil
// client makes every call fail with ErrNeedsCredential.
func NewGeminiSynthesizer(client *genai.Client, model string) *GeminiSynthesizer {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiSynthesizer{client: client, model: model}
}

func (g *GeminiSynthesizer) Backend() round.Backend { return round.BackendGemini }

func (g *GeminiSynthesizer) Model() string { return g.model }

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, req Request) (Output, error) {
	if g.client == nil {
		return Output{}, ErrNeedsCredential
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: remoteVoice(round.BackendGemini, req),
				},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(geminiPrompt(req)), config)
	if err != nil {
		return Output{}, llm.MapGeminiError(err)
	}
	return geminiOutput(result), nil
}

func geminiPrompt(req Request) string {
	lang := req.Language.Name
	if lang == "" {
		lang = req.Language.Code
	}
	return fmt.Sprintf("Say the number %d in %s.", req.Number, lang)
}

// geminiOutput picks the first inline audio part; text parts are only
// reported when no audio came back.
func geminiOutput(result *genai.GenerateContentResponse) Output {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return Output{}
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return AudioOutput(part.InlineData.Data, sampleRateFromMIME(part.InlineData.MIMEType, geminiSampleRate))
		}
		text.WriteString(part.Text)
	}
	if s := strings.TrimSpace(text.String()); s != "" {
		return TextOutput(s)
	}
	return Output{}
}

// sampleRateFromMIME reads the rate parameter of e.g.
// "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMIME(mimeType string, fallback int) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return fallback
	}
	if r, err := strconv.Atoi(params["rate"]); err == nil && r > 0 {
		return r
	}
	return fallback
}

var _ Synthesizer = (*GeminiSynthesizer)(nil)
