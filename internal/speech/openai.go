package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/polyglot/internal/llm"
	"github.com/abhisek/polyglot/internal/round"
)

const (
	// DefaultOpenAIModel follows the instructions field, which lets the
	// number be read in the practice language.
	DefaultOpenAIModel = "gpt-4o-mini-tts"

	// OpenAI's pcm format is 24 kHz mono s16le.
	openAISampleRate = 24000
)

// OpenAISynthesizer generates speech with the OpenAI speech endpoint.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
}

// NewOpenAISynthesizer creates a synthesizer on a shared client. A nil
// client makes every call fail with ErrNeedsCredential.
func NewOpenAISynthesizer(client *openai.Client, model string) *OpenAISynthesizer {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAISynthesizer{client: client, model: model}
}

func (o *OpenAISynthesizer) Backend() round.Backend { return round.BackendOpenAI }

func (o *OpenAISynthesizer) Model() string { return o.model }

// Synthesize requests PCM at the requested speed; the clip needs no
// further rate adjustment.
func (o *OpenAISynthesizer) Synthesize(ctx context.Context, req Request) (Output, error) {
	if o.client == nil {
		return Output{}, ErrNeedsCredential
	}

	lang := req.Language.Name
	if lang == "" {
		lang = req.Language.Code
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          req.Text(),
		Voice:          openai.SpeechVoice(remoteVoice(round.BackendOpenAI, req)),
		Instructions:   fmt.Sprintf("Read the number aloud in %s, clearly, as a native speaker would.", lang),
		ResponseFormat: openai.SpeechResponseFormatPcm,
		Speed:          req.Speed,
	})
	if err != nil {
		return Output{}, llm.MapOpenAIError(err)
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		return Output{}, &llm.ErrProviderUnavailable{Err: fmt.Errorf("read speech response: %w", err)}
	}
	if len(pcm) == 0 {
		return Output{}, nil
	}
	out := AudioOutput(pcm, openAISampleRate)
	out.SpeedApplied = true
	return out, nil
}

var _ Synthesizer = (*OpenAISynthesizer)(nil)
