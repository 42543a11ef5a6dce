package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/abhisek/polyglot/internal/audio"
	"github.com/abhisek/polyglot/internal/round"
)

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  "test-key",
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: server.URL + "/",
		},
	})
	require.NoError(t, err)
	return client
}

func geminiReply(w http.ResponseWriter, parts ...map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"role": "model", "parts": parts},
		}},
	})
}

func TestGeminiSynthesizer_Audio(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0xff, 0x7f}
	var body map[string]any
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash-preview-tts:generateContent")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		geminiReply(w, map[string]any{
			"inlineData": map[string]any{
				"mimeType": "audio/L16;codec=pcm;rate=16000",
				"data":     base64.StdEncoding.EncodeToString(pcm),
			},
		})
	})

	g := NewGeminiSynthesizer(client, "")
	out, err := g.Synthesize(context.Background(), Request{Number: 42, Language: spanish, Voice: "Puck", Speed: 1})
	require.NoError(t, err)

	assert.Equal(t, OutputAudio, out.Kind)
	assert.Equal(t, pcm, out.Audio)
	assert.Equal(t, 16000, out.SampleRate)
	assert.False(t, out.SpeedApplied)

	raw, _ := json.Marshal(body)
	assert.Contains(t, string(raw), "Say the number 42 in Spanish.")
	assert.Contains(t, string(raw), `"voiceName":"Puck"`)
	assert.Contains(t, string(raw), "AUDIO")
}

func TestGeminiSynthesizer_TextOnly(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(w, map[string]any{"text": "cuarenta y dos"})
	})

	out, err := NewGeminiSynthesizer(client, "").Synthesize(context.Background(), Request{Number: 42, Language: spanish})
	require.NoError(t, err)
	assert.Equal(t, OutputText, out.Kind)
	assert.Equal(t, "cuarenta y dos", out.Text)
}

func TestGeminiSynthesizer_Unauthorized(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"},
		})
	})

	a := NewAdapter(Options{
		Synthesizers: []Synthesizer{NewGeminiSynthesizer(client, "")},
		Sink:         audio.NewMemorySink(),
		Retry:        fastRetry(),
	})
	err := a.Play(context.Background(), round.BackendGemini, Request{Number: 1, Language: spanish, Speed: 1})
	assert.ErrorIs(t, err, ErrNeedsCredential)
}

func TestGeminiOutput_Empty(t *testing.T) {
	assert.Equal(t, OutputEmpty, geminiOutput(nil).Kind)
	assert.Equal(t, OutputEmpty, geminiOutput(&genai.GenerateContentResponse{}).Kind)
}

func TestSampleRateFromMIME(t *testing.T) {
	assert.Equal(t, 24000, sampleRateFromMIME("audio/L16;codec=pcm;rate=24000", 1))
	assert.Equal(t, 8000, sampleRateFromMIME("audio/pcm", 8000))
	assert.Equal(t, 8000, sampleRateFromMIME("not a mime;;", 8000))
}

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return openai.NewClientWithConfig(config)
}

func TestOpenAISynthesizer_Audio(t *testing.T) {
	pcm := make([]byte, 480)
	var got openai.CreateSpeechRequest
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "audio/pcm")
		w.Write(pcm)
	})

	o := NewOpenAISynthesizer(client, "")
	out, err := o.Synthesize(context.Background(), Request{Number: 17, Language: spanish, Voice: "nova", Speed: 1.25})
	require.NoError(t, err)

	assert.Equal(t, OutputAudio, out.Kind)
	assert.Len(t, out.Audio, 480)
	assert.Equal(t, 24000, out.SampleRate)
	assert.True(t, out.SpeedApplied)

	assert.Equal(t, openai.SpeechModel("gpt-4o-mini-tts"), got.Model)
	assert.Equal(t, "17", got.Input)
	assert.Equal(t, openai.SpeechVoice("nova"), got.Voice)
	assert.Equal(t, openai.SpeechResponseFormatPcm, got.ResponseFormat)
	assert.InDelta(t, 1.25, got.Speed, 0.001)
	assert.Contains(t, got.Instructions, "Spanish")
}

func TestOpenAISynthesizer_Unauthorized(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "Incorrect API key provided"},
		})
	})

	a := NewAdapter(Options{
		Synthesizers: []Synthesizer{NewOpenAISynthesizer(client, "")},
		Sink:         audio.NewMemorySink(),
		Retry:        fastRetry(),
	})
	err := a.Play(context.Background(), round.BackendOpenAI, Request{Number: 1, Language: spanish, Speed: 1})
	assert.ErrorIs(t, err, ErrNeedsCredential)
}

func TestOpenAISynthesizer_NoClient(t *testing.T) {
	_, err := NewOpenAISynthesizer(nil, "").Synthesize(context.Background(), Request{Number: 1, Language: spanish})
	assert.ErrorIs(t, err, ErrNeedsCredential)
}
