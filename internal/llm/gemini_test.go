package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-3-flash-preview", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-3-pro-preview", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-2.5-flash", geminiModels))
}

func TestGeminiConfig(t *testing.T) {
	schema := verdictSchema()
	cfg := geminiConfig(Request{
		System:      "be brief",
		Schema:      schema,
		MaxTokens:   256,
		Temperature: 0.2,
	})

	assert.Equal(t, int32(256), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 1e-6)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Equal(t, schema.Definition, cfg.ResponseJsonSchema)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be brief", cfg.SystemInstruction.Parts[0].Text)

	plain := geminiConfig(Request{})
	assert.Nil(t, plain.Temperature, "zero temperature leaves the provider default")
	assert.Nil(t, plain.SystemInstruction)
	assert.Empty(t, plain.ResponseMIMEType)
}

func TestGeminiContents_InlineImage(t *testing.T) {
	contents := geminiContents([]Message{
		UserMessage("Is this a smile?", Image{MIMEType: "image/webp", Data: []byte("RIFF")}),
		{Role: RoleAssistant, Content: "yes"},
	})

	require.Len(t, contents, 2)
	assert.Equal(t, "model", contents[1].Role)

	parts := contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "Is this a smile?", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/webp", parts[1].InlineData.MIMEType)
}

func TestGeminiStop(t *testing.T) {
	resp := func(r genai.FinishReason) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: r}}}
	}
	assert.Equal(t, StopEnd, geminiStop(resp(genai.FinishReasonStop)))
	assert.Equal(t, StopMaxTokens, geminiStop(resp(genai.FinishReasonMaxTokens)))
	assert.Equal(t, StopError, geminiStop(resp(genai.FinishReasonSafety)))
	assert.Equal(t, StopEnd, geminiStop(&genai.GenerateContentResponse{}))
}

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		name string
		code int
		want any
	}{
		{"rate limit", http.StatusTooManyRequests, &ErrRateLimit{}},
		{"server error", http.StatusServiceUnavailable, &ErrProviderUnavailable{}},
		{"bad key", http.StatusForbidden, &ErrAuth{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("generate: %w", genai.APIError{Code: tt.code, Message: "boom"})
			assert.IsType(t, tt.want, MapGeminiError(err))
		})
	}

	var u *ErrProviderUnavailable
	assert.True(t, errors.As(MapGeminiError(errors.New("dial tcp: refused")), &u))
}
