package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Provider sends one request to a hosted model.
//
// When the request carries a Schema the returned Content is a JSON object
// that has already been validated against it. Without a Schema, Content is
// the model's text encoded as a JSON string.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single model call.
type Request struct {
	System   string
	Messages []Message
	Schema   *Schema

	// MaxTokens caps the response length; 0 uses the provider default.
	MaxTokens int
	// Temperature in [0, 1]. Zero is deterministic.
	Temperature float64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn. Only user turns carry images.
type Message struct {
	Role    Role
	Content string
	Images  []Image
}

// UserMessage builds a user turn with optional image attachments.
func UserMessage(text string, images ...Image) Message {
	return Message{Role: RoleUser, Content: text, Images: images}
}

// Image is an inline attachment.
type Image struct {
	MIMEType string
	Data     []byte
}

func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURI renders the image as "data:<mime>;base64,<payload>".
func (i Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64()
}

// Schema names a JSON Schema document the response must satisfy. Name is
// kebab-case and doubles as the cache key for the compiled schema.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopError     = "error"
)

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Decode unmarshals Content into v. An empty or null body is reported as
// ErrEmptyResponse.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Content) == 0 || string(r.Content) == "null" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(r.Content, v); err != nil {
		return fmt.Errorf("decode %s response: %w", r.Model, err)
	}
	return nil
}

// Usage counts tokens for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
