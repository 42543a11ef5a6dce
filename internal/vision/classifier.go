// Package vision classifies whether an image shows teeth or a smile.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/polyglot/internal/llm"
)

// ErrNoResponse is returned when the model answered with nothing usable.
var ErrNoResponse = errors.New("no response from AI model")

const detectionPrompt = "Analyze this image and determine if it contains human teeth, a smile, or anything closely related to dental anatomy. Return the result in JSON format."

// Result is one classified image.
type Result struct {
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	IsTeeth     bool      `json:"is_teeth"`
	Confidence  float64   `json:"confidence_score"`
	Timestamp   time.Time `json:"timestamp"`
}

// ConfidencePercent returns the confidence rounded to a whole percent.
func (r Result) ConfidencePercent() int {
	return int(r.Confidence*100 + 0.5)
}

// Verdict is the one-line answer shown to the user.
func (r Result) Verdict() string {
	if r.IsTeeth {
		return "Teeth detected"
	}
	return "No teeth detected"
}

// ClassifierConfig tunes the model request.
type ClassifierConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultClassifierConfig returns sensible defaults.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MaxTokens:   512,
		Temperature: 0.2,
	}
}

// Classifier fetches an image and asks a vision model about it.
type Classifier struct {
	provider llm.Provider
	fetcher  *Fetcher
	cfg      ClassifierConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewClassifier creates a Classifier. A nil fetcher uses NewFetcher(nil).
func NewClassifier(provider llm.Provider, fetcher *Fetcher, cfg ClassifierConfig, logger *zap.Logger) *Classifier {
	if fetcher == nil {
		fetcher = NewFetcher(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		provider: provider,
		fetcher:  fetcher,
		cfg:      cfg,
		logger:   logger.Named("vision"),
		now:      time.Now,
	}
}

type detectionOutput struct {
	Description     string  `json:"description"`
	IsTeeth         bool    `json:"is_teeth"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// Analyze classifies the image at imageURL.
func (c *Classifier) Analyze(ctx context.Context, imageURL string) (*Result, error) {
	imageURL = strings.TrimSpace(imageURL)
	img, err := c.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		c.logger.Info("image fetch failed", zap.String("url", imageURL), zap.Error(err))
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeImageClassify)
	resp, err := c.provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{llm.UserMessage(detectionPrompt, llm.Image{MIMEType: img.MIMEType, Data: img.Data})},
		Schema:      DetectionSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return nil, ErrNoResponse
		}
		return nil, fmt.Errorf("image classification failed: %w", err)
	}
	var out detectionOutput
	if err := resp.Decode(&out); err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return nil, ErrNoResponse
		}
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	result := &Result{
		ImageURL:    imageURL,
		Description: out.Description,
		IsTeeth:     out.IsTeeth,
		Confidence:  min(max(out.ConfidenceScore, 0), 1),
		Timestamp:   c.now(),
	}
	c.logger.Debug("image classified",
		zap.String("url", imageURL),
		zap.Bool("is_teeth", result.IsTeeth),
		zap.Float64("confidence", result.Confidence),
	)
	return result, nil
}

// Message returns the text shown to the user for a classification error.
func Message(err error) string {
	var auth *llm.ErrAuth
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFetch):
		return "Unable to fetch image. Please ensure the URL is valid and points to an image."
	case errors.Is(err, ErrNoResponse):
		return "No response from AI model."
	case errors.As(err, &auth):
		return "The AI provider rejected the API key. Check your configuration."
	case errors.Is(err, context.Canceled):
		return ""
	default:
		return "An error occurred while analyzing the image."
	}
}
