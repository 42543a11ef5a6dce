package speech

import (
	"context"

	"github.com/abhisek/polyglot/internal/llm"
)

// synthesizeWithRetry calls s with backoff while the failure is a rate
// limit or outage. Credential and content errors fail fast.
func synthesizeWithRetry(ctx context.Context, s Synthesizer, req Request, cfg llm.RetryConfig) (Output, error) {
	return llm.Retry(ctx, cfg, llm.Transient, func(ctx context.Context) (Output, error) {
		return s.Synthesize(ctx, req)
	})
}
