package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/briteco/brief/internal/logger"
)

// ErrTimeout marks a retriable upstream failure: the capability timed
// out, was overloaded, or rate-limited the request.
var ErrTimeout = errors.New("generation timed out")

// RefusalError is terminal for the attempt: the upstream capability
// declined the request. Retrying a refusal rarely helps.
type RefusalError struct {
	Reason string
}

func (e *RefusalError) Error() string {
	return "generation refused: " + e.Reason
}

// Client is the boundary contract to an external text-generation
// capability. Implementations return the drafted text or an error from
// the taxonomy above.
type Client interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

const (
	defaultMaxTokens = 1500
	retryAttempts    = 2
	retryPause       = 2 * time.Second
)

// Retrying wraps a Client with the section drafting retry policy:
// timeouts are retried up to two more times with an unchanged prompt,
// refusals surface immediately.
type Retrying struct {
	Inner Client
}

func (r *Retrying) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= retryAttempts; attempt++ {
		if attempt > 0 {
			logger.Warn("[GENERATE] retrying after timeout (attempt %d/%d)", attempt+1, retryAttempts+1)
			select {
			case <-time.After(retryPause):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
			}
		}

		text, err := r.Inner.Generate(ctx, prompt, maxTokens)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, ErrTimeout) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
