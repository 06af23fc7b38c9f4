package generate

import (
	"context"
	"errors"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// Anthropic drafts sections through the Anthropic Messages API.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

func NewAnthropic(apiKey, baseURL, model string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key missing")
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &Anthropic{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}, nil
}

func (a *Anthropic) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(a.model),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", mapAnthropicError(err)
	}

	text := resp.GetFirstContentText()
	if text == "" {
		return "", &RefusalError{Reason: "empty response"}
	}
	return text, nil
}

func mapAnthropicError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsRateLimitErr() || apiErr.IsOverloadedErr() || apiErr.IsApiErr() {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return &RefusalError{Reason: apiErr.Message}
	}

	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.StatusCode == 408 || reqErr.StatusCode == 429 || reqErr.StatusCode >= 500 {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return &RefusalError{Reason: err.Error()}
	}

	// Transport-level failures are worth a retry.
	return fmt.Errorf("%w: %v", ErrTimeout, err)
}
