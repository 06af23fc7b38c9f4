package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type scriptedClient struct {
	errs  []error
	calls int
}

func (s *scriptedClient) Generate(_ context.Context, _ string, _ int) (string, error) {
	s.calls++
	if s.calls <= len(s.errs) && s.errs[s.calls-1] != nil {
		return "", s.errs[s.calls-1]
	}
	return "drafted text", nil
}

func TestRetryingRecoversFromTimeouts(t *testing.T) {
	inner := &scriptedClient{errs: []error{
		fmt.Errorf("%w: upstream 429", ErrTimeout),
		fmt.Errorf("%w: upstream 429", ErrTimeout),
	}}
	r := &Retrying{Inner: inner}

	text, err := r.Generate(context.Background(), "p", 100)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "drafted text" {
		t.Fatalf("text = %q", text)
	}
	if inner.calls != 3 {
		t.Fatalf("calls = %d, want 3", inner.calls)
	}
}

func TestRetryingGivesUpAfterTwoRetries(t *testing.T) {
	inner := &scriptedClient{errs: []error{ErrTimeout, ErrTimeout, ErrTimeout, ErrTimeout}}
	r := &Retrying{Inner: inner}

	_, err := r.Generate(context.Background(), "p", 100)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("calls = %d, want 3 (initial attempt plus two retries)", inner.calls)
	}
}

func TestRetryingDoesNotRetryRefusals(t *testing.T) {
	inner := &scriptedClient{errs: []error{&RefusalError{Reason: "content policy"}}}
	r := &Retrying{Inner: inner}

	_, err := r.Generate(context.Background(), "p", 100)
	var refusal *RefusalError
	if !errors.As(err, &refusal) {
		t.Fatalf("expected RefusalError, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("calls = %d, want 1", inner.calls)
	}
}

func TestRetryingHonorsContextDuringPause(t *testing.T) {
	inner := &scriptedClient{errs: []error{ErrTimeout, ErrTimeout, ErrTimeout}}
	r := &Retrying{Inner: inner}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Generate(ctx, "p", 100)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("calls = %d, want 1 (pause aborted by cancelled context)", inner.calls)
	}
}

func TestMockEchoesSourceMaterial(t *testing.T) {
	prompt := strings.Join([]string{
		"Write the section.",
		"",
		"### SOURCE MATERIAL",
		"- Hurricane losses climb (Insurance Journal) Florida carriers brace for claims.",
		"- Rates steady in Q3 (Claims Journal)",
		"",
		"Write ONLY the section text, no explanations.",
	}, "\n")

	text, err := Mock{}.Generate(context.Background(), prompt, 100)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(text, "Insurance Journal") || !strings.Contains(text, "Florida") {
		t.Fatalf("mock draft missing source material:\n%s", text)
	}
	if strings.Contains(text, "Write ONLY") {
		t.Fatalf("mock draft leaked prompt instructions:\n%s", text)
	}
	if !strings.Contains(text, "visit brite.co") {
		t.Fatalf("mock draft missing closing call to action:\n%s", text)
	}
}

func TestMockWithoutSourceMaterial(t *testing.T) {
	text, err := Mock{}.Generate(context.Background(), "Write the subject line.", 100)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(text, "Agents") {
		t.Fatalf("mock draft missing greeting:\n%s", text)
	}
}
