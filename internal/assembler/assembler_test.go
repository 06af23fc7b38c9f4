package assembler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/briteco/brief/internal/generate"
	"github.com/briteco/brief/internal/prompt"
	"github.com/briteco/brief/internal/research"
	"github.com/briteco/brief/internal/styleguide"
)

func fullResearch() map[string][]research.Item {
	florida := []research.Item{
		{Headline: "Hurricane losses climb", SourceName: "Insurance Journal", Summary: "Florida carriers brace for a wave of claims.", SourceURL: "https://example.com/florida"},
		{Headline: "Rates steady in Q3", SourceName: "Claims Journal", SourceURL: "https://example.com/rates"},
	}
	return map[string][]research.Item{
		styleguide.SectionNewsRoundup:    florida,
		styleguide.SectionCuriousClaims:  {{Headline: "Ring lost at sea, found by diver", SourceName: "Claims Journal", SourceURL: "https://example.com/ring"}},
		styleguide.SectionSpotlight:      {{Headline: "Reinsurance capacity tightens", SourceName: "Carrier Management", SourceURL: "https://example.com/reins"}},
		styleguide.SectionAgentAdvantage: {{Headline: "Retention tactics that work", SourceName: "PropertyCasualty360", SourceURL: "https://example.com/retain"}},
	}
}

func TestAssembleSectionCarriesSourcesIntoDraft(t *testing.T) {
	asm := New(generate.Mock{})
	items := fullResearch()[styleguide.SectionNewsRoundup]

	draft, err := asm.AssembleSection(context.Background(), styleguide.SectionNewsRoundup, items, prompt.Hints{})
	if err != nil {
		t.Fatalf("AssembleSection failed: %v", err)
	}
	if !strings.Contains(draft.Text, "Florida") {
		t.Fatalf("draft missing researched content:\n%s", draft.Text)
	}
	if len(draft.Citations) == 0 {
		t.Fatal("draft has no citations")
	}
	if draft.Citations[0].SourceName != "Insurance Journal" {
		t.Fatalf("first citation = %q, want Insurance Journal", draft.Citations[0].SourceName)
	}
	if draft.WordCount != len(strings.Fields(draft.Text)) {
		t.Fatalf("word count %d does not match text", draft.WordCount)
	}
}

func TestAssembleSectionUnknownID(t *testing.T) {
	asm := New(generate.Mock{})
	_, err := asm.AssembleSection(context.Background(), "breaking_news", nil, prompt.Hints{})
	if !errors.Is(err, styleguide.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestAssembleSectionInsufficientSource(t *testing.T) {
	asm := New(generate.Mock{})
	_, err := asm.AssembleSection(context.Background(), styleguide.SectionSpotlight, nil, prompt.Hints{})
	if !errors.Is(err, prompt.ErrInsufficientSource) {
		t.Fatalf("expected ErrInsufficientSource, got %v", err)
	}
}

// correctionClient returns a tiny draft first, then a longer one, and
// records the prompts it saw.
type correctionClient struct {
	prompts []string
}

func (c *correctionClient) Generate(_ context.Context, p string, _ int) (string, error) {
	c.prompts = append(c.prompts, p)
	if len(c.prompts) == 1 {
		return "Too short.", nil
	}
	return strings.Repeat("word ", 40), nil
}

func TestAssembleSectionRunsOneCorrectionPass(t *testing.T) {
	inner := &correctionClient{}
	asm := New(inner)

	draft, err := asm.AssembleSection(context.Background(), styleguide.SectionIntro, nil, prompt.Hints{})
	if err != nil {
		t.Fatalf("AssembleSection failed: %v", err)
	}
	if len(inner.prompts) != 2 {
		t.Fatalf("generator called %d times, want 2 (draft plus correction)", len(inner.prompts))
	}
	if !strings.Contains(inner.prompts[1], "### CORRECTION") {
		t.Fatal("second prompt is not a correction prompt")
	}
	if draft.WordCount != 40 {
		t.Fatalf("corrected draft has %d words, want 40", draft.WordCount)
	}
}

// stubbornClient always returns the same undersized draft. The
// correction result must be accepted without a second rewrite.
type stubbornClient struct {
	calls int
}

func (c *stubbornClient) Generate(_ context.Context, _ string, _ int) (string, error) {
	c.calls++
	return "Still too short.", nil
}

func TestAssembleSectionNeverLoopsOnCorrection(t *testing.T) {
	inner := &stubbornClient{}
	asm := New(inner)

	draft, err := asm.AssembleSection(context.Background(), styleguide.SectionIntro, nil, prompt.Hints{})
	if err != nil {
		t.Fatalf("AssembleSection failed: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("generator called %d times, want exactly 2", inner.calls)
	}
	if draft.WordCount != 3 {
		t.Fatalf("draft word count = %d", draft.WordCount)
	}
}

func TestAssembleIssueAllSections(t *testing.T) {
	asm := New(generate.Mock{})

	issue, err := asm.AssembleIssue(context.Background(), fullResearch(), prompt.Hints{Month: "September 2026"})
	if err != nil {
		t.Fatalf("AssembleIssue failed: %v", err)
	}
	if !issue.Complete() {
		t.Fatalf("issue incomplete, failures: %v", issue.Failures)
	}
	if issue.ID == "" {
		t.Fatal("issue has no id")
	}
	if issue.SubjectLine == "" || issue.Preheader == "" {
		t.Fatal("subject line and preheader must lift into the issue header")
	}

	roundup, ok := issue.Section(styleguide.SectionNewsRoundup)
	if !ok {
		t.Fatal("news_roundup draft missing")
	}
	if !strings.Contains(roundup.Text, "Florida") {
		t.Fatalf("roundup missing researched content:\n%s", roundup.Text)
	}
	found := false
	for _, c := range roundup.Citations {
		if c.SourceName == "Insurance Journal" {
			found = true
		}
	}
	if !found {
		t.Fatalf("roundup citations missing Insurance Journal: %v", roundup.Citations)
	}
}

func TestAssembleIssuePartialFailure(t *testing.T) {
	asm := New(generate.Mock{})

	// No research at all: the four citation-requiring sections fail,
	// the other five still draft.
	issue, err := asm.AssembleIssue(context.Background(), nil, prompt.Hints{})
	if err != nil {
		t.Fatalf("AssembleIssue failed: %v", err)
	}
	if issue.Complete() {
		t.Fatal("issue should be incomplete without research")
	}
	if len(issue.Sections) != 5 {
		t.Fatalf("drafted %d sections, want 5", len(issue.Sections))
	}
	for _, id := range []string{
		styleguide.SectionNewsRoundup,
		styleguide.SectionCuriousClaims,
		styleguide.SectionSpotlight,
		styleguide.SectionAgentAdvantage,
	} {
		if _, failed := issue.Failures[id]; !failed {
			t.Fatalf("section %q should have failed without research", id)
		}
	}
	if _, ok := issue.Section(styleguide.SectionIntro); !ok {
		t.Fatal("intro should still draft without research")
	}
}

func TestAssembleIssueCancelledBeforeStart(t *testing.T) {
	asm := New(generate.Mock{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	issue, err := asm.AssembleIssue(ctx, fullResearch(), prompt.Hints{})
	if err != nil {
		t.Fatalf("AssembleIssue failed: %v", err)
	}
	if len(issue.Sections) != 0 {
		t.Fatalf("cancelled context still drafted %d sections", len(issue.Sections))
	}
	if len(issue.Failures) != len(styleguide.CanonicalOrder) {
		t.Fatalf("got %d failures, want all %d sections skipped: %v",
			len(issue.Failures), len(styleguide.CanonicalOrder), issue.Failures)
	}
	for _, id := range styleguide.CanonicalOrder {
		reason, ok := issue.Failures[id]
		if !ok || reason == "" {
			t.Fatalf("section %q missing a skip reason", id)
		}
	}
}

func TestAssembleIssueRejectsUnknownKeys(t *testing.T) {
	asm := New(generate.Mock{})
	_, err := asm.AssembleIssue(context.Background(), map[string][]research.Item{
		"breaking_news": {{Headline: "x"}},
	}, prompt.Hints{})
	if !errors.Is(err, styleguide.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestExtractCitationsDedupesAndPreservesOrder(t *testing.T) {
	items := []research.Item{
		{SourceName: "Claims Journal", SourceURL: "https://example.com/a"},
		{SourceName: "Insurance Journal", SourceURL: "https://example.com/b"},
		{SourceName: "Claims Journal", SourceURL: "https://example.com/c"},
		{SourceName: "Unmentioned Weekly"},
	}
	text := "Per Insurance Journal, losses rose. Claims Journal reported the same."

	citations := extractCitations(text, items)
	if len(citations) != 2 {
		t.Fatalf("got %d citations, want 2: %v", len(citations), citations)
	}
	if citations[0].SourceName != "Claims Journal" || citations[1].SourceName != "Insurance Journal" {
		t.Fatalf("citation order = %v", citations)
	}
}
