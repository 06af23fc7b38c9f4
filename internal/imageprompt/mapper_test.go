package imageprompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/styleguide"
)

func TestEligibleSections(t *testing.T) {
	eligible := map[string]bool{
		styleguide.SectionCuriousClaims:  true,
		styleguide.SectionSpotlight:      true,
		styleguide.SectionAgentAdvantage: true,
	}
	for _, id := range styleguide.CanonicalOrder {
		if Eligible(id) != eligible[id] {
			t.Fatalf("Eligible(%q) = %v, want %v", id, Eligible(id), eligible[id])
		}
	}
}

func TestMapRequestCuriousClaims(t *testing.T) {
	d := assembler.SectionDraft{
		SectionID: styleguide.SectionCuriousClaims,
		Text:      "A diver found a lost engagement ring off the Maine coast. The claim had already paid out. The couple reimbursed the insurer.",
	}

	req, err := MapRequest(styleguide.SectionCuriousClaims, d)
	if err != nil {
		t.Fatalf("MapRequest failed: %v", err)
	}
	if req.Width != 203 || req.Height != 152 {
		t.Fatalf("dimensions = %dx%d, want 203x152", req.Width, req.Height)
	}
	if req.SourceExcerpt != "A diver found a lost engagement ring off the Maine coast. The claim had already paid out." {
		t.Fatalf("excerpt = %q", req.SourceExcerpt)
	}
	for _, want := range []string{"#037E7F", "#FE8916", "No text in the image", req.SourceExcerpt} {
		if !strings.Contains(req.PromptText, want) {
			t.Fatalf("prompt missing %q:\n%s", want, req.PromptText)
		}
	}
}

func TestMapRequestSpotlightDimensions(t *testing.T) {
	req, err := MapRequest(styleguide.SectionSpotlight, assembler.SectionDraft{Text: "Capacity tightened."})
	if err != nil {
		t.Fatalf("MapRequest failed: %v", err)
	}
	if req.Width != 400 || req.Height != 225 {
		t.Fatalf("dimensions = %dx%d, want 400x225", req.Width, req.Height)
	}
}

func TestMapRequestIneligibleSection(t *testing.T) {
	_, err := MapRequest(styleguide.SectionNewsRoundup, assembler.SectionDraft{Text: "News."})
	if !errors.Is(err, ErrUnsupportedSection) {
		t.Fatalf("expected ErrUnsupportedSection, got %v", err)
	}
}

func TestMapRequestUnknownSection(t *testing.T) {
	_, err := MapRequest("breaking_news", assembler.SectionDraft{})
	if !errors.Is(err, styleguide.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestLeadSentencesShortText(t *testing.T) {
	if got := leadSentences("One sentence only", 2); got != "One sentence only" {
		t.Fatalf("got %q", got)
	}
}
