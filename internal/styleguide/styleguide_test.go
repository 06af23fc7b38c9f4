package styleguide

import (
	"errors"
	"strings"
	"testing"
)

func TestSpecForCanonicalSections(t *testing.T) {
	for _, id := range CanonicalOrder {
		spec, err := SpecFor(id)
		if err != nil {
			t.Fatalf("SpecFor(%q) failed: %v", id, err)
		}
		if spec.ID != id {
			t.Fatalf("SpecFor(%q) returned spec for %q", id, spec.ID)
		}
		if spec.Name == "" {
			t.Fatalf("section %q has no display name", id)
		}
		if spec.MinWords <= 0 || spec.MaxWords < spec.MinWords {
			t.Fatalf("section %q has bad word bounds %d-%d", id, spec.MinWords, spec.MaxWords)
		}
	}
}

func TestSpecForUnknownSection(t *testing.T) {
	_, err := SpecFor("breaking_news")
	if err == nil {
		t.Fatal("expected error for unknown section")
	}
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestCanonicalOrderMatchesSpecs(t *testing.T) {
	if len(CanonicalOrder) != 9 {
		t.Fatalf("expected 9 canonical sections, got %d", len(CanonicalOrder))
	}
	if CanonicalOrder[0] != SectionSubjectLine {
		t.Fatalf("subject line must lead the order, got %q", CanonicalOrder[0])
	}
	if CanonicalOrder[len(CanonicalOrder)-1] != SectionFooterCTA {
		t.Fatalf("footer must close the order, got %q", CanonicalOrder[len(CanonicalOrder)-1])
	}
	for _, id := range CanonicalOrder {
		if !IsCanonical(id) {
			t.Fatalf("canonical id %q not recognized", id)
		}
	}
}

func TestSectionConstraints(t *testing.T) {
	spec, err := SpecFor(SectionCuriousClaims)
	if err != nil {
		t.Fatalf("SpecFor failed: %v", err)
	}
	want := []string{"The Claim", "The Outcome", "Agent Takeaway"}
	if len(spec.RequiredSubsections) != len(want) {
		t.Fatalf("curious_claims subsections = %v, want %v", spec.RequiredSubsections, want)
	}
	for i, sub := range want {
		if spec.RequiredSubsections[i] != sub {
			t.Fatalf("curious_claims subsection %d = %q, want %q", i, spec.RequiredSubsections[i], sub)
		}
	}

	roundup, _ := SpecFor(SectionNewsRoundup)
	if !roundup.RequiresCitation {
		t.Fatal("news_roundup must require citations")
	}
	footer, _ := SpecFor(SectionFooterCTA)
	if !footer.RequiresCTA {
		t.Fatal("footer_cta must require a call to action")
	}
}

func TestStyleGuideForIncludesSectionRequirements(t *testing.T) {
	guide := StyleGuideFor(SectionSpotlight)
	if !strings.Contains(guide, "EDITORIAL STYLE GUIDE") {
		t.Fatal("guide missing header")
	}
	if !strings.Contains(guide, "INSURNEWS SPOTLIGHT SECTION REQUIREMENTS") {
		t.Fatalf("guide missing spotlight requirements:\n%s", guide)
	}
	if !strings.Contains(guide, "Length: 250-450 words") {
		t.Fatal("guide missing spotlight length")
	}
}
