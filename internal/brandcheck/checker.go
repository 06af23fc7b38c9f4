package brandcheck

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/styleguide"
)

// Kind classifies a flagged brand issue.
type Kind string

const (
	KindLength          Kind = "length"
	KindBannedPhrase    Kind = "banned_phrase"
	KindMissingCitation Kind = "missing_citation"
	KindMissingCTA      Kind = "missing_cta"
	KindTone            Kind = "tone"
)

// Issue is one advisory finding. The checker never modifies a draft;
// it only reports.
type Issue struct {
	SectionID  string `json:"section_id"`
	Kind       Kind   `json:"kind"`
	Excerpt    string `json:"excerpt,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Rationale  string `json:"rationale"`
}

// Check scans an assembled issue against the style rules. Findings are
// grouped by canonical section order and, within a section, by rule
// evaluation order: length, banned phrase, missing citation, missing
// CTA, tone. All rules run; nothing short-circuits.
func Check(issue *assembler.IssueDraft) []Issue {
	var out []Issue
	for _, sectionID := range styleguide.CanonicalOrder {
		draft, ok := issue.Sections[sectionID]
		if !ok {
			continue
		}
		out = append(out, checkSection(draft)...)
	}
	return out
}

// CheckSection runs all rules against a single draft.
func CheckSection(draft assembler.SectionDraft) []Issue {
	return checkSection(draft)
}

func checkSection(draft assembler.SectionDraft) []Issue {
	spec, err := styleguide.SpecFor(draft.SectionID)
	if err != nil {
		return nil
	}

	var issues []Issue
	issues = append(issues, checkLength(draft, spec)...)
	issues = append(issues, checkBannedPhrases(draft)...)
	issues = append(issues, checkCitations(draft, spec)...)
	issues = append(issues, checkCTA(draft, spec)...)
	issues = append(issues, checkTone(draft, spec)...)
	return issues
}

func checkLength(draft assembler.SectionDraft, spec styleguide.SectionSpec) []Issue {
	if draft.WordCount >= spec.MinWords && draft.WordCount <= spec.MaxWords {
		return nil
	}
	return []Issue{{
		SectionID: draft.SectionID,
		Kind:      KindLength,
		Excerpt:   snippet(draft.Text),
		Suggestion: fmt.Sprintf("Rewrite to land between %d and %d words.",
			spec.MinWords, spec.MaxWords),
		Rationale: fmt.Sprintf("Section is %d words; the guide allows %d-%d.",
			draft.WordCount, spec.MinWords, spec.MaxWords),
	}}
}

func checkBannedPhrases(draft assembler.SectionDraft) []Issue {
	type hit struct {
		pos         int
		excerpt     string
		phrase      string
		replacement string
	}
	var hits []hit
	for phrase, replacement := range styleguide.BannedPhrases {
		// Match case-insensitively on the original text so the excerpt
		// keeps the draft's own casing and byte offsets stay exact.
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
		loc := re.FindStringIndex(draft.Text)
		if loc == nil {
			continue
		}
		hits = append(hits, hit{
			pos:         loc[0],
			excerpt:     draft.Text[loc[0]:loc[1]],
			phrase:      phrase,
			replacement: replacement,
		})
	}
	// Report in order of appearance so output is stable.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].phrase < hits[j].phrase
	})

	issues := make([]Issue, 0, len(hits))
	for _, h := range hits {
		issues = append(issues, Issue{
			SectionID:  draft.SectionID,
			Kind:       KindBannedPhrase,
			Excerpt:    h.excerpt,
			Suggestion: h.replacement,
			Rationale:  fmt.Sprintf("%q reads like generic AI or corporate copy; prefer %q.", h.phrase, h.replacement),
		})
	}
	return issues
}

func checkCitations(draft assembler.SectionDraft, spec styleguide.SectionSpec) []Issue {
	if !spec.RequiresCitation || len(draft.Citations) > 0 {
		return nil
	}
	return []Issue{{
		SectionID:  draft.SectionID,
		Kind:       KindMissingCitation,
		Suggestion: "Name the publication for each story and link the original article.",
		Rationale:  spec.Name + " must attribute its stories to sources.",
	}}
}

var linkMarker = regexp.MustCompile(`\]\(|https?://`)

func checkCTA(draft assembler.SectionDraft, spec styleguide.SectionSpec) []Issue {
	if !spec.RequiresCTA {
		return nil
	}
	if linkMarker.MatchString(draft.Text) || containsCTAVerb(draft.Text) {
		return nil
	}
	return []Issue{{
		SectionID:  draft.SectionID,
		Kind:       KindMissingCTA,
		Excerpt:    snippet(draft.Text),
		Suggestion: "Close with an imperative like \"Partner With Us\" or a link to brite.co.",
		Rationale:  spec.Name + " must give agents a clear next step.",
	}}
}

func containsCTAVerb(text string) bool {
	lower := strings.ToLower(text)
	for _, verb := range styleguide.CTAVerbs {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(verb) + `\b`)
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func checkTone(draft assembler.SectionDraft, spec styleguide.SectionSpec) []Issue {
	lower := strings.ToLower(draft.Text)

	count := 0
	first := ""
	firstPos := -1
	for _, qualifier := range styleguide.HedgingQualifiers {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(qualifier) + `\b`)
		matches := re.FindAllStringIndex(lower, -1)
		// The excerpt is the qualifier appearing earliest in the text.
		if len(matches) > 0 && (firstPos < 0 || matches[0][0] < firstPos) {
			first = qualifier
			firstPos = matches[0][0]
		}
		count += len(matches)
	}
	if count <= spec.HedgeLimit {
		return nil
	}
	return []Issue{{
		SectionID:  draft.SectionID,
		Kind:       KindTone,
		Excerpt:    first,
		Suggestion: "State the point directly; cut hedging qualifiers.",
		Rationale: fmt.Sprintf("%d hedging qualifiers found; the guide tolerates %d for this section.",
			count, spec.HedgeLimit),
	}}
}

func snippet(text string) string {
	const max = 80
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
