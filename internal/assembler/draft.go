package assembler

import (
	"fmt"
	"strings"
	"time"

	"github.com/briteco/brief/internal/research"
	"github.com/briteco/brief/internal/styleguide"
)

// Citation attributes part of a drafted section to a researched source.
type Citation struct {
	SourceName string `json:"source_name"`
	URL        string `json:"url,omitempty"`
}

// SectionDraft is one generated newsletter section. Drafts are
// immutable once created; regeneration supersedes rather than mutates.
type SectionDraft struct {
	SectionID   string     `json:"section_id"`
	Text        string     `json:"text"`
	WordCount   int        `json:"word_count"`
	Citations   []Citation `json:"citations,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// IssueDraft collects the drafts for one monthly issue. Sections keys
// are always a subset of the nine canonical identifiers; a section that
// failed to generate appears in Failures with its reason instead.
type IssueDraft struct {
	ID          string                  `json:"id"`
	SubjectLine string                  `json:"subject_line,omitempty"`
	Preheader   string                  `json:"preheader,omitempty"`
	Sections    map[string]SectionDraft `json:"sections"`
	Failures    map[string]string       `json:"failures,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// Complete reports whether every canonical section generated.
func (d *IssueDraft) Complete() bool {
	return len(d.Failures) == 0 && len(d.Sections) == len(styleguide.CanonicalOrder)
}

// Section returns the draft for a canonical section id, if present.
func (d *IssueDraft) Section(id string) (SectionDraft, bool) {
	s, ok := d.Sections[id]
	return s, ok
}

// validateSectionKeys rejects any key outside the canonical nine.
func validateSectionKeys(researchBySection map[string][]research.Item) error {
	for key := range researchBySection {
		if !styleguide.IsCanonical(key) {
			return fmt.Errorf("%w: %q", styleguide.ErrUnknownSection, key)
		}
	}
	return nil
}

// countWords counts whitespace-separated words in drafted text.
func countWords(text string) int {
	return len(strings.Fields(text))
}

// extractCitations matches research source names and URLs against the
// drafted text, preserving research order and deduplicating by source.
func extractCitations(text string, items []research.Item) []Citation {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{}, len(items))

	var citations []Citation
	for _, item := range items {
		name := strings.TrimSpace(item.SourceName)
		if name == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(name)]; dup {
			continue
		}
		matched := strings.Contains(lower, strings.ToLower(name))
		if !matched && item.SourceURL != "" {
			matched = strings.Contains(lower, strings.ToLower(item.SourceURL))
		}
		if !matched {
			continue
		}
		seen[strings.ToLower(name)] = struct{}{}
		citations = append(citations, Citation{SourceName: name, URL: item.SourceURL})
	}
	return citations
}
