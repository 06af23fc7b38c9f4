package assembler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/briteco/brief/internal/generate"
	"github.com/briteco/brief/internal/logger"
	"github.com/briteco/brief/internal/prompt"
	"github.com/briteco/brief/internal/research"
	"github.com/briteco/brief/internal/styleguide"
)

// correctionMargin is how far outside the word bounds a draft may land
// before the single self-correction pass is spent on it.
const correctionMargin = 0.20

// Assembler drives prompt building and generation for newsletter
// sections and whole issues.
type Assembler struct {
	gen generate.Client
}

func New(gen generate.Client) *Assembler {
	return &Assembler{gen: &generate.Retrying{Inner: gen}}
}

// AssembleSection drafts one section from its research material.
func (a *Assembler) AssembleSection(ctx context.Context, sectionID string, items []research.Item, hints prompt.Hints) (SectionDraft, error) {
	spec, err := styleguide.SpecFor(sectionID)
	if err != nil {
		return SectionDraft{}, err
	}

	p, err := prompt.Build(sectionID, items, hints)
	if err != nil {
		return SectionDraft{}, err
	}

	maxTokens := spec.MaxWords * 4
	if maxTokens < 300 {
		maxTokens = 300
	}

	text, err := a.gen.Generate(ctx, p, maxTokens)
	if err != nil {
		return SectionDraft{}, err
	}
	text = strings.TrimSpace(text)
	words := countWords(text)

	// One self-correction pass when the draft misses the bounds badly.
	// The second result is accepted regardless; never loop.
	if outOfBounds(words, spec) {
		logger.Debug("[ASSEMBLE] %s draft is %d words (want %d-%d), running correction pass",
			sectionID, words, spec.MinWords, spec.MaxWords)
		corrected, err := a.gen.Generate(ctx, prompt.BuildCorrection(p, spec, words), maxTokens)
		if err == nil {
			text = strings.TrimSpace(corrected)
			words = countWords(text)
		}
	}

	return SectionDraft{
		SectionID:   sectionID,
		Text:        text,
		WordCount:   words,
		Citations:   extractCitations(text, items),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func outOfBounds(words int, spec styleguide.SectionSpec) bool {
	low := float64(spec.MinWords) * (1 - correctionMargin)
	high := float64(spec.MaxWords) * (1 + correctionMargin)
	return float64(words) < low || float64(words) > high
}

// AssembleIssue drafts all nine canonical sections concurrently and
// joins the results. A failed section never aborts the others; its
// reason is recorded in the returned draft's Failures map.
func (a *Assembler) AssembleIssue(ctx context.Context, researchBySection map[string][]research.Item, hints prompt.Hints) (*IssueDraft, error) {
	if err := validateSectionKeys(researchBySection); err != nil {
		return nil, err
	}

	type result struct {
		draft SectionDraft
		err   error
	}

	order := styleguide.CanonicalOrder
	results := make([]result, len(order))

	var wg sync.WaitGroup
	for i, sectionID := range order {
		// Cancelled before start: skip, record the reason.
		if err := ctx.Err(); err != nil {
			results[i] = result{err: err}
			continue
		}

		wg.Add(1)
		go func(i int, sectionID string) {
			defer wg.Done()
			draft, err := a.AssembleSection(ctx, sectionID, researchBySection[sectionID], hints)
			results[i] = result{draft: draft, err: err}
		}(i, sectionID)
	}
	wg.Wait()

	issue := &IssueDraft{
		ID:        uuid.NewString(),
		Sections:  make(map[string]SectionDraft, len(order)),
		Failures:  make(map[string]string),
		CreatedAt: time.Now().UTC(),
	}

	for i, sectionID := range order {
		if results[i].err != nil {
			issue.Failures[sectionID] = results[i].err.Error()
			logger.Warn("[ASSEMBLE] section %s failed: %v", sectionID, results[i].err)
			continue
		}
		issue.Sections[sectionID] = results[i].draft
	}

	if s, ok := issue.Sections[styleguide.SectionSubjectLine]; ok {
		issue.SubjectLine = s.Text
	}
	if s, ok := issue.Sections[styleguide.SectionPreheader]; ok {
		issue.Preheader = s.Text
	}

	logger.Info("[ASSEMBLE] issue %s assembled: %d sections, %d failures",
		issue.ID, len(issue.Sections), len(issue.Failures))
	return issue, nil
}
