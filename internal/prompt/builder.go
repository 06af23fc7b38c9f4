package prompt

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/briteco/brief/internal/research"
	"github.com/briteco/brief/internal/styleguide"
)

// ErrInsufficientSource is returned when a citation-requiring section
// is built without research material.
var ErrInsufficientSource = errors.New("insufficient source material")

// Hints carries operator-entered context that is not researched:
// issue highlights, a special announcement, or a company news topic.
type Hints struct {
	Month        string
	Highlights   []string
	Announcement string
	Topic        string
	Details      string
}

// Build renders the generation instruction for one section. The output
// is deterministic for identical inputs.
func Build(sectionID string, items []research.Item, hints Hints) (string, error) {
	spec, err := styleguide.SpecFor(sectionID)
	if err != nil {
		return "", err
	}
	if spec.RequiresCitation && len(items) == 0 {
		return "", fmt.Errorf("%w: section %q requires researched sources", ErrInsufficientSource, sectionID)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write the %q section for \"The BriteCo Brief\", a monthly newsletter for independent P&C insurance agents.\n\n", spec.Name)

	sb.WriteString(styleguide.StyleGuideFor(sectionID))
	sb.WriteString("\n### FORMAT\n")
	sb.WriteString("- " + formatInstruction(spec) + "\n")
	fmt.Fprintf(&sb, "- Length: between %d and %d words.\n", spec.MinWords, spec.MaxWords)
	for _, sub := range spec.RequiredSubsections {
		fmt.Fprintf(&sb, "- Must include a %q part.\n", sub)
	}
	if spec.RequiresCTA {
		sb.WriteString("- Must end with a clear call to action (for example \"Partner With Us\" or \"Visit brite.co\").\n")
	}
	if spec.RequiresCitation {
		sb.WriteString("- Attribute every story to its source by name, with the link where given.\n")
	}

	sb.WriteString("\n### NEVER USE THESE PHRASES\n")
	sb.WriteString(strings.Join(bannedList(), ", "))
	sb.WriteString("\n")

	writeHints(&sb, hints)

	if len(items) > 0 {
		sb.WriteString("\n### SOURCE MATERIAL\n")
		for _, item := range items {
			sb.WriteString("- " + renderItem(item) + "\n")
		}
	}

	sb.WriteString("\nWrite ONLY the section text, no explanations.\n")
	return sb.String(), nil
}

// BuildCorrection amends a prompt for the single self-correction pass,
// restating the required word range explicitly.
func BuildCorrection(base string, spec styleguide.SectionSpec, gotWords int) string {
	var sb strings.Builder
	sb.WriteString(base)
	fmt.Fprintf(&sb, "\n### CORRECTION\nYour previous draft was %d words. ", gotWords)
	fmt.Fprintf(&sb, "Rewrite it so the total is between %d and %d words. Keep the same stories and sources.\n", spec.MinWords, spec.MaxWords)
	return sb.String()
}

func formatInstruction(spec styleguide.SectionSpec) string {
	switch spec.Format {
	case styleguide.FormatBulleted:
		return "Bulleted list, one story per bullet."
	case styleguide.FormatNumbered:
		return "Numbered list of tips, each a bold short title followed by 1-3 sentences."
	case styleguide.FormatSingleLine:
		return "A single line of plain text."
	default:
		return "Flowing prose paragraphs."
	}
}

func writeHints(sb *strings.Builder, hints Hints) {
	if hints.Month == "" && len(hints.Highlights) == 0 && hints.Announcement == "" && hints.Topic == "" && hints.Details == "" {
		return
	}
	sb.WriteString("\n### THIS ISSUE\n")
	if hints.Month != "" {
		sb.WriteString("- Issue month: " + hints.Month + "\n")
	}
	for _, h := range hints.Highlights {
		sb.WriteString("- Highlight: " + h + "\n")
	}
	if hints.Announcement != "" {
		sb.WriteString("- Announcement: " + hints.Announcement + "\n")
	}
	if hints.Topic != "" {
		sb.WriteString("- Topic: " + hints.Topic + "\n")
	}
	if hints.Details != "" {
		sb.WriteString("- Details: " + hints.Details + "\n")
	}
}

func renderItem(item research.Item) string {
	var parts []string
	if item.Headline != "" {
		parts = append(parts, item.Headline)
	}
	if item.SourceName != "" {
		parts = append(parts, "("+item.SourceName+")")
	}
	if item.Summary != "" && item.Summary != item.Headline {
		parts = append(parts, item.Summary)
	}
	if item.SourceURL != "" {
		parts = append(parts, item.SourceURL)
	}
	return strings.Join(parts, " ")
}

// bannedList returns the banned phrases in stable order so identical
// inputs always produce identical prompts.
func bannedList() []string {
	phrases := make([]string, 0, len(styleguide.BannedPhrases))
	for phrase := range styleguide.BannedPhrases {
		phrases = append(phrases, phrase)
	}
	sort.Strings(phrases)
	return phrases
}
