package generate

import (
	"context"
	"strings"
)

// Mock is a deterministic stand-in for the generation capability. It
// folds the prompt's source material back into plain prose so drafts
// carry the researched headlines and source names without any network
// call. Used by tests and --mock runs.
type Mock struct{}

func (Mock) Generate(_ context.Context, prompt string, _ int) (string, error) {
	var sb strings.Builder
	sb.WriteString("Agents, here is what our desk pulled together this month. ")
	for _, line := range sourceLines(prompt) {
		sb.WriteString(line)
		if !strings.HasSuffix(line, ".") {
			sb.WriteString(".")
		}
		sb.WriteString(" ")
	}
	sb.WriteString("Partner with BriteCo and visit brite.co to learn more.")
	return sb.String(), nil
}

// sourceLines pulls the rendered research lines out of a built prompt.
func sourceLines(prompt string) []string {
	_, rest, found := strings.Cut(prompt, "### SOURCE MATERIAL")
	if !found {
		return nil
	}
	if idx := strings.Index(rest, "###"); idx >= 0 {
		rest = rest[:idx]
	}

	var lines []string
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		lines = append(lines, strings.TrimPrefix(line, "- "))
	}
	return lines
}
