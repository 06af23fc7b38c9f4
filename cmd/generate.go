package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/brandcheck"
	"github.com/briteco/brief/internal/persist"
	"github.com/briteco/brief/internal/prompt"
	"github.com/briteco/brief/internal/research"
	"github.com/briteco/brief/internal/styleguide"
)

var (
	genResearchFile string
	genOutFile      string
	genMock         bool
	genMonth        string
	genTimeout      time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Assemble a full issue from a research file",
	Long: `Assemble all nine sections of an issue in one shot.

The research file is a JSON object keyed by canonical section id, each
value an array of research items:

  {"news_roundup": [{"headline": "...", "source_name": "...", ...}], ...}

Sections without research still run; sections that require citations
are reported as failures when their research is missing.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&genResearchFile, "research", "",
		"Path to a JSON research file keyed by section id")
	generateCmd.Flags().StringVar(&genOutFile, "out", "",
		"Write the assembled issue JSON to this file (default stdout)")
	generateCmd.Flags().BoolVar(&genMock, "mock", false,
		"Use the deterministic mock generator instead of a live provider")
	generateCmd.Flags().StringVar(&genMonth, "month", "",
		"Issue month shown to the drafting model, e.g. \"September 2026\"")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 5*time.Minute,
		"Overall assembly deadline")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	researchBySection := map[string][]research.Item{}
	if genResearchFile != "" {
		data, err := os.ReadFile(genResearchFile)
		if err != nil {
			return fmt.Errorf("read research file: %w", err)
		}
		if err := json.Unmarshal(data, &researchBySection); err != nil {
			return fmt.Errorf("parse research file: %w", err)
		}
	}

	gen, err := buildGenerator(cfg, genMock)
	if err != nil {
		return err
	}
	asm := assembler.New(gen)

	ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
	defer cancel()

	issue, err := asm.AssembleIssue(ctx, researchBySection, prompt.Hints{Month: genMonth})
	if err != nil {
		return err
	}

	if store, err := persist.NewStore(cfg.Storage.Path); err == nil {
		if err := store.SaveIssue(issue); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not persist issue: %v\n", err)
		}
		_ = store.Close()
	}

	out, err := json.MarshalIndent(issue, "", "  ")
	if err != nil {
		return err
	}
	if genOutFile != "" {
		if err := os.WriteFile(genOutFile, out, 0644); err != nil {
			return err
		}
	} else {
		fmt.Println(string(out))
	}

	fmt.Fprintf(os.Stderr, "Issue %s: %d/%d sections drafted\n",
		issue.ID, len(issue.Sections), len(styleguide.CanonicalOrder))
	for id, msg := range issue.Failures {
		fmt.Fprintf(os.Stderr, "  failed %s: %s\n", id, msg)
	}

	printBrandSummary(issue)
	return nil
}

func printBrandSummary(issue *assembler.IssueDraft) {
	issues := brandcheck.Check(issue)
	if len(issues) == 0 {
		fmt.Fprintln(os.Stderr, "Brand check: clean")
		return
	}
	fmt.Fprintf(os.Stderr, "Brand check: %d advisory issue(s)\n", len(issues))
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "  [%s] %s: %s\n", iss.Kind, iss.SectionID, iss.Suggestion)
	}
}
