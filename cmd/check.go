package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/persist"
)

var checkIssueFile string

var checkCmd = &cobra.Command{
	Use:   "check [issue-id]",
	Short: "Brand-check a stored or file-based issue",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkIssueFile, "file", "",
		"Check an issue JSON file instead of a stored issue")
}

func runCheck(cmd *cobra.Command, args []string) error {
	var issue *assembler.IssueDraft

	switch {
	case checkIssueFile != "":
		data, err := os.ReadFile(checkIssueFile)
		if err != nil {
			return fmt.Errorf("read issue file: %w", err)
		}
		issue = &assembler.IssueDraft{}
		if err := json.Unmarshal(data, issue); err != nil {
			return fmt.Errorf("parse issue file: %w", err)
		}
	case len(args) == 1:
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := persist.NewStore(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		issue, err = store.GetIssue(args[0])
		if err != nil {
			return fmt.Errorf("load issue %s: %w", args[0], err)
		}
	default:
		return fmt.Errorf("either an issue id or --file is required")
	}

	printBrandSummary(issue)
	return nil
}
