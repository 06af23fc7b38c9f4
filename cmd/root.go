package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/briteco/brief/internal/logger"
)

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "britebrief",
	Short: "Newsletter assembly pipeline for The BriteCo Brief",
	Long: `britebrief drafts, checks, and previews the monthly agent newsletter:

Commands:
  britebrief            Run the operator web server (default)
  britebrief serve      Run the operator web server
  britebrief generate   Assemble a full issue from a research file
  britebrief check      Brand-check a stored issue
  britebrief sections   List the canonical sections and their budgets`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: runServe,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (default .britebrief.yaml next to the binary)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
