package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/briteco/brief/internal/imageprompt"
	"github.com/briteco/brief/internal/styleguide"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the canonical sections and their budgets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, spec := range styleguide.Sections() {
			var notes []string
			if spec.RequiresCitation {
				notes = append(notes, "citations")
			}
			if spec.RequiresCTA {
				notes = append(notes, "cta")
			}
			if imageprompt.Eligible(spec.ID) {
				notes = append(notes, "image")
			}
			suffix := ""
			if len(notes) > 0 {
				suffix = " (" + strings.Join(notes, ", ") + ")"
			}
			fmt.Printf("%-16s %-28s %3d-%3d words, %s%s\n",
				spec.ID, spec.Name, spec.MinWords, spec.MaxWords, spec.Format, suffix)
		}
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
