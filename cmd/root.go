package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"paperchain/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "paperchain",
	Short: "Structured reasoning chains over papers and prompts",
	Long: `paperchain runs multi-round reasoning strategies against a text
generation server (iterative self-correction, adversarial debate,
recursive question decomposition) and extracts structured text from PDF
papers to use as grounding context.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("paperchain %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
