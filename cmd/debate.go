package cmd

import (
	"github.com/spf13/cobra"

	"paperchain/internal/chain"
	"paperchain/internal/config"
	"paperchain/internal/llm"
)

var (
	debateRounds      int
	debateContextFile string
)

var debateCmd = &cobra.Command{
	Use:   "debate <topic> [topic ...]",
	Short: "Run an adversarial debate over each topic",
	Long: `Debate pits a "for" debater against an "against" debater for a fixed
number of rounds. Each side keeps its own transcript and responds to the
opponent's most recent statement; the full transcript is printed per
topic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		var contexts []string
		if debateContextFile != "" {
			lines, err := readLines(debateContextFile)
			if err != nil {
				return err
			}
			contexts = lines
		}

		gen := llm.NewClient(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.HTTPTimeout, cfg.MaxRetries)
		ch, err := chain.NewDebate(gen, contexts != nil, debateRounds)
		if err != nil {
			return err
		}

		prompts, transcript, err := ch.Run(cmd.Context(), args, contexts)
		if err != nil {
			return err
		}

		chain.FormatDebate(cmd.OutOrStdout(), prompts, transcript)
		return nil
	},
}

func init() {
	debateCmd.Flags().IntVarP(&debateRounds, "rounds", "n", 3, "Number of debate rounds")
	debateCmd.Flags().StringVar(&debateContextFile, "context-file", "", "File with one background line per topic")
	rootCmd.AddCommand(debateCmd)
}
