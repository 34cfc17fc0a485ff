package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"paperchain/internal/chain"
	"paperchain/internal/config"
	"paperchain/internal/llm"
)

var (
	improveRounds      int
	improveContextFile string
	improveCoT         bool
)

var improveCmd = &cobra.Command{
	Use:   "improve <question> [question ...]",
	Short: "Answer questions with iterative self-correction",
	Long: `Improve answers each question, then for every subsequent round feeds
the previous answer back under a critique-or-confirm instruction. All
rounds' answers are printed per question.

With --context-file, each line of the file provides the grounding context
for the question at the same position.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		var contexts []string
		if improveContextFile != "" {
			lines, err := readLines(improveContextFile)
			if err != nil {
				return err
			}
			contexts = lines
		}

		gen := llm.NewClient(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.HTTPTimeout, cfg.MaxRetries)
		ch, err := chain.NewIterativeImprovement(gen, contexts != nil, improveRounds, improveCoT)
		if err != nil {
			return err
		}

		results, err := ch.Run(cmd.Context(), args, contexts)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, formatted := range ch.FormatPrompts(args, contexts) {
			chain.FormatRounds(w, formatted, results[formatted])
		}
		return nil
	},
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context file: %w", err)
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		lines = append(lines, line)
	}
	return lines, nil
}

func init() {
	improveCmd.Flags().IntVarP(&improveRounds, "rounds", "n", 3, "Number of improvement rounds")
	improveCmd.Flags().StringVar(&improveContextFile, "context-file", "", "File with one context line per question")
	improveCmd.Flags().BoolVar(&improveCoT, "cot", false, "Use chain-of-thought prompting")
	rootCmd.AddCommand(improveCmd)
}
