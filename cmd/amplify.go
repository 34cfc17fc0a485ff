package cmd

import (
	"github.com/spf13/cobra"

	"paperchain/internal/chain"
	"paperchain/internal/config"
	"paperchain/internal/llm"
)

var amplifyMaxDepth int

var amplifyCmd = &cobra.Command{
	Use:   "amplify <question>",
	Short: "Answer a question by recursive decomposition",
	Long: `Amplify builds a tree of sub-questions (the model proposes 2-4 simpler
sub-questions per node, down to the depth limit), answers the leaves
directly, and aggregates each node's children's answers into its own
context, bottom-up. The answered tree is printed with indentation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		gen := llm.NewClient(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.HTTPTimeout, cfg.MaxRetries)
		ch, err := chain.NewAmplify(gen, amplifyMaxDepth)
		if err != nil {
			return err
		}

		tree, err := ch.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		chain.FormatQuestionTree(cmd.OutOrStdout(), tree, 0)
		return nil
	},
}

func init() {
	amplifyCmd.Flags().IntVar(&amplifyMaxDepth, "max-depth", 2, "Maximum decomposition depth (0 = answer directly)")
	rootCmd.AddCommand(amplifyCmd)
}
