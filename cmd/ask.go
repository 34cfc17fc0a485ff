package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"paperchain/internal/chain"
	"paperchain/internal/config"
	"paperchain/internal/llm"
	"paperchain/internal/paper"
	"paperchain/internal/tokenizer"
)

var (
	askPaper  string
	askBudget int
)

var askCmd = &cobra.Command{
	Use:   "ask --paper <paper.json> <question>",
	Short: "Answer a question grounded in an extracted paper",
	Long: `Ask ranks the paper's paragraphs by relevance to the question, packs
the most relevant ones into the context token budget, and answers the
question against that context.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if askBudget > 0 {
			cfg.ContextTokenBudget = askBudget
		}

		doc, err := paper.Load(askPaper)
		if err != nil {
			return err
		}

		gen := llm.NewClient(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.HTTPTimeout, cfg.MaxRetries)
		question := args[0]

		ranked, err := chain.RankParagraphs(cmd.Context(), gen, question, doc.Paragraphs())
		if err != nil {
			return err
		}

		// Budget accounting runs locally; the estimator covers setups
		// where the tiktoken BPE files cannot be fetched.
		tokenize := tokenizer.EstimateIDs
		if tok, err := tokenizer.New(cfg.Encoding); err == nil {
			tokenize = tok.Encode
		}

		packed, used, err := chain.Pack(ranked, cfg.ContextTokenBudget,
			func(p chain.RankedParagraph) string { return p.Text + "\n\n" },
			func(s string) ([]int, error) { return tokenize(s), nil },
		)
		if err != nil {
			return err
		}

		recipe := chain.QAVariableContext{UseContext: packed != ""}
		var contexts []string
		if packed != "" {
			contexts = []string{packed}
		}
		_, answers, err := recipe.Call(cmd.Context(), gen, []string{question}, contexts)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "packed %d of %d paragraphs into context\n\n", used, len(ranked))
		chain.FormatRounds(w, question, answers)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askPaper, "paper", "", "Path to the extracted paper JSON")
	askCmd.Flags().IntVar(&askBudget, "budget", 0, "Context token budget (0 = configured default)")
	askCmd.MarkFlagRequired("paper")
	rootCmd.AddCommand(askCmd)
}
