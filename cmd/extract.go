package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"paperchain/internal/chain"
	"paperchain/internal/config"
	"paperchain/internal/llm"
	"paperchain/internal/paper"
)

var (
	extractOut        string
	extractLLMAuthors bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <paper.pdf>",
	Short: "Extract a structured document model from a PDF paper",
	Long: `Extract runs the heuristic document-structure pipeline over a PDF:
positioned text blocks are classified, put into column reading order, and
assembled into a model of title, authors, abstract, and numbered sections.
The model is written as JSON for reuse without re-parsing the PDF.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		pages, err := paper.ExtractPages(args[0])
		if err != nil {
			return err
		}

		var reformat paper.AuthorReformatter
		if extractLLMAuthors {
			if err := cfg.Validate(); err != nil {
				return err
			}
			gen := llm.NewClient(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.HTTPTimeout, cfg.MaxRetries)
			reformat = func(ctx context.Context, raw string) (string, error) {
				return chain.AuthorSplit{}.Call(ctx, gen, raw)
			}
		}

		doc, err := paper.Extract(cmd.Context(), pages, paper.NewClassifier(reformat), paper.Options{
			ColumnSplitRatio: cfg.ColumnSplitRatio,
			GapTolerance:     cfg.SectionGapTolerance,
		})
		if err != nil {
			return fmt.Errorf("extracting %s: %w", args[0], err)
		}

		out := extractOut
		if out == "" {
			out = strings.TrimSuffix(args[0], ".pdf") + ".json"
		}
		if err := doc.Save(out); err != nil {
			return err
		}

		chain.FormatPaperSummary(cmd.OutOrStdout(), doc)
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output path for the document JSON (default: alongside the PDF)")
	extractCmd.Flags().BoolVar(&extractLLMAuthors, "llm-authors", false, "Reformat the raw author block with the generation model")
	rootCmd.AddCommand(extractCmd)
}
