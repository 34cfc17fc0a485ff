package chain

import (
	"context"
	"fmt"
	"sort"

	"paperchain/internal/llm"
	"paperchain/internal/paper"
)

// RankedParagraph is a candidate context paragraph with its relevance
// probability. Prob is InvalidProbability when the classifier's output
// was malformed for this paragraph.
type RankedParagraph struct {
	paper.ParagraphRef
	Prob float64
}

// RankParagraphs scores every paragraph's relevance to the question with
// the Classification recipe and returns them most-relevant first.
// Sentinel-probability entries sort last; document order breaks ties.
func RankParagraphs(ctx context.Context, gen llm.Generator, question string, paras []paper.ParagraphRef) ([]RankedParagraph, error) {
	if len(paras) == 0 {
		return nil, nil
	}

	prompts := make([]string, len(paras))
	for i, p := range paras {
		prompts[i] = fmt.Sprintf("Is the following passage relevant to answering "+
			"the question %q?\n\nPassage: %s", question, p.Text)
	}

	probs, err := Classification{}.Call(ctx, gen, prompts)
	if err != nil {
		return nil, fmt.Errorf("ranking paragraphs: %w", err)
	}

	ranked := make([]RankedParagraph, len(paras))
	for i, p := range paras {
		ranked[i] = RankedParagraph{ParagraphRef: p, Prob: probs[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Prob > ranked[j].Prob
	})
	return ranked, nil
}
