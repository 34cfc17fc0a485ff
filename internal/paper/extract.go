package paper

import (
	"context"
	"errors"
)

// ErrNoUsableBlocks is returned when a document yields no text block that
// could establish a title. It is the only outright extraction failure;
// individually ambiguous blocks are silently skipped instead.
var ErrNoUsableBlocks = errors.New("no usable text blocks in document")

// Options tunes the extraction heuristics. The defaults reproduce the
// empirically chosen constants; there is no derivation behind them.
type Options struct {
	ColumnSplitRatio float64 // fraction of page width dividing the columns
	GapTolerance     int     // max forward jump in section numbers
}

// DefaultOptions returns extraction options with the standard constants.
func DefaultOptions() Options {
	return Options{
		ColumnSplitRatio: DefaultColumnSplitRatio,
		GapTolerance:     DefaultGapTolerance,
	}
}

// Extract runs the full extraction pipeline over pre-extracted pages:
// classification, column ordering, and assembly. Pages are processed in
// order, and within a page the classifier runs before ordering because
// title/author/abstract accumulation depends on encounter order, not
// reading order.
func Extract(ctx context.Context, pages []Page, c *Classifier, opts Options) (*Paper, error) {
	if opts.ColumnSplitRatio <= 0 {
		opts.ColumnSplitRatio = DefaultColumnSplitRatio
	}
	if opts.GapTolerance <= 0 {
		opts.GapTolerance = DefaultGapTolerance
	}
	if c == nil {
		c = NewClassifier(nil)
	}

	var st State
	asm := NewAssembler(opts.GapTolerance)

	for _, page := range pages {
		var structural []ClassifiedBlock
		for _, b := range page.Blocks {
			cb, ok, err := c.Classify(ctx, b, &st)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			// Title, authors, and abstract are already recorded in the
			// state; only headers and body paragraphs need ordering.
			if cb.Kind == KindSectionHeader || cb.Kind == KindBody {
				structural = append(structural, cb)
			}
		}
		asm.AddPage(OrderColumns(structural, page.Width, opts.ColumnSplitRatio))
	}

	if !st.TitleFound {
		return nil, ErrNoUsableBlocks
	}

	return &Paper{
		Title:    st.Title,
		Authors:  st.Authors,
		Abstract: st.Abstract,
		Sections: asm.Finish(),
	}, nil
}
