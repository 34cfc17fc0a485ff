package paper

import "sort"

// DefaultColumnSplitRatio is the fraction of the page width that divides
// the left column from the right. The 48% bisection is an empirically
// chosen constant; column count is never detected.
const DefaultColumnSplitRatio = 0.48

// OrderColumns arranges a page's classified blocks into reading order for
// one- or two-column layouts. A block belongs to the left column when its
// left edge falls inside the first splitRatio of the page width. Within a
// column, blocks are ordered by top coordinate descending (the coordinate
// origin is the page bottom, so descending means top of page first). The
// left column is read in full before the right column.
//
// Single-column pages degrade gracefully: every block lands in the left
// column and the result is a pure top-to-bottom ordering, so ordering an
// already-ordered single-column page is a no-op.
func OrderColumns(blocks []ClassifiedBlock, pageWidth, splitRatio float64) []ClassifiedBlock {
	if splitRatio <= 0 {
		splitRatio = DefaultColumnSplitRatio
	}

	var left, right []ClassifiedBlock
	for _, b := range blocks {
		if b.Left < splitRatio*pageWidth {
			left = append(left, b)
		} else {
			right = append(right, b)
		}
	}

	byTopDescending := func(column []ClassifiedBlock) {
		sort.SliceStable(column, func(i, j int) bool {
			return column[i].Top > column[j].Top
		})
	}
	byTopDescending(left)
	byTopDescending(right)

	ordered := make([]ClassifiedBlock, 0, len(blocks))
	ordered = append(ordered, left...)
	ordered = append(ordered, right...)
	return ordered
}
