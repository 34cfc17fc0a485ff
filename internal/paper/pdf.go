package paper

import (
	"fmt"
	"sort"

	pdflib "github.com/ledongthuc/pdf"
)

// ExtractPages reads a PDF and returns its pages as positioned text
// blocks. The library yields individual glyph runs with page-bottom
// origin coordinates; runs are grouped into lines by baseline, and lines
// into blocks wherever the vertical gap exceeds normal line spacing.
// This is the external layout-extraction collaborator for the pipeline:
// best effort, never exact.
func ExtractPages(path string) ([]Page, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	pages := make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		texts := p.Content().Text
		blocks := groupBlocks(texts, i)
		pages = append(pages, Page{
			Number: i,
			Width:  pageWidth(p, texts),
			Blocks: blocks,
		})
	}
	return pages, nil
}

// pageWidth reads the MediaBox width, falling back to the rightmost glyph
// edge when the box is missing or malformed.
func pageWidth(p pdflib.Page, texts []pdflib.Text) float64 {
	box := p.V.Key("MediaBox")
	if box.Len() == 4 {
		width := box.Index(2).Float64() - box.Index(0).Float64()
		if width > 0 {
			return width
		}
	}
	var maxRight float64
	for _, t := range texts {
		if r := t.X + t.W; r > maxRight {
			maxRight = r
		}
	}
	return maxRight
}

type textLine struct {
	y        float64
	fontSize float64
	left     float64
	right    float64
	text     string
}

// groupBlocks turns glyph runs into positioned blocks: runs sharing a
// baseline form a line, and consecutive lines form a block until the
// vertical gap between them exceeds ~1.6x the font size.
func groupBlocks(texts []pdflib.Text, pageNum int) []PositionedBlock {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdflib.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	const baselineTolerance = 2.0

	var lines []textLine
	var cur *textLine
	var prevEnd float64
	for _, t := range sorted {
		if t.S == "" {
			continue
		}
		if cur == nil || cur.y-t.Y > baselineTolerance {
			lines = append(lines, textLine{
				y: t.Y, fontSize: t.FontSize, left: t.X, right: t.X + t.W, text: t.S,
			})
			cur = &lines[len(lines)-1]
			prevEnd = t.X + t.W
			continue
		}
		// Same baseline: append, inserting a space across word gaps.
		if t.X-prevEnd > 1.0 {
			cur.text += " "
		}
		cur.text += t.S
		if t.X+t.W > cur.right {
			cur.right = t.X + t.W
		}
		if t.X < cur.left {
			cur.left = t.X
		}
		prevEnd = t.X + t.W
	}

	var blocks []PositionedBlock
	var block *PositionedBlock
	var prevLine *textLine
	for i := range lines {
		line := &lines[i]
		newBlock := block == nil
		if !newBlock {
			gap := prevLine.y - line.y
			spacing := 1.6 * max(line.fontSize, 8)
			if gap > spacing {
				newBlock = true
			}
		}
		if newBlock {
			blocks = append(blocks, PositionedBlock{
				Lines: []string{line.text},
				Left:  line.left,
				Top:   line.y + line.fontSize,
				Right: line.right,
				Page:  pageNum,
			})
			block = &blocks[len(blocks)-1]
		} else {
			block.Lines = append(block.Lines, line.text)
			if line.left < block.Left {
				block.Left = line.left
			}
			if line.right > block.Right {
				block.Right = line.right
			}
		}
		prevLine = line
	}
	return blocks
}
