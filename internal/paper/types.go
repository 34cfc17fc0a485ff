// Package paper extracts a hierarchical document model from academic
// papers in PDF form.
//
// Extraction is a best-effort heuristic pipeline: positioned text blocks
// from each page are classified lexically, put into column reading order,
// and assembled into a Paper of sections, subsections, and paragraphs.
// PDFs carry no reliable structural metadata, so the pipeline has
// documented failure modes (missed headers, stray numbers mistaken for
// headers) that the assembler's gap tolerance recovers from.
package paper

import (
	"encoding/json"
	"fmt"
	"os"
)

// PositionedBlock is a run of text extracted from one page region,
// together with its bounding box. Coordinates use the PDF convention:
// the origin is the bottom-left corner of the page, so larger Top values
// are closer to the top of the page.
type PositionedBlock struct {
	Lines []string // raw lines as laid out on the page
	Left  float64  // x coordinate of the block's left edge
	Top   float64  // y coordinate of the block's top edge
	Right float64  // x coordinate of the block's right edge
	Page  int      // 1-based page number
}

// Page holds the positioned blocks of a single PDF page.
type Page struct {
	Number int     // 1-based page number
	Width  float64 // page width in points, used for column splitting
	Blocks []PositionedBlock
}

// BlockKind is the classification assigned to a positioned block.
type BlockKind int

const (
	KindTitle BlockKind = iota
	KindAuthors
	KindAbstract
	KindSectionHeader
	KindFootnote
	KindCaption
	KindBody
)

// String returns a human-readable name for the block kind.
func (k BlockKind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindAuthors:
		return "authors"
	case KindAbstract:
		return "abstract"
	case KindSectionHeader:
		return "section-header"
	case KindFootnote:
		return "footnote"
	case KindCaption:
		return "caption"
	case KindBody:
		return "body"
	default:
		return "unknown"
	}
}

// ClassifiedBlock is a positioned block plus its classification.
// Section headers additionally carry the dotted section number string
// (empty for unnumbered headers such as "Introduction"), the leading
// high-level integer, and the header's display name.
type ClassifiedBlock struct {
	Kind          BlockKind
	Text          string // normalized text
	SectionNumber string // e.g. "1.1.1"; empty for unnumbered headers
	SectionLevel  int    // leading integer of the section number
	Name          string // header display name
	Left          float64
	Top           float64
	Page          int
}

// Paper is the root of the extracted document model. It is built exactly
// once per extraction run and returned by value; callers must not rely on
// mutating it.
type Paper struct {
	Title    string    `json:"title"`
	Authors  string    `json:"authors"`
	Abstract []string  `json:"abstract"`
	Sections []Section `json:"sections"`
}

// Section is a high-level section (leading integer of a dotted section
// number). Subsections are kept in reading order; their keys share the
// section's high-level integer prefix.
type Section struct {
	Number      int          `json:"number"`
	Name        string       `json:"name"`
	Page        int          `json:"page"`
	Subsections []Subsection `json:"subsections"`
}

// Subsection holds the paragraphs of one dotted subsection. Paragraphs
// are non-empty, heuristically sentence-terminated, and in reading order.
type Subsection struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Page       int      `json:"page"`
	Paragraphs []string `json:"paragraphs"`
}

// Save writes the paper model as indented JSON. Sections and subsections
// are serialized as ordered arrays keyed by their number fields, so a
// load after save reproduces identical ordering.
func (p *Paper) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling paper: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing paper: %w", err)
	}
	return nil
}

// Load reads a paper model previously written by Save.
func Load(path string) (*Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading paper: %w", err)
	}
	var p Paper
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing paper: %w", err)
	}
	return &p, nil
}

// String returns a JSON representation of the Paper for debugging.
func (p *Paper) String() string {
	b, _ := json.MarshalIndent(p, "", "  ")
	return string(b)
}
