package paper

import (
	"strconv"
	"strings"
)

// ParagraphRef is one paragraph of a paper together with where it came
// from, for use as a candidate context snippet.
type ParagraphRef struct {
	Section string // subsection display name, or "abstract"
	Key     string // subsection key, e.g. "1.1"
	Index   int    // 1-based paragraph number within the subsection
	Text    string
}

// Paragraphs flattens the paper into a list of candidate context
// snippets: abstract paragraphs first, then every subsection paragraph in
// document order. The references section and everything after it is
// excluded, since bibliography entries make poor grounding context.
func (p *Paper) Paragraphs() []ParagraphRef {
	var refs []ParagraphRef
	for i, text := range p.Abstract {
		refs = append(refs, ParagraphRef{
			Section: "abstract",
			Key:     "1",
			Index:   i + 1,
			Text:    text,
		})
	}
	for _, sec := range p.Sections {
		if strings.ToLower(sec.Name) == "references" {
			break
		}
		for _, sub := range sec.Subsections {
			for i, text := range sub.Paragraphs {
				refs = append(refs, ParagraphRef{
					Section: sub.Name,
					Key:     sub.Key,
					Index:   i + 1,
					Text:    text,
				})
			}
		}
	}
	return refs
}

// Label renders a short provenance tag for the paragraph.
func (r ParagraphRef) Label() string {
	return r.Section + " (" + r.Key + ", paragraph " + strconv.Itoa(r.Index) + ")"
}
