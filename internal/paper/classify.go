package paper

import (
	"context"
	"strconv"
	"strings"
	"unicode"
)

// commonSectionNames are unnumbered section headers that papers reliably
// carry. Matching is case-insensitive on the whole block text.
var commonSectionNames = map[string]bool{
	"introduction": true,
	"references":   true,
}

// objectNames identify caption blocks ("Figure 3: ...", "Table 1. ...").
var objectNames = map[string]bool{
	"figure":    true,
	"table":     true,
	"equation":  true,
	"algorithm": true,
}

// AuthorReformatter rewrites a raw author blob (as laid out in the PDF)
// into a comma-separated list of full names. It is optional and typically
// LLM-backed.
type AuthorReformatter func(ctx context.Context, raw string) (string, error)

// State is the run-scoped accumulator threaded through classification.
// It carries the pre-section content (title, authors, abstract) and the
// monotonic high-level section counter that distinguishes abstract text
// from body text.
type State struct {
	TitleFound     bool
	AuthorsFound   bool
	Title          string
	Authors        string
	Abstract       []string
	CurrentSection int
}

// Classifier assigns a BlockKind to positioned blocks using lexical
// heuristics. Rules are applied in order, first match wins; blocks that
// carry no document content (dividers, footnotes, captions) are skipped.
type Classifier struct {
	reformatAuthors AuthorReformatter
}

// NewClassifier returns a classifier. reformat may be nil, in which case
// the raw author blob is kept as extracted.
func NewClassifier(reformat AuthorReformatter) *Classifier {
	return &Classifier{reformatAuthors: reformat}
}

// Normalize joins a block's lines into a single run of text. A line
// ending with a hyphen continues a word across the line break, so the
// hyphen is stripped and no space inserted; otherwise lines are joined
// with a single space.
func Normalize(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		if strings.HasSuffix(line, "-") {
			b.WriteString(strings.TrimRight(line, "-"))
		} else {
			b.WriteString(strings.TrimSpace(line))
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// Classify classifies one block, updating the run state. The returned
// bool is false when the block is skipped. Title, authors, and abstract
// paragraphs are recorded directly into the state; only section headers
// and body paragraphs need downstream ordering and assembly.
func (c *Classifier) Classify(ctx context.Context, b PositionedBlock, st *State) (ClassifiedBlock, bool, error) {
	skip := ClassifiedBlock{}

	if len(b.Lines) == 0 || averageLineLength(b.Lines) < 3 {
		return skip, false, nil
	}

	text := Normalize(b.Lines)
	if text == "" {
		return skip, false, nil
	}
	first := []rune(text)[0]
	if !unicode.IsLetter(first) && !unicode.IsDigit(first) {
		return skip, false, nil
	}

	out := ClassifiedBlock{Text: text, Left: b.Left, Top: b.Top, Page: b.Page}

	// The first usable block on the first pages is the title, the second
	// the author list. Everything before the first section header is
	// abstract content.
	if !st.TitleFound {
		st.Title = text
		st.TitleFound = true
		out.Kind = KindTitle
		return out, true, nil
	}
	if !st.AuthorsFound {
		authors := text
		if c.reformatAuthors != nil {
			raw := strings.Join(b.Lines, "\n")
			reformatted, err := c.reformatAuthors(ctx, raw)
			if err != nil {
				return skip, false, err
			}
			authors = reformatted
		}
		st.Authors = strings.TrimSpace(strings.TrimPrefix(authors, "Answer:"))
		st.AuthorsFound = true
		out.Kind = KindAuthors
		return out, true, nil
	}

	lower := strings.ToLower(text)
	if lower == "abstract" {
		// Pure divider, carries no content of its own.
		return skip, false, nil
	}
	if commonSectionNames[lower] {
		st.CurrentSection++
		out.Kind = KindSectionHeader
		out.SectionLevel = st.CurrentSection
		out.Name = text
		return out, true, nil
	}

	words := strings.Fields(text)
	firstWord := words[0]

	if unicode.IsDigit(first) {
		head := strings.SplitN(firstWord, ".", 2)[0]
		if n, err := strconv.Atoi(head); err == nil {
			// Dotted section number ("1.1.1 Title"). Section names are
			// assumed shorter than 10 words; anything longer falls
			// through as ordinary text. A bare integer starting a
			// paragraph also lands here and produces a bogus header,
			// which the assembler's gap tolerance later discards.
			rest := words[1:]
			if len(rest) < 10 {
				st.CurrentSection = n
				out.Kind = KindSectionHeader
				out.SectionNumber = firstWord
				out.SectionLevel = n
				out.Name = strings.Join(rest, " ")
				return out, true, nil
			}
		} else {
			// Digit glued to a word ("1Word") is a footnote marker.
			return skip, false, nil
		}
	}

	if objectNames[strings.ToLower(firstWord)] && len(words) > 1 {
		numberMaybe := strings.TrimRight(words[1], ":.")
		if _, err := strconv.Atoi(numberMaybe); err == nil {
			// Caption.
			return skip, false, nil
		}
	}

	if len(words) < 3 {
		return skip, false, nil
	}

	text = stripTrailingFootnote(text)
	out.Text = text

	if st.CurrentSection == 0 {
		st.Abstract = append(st.Abstract, text)
		out.Kind = KindAbstract
		return out, true, nil
	}
	out.Kind = KindBody
	return out, true, nil
}

// stripTrailingFootnote removes a bare-digit footnote marker glued to the
// end of a paragraph ("...as shown.1" becomes "...as shown."). The marker
// is the last "."-delimited token when it parses as an integer.
func stripTrailingFootnote(text string) string {
	parts := strings.Split(text, ".")
	last := parts[len(parts)-1]
	if _, err := strconv.Atoi(last); err == nil {
		return strings.TrimRight(text, "0123456789")
	}
	return text
}

func averageLineLength(lines []string) float64 {
	total := 0
	for _, line := range lines {
		total += len(line)
	}
	return float64(total) / float64(len(lines))
}
