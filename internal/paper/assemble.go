package paper

import (
	"strconv"
	"strings"
)

// DefaultGapTolerance is how far forward a section number may jump past
// the current section before the header is discarded as noise. Real
// documents occasionally lose a header to tables or figures; allowing a
// small forward jump recovers from that, while rejecting backward or
// distant jumps keeps stray numbers in body text from opening sections.
const DefaultGapTolerance = 2

var sentenceEnders = map[byte]bool{'.': true, '!': true, '?': true}

// Assembler consumes ordered, classified blocks page by page and builds
// the section hierarchy incrementally. Paragraph text accumulates in a
// hanging buffer until a sentence terminator is seen, which lets
// paragraphs span block and page boundaries.
type Assembler struct {
	gapTolerance int

	hanging string

	high    int // high-level number of the section being built; 0 before the first header
	secName string
	secPage int

	subKey  string
	subName string
	subPage int

	paras    []string
	subs     []Subsection
	sections []Section
}

// NewAssembler returns an assembler. gapTolerance <= 0 selects the
// default.
func NewAssembler(gapTolerance int) *Assembler {
	if gapTolerance <= 0 {
		gapTolerance = DefaultGapTolerance
	}
	return &Assembler{gapTolerance: gapTolerance}
}

// AddPage feeds one page's blocks, already in reading order.
func (a *Assembler) AddPage(blocks []ClassifiedBlock) {
	for _, b := range blocks {
		a.Add(b)
	}
}

// Add processes a single block. Only section headers and body paragraphs
// affect assembly; other kinds are ignored.
func (a *Assembler) Add(b ClassifiedBlock) {
	switch b.Kind {
	case KindSectionHeader:
		a.addHeader(b)
	case KindBody:
		a.addBody(b.Text)
	}
}

func (a *Assembler) addHeader(b ClassifiedBlock) {
	// A header terminates whatever paragraph was still accumulating.
	a.flushParagraph()

	high := b.SectionLevel
	if high != a.high {
		if high < a.high || high > a.high+a.gapTolerance {
			// Backward or distant jump: not a real header, drop it.
			return
		}
		if a.high != 0 {
			a.flushSubsection()
			a.flushSection()
		}
		a.high = high
		a.secName = b.Name
		a.secPage = b.Page
		// The first subsection of a new section is keyed by the bare
		// high-level number even when the header carried a dotted one.
		a.subKey = strconv.Itoa(high)
		a.subName = b.Name
		a.subPage = b.Page
		return
	}

	// Same high-level section: the header opens a new subsection.
	a.flushSubsection()
	a.subName = b.Name
	a.subPage = b.Page
	if b.SectionNumber != "" {
		a.subKey = b.SectionNumber
	} else {
		a.subKey = strconv.Itoa(high)
	}
}

func (a *Assembler) addBody(text string) {
	if text == "" {
		return
	}
	if strings.HasSuffix(text, "-") {
		a.hanging += strings.TrimRight(text, "-")
	} else {
		a.hanging += text + " "
	}
	if sentenceEnders[text[len(text)-1]] {
		a.flushParagraph()
	}
}

// Finish flushes all pending state and returns the completed sections.
// Body text that never fell under an accepted header is dropped.
func (a *Assembler) Finish() []Section {
	a.flushParagraph()
	if a.high != 0 {
		a.flushSubsection()
		a.flushSection()
	}
	return a.sections
}

func (a *Assembler) flushParagraph() {
	if p := strings.TrimSpace(a.hanging); p != "" {
		a.paras = append(a.paras, p)
	}
	a.hanging = ""
}

func (a *Assembler) flushSubsection() {
	a.subs = append(a.subs, Subsection{
		Key:        a.subKey,
		Name:       a.subName,
		Page:       a.subPage,
		Paragraphs: a.paras,
	})
	a.paras = nil
}

func (a *Assembler) flushSection() {
	a.sections = append(a.sections, Section{
		Number:      a.high,
		Name:        a.secName,
		Page:        a.secPage,
		Subsections: a.subs,
	})
	a.subs = nil
}
