package paper

import (
	"context"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected string
	}{
		{"single line", []string{"Hello world"}, "Hello world"},
		{"two lines joined by space", []string{"Hello", "world"}, "Hello world"},
		{"hyphen continuation", []string{"informa-", "tion flows"}, "information flows"},
		{"trailing whitespace trimmed", []string{"  Hello  ", "world "}, "Hello world"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.lines)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.lines, result, tt.expected)
			}
		})
	}
}

// classifySequence runs blocks through a fresh classifier and returns the
// classified blocks plus the final state.
func classifySequence(t *testing.T, texts [][]string) ([]ClassifiedBlock, []bool, *State) {
	t.Helper()
	c := NewClassifier(nil)
	st := &State{}
	var out []ClassifiedBlock
	var oks []bool
	for _, lines := range texts {
		cb, ok, err := c.Classify(context.Background(), PositionedBlock{Lines: lines, Page: 1}, st)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, cb)
		oks = append(oks, ok)
	}
	return out, oks, st
}

func TestClassifyTitleAuthorsAbstract(t *testing.T) {
	blocks, oks, st := classifySequence(t, [][]string{
		{"Attention Is All You Need"},
		{"Ashish Vaswani, Noam Shazeer"},
		{"Abstract"},
		{"The dominant sequence transduction models are based on recurrent networks."},
	})

	if !oks[0] || blocks[0].Kind != KindTitle {
		t.Error("expected first block classified as title")
	}
	if !oks[1] || blocks[1].Kind != KindAuthors {
		t.Error("expected second block classified as authors")
	}
	if oks[2] {
		t.Error("expected the abstract divider to be skipped")
	}
	if !oks[3] || blocks[3].Kind != KindAbstract {
		t.Error("expected pre-section text classified as abstract")
	}

	if st.Title != "Attention Is All You Need" {
		t.Errorf("state title = %q", st.Title)
	}
	if st.Authors != "Ashish Vaswani, Noam Shazeer" {
		t.Errorf("state authors = %q", st.Authors)
	}
	if len(st.Abstract) != 1 {
		t.Fatalf("expected 1 abstract paragraph, got %d", len(st.Abstract))
	}
}

func TestClassifySectionHeaders(t *testing.T) {
	t.Run("common unnumbered name", func(t *testing.T) {
		blocks, oks, st := classifySequence(t, [][]string{
			{"Title here"}, {"Author here"},
			{"Introduction"},
		})
		header := blocks[2]
		if !oks[2] || header.Kind != KindSectionHeader {
			t.Fatal("expected Introduction to be a section header")
		}
		if header.SectionLevel != 1 {
			t.Errorf("expected level 1, got %d", header.SectionLevel)
		}
		if header.Name != "Introduction" {
			t.Errorf("expected name Introduction, got %q", header.Name)
		}
		if st.CurrentSection != 1 {
			t.Errorf("expected counter 1, got %d", st.CurrentSection)
		}
	})

	t.Run("dotted section number", func(t *testing.T) {
		blocks, oks, _ := classifySequence(t, [][]string{
			{"Title here"}, {"Author here"},
			{"2.1 Model Architecture"},
		})
		header := blocks[2]
		if !oks[2] || header.Kind != KindSectionHeader {
			t.Fatal("expected a section header")
		}
		if header.SectionNumber != "2.1" {
			t.Errorf("expected section number 2.1, got %q", header.SectionNumber)
		}
		if header.SectionLevel != 2 {
			t.Errorf("expected level 2, got %d", header.SectionLevel)
		}
		if header.Name != "Model Architecture" {
			t.Errorf("expected name, got %q", header.Name)
		}
	})

	t.Run("long numbered text is not a header", func(t *testing.T) {
		long := "3 models were trained on eight GPUs for a total of twelve days of compute time."
		blocks, oks, _ := classifySequence(t, [][]string{
			{"Title here"}, {"Author here"}, {"Introduction"},
			{long},
		})
		if !oks[3] || blocks[3].Kind != KindBody {
			t.Errorf("expected long numbered text classified as body, got %v ok=%v", blocks[3].Kind, oks[3])
		}
	})
}

func TestClassifySkips(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"near-empty decorative block", []string{"ab", "a"}},
		{"non-alphanumeric first char", []string{"(continued from previous page)"}},
		{"footnote marker", []string{"1See the appendix for full details."}},
		{"figure caption", []string{"Figure 1: The Transformer architecture."}},
		{"table caption with dot", []string{"Table 2. Results on the test set."}},
		{"too short", []string{"The end."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, oks, _ := classifySequence(t, append([][]string{
				{"Title here"}, {"Author here"}, {"Introduction"},
			}, tt.lines))
			if oks[3] {
				t.Errorf("expected block %q to be skipped", tt.lines)
			}
		})
	}
}

func TestClassifyStripsTrailingFootnote(t *testing.T) {
	blocks, oks, _ := classifySequence(t, [][]string{
		{"Title here"}, {"Author here"}, {"Introduction"},
		{"We follow the setup of prior work.3"},
	})
	if !oks[3] {
		t.Fatal("expected body block")
	}
	if blocks[3].Text != "We follow the setup of prior work." {
		t.Errorf("expected trailing footnote stripped, got %q", blocks[3].Text)
	}
}

func TestClassifyAuthorReformatter(t *testing.T) {
	var gotRaw string
	c := NewClassifier(func(_ context.Context, raw string) (string, error) {
		gotRaw = raw
		return "Answer: Jane Doe, John Smith", nil
	})
	st := &State{}

	ctx := context.Background()
	if _, _, err := c.Classify(ctx, PositionedBlock{Lines: []string{"Some Title"}}, st); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Classify(ctx, PositionedBlock{Lines: []string{"Jane Doe*", "John Smith*"}}, st); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(gotRaw, "\n") {
		t.Errorf("expected raw author blob with line breaks, got %q", gotRaw)
	}
	if st.Authors != "Jane Doe, John Smith" {
		t.Errorf("expected Answer: prefix stripped, got %q", st.Authors)
	}
}

func TestStripTrailingFootnote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"as shown in prior work.3", "as shown in prior work."},
		{"as shown in prior work.", "as shown in prior work."},
		{"no terminator at all", "no terminator at all"},
		{"version 2.0", "version 2."},
	}

	for _, tt := range tests {
		result := stripTrailingFootnote(tt.input)
		if result != tt.expected {
			t.Errorf("stripTrailingFootnote(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
