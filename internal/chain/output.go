package chain

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"paperchain/internal/paper"
)

var (
	// headerStyle for prompt and section headers
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// forStyle for the affirmative debater
	forStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// againstStyle for the opposing debater
	againstStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// roundBannerStyle for round separators
	roundBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("39")).
				Padding(0, 2)

	// summaryBoxStyle for the extraction summary
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// FormatPaperSummary renders an extraction summary box.
func FormatPaperSummary(w io.Writer, p *paper.Paper) {
	subsections := 0
	paragraphs := 0
	for _, sec := range p.Sections {
		subsections += len(sec.Subsections)
		for _, sub := range sec.Subsections {
			paragraphs += len(sub.Paragraphs)
		}
	}

	content := fmt.Sprintf("%s %s\n%s %s\n%s %d paragraphs in abstract\n%s %d sections, %d subsections, %d paragraphs",
		dimStyle.Render("Title:"), headerStyle.Render(p.Title),
		dimStyle.Render("Authors:"), p.Authors,
		dimStyle.Render("Abstract:"), len(p.Abstract),
		dimStyle.Render("Body:"), len(p.Sections), subsections, paragraphs,
	)
	fmt.Fprintln(w, summaryBoxStyle.Render(content))
}

// FormatRounds renders one prompt's answers across improvement rounds.
func FormatRounds(w io.Writer, prompt string, answers []string) {
	fmt.Fprintln(w, headerStyle.Render(prompt))
	for i, answer := range answers {
		fmt.Fprintf(w, "%s %s\n", dimStyle.Render(fmt.Sprintf("Round %d:", i+1)), answer)
	}
	fmt.Fprintln(w)
}

// FormatDebate renders the full transcript of a debate over the prompts.
func FormatDebate(w io.Writer, prompts []string, t *Transcript) {
	for i, prompt := range prompts {
		fmt.Fprintln(w, headerStyle.Render(prompt))
		for round := range t.For {
			fmt.Fprintln(w, roundBannerStyle.Render(fmt.Sprintf("Round %d", round+1)))
			fmt.Fprintf(w, "%s %s\n", forStyle.Render("For:"), t.For[round][i])
			fmt.Fprintf(w, "%s %s\n", againstStyle.Render("Against:"), t.Against[round][i])
		}
		fmt.Fprintln(w)
	}
}

// FormatQuestionTree renders the answered decomposition tree, indenting
// each level.
func FormatQuestionTree(w io.Writer, node *QuestionAnswerNode, depth int) {
	if node == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s\n", indent, headerStyle.Render("Q: "+node.Question))
	if node.Answer != "" {
		fmt.Fprintf(w, "%s%s %s\n", indent, dimStyle.Render("A:"), node.Answer)
	}
	for _, child := range node.Children {
		FormatQuestionTree(w, child, depth+1)
	}
}
