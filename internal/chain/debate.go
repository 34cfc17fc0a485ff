package chain

import (
	"context"
	"fmt"

	"paperchain/internal/llm"
)

// Transcript holds both sides of a finished debate, round by round. Each
// round holds one utterance per prompt, "for" and "against" in lockstep.
// It is accumulated strictly in round order and read-only once the chain
// returns.
type Transcript struct {
	For     [][]string
	Against [][]string
}

// Debate runs a fixed number of adversarial rounds between a "for" and an
// "against" debater over each prompt. Each side keeps its own running
// conversation; every new utterance is generated from that side's
// transcript plus the opponent's most recent utterance.
type Debate struct {
	gen        llm.Generator
	useContext bool
	numRounds  int
}

// NewDebate constructs the chain. numRounds must be positive.
func NewDebate(gen llm.Generator, useContext bool, numRounds int) (*Debate, error) {
	if numRounds <= 0 {
		return nil, fmt.Errorf("num rounds must be positive, got %d", numRounds)
	}
	return &Debate{gen: gen, useContext: useContext, numRounds: numRounds}, nil
}

// debateSystemMessage renders one side's standing instructions plus the
// round-specific appendix. The 1-2 sentence limit keeps rounds short
// enough to stay inside the context window across all rounds.
func debateSystemMessage(agreeType, position string, numRounds int, appendix string) string {
	return fmt.Sprintf("You are a debator who wants to come to an agreeable "+
		"solution to a debate with an opposing debator. You may disagree with "+
		"your opponent if that is the best conclusion to the debate. You will "+
		"be given a prompt for a debate and previous rounds of the debate (if "+
		"applicable). You %s with, or are %q this debate prompt. Please have "+
		"a truthful and good faith debate with your opposing debator. The "+
		"debate will last %d rounds. Do not repeat yourself. Try to use no "+
		"more than 1-2 sentences per round. %s",
		agreeType, position, numRounds, appendix)
}

// roundAppendices returns the per-round instruction for each side,
// varying by position in the schedule: opening, middle, or final. A
// single-round debate uses the opening instructions.
func (c *Debate) roundAppendices(round int) (forAppendix, againstAppendix string) {
	switch {
	case round == 0:
		forAppendix = "This is the first round. Please provide an opening " +
			"statement for your position after being provided with the debate prompt."
		againstAppendix = "This is the first round. Please provide a response " +
			"to your opponent's opening statement."
	case round == c.numRounds-1:
		forAppendix = "This is the final round. Please provide a final " +
			"response to your opponent's previous statement."
		againstAppendix = "This is the final round. Please provide a final " +
			"response to your opponent's previous statement, along with a closing statement."
	default:
		remaining := fmt.Sprintf("There are %d rounds remaining. Please provide "+
			"a response to your opponent's previous statement.", c.numRounds-round)
		forAppendix = remaining
		againstAppendix = remaining
	}
	return forAppendix, againstAppendix
}

// Run executes the debate over the prompt batch. It returns the formatted
// debate prompts and the full transcript.
func (c *Debate) Run(ctx context.Context, prompts, contexts []string) ([]string, *Transcript, error) {
	if err := validateContexts(c.useContext, prompts, contexts); err != nil {
		return nil, nil, err
	}

	originals := make([]string, len(prompts))
	for i, p := range prompts {
		if c.useContext {
			originals[i] = fmt.Sprintf("Background information for the debate: %s\n\nDebate topic: %s", contexts[i], p)
		} else {
			originals[i] = "Debate topic: " + p
		}
	}

	transcript := &Transcript{}
	recipe := RawGeneration{Sampling: llm.SamplingConfig{
		Temperature: 1.0,
		TopP:        1.0,
		MaxTokens:   256,
	}}

	// Each side's accumulated conversation, one per prompt.
	forPrompts := make([]string, len(prompts))
	againstPrompts := make([]string, len(prompts))

	for round := 0; round < c.numRounds; round++ {
		forAppendix, againstAppendix := c.roundAppendices(round)
		forSystem := debateSystemMessage("agree", "For", c.numRounds, forAppendix)
		againstSystem := debateSystemMessage("disagree", "Against", c.numRounds, againstAppendix)

		// The "for" side opens; afterwards it responds to the opponent's
		// most recent utterance.
		if round == 0 {
			for i, original := range originals {
				forPrompts[i] = llm.RenderChat(forSystem, original)
			}
		} else {
			lastFor := transcript.For[round-1]
			lastAgainst := transcript.Against[round-1]
			for i := range forPrompts {
				forPrompts[i] += llm.RenderContinuation(lastFor[i], lastAgainst[i])
			}
		}
		forGens, err := recipe.Call(ctx, c.gen, forPrompts)
		if err != nil {
			return nil, nil, fmt.Errorf("round %d for: %w", round, err)
		}
		transcript.For = append(transcript.For, forGens)

		// The "against" side always sees the "for" side's newest
		// utterance before speaking.
		if round == 0 {
			for i, original := range originals {
				againstPrompts[i] = llm.RenderChat(againstSystem, original+forGens[i])
			}
		} else {
			lastAgainst := transcript.Against[round-1]
			for i := range againstPrompts {
				againstPrompts[i] += llm.RenderContinuation(lastAgainst[i], forGens[i])
			}
		}
		againstGens, err := recipe.Call(ctx, c.gen, againstPrompts)
		if err != nil {
			return nil, nil, fmt.Errorf("round %d against: %w", round, err)
		}
		transcript.Against = append(transcript.Against, againstGens)
	}

	return originals, transcript, nil
}
