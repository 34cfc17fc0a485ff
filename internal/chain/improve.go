package chain

import (
	"context"
	"fmt"

	"paperchain/internal/llm"
)

const improveSystemMessage = "You are a truthful and helpful oracle. " +
	"You may be provided with a background text passage as context, a " +
	"question, and previous answers to this question. Please check if the " +
	"most recent answer is correct. If the most recent answer is correct, " +
	"repeat the most recent answer and add \"QED.\" at the end. If the " +
	"most recent answer is incorrect, please correct the most recent " +
	"answer and explain where the most recent answer went wrong."

// IterativeImprovement re-poses each question for a fixed number of
// rounds, feeding the previous round's answer back as context under a
// critique-or-confirm instruction. All rounds' answers are retained per
// prompt.
type IterativeImprovement struct {
	gen            llm.Generator
	useContext     bool
	numRounds      int
	chainOfThought bool
}

// NewIterativeImprovement constructs the chain. numRounds must be
// positive.
func NewIterativeImprovement(gen llm.Generator, useContext bool, numRounds int, chainOfThought bool) (*IterativeImprovement, error) {
	if numRounds <= 0 {
		return nil, fmt.Errorf("num rounds must be positive, got %d", numRounds)
	}
	return &IterativeImprovement{
		gen:            gen,
		useContext:     useContext,
		numRounds:      numRounds,
		chainOfThought: chainOfThought,
	}, nil
}

// FormatPrompts returns the context-augmented form of each prompt, which
// is also the key space of Run's result.
func (c *IterativeImprovement) FormatPrompts(prompts, contexts []string) []string {
	return formatQuestions(c.useContext, prompts, contexts)
}

// Run executes the rounds over the prompt batch. The result maps each
// formatted prompt to its answers in round order, one per round.
func (c *IterativeImprovement) Run(ctx context.Context, prompts, contexts []string) (map[string][]string, error) {
	if err := validateContexts(c.useContext, prompts, contexts); err != nil {
		return nil, err
	}

	originals := formatQuestions(c.useContext, prompts, contexts)
	results := make(map[string][]string, len(originals))

	var lastAnswers []string
	for round := 0; round < c.numRounds; round++ {
		var answers []string
		var err error

		if round == 0 {
			recipe := QAVariableContext{
				UseContext:     c.useContext,
				ChainOfThought: c.chainOfThought,
			}
			_, answers, err = recipe.Call(ctx, c.gen, prompts, contexts)
		} else {
			// The previous round's own answer becomes the new context.
			links := make([]string, len(prompts))
			for i := range prompts {
				links[i] = fmt.Sprintf("%s\n\nAnswer: %s", prompts[i], lastAnswers[i])
			}
			recipe := QAVariableContext{
				UseContext:     true,
				SystemMessage:  improveSystemMessage,
				ChainOfThought: c.chainOfThought,
			}
			_, answers, err = recipe.Call(ctx, c.gen, prompts, links)
		}
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		for i, original := range originals {
			results[original] = append(results[original], answers[i])
		}
		lastAnswers = answers
	}

	return results, nil
}
