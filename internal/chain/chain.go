// Package chain implements multi-round reasoning strategies over a
// text-generation collaborator: iterative self-correction, adversarial
// debate, and recursive question decomposition, plus the prompt recipes
// and context packing they rely on.
//
// Chains are single-threaded controllers: within a round, independent
// prompts go to the generator as one batch, and round processing depends
// only on positional correspondence between prompt and generation lists.
// Each chain instance owns its own accumulators; nothing is shared across
// instances.
package chain

import (
	"errors"
	"fmt"

	"paperchain/internal/llm"
)

// ErrContextMismatch reports a configuration error: the chain's declared
// context usage contradicts the arguments it was called with. It is fatal
// and never retried.
var ErrContextMismatch = errors.New("context usage mismatch")

// validateContexts enforces the context-consistency contract shared by
// every chain and recipe that declares context usage at construction
// time.
func validateContexts(useContext bool, prompts, contexts []string) error {
	if useContext && contexts == nil {
		return fmt.Errorf("%w: initialized to use context but no context was provided", ErrContextMismatch)
	}
	if !useContext && contexts != nil {
		return fmt.Errorf("%w: initialized to not use context but context was provided", ErrContextMismatch)
	}
	if useContext && len(contexts) != len(prompts) {
		return fmt.Errorf("%w: %d contexts for %d prompts", ErrContextMismatch, len(contexts), len(prompts))
	}
	return nil
}

// formatQuestions renders one question body per prompt, prefixing the
// matching context when in use.
func formatQuestions(useContext bool, prompts, contexts []string) []string {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		if useContext {
			out[i] = llm.RenderContextQuestion(contexts[i], p)
		} else {
			out[i] = llm.RenderQuestion(p)
		}
	}
	return out
}
