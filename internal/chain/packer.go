package chain

import "strings"

// budgetSlack is how many tokens past the budget an item may run and
// still be included. Rendered items carry trailing whitespace that is
// trimmed from the final output, so a 2-token overdraft never reaches the
// model.
const budgetSlack = 2

// Pack greedily selects a maximal prefix of ranked items that fits the
// token budget. Items are rendered and tokenized in rank order; packing
// stops at the first item that would overdraw the budget beyond the
// slack. The returned count is how many items were included, so callers
// can slice parallel metadata lists consistently. Exceeding the budget is
// not an error; it only truncates the prefix.
func Pack[T any](items []T, budget int, render func(T) string, tokenize func(string) ([]int, error)) (string, int, error) {
	var packed strings.Builder
	remaining := budget
	used := 0

	for _, item := range items {
		rendered := render(item)
		tokens, err := tokenize(rendered)
		if err != nil {
			return "", 0, err
		}
		if remaining-len(tokens) < -budgetSlack {
			break
		}
		packed.WriteString(rendered)
		remaining -= len(tokens)
		used++
	}

	return strings.TrimSpace(packed.String()), used, nil
}
