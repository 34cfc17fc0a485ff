package chain

import (
	"context"
	"math"
	"strconv"
	"strings"

	"paperchain/internal/llm"
)

// A recipe is one shaped call to the generator: it renders prompts into
// the model's chat template, submits them as a batch, and post-processes
// the generations. Recipes are value types; all state lives in the call.

const oracleSystemMessage = "You are a truthful and helpful oracle. " +
	"Please answer the following question as accurately as you can."

const classificationSystemMessage = "You are a truthful and helpful oracle. " +
	"Please only answer Yes or No to the following questions."

const authorSplitSystemMessage = "You are given the raw author block of a " +
	"research paper, as extracted from the PDF. Rewrite it as the authors' " +
	"full names separated by commas. Answer with only the list of names."

const decomposeSystemMessage = "You are a truthful and helpful oracle. " +
	"Break the following question into 2 to 4 simpler sub-questions that " +
	"would help answer it. Answer with one sub-question per line and " +
	"nothing else."

const chainOfThoughtSuffix = "\n\nLet's think step by step."

// InvalidProbability is the sentinel returned by Classification when the
// model's output is neither "Yes" nor "No". Returning a sentinel instead
// of an error keeps batch results positionally aligned; callers must
// check for it.
const InvalidProbability = -1.0

// RawGeneration submits already-rendered prompts unchanged.
type RawGeneration struct {
	Sampling llm.SamplingConfig
}

// Call generates one response per prompt.
func (r RawGeneration) Call(ctx context.Context, gen llm.Generator, prompts []string) ([]string, error) {
	cfg := r.Sampling
	if cfg.MaxTokens == 0 {
		cfg = llm.DefaultSampling()
	}
	gens, err := gen.Generate(ctx, prompts, cfg)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(gens))
	for i, g := range gens {
		texts[i] = strings.TrimSpace(g.Text)
	}
	return texts, nil
}

// QAVariableContext answers questions, optionally grounded in per-prompt
// context passages and optionally with a chain-of-thought nudge. Context
// usage is declared at construction and validated on every call.
type QAVariableContext struct {
	UseContext     bool
	SystemMessage  string // empty selects the default oracle message
	ChainOfThought bool
	Sampling       llm.SamplingConfig
}

// Call renders and submits the batch. It returns the rendered prompts
// alongside the answers so callers can accumulate transcripts.
func (r QAVariableContext) Call(ctx context.Context, gen llm.Generator, prompts, contexts []string) ([]string, []string, error) {
	if err := validateContexts(r.UseContext, prompts, contexts); err != nil {
		return nil, nil, err
	}

	system := r.SystemMessage
	if system == "" {
		system = oracleSystemMessage
	}

	bodies := formatQuestions(r.UseContext, prompts, contexts)
	rendered := make([]string, len(bodies))
	for i, body := range bodies {
		if r.ChainOfThought {
			body += chainOfThoughtSuffix
		}
		rendered[i] = llm.RenderChat(system, body)
	}

	cfg := r.Sampling
	if cfg.MaxTokens == 0 {
		cfg = llm.DefaultSampling()
	}
	gens, err := gen.Generate(ctx, rendered, cfg)
	if err != nil {
		return nil, nil, err
	}
	answers := make([]string, len(gens))
	for i, g := range gens {
		answers[i] = strings.TrimSpace(g.Text)
	}
	return rendered, answers, nil
}

// Classification asks a batch of yes/no questions and converts the first
// generated token's log-probability into the probability of "Yes".
type Classification struct{}

// Call returns one probability per prompt: exp(logprob) when the model
// answered "Yes", 1-exp(logprob) when "No", and InvalidProbability when
// it answered anything else.
func (Classification) Call(ctx context.Context, gen llm.Generator, prompts []string) ([]float64, error) {
	rendered := make([]string, len(prompts))
	for i, p := range prompts {
		rendered[i] = llm.RenderChat(classificationSystemMessage, p)
	}

	cfg := llm.SamplingConfig{
		Temperature:       1.0,
		TopP:              1.0,
		RepetitionPenalty: 1.0,
		MaxTokens:         1,
		LogProbs:          1,
	}
	gens, err := gen.Generate(ctx, rendered, cfg)
	if err != nil {
		return nil, err
	}

	probs := make([]float64, len(gens))
	for i, g := range gens {
		text := strings.TrimSpace(g.Text)
		switch {
		case text == "Yes" && len(g.LogProbs) > 0:
			probs[i] = math.Exp(g.LogProbs[0])
		case text == "No" && len(g.LogProbs) > 0:
			probs[i] = 1.0 - math.Exp(g.LogProbs[0])
		default:
			probs[i] = InvalidProbability
		}
	}
	return probs, nil
}

// AuthorSplit reformats a raw author blob into comma-separated full
// names. Used by the extractor when LLM augmentation is enabled.
type AuthorSplit struct{}

// Call reformats a single raw author block.
func (AuthorSplit) Call(ctx context.Context, gen llm.Generator, raw string) (string, error) {
	rendered := llm.RenderChat(authorSplitSystemMessage, raw)
	gens, err := gen.Generate(ctx, []string{rendered}, llm.SamplingConfig{
		Temperature: 1.0,
		TopP:        1.0,
		MaxTokens:   128,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(gens[0].Text)
	return strings.TrimSpace(strings.TrimPrefix(text, "Answer:")), nil
}

// Decompose proposes sub-questions for one question. Unparseable or empty
// output yields no sub-questions, which makes the node a leaf.
type Decompose struct{}

// Call returns the proposed sub-questions in model output order.
func (Decompose) Call(ctx context.Context, gen llm.Generator, question string) ([]string, error) {
	rendered := llm.RenderChat(decomposeSystemMessage, llm.RenderQuestion(question))
	gens, err := gen.Generate(ctx, []string{rendered}, llm.SamplingConfig{
		Temperature: 1.0,
		TopP:        1.0,
		MaxTokens:   256,
	})
	if err != nil {
		return nil, err
	}
	return parseSubquestions(gens[0].Text), nil
}

// parseSubquestions extracts one sub-question per line, stripping list
// numbering and bullet markers.
func parseSubquestions(text string) []string {
	var subs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		// Strip "1." / "2)" style numbering.
		if i := strings.IndexAny(line, ".)"); i > 0 {
			if _, err := strconv.Atoi(line[:i]); err == nil {
				line = strings.TrimSpace(line[i+1:])
			}
		}
		if line == "" {
			continue
		}
		subs = append(subs, line)
	}
	return subs
}
