// Package llm wraps the external text-generation engine behind a batched
// Generator interface. The engine is an OpenAI-compatible completion
// server (vLLM style) that accepts prompt batches and can return
// per-token log-probabilities.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// SamplingConfig carries the sampling parameters for one generation call.
type SamplingConfig struct {
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64
	MaxTokens         int
	LogProbs          int // per-token logprob entries to return; 0 disables
}

// DefaultSampling returns the sampling configuration used by the QA
// recipes.
func DefaultSampling() SamplingConfig {
	return SamplingConfig{
		Temperature:       1.0,
		TopP:              1.0,
		RepetitionPenalty: 1.0,
		MaxTokens:         512,
	}
}

// Generation is one model response. LogProbs holds the log-probability of
// each generated token when requested, in generation order.
type Generation struct {
	Text     string
	LogProbs []float64
}

// Generator is the external inference collaborator. Generate submits a
// batch of fully rendered prompts and returns one generation per prompt,
// in input order; the core depends on that positional correspondence and
// never on response identifiers. Implementations may process the batch
// serially or in parallel.
type Generator interface {
	Generate(ctx context.Context, prompts []string, cfg SamplingConfig) ([]Generation, error)
	Tokenize(ctx context.Context, text string, addSpecialTokens bool) ([]int, error)
}

// Client is an HTTP Generator against an OpenAI-compatible completion
// endpoint.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a client for the given server base URL and model
// name. apiKey may be empty for unauthenticated local servers.
func NewClient(baseURL, model, apiKey string, timeout time.Duration, maxRetries int) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// Model returns the model identifier being used.
func (c *Client) Model() string {
	return c.model
}

type completionRequest struct {
	Model             string   `json:"model"`
	Prompt            []string `json:"prompt"`
	Temperature       float64  `json:"temperature"`
	TopP              float64  `json:"top_p"`
	RepetitionPenalty float64  `json:"repetition_penalty,omitempty"`
	MaxTokens         int      `json:"max_tokens"`
	LogProbs          *int     `json:"logprobs,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Index    int    `json:"index"`
		Text     string `json:"text"`
		LogProbs *struct {
			TokenLogProbs []float64 `json:"token_logprobs"`
		} `json:"logprobs"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Generate submits the prompt batch. Choices are reordered by index so
// the result always lines up with the input.
func (c *Client) Generate(ctx context.Context, prompts []string, cfg SamplingConfig) ([]Generation, error) {
	if len(prompts) == 0 {
		return nil, nil
	}

	req := completionRequest{
		Model:             c.model,
		Prompt:            prompts,
		Temperature:       cfg.Temperature,
		TopP:              cfg.TopP,
		RepetitionPenalty: cfg.RepetitionPenalty,
		MaxTokens:         cfg.MaxTokens,
	}
	if cfg.LogProbs > 0 {
		lp := cfg.LogProbs
		req.LogProbs = &lp
	}

	var resp completionResponse
	if err := c.post(ctx, "/v1/completions", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("completion error: %s", resp.Error.Message)
	}
	if len(resp.Choices) != len(prompts) {
		return nil, fmt.Errorf("got %d choices for %d prompts", len(resp.Choices), len(prompts))
	}

	sort.SliceStable(resp.Choices, func(i, j int) bool {
		return resp.Choices[i].Index < resp.Choices[j].Index
	})

	out := make([]Generation, len(resp.Choices))
	for i, choice := range resp.Choices {
		out[i] = Generation{Text: choice.Text}
		if choice.LogProbs != nil {
			out[i].LogProbs = choice.LogProbs.TokenLogProbs
		}
	}
	return out, nil
}

type tokenizeRequest struct {
	Model            string `json:"model"`
	Prompt           string `json:"prompt"`
	AddSpecialTokens bool   `json:"add_special_tokens"`
}

type tokenizeResponse struct {
	Tokens []int     `json:"tokens"`
	Error  *apiError `json:"error,omitempty"`
}

// Tokenize returns the server tokenizer's token ids for text.
func (c *Client) Tokenize(ctx context.Context, text string, addSpecialTokens bool) ([]int, error) {
	req := tokenizeRequest{Model: c.model, Prompt: text, AddSpecialTokens: addSpecialTokens}
	var resp tokenizeResponse
	if err := c.post(ctx, "/tokenize", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("tokenize error: %s", resp.Error.Message)
	}
	return resp.Tokens, nil
}

// post sends a JSON request with bounded retries. The core performs no
// retry policy of its own beyond this transport-level loop; a request
// that keeps failing is fatal to the caller.
func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			time.Sleep(time.Second)
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			time.Sleep(time.Second)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(data))
			time.Sleep(time.Second)
			continue
		}

		if err := json.Unmarshal(data, respBody); err != nil {
			lastErr = fmt.Errorf("failed to parse response: %w", err)
			time.Sleep(time.Second)
			continue
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
