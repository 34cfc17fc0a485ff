package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url, "test-model", "", 10*time.Second, 1)
}

func TestGenerateReordersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if !reflect.DeepEqual(req.Prompt, []string{"p0", "p1"}) {
			t.Errorf("prompts = %v", req.Prompt)
		}
		if req.LogProbs != nil {
			t.Errorf("logprobs should be omitted when unset, got %v", *req.LogProbs)
		}

		// Choices deliberately out of order.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[
			{"index":1,"text":"second"},
			{"index":0,"text":"first"}
		]}`))
	}))
	defer srv.Close()

	gens, err := newTestClient(srv.URL).Generate(context.Background(),
		[]string{"p0", "p1"}, DefaultSampling())
	if err != nil {
		t.Fatal(err)
	}
	if gens[0].Text != "first" || gens[1].Text != "second" {
		t.Errorf("generations = %+v", gens)
	}
}

func TestGenerateLogProbs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.LogProbs == nil || *req.LogProbs != 1 {
			t.Errorf("logprobs = %v, want 1", req.LogProbs)
		}
		w.Write([]byte(`{"choices":[
			{"index":0,"text":"Yes","logprobs":{"token_logprobs":[-0.1]}}
		]}`))
	}))
	defer srv.Close()

	cfg := SamplingConfig{Temperature: 1, TopP: 1, MaxTokens: 1, LogProbs: 1}
	gens, err := newTestClient(srv.URL).Generate(context.Background(), []string{"p"}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gens[0].LogProbs, []float64{-0.1}) {
		t.Errorf("logprobs = %v", gens[0].LogProbs)
	}
}

func TestGenerateChoiceCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"index":0,"text":"only one"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(context.Background(),
		[]string{"p0", "p1"}, DefaultSampling())
	if err == nil || !strings.Contains(err.Error(), "1 choices for 2 prompts") {
		t.Errorf("expected choice count error, got %v", err)
	}
}

func TestGenerateEmptyBatch(t *testing.T) {
	// Must not hit the network at all.
	gens, err := newTestClient("http://unreachable.invalid").Generate(context.Background(), nil, DefaultSampling())
	if err != nil || gens != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", gens, err)
	}
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(context.Background(), []string{"p"}, DefaultSampling())
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("expected API error, got %v", err)
	}
}

func TestGenerateRetriesOnServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"choices":[{"index":0,"text":"ok"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "", 10*time.Second, 2)
	gens, err := client.Generate(context.Background(), []string{"p"}, DefaultSampling())
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if gens[0].Text != "ok" {
		t.Errorf("text = %q", gens[0].Text)
	}
}

func TestGenerateSendsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("authorization = %q", got)
		}
		w.Write([]byte(`{"choices":[{"index":0,"text":"ok"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "sekrit", 10*time.Second, 1)
	if _, err := client.Generate(context.Background(), []string{"p"}, DefaultSampling()); err != nil {
		t.Fatal(err)
	}
}

func TestTokenize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokenize" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req tokenizeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Prompt != "hello world" || !req.AddSpecialTokens {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"tokens":[15339,1917]}`))
	}))
	defer srv.Close()

	tokens, err := newTestClient(srv.URL).Tokenize(context.Background(), "hello world", true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tokens, []int{15339, 1917}) {
		t.Errorf("tokens = %v", tokens)
	}
}
