package chain

import (
	"errors"
	"testing"
)

func fixedCost(n int) func(string) ([]int, error) {
	return func(string) ([]int, error) {
		return make([]int, n), nil
	}
}

func TestPack(t *testing.T) {
	items := []string{"alpha ", "beta ", "gamma "}
	identity := func(s string) string { return s }

	tests := []struct {
		name     string
		budget   int
		wantUsed int
		wantText string
	}{
		{"everything fits", 100, 3, "alpha beta gamma"},
		{"prefix truncated", 25, 2, "alpha beta"},
		{"slack allows a 2-token overdraft", 18, 2, "alpha beta"},
		{"first item beyond slack", 7, 0, ""},
		{"zero budget", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, used, err := Pack(items, tt.budget, identity, fixedCost(10))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if used != tt.wantUsed {
				t.Errorf("used = %d, want %d", used, tt.wantUsed)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestPackTokenizeError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Pack([]string{"a"}, 10,
		func(s string) string { return s },
		func(string) ([]int, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected tokenize error to propagate, got %v", err)
	}
}

func TestPackEmptyItems(t *testing.T) {
	text, used, err := Pack(nil, 10, func(s string) string { return s }, fixedCost(1))
	if err != nil || used != 0 || text != "" {
		t.Errorf("got (%q, %d, %v), want empty", text, used, err)
	}
}
