package tokenizer

import "testing"

func TestEstimate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"plain words", "hello world", 2},
		{"punctuation adds tokens", "Hello, world.", 3},
		{"longer passage", "one two three four five six seven eight nine ten", 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Estimate(tt.text); got != tt.want {
				t.Errorf("Estimate(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateIDs(t *testing.T) {
	ids := EstimateIDs("hello world")
	if len(ids) != Estimate("hello world") {
		t.Errorf("len(ids) = %d, want %d", len(ids), Estimate("hello world"))
	}
	if len(EstimateIDs("")) != 0 {
		t.Error("empty text should yield no ids")
	}
}
