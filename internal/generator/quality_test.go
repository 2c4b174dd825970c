package generator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"photosynthesis converts light energy", "photosynthesis converts light energy", 1.0},
		{"photosynthesis converts light", "mitochondria release stored energy", 0.0},
		{"plants convert light energy", "plants store light energy", 0.6},
		{"", "", 0.0},
	}
	for _, tt := range tests {
		got := jaccardSimilarity(tokenize(tt.a), tokenize(tt.b))
		if !almostEqual(got, tt.want) {
			t.Errorf("jaccard(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenize_SkipsShortWordsAndPunctuation(t *testing.T) {
	tokens := tokenize("What is the role of Chlorophyll?")
	if tokens["what"] != true || tokens["role"] != true || tokens["chlorophyll"] != true {
		t.Errorf("expected content words, got %v", tokens)
	}
	if tokens["the"] || tokens["is"] {
		t.Errorf("short words should be skipped, got %v", tokens)
	}
}

func TestFindNearDuplicates(t *testing.T) {
	texts := []string{
		"What gas do plants absorb during photosynthesis?",
		"What gas do plants absorb during photosynthesis in daylight?",
		"Name the organelle that produces ATP.",
		"WHAT GAS DO PLANTS ABSORB DURING PHOTOSYNTHESIS?",
	}

	pairs := FindNearDuplicates(texts)

	found := map[[2]int]bool{}
	for _, p := range pairs {
		found[[2]int{p.First, p.Second}] = true
	}
	if !found[[2]int{0, 1}] {
		t.Errorf("expected 0 and 1 flagged, got %+v", pairs)
	}
	if found[[2]int{0, 3}] {
		t.Error("exact case-insensitive duplicates are not near duplicates")
	}
	if found[[2]int{0, 2}] || found[[2]int{1, 2}] {
		t.Errorf("unrelated question flagged: %+v", pairs)
	}
}

func TestFindNearDuplicates_TooFew(t *testing.T) {
	if pairs := FindNearDuplicates([]string{"only one"}); pairs != nil {
		t.Errorf("expected nil, got %+v", pairs)
	}
}
