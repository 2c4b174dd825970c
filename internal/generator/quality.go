package generator

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// NearDuplicateThreshold is the keyword overlap above which two questions
// are reported as near duplicates.
const NearDuplicateThreshold = 0.60

// NearDuplicate identifies two question texts by index.
type NearDuplicate struct {
	First      int
	Second     int
	Similarity float64
}

// FindNearDuplicates reports pairs of texts that overlap heavily without
// being identical once case is ignored. Exact duplicates are left to the
// caller.
func FindNearDuplicates(texts []string) []NearDuplicate {
	if len(texts) < 2 {
		return nil
	}

	tokenSets := make([]map[string]bool, len(texts))
	for i, t := range texts {
		tokenSets[i] = tokenize(t)
	}

	var pairs []NearDuplicate
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			if strings.EqualFold(strings.TrimSpace(texts[i]), strings.TrimSpace(texts[j])) {
				continue
			}
			overlap := jaccardSimilarity(tokenSets[i], tokenSets[j])
			if overlap > NearDuplicateThreshold || nearlyContains(texts[i], texts[j]) {
				pairs = append(pairs, NearDuplicate{First: i, Second: j, Similarity: overlap})
			}
		}
	}
	return pairs
}

// nearlyContains reports whether the shorter text is a fuzzy subsequence
// of the longer one with at most 20% extra characters.
func nearlyContains(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return false
	}
	rank := fuzzy.RankMatchNormalizedFold(a, b)
	return rank >= 0 && rank <= len(b)/5
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		// Skip very short words (articles, prepositions)
		if len(word) > 3 {
			tokens[word] = true
		}
	}
	return tokens
}

func jaccardSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
