package quiz

import (
	"strings"

	"github.com/notequiz/backend/internal/models"
	"github.com/samber/lo"
)

// Result summarises a finished quiz. Essays are answered but never graded,
// so Graded can be smaller than TotalAnswered.
type Result struct {
	Score         int `json:"score"`
	TotalAnswered int `json:"totalAnswered"`
	Graded        int `json:"graded"`
}

func Score(questions []models.Question) Result {
	var r Result
	for _, q := range questions {
		if q.UserAnswer == nil || strings.TrimSpace(*q.UserAnswer) == "" {
			continue
		}
		r.TotalAnswered++
		if q.Type == models.TypeEssay {
			continue
		}
		r.Graded++
		if IsCorrect(q) {
			r.Score++
		}
	}
	return r
}

// IsCorrect grades a single answered question. Matching answers are
// compared as sets of "left-right" pairs so order and spacing don't matter.
func IsCorrect(q models.Question) bool {
	if q.UserAnswer == nil {
		return false
	}
	given := strings.TrimSpace(*q.UserAnswer)
	switch q.Type {
	case models.TypeMCQ, models.TypeTF:
		return strings.EqualFold(given, strings.TrimSpace(q.Answer))
	case models.TypeMatching:
		want := expectedPairs(q)
		got := parsePairs(given)
		return len(want) > 0 && len(got) == len(want) && len(lo.Intersect(got, want)) == len(want)
	}
	return false
}

func expectedPairs(q models.Question) []string {
	if len(q.CorrectMatches) == 0 {
		return parsePairs(q.Answer)
	}
	pairs := make([]string, 0, len(q.CorrectMatches))
	for right, left := range q.CorrectMatches {
		pairs = append(pairs, pairKey(left, right))
	}
	return pairs
}

// parsePairs reads "L1-R2, L2-R1" into normalised pair keys. Malformed
// entries are kept verbatim so they can never match.
func parsePairs(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == '\n' })
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		left, right, ok := strings.Cut(f, "-")
		if !ok {
			pairs = append(pairs, f)
			continue
		}
		pairs = append(pairs, pairKey(left, right))
	}
	return lo.Uniq(pairs)
}

func pairKey(left, right string) string {
	return strings.ToUpper(strings.TrimSpace(left)) + "-" + strings.ToUpper(strings.TrimSpace(right))
}
