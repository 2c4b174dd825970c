package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/notequiz/backend/internal/models"
)

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseResponse decodes a batch payload. A bare JSON array of questions is
// accepted as well as the {"questions": [...]} object.
func ParseResponse(responseBody string) (*GeneratedBatch, error) {
	cleaned := stripCodeFences(responseBody)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var batch GeneratedBatch
	if strings.HasPrefix(cleaned, "[") {
		if err := json.Unmarshal([]byte(cleaned), &batch.Questions); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
	} else if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if len(batch.Questions) == 0 {
		return nil, &ValidationError{Errors: []string{"no questions in batch"}}
	}

	return &batch, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// ToQuestions converts a parsed batch into questions of type want. Items
// missing a required field are dropped without comment; items of another
// type or with an invalid variant shape are dropped and described in
// rejected.
func ToQuestions(batch *GeneratedBatch, want models.QuestionType) (kept []models.Question, rejected []string) {
	for i, g := range batch.Questions {
		q := g.toQuestion()
		if !q.HasRequiredFields() {
			continue
		}
		if q.Type != want {
			rejected = append(rejected, fmt.Sprintf("question %d: type %s, expected %s", i+1, q.Type, want))
			continue
		}
		if _, err := q.Variant(); err != nil {
			rejected = append(rejected, fmt.Sprintf("question %d: %v", i+1, err))
			continue
		}
		kept = append(kept, q)
	}
	return kept, rejected
}

func (g GeneratedQuestion) toQuestion() models.Question {
	q := models.Question{
		ID:             strings.TrimSpace(g.ID),
		Type:           models.QuestionType(strings.ToUpper(strings.TrimSpace(g.Type))),
		Question:       strings.TrimSpace(g.Question),
		Answer:         strings.TrimSpace(g.Answer),
		Difficulty:     models.Difficulty(strings.TrimSpace(g.Difficulty)),
		LeftItems:      g.LeftItems,
		RightItems:     g.RightItems,
		CorrectMatches: g.CorrectMatches,
	}
	if len(g.Options) > 0 {
		q.Options = make([]string, len(g.Options))
		for i, opt := range g.Options {
			q.Options[i] = strings.TrimSpace(opt)
		}
	}
	return q
}
