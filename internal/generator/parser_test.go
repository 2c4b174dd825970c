package generator

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/notequiz/backend/internal/models"
)

func validMCQ(id string) GeneratedQuestion {
	return GeneratedQuestion{
		ID:         id,
		Type:       "MCQ",
		Question:   "Which pigment absorbs most light in photosynthesis?",
		Answer:     "Chlorophyll a",
		Difficulty: "Medium",
		Options:    []string{"Carotene", "Chlorophyll a", "Xanthophyll", "Anthocyanin"},
	}
}

func batchJSON(questions ...GeneratedQuestion) string {
	data, _ := json.Marshal(GeneratedBatch{Questions: questions})
	return string(data)
}

func TestParseResponse_ValidJSON(t *testing.T) {
	batch, err := ParseResponse(batchJSON(validMCQ("q1"), validMCQ("q2")))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(batch.Questions) != 2 {
		t.Errorf("expected 2 questions, got %d", len(batch.Questions))
	}
}

func TestParseResponse_WithCodeFences(t *testing.T) {
	input := "```json\n" + batchJSON(validMCQ("q1")) + "\n```"

	batch, err := ParseResponse(input)
	if err != nil {
		t.Fatalf("expected no error with code fences, got: %v", err)
	}
	if len(batch.Questions) != 1 {
		t.Errorf("expected 1 question, got %d", len(batch.Questions))
	}
}

func TestParseResponse_BareArray(t *testing.T) {
	data, _ := json.Marshal([]GeneratedQuestion{validMCQ("q1")})

	batch, err := ParseResponse(string(data))
	if err != nil {
		t.Fatalf("expected no error for bare array, got: %v", err)
	}
	if len(batch.Questions) != 1 {
		t.Errorf("expected 1 question, got %d", len(batch.Questions))
	}
}

func TestParseResponse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"empty", "   ", func(err error) bool { return errors.Is(err, ErrEmptyResponse) }},
		{"malformed", "{not json", func(err error) bool { return strings.Contains(err.Error(), "parse JSON") }},
		{"no questions", `{"questions":[]}`, func(err error) bool {
			var ve *ValidationError
			return errors.As(err, &ve)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestToQuestions_FiltersMissingFields(t *testing.T) {
	missingAnswer := validMCQ("q2")
	missingAnswer.Answer = ""
	missingID := validMCQ("")

	kept, rejected := ToQuestions(&GeneratedBatch{Questions: []GeneratedQuestion{validMCQ("q1"), missingAnswer, missingID}}, models.TypeMCQ)

	if len(kept) != 1 || kept[0].ID != "q1" {
		t.Fatalf("expected only q1 kept, got %+v", kept)
	}
	if len(rejected) != 0 {
		t.Errorf("missing fields should be dropped silently, got %v", rejected)
	}
}

func TestToQuestions_RejectsBadVariants(t *testing.T) {
	threeOptions := validMCQ("q2")
	threeOptions.Options = threeOptions.Options[:3]
	wrongType := validMCQ("q3")
	wrongType.Type = "TF"
	wrongType.Answer = "True"

	kept, rejected := ToQuestions(&GeneratedBatch{Questions: []GeneratedQuestion{validMCQ("q1"), threeOptions, wrongType}}, models.TypeMCQ)

	if len(kept) != 1 {
		t.Fatalf("expected 1 kept, got %d", len(kept))
	}
	if len(rejected) != 2 {
		t.Fatalf("expected 2 rejections, got %v", rejected)
	}
	if !strings.Contains(rejected[0], "4 options") {
		t.Errorf("rejection should mention option count: %q", rejected[0])
	}
	if !strings.Contains(rejected[1], "expected MCQ") {
		t.Errorf("rejection should mention type: %q", rejected[1])
	}
}

func TestToQuestions_NormalizesFields(t *testing.T) {
	g := validMCQ(" q1 ")
	g.Type = "mcq"
	g.Options = []string{" Carotene", "Chlorophyll a ", "Xanthophyll", "Anthocyanin"}

	kept, _ := ToQuestions(&GeneratedBatch{Questions: []GeneratedQuestion{g}}, models.TypeMCQ)
	if len(kept) != 1 {
		t.Fatalf("expected question kept after normalization")
	}
	if kept[0].ID != "q1" || kept[0].Type != models.TypeMCQ || kept[0].Options[1] != "Chlorophyll a" {
		t.Errorf("fields not normalized: %+v", kept[0])
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []string{"one", "two"}}
	if err.Error() != "validation failed: one; two" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
