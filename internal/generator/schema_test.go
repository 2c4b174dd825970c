package generator

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestBatchSchema_RequiredFields(t *testing.T) {
	s := BatchSchema()
	if s.Name != batchToolName {
		t.Errorf("schema name = %q, want %q", s.Name, batchToolName)
	}
	if !slices.Contains(s.Definition.Required, "questions") {
		t.Errorf("top level should require questions, got %v", s.Definition.Required)
	}

	questions, ok := s.Definition.Properties.Get("questions")
	if !ok || questions.Items == nil {
		t.Fatal("questions property missing or not an array")
	}
	item := questions.Items

	for _, field := range []string{"id", "type", "question", "answer", "difficulty"} {
		if !slices.Contains(item.Required, field) {
			t.Errorf("question item should require %q, got %v", field, item.Required)
		}
	}
	for _, field := range []string{"options", "leftItems", "rightItems", "correctMatches"} {
		if slices.Contains(item.Required, field) {
			t.Errorf("question item should not require %q", field)
		}
	}

	typeProp, _ := item.Properties.Get("type")
	if len(typeProp.Enum) != 4 {
		t.Errorf("type enum = %v, want 4 values", typeProp.Enum)
	}
}

func TestSchema_JSON(t *testing.T) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(BatchSchema().JSON()), &decoded); err != nil {
		t.Fatalf("schema JSON does not decode: %v", err)
	}
	if decoded["type"] != "object" {
		t.Errorf("schema type = %v, want object", decoded["type"])
	}
}
