package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/notequiz/backend/internal/models"
)

// fakeLLM records prompts and replays canned responses.
type fakeLLM struct {
	content     string
	err         error
	userPrompts []string
	schemas     []*Schema
}

func (f *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	f.userPrompts = append(f.userPrompts, userPrompt)
	if f.err != nil {
		return nil, f.err
	}
	return &LLMResponse{Content: f.content}, nil
}

func (f *fakeLLM) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (*LLMResponse, error) {
	f.schemas = append(f.schemas, schema)
	return f.Generate(ctx, systemPrompt, userPrompt)
}

const sampleNotes = "Photosynthesis converts light energy into chemical energy. " +
	"It takes place mainly in the chloroplasts of leaf cells. " +
	"Chlorophyll absorbs red and blue light most strongly. " +
	"The Calvin cycle fixes carbon dioxide into sugars. " +
	"Oxygen is released as a by-product of splitting water."

func TestGenerateBatch_ReturnsValidQuestions(t *testing.T) {
	llm := &fakeLLM{content: batchJSON(validMCQ("q1"), validMCQ("q2"))}
	g := NewGenerator(llm, Options{TopicsPerBatch: 3, AvoidLimit: 10}, nil)

	questions, err := g.GenerateBatch(context.Background(), BatchRequest{
		Type:         models.TypeMCQ,
		Count:        2,
		Subject:      "Biology",
		Difficulty:   models.DifficultyHard,
		Notes:        sampleNotes,
		StartID:      4,
		BatchIndex:   0,
		TotalBatches: 1,
		Previous:     []models.Question{{Question: "What do chloroplasts contain?"}},
	})
	if err != nil {
		t.Fatalf("GenerateBatch() error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q.Difficulty != models.DifficultyHard {
			t.Errorf("difficulty should be inherited from the request, got %q", q.Difficulty)
		}
	}

	if len(llm.schemas) != 1 || llm.schemas[0] != BatchSchema() {
		t.Error("expected one structured call with the batch schema")
	}
	prompt := llm.userPrompts[0]
	for _, keyword := range []string{"starting at q4", "What do chloroplasts contain?", "Calvin cycle"} {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("prompt missing %q", keyword)
		}
	}
}

func TestGenerateBatch_TruncatesExtraQuestions(t *testing.T) {
	llm := &fakeLLM{content: batchJSON(validMCQ("q1"), validMCQ("q2"), validMCQ("q3"))}
	g := NewGenerator(llm, Options{}, nil)

	questions, err := g.GenerateBatch(context.Background(), BatchRequest{
		Type: models.TypeMCQ, Count: 2, Notes: sampleNotes, Difficulty: models.DifficultyEasy, StartID: 1, TotalBatches: 1,
	})
	if err != nil {
		t.Fatalf("GenerateBatch() error: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("expected 2 questions, got %d", len(questions))
	}
}

func TestGenerateBatch_Errors(t *testing.T) {
	invalid := validMCQ("q1")
	invalid.Options = invalid.Options[:2]
	blank := validMCQ("q1")
	blank.Question = ""

	tests := []struct {
		name    string
		llm     *fakeLLM
		wantVal bool
	}{
		{"service error", &fakeLLM{err: errors.New("timeout")}, false},
		{"malformed JSON", &fakeLLM{content: "not json"}, false},
		{"all invalid variants", &fakeLLM{content: batchJSON(invalid)}, true},
		{"all missing fields", &fakeLLM{content: batchJSON(blank)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.llm, Options{}, nil)
			questions, err := g.GenerateBatch(context.Background(), BatchRequest{
				Type: models.TypeMCQ, Count: 1, Notes: sampleNotes, Difficulty: models.DifficultyEasy, StartID: 1, TotalBatches: 1,
			})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if questions != nil {
				t.Errorf("expected no questions on error, got %d", len(questions))
			}
			var ve *ValidationError
			if errors.As(err, &ve) != tt.wantVal {
				t.Errorf("ValidationError = %v, want %v (err %v)", errors.As(err, &ve), tt.wantVal, err)
			}
		})
	}
}

func TestAvoidList(t *testing.T) {
	previous := []models.Question{{Question: "a"}, {Question: "b"}, {Question: "c"}}

	if got := avoidList(previous, 2); strings.Join(got, ",") != "b,c" {
		t.Errorf("avoidList limit 2 = %v, want [b c]", got)
	}
	if got := avoidList(previous, 0); len(got) != 3 {
		t.Errorf("avoidList without limit = %v, want all", got)
	}
}

func TestGenerateFeedback(t *testing.T) {
	llm := &fakeLLM{content: "  Strengths: clear.  "}
	g := NewGenerator(llm, Options{}, nil)

	feedback, err := g.GenerateFeedback(context.Background(), models.FeedbackRequest{
		Question: "Explain osmosis.", UserAnswer: "Water diffuses.", Subject: "Biology",
	})
	if err != nil {
		t.Fatalf("GenerateFeedback() error: %v", err)
	}
	if feedback != "Strengths: clear." {
		t.Errorf("feedback = %q", feedback)
	}
	if len(llm.schemas) != 0 {
		t.Error("feedback should use free-text generation")
	}
}

func TestGenerateFeedback_Errors(t *testing.T) {
	for _, llm := range []*fakeLLM{{err: errors.New("boom")}, {content: "   "}} {
		g := NewGenerator(llm, Options{}, nil)
		if _, err := g.GenerateFeedback(context.Background(), models.FeedbackRequest{Question: "q", UserAnswer: "a"}); err == nil {
			t.Error("expected error, got nil")
		}
	}
}

func TestGenerateBatch_WithMockClient(t *testing.T) {
	g := NewGenerator(NewMockClient(), Options{}, nil)

	for _, qType := range models.QuestionTypes {
		questions, err := g.GenerateBatch(context.Background(), BatchRequest{
			Type: qType, Count: 2, Subject: "Cell biology", Difficulty: models.DifficultyMedium,
			Notes: sampleNotes, StartID: 3, TotalBatches: 1,
		})
		if err != nil {
			t.Fatalf("%s: GenerateBatch() error: %v", qType, err)
		}
		if len(questions) != 2 {
			t.Fatalf("%s: expected 2 questions, got %d", qType, len(questions))
		}
		if questions[0].ID != "q3" || questions[1].ID != "q4" {
			t.Errorf("%s: ids = %s, %s", qType, questions[0].ID, questions[1].ID)
		}
		for _, q := range questions {
			if _, err := q.Variant(); err != nil {
				t.Errorf("%s: mock produced invalid question: %v", qType, err)
			}
		}
	}
}
