package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/notequiz/backend/internal/models"
)

// ── MockClient — Local Development ─────────────────────────

// MockClient returns schema-compliant questions without calling a model.
// It reads the requested type, count, difficulty and first id back out of
// the batch prompt.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

var (
	mockRequestPattern = regexp.MustCompile(`Generate exactly (\d+) (MCQ|TF|MATCHING|ESSAY) questions about "(.*)" at (Easy|Medium|Hard) difficulty`)
	mockStartPattern   = regexp.MustCompile(`starting at q(\d+)`)
)

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content: "[Mock] Strengths: the answer addresses the question directly.\n" +
			"Areas for improvement: add a concrete example from the notes.\n" +
			"Suggestions: define key terms before using them.\n" +
			"Broader connections: relate the idea to neighbouring topics.",
		PromptTokens: 400,
		OutputTokens: 120,
	}, nil
}

func (m *MockClient) GenerateStructured(ctx context.Context, systemPrompt string, userPrompt string, schema *Schema) (*LLMResponse, error) {
	match := mockRequestPattern.FindStringSubmatch(userPrompt)
	if match == nil {
		return nil, fmt.Errorf("mock client: unrecognised batch prompt")
	}
	count, _ := strconv.Atoi(match[1])
	qType := models.QuestionType(match[2])
	subject := match[3]
	difficulty := match[4]

	start := 1
	if s := mockStartPattern.FindStringSubmatch(userPrompt); s != nil {
		start, _ = strconv.Atoi(s[1])
	}

	batch := GeneratedBatch{Questions: make([]GeneratedQuestion, count)}
	for i := 0; i < count; i++ {
		n := start + i
		batch.Questions[i] = mockQuestion(qType, n, subject, difficulty)
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}
	return &LLMResponse{
		Content:      string(data),
		PromptTokens: 1500,
		OutputTokens: 300 * count,
	}, nil
}

func mockQuestion(qType models.QuestionType, n int, subject, difficulty string) GeneratedQuestion {
	q := GeneratedQuestion{
		ID:         fmt.Sprintf("q%d", n),
		Type:       string(qType),
		Difficulty: difficulty,
	}

	switch qType {
	case models.TypeMCQ:
		q.Question = fmt.Sprintf("[Mock] Which statement about %s is supported by the notes (item %d)?", subject, n)
		q.Options = []string{
			fmt.Sprintf("Option A for item %d", n),
			fmt.Sprintf("Option B for item %d", n),
			fmt.Sprintf("Option C for item %d", n),
			fmt.Sprintf("Option D for item %d", n),
		}
		q.Answer = q.Options[n%4]
	case models.TypeTF:
		q.Question = fmt.Sprintf("[Mock] True or false: claim %d about %s appears in the notes.", n, subject)
		q.Answer = "True"
		if n%2 == 0 {
			q.Answer = "False"
		}
	case models.TypeMatching:
		q.Question = fmt.Sprintf("[Mock] Match each %s term to its definition (set %d).", subject, n)
		pairs := make([]string, 4)
		q.CorrectMatches = make(map[string]string, 4)
		for i := 1; i <= 4; i++ {
			left := fmt.Sprintf("L%d", i)
			right := fmt.Sprintf("R%d", 5-i)
			q.LeftItems = append(q.LeftItems, models.MatchItem{ID: left, Text: fmt.Sprintf("Term %d", i)})
			q.RightItems = append(q.RightItems, models.MatchItem{ID: fmt.Sprintf("R%d", i), Text: fmt.Sprintf("Definition of term %d", 5-i)})
			q.CorrectMatches[right] = left
			pairs[i-1] = left + "-" + right
		}
		q.Answer = strings.Join(pairs, ", ")
	case models.TypeEssay:
		q.Question = fmt.Sprintf("[Mock] Explain the main idea of %s in your own words (prompt %d).", subject, n)
		q.Answer = fmt.Sprintf("[Mock] A strong answer summarises %s, gives an example from the notes and explains why it matters.", subject)
	}
	return q
}
