package generator

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/notequiz/backend/internal/models"
)

// GeneratedBatch is the structured payload a batch call must return.
type GeneratedBatch struct {
	Questions []GeneratedQuestion `json:"questions" jsonschema:"description=The generated quiz questions"`
}

type GeneratedQuestion struct {
	ID             string             `json:"id" jsonschema:"description=Unique id such as q1"`
	Type           string             `json:"type" jsonschema:"enum=MCQ,enum=TF,enum=MATCHING,enum=ESSAY"`
	Question       string             `json:"question" jsonschema:"description=The question text"`
	Answer         string             `json:"answer" jsonschema:"description=Correct answer; model answer for ESSAY; pairs like L1-R2 for MATCHING"`
	Difficulty     string             `json:"difficulty" jsonschema:"enum=Easy,enum=Medium,enum=Hard"`
	Options        []string           `json:"options,omitempty" jsonschema:"description=Exactly four options for MCQ"`
	LeftItems      []models.MatchItem `json:"leftItems,omitempty" jsonschema:"description=Left column for MATCHING"`
	RightItems     []models.MatchItem `json:"rightItems,omitempty" jsonschema:"description=Right column for MATCHING"`
	CorrectMatches map[string]string  `json:"correctMatches,omitempty" jsonschema:"description=Right item id to left item id for MATCHING"`
}

// Schema names a JSON schema the model output must satisfy. Providers use
// Name as the forced tool or function name.
type Schema struct {
	Name        string
	Description string
	Definition  *jsonschema.Schema
}

// JSON renders the schema definition, for providers that take it inline.
func (s *Schema) JSON() string {
	b, err := json.Marshal(s.Definition)
	if err != nil {
		return "{}"
	}
	return string(b)
}

const batchToolName = "submit_questions"

var batchSchema = sync.OnceValue(func() *Schema {
	return &Schema{
		Name:        batchToolName,
		Description: "Submit the generated quiz questions",
		Definition:  reflectSchema[GeneratedBatch](),
	}
})

// BatchSchema returns the schema every question batch is validated against.
func BatchSchema() *Schema {
	return batchSchema()
}

func reflectSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
