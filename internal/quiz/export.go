package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/notequiz/backend/internal/models"
)

var (
	ErrNoConfig    = errors.New("quiz file has no config")
	ErrNoQuestions = errors.New("quiz file has no questions")
)

// ExportFile is the on-disk shape shared by export and import.
type ExportFile struct {
	Config    *models.QuizConfig `json:"config"`
	Questions []models.Question  `json:"questions"`
}

// ResultsFile is an ExportFile with the outcome of a finished quiz.
type ResultsFile struct {
	ExportFile
	Score         int       `json:"score"`
	TotalAnswered int       `json:"totalAnswered"`
	CompletedAt   time.Time `json:"completedAt"`
}

func Export(w io.Writer, s State) error {
	return encode(w, ExportFile{Config: s.clone().Config, Questions: cloneQuestions(s.Questions)})
}

func ExportResults(w io.Writer, s State, now time.Time) error {
	r := Score(s.Questions)
	return encode(w, ResultsFile{
		ExportFile:    ExportFile{Config: s.clone().Config, Questions: cloneQuestions(s.Questions)},
		Score:         r.Score,
		TotalAnswered: r.TotalAnswered,
		CompletedAt:   now.UTC(),
	})
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode quiz file: %w", err)
	}
	return nil
}

// Import reads an export (or results) file. Result fields are ignored.
func Import(r io.Reader) (ExportFile, error) {
	var f ExportFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return ExportFile{}, fmt.Errorf("decode quiz file: %w", err)
	}
	if f.Config == nil {
		return ExportFile{}, ErrNoConfig
	}
	if len(f.Questions) == 0 {
		return ExportFile{}, ErrNoQuestions
	}
	seen := make(map[string]bool, len(f.Questions))
	for i, q := range f.Questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			return ExportFile{}, fmt.Errorf("question %d has no id", i+1)
		}
		if seen[id] {
			return ExportFile{}, fmt.Errorf("duplicate question id %q", id)
		}
		seen[id] = true
	}
	return f, nil
}

// Apply replaces the config and questions of s with the imported ones.
func Apply(s State, f ExportFile) State {
	if f.Config != nil {
		s = Reduce(s, SetConfig{Config: *f.Config})
	}
	return Reduce(s, SetQuestions{Questions: f.Questions})
}
