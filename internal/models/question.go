package models

import "strings"

type QuestionType string

const (
	TypeMCQ      QuestionType = "MCQ"
	TypeTF       QuestionType = "TF"
	TypeMatching QuestionType = "MATCHING"
	TypeEssay    QuestionType = "ESSAY"
)

// QuestionTypes is the fixed generation order.
var QuestionTypes = []QuestionType{TypeMCQ, TypeTF, TypeMatching, TypeEssay}

var ValidQuestionTypes = map[QuestionType]bool{
	TypeMCQ:      true,
	TypeTF:       true,
	TypeMatching: true,
	TypeEssay:    true,
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// QuestionCounts maps a question type to the number of questions requested.
type QuestionCounts map[QuestionType]int

func (c QuestionCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// ── Core Structs ───────────────────────────────────────

type QuizConfig struct {
	Subject        string         `json:"subject"`
	Difficulty     Difficulty     `json:"difficulty"`
	Notes          string         `json:"notes"`
	QuestionCounts QuestionCounts `json:"questionCounts"`
}

type MatchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is the wire shape shared by the API, the export file and the
// quiz state. Type-specific fields are only meaningful for their variant;
// use Variant to get a checked view.
type Question struct {
	ID             string            `json:"id"`
	Type           QuestionType      `json:"type"`
	Question       string            `json:"question"`
	Options        []string          `json:"options,omitempty"`
	Answer         string            `json:"answer"`
	Difficulty     Difficulty        `json:"difficulty"`
	LeftItems      []MatchItem       `json:"leftItems,omitempty"`
	RightItems     []MatchItem       `json:"rightItems,omitempty"`
	CorrectMatches map[string]string `json:"correctMatches,omitempty"`
	UserAnswer     *string           `json:"userAnswer,omitempty"`
}

// HasRequiredFields reports whether id, type, question, answer and
// difficulty are all non-blank.
func (q Question) HasRequiredFields() bool {
	return strings.TrimSpace(q.ID) != "" &&
		strings.TrimSpace(string(q.Type)) != "" &&
		strings.TrimSpace(q.Question) != "" &&
		strings.TrimSpace(q.Answer) != "" &&
		strings.TrimSpace(string(q.Difficulty)) != ""
}

// Clone returns a deep copy so callers can mutate the result freely.
func (q Question) Clone() Question {
	c := q
	if q.Options != nil {
		c.Options = append([]string(nil), q.Options...)
	}
	if q.LeftItems != nil {
		c.LeftItems = append([]MatchItem(nil), q.LeftItems...)
	}
	if q.RightItems != nil {
		c.RightItems = append([]MatchItem(nil), q.RightItems...)
	}
	if q.CorrectMatches != nil {
		c.CorrectMatches = make(map[string]string, len(q.CorrectMatches))
		for k, v := range q.CorrectMatches {
			c.CorrectMatches[k] = v
		}
	}
	if q.UserAnswer != nil {
		a := *q.UserAnswer
		c.UserAnswer = &a
	}
	return c
}

// ── Request Types ─────────────────────────────────────

type GenerateQuestionsRequest = QuizConfig

type FeedbackRequest struct {
	Question   string `json:"question"`
	UserAnswer string `json:"userAnswer"`
	Subject    string `json:"subject"`
}

// ── Response Types ────────────────────────────────────

type TypeBreakdown struct {
	Type          QuestionType `json:"type"`
	Requested     int          `json:"requested"`
	Generated     int          `json:"generated"`
	Batches       int          `json:"batches"`
	FailedBatches int          `json:"failedBatches"`
}

type GenerateQuestionsResponse struct {
	Questions      []Question      `json:"questions"`
	Generated      int             `json:"generated"`
	Requested      int             `json:"requested"`
	ContentLength  int             `json:"contentLength"`
	SectionsUsed   int             `json:"sectionsUsed"`
	Breakdown      []TypeBreakdown `json:"breakdown,omitempty"`
	Errors         []string        `json:"errors,omitempty"`
	Duplicates     []string        `json:"duplicates,omitempty"`
	NearDuplicates int             `json:"nearDuplicates,omitempty"`
}

type FeedbackResponse struct {
	Feedback string `json:"feedback"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
