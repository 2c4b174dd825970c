package quiz

import "github.com/notequiz/backend/internal/models"

// State is everything a quiz session tracks. Values are treated as
// immutable: Reduce always returns a fresh copy.
type State struct {
	Config               *models.QuizConfig `json:"config"`
	Questions            []models.Question  `json:"questions"`
	CurrentQuestionIndex int                `json:"currentQuestionIndex"`
	ShowAnswers          bool               `json:"showAnswers"`
	IsGenerating         bool               `json:"isGenerating"`
	QuizStarted          bool               `json:"quizStarted"`
	QuizCompleted        bool               `json:"quizCompleted"`
}

func Initial() State {
	return State{Questions: []models.Question{}}
}

// CurrentQuestion returns the question under the cursor. The index itself
// is not range checked by SetCurrentQuestion, so callers go through here.
func (s State) CurrentQuestion() (models.Question, bool) {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return models.Question{}, false
	}
	return s.Questions[s.CurrentQuestionIndex], true
}

func (s State) clone() State {
	c := s
	if s.Config != nil {
		cfg := cloneConfig(*s.Config)
		c.Config = &cfg
	}
	c.Questions = cloneQuestions(s.Questions)
	return c
}

func cloneConfig(cfg models.QuizConfig) models.QuizConfig {
	if cfg.QuestionCounts != nil {
		counts := make(models.QuestionCounts, len(cfg.QuestionCounts))
		for k, v := range cfg.QuestionCounts {
			counts[k] = v
		}
		cfg.QuestionCounts = counts
	}
	return cfg
}

func cloneQuestions(qs []models.Question) []models.Question {
	out := make([]models.Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}
