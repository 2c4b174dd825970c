package quiz

import "github.com/notequiz/backend/internal/models"

// Action is a single state transition understood by Reduce.
type Action interface {
	apply(State) State
}

type (
	SetConfig      struct{ Config models.QuizConfig }
	SetQuestions   struct{ Questions []models.Question }
	UpdateQuestion struct {
		Index    int
		Question models.Question
	}
	DeleteQuestion     struct{ Index int }
	SetCurrentQuestion struct{ Index int }
	ToggleAnswers      struct{}
	SetGenerating      struct{ Generating bool }
	StartQuiz          struct{}
	CompleteQuiz       struct{}
	SetUserAnswer      struct {
		QuestionID string
		Answer     string
	}
	Reset struct{}
)

// Reduce returns the state that results from applying a to s. It never
// mutates s or anything the action carries, and never fails: actions that
// do not make sense for s return an unchanged copy.
func Reduce(s State, a Action) State {
	next := s.clone()
	if a == nil {
		return next
	}
	return a.apply(next)
}

func (a SetConfig) apply(s State) State {
	cfg := cloneConfig(a.Config)
	s.Config = &cfg
	return s
}

func (a SetQuestions) apply(s State) State {
	s.Questions = cloneQuestions(a.Questions)
	return s
}

func (a UpdateQuestion) apply(s State) State {
	if a.Index < 0 || a.Index >= len(s.Questions) {
		return s
	}
	s.Questions[a.Index] = a.Question.Clone()
	return s
}

// DeleteQuestion shifts later questions down and keeps the cursor on a
// valid question when one remains.
func (a DeleteQuestion) apply(s State) State {
	if a.Index < 0 || a.Index >= len(s.Questions) {
		return s
	}
	s.Questions = append(s.Questions[:a.Index], s.Questions[a.Index+1:]...)
	if s.CurrentQuestionIndex >= len(s.Questions) {
		s.CurrentQuestionIndex = max(len(s.Questions)-1, 0)
	}
	return s
}

func (a SetCurrentQuestion) apply(s State) State {
	s.CurrentQuestionIndex = a.Index
	return s
}

func (ToggleAnswers) apply(s State) State {
	s.ShowAnswers = !s.ShowAnswers
	return s
}

func (a SetGenerating) apply(s State) State {
	s.IsGenerating = a.Generating
	return s
}

func (StartQuiz) apply(s State) State {
	s.CurrentQuestionIndex = 0
	s.QuizStarted = true
	return s
}

func (CompleteQuiz) apply(s State) State {
	s.QuizCompleted = true
	return s
}

func (a SetUserAnswer) apply(s State) State {
	for i := range s.Questions {
		if s.Questions[i].ID == a.QuestionID {
			answer := a.Answer
			s.Questions[i].UserAnswer = &answer
			return s
		}
	}
	return s
}

func (Reset) apply(State) State {
	return Initial()
}
