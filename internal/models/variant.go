package models

import (
	"fmt"
	"strings"
)

// Variant is the checked, type-specific view of a Question.
type Variant interface {
	Kind() QuestionType
}

type MultipleChoice struct {
	Options []string
	Answer  string
}

type TrueFalse struct {
	Answer bool
}

type Matching struct {
	Left           []MatchItem
	Right          []MatchItem
	CorrectMatches map[string]string // right id -> left id
}

type Essay struct {
	ModelAnswer string
}

func (MultipleChoice) Kind() QuestionType { return TypeMCQ }
func (TrueFalse) Kind() QuestionType      { return TypeTF }
func (Matching) Kind() QuestionType       { return TypeMatching }
func (Essay) Kind() QuestionType          { return TypeEssay }

const MCQOptionCount = 4

// Variant validates the type-specific fields of q and returns the matching
// variant. Fields that belong to other variants are ignored.
func (q Question) Variant() (Variant, error) {
	switch q.Type {
	case TypeMCQ:
		if len(q.Options) != MCQOptionCount {
			return nil, fmt.Errorf("MCQ expects %d options, got %d", MCQOptionCount, len(q.Options))
		}
		for _, opt := range q.Options {
			if opt == q.Answer {
				return MultipleChoice{Options: q.Options, Answer: q.Answer}, nil
			}
		}
		return nil, fmt.Errorf("MCQ answer %q is not one of the options", q.Answer)

	case TypeTF:
		switch q.Answer {
		case "True":
			return TrueFalse{Answer: true}, nil
		case "False":
			return TrueFalse{Answer: false}, nil
		}
		return nil, fmt.Errorf("TF answer must be \"True\" or \"False\", got %q", q.Answer)

	case TypeMatching:
		if len(q.LeftItems) == 0 || len(q.LeftItems) != len(q.RightItems) {
			return nil, fmt.Errorf("MATCHING expects equal non-empty item lists, got %d left and %d right",
				len(q.LeftItems), len(q.RightItems))
		}
		left := itemIDs(q.LeftItems)
		right := itemIDs(q.RightItems)
		if len(left) != len(q.LeftItems) || len(right) != len(q.RightItems) {
			return nil, fmt.Errorf("MATCHING item ids must be unique and non-empty")
		}
		for rightID, leftID := range q.CorrectMatches {
			if !right[rightID] {
				return nil, fmt.Errorf("MATCHING correctMatches references unknown right item %q", rightID)
			}
			if !left[leftID] {
				return nil, fmt.Errorf("MATCHING correctMatches references unknown left item %q", leftID)
			}
		}
		for id := range right {
			if _, ok := q.CorrectMatches[id]; !ok {
				return nil, fmt.Errorf("MATCHING correctMatches missing right item %q", id)
			}
		}
		return Matching{Left: q.LeftItems, Right: q.RightItems, CorrectMatches: q.CorrectMatches}, nil

	case TypeEssay:
		return Essay{ModelAnswer: q.Answer}, nil
	}
	return nil, fmt.Errorf("unknown question type %q", q.Type)
}

func itemIDs(items []MatchItem) map[string]bool {
	ids := make(map[string]bool, len(items))
	for _, it := range items {
		if id := strings.TrimSpace(it.ID); id != "" {
			ids[id] = true
		}
	}
	return ids
}
