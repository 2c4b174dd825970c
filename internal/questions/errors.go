package questions

import (
	"errors"
	"strings"
)

// ErrNoValidQuestions means every batch failed or produced nothing usable.
var ErrNoValidQuestions = errors.New("no valid questions generated")

// InputError rejects a request before any model call is made.
type InputError struct {
	Problems []string
}

func (e *InputError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

// GenerationError carries the per-batch failures behind ErrNoValidQuestions.
type GenerationError struct {
	Errors []string
}

func (e *GenerationError) Error() string {
	if len(e.Errors) == 0 {
		return ErrNoValidQuestions.Error()
	}
	return ErrNoValidQuestions.Error() + ": " + strings.Join(e.Errors, "; ")
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrNoValidQuestions
}
