package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/notequiz/backend/internal/models"
	"github.com/notequiz/backend/internal/quiz"
)

func runReview(args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	inputFile := fs.String("input", "results.json", "Quiz or results file to review")
	fs.Parse(args)

	f, err := os.Open(*inputFile)
	if err != nil {
		return fmt.Errorf("open quiz: %w", err)
	}
	defer f.Close()
	imported, err := quiz.Import(f)
	if err != nil {
		return err
	}

	state := quiz.Apply(quiz.Reduce(quiz.Initial(), quiz.ToggleAnswers{}), imported)
	fmt.Printf("Quiz: %s (%s)\n\n", state.Config.Subject, state.Config.Difficulty)

	for i, q := range state.Questions {
		fmt.Printf("%d. [%s] %s\n", i+1, q.Type, q.Question)
		for j, opt := range q.Options {
			fmt.Printf("   %c) %s\n", 'A'+j, opt)
		}
		if q.Type == models.TypeMatching {
			for _, it := range q.LeftItems {
				fmt.Printf("   %s: %s\n", it.ID, it.Text)
			}
			for _, it := range q.RightItems {
				fmt.Printf("   %s: %s\n", it.ID, it.Text)
			}
		}
		if state.ShowAnswers {
			fmt.Printf("   Answer: %s\n", q.Answer)
		}
		if q.UserAnswer != nil {
			fmt.Printf("   Your answer: %s %s\n", *q.UserAnswer, mark(q))
		}
		fmt.Println()
	}

	r := quiz.Score(state.Questions)
	if r.TotalAnswered > 0 {
		fmt.Printf("Score: %d/%d graded (%d answered)\n", r.Score, r.Graded, r.TotalAnswered)
	}
	return nil
}

func mark(q models.Question) string {
	switch {
	case q.Type == models.TypeEssay:
		return "(not graded)"
	case strings.TrimSpace(*q.UserAnswer) == "":
		return ""
	case quiz.IsCorrect(q):
		return "✓"
	}
	return "✗"
}
