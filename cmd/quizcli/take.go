package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/notequiz/backend/internal/models"
	"github.com/notequiz/backend/internal/questions"
	"github.com/notequiz/backend/internal/quiz"
)

func runTake(args []string, stdin io.Reader) error {
	fs := flag.NewFlagSet("take", flag.ExitOnError)
	var (
		inputFile   = fs.String("input", "quiz.json", "Quiz file produced by generate")
		resultsFile = fs.String("results", "results.json", "Where to write the results")
		feedback    = fs.Bool("feedback", true, "Ask the model for feedback on essay answers")
		configDir   = fs.String("config", ".", "Directory containing config.yaml")
		verbose     = fs.Bool("verbose", false, "Enable verbose logging")
	)
	fs.Parse(args)

	f, err := os.Open(*inputFile)
	if err != nil {
		return fmt.Errorf("open quiz: %w", err)
	}
	imported, err := quiz.Import(f)
	f.Close()
	if err != nil {
		return err
	}

	var svc *questions.Service
	if *feedback {
		s, zlog, err := newService(*configDir, *verbose)
		if err != nil {
			return err
		}
		defer zlog.Sync()
		svc = s
	}

	session := quiz.NewSession()
	state := session.Dispatch(
		quiz.SetConfig{Config: *imported.Config},
		quiz.SetQuestions{Questions: imported.Questions},
		quiz.StartQuiz{},
	)

	scanner := bufio.NewScanner(stdin)
	fmt.Printf("Quiz: %s (%s), %d questions\n\n", state.Config.Subject, state.Config.Difficulty, len(state.Questions))

	for i := range state.Questions {
		state = session.Dispatch(quiz.SetCurrentQuestion{Index: i})
		q, ok := state.CurrentQuestion()
		if !ok {
			break
		}
		fmt.Printf("Question %d/%d [%s]:\n%s\n\n", i+1, len(state.Questions), q.Type, q.Question)

		answer, ok := askAnswer(scanner, q)
		if !ok {
			fmt.Println("\nInput closed, finishing early.")
			break
		}
		state = session.Dispatch(quiz.SetUserAnswer{QuestionID: q.ID, Answer: answer})

		if q.Type == models.TypeEssay {
			printEssayFeedback(svc, state.Config.Subject, q, answer)
		} else {
			q.UserAnswer = &answer
			if quiz.IsCorrect(q) {
				fmt.Println("Correct!")
			} else {
				fmt.Printf("Incorrect. The correct answer is: %s\n", q.Answer)
			}
		}
		fmt.Println(strings.Repeat("─", 50))
	}

	state = session.Dispatch(quiz.CompleteQuiz{})
	r := quiz.Score(state.Questions)
	fmt.Printf("\nQuiz completed! Score: %d/%d graded (%d answered)\n", r.Score, r.Graded, r.TotalAnswered)

	completedAt := time.Now()
	if err := writeFile(*resultsFile, func(w io.Writer) error { return quiz.ExportResults(w, state, completedAt) }); err != nil {
		return err
	}
	fmt.Printf("Results saved to: %s\n", *resultsFile)
	return nil
}

func askAnswer(scanner *bufio.Scanner, q models.Question) (string, bool) {
	switch q.Type {
	case models.TypeMCQ:
		letters := "ABCD"
		for i, opt := range q.Options {
			fmt.Printf("%c) %s\n", letters[i%len(letters)], opt)
		}
		for {
			in, ok := readLine(scanner, "Your answer (A/B/C/D): ")
			if !ok {
				return "", false
			}
			idx := strings.Index(letters, strings.ToUpper(in))
			if len(in) == 1 && idx >= 0 && idx < len(q.Options) {
				return q.Options[idx], true
			}
			fmt.Println("Please enter A, B, C, or D")
		}

	case models.TypeTF:
		for {
			in, ok := readLine(scanner, "True or False (T/F): ")
			if !ok {
				return "", false
			}
			switch strings.ToUpper(in) {
			case "T", "TRUE":
				return "True", true
			case "F", "FALSE":
				return "False", true
			}
			fmt.Println("Please enter T or F")
		}

	case models.TypeMatching:
		for _, it := range q.LeftItems {
			fmt.Printf("  %s: %s\n", it.ID, it.Text)
		}
		fmt.Println()
		for _, it := range q.RightItems {
			fmt.Printf("  %s: %s\n", it.ID, it.Text)
		}
		return readLine(scanner, "Pairs (e.g. L1-R2, L2-R1): ")
	}

	return readLine(scanner, "Your answer: ")
}

func printEssayFeedback(svc *questions.Service, subject string, q models.Question, answer string) {
	fmt.Printf("Model answer: %s\n", q.Answer)
	if svc == nil || strings.TrimSpace(answer) == "" {
		return
	}
	ctx, cancel := withTimeout()
	defer cancel()
	text, err := svc.Feedback(ctx, models.FeedbackRequest{Question: q.Question, UserAnswer: answer, Subject: subject})
	if err != nil {
		fmt.Printf("Feedback unavailable: %v\n", err)
		return
	}
	fmt.Printf("\nFeedback:\n%s\n", text)
}
