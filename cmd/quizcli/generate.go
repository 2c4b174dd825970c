package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/notequiz/backend/internal/models"
	"github.com/notequiz/backend/internal/questions"
	"github.com/notequiz/backend/internal/quiz"
)

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		subject    = fs.String("subject", "", "Quiz subject (required)")
		difficulty = fs.String("difficulty", "Medium", "Difficulty: Easy, Medium, or Hard")
		notesFile  = fs.String("notes", "", "Path to the study notes file (required)")
		mcq        = fs.Int("mcq", 5, "Number of multiple choice questions")
		tf         = fs.Int("tf", 0, "Number of true/false questions")
		matching   = fs.Int("matching", 0, "Number of matching questions")
		essay      = fs.Int("essay", 0, "Number of essay questions")
		outputFile = fs.String("output", "quiz.json", "Where to write the quiz")
		configDir  = fs.String("config", ".", "Directory containing config.yaml")
		verbose    = fs.Bool("verbose", false, "Enable verbose logging")
	)
	fs.Parse(args)

	if *subject == "" || *notesFile == "" {
		fs.Usage()
		return fmt.Errorf("-subject and -notes are required")
	}
	notes, err := os.ReadFile(*notesFile)
	if err != nil {
		return fmt.Errorf("read notes: %w", err)
	}

	svc, zlog, err := newService(*configDir, *verbose)
	if err != nil {
		return err
	}
	defer zlog.Sync()

	cfg := models.QuizConfig{
		Subject:    *subject,
		Difficulty: models.Difficulty(*difficulty),
		Notes:      string(notes),
		QuestionCounts: models.QuestionCounts{
			models.TypeMCQ:      *mcq,
			models.TypeTF:       *tf,
			models.TypeMatching: *matching,
			models.TypeEssay:    *essay,
		},
	}

	session := quiz.NewSession()
	session.Dispatch(quiz.SetConfig{Config: cfg}, quiz.SetGenerating{Generating: true})

	ctx, cancel := withTimeout()
	defer cancel()

	fmt.Printf("Generating %d questions on %q...\n", cfg.QuestionCounts.Total(), cfg.Subject)
	resp, err := svc.Generate(ctx, cfg, printProgress)
	session.Dispatch(quiz.SetGenerating{Generating: false})
	if err != nil {
		return err
	}

	for _, e := range resp.Errors {
		fmt.Printf("  warning: %s\n", e)
	}
	for _, d := range resp.Duplicates {
		fmt.Printf("  duplicate: %s\n", d)
	}
	fmt.Printf("Generated %d of %d requested questions.\n", resp.Generated, resp.Requested)

	state := session.Dispatch(quiz.SetQuestions{Questions: resp.Questions})

	if err := writeFile(*outputFile, func(w io.Writer) error { return quiz.Export(w, state) }); err != nil {
		return err
	}
	fmt.Printf("Quiz saved to: %s\n", *outputFile)
	return nil
}

func printProgress(p questions.Progress) {
	switch p.Stage {
	case questions.StageGenerating:
		fmt.Printf("  [%d/%d] %s batch (%d/%d so far)\n", p.Batch, p.TotalBatches, p.Type, p.Generated, p.Requested)
	case questions.StageAggregating:
		fmt.Println("  checking questions...")
	case questions.StageFailed:
		fmt.Println("  generation failed")
	}
}
