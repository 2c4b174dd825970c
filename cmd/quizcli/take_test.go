package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notequiz/backend/internal/models"
	"github.com/notequiz/backend/internal/quiz"
)

func TestAskAnswer(t *testing.T) {
	mcq := models.Question{Type: models.TypeMCQ, Options: []string{"Red", "Green", "Blue", "Gray"}}
	tf := models.Question{Type: models.TypeTF}
	matching := models.Question{Type: models.TypeMatching}

	tests := []struct {
		name  string
		q     models.Question
		input string
		want  string
		ok    bool
	}{
		{"mcq letter", mcq, "b\n", "Green", true},
		{"mcq retries invalid", mcq, "z\nD\n", "Gray", true},
		{"tf short", tf, "t\n", "True", true},
		{"tf word", tf, "false\n", "False", true},
		{"matching pairs", matching, " L1-R2, L2-R1 \n", "L1-R2, L2-R1", true},
		{"closed input", mcq, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := askAnswer(bufio.NewScanner(strings.NewReader(tt.input)), tt.q)
			if got != tt.want || ok != tt.ok {
				t.Errorf("askAnswer() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRunTake_WritesResults(t *testing.T) {
	dir := t.TempDir()
	quizPath := filepath.Join(dir, "quiz.json")
	resultsPath := filepath.Join(dir, "results.json")

	s := quiz.Reduce(quiz.Initial(), quiz.SetConfig{Config: models.QuizConfig{Subject: "Chemistry", Difficulty: models.DifficultyEasy}})
	s = quiz.Reduce(s, quiz.SetQuestions{Questions: []models.Question{
		{ID: "q1", Type: models.TypeMCQ, Question: "Symbol for gold?", Options: []string{"Ag", "Au", "Gd", "Go"}, Answer: "Au", Difficulty: models.DifficultyEasy},
		{ID: "q2", Type: models.TypeTF, Question: "Water boils at 50C at sea level.", Answer: "False", Difficulty: models.DifficultyEasy},
		{ID: "q3", Type: models.TypeEssay, Question: "Describe an ionic bond.", Answer: "Electrons transfer.", Difficulty: models.DifficultyEasy},
	}})
	f, err := os.Create(quizPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := quiz.Export(f, s); err != nil {
		t.Fatal(err)
	}
	f.Close()

	stdin := strings.NewReader("B\nT\nOppositely charged ions attract.\n")
	err = runTake([]string{"-input", quizPath, "-results", resultsPath, "-feedback=false"}, stdin)
	if err != nil {
		t.Fatalf("runTake() error = %v", err)
	}

	data, err := os.ReadFile(resultsPath)
	if err != nil {
		t.Fatal(err)
	}
	var results quiz.ResultsFile
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("unmarshal results: %v", err)
	}
	if results.Score != 1 || results.TotalAnswered != 3 {
		t.Errorf("score=%d answered=%d, want 1 and 3", results.Score, results.TotalAnswered)
	}
	if results.CompletedAt.IsZero() {
		t.Error("completedAt should be set")
	}
	if err := runReview([]string{"-input", resultsPath}); err != nil {
		t.Errorf("runReview() error = %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "out.json")
	if err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "{}")
		return err
	}); err != nil {
		t.Fatalf("writeFile() error = %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "{}" {
		t.Errorf("file = %q, want {}", data)
	}

	errWrite := errors.New("encode failed")
	if err := writeFile(filepath.Join(dir, "bad.json"), func(io.Writer) error { return errWrite }); !errors.Is(err, errWrite) {
		t.Errorf("writeFile() error = %v, want %v", err, errWrite)
	}

	err := writeFile(filepath.Join(dir, "missing", "out.json"), func(io.Writer) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "create") {
		t.Errorf("writeFile() into missing dir error = %v, want create error", err)
	}
}
