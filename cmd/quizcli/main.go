package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/notequiz/backend/internal/app"
	"github.com/notequiz/backend/internal/config"
	"github.com/notequiz/backend/internal/logger"
	"github.com/notequiz/backend/internal/questions"
	"go.uber.org/zap"
)

const usage = `Usage: quizcli <command> [flags]

Commands:
  generate   Generate a quiz from a notes file and save it as JSON
  take       Take a saved quiz in the terminal and save the results
  review     Print a saved quiz or results file with answers

Run "quizcli <command> -h" for command flags.`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "take":
		err = runTake(os.Args[2:], os.Stdin)
	case "review":
		err = runReview(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// newService loads configuration and builds the same question service the
// HTTP server uses. Logging stays at warn unless verbose is set so it does
// not drown the interactive output.
func newService(configDir string, verbose bool) (*questions.Service, *zap.Logger, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if !verbose {
		cfg.Log.Level = "warn"
	}
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	svc, err := app.NewService(cfg, zlog)
	if err != nil {
		return nil, nil, err
	}
	return svc, zlog, nil
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Minute)
}

func readLine(scanner *bufio.Scanner, prompt string) (string, bool) {
	fmt.Print(prompt)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// writeFile creates path, fills it with write and closes it. A failed
// Close is reported since buffered data may not have reached the disk.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
