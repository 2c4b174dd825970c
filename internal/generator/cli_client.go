package generator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/notequiz/backend/internal/config"
)

// CLIClient shells out to a locally installed model CLI for development
// without an API key. The prompt is passed on stdin and the reply read
// from stdout.
type CLIClient struct {
	cliPath string
	model   string
}

func NewCLIClient(cfg config.LLMConfig) *CLIClient {
	return &CLIClient{cliPath: cfg.CLIPath, model: cfg.Model}
}

func (c *CLIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return c.run(ctx, systemPrompt, userPrompt)
}

// GenerateStructured has no tool support to lean on, so the schema goes
// into the system prompt and ParseResponse copes with stray fences.
func (c *CLIClient) GenerateStructured(ctx context.Context, systemPrompt string, userPrompt string, schema *Schema) (*LLMResponse, error) {
	system := systemPrompt + "\n\nRespond with a single JSON object matching this JSON schema and nothing else:\n" + schema.JSON()
	return c.run(ctx, system, userPrompt)
}

func (c *CLIClient) args(systemPrompt string) []string {
	args := []string{
		"--print",
		"--output-format", "text",
		"--system-prompt", systemPrompt,
		"--max-turns", "1",
	}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	return args
}

func (c *CLIClient) run(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, c.cliPath, c.args(systemPrompt)...)
	cmd.Stdin = strings.NewReader(userPrompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w\nstderr: %s", c.cliPath, err, strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return nil, fmt.Errorf("%s returned no output: %w", c.cliPath, ErrEmptyResponse)
	}
	return &LLMResponse{Content: text}, nil
}
