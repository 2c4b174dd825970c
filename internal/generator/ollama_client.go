package generator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/notequiz/backend/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaClient runs against a local Ollama server. Ollama has no forced
// tool call, so structured output uses JSON mode with the schema inlined
// in the system prompt.
type OllamaClient struct {
	llm         llms.Model
	maxTokens   int
	temperature float64
}

func NewOllamaClient(cfg config.LLMConfig) (*OllamaClient, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return newOllamaClient(llm, cfg), nil
}

func newOllamaClient(llm llms.Model, cfg config.LLMConfig) *OllamaClient {
	return &OllamaClient{llm: llm, maxTokens: cfg.MaxTokens, temperature: cfg.Temperature}
}

func (c *OllamaClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return c.generate(ctx, systemPrompt, userPrompt)
}

func (c *OllamaClient) GenerateStructured(ctx context.Context, systemPrompt string, userPrompt string, schema *Schema) (*LLMResponse, error) {
	system := systemPrompt + "\n\nRespond with a single JSON object matching this JSON schema and nothing else:\n" + schema.JSON()
	return c.generate(ctx, system, userPrompt, llms.WithJSONMode())
}

func (c *OllamaClient) generate(ctx context.Context, systemPrompt, userPrompt string, extra ...llms.CallOption) (*LLMResponse, error) {
	messageHistory := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	opts := []llms.CallOption{llms.WithTemperature(c.temperature)}
	if c.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.maxTokens))
	}
	opts = append(opts, extra...)

	resp, err := c.llm.GenerateContent(ctx, messageHistory, opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return nil, fmt.Errorf("no content in ollama response: %w", ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	return &LLMResponse{
		Content:      choice.Content,
		PromptTokens: intInfo(choice.GenerationInfo, "PromptTokens"),
		OutputTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
	}, nil
}

func intInfo(info map[string]any, key string) int {
	if v, ok := info[key].(int); ok {
		return v
	}
	return 0
}
