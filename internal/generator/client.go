package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/notequiz/backend/internal/config"
)

// ErrEmptyResponse is returned when the model answered without usable content.
var ErrEmptyResponse = errors.New("empty model response")

// LLMClient is the interface every model provider satisfies.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
	// GenerateStructured constrains the reply to schema and returns the
	// resulting JSON document as Content.
	GenerateStructured(ctx context.Context, systemPrompt string, userPrompt string, schema *Schema) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// NewLLMClient builds the client for cfg.Provider, wrapped in the shared
// outbound rate limiter when one is configured.
func NewLLMClient(cfg config.LLMConfig) (LLMClient, error) {
	var llm LLMClient

	switch cfg.Provider {
	case config.ProviderAnthropic:
		llm = NewAPIClient(cfg)
	case config.ProviderOpenAI:
		llm = NewOpenAIClient(cfg)
	case config.ProviderOllama:
		c, err := NewOllamaClient(cfg)
		if err != nil {
			return nil, err
		}
		llm = c
	case config.ProviderCLI:
		return NewCLIClient(cfg), nil
	case config.ProviderMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	if cfg.RequestsPerSecond > 0 {
		llm = NewRateLimitedClient(llm, cfg.RequestsPerSecond, cfg.Burst)
	}
	return llm, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client      *anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

func NewAPIClient(cfg config.LLMConfig) *APIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are owned by the orchestrator.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	client := anthropic.NewClient(opts...)
	return &APIClient{
		client:      &client,
		model:       cfg.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
}

func (c *APIClient) params(systemPrompt, userPrompt string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: param.NewOpt(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	message, err := c.client.Messages.New(ctx, c.params(systemPrompt, userPrompt))
	if err != nil {
		return nil, fmt.Errorf("anthropic API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response: %w", ErrEmptyResponse)
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

// GenerateStructured forces a single tool call whose input schema is the
// requested schema; the tool input is the structured result.
func (c *APIClient) GenerateStructured(ctx context.Context, systemPrompt string, userPrompt string, schema *Schema) (*LLMResponse, error) {
	params := c.params(systemPrompt, userPrompt)
	params.Tools = []anthropic.ToolUnionParam{
		{
			OfTool: &anthropic.ToolParam{
				Name:        schema.Name,
				Description: anthropic.String(schema.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: schema.Definition.Properties,
					Required:   schema.Definition.Required,
				},
			},
		},
	}
	params.ToolChoice = anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{Name: schema.Name},
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API: %w", err)
	}

	var input []byte
	for _, block := range message.Content {
		switch block := block.AsAny().(type) {
		case anthropic.ToolUseBlock:
			if block.Name == schema.Name {
				input = block.Input
			}
		}
	}

	if len(input) == 0 {
		return nil, fmt.Errorf("no %s tool call in API response: %w", schema.Name, ErrEmptyResponse)
	}

	return &LLMResponse{
		Content:      string(input),
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}
