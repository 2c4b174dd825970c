package generator

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedClient spaces out calls to the wrapped client. One instance is
// shared by every request in the process.
type RateLimitedClient struct {
	next    LLMClient
	limiter *rate.Limiter
}

func NewRateLimitedClient(next LLMClient, requestsPerSecond float64, burst int) *RateLimitedClient {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (c *RateLimitedClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return c.next.Generate(ctx, systemPrompt, userPrompt)
}

func (c *RateLimitedClient) GenerateStructured(ctx context.Context, systemPrompt string, userPrompt string, schema *Schema) (*LLMResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return c.next.GenerateStructured(ctx, systemPrompt, userPrompt, schema)
}
