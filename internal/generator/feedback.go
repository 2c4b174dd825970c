package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/notequiz/backend/internal/models"
	"go.opentelemetry.io/otel/codes"
)

// GenerateFeedback asks the model for free-text feedback on a written
// answer. It makes exactly one call.
func (g *Generator) GenerateFeedback(ctx context.Context, req models.FeedbackRequest) (string, error) {
	ctx, span := g.tracer.Start(ctx, "generator.GenerateFeedback")
	defer span.End()

	resp, err := g.llm.Generate(ctx, FeedbackSystemPrompt(), BuildFeedbackPrompt(req))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("generate feedback: %w", err)
	}

	feedback := strings.TrimSpace(resp.Content)
	if feedback == "" {
		span.SetStatus(codes.Error, "empty feedback")
		return "", fmt.Errorf("generate feedback: %w", ErrEmptyResponse)
	}
	return feedback, nil
}
