package generator

import (
	"context"
	"fmt"

	"github.com/notequiz/backend/internal/content"
	"github.com/notequiz/backend/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Options tunes prompt construction.
type Options struct {
	Model string
	// TopicsPerBatch is how many focus sentences are pulled from each chunk.
	TopicsPerBatch int
	// AvoidLimit caps how many earlier question texts are listed as
	// already asked.
	AvoidLimit int
}

// Generator wraps an LLMClient and adds quiz-specific batch methods.
type Generator struct {
	llm    LLMClient
	opts   Options
	log    *zap.Logger
	tracer trace.Tracer
}

func NewGenerator(llm LLMClient, opts Options, log *zap.Logger) *Generator {
	if opts.TopicsPerBatch <= 0 {
		opts.TopicsPerBatch = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		llm:    llm,
		opts:   opts,
		log:    log,
		tracer: otel.Tracer("github.com/notequiz/backend/internal/generator"),
	}
}

func (g *Generator) ModelName() string {
	return g.opts.Model
}

// BatchRequest describes one model call.
type BatchRequest struct {
	Type         models.QuestionType
	Count        int
	Subject      string
	Difficulty   models.Difficulty
	Notes        string
	StartID      int
	BatchIndex   int
	TotalBatches int
	// Previous holds every question accepted so far in this generation.
	Previous []models.Question
}

// GenerateBatch issues one structured call and returns the questions that
// pass validation. Items missing a required field are dropped; if nothing
// survives the error describes why.
func (g *Generator) GenerateBatch(ctx context.Context, req BatchRequest) ([]models.Question, error) {
	ctx, span := g.tracer.Start(ctx, "generator.GenerateBatch", trace.WithAttributes(
		attribute.String("question.type", string(req.Type)),
		attribute.Int("batch.index", req.BatchIndex),
		attribute.Int("batch.count", req.Count),
	))
	defer span.End()

	questions, err := g.generateBatch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("batch.accepted", len(questions)))
	return questions, nil
}

func (g *Generator) generateBatch(ctx context.Context, req BatchRequest) ([]models.Question, error) {
	chunk := content.Chunk(req.Notes, req.BatchIndex, req.TotalBatches)

	userPrompt := BuildBatchUserPrompt(PromptInput{
		Type:       req.Type,
		Count:      req.Count,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		StartID:    req.StartID,
		Chunk:      chunk,
		Topics:     content.ExtractTopics(chunk, g.opts.TopicsPerBatch),
		Avoid:      avoidList(req.Previous, g.opts.AvoidLimit),
	})

	resp, err := g.llm.GenerateStructured(ctx, BatchSystemPrompt(), userPrompt, BatchSchema())
	if err != nil {
		return nil, fmt.Errorf("generate %s batch: %w", req.Type, err)
	}

	batch, err := ParseResponse(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s response: %w", req.Type, err)
	}

	kept, rejected := ToQuestions(batch, req.Type)
	for _, reason := range rejected {
		g.log.Warn("rejected generated question",
			zap.String("type", string(req.Type)),
			zap.Int("batch", req.BatchIndex),
			zap.String("reason", reason))
	}
	if len(kept) == 0 {
		errs := rejected
		if len(errs) == 0 {
			errs = []string{"no question had every required field"}
		}
		return nil, fmt.Errorf("validate %s batch: %w", req.Type, &ValidationError{Errors: errs})
	}

	if len(kept) > req.Count {
		g.log.Warn("model returned more questions than requested",
			zap.String("type", string(req.Type)),
			zap.Int("requested", req.Count),
			zap.Int("returned", len(kept)))
		kept = kept[:req.Count]
	}

	for i := range kept {
		kept[i].Difficulty = req.Difficulty
	}

	g.log.Debug("batch generated",
		zap.String("type", string(req.Type)),
		zap.Int("batch", req.BatchIndex),
		zap.Int("accepted", len(kept)),
		zap.Int("prompt_tokens", resp.PromptTokens),
		zap.Int("output_tokens", resp.OutputTokens))

	return kept, nil
}

// avoidList returns the most recent question texts, newest last.
func avoidList(previous []models.Question, limit int) []string {
	if limit > 0 && len(previous) > limit {
		previous = previous[len(previous)-limit:]
	}
	texts := make([]string, 0, len(previous))
	for _, q := range previous {
		texts = append(texts, q.Question)
	}
	return texts
}
