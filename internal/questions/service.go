package questions

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/notequiz/backend/internal/config"
	"github.com/notequiz/backend/internal/generator"
	"github.com/notequiz/backend/internal/metrics"
	"github.com/notequiz/backend/internal/models"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// BatchGenerator produces one batch of questions per call.
type BatchGenerator interface {
	GenerateBatch(ctx context.Context, req generator.BatchRequest) ([]models.Question, error)
}

// FeedbackGenerator produces free-text feedback on a written answer.
type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, req models.FeedbackRequest) (string, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Service struct {
	generator BatchGenerator
	feedback  FeedbackGenerator
	cfg       config.GenerationConfig
	log       *zap.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	sleep     SleepFunc
}

func NewService(gen BatchGenerator, fb FeedbackGenerator, cfg config.GenerationConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		generator: gen,
		feedback:  fb,
		cfg:       cfg,
		log:       log,
		tracer:    otel.Tracer("github.com/notequiz/backend/internal/questions"),
		sleep:     sleepContext,
	}
}

// SetMetrics injects the collectors generation and feedback outcomes are
// recorded to.
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetSleep replaces the wait used for inter-batch delays and retry backoff.
func (s *Service) SetSleep(sleep SleepFunc) {
	s.sleep = sleep
}

// ── Progress ────────────────────────────────────────────

type Stage string

const (
	StageValidating  Stage = "validating"
	StageGenerating  Stage = "generating"
	StageAggregating Stage = "aggregating"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Progress describes one state transition of a generation request. Type
// and Batch are set only while generating; Batch is 1-based.
type Progress struct {
	Stage        Stage
	Type         models.QuestionType
	Batch        int
	TotalBatches int
	Generated    int
	Requested    int
}

type ProgressFunc func(Progress)

// ── Question Generation ─────────────────────────────────

type batchPlan struct {
	qType models.QuestionType
	count int
	// nth batch of this type, 1-based
	typeBatch int
}

// Generate runs every batch for cfg strictly in order and aggregates the
// result. Only input validation and context cancellation stop it early;
// a failed batch contributes nothing and the next one runs.
func (s *Service) Generate(ctx context.Context, cfg models.QuizConfig, progress ProgressFunc) (*models.GenerateQuestionsResponse, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	requested := cfg.QuestionCounts.Total()

	progress(Progress{Stage: StageValidating, Requested: requested})
	if err := s.Validate(cfg); err != nil {
		progress(Progress{Stage: StageFailed, Requested: requested})
		return nil, err
	}

	generationID := uuid.NewString()
	log := s.log.With(zap.String("generation_id", generationID))

	ctx, span := s.tracer.Start(ctx, "questions.Generate", trace.WithAttributes(
		attribute.String("generation.id", generationID),
		attribute.Int("questions.requested", requested),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.GenerationDuration.Observe(time.Since(start).Seconds())
		}
	}()

	plan := s.plan(cfg.QuestionCounts)
	log.Info("starting generation",
		zap.String("subject", cfg.Subject),
		zap.Int("requested", requested),
		zap.Int("batches", len(plan)))

	breakdown := make(map[models.QuestionType]*models.TypeBreakdown)
	for _, qType := range models.QuestionTypes {
		if n := cfg.QuestionCounts[qType]; n > 0 {
			breakdown[qType] = &models.TypeBreakdown{Type: qType, Requested: n}
		}
	}

	var accumulated []models.Question
	var batchErrors []string

	for i, b := range plan {
		// The delay also separates the last batch of one type from the
		// first batch of the next.
		if i > 0 {
			if err := s.sleep(ctx, s.cfg.BatchDelay); err != nil {
				return nil, s.abort(span, progress, requested, fmt.Errorf("generation cancelled: %w", err))
			}
		}

		progress(Progress{
			Stage:        StageGenerating,
			Type:         b.qType,
			Batch:        i + 1,
			TotalBatches: len(plan),
			Generated:    len(accumulated),
			Requested:    requested,
		})

		tb := breakdown[b.qType]
		tb.Batches++

		questions, err := s.runBatch(ctx, log, generator.BatchRequest{
			Type:         b.qType,
			Count:        b.count,
			Subject:      cfg.Subject,
			Difficulty:   cfg.Difficulty,
			Notes:        cfg.Notes,
			StartID:      len(accumulated) + 1,
			BatchIndex:   i,
			TotalBatches: len(plan),
			Previous:     accumulated,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, s.abort(span, progress, requested, fmt.Errorf("generation cancelled: %w", ctx.Err()))
			}
			tb.FailedBatches++
			s.observeBatch(b.qType, "failed")
			batchErrors = append(batchErrors, fmt.Sprintf("%s batch %d: %v", b.qType, b.typeBatch, err))
			log.Warn("batch failed",
				zap.String("type", string(b.qType)),
				zap.Int("batch", i+1),
				zap.Error(err))
			continue
		}

		s.observeBatch(b.qType, "success")
		for _, q := range questions {
			q.ID = fmt.Sprintf("q%d", len(accumulated)+1)
			q.UserAnswer = nil
			accumulated = append(accumulated, q)
		}
		tb.Generated += len(questions)
	}

	progress(Progress{Stage: StageAggregating, Generated: len(accumulated), Requested: requested, TotalBatches: len(plan)})

	valid := lo.Filter(accumulated, func(q models.Question, _ int) bool {
		return q.HasRequiredFields()
	})

	if len(valid) == 0 {
		log.Error("no valid questions generated", zap.Strings("errors", batchErrors))
		return nil, s.abort(span, progress, requested, &GenerationError{Errors: batchErrors})
	}

	duplicates := findDuplicates(valid)
	for _, d := range duplicates {
		log.Warn("duplicate question text", zap.String("detail", d))
	}

	nearDuplicates := generator.FindNearDuplicates(lo.Map(valid, func(q models.Question, _ int) string {
		return q.Question
	}))
	for _, nd := range nearDuplicates {
		log.Warn("near-duplicate questions",
			zap.String("first", valid[nd.First].ID),
			zap.String("second", valid[nd.Second].ID),
			zap.Float64("similarity", nd.Similarity))
	}

	for qType, n := range lo.CountValuesBy(valid, func(q models.Question) models.QuestionType { return q.Type }) {
		if s.metrics != nil {
			s.metrics.QuestionsTotal.WithLabelValues(string(qType)).Add(float64(n))
		}
	}

	resp := &models.GenerateQuestionsResponse{
		Questions:     valid,
		Generated:     len(valid),
		Requested:     requested,
		ContentLength: utf8.RuneCountInString(cfg.Notes),
		SectionsUsed:  len(plan),
		Breakdown: lo.FilterMap(models.QuestionTypes, func(t models.QuestionType, _ int) (models.TypeBreakdown, bool) {
			tb, ok := breakdown[t]
			if !ok {
				return models.TypeBreakdown{}, false
			}
			return *tb, true
		}),
		Errors:         batchErrors,
		Duplicates:     duplicates,
		NearDuplicates: len(nearDuplicates),
	}

	if resp.Generated < requested {
		log.Warn("partial generation",
			zap.Int("requested", requested),
			zap.Int("generated", resp.Generated))
	}
	log.Info("generation complete",
		zap.Int("generated", resp.Generated),
		zap.Int("failed_batches", len(batchErrors)),
		zap.Duration("elapsed", time.Since(start)))

	span.SetAttributes(attribute.Int("questions.generated", resp.Generated))
	progress(Progress{Stage: StageDone, Generated: resp.Generated, Requested: requested, TotalBatches: len(plan)})
	return resp, nil
}

// Validate checks a generation request without calling the model.
func (s *Service) Validate(cfg models.QuizConfig) error {
	var problems []string

	// Each count is bounded before summing so the total cannot overflow.
	total := 0
	countsOK := true
	types := lo.Keys(cfg.QuestionCounts)
	slices.Sort(types)
	for _, qType := range types {
		n := cfg.QuestionCounts[qType]
		switch {
		case !models.ValidQuestionTypes[qType]:
			problems = append(problems, fmt.Sprintf("unknown question type %q", qType))
		case n < 0:
			countsOK = false
			problems = append(problems, fmt.Sprintf("%s count must not be negative", qType))
		case n > s.cfg.MaxQuestions:
			countsOK = false
			problems = append(problems, fmt.Sprintf("%s count must be at most %d, got %d", qType, s.cfg.MaxQuestions, n))
		default:
			total += n
		}
	}

	if countsOK {
		if total <= 0 {
			problems = append(problems, "at least one question must be requested")
		} else if total > s.cfg.MaxQuestions {
			problems = append(problems, fmt.Sprintf("at most %d questions can be requested, got %d", s.cfg.MaxQuestions, total))
		}
	}

	if !models.ValidDifficulties[cfg.Difficulty] {
		problems = append(problems, "difficulty must be Easy, Medium or Hard")
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(cfg.Notes)); n < s.cfg.MinNotesLength {
		problems = append(problems, fmt.Sprintf("notes must be at least %d characters, got %d", s.cfg.MinNotesLength, n))
	}

	if len(problems) > 0 {
		return &InputError{Problems: problems}
	}
	return nil
}

// plan splits each requested type into batches no larger than its
// configured size, in the fixed type order.
func (s *Service) plan(counts models.QuestionCounts) []batchPlan {
	var plan []batchPlan
	for _, qType := range models.QuestionTypes {
		remaining := counts[qType]
		size := s.cfg.BatchSizes.For(qType)
		if size <= 0 {
			size = 1
		}
		for n := 1; remaining > 0; n++ {
			count := min(size, remaining)
			plan = append(plan, batchPlan{qType: qType, count: count, typeBatch: n})
			remaining -= count
		}
	}
	return plan
}

// maxBackoff caps the wait between retries of one batch.
const maxBackoff = 30 * time.Second

// runBatch calls the generator, retrying up to the configured number of
// extra attempts with exponential backoff.
func (s *Service) runBatch(ctx context.Context, log *zap.Logger, req generator.BatchRequest) ([]models.Question, error) {
	for attempt := 0; ; attempt++ {
		questions, err := s.generator.GenerateBatch(ctx, req)
		if err == nil {
			return questions, nil
		}
		if attempt >= s.cfg.BatchRetries || ctx.Err() != nil {
			return nil, err
		}

		backoff := maxBackoff
		if attempt < 5 {
			backoff = time.Second << attempt
		}
		log.Info("retrying batch",
			zap.String("type", string(req.Type)),
			zap.Int("attempt", attempt+2),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		if serr := s.sleep(ctx, backoff); serr != nil {
			return nil, err
		}
	}
}

func (s *Service) abort(span trace.Span, progress ProgressFunc, requested int, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	progress(Progress{Stage: StageFailed, Requested: requested})
	return err
}

func (s *Service) observeBatch(qType models.QuestionType, status string) {
	if s.metrics != nil {
		s.metrics.BatchesTotal.WithLabelValues(string(qType), status).Inc()
	}
}

// findDuplicates reports questions whose text repeats an earlier one,
// ignoring case and surrounding space. Nothing is removed.
func findDuplicates(questions []models.Question) []string {
	seen := make(map[string]string, len(questions))
	var dups []string
	for _, q := range questions {
		key := strings.ToLower(strings.TrimSpace(q.Question))
		if first, ok := seen[key]; ok {
			dups = append(dups, fmt.Sprintf("%s duplicates %s", q.ID, first))
			continue
		}
		seen[key] = q.ID
	}
	return dups
}

// ── Feedback ────────────────────────────────────────────

func (s *Service) Feedback(ctx context.Context, req models.FeedbackRequest) (string, error) {
	var problems []string
	if strings.TrimSpace(req.Question) == "" {
		problems = append(problems, "question is required")
	}
	if strings.TrimSpace(req.UserAnswer) == "" {
		problems = append(problems, "userAnswer is required")
	}
	if len(problems) > 0 {
		return "", &InputError{Problems: problems}
	}

	feedback, err := s.feedback.GenerateFeedback(ctx, req)
	if err != nil {
		s.observeFeedback("error")
		s.log.Warn("feedback generation failed", zap.Error(err))
		return "", err
	}
	s.observeFeedback("success")
	return feedback, nil
}

func (s *Service) observeFeedback(status string) {
	if s.metrics != nil {
		s.metrics.FeedbackTotal.WithLabelValues(status).Inc()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
