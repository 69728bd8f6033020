package service

import (
	"context"
	"fmt"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/metrics"
	"quiz-forge/internal/util"

	"go.uber.org/zap"
)

// ModelRequester issues one logical generation request, falling back across models.
type ModelRequester interface {
	Request(ctx context.Context, payload *domain.UpstreamPayload) (*domain.UpstreamResult, error)
}

// QuestionGenerator produces the full normalized question list for a request.
type QuestionGenerator interface {
	Generate(ctx context.Context, req *domain.GenerationRequest) ([]*domain.Question, error)
}

// BatchOptions configures a BatchOrchestrator.
type BatchOptions struct {
	BatchSize        int
	DefaultTimeLimit int
	Temperature      float64
}

// BatchOrchestrator splits a request into fixed-size batches and runs them in sequence.
type BatchOrchestrator struct {
	requester ModelRequester
	parser    *ResponseParser
	progress  domain.ProgressNotifier
	opts      BatchOptions
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewBatchOrchestrator creates a new instance of BatchOrchestrator.
func NewBatchOrchestrator(
	requester ModelRequester,
	parser *ResponseParser,
	progress domain.ProgressNotifier,
	opts BatchOptions,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BatchOrchestrator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 8
	}
	if opts.DefaultTimeLimit <= 0 {
		opts.DefaultTimeLimit = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchOrchestrator{
		requester: requester,
		parser:    parser,
		progress:  progress,
		opts:      opts,
		metrics:   m,
		logger:    logger,
	}
}

// Generate runs every batch of req and returns the concatenated questions in batch order.
// The operation is all-or-nothing: the first failing batch discards everything.
func (o *BatchOrchestrator) Generate(ctx context.Context, req *domain.GenerationRequest) ([]*domain.Question, error) {
	in := req.Inputs
	batches := util.SplitIntoBatches(in.Count, o.opts.BatchSize)

	o.logger.Info("Starting batched generation",
		zap.String("request_id", req.ID),
		zap.Int("total", in.Count),
		zap.Int("batches", len(batches)),
		zap.String("type", string(in.Type)),
		zap.String("language", req.Language))

	normalizeOpts := NormalizeOptions{
		BatchType:        in.Type,
		Style:            in.Style,
		Language:         req.Language,
		DefaultTimeLimit: o.opts.DefaultTimeLimit,
	}

	var questions []*domain.Question
	for i, size := range batches {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewCancelledError(err)
		}
		o.notify(ctx, fmt.Sprintf("Generating batch %d/%d (%d questions)", i+1, len(batches), size))

		payload := BuildPayload(BatchPrompt{
			Count:      size,
			Type:       in.Type,
			Difficulty: in.Difficulty,
			Style:      in.Style,
			Language:   req.Language,
			Text:       in.Text,
			HasImages:  len(in.Images) > 0,
		}, in.Images, o.opts.Temperature)

		batch, err := o.runBatch(ctx, payload, normalizeOpts)
		if err != nil {
			if domain.IsCancelled(err) {
				return nil, err
			}
			o.metrics.Batch(metrics.OutcomeError)
			o.logger.Error("Batch failed, discarding partial results",
				zap.String("request_id", req.ID),
				zap.Int("batch", i+1),
				zap.Int("discarded", len(questions)),
				zap.Error(err))
			return nil, err
		}
		o.metrics.Batch(metrics.OutcomeSuccess)
		questions = append(questions, batch...)
	}

	if len(questions) == 0 {
		return nil, domain.NewGenerationError("empty result")
	}

	o.logger.Info("Batched generation finished",
		zap.String("request_id", req.ID),
		zap.Int("requested", in.Count),
		zap.Int("generated", len(questions)))
	return questions, nil
}

func (o *BatchOrchestrator) runBatch(ctx context.Context, payload *domain.UpstreamPayload, opts NormalizeOptions) ([]*domain.Question, error) {
	result, err := o.requester.Request(ctx, payload)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewCancelledError(err)
	}

	records, err := o.parser.Parse(result.Text)
	if err != nil {
		return nil, err
	}

	questions := make([]*domain.Question, 0, len(records))
	for i, rec := range records {
		q, err := NormalizeRecord(rec, opts)
		if err != nil {
			o.logger.Warn("Skipping question record that cannot be normalized",
				zap.String("model", result.Model),
				zap.Int("index", i),
				zap.Any("record", rec),
				zap.Error(err))
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (o *BatchOrchestrator) notify(ctx context.Context, message string) {
	if o.progress == nil || ctx.Err() != nil {
		return
	}
	o.progress.ShowProgress(message)
}

var _ QuestionGenerator = (*BatchOrchestrator)(nil)
