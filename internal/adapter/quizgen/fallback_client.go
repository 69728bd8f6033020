package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/metrics"

	"go.uber.org/zap"
)

// ModelFallbackClient sends one logical request to a prioritized list of models and returns
// the first success. A failing model is never retried; the next one is tried immediately.
type ModelFallbackClient struct {
	caller   domain.ModelCaller
	models   []string
	timeout  time.Duration
	progress domain.ProgressNotifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewModelFallbackClient creates a new instance of ModelFallbackClient.
// A zero timeout leaves each call bounded only by the request context.
func NewModelFallbackClient(
	caller domain.ModelCaller,
	models []string,
	timeout time.Duration,
	progress domain.ProgressNotifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*ModelFallbackClient, error) {
	if caller == nil {
		return nil, fmt.Errorf("model caller cannot be nil")
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("at least one model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelFallbackClient{
		caller:   caller,
		models:   append([]string(nil), models...),
		timeout:  timeout,
		progress: progress,
		metrics:  m,
		logger:   logger,
	}, nil
}

// Models returns the fallback order.
func (c *ModelFallbackClient) Models() []string {
	return append([]string(nil), c.models...)
}

// Request tries every model in order. When all fail, the error carries the last failure
// message verbatim.
func (c *ModelFallbackClient) Request(ctx context.Context, payload *domain.UpstreamPayload) (*domain.UpstreamResult, error) {
	var lastErr error
	attempts := 0

	for i, model := range c.models {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewCancelledError(err)
		}
		attempts++
		c.notify(ctx, fmt.Sprintf("Trying model %s (%d/%d)", model, i+1, len(c.models)))

		text, err := c.call(ctx, model, payload)
		if err == nil {
			c.metrics.ModelAttempt(model, metrics.OutcomeSuccess)
			c.logger.Info("Model call succeeded", zap.String("model", model), zap.Int("attempt", attempts))
			return &domain.UpstreamResult{Model: model, Text: text}, nil
		}

		// The parent context ending is not a model failure.
		if ctx.Err() != nil {
			c.metrics.ModelAttempt(model, metrics.OutcomeCancelled)
			return nil, domain.NewCancelledError(ctx.Err())
		}

		c.metrics.ModelAttempt(model, metrics.OutcomeError)
		lastErr = describeModelError(model, err)
		c.logger.Warn("Model call failed, falling back",
			zap.String("model", model),
			zap.Int("attempt", attempts),
			zap.Int("remaining", len(c.models)-attempts),
			zap.Error(err))
	}

	c.logger.Error("All models failed", zap.Int("attempts", attempts), zap.Error(lastErr))
	return nil, domain.NewAllModelsFailedError(attempts, lastErr)
}

func (c *ModelFallbackClient) call(ctx context.Context, model string, payload *domain.UpstreamPayload) (string, error) {
	if c.timeout <= 0 {
		return c.caller.GenerateContent(ctx, model, payload)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.caller.GenerateContent(callCtx, model, payload)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return "", fmt.Errorf("request timed out after %s: %w", c.timeout, err)
	}
	return text, err
}

func (c *ModelFallbackClient) notify(ctx context.Context, message string) {
	if c.progress == nil || ctx.Err() != nil {
		return
	}
	c.progress.ShowProgress(message)
}

// describeModelError points at the model when the upstream says it does not exist, keeping
// the upstream message intact.
func describeModelError(model string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not found") || strings.Contains(msg, "not supported") {
		return fmt.Errorf("model %s is unavailable: %w", model, err)
	}
	return err
}
