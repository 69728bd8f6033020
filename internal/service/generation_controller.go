package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ControllerOptions configures a GenerationController.
type ControllerOptions struct {
	DefaultLanguage   string
	AlternateLanguage string
}

// GenerationController owns the request lifecycle and is the only writer of the session.
// At most one generation is live; starting another cancels it.
type GenerationController struct {
	mu      sync.Mutex
	session *GenerationSession
	seq     uint64
	cancel  context.CancelFunc
	running string
	wg      sync.WaitGroup

	generator QuestionGenerator
	gate      *LanguageGate
	renderer  domain.Renderer
	prefs     domain.PreferenceStore
	opts      ControllerOptions
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewGenerationController creates a new instance of GenerationController.
func NewGenerationController(
	generator QuestionGenerator,
	gate *LanguageGate,
	renderer domain.Renderer,
	prefs domain.PreferenceStore,
	opts ControllerOptions,
	m *metrics.Metrics,
	logger *zap.Logger,
) *GenerationController {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "zh-TW"
	}
	if opts.AlternateLanguage == "" {
		opts.AlternateLanguage = "en"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationController{
		session:   NewGenerationSession(),
		generator: generator,
		gate:      gate,
		renderer:  renderer,
		prefs:     prefs,
		opts:      opts,
		metrics:   m,
		logger:    logger,
	}
}

type runToken struct {
	ctx   context.Context
	seq   uint64
	req   *domain.GenerationRequest
	start time.Time
}

// Run generates questions for in and blocks until the run finishes or is superseded.
// A superseded run returns a cancellation error and leaves the session untouched.
func (c *GenerationController) Run(ctx context.Context, in domain.GenerationInputs) error {
	tok, err := c.begin(ctx, in)
	if err != nil {
		return err
	}
	defer c.finish(tok)
	return c.execute(tok)
}

// Start supersedes any live run and generates in the background. The returned request ID
// identifies the run in renderer callbacks.
func (c *GenerationController) Start(in domain.GenerationInputs) (string, error) {
	tok, err := c.begin(context.Background(), in)
	if err != nil {
		return "", err
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.finish(tok)
		if err := c.execute(tok); err != nil && !domain.IsCancelled(err) {
			c.logger.Debug("Background generation ended with error",
				zap.String("request_id", tok.req.ID), zap.Error(err))
		}
	}()
	return tok.req.ID, nil
}

// Regenerate starts a new run from the inputs of the last run.
func (c *GenerationController) Regenerate() (string, error) {
	c.mu.Lock()
	last := c.session.lastInputs
	c.mu.Unlock()
	if last == nil {
		return "", domain.NewValidationError("nothing to regenerate yet")
	}
	return c.Start(*last)
}

// begin validates the inputs and swaps in a fresh cancellation token.
func (c *GenerationController) begin(ctx context.Context, in domain.GenerationInputs) (*runToken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := in.Validate(); err != nil {
		c.metrics.Generation(metrics.OutcomeInvalid, 0)
		c.session.fail(domain.UserMessage(err))
		if c.renderer != nil {
			c.renderer.ShowError("", domain.UserMessage(err))
		}
		return nil, err
	}

	c.cancelLocked()
	c.seq++
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	req := &domain.GenerationRequest{ID: uuid.NewString(), Inputs: in}
	c.running = req.ID
	c.session.remember(in)
	return &runToken{ctx: runCtx, seq: c.seq, req: req, start: time.Now()}, nil
}

func (c *GenerationController) execute(tok *runToken) error {
	req := tok.req
	lang, err := c.resolveLanguage(tok.ctx, req.Inputs.Text)
	if err != nil {
		return c.fail(tok, err)
	}
	req.Language = lang

	if !c.notifyLoading(tok) {
		return c.fail(tok, domain.NewCancelledError(context.Canceled))
	}

	c.logger.Info("Generation started",
		zap.String("request_id", req.ID),
		zap.Int("count", req.Inputs.Count),
		zap.String("type", string(req.Inputs.Type)),
		zap.String("language", lang))

	questions, err := c.generator.Generate(tok.ctx, req)
	if err != nil {
		return c.fail(tok, err)
	}
	return c.commit(tok, questions)
}

// resolveLanguage picks the output language, consulting the gate for foreign sources.
func (c *GenerationController) resolveLanguage(ctx context.Context, text string) (string, error) {
	def := c.defaultLanguage(ctx)
	if c.gate == nil || !IsForeignSource(text, def) {
		return def, nil
	}
	return c.gate.Choose(ctx, text, def, c.opts.AlternateLanguage)
}

func (c *GenerationController) defaultLanguage(ctx context.Context) string {
	if c.prefs == nil {
		return c.opts.DefaultLanguage
	}
	v, err := c.prefs.Get(ctx, domain.PrefOutputLanguage)
	if err != nil {
		if !errors.Is(err, domain.ErrPreferenceNotSet) {
			c.logger.Warn("Failed to read output language preference", zap.Error(err))
		}
		return c.opts.DefaultLanguage
	}
	if v = strings.TrimSpace(v); v == "" || !ValidLanguageTag(v) {
		return c.opts.DefaultLanguage
	}
	return v
}

// current reports whether tok still owns the session. Callers hold c.mu.
func (c *GenerationController) current(tok *runToken) bool {
	return tok.seq == c.seq && tok.ctx.Err() == nil
}

func (c *GenerationController) notifyLoading(tok *runToken) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(tok) {
		return false
	}
	if c.renderer != nil {
		c.renderer.ShowLoading(tok.req.ID)
	}
	return true
}

func (c *GenerationController) commit(tok *runToken, questions []*domain.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(tok) {
		c.logger.Info("Discarding result of superseded generation",
			zap.String("request_id", tok.req.ID),
			zap.Int("questions", len(questions)))
		c.metrics.Generation(metrics.OutcomeCancelled, 0)
		return domain.NewCancelledError(context.Canceled)
	}
	c.session.commit(questions, tok.req.Language)
	if c.renderer != nil {
		c.renderer.RenderQuestions(tok.req.ID, domain.CloneQuestions(questions))
	}
	c.metrics.Generation(metrics.OutcomeSuccess, time.Since(tok.start))
	c.logger.Info("Generation committed",
		zap.String("request_id", tok.req.ID),
		zap.Int("questions", len(questions)),
		zap.Duration("elapsed", time.Since(tok.start)))
	return nil
}

// fail reports err unless the run was cancelled or superseded, in which case it stays silent.
func (c *GenerationController) fail(tok *runToken, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if domain.IsCancelled(err) || !c.current(tok) {
		c.metrics.Generation(metrics.OutcomeCancelled, 0)
		c.logger.Debug("Generation cancelled", zap.String("request_id", tok.req.ID), zap.Error(err))
		if !domain.IsCancelled(err) {
			return domain.NewCancelledError(err)
		}
		return err
	}

	fields := []zap.Field{zap.String("request_id", tok.req.ID), zap.Error(err)}
	if raw, ok := domain.RawResponse(err); ok {
		fields = append(fields, zap.String("raw_response", raw))
	}
	c.logger.Error("Generation failed", fields...)
	c.metrics.Generation(metrics.OutcomeError, 0)

	msg := domain.UserMessage(err)
	c.session.fail(msg)
	if c.renderer != nil {
		c.renderer.ShowError(tok.req.ID, msg)
	}
	return err
}

func (c *GenerationController) finish(tok *runToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok.seq == c.seq && c.cancel != nil {
		c.cancel()
		c.cancel = nil
		c.running = ""
	}
}

func (c *GenerationController) cancelLocked() bool {
	if c.cancel == nil {
		return false
	}
	c.logger.Info("Cancelling in-flight generation", zap.String("request_id", c.running))
	c.cancel()
	c.cancel = nil
	c.running = ""
	c.seq++
	if c.gate != nil {
		c.gate.Abandon()
	}
	return true
}

// Cancel aborts the live run, if any, without touching the question list.
func (c *GenerationController) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelLocked()
}

// InFlight returns the ID of the live run.
func (c *GenerationController) InFlight() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running, c.running != ""
}

// Clear cancels the live run and empties the session.
func (c *GenerationController) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.session.reset()
	if c.renderer != nil {
		c.renderer.RenderQuestions("", nil)
	}
}

// Snapshot returns a copy of the session state.
func (c *GenerationController) Snapshot() SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.snapshot()
}

// Questions returns a copy of the current question list.
func (c *GenerationController) Questions() []*domain.Question {
	return c.Snapshot().Questions
}

// Edits cancel any live run first so a late result never overwrites mid-edit state.

func (c *GenerationController) UpdateQuestion(id string, patch QuestionPatch) (*domain.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	return c.session.update(id, patch)
}

func (c *GenerationController) DeleteQuestion(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	return c.session.remove(id)
}

func (c *GenerationController) DuplicateQuestion(id string) (*domain.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	return c.session.duplicate(id)
}

func (c *GenerationController) MoveQuestion(id string, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	return c.session.move(id, to)
}

// Shutdown cancels the live run and waits for background runs to unwind.
func (c *GenerationController) Shutdown(ctx context.Context) error {
	c.Cancel()
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
