package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"quiz-forge/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LanguageChoice is one of the two answers accepted by the language prompt.
type LanguageChoice string

const (
	ChoiceDefault   LanguageChoice = "default"
	ChoiceAlternate LanguageChoice = "alternate"
)

var (
	errPromptAbandoned = errors.New("language prompt abandoned")
	errPromptTimeout   = errors.New("language prompt timed out")
)

type pendingPrompt struct {
	prompt    domain.LanguagePrompt
	answer    chan string
	abandoned chan struct{}
	once      sync.Once
}

func (p *pendingPrompt) abandon() {
	p.once.Do(func() { close(p.abandoned) })
}

// LanguageGate asks the user which language to generate in when the source looks foreign.
// At most one prompt is pending; a newer prompt abandons the older one.
type LanguageGate struct {
	mu       sync.Mutex
	prompter domain.LanguagePrompter
	timeout  time.Duration
	pending  *pendingPrompt
	logger   *zap.Logger
}

// NewLanguageGate creates a gate. A zero timeout waits until the context ends.
func NewLanguageGate(prompter domain.LanguagePrompter, timeout time.Duration, logger *zap.Logger) *LanguageGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LanguageGate{prompter: prompter, timeout: timeout, logger: logger}
}

// Choose presents the prompt and blocks until the user answers. Every way of not answering
// (context cancelled, timeout, Abandon, a newer prompt) yields a cancellation error.
func (g *LanguageGate) Choose(ctx context.Context, sample, defaultLang, alternate string) (string, error) {
	p := &pendingPrompt{
		prompt: domain.LanguagePrompt{
			ID:        uuid.NewString(),
			Sample:    detectionSample(sample),
			Default:   defaultLang,
			Alternate: alternate,
		},
		answer:    make(chan string, 1),
		abandoned: make(chan struct{}),
	}

	g.mu.Lock()
	if g.pending != nil {
		g.pending.abandon()
	}
	g.pending = p
	g.mu.Unlock()

	defer g.clear(p)

	if g.prompter == nil {
		return "", domain.NewCancelledError(errors.New("no language prompter configured"))
	}
	g.logger.Debug("Awaiting output language choice",
		zap.String("prompt_id", p.prompt.ID),
		zap.String("default", defaultLang),
		zap.String("alternate", alternate))
	g.prompter.PromptLanguage(p.prompt)

	var timeout <-chan time.Time
	if g.timeout > 0 {
		t := time.NewTimer(g.timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case lang := <-p.answer:
		return lang, nil
	case <-p.abandoned:
		return "", domain.NewCancelledError(errPromptAbandoned)
	case <-timeout:
		g.logger.Info("Language prompt timed out", zap.String("prompt_id", p.prompt.ID))
		return "", domain.NewCancelledError(errPromptTimeout)
	case <-ctx.Done():
		return "", domain.NewCancelledError(ctx.Err())
	}
}

// Resolve answers the pending prompt. An empty promptID targets whichever prompt is pending.
func (g *LanguageGate) Resolve(promptID string, choice LanguageChoice) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.pending
	if p == nil || (promptID != "" && promptID != p.prompt.ID) {
		return domain.NewNotFoundError("no pending language prompt")
	}

	var lang string
	switch choice {
	case ChoiceDefault:
		lang = p.prompt.Default
	case ChoiceAlternate:
		lang = p.prompt.Alternate
	default:
		return domain.NewValidationError("language choice must be default or alternate")
	}

	p.answer <- lang
	g.pending = nil
	return nil
}

// Abandon dismisses the pending prompt without a choice. It reports whether one was pending.
func (g *LanguageGate) Abandon() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return false
	}
	g.pending.abandon()
	g.pending = nil
	return true
}

// Pending returns the prompt currently awaiting an answer.
func (g *LanguageGate) Pending() (domain.LanguagePrompt, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return domain.LanguagePrompt{}, false
	}
	return g.pending.prompt, true
}

func (g *LanguageGate) clear(p *pendingPrompt) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == p {
		g.pending = nil
	}
}
