package renderer

import (
	"sync"

	"quiz-forge/internal/domain"
)

// Status is the presentation state exposed to API clients.
type Status string

const (
	StatusIdle             Status = "idle"
	StatusLoading          Status = "loading"
	StatusAwaitingLanguage Status = "awaiting_language"
	StatusReady            Status = "ready"
	StatusError            Status = "error"
)

// ViewState is a snapshot of what a UI would currently show.
type ViewState struct {
	Status        Status                 `json:"status"`
	RequestID     string                 `json:"request_id,omitempty"`
	Progress      string                 `json:"progress,omitempty"`
	Error         string                 `json:"error,omitempty"`
	Prompt        *domain.LanguagePrompt `json:"language_prompt,omitempty"`
	QuestionCount int                    `json:"question_count"`
}

// ViewRenderer keeps the latest renderer callbacks as a pollable view state.
// Cancellations are never reported to a renderer, so State consults the bound sources to
// settle a loading or prompting view whose run has gone away.
type ViewRenderer struct {
	mu        sync.Mutex
	state     ViewState
	questions bool
	// version changes on every callback so State can tell whether its samples are stale.
	version uint64

	inFlight func() (string, bool)
	pending  func() (domain.LanguagePrompt, bool)
}

func NewViewRenderer() *ViewRenderer {
	return &ViewRenderer{state: ViewState{Status: StatusIdle}}
}

// Bind wires the sources used to detect silently cancelled runs.
func (v *ViewRenderer) Bind(inFlight func() (string, bool), pending func() (domain.LanguagePrompt, bool)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inFlight = inFlight
	v.pending = pending
}

func (v *ViewRenderer) ShowProgress(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.version++
	v.state.Progress = message
}

func (v *ViewRenderer) PromptLanguage(prompt domain.LanguagePrompt) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.version++
	p := prompt
	v.state.Status = StatusAwaitingLanguage
	v.state.Prompt = &p
	v.state.Error = ""
}

func (v *ViewRenderer) ShowLoading(requestID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.version++
	v.state.Status = StatusLoading
	v.state.RequestID = requestID
	v.state.Progress = ""
	v.state.Error = ""
	v.state.Prompt = nil
}

func (v *ViewRenderer) RenderQuestions(requestID string, questions []*domain.Question) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.version++
	v.questions = len(questions) > 0
	v.state = ViewState{
		Status:        v.settled(),
		RequestID:     requestID,
		QuestionCount: len(questions),
	}
}

// ShowError leaves the question count of the previous render untouched.
func (v *ViewRenderer) ShowError(requestID string, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.version++
	v.state.Status = StatusError
	v.state.RequestID = requestID
	v.state.Error = message
	v.state.Progress = ""
	v.state.Prompt = nil
}

// State returns the current view. The bound sources are queried without holding v.mu
// because the controller calls into the renderer while holding its own lock.
func (v *ViewRenderer) State() ViewState {
	v.mu.Lock()
	inFlight, pending, sampled := v.inFlight, v.pending, v.version
	v.mu.Unlock()

	var (
		runningID string
		running   bool
		prompting bool
	)
	if inFlight != nil {
		runningID, running = inFlight()
	}
	if pending != nil {
		_, prompting = pending()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.version != sampled {
		return v.copyState()
	}

	switch v.state.Status {
	case StatusLoading:
		if inFlight != nil && (!running || runningID != v.state.RequestID) {
			v.state.Status = v.settled()
			v.state.Progress = ""
		}
	case StatusAwaitingLanguage:
		if pending != nil && !prompting && !running {
			v.state.Status = v.settled()
			v.state.Prompt = nil
		}
	}

	return v.copyState()
}

func (v *ViewRenderer) copyState() ViewState {
	s := v.state
	if s.Prompt != nil {
		p := *s.Prompt
		s.Prompt = &p
	}
	return s
}

func (v *ViewRenderer) settled() Status {
	if v.questions {
		return StatusReady
	}
	return StatusIdle
}

var _ domain.Renderer = (*ViewRenderer)(nil)
