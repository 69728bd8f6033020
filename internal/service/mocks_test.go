package service

import (
	"context"
	"sync"

	"quiz-forge/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockModelRequester ---
type MockModelRequester struct {
	mock.Mock
}

func (m *MockModelRequester) Request(ctx context.Context, payload *domain.UpstreamPayload) (*domain.UpstreamResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpstreamResult), args.Error(1)
}

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) ([]*domain.Question, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

// --- MockRunStarter ---
type MockRunStarter struct {
	mock.Mock
}

func (m *MockRunStarter) Start(in domain.GenerationInputs) (string, error) {
	args := m.Called(in)
	return args.String(0), args.Error(1)
}

// --- MockPreferenceStore ---
type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockPreferenceStore) Set(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// recordingRenderer captures renderer callbacks. Language prompts are forwarded on a channel
// so tests can answer them.
type recordingRenderer struct {
	mu       sync.Mutex
	loading  []string
	progress []string
	rendered map[string][]*domain.Question
	order    []string
	errors   []string
	prompts  chan domain.LanguagePrompt
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		rendered: make(map[string][]*domain.Question),
		prompts:  make(chan domain.LanguagePrompt, 4),
	}
}

func (r *recordingRenderer) ShowProgress(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, message)
}

func (r *recordingRenderer) PromptLanguage(prompt domain.LanguagePrompt) {
	r.prompts <- prompt
}

func (r *recordingRenderer) ShowLoading(requestID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = append(r.loading, requestID)
}

func (r *recordingRenderer) RenderQuestions(requestID string, questions []*domain.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered[requestID] = questions
	r.order = append(r.order, requestID)
}

func (r *recordingRenderer) ShowError(requestID string, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *recordingRenderer) renderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *recordingRenderer) errorMessages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

func (r *recordingRenderer) progressMessages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.progress...)
}

func mcQuestion(text string) *domain.Question {
	return &domain.Question{
		ID:               text + "-id",
		Type:             domain.TypeMultipleChoice,
		Text:             text,
		Options:          []string{"a", "b", "c", "d"},
		CorrectIndices:   []int{0},
		TimeLimitSeconds: 30,
	}
}

func validInputs(text string, count int) domain.GenerationInputs {
	return domain.GenerationInputs{
		Text:       text,
		Count:      count,
		Type:       domain.TypeMultipleChoice,
		Difficulty: domain.DifficultyMedium,
		Style:      domain.StyleStandard,
	}
}
