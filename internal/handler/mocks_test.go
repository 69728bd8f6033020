package handler_test

import (
	"context"

	"quiz-forge/internal/adapter/renderer"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/service"
)

// --- Manual Mocks ---

// MockGenerationService
type MockGenerationService struct {
	RegenerateFunc        func() (string, error)
	CancelFunc            func() bool
	ClearFunc             func()
	SnapshotFunc          func() service.SessionSnapshot
	UpdateQuestionFunc    func(id string, patch service.QuestionPatch) (*domain.Question, error)
	DeleteQuestionFunc    func(id string) error
	DuplicateQuestionFunc func(id string) (*domain.Question, error)
	MoveQuestionFunc      func(id string, to int) error
}

func (m *MockGenerationService) Regenerate() (string, error) {
	if m.RegenerateFunc != nil {
		return m.RegenerateFunc()
	}
	panic("MockGenerationService.RegenerateFunc not implemented")
}
func (m *MockGenerationService) Cancel() bool {
	if m.CancelFunc != nil {
		return m.CancelFunc()
	}
	panic("MockGenerationService.CancelFunc not implemented")
}
func (m *MockGenerationService) Clear() {
	if m.ClearFunc != nil {
		m.ClearFunc()
		return
	}
	panic("MockGenerationService.ClearFunc not implemented")
}
func (m *MockGenerationService) Snapshot() service.SessionSnapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return service.SessionSnapshot{}
}
func (m *MockGenerationService) UpdateQuestion(id string, patch service.QuestionPatch) (*domain.Question, error) {
	if m.UpdateQuestionFunc != nil {
		return m.UpdateQuestionFunc(id, patch)
	}
	panic("MockGenerationService.UpdateQuestionFunc not implemented")
}
func (m *MockGenerationService) DeleteQuestion(id string) error {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(id)
	}
	panic("MockGenerationService.DeleteQuestionFunc not implemented")
}
func (m *MockGenerationService) DuplicateQuestion(id string) (*domain.Question, error) {
	if m.DuplicateQuestionFunc != nil {
		return m.DuplicateQuestionFunc(id)
	}
	panic("MockGenerationService.DuplicateQuestionFunc not implemented")
}
func (m *MockGenerationService) MoveQuestion(id string, to int) error {
	if m.MoveQuestionFunc != nil {
		return m.MoveQuestionFunc(id, to)
	}
	panic("MockGenerationService.MoveQuestionFunc not implemented")
}

// MockTriggerService
type MockTriggerService struct {
	InputChangedFunc func(in domain.GenerationInputs) bool
	TriggerNowFunc   func(in domain.GenerationInputs) (string, error)
	SetAutoModeFunc  func(ctx context.Context, enabled bool) error
	Auto             bool
	PendingRun       bool
}

func (m *MockTriggerService) InputChanged(in domain.GenerationInputs) bool {
	if m.InputChangedFunc != nil {
		return m.InputChangedFunc(in)
	}
	panic("MockTriggerService.InputChangedFunc not implemented")
}
func (m *MockTriggerService) TriggerNow(in domain.GenerationInputs) (string, error) {
	if m.TriggerNowFunc != nil {
		return m.TriggerNowFunc(in)
	}
	panic("MockTriggerService.TriggerNowFunc not implemented")
}
func (m *MockTriggerService) SetAutoMode(ctx context.Context, enabled bool) error {
	if m.SetAutoModeFunc != nil {
		return m.SetAutoModeFunc(ctx, enabled)
	}
	panic("MockTriggerService.SetAutoModeFunc not implemented")
}
func (m *MockTriggerService) AutoMode() bool { return m.Auto }
func (m *MockTriggerService) Pending() bool  { return m.PendingRun }

// MockViewSource
type MockViewSource struct {
	ViewState renderer.ViewState
}

func (m *MockViewSource) State() renderer.ViewState { return m.ViewState }

// MockLanguagePromptService
type MockLanguagePromptService struct {
	ResolveFunc func(promptID string, choice service.LanguageChoice) error
	AbandonFunc func() bool
}

func (m *MockLanguagePromptService) Resolve(promptID string, choice service.LanguageChoice) error {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(promptID, choice)
	}
	panic("MockLanguagePromptService.ResolveFunc not implemented")
}
func (m *MockLanguagePromptService) Abandon() bool {
	if m.AbandonFunc != nil {
		return m.AbandonFunc()
	}
	panic("MockLanguagePromptService.AbandonFunc not implemented")
}
