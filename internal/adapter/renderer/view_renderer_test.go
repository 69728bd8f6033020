package renderer

import (
	"testing"

	"quiz-forge/internal/domain"

	"github.com/stretchr/testify/assert"
)

func sampleQuestions(n int) []*domain.Question {
	qs := make([]*domain.Question, n)
	for i := range qs {
		qs[i] = &domain.Question{
			ID:             "q",
			Type:           domain.TypeTrueFalse,
			Text:           "Is it?",
			Options:        []string{"True", "False"},
			CorrectIndices: []int{0},
		}
	}
	return qs
}

func TestViewRenderer_Lifecycle(t *testing.T) {
	v := NewViewRenderer()
	assert.Equal(t, StatusIdle, v.State().Status)

	v.ShowLoading("req-1")
	v.ShowProgress("Generating batch 1/2 (8 questions)")
	state := v.State()
	assert.Equal(t, StatusLoading, state.Status)
	assert.Equal(t, "req-1", state.RequestID)
	assert.Equal(t, "Generating batch 1/2 (8 questions)", state.Progress)

	v.RenderQuestions("req-1", sampleQuestions(3))
	state = v.State()
	assert.Equal(t, StatusReady, state.Status)
	assert.Equal(t, 3, state.QuestionCount)
	assert.Empty(t, state.Progress)

	v.ShowError("req-2", "All models failed")
	state = v.State()
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "All models failed", state.Error)
	assert.Equal(t, 3, state.QuestionCount)

	v.RenderQuestions("", nil)
	state = v.State()
	assert.Equal(t, StatusIdle, state.Status)
	assert.Equal(t, 0, state.QuestionCount)
	assert.Empty(t, state.Error)
}

func TestViewRenderer_PromptLanguage(t *testing.T) {
	v := NewViewRenderer()
	prompt := domain.LanguagePrompt{ID: "p1", Sample: "hello", Default: "zh-TW", Alternate: "en"}
	v.PromptLanguage(prompt)

	state := v.State()
	assert.Equal(t, StatusAwaitingLanguage, state.Status)
	if assert.NotNil(t, state.Prompt) {
		assert.Equal(t, prompt, *state.Prompt)
		state.Prompt.ID = "mutated"
	}
	assert.Equal(t, "p1", v.State().Prompt.ID)

	v.ShowLoading("req-1")
	assert.Nil(t, v.State().Prompt)
}

func TestViewRenderer_SettlesCancelledRun(t *testing.T) {
	running := true
	prompting := false
	v := NewViewRenderer()
	v.Bind(
		func() (string, bool) { return "req-1", running },
		func() (domain.LanguagePrompt, bool) { return domain.LanguagePrompt{}, prompting },
	)

	v.RenderQuestions("req-0", sampleQuestions(2))
	v.ShowLoading("req-1")
	assert.Equal(t, StatusLoading, v.State().Status)

	running = false
	state := v.State()
	assert.Equal(t, StatusReady, state.Status)
	assert.Equal(t, 2, state.QuestionCount)
}

func TestViewRenderer_SettlesAbandonedPrompt(t *testing.T) {
	running := true
	prompting := true
	v := NewViewRenderer()
	v.Bind(
		func() (string, bool) { return "req-1", running },
		func() (domain.LanguagePrompt, bool) { return domain.LanguagePrompt{ID: "p1"}, prompting },
	)

	v.PromptLanguage(domain.LanguagePrompt{ID: "p1"})
	assert.Equal(t, StatusAwaitingLanguage, v.State().Status)

	prompting = false
	running = false
	state := v.State()
	assert.Equal(t, StatusIdle, state.Status)
	assert.Nil(t, state.Prompt)
}

func TestViewRenderer_LoadingForOtherRunSettles(t *testing.T) {
	v := NewViewRenderer()
	v.Bind(func() (string, bool) { return "req-2", true }, nil)

	v.ShowLoading("req-1")
	assert.Equal(t, StatusIdle, v.State().Status)
}
