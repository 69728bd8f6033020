package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestPreferencesHandler_ChooseLanguage(t *testing.T) {
	promptID := "3f1c9a52-7d4e-4c1b-9a57-0f6c2d8e4b11"

	t.Run("resolves the prompt", func(t *testing.T) {
		s := newTestServer()
		var gotID string
		var gotChoice service.LanguageChoice
		s.gate.ResolveFunc = func(id string, choice service.LanguageChoice) error {
			gotID, gotChoice = id, choice
			return nil
		}

		resp, _ := s.do(t, http.MethodPost, "/api/language-choice", map[string]any{"prompt_id": promptID, "choice": "alternate"})
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, promptID, gotID)
		assert.Equal(t, service.ChoiceAlternate, gotChoice)
	})

	t.Run("rejects unknown choice", func(t *testing.T) {
		s := newTestServer()
		resp, body := s.do(t, http.MethodPost, "/api/language-choice", map[string]any{"choice": "klingon"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "choice", body["errors"].([]any)[0].(map[string]any)["field"])
	})

	t.Run("stale prompt", func(t *testing.T) {
		s := newTestServer()
		s.gate.ResolveFunc = func(id string, choice service.LanguageChoice) error {
			return domain.NewNotFoundError("no pending language prompt")
		}
		resp, _ := s.do(t, http.MethodPost, "/api/language-choice", map[string]any{"prompt_id": promptID, "choice": "default"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPreferencesHandler_DismissLanguagePrompt(t *testing.T) {
	s := newTestServer()
	pending := true
	s.gate.AbandonFunc = func() bool {
		was := pending
		pending = false
		return was
	}

	resp, _ := s.do(t, http.MethodDelete, "/api/language-choice", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/language-choice", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPreferencesHandler_AutoGenerate(t *testing.T) {
	s := newTestServer()
	s.trig.SetAutoModeFunc = func(ctx context.Context, enabled bool) error {
		s.trig.Auto = enabled
		return nil
	}

	resp, body := s.do(t, http.MethodGet, "/api/preferences/auto-generate", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["enabled"])

	resp, body = s.do(t, http.MethodPut, "/api/preferences/auto-generate", map[string]any{"enabled": true})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["enabled"])

	resp, _ = s.do(t, http.MethodPut, "/api/preferences/auto-generate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	s.trig.SetAutoModeFunc = func(ctx context.Context, enabled bool) error {
		return domain.NewInternalError("failed to persist auto_generate", errors.New("redis down"))
	}
	resp, body = s.do(t, http.MethodPut, "/api/preferences/auto-generate", map[string]any{"enabled": false})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, string(domain.CodeInternal), body["code"])
}

func TestPreferencesHandler_SetOutputLanguage(t *testing.T) {
	s := newTestServer()

	resp, _ := s.do(t, http.MethodPut, "/api/preferences/language", map[string]any{"language": "en"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	stored, err := s.prefs.Get(context.Background(), domain.PrefOutputLanguage)
	assert.NoError(t, err)
	assert.Equal(t, "en", stored)

	resp, _ = s.do(t, http.MethodPut, "/api/preferences/language", map[string]any{"language": "not a tag!"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
