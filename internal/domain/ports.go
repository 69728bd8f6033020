package domain

import (
	"context"
)

// ModelCaller performs one upstream generation call against a single model.
// A non-nil error means this model failed; the caller decides whether to fall back.
type ModelCaller interface {
	GenerateContent(ctx context.Context, model string, payload *UpstreamPayload) (string, error)
}

// ProgressNotifier receives human-readable progress text while a request runs.
type ProgressNotifier interface {
	ShowProgress(message string)
}

// LanguagePrompt asks the user to pick the output language for a foreign-language source.
type LanguagePrompt struct {
	ID        string `json:"id"`
	Sample    string `json:"sample"`
	Default   string `json:"default"`
	Alternate string `json:"alternate"`
}

// LanguagePrompter presents a LanguagePrompt. The answer comes back through the gate.
type LanguagePrompter interface {
	PromptLanguage(prompt LanguagePrompt)
}

// Renderer is the presentation layer fed by the generation controller.
type Renderer interface {
	ProgressNotifier
	LanguagePrompter
	ShowLoading(requestID string)
	RenderQuestions(requestID string, questions []*Question)
	ShowError(requestID string, message string)
}

// Preference keys read by the core.
const (
	PrefAPIKey         = "api_key"
	PrefOutputLanguage = "output_language"
	PrefAutoGenerate   = "auto_generate"
	PrefLayout         = "layout"
)

// PreferenceError is returned by preference stores.
type PreferenceError string

func (e PreferenceError) Error() string {
	return string(e)
}

// ErrPreferenceNotSet is returned when a key has never been stored.
const ErrPreferenceNotSet = PreferenceError("preference: key not set")

// PreferenceStore is the credential/preference collaborator.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

// Exporter maps the question sequence to one external file layout. On failure it returns
// no output at all.
type Exporter interface {
	Export(ctx context.Context, target string, questions []*Question) ([]byte, error)
}
