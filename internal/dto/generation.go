package dto

import (
	"encoding/base64"
	"fmt"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/service"
)

// ImagePayload is one source image, base64 encoded.
type ImagePayload struct {
	MimeType string `json:"mime_type" validate:"required,startswith=image/"`
	Data     string `json:"data" validate:"required,base64"`
}

// GenerateRequest represents the tracked input controls
// @Description Source material and generation parameters
type GenerateRequest struct {
	Text       string         `json:"text"`
	Images     []ImagePayload `json:"images" validate:"omitempty,max=16,dive"`
	Count      int            `json:"count" validate:"gte=0,lte=200"`
	Type       string         `json:"type" validate:"omitempty,oneof=multiple_choice true_false mixed"`
	Difficulty string         `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Style      string         `json:"style" validate:"omitempty,oneof=standard competency"`
}

// ToInputs decodes the images and fills in default parameters.
func (r *GenerateRequest) ToInputs() (domain.GenerationInputs, error) {
	in := domain.GenerationInputs{
		Text:       r.Text,
		Count:      r.Count,
		Type:       domain.QuestionType(r.Type),
		Difficulty: domain.Difficulty(r.Difficulty),
		Style:      domain.Style(r.Style),
	}
	if in.Type == "" {
		in.Type = domain.TypeMultipleChoice
	}
	if in.Difficulty == "" {
		in.Difficulty = domain.DifficultyMedium
	}
	if in.Style == "" {
		in.Style = domain.StyleStandard
	}

	for i, img := range r.Images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return domain.GenerationInputs{}, domain.NewValidationError(fmt.Sprintf("images[%d].data is not valid base64", i))
		}
		in.Images = append(in.Images, domain.ImageInput{MimeType: img.MimeType, Data: data})
	}
	return in, nil
}

// GenerateResponse identifies the request that was started
type GenerateResponse struct {
	RequestID string `json:"request_id"`
}

// InputsResponse reports whether an automatic run was scheduled
type InputsResponse struct {
	Scheduled bool `json:"scheduled"`
}

// CancelResponse reports whether a live request was cancelled
type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

// ViewResponse is the presentation state a client polls
type ViewResponse struct {
	Status         string                 `json:"status"`
	RequestID      string                 `json:"request_id,omitempty"`
	Progress       string                 `json:"progress,omitempty"`
	Error          string                 `json:"error,omitempty"`
	LanguagePrompt *domain.LanguagePrompt `json:"language_prompt,omitempty"`
}

// SessionResponse represents the current question list and view
// @Description Current session state
type SessionResponse struct {
	Questions      []*domain.Question `json:"questions"`
	Language       string             `json:"language,omitempty"`
	LastError      string             `json:"last_error,omitempty"`
	View           ViewResponse       `json:"view"`
	AutoGenerate   bool               `json:"auto_generate"`
	TriggerPending bool               `json:"trigger_pending"`
}

// QuestionPatchRequest carries the fields of a question to overwrite
type QuestionPatchRequest struct {
	Text             *string  `json:"text" validate:"omitempty,min=1"`
	Options          []string `json:"options" validate:"omitempty,dive,required"`
	CorrectIndices   []int    `json:"correct_indices" validate:"omitempty,dive,gte=0"`
	Explanation      *string  `json:"explanation"`
	DesignConcept    *string  `json:"design_concept"`
	TimeLimitSeconds *int     `json:"time_limit_seconds" validate:"omitempty,gt=0"`
}

func (r *QuestionPatchRequest) ToPatch() service.QuestionPatch {
	return service.QuestionPatch{
		Text:             r.Text,
		Options:          r.Options,
		CorrectIndices:   r.CorrectIndices,
		Explanation:      r.Explanation,
		DesignConcept:    r.DesignConcept,
		TimeLimitSeconds: r.TimeLimitSeconds,
	}
}

// MoveQuestionRequest sets the new zero-based position of a question
type MoveQuestionRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

// LanguageChoiceRequest answers a pending language prompt
type LanguageChoiceRequest struct {
	PromptID string `json:"prompt_id" validate:"omitempty,uuid"`
	Choice   string `json:"choice" validate:"required,oneof=default alternate"`
}

// AutoGenerateRequest switches between automatic and manual mode
type AutoGenerateRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// AutoGenerateResponse reports the trigger mode
type AutoGenerateResponse struct {
	Enabled bool `json:"enabled"`
}

// OutputLanguageRequest stores the preferred output language
type OutputLanguageRequest struct {
	Language string `json:"language" validate:"required,bcp47_language_tag"`
}

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status string `json:"status"`
}
