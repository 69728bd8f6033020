package domain

import (
	"strings"
)

// ImageInput is one source image supplied by the ingestion layer.
type ImageInput struct {
	MimeType string
	Data     []byte
}

// GenerationInputs are the tracked input controls of the authoring tool.
type GenerationInputs struct {
	Text       string
	Images     []ImageInput
	Count      int
	Type       QuestionType
	Difficulty Difficulty
	Style      Style
}

// HasSource reports whether there is any text or image to generate from.
func (in GenerationInputs) HasSource() bool {
	return strings.TrimSpace(in.Text) != "" || len(in.Images) > 0
}

// Validate rejects inputs for which no upstream request may be issued.
func (in GenerationInputs) Validate() error {
	if !in.HasSource() {
		return NewValidationError("source text or images are required")
	}
	if in.Count <= 0 {
		return NewValidationError("question count must be greater than 0")
	}
	switch in.Type {
	case TypeMultipleChoice, TypeTrueFalse, TypeMixed:
	default:
		return NewValidationError("unknown question type: " + string(in.Type))
	}
	switch in.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return NewValidationError("unknown difficulty: " + string(in.Difficulty))
	}
	switch in.Style {
	case StyleStandard, StyleCompetency:
	default:
		return NewValidationError("unknown style: " + string(in.Style))
	}
	return nil
}

// GenerationRequest is the immutable value dispatched for one controller invocation.
type GenerationRequest struct {
	ID       string
	Inputs   GenerationInputs
	Language string
}

// UpstreamPayload is one generation call sent to a model.
type UpstreamPayload struct {
	SystemInstruction string
	Prompt            string
	Images            []ImageInput
	Schema            map[string]any
	Temperature       float64
}

// UpstreamResult is the first successful model response for a payload.
type UpstreamResult struct {
	Model string
	Text  string
}
