package service

import "quiz-forge/internal/domain"

// ResponseSchema builds the structured-output schema for one batch.
// Types use the upper-case OpenAPI subset understood by the generateContent API.
func ResponseSchema(questionType domain.QuestionType, style domain.Style) map[string]any {
	properties := map[string]any{
		"text": map[string]any{
			"type":        "STRING",
			"description": "The question prompt shown to the quiz-taker",
		},
		"explanation": map[string]any{
			"type":        "STRING",
			"description": "Why the correct answer is correct",
		},
	}
	required := []any{"text", "explanation"}

	mcProperties := func() {
		properties["options"] = map[string]any{
			"type":        "ARRAY",
			"items":       map[string]any{"type": "STRING"},
			"description": "Exactly 4 answer options",
		}
		properties["correct_indices"] = map[string]any{
			"type":        "ARRAY",
			"items":       map[string]any{"type": "INTEGER"},
			"description": "Zero-based indices of the correct options",
		}
	}
	tfProperties := func() {
		properties["is_correct"] = map[string]any{
			"type":        "BOOLEAN",
			"description": "Whether the statement is true",
		}
	}

	switch questionType {
	case domain.TypeMultipleChoice:
		mcProperties()
		required = append(required, "options", "correct_indices")
	case domain.TypeTrueFalse:
		tfProperties()
		required = append(required, "is_correct")
	default:
		mcProperties()
		tfProperties()
		properties["type"] = map[string]any{
			"type": "STRING",
			"enum": []any{string(domain.TypeMultipleChoice), string(domain.TypeTrueFalse)},
		}
		required = append(required, "type")
	}

	if style == domain.StyleCompetency {
		properties["design_concept"] = map[string]any{
			"type":        "STRING",
			"description": "The competency or design concept the question assesses",
		}
		required = append(required, "design_concept")
	}

	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type":       "OBJECT",
			"properties": properties,
			"required":   required,
		},
	}
}
