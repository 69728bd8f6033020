package service

import (
	"fmt"
	"strings"

	"quiz-forge/internal/domain"
)

const systemInstruction = `You are an experienced teacher who writes assessment questions from course material.
Only use facts stated in the material. Respond with a JSON array and nothing else.`

// BatchPrompt describes the content of one batch request.
type BatchPrompt struct {
	Count      int
	Type       domain.QuestionType
	Difficulty domain.Difficulty
	Style      domain.Style
	Language   string
	Text       string
	HasImages  bool
}

// BuildPayload renders the prompt, system instruction and schema of one batch.
func BuildPayload(p BatchPrompt, images []domain.ImageInput, temperature float64) *domain.UpstreamPayload {
	return &domain.UpstreamPayload{
		SystemInstruction: systemInstruction,
		Prompt:            buildPrompt(p),
		Images:            images,
		Schema:            ResponseSchema(p.Type, p.Style),
		Temperature:       temperature,
	}
}

func buildPrompt(p BatchPrompt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write %d %s %s.\n", p.Count, difficultyLabel(p.Difficulty), typeLabel(p.Type, p.Count))
	fmt.Fprintf(&b, "Write every question, option and explanation in %s (%s).\n", LanguageName(p.Language), p.Language)

	switch p.Type {
	case domain.TypeMultipleChoice:
		b.WriteString(`Each item has "text", exactly 4 "options", "correct_indices" (zero-based) and "explanation".` + "\n")
	case domain.TypeTrueFalse:
		b.WriteString(`Each item has "text" (a statement), "is_correct" (true when the statement is true) and "explanation".` + "\n")
	default:
		b.WriteString(`Mix multiple choice and true/false items. Each item has "type" ("multiple_choice" or "true_false"), "text" and "explanation".` + "\n")
		b.WriteString(`Multiple choice items add exactly 4 "options" and "correct_indices"; true/false items add "is_correct".` + "\n")
	}

	if p.Style == domain.StyleCompetency {
		b.WriteString(`Write competency-based questions set in realistic situations that require applying the material, not recalling it. ` +
			`Add "design_concept" naming the competency each question assesses.` + "\n")
	}

	if p.HasImages {
		b.WriteString("The attached images are part of the material.\n")
	}
	if text := strings.TrimSpace(p.Text); text != "" {
		b.WriteString("\nMaterial:\n")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

func typeLabel(t domain.QuestionType, count int) string {
	label := "questions"
	if count == 1 {
		label = "question"
	}
	switch t {
	case domain.TypeMultipleChoice:
		return "multiple choice " + label
	case domain.TypeTrueFalse:
		return "true/false " + label
	default:
		return label
	}
}

func difficultyLabel(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyEasy:
		return "easy"
	case domain.DifficultyHard:
		return "hard"
	default:
		return "medium-difficulty"
	}
}
