package domain

import (
	"fmt"
	"strings"
)

// QuestionType is the kind of question requested or produced.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	// TypeMixed is only valid on a request; every produced question is MC or TF.
	TypeMixed QuestionType = "mixed"
)

// Difficulty of the requested questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Style of the requested questions.
type Style string

const (
	StyleStandard Style = "standard"
	// StyleCompetency asks for competency-based questions carrying a design concept.
	StyleCompetency Style = "competency"
)

// MultipleChoiceOptionCount is the normalized option count for multiple-choice questions.
const MultipleChoiceOptionCount = 4

// Question is the canonical, normalized question record.
type Question struct {
	ID               string       `json:"id"`
	Type             QuestionType `json:"type"`
	Text             string       `json:"text"`
	Options          []string     `json:"options"`
	CorrectIndices   []int        `json:"correct_indices"`
	Explanation      string       `json:"explanation,omitempty"`
	DesignConcept    string       `json:"design_concept,omitempty"`
	TimeLimitSeconds int          `json:"time_limit_seconds"`
}

// Validate checks the structural invariants of a question.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("question text is required")
	}
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) != MultipleChoiceOptionCount {
			return NewValidationError(fmt.Sprintf("multiple choice question needs %d options, got %d", MultipleChoiceOptionCount, len(q.Options)))
		}
	case TypeTrueFalse:
		if len(q.Options) != 2 {
			return NewValidationError(fmt.Sprintf("true/false question needs 2 options, got %d", len(q.Options)))
		}
	default:
		return NewValidationError(fmt.Sprintf("unknown question type %q", q.Type))
	}
	if len(q.CorrectIndices) == 0 {
		return NewValidationError("at least one correct option is required")
	}
	for _, idx := range q.CorrectIndices {
		if idx < 0 || idx >= len(q.Options) {
			return NewValidationError(fmt.Sprintf("correct index %d out of range [0,%d)", idx, len(q.Options)))
		}
	}
	return nil
}

// Clone returns a deep copy of q.
func (q *Question) Clone() *Question {
	c := *q
	c.Options = append([]string(nil), q.Options...)
	c.CorrectIndices = append([]int(nil), q.CorrectIndices...)
	return &c
}

// CloneQuestions deep-copies a question list.
func CloneQuestions(questions []*Question) []*Question {
	out := make([]*Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
	}
	return out
}

// RawQuestion is a question record as emitted by the upstream model, before normalization.
type RawQuestion struct {
	Type           string   `json:"type,omitempty"`
	Text           string   `json:"text"`
	Options        []string `json:"options,omitempty"`
	Correct        *int     `json:"correct,omitempty"`
	CorrectIndices []int    `json:"correct_indices,omitempty"`
	IsCorrect      *bool    `json:"is_correct,omitempty"`
	IsCorrectCamel *bool    `json:"isCorrect,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
	DesignConcept  string   `json:"design_concept,omitempty"`
	TimeLimit      *int     `json:"time_limit,omitempty"`
}

// TrueFalseAnswer returns the boolean answer of a true/false record, if present.
func (r *RawQuestion) TrueFalseAnswer() (bool, bool) {
	if r.IsCorrect != nil {
		return *r.IsCorrect, true
	}
	if r.IsCorrectCamel != nil {
		return *r.IsCorrectCamel, true
	}
	return false, false
}
