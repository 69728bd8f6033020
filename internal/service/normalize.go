package service

import (
	"fmt"
	"sort"
	"strings"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/util"
)

// NormalizeOptions carries the request context normalization depends on.
type NormalizeOptions struct {
	BatchType        domain.QuestionType
	Style            domain.Style
	Language         string
	DefaultTimeLimit int
}

// NormalizeRecord converts a parsed record into the canonical Question shape.
// Multiple-choice options are padded (or cut) to exactly four; true/false records get the
// canonical option pair of the output language. Records that cannot satisfy the Question
// invariants are rejected.
func NormalizeRecord(rec domain.RawQuestion, opts NormalizeOptions) (*domain.Question, error) {
	text := strings.TrimSpace(rec.Text)
	if text == "" {
		return nil, fmt.Errorf("record has no question text")
	}

	q := &domain.Question{
		ID:               util.NewULID(),
		Type:             recordType(rec, opts.BatchType),
		Text:             text,
		Explanation:      strings.TrimSpace(rec.Explanation),
		TimeLimitSeconds: opts.DefaultTimeLimit,
	}
	if rec.TimeLimit != nil && *rec.TimeLimit > 0 {
		q.TimeLimitSeconds = *rec.TimeLimit
	}
	if opts.Style == domain.StyleCompetency {
		q.DesignConcept = strings.TrimSpace(rec.DesignConcept)
	}

	switch q.Type {
	case domain.TypeTrueFalse:
		q.Options = TrueFalseOptions(opts.Language)
		if answer, ok := rec.TrueFalseAnswer(); ok {
			if answer {
				q.CorrectIndices = []int{0}
			} else {
				q.CorrectIndices = []int{1}
			}
		} else {
			q.CorrectIndices = correctIndices(rec, len(q.Options))
		}
	default:
		q.Options = padOptions(rec.Options, domain.MultipleChoiceOptionCount)
		q.CorrectIndices = correctIndices(rec, len(q.Options))
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func recordType(rec domain.RawQuestion, batchType domain.QuestionType) domain.QuestionType {
	if batchType != domain.TypeMixed {
		return batchType
	}
	switch domain.QuestionType(strings.ToLower(strings.TrimSpace(rec.Type))) {
	case domain.TypeTrueFalse:
		return domain.TypeTrueFalse
	case domain.TypeMultipleChoice:
		return domain.TypeMultipleChoice
	}
	if _, ok := rec.TrueFalseAnswer(); ok && len(rec.Options) == 0 {
		return domain.TypeTrueFalse
	}
	return domain.TypeMultipleChoice
}

func padOptions(options []string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(options); i++ {
		out[i] = strings.TrimSpace(options[i])
	}
	return out
}

// correctIndices merges `correct` and `correct_indices`, dropping duplicates and indices
// outside [0, optionCount).
func correctIndices(rec domain.RawQuestion, optionCount int) []int {
	candidates := append([]int(nil), rec.CorrectIndices...)
	if rec.Correct != nil {
		candidates = append(candidates, *rec.Correct)
	}
	seen := make(map[int]struct{}, len(candidates))
	var out []int
	for _, idx := range candidates {
		if idx < 0 || idx >= optionCount {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
