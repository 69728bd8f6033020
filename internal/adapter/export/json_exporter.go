package export

import (
	"context"
	"encoding/json"
	"fmt"

	"quiz-forge/internal/domain"
)

// TargetJSON is the only layout served in-process; spreadsheet layouts live outside the core.
const TargetJSON = "json"

// JSONExporter writes the question sequence as an indented JSON document.
type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

type document struct {
	Count     int                `json:"count"`
	Questions []*domain.Question `json:"questions"`
}

func (e *JSONExporter) Export(ctx context.Context, target string, questions []*domain.Question) ([]byte, error) {
	if target != TargetJSON {
		return nil, domain.NewValidationError(fmt.Sprintf("unsupported export target %q", target))
	}
	if len(questions) == 0 {
		return nil, domain.NewValidationError("there are no questions to export")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(document{Count: len(questions), Questions: questions}, "", "  ")
	if err != nil {
		return nil, domain.NewInternalError("failed to encode questions", err)
	}
	return append(out, '\n'), nil
}

var _ domain.Exporter = (*JSONExporter)(nil)
