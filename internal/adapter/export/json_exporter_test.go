package export

import (
	"context"
	"encoding/json"
	"testing"

	"quiz-forge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONExporter_Export(t *testing.T) {
	questions := []*domain.Question{{
		ID:               "q1",
		Type:             domain.TypeTrueFalse,
		Text:             "The sky is blue.",
		Options:          []string{"True", "False"},
		CorrectIndices:   []int{0},
		TimeLimitSeconds: 30,
	}}

	out, err := NewJSONExporter().Export(context.Background(), TargetJSON, questions)
	require.NoError(t, err)

	var doc struct {
		Count     int                `json:"count"`
		Questions []*domain.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, 1, doc.Count)
	assert.Equal(t, questions, doc.Questions)
}

func TestJSONExporter_Rejects(t *testing.T) {
	e := NewJSONExporter()
	q := []*domain.Question{{ID: "q1"}}

	out, err := e.Export(context.Background(), "kahoot", q)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrValidation)

	out, err = e.Export(context.Background(), TargetJSON, nil)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrValidation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err = e.Export(ctx, TargetJSON, q)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, context.Canceled)
}
