package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"quiz-forge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mcBatchResponse renders n multiple-choice records whose texts start with prefix.
func mcBatchResponse(prefix string, n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"text":"%s-%d","options":["a","b","c","d"],"correct_indices":[1],"explanation":"e"}`, prefix, i)
	}
	return "```json\n[" + strings.Join(items, ",") + "]\n```"
}

func batchCount(n int) interface{} {
	return mock.MatchedBy(func(p *domain.UpstreamPayload) bool {
		return strings.HasPrefix(p.Prompt, fmt.Sprintf("Write %d ", n))
	})
}

func newTestOrchestrator(requester ModelRequester, progress domain.ProgressNotifier) *BatchOrchestrator {
	return NewBatchOrchestrator(requester, NewResponseParser(zap.NewNop(), nil), progress,
		BatchOptions{BatchSize: 8, DefaultTimeLimit: 30}, nil, zap.NewNop())
}

func newRequest(count int) *domain.GenerationRequest {
	return &domain.GenerationRequest{
		ID:       "req-1",
		Inputs:   validInputs("cell biology notes", count),
		Language: "en",
	}
}

func TestBatchOrchestrator_Generate_SequentialBatches(t *testing.T) {
	requester := new(MockModelRequester)
	renderer := newRecordingRenderer()
	orchestrator := newTestOrchestrator(requester, renderer)
	ctx := context.Background()

	var sizes []int
	record := func(args mock.Arguments) {
		p := args.Get(1).(*domain.UpstreamPayload)
		var n int
		_, _ = fmt.Sscanf(p.Prompt, "Write %d ", &n)
		sizes = append(sizes, n)
	}
	requester.On("Request", ctx, batchCount(8)).Run(record).
		Return(&domain.UpstreamResult{Model: "m", Text: mcBatchResponse("first", 8)}, nil).Once()
	requester.On("Request", ctx, batchCount(8)).Run(record).
		Return(&domain.UpstreamResult{Model: "m", Text: mcBatchResponse("second", 8)}, nil).Once()
	requester.On("Request", ctx, batchCount(4)).Run(record).
		Return(&domain.UpstreamResult{Model: "m", Text: mcBatchResponse("third", 4)}, nil).Once()

	questions, err := orchestrator.Generate(ctx, newRequest(20))
	require.NoError(t, err)

	assert.Equal(t, []int{8, 8, 4}, sizes)
	require.Len(t, questions, 20)
	assert.Equal(t, "first-0", questions[0].Text)
	assert.Equal(t, "first-7", questions[7].Text)
	assert.Equal(t, "second-0", questions[8].Text)
	assert.Equal(t, "third-3", questions[19].Text)
	for _, q := range questions {
		assert.Equal(t, []int{1}, q.CorrectIndices)
		assert.Len(t, q.Options, domain.MultipleChoiceOptionCount)
	}

	assert.Equal(t, []string{
		"Generating batch 1/3 (8 questions)",
		"Generating batch 2/3 (8 questions)",
		"Generating batch 3/3 (4 questions)",
	}, renderer.progressMessages())
	requester.AssertExpectations(t)
}

func TestBatchOrchestrator_Generate_AllOrNothing(t *testing.T) {
	requester := new(MockModelRequester)
	orchestrator := newTestOrchestrator(requester, nil)
	ctx := context.Background()

	upstreamErr := domain.NewAllModelsFailedError(2, errors.New("quota exceeded"))
	requester.On("Request", ctx, mock.Anything).
		Return(&domain.UpstreamResult{Model: "m", Text: mcBatchResponse("first", 8)}, nil).Once()
	requester.On("Request", ctx, mock.Anything).Return(nil, upstreamErr).Once()

	questions, err := orchestrator.Generate(ctx, newRequest(20))

	assert.Nil(t, questions)
	assert.ErrorIs(t, err, domain.ErrAllModelsFailed)
	assert.Contains(t, err.Error(), "quota exceeded")
	requester.AssertNumberOfCalls(t, "Request", 2)
}

func TestBatchOrchestrator_Generate_ParseFailureAborts(t *testing.T) {
	requester := new(MockModelRequester)
	orchestrator := newTestOrchestrator(requester, nil)
	ctx := context.Background()

	requester.On("Request", ctx, mock.Anything).
		Return(&domain.UpstreamResult{Model: "m", Text: mcBatchResponse("first", 8)}, nil).Once()
	requester.On("Request", ctx, mock.Anything).
		Return(&domain.UpstreamResult{Model: "m", Text: "Sorry, I cannot help with that."}, nil).Once()

	questions, err := orchestrator.Generate(ctx, newRequest(12))

	assert.Nil(t, questions)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestBatchOrchestrator_Generate_EmptyResult(t *testing.T) {
	requester := new(MockModelRequester)
	orchestrator := newTestOrchestrator(requester, nil)
	ctx := context.Background()

	// One record lacks a correct answer and is skipped, leaving nothing.
	requester.On("Request", ctx, mock.Anything).
		Return(&domain.UpstreamResult{Model: "m", Text: `[{"text":"Q","options":["a","b"]}]`}, nil).Once()

	questions, err := orchestrator.Generate(ctx, newRequest(1))

	assert.Nil(t, questions)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Equal(t, "empty result", domain.UserMessage(err))
}

func TestBatchOrchestrator_Generate_TrueFalseBatch(t *testing.T) {
	requester := new(MockModelRequester)
	orchestrator := newTestOrchestrator(requester, nil)
	ctx := context.Background()

	req := newRequest(2)
	req.Inputs.Type = domain.TypeTrueFalse
	req.Language = "zh-TW"

	requester.On("Request", ctx, mock.MatchedBy(func(p *domain.UpstreamPayload) bool {
		items := p.Schema["items"].(map[string]any)
		_, hasBool := items["properties"].(map[string]any)["is_correct"]
		return hasBool
	})).Return(&domain.UpstreamResult{Model: "m", Text: `[{"text":"X","is_correct":true},{"text":"Y","is_correct":false}]`}, nil).Once()

	questions, err := orchestrator.Generate(ctx, req)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, []string{"是", "否"}, questions[0].Options)
	assert.Equal(t, []int{0}, questions[0].CorrectIndices)
	assert.Equal(t, []int{1}, questions[1].CorrectIndices)
}

func TestBatchOrchestrator_Generate_CancelledBetweenBatches(t *testing.T) {
	requester := new(MockModelRequester)
	renderer := newRecordingRenderer()
	orchestrator := newTestOrchestrator(requester, renderer)
	ctx, cancel := context.WithCancel(context.Background())

	requester.On("Request", ctx, mock.Anything).
		Run(func(args mock.Arguments) { cancel() }).
		Return(&domain.UpstreamResult{Model: "m", Text: mcBatchResponse("first", 8)}, nil).Once()

	questions, err := orchestrator.Generate(ctx, newRequest(20))

	assert.Nil(t, questions)
	assert.True(t, domain.IsCancelled(err))
	requester.AssertNumberOfCalls(t, "Request", 1)
	assert.Len(t, renderer.progressMessages(), 1)
}
