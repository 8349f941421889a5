package anthropic

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPollBatch_AlreadyEnded(t *testing.T) {
	mc := new(mockClient)
	mc.On("GetBatch", mock.Anything, "mb_run_1").Return(&BatchResponse{
		ID:               "mb_run_1",
		ProcessingStatus: "ended",
		RequestCounts:    RequestCounts{Succeeded: 4},
	}, nil)

	resp, err := PollBatch(context.Background(), mc, "mb_run_1",
		WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, "ended", resp.ProcessingStatus)
	assert.Equal(t, int64(4), resp.RequestCounts.Succeeded)
	mc.AssertNumberOfCalls(t, "GetBatch", 1)
}

func TestPollBatch_EndsAfterProcessing(t *testing.T) {
	var calls atomic.Int32
	client := &pollFuncClient{getBatch: func(_ context.Context, id string) (*BatchResponse, error) {
		if calls.Add(1) < 3 {
			return &BatchResponse{ID: id, ProcessingStatus: "in_progress"}, nil
		}
		return &BatchResponse{
			ID:               id,
			ProcessingStatus: "ended",
			RequestCounts:    RequestCounts{Succeeded: 8},
		}, nil
	}}

	resp, err := PollBatch(context.Background(), client, "mb_run_2",
		WithPollInterval(5*time.Millisecond),
		WithPollCap(10*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, "ended", resp.ProcessingStatus)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPollBatch_TerminalFailures(t *testing.T) {
	tests := []struct {
		status  string
		wantErr string
	}{
		{"expired", "expired"},
		{"canceled", "canceled"},
		{"canceling", "canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			mc := new(mockClient)
			mc.On("GetBatch", mock.Anything, "mb_dead").Return(&BatchResponse{
				ID:               "mb_dead",
				ProcessingStatus: tt.status,
			}, nil)

			resp, err := PollBatch(context.Background(), mc, "mb_dead",
				WithPollInterval(5*time.Millisecond))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.ProcessingStatus)
		})
	}
}

func TestPollBatch_ContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	mc := new(mockClient)
	mc.On("GetBatch", mock.Anything, "mb_slow").Return(&BatchResponse{
		ID:               "mb_slow",
		ProcessingStatus: "in_progress",
	}, nil)

	_, err := PollBatch(ctx, mc, "mb_slow",
		WithPollInterval(10*time.Millisecond),
		WithPollCap(15*time.Millisecond))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPollBatch_DefaultTimeoutOverride(t *testing.T) {
	mc := new(mockClient)
	mc.On("GetBatch", mock.Anything, "mb_slow").Return(&BatchResponse{
		ID:               "mb_slow",
		ProcessingStatus: "in_progress",
	}, nil)

	_, err := PollBatch(context.Background(), mc, "mb_slow",
		WithPollInterval(5*time.Millisecond),
		WithPollCap(10*time.Millisecond),
		WithPollTimeout(40*time.Millisecond))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPollBatch_GetBatchError(t *testing.T) {
	mc := new(mockClient)
	mc.On("GetBatch", mock.Anything, "mb_err").Return(nil, errors.New("api error: 500"))

	_, err := PollBatch(context.Background(), mc, "mb_err",
		WithPollInterval(5*time.Millisecond))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api error: 500")
}

func TestPollBatch_BackoffGrows(t *testing.T) {
	var timestamps []time.Time
	var calls atomic.Int32
	client := &pollFuncClient{getBatch: func(_ context.Context, id string) (*BatchResponse, error) {
		timestamps = append(timestamps, time.Now())
		if calls.Add(1) < 4 {
			return &BatchResponse{ID: id, ProcessingStatus: "in_progress"}, nil
		}
		return &BatchResponse{ID: id, ProcessingStatus: "ended"}, nil
	}}

	_, err := PollBatch(context.Background(), client, "mb_backoff",
		WithPollInterval(20*time.Millisecond),
		WithPollCap(100*time.Millisecond))
	require.NoError(t, err)
	require.Len(t, timestamps, 4)

	// Intervals double (with jitter), so the later gap should not shrink
	// below the earlier one by more than scheduling noise.
	gap1 := timestamps[1].Sub(timestamps[0])
	gap2 := timestamps[2].Sub(timestamps[1])
	assert.Greater(t, gap2.Milliseconds(), gap1.Milliseconds()-5,
		"backoff should grow: gap1=%v gap2=%v", gap1, gap2)
}

func TestCollectBatchResults_SplitsSucceededAndFailed(t *testing.T) {
	iter := &stubResultIterator{items: []BatchResultItem{
		{CustomID: "extract-0", Type: "succeeded", Message: legResponse("msg_r0")},
		{CustomID: "extract-1", Type: "errored"},
		{CustomID: "extract-2", Type: "succeeded", Message: legResponse("msg_r2")},
		{CustomID: "extract-3", Type: "expired"},
	}}

	results, err := CollectBatchResults(iter)
	require.NoError(t, err)

	assert.Len(t, results.Succeeded, 2)
	assert.Equal(t, legJSON, results.Succeeded["extract-0"].Content[0].Text)
	assert.Equal(t, "msg_r2", results.Succeeded["extract-2"].ID)

	require.Len(t, results.Failures, 2)
	assert.Equal(t, BatchFailure{CustomID: "extract-1", Type: "errored"}, results.Failures[0])
	assert.Equal(t, BatchFailure{CustomID: "extract-3", Type: "expired"}, results.Failures[1])
}

func TestCollectBatchResults_Empty(t *testing.T) {
	results, err := CollectBatchResults(&stubResultIterator{})
	require.NoError(t, err)
	assert.Empty(t, results.Succeeded)
	assert.Empty(t, results.Failures)
}

func TestCollectBatchResults_StreamError(t *testing.T) {
	iter := &stubResultIterator{
		items: []BatchResultItem{
			{CustomID: "extract-0", Type: "succeeded", Message: legResponse("msg_r0")},
		},
		err: errors.New("stream interrupted"),
	}

	_, err := CollectBatchResults(iter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream interrupted")
}
