package anthropic

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Shared fixtures for the package tests: the extraction stage sends one
// system prefix per run and expects candidate-leg JSON back.
const (
	extractionModel  = "claude-haiku-4-5-20251001"
	extractionPrefix = "You extract travel legs from email excerpts.\n\n# Open gaps\n1. Bangkok -> Kuala Lumpur (2023-02-06 to 2023-03-10)"
	legJSON          = `[{"departure_country":"TH","departure_city":"Bangkok (BKK)","departure_date":"2023-03-09","arrival_country":"MY","arrival_city":"Kuala Lumpur (KUL)","arrival_date":"2023-03-09","source_file":"booking.eml"}]`
)

func legResponse(id string) *MessageResponse {
	return &MessageResponse{
		ID:         id,
		Model:      extractionModel,
		Content:    []ContentBlock{{Type: "text", Text: legJSON}},
		StopReason: "end_turn",
		Usage:      TokenUsage{InputTokens: 900, OutputTokens: 120},
	}
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

func (m *mockClient) CreateBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BatchResponse), args.Error(1)
}

func (m *mockClient) GetBatch(ctx context.Context, batchID string) (*BatchResponse, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BatchResponse), args.Error(1)
}

func (m *mockClient) GetBatchResults(ctx context.Context, batchID string) (BatchResultIterator, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(BatchResultIterator), args.Error(1)
}

// stubResultIterator yields a fixed item slice, then an optional stream
// error.
type stubResultIterator struct {
	items []BatchResultItem
	err   error
	idx   int
}

func (s *stubResultIterator) Next() bool {
	if s.idx < len(s.items) {
		s.idx++
		return true
	}
	return false
}

func (s *stubResultIterator) Item() BatchResultItem {
	return s.items[s.idx-1]
}

func (s *stubResultIterator) Err() error {
	if s.idx >= len(s.items) {
		return s.err
	}
	return nil
}

func (s *stubResultIterator) Close() error { return nil }

// pollFuncClient delegates GetBatch to a function; the other operations are
// never reached by PollBatch.
type pollFuncClient struct {
	getBatch func(context.Context, string) (*BatchResponse, error)
}

func (c *pollFuncClient) CreateMessage(context.Context, MessageRequest) (*MessageResponse, error) {
	return nil, nil
}

func (c *pollFuncClient) CreateBatch(context.Context, BatchRequest) (*BatchResponse, error) {
	return nil, nil
}

func (c *pollFuncClient) GetBatch(ctx context.Context, id string) (*BatchResponse, error) {
	return c.getBatch(ctx, id)
}

func (c *pollFuncClient) GetBatchResults(context.Context, string) (BatchResultIterator, error) {
	return nil, nil
}
