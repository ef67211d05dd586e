package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/campus-echo/campus-echo/client/engine"
)

// MockGateway is a mock implementation of engine.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateVote(ctx context.Context, kind engine.TargetKind, targetID uuid.UUID, voteType bool) (*engine.VoteRecord, error) {
	args := m.Called(ctx, kind, targetID, voteType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.VoteRecord), args.Error(1)
}

func (m *MockGateway) DeleteVote(ctx context.Context, voteID uuid.UUID) error {
	args := m.Called(ctx, voteID)
	return args.Error(0)
}

func (m *MockGateway) ListMyVotes(ctx context.Context) ([]engine.VoteRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engine.VoteRecord), args.Error(1)
}
