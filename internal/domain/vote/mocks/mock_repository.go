package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/campus-echo/campus-echo/internal/domain/vote"
)

// MockRepository is a mock implementation of vote.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, v *vote.Vote) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockRepository) UpdateType(ctx context.Context, voteID uuid.UUID, voteType bool) error {
	args := m.Called(ctx, voteID, voteType)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, voteID uuid.UUID) (*vote.Vote, error) {
	args := m.Called(ctx, voteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vote.Vote), args.Error(1)
}

func (m *MockRepository) GetByUserAndTarget(ctx context.Context, userID uuid.UUID, kind vote.TargetKind, targetID uuid.UUID) (*vote.Vote, error) {
	args := m.Called(ctx, userID, kind, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vote.Vote), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter vote.Filter, limit, offset int) ([]*vote.Vote, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vote.Vote), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, voteID uuid.UUID) error {
	args := m.Called(ctx, voteID)
	return args.Error(0)
}

func (m *MockRepository) CountForTarget(ctx context.Context, kind vote.TargetKind, targetID uuid.UUID) (vote.Stats, error) {
	args := m.Called(ctx, kind, targetID)
	return args.Get(0).(vote.Stats), args.Error(1)
}
