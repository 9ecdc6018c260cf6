package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/templui/fitgoals/internal/model"
)

type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goal), args.Error(1)
}

func (m *MockGoalRepository) Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error) {
	args := m.Called(ctx, userID, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Goal), args.Error(1)
}

func (m *MockGoalRepository) Update(ctx context.Context, goal *model.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	args := m.Called(ctx, userID, goalID)
	return args.Error(0)
}

func (m *MockGoalRepository) Progress(ctx context.Context, userID, goalID string) (float64, error) {
	args := m.Called(ctx, userID, goalID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockGoalRepository) UpdateProgress(ctx context.Context, userID, goalID string, progress float64) (*model.Goal, error) {
	args := m.Called(ctx, userID, goalID, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goal), args.Error(1)
}
