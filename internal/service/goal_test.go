package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/repository"
	"github.com/templui/fitgoals/internal/repository/mocks"
	"github.com/templui/fitgoals/internal/validation"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newGoalService(goals *mocks.MockGoalRepository, users *mocks.MockUserRepository) *GoalService {
	s := NewGoalService(goals, users, devEmail())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestGoalService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and owner", func(t *testing.T) {
		goals := new(mocks.MockGoalRepository)
		goals.On("Create", mock.Anything, mock.AnythingOfType("*model.Goal")).Return(nil)

		goal, err := newGoalService(goals, new(mocks.MockUserRepository)).Create(ctx, "user-1", GoalInput{
			Type:     "running",
			Target:   10,
			Deadline: fixedNow.Add(24 * time.Hour),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, goal.ID)
		assert.Equal(t, "user-1", goal.UserID)
		assert.Equal(t, fixedNow, goal.CreatedAt)
		assert.False(t, goal.IsCompleted())
		goals.AssertExpectations(t)
	})

	tests := []struct {
		name string
		in   GoalInput
	}{
		{"zero target", GoalInput{Type: "running", Target: 0, Deadline: fixedNow.Add(time.Hour)}},
		{"empty type", GoalInput{Type: " ", Target: 10, Deadline: fixedNow.Add(time.Hour)}},
		{"past deadline", GoalInput{Type: "running", Target: 10, Deadline: fixedNow.Add(-time.Hour)}},
		{"negative progress", GoalInput{Type: "running", Target: 10, Deadline: fixedNow.Add(time.Hour), Progress: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goals := new(mocks.MockGoalRepository)

			_, err := newGoalService(goals, new(mocks.MockUserRepository)).Create(ctx, "user-1", tt.in)
			require.Error(t, err)
			assert.True(t, validation.IsValidationError(err))
			goals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestGoalService_UpdateSkipsDeadlineCheck(t *testing.T) {
	ctx := context.Background()
	existing := &model.Goal{ID: "g1", UserID: "user-1", Type: "running", Target: 10, Deadline: fixedNow.Add(-48 * time.Hour)}

	goals := new(mocks.MockGoalRepository)
	goals.On("ByID", mock.Anything, "user-1", "g1").Return(existing, nil)
	goals.On("Update", mock.Anything, mock.MatchedBy(func(g *model.Goal) bool {
		return g.Type == "cycling" && g.Target == 20 && g.Progress == 5 && g.Deadline.Equal(fixedNow.Add(-48*time.Hour))
	})).Return(nil)

	goal, err := newGoalService(goals, new(mocks.MockUserRepository)).Update(ctx, "user-1", "g1", GoalInput{
		Type:     "cycling",
		Target:   20,
		Progress: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, goal.UpdatedAt)
	goals.AssertExpectations(t)
}

func TestGoalService_UpdateValidatesTarget(t *testing.T) {
	goals := new(mocks.MockGoalRepository)

	_, err := newGoalService(goals, new(mocks.MockUserRepository)).Update(context.Background(), "user-1", "g1", GoalInput{Type: "running", Target: -5})
	assert.True(t, validation.IsValidationError(err))
	goals.AssertNotCalled(t, "ByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestGoalService_Goals(t *testing.T) {
	ctx := context.Background()
	goals := new(mocks.MockGoalRepository)
	goals.On("Goals", mock.Anything, "user-1", "deadline").Return([]*model.Goal{{ID: "g1"}}, nil)
	svc := newGoalService(goals, new(mocks.MockUserRepository))

	got, err := svc.Goals(ctx, "user-1", "deadline")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.Goals(ctx, "user-1", "title")
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestGoalService_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	goals := new(mocks.MockGoalRepository)
	goals.On("Delete", mock.Anything, "user-1", "g1").Return(nil).Once()
	goals.On("Delete", mock.Anything, "user-1", "g1").Return(repository.ErrGoalNotFound).Once()
	svc := newGoalService(goals, new(mocks.MockUserRepository))

	require.NoError(t, svc.Delete(ctx, "user-1", "g1"))
	assert.ErrorIs(t, svc.Delete(ctx, "user-1", "g1"), repository.ErrGoalNotFound)
}

func TestGoalService_UpdateProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("records entry and completes goal", func(t *testing.T) {
		goals := new(mocks.MockGoalRepository)
		users := new(mocks.MockUserRepository)
		goals.On("Progress", mock.Anything, "user-1", "g1").Return(4.0, nil)
		goals.On("UpdateProgress", mock.Anything, "user-1", "g1", 10.0).
			Return(&model.Goal{ID: "g1", UserID: "user-1", Type: "running", Target: 10, Progress: 10}, nil)
		users.On("AppendProgress", mock.Anything, "user-1", model.ProgressEntry{GoalID: "g1", Value: 10, RecordedAt: fixedNow}).Return(nil)
		users.On("ByID", mock.Anything, "user-1").Return(&model.User{ID: "user-1", Email: "ada@example.com", Name: "Ada"}, nil)

		goal, err := newGoalService(goals, users).UpdateProgress(ctx, "user-1", "g1", 10)
		require.NoError(t, err)
		assert.True(t, goal.IsCompleted())
		goals.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("history failure does not fail the update", func(t *testing.T) {
		goals := new(mocks.MockGoalRepository)
		users := new(mocks.MockUserRepository)
		goals.On("Progress", mock.Anything, "user-1", "g1").Return(1.0, nil)
		goals.On("UpdateProgress", mock.Anything, "user-1", "g1", 2.0).
			Return(&model.Goal{ID: "g1", Target: 10, Progress: 2}, nil)
		users.On("AppendProgress", mock.Anything, "user-1", mock.Anything).Return(errors.New("write conflict"))

		goal, err := newGoalService(goals, users).UpdateProgress(ctx, "user-1", "g1", 2)
		require.NoError(t, err)
		assert.Equal(t, 2.0, goal.Progress)
		users.AssertNotCalled(t, "ByID", mock.Anything, mock.Anything)
	})

	t.Run("negative progress", func(t *testing.T) {
		goals := new(mocks.MockGoalRepository)

		_, err := newGoalService(goals, new(mocks.MockUserRepository)).UpdateProgress(ctx, "user-1", "g1", -1)
		assert.True(t, validation.IsValidationError(err))
	})

	t.Run("missing goal", func(t *testing.T) {
		goals := new(mocks.MockGoalRepository)
		goals.On("Progress", mock.Anything, "user-1", "nope").Return(0.0, repository.ErrGoalNotFound)

		_, err := newGoalService(goals, new(mocks.MockUserRepository)).UpdateProgress(ctx, "user-1", "nope", 3)
		assert.ErrorIs(t, err, repository.ErrGoalNotFound)
	})
}

func TestGoalService_ProgressStatus(t *testing.T) {
	ctx := context.Background()
	goals := new(mocks.MockGoalRepository)
	users := new(mocks.MockUserRepository)

	goals.On("ByID", mock.Anything, "user-1", "g1").Return(&model.Goal{ID: "g1", Target: 10, Progress: 10}, nil)
	users.On("ByID", mock.Anything, "user-1").Return(&model.User{ID: "user-1", Progress: model.ProgressLog{
		{GoalID: "g1", Value: 4},
		{GoalID: "g2", Value: 1},
		{GoalID: "g1", Value: 10},
	}}, nil)

	status, err := newGoalService(goals, users).ProgressStatus(ctx, "user-1", "g1")
	require.NoError(t, err)
	assert.True(t, status.Completed)
	assert.Equal(t, 10.0, status.Target)
	require.Len(t, status.History, 2)
	assert.Equal(t, 4.0, status.History[0].Value)
}

func TestGoalService_IsCompleted(t *testing.T) {
	ctx := context.Background()
	goals := new(mocks.MockGoalRepository)
	goals.On("ByID", mock.Anything, "user-1", "done").Return(&model.Goal{Target: 10, Progress: 10}, nil)
	goals.On("ByID", mock.Anything, "user-1", "almost").Return(&model.Goal{Target: 10, Progress: 9}, nil)
	goals.On("Progress", mock.Anything, "user-1", "almost").Return(9.0, nil)
	svc := newGoalService(goals, new(mocks.MockUserRepository))

	done, err := svc.IsCompleted(ctx, "user-1", "done")
	require.NoError(t, err)
	assert.True(t, done)

	almost, err := svc.IsCompleted(ctx, "user-1", "almost")
	require.NoError(t, err)
	assert.False(t, almost)

	progress, err := svc.Progress(ctx, "user-1", "almost")
	require.NoError(t, err)
	assert.Equal(t, 9.0, progress)
}

func TestGoalService_Summary(t *testing.T) {
	goals := new(mocks.MockGoalRepository)
	goals.On("Goals", mock.Anything, "user-1", repository.GoalSortDeadline).Return([]*model.Goal{
		{ID: "done", Target: 5, Progress: 5, Deadline: fixedNow.Add(-time.Hour)},
		{ID: "late", Target: 5, Progress: 1, Deadline: fixedNow.Add(-time.Hour)},
		{ID: "open", Target: 5, Progress: 1, Deadline: fixedNow.Add(time.Hour)},
	}, nil)

	summary, err := newGoalService(goals, new(mocks.MockUserRepository)).Summary(context.Background(), &model.User{ID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalGoals)
	assert.Equal(t, 1, summary.CompletedGoals)
	assert.Equal(t, 1, summary.OverdueGoals)
	assert.Equal(t, 1, summary.ActiveGoals)
}
