package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/repository"
	"github.com/templui/fitgoals/internal/validation"
)

var ErrInvalidSort = errors.New("invalid sort order")

// GoalInput carries the writable goal fields.
type GoalInput struct {
	Type     string
	Target   float64
	Deadline time.Time
	Progress float64
}

// ProgressStatus is the progress view of a single goal.
type ProgressStatus struct {
	GoalID    string                `json:"goal_id"`
	Progress  float64               `json:"progress"`
	Target    float64               `json:"target"`
	Completed bool                  `json:"completed"`
	History   []model.ProgressEntry `json:"history"`
}

type GoalService struct {
	goalRepository repository.GoalRepository
	userRepository repository.UserRepository
	emailService   *EmailService
	now            func() time.Time
}

func NewGoalService(
	goalRepository repository.GoalRepository,
	userRepository repository.UserRepository,
	emailService *EmailService,
) *GoalService {
	return &GoalService{
		goalRepository: goalRepository,
		userRepository: userRepository,
		emailService:   emailService,
		now:            time.Now,
	}
}

func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	in.Type = strings.TrimSpace(in.Type)
	now := s.now().UTC()

	err := validation.ValidateGoalType(in.Type)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateTarget(in.Target)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateDeadline(in.Deadline, now)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateProgress(in.Progress)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      in.Type,
		Target:    in.Target,
		Progress:  in.Progress,
		Deadline:  in.Deadline.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.goalRepository.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("goal created", "goal_id", goal.ID, "user_id", userID, "type", goal.Type)
	return goal, nil
}

func (s *GoalService) Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error) {
	if !repository.IsValidGoalSort(sortBy) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, sortBy)
	}
	return s.goalRepository.Goals(ctx, userID, sortBy)
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.goalRepository.ByID(ctx, userID, goalID)
}

// Update replaces the goal's fields. The deadline is not re-checked against
// the clock, so goals past their deadline stay editable; a zero deadline keeps
// the stored one.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, in GoalInput) (*model.Goal, error) {
	in.Type = strings.TrimSpace(in.Type)

	err := validation.ValidateGoalType(in.Type)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateTarget(in.Target)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateProgress(in.Progress)
	if err != nil {
		return nil, err
	}

	goal, err := s.goalRepository.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Type = in.Type
	goal.Target = in.Target
	goal.Progress = in.Progress
	if !in.Deadline.IsZero() {
		goal.Deadline = in.Deadline.UTC()
	}
	goal.UpdatedAt = s.now().UTC()

	err = s.goalRepository.Update(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	err := s.goalRepository.Delete(ctx, userID, goalID)
	if err != nil {
		return err
	}

	slog.Info("goal deleted", "goal_id", goalID, "user_id", userID)
	return nil
}

func (s *GoalService) Progress(ctx context.Context, userID, goalID string) (float64, error) {
	return s.goalRepository.Progress(ctx, userID, goalID)
}

// ProgressStatus reports progress against target along with the recorded
// history for the goal.
func (s *GoalService) ProgressStatus(ctx context.Context, userID, goalID string) (*ProgressStatus, error) {
	goal, err := s.goalRepository.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	history := []model.ProgressEntry{}
	user, err := s.userRepository.ByID(ctx, userID)
	if err == nil {
		history = user.Progress.ForGoal(goalID)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get progress history: %w", err)
	}

	return &ProgressStatus{
		GoalID:    goal.ID,
		Progress:  goal.Progress,
		Target:    goal.Target,
		Completed: goal.IsCompleted(),
		History:   history,
	}, nil
}

// UpdateProgress stores the new progress value and appends it to the user's
// progress log. A goal crossing its target triggers a congratulation email.
func (s *GoalService) UpdateProgress(ctx context.Context, userID, goalID string, progress float64) (*model.Goal, error) {
	err := validation.ValidateProgress(progress)
	if err != nil {
		return nil, err
	}

	previous, err := s.goalRepository.Progress(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal, err := s.goalRepository.UpdateProgress(ctx, userID, goalID, progress)
	if err != nil {
		return nil, err
	}

	entry := model.ProgressEntry{
		GoalID:     goalID,
		Value:      progress,
		RecordedAt: s.now().UTC(),
	}
	err = s.userRepository.AppendProgress(ctx, userID, entry)
	if err != nil {
		slog.Warn("failed to record progress entry", "error", err, "user_id", userID, "goal_id", goalID)
	}

	if previous < goal.Target && goal.IsCompleted() {
		s.notifyCompleted(ctx, userID, goal)
	}

	return goal, nil
}

func (s *GoalService) notifyCompleted(ctx context.Context, userID string, goal *model.Goal) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		slog.Warn("failed to load user for goal completion email", "error", err, "user_id", userID)
		return
	}

	err = s.emailService.SendGoalCompletedEmail(ctx, user.Email, user.Name, goal.Type, goal.Target)
	if err != nil {
		slog.Warn("failed to send goal completed email", "error", err, "user_id", userID, "goal_id", goal.ID)
	}
}

func (s *GoalService) IsCompleted(ctx context.Context, userID, goalID string) (bool, error) {
	goal, err := s.goalRepository.ByID(ctx, userID, goalID)
	if err != nil {
		return false, err
	}
	return goal.IsCompleted(), nil
}

// Summary builds the dashboard counts for a user.
func (s *GoalService) Summary(ctx context.Context, user *model.User) (*model.Summary, error) {
	goals, err := s.goalRepository.Goals(ctx, user.ID, repository.GoalSortDeadline)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}

	now := s.now()
	summary := &model.Summary{
		User:       user,
		TotalGoals: len(goals),
		Goals:      goals,
	}

	for _, g := range goals {
		switch {
		case g.IsCompleted():
			summary.CompletedGoals++
		case g.Deadline.Before(now):
			summary.OverdueGoals++
		default:
			summary.ActiveGoals++
		}
	}

	return summary, nil
}
