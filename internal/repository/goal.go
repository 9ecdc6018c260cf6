package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fitgoals/internal/model"
)

const (
	GoalSortRecent   = "recent"
	GoalSortProgress = "progress"
	GoalSortType     = "type"
	GoalSortDeadline = "deadline"
)

// IsValidGoalSort reports whether sortBy names a supported ordering. Empty
// means the default (recent).
func IsValidGoalSort(sortBy string) bool {
	switch sortBy {
	case "", GoalSortRecent, GoalSortProgress, GoalSortType, GoalSortDeadline:
		return true
	}
	return false
}

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, userID, goalID string) error
	Progress(ctx context.Context, userID, goalID string) (float64, error)
	UpdateProgress(ctx context.Context, userID, goalID string, progress float64) (*model.Goal, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, type, target, progress, deadline, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Type,
		goal.Target,
		goal.Progress,
		goal.Deadline,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error) {
	goals := []*model.Goal{}

	var orderBy string
	switch sortBy {
	case GoalSortProgress:
		orderBy = "ORDER BY progress / target DESC, updated_at DESC"
	case GoalSortType:
		orderBy = "ORDER BY LOWER(type) ASC, created_at DESC"
	case GoalSortDeadline:
		orderBy = "ORDER BY deadline ASC"
	default: // GoalSortRecent or empty
		orderBy = "ORDER BY created_at DESC"
	}

	query := `SELECT * FROM goals WHERE user_id = $1 ` + orderBy

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET type = $1, target = $2, progress = $3, deadline = $4, updated_at = $5
	          WHERE id = $6 AND user_id = $7`

	result, err := r.db.ExecContext(ctx, query,
		goal.Type,
		goal.Target,
		goal.Progress,
		goal.Deadline,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrGoalNotFound)
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrGoalNotFound)
}

func (r *goalRepository) Progress(ctx context.Context, userID, goalID string) (float64, error) {
	var progress float64
	query := `SELECT progress FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &progress, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrGoalNotFound
	}

	return progress, err
}

func (r *goalRepository) UpdateProgress(ctx context.Context, userID, goalID string, progress float64) (*model.Goal, error) {
	query := `UPDATE goals SET progress = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.db.ExecContext(ctx, query, progress, time.Now().UTC(), goalID, userID)
	if err != nil {
		return nil, err
	}

	err = expectRows(result, ErrGoalNotFound)
	if err != nil {
		return nil, err
	}

	return r.ByID(ctx, userID, goalID)
}
