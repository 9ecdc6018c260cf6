package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fitgoals/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Users(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	AppendProgress(ctx context.Context, userID string, entry model.ProgressEntry) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, email, password_hash, name, progress, avatar_path, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Progress,
		user.AvatarPath,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Users(ctx context.Context) ([]*model.User, error) {
	users := []*model.User{}
	query := `SELECT * FROM users ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Update writes the account fields. The progress column is left alone:
// AppendProgress is its only writer.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users
	          SET email = $1, password_hash = $2, name = $3, avatar_path = $4, updated_at = $5
	          WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.AvatarPath,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return expectRows(result, ErrUserNotFound)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectRows(result, ErrUserNotFound)
}

// appendProgressQueries append one JSON element to the progress column in a
// single statement, so concurrent appends serialize on the row.
var appendProgressQueries = map[string]string{
	"sqlite": `UPDATE users
	           SET progress = json_insert(COALESCE(NULLIF(progress, ''), '[]'), '$[#]', json($1))
	           WHERE id = $2`,
	"pgx": `UPDATE users
	        SET progress = (COALESCE(NULLIF(progress, ''), '[]')::jsonb || jsonb_build_array($1::jsonb))::text
	        WHERE id = $2`,
}

func (r *userRepository) AppendProgress(ctx context.Context, userID string, entry model.ProgressEntry) error {
	query, ok := appendProgressQueries[r.db.DriverName()]
	if !ok {
		return fmt.Errorf("append progress: unsupported driver %q", r.db.DriverName())
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode progress entry: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, string(data), userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrUserNotFound)
}

func expectRows(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
