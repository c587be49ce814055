package userrepo

import (
	"context"
	"database/sql"
	"docflow/internal/entities"
	"docflow/internal/models"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "userRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users(id, login, pass_hash, role, created_at) VALUES($1, $2, $3, $4, $5)`,
		user.ID, user.Login, user.PassHash, user.Role, user.CreatedAt)

	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" {
				return &models.UniqueConstraintError{
					Constraint: pgErr.Constraint,
					Err:        models.ErrUserExists,
				}
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UserByID(ctx context.Context, id string) (*models.User, error) {
	op := pkg + "UserByID"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.login AS login,
			u.pass_hash AS pass_hash,
			u.role AS role,
			u.created_at AS created_at
		FROM users u
		WHERE u.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userFromRow(rawUser), nil
}

func (r *repository) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	op := pkg + "UserByLogin"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.login AS login,
			u.pass_hash AS pass_hash,
			u.role AS role,
			u.created_at AS created_at
		FROM users u
		WHERE u.login = $1`, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userFromRow(rawUser), nil
}

// ListByRole returns users with the given role; an empty role lists everyone.
func (r *repository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	op := pkg + "ListByRole"

	rawUsers := make([]entities.User, 0)

	err := r.db.SelectContext(ctx, &rawUsers,
		`SELECT
			u.id AS id,
			u.login AS login,
			u.pass_hash AS pass_hash,
			u.role AS role,
			u.created_at AS created_at
		FROM users u
		WHERE ($1 = '' OR u.role = $1)
		ORDER BY u.login ASC`, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users := make([]*models.User, 0, len(rawUsers))

	for _, rawUser := range rawUsers {
		users = append(users, userFromRow(rawUser))
	}

	return users, nil
}

func (r *repository) SetRole(ctx context.Context, id string, role string) error {
	op := pkg + "SetRole"

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = $2 WHERE id = $1`,
		id, role)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}

	return nil
}

func userFromRow(raw entities.User) *models.User {
	return &models.User{
		ID:        raw.ID,
		Login:     raw.Login,
		PassHash:  raw.PassHash,
		Role:      raw.Role,
		CreatedAt: raw.CreatedAt,
	}
}
