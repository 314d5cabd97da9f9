package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users
			(id, email, name, role, password_hash, avatar_url, phone, trial_ends_at, subscription_active)
		VALUES
			(:id, :email, :name, :role, :password_hash, :avatar_url, :phone, :trial_ends_at, :subscription_active)
		ON CONFLICT DO NOTHING
	`, u)
	if err != nil {
		return fmt.Errorf("UserRepository.Create: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE lower(email) = lower($1)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UserRepository.GetByEmail: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UserRepository.GetByID: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM users`); err != nil {
		return 0, fmt.Errorf("UserRepository.Count: %w", err)
	}
	return n, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role model.Role) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM users WHERE role = $1`, string(role)); err != nil {
		return 0, fmt.Errorf("UserRepository.CountByRole: %w", err)
	}
	return n, nil
}
