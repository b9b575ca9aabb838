package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"avtobot/internal/domain/entity"
	"avtobot/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Ensure(ctx context.Context, sender string, username *string) (*entity.User, error) {
	query := `
        INSERT INTO users (sender, username)
        VALUES ($1, $2)
        ON CONFLICT (sender) DO NOTHING
        RETURNING sender, username, registered_at, balance`
	u := &entity.User{}
	err := r.db.GetContext(ctx, u, query, sender, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to insert user %s: %w", sender, err)
	}
	// Row already existed, read it back.
	return r.GetBySender(ctx, sender)
}

func (r *userRepository) GetBySender(ctx context.Context, sender string) (*entity.User, error) {
	u := &entity.User{}
	err := r.db.GetContext(ctx, u, `SELECT * FROM users WHERE sender = $1`, sender)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", sender, err)
	}
	return u, nil
}

func (r *userRepository) UpdateBalance(ctx context.Context, sender string, delta int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET balance = balance + $1 WHERE sender = $2`, delta, sender)
	if err != nil {
		return fmt.Errorf("failed to update balance for %s: %w", sender, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}
