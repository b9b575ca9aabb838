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

type moderationRepository struct {
	db *sqlx.DB
}

func NewModerationRepository(db *sqlx.DB) repository.ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) CreatePending(ctx context.Context, adID int64) (*entity.Moderation, error) {
	m := &entity.Moderation{}
	query := `
        INSERT INTO moderations (ad_id, status)
        VALUES ($1, 'pending')
        ON CONFLICT (ad_id) DO NOTHING
        RETURNING id, ad_id, moderator_id, status, comment, checked_at`
	err := r.db.GetContext(ctx, m, query, adID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to create moderation for ad %d: %w", adID, err)
	}
	return r.GetByAdID(ctx, adID)
}

func (r *moderationRepository) GetByAdID(ctx context.Context, adID int64) (*entity.Moderation, error) {
	m := &entity.Moderation{}
	err := r.db.GetContext(ctx, m, `SELECT * FROM moderations WHERE ad_id = $1`, adID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAdNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get moderation for ad %d: %w", adID, err)
	}
	return m, nil
}

func (r *moderationRepository) SetStatus(ctx context.Context, adID int64, moderatorID *int64, status entity.ModerationStatus, comment *string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE moderations
        SET moderator_id = $1, status = $2, comment = $3, checked_at = now()
        WHERE ad_id = $4`,
		moderatorID, status, comment, adID)
	if err != nil {
		return fmt.Errorf("failed to set moderation status for ad %d: %w", adID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrAdNotFound
	}
	return nil
}
