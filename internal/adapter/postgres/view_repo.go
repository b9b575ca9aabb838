package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"avtobot/internal/repository"
)

type viewRepository struct {
	db *sqlx.DB
}

func NewViewRepository(db *sqlx.DB) repository.ViewRepository {
	return &viewRepository{db: db}
}

func (r *viewRepository) Add(ctx context.Context, adID int64, sender string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO view_logs (ad_id, sender) VALUES ($1, $2)`, adID, sender)
	if err != nil {
		return fmt.Errorf("failed to log view of ad %d by %s: %w", adID, sender, err)
	}
	return nil
}

func (r *viewRepository) CountByAd(ctx context.Context, adID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(1) FROM view_logs WHERE ad_id = $1`, adID)
	if err != nil {
		return 0, fmt.Errorf("failed to count views of ad %d: %w", adID, err)
	}
	return count, nil
}
