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

type favoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, sender string, adID int64) (*entity.Favorite, error) {
	fav := &entity.Favorite{}
	query := `
        INSERT INTO favorites (sender, ad_id)
        VALUES ($1, $2)
        ON CONFLICT (sender, ad_id) DO NOTHING
        RETURNING id, sender, ad_id, added_at`
	err := r.db.GetContext(ctx, fav, query, sender, adID)
	if err == nil {
		return fav, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to add favorite %s/%d: %w", sender, adID, err)
	}
	// Already favorited, return the existing row.
	err = r.db.GetContext(ctx, fav,
		`SELECT * FROM favorites WHERE sender = $1 AND ad_id = $2`, sender, adID)
	if err != nil {
		return nil, fmt.Errorf("failed to read favorite %s/%d: %w", sender, adID, err)
	}
	return fav, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, sender string, adID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE sender = $1 AND ad_id = $2`, sender, adID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite %s/%d: %w", sender, adID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrFavoriteNotFound
	}
	return nil
}

func (r *favoriteRepository) ListBySender(ctx context.Context, sender string) ([]entity.Favorite, error) {
	favorites := []entity.Favorite{}
	query := `SELECT * FROM favorites WHERE sender = $1 ORDER BY added_at DESC`
	if err := r.db.SelectContext(ctx, &favorites, query, sender); err != nil {
		return nil, fmt.Errorf("failed to list favorites of %s: %w", sender, err)
	}
	return favorites, nil
}
