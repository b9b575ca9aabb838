package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"avtobot/internal/domain/entity"
	"avtobot/internal/repository"
)

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) repository.ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Add(ctx context.Context, adID int64, imageURL string) (*entity.AdImage, error) {
	img := &entity.AdImage{AdID: adID, ImageURL: imageURL}
	query := `
        INSERT INTO ad_images (ad_id, image_url)
        VALUES ($1, $2)
        RETURNING id, uploaded_at`
	err := r.db.QueryRowContext(ctx, query, adID, imageURL).Scan(&img.ID, &img.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add image for ad %d: %w", adID, err)
	}
	return img, nil
}

func (r *imageRepository) GetByAdID(ctx context.Context, adID int64) ([]entity.AdImage, error) {
	images := []entity.AdImage{}
	query := `SELECT * FROM ad_images WHERE ad_id = $1 ORDER BY uploaded_at, id`
	if err := r.db.SelectContext(ctx, &images, query, adID); err != nil {
		return nil, fmt.Errorf("failed to list images of ad %d: %w", adID, err)
	}
	return images, nil
}

func (r *imageRepository) MapByAdIDs(ctx context.Context, adIDs []int64) (map[int64][]entity.AdImage, error) {
	result := make(map[int64][]entity.AdImage, len(adIDs))
	if len(adIDs) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(
		`SELECT * FROM ad_images WHERE ad_id IN (?) ORDER BY uploaded_at, id`, adIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build image query: %w", err)
	}
	images := []entity.AdImage{}
	if err := r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to map images: %w", err)
	}
	for _, img := range images {
		result[img.AdID] = append(result[img.AdID], img)
	}
	return result, nil
}
