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

type brandRepository struct {
	db *sqlx.DB
}

func NewBrandRepository(db *sqlx.DB) repository.BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) GetByName(ctx context.Context, name string) (*entity.CarBrand, error) {
	b := &entity.CarBrand{}
	err := r.db.GetContext(ctx, b,
		`SELECT * FROM car_brands WHERE lower(name) = lower($1)`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand %q: %w", name, err)
	}
	return b, nil
}

func (r *brandRepository) Ensure(ctx context.Context, name string) (*entity.CarBrand, error) {
	b := &entity.CarBrand{}
	query := `
        INSERT INTO car_brands (name)
        VALUES ($1)
        ON CONFLICT (name) DO NOTHING
        RETURNING id, name`
	err := r.db.GetContext(ctx, b, query, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to insert brand %q: %w", name, err)
	}
	return r.GetByName(ctx, name)
}

func (r *brandRepository) GetAll(ctx context.Context) ([]entity.CarBrand, error) {
	brands := []entity.CarBrand{}
	if err := r.db.SelectContext(ctx, &brands, `SELECT * FROM car_brands ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}
