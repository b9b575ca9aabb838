package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"avtobot/internal/domain/entity"
	"avtobot/internal/repository"
)

const adColumns = `a.id, a.sender, a.title, a.description, a.price, a.year_car,
    a.car_brand_id, a.model, a.mileage_km_car, a.vin_number, a.region,
    a.condition, a.day_count, a.is_active, a.created_at, b.name AS brand_name`

type adRepository struct {
	db *sqlx.DB
}

func NewAdRepository(db *sqlx.DB) repository.AdRepository {
	return &adRepository{db: db}
}

func (r *adRepository) Create(ctx context.Context, ad *entity.Ad) (*entity.Ad, error) {
	query := `
        INSERT INTO ads
            (sender, title, description, price, year_car, car_brand_id, model,
             mileage_km_car, vin_number, region, condition, day_count, is_active)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (vin_number) DO NOTHING
        RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		ad.Sender, ad.Title, ad.Description, ad.Price, ad.YearCar, ad.CarBrandID,
		ad.Model, ad.MileageKm, ad.VINNumber, ad.Region, ad.Condition,
		ad.DayCount, ad.IsActive).
		Scan(&ad.ID, &ad.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Insert skipped by the conflict clause: the VIN is taken.
		return nil, repository.ErrVINExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert ad for %s: %w", ad.Sender, err)
	}
	return ad, nil
}

func (r *adRepository) GetByID(ctx context.Context, id int64) (*entity.Ad, error) {
	ad := &entity.Ad{}
	query := `SELECT ` + adColumns + ` FROM ads a JOIN car_brands b ON b.id = a.car_brand_id WHERE a.id = $1`
	err := r.db.GetContext(ctx, ad, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAdNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ad %d: %w", id, err)
	}
	return ad, nil
}

func (r *adRepository) GetBySender(ctx context.Context, sender string) ([]entity.Ad, error) {
	ads := []entity.Ad{}
	query := `SELECT ` + adColumns + ` FROM ads a JOIN car_brands b ON b.id = a.car_brand_id
        WHERE a.sender = $1 ORDER BY a.created_at DESC`
	if err := r.db.SelectContext(ctx, &ads, query, sender); err != nil {
		return nil, fmt.Errorf("failed to list ads of %s: %w", sender, err)
	}
	return ads, nil
}

// filterWhere translates a FilterState into a WHERE clause over active ads.
func filterWhere(f entity.FilterState) (string, []interface{}) {
	clauses := []string{"a.is_active = TRUE"}
	args := []interface{}{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.BrandID != nil {
		add("a.car_brand_id = $%d", *f.BrandID)
	}
	if f.MinPrice != nil {
		add("a.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("a.price <= $%d", *f.MaxPrice)
	}
	if f.MinMileage != nil {
		add("a.mileage_km_car >= $%d", *f.MinMileage)
	}
	if f.MaxMileage != nil {
		add("a.mileage_km_car <= $%d", *f.MaxMileage)
	}
	if f.Year != nil {
		add("a.year_car = $%d", *f.Year)
	} else {
		if f.MinYear != nil {
			add("a.year_car >= $%d", *f.MinYear)
		}
		if f.MaxYear != nil {
			add("a.year_car <= $%d", *f.MaxYear)
		}
	}
	if f.Region != nil {
		add("lower(a.region) = lower($%d)", *f.Region)
	}
	if f.Condition != nil {
		add("a.condition = $%d", string(*f.Condition))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderBy(f entity.FilterState) string {
	column := "a.created_at"
	if f.SortBy == entity.SortByPrice {
		column = "a.price"
	}
	direction := "DESC"
	if f.SortOrder == entity.SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, a.id %s", column, direction, direction)
}

func (r *adRepository) FilterPage(ctx context.Context, f entity.FilterState) ([]entity.Ad, error) {
	f.Normalize()
	where, args := filterWhere(f)
	query := `SELECT ` + adColumns + ` FROM ads a JOIN car_brands b ON b.id = a.car_brand_id` +
		where + orderBy(f) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, f.Page*f.PageSize)

	ads := []entity.Ad{}
	if err := r.db.SelectContext(ctx, &ads, query, args...); err != nil {
		return nil, fmt.Errorf("failed to filter ads: %w", err)
	}
	return ads, nil
}

func (r *adRepository) CountFiltered(ctx context.Context, f entity.FilterState) (int, error) {
	where, args := filterWhere(f)
	var count int
	query := `SELECT COUNT(1) FROM ads a` + where
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count filtered ads: %w", err)
	}
	return count, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *adRepository) Search(ctx context.Context, query string, limit int) ([]entity.Ad, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	stmt := `SELECT ` + adColumns + ` FROM ads a JOIN car_brands b ON b.id = a.car_brand_id
        WHERE a.is_active = TRUE
          AND (a.title ILIKE $1 OR a.description ILIKE $1 OR a.model ILIKE $1 OR b.name ILIKE $1)
        ORDER BY a.created_at DESC
        LIMIT $2`
	ads := []entity.Ad{}
	if err := r.db.SelectContext(ctx, &ads, stmt, pattern, limit); err != nil {
		return nil, fmt.Errorf("failed to search ads: %w", err)
	}
	return ads, nil
}

func (r *adRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE ads SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to set ad %d active=%t: %w", id, active, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrAdNotFound
	}
	return nil
}
