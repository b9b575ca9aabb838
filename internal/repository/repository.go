package repository

import (
	"context"
	"time"

	"avtobot/internal/domain/entity"
)

type UserRepository interface {
	// Ensure inserts the user if missing and returns the stored row either way.
	Ensure(ctx context.Context, sender string, username *string) (*entity.User, error)
	GetBySender(ctx context.Context, sender string) (*entity.User, error)
	UpdateBalance(ctx context.Context, sender string, delta int) error
}

type AdRepository interface {
	// Create inserts an ad and returns it with the assigned id.
	// A duplicate VIN yields ErrVINExists.
	Create(ctx context.Context, ad *entity.Ad) (*entity.Ad, error)
	GetByID(ctx context.Context, id int64) (*entity.Ad, error)
	GetBySender(ctx context.Context, sender string) ([]entity.Ad, error)
	// FilterPage returns one page of active ads matching the filter state,
	// using its page/page_size/sort fields.
	FilterPage(ctx context.Context, f entity.FilterState) ([]entity.Ad, error)
	CountFiltered(ctx context.Context, f entity.FilterState) (int, error)
	// Search matches a free-text query against title, description, model
	// and brand name of active ads.
	Search(ctx context.Context, query string, limit int) ([]entity.Ad, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type BrandRepository interface {
	GetByName(ctx context.Context, name string) (*entity.CarBrand, error)
	// Ensure returns the brand with the given name, creating it when missing.
	Ensure(ctx context.Context, name string) (*entity.CarBrand, error)
	GetAll(ctx context.Context) ([]entity.CarBrand, error)
}

type ImageRepository interface {
	Add(ctx context.Context, adID int64, imageURL string) (*entity.AdImage, error)
	GetByAdID(ctx context.Context, adID int64) ([]entity.AdImage, error)
	MapByAdIDs(ctx context.Context, adIDs []int64) (map[int64][]entity.AdImage, error)
}

type FavoriteRepository interface {
	// Add is idempotent: adding an existing favorite returns the stored row.
	Add(ctx context.Context, sender string, adID int64) (*entity.Favorite, error)
	Remove(ctx context.Context, sender string, adID int64) error
	ListBySender(ctx context.Context, sender string) ([]entity.Favorite, error)
}

type ModerationRepository interface {
	CreatePending(ctx context.Context, adID int64) (*entity.Moderation, error)
	GetByAdID(ctx context.Context, adID int64) (*entity.Moderation, error)
	SetStatus(ctx context.Context, adID int64, moderatorID *int64, status entity.ModerationStatus, comment *string) error
}

type PaymentRepository interface {
	Add(ctx context.Context, sender string, amount int, description *string) (*entity.Payment, error)
	ListBySender(ctx context.Context, sender string) ([]entity.Payment, error)
}

type ViewRepository interface {
	Add(ctx context.Context, adID int64, sender string) error
	CountByAd(ctx context.Context, adID int64) (int, error)
}

// AdCache is a short-lived detail cache in front of AdRepository.GetByID.
type AdCache interface {
	Get(ctx context.Context, id int64) (*entity.Ad, error)
	Set(ctx context.Context, ad *entity.Ad, ttl time.Duration) error
	Delete(ctx context.Context, id int64) error
}
