package service

import (
	"context"
	"fmt"
	"time"

	"avtobot/internal/adapter/nats"
	"avtobot/internal/domain/entity"
	"avtobot/internal/mailer"
	"avtobot/internal/platform/logger"
	"avtobot/internal/platform/metrics"
	"avtobot/internal/repository"
)

// OwnerPreview is the "my ads" summary shown in the sell menu.
type OwnerPreview struct {
	Total  int
	Active int
	Ads    []entity.Ad
	Photos map[int64]string // first photo per ad id, when present
}

type AdService interface {
	// Create persists a finished sell form: brand, ad, images, pending
	// moderation row. Returns the stored ad and its moderation record.
	Create(ctx context.Context, input entity.NewAdInput) (*entity.Ad, *entity.Moderation, error)
	GetByID(ctx context.Context, id int64) (*entity.Ad, error)
	Images(ctx context.Context, adID int64) ([]entity.AdImage, error)
	Preview(ctx context.Context, sender string, limit int) (*OwnerPreview, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Ad, error)
	// RecordView logs that the sender opened the ad. Best effort.
	RecordView(ctx context.Context, adID int64, sender string)
	// ViewCount returns how many times the ad was opened, 0 on storage errors.
	ViewCount(ctx context.Context, adID int64) int
}

type adService struct {
	ads        repository.AdRepository
	brands     repository.BrandRepository
	images     repository.ImageRepository
	moderation repository.ModerationRepository
	views      repository.ViewRepository
	cache      repository.AdCache
	cacheTTL   time.Duration
	publisher  nats.MessagePublisher
	mail       mailer.Mailer
	log        logger.Logger
}

func NewAdService(
	ads repository.AdRepository,
	brands repository.BrandRepository,
	images repository.ImageRepository,
	moderation repository.ModerationRepository,
	views repository.ViewRepository,
	cache repository.AdCache,
	cacheTTL time.Duration,
	publisher nats.MessagePublisher,
	mail mailer.Mailer,
	log logger.Logger,
) AdService {
	return &adService{
		ads:        ads,
		brands:     brands,
		images:     images,
		moderation: moderation,
		views:      views,
		cache:      cache,
		cacheTTL:   cacheTTL,
		publisher:  publisher,
		mail:       mail,
		log:        log,
	}
}

const defaultDayCount = 7

type adCreatedEvent struct {
	AdID   int64  `json:"ad_id"`
	Sender string `json:"sender"`
	Title  string `json:"title"`
	Price  int    `json:"price"`
	VIN    string `json:"vin"`
}

func (s *adService) Create(ctx context.Context, input entity.NewAdInput) (*entity.Ad, *entity.Moderation, error) {
	brand, err := s.brands.Ensure(ctx, input.Brand)
	if err != nil {
		return nil, nil, fmt.Errorf("ensure brand %q: %w", input.Brand, err)
	}

	ad := &entity.Ad{
		Sender:      input.Sender,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		YearCar:     input.Year,
		CarBrandID:  brand.ID,
		Model:       input.Model,
		MileageKm:   input.Mileage,
		VINNumber:   input.VIN,
		Region:      input.Region,
		Condition:   input.Condition,
		DayCount:    defaultDayCount,
		IsActive:    true,
		BrandName:   brand.Name,
	}
	if ad, err = s.ads.Create(ctx, ad); err != nil {
		return nil, nil, err
	}

	for _, photo := range input.Photos {
		if _, err := s.images.Add(ctx, ad.ID, photo); err != nil {
			return nil, nil, fmt.Errorf("attach photo to ad %d: %w", ad.ID, err)
		}
	}

	mod, err := s.moderation.CreatePending(ctx, ad.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("create moderation for ad %d: %w", ad.ID, err)
	}

	// Downstream notifications are best effort: the ad is already stored.
	if s.publisher != nil {
		event := adCreatedEvent{AdID: ad.ID, Sender: ad.Sender, Title: ad.Title, Price: ad.Price, VIN: ad.VINNumber}
		if err := s.publisher.Publish(ctx, nats.SubjectAdCreated, event); err != nil {
			s.log.Errorf("AdService.Create: publish event for ad %d: %v", ad.ID, err)
		}
	}
	if s.mail != nil {
		if err := s.mail.SendAdPendingEmail(ad); err != nil {
			s.log.Errorf("AdService.Create: moderation email for ad %d: %v", ad.ID, err)
		}
	}

	metrics.AdsCreated.Inc()
	s.log.Infof("AdService.Create: ad %d created by %s", ad.ID, ad.Sender)
	return ad, mod, nil
}

func (s *adService) GetByID(ctx context.Context, id int64) (*entity.Ad, error) {
	if s.cache != nil {
		if ad, err := s.cache.Get(ctx, id); err != nil {
			s.log.Warnf("AdService.GetByID: cache read for ad %d: %v", id, err)
		} else if ad != nil {
			return ad, nil
		}
	}

	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, ad, s.cacheTTL); err != nil {
			s.log.Warnf("AdService.GetByID: cache write for ad %d: %v", id, err)
		}
	}
	return ad, nil
}

func (s *adService) Images(ctx context.Context, adID int64) ([]entity.AdImage, error) {
	return s.images.GetByAdID(ctx, adID)
}

func (s *adService) Preview(ctx context.Context, sender string, limit int) (*OwnerPreview, error) {
	ads, err := s.ads.GetBySender(ctx, sender)
	if err != nil {
		return nil, err
	}

	preview := &OwnerPreview{Total: len(ads), Photos: make(map[int64]string)}
	for _, ad := range ads {
		if ad.IsActive {
			preview.Active++
		}
	}
	if len(ads) > limit {
		ads = ads[:limit]
	}
	preview.Ads = ads

	ids := make([]int64, 0, len(ads))
	for _, ad := range ads {
		ids = append(ids, ad.ID)
	}
	imageMap, err := s.images.MapByAdIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for adID, imgs := range imageMap {
		if len(imgs) > 0 {
			preview.Photos[adID] = imgs[0].ImageURL
		}
	}
	return preview, nil
}

func (s *adService) Search(ctx context.Context, query string, limit int) ([]entity.Ad, error) {
	return s.ads.Search(ctx, query, limit)
}

func (s *adService) RecordView(ctx context.Context, adID int64, sender string) {
	if err := s.views.Add(ctx, adID, sender); err != nil {
		s.log.Warnf("AdService.RecordView: ad %d by %s: %v", adID, sender, err)
	}
}

func (s *adService) ViewCount(ctx context.Context, adID int64) int {
	count, err := s.views.CountByAd(ctx, adID)
	if err != nil {
		s.log.Warnf("AdService.ViewCount: ad %d: %v", adID, err)
		return 0
	}
	return count
}
