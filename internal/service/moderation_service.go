package service

import (
	"context"
	"fmt"

	"avtobot/internal/adapter/nats"
	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
	"avtobot/internal/repository"
)

type ModerationService interface {
	StatusForAd(ctx context.Context, adID int64) (*entity.Moderation, error)
	// Resolve records a moderation verdict. Approved ads stay active,
	// rejected ones are deactivated. The cached ad detail is invalidated.
	Resolve(ctx context.Context, adID int64, moderatorID *int64, status entity.ModerationStatus, comment *string) error
}

type moderationService struct {
	moderation repository.ModerationRepository
	ads        repository.AdRepository
	cache      repository.AdCache
	publisher  nats.MessagePublisher
	log        logger.Logger
}

func NewModerationService(
	moderation repository.ModerationRepository,
	ads repository.AdRepository,
	cache repository.AdCache,
	publisher nats.MessagePublisher,
	log logger.Logger,
) ModerationService {
	return &moderationService{
		moderation: moderation,
		ads:        ads,
		cache:      cache,
		publisher:  publisher,
		log:        log,
	}
}

type adModeratedEvent struct {
	AdID   int64  `json:"ad_id"`
	Status string `json:"status"`
}

func (s *moderationService) StatusForAd(ctx context.Context, adID int64) (*entity.Moderation, error) {
	return s.moderation.GetByAdID(ctx, adID)
}

func (s *moderationService) Resolve(ctx context.Context, adID int64, moderatorID *int64, status entity.ModerationStatus, comment *string) error {
	if err := s.moderation.SetStatus(ctx, adID, moderatorID, status, comment); err != nil {
		return fmt.Errorf("set moderation status for ad %d: %w", adID, err)
	}
	if status == entity.ModerationRejected {
		if err := s.ads.SetActive(ctx, adID, false); err != nil {
			return fmt.Errorf("deactivate rejected ad %d: %w", adID, err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, adID); err != nil {
			s.log.Warnf("ModerationService.Resolve: drop cached ad %d: %v", adID, err)
		}
	}
	if s.publisher != nil {
		event := adModeratedEvent{AdID: adID, Status: string(status)}
		if err := s.publisher.Publish(ctx, nats.SubjectAdModerated, event); err != nil {
			s.log.Errorf("ModerationService.Resolve: publish event for ad %d: %v", adID, err)
		}
	}
	return nil
}
