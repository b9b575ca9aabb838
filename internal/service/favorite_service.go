package service

import (
	"context"
	"errors"
	"fmt"

	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
	"avtobot/internal/repository"
)

// FavoriteEntry pairs a favorite row with the ad it points at. Ad is nil
// when the ad was removed after being favorited.
type FavoriteEntry struct {
	Favorite entity.Favorite
	Ad       *entity.Ad
}

type FavoriteService interface {
	// Add stores the favorite after checking the ad exists.
	// Repeated adds are not an error.
	Add(ctx context.Context, sender string, adID int64) error
	Remove(ctx context.Context, sender string, adID int64) error
	List(ctx context.Context, sender string) ([]FavoriteEntry, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	ads       repository.AdRepository
	log       logger.Logger
}

func NewFavoriteService(favorites repository.FavoriteRepository, ads repository.AdRepository, log logger.Logger) FavoriteService {
	return &favoriteService{favorites: favorites, ads: ads, log: log}
}

func (s *favoriteService) Add(ctx context.Context, sender string, adID int64) error {
	if _, err := s.ads.GetByID(ctx, adID); err != nil {
		return err
	}
	if _, err := s.favorites.Add(ctx, sender, adID); err != nil {
		return fmt.Errorf("add favorite %d for %s: %w", adID, sender, err)
	}
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, sender string, adID int64) error {
	return s.favorites.Remove(ctx, sender, adID)
}

func (s *favoriteService) List(ctx context.Context, sender string) ([]FavoriteEntry, error) {
	favorites, err := s.favorites.ListBySender(ctx, sender)
	if err != nil {
		return nil, err
	}

	entries := make([]FavoriteEntry, 0, len(favorites))
	for _, fav := range favorites {
		ad, err := s.ads.GetByID(ctx, fav.AdID)
		if err != nil {
			if errors.Is(err, repository.ErrAdNotFound) {
				entries = append(entries, FavoriteEntry{Favorite: fav})
				continue
			}
			return nil, err
		}
		entries = append(entries, FavoriteEntry{Favorite: fav, Ad: ad})
	}
	return entries, nil
}
