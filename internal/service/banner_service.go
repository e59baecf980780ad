package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
)

const (
	bannerCacheKey = "banners:list"
	bannerCacheTTL = 5 * time.Minute
)

// BannerStore is the persisted banner collection.
type BannerStore interface {
	Create(ctx context.Context, banner *models.Banner) error
	GetByID(ctx context.Context, id int64) (*models.Banner, error)
	List(ctx context.Context, offset, limit int) ([]models.Banner, error)
	Update(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id int64) error
}

// BannerService fronts the banner store with a short-TTL Redis cache on the
// list path. The database stays authoritative; the cache is best-effort and
// a nil client disables it entirely.
type BannerService struct {
	banners BannerStore
	cache   *redis.Client
	logger  *logrus.Logger
}

func NewBannerService(banners BannerStore, cache *redis.Client, logger *logrus.Logger) *BannerService {
	return &BannerService{
		banners: banners,
		cache:   cache,
		logger:  logger,
	}
}

func (s *BannerService) List(ctx context.Context, offset, limit int) ([]models.Banner, error) {
	// Only the default page is cached; other pages go straight through.
	cacheable := offset == 0 && s.cache != nil

	if cacheable {
		cached, err := s.cache.Get(ctx, cacheKey(limit)).Result()
		if err == nil {
			var banners []models.Banner
			if err := json.Unmarshal([]byte(cached), &banners); err == nil {
				return banners, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.WithError(err).Warn("Banner cache read failed")
		}
	}

	banners, err := s.banners.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if data, err := json.Marshal(banners); err == nil {
			if err := s.cache.Set(ctx, cacheKey(limit), data, bannerCacheTTL).Err(); err != nil {
				s.logger.WithError(err).Warn("Banner cache write failed")
			}
		}
	}

	return banners, nil
}

func (s *BannerService) Get(ctx context.Context, id int64) (*models.Banner, error) {
	return s.banners.GetByID(ctx, id)
}

func (s *BannerService) Create(ctx context.Context, banner *models.Banner) error {
	if err := s.banners.Create(ctx, banner); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *BannerService) Update(ctx context.Context, banner *models.Banner) error {
	if err := s.banners.Update(ctx, banner); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *BannerService) Delete(ctx context.Context, id int64) error {
	if err := s.banners.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *BannerService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, bannerCacheKey+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.WithError(err).Warn("Banner cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.WithError(err).Warn("Banner cache invalidation failed")
	}
}

func cacheKey(limit int) string {
	return fmt.Sprintf("%s:%d", bannerCacheKey, limit)
}
