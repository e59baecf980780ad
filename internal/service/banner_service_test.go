package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekart/ekart/internal/models"
)

type fakeBannerStore struct {
	banners   map[int64]*models.Banner
	nextID    int64
	listCalls int
}

func newFakeBannerStore() *fakeBannerStore {
	return &fakeBannerStore{banners: make(map[int64]*models.Banner), nextID: 1}
}

func (s *fakeBannerStore) Create(_ context.Context, banner *models.Banner) error {
	banner.ID = s.nextID
	s.nextID++
	copied := *banner
	s.banners[banner.ID] = &copied
	return nil
}

func (s *fakeBannerStore) GetByID(_ context.Context, id int64) (*models.Banner, error) {
	banner, ok := s.banners[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return banner, nil
}

func (s *fakeBannerStore) List(_ context.Context, offset, limit int) ([]models.Banner, error) {
	s.listCalls++
	var banners []models.Banner
	for id := int64(1); id < s.nextID; id++ {
		if banner, ok := s.banners[id]; ok {
			banners = append(banners, *banner)
		}
	}
	if offset >= len(banners) {
		return nil, nil
	}
	end := offset + limit
	if end > len(banners) {
		end = len(banners)
	}
	return banners[offset:end], nil
}

func (s *fakeBannerStore) Update(_ context.Context, banner *models.Banner) error {
	if _, ok := s.banners[banner.ID]; !ok {
		return models.ErrNotFound
	}
	copied := *banner
	s.banners[banner.ID] = &copied
	return nil
}

func (s *fakeBannerStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.banners[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.banners, id)
	return nil
}

func newTestBannerService(store *fakeBannerStore) *BannerService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	// nil cache: every list goes to the store.
	return NewBannerService(store, nil, logger)
}

func TestBannerService_CRUD(t *testing.T) {
	store := newFakeBannerStore()
	svc := newTestBannerService(store)
	ctx := context.Background()

	banner := &models.Banner{Title: "Summer Sale", ImageURL: "https://cdn.example.com/sale.png"}
	require.NoError(t, svc.Create(ctx, banner))
	assert.NotZero(t, banner.ID)

	fetched, err := svc.Get(ctx, banner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale", fetched.Title)

	banner.Title = "Winter Sale"
	require.NoError(t, svc.Update(ctx, banner))
	fetched, err = svc.Get(ctx, banner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Winter Sale", fetched.Title)

	require.NoError(t, svc.Delete(ctx, banner.ID))
	_, err = svc.Get(ctx, banner.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBannerService_ListWithoutCache(t *testing.T) {
	store := newFakeBannerStore()
	svc := newTestBannerService(store)
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		require.NoError(t, svc.Create(ctx, &models.Banner{Title: title, ImageURL: "https://cdn.example.com/b.png"}))
	}

	banners, err := svc.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, banners, 3)

	banners, err = svc.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "Two", banners[0].Title)

	assert.Equal(t, 2, store.listCalls)
}
