package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
	"avtobot/internal/repository"
)

type fakeModerationRepo struct {
	statuses map[int64]entity.ModerationStatus
	comments map[int64]*string
}

func newFakeModerationRepo() *fakeModerationRepo {
	return &fakeModerationRepo{
		statuses: map[int64]entity.ModerationStatus{},
		comments: map[int64]*string{},
	}
}

func (f *fakeModerationRepo) CreatePending(_ context.Context, adID int64) (*entity.Moderation, error) {
	f.statuses[adID] = entity.ModerationPending
	return &entity.Moderation{AdID: adID, Status: entity.ModerationPending}, nil
}

func (f *fakeModerationRepo) GetByAdID(_ context.Context, adID int64) (*entity.Moderation, error) {
	status, ok := f.statuses[adID]
	if !ok {
		return nil, repository.ErrAdNotFound
	}
	return &entity.Moderation{AdID: adID, Status: status, Comment: f.comments[adID]}, nil
}

func (f *fakeModerationRepo) SetStatus(_ context.Context, adID int64, _ *int64, status entity.ModerationStatus, comment *string) error {
	f.statuses[adID] = status
	f.comments[adID] = comment
	return nil
}

type fakeAdRepo struct {
	active map[int64]bool
}

func (f *fakeAdRepo) Create(context.Context, *entity.Ad) (*entity.Ad, error) { return nil, nil }
func (f *fakeAdRepo) GetByID(context.Context, int64) (*entity.Ad, error) {
	return nil, repository.ErrAdNotFound
}
func (f *fakeAdRepo) GetBySender(context.Context, string) ([]entity.Ad, error) { return nil, nil }
func (f *fakeAdRepo) FilterPage(context.Context, entity.FilterState) ([]entity.Ad, error) {
	return nil, nil
}
func (f *fakeAdRepo) CountFiltered(context.Context, entity.FilterState) (int, error) { return 0, nil }
func (f *fakeAdRepo) Search(context.Context, string, int) ([]entity.Ad, error) { return nil, nil }
func (f *fakeAdRepo) SetActive(_ context.Context, id int64, active bool) error {
	f.active[id] = active
	return nil
}

type fakeAdCache struct {
	dropped []int64
}

func (f *fakeAdCache) Get(context.Context, int64) (*entity.Ad, error)       { return nil, nil }
func (f *fakeAdCache) Set(context.Context, *entity.Ad, time.Duration) error { return nil }
func (f *fakeAdCache) Delete(_ context.Context, id int64) error {
	f.dropped = append(f.dropped, id)
	return nil
}

type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

func TestResolveRejectedDeactivatesAd(t *testing.T) {
	moderation := newFakeModerationRepo()
	ads := &fakeAdRepo{active: map[int64]bool{7: true}}
	cache := &fakeAdCache{}
	pub := &fakePublisher{}
	svc := NewModerationService(moderation, ads, cache, pub, logger.NewNop())

	comment := "нет фото"
	err := svc.Resolve(context.Background(), 7, nil, entity.ModerationRejected, &comment)

	require.NoError(t, err)
	assert.Equal(t, entity.ModerationRejected, moderation.statuses[7])
	assert.False(t, ads.active[7])
	assert.Equal(t, []int64{7}, cache.dropped)
	assert.Equal(t, []string{"ads.moderated"}, pub.subjects)
}

func TestResolveApprovedKeepsAdActive(t *testing.T) {
	moderation := newFakeModerationRepo()
	ads := &fakeAdRepo{active: map[int64]bool{7: true}}
	svc := NewModerationService(moderation, ads, &fakeAdCache{}, &fakePublisher{}, logger.NewNop())

	err := svc.Resolve(context.Background(), 7, nil, entity.ModerationApproved, nil)

	require.NoError(t, err)
	assert.Equal(t, entity.ModerationApproved, moderation.statuses[7])
	assert.True(t, ads.active[7])
}

func TestStatusForAdReadsBack(t *testing.T) {
	moderation := newFakeModerationRepo()
	svc := NewModerationService(moderation, &fakeAdRepo{active: map[int64]bool{}}, nil, nil, logger.NewNop())
	_, err := moderation.CreatePending(context.Background(), 4)
	require.NoError(t, err)

	mod, err := svc.StatusForAd(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, entity.ModerationPending, mod.Status)
}
