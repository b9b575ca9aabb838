package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avtobot/internal/domain/entity"
	"avtobot/internal/repository"
)

type fakeAdRepo struct {
	ads []entity.Ad
}

func (f *fakeAdRepo) Create(context.Context, *entity.Ad) (*entity.Ad, error) { return nil, nil }
func (f *fakeAdRepo) GetByID(_ context.Context, id int64) (*entity.Ad, error) {
	for i := range f.ads {
		if f.ads[i].ID == id {
			return &f.ads[i], nil
		}
	}
	return nil, repository.ErrAdNotFound
}
func (f *fakeAdRepo) GetBySender(context.Context, string) ([]entity.Ad, error) { return nil, nil }
func (f *fakeAdRepo) FilterPage(_ context.Context, fs entity.FilterState) ([]entity.Ad, error) {
	start := fs.Page * fs.PageSize
	if start >= len(f.ads) {
		return nil, nil
	}
	end := start + fs.PageSize
	if end > len(f.ads) {
		end = len(f.ads)
	}
	return f.ads[start:end], nil
}
func (f *fakeAdRepo) CountFiltered(context.Context, entity.FilterState) (int, error) {
	return len(f.ads), nil
}
func (f *fakeAdRepo) Search(context.Context, string, int) ([]entity.Ad, error) { return nil, nil }
func (f *fakeAdRepo) SetActive(context.Context, int64, bool) error             { return nil }

func adsFixture(n int) []entity.Ad {
	ads := make([]entity.Ad, 0, n)
	for i := 1; i <= n; i++ {
		ads = append(ads, entity.Ad{
			ID:        int64(i * 10),
			Title:     fmt.Sprintf("Машина %d", i),
			BrandName: "Lada",
			Model:     "Granta",
			YearCar:   2015 + i%5,
			MileageKm: 10000 * i,
			Region:    "Москва",
			Price:     100000 * i,
			IsActive:  true,
		})
	}
	return ads
}

func TestRenderFirstPage(t *testing.T) {
	r := NewRenderer(&fakeAdRepo{ads: adsFixture(7)})
	f := entity.DefaultFilterState()

	text, err := r.Render(context.Background(), "x@c.us", f)

	require.NoError(t, err)
	assert.Contains(t, text, "страница 1 из 2")
	assert.Contains(t, text, "Машина 1")
	assert.Contains(t, text, "Машина 5")
	assert.NotContains(t, text, "Машина 6")
	assert.Contains(t, text, "дальше")
}

func TestRenderLastPageHasNoNextHint(t *testing.T) {
	r := NewRenderer(&fakeAdRepo{ads: adsFixture(7)})
	f := entity.DefaultFilterState()
	f.Page = 1

	text, err := r.Render(context.Background(), "x@c.us", f)

	require.NoError(t, err)
	assert.Contains(t, text, "страница 2 из 2")
	assert.Contains(t, text, "Машина 6")
	assert.NotContains(t, text, "дальше")
}

func TestRenderOutOfRangePageIsEmptyNotError(t *testing.T) {
	r := NewRenderer(&fakeAdRepo{ads: adsFixture(3)})
	f := entity.DefaultFilterState()
	f.Page = 9

	text, err := r.Render(context.Background(), "x@c.us", f)

	require.NoError(t, err)
	assert.Contains(t, text, "объявлений нет")
	assert.NotContains(t, text, "дальше")
}

func TestRenderNoMatches(t *testing.T) {
	r := NewRenderer(&fakeAdRepo{})

	text, err := r.Render(context.Background(), "x@c.us", entity.DefaultFilterState())

	require.NoError(t, err)
	assert.Contains(t, text, "ничего не найдено")
}

func TestRenderIsIdempotent(t *testing.T) {
	r := NewRenderer(&fakeAdRepo{ads: adsFixture(7)})
	f := entity.DefaultFilterState()

	first, err := r.Render(context.Background(), "x@c.us", f)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), "x@c.us", f)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveLiteralPrefixes(t *testing.T) {
	r := NewRenderer(&fakeAdRepo{})

	id, ok, needRender := r.Resolve("x@c.us", "id7")
	assert.True(t, ok)
	assert.False(t, needRender)
	assert.Equal(t, int64(7), id)

	id, ok, _ = r.Resolve("x@c.us", "Объявление 42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestResolveBarePositionUsesCache(t *testing.T) {
	r := NewRenderer(&fakeAdRepo{ads: adsFixture(5)})
	_, err := r.Render(context.Background(), "x@c.us", entity.DefaultFilterState())
	require.NoError(t, err)

	// position 2 on the page maps to the second displayed id
	id, ok, needRender := r.Resolve("x@c.us", "2")
	assert.True(t, ok)
	assert.False(t, needRender)
	assert.Equal(t, int64(20), id)

	// out of the page range falls back to a literal id
	id, ok, _ = r.Resolve("x@c.us", "40")
	assert.True(t, ok)
	assert.Equal(t, int64(40), id)
}

func TestResolveEmptyCacheAsksForRender(t *testing.T) {
	r := NewRenderer(&fakeAdRepo{ads: adsFixture(5)})

	_, ok, needRender := r.Resolve("x@c.us", "2")

	assert.True(t, ok)
	assert.True(t, needRender)
}

func TestResolveNotAReference(t *testing.T) {
	r := NewRenderer(&fakeAdRepo{})

	for _, text := range []string{"привет", "-3", "0", "idшка", "2 машины"} {
		_, ok, _ := r.Resolve("x@c.us", text)
		assert.False(t, ok, "text %q", text)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, totalPages(0, 5))
	assert.Equal(t, 1, totalPages(5, 5))
	assert.Equal(t, 2, totalPages(6, 5))
	assert.Equal(t, 2, totalPages(10, 5))
}
