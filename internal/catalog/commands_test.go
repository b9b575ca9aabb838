package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avtobot/internal/domain/entity"
	"avtobot/internal/repository"
)

type fakeBrands struct {
	known map[string]entity.CarBrand
}

func (f *fakeBrands) GetByName(_ context.Context, name string) (*entity.CarBrand, error) {
	b, ok := f.known[name]
	if !ok {
		return nil, repository.ErrBrandNotFound
	}
	return &b, nil
}

func (f *fakeBrands) GetAll(context.Context) ([]entity.CarBrand, error) {
	all := make([]entity.CarBrand, 0, len(f.known))
	for _, b := range f.known {
		all = append(all, b)
	}
	return all, nil
}

func testBrands() *fakeBrands {
	return &fakeBrands{known: map[string]entity.CarBrand{
		"Lada": {ID: 3, Name: "Lada"},
	}}
}

func applyTo(t *testing.T, f *entity.FilterState, text string) Outcome {
	t.Helper()
	out, handled := Apply(context.Background(), f, text, testBrands())
	require.True(t, handled, "command %q", text)
	return out
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in     string
		lo, hi *int
	}{
		{"", nil, nil},
		{"дешево", nil, nil},
		{"100000", ptr(100000), nil},
		{"100000-500000", ptr(100000), ptr(500000)},
		{"от 100 до 200", ptr(100), ptr(200)},
		{"1 2 3", ptr(1), ptr(2)},
	}
	for _, tc := range tests {
		lo, hi := parseRange(tc.in)
		assert.Equal(t, tc.lo, lo, "lo for %q", tc.in)
		assert.Equal(t, tc.hi, hi, "hi for %q", tc.in)
	}
}

func ptr[T any](v T) *T { return &v }

func TestApplyNotACommand(t *testing.T) {
	f := entity.DefaultFilterState()
	_, handled := Apply(context.Background(), &f, "привет", testBrands())
	assert.False(t, handled)
	_, handled = Apply(context.Background(), &f, "  ", testBrands())
	assert.False(t, handled)
}

func TestApplyPriceResetsPage(t *testing.T) {
	f := entity.DefaultFilterState()
	f.Page = 3

	out := applyTo(t, &f, "Цена 100000-500000")

	assert.True(t, out.Changed)
	assert.True(t, out.Render)
	require.NotNil(t, f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 100000, *f.MinPrice)
	assert.Equal(t, 500000, *f.MaxPrice)
	assert.Equal(t, 0, f.Page)
}

func TestApplyPriceWithoutDigitsClears(t *testing.T) {
	f := entity.DefaultFilterState()
	f.MinPrice, f.MaxPrice = ptr(1), ptr(2)

	applyTo(t, &f, "цена")

	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
}

func TestApplyYearSingleAndRangeAreExclusive(t *testing.T) {
	f := entity.DefaultFilterState()

	applyTo(t, &f, "год 2015")
	require.NotNil(t, f.Year)
	assert.Equal(t, 2015, *f.Year)
	assert.Nil(t, f.MinYear)
	assert.Nil(t, f.MaxYear)

	applyTo(t, &f, "год 2010-2018")
	assert.Nil(t, f.Year)
	require.NotNil(t, f.MinYear)
	require.NotNil(t, f.MaxYear)
	assert.Equal(t, 2010, *f.MinYear)
	assert.Equal(t, 2018, *f.MaxYear)

	// equal bounds collapse to a single year
	applyTo(t, &f, "год 2020-2020")
	require.NotNil(t, f.Year)
	assert.Equal(t, 2020, *f.Year)
	assert.Nil(t, f.MinYear)

	applyTo(t, &f, "год")
	assert.Nil(t, f.Year)
	assert.Nil(t, f.MinYear)
	assert.Nil(t, f.MaxYear)
}

func TestApplyRegion(t *testing.T) {
	f := entity.DefaultFilterState()

	applyTo(t, &f, "регион нижний новгород")
	require.NotNil(t, f.Region)
	assert.Equal(t, "Нижний Новгород", *f.Region)

	applyTo(t, &f, "регион любой")
	assert.Nil(t, f.Region)
}

func TestApplyRegionTooShort(t *testing.T) {
	f := entity.DefaultFilterState()
	f.Page = 2

	out := applyTo(t, &f, "регион н")

	assert.Equal(t, hintRegion, out.Reply)
	assert.False(t, out.Changed)
	assert.Nil(t, f.Region)
	assert.Equal(t, 2, f.Page)
}

func TestApplyConditionSynonyms(t *testing.T) {
	f := entity.DefaultFilterState()

	applyTo(t, &f, "состояние битый")
	require.NotNil(t, f.Condition)
	assert.Equal(t, entity.ConditionCrashed, *f.Condition)

	applyTo(t, &f, "состояние без дтп")
	require.NotNil(t, f.Condition)
	assert.Equal(t, entity.ConditionIntact, *f.Condition)

	applyTo(t, &f, "состояние любой")
	assert.Nil(t, f.Condition)
}

func TestApplyConditionUnknownHints(t *testing.T) {
	f := entity.DefaultFilterState()

	out := applyTo(t, &f, "состояние ржавый")

	assert.Equal(t, hintCondition, out.Reply)
	assert.False(t, out.Changed)
	assert.Nil(t, f.Condition)
}

func TestApplyBrand(t *testing.T) {
	f := entity.DefaultFilterState()
	f.Page = 4

	applyTo(t, &f, "марка Lada")

	require.NotNil(t, f.BrandID)
	require.NotNil(t, f.BrandName)
	assert.Equal(t, int64(3), *f.BrandID)
	assert.Equal(t, "Lada", *f.BrandName)
	assert.Equal(t, 0, f.Page)

	applyTo(t, &f, "марка любой")
	assert.Nil(t, f.BrandID)
	assert.Nil(t, f.BrandName)
}

func TestApplyBrandBareListsKnown(t *testing.T) {
	f := entity.DefaultFilterState()

	out := applyTo(t, &f, "марка")

	assert.Contains(t, out.Reply, "Lada")
	assert.False(t, out.Changed)
	assert.Nil(t, f.BrandID)
}

func TestApplyBrandUnknown(t *testing.T) {
	f := entity.DefaultFilterState()

	out := applyTo(t, &f, "марка Жигули")

	assert.Contains(t, out.Reply, "не найдена")
	assert.False(t, out.Changed)
	assert.Nil(t, f.BrandID)
}

func TestApplySort(t *testing.T) {
	tests := []struct {
		cmd   string
		key   entity.SortKey
		order entity.SortOrder
	}{
		{"сорт цена дешевле", entity.SortByPrice, entity.SortAsc},
		{"сорт цена дороже", entity.SortByPrice, entity.SortDesc},
		{"сортировка дата", entity.SortByCreated, entity.SortDesc},
		{"сорт по цене", entity.SortByPrice, entity.SortDesc},
		{"сорт по дате возр", entity.SortByCreated, entity.SortAsc},
	}
	for _, tc := range tests {
		t.Run(tc.cmd, func(t *testing.T) {
			f := entity.DefaultFilterState()
			f.Page = 2

			out := applyTo(t, &f, tc.cmd)

			assert.True(t, out.Changed)
			assert.Equal(t, tc.key, f.SortBy)
			assert.Equal(t, tc.order, f.SortOrder)
			assert.Equal(t, 0, f.Page)
		})
	}
}

func TestApplySortUnknownKeyUnchanged(t *testing.T) {
	f := entity.DefaultFilterState()
	f.SortBy = entity.SortByPrice
	f.Page = 2

	out := applyTo(t, &f, "сорт вес")

	assert.Equal(t, hintSort, out.Reply)
	assert.False(t, out.Changed)
	assert.Equal(t, entity.SortByPrice, f.SortBy)
	assert.Equal(t, 2, f.Page)
}

func TestApplyPaging(t *testing.T) {
	f := entity.DefaultFilterState()

	applyTo(t, &f, "дальше")
	assert.Equal(t, 1, f.Page)
	applyTo(t, &f, "next")
	assert.Equal(t, 2, f.Page)

	applyTo(t, &f, "назад")
	applyTo(t, &f, "назад")
	applyTo(t, &f, "назад")
	assert.Equal(t, 0, f.Page, "page never goes negative")

	out := applyTo(t, &f, "показать")
	assert.True(t, out.Render)
	assert.False(t, out.Changed)
}

func TestShiftPageFloorsAtZero(t *testing.T) {
	f := entity.DefaultFilterState()

	shiftPage(&f, 2)
	assert.Equal(t, 2, f.Page)

	f = entity.DefaultFilterState()
	shiftPage(&f, -5)
	assert.Equal(t, 0, f.Page)
}

func TestApplyReset(t *testing.T) {
	f := entity.DefaultFilterState()
	f.Page = 3
	f.MinPrice = ptr(100)
	f.Region = ptr("Москва")

	out := applyTo(t, &f, "сброс")

	assert.True(t, out.Changed)
	assert.Equal(t, entity.DefaultFilterState(), f)
	assert.Contains(t, out.Reply, "сброшены")
}
