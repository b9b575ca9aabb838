package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/metrics"
	"avtobot/internal/repository"
	"avtobot/internal/session"
)

// RenderedPage remembers what a user last saw so bare positions like "2"
// can be resolved back to ad ids. Every render overwrites it wholesale.
type RenderedPage struct {
	IDs []int64
	Ads map[int64]entity.Ad
}

// Renderer builds catalog pages and keeps the per-user view cache.
type Renderer struct {
	ads   repository.AdRepository
	cache *session.Store[RenderedPage]
}

func NewRenderer(ads repository.AdRepository) *Renderer {
	return &Renderer{
		ads:   ads,
		cache: session.NewStore[RenderedPage](),
	}
}

func totalPages(total, pageSize int) int {
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Render produces the chat text for the sender's current page and caches
// the displayed ads. Rendering never mutates the filter state, so repeating
// "показать" yields the same page.
func (r *Renderer) Render(ctx context.Context, sender string, f entity.FilterState) (string, error) {
	f.Normalize()

	total, err := r.ads.CountFiltered(ctx, f)
	if err != nil {
		return "", fmt.Errorf("count ads: %w", err)
	}
	if total == 0 {
		r.cache.Set(sender, RenderedPage{Ads: map[int64]entity.Ad{}})
		return "По вашим фильтрам ничего не найдено.", nil
	}

	ads, err := r.ads.FilterPage(ctx, f)
	if err != nil {
		return "", fmt.Errorf("load page: %w", err)
	}

	page := RenderedPage{IDs: make([]int64, 0, len(ads)), Ads: make(map[int64]entity.Ad, len(ads))}
	for _, ad := range ads {
		page.IDs = append(page.IDs, ad.ID)
		page.Ads[ad.ID] = ad
	}
	r.cache.Set(sender, page)
	metrics.CatalogRenders.Inc()

	pages := totalPages(total, f.PageSize)
	var b strings.Builder
	fmt.Fprintf(&b, "Объявления, страница %d из %d (всего %d):\n", f.Page+1, pages, total)
	if len(ads) == 0 {
		b.WriteString("На этой странице объявлений нет. Напишите \"назад\".\n")
		return b.String(), nil
	}
	for i, ad := range ads {
		fmt.Fprintf(&b, "\n%d. %s\n   %s %s, %d г., %d км, %s\n   Цена: %d руб. (id%d)\n",
			i+1, ad.Title, ad.BrandName, ad.Model, ad.YearCar, ad.MileageKm, ad.Region, ad.Price, ad.ID)
	}
	b.WriteString("\nОтправьте номер объявления, чтобы открыть его.")
	if f.Page+1 < pages {
		b.WriteString(" Напишите \"дальше\" для следующей страницы.")
	}
	return b.String(), nil
}

// Resolve maps a user's ad reference to an id. "id7" and "объявление7" are
// literal ids; bare digits are a 1-based position on the cached page when in
// range, otherwise a literal id. The second return is false when the text is
// not an ad reference; needRender is true when the cache is empty and the
// caller should render first and retry.
func (r *Renderer) Resolve(sender, text string) (id int64, ok bool, needRender bool) {
	cleaned := strings.ToLower(strings.TrimSpace(text))

	for _, prefix := range []string{"id", "объявление"} {
		if rest, found := strings.CutPrefix(cleaned, prefix); found {
			rest = strings.TrimSpace(rest)
			if v, err := parsePositiveInt(rest); err == nil {
				return v, true, false
			}
			return 0, false, false
		}
	}

	v, err := parsePositiveInt(cleaned)
	if err != nil {
		return 0, false, false
	}

	page, cached := r.cache.Get(sender)
	if !cached {
		return 0, true, true
	}
	if v >= 1 && int(v) <= len(page.IDs) {
		return page.IDs[v-1], true, false
	}
	return v, true, false
}

// Cached returns the sender's last rendered ad by id, when still on screen.
func (r *Renderer) Cached(sender string, id int64) (entity.Ad, bool) {
	page, ok := r.cache.Get(sender)
	if !ok {
		return entity.Ad{}, false
	}
	ad, ok := page.Ads[id]
	return ad, ok
}

func parsePositiveInt(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("not a positive number: %q", s)
	}
	return v, nil
}
