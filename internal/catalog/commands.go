package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"avtobot/internal/domain/entity"
	"avtobot/internal/repository"
)

// BrandLookup resolves a user-typed brand name to its stored row.
type BrandLookup interface {
	GetByName(ctx context.Context, name string) (*entity.CarBrand, error)
	GetAll(ctx context.Context) ([]entity.CarBrand, error)
}

// Outcome describes what a catalog command did to the filter state.
type Outcome struct {
	Reply   string // info text or usage hint, may precede a render
	Render  bool   // show the current catalog page after this command
	Changed bool   // state mutated, the caller must persist it
}

const (
	hintCondition = "Укажите состояние: \"целый\" или \"после дтп\", либо \"любой\"."
	hintSort      = "Сортировка: \"сорт цена\" или \"сорт дата\", направление \"возр\" или \"убыв\"."
	hintRegion    = "Название региона должно быть не короче 2 символов."
)

var digitsRe = regexp.MustCompile(`\d+`)

// parseRange pulls numeric bounds out of a command tail. No digits clears
// the filter, one digit sets the lower bound only.
func parseRange(s string) (*int, *int) {
	runs := digitsRe.FindAllString(s, 2)
	bounds := make([]*int, 0, 2)
	for _, run := range runs {
		v, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		bounds = append(bounds, &v)
	}
	switch len(bounds) {
	case 0:
		return nil, nil
	case 1:
		return bounds[0], nil
	default:
		return bounds[0], bounds[1]
	}
}

// clearWords unsets a text filter ("марка любой", "регион -").
var clearWords = map[string]struct{}{
	"любой": {},
	"любая": {},
	"any":   {},
	"-":     {},
}

func isClearWord(s string) bool {
	_, ok := clearWords[s]
	return ok
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func shiftPage(f *entity.FilterState, delta int) {
	f.Page += delta
	if f.Page < 0 {
		f.Page = 0
	}
}

// Apply parses one catalog command against the filter state. The second
// return is false when the text is not a catalog command at all.
func Apply(ctx context.Context, f *entity.FilterState, text string, brands BrandLookup) (Outcome, bool) {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)
	fields := strings.Fields(lowered)
	if len(fields) == 0 {
		return Outcome{}, false
	}

	keyword := fields[0]
	tail := strings.TrimSpace(trimmed[len(keyword):])
	loweredTail := strings.ToLower(tail)

	switch keyword {
	case "показать", "обновить":
		return Outcome{Render: true}, true

	case "дальше", "вперед", "next":
		shiftPage(f, 1)
		return Outcome{Render: true, Changed: true}, true

	case "назад", "prev":
		shiftPage(f, -1)
		return Outcome{Render: true, Changed: true}, true

	case "сброс":
		*f = entity.DefaultFilterState()
		return Outcome{Reply: "Фильтры сброшены.", Render: true, Changed: true}, true

	case "цена":
		f.MinPrice, f.MaxPrice = parseRange(tail)
		f.Page = 0
		return Outcome{Render: true, Changed: true}, true

	case "пробег":
		f.MinMileage, f.MaxMileage = parseRange(tail)
		f.Page = 0
		return Outcome{Render: true, Changed: true}, true

	case "год":
		lo, hi := parseRange(tail)
		switch {
		case lo == nil:
			f.Year, f.MinYear, f.MaxYear = nil, nil, nil
		case hi != nil && *hi != *lo:
			f.SetYearRange(*lo, *hi)
		default:
			f.SetYear(*lo)
		}
		f.Page = 0
		return Outcome{Render: true, Changed: true}, true

	case "марка":
		if tail == "" {
			return Outcome{Reply: listBrands(ctx, brands)}, true
		}
		if isClearWord(loweredTail) {
			f.BrandID, f.BrandName = nil, nil
			f.Page = 0
			return Outcome{Render: true, Changed: true}, true
		}
		brand, err := brands.GetByName(ctx, tail)
		if err != nil {
			if errors.Is(err, repository.ErrBrandNotFound) {
				return Outcome{Reply: fmt.Sprintf("Марка %q не найдена.", tail)}, true
			}
			return Outcome{Reply: "Не удалось проверить марку. Попробуйте позже."}, true
		}
		f.BrandID = &brand.ID
		f.BrandName = &brand.Name
		f.Page = 0
		return Outcome{Render: true, Changed: true}, true

	case "регион":
		if tail == "" || isClearWord(loweredTail) {
			f.Region = nil
			f.Page = 0
			return Outcome{Render: true, Changed: true}, true
		}
		if len([]rune(tail)) < 2 {
			return Outcome{Reply: hintRegion}, true
		}
		region := titleCase(tail)
		f.Region = &region
		f.Page = 0
		return Outcome{Render: true, Changed: true}, true

	case "состояние":
		if tail == "" || isClearWord(loweredTail) {
			f.Condition = nil
			f.Page = 0
			return Outcome{Render: true, Changed: true}, true
		}
		cond, ok := entity.ParseCondition(loweredTail)
		if !ok {
			return Outcome{Reply: hintCondition}, true
		}
		f.Condition = &cond
		f.Page = 0
		return Outcome{Render: true, Changed: true}, true

	case "сортировка", "сорт":
		return applySort(f, fields[1:]), true
	}

	return Outcome{}, false
}

// listBrands answers a bare "марка" with the brands the catalog knows.
func listBrands(ctx context.Context, brands BrandLookup) string {
	all, err := brands.GetAll(ctx)
	if err != nil || len(all) == 0 {
		return "Укажите марку, например \"марка Lada\"."
	}
	names := make([]string, 0, len(all))
	for _, b := range all {
		names = append(names, b.Name)
	}
	return "Доступные марки: " + strings.Join(names, ", ") + ". Например \"марка " + all[0].Name + "\"."
}

var sortKeys = map[string]entity.SortKey{
	"цена":      entity.SortByPrice,
	"цене":      entity.SortByPrice,
	"стоимость": entity.SortByPrice,
	"price":     entity.SortByPrice,
	"дата":      entity.SortByCreated,
	"дате":      entity.SortByCreated,
	"новизне":   entity.SortByCreated,
	"date":      entity.SortByCreated,
	"created":   entity.SortByCreated,
}

var sortOrders = map[string]entity.SortOrder{
	"возр":        entity.SortAsc,
	"возрастанию": entity.SortAsc,
	"asc":         entity.SortAsc,
	"дешевле":     entity.SortAsc,
	"старые":      entity.SortAsc,
	"убыв":        entity.SortDesc,
	"убыванию":    entity.SortDesc,
	"desc":        entity.SortDesc,
	"дороже":      entity.SortDesc,
	"новые":       entity.SortDesc,
}

// applySort parses "сорт [по] <ключ> [<направление>]". An unknown key
// leaves the state untouched and answers with the usage hint.
func applySort(f *entity.FilterState, args []string) Outcome {
	if len(args) > 0 && args[0] == "по" {
		args = args[1:]
	}
	if len(args) == 0 {
		return Outcome{Reply: hintSort}
	}

	key, ok := sortKeys[args[0]]
	if !ok {
		return Outcome{Reply: hintSort}
	}

	order := entity.SortDesc
	if len(args) > 1 {
		if o, ok := sortOrders[args[1]]; ok {
			order = o
		}
	}

	f.SortBy = key
	f.SortOrder = order
	f.Page = 0
	return Outcome{Render: true, Changed: true}
}
