package entity

// Condition is one of exactly two canonical car-condition labels.
type Condition string

const (
	ConditionIntact  Condition = "целый"
	ConditionCrashed Condition = "после дтп"
)

// conditionSynonyms maps free-form user input to a canonical condition.
// A closed table: anything outside of it is rejected by ParseCondition.
var conditionSynonyms = map[string]Condition{
	"целый":         ConditionIntact,
	"целая":         ConditionIntact,
	"без дтп":       ConditionIntact,
	"не битый":      ConditionIntact,
	"небитый":       ConditionIntact,
	"после дтп":     ConditionCrashed,
	"битый":         ConditionCrashed,
	"битая":         ConditionCrashed,
	"ремонт":        ConditionCrashed,
	"ремонтировался": ConditionCrashed,
}

// ParseCondition resolves a lowercased, trimmed input against the synonym
// table. The second return reports whether the input was recognized.
func ParseCondition(raw string) (Condition, bool) {
	c, ok := conditionSynonyms[raw]
	return c, ok
}

type SortKey string

const (
	SortByPrice   SortKey = "price"
	SortByCreated SortKey = "created"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const DefaultPageSize = 5

// FilterState is the per-user catalog query descriptor. Pointer fields are
// unset filters. Year and MinYear/MaxYear are mutually exclusive: a single
// year clears the range pair and vice versa.
type FilterState struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	MinPrice   *int       `json:"min_price"`
	MaxPrice   *int       `json:"max_price"`
	MinMileage *int       `json:"min_mileage"`
	MaxMileage *int       `json:"max_mileage"`
	Year       *int       `json:"year"`
	MinYear    *int       `json:"min_year"`
	MaxYear    *int       `json:"max_year"`
	BrandID    *int64     `json:"car_brand_id"`
	BrandName  *string    `json:"brand_name"`
	Region     *string    `json:"region"`
	Condition  *Condition `json:"condition"`
	SortBy     SortKey    `json:"sort_by"`
	SortOrder  SortOrder  `json:"sort_order"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		Page:      0,
		PageSize:  DefaultPageSize,
		SortBy:    SortByCreated,
		SortOrder: SortDesc,
	}
}

// Normalize fills in defaults so every state read from disk (or an older
// file format) has every field populated.
func (s *FilterState) Normalize() {
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}
	if s.Page < 0 {
		s.Page = 0
	}
	if s.SortBy != SortByPrice && s.SortBy != SortByCreated {
		s.SortBy = SortByCreated
	}
	if s.SortOrder != SortAsc && s.SortOrder != SortDesc {
		s.SortOrder = SortDesc
	}
}

// SetYear stores a single-year filter and clears the range pair.
func (s *FilterState) SetYear(year int) {
	s.Year = &year
	s.MinYear = nil
	s.MaxYear = nil
}

// SetYearRange stores a year range and clears the single-year field.
func (s *FilterState) SetYearRange(min, max int) {
	s.Year = nil
	s.MinYear = &min
	s.MaxYear = &max
}
