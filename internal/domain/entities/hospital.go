package entities

import (
	"strings"
	"time"
)

// HospitalCategory is the closed set of hospital type labels used for
// candidate exclusion and priority scoring. The canonical values are the
// Korean labels carried by the national hospital directory feed.
type HospitalCategory string

const (
	CategoryClinic           HospitalCategory = "의원"
	CategoryHospital         HospitalCategory = "병원"
	CategoryHealthSubCenter  HospitalCategory = "보건지소"
	CategoryHealthCenter     HospitalCategory = "보건소"
	CategoryGeneralHospital  HospitalCategory = "종합병원"
	CategoryTertiaryHospital HospitalCategory = "상급종합병원"
	CategoryConvalescent     HospitalCategory = "요양병원"
	CategoryDentalClinic     HospitalCategory = "치과의원"
	CategoryDentalHospital   HospitalCategory = "치과병원"
	CategoryOrientalClinic   HospitalCategory = "한의원"
	CategoryOrientalHospital HospitalCategory = "한방병원"
	CategoryUnknown          HospitalCategory = ""
)

// categoryPriority ranks categories for the recommendation tie-break bonus.
// Higher is better. Categories absent from the table score the neutral 2.
var categoryPriority = map[HospitalCategory]int{
	CategoryClinic:           5,
	CategoryHospital:         5,
	CategoryHealthSubCenter:  4,
	CategoryHealthCenter:     4,
	CategoryGeneralHospital:  3,
	CategoryOrientalClinic:   1,
	CategoryOrientalHospital: 1,
}

// excludedCategories are never valid triage destinations: tertiary general
// hospitals, convalescent hospitals and the dental verticals.
var excludedCategories = map[HospitalCategory]struct{}{
	CategoryTertiaryHospital: {},
	CategoryConvalescent:     {},
	CategoryDentalClinic:     {},
	CategoryDentalHospital:   {},
}

// englishCategoryAliases maps ingestion-time English labels onto the
// canonical Korean values.
var englishCategoryAliases = map[string]HospitalCategory{
	"clinic":                    CategoryClinic,
	"hospital":                  CategoryHospital,
	"public health sub-center":  CategoryHealthSubCenter,
	"public health center":      CategoryHealthCenter,
	"general hospital":          CategoryGeneralHospital,
	"tertiary general hospital": CategoryTertiaryHospital,
	"convalescent hospital":     CategoryConvalescent,
	"dental clinic":             CategoryDentalClinic,
	"dental hospital":           CategoryDentalHospital,
	"oriental medicine clinic":  CategoryOrientalClinic,
	"oriental medicine hospital": CategoryOrientalHospital,
}

// ParseCategory normalizes a free-text category label. Whitespace inside
// Korean labels is squeezed so "종합 병원" and "종합병원" resolve identically.
func ParseCategory(label string) HospitalCategory {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return CategoryUnknown
	}
	if cat, ok := englishCategoryAliases[strings.ToLower(trimmed)]; ok {
		return cat
	}
	squeezed := strings.ReplaceAll(trimmed, " ", "")
	return HospitalCategory(squeezed)
}

// Priority returns the tie-break priority of the category (default 2).
func (c HospitalCategory) Priority() int {
	if p, ok := categoryPriority[c]; ok {
		return p
	}
	return 2
}

// Excluded reports whether hospitals of this category are filtered out of
// every recommendation run.
func (c HospitalCategory) Excluded() bool {
	_, ok := excludedCategories[c]
	return ok
}

// Hospital represents an entry of the hospital directory
type Hospital struct {
	ID        int64            `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Address   string           `json:"address" db:"address"`
	Latitude  float64          `json:"latitude" db:"latitude"`
	Longitude float64          `json:"longitude" db:"longitude"`
	Category  HospitalCategory `json:"category_name" db:"category_name"`
	Phone     string           `json:"phone,omitempty" db:"phone"`
	Website   string           `json:"website,omitempty" db:"website"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}
