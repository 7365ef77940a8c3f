package entities

import "time"

// EquipmentCategory is a coarse class of medical equipment (MRI, X-ray, ...)
// that hospitals may hold in some quantity.
type EquipmentCategory struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HospitalEquipment records one equipment holding of a hospital. Holdings of
// the same category coalesce by summing quantity when read back.
type HospitalEquipment struct {
	ID           int64      `json:"id" db:"id"`
	HospitalID   int64      `json:"hospital_id" db:"hospital_id"`
	CategoryID   int64      `json:"category_id" db:"category_id"`
	CategoryName string     `json:"category_name" db:"category_name"`
	CategoryCode string     `json:"category_code" db:"category_code"`
	Quantity     int        `json:"quantity" db:"quantity"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// DiseaseEquipment maps a disease onto a required equipment category. An
// empty mapping for a disease means "no equipment requirement", not
// "no hospital qualifies".
type DiseaseEquipment struct {
	ID           int64  `json:"id" db:"id"`
	DiseaseID    int64  `json:"disease_id" db:"disease_id"`
	CategoryID   int64  `json:"category_id" db:"category_id"`
	CategoryName string `json:"category_name" db:"category_name"`
	CategoryCode string `json:"category_code" db:"category_code"`
	Source       string `json:"source,omitempty" db:"source"`
}

// EquipmentDetail is the per-category holding summary attached to a
// recommendation (name, code, summed quantity).
type EquipmentDetail struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}
