package entities

import "time"

// Department is a medical specialty (internal medicine, neurology, ...)
// linking diseases to hospitals.
type Department struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DepartmentDisease maps a disease onto a relevant department.
type DepartmentDisease struct {
	ID           int64 `json:"id" db:"id"`
	DepartmentID int64 `json:"department_id" db:"department_id"`
	DiseaseID    int64 `json:"disease_id" db:"disease_id"`
}

// HospitalDepartment links a hospital to a department it offers. The
// specialist count is optional in the source feed; nil is scored as zero.
type HospitalDepartment struct {
	ID              int64  `json:"id" db:"id"`
	HospitalID      int64  `json:"hospital_id" db:"hospital_id"`
	DepartmentID    int64  `json:"department_id" db:"department_id"`
	SpecialistCount *int   `json:"specialist_count,omitempty" db:"specialist_count"`
	DepartmentName  string `json:"department_name,omitempty" db:"-"`
}
