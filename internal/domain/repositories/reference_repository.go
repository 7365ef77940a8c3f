package repositories

import (
	"context"

	"github.com/medichat/backend/internal/domain/entities"
)

// MedicalReferenceRepository is the read-only port the recommendation engine
// depends on. The backing reference data (department mappings, equipment
// catalogs, holdings) is owned by external ingestion processes; this port
// never mutates it.
type MedicalReferenceRepository interface {
	// DepartmentsForDisease returns the departments linked to the disease.
	// Empty is a valid outcome, not an error.
	DepartmentsForDisease(ctx context.Context, diseaseID int64) ([]*entities.Department, error)

	// RequiredEquipment returns the equipment category names required for
	// the disease. Empty means "no equipment requirement".
	RequiredEquipment(ctx context.Context, diseaseID int64) ([]string, error)

	// HospitalEquipmentNames returns the distinct equipment category names a
	// hospital holds (soft-deleted holdings ignored).
	HospitalEquipmentNames(ctx context.Context, hospitalID int64) ([]string, error)

	// SpecialistCount sums specialist_count over the hospital's rows for the
	// given departments; null counts contribute zero.
	SpecialistCount(ctx context.Context, hospitalID int64, departmentIDs []int64) (int, error)

	// EquipmentDetails returns name/code/summed-quantity rows for the
	// hospital's holdings restricted to the given category names.
	EquipmentDetails(ctx context.Context, hospitalID int64, categoryNames []string) ([]entities.EquipmentDetail, error)
}
