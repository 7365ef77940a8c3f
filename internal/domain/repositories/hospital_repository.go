package repositories

import (
	"context"

	"github.com/medichat/backend/internal/domain/entities"
)

// HospitalRepository defines the interface for hospital directory operations
type HospitalRepository interface {
	// Create creates a new hospital
	Create(ctx context.Context, hospital *entities.Hospital) error

	// GetByID retrieves a hospital by ID
	GetByID(ctx context.Context, id int64) (*entities.Hospital, error)

	// List retrieves hospitals with filters
	List(ctx context.Context, filter HospitalFilter) ([]*entities.Hospital, error)

	// FindByDepartments retrieves the distinct hospitals offering at least
	// one of the given departments. Category exclusion and radius filtering
	// are the caller's concern.
	FindByDepartments(ctx context.Context, departmentIDs []int64) ([]*entities.Hospital, error)
}

// HospitalFilter defines filters for listing hospitals
type HospitalFilter struct {
	Category entities.HospitalCategory
	Limit    int
	Offset   int
}
