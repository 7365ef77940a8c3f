package repositories

import (
	"context"

	"github.com/medichat/backend/internal/domain/entities"
)

// DiseaseRepository defines the interface for disease reference data
type DiseaseRepository interface {
	// GetByID retrieves a disease by ID
	GetByID(ctx context.Context, id int64) (*entities.Disease, error)

	// GetByName retrieves a disease by its exact name
	GetByName(ctx context.Context, name string) (*entities.Disease, error)

	// List retrieves diseases up to limit
	List(ctx context.Context, limit int) ([]*entities.Disease, error)
}
