package repositories

import (
	"context"

	"github.com/medichat/backend/internal/domain/entities"
)

// EquipmentRepository defines the interface for equipment catalog writes used
// by the ingestion flow.
type EquipmentRepository interface {
	// GetCategoryByName retrieves an equipment category by its canonical name
	GetCategoryByName(ctx context.Context, name string) (*entities.EquipmentCategory, error)

	// ListCategories retrieves all equipment categories
	ListCategories(ctx context.Context) ([]*entities.EquipmentCategory, error)

	// UpsertHolding records a hospital's holding of a category, adding to the
	// quantity when a row already exists
	UpsertHolding(ctx context.Context, hospitalID, categoryID int64, quantity int) error
}
