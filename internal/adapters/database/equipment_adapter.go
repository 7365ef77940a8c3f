package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// EquipmentAdapter implements EquipmentRepository
type EquipmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewEquipmentAdapter creates a new equipment adapter
func NewEquipmentAdapter(client *postgres.Client) repositories.EquipmentRepository {
	return &EquipmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetCategoryByName retrieves an equipment category by its canonical name
func (a *EquipmentAdapter) GetCategoryByName(ctx context.Context, name string) (*entities.EquipmentCategory, error) {
	query, args, err := a.db.Select("id", "name", "code", "created_at", "updated_at").
		From("equipment_categories").
		Where(goqu.Ex{"name": name}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	category := &entities.EquipmentCategory{}
	var code sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&category.ID, &category.Name, &code, &category.CreatedAt, &category.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("equipment category %q not found", name))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get equipment category", err)
	}
	category.Code = code.String

	return category, nil
}

// ListCategories retrieves all equipment categories
func (a *EquipmentAdapter) ListCategories(ctx context.Context) ([]*entities.EquipmentCategory, error) {
	query, args, err := a.db.Select("id", "name", "code", "created_at", "updated_at").
		From("equipment_categories").
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query equipment categories", err)
	}
	defer rows.Close()

	var categories []*entities.EquipmentCategory
	for rows.Next() {
		category := &entities.EquipmentCategory{}
		var code sql.NullString
		if err := rows.Scan(&category.ID, &category.Name, &code, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan equipment category", err)
		}
		category.Code = code.String
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate equipment categories", err)
	}

	return categories, nil
}

// UpsertHolding records a hospital's holding of a category, adding to the
// quantity when a row already exists.
func (a *EquipmentAdapter) UpsertHolding(ctx context.Context, hospitalID, categoryID int64, quantity int) error {
	record := goqu.Record{
		"hospital_id": hospitalID,
		"category_id": categoryID,
		"quantity":    quantity,
		"created_at":  time.Now(),
	}

	query, args, err := a.db.Insert("hospital_equipment").
		Rows(record).
		OnConflict(goqu.DoUpdate(
			"hospital_id, category_id",
			goqu.Record{"quantity": goqu.L("hospital_equipment.quantity + ?", quantity)},
		)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert equipment holding", err)
	}

	return nil
}
