package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// DiseaseAdapter implements DiseaseRepository
type DiseaseAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDiseaseAdapter creates a new disease adapter
func NewDiseaseAdapter(client *postgres.Client) repositories.DiseaseRepository {
	return &DiseaseAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a disease by ID
func (a *DiseaseAdapter) GetByID(ctx context.Context, id int64) (*entities.Disease, error) {
	return a.getByField(ctx, goqu.Ex{"id": id}, fmt.Sprintf("disease with id %d not found", id))
}

// GetByName retrieves a disease by its exact name
func (a *DiseaseAdapter) GetByName(ctx context.Context, name string) (*entities.Disease, error) {
	return a.getByField(ctx, goqu.Ex{"name": name}, fmt.Sprintf("disease %q not found", name))
}

// List retrieves diseases up to limit
func (a *DiseaseAdapter) List(ctx context.Context, limit int) ([]*entities.Disease, error) {
	ds := a.db.Select("id", "name", "description", "created_at", "updated_at").
		From("diseases").
		Order(goqu.I("name").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query diseases", err)
	}
	defer rows.Close()

	var diseases []*entities.Disease
	for rows.Next() {
		disease := &entities.Disease{}
		var description sql.NullString
		if err := rows.Scan(&disease.ID, &disease.Name, &description, &disease.CreatedAt, &disease.UpdatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan disease", err)
		}
		disease.Description = description.String
		diseases = append(diseases, disease)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate diseases", err)
	}

	return diseases, nil
}

func (a *DiseaseAdapter) getByField(ctx context.Context, where goqu.Ex, notFound string) (*entities.Disease, error) {
	query, args, err := a.db.Select("id", "name", "description", "created_at", "updated_at").
		From("diseases").
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	disease := &entities.Disease{}
	var description sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&disease.ID,
		&disease.Name,
		&description,
		&disease.CreatedAt,
		&disease.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get disease", err)
	}
	disease.Description = description.String

	return disease, nil
}
