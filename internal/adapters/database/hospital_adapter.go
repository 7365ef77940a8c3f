package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medichat/backend/pkg/errors"
)

var hospitalColumns = []interface{}{
	"id", "name", "address", "latitude", "longitude",
	"category_name", "phone", "website", "created_at", "updated_at",
}

// HospitalAdapter implements HospitalRepository
type HospitalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHospitalAdapter creates a new hospital adapter
func NewHospitalAdapter(client *postgres.Client) repositories.HospitalRepository {
	return &HospitalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new hospital
func (a *HospitalAdapter) Create(ctx context.Context, hospital *entities.Hospital) error {
	now := time.Now()
	hospital.CreatedAt = now
	hospital.UpdatedAt = now

	record := goqu.Record{
		"name":          hospital.Name,
		"address":       sql.NullString{String: hospital.Address, Valid: hospital.Address != ""},
		"latitude":      hospital.Latitude,
		"longitude":     hospital.Longitude,
		"category_name": string(hospital.Category),
		"phone":         sql.NullString{String: hospital.Phone, Valid: hospital.Phone != ""},
		"website":       sql.NullString{String: hospital.Website, Valid: hospital.Website != ""},
		"created_at":    hospital.CreatedAt,
		"updated_at":    hospital.UpdatedAt,
	}

	query, args, err := a.db.Insert("hospitals").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&hospital.ID); err != nil {
		return apperrors.NewInternalError("failed to create hospital", err)
	}

	return nil
}

// GetByID retrieves a hospital by ID
func (a *HospitalAdapter) GetByID(ctx context.Context, id int64) (*entities.Hospital, error) {
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	hospital, err := a.scanHospital(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get hospital", err)
	}
	return hospital, nil
}

// List retrieves hospitals with filters
func (a *HospitalAdapter) List(ctx context.Context, filter repositories.HospitalFilter) ([]*entities.Hospital, error) {
	ds := a.db.Select(hospitalColumns...).From("hospitals")

	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category_name": string(filter.Category)})
	}

	ds = ds.Order(goqu.I("name").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryHospitals(ctx, query, args)
}

// FindByDepartments retrieves the distinct hospitals offering any of the
// given departments.
func (a *HospitalAdapter) FindByDepartments(ctx context.Context, departmentIDs []int64) ([]*entities.Hospital, error) {
	if len(departmentIDs) == 0 {
		return []*entities.Hospital{}, nil
	}

	query, args, err := a.db.Select(
		goqu.I("h.id"), goqu.I("h.name"), goqu.I("h.address"),
		goqu.I("h.latitude"), goqu.I("h.longitude"), goqu.I("h.category_name"),
		goqu.I("h.phone"), goqu.I("h.website"), goqu.I("h.created_at"), goqu.I("h.updated_at"),
	).Distinct().
		From(goqu.T("hospitals").As("h")).
		Join(
			goqu.T("hospital_departments").As("hd"),
			goqu.On(goqu.Ex{"hd.hospital_id": goqu.I("h.id")}),
		).
		Where(goqu.Ex{"hd.department_id": departmentIDs}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryHospitals(ctx, query, args)
}

func (a *HospitalAdapter) queryHospitals(ctx context.Context, query string, args []interface{}) ([]*entities.Hospital, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query hospitals", err)
	}
	defer rows.Close()

	var hospitals []*entities.Hospital
	for rows.Next() {
		hospital, err := a.scanHospital(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hospital", err)
		}
		hospitals = append(hospitals, hospital)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate hospitals", err)
	}

	return hospitals, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *HospitalAdapter) scanHospital(row rowScanner) (*entities.Hospital, error) {
	hospital := &entities.Hospital{}
	var address, phone, website sql.NullString
	var category string

	err := row.Scan(
		&hospital.ID,
		&hospital.Name,
		&address,
		&hospital.Latitude,
		&hospital.Longitude,
		&category,
		&phone,
		&website,
		&hospital.CreatedAt,
		&hospital.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	hospital.Address = address.String
	hospital.Phone = phone.String
	hospital.Website = website.String
	hospital.Category = entities.HospitalCategory(category)

	return hospital, nil
}
