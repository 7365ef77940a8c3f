package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// ReferenceAdapter implements MedicalReferenceRepository over the
// disease/department/equipment reference tables. All reads, no writes.
type ReferenceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReferenceAdapter creates a new medical reference adapter
func NewReferenceAdapter(client *postgres.Client) repositories.MedicalReferenceRepository {
	return &ReferenceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// DepartmentsForDisease returns the departments linked to the disease
func (a *ReferenceAdapter) DepartmentsForDisease(ctx context.Context, diseaseID int64) ([]*entities.Department, error) {
	query, args, err := a.db.Select(goqu.I("d.id"), goqu.I("d.name")).
		From(goqu.T("departments").As("d")).
		Join(
			goqu.T("department_diseases").As("dd"),
			goqu.On(goqu.Ex{"dd.department_id": goqu.I("d.id")}),
		).
		Where(goqu.Ex{"dd.disease_id": diseaseID}).
		Order(goqu.I("d.id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query departments for disease", err)
	}
	defer rows.Close()

	var departments []*entities.Department
	for rows.Next() {
		department := &entities.Department{}
		if err := rows.Scan(&department.ID, &department.Name); err != nil {
			return nil, apperrors.NewInternalError("failed to scan department", err)
		}
		departments = append(departments, department)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate departments", err)
	}

	return departments, nil
}

// RequiredEquipment returns the equipment category names required for the
// disease, empty when the disease has no equipment requirement.
func (a *ReferenceAdapter) RequiredEquipment(ctx context.Context, diseaseID int64) ([]string, error) {
	query, args, err := a.db.Select(goqu.I("ec.name")).Distinct().
		From(goqu.T("equipment_categories").As("ec")).
		Join(
			goqu.T("disease_equipment").As("de"),
			goqu.On(goqu.Ex{"de.category_id": goqu.I("ec.id")}),
		).
		Where(goqu.Ex{"de.disease_id": diseaseID}).
		Order(goqu.I("ec.name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryNames(ctx, query, args, "required equipment")
}

// HospitalEquipmentNames returns the distinct equipment category names a
// hospital holds, ignoring soft-deleted holdings.
func (a *ReferenceAdapter) HospitalEquipmentNames(ctx context.Context, hospitalID int64) ([]string, error) {
	query, args, err := a.db.Select(goqu.I("ec.name")).Distinct().
		From(goqu.T("equipment_categories").As("ec")).
		Join(
			goqu.T("hospital_equipment").As("he"),
			goqu.On(goqu.Ex{"he.category_id": goqu.I("ec.id")}),
		).
		Where(
			goqu.Ex{"he.hospital_id": hospitalID},
			goqu.I("he.deleted_at").IsNull(),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryNames(ctx, query, args, "hospital equipment")
}

// SpecialistCount sums specialist_count over the hospital's rows for the
// given departments; null counts contribute zero.
func (a *ReferenceAdapter) SpecialistCount(ctx context.Context, hospitalID int64, departmentIDs []int64) (int, error) {
	if len(departmentIDs) == 0 {
		return 0, nil
	}

	query, args, err := a.db.Select(
		goqu.COALESCE(goqu.SUM(goqu.COALESCE(goqu.I("specialist_count"), 0)), 0),
	).
		From("hospital_departments").
		Where(goqu.Ex{
			"hospital_id":   hospitalID,
			"department_id": departmentIDs,
		}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, apperrors.NewInternalError("failed to sum specialist count", err)
	}

	return total, nil
}

// EquipmentDetails returns name/code/summed-quantity rows for the hospital's
// holdings restricted to the given category names.
func (a *ReferenceAdapter) EquipmentDetails(ctx context.Context, hospitalID int64, categoryNames []string) ([]entities.EquipmentDetail, error) {
	if len(categoryNames) == 0 {
		return []entities.EquipmentDetail{}, nil
	}

	query, args, err := a.db.Select(
		goqu.I("ec.name"),
		goqu.I("ec.code"),
		goqu.COALESCE(goqu.SUM(goqu.I("he.quantity")), 0).As("quantity"),
	).
		From(goqu.T("hospital_equipment").As("he")).
		Join(
			goqu.T("equipment_categories").As("ec"),
			goqu.On(goqu.Ex{"ec.id": goqu.I("he.category_id")}),
		).
		Where(
			goqu.Ex{"he.hospital_id": hospitalID, "ec.name": categoryNames},
			goqu.I("he.deleted_at").IsNull(),
		).
		GroupBy(goqu.I("ec.name"), goqu.I("ec.code")).
		Order(goqu.I("ec.name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query equipment details", err)
	}
	defer rows.Close()

	var details []entities.EquipmentDetail
	for rows.Next() {
		var detail entities.EquipmentDetail
		var code sql.NullString
		if err := rows.Scan(&detail.Name, &code, &detail.Quantity); err != nil {
			return nil, apperrors.NewInternalError("failed to scan equipment detail", err)
		}
		detail.Code = code.String
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate equipment details", err)
	}

	return details, nil
}

func (a *ReferenceAdapter) queryNames(ctx context.Context, query string, args []interface{}, what string) ([]string, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query "+what, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewInternalError("failed to scan "+what, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate "+what, err)
	}

	return names, nil
}
