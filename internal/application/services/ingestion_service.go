package services

import (
	"context"
	"sort"
	"strings"

	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/observability"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// HospitalRecord is one row of a hospital directory import.
type HospitalRecord struct {
	Name      string             `json:"name"`
	Address   string             `json:"address"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Category  string             `json:"category"`
	Phone     string             `json:"phone,omitempty"`
	Website   string             `json:"website,omitempty"`
	Equipment []EquipmentHolding `json:"equipment,omitempty"`
}

// EquipmentHolding names an equipment category held by an imported hospital.
type EquipmentHolding struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// IngestReport summarizes an import run.
type IngestReport struct {
	Created          int      `json:"created"`
	Skipped          int      `json:"skipped"`
	UnknownEquipment []string `json:"unknown_equipment,omitempty"`
}

// IngestionService loads hospital directory records and their equipment
// holdings. Rows with invalid coordinates are skipped; equipment names not in
// the catalog are logged and dropped without failing the row.
type IngestionService struct {
	hospitals repositories.HospitalRepository
	equipment repositories.EquipmentRepository
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(hospitals repositories.HospitalRepository, equipment repositories.EquipmentRepository) *IngestionService {
	return &IngestionService{hospitals: hospitals, equipment: equipment}
}

// IngestHospitals imports the given records. Row-level problems are counted
// in the report rather than aborting the run; only repository failures stop
// the import.
func (s *IngestionService) IngestHospitals(ctx context.Context, records []HospitalRecord) (*IngestReport, error) {
	ctx, span := observability.StartSpan(ctx, "IngestionService.IngestHospitals")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	report := &IngestReport{}
	unknown := map[string]struct{}{}

	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if name == "" || !validCoordinates(rec.Latitude, rec.Longitude) {
			logger.Warn().Str("name", rec.Name).
				Float64("latitude", rec.Latitude).
				Float64("longitude", rec.Longitude).
				Msg("skipping hospital record with missing name or invalid coordinates")
			report.Skipped++
			continue
		}

		hospital := &entities.Hospital{
			Name:      name,
			Address:   strings.TrimSpace(rec.Address),
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
			Category:  entities.ParseCategory(rec.Category),
			Phone:     strings.TrimSpace(rec.Phone),
			Website:   strings.TrimSpace(rec.Website),
		}
		if err := s.hospitals.Create(ctx, hospital); err != nil {
			return nil, err
		}
		report.Created++

		for _, holding := range rec.Equipment {
			if holding.Quantity <= 0 {
				holding.Quantity = 1
			}
			category, err := s.equipment.GetCategoryByName(ctx, strings.TrimSpace(holding.Name))
			if err != nil {
				if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
					unknown[holding.Name] = struct{}{}
					logger.Warn().Str("hospital", name).Str("equipment", holding.Name).
						Msg("equipment name not in catalog, dropping holding")
					continue
				}
				return nil, err
			}
			if err := s.equipment.UpsertHolding(ctx, hospital.ID, category.ID, holding.Quantity); err != nil {
				return nil, err
			}
		}
	}

	for name := range unknown {
		report.UnknownEquipment = append(report.UnknownEquipment, name)
	}
	sort.Strings(report.UnknownEquipment)

	logger.Info().
		Int("created", report.Created).
		Int("skipped", report.Skipped).
		Int("unknown_equipment", len(report.UnknownEquipment)).
		Msg("hospital ingestion finished")
	return report, nil
}

func validCoordinates(latitude, longitude float64) bool {
	if latitude == 0 && longitude == 0 {
		return false
	}
	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}
