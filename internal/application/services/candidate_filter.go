package services

import (
	"context"

	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/observability"
)

// Candidate is a hospital that passed department, category and radius
// filtering, with its computed distance attached as transient metadata.
type Candidate struct {
	Hospital   *entities.Hospital
	DistanceKm float64
}

// CandidateFilter narrows the hospital directory down to the hospitals worth
// scoring for a disease and user location.
type CandidateFilter struct {
	hospitals repositories.HospitalRepository
	reference repositories.MedicalReferenceRepository
}

// NewCandidateFilter creates a new candidate filter
func NewCandidateFilter(hospitals repositories.HospitalRepository, reference repositories.MedicalReferenceRepository) *CandidateFilter {
	return &CandidateFilter{
		hospitals: hospitals,
		reference: reference,
	}
}

// FindCandidates resolves the departments linked to the disease, selects
// hospitals offering any of them, drops excluded categories, and keeps those
// within radiusKm of the user. It also returns the resolved department IDs
// so the caller can aggregate specialist counts without a second lookup.
// An empty result is a valid outcome, not an error.
func (f *CandidateFilter) FindCandidates(ctx context.Context, diseaseID int64, userLat, userLon, radiusKm float64) ([]Candidate, []int64, error) {
	logger := observability.LoggerFromContext(ctx)

	departments, err := f.reference.DepartmentsForDisease(ctx, diseaseID)
	if err != nil {
		return nil, nil, err
	}
	if len(departments) == 0 {
		logger.Info().Int64("disease_id", diseaseID).Msg("no departments linked to disease")
		return nil, nil, nil
	}

	departmentIDs := make([]int64, len(departments))
	for i, d := range departments {
		departmentIDs[i] = d.ID
	}

	hospitals, err := f.hospitals.FindByDepartments(ctx, departmentIDs)
	if err != nil {
		return nil, nil, err
	}

	var candidates []Candidate
	for _, h := range hospitals {
		if h.Category.Excluded() {
			continue
		}
		distance := DistanceKm(userLat, userLon, h.Latitude, h.Longitude)
		if distance <= radiusKm {
			candidates = append(candidates, Candidate{Hospital: h, DistanceKm: distance})
		}
	}

	logger.Info().
		Int64("disease_id", diseaseID).
		Float64("radius_km", radiusKm).
		Int("candidates", len(candidates)).
		Msg("candidate hospitals filtered")

	return candidates, departmentIDs, nil
}
