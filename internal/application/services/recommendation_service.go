package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/providers"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/observability"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// RecommendRequest are the parameters of one recommendation run.
type RecommendRequest struct {
	DiseaseID int64
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	// Limit truncates the ranked list; zero or negative means "all".
	Limit int
	// UserID attributes persisted audit rows; uuid.Nil skips them.
	UserID uuid.UUID
}

// RecommendationService orchestrates candidate filtering, per-candidate
// scoring, ranking and result assembly. It is stateless across invocations;
// all lookups go through injected read-only ports.
type RecommendationService struct {
	filter    *CandidateFilter
	reference repositories.MedicalReferenceRepository
	diseases  repositories.DiseaseRepository
	users     repositories.UserRepository
	scorer    *Scorer

	// Optional collaborators; the engine works without them.
	audit    repositories.RecommendationRepository
	bus      providers.EventBus
	cache    providers.CacheProvider
	cacheTTL int
	metrics  *observability.Metrics
}

// NewRecommendationService creates a new recommendation service. audit, bus
// and cache may be nil.
func NewRecommendationService(
	filter *CandidateFilter,
	reference repositories.MedicalReferenceRepository,
	diseases repositories.DiseaseRepository,
	users repositories.UserRepository,
	scorer *Scorer,
	audit repositories.RecommendationRepository,
	bus providers.EventBus,
	cache providers.CacheProvider,
	cacheTTLSeconds int,
) *RecommendationService {
	return &RecommendationService{
		filter:    filter,
		reference: reference,
		diseases:  diseases,
		users:     users,
		scorer:    scorer,
		audit:     audit,
		bus:       bus,
		cache:     cache,
		cacheTTL:  cacheTTLSeconds,
	}
}

// SetMetrics attaches run counters; the service works without them.
func (s *RecommendationService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Recommend produces the ranked hospital list for a disease and location.
// An empty list is a valid outcome; precondition failures (unknown disease)
// return typed errors.
func (s *RecommendationService) Recommend(ctx context.Context, req RecommendRequest) (*entities.RecommendationSet, error) {
	ctx, span := observability.StartSpan(ctx, "RecommendationService.Recommend")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	disease, err := s.diseases.GetByID(ctx, req.DiseaseID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewPreconditionError(fmt.Sprintf("disease %d not found", req.DiseaseID))
		}
		return nil, err
	}

	if cached := s.cacheLookup(ctx, req); cached != nil {
		return cached, nil
	}

	candidates, departmentIDs, err := s.filter.FindCandidates(ctx, req.DiseaseID, req.Latitude, req.Longitude, req.RadiusKm)
	if err != nil {
		return nil, err
	}

	result := &entities.RecommendationSet{
		DiseaseID:         disease.ID,
		DiseaseName:       disease.Name,
		RequiredEquipment: []string{},
		Recommendations:   []entities.RecommendedHospital{},
		RadiusKm:          req.RadiusKm,
		Limit:             req.Limit,
	}
	if len(candidates) == 0 {
		logger.Warn().Int64("disease_id", req.DiseaseID).Msg("no candidate hospitals matched criteria")
		return result, nil
	}

	required, err := s.reference.RequiredEquipment(ctx, req.DiseaseID)
	if err != nil {
		return nil, err
	}
	result.RequiredEquipment = required
	result.TotalCandidates = len(candidates)

	logger.Info().
		Int64("disease_id", req.DiseaseID).
		Float64("radius_km", req.RadiusKm).
		Strs("required_equipment", required).
		Interface("weights", WeightsFor(required)).
		Int("candidates", len(candidates)).
		Msg("scoring candidate hospitals")

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		held, err := s.reference.HospitalEquipmentNames(ctx, c.Hospital.ID)
		if err != nil {
			return nil, err
		}
		specialists, err := s.reference.SpecialistCount(ctx, c.Hospital.ID, departmentIDs)
		if err != nil {
			return nil, err
		}

		score := s.scorer.Score(ScoreInput{
			DistanceKm:        c.DistanceKm,
			RequiredEquipment: required,
			HospitalEquipment: held,
			SpecialistCount:   specialists,
			Category:          c.Hospital.Category,
			RadiusKm:          req.RadiusKm,
		})

		details, err := s.reference.EquipmentDetails(ctx, c.Hospital.ID, required)
		if err != nil {
			return nil, err
		}

		scored = append(scored, scoredCandidate{
			candidate:       c,
			result:          score,
			specialistCount: specialists,
			equipmentMatch:  len(required) == 0 || score.Breakdown.MatchedEquipmentCount > 0,
			details:         details,
		})
	}

	// Descending by score, then category priority; the ID leg only makes
	// exact ties deterministic.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].result.Score != scored[j].result.Score {
			return scored[i].result.Score > scored[j].result.Score
		}
		if scored[i].result.CategoryPriority != scored[j].result.CategoryPriority {
			return scored[i].result.CategoryPriority > scored[j].result.CategoryPriority
		}
		return scored[i].candidate.Hospital.ID < scored[j].candidate.Hospital.ID
	})

	if req.Limit > 0 && len(scored) > req.Limit {
		scored = scored[:req.Limit]
	}

	for rank, sc := range scored {
		h := sc.candidate.Hospital
		result.Recommendations = append(result.Recommendations, entities.RecommendedHospital{
			HospitalID:       h.ID,
			Name:             h.Name,
			Address:          h.Address,
			CategoryName:     h.Category,
			Phone:            h.Phone,
			DistanceKm:       sc.candidate.DistanceKm,
			Rank:             rank + 1,
			Score:            sc.result.Score,
			DepartmentMatch:  true, // guaranteed by the filter step
			EquipmentMatch:   sc.equipmentMatch,
			Reason:           sc.result.Reason,
			SpecialistCount:  sc.specialistCount,
			EquipmentDetails: sc.details,
			ScoreBreakdown:   sc.result.Breakdown,
		})
	}

	s.persistAudit(ctx, req, result)
	s.publish(ctx, result)
	s.cacheStore(ctx, req, result)

	if s.metrics != nil {
		observability.RecordRecommendationRun(ctx, s.metrics, disease.ID, result.TotalCandidates)
	}

	return result, nil
}

// RecommendForUser resolves the user's stored location and runs a
// recommendation from it. Missing location is a precondition failure.
func (s *RecommendationService) RecommendForUser(ctx context.Context, userID uuid.UUID, diseaseID int64, radiusKm float64, limit int) (*entities.RecommendationSet, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasLocation() {
		return nil, apperrors.NewPreconditionError(fmt.Sprintf("user %s has no stored location", userID))
	}
	return s.Recommend(ctx, RecommendRequest{
		DiseaseID: diseaseID,
		Latitude:  *user.Latitude,
		Longitude: *user.Longitude,
		RadiusKm:  radiusKm,
		Limit:     limit,
		UserID:    userID,
	})
}

// RecommendByDiseaseName resolves a disease by name first; used by the chat
// path where the classifier yields a label rather than an ID.
func (s *RecommendationService) RecommendByDiseaseName(ctx context.Context, name string, req RecommendRequest) (*entities.RecommendationSet, error) {
	disease, err := s.diseases.GetByName(ctx, name)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewPreconditionError(fmt.Sprintf("disease %q not found", name))
		}
		return nil, err
	}
	req.DiseaseID = disease.ID
	return s.Recommend(ctx, req)
}

// RecommendByDiseaseNameForUser combines name resolution with the user's
// stored location.
func (s *RecommendationService) RecommendByDiseaseNameForUser(ctx context.Context, userID uuid.UUID, name string, radiusKm float64, limit int) (*entities.RecommendationSet, error) {
	disease, err := s.diseases.GetByName(ctx, name)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewPreconditionError(fmt.Sprintf("disease %q not found", name))
		}
		return nil, err
	}
	return s.RecommendForUser(ctx, userID, disease.ID, radiusKm, limit)
}

type scoredCandidate struct {
	candidate       Candidate
	result          ScoreResult
	specialistCount int
	equipmentMatch  bool
	details         []entities.EquipmentDetail
}

func (s *RecommendationService) persistAudit(ctx context.Context, req RecommendRequest, set *entities.RecommendationSet) {
	if s.audit == nil || req.UserID == uuid.Nil || len(set.Recommendations) == 0 {
		return
	}

	runID := uuid.New()
	rows := make([]*entities.Recommendation, len(set.Recommendations))
	for i, rec := range set.Recommendations {
		rows[i] = &entities.Recommendation{
			RunID:           runID,
			UserID:          req.UserID,
			DiseaseID:       set.DiseaseID,
			HospitalID:      rec.HospitalID,
			DistanceKm:      rec.DistanceKm,
			Rank:            rec.Rank,
			Score:           rec.Score,
			DepartmentMatch: rec.DepartmentMatch,
			EquipmentMatch:  rec.EquipmentMatch,
			Reason:          rec.Reason,
		}
	}

	if err := s.audit.CreateBatch(ctx, rows); err != nil {
		// Audit rows are best-effort; the ranked response stands on its own.
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to persist recommendation audit rows")
	}
}

func (s *RecommendationService) publish(ctx context.Context, set *entities.RecommendationSet) {
	if s.bus == nil || len(set.Recommendations) == 0 {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"disease_id":   set.DiseaseID,
		"disease_name": set.DiseaseName,
		"count":        len(set.Recommendations),
	})
	if err != nil {
		return
	}
	event := entities.NewEvent(entities.EventTypeRecommendationCreated, 0, payload)
	if err := s.bus.Publish(ctx, providers.EventChannelRecommendations, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to publish recommendation event")
	}
}

func (s *RecommendationService) cacheKey(req RecommendRequest) string {
	// Location rounded to ~100m so nearby requests share entries.
	return fmt.Sprintf("reco:%d:%.3f:%.3f:%.1f:%d", req.DiseaseID, req.Latitude, req.Longitude, req.RadiusKm, req.Limit)
}

func (s *RecommendationService) cacheLookup(ctx context.Context, req RecommendRequest) *entities.RecommendationSet {
	if s.cache == nil {
		return nil
	}
	key := s.cacheKey(req)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if s.metrics != nil {
			observability.RecordCacheMiss(ctx, s.metrics, key)
		}
		return nil
	}
	var set entities.RecommendationSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil
	}
	if s.metrics != nil {
		observability.RecordCacheHit(ctx, s.metrics, key)
	}
	return &set
}

func (s *RecommendationService) cacheStore(ctx context.Context, req RecommendRequest, set *entities.RecommendationSet) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(set)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(req), data, s.cacheTTL); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache recommendation result")
	}
}
