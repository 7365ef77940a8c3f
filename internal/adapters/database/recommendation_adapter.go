package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
	"github.com/medichat/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// RecommendationAdapter implements RecommendationRepository
type RecommendationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRecommendationAdapter creates a new recommendation adapter
func NewRecommendationAdapter(client *postgres.Client) repositories.RecommendationRepository {
	return &RecommendationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CreateBatch persists the ranked rows of one recommendation run in a single
// insert.
func (a *RecommendationAdapter) CreateBatch(ctx context.Context, recommendations []*entities.Recommendation) error {
	if len(recommendations) == 0 {
		return nil
	}

	now := time.Now()
	records := make([]interface{}, len(recommendations))
	for i, rec := range recommendations {
		rec.CreatedAt = now
		records[i] = goqu.Record{
			"run_id":           rec.RunID,
			"user_id":          rec.UserID,
			"disease_id":       rec.DiseaseID,
			"hospital_id":      rec.HospitalID,
			"distance_km":      rec.DistanceKm,
			"rank":             rec.Rank,
			"score":            rec.Score,
			"department_match": rec.DepartmentMatch,
			"equipment_match":  rec.EquipmentMatch,
			"reason":           rec.Reason,
			"created_at":       rec.CreatedAt,
		}
	}

	query, args, err := a.db.Insert("recommendations").Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create recommendations", err)
	}

	return nil
}
