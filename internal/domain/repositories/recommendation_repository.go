package repositories

import (
	"context"

	"github.com/medichat/backend/internal/domain/entities"
)

// RecommendationRepository persists ranked results as audit rows. The engine
// works without it; each run writes an independent row set.
type RecommendationRepository interface {
	// CreateBatch persists the ranked rows of one recommendation run
	CreateBatch(ctx context.Context, recommendations []*entities.Recommendation) error
}
