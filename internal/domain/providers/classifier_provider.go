package providers

import (
	"context"

	"github.com/medichat/backend/internal/domain/entities"
)

// SymptomClassifier is the port to the external text classification model.
// The model is an opaque black box returning labeled scores, best first.
type SymptomClassifier interface {
	// Analyze classifies a symptom text into disease predictions.
	Analyze(ctx context.Context, text string) ([]entities.DiseasePrediction, error)

	// Healthy reports whether the classifier service is reachable.
	Healthy(ctx context.Context) bool
}
