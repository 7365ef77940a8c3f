package classifier

import (
	"context"
	"strings"

	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/providers"
)

// MockClassifier implements a keyword-based classifier for local development
// and tests, so the stack runs without the model serving endpoint.
type MockClassifier struct{}

// NewMockClassifier creates a new mock classifier
func NewMockClassifier() providers.SymptomClassifier {
	return &MockClassifier{}
}

var keywordRules = []struct {
	keywords   []string
	prediction entities.DiseasePrediction
}{
	{[]string{"뒷목", "혈압", "어지럽"}, entities.DiseasePrediction{DiseaseID: 1, DiseaseName: "고혈압", Score: 0.92}},
	{[]string{"기침", "가래", "콧물"}, entities.DiseasePrediction{DiseaseID: 2, DiseaseName: "감기", Score: 0.88}},
	{[]string{"배", "복통", "설사"}, entities.DiseasePrediction{DiseaseID: 3, DiseaseName: "장염", Score: 0.85}},
	{[]string{"머리", "두통"}, entities.DiseasePrediction{DiseaseID: 4, DiseaseName: "편두통", Score: 0.81}},
}

// Analyze classifies a symptom text by keyword matching (mock implementation)
func (m *MockClassifier) Analyze(_ context.Context, text string) ([]entities.DiseasePrediction, error) {
	var predictions []entities.DiseasePrediction
	for _, rule := range keywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				predictions = append(predictions, rule.prediction)
				break
			}
		}
	}
	if len(predictions) > 3 {
		predictions = predictions[:3]
	}
	return predictions, nil
}

// Healthy always reports true for the mock
func (m *MockClassifier) Healthy(_ context.Context) bool {
	return true
}
