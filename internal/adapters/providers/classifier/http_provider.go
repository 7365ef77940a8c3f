package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/providers"
	"github.com/medichat/backend/internal/infrastructure/observability"
	apperrors "github.com/medichat/backend/pkg/errors"
	"github.com/medichat/backend/pkg/retry"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPClassifier implements SymptomClassifier against the model serving
// endpoint. The model is an opaque black box; this adapter only handles
// transport, retries and response shaping.
type HTTPClassifier struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClassifier creates a new HTTP classifier provider.
func NewHTTPClassifier(baseURL string, timeout time.Duration) providers.SymptomClassifier {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPClassifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	OriginalText           string `json:"original_text"`
	ProcessedText          string `json:"processed_text"`
	DiseaseClassifications []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"disease_classifications"`
	TopDisease string  `json:"top_disease"`
	Confidence float64 `json:"confidence"`
}

// Analyze classifies a symptom text into disease predictions. Transient
// failures are retried with backoff before giving up.
func (c *HTTPClassifier) Analyze(ctx context.Context, text string) ([]entities.DiseasePrediction, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal classifier request", err)
	}

	var parsed analyzeResponse
	err = retry.Do(ctx, retry.DefaultConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(payload))
		}

		return json.NewDecoder(resp.Body).Decode(&parsed)
	})
	if err != nil {
		return nil, apperrors.NewExternalError("symptom classification failed", err)
	}

	predictions := make([]entities.DiseasePrediction, len(parsed.DiseaseClassifications))
	for i, p := range parsed.DiseaseClassifications {
		predictions[i] = entities.DiseasePrediction{
			DiseaseName: p.Label,
			Score:       p.Score,
		}
	}

	observability.LoggerFromContext(ctx).Debug().
		Int("predictions", len(predictions)).
		Str("top_disease", parsed.TopDisease).
		Msg("classifier response received")

	return predictions, nil
}

// Healthy reports whether the classifier service is reachable.
func (c *HTTPClassifier) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
