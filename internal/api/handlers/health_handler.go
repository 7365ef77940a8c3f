package handlers

import (
	"net/http"

	"github.com/medichat/backend/internal/domain/providers"
	"github.com/medichat/backend/internal/infrastructure/clients/postgres"
)

// HealthHandler serves the liveness and readiness probes. Liveness only
// proves the process answers; readiness checks the database and reports the
// classifier's reachability without failing on it (the mock path keeps the
// service usable when the ML service is down).
type HealthHandler struct {
	db         *postgres.Client
	classifier providers.SymptomClassifier
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *postgres.Client, classifier providers.SymptomClassifier) *HealthHandler {
	return &HealthHandler{db: db, classifier: classifier}
}

// Live handles GET /health/live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"status": "alive"})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "not ready",
				"database": "unreachable",
			})
			return
		}
	}

	classifierStatus := "unavailable"
	if h.classifier != nil && h.classifier.Healthy(r.Context()) {
		classifierStatus = "healthy"
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ready",
		"database":   "healthy",
		"classifier": classifierStatus,
	})
}
