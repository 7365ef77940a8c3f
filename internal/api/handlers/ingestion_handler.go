package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medichat/backend/internal/application/services"
)

// IngestionHandler handles hospital directory import requests
type IngestionHandler struct {
	ingestion *services.IngestionService
}

// NewIngestionHandler creates a new ingestion handler
func NewIngestionHandler(ingestion *services.IngestionService) *IngestionHandler {
	return &IngestionHandler{ingestion: ingestion}
}

type ingestRequest struct {
	Hospitals []services.HospitalRecord `json:"hospitals"`
}

// IngestHospitals handles POST /api/admin/hospitals/ingest
func (h *IngestionHandler) IngestHospitals(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Hospitals) == 0 {
		respondWithError(w, http.StatusBadRequest, "hospitals list must not be empty")
		return
	}

	report, err := h.ingestion.IngestHospitals(r.Context(), req.Hospitals)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}
