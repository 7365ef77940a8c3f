package handlers

import (
	"net/http"
	"strconv"

	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/repositories"
)

// HospitalHandler handles hospital directory HTTP requests
type HospitalHandler struct {
	hospitals repositories.HospitalRepository
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(hospitals repositories.HospitalRepository) *HospitalHandler {
	return &HospitalHandler{hospitals: hospitals}
}

// GetHospital handles GET /api/hospitals/{id}
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "hospital ID must be an integer")
		return
	}

	hospital, err := h.hospitals.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hospital)
}

// ListHospitals handles GET /api/hospitals
func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	filter := repositories.HospitalFilter{
		Category: entities.ParseCategory(r.URL.Query().Get("category")),
		Limit:    30,
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if parsed, err := strconv.Atoi(offset); err == nil && parsed > 0 {
			filter.Offset = parsed
		}
	}

	hospitals, err := h.hospitals.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}
