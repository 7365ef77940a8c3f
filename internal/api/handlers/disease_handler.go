package handlers

import (
	"net/http"
	"strconv"

	"github.com/medichat/backend/internal/domain/repositories"
)

// DiseaseHandler handles disease catalog HTTP requests
type DiseaseHandler struct {
	diseases  repositories.DiseaseRepository
	reference repositories.MedicalReferenceRepository
}

// NewDiseaseHandler creates a new disease handler
func NewDiseaseHandler(diseases repositories.DiseaseRepository, reference repositories.MedicalReferenceRepository) *DiseaseHandler {
	return &DiseaseHandler{diseases: diseases, reference: reference}
}

// ListDiseases handles GET /api/diseases
func (h *DiseaseHandler) ListDiseases(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	diseases, err := h.diseases.List(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"diseases": diseases,
		"count":    len(diseases),
	})
}

// GetDisease handles GET /api/diseases/{id}, returning the disease with its
// linked departments and required equipment.
func (h *DiseaseHandler) GetDisease(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "disease ID must be an integer")
		return
	}

	disease, err := h.diseases.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	departments, err := h.reference.DepartmentsForDisease(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	equipment, err := h.reference.RequiredEquipment(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"disease":            disease,
		"departments":        departments,
		"required_equipment": equipment,
	})
}
