package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/medichat/backend/internal/api/middleware"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/application/services"
	"github.com/medichat/backend/pkg/config"
)

// RecommendationHandler handles hospital recommendation HTTP requests
type RecommendationHandler struct {
	recommendations *services.RecommendationService
	cfg             config.RecommendConfig
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendations *services.RecommendationService, cfg config.RecommendConfig) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations, cfg: cfg}
}

type recommendRequest struct {
	DiseaseID int64    `json:"disease_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	RadiusKm  *float64 `json:"radius_km"`
	Limit     *int     `json:"limit"`
}

type recommendByDiseaseRequest struct {
	DiseaseName string   `json:"disease_name"`
	RadiusKm    *float64 `json:"radius_km"`
	Limit       *int     `json:"limit"`
}

// Recommend handles POST /api/medical/recommend. Coordinates are explicit in
// the body; when omitted the authenticated user's stored location is used.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DiseaseID <= 0 {
		respondWithError(w, http.StatusBadRequest, "disease_id is required")
		return
	}

	radius := h.cfg.DefaultRadiusKm
	if req.RadiusKm != nil && *req.RadiusKm > 0 {
		radius = *req.RadiusKm
	}
	limit := h.cfg.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	userID, _ := middleware.UserIDFromContext(r.Context())

	if req.Latitude == nil || req.Longitude == nil {
		if userID == uuid.Nil {
			respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
			return
		}
		set, err := h.recommendations.RecommendForUser(r.Context(), userID, req.DiseaseID, radius, limit)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondRecommendations(w, set)
		return
	}

	set, err := h.recommendations.Recommend(r.Context(), services.RecommendRequest{
		DiseaseID: req.DiseaseID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		RadiusKm:  radius,
		Limit:     limit,
		UserID:    userID,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondRecommendations(w, set)
}

// RecommendByDisease handles POST /api/medical/recommend-by-disease: resolve
// a disease by name and recommend around the authenticated user's stored
// location with the tighter chat-style radius.
func (h *RecommendationHandler) RecommendByDisease(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req recommendByDiseaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DiseaseName == "" {
		respondWithError(w, http.StatusBadRequest, "disease_name is required")
		return
	}

	radius := h.cfg.ChatRadiusKm
	if req.RadiusKm != nil && *req.RadiusKm > 0 {
		radius = *req.RadiusKm
	}
	limit := h.cfg.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	set, err := h.recommendations.RecommendByDiseaseNameForUser(r.Context(), userID, req.DiseaseName, radius, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondRecommendations(w, set)
}

// respondRecommendations writes the result set; an empty ranked list is a
// 404 on the REST surface (the chat path renders it as a reply instead).
func respondRecommendations(w http.ResponseWriter, set *entities.RecommendationSet) {
	if len(set.Recommendations) == 0 {
		respondWithError(w, http.StatusNotFound, "no hospitals could be recommended")
		return
	}
	respondWithJSON(w, http.StatusOK, set)
}
