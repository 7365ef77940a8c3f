package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medichat/backend/internal/api/middleware"
	"github.com/medichat/backend/internal/application/services"
	"github.com/medichat/backend/internal/domain/providers"
)

// AuthHandler handles account and session HTTP requests
type AuthHandler struct {
	auth     *services.AuthService
	geocoder providers.GeocodingProvider
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService, geocoder providers.GeocodingProvider) *AuthHandler {
	return &AuthHandler{auth: auth, geocoder: geocoder}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type locationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me handles GET /api/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// UpdateLocation handles PUT /api/users/me/location
func (h *AuthHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	latitude, longitude := req.Latitude, req.Longitude
	if req.Address != "" {
		if h.geocoder == nil {
			respondWithError(w, http.StatusBadRequest, "address geocoding is not available")
			return
		}
		coords, err := h.geocoder.Geocode(r.Context(), req.Address)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		latitude, longitude = coords.Latitude, coords.Longitude
	}

	if err := h.auth.UpdateLocation(r.Context(), userID, latitude, longitude); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"latitude":  latitude,
		"longitude": longitude,
	})
}
