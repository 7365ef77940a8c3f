package routes

import (
	"net/http"

	"github.com/medichat/backend/internal/api/handlers"
	"github.com/medichat/backend/internal/api/middleware"
	"github.com/medichat/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler           *handlers.AuthHandler
	hospitalHandler       *handlers.HospitalHandler
	diseaseHandler        *handlers.DiseaseHandler
	recommendationHandler *handlers.RecommendationHandler
	chatHandler           *handlers.ChatHandler
	wsChatHandler         *handlers.WSChatHandler
	ingestionHandler      *handlers.IngestionHandler
	healthHandler         *handlers.HealthHandler

	verifier middleware.TokenVerifier
	metrics  *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	hospitalHandler *handlers.HospitalHandler,
	diseaseHandler *handlers.DiseaseHandler,
	recommendationHandler *handlers.RecommendationHandler,
	chatHandler *handlers.ChatHandler,
	wsChatHandler *handlers.WSChatHandler,
	ingestionHandler *handlers.IngestionHandler,
	healthHandler *handlers.HealthHandler,
	verifier middleware.TokenVerifier,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		authHandler:           authHandler,
		hospitalHandler:       hospitalHandler,
		diseaseHandler:        diseaseHandler,
		recommendationHandler: recommendationHandler,
		chatHandler:           chatHandler,
		wsChatHandler:         wsChatHandler,
		ingestionHandler:      ingestionHandler,
		healthHandler:         healthHandler,

		verifier: verifier,
		metrics:  metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	auth := middleware.AuthMiddleware(r.verifier)

	// Health check endpoints
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})
	r.mux.HandleFunc("GET /health/live", r.healthHandler.Live)
	r.mux.HandleFunc("GET /health/ready", r.healthHandler.Ready)

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)
	r.mux.Handle("GET /api/users/me", auth(http.HandlerFunc(r.authHandler.Me)))
	r.mux.Handle("PUT /api/users/me/location", auth(http.HandlerFunc(r.authHandler.UpdateLocation)))

	// Hospital directory endpoints
	r.mux.HandleFunc("GET /api/hospitals", r.hospitalHandler.ListHospitals)
	r.mux.HandleFunc("GET /api/hospitals/{id}", r.hospitalHandler.GetHospital)

	// Disease catalog endpoints
	r.mux.HandleFunc("GET /api/diseases", r.diseaseHandler.ListDiseases)
	r.mux.HandleFunc("GET /api/diseases/{id}", r.diseaseHandler.GetDisease)

	// Recommendation endpoints
	r.mux.HandleFunc("POST /api/medical/recommend", r.recommendationHandler.Recommend)
	r.mux.Handle("POST /api/medical/recommend-by-disease", auth(http.HandlerFunc(r.recommendationHandler.RecommendByDisease)))

	// Chat endpoints
	r.mux.Handle("POST /api/chat/rooms", auth(http.HandlerFunc(r.chatHandler.CreateRoom)))
	r.mux.Handle("GET /api/chat/rooms", auth(http.HandlerFunc(r.chatHandler.ListRooms)))
	r.mux.Handle("GET /api/chat/rooms/{roomID}/messages", auth(http.HandlerFunc(r.chatHandler.ListMessages)))
	r.mux.Handle("POST /api/chat/rooms/{roomID}/messages", auth(http.HandlerFunc(r.chatHandler.SendMessage)))
	r.mux.Handle("DELETE /api/chat/rooms/{roomID}", auth(http.HandlerFunc(r.chatHandler.DeleteRoom)))

	// Live chat websocket
	r.mux.Handle("GET /ws/chat/{roomID}", auth(http.HandlerFunc(r.wsChatHandler.HandleConnect)))

	// Admin ingestion endpoint (hydrate the hospital directory)
	r.mux.Handle("POST /api/admin/hospitals/ingest", auth(http.HandlerFunc(r.ingestionHandler.IngestHospitals)))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on errors
	handler = middleware.CORSMiddleware(handler)

	return handler
}
