package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medichat/backend/internal/adapters/cache"
	"github.com/medichat/backend/internal/adapters/database"
	"github.com/medichat/backend/internal/adapters/events"
	"github.com/medichat/backend/internal/adapters/providers/classifier"
	"github.com/medichat/backend/internal/adapters/providers/geocoding"
	"github.com/medichat/backend/internal/api/handlers"
	"github.com/medichat/backend/internal/api/routes"
	"github.com/medichat/backend/internal/application/services"
	"github.com/medichat/backend/internal/domain/providers"
	"github.com/medichat/backend/internal/infrastructure/clients/postgres"
	"github.com/medichat/backend/internal/infrastructure/clients/redis"
	"github.com/medichat/backend/internal/infrastructure/observability"
	"github.com/medichat/backend/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - caching and realtime chat fan-out degrade gracefully
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize adapters

	hospitalAdapter := database.NewHospitalAdapter(pgClient)
	referenceAdapter := database.NewReferenceAdapter(pgClient)
	diseaseAdapter := database.NewDiseaseAdapter(pgClient)
	userAdapter := database.NewUserAdapter(pgClient)
	chatAdapter := database.NewChatAdapter(pgClient)
	inferenceAdapter := database.NewInferenceAdapter(pgClient)
	recommendationAdapter := database.NewRecommendationAdapter(pgClient)
	equipmentAdapter := database.NewEquipmentAdapter(pgClient)

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for real-time chat updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	var symptomClassifier providers.SymptomClassifier
	if cfg.MLService.URL == "" {
		log.Println("Warning: ML_SERVICE_URL is not set; using keyword classifier")
		symptomClassifier = classifier.NewMockClassifier()
	} else {
		symptomClassifier = classifier.NewHTTPClassifier(
			cfg.MLService.URL,
			time.Duration(cfg.MLService.TimeoutSeconds)*time.Second,
		)
	}

	var geocoder providers.GeocodingProvider
	if cfg.Geocoding.KakaoAPIKey == "" {
		log.Println("Warning: KAKAO_REST_API_KEY is not set; using mock geocoder")
		geocoder = geocoding.NewMockProvider()
	} else {
		geocoder = geocoding.NewKakaoProvider(cfg.Geocoding.KakaoAPIKey, cacheProvider)
	}

	// Initialize services

	scorer := services.NewScorer(services.ScoringParams{
		EquipmentSaturationItems: cfg.Recommend.EquipmentSaturationItems,
		EquipmentMinItemPoints:   cfg.Recommend.EquipmentMinItemPoints,
		SpecialistCurveDivisor:   cfg.Recommend.SpecialistCurveDivisor,
	})
	candidateFilter := services.NewCandidateFilter(hospitalAdapter, referenceAdapter)

	recommendationService := services.NewRecommendationService(
		candidateFilter,
		referenceAdapter,
		diseaseAdapter,
		userAdapter,
		scorer,
		recommendationAdapter,
		eventBus,
		cacheProvider,
		cfg.Recommend.CacheTTLSeconds,
	)
	recommendationService.SetMetrics(metrics)

	chatService := services.NewChatService(
		chatAdapter,
		inferenceAdapter,
		userAdapter,
		symptomClassifier,
		recommendationService,
		eventBus,
		cfg.MLService.ConfidenceThreshold,
		cfg.Recommend.ChatRadiusKm,
		cfg.Recommend.DefaultLimit,
	)
	chatService.SetMetrics(metrics)

	authService := services.NewAuthService(
		userAdapter,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
	)

	ingestionService := services.NewIngestionService(hospitalAdapter, equipmentAdapter)

	// Initialize handlers

	authHandler := handlers.NewAuthHandler(authService, geocoder)
	hospitalHandler := handlers.NewHospitalHandler(hospitalAdapter)
	diseaseHandler := handlers.NewDiseaseHandler(diseaseAdapter, referenceAdapter)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, cfg.Recommend)
	chatHandler := handlers.NewChatHandler(chatService)
	wsChatHandler := handlers.NewWSChatHandler(chatService, eventBus)
	ingestionHandler := handlers.NewIngestionHandler(ingestionService)
	healthHandler := handlers.NewHealthHandler(pgClient, symptomClassifier)

	// Set up router

	router := routes.NewRouter(
		authHandler,
		hospitalHandler,
		diseaseHandler,
		recommendationHandler,
		chatHandler,
		wsChatHandler,
		ingestionHandler,
		healthHandler,
		authService,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
