package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	MLService MLServiceConfig
	Geocoding GeocodingConfig
	Auth      AuthConfig
	Recommend RecommendConfig
	OTEL      OTELConfig
	Env       string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MLServiceConfig holds the symptom classifier service configuration
type MLServiceConfig struct {
	URL            string
	TimeoutSeconds int
	// Minimum top-prediction confidence before a hospital
	// recommendation is attached to a chat reply.
	ConfidenceThreshold float64
}

// GeocodingConfig holds Kakao address search configuration. An empty
// key falls back to the mock provider.
type GeocodingConfig struct {
	KakaoAPIKey string
}

// AuthConfig holds JWT auth configuration
type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

// RecommendConfig holds hospital recommendation tuning parameters.
// The curve constants are empirically chosen; they are configuration,
// not invariants.
type RecommendConfig struct {
	DefaultRadiusKm          float64
	ChatRadiusKm             float64
	DefaultLimit             int
	EquipmentSaturationItems int
	EquipmentMinItemPoints   float64
	SpecialistCurveDivisor   float64
	CacheTTLSeconds          int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from the environment, reading a .env file
// first when one is present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "medichat"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		MLService: MLServiceConfig{
			URL:                 getEnv("ML_SERVICE_URL", "http://ml-service:8001"),
			TimeoutSeconds:      getEnvAsInt("ML_SERVICE_TIMEOUT_SECONDS", 30),
			ConfidenceThreshold: getEnvAsFloat("ML_CONFIDENCE_THRESHOLD", 0.8),
		},
		Geocoding: GeocodingConfig{
			KakaoAPIKey: getEnv("KAKAO_REST_API_KEY", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
			TokenTTLHours: getEnvAsInt("JWT_TTL_HOURS", 24),
		},
		Recommend: RecommendConfig{
			DefaultRadiusKm:          getEnvAsFloat("RECO_DEFAULT_RADIUS_KM", 20.0),
			ChatRadiusKm:             getEnvAsFloat("RECO_CHAT_RADIUS_KM", 5.0),
			DefaultLimit:             getEnvAsInt("RECO_DEFAULT_LIMIT", 3),
			EquipmentSaturationItems: getEnvAsInt("RECO_EQUIPMENT_SATURATION_ITEMS", 12),
			EquipmentMinItemPoints:   getEnvAsFloat("RECO_EQUIPMENT_MIN_ITEM_POINTS", 2.0),
			SpecialistCurveDivisor:   getEnvAsFloat("RECO_SPECIALIST_CURVE_DIVISOR", 3.0),
			CacheTTLSeconds:          getEnvAsInt("RECO_CACHE_TTL_SECONDS", 120),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "medichat-backend"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
