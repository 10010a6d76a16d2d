package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Nominatim NominatimConfig
	Overpass  OverpassConfig
	Search    SearchConfig
	OTEL      OTELConfig
	Log       LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host                   string
	Port                   int
	AllowedOrigins         []string
	ShutdownTimeoutSeconds int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int

	KeyPrefix          string
	FacilityTTLSeconds int
	GeocodeTTLSeconds  int
}

// NominatimConfig holds the text-geocoding service configuration
type NominatimConfig struct {
	BaseURL        string
	UserAgent      string
	TimeoutSeconds int
}

// OverpassConfig holds the proximity POI service configuration
type OverpassConfig struct {
	BaseURL             string
	UserAgent           string
	TimeoutSeconds      int
	QueryTimeoutSeconds int
}

// SearchConfig holds the resolution pipeline tuning knobs
type SearchConfig struct {
	MinRequestIntervalMillis int
	MinRadiusMeters          int
	MaxRadiusMeters          int
	LocationRadiusMeters     int
	LocationCandidateLimit   int
	FallbackPerTierLimit     int
	FallbackResultLimit      int
	GPSRadiusMeters          int
	GPSResultLimit           int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Env   string
	Level string
}

const defaultUserAgent = "HealBee/1.0 (health app; nominatim usage)"

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:                   getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                   getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins:         getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),

			KeyPrefix:          getEnv("REDIS_KEY_PREFIX", "healbee:"),
			FacilityTTLSeconds: getEnvAsInt("REDIS_FACILITY_TTL_SECONDS", 600),
			GeocodeTTLSeconds:  getEnvAsInt("REDIS_GEOCODE_TTL_SECONDS", 3600),
		},
		Nominatim: NominatimConfig{
			BaseURL:        getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:      getEnv("NOMINATIM_USER_AGENT", defaultUserAgent),
			TimeoutSeconds: getEnvAsInt("NOMINATIM_TIMEOUT_SECONDS", 15),
		},
		Overpass: OverpassConfig{
			BaseURL:             getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			UserAgent:           getEnv("OVERPASS_USER_AGENT", defaultUserAgent),
			TimeoutSeconds:      getEnvAsInt("OVERPASS_TIMEOUT_SECONDS", 30),
			QueryTimeoutSeconds: getEnvAsInt("OVERPASS_QUERY_TIMEOUT_SECONDS", 25),
		},
		Search: SearchConfig{
			MinRequestIntervalMillis: getEnvAsInt("SEARCH_MIN_REQUEST_INTERVAL_MS", 1000),
			MinRadiusMeters:          getEnvAsInt("SEARCH_MIN_RADIUS_METERS", 500),
			MaxRadiusMeters:          getEnvAsInt("SEARCH_MAX_RADIUS_METERS", 15000),
			LocationRadiusMeters:     getEnvAsInt("SEARCH_LOCATION_RADIUS_METERS", 8000),
			LocationCandidateLimit:   getEnvAsInt("SEARCH_LOCATION_CANDIDATE_LIMIT", 20),
			FallbackPerTierLimit:     getEnvAsInt("SEARCH_FALLBACK_PER_TIER_LIMIT", 8),
			FallbackResultLimit:      getEnvAsInt("SEARCH_FALLBACK_RESULT_LIMIT", 30),
			GPSRadiusMeters:          getEnvAsInt("SEARCH_GPS_RADIUS_METERS", 10000),
			GPSResultLimit:           getEnvAsInt("SEARCH_GPS_RESULT_LIMIT", 6),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "healbee-facility-locator"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "development"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Search.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects radius bands and caps that would make every search empty.
func (c *SearchConfig) Validate() error {
	if c.MinRadiusMeters <= 0 || c.MaxRadiusMeters < c.MinRadiusMeters {
		return fmt.Errorf("invalid search radius band [%d, %d]", c.MinRadiusMeters, c.MaxRadiusMeters)
	}
	if c.MinRequestIntervalMillis < 0 {
		return fmt.Errorf("search min request interval must not be negative")
	}
	if c.LocationCandidateLimit <= 0 || c.FallbackResultLimit <= 0 || c.GPSResultLimit <= 0 || c.FallbackPerTierLimit <= 0 {
		return fmt.Errorf("search result limits must be positive")
	}
	return nil
}

// MinRequestInterval returns the pause taken before every upstream call
func (c *SearchConfig) MinRequestInterval() time.Duration {
	return time.Duration(c.MinRequestIntervalMillis) * time.Millisecond
}

// Timeout returns the per-request HTTP timeout
func (c *NominatimConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout
func (c *OverpassConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ShutdownTimeout returns how long in-flight requests get on shutdown
func (c *ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
