package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrCredentialMissing is returned by Validate when the routing provider key is absent.
var ErrCredentialMissing = errors.New("ORS_API_KEY is not set")

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Directions  DirectionsConfig
	Overpass    OverpassConfig
	Geolocation GeolocationConfig
	CORS        CORSConfig
	Redis       RedisConfig
	Sentry      SentryConfig
	OTEL        OTELConfig
	Client      ClientConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DirectionsConfig holds the upstream routing provider configuration
type DirectionsConfig struct {
	APIKey   string
	BaseURL  string
	Profile  string
	Timeout  time.Duration
	CacheTTL int
}

// OverpassConfig holds the POI index configuration
type OverpassConfig struct {
	URL          string
	Timeout      time.Duration
	MaxAttempts  int
	RadiusMeters int
	CacheTTL     int
}

// GeolocationConfig holds location acquisition configuration
type GeolocationConfig struct {
	FallbackLatitude  float64
	FallbackLongitude float64
	Timeout           time.Duration
	MaximumAge        time.Duration
	IPLookupURL       string
}

// CORSConfig holds the single allowed browser origin
type CORSConfig struct {
	AllowedOrigin string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// SentryConfig holds Sentry configuration
type SentryConfig struct {
	DSN string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// ClientConfig holds the endpoints used by the terminal client
type ClientConfig struct {
	ProxyURL      string
	SessionAPIURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 4000),
		},
		Directions: DirectionsConfig{
			APIKey:   strings.TrimSpace(os.Getenv("ORS_API_KEY")),
			BaseURL:  getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
			Profile:  getEnv("ORS_PROFILE", "driving-car"),
			Timeout:  getEnvAsSeconds("DIRECTIONS_TIMEOUT_SECONDS", 15*time.Second),
			CacheTTL: getEnvAsInt("DIRECTIONS_CACHE_TTL_SECONDS", 0),
		},
		Overpass: OverpassConfig{
			URL:          getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			Timeout:      getEnvAsSeconds("OVERPASS_TIMEOUT_SECONDS", 30*time.Second),
			MaxAttempts:  getEnvAsInt("OVERPASS_MAX_ATTEMPTS", 2),
			RadiusMeters: getEnvAsInt("HOSPITAL_RADIUS_METERS", 10000),
			CacheTTL:     getEnvAsInt("HOSPITAL_CACHE_TTL_SECONDS", 0),
		},
		Geolocation: GeolocationConfig{
			FallbackLatitude:  getEnvAsFloat("GEO_FALLBACK_LAT", 28.6139),
			FallbackLongitude: getEnvAsFloat("GEO_FALLBACK_LON", 77.2090),
			Timeout:           getEnvAsSeconds("GEO_TIMEOUT_SECONDS", 10*time.Second),
			MaximumAge:        getEnvAsSeconds("GEO_MAX_AGE_SECONDS", 60*time.Second),
			IPLookupURL:       getEnv("GEO_IP_LOOKUP_URL", "http://ip-api.com/json/"),
		},
		CORS: CORSConfig{
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "careassist-directions"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Client: ClientConfig{
			ProxyURL:      getEnv("PROXY_URL", "http://localhost:4000"),
			SessionAPIURL: getEnv("SESSION_API_URL", "http://localhost:5000/api"),
		},
	}, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env") into the
// process environment without overriding values that are already set.
// A missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if _, err := os.Stat(name); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks the preconditions the directions proxy needs before it may
// accept connections.
func (c *Config) Validate() error {
	if c.Directions.APIKey == "" {
		return ErrCredentialMissing
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Overpass.RadiusMeters <= 0 || c.Overpass.RadiusMeters > 50000 {
		return fmt.Errorf("invalid HOSPITAL_RADIUS_METERS %d", c.Overpass.RadiusMeters)
	}
	return nil
}

// ServerAddr returns the listen address
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DirectionsURL returns the upstream endpoint for the configured profile
func (c *DirectionsConfig) DirectionsURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/v2/directions/" + c.Profile
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

func getEnvAsSeconds(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.ParseFloat(value, 64); err == nil && seconds > 0 {
			return time.Duration(seconds * float64(time.Second))
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
