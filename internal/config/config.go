package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Access modes for report reads and weather endpoints.
const (
	AuthModeOpen   = "open"
	AuthModeStrict = "strict"
)

type Config struct {
	Port           string
	AppEnv         string
	MongoURI       string
	MongoDB        string
	MongoTimeout   time.Duration
	JWTSecret      string
	JWTExpireHours int
	JWTIssuer      string
	FrontendURL    string

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	OpenWeatherGeoURL  string
	HTTPClientTimeout  time.Duration

	// AuthMode decides whether report reads and weather lookups are public
	// ("open") or require a bearer token and owner scoping ("strict").
	AuthMode string

	LogLevel  string
	LogFormat string

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	appEnv := getEnv("APP_ENV", "development")
	defaultFormat := "json"
	if appEnv == "development" {
		defaultFormat = "console"
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AppEnv:         appEnv,
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "skycast"),
		MongoTimeout:   getEnvDuration("MONGO_TIMEOUT", 10*time.Second),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),
		JWTIssuer:      getEnv("JWT_ISSUER", "skycast-api"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),

		OpenWeatherAPIKey:  getEnv("OPENWEATHER_API_KEY", ""),
		OpenWeatherBaseURL: getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		OpenWeatherGeoURL:  getEnv("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0"),
		HTTPClientTimeout:  getEnvDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),

		AuthMode: getEnv("AUTH_MODE", AuthModeOpen),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", defaultFormat),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

// Validate reports configuration that would make the server unsafe or unusable.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.IsProduction() && c.JWTSecret == "secret" {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.JWTExpireHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE_HOURS must be positive"))
	}
	if c.AuthMode != AuthModeOpen && c.AuthMode != AuthModeStrict {
		errs = append(errs, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeOpen, AuthModeStrict, c.AuthMode))
	}
	if c.MongoTimeout <= 0 {
		errs = append(errs, errors.New("MONGO_TIMEOUT must be positive"))
	}
	if c.HTTPClientTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_CLIENT_TIMEOUT must be positive"))
	}
	if c.RateLimitRequests < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must not be negative"))
	}
	if c.RateLimitRequests > 0 && c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StrictAuth reports whether every report read and weather lookup requires a token.
func (c *Config) StrictAuth() bool {
	return c.AuthMode == AuthModeStrict
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid %s=%q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid %s=%q, using default %s", key, value, defaultValue)
	}
	return defaultValue
}
