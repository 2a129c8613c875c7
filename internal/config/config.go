package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendGoogle = "google"
	BackendMemory = "memory"

	SessionCookie = "cookie"
	SessionRedis  = "redis"

	// DevSessionSecret signs sessions when APP_ENV=dev and SESSION_SECRET is
	// unset. It is public, so no other environment accepts it.
	DevSessionSecret = "development key"
)

type Config struct {
	Env  string
	Port int

	// workbooks, opened by title
	UsersSheet   string
	ContentSheet string

	SheetsBackend   string
	SheetsFixture   string
	CredentialsFile string
	CredentialsJSON string
	ClientTTL       time.Duration
	SheetsTimeout   time.Duration

	Timezone string

	SessionSecret  string
	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	WorkspaceTTL   time.Duration

	CSRFKey      string
	MaxBodyBytes int64

	OTLPEndpoint    string
	OTLPSampleRatio float64
}

func Load() Config {
	// a missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		UsersSheet:   getEnv("USERS_SHEET_NAME", "Utilisateurs LaCroixglorieuse"),
		ContentSheet: getEnv("CONTENT_SHEET_NAME", "Contenu Carême LaCroixglorieuse"),

		SheetsBackend:   strings.ToLower(getEnv("SHEETS_BACKEND", BackendGoogle)),
		SheetsFixture:   getEnv("SHEETS_FIXTURE", ""),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		CredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		ClientTTL:       getEnvDuration("SHEETS_CLIENT_TTL", time.Hour),
		SheetsTimeout:   getEnvDuration("SHEETS_TIMEOUT", 5*time.Second),

		Timezone: getEnv("APP_TIMEZONE", "Local"),

		SessionSecret:  getEnv("SESSION_SECRET", ""),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", SessionCookie)),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		WorkspaceTTL:   getEnvDuration("WORKSPACE_TTL", 2*time.Hour),

		CSRFKey:      getEnv("CSRF_KEY", ""),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 64<<10)),

		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),
	}

	if cfg.SessionSecret == "" && cfg.Env == "dev" {
		cfg.SessionSecret = DevSessionSecret
	}

	return cfg
}

// Location resolves Timezone. Unknown names fall back to the server's local zone,
// the same day boundary the content sheet was always written against.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}

	return loc
}

// Credentials returns the service account bundle, inline JSON first.
func (c Config) Credentials() ([]byte, error) {
	if c.CredentialsJSON != "" {
		return []byte(c.CredentialsJSON), nil
	}

	if c.CredentialsFile == "" {
		return nil, fmt.Errorf("no service account credentials: set GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON")
	}

	b, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	return b, nil
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fallback
		}

		return d
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return fallback
		}

		return f
	}
	return fallback
}
