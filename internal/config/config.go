package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"

	// DefaultCredentialsFile is looked up in the working directory when no env var names one.
	DefaultCredentialsFile = "ServiceAccountKey.json"
)

// ErrCredentialsNotFound is returned when the service-account key file is missing.
var ErrCredentialsNotFound = errors.New("firebase credentials not found")

// Config holds application runtime configuration.
type Config struct {
	Env               string
	HTTPPort          string
	LogLevel          string
	DataBackend       string
	SessionSecret     string
	SessionTTL        time.Duration
	FirebaseProjectID string
	FirebaseCredFile  string
	AssetsDir         string
	OpenAPIPath       string
	AllowedOrigins    []string
	SecureCookies     bool
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DataBackend:       getEnv("DATA_BACKEND", BackendFirestore),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionTTL:        getDuration("SESSION_TTL", 12*time.Hour),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredFile:  CredentialsPath(),
		AssetsDir:         getEnv("ASSETS_DIR", "."),
		OpenAPIPath:       getEnv("OPENAPI_PATH", "api/openapi.yaml"),
		AllowedOrigins:    getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SecureCookies:     getBool("SECURE_COOKIES", false),
		ReadTimeout:       getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.SessionSecret == "" {
		return cfg, errors.New("SESSION_SECRET is required")
	}
	switch cfg.DataBackend {
	case BackendFirestore:
		if err := CheckCredentials(cfg.FirebaseCredFile); err != nil {
			return cfg, err
		}
	case BackendMemory:
	default:
		return cfg, fmt.Errorf("unknown DATA_BACKEND %q", cfg.DataBackend)
	}
	return cfg, nil
}

// CredentialsPath resolves the service-account key file: FIREBASE_CREDENTIALS wins over
// GOOGLE_APPLICATION_CREDENTIALS, falling back to DefaultCredentialsFile.
func CredentialsPath() string {
	for _, key := range []string{"FIREBASE_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return DefaultCredentialsFile
}

// CheckCredentials verifies the key file exists.
func CheckCredentials(path string) error {
	if _, err := os.Stat(path); err != nil {
		abs, _ := filepath.Abs(path)
		return fmt.Errorf("%w at %q: set FIREBASE_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS", ErrCredentialsNotFound, abs)
	}
	return nil
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}
