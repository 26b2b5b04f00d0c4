package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort   int
	StoreBackend string

	DatabaseURL string

	FirestoreProjectID string
	CredentialsFile    string

	JWTSecretKey          string
	OrganizerEmail        string
	OrganizerPasswordHash string
	JudgeEmail            string
	JudgePasswordHash     string

	CORSAllowedOrigins []string
	RecordRatePerSec   float64

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// R2Enabled reports whether every R2 setting is present.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an environment lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		StoreBackend:          strings.ToLower(strings.TrimSpace(getenv("STORE_BACKEND"))),
		DatabaseURL:           getenv("DATABASE_URL"),
		FirestoreProjectID:    getenv("FIRESTORE_PROJECT_ID"),
		CredentialsFile:       getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		JWTSecretKey:          getenv("JWT_SECRET_KEY"),
		OrganizerEmail:        getenv("ORGANIZER_EMAIL"),
		OrganizerPasswordHash: getenv("ORGANIZER_PASSWORD_HASH"),
		JudgeEmail:            getenv("JUDGE_EMAIL"),
		JudgePasswordHash:     getenv("JUDGE_PASSWORD_HASH"),
		R2AccountID:           getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:         getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:     getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:          getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:       getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendFirestore
	}
	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case BackendFirestore:
		if cfg.FirestoreProjectID == "" {
			return nil, fmt.Errorf("FIRESTORE_PROJECT_ID environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q, expected %q or %q", cfg.StoreBackend, BackendFirestore, BackendPostgres)
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.OrganizerEmail != "" && cfg.OrganizerPasswordHash == "" {
		return nil, fmt.Errorf("ORGANIZER_PASSWORD_HASH must be set together with ORGANIZER_EMAIL")
	}
	if cfg.JudgeEmail != "" && cfg.JudgePasswordHash == "" {
		return nil, fmt.Errorf("JUDGE_PASSWORD_HASH must be set together with JUDGE_EMAIL")
	}

	portStr := getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	cfg.CORSAllowedOrigins = []string{"*"}
	if origins := getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = cfg.CORSAllowedOrigins[:0]
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	cfg.RecordRatePerSec = 5
	if rateStr := getenv("RECORD_RATE_PER_SEC"); rateStr != "" {
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("RECORD_RATE_PER_SEC must be a positive number, got %q", rateStr)
		}
		cfg.RecordRatePerSec = rate
	}

	return cfg, nil
}
