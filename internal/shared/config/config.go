package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Record store backends.
const (
	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
)

// Object store backends.
const (
	ObjectPlaceholder = "placeholder"
	ObjectLocal       = "local"
	ObjectS3          = "s3"
)

// Config holds application configuration.
type Config struct {
	Env             string   `env:"ENV" envDefault:"dev"`
	Port            string   `env:"PORT" envDefault:"8080"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	RecordStore              string `env:"RECORD_STORE"`
	DatabaseURL              string `env:"DATABASE_URL"`
	FirestoreProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`
	SeedSampleData           bool   `env:"SEED_SAMPLE_DATA"`

	ObjectStoreType   string `env:"OBJECT_STORE" envDefault:"placeholder"`
	LocalStoreDir     string `env:"LOCAL_STORE_DIR" envDefault:"./data"`
	LocalStoreBaseURL string `env:"LOCAL_STORE_BASE_URL" envDefault:"/api/v1/files"`
	AWSRegion         string `env:"AWS_REGION"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3Prefix          string `env:"S3_PREFIX"`
	S3PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`
	SSEKMSKeyID       string `env:"SSE_KMS_KEY_ID"`
	MaxUploadBytes    int64  `env:"MAX_UPLOAD_BYTES" envDefault:"26214400"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"Cruzados de la Vera Cruz <onboarding@resend.dev>"`
	MailTo       string `env:"MAIL_TO"`

	JWTSecret          string        `env:"JWT_SECRET"`
	JWTTTL             time.Duration `env:"JWT_TTL" envDefault:"24h"`
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string        `env:"GOOGLE_REDIRECT_URL"`
	UIRedirectURL      string        `env:"UI_REDIRECT_URL"`

	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads configuration from the environment, after a best-effort load
// of local .env files for dev convenience. Variables already set win.
func Load() (Config, error) {
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return normalize(cfg)
}

func normalize(cfg Config) (Config, error) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.CORSAllowOrigin = trimAll(cfg.CORSAllowOrigin)

	store, err := normalizeRecordStore(cfg.RecordStore, cfg.DatabaseURL)
	if err != nil {
		return Config{}, err
	}
	cfg.RecordStore = store

	objectStore, err := normalizeObjectStore(cfg.ObjectStoreType)
	if err != nil {
		return Config{}, err
	}
	cfg.ObjectStoreType = objectStore

	var problems []error
	switch cfg.RecordStore {
	case StorePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			problems = append(problems, errors.New("DATABASE_URL is required for RECORD_STORE=postgres"))
		}
	case StoreFirestore:
		if strings.TrimSpace(cfg.FirestoreProjectID) == "" {
			problems = append(problems, errors.New("FIRESTORE_PROJECT_ID is required for RECORD_STORE=firestore"))
		}
	}
	if cfg.ObjectStoreType == ObjectS3 && strings.TrimSpace(cfg.S3Bucket) == "" {
		problems = append(problems, errors.New("S3_BUCKET is required for OBJECT_STORE=s3"))
	}
	if cfg.Env == "production" {
		if strings.TrimSpace(cfg.JWTSecret) == "" {
			problems = append(problems, errors.New("JWT_SECRET is required in production"))
		}
		if cfg.RecordStore == StoreMemory {
			log.Printf("RECORD_STORE=memory in production: records are lost on restart")
		}
	}
	if err := errors.Join(problems...); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func trimAll(raw []string) []string {
	var out []string
	for _, p := range raw {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

// normalizeRecordStore picks the record backend. Without RECORD_STORE a
// configured DATABASE_URL selects postgres.
func normalizeRecordStore(raw, databaseURL string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		if strings.TrimSpace(databaseURL) != "" {
			return StorePostgres, nil
		}
		return StoreMemory, nil
	case "memory", "mem":
		return StoreMemory, nil
	case "postgres", "postgresql", "pg":
		return StorePostgres, nil
	case "firestore":
		return StoreFirestore, nil
	default:
		return "", fmt.Errorf("unknown RECORD_STORE %q", raw)
	}
}

func normalizeObjectStore(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "placeholder", "none":
		return ObjectPlaceholder, nil
	case "local", "fs":
		return ObjectLocal, nil
	case "s3":
		return ObjectS3, nil
	default:
		return "", fmt.Errorf("unknown OBJECT_STORE %q", raw)
	}
}
