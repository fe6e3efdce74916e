package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "PORT", "CORS_ALLOW_ORIGINS", "RECORD_STORE", "DATABASE_URL",
		"FIRESTORE_PROJECT_ID", "OBJECT_STORE", "S3_BUCKET", "JWT_SECRET", "JWT_TTL",
		"SEED_SAMPLE_DATA",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "dev" || cfg.Port != "8080" {
		t.Fatalf("unexpected env/port: %q %q", cfg.Env, cfg.Port)
	}
	if cfg.RecordStore != StoreMemory {
		t.Fatalf("RecordStore = %q, want memory", cfg.RecordStore)
	}
	if cfg.ObjectStoreType != ObjectPlaceholder {
		t.Fatalf("ObjectStoreType = %q, want placeholder", cfg.ObjectStoreType)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("JWTTTL = %s", cfg.JWTTTL)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "PROD")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://localhost/cruzados")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("S3_BUCKET", "cruzados-files")
	t.Setenv("SEED_SAMPLE_DATA", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "production" {
		t.Fatalf("Env = %q", cfg.Env)
	}
	if cfg.RecordStore != StorePostgres {
		t.Fatalf("DATABASE_URL should select postgres, got %q", cfg.RecordStore)
	}
	if cfg.ObjectStoreType != ObjectS3 {
		t.Fatalf("ObjectStoreType = %q", cfg.ObjectStoreType)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "https://b.example" {
		t.Fatalf("CORSAllowOrigin = %v", cfg.CORSAllowOrigin)
	}
	if !cfg.SeedSampleData {
		t.Fatalf("expected SeedSampleData")
	}
}

func TestLoadRejectsIncompleteBackends(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "postgres without url", env: map[string]string{"RECORD_STORE": "postgres"}, want: "DATABASE_URL"},
		{name: "firestore without project", env: map[string]string{"RECORD_STORE": "firestore"}, want: "FIRESTORE_PROJECT_ID"},
		{name: "s3 without bucket", env: map[string]string{"OBJECT_STORE": "s3"}, want: "S3_BUCKET"},
		{name: "unknown store", env: map[string]string{"RECORD_STORE": "mongo"}, want: "RECORD_STORE"},
		{name: "production without secret", env: map[string]string{"ENV": "production"}, want: "JWT_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
