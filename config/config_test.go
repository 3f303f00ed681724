package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "medcare")
	t.Setenv("DB_NAME", "medcare")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("S3_BUCKET", "prescriptions")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USERNAME", "clinic@example.com")
	t.Setenv("SMTP_PASSWORD", "app-password")
}

func TestLoadConfig_FromEnvironmentWithoutFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRY", "5m")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.App.Port)
	}
	if cfg.JWT.AccessExpiry != 5*time.Minute {
		t.Errorf("expected access expiry 5m, got %v", cfg.JWT.AccessExpiry)
	}
	if cfg.JWT.RefreshExpiry != 7*24*time.Hour {
		t.Errorf("expected default refresh expiry, got %v", cfg.JWT.RefreshExpiry)
	}
	if cfg.SMTP.From != "clinic@example.com" {
		t.Errorf("expected SMTP from to default to username, got %q", cfg.SMTP.From)
	}
	if cfg.Prescription.TimeZone != "Asia/Kolkata" {
		t.Errorf("expected default prescription timezone, got %q", cfg.Prescription.TimeZone)
	}
	if cfg.DB.Port != "5432" {
		t.Errorf("expected default db port, got %q", cfg.DB.Port)
	}
}

func TestLoadConfig_MissingRequiredKeys(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_REFRESH_SECRET", "")
	t.Setenv("S3_BUCKET", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("expected ErrMissingConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "JWT_REFRESH_SECRET") || !strings.Contains(err.Error(), "S3_BUCKET") {
		t.Errorf("expected error to list missing keys, got %q", err.Error())
	}
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "")

	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nS3_REGION=eu-west-1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != "9090" {
		t.Errorf("expected port from file, got %q", cfg.App.Port)
	}
	if cfg.Storage.Region != "eu-west-1" {
		t.Errorf("expected region from file, got %q", cfg.Storage.Region)
	}
}

func TestDBConfig_URL(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "medcare", SSLMode: "disable"}
	want := "pgx5://u:p@db:5432/medcare?sslmode=disable"
	if got := c.URL(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
