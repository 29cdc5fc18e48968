package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("WORKER_CONCURRENCY", "")
	t.Setenv("WORKER_JOBS_PER_MINUTE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "8080")
	}
	if cfg.TMDBBaseURL != "https://api.themoviedb.org/3" {
		t.Fatalf("TMDBBaseURL mismatch: %q", cfg.TMDBBaseURL)
	}
	if cfg.TextProvider != "gemini" {
		t.Fatalf("TextProvider mismatch: %q", cfg.TextProvider)
	}
	if cfg.WorkerConcurrency != 2 || cfg.WorkerJobsPerMinute != 10 {
		t.Fatalf("worker defaults mismatch: concurrency=%d jobsPerMinute=%d", cfg.WorkerConcurrency, cfg.WorkerJobsPerMinute)
	}
	if cfg.WorkerPollInterval != 2*time.Second {
		t.Fatalf("WorkerPollInterval mismatch: %v", cfg.WorkerPollInterval)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("DBMaxConns mismatch: got %d want 10", cfg.DBMaxConns)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadConfigClampsConcurrency(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("WORKER_CONCURRENCY", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.WorkerConcurrency != 1 {
		t.Fatalf("WorkerConcurrency mismatch: got %d want 1", cfg.WorkerConcurrency)
	}
}
