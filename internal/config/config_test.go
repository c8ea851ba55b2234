package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paddock/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Ingest.SessionKinds) != 4 {
		t.Fatalf("expected 4 default session kinds, got %d", len(cfg.Ingest.SessionKinds))
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Ingest.RetryMaxAttempts != 3 {
		t.Fatalf("expected default retry attempts, got %d", cfg.Ingest.RetryMaxAttempts)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		"[upstream]",
		`base_url = "https://example.test/api/"`,
		"[ingest]",
		`session_kinds = ["Race", " qualifying "]`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Upstream.BaseURL != "https://example.test/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Upstream.BaseURL)
	}
	if len(cfg.Ingest.SessionKinds) != 2 || cfg.Ingest.SessionKinds[0] != "race" {
		t.Fatalf("expected normalized session kinds, got %v", cfg.Ingest.SessionKinds)
	}
}

func TestValidateRejectsUnknownSessionKind(t *testing.T) {
	cfg := config.Default()
	cfg.Ingest.SessionKinds = []string{"practice"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown session kind")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestFailureLogPath(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/paddock-test"
	got := cfg.FailureLogPath(2024)
	if got != "/tmp/paddock-test/ingest_failures_2024.json" {
		t.Fatalf("unexpected failure log path: %s", got)
	}
}
