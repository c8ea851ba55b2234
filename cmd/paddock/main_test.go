package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
cache_dir = %q

[database]
path = %q

[logging]
level = "error"
format = "console"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "cache"),
		filepath.Join(base, "data", "paddock.db"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func TestIngestRejectsInvalidYear(t *testing.T) {
	configPath := writeTestConfig(t)

	_, err := runCLI(t, []string{"ingest", "twentytwentyfour"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "invalid year") {
		t.Fatalf("expected invalid year error, got %v", err)
	}
}

func TestIngestRejectsUnknownSessionKind(t *testing.T) {
	configPath := writeTestConfig(t)

	_, err := runCLI(t, []string{"ingest", "2024", "--sessions", "practice"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown session kind") {
		t.Fatalf("expected session kind error, got %v", err)
	}
}

func TestStoreHealthOnFreshDatabase(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, []string{"store", "health"}, configPath)
	if err != nil {
		t.Fatalf("store health: %v", err)
	}
	requireContains(t, out, "Integrity: yes")
	requireContains(t, out, "Sessions: 0")
}

func TestStoreStatsEmptySeason(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, []string{"store", "stats", "2024"}, configPath)
	if err != nil {
		t.Fatalf("store stats: %v", err)
	}
	requireContains(t, out, "No sessions stored for 2024")
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite guard, got %v", err)
	}
}
