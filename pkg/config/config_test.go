package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
	return tmpDir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	os.Unsetenv("AI_ENABLED")
	os.Unsetenv("AI_PROVIDER")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.AI.Enabled {
		t.Error("expected AI disabled by default")
	}
	if !cfg.AI.AnonymizeQueries {
		t.Error("expected anonymization on by default")
	}
	if cfg.AI.RequestTimeout() != 30*time.Second {
		t.Errorf("expected 30s request timeout, got %v", cfg.AI.RequestTimeout())
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Diagnostics.MinAvgRowsExamined != 1000 {
		t.Errorf("expected MinAvgRowsExamined=1000, got %d", cfg.Diagnostics.MinAvgRowsExamined)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := chdirTemp(t)

	yamlContent := `
env: "test"
ai:
  enabled: true
  provider: "openai"
chunker:
  max_chunk_size: 500
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AI.Provider != "anthropic" {
		t.Errorf("expected provider=anthropic (from env), got %s", cfg.AI.Provider)
	}
	if !cfg.AI.Enabled {
		t.Error("expected AI enabled (from YAML)")
	}
	if cfg.Chunker.MaxChunkSize != 500 {
		t.Errorf("expected MaxChunkSize=500 (from YAML), got %d", cfg.Chunker.MaxChunkSize)
	}
	if cfg.Anthropic.APIKey != "sk-test" {
		t.Error("expected API key from environment")
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	chdirTemp(t)
	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_PROVIDER", "bard")

	if _, err := Load("dev"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestLoad_RejectsBadTimeout(t *testing.T) {
	chdirTemp(t)
	t.Setenv("AI_REQUEST_TIMEOUT_SECONDS", "0")

	if _, err := Load("dev"); err == nil {
		t.Error("expected error for zero timeout")
	}
}
