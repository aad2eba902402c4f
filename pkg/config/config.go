package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for querylens-engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables; environment variables always override YAML values. Secrets
// (API keys) must only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	Log LogConfig `yaml:"log"`

	// AI analysis behavior
	AI AIConfig `yaml:"ai"`

	// Provider endpoints and credentials
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Ollama    OllamaConfig    `yaml:"ollama"`

	// Diagnostic extraction thresholds
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`

	// Documentation chunking and retrieval
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// AIConfig controls how AI-assisted analysis behaves.
type AIConfig struct {
	// Enabled gates all provider calls. When false, analysis is static only.
	Enabled bool `yaml:"enabled" env:"AI_ENABLED" env-default:"false"`

	// Provider selects which backend performs analysis: openai, anthropic,
	// or ollama. Ignored when Enabled is false.
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`

	// AnonymizeQueries replaces literal values with placeholders before any
	// query text leaves the process.
	AnonymizeQueries bool `yaml:"anonymize_queries" env:"AI_ANONYMIZE_QUERIES" env-default:"true"`

	// IncludeSchemaContext attaches table and column definitions to prompts.
	IncludeSchemaContext bool `yaml:"include_schema_context" env:"AI_INCLUDE_SCHEMA_CONTEXT" env-default:"true"`

	// RequestTimeoutSeconds bounds a single provider call including retries.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" env:"AI_REQUEST_TIMEOUT_SECONDS" env-default:"30"`

	// MaxRetries is the retry budget for transient provider failures.
	MaxRetries int `yaml:"max_retries" env:"AI_MAX_RETRIES" env-default:"3"`
}

// RequestTimeout returns the provider call timeout as a duration.
func (c *AIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// OpenAIConfig holds OpenAI-compatible endpoint settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:""`
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
	Model  string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-3-5-haiku-latest"`
}

// OllamaConfig holds settings for a local Ollama endpoint, which speaks the
// OpenAI-compatible API.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL" env-default:"http://localhost:11434/v1"`
	Model   string `yaml:"model" env:"OLLAMA_MODEL" env-default:"llama3.1"`
}

// DiagnosticsConfig holds thresholds for diagnostic extraction from
// performance_schema and information_schema.
type DiagnosticsConfig struct {
	// MinAvgRowsExamined filters out queries that scan few rows on average.
	MinAvgRowsExamined int64 `yaml:"min_avg_rows_examined" env:"DIAG_MIN_AVG_ROWS_EXAMINED" env-default:"1000"`

	// MinExecutions filters out rarely-run queries.
	MinExecutions int64 `yaml:"min_executions" env:"DIAG_MIN_EXECUTIONS" env-default:"10"`

	// MaxEfficiencyPercent flags queries whose sent/examined row ratio is
	// at or below this percentage.
	MaxEfficiencyPercent float64 `yaml:"max_efficiency_percent" env:"DIAG_MAX_EFFICIENCY_PERCENT" env-default:"5"`

	// SlowQueryMinAvgMillis flags statements whose average latency exceeds
	// this many milliseconds.
	SlowQueryMinAvgMillis int64 `yaml:"slow_query_min_avg_millis" env:"DIAG_SLOW_QUERY_MIN_AVG_MILLIS" env-default:"100"`
}

// ChunkerConfig holds documentation chunking defaults.
type ChunkerConfig struct {
	MaxChunkSize int `yaml:"max_chunk_size" env:"CHUNKER_MAX_CHUNK_SIZE" env-default:"1000"`
	MinChunkSize int `yaml:"min_chunk_size" env:"CHUNKER_MIN_CHUNK_SIZE" env-default:"50"`
	Overlap      int `yaml:"overlap" env:"CHUNKER_OVERLAP" env-default:"100"`
}

// RetrievalConfig holds documentation retrieval settings.
type RetrievalConfig struct {
	// CorpusDir is a directory of YAML corpus files loaded at startup.
	// Empty disables corpus loading.
	CorpusDir string `yaml:"corpus_dir" env:"RETRIEVAL_CORPUS_DIR" env-default:""`

	// TopK is how many chunks ground each analysis prompt.
	TopK int `yaml:"top_k" env:"RETRIEVAL_TOP_K" env-default:"3"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml does not exist, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.AI.Enabled {
		switch c.AI.Provider {
		case "openai", "anthropic", "ollama":
		default:
			return fmt.Errorf("unknown AI provider %q", c.AI.Provider)
		}
	}
	if c.AI.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.AI.RequestTimeoutSeconds)
	}
	if c.Chunker.MaxChunkSize <= 0 {
		return fmt.Errorf("max_chunk_size must be positive, got %d", c.Chunker.MaxChunkSize)
	}
	if c.Diagnostics.MaxEfficiencyPercent < 0 || c.Diagnostics.MaxEfficiencyPercent > 100 {
		return fmt.Errorf("max_efficiency_percent must be within [0,100], got %g", c.Diagnostics.MaxEfficiencyPercent)
	}
	return nil
}
