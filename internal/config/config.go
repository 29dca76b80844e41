package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the askcast API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Service    ServiceConfig    `yaml:"service"`
	Cache      CacheConfig      `yaml:"cache"`
	Episodes   EpisodesConfig   `yaml:"episodes"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Sparse     SparseConfig     `yaml:"sparse"`
	Index      IndexConfig      `yaml:"index"`
	Query      QueryConfig      `yaml:"query"`
	Answer     AnswerConfig     `yaml:"answer"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServiceConfig holds the static service identity returned by the healthcheck.
type ServiceConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds the embedding cache (Redis) settings.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EpisodesConfig holds the episode metadata row store (Postgres) settings.
type EpisodesConfig struct {
	DatabaseURL string `yaml:"database_url"`
	// MissingPolicy decides what a missing episode row does to the request:
	// "fail" aborts it, "drop" skips the passage.
	MissingPolicy string `yaml:"missing_policy"`
}

// EmbeddingConfig holds the dense embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ClassifierConfig holds the zero-shot classification endpoint settings.
type ClassifierConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// SparseConfig holds the sparse (SPLADE) encoder endpoint settings.
type SparseConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// IndexConfig holds vector index connection settings.
type IndexConfig struct {
	APIKey        string `yaml:"api_key"`
	ControllerURL string `yaml:"controller_url"`
	Name          string `yaml:"name"`
	Namespace     string `yaml:"namespace"`
	TimeoutSec    int    `yaml:"timeout_sec"`
}

// QueryConfig holds hybrid retrieval tuning.
type QueryConfig struct {
	TopK        int      `yaml:"top_k"`
	HybridScale *bool    `yaml:"hybrid_scale"`
	SparseAlpha *float64 `yaml:"sparse_alpha"`
	DenseAlpha  *float64 `yaml:"dense_alpha"`
}

// AnswerConfig holds generation provider and stream settings.
type AnswerConfig struct {
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	Model         string `yaml:"model"`
	SystemMessage string `yaml:"system_message"`
	RetryMs       int    `yaml:"retry_ms"`
	PacingMs      int    `yaml:"pacing_ms"`
	TimeoutSec    int    `yaml:"timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Service.Title == "" {
		c.Service.Title = "askcast"
	}
	if c.Service.Description == "" {
		c.Service.Description = "Grounded Q&A over podcast transcripts"
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Streams stay open well past a normal request.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 120
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Episodes.MissingPolicy == "" {
		c.Episodes.MissingPolicy = "fail"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-ada-002"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 10
	}
	if c.Classifier.TimeoutSec <= 0 {
		c.Classifier.TimeoutSec = 5
	}
	if c.Sparse.TimeoutSec <= 0 {
		c.Sparse.TimeoutSec = 5
	}
	if c.Index.ControllerURL == "" {
		c.Index.ControllerURL = "https://api.pinecone.io"
	}
	if c.Index.TimeoutSec <= 0 {
		c.Index.TimeoutSec = 10
	}
	if c.Query.TopK <= 0 {
		c.Query.TopK = 10
	}
	if c.Query.HybridScale == nil {
		t := true
		c.Query.HybridScale = &t
	}
	if c.Query.SparseAlpha == nil {
		a := 0.3
		c.Query.SparseAlpha = &a
	}
	if c.Query.DenseAlpha == nil {
		a := 0.8
		c.Query.DenseAlpha = &a
	}
	if c.Answer.Model == "" {
		c.Answer.Model = "gpt-3.5-turbo-16k-0613"
	}
	if c.Answer.SystemMessage == "" {
		c.Answer.SystemMessage = defaultSystemMessage
	}
	if c.Answer.RetryMs <= 0 {
		c.Answer.RetryMs = 3000
	}
	if c.Answer.PacingMs <= 0 {
		c.Answer.PacingMs = 50
	}
	if c.Answer.TimeoutSec <= 0 {
		c.Answer.TimeoutSec = 20
	}
}

const defaultSystemMessage = "You are a helpful AI agent designed to help users better " +
	"understand the content of podcast episodes. Your task is to answer the subsequent " +
	"query to the best of your ability by using the following passages from the podcast, " +
	"which are delimited by triple quotes. If the answer cannot be found, say so plainly. " +
	"Crucially, be accurate, concise, and clear."

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required")
	}
	if c.Episodes.DatabaseURL == "" {
		return fmt.Errorf("episodes.database_url is required")
	}
	switch c.Episodes.MissingPolicy {
	case "fail", "drop":
	default:
		return fmt.Errorf("episodes.missing_policy must be \"fail\" or \"drop\", got %q",
			c.Episodes.MissingPolicy)
	}
	if c.Index.Name == "" {
		return fmt.Errorf("index.name is required")
	}
	if a := *c.Query.SparseAlpha; a < 0 || a > 1 {
		return fmt.Errorf("query.sparse_alpha must be in [0, 1], got %g", a)
	}
	if a := *c.Query.DenseAlpha; a < 0 || a > 1 {
		return fmt.Errorf("query.dense_alpha must be in [0, 1], got %g", a)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
