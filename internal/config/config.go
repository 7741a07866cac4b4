// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Host string `envconfig:"RAGMARK_HOST" yaml:"host"`
	Port int    `envconfig:"RAGMARK_PORT" yaml:"port"`

	// Qdrant configuration
	Qdrant QdrantConfig `yaml:"qdrant"`

	// Ollama configuration
	Ollama OllamaConfig `yaml:"ollama"`

	// Scorer configuration
	Scorer ScorerConfig `yaml:"scorer"`

	// Evaluation configuration
	Evaluation EvaluationConfig `yaml:"evaluation"`

	// Bus configuration
	Bus BusConfig `yaml:"bus"`

	// History configuration
	History HistoryConfig `yaml:"history"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// QdrantConfig holds Qdrant connection settings.
type QdrantConfig struct {
	Host       string `envconfig:"QDRANT_HOST" yaml:"host"`
	Port       int    `envconfig:"QDRANT_PORT" yaml:"port"`
	APIKey     string `envconfig:"QDRANT_API_KEY" yaml:"api_key"`
	UseTLS     bool   `envconfig:"QDRANT_USE_TLS" yaml:"use_tls"`
	Collection string `envconfig:"QDRANT_COLLECTION" yaml:"collection"`
}

// OllamaConfig holds Ollama connection and model settings.
type OllamaConfig struct {
	BaseURL    string `envconfig:"OLLAMA_BASE_URL" yaml:"base_url"`
	LLMModel   string `envconfig:"RAGMARK_LLM_MODEL" yaml:"llm_model"`
	EmbedModel string `envconfig:"RAGMARK_EMBED_MODEL" yaml:"embed_model"`
}

// ScorerConfig holds external NLG scoring service settings.
type ScorerConfig struct {
	BaseURL string `envconfig:"RAGMARK_SCORER_URL" yaml:"base_url"`
}

// EvaluationConfig holds evaluation run settings.
type EvaluationConfig struct {
	TopK              int     `envconfig:"RAGMARK_TOP_K" yaml:"top_k"`
	ContextSize       int     `envconfig:"RAGMARK_CONTEXT_SIZE" yaml:"context_size"`
	RelevantTopN      int     `envconfig:"RAGMARK_RELEVANT_TOP_N" yaml:"relevant_top_n"`
	RequestsPerSecond float64 `envconfig:"RAGMARK_REQUESTS_PER_SECOND" yaml:"requests_per_second"` // 0 = unlimited
}

// BusConfig holds event bus settings.
type BusConfig struct {
	Type          string `envconfig:"RAGMARK_BUS_TYPE" yaml:"type"`
	KafkaBrokers  string `envconfig:"RAGMARK_KAFKA_BROKERS" yaml:"kafka_brokers"`
	ConsumerGroup string `envconfig:"RAGMARK_CONSUMER_GROUP" yaml:"consumer_group"`
}

// HistoryConfig holds run history storage settings.
type HistoryConfig struct {
	Type     string `envconfig:"RAGMARK_HISTORY_TYPE" yaml:"type"`
	RedisURL string `envconfig:"RAGMARK_REDIS_URL" yaml:"redis_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"RAGMARK_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"RAGMARK_LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Host = "0.0.0.0"
	cfg.Port = 8080

	cfg.Qdrant = QdrantConfig{
		Host:       "localhost",
		Port:       6334,
		Collection: "rag_documents",
	}

	cfg.Ollama = OllamaConfig{
		BaseURL:    "http://localhost:11434",
		LLMModel:   "llama3.1",
		EmbedModel: "nomic-embed-text",
	}

	cfg.Scorer = ScorerConfig{
		BaseURL: "http://localhost:8090",
	}

	cfg.Evaluation = EvaluationConfig{
		TopK:              10,
		ContextSize:       3,
		RelevantTopN:      3,
		RequestsPerSecond: 0,
	}

	cfg.Bus = BusConfig{
		Type:          "memory",
		ConsumerGroup: "ragmark",
	}

	cfg.History = HistoryConfig{
		Type:     "memory",
		RedisURL: "redis://localhost:6379",
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	// Qdrant validation
	if c.Qdrant.Host == "" {
		errs = append(errs, "qdrant host is required")
	}

	if c.Qdrant.Collection == "" {
		errs = append(errs, "qdrant collection is required")
	}

	// Ollama validation
	if c.Ollama.BaseURL == "" {
		errs = append(errs, "ollama base_url is required")
	}

	// Evaluation validation
	if c.Evaluation.TopK < 1 {
		errs = append(errs, "top_k must be positive")
	}

	if c.Evaluation.ContextSize < 1 {
		errs = append(errs, "context_size must be positive")
	}

	if c.Evaluation.ContextSize > c.Evaluation.TopK {
		errs = append(errs, "context_size must not exceed top_k")
	}

	if c.Evaluation.RelevantTopN < 1 {
		errs = append(errs, "relevant_top_n must be positive")
	}

	if c.Evaluation.RequestsPerSecond < 0 {
		errs = append(errs, "requests_per_second must not be negative")
	}

	// Bus validation
	validBusTypes := map[string]bool{"memory": true, "kafka": true}
	if !validBusTypes[c.Bus.Type] {
		errs = append(errs, fmt.Sprintf("invalid bus type: %s (must be memory or kafka)", c.Bus.Type))
	}

	if c.Bus.Type == "kafka" && c.Bus.KafkaBrokers == "" {
		errs = append(errs, "kafka_brokers is required when bus type is kafka")
	}

	// History validation
	validHistoryTypes := map[string]bool{"memory": true, "redis": true}
	if !validHistoryTypes[c.History.Type] {
		errs = append(errs, fmt.Sprintf("invalid history type: %s (must be memory or redis)", c.History.Type))
	}

	// Log validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Address returns the server address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
