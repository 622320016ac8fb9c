// Package config loads tubetalk configuration from environment variables,
// with an optional YAML file overlay.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider identifies an LLM or embedding backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
)

// SummaryStrategy selects how background summaries are produced.
type SummaryStrategy string

const (
	// StrategyMapReduce summarizes a bounded set of passages independently,
	// then combines the partial summaries. Reference behavior.
	StrategyMapReduce SummaryStrategy = "mapreduce"

	// StrategyDirect retrieves the top passages for a fixed probe query and
	// summarizes them in a single generation call.
	StrategyDirect SummaryStrategy = "direct"
)

// Config holds all configuration values.
type Config struct {
	// Server
	ListenAddr string

	// Generation backend
	LLMProvider Provider
	LLMModel    string
	MaxTokens   int
	Temperature float64

	// Embedding backend
	EmbedProvider  Provider
	EmbedModel     string
	EmbedDimension int
	EmbedBatchSize int

	// Backend credentials / hosts
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string

	// Transcript API
	TranscriptAPIKey  string
	TranscriptBaseURL string
	TranscriptLangs   string

	// Retrieval pipeline
	ChunkSize        int
	ChunkOverlap     int
	ChatTopK         int
	SummaryTopK      int
	SummaryMapLimit  int
	Summary          SummaryStrategy
	CondenseFallback bool

	// Timeouts
	GenerateTimeout time.Duration
	EmbedTimeout    time.Duration
	FetchTimeout    time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables, applying defaults
// that match the reference deployment.
func Load() Config {
	return Config{
		ListenAddr: getEnv("TUBETALK_LISTEN", ":8080"),

		LLMProvider: Provider(getEnv("TUBETALK_LLM_PROVIDER", "openai")),
		LLMModel:    getEnv("TUBETALK_LLM_MODEL", "gpt-4o-mini"),
		MaxTokens:   getEnvInt("TUBETALK_MAX_TOKENS", 512),
		Temperature: getEnvFloat("TUBETALK_TEMPERATURE", 0.1),

		EmbedProvider:  Provider(getEnv("TUBETALK_EMBED_PROVIDER", "openai")),
		EmbedModel:     getEnv("TUBETALK_EMBED_MODEL", "text-embedding-3-small"),
		EmbedDimension: getEnvInt("TUBETALK_EMBED_DIMENSION", 1536),
		EmbedBatchSize: getEnvInt("TUBETALK_EMBED_BATCH", 32),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		TranscriptAPIKey:  os.Getenv("YOUTUBE_TRANSCRIPT_API_KEY"),
		TranscriptBaseURL: getEnv("TUBETALK_TRANSCRIPT_URL", "https://www.youtube-transcript.io/api/transcripts"),
		TranscriptLangs:   getEnv("TUBETALK_TRANSCRIPT_LANGS", "hi, en"),

		ChunkSize:        getEnvInt("TUBETALK_CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvInt("TUBETALK_CHUNK_OVERLAP", 200),
		ChatTopK:         getEnvInt("TUBETALK_CHAT_TOP_K", 4),
		SummaryTopK:      getEnvInt("TUBETALK_SUMMARY_TOP_K", 7),
		SummaryMapLimit:  getEnvInt("TUBETALK_SUMMARY_MAP_LIMIT", 5),
		Summary:          SummaryStrategy(getEnv("TUBETALK_SUMMARY_STRATEGY", string(StrategyMapReduce))),
		CondenseFallback: getEnv("TUBETALK_CONDENSE_FALLBACK", "false") == "true",

		GenerateTimeout: getEnvDuration("TUBETALK_GENERATE_TIMEOUT", 2*time.Minute),
		EmbedTimeout:    getEnvDuration("TUBETALK_EMBED_TIMEOUT", time.Minute),
		FetchTimeout:    getEnvDuration("TUBETALK_FETCH_TIMEOUT", 30*time.Second),

		LogFile:  os.Getenv("TUBETALK_LOG_FILE"),
		LogLevel: parseLogLevel(getEnv("TUBETALK_LOG_LEVEL", "INFO")),
	}
}

// fileConfig mirrors the YAML overlay file. Only fields present in the file
// override environment values.
type fileConfig struct {
	Listen           *string  `yaml:"listen"`
	LLMProvider      *string  `yaml:"llm_provider"`
	LLMModel         *string  `yaml:"llm_model"`
	MaxTokens        *int     `yaml:"max_tokens"`
	Temperature      *float64 `yaml:"temperature"`
	EmbedProvider    *string  `yaml:"embed_provider"`
	EmbedModel       *string  `yaml:"embed_model"`
	EmbedDimension   *int     `yaml:"embed_dimension"`
	EmbedBatchSize   *int     `yaml:"embed_batch"`
	ChunkSize        *int     `yaml:"chunk_size"`
	ChunkOverlap     *int     `yaml:"chunk_overlap"`
	ChatTopK         *int     `yaml:"chat_top_k"`
	SummaryTopK      *int     `yaml:"summary_top_k"`
	SummaryMapLimit  *int     `yaml:"summary_map_limit"`
	SummaryStrategy  *string  `yaml:"summary_strategy"`
	CondenseFallback *bool    `yaml:"condense_fallback"`
	LogFile          *string  `yaml:"log_file"`
	LogLevel         *string  `yaml:"log_level"`
}

// ApplyFile overlays values from a YAML config file onto c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&c.ListenAddr, fc.Listen)
	if fc.LLMProvider != nil {
		c.LLMProvider = Provider(*fc.LLMProvider)
	}
	setString(&c.LLMModel, fc.LLMModel)
	setInt(&c.MaxTokens, fc.MaxTokens)
	if fc.Temperature != nil {
		c.Temperature = *fc.Temperature
	}
	if fc.EmbedProvider != nil {
		c.EmbedProvider = Provider(*fc.EmbedProvider)
	}
	setString(&c.EmbedModel, fc.EmbedModel)
	setInt(&c.EmbedDimension, fc.EmbedDimension)
	setInt(&c.EmbedBatchSize, fc.EmbedBatchSize)
	setInt(&c.ChunkSize, fc.ChunkSize)
	setInt(&c.ChunkOverlap, fc.ChunkOverlap)
	setInt(&c.ChatTopK, fc.ChatTopK)
	setInt(&c.SummaryTopK, fc.SummaryTopK)
	setInt(&c.SummaryMapLimit, fc.SummaryMapLimit)
	if fc.SummaryStrategy != nil {
		c.Summary = SummaryStrategy(*fc.SummaryStrategy)
	}
	if fc.CondenseFallback != nil {
		c.CondenseFallback = *fc.CondenseFallback
	}
	setString(&c.LogFile, fc.LogFile)
	if fc.LogLevel != nil {
		c.LogLevel = parseLogLevel(*fc.LogLevel)
	}
	return nil
}

// Validate reports configuration combinations that cannot work.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY required for openai provider")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY required for anthropic provider")
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.LLMProvider)
	}

	switch c.EmbedProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY required for openai embeddings")
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.EmbedProvider)
	}

	if c.Summary != StrategyMapReduce && c.Summary != StrategyDirect {
		return fmt.Errorf("unsupported summary strategy: %s", c.Summary)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
