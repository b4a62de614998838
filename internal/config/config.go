// Package config reads process configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreSurreal = "surreal"
	StoreMemory  = "memory"
)

// Narrative providers. An empty provider disables narration.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// Corpus store
	StoreBackend       string
	SeedFile           string
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Planner
	MinSteps         int
	AllowFewerSteps  bool
	StepFetchLimit   int
	CorpusTimeout    time.Duration
	NarrativeTimeout time.Duration

	// Narrative generation
	NarrativeProvider string
	NarrativeModel    string
	OllamaHost        string
	OpenAIAPIKey      string
	AnthropicAPIKey   string

	// Server / client
	ServerAddr    string
	ServerURL     string
	ClientTimeout time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		StoreBackend:       getEnv("SUDS_STORE", StoreSurreal),
		SeedFile:           getEnv("SUDS_SEED_FILE", ""),
		SurrealDBURL:       getEnv("SUDS_DB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SUDS_DB_NAMESPACE", "suds"),
		SurrealDBDatabase:  getEnv("SUDS_DB_DATABASE", "corpus"),
		SurrealDBUser:      getEnv("SUDS_DB_USER", "root"),
		SurrealDBPass:      getEnv("SUDS_DB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SUDS_DB_AUTH_LEVEL", "root"),

		MinSteps:         getEnvInt("SUDS_MIN_STEPS", 3),
		AllowFewerSteps:  getEnvBool("SUDS_ALLOW_FEWER_STEPS", true),
		StepFetchLimit:   getEnvInt("SUDS_STEP_FETCH_LIMIT", 20),
		CorpusTimeout:    getEnvDuration("SUDS_CORPUS_TIMEOUT", 10*time.Second),
		NarrativeTimeout: getEnvDuration("SUDS_NARRATIVE_TIMEOUT", 20*time.Second),

		NarrativeProvider: getEnv("SUDS_NARRATIVE_PROVIDER", ""),
		NarrativeModel:    getEnv("SUDS_NARRATIVE_MODEL", ""),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),

		ServerAddr:    getEnv("SUDS_SERVER_ADDR", ":8080"),
		ServerURL:     getEnv("SUDS_SERVER_URL", "http://localhost:8080"),
		ClientTimeout: getEnvDuration("SUDS_CLIENT_TIMEOUT", 30*time.Second),

		LogFile:  getEnv("SUDS_LOG_FILE", "/tmp/suds.log"),
		LogLevel: parseLogLevel(getEnv("SUDS_LOG_LEVEL", "INFO")),
	}
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

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
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
