// Package config loads the command-line agent's settings from the
// environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/spetersoncode/thinkact"
)

// Environment variable names.
const (
	EnvProvider       = "THINKACT_PROVIDER"
	EnvModel          = "THINKACT_MODEL"
	EnvBaseURL        = "THINKACT_BASE_URL"
	EnvMaxSteps       = "THINKACT_MAX_STEPS"
	EnvTimeout        = "THINKACT_TIMEOUT"
	EnvSystemPrompt   = "THINKACT_SYSTEM_PROMPT"
	EnvNextStepPrompt = "THINKACT_NEXT_STEP_PROMPT"
	EnvLogLevel       = "THINKACT_LOG_LEVEL"
	EnvLogFile        = "THINKACT_LOG_FILE"
	EnvWorkdir        = "THINKACT_WORKDIR"
	EnvTranscriptDB   = "THINKACT_TRANSCRIPT_DB"
	EnvRedisAddr      = "THINKACT_REDIS_ADDR"
	EnvMCPCommand     = "THINKACT_MCP_COMMAND"
	EnvParallelTools  = "THINKACT_PARALLEL_TOOLS"

	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvGoogleKey    = "GOOGLE_API_KEY"
)

// DefaultMaxSteps bounds a run when THINKACT_MAX_STEPS is unset.
const DefaultMaxSteps = 10

// Config holds the agent configuration.
type Config struct {
	// Provider selection
	Provider string
	Model    string
	BaseURL  string

	// API keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// Agent
	MaxSteps       int
	Timeout        time.Duration
	SystemPrompt   string
	NextStepPrompt string
	ParallelTools  bool

	// Tools
	Workdir    string
	MCPCommand string

	// Transcript storage; at most one is used, SQLite first.
	TranscriptDB string
	RedisAddr    string

	// Logging
	LogLevel string // debug, info, warn, error
	LogFile  string
}

// Load reads a .env file if one is present and builds a Config from the
// environment. It does not validate; call Validate once flags are applied.
func Load(files ...string) *Config {
	_ = godotenv.Load(files...)

	return &Config{
		Provider:       strings.ToLower(os.Getenv(EnvProvider)),
		Model:          os.Getenv(EnvModel),
		BaseURL:        os.Getenv(EnvBaseURL),
		AnthropicKey:   os.Getenv(EnvAnthropicKey),
		OpenAIKey:      os.Getenv(EnvOpenAIKey),
		GoogleKey:      os.Getenv(EnvGoogleKey),
		MaxSteps:       getEnvIntOrDefault(EnvMaxSteps, DefaultMaxSteps),
		Timeout:        getEnvDurationOrDefault(EnvTimeout, 10*time.Minute),
		SystemPrompt:   os.Getenv(EnvSystemPrompt),
		NextStepPrompt: os.Getenv(EnvNextStepPrompt),
		ParallelTools:  getEnvBoolOrDefault(EnvParallelTools, false),
		Workdir:        getEnvOrDefault(EnvWorkdir, "."),
		MCPCommand:     os.Getenv(EnvMCPCommand),
		TranscriptDB:   os.Getenv(EnvTranscriptDB),
		RedisAddr:      os.Getenv(EnvRedisAddr),
		LogLevel:       getEnvOrDefault(EnvLogLevel, "info"),
		LogFile:        os.Getenv(EnvLogFile),
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("%s is required (anthropic, openai, or google)", EnvProvider)
	}

	switch ai.Provider(c.Provider) {
	case ai.ProviderAnthropic:
		if c.AnthropicKey == "" {
			return fmt.Errorf("%s is required for anthropic provider", EnvAnthropicKey)
		}
	case ai.ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("%s is required for openai provider", EnvOpenAIKey)
		}
	case ai.ProviderGoogle:
		if c.GoogleKey == "" {
			return fmt.Errorf("%s is required for google provider", EnvGoogleKey)
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic, openai, or google)", c.Provider)
	}

	if c.MaxSteps < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvMaxSteps, c.MaxSteps)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s must be debug, info, warn or error, got %q", EnvLogLevel, c.LogLevel)
	}
	return nil
}

// MCPArgs splits MCPCommand into the executable and its arguments.
func (c *Config) MCPArgs() (string, []string) {
	fields := strings.Fields(c.MCPCommand)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
