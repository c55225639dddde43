package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MimeLyc/research-agent/internal/llm"
	"github.com/MimeLyc/research-agent/pkg/log"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// LLM Configuration:
// - LLM_PROVIDER: openai-compatible, langchaingo or openai-sdk (default: openai-compatible)
// - LLM_API_KEY: API key for the LLM provider (required)
// - LLM_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - LLM_MODEL: Model name to use (default: gpt-4o-mini)
// - LLM_MAX_TOKENS: Maximum tokens for responses (default: 1024)
// - LLM_TEMPERATURE: Temperature for responses (default: 0.7)
// - LLM_TIMEOUT: Request timeout in seconds (default: 60)
//
// Relevance Scorer Configuration:
// - RELEVANCE_SCORER_URL: Endpoint of the relevance model (required)
// - RELEVANCE_TIMEOUT: Request timeout in seconds (default: 15)
//
// Agent Configuration:
// - AGENT_MAX_ITERATIONS: Model calls per run (default: 15)
// - AGENT_TIMEOUT: Wall clock limit per run in seconds (default: 120)
// - LANGUAGE_HINTS: Ask prompt tools to answer in the topic's language (default: true)
//
// Server Configuration:
// - HTTP_ADDR: Listen address (default: :8000)
// - CORS_ALLOWED_ORIGINS: Comma separated origins (default: *)
// - LOG_LEVEL: debug, info, warn or error (default: info)
// - CONFIG_FILE: Optional YAML file, see FileSettings
type Config struct {
	// LLM Configuration
	LLM LLMConfig `json:"llm"`

	// Relevance scorer configuration
	Relevance RelevanceConfig `json:"relevance"`

	// Agent Configuration
	Agent AgentConfig `json:"agent"`

	// HTTP server configuration
	HTTP HTTPConfig `json:"http"`

	LogLevel log.LogLevel `json:"log_level"`
}

// LLMConfig holds the configuration for the model provider
type LLMConfig struct {
	Provider    string  `json:"provider"`
	APIKey      string  `json:"-"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
}

// ClientConfig converts to the provider configuration used by llm.New.
func (c LLMConfig) ClientConfig() *llm.Config {
	return &llm.Config{
		Provider:    c.Provider,
		APIKey:      c.APIKey,
		APIURL:      c.APIURL,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}

// RelevanceConfig holds the configuration for the relevance scorer tool
type RelevanceConfig struct {
	ScorerURL string `json:"scorer_url"`
	Timeout   int    `json:"timeout"`
}

func (c RelevanceConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// AgentConfig holds the configuration for the agent
type AgentConfig struct {
	MaxIterations int  `json:"max_iterations"` // Max model calls per run
	Timeout       int  `json:"timeout"`        // Seconds per run
	LanguageHints bool `json:"language_hints"`
}

func (c AgentConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// HTTPConfig holds the configuration for the API server
type HTTPConfig struct {
	Addr               string   `json:"addr"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		LLM: LLMConfig{
			Provider:    getEnvString("LLM_PROVIDER", llm.ProviderOpenAICompatible),
			APIKey:      getEnvString("LLM_API_KEY", ""),
			APIURL:      getEnvString("LLM_API_URL", "https://api.openai.com/v1"),
			Model:       getEnvString("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1024),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
			Timeout:     getEnvInt("LLM_TIMEOUT", 60),
		},
		Relevance: RelevanceConfig{
			ScorerURL: getEnvString("RELEVANCE_SCORER_URL", ""),
			Timeout:   getEnvInt("RELEVANCE_TIMEOUT", 15),
		},
		Agent: AgentConfig{
			MaxIterations: getEnvInt("AGENT_MAX_ITERATIONS", 15),
			Timeout:       getEnvInt("AGENT_TIMEOUT", 120),
			LanguageHints: getEnvBool("LANGUAGE_HINTS", true),
		},
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8000"),
			CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel: log.ParseLevel(getEnvString("LOG_LEVEL", "info")),
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Info("Config: provider=%s model=%s scorer=%s max_iterations=%d addr=%s",
		config.LLM.Provider, config.LLM.Model, config.Relevance.ScorerURL, config.Agent.MaxIterations, config.HTTP.Addr)

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	switch c.LLM.Provider {
	case llm.ProviderOpenAICompatible, llm.ProviderLangChain, llm.ProviderOpenAISDK:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	if err := c.LLM.ClientConfig().Validate(); err != nil {
		return fmt.Errorf("invalid LLM configuration: %w", err)
	}
	if c.Relevance.ScorerURL == "" {
		return fmt.Errorf("RELEVANCE_SCORER_URL is required")
	}
	if c.Relevance.Timeout < 1 {
		return fmt.Errorf("RELEVANCE_TIMEOUT must be greater than 0")
	}
	if c.Agent.MaxIterations < 1 {
		return fmt.Errorf("AGENT_MAX_ITERATIONS must be greater than 0")
	}
	if c.Agent.Timeout < 1 {
		return fmt.Errorf("AGENT_TIMEOUT must be greater than 0")
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return splitList(value)
}

func splitList(value string) []string {
	var ret []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ret = append(ret, part)
		}
	}
	return ret
}

// envSet reports whether key is present in the environment with a value.
func envSet(key string) bool {
	value, ok := os.LookupEnv(key)
	return ok && value != ""
}
