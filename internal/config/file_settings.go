package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MimeLyc/research-agent/pkg/log"
)

// FileSettings is the optional YAML configuration file.
// Secrets are never read from it; LLM_API_KEY must come from the environment.
//
//	llm:
//	  provider: langchaingo
//	  model: gpt-4o-mini
//	relevance:
//	  scorer_url: http://scorer:8080/score
//	agent:
//	  max_iterations: 10
//	http:
//	  cors_allowed_origins: [https://app.example.com]
//	log_level: debug
type FileSettings struct {
	LLM struct {
		Provider    string   `yaml:"provider"`
		APIURL      string   `yaml:"api_url"`
		Model       string   `yaml:"model"`
		MaxTokens   int      `yaml:"max_tokens"`
		Temperature *float64 `yaml:"temperature"`
		Timeout     int      `yaml:"timeout"`
	} `yaml:"llm"`

	Relevance struct {
		ScorerURL string `yaml:"scorer_url"`
		Timeout   int    `yaml:"timeout"`
	} `yaml:"relevance"`

	Agent struct {
		MaxIterations int   `yaml:"max_iterations"`
		Timeout       int   `yaml:"timeout"`
		LanguageHints *bool `yaml:"language_hints"`
	} `yaml:"agent"`

	HTTP struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"http"`

	LogLevel string `yaml:"log_level"`
}

// FileSettingsPath returns CONFIG_FILE, or "" when no file is configured.
func FileSettingsPath() string {
	return strings.TrimSpace(os.Getenv("CONFIG_FILE"))
}

// LoadFileSettings reads and decodes a YAML settings file. Unknown keys are
// rejected. An empty file yields zero settings.
func LoadFileSettings(path string) (FileSettings, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileSettings{}, err
	}
	defer f.Close()

	var settings FileSettings
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return FileSettings{}, fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return settings, nil
}

// WithFileSettings applies file values for every variable not set in the
// environment. Precedence is environment, then file, then defaults.
func WithFileSettings(s FileSettings) Option {
	return func(c *Config) {
		setString(&c.LLM.Provider, "LLM_PROVIDER", s.LLM.Provider)
		setString(&c.LLM.APIURL, "LLM_API_URL", s.LLM.APIURL)
		setString(&c.LLM.Model, "LLM_MODEL", s.LLM.Model)
		setInt(&c.LLM.MaxTokens, "LLM_MAX_TOKENS", s.LLM.MaxTokens)
		if s.LLM.Temperature != nil && !envSet("LLM_TEMPERATURE") {
			c.LLM.Temperature = *s.LLM.Temperature
		}
		setInt(&c.LLM.Timeout, "LLM_TIMEOUT", s.LLM.Timeout)

		setString(&c.Relevance.ScorerURL, "RELEVANCE_SCORER_URL", s.Relevance.ScorerURL)
		setInt(&c.Relevance.Timeout, "RELEVANCE_TIMEOUT", s.Relevance.Timeout)

		setInt(&c.Agent.MaxIterations, "AGENT_MAX_ITERATIONS", s.Agent.MaxIterations)
		setInt(&c.Agent.Timeout, "AGENT_TIMEOUT", s.Agent.Timeout)
		if s.Agent.LanguageHints != nil && !envSet("LANGUAGE_HINTS") {
			c.Agent.LanguageHints = *s.Agent.LanguageHints
		}

		setString(&c.HTTP.Addr, "HTTP_ADDR", s.HTTP.Addr)
		if len(s.HTTP.CORSAllowedOrigins) > 0 && !envSet("CORS_ALLOWED_ORIGINS") {
			c.HTTP.CORSAllowedOrigins = s.HTTP.CORSAllowedOrigins
		}

		if strings.TrimSpace(s.LogLevel) != "" && !envSet("LOG_LEVEL") {
			c.LogLevel = log.ParseLevel(s.LogLevel)
		}
	}
}

func setString(dst *string, envKey, value string) {
	if strings.TrimSpace(value) != "" && !envSet(envKey) {
		*dst = value
	}
}

func setInt(dst *int, envKey string, value int) {
	if value != 0 && !envSet(envKey) {
		*dst = value
	}
}
