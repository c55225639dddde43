package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChainCompleter wraps an llms.Model from langchaingo.
type LangChainCompleter struct {
	model       llms.Model
	maxTokens   int
	temperature float64
}

// NewLangChainCompleter builds a langchaingo OpenAI model from cfg.
func NewLangChainCompleter(cfg *Config) (*LangChainCompleter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	model, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.APIURL),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.TimeoutDuration()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchaingo model: %w", err)
	}

	return NewLangChainCompleterFromModel(model, cfg.MaxTokens, cfg.Temperature), nil
}

// NewLangChainCompleterFromModel wraps an existing llms.Model.
func NewLangChainCompleterFromModel(model llms.Model, maxTokens int, temperature float64) *LangChainCompleter {
	return &LangChainCompleter{
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Unwrap returns the underlying llms.Model.
func (c *LangChainCompleter) Unwrap() llms.Model {
	return c.model
}

// Complete implements Completer.
func (c *LangChainCompleter) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	callOpts := []llms.CallOption{
		llms.WithTemperature(c.temperature),
	}
	if c.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(c.maxTokens))
	}
	if len(opts.Stop) > 0 {
		callOpts = append(callOpts, llms.WithStopWords(opts.Stop))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, callOpts...)
	if err != nil {
		return "", fmt.Errorf("langchaingo completion failed: %w", err)
	}
	return out, nil
}
