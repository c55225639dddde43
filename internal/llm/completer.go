package llm

import (
	"context"
	"fmt"
)

// Completer turns a single prompt into a single completion.
// The agent loop and the direct model tool depend only on this.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// CompletionOptions are per-call settings on top of the provider config.
type CompletionOptions struct {
	// Stop sequences end generation before they are emitted.
	Stop []string
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return f(ctx, prompt, opts)
}

// New builds the Completer selected by cfg.Provider.
// An empty provider selects the built-in OpenAI-compatible client.
func New(cfg *Config) (Completer, error) {
	switch cfg.Provider {
	case "", ProviderOpenAICompatible:
		return NewClient(cfg)
	case ProviderLangChain:
		return NewLangChainCompleter(cfg)
	case ProviderOpenAISDK:
		return NewOpenAICompleter(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
