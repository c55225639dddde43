package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAICompleter uses the official OpenAI Go SDK.
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewOpenAICompleter builds an SDK client from cfg. SDK retries are disabled
// so that every call is a single attempt.
func NewOpenAICompleter(cfg *Config) (*OpenAICompleter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.APIURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.TimeoutDuration()}),
		option.WithMaxRetries(0),
	)

	return &OpenAICompleter{
		client:      &client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	reqOpts := []option.RequestOption{
		option.WithJSONSet("temperature", c.temperature),
	}
	if c.maxTokens > 0 {
		reqOpts = append(reqOpts, option.WithJSONSet("max_tokens", c.maxTokens))
	}
	if len(opts.Stop) > 0 {
		reqOpts = append(reqOpts, option.WithJSONSet("stop", opts.Stop))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
