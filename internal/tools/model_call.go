package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/MimeLyc/research-agent/internal/llm"
	"github.com/MimeLyc/research-agent/pkg/log"
)

const ModelCallToolName = "call_openai"

// SentinelModelFailed is the observation returned when the direct model call fails.
const SentinelModelFailed = "Error 400: the language model could not generate a response"

// ModelCallTool sends its input straight to the language model, without
// any tool chaining.
type ModelCallTool struct {
	completer llm.Completer
}

func NewModelCallTool(completer llm.Completer) *ModelCallTool {
	return &ModelCallTool{completer: completer}
}

func (t *ModelCallTool) Name() string {
	return ModelCallToolName
}

func (t *ModelCallTool) Description() string {
	return "This tool is used to invoke the Large Language Model to generate a response for a given query. " +
		"When no other tool is useful for a task, use this tool to solve the query. " +
		"Generally it is used as the last step of the complete execution."
}

func (t *ModelCallTool) Execute(ctx context.Context, input string) Result {
	logger := log.GetLogger().With("tool", t.Name())

	prompt := strings.TrimSpace(input)
	if prompt == "" {
		logger.Warn("empty prompt")
		return Failure(SentinelModelFailed, fmt.Errorf("empty prompt"))
	}

	out, err := t.completer.Complete(ctx, prompt, llm.CompletionOptions{})
	if err != nil {
		logger.Error("model call failed: %v", err)
		return Failure(SentinelModelFailed, err)
	}

	logger.Debug("generated %d bytes", len(out))
	return Success(out)
}
