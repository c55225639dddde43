package tools

import (
	"context"
)

// Result is the outcome of a tool execution.
// Content is always the observation text fed back to the model; for a
// failure it holds the tool's fixed sentinel string.
type Result struct {
	Content string `json:"content"`
	Failed  bool   `json:"failed,omitempty"`
	Cause   error  `json:"-"`
}

// Success wraps a successful observation.
func Success(content string) Result {
	return Result{Content: content}
}

// Failure wraps a tool-level failure. sentinel becomes the observation,
// cause is kept for logging only.
func Failure(sentinel string, cause error) Result {
	return Result{Content: sentinel, Failed: true, Cause: cause}
}

// Tool defines the interface for tools that can be called by the agent
type Tool interface {
	// Name returns the unique name of the tool
	Name() string

	// Description returns a one-line description shown to the model
	Description() string

	// Execute runs the tool with the raw action input. It never returns a Go
	// error: failures are reported through Result.Failed.
	Execute(ctx context.Context, input string) Result
}
