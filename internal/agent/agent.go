package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/MimeLyc/research-agent/internal/llm"
	"github.com/MimeLyc/research-agent/internal/tools"
)

// DefaultMaxIterations caps a run when no limit is configured.
const DefaultMaxIterations = 15

// Agent defines the interface for an agent that can execute tasks
type Agent interface {
	// Execute runs the agent with the given request
	Execute(ctx context.Context, req AgentRequest) (*AgentResult, error)

	// Close releases any resources held by the agent
	Close() error
}

// Option configures an LLMAgent.
type Option func(*LLMAgent)

// WithTimeout bounds every run. Zero leaves the caller's context as is.
func WithTimeout(d time.Duration) Option {
	return func(a *LLMAgent) {
		a.timeout = d
	}
}

// WithIterationLimitError makes a run that hits its iteration cap fail with
// ErrIterationLimit instead of answering IterationLimitAnswer.
func WithIterationLimitError() Option {
	return func(a *LLMAgent) {
		a.failOnLimit = true
	}
}

// LLMAgent implements the Agent interface with a ReAct loop over a Completer
type LLMAgent struct {
	completer     llm.Completer
	registry      *tools.Registry
	renderer      *PromptRenderer
	maxIterations int
	timeout       time.Duration
	failOnLimit   bool
}

// NewLLMAgent creates a new LLM-based agent
func NewLLMAgent(completer llm.Completer, registry *tools.Registry, maxIterations int, opts ...Option) (*LLMAgent, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	renderer, err := NewPromptRenderer()
	if err != nil {
		return nil, err
	}

	a := &LLMAgent{
		completer:     completer,
		registry:      registry,
		renderer:      renderer,
		maxIterations: maxIterations,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Execute runs the agent with the given request
func (a *LLMAgent) Execute(ctx context.Context, req AgentRequest) (*AgentResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	orchestrator := NewOrchestrator(a.completer, a.registry, a.renderer, a.getMaxIterations(req))
	orchestrator.failOnLimit = a.failOnLimit
	return orchestrator.Run(ctx, req)
}

// Close releases any resources held by the agent
func (a *LLMAgent) Close() error {
	// No resources to release currently
	return nil
}

func (a *LLMAgent) getMaxIterations(req AgentRequest) int {
	if req.MaxIterations > 0 {
		return req.MaxIterations
	}
	return a.maxIterations
}
