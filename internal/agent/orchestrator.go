package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MimeLyc/research-agent/internal/llm"
	"github.com/MimeLyc/research-agent/internal/tools"
	"github.com/MimeLyc/research-agent/pkg/log"
)

// SentinelToolPanicked is the observation recorded when a tool panics.
const SentinelToolPanicked = "Error 500: the tool failed unexpectedly"

// IterationLimitAnswer is the output of a run that hit its iteration cap.
const IterationLimitAnswer = "Agent stopped due to iteration limit or time limit."

// Orchestrator manages the ReAct loop for a single run
type Orchestrator struct {
	completer     llm.Completer
	registry      *tools.Registry
	renderer      *PromptRenderer
	maxIterations int
	failOnLimit   bool
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(completer llm.Completer, registry *tools.Registry, renderer *PromptRenderer, maxIterations int) *Orchestrator {
	return &Orchestrator{
		completer:     completer,
		registry:      registry,
		renderer:      renderer,
		maxIterations: maxIterations,
	}
}

// Run executes the agent loop until the model gives a final answer, the
// iteration cap is hit or an unrecoverable error occurs.
func (o *Orchestrator) Run(ctx context.Context, req AgentRequest) (*AgentResult, error) {
	result := &AgentResult{
		RunID: uuid.NewString(),
		Input: req.Query,
		Steps: make([]Step, 0),
	}
	logger := log.GetLogger().With("run_id", result.RunID)
	logger.Info("Agent run started: max_iterations=%d", o.maxIterations)

	toolset := o.registry.List()
	state := StateThinking

	for result.Iterations < o.maxIterations {
		if err := ctx.Err(); err != nil {
			return nil, canceled(err, result.Iterations)
		}

		result.Iterations++
		logger.Debug("Iteration %d: state=%s", result.Iterations, state)

		prompt, err := o.renderer.Render(toolset, req.Query, result.Steps)
		if err != nil {
			return nil, err
		}

		output, err := o.completer.Complete(ctx, prompt, llm.CompletionOptions{Stop: []string{StopSequence}})
		if err != nil {
			if ctx.Err() != nil {
				return nil, canceled(ctx.Err(), result.Iterations)
			}
			logger.Error("Model call failed at iteration %d: %v", result.Iterations, err)
			return nil, NewErrorWithCause(ErrModel, "language model call failed", err).
				WithContext("iteration", result.Iterations)
		}

		action, err := ParseAction(output)
		if err != nil {
			logger.Warn("Unparseable model output at iteration %d", result.Iterations)
			return nil, err
		}

		switch a := action.(type) {
		case Final:
			state = StateDone
			result.Output = a.Answer
			logger.Info("Agent run finished: state=%s iterations=%d steps=%d", state, result.Iterations, len(result.Steps))
			return result, nil

		case Invoke:
			state = StateActing
			tool, ok := o.registry.Get(a.Tool)
			if !ok {
				logger.Warn("Model requested unknown tool %q", a.Tool)
				return nil, NewError(ErrUnknownTool, fmt.Sprintf("tool %q is not registered", a.Tool)).
					WithContext("available", o.registry.Names())
			}

			observation := o.executeTool(ctx, tool, a.Input)
			if observation.Failed {
				logger.Warn("Tool %s failed: %v", a.Tool, observation.Cause)
			} else {
				logger.Info("Tool %s executed", a.Tool)
			}
			result.Steps = append(result.Steps, Step{Action: a, Observation: observation})
			state = StateThinking
		}
	}

	logger.Warn("Agent run stopped: iteration limit %d reached", o.maxIterations)
	if o.failOnLimit {
		return nil, NewError(ErrIterationLimit, "agent stopped due to iteration limit").
			WithContext("max_iterations", o.maxIterations)
	}
	result.Output = IterationLimitAnswer
	return result, nil
}

// executeTool runs tool and turns a panic into a failed observation.
func (o *Orchestrator) executeTool(ctx context.Context, tool tools.Tool, input string) (result tools.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = tools.Failure(SentinelToolPanicked, fmt.Errorf("tool %s panicked: %v", tool.Name(), r))
		}
	}()
	return tool.Execute(ctx, input)
}

func canceled(err error, iteration int) error {
	msg := "agent run canceled"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "agent run timed out"
	}
	return NewErrorWithCause(ErrCanceled, msg, err).WithContext("iteration", iteration)
}
