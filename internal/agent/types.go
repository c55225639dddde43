package agent

import (
	"github.com/MimeLyc/research-agent/internal/tools"
)

// AgentRequest represents a request to the agent
type AgentRequest struct {
	// Query is the user's natural-language request
	Query string

	// MaxIterations overrides the agent's iteration cap when positive
	MaxIterations int
}

// AgentResult represents the result from an agent execution
type AgentResult struct {
	// RunID identifies the run in log lines
	RunID string

	// Input echoes the query
	Input string

	// Output is the final answer
	Output string

	// Steps is the transcript of tool invocations and observations
	Steps []Step

	// Iterations is the number of model calls made
	Iterations int
}

// State is a phase of the agent loop.
type State int

const (
	StateThinking State = iota
	StateActing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateThinking:
		return "thinking"
	case StateActing:
		return "acting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Action is what the model decided to do next: Invoke or Final.
type Action interface {
	// RawLog is the model text the action was parsed from.
	RawLog() string
	isAction()
}

// Invoke asks for a tool to be run with Input.
type Invoke struct {
	Tool  string
	Input string
	Log   string
}

func (a Invoke) RawLog() string { return a.Log }
func (Invoke) isAction()        {}

// Final ends the loop with Answer.
type Final struct {
	Answer string
	Log    string
}

func (a Final) RawLog() string { return a.Log }
func (Final) isAction()        {}

// Step is one (Action, Observation) pair of the transcript.
type Step struct {
	Action      Invoke
	Observation tools.Result
}
