package agent

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ErrorType int

const (
	ErrParse ErrorType = iota
	ErrUnknownTool
	ErrModel
	ErrIterationLimit
	ErrCanceled
)

func (t ErrorType) String() string {
	switch t {
	case ErrParse:
		return "parse"
	case ErrUnknownTool:
		return "unknown_tool"
	case ErrModel:
		return "model"
	case ErrIterationLimit:
		return "iteration_limit"
	case ErrCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is an unrecoverable agent failure.
type Error struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *Error {
	e := NewError(errorType, message)
	e.Cause = cause
	return e
}

func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type, e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ctxParts := make([]string, 0, len(keys))
		for _, k := range keys {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// TypeOf reports the ErrorType of the first *Error in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var agentErr *Error
	if errors.As(err, &agentErr) {
		return agentErr.Type, true
	}
	return 0, false
}
