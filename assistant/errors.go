package assistant

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conversation loop. Use errors.Is to check.
var (
	ErrToolNotFound   = errors.New("tool not found")
	ErrInvalidMessage = errors.New("invalid message")
	ErrEmptyResponse  = errors.New("llm response has neither tool calls nor content")
	ErrMaxIterations  = errors.New("maximum llm calls per run exceeded")
)

// ConfigurationError reports invalid arguments to New. It is returned synchronously and
// no Assistant is built.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid assistant configuration: %s: %s", e.Field, e.Reason)
}

// ToolNotFoundError reports a tool call whose name matches no registered action.
// It unwraps to ErrToolNotFound.
type ToolNotFoundError struct {
	CallID string
	Name   string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %q (call %s)", e.Name, e.CallID)
}

func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// ArgumentsError reports a tool call whose argument payload is not a JSON object.
type ArgumentsError struct {
	CallID string
	Name   string
	Err    error
}

func (e *ArgumentsError) Error() string {
	return fmt.Sprintf("malformed arguments for %q (call %s): %v", e.Name, e.CallID, e.Err)
}

func (e *ArgumentsError) Unwrap() error { return e.Err }

// IsConfigurationError returns true if err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
