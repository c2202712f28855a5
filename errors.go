package actionkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for schema declarations. SchemaError wraps exactly one of them; use errors.Is to check.
var (
	ErrMissingName        = errors.New("missing name")
	ErrInvalidName        = errors.New("invalid name type")
	ErrInvalidType        = errors.New("invalid type")
	ErrInvalidEnum        = errors.New("invalid enum")
	ErrInvalidRequired    = errors.New("invalid required flag")
	ErrEmptyObject        = errors.New("empty object")
	ErrEmptyArrayItems    = errors.New("empty array items")
	ErrNoParameters       = errors.New("action has no parameters")
	ErrMissingDescription = errors.New("missing description")
)

// Sentinel errors for rendering and execution.
var (
	ErrUnknownFormat = errors.New("unknown provider format")
	ErrUnknownAction = errors.New("unknown action")
	ErrValidation    = errors.New("validation failed")
)

// SchemaError is returned when an action or property declaration is malformed.
// It is raised at declaration time, never while a conversation is running.
// Path locates the offending property ("address.street", "tags[]"); it is empty for action-level errors.
type SchemaError struct {
	Action string
	Path   string
	Err    error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Action != "" && e.Path != "":
		return fmt.Sprintf("schema error in action %q at %q: %s", e.Action, e.Path, e.Err)
	case e.Action != "":
		return fmt.Sprintf("schema error in action %q: %s", e.Action, e.Err)
	case e.Path != "":
		return fmt.Sprintf("schema error at %q: %s", e.Path, e.Err)
	default:
		return fmt.Sprintf("schema error: %s", e.Err)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSchemaError reports whether err carries a *SchemaError.
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

// ClientError means the LLM asked for something invalid: arguments off-schema, a value the
// handler refuses. Its text is meant to go back to the LLM so it can correct the call, so keep
// it free of internals. Err may carry a sentinel such as ErrValidation.
type ClientError struct {
	Reason string
	Err    error
}

func (e *ClientError) Error() string {
	return "invalid action input: " + e.Reason
}

func (e *ClientError) Unwrap() error { return e.Err }

// SystemError hides a handler failure (backend down, panic) behind a fixed message.
// The cause stays reachable through errors.Is/As for the caller's logs.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal system error during action execution"
}

func (e *SystemError) Unwrap() error { return e.Err }

// IsClientError reports whether err carries a *ClientError.
func IsClientError(err error) bool {
	var target *ClientError
	return errors.As(err, &target)
}

// IsSystemError reports whether err carries a *SystemError.
func IsSystemError(err error) bool {
	var target *SystemError
	return errors.As(err, &target)
}

func wrapJSONParseError(err error) error {
	return &ClientError{Reason: fmt.Sprintf("arguments do not decode: %v", err), Err: ErrValidation}
}

// wrapHandlerError keeps a ClientError as is and hides anything else behind SystemError.
func wrapHandlerError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsClientError(err):
		return err
	default:
		return &SystemError{Err: err}
	}
}

// panicError carries a recovered panic value.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
