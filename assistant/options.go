package assistant

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/skosovsky/actionkit"
)

// Option configures an Assistant.
type Option func(*options)

type options struct {
	instructions  string
	toolChoice    string
	logger        zerolog.Logger
	maxIterations int
	middlewares   []actionkit.Middleware
	onMessage     func(Message)
	onBefore      func(context.Context, ToolCall)
	onAfter       func(context.Context, ToolResult, time.Duration)
}

// ToolResult is passed to the after-tool-call hook (WithOnAfterToolCall).
type ToolResult struct {
	Call   ToolCall
	Output string
	Err    error
}

// WithInstructions sets the system instructions, injected as the first thread message.
func WithInstructions(instructions string) Option {
	return func(o *options) {
		o.instructions = instructions
	}
}

// WithToolChoice sets how the LLM may use tools: ToolChoiceAuto (default), ToolChoiceNone,
// ToolChoiceAny, or the qualified name of one action.
func WithToolChoice(choice string) Option {
	return func(o *options) {
		o.toolChoice = choice
	}
}

// WithLogger sets the logger used for state transitions and tool calls.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxIterations bounds the number of LLM calls one Run may make.
// Pass 0 or negative for no bound.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithToolMiddleware wraps every registered tool with the given middlewares (first is outermost).
func WithToolMiddleware(middlewares ...actionkit.Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithOnMessage sets a callback invoked after every message appended by the Assistant.
func WithOnMessage(fn func(Message)) Option {
	return func(o *options) {
		o.onMessage = fn
	}
}

// WithOnBeforeToolCall sets a hook called before each tool call is executed.
func WithOnBeforeToolCall(fn func(context.Context, ToolCall)) Option {
	return func(o *options) {
		o.onBefore = fn
	}
}

// WithOnAfterToolCall sets a hook called after each tool call, successful or not.
func WithOnAfterToolCall(fn func(context.Context, ToolResult, time.Duration)) Option {
	return func(o *options) {
		o.onAfter = fn
	}
}
