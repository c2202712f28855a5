package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skosovsky/actionkit"
)

// Assistant drives one conversation: it owns a thread, a set of tools and an LLM client, and
// alternates between asking the LLM and running the tools it requests until the thread
// reaches a stable state. An Assistant is not safe for concurrent use.
type Assistant struct {
	client  Client
	thread  Thread
	tools   []actionkit.Tool
	schemas []*actionkit.ActionSchemas
	opts    options
	logger  zerolog.Logger
	usage   Usage
}

// New builds an Assistant. A nil thread gets a fresh MemoryThread. Tools must be non-nil,
// carry a canonical name and compiled schemas, and have pairwise distinct names.
// Instructions, if set, are appended as a system message when the thread is empty; a non-empty
// thread must already start with a system message.
func New(client Client, thread Thread, tools []actionkit.Tool, opts ...Option) (*Assistant, error) {
	o := options{
		toolChoice: ToolChoiceAuto,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if client == nil {
		return nil, &ConfigurationError{Field: "client", Reason: "must not be nil"}
	}
	if thread == nil {
		thread = NewMemoryThread()
	}

	a := &Assistant{
		client: client,
		thread: thread,
		opts:   o,
		logger: o.logger.With().Str("component", "assistant").Logger(),
	}
	seen := make(map[string]bool, len(tools))
	exposed := make(map[string]string)
	for i, t := range tools {
		if t == nil {
			return nil, &ConfigurationError{Field: fmt.Sprintf("tools[%d]", i), Reason: "must not be nil"}
		}
		name := t.Name()
		if name == "" {
			return nil, &ConfigurationError{Field: fmt.Sprintf("tools[%d]", i), Reason: "tool has no name"}
		}
		if t.Schemas() == nil {
			return nil, &ConfigurationError{Field: fmt.Sprintf("tools[%d]", i), Reason: fmt.Sprintf("tool %q has no schemas", name)}
		}
		if seen[name] {
			return nil, &ConfigurationError{Field: fmt.Sprintf("tools[%d]", i), Reason: fmt.Sprintf("duplicate tool name %q", name)}
		}
		seen[name] = true
		for _, action := range t.Schemas().Actions() {
			if owner, dup := exposed[action.QualifiedName]; dup {
				return nil, &ConfigurationError{
					Field:  fmt.Sprintf("tools[%d]", i),
					Reason: fmt.Sprintf("action %q of tool %q collides with tool %q", action.QualifiedName, name, owner),
				}
			}
			exposed[action.QualifiedName] = name
		}
		a.tools = append(a.tools, actionkit.Chain(t, o.middlewares...))
		a.schemas = append(a.schemas, t.Schemas())
	}
	if err := a.checkToolChoice(o.toolChoice); err != nil {
		return nil, err
	}
	if o.instructions != "" {
		if err := a.injectInstructions(o.instructions); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Assistant) checkToolChoice(choice string) error {
	switch choice {
	case ToolChoiceAuto, ToolChoiceNone, ToolChoiceAny:
		return nil
	}
	if _, _, ok := a.resolve(choice); !ok {
		return &ConfigurationError{Field: "tool choice", Reason: fmt.Sprintf("%q is neither auto, none, any nor a registered action", choice)}
	}
	return nil
}

func (a *Assistant) injectInstructions(instructions string) error {
	first := a.thread.Messages()
	if len(first) == 0 {
		a.append(Message{Role: RoleSystem, Content: instructions})
		return nil
	}
	if first[0].Role != RoleSystem {
		return &ConfigurationError{Field: "instructions", Reason: "thread already has messages and does not start with a system message"}
	}
	return nil
}

// Instructions returns the configured system instructions.
func (a *Assistant) Instructions() string { return a.opts.instructions }

// ToolChoice returns the configured tool choice.
func (a *Assistant) ToolChoice() string { return a.opts.toolChoice }

// Tools returns the registered tools (wrapped by any tool middleware).
func (a *Assistant) Tools() []actionkit.Tool { return a.tools }

// Messages returns the whole thread.
func (a *Assistant) Messages() []Message { return a.thread.Messages() }

// Usage returns the token usage accumulated over every LLM call of this Assistant.
func (a *Assistant) Usage() Usage { return a.usage }

// AddMessage validates msg and appends it to the thread.
func (a *Assistant) AddMessage(msg Message) (Message, error) {
	if err := msg.Validate(); err != nil {
		return Message{}, err
	}
	return a.append(msg), nil
}

// AddMessages appends several messages, stopping at the first invalid one.
func (a *Assistant) AddMessages(msgs ...Message) error {
	for _, m := range msgs {
		if _, err := a.AddMessage(m); err != nil {
			return err
		}
	}
	return nil
}

// AddMessageAndRun appends a user message and runs the conversation.
func (a *Assistant) AddMessageAndRun(ctx context.Context, content string, autoToolExecution bool) ([]Message, error) {
	if _, err := a.AddMessage(Message{Role: RoleUser, Content: content}); err != nil {
		return nil, err
	}
	return a.Run(ctx, autoToolExecution)
}

// SubmitToolOutput appends the output of a manually resolved tool call. It does not run the
// conversation; call Run afterwards.
func (a *Assistant) SubmitToolOutput(toolCallID string, output any) (Message, error) {
	content, err := stringify(output)
	if err != nil {
		return Message{}, fmt.Errorf("encode output of tool call %s: %w", toolCallID, err)
	}
	return a.AddMessage(Message{Role: RoleTool, Content: content, ToolCallID: toolCallID})
}

// Run advances the conversation until it halts, and returns the thread. The role of the last
// message decides each step:
//
//	system                      halt
//	user, tool                  ask the LLM, append its reply
//	assistant with tool calls   run the tools and ask the LLM again (autoToolExecution),
//	                            or halt so the caller can SubmitToolOutput
//	assistant with content      halt
//
// Errors from the client and from tools are returned as they occur; nothing is retried.
func (a *Assistant) Run(ctx context.Context, autoToolExecution bool) ([]Message, error) {
	calls := 0
	for {
		if err := ctx.Err(); err != nil {
			return a.thread.Messages(), err
		}
		last, ok := a.thread.Last()
		if !ok {
			a.logger.Warn().Msg("thread is empty, nothing to run")
			return a.thread.Messages(), nil
		}
		if !a.needsStep(last, autoToolExecution) {
			return a.thread.Messages(), nil
		}
		if a.opts.maxIterations > 0 && calls >= a.opts.maxIterations {
			return a.thread.Messages(), fmt.Errorf("%w (%d)", ErrMaxIterations, a.opts.maxIterations)
		}
		calls++

		var err error
		if last.Role == RoleAssistant {
			err = a.RunTools(ctx, last.ToolCalls)
		} else {
			_, err = a.chat(ctx)
		}
		if err != nil {
			return a.thread.Messages(), err
		}
	}
}

// needsStep reports whether the state machine continues from last.
func (a *Assistant) needsStep(last Message, autoToolExecution bool) bool {
	switch last.Role {
	case RoleUser, RoleTool:
		return true
	case RoleAssistant:
		if !last.HasToolCalls() {
			a.logger.Debug().Msg("final answer reached")
			return false
		}
		if !autoToolExecution {
			a.logger.Debug().Int("pending_calls", len(last.ToolCalls)).Msg("halting for manual tool outputs")
			return false
		}
		return true
	default:
		a.logger.Debug().Str("role", string(last.Role)).Msg("halting on system message")
		return false
	}
}

// chat sends the whole thread and every tool schema to the LLM and appends its reply.
func (a *Assistant) chat(ctx context.Context) (Message, error) {
	req := ChatRequest{
		Messages:   a.thread.Messages(),
		Tools:      a.schemas,
		ToolChoice: a.opts.toolChoice,
	}
	a.logger.Debug().Int("messages", len(req.Messages)).Int("tools", len(req.Tools)).Msg("chat request")
	resp, err := a.client.Chat(ctx, req)
	if err != nil {
		a.logger.Error().Err(err).Msg("chat failed")
		return Message{}, fmt.Errorf("chat: %w", err)
	}
	if resp == nil {
		return Message{}, ErrEmptyResponse
	}
	a.usage.add(resp.Usage)

	msg := Message{Role: RoleAssistant, Content: resp.Content}
	switch {
	case resp.HasToolCalls():
		msg.ToolCalls = resp.ToolCalls
		a.logger.Debug().Int("tool_calls", len(resp.ToolCalls)).Msg("llm requested tools")
	case resp.Content != "":
		a.logger.Debug().Int("content_len", len(resp.Content)).Msg("llm answered")
	default:
		return Message{}, ErrEmptyResponse
	}
	return a.append(msg), nil
}

// plannedCall is a tool call resolved to its tool and action, with parsed arguments.
type plannedCall struct {
	call   ToolCall
	tool   actionkit.Tool
	action *actionkit.Action
	args   map[string]any
}

// RunTools executes a batch of tool calls in order, appends one tool message per call, then asks
// the LLM once. Every call is resolved and its arguments parsed before any tool runs, so an
// unknown action or malformed payload leaves the thread untouched.
func (a *Assistant) RunTools(ctx context.Context, calls []ToolCall) error {
	if len(calls) == 0 {
		return nil
	}
	plan := make([]plannedCall, 0, len(calls))
	for _, c := range calls {
		tool, action, ok := a.resolve(c.Name)
		if !ok {
			a.logger.Warn().Str("call_id", c.ID).Str("name", c.Name).Msg("tool not found")
			return &ToolNotFoundError{CallID: c.ID, Name: c.Name}
		}
		args, err := parseArguments(c.Arguments)
		if err != nil {
			return &ArgumentsError{CallID: c.ID, Name: c.Name, Err: err}
		}
		plan = append(plan, plannedCall{call: c, tool: tool, action: action, args: args})
	}

	for _, p := range plan {
		output, err := a.execute(ctx, p)
		if err != nil {
			return fmt.Errorf("tool call %s (%s): %w", p.call.ID, p.call.Name, err)
		}
		a.append(Message{Role: RoleTool, Content: output, ToolCallID: p.call.ID})
	}
	_, err := a.chat(ctx)
	return err
}

func (a *Assistant) execute(ctx context.Context, p plannedCall) (output string, err error) {
	if a.opts.onBefore != nil {
		a.opts.onBefore(ctx, p.call)
	}
	start := time.Now()
	defer func() {
		if a.opts.onAfter != nil {
			a.opts.onAfter(ctx, ToolResult{Call: p.call, Output: output, Err: err}, time.Since(start))
		}
	}()

	a.logger.Info().Str("call_id", p.call.ID).Str("name", p.call.Name).Msg("tool call")
	res, err := p.tool.Execute(ctx, p.action.Name, p.args)
	if err != nil {
		a.logger.Warn().Err(err).Str("call_id", p.call.ID).Str("name", p.call.Name).Msg("tool error")
		return "", err
	}
	return stringify(res)
}

// resolve finds the tool and action behind a qualified name.
func (a *Assistant) resolve(name string) (actionkit.Tool, *actionkit.Action, bool) {
	for _, t := range a.tools {
		if action, ok := t.Schemas().Lookup(name); ok {
			return t, action, true
		}
	}
	return nil, nil, false
}

func (a *Assistant) append(msg Message) Message {
	stored := a.thread.Append(msg)
	if a.opts.onMessage != nil {
		a.opts.onMessage(stored)
	}
	return stored
}

// parseArguments decodes a tool-call payload. An empty payload means no arguments.
func parseArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// stringify turns a tool result into message content: strings and byte slices verbatim,
// anything else as JSON.
func stringify(v any) (string, error) {
	switch r := v.(type) {
	case string:
		return r, nil
	case []byte:
		return string(r), nil
	case fmt.Stringer:
		return r.String(), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
