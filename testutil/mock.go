// Package testutil provides test helpers for actionkit and assistant: a configurable MockTool,
// a ScriptedClient that replays canned LLM responses, and NewTestAssistant.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/skosovsky/actionkit"
	"github.com/skosovsky/actionkit/assistant"
)

// MockCall records one Execute call on a MockTool.
type MockCall struct {
	Action string
	Args   map[string]any
}

// MockTool is a configurable Tool implementation for tests. Declare its actions on Schemas().
type MockTool struct {
	NameVal    string
	SchemasVal *actionkit.ActionSchemas
	ExecuteFn  func(ctx context.Context, action string, args map[string]any) (any, error)

	mu    sync.Mutex
	calls []MockCall
}

// NewMockTool returns a MockTool named name whose actions all answer with fn.
func NewMockTool(name string, fn func(ctx context.Context, action string, args map[string]any) (any, error)) *MockTool {
	return &MockTool{NameVal: name, SchemasVal: actionkit.NewActionSchemas(name), ExecuteFn: fn}
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Schemas returns the configured registry, creating an empty one on first use.
func (m *MockTool) Schemas() *actionkit.ActionSchemas {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SchemasVal == nil {
		m.SchemasVal = actionkit.NewActionSchemas(m.Name())
	}
	return m.SchemasVal
}

// Execute records the call and runs ExecuteFn if set, otherwise returns nil.
func (m *MockTool) Execute(ctx context.Context, action string, args map[string]any) (any, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Action: action, Args: args})
	m.mu.Unlock()
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, action, args)
	}
	return nil, nil
}

// Calls returns the recorded Execute calls in order.
func (m *MockTool) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// Ensure MockTool implements Tool.
var _ actionkit.Tool = (*MockTool)(nil)

// ErrScriptExhausted is returned by ScriptedClient when it has no response left.
var ErrScriptExhausted = errors.New("scripted client: no responses left")

// Step is one scripted reply: a response or an error.
type Step struct {
	Response *assistant.Response
	Err      error
}

// ScriptedClient is an assistant.Client that replays Steps in order and records every request.
type ScriptedClient struct {
	mu       sync.Mutex
	steps    []Step
	requests []assistant.ChatRequest
}

// NewScriptedClient returns a client answering with the given steps.
func NewScriptedClient(steps ...Step) *ScriptedClient {
	return &ScriptedClient{steps: steps}
}

// Reply is a Step with final text.
func Reply(content string) Step {
	return Step{Response: &assistant.Response{Content: content}}
}

// CallTools is a Step requesting tool calls.
func CallTools(calls ...assistant.ToolCall) Step {
	return Step{Response: &assistant.Response{ToolCalls: calls}}
}

// Fail is a Step failing with err.
func Fail(err error) Step {
	return Step{Err: err}
}

// Chat implements assistant.Client.
func (c *ScriptedClient) Chat(ctx context.Context, req assistant.ChatRequest) (*assistant.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if len(c.steps) == 0 {
		return nil, ErrScriptExhausted
	}
	step := c.steps[0]
	c.steps = c.steps[1:]
	return step.Response, step.Err
}

// Requests returns every request received so far.
func (c *ScriptedClient) Requests() []assistant.ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]assistant.ChatRequest(nil), c.requests...)
}

// Remaining returns the number of unused steps.
func (c *ScriptedClient) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.steps)
}

var _ assistant.Client = (*ScriptedClient)(nil)
