package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/actionkit"
	"github.com/skosovsky/actionkit/assistant"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMockTool(t *testing.T) {
	m := NewMockTool("test_tool", func(_ context.Context, action string, _ map[string]any) (any, error) {
		return map[string]any{"done": action}, nil
	})
	require.NoError(t, m.Schemas().AddAction("ping", "Ping", nil))

	assert.Equal(t, "test_tool", m.Name())
	assert.Equal(t, 1, m.Schemas().Len())
	out, err := m.Execute(context.Background(), "ping", map[string]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"done": "ping"}, out)
	assert.Equal(t, []MockCall{{Action: "ping", Args: map[string]any{"x": 1}}}, m.Calls())
}

func TestMockTool_Defaults(t *testing.T) {
	m := &MockTool{}
	assert.Equal(t, "mock", m.Name())
	require.NotNil(t, m.Schemas())
	assert.Equal(t, "mock", m.Schemas().ToolName())
	out, err := m.Execute(context.Background(), "any", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestScriptedClient(t *testing.T) {
	boom := errors.New("boom")
	c := NewScriptedClient(
		CallTools(assistant.ToolCall{ID: "1", Name: "t__a", Arguments: "{}"}),
		Reply("done"),
		Fail(boom),
	)
	ctx := context.Background()

	r, err := c.Chat(ctx, assistant.ChatRequest{})
	require.NoError(t, err)
	assert.True(t, r.HasToolCalls())

	r, err = c.Chat(ctx, assistant.ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "done", r.Content)

	_, err = c.Chat(ctx, assistant.ChatRequest{})
	require.ErrorIs(t, err, boom)

	_, err = c.Chat(ctx, assistant.ChatRequest{})
	require.ErrorIs(t, err, ErrScriptExhausted)
	assert.Len(t, c.Requests(), 4)
	assert.Equal(t, 0, c.Remaining())
}

func TestNewTestAssistant(t *testing.T) {
	m := NewMockTool("m", func(context.Context, string, map[string]any) (any, error) {
		panic("boom")
	})
	require.NoError(t, m.Schemas().AddAction("go", "Go", nil))
	client := NewScriptedClient(CallTools(assistant.ToolCall{ID: "1", Name: "m__go"}))

	a, err := NewTestAssistant(client, []actionkit.Tool{m})
	require.NoError(t, err)
	_, err = a.AddMessageAndRun(context.Background(), "go", true)
	require.Error(t, err)
	assert.True(t, actionkit.IsSystemError(err), "panic should be recovered as SystemError, got %v", err)
}
