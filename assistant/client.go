package assistant

import (
	"context"

	"github.com/skosovsky/actionkit"
)

// Tool choice values understood by every Client. Any other value names one qualified action
// the LLM is forced to call.
const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
	ToolChoiceAny  = "any"
)

// Client is the LLM collaborator. Retries, streaming and authentication are its concern.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*Response, error)
}

// ChatRequest carries the whole thread and the compiled schemas of every registered tool.
// Clients render Tools in their provider's format.
type ChatRequest struct {
	Messages   []Message
	Tools      []*actionkit.ActionSchemas
	ToolChoice string
}

// HasTools reports whether at least one action is available to the LLM.
func (r ChatRequest) HasTools() bool {
	for _, s := range r.Tools {
		if s.Len() > 0 {
			return true
		}
	}
	return false
}

// Response is the LLM reply. A response is classified by ToolCalls: non-empty means the LLM
// wants tools to run, otherwise Content is the final answer.
type Response struct {
	Content   string
	ToolCalls []ToolCall
	Usage     Usage
}

// HasToolCalls reports whether the response requests tool execution.
func (r *Response) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req ChatRequest) (*Response, error)

func (f ClientFunc) Chat(ctx context.Context, req ChatRequest) (*Response, error) {
	return f(ctx, req)
}
