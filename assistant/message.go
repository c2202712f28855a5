package assistant

import (
	"fmt"
	"time"
)

// Role is the author of a message and the discriminant of the conversation state machine.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Valid reports whether r is one of the four roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// ToolCall is one tool-call request produced by the LLM.
type ToolCall struct {
	ID string `json:"id"`
	// Name is the qualified action name, "{tool}__{action}".
	Name string `json:"name"`
	// Arguments is the raw JSON argument payload as returned by the LLM.
	Arguments string `json:"arguments"`
}

// Message is one turn of a conversation. ID and CreatedAt are assigned by the thread.
type Message struct {
	ID         string     `json:"id,omitempty"`
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// HasToolCalls reports whether the message asks for tool execution.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Validate checks the per-role shape of a message: tool calls only on assistant messages,
// a tool call id only (and always) on tool messages, and an assistant message carrying
// either tool calls or content.
func (m Message) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidMessage, m.Role)
	}
	if m.HasToolCalls() && m.Role != RoleAssistant {
		return fmt.Errorf("%w: tool calls on a %s message", ErrInvalidMessage, m.Role)
	}
	switch m.Role {
	case RoleTool:
		if m.ToolCallID == "" {
			return fmt.Errorf("%w: tool message without tool call id", ErrInvalidMessage)
		}
	case RoleAssistant:
		if !m.HasToolCalls() && m.Content == "" {
			return fmt.Errorf("%w: assistant message without content or tool calls", ErrInvalidMessage)
		}
		fallthrough
	default:
		if m.ToolCallID != "" {
			return fmt.Errorf("%w: tool call id on a %s message", ErrInvalidMessage, m.Role)
		}
	}
	return nil
}

// Usage tracks token consumption reported by the LLM.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// TotalTokens returns the sum of prompt and completion tokens.
func (u Usage) TotalTokens() int {
	return u.PromptTokens + u.CompletionTokens
}

func (u *Usage) add(o Usage) {
	u.PromptTokens += o.PromptTokens
	u.CompletionTokens += o.CompletionTokens
}
