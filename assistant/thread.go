package assistant

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Thread is the ordered, append-only message log of one conversation.
type Thread interface {
	// Append stores msg at the end of the thread and returns it as stored.
	Append(msg Message) Message
	// Messages returns all messages in order.
	Messages() []Message
	// Last returns the most recent message, or false for an empty thread.
	Last() (Message, bool)
}

// MemoryThread is an in-memory Thread. It assigns a UUID and a timestamp to every
// message that does not carry one. Safe for concurrent use.
type MemoryThread struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

// NewMemoryThread returns a thread seeded with msgs.
func NewMemoryThread(msgs ...Message) *MemoryThread {
	t := &MemoryThread{now: time.Now}
	for _, m := range msgs {
		t.Append(m)
	}
	return t
}

func (t *MemoryThread) Append(msg Message) Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = t.now()
	}
	msg.ToolCalls = slices.Clone(msg.ToolCalls)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	return msg
}

func (t *MemoryThread) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.messages)
}

func (t *MemoryThread) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Len returns the number of messages.
func (t *MemoryThread) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

var _ Thread = (*MemoryThread)(nil)
