package testutil

import (
	"time"

	"github.com/skosovsky/actionkit"
	"github.com/skosovsky/actionkit/assistant"
)

// NewTestAssistant returns an Assistant over a fresh MemoryThread with a long tool timeout and
// panic recovery, suitable for tests. Extra options are applied last.
func NewTestAssistant(client assistant.Client, tools []actionkit.Tool, opts ...assistant.Option) (*assistant.Assistant, error) {
	base := []assistant.Option{
		assistant.WithToolMiddleware(actionkit.WithRecovery(), actionkit.WithTimeout(30*time.Second)),
		assistant.WithMaxIterations(32),
	}
	return assistant.New(client, assistant.NewMemoryThread(), tools, append(base, opts...)...)
}
