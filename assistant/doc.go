// Package assistant runs a conversation between a user, an LLM and a set of actionkit tools.
//
// An Assistant owns one Thread. Run looks at the role of the last message and either asks the
// LLM (after a user or tool message), executes the tool calls it requested (after an assistant
// message with tool calls, when auto execution is on), or halts (system message, final answer,
// or pending tool calls in manual mode).
//
// Invariants:
//   - Every LLM call receives the whole thread and the schemas of every registered tool.
//   - Tool calls of one batch run in request order; each yields exactly one tool message
//     tagged with the call id, followed by a single LLM call.
//   - Nothing is retried. Client, tool and parse failures are returned to the caller.
//
// Usage:
//
//	a, err := assistant.New(client, nil, []actionkit.Tool{weather},
//		assistant.WithInstructions("You are a weather bot."))
//	if err != nil { ... }
//	msgs, err := a.AddMessageAndRun(ctx, "Weather in Paris?", true)
//
// With auto execution off, Run halts on tool calls; resolve them with SubmitToolOutput and call
// Run again.
package assistant
