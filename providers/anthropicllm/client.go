// Package anthropicllm implements assistant.Client on top of the Anthropic Messages API.
// Tools are sent in the alternate-vendor shape (actionkit.FormatAnthropic).
package anthropicllm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/skosovsky/actionkit"
	"github.com/skosovsky/actionkit/assistant"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-sonnet-4-5"
	// DefaultMaxTokens is used when no limit is configured; the API requires one.
	DefaultMaxTokens = 1024
)

// Option configures a Client.
type Option func(*config)

type config struct {
	model       string
	maxTokens   int64
	temperature float64
	logger      zerolog.Logger
	requestOpts []option.RequestOption
}

// WithAPIKey sets the API key. Without it the SDK reads ANTHROPIC_API_KEY.
func WithAPIKey(key string) Option {
	return func(c *config) { c.requestOpts = append(c.requestOpts, option.WithAPIKey(key)) }
}

// WithBaseURL points the client at another endpoint.
func WithBaseURL(url string) Option {
	return func(c *config) { c.requestOpts = append(c.requestOpts, option.WithBaseURL(url)) }
}

// WithMaxRetries sets the SDK retry budget. The assistant loop itself never retries.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.requestOpts = append(c.requestOpts, option.WithMaxRetries(n)) }
}

// WithModel sets the model.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxTokens = int64(n)
		}
	}
}

// WithTemperature sets the sampling temperature. Zero leaves it to the API.
func WithTemperature(t float64) Option {
	return func(c *config) { c.temperature = t }
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Client is an assistant.Client backed by anthropic-sdk-go.
type Client struct {
	client anthropic.Client
	cfg    config
}

// New creates a Client.
func New(opts ...Option) *Client {
	cfg := config{model: DefaultModel, maxTokens: DefaultMaxTokens, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{
		client: anthropic.NewClient(cfg.requestOpts...),
		cfg:    cfg,
	}
}

// Chat sends the thread and tool schemas. System messages become the system prompt, tool
// messages become tool_result blocks of a user turn.
func (c *Client) Chat(ctx context.Context, req assistant.ChatRequest) (*assistant.Response, error) {
	params, err := c.params(req)
	if err != nil {
		return nil, err
	}
	c.cfg.logger.Debug().
		Str("model", c.cfg.model).
		Int("messages", len(params.Messages)).
		Int("tools", len(params.Tools)).
		Msg("anthropic messages request")

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	out := &assistant.Response{
		Usage: assistant.Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
		},
	}
	var text strings.Builder
	for _, block := range resp.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			out.ToolCalls = append(out.ToolCalls, assistant.ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: b.JSON.Input.Raw(),
			})
		}
	}
	out.Content = text.String()
	return out, nil
}

func (c *Client) params(req assistant.ChatRequest) (anthropic.MessageNewParams, error) {
	system, msgs := convertMessages(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.model),
		MaxTokens: c.cfg.maxTokens,
		Messages:  msgs,
		System:    system,
	}
	if c.cfg.temperature > 0 {
		params.Temperature = anthropic.Float(c.cfg.temperature)
	}
	if !req.HasTools() {
		return params, nil
	}
	params.Tools = convertTools(req.Tools)
	params.ToolChoice = toolChoice(req.ToolChoice)
	return params, nil
}

// convertMessages splits system messages off and merges consecutive tool messages into one
// user turn, as the Messages API expects alternating roles.
func convertMessages(msgs []assistant.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var (
		system  []anthropic.TextBlockParam
		out     []anthropic.MessageParam
		results []anthropic.ContentBlockParamUnion
	)
	flush := func() {
		if len(results) > 0 {
			out = append(out, anthropic.NewUserMessage(results...))
			results = nil
		}
	}
	for _, m := range msgs {
		if m.Role == assistant.RoleTool {
			results = append(results, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false))
			continue
		}
		flush()
		switch m.Role {
		case assistant.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case assistant.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case assistant.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, rawInput(tc.Arguments), tc.Name))
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		}
	}
	flush()
	return system, out
}

// rawInput passes the LLM's argument payload back unchanged; an empty payload is {}.
func rawInput(args string) json.RawMessage {
	if strings.TrimSpace(args) == "" || !json.Valid([]byte(args)) {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(args)
}

func convertTools(schemas []*actionkit.ActionSchemas) []anthropic.ToolUnionParam {
	var out []anthropic.ToolUnionParam
	for _, t := range actionkit.RenderAnthropic(schemas...) {
		tool := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
		}
		// input_schema is mandatory for this API; actions without parameters get an empty object.
		// The zero ToolInputSchemaParam is omitted on the wire, so properties must be set.
		tool.InputSchema = anthropic.ToolInputSchemaParam{Properties: map[string]any{}}
		if t.InputSchema != nil {
			tool.InputSchema = anthropic.ToolInputSchemaParam{
				Properties: t.InputSchema.Properties,
				Required:   t.InputSchema.Required,
			}
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return out
}

func toolChoice(choice string) anthropic.ToolChoiceUnionParam {
	switch choice {
	case "", assistant.ToolChoiceAuto:
		return anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
	case assistant.ToolChoiceNone:
		return anthropic.ToolChoiceUnionParam{OfNone: &anthropic.ToolChoiceNoneParam{}}
	case assistant.ToolChoiceAny:
		return anthropic.ToolChoiceUnionParam{OfAny: &anthropic.ToolChoiceAnyParam{}}
	default:
		return anthropic.ToolChoiceUnionParam{OfTool: &anthropic.ToolChoiceToolParam{Name: choice}}
	}
}

var _ assistant.Client = (*Client)(nil)
