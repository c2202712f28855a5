// Package openaillm implements assistant.Client on top of the OpenAI Chat Completions API.
// Tools are sent in the generic function-calling shape (actionkit.FormatOpenAI).
package openaillm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/skosovsky/actionkit"
	"github.com/skosovsky/actionkit/assistant"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// ErrNoChoices is returned when the API answers without any choice.
var ErrNoChoices = errors.New("openai: no response choices returned")

// Option configures a Client.
type Option func(*config)

type config struct {
	model       string
	maxTokens   int64
	temperature float64
	logger      zerolog.Logger
	requestOpts []option.RequestOption
}

// WithAPIKey sets the API key. Without it the SDK reads OPENAI_API_KEY.
func WithAPIKey(key string) Option {
	return func(c *config) { c.requestOpts = append(c.requestOpts, option.WithAPIKey(key)) }
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *config) { c.requestOpts = append(c.requestOpts, option.WithBaseURL(url)) }
}

// WithMaxRetries sets the SDK retry budget. The assistant loop itself never retries.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.requestOpts = append(c.requestOpts, option.WithMaxRetries(n)) }
}

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithMaxTokens bounds the completion length. Zero leaves it to the API.
func WithMaxTokens(n int) Option {
	return func(c *config) { c.maxTokens = int64(n) }
}

// WithTemperature sets the sampling temperature. Zero leaves it to the API.
func WithTemperature(t float64) Option {
	return func(c *config) { c.temperature = t }
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Client is an assistant.Client backed by openai-go.
type Client struct {
	client openai.Client
	cfg    config
}

// New creates a Client.
func New(opts ...Option) *Client {
	cfg := config{model: DefaultModel, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{
		client: openai.NewClient(cfg.requestOpts...),
		cfg:    cfg,
	}
}

// Chat sends the thread and tool schemas and classifies the first choice.
func (c *Client) Chat(ctx context.Context, req assistant.ChatRequest) (*assistant.Response, error) {
	params, err := c.params(req)
	if err != nil {
		return nil, err
	}
	c.cfg.logger.Debug().
		Str("model", c.cfg.model).
		Int("messages", len(params.Messages)).
		Int("tools", len(params.Tools)).
		Msg("openai chat request")

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	msg := resp.Choices[0].Message

	out := &assistant.Response{
		Content: msg.Content,
		Usage: assistant.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
		},
	}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, assistant.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

func (c *Client) params(req assistant.ChatRequest) (openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.cfg.model),
		Messages: convertMessages(req.Messages),
	}
	if c.cfg.maxTokens > 0 {
		params.MaxTokens = openai.Int(c.cfg.maxTokens)
	}
	if c.cfg.temperature > 0 {
		params.Temperature = openai.Float(c.cfg.temperature)
	}
	if !req.HasTools() {
		return params, nil
	}
	tools, err := convertTools(req.Tools)
	if err != nil {
		return params, err
	}
	params.Tools = tools
	params.ToolChoice = toolChoice(req.ToolChoice)
	return params, nil
}

func convertMessages(msgs []assistant.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case assistant.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case assistant.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case assistant.RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		case assistant.RoleAssistant:
			if !m.HasToolCalls() {
				out = append(out, openai.AssistantMessage(m.Content))
				continue
			}
			calls := make([]openai.ChatCompletionMessageToolCall, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				calls = append(calls, openai.ChatCompletionMessageToolCall{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunction{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			msg := openai.ChatCompletionMessage{
				Role:      "assistant",
				Content:   m.Content,
				ToolCalls: calls,
			}
			out = append(out, msg.ToParam())
		}
	}
	return out
}

func convertTools(schemas []*actionkit.ActionSchemas) ([]openai.ChatCompletionToolParam, error) {
	var out []openai.ChatCompletionToolParam
	for _, t := range actionkit.RenderOpenAI(schemas...) {
		fn := openai.FunctionDefinitionParam{
			Name:        t.Function.Name,
			Description: openai.String(t.Function.Description),
		}
		if t.Function.Parameters != nil {
			m, err := t.Function.Parameters.Map()
			if err != nil {
				return nil, fmt.Errorf("openai: encode parameters of %s: %w", t.Function.Name, err)
			}
			fn.Parameters = openai.FunctionParameters(m)
		}
		out = append(out, openai.ChatCompletionToolParam{Type: "function", Function: fn})
	}
	return out, nil
}

// toolChoice maps the assistant tool choice; "any" is OpenAI's "required".
func toolChoice(choice string) openai.ChatCompletionToolChoiceOptionUnionParam {
	switch choice {
	case "", assistant.ToolChoiceAuto:
		return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("auto")}
	case assistant.ToolChoiceNone:
		return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("none")}
	case assistant.ToolChoiceAny:
		return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("required")}
	default:
		return openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: choice},
			},
		}
	}
}

var _ assistant.Client = (*Client)(nil)
