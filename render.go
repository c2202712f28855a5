package actionkit

import "fmt"

// Format selects one of the provider-specific tool schema shapes.
type Format string

const (
	// FormatOpenAI is the generic function-calling shape:
	// {"type":"function","function":{"name","description","parameters"}}.
	// Also accepted by Mistral, Ollama and other OpenAI-compatible APIs.
	FormatOpenAI Format = "openai"
	// FormatAnthropic is the function object without the wrapper, with parameters
	// renamed to input_schema: {"name","description","input_schema"}.
	FormatAnthropic Format = "anthropic"
	// FormatGemini is the bare function object: {"name","description","parameters"}.
	FormatGemini Format = "gemini"
)

// FunctionTool is one tool in the generic function-calling shape.
type FunctionTool struct {
	Type     string              `json:"type"`
	Function FunctionDeclaration `json:"function"`
}

// FunctionDeclaration is the bare function object. Parameters is omitted when the action takes none.
type FunctionDeclaration struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Parameters  *Property `json:"parameters,omitempty"`
}

// InputSchemaTool is one tool in the alternate-vendor shape. InputSchema is omitted when the action takes none.
type InputSchemaTool struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	InputSchema *Property `json:"input_schema,omitempty"`
}

func declarationOf(a *Action) FunctionDeclaration {
	return FunctionDeclaration{
		Name:        a.QualifiedName,
		Description: a.Description,
		Parameters:  a.Parameters,
	}
}

// ToOpenAIFormat renders the registry in the generic function-calling shape.
func (s *ActionSchemas) ToOpenAIFormat() []FunctionTool {
	actions := s.Actions()
	out := make([]FunctionTool, 0, len(actions))
	for _, a := range actions {
		out = append(out, FunctionTool{Type: "function", Function: declarationOf(a)})
	}
	return out
}

// ToAnthropicFormat renders the registry in the alternate-vendor shape.
func (s *ActionSchemas) ToAnthropicFormat() []InputSchemaTool {
	actions := s.Actions()
	out := make([]InputSchemaTool, 0, len(actions))
	for _, a := range actions {
		out = append(out, InputSchemaTool{
			Name:        a.QualifiedName,
			Description: a.Description,
			InputSchema: a.Parameters,
		})
	}
	return out
}

// ToGeminiFormat renders the registry in the minimal-vendor shape.
func (s *ActionSchemas) ToGeminiFormat() []FunctionDeclaration {
	actions := s.Actions()
	out := make([]FunctionDeclaration, 0, len(actions))
	for _, a := range actions {
		out = append(out, declarationOf(a))
	}
	return out
}

// Render renders the registry in the given format. The concrete result type is
// []FunctionTool, []InputSchemaTool or []FunctionDeclaration respectively.
func (s *ActionSchemas) Render(f Format) (any, error) {
	switch f {
	case FormatOpenAI:
		return s.ToOpenAIFormat(), nil
	case FormatAnthropic:
		return s.ToAnthropicFormat(), nil
	case FormatGemini:
		return s.ToGeminiFormat(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// RenderOpenAI renders the union of several registries, preserving registry then declaration order.
func RenderOpenAI(schemas ...*ActionSchemas) []FunctionTool {
	var out []FunctionTool
	for _, s := range schemas {
		out = append(out, s.ToOpenAIFormat()...)
	}
	return out
}

// RenderAnthropic renders the union of several registries in the alternate-vendor shape.
func RenderAnthropic(schemas ...*ActionSchemas) []InputSchemaTool {
	var out []InputSchemaTool
	for _, s := range schemas {
		out = append(out, s.ToAnthropicFormat()...)
	}
	return out
}

// RenderGemini renders the union of several registries in the minimal-vendor shape.
func RenderGemini(schemas ...*ActionSchemas) []FunctionDeclaration {
	var out []FunctionDeclaration
	for _, s := range schemas {
		out = append(out, s.ToGeminiFormat()...)
	}
	return out
}
