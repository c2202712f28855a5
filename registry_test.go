package actionkit

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherSchemas(t *testing.T) *ActionSchemas {
	t.Helper()
	s := NewActionSchemas("weather")
	require.NoError(t, s.AddAction("get_current", "Current weather", func(b *ParameterBuilder) {
		b.Property("city", String, Description("City name"), Required())
		b.Property("unit", String, Enum("celsius", "fahrenheit"))
	}))
	require.NoError(t, s.AddAction("list_cities", "Known cities", nil))
	return s
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "weather__get", QualifiedName("weather", "get"))
}

func TestActionSchemas_AddAction(t *testing.T) {
	s := weatherSchemas(t)
	assert.Equal(t, "weather", s.ToolName())
	assert.Equal(t, 2, s.Len())

	a, ok := s.Action("get_current")
	require.True(t, ok)
	assert.Equal(t, "weather__get_current", a.QualifiedName)
	assert.Equal(t, "Current weather", a.Description)
	require.NotNil(t, a.Parameters)
	assert.Equal(t, []string{"city", "unit"}, a.Parameters.Names())

	noArgs, ok := s.Action("list_cities")
	require.True(t, ok)
	assert.Nil(t, noArgs.Parameters)

	_, ok = s.Action("missing")
	assert.False(t, ok)
}

func TestActionSchemas_Lookup(t *testing.T) {
	s := weatherSchemas(t)
	a, ok := s.Lookup("weather__list_cities")
	require.True(t, ok)
	assert.Equal(t, "list_cities", a.Name)
	_, ok = s.Lookup("list_cities")
	assert.False(t, ok)
	_, ok = s.Lookup("other__list_cities")
	assert.False(t, ok)
}

func TestActionSchemas_EmptyBlockIsError(t *testing.T) {
	s := NewActionSchemas("t")
	err := s.AddAction("noop", "Nothing", func(*ParameterBuilder) {})
	require.ErrorIs(t, err, ErrNoParameters)
	assert.True(t, IsSchemaError(err))
	assert.Equal(t, 0, s.Len())
}

func TestActionSchemas_DeclarationErrorNamesAction(t *testing.T) {
	s := NewActionSchemas("t")
	err := s.AddAction("bad", "Bad", func(b *ParameterBuilder) {
		b.Property("tags", Array)
	})
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bad", se.Action)
	assert.Equal(t, "tags", se.Path)
	assert.ErrorIs(t, err, ErrEmptyArrayItems)
	assert.Contains(t, err.Error(), `action "bad"`)
}

func TestActionSchemas_AddParameters_Errors(t *testing.T) {
	s := NewActionSchemas("t")
	require.ErrorIs(t, s.AddParameters("", "d", nil), ErrMissingName)
	require.ErrorIs(t, s.AddParameters("has space", "d", nil), ErrInvalidName)
	require.ErrorIs(t, s.AddParameters("ok", "", nil), ErrMissingDescription)
	require.ErrorIs(t, s.AddParameters("ok", "d", &Property{Type: String}), ErrInvalidType)
	require.ErrorIs(t, s.AddParameters("ok", "d", newObject()), ErrNoParameters)
	assert.Equal(t, 0, s.Len())
}

func TestActionSchemas_ReplaceKeepsPosition(t *testing.T) {
	s := weatherSchemas(t)
	require.NoError(t, s.AddAction("get_current", "Replaced", nil))
	actions := s.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, "get_current", actions[0].Name)
	assert.Equal(t, "Replaced", actions[0].Description)
}

func TestAction_ValidateArguments(t *testing.T) {
	s := weatherSchemas(t)
	a, _ := s.Action("get_current")

	require.NoError(t, a.ValidateArguments(map[string]any{"city": "Paris"}))
	require.NoError(t, a.ValidateArguments(map[string]any{"city": "Paris", "unit": "celsius"}))

	err := a.ValidateArguments(map[string]any{"unit": "celsius"})
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, err, ErrValidation)

	err = a.ValidateArguments(map[string]any{"city": "Paris", "unit": "kelvin"})
	require.ErrorIs(t, err, ErrValidation)

	err = a.ValidateArguments(nil)
	require.ErrorIs(t, err, ErrValidation)

	noArgs, _ := s.Action("list_cities")
	require.NoError(t, noArgs.ValidateArguments(map[string]any{"anything": true}))
}

func TestActionSchemas_ConcurrentReads(t *testing.T) {
	s := weatherSchemas(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Actions()
			_, _ = s.Lookup("weather__get_current")
			_ = s.ToOpenAIFormat()
		}()
	}
	wg.Wait()
}

func TestRender_Formats(t *testing.T) {
	s := weatherSchemas(t)

	openai, err := json.Marshal(s.ToOpenAIFormat())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type": "function", "function": {
			"name": "weather__get_current",
			"description": "Current weather",
			"parameters": {
				"type": "object",
				"properties": {
					"city": {"type": "string", "description": "City name"},
					"unit": {"type": "string", "enum": ["celsius", "fahrenheit"]}
				},
				"required": ["city"]
			}
		}},
		{"type": "function", "function": {"name": "weather__list_cities", "description": "Known cities"}}
	]`, string(openai))

	anthropic, err := json.Marshal(s.ToAnthropicFormat())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{
			"name": "weather__get_current",
			"description": "Current weather",
			"input_schema": {
				"type": "object",
				"properties": {
					"city": {"type": "string", "description": "City name"},
					"unit": {"type": "string", "enum": ["celsius", "fahrenheit"]}
				},
				"required": ["city"]
			}
		},
		{"name": "weather__list_cities", "description": "Known cities"}
	]`, string(anthropic))

	gemini, err := json.Marshal(s.ToGeminiFormat())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{
			"name": "weather__get_current",
			"description": "Current weather",
			"parameters": {
				"type": "object",
				"properties": {
					"city": {"type": "string", "description": "City name"},
					"unit": {"type": "string", "enum": ["celsius", "fahrenheit"]}
				},
				"required": ["city"]
			}
		},
		{"name": "weather__list_cities", "description": "Known cities"}
	]`, string(gemini))
}

// The three shapes derive from one another: the minimal shape is the generic one without the
// wrapper, the alternate one renames parameters to input_schema.
func TestRender_ShapesAreDerivable(t *testing.T) {
	s := weatherSchemas(t)
	openai := s.ToOpenAIFormat()
	anthropic := s.ToAnthropicFormat()
	gemini := s.ToGeminiFormat()
	require.Len(t, anthropic, len(openai))
	require.Len(t, gemini, len(openai))
	for i, tool := range openai {
		assert.Equal(t, "function", tool.Type)
		assert.Equal(t, tool.Function, gemini[i])
		assert.Equal(t, tool.Function.Name, anthropic[i].Name)
		assert.Equal(t, tool.Function.Description, anthropic[i].Description)
		assert.Same(t, tool.Function.Parameters, anthropic[i].InputSchema)
	}
}

func TestRender_PreservesDeclarationOrder(t *testing.T) {
	s := NewActionSchemas("t")
	names := []string{"zulu", "alpha", "mike", "bravo"}
	for _, n := range names {
		require.NoError(t, s.AddAction(n, "d", nil))
	}
	for i, tool := range s.ToOpenAIFormat() {
		assert.Equal(t, "t__"+names[i], tool.Function.Name)
	}
	for i, tool := range s.ToAnthropicFormat() {
		assert.Equal(t, "t__"+names[i], tool.Name)
	}
	for i, fn := range s.ToGeminiFormat() {
		assert.Equal(t, "t__"+names[i], fn.Name)
	}
}

func TestRender_Dispatch(t *testing.T) {
	s := weatherSchemas(t)
	for _, f := range []Format{FormatOpenAI, FormatAnthropic, FormatGemini} {
		out, err := s.Render(f)
		require.NoError(t, err)
		assert.NotNil(t, out)
	}
	out, err := s.Render(FormatOpenAI)
	require.NoError(t, err)
	assert.IsType(t, []FunctionTool{}, out)

	_, err = s.Render(Format("cohere"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRender_Union(t *testing.T) {
	a := NewActionSchemas("a")
	require.NoError(t, a.AddAction("one", "d", nil))
	b := NewActionSchemas("b")
	require.NoError(t, b.AddAction("two", "d", nil))
	require.NoError(t, b.AddAction("three", "d", nil))

	openai := RenderOpenAI(a, b)
	require.Len(t, openai, 3)
	assert.Equal(t, "a__one", openai[0].Function.Name)
	assert.Equal(t, "b__three", openai[2].Function.Name)
	assert.Len(t, RenderAnthropic(a, b), 3)
	assert.Len(t, RenderGemini(a, b), 3)
	assert.Empty(t, RenderOpenAI())
}
