// Package actionkit declares LLM-callable tool actions and renders them as tool schemas
// for different chat providers.
//
// # Overview
//
// A tool owns an ActionSchemas registry. Each action is declared once, at setup time, with a
// name, a description and an optional block of parameter declarations. The block runs against
// a ParameterBuilder that validates every declaration and produces a nested JSON-Schema-like
// Property tree; mistakes surface as *SchemaError before any LLM call is made.
//
// Pipeline: DefineAction (name, description, declaration block) → ParameterBuilder →
// Property tree → compiled Action (qualified name "{tool}__{action}", validator) →
// ActionSchemas → ToOpenAIFormat / ToAnthropicFormat / ToGeminiFormat.
//
// # Key concepts
//
//   - Declaration order: object properties, required names and registry entries keep the
//     order in which they were declared; all three rendered formats preserve it.
//   - Qualified names: every action is exposed as "{tool}__{action}" so tools with
//     same-named actions do not collide.
//   - Front-loaded validation: invalid types, names, enums, required flags and empty
//     composites are rejected at declaration time.
//   - Typed actions: DefineTypedAction reflects an argument struct instead of a block.
//     Argument structs implementing Validatable get a business-rule check after decoding.
//   - Middleware: Chain wraps a Tool's Execute; Intercept builds custom wrappers and
//     WithLogging, WithRecovery, WithTimeout are provided.
//
// The conversation loop that feeds these schemas to an LLM lives in package assistant.
//
// # Example
//
//	tb := actionkit.NewToolbox("weather")
//	err := tb.DefineAction("get_current", "Current weather for a city",
//		func(_ context.Context, args map[string]any) (any, error) {
//			return map[string]any{"city": args["city"], "temp": 22.5}, nil
//		},
//		func(b *actionkit.ParameterBuilder) {
//			b.Property("city", actionkit.String, actionkit.Description("City name"), actionkit.Required())
//			b.Property("unit", actionkit.String, actionkit.Enum("celsius", "fahrenheit"))
//		})
//	if err != nil { ... }
//	tools := tb.Schemas().ToOpenAIFormat()
package actionkit
