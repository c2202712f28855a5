package actionkit

import (
	"context"
	"reflect"
	"regexp"
	"strings"
)

// Tool is the capability an LLM-callable tool implements. It is provider-agnostic: the
// compiled ActionSchemas are rendered per provider by the caller.
type Tool interface {
	// Name is the canonical tool name, the prefix of every qualified action name.
	Name() string
	// Schemas returns the tool's compiled actions.
	Schemas() *ActionSchemas
	// Execute runs the named (unqualified) action with parsed keyword arguments and returns
	// a string or a JSON-serializable result.
	Execute(ctx context.Context, action string, args map[string]any) (any, error)
}

var (
	acronymBoundary = regexp.MustCompile(`([A-Z\d]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z\d])([A-Z])`)
	namespaceSep    = strings.NewReplacer("::", "", ".", "", "/", "", "*", "")
)

// CanonicalName derives a tool name from v. For a string, v is read as a possibly qualified
// identifier ("tools.NewsRetriever", "Tools::NewsRetriever") whose namespace separators are
// removed; for any other value the Go type name is used, without package or pointer markers.
// The result is lowercase with underscores at word boundaries:
//
//	CanonicalName(&Weather{})         // "weather"
//	CanonicalName(HTTPClient{})       // "http_client"
//	CanonicalName("tools.NewsRetriever") // "tools_news_retriever"
func CanonicalName(v any) string {
	if s, ok := v.(string); ok {
		return SnakeCase(namespaceSep.Replace(s))
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	// Instantiated generic types carry their type arguments in the name.
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return SnakeCase(name)
}

// SnakeCase converts CapitalizedWords to lower_snake_case, keeping acronyms together.
func SnakeCase(s string) string {
	s = acronymBoundary.ReplaceAllString(s, "${1}_${2}")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ToLower(s)
}
