package actionkit

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// ParametersFor reflects the argument struct T into a parameter node. Field order, json names,
// omitempty (optional vs required) and jsonschema tags follow invopop/jsonschema; plain
// `description:"..."` and `enum:"a,b"` tags on top-level fields are honored as well.
// A struct without exported fields yields nil (an action without arguments). Fields without a
// fixed shape (maps, interfaces) cannot be declared and fail with a SchemaError.
func ParametersFor[T any]() (*Property, error) {
	typ := reflect.TypeFor[T]()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() == reflect.Struct && !hasExportedFields(typ) {
		return nil, nil
	}
	r := &jsonschema.Reflector{
		// Expansion looks the root up by type name; unnamed structs are reflected inline.
		ExpandedStruct:            typ.Name() != "",
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	root := r.ReflectFromType(typ)
	if root == nil || root.Properties == nil || root.Properties.Len() == 0 {
		return nil, nil
	}
	if err := enrichFromStructTags(root, typ); err != nil {
		return nil, err
	}
	return BuildParameters(Object, declareFrom(root))
}

func hasExportedFields(typ reflect.Type) bool {
	for i := 0; i < typ.NumField(); i++ {
		if f := typ.Field(i); f.IsExported() || f.Anonymous {
			return true
		}
	}
	return false
}

// declareFrom replays a reflected object schema as builder declarations, so reflected
// schemas go through the same validation as hand-written ones.
func declareFrom(s *jsonschema.Schema) func(*ParameterBuilder) {
	return func(b *ParameterBuilder) {
		required := make(map[string]bool, len(s.Required))
		for _, name := range s.Required {
			required[name] = true
		}
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			b.Property(pair.Key, Type(pair.Value.Type), optionsFrom(pair.Value, required[pair.Key])...)
		}
	}
}

func optionsFrom(s *jsonschema.Schema, required bool) []PropertyOption {
	var opts []PropertyOption
	if s.Description != "" {
		opts = append(opts, Description(s.Description))
	}
	if len(s.Enum) > 0 {
		opts = append(opts, Enum(s.Enum...))
	}
	if required {
		opts = append(opts, Required())
	}
	switch Type(s.Type) {
	case Object:
		if s.Properties != nil {
			opts = append(opts, Nested(declareFrom(s)))
		}
	case Array:
		if s.Items != nil {
			items := s.Items
			opts = append(opts, Nested(func(b *ParameterBuilder) {
				b.Item(Type(items.Type), optionsFrom(items, false)...)
			}))
		}
	}
	return opts
}

// enrichFromStructTags adds description and enum from struct tags to root-level properties.
// The json tag name (before the comma) matches property keys. Enum tag values are parsed as
// the field's kind, so `enum:"1,2,3"` on an int field declares integers.
func enrichFromStructTags(root *jsonschema.Schema, typ reflect.Type) error {
	if typ.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		key := strings.Split(field.Tag.Get("json"), ",")[0]
		if key == "" || key == "-" {
			continue
		}
		prop, ok := root.Properties.Get(key)
		if !ok {
			continue
		}
		if desc := field.Tag.Get("description"); desc != "" {
			prop.Description = desc
		}
		if tag := field.Tag.Get("enum"); tag != "" {
			enum, err := parseEnumTag(field.Type, tag)
			if err != nil {
				return &SchemaError{Path: key, Err: fmt.Errorf("%w: %v", ErrInvalidEnum, err)}
			}
			prop.Enum = enum
		}
	}
	return nil
}

func parseEnumTag(typ reflect.Type, tag string) ([]any, error) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	parts := strings.Split(tag, ",")
	enum := make([]any, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		var err error
		switch typ.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			enum[i], err = strconv.ParseInt(p, 10, 64)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			enum[i], err = strconv.ParseUint(p, 10, 64)
		case reflect.Float32, reflect.Float64:
			enum[i], err = strconv.ParseFloat(p, 64)
		case reflect.Bool:
			enum[i], err = strconv.ParseBool(p)
		default:
			enum[i] = p
		}
		if err != nil {
			return nil, fmt.Errorf("%q is not a %s", p, typ.Kind())
		}
	}
	return enum, nil
}

// Validatable is implemented by typed argument structs with rules the schema cannot express
// (cross-field constraints, lookups). Validate runs after the arguments passed the schema and
// were decoded; a failure is reported to the LLM as a ClientError.
type Validatable interface {
	Validate() error
}

// DefineTypedAction declares an action whose arguments are the struct T. The schema is reflected
// from T (see ParametersFor); at execution the validated arguments are decoded into T and, if T
// implements Validatable, checked by Validate before fn runs.
func DefineTypedAction[T any](tb *Toolbox, name, description string, fn func(ctx context.Context, args T) (any, error)) error {
	if fn == nil {
		return fmt.Errorf("action %q: handler must not be nil", name)
	}
	params, err := ParametersFor[T]()
	if err != nil {
		return withAction(err, name)
	}
	if err := tb.schemas.AddParameters(name, description, params); err != nil {
		return err
	}
	tb.bind(name, func(ctx context.Context, raw map[string]any) (any, error) {
		args, err := decodeArgs[T](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, args)
	})
	return nil
}

// decodeArgs converts schema-checked arguments into T and applies Validatable.
func decodeArgs[T any](raw map[string]any) (T, error) {
	var zero T
	data, err := json.Marshal(raw)
	if err != nil {
		return zero, wrapJSONParseError(err)
	}
	var args T
	if err := json.Unmarshal(data, &args); err != nil {
		return zero, wrapJSONParseError(err)
	}
	if err := checkArgs(args); err != nil {
		if IsClientError(err) {
			return zero, err
		}
		return zero, &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return args, nil
}

// checkArgs calls Validate on args, or on &args when only the pointer implements Validatable.
func checkArgs[T any](args T) error {
	if v, ok := any(args).(Validatable); ok {
		return v.Validate()
	}
	if v, ok := any(&args).(Validatable); ok {
		return v.Validate()
	}
	return nil
}
