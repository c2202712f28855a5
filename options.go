package actionkit

// declaration holds the optional parts of one property declaration.
type declaration struct {
	description string
	enum        []any
	enumSet     bool
	required    bool
	nested      func(*ParameterBuilder)
}

// PropertyOption configures a property declaration (e.g. Description, Required).
type PropertyOption func(*declaration)

// Description sets the human-readable text shown to the LLM for the property.
func Description(text string) PropertyOption {
	return func(d *declaration) {
		d.description = text
	}
}

// Enum restricts a scalar property to the given literal values. Composite values
// (maps, slices, structs) and enums on object or array properties are rejected.
func Enum(values ...any) PropertyOption {
	return func(d *declaration) {
		d.enum = values
		d.enumSet = true
	}
}

// Required marks the property as required by its parent object.
// Only valid inside an object scope.
func Required() PropertyOption {
	return func(d *declaration) {
		d.required = true
	}
}

// Nested declares the children of an object property or the item of an array property.
// It is ignored for scalar properties.
func Nested(declare func(*ParameterBuilder)) PropertyOption {
	return func(d *declaration) {
		d.nested = declare
	}
}
