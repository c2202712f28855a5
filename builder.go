package actionkit

import (
	"math"
	"reflect"
	"regexp"
	"slices"
)

var propertyNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ParameterBuilder collects property declarations for one object or array node.
// It is handed to a declaration callback by BuildParameters, AddAction and the Nested option.
//
// Declaration methods never return errors directly: the first failure is recorded and all
// later declarations on the same builder become no-ops. The failure is reported by the
// function that created the builder.
type ParameterBuilder struct {
	container Type
	path      string
	node      *Property
	err       error
}

// BuildParameters runs declare against a fresh builder scoped to container (Object or Array)
// and returns the resulting node. An object node holds the declared properties; an array node
// holds the last declared item in Items.
//
// BuildParameters does not reject an empty root; callers decide whether an empty root is an error.
func BuildParameters(container Type, declare func(*ParameterBuilder)) (*Property, error) {
	if container != Object && container != Array {
		return nil, &SchemaError{Err: ErrInvalidType}
	}
	b := newParameterBuilder(container, "")
	if declare != nil {
		declare(b)
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.node, nil
}

func newParameterBuilder(container Type, path string) *ParameterBuilder {
	b := &ParameterBuilder{container: container, path: path}
	if container == Object {
		b.node = newObject()
	} else {
		b.node = &Property{Type: Array}
	}
	return b
}

// Property declares one property. In an object scope name is mandatory and the property is added
// to the object (a repeated name replaces the earlier declaration). In an array scope name is
// ignored and the property becomes the array's item schema (last declaration wins).
func (b *ParameterBuilder) Property(name string, typ Type, opts ...PropertyOption) *ParameterBuilder {
	if b.err != nil {
		return b
	}
	var d declaration
	for _, opt := range opts {
		opt(&d)
	}
	prop, err := b.build(name, typ, &d)
	if err != nil {
		b.err = err
		return b
	}
	if b.container == Array {
		b.node.Items = prop
		return b
	}
	b.node.Properties.Set(name, prop)
	b.node.Required = slices.DeleteFunc(b.node.Required, func(n string) bool { return n == name })
	if d.required {
		b.node.Required = append(b.node.Required, name)
	}
	return b
}

// Item declares the item schema of an array scope. It is Property without a name.
func (b *ParameterBuilder) Item(typ Type, opts ...PropertyOption) *ParameterBuilder {
	return b.Property("", typ, opts...)
}

// Err returns the first declaration failure recorded by this builder, if any.
func (b *ParameterBuilder) Err() error { return b.err }

func (b *ParameterBuilder) build(name string, typ Type, d *declaration) (*Property, error) {
	path := b.path
	if b.container == Object {
		if name == "" {
			return nil, b.fail(path, ErrMissingName)
		}
		path = joinPath(b.path, name)
		if !propertyNamePattern.MatchString(name) {
			return nil, b.fail(path, ErrInvalidName)
		}
	} else {
		path += "[]"
	}
	if !typ.Valid() {
		return nil, b.fail(path, ErrInvalidType)
	}
	if d.enumSet && !validEnum(typ, d.enum) {
		return nil, b.fail(path, ErrInvalidEnum)
	}
	if d.required && b.container != Object {
		return nil, b.fail(path, ErrInvalidRequired)
	}

	prop := &Property{Type: typ, Description: d.description}
	if d.enumSet {
		prop.Enum = slices.Clone(d.enum)
	}

	switch typ {
	case Object:
		child := newParameterBuilder(Object, path)
		if d.nested != nil {
			d.nested(child)
		}
		if child.err != nil {
			return nil, child.err
		}
		if child.node.Len() == 0 {
			return nil, b.fail(path, ErrEmptyObject)
		}
		// Object nesting replaces the node; the parent-level wrapper is dropped.
		prop = child.node
	case Array:
		child := newParameterBuilder(Array, path)
		if d.nested != nil {
			d.nested(child)
		}
		if child.err != nil {
			return nil, child.err
		}
		if child.node.Items == nil {
			return nil, b.fail(path, ErrEmptyArrayItems)
		}
		prop.Items = child.node.Items
	}
	return prop, nil
}

func (b *ParameterBuilder) fail(path string, err error) error {
	return &SchemaError{Path: path, Err: err}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// validEnum accepts a non-empty list of literals whose kind matches typ. Integer enums also
// take integral floats, the form JSON-decoded numbers arrive in.
func validEnum(typ Type, values []any) bool {
	if !typ.Scalar() || len(values) == 0 {
		return false
	}
	for _, v := range values {
		if v == nil {
			continue
		}
		if !enumKindMatches(typ, reflect.ValueOf(v)) {
			return false
		}
	}
	return true
}

func enumKindMatches(typ Type, v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return typ == String
	case reflect.Bool:
		return typ == Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return typ == Integer || typ == Number
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return typ == Number || (typ == Integer && f == math.Trunc(f))
	default:
		return false
	}
}
