package actionkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParameters_Scalars(t *testing.T) {
	p, err := BuildParameters(Object, func(b *ParameterBuilder) {
		b.Property("city", String, Description("City name"), Required())
		b.Property("days", Integer)
		b.Property("unit", String, Enum("celsius", "fahrenheit"))
		b.Property("precise", Boolean)
	})
	require.NoError(t, err)
	assert.Equal(t, Object, p.Type)
	assert.Equal(t, []string{"city", "days", "unit", "precise"}, p.Names())
	assert.Equal(t, []string{"city"}, p.Required)

	unit, ok := p.Property("unit")
	require.True(t, ok)
	assert.Equal(t, []any{"celsius", "fahrenheit"}, unit.Enum)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"city": {"type": "string", "description": "City name"},
			"days": {"type": "integer"},
			"unit": {"type": "string", "enum": ["celsius", "fahrenheit"]},
			"precise": {"type": "boolean"}
		},
		"required": ["city"]
	}`, string(data))
}

func TestBuildParameters_KeepsDeclarationOrderInJSON(t *testing.T) {
	p, err := BuildParameters(Object, func(b *ParameterBuilder) {
		b.Property("zeta", String)
		b.Property("alpha", String)
		b.Property("mid", String)
	})
	require.NoError(t, err)
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"object","properties":{"zeta":{"type":"string"},"alpha":{"type":"string"},"mid":{"type":"string"}}}`,
		string(data))
}

func TestBuildParameters_NestedObjectReplacesNode(t *testing.T) {
	p, err := BuildParameters(Object, func(b *ParameterBuilder) {
		b.Property("address", Object, Description("dropped"), Required(), Nested(func(b *ParameterBuilder) {
			b.Property("street", String, Required())
			b.Property("zip", String)
		}))
	})
	require.NoError(t, err)
	addr, ok := p.Property("address")
	require.True(t, ok)
	assert.Equal(t, Object, addr.Type)
	assert.Empty(t, addr.Description)
	assert.Equal(t, []string{"street", "zip"}, addr.Names())
	assert.Equal(t, []string{"street"}, addr.Required)
	assert.Equal(t, []string{"address"}, p.Required)
}

func TestBuildParameters_ArrayItems(t *testing.T) {
	p, err := BuildParameters(Object, func(b *ParameterBuilder) {
		b.Property("tags", Array, Description("Tags"), Nested(func(b *ParameterBuilder) {
			b.Item(String, Enum("a", "b"))
		}))
		b.Property("points", Array, Nested(func(b *ParameterBuilder) {
			b.Item(Object, Nested(func(b *ParameterBuilder) {
				b.Property("x", Number, Required())
				b.Property("y", Number, Required())
			}))
		}))
	})
	require.NoError(t, err)

	tags, _ := p.Property("tags")
	assert.Equal(t, "Tags", tags.Description)
	require.NotNil(t, tags.Items)
	assert.Equal(t, String, tags.Items.Type)
	assert.Equal(t, []any{"a", "b"}, tags.Items.Enum)

	points, _ := p.Property("points")
	require.NotNil(t, points.Items)
	assert.Equal(t, []string{"x", "y"}, points.Items.Names())
}

func TestBuildParameters_ArrayLastItemWins(t *testing.T) {
	p, err := BuildParameters(Array, func(b *ParameterBuilder) {
		b.Item(String)
		b.Item(Integer)
	})
	require.NoError(t, err)
	require.NotNil(t, p.Items)
	assert.Equal(t, Integer, p.Items.Type)
}

func TestBuildParameters_DuplicateNameOverwrites(t *testing.T) {
	p, err := BuildParameters(Object, func(b *ParameterBuilder) {
		b.Property("q", String, Required())
		b.Property("other", String)
		b.Property("q", Integer)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "other"}, p.Names())
	q, _ := p.Property("q")
	assert.Equal(t, Integer, q.Type)
	assert.Empty(t, p.Required)
}

func TestBuildParameters_NestedOnScalarIgnored(t *testing.T) {
	called := false
	p, err := BuildParameters(Object, func(b *ParameterBuilder) {
		b.Property("name", String, Nested(func(*ParameterBuilder) { called = true }))
	})
	require.NoError(t, err)
	assert.False(t, called)
	name, _ := p.Property("name")
	assert.Nil(t, name.Items)
	assert.Nil(t, name.Properties)
}

func TestBuildParameters_Errors(t *testing.T) {
	tests := []struct {
		name    string
		declare func(*ParameterBuilder)
		want    error
		path    string
	}{
		{
			name:    "missing name",
			declare: func(b *ParameterBuilder) { b.Property("", String) },
			want:    ErrMissingName,
		},
		{
			name:    "invalid name",
			declare: func(b *ParameterBuilder) { b.Property("has space", String) },
			want:    ErrInvalidName,
			path:    "has space",
		},
		{
			name:    "invalid type",
			declare: func(b *ParameterBuilder) { b.Property("x", Type("date")) },
			want:    ErrInvalidType,
			path:    "x",
		},
		{
			name:    "composite enum",
			declare: func(b *ParameterBuilder) { b.Property("x", String, Enum([]string{"a"})) },
			want:    ErrInvalidEnum,
			path:    "x",
		},
		{
			name:    "empty enum",
			declare: func(b *ParameterBuilder) { b.Property("x", String, Enum()) },
			want:    ErrInvalidEnum,
			path:    "x",
		},
		{
			name:    "enum kind mismatch",
			declare: func(b *ParameterBuilder) { b.Property("level", Integer, Enum("1", "2")) },
			want:    ErrInvalidEnum,
			path:    "level",
		},
		{
			name:    "fractional integer enum",
			declare: func(b *ParameterBuilder) { b.Property("level", Integer, Enum(1, 2.5)) },
			want:    ErrInvalidEnum,
			path:    "level",
		},
		{
			name:    "boolean enum on string",
			declare: func(b *ParameterBuilder) { b.Property("flag", String, Enum(true)) },
			want:    ErrInvalidEnum,
			path:    "flag",
		},
		{
			name: "enum on object",
			declare: func(b *ParameterBuilder) {
				b.Property("x", Object, Enum("a"), Nested(func(b *ParameterBuilder) { b.Property("y", String) }))
			},
			want: ErrInvalidEnum,
			path: "x",
		},
		{
			name: "required on array item",
			declare: func(b *ParameterBuilder) {
				b.Property("tags", Array, Nested(func(b *ParameterBuilder) { b.Item(String, Required()) }))
			},
			want: ErrInvalidRequired,
			path: "tags[]",
		},
		{
			name:    "empty object",
			declare: func(b *ParameterBuilder) { b.Property("address", Object) },
			want:    ErrEmptyObject,
			path:    "address",
		},
		{
			name: "empty object block",
			declare: func(b *ParameterBuilder) {
				b.Property("address", Object, Nested(func(*ParameterBuilder) {}))
			},
			want: ErrEmptyObject,
			path: "address",
		},
		{
			name:    "empty array",
			declare: func(b *ParameterBuilder) { b.Property("tags", Array) },
			want:    ErrEmptyArrayItems,
			path:    "tags",
		},
		{
			name: "deep error keeps path",
			declare: func(b *ParameterBuilder) {
				b.Property("a", Object, Nested(func(b *ParameterBuilder) {
					b.Property("b", Array, Nested(func(b *ParameterBuilder) {
						b.Item(Type("nope"))
					}))
				}))
			},
			want: ErrInvalidType,
			path: "a.b[]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := BuildParameters(Object, tt.declare)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.want)
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.path, se.Path)
		})
	}
}

func TestBuildParameters_FirstErrorWins(t *testing.T) {
	var b *ParameterBuilder
	_, err := BuildParameters(Object, func(pb *ParameterBuilder) {
		b = pb
		pb.Property("", String)
		pb.Property("x", Type("bad"))
	})
	require.ErrorIs(t, err, ErrMissingName)
	assert.ErrorIs(t, b.Err(), ErrMissingName)
}

func TestBuildParameters_InvalidContainer(t *testing.T) {
	_, err := BuildParameters(String, nil)
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestProperty_Map(t *testing.T) {
	p, err := BuildParameters(Object, func(b *ParameterBuilder) {
		b.Property("n", Number, Required())
	})
	require.NoError(t, err)
	m, err := p.Map()
	require.NoError(t, err)
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, []any{"n"}, m["required"])

	var nilProp *Property
	m, err = nilProp.Map()
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestType_Valid(t *testing.T) {
	for _, typ := range []Type{Object, Array, String, Number, Integer, Boolean} {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, Type("null").Valid())
	assert.True(t, String.Scalar())
	assert.False(t, Array.Scalar())
	assert.False(t, Type("x").Scalar())
}

func TestBuildParameters_TypedEnums(t *testing.T) {
	p, err := BuildParameters(Object, func(b *ParameterBuilder) {
		b.Property("level", Integer, Enum(1, 2, 3.0))
		b.Property("ratio", Number, Enum(0.5, 1))
		b.Property("strict", Boolean, Enum(true))
	})
	require.NoError(t, err)
	level, _ := p.Property("level")
	assert.Equal(t, []any{1, 2, 3.0}, level.Enum)
	ratio, _ := p.Property("ratio")
	assert.Equal(t, []any{0.5, 1}, ratio.Enum)
}
