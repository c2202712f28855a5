package actionkit

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Type is the JSON Schema type of a Property node. The set is closed.
type Type string

const (
	Object  Type = "object"
	Array   Type = "array"
	String  Type = "string"
	Number  Type = "number"
	Integer Type = "integer"
	Boolean Type = "boolean"
)

// Valid reports whether t is one of the six recognized kinds.
func (t Type) Valid() bool {
	switch t {
	case Object, Array, String, Number, Integer, Boolean:
		return true
	}
	return false
}

// Scalar reports whether t is neither object nor array.
func (t Type) Scalar() bool {
	return t.Valid() && t != Object && t != Array
}

// Property is one node of a parameter schema. Nodes are produced by BuildParameters and
// must be treated as read-only once an action has been compiled from them.
//
// Items is set only for arrays; Properties (ordered by declaration) and Required
// only for objects; Enum only for scalars.
type Property struct {
	Type        Type
	Description string
	Enum        []any
	Items       *Property
	Properties  *orderedmap.OrderedMap[string, *Property]
	Required    []string
}

// propertyJSON fixes the key order of the rendered node.
type propertyJSON struct {
	Type        Type                                     `json:"type"`
	Description string                                   `json:"description,omitempty"`
	Enum        []any                                    `json:"enum,omitempty"`
	Items       *Property                                `json:"items,omitempty"`
	Properties  *orderedmap.OrderedMap[string, *Property] `json:"properties,omitempty"`
	Required    []string                                 `json:"required,omitempty"`
}

// MarshalJSON renders the node as a JSON Schema fragment. Object properties keep declaration order.
func (p *Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(propertyJSON{
		Type:        p.Type,
		Description: p.Description,
		Enum:        p.Enum,
		Items:       p.Items,
		Properties:  p.Properties,
		Required:    p.Required,
	})
}

// Map returns the node as a generic JSON value (map[string]any), for SDKs that take schemas as maps.
// Map key order is not preserved; use MarshalJSON when order matters.
func (p *Property) Map() (map[string]any, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Property returns the named child of an object node.
func (p *Property) Property(name string) (*Property, bool) {
	if p == nil || p.Properties == nil {
		return nil, false
	}
	return p.Properties.Get(name)
}

// Names returns the child names of an object node in declaration order.
func (p *Property) Names() []string {
	if p == nil || p.Properties == nil {
		return nil
	}
	names := make([]string, 0, p.Properties.Len())
	for pair := p.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of children of an object node.
func (p *Property) Len() int {
	if p == nil || p.Properties == nil {
		return 0
	}
	return p.Properties.Len()
}

func newObject() *Property {
	return &Property{Type: Object, Properties: orderedmap.New[string, *Property]()}
}
