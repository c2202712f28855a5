package actionkit

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// compileParameters compiles a parameter node into a resolved validator. It is called once per
// action at declaration time, so a node that is not a valid JSON Schema fails before any LLM call.
func compileParameters(p *Property) (*jsonschema.Resolved, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s.Resolve(nil)
}
