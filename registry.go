package actionkit

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NameSeparator joins a tool name and an action name into a qualified name.
const NameSeparator = "__"

// Function names accepted by the major function-calling APIs.
var actionNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// QualifiedName returns "{toolName}__{actionName}", the identifier the LLM uses to request an action.
func QualifiedName(toolName, actionName string) string {
	return toolName + NameSeparator + actionName
}

// Action is one compiled tool action. It is immutable once added to ActionSchemas.
type Action struct {
	Name          string
	QualifiedName string
	Description   string
	// Parameters is the root object node, or nil when the action takes no arguments.
	Parameters *Property

	validator *jsonschema.Resolved
}

// ValidateArguments checks parsed arguments against the action's parameter schema.
// Actions without parameters accept any arguments. Failures are ClientError wrapping ErrValidation.
func (a *Action) ValidateArguments(args map[string]any) error {
	if a.validator == nil {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := a.validator.Validate(args); err != nil {
		return &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return nil
}

// ActionSchemas is the per-tool registry of compiled actions. Iteration and rendering follow
// declaration order. It is safe for concurrent use; actions are normally added once at setup.
type ActionSchemas struct {
	toolName string
	mu       sync.RWMutex
	actions  *orderedmap.OrderedMap[string, *Action]
}

// NewActionSchemas creates an empty registry owned by the tool with the given canonical name.
func NewActionSchemas(toolName string) *ActionSchemas {
	return &ActionSchemas{
		toolName: toolName,
		actions:  orderedmap.New[string, *Action](),
	}
}

// ToolName returns the canonical name of the owning tool.
func (s *ActionSchemas) ToolName() string { return s.toolName }

// AddAction compiles one action. With a nil declare the action takes no arguments and is rendered
// without parameters. A non-nil declare that declares nothing fails with ErrNoParameters.
// Adding an action with an existing name replaces it in place.
func (s *ActionSchemas) AddAction(name, description string, declare func(*ParameterBuilder)) error {
	if declare == nil {
		return s.AddParameters(name, description, nil)
	}
	params, err := BuildParameters(Object, declare)
	if err != nil {
		return withAction(err, name)
	}
	if params.Len() == 0 {
		return &SchemaError{Action: name, Err: ErrNoParameters}
	}
	return s.AddParameters(name, description, params)
}

// AddParameters registers an action from an already built root node (nil for no arguments).
// The node must be an object with at least one property.
func (s *ActionSchemas) AddParameters(name, description string, params *Property) error {
	if name == "" {
		return &SchemaError{Err: ErrMissingName}
	}
	if !actionNamePattern.MatchString(name) {
		return &SchemaError{Action: name, Err: ErrInvalidName}
	}
	if description == "" {
		return &SchemaError{Action: name, Err: ErrMissingDescription}
	}
	action := &Action{
		Name:          name,
		QualifiedName: QualifiedName(s.toolName, name),
		Description:   description,
	}
	if params != nil {
		if params.Type != Object {
			return &SchemaError{Action: name, Err: ErrInvalidType}
		}
		if params.Len() == 0 {
			return &SchemaError{Action: name, Err: ErrNoParameters}
		}
		resolved, err := compileParameters(params)
		if err != nil {
			return fmt.Errorf("compile parameters of action %q: %w", name, err)
		}
		action.Parameters = params
		action.validator = resolved
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions.Set(name, action)
	return nil
}

// Action returns the compiled action with the given (unqualified) name.
func (s *ActionSchemas) Action(name string) (*Action, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actions.Get(name)
}

// Lookup resolves a qualified name ("{tool}__{action}") to an action of this registry.
func (s *ActionSchemas) Lookup(qualifiedName string) (*Action, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for pair := s.actions.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.QualifiedName == qualifiedName {
			return pair.Value, true
		}
	}
	return nil, false
}

// Actions returns all compiled actions in declaration order.
func (s *ActionSchemas) Actions() []*Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Action, 0, s.actions.Len())
	for pair := s.actions.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of compiled actions.
func (s *ActionSchemas) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actions.Len()
}

// withAction stamps the action name on a SchemaError produced by the parameter builder.
func withAction(err error, action string) error {
	var se *SchemaError
	if errors.As(err, &se) && se.Action == "" {
		return &SchemaError{Action: action, Path: se.Path, Err: se.Err}
	}
	return err
}
