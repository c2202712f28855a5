package actionkit

import (
	"context"
	"fmt"
	"sync"
)

// ActionFunc handles one action call. args has already been validated against the action's schema.
type ActionFunc func(ctx context.Context, args map[string]any) (any, error)

// Toolbox is the stock Tool implementation: it owns the tool's ActionSchemas and dispatches
// Execute to the handler registered for each action. Embed it (or hold it) in a tool type:
//
//	type Weather struct{ *actionkit.Toolbox }
//
//	func NewWeather() (*Weather, error) {
//		w := &Weather{Toolbox: actionkit.NewToolboxFor(Weather{})}
//		err := w.DefineAction("get_current", "Current weather for a city", w.current,
//			func(b *actionkit.ParameterBuilder) {
//				b.Property("city", actionkit.String, actionkit.Required())
//			})
//		return w, err
//	}
type Toolbox struct {
	name     string
	schemas  *ActionSchemas
	mu       sync.RWMutex
	handlers map[string]ActionFunc
}

// NewToolbox creates an empty Toolbox with the given canonical name.
func NewToolbox(name string) *Toolbox {
	return &Toolbox{
		name:     name,
		schemas:  NewActionSchemas(name),
		handlers: make(map[string]ActionFunc),
	}
}

// NewToolboxFor creates an empty Toolbox named after owner (see CanonicalName).
func NewToolboxFor(owner any) *Toolbox {
	return NewToolbox(CanonicalName(owner))
}

func (t *Toolbox) Name() string            { return t.name }
func (t *Toolbox) Schemas() *ActionSchemas { return t.schemas }

// DefineAction declares an action and binds its handler. declare may be nil for an action
// without arguments. Schema mistakes are returned as *SchemaError.
func (t *Toolbox) DefineAction(name, description string, fn ActionFunc, declare func(*ParameterBuilder)) error {
	if fn == nil {
		return fmt.Errorf("action %q: handler must not be nil", name)
	}
	if err := t.schemas.AddAction(name, description, declare); err != nil {
		return err
	}
	t.bind(name, fn)
	return nil
}

func (t *Toolbox) bind(name string, fn ActionFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[name] = fn
}

// Execute validates args against the action schema and runs the handler. Handler errors that are
// not ClientError are wrapped as SystemError.
func (t *Toolbox) Execute(ctx context.Context, action string, args map[string]any) (any, error) {
	a, ok := t.schemas.Action(action)
	t.mu.RLock()
	fn := t.handlers[action]
	t.mu.RUnlock()
	if !ok || fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, QualifiedName(t.name, action))
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := a.ValidateArguments(args); err != nil {
		return nil, err
	}
	res, err := fn(ctx, args)
	if err != nil {
		return nil, wrapHandlerError(err)
	}
	return res, nil
}

var _ Tool = (*Toolbox)(nil)
