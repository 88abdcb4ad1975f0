package microstate

import (
	"fmt"
	"sort"
)

// Constructor instantiates a type with a raw value. Composite constructors
// return a map[string]any of fields; nested schemas appear as *Type values.
// Called with nil, a constructor yields the blank instance used to discover
// the type's shape.
type Constructor func(value any) (any, error)

// Transition computes the next value for a node from its collapsed substate.
// Returning a *Node replaces the node's value with the node's Value().
type Transition func(ctx *Context, substate any, args ...any) (any, error)

// Type is an immutable schema descriptor: a default field shape, a
// constructor and a set of declared transitions.
type Type struct {
	name        string
	primitive   bool
	fields      map[string]any
	fallback    any
	construct   Constructor
	transitions map[string]Transition
}

// TypeOption configures a Type during NewType.
type TypeOption func(*Type)

// NewType builds a schema. Without options the type is a composite with no
// fields.
func NewType(name string, opts ...TypeOption) *Type {
	t := &Type{
		name:        name,
		fields:      map[string]any{},
		transitions: map[string]Transition{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// WithFields declares default fields. Values that are *Type declare nested
// schemas; anything else is a leaf default.
func WithFields(fields map[string]any) TypeOption {
	return func(t *Type) {
		for key, value := range fields {
			t.fields[key] = value
		}
	}
}

// WithField declares a single default field.
func WithField(key string, value any) TypeOption {
	return func(t *Type) {
		t.fields[key] = value
	}
}

// WithConstructor replaces the default constructor.
func WithConstructor(fn Constructor) TypeOption {
	return func(t *Type) {
		t.construct = fn
	}
}

// WithTransition registers fn under name. Registering "set" overrides the
// built-in set transition.
func WithTransition(name string, fn Transition) TypeOption {
	return func(t *Type) {
		if name == "" || fn == nil {
			return
		}
		t.transitions[name] = fn
	}
}

// AsPrimitive flags the type as primitive: its state is the constructed value
// itself and it is never merged with raw data.
func AsPrimitive() TypeOption {
	return func(t *Type) {
		t.primitive = true
	}
}

// WithDefault sets the value a primitive's default constructor produces when
// the raw value is nil.
func WithDefault(value any) TypeOption {
	return func(t *Type) {
		t.fallback = value
	}
}

// Name returns the type name.
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

func (t *Type) String() string {
	if t == nil || t.name == "" {
		return "<anonymous>"
	}
	return t.name
}

// Primitive reports whether t is flagged primitive.
func (t *Type) Primitive() bool {
	return t != nil && t.primitive
}

// Construct instantiates t with value.
func (t *Type) Construct(value any) (any, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if t.construct != nil {
		return t.construct(value)
	}
	if t.primitive {
		if value == nil {
			return t.fallback, nil
		}
		return value, nil
	}
	return copyFields(t.fields), nil
}

// Transitions returns every transition t declares, including the built-in
// set transition unless overridden.
func (t *Type) Transitions() map[string]Transition {
	if t == nil {
		return nil
	}
	out := make(map[string]Transition, len(t.transitions)+1)
	out["set"] = setTransition
	for name, fn := range t.transitions {
		out[name] = fn
	}
	return out
}

// TransitionNames returns declared transition names sorted alphabetically.
func (t *Type) TransitionNames() []string {
	transitions := t.Transitions()
	names := make([]string, 0, len(transitions))
	for name := range transitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func setTransition(_ *Context, _ any, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("set expects exactly one argument, got %d", len(args))
	}
	return args[0], nil
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	return out
}

// schemaFields splits a blank instance into nested schemas, in sorted key
// order.
func schemaFields(instance any) ([]string, map[string]*Type) {
	fields, ok := instance.(map[string]any)
	if !ok {
		return nil, nil
	}
	var keys []string
	children := map[string]*Type{}
	for key, value := range fields {
		child, ok := value.(*Type)
		if !ok || child == nil {
			continue
		}
		keys = append(keys, key)
		children[key] = child
	}
	sort.Strings(keys)
	return keys, children
}
