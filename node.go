package microstate

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-microstate/internal/tree"
	"github.com/goliatone/go-microstate/layering"
	"github.com/goliatone/go-microstate/pkg/lens"
)

// TransitionFunc invokes a bound transition and returns the re-derived root.
type TransitionFunc func(args ...any) (*Node, error)

// Node is one addressable location of a derived tree. A root Node is a
// microstate: a type paired with a value.
//
// Nodes are immutable. Value, State, Collapsed and Transitions recompute on
// every call from the root value captured by Analyze.
type Node struct {
	stateNode
	analysis *analysis
}

// Type returns the schema governing the node.
func (n *Node) Type() *Type {
	return n.typ
}

// Path returns the node's address from the root.
func (n *Node) Path() lens.Path {
	return n.path.Clone()
}

// Value returns the raw sub-value at the node's path, or nil when the root
// value holds nothing there.
func (n *Node) Value() any {
	return n.value()
}

// State returns the materialized domain object at the node's path.
func (n *Node) State() (any, error) {
	return n.state()
}

// Collapsed returns the node's state with every nested schema field replaced
// by that child's collapsed state. Children are collapsed before the parent
// merge.
func (n *Node) Collapsed() (any, error) {
	sub, ok := n.analysis.states.At(n.keys())
	if !ok {
		return n.state()
	}
	return tree.Reduce(sub, func(s stateNode, children map[string]any) (any, error) {
		state, err := s.state()
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return state, nil
		}
		fields, ok := state.(map[string]any)
		if !ok {
			return state, nil
		}
		return layering.MergeFields(children, fields), nil
	})
}

// Transitions returns a callable for every transition the node's type
// declares. Each call computes a new root value and re-derives the whole tree
// from the root type.
func (n *Node) Transitions() map[string]TransitionFunc {
	declared := n.typ.Transitions()
	out := make(map[string]TransitionFunc, len(declared))
	for name, method := range declared {
		out[name] = n.bind(name, method)
	}
	return out
}

// Transition invokes the named transition with args.
func (n *Node) Transition(name string, args ...any) (*Node, error) {
	method, ok := n.typ.Transitions()[name]
	if !ok {
		return nil, wrapTransitionError(n.typ.Name(), n.path.String(), name, fmt.Errorf("%w: %q", ErrUnknownTransition, name))
	}
	return n.bind(name, method)(args...)
}

// Child returns the nested schema node stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	return n.At(key)
}

// At returns the node addressed by keys relative to n.
func (n *Node) At(keys ...string) (*Node, bool) {
	path := append(n.keys(), keys...)
	sub, ok := n.analysis.nodes.At(path)
	if !ok {
		return nil, false
	}
	return sub.Data(), true
}

// Keys lists the field names of nested schema children.
func (n *Node) Keys() []string {
	sub, ok := n.analysis.nodes.At(n.keys())
	if !ok {
		return nil
	}
	return sub.Keys()
}

// Children returns nested schema nodes in key order.
func (n *Node) Children() []*Node {
	keys := n.Keys()
	out := make([]*Node, 0, len(keys))
	for _, key := range keys {
		if child, ok := n.Child(key); ok {
			out = append(out, child)
		}
	}
	return out
}

// Root returns the root node of the tree n belongs to.
func (n *Node) Root() *Node {
	return n.analysis.nodes.Data()
}

// TreeID identifies the Analyze call that produced n.
func (n *Node) TreeID() string {
	return n.analysis.id
}

// Origin returns the trace of the transition that produced this tree.
func (n *Node) Origin() (Trace, bool) {
	if n.analysis.origin == nil {
		return Trace{}, false
	}
	return n.analysis.origin.clone(), true
}

func (n *Node) keys() []string {
	keys := make([]string, 0, len(n.path))
	for _, key := range n.path {
		keys = append(keys, fmt.Sprint(key))
	}
	return keys
}

func (n *Node) bind(name string, method Transition) TransitionFunc {
	return func(args ...any) (*Node, error) {
		return n.invoke(name, method, args)
	}
}

func (n *Node) invoke(name string, method Transition, args []any) (*Node, error) {
	start := time.Now()
	cfg := n.analysis.cfg
	trace := Trace{
		ID:         uuid.NewString(),
		TreeID:     n.analysis.id,
		Path:       n.path.String(),
		Transition: name,
		Type:       n.typ.Name(),
		Args:       append([]any(nil), args...),
		Previous:   n.Value(),
		OccurredAt: start,
	}

	next, err := n.apply(method, args, &trace)
	event := LogEvent{
		Kind:       EventTransition,
		Type:       trace.Type,
		Path:       trace.Path,
		Transition: name,
		TreeID:     trace.TreeID,
		Duration:   time.Since(start),
		Err:        err,
	}
	if next != nil {
		event.NextTreeID = next.TreeID()
		if origin, ok := next.Origin(); ok {
			trace = origin
		}
	}
	cfg.logEvent(event)
	emitTransition(cfg, trace, err)

	if err != nil {
		return nil, err
	}
	return next, nil
}

// apply runs method against the collapsed substate, writes its result at the
// node's path in the original root value and re-derives from the root type.
func (n *Node) apply(method Transition, args []any, trace *Trace) (*Node, error) {
	substate, err := n.Collapsed()
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		typ:   n.typ,
		value: n.Value(),
		path:  n.path.Clone(),
		cfg:   n.analysis.cfg,
	}
	result, err := method(ctx, layering.Clone(substate), args...)
	if err != nil {
		return nil, wrapTransitionError(trace.Type, trace.Path, trace.Transition, err)
	}

	nextType := n.typ
	nextValue := result
	if ms, ok := result.(*Node); ok {
		// A nil microstate clears the node's value.
		nextValue = nil
		if ms != nil {
			nextValue = ms.Value()
			nextType = ms.Type()
		}
	}
	trace.Next = nextValue
	trace.NextType = nextType.Name()

	nextRoot := lens.Set(n.path.Lens(), nextValue, n.analysis.rootValue)
	return analyze(n.analysis.rootType, nextRoot, n.analysis.cfg, trace)
}
