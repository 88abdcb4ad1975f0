package microstate

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-microstate/internal/tree"
	"github.com/goliatone/go-microstate/layering"
	"github.com/goliatone/go-microstate/pkg/lens"
)

// Analyze derives the microstate tree for t and value and returns its root.
//
// value is deep-copied once so later changes by the caller cannot reach the
// tree. Schema discovery runs eagerly; values, states and transitions are
// computed on access.
func Analyze(t *Type, value any, opts ...Option) (*Node, error) {
	return analyze(t, layering.Clone(value), applyOptions(opts), nil)
}

// analysis is the state shared by every node of one derived tree.
type analysis struct {
	id        string
	rootType  *Type
	rootValue any
	cfg       config
	states    *tree.Tree[stateNode]
	nodes     *tree.Tree[*Node]
	origin    *Trace
}

func analyze(t *Type, value any, cfg config, origin *Trace) (*Node, error) {
	start := time.Now()
	a := &analysis{
		id:        uuid.NewString(),
		rootType:  t,
		rootValue: value,
		cfg:       cfg,
	}
	if origin != nil {
		trace := *origin
		trace.NextTreeID = a.id
		a.origin = &trace
	}

	types, err := analyzeType(t, lens.Path{}, nil)
	if err != nil {
		cfg.logEvent(LogEvent{
			Kind:     EventAnalyze,
			Type:     t.Name(),
			TreeID:   a.id,
			Duration: time.Since(start),
			Err:      err,
		})
		return nil, err
	}
	values := analyzeValues(types, value)
	a.states = analyzeStates(values, cfg.precedence)
	a.nodes = analyzeTransitions(a.states, a)

	cfg.logEvent(LogEvent{
		Kind:     EventAnalyze,
		Type:     t.Name(),
		TreeID:   a.id,
		Duration: time.Since(start),
	})
	return a.nodes.Data(), nil
}

type typeNode struct {
	typ  *Type
	path lens.Path
}

// analyzeType discovers the schema tree by constructing each type with no
// value and descending into every field holding a nested *Type.
func analyzeType(t *Type, path lens.Path, ancestors []*Type) (*tree.Tree[typeNode], error) {
	if t == nil {
		return nil, wrapSchemaError(PhaseDiscover, "", path.String(), ErrNilType)
	}
	for _, ancestor := range ancestors {
		if ancestor == t {
			return nil, wrapSchemaError(PhaseDiscover, t.Name(), path.String(), fmt.Errorf("%w: %s", ErrSchemaCycle, t))
		}
	}

	blank, err := t.Construct(nil)
	if err != nil {
		return nil, wrapSchemaError(PhaseDiscover, t.Name(), path.String(), err)
	}

	keys, fields := schemaFields(blank)
	lineage := append(ancestors[:len(ancestors):len(ancestors)], t)
	children := make(map[string]*tree.Tree[typeNode], len(keys))
	for _, key := range keys {
		child, err := analyzeType(fields[key], path.Append(key), lineage)
		if err != nil {
			return nil, err
		}
		children[key] = child
	}
	return tree.New(typeNode{typ: t, path: path}, children), nil
}

type valueNode struct {
	typeNode
	root any
}

// value re-reads the node's slice of the captured root on every call.
func (n valueNode) value() any {
	return lens.View(n.path.Lens(), n.root)
}

func analyzeValues(types *tree.Tree[typeNode], root any) *tree.Tree[valueNode] {
	return tree.Map(types, func(n typeNode) valueNode {
		return valueNode{typeNode: n, root: root}
	})
}

type stateNode struct {
	valueNode
	precedence Precedence
}

// state instantiates the node's type with its value. Composite state is a
// fresh map of the instance fields reconciled with the raw value fields;
// nested schema markers are dropped.
func (n stateNode) state() (any, error) {
	value := n.value()
	instance, err := n.typ.Construct(value)
	if err != nil {
		return nil, wrapSchemaError(PhaseInstantiate, n.typ.Name(), n.path.String(), err)
	}
	if n.typ.Primitive() {
		return instance, nil
	}

	var fields map[string]any
	if instance != nil {
		typed, ok := instance.(map[string]any)
		if !ok {
			return nil, wrapSchemaError(PhaseInstantiate, n.typ.Name(), n.path.String(), fmt.Errorf("%w: got %T", ErrInvalidInstance, instance))
		}
		fields = withoutSchemas(typed)
	}

	raw, _ := value.(map[string]any)
	if len(raw) == 0 {
		return layering.MergeFields(fields), nil
	}
	return reconcile(fields, raw, n.precedence), nil
}

func analyzeStates(values *tree.Tree[valueNode], precedence Precedence) *tree.Tree[stateNode] {
	return tree.Map(values, func(n valueNode) stateNode {
		return stateNode{valueNode: n, precedence: precedence}
	})
}

func analyzeTransitions(states *tree.Tree[stateNode], a *analysis) *tree.Tree[*Node] {
	return tree.Map(states, func(n stateNode) *Node {
		return &Node{stateNode: n, analysis: a}
	})
}

// reconcile merges instance and raw value fields according to precedence.
func reconcile(instance, raw map[string]any, precedence Precedence) map[string]any {
	if precedence == PrecedenceInstance {
		return layering.MergeFields(instance, raw)
	}
	return layering.MergeFields(raw, instance)
}

func withoutSchemas(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		if _, ok := value.(*Type); ok {
			continue
		}
		out[key] = value
	}
	return out
}
