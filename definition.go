package microstate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Engines accepted by the definition document's engine key.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// DefinitionOption configures LoadDefinitions.
type DefinitionOption func(*definitionConfig)

type definitionConfig struct {
	registry  *FunctionRegistry
	cache     ProgramCache
	evaluator Evaluator
}

// WithDefinitionFunctions exposes registry functions to every expression in
// the document.
func WithDefinitionFunctions(registry *FunctionRegistry) DefinitionOption {
	return func(cfg *definitionConfig) {
		cfg.registry = registry
	}
}

// WithDefinitionProgramCache shares cache between the document's expressions.
func WithDefinitionProgramCache(cache ProgramCache) DefinitionOption {
	return func(cfg *definitionConfig) {
		cfg.cache = cache
	}
}

// WithDefinitionEvaluator overrides the engine named in the document.
func WithDefinitionEvaluator(evaluator Evaluator) DefinitionOption {
	return func(cfg *definitionConfig) {
		cfg.evaluator = evaluator
	}
}

type definitionDocument struct {
	Engine string                    `mapstructure:"engine"`
	Types  map[string]typeDefinition `mapstructure:"types"`
}

type typeDefinition struct {
	Primitive   bool              `mapstructure:"primitive"`
	Default     any               `mapstructure:"default"`
	Fields      map[string]any    `mapstructure:"fields"`
	Children    map[string]string `mapstructure:"children"`
	Transitions map[string]string `mapstructure:"transitions"`
}

// Registry holds the types declared by a definition document.
type Registry struct {
	types map[string]*Type
}

// Lookup returns the named type. Built-in types resolve when the document
// does not shadow them.
func (r *Registry) Lookup(name string) (*Type, bool) {
	if r != nil {
		if t, ok := r.types[name]; ok {
			return t, true
		}
	}
	t, ok := builtinTypes()[name]
	return t, ok
}

// MustLookup is like Lookup but panics for unknown names.
func (r *Registry) MustLookup(name string) *Type {
	t, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownType, name))
	}
	return t
}

// Names lists the document's type names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func builtinTypes() map[string]*Type {
	return map[string]*Type{
		Number.Name():  Number,
		String.Name():  String,
		Boolean.Name(): Boolean,
		Any.Name():     Any,
	}
}

// LoadDefinitions parses a YAML document of named types:
//
//	engine: expr
//	types:
//	  Counter:
//	    fields: {label: clicks}
//	    children: {count: Number}
//	    transitions:
//	      reset: "{'label': label, 'count': 0}"
//
// Children reference other document types or the built-ins. Unknown
// references fail with ErrUnknownType and self-nesting with ErrSchemaCycle.
func LoadDefinitions(data []byte, opts ...DefinitionOption) (*Registry, error) {
	cfg := definitionConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("microstate: parse definitions: %w", err)
	}
	var doc definitionDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("microstate: decode definitions: %w", err)
	}

	evaluator, err := cfg.resolveEvaluator(doc.Engine)
	if err != nil {
		return nil, err
	}
	if err := checkReferences(doc.Types); err != nil {
		return nil, err
	}

	registry := &Registry{types: make(map[string]*Type, len(doc.Types))}
	for _, name := range sortedKeys(doc.Types) {
		def := doc.Types[name]
		typeOpts := []TypeOption{WithFields(def.Fields)}
		if def.Primitive {
			typeOpts = append(typeOpts, AsPrimitive(), WithDefault(def.Default))
		}
		for _, transition := range sortedKeys(def.Transitions) {
			fn, err := CompileTransition(evaluator, def.Transitions[transition])
			if err != nil {
				return nil, fmt.Errorf("microstate: type %s transition %s: %w", name, transition, err)
			}
			typeOpts = append(typeOpts, WithTransition(transition, fn))
		}
		registry.types[name] = NewType(name, typeOpts...)
	}

	for name, def := range doc.Types {
		t := registry.types[name]
		for field, ref := range def.Children {
			t.fields[field] = registry.MustLookup(ref)
		}
	}
	return registry, nil
}

func (cfg definitionConfig) resolveEvaluator(engine string) (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	cache := cfg.cache
	if cache == nil {
		cache = NewMemoryProgramCache()
	}
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineExpr:
		return NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(cfg.registry)), nil
	case EngineCEL:
		return NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(cfg.registry)), nil
	case EngineJS:
		evaluator := NewJSEvaluator(JSWithProgramCache(cache), JSWithFunctionRegistry(cfg.registry))
		if evaluator == nil {
			return nil, fmt.Errorf("%w: js engine requires the js_eval build tag", ErrNoEvaluator)
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("%w: unsupported engine %q", ErrNoEvaluator, engine)
	}
}

// checkReferences validates child references and rejects types that nest
// themselves, directly or through other document types.
func checkReferences(defs map[string]typeDefinition) error {
	builtins := builtinTypes()
	for _, name := range sortedKeys(defs) {
		def := defs[name]
		if def.Primitive && len(def.Children) > 0 {
			return fmt.Errorf("microstate: type %s: primitive types cannot declare children", name)
		}
		for _, field := range sortedKeys(def.Children) {
			ref := def.Children[field]
			_, local := defs[ref]
			if _, builtin := builtins[ref]; !local && !builtin {
				return fmt.Errorf("%w: %q referenced by %s.%s", ErrUnknownType, ref, name, field)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(defs))
	var visit func(name string, trail []string) error
	visit = func(name string, trail []string) error {
		def, ok := defs[name]
		if !ok {
			return nil
		}
		switch marks[name] {
		case visiting:
			return fmt.Errorf("%w: %s", ErrSchemaCycle, strings.Join(append(trail, name), " -> "))
		case done:
			return nil
		}
		marks[name] = visiting
		trail = append(trail[:len(trail):len(trail)], name)
		for _, field := range sortedKeys(def.Children) {
			if err := visit(def.Children[field], trail); err != nil {
				return err
			}
		}
		marks[name] = done
		return nil
	}
	for _, name := range sortedKeys(defs) {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
