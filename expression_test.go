package microstate

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

var evaluatorFactories = []struct {
	name string
	new  func(cache ProgramCache, registry *FunctionRegistry) Evaluator
	// call renders a registry call in the engine's syntax.
	call func(name, arg string) string
}{
	{
		name: "expr",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []ExprEvaluatorOption{}
			if cache != nil {
				opts = append(opts, ExprWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, ExprWithFunctionRegistry(registry))
			}
			return NewExprEvaluator(opts...)
		},
		call: func(name, arg string) string { return fmt.Sprintf("%s(%s)", name, arg) },
	},
	{
		name: "cel",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []CELEvaluatorOption{}
			if cache != nil {
				opts = append(opts, CELWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, CELWithFunctionRegistry(registry))
			}
			return NewCELEvaluator(opts...)
		},
		call: func(name, arg string) string { return fmt.Sprintf("call(%q, [%s])", name, arg) },
	},
	{
		name: "js",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []JSEvaluatorOption{}
			if cache != nil {
				opts = append(opts, JSWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, JSWithFunctionRegistry(registry))
			}
			return NewJSEvaluator(opts...)
		},
		call: func(name, arg string) string { return fmt.Sprintf("call(%q, %s)", name, arg) },
	},
}

type fakeProgramCache struct {
	store  map[string]any
	hits   int
	misses int
}

func (c *fakeProgramCache) Get(key string) (any, bool) {
	if c.store == nil {
		c.store = make(map[string]any)
	}
	value, ok := c.store[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return value, ok
}

func (c *fakeProgramCache) Set(key string, value any) {
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = value
}

func toNumber(t *testing.T, value any) float64 {
	t.Helper()
	switch v := value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		t.Fatalf("expected number, got %T (%v)", value, value)
		return 0
	}
}

func TestEvaluatorsBindings(t *testing.T) {
	cases := []struct {
		name string
		expr string
		ctx  EvalContext
		want float64
	}{
		{name: "state", expr: "state + 1", ctx: EvalContext{State: 2}, want: 3},
		{name: "args", expr: "args[0] * 2", ctx: EvalContext{Args: []any{4}}, want: 8},
		{name: "state fields", expr: "count + 1", ctx: EvalContext{State: map[string]any{"count": 2}}, want: 3},
		{name: "value", expr: "value - state", ctx: EvalContext{State: 2, Value: 10}, want: 8},
	}

	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			evaluator := factory.new(nil, nil)
			if evaluator == nil {
				t.Skip("engine not compiled in")
			}
			for _, tc := range cases {
				t.Run(tc.name, func(t *testing.T) {
					got, err := evaluator.Evaluate(tc.ctx, tc.expr)
					if err != nil {
						t.Fatalf("evaluate failed: %v", err)
					}
					if toNumber(t, got) != tc.want {
						t.Fatalf("expected %v, got %v", tc.want, got)
					}
				})
			}

			matched, err := evaluator.Evaluate(EvalContext{Path: "inner"}, `path == "inner"`)
			if err != nil || matched != true {
				t.Fatalf("expected path binding, got %v (%v)", matched, err)
			}
		})
	}
}

func TestEvaluatorProgramCache(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			cache := &fakeProgramCache{}
			evaluator := factory.new(cache, nil)
			if evaluator == nil {
				t.Skip("engine not compiled in")
			}
			for i := 0; i < 3; i++ {
				if _, err := evaluator.Evaluate(EvalContext{State: i}, "state + 1"); err != nil {
					t.Fatalf("unexpected error on iteration %d: %v", i, err)
				}
			}
			if cache.hits != 2 || cache.misses != 1 {
				t.Fatalf("expected 2 hits and 1 miss, got %d/%d", cache.hits, cache.misses)
			}
		})
	}
}

func TestCustomFunctionsAcrossEvaluators(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("double", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("double expects 1 arg")
		}
		switch v := args[0].(type) {
		case int:
			return v * 2, nil
		case int64:
			return v * 2, nil
		case float64:
			return v * 2, nil
		}
		return nil, fmt.Errorf("double: unsupported %T", args[0])
	}); err != nil {
		t.Fatalf("register double: %v", err)
	}

	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			evaluator := factory.new(nil, registry)
			if evaluator == nil {
				t.Skip("engine not compiled in")
			}
			got, err := evaluator.Evaluate(EvalContext{State: 21}, factory.call("double", "state"))
			if err != nil {
				t.Fatalf("evaluate failed: %v", err)
			}
			if toNumber(t, got) != 42 {
				t.Fatalf("expected 42, got %v", got)
			}
		})
	}
}

func TestEvaluatorErrors(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			evaluator := factory.new(nil, nil)
			if evaluator == nil {
				t.Skip("engine not compiled in")
			}
			if _, err := evaluator.Evaluate(EvalContext{}, ""); err == nil {
				t.Fatalf("expected empty expression to fail")
			}
			if _, err := evaluator.Compile(""); err == nil {
				t.Fatalf("expected empty compile to fail")
			}

			_, err := evaluator.Evaluate(EvalContext{State: 1, Path: "inner"}, "state +")
			var evalErr *EvaluationError
			if !errors.As(err, &evalErr) {
				t.Fatalf("expected EvaluationError, got %v", err)
			}
			if evalErr.Engine != factory.name || evalErr.Expr != "state +" {
				t.Fatalf("unexpected error metadata %+v", evalErr)
			}
		})
	}
}

func TestCompiledExpressions(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			evaluator := factory.new(NewMemoryProgramCache(), nil)
			if evaluator == nil {
				t.Skip("engine not compiled in")
			}
			compiled, err := evaluator.Compile("state * 2")
			if err != nil {
				t.Fatalf("compile failed: %v", err)
			}
			for _, n := range []int{1, 5} {
				got, err := compiled.Evaluate(EvalContext{State: n})
				if err != nil {
					t.Fatalf("evaluate failed: %v", err)
				}
				if toNumber(t, got) != float64(n*2) {
					t.Fatalf("expected %d, got %v", n*2, got)
				}
			}
		})
	}
}

func TestExprTransition(t *testing.T) {
	tripler := NewType("Tripler", AsPrimitive(), WithDefault(1),
		WithTransition("triple", ExprTransition(nil, "state * 3")),
	)
	next, err := mustAnalyze(t, tripler, 2).Transition("triple")
	if err != nil {
		t.Fatalf("triple failed: %v", err)
	}
	if got := mustState(t, next); got != 6 {
		t.Fatalf("expected 6, got %#v", got)
	}

	broken := NewType("Broken", AsPrimitive(), WithTransition("bad", ExprTransition(nil, "state +")))
	_, err = mustAnalyze(t, broken, 1).Transition("bad")
	var evalErr *EvaluationError
	var transitionErr *TransitionError
	if !errors.As(err, &evalErr) || !errors.As(err, &transitionErr) {
		t.Fatalf("expected evaluation error inside transition error, got %v", err)
	}
}

func TestCompileTransition(t *testing.T) {
	toggle, err := CompileTransition(NewCELEvaluator(), "!state")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	flag := NewType("Flag", AsPrimitive(), WithDefault(false), WithTransition("flip", toggle))
	next, err := mustAnalyze(t, flag, nil).Transition("flip")
	if err != nil {
		t.Fatalf("flip failed: %v", err)
	}
	if got := mustState(t, next); got != true {
		t.Fatalf("expected true, got %#v", got)
	}

	_, err = CompileTransition(NewCELEvaluator(), "state +* )")
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != "cel" {
		t.Fatalf("expected cel syntax error at compile time, got %v", err)
	}
	if _, err := CompileTransition(nil, "state +"); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := CompileTransition(nilProgramEvaluator{}, "state"); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
}

type nilProgramEvaluator struct{}

func (nilProgramEvaluator) Evaluate(EvalContext, string) (any, error) { return nil, nil }

func (nilProgramEvaluator) Compile(string) (CompiledExpression, error) { return nil, nil }

func TestEvalContextBindings(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	env := EvalContext{
		State: map[string]any{"state": "shadow", "count": 1},
		Now:   &now,
	}.bindings()

	if _, ok := env["state"].(map[string]any); !ok {
		t.Fatalf("reserved state binding must not be shadowed, got %#v", env["state"])
	}
	if env["count"] != 1 || env["now"] != now {
		t.Fatalf("unexpected bindings %#v", env)
	}
	if args, ok := env["args"].([]any); !ok || len(args) != 0 {
		t.Fatalf("expected empty args, got %#v", env["args"])
	}

	defaults := EvalContext{}.withDefaults()
	if defaults.Now == nil || defaults.Now.IsZero() {
		t.Fatalf("expected Now to default")
	}
}

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	echo := func(args ...any) (any, error) { return args, nil }

	if err := registry.Register("Echo", echo); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := registry.Register("echo", echo); err == nil {
		t.Fatalf("expected case-insensitive duplicate to fail")
	}
	if err := registry.Register("", echo); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := registry.Register("nil", nil); err == nil {
		t.Fatalf("expected nil function to fail")
	}

	got, err := registry.Call("ECHO", 1, 2)
	if err != nil || !reflect.DeepEqual(got, []any{1, 2}) {
		t.Fatalf("unexpected call result %v (%v)", got, err)
	}
	if _, err := registry.Call("missing"); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
	for _, name := range []string{"state", "CALL", "1st", "two words", "a-b"} {
		if err := registry.Register(name, echo); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}

	clone := registry.Clone()
	if err := clone.Register("other", echo); err != nil {
		t.Fatalf("register on clone failed: %v", err)
	}
	if !reflect.DeepEqual(registry.Names(), []string{"echo"}) {
		t.Fatalf("clone leaked into original: %v", registry.Names())
	}
	if !reflect.DeepEqual(clone.Names(), []string{"echo", "other"}) {
		t.Fatalf("unexpected clone names %v", clone.Names())
	}

	var nilRegistry *FunctionRegistry
	if nilRegistry.Clone() != nil || nilRegistry.Names() != nil {
		t.Fatalf("nil registry helpers should be nil-safe")
	}
	if _, err := nilRegistry.Call("echo"); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction from nil registry, got %v", err)
	}
}

func TestMemoryProgramCache(t *testing.T) {
	cache := NewMemoryProgramCache()
	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected empty cache")
	}
	cache.Set("a", 1)
	cache.Set("a", 2)
	if got, ok := cache.Get("a"); !ok || got != 2 {
		t.Fatalf("unexpected cached value %v", got)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", cache.Len())
	}
}
