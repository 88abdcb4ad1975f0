package microstate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Function is a host function callable from expression transitions, either
// by name or through call(name, ...args).
type Function func(args ...any) (any, error)

// reservedNames are expression bindings a function may not shadow.
var reservedNames = map[string]struct{}{
	"state": {},
	"value": {},
	"args":  {},
	"path":  {},
	"now":   {},
	"call":  {},
}

// FunctionRegistry holds the host functions shared by the expression
// evaluators. Names are case-insensitive and stored lower-cased.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: make(map[string]Function)}
}

// Register exposes fn to transitions under name. The name must be an
// identifier, must not shadow an expression binding and must be unique.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if err := checkFunctionName(key); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("microstate: transition function %q has no implementation", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("microstate: transition function %q registered twice", name)
	}
	r.functions[key] = fn
	return nil
}

func checkFunctionName(name string) error {
	if name == "" {
		return fmt.Errorf("microstate: transition function needs a name")
	}
	if _, reserved := reservedNames[name]; reserved {
		return fmt.Errorf("microstate: transition function %q shadows an expression binding", name)
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return fmt.Errorf("microstate: transition function %q is not an identifier", name)
	}
	return nil
}

// Clone copies the registry so an evaluator keeps the functions it was built
// with even if the caller registers more later.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &FunctionRegistry{functions: make(map[string]Function, len(r.functions))}
	for name, fn := range r.functions {
		out.functions[name] = fn
	}
	return out
}

// Call runs the function registered as name. Unknown names fail with
// ErrUnknownFunction.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	var fn Function
	if r != nil {
		r.mu.RLock()
		fn = r.functions[strings.ToLower(name)]
		r.mu.RUnlock()
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return fn(args...)
}

// Names lists the registered functions in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
