package microstate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilType is returned when a nil *Type is analyzed or registered.
	ErrNilType = errors.New("microstate: type must not be nil")
	// ErrSchemaCycle indicates a type that nests itself.
	ErrSchemaCycle = errors.New("microstate: schema cycle")
	// ErrInvalidInstance indicates a composite constructor that did not produce
	// a field map.
	ErrInvalidInstance = errors.New("microstate: composite constructor must return map[string]any")
	// ErrUnknownTransition is returned when a transition name is not declared
	// by the node's type.
	ErrUnknownTransition = errors.New("microstate: unknown transition")
	// ErrUnknownType is returned by registries for undeclared type names.
	ErrUnknownType = errors.New("microstate: unknown type")
	// ErrNoEvaluator indicates an expression transition without an evaluator.
	ErrNoEvaluator = errors.New("microstate: evaluator not configured")
	// ErrUnknownFunction is returned when an expression calls a function the
	// registry does not hold.
	ErrUnknownFunction = errors.New("microstate: unknown function")
)

// Schema construction phases.
const (
	PhaseDiscover    = "discover"
	PhaseInstantiate = "instantiate"
)

// SchemaError reports a failure while constructing a type, either while
// discovering its blank shape or while instantiating it with a value.
type SchemaError struct {
	Type  string
	Path  string
	Phase string
	Err   error
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("microstate: %s %s %s: %v", e.Phase, describeType(e.Type), describePath(e.Path), e.Err)
}

func (e *SchemaError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TransitionError reports a failure raised by transition logic.
type TransitionError struct {
	Type       string
	Path       string
	Transition string
	Err        error
}

func (e *TransitionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("microstate: transition %q on %s %s: %v", e.Transition, describeType(e.Type), describePath(e.Path), e.Err)
}

func (e *TransitionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Path   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("microstate: %s evaluator %s %s: %v", e.Engine, describeExpression(e.Expr), describePath(e.Path), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeType(name string) string {
	if name == "" {
		return "type=<anonymous>"
	}
	return "type=" + name
}

func describePath(path string) string {
	if path == "" {
		return "path=<root>"
	}
	return fmt.Sprintf("path=%q", path)
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapSchemaError(phase, typeName, path string, err error) error {
	if err == nil {
		return nil
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return err
	}
	return &SchemaError{Type: typeName, Path: path, Phase: phase, Err: err}
}

func wrapTransitionError(typeName, path, name string, err error) error {
	if err == nil {
		return nil
	}
	var transitionErr *TransitionError
	if errors.As(err, &transitionErr) && transitionErr.Path == path && transitionErr.Transition == name {
		return err
	}
	return &TransitionError{Type: typeName, Path: path, Transition: name, Err: err}
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "microstate:") {
		return err
	}
	return fmt.Errorf("microstate: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, path string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Path == "" {
			evalErr.Path = path
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Path:   path,
		Err:    err,
	}
}
