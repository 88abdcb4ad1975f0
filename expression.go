package microstate

import "fmt"

// ExprTransition returns a Transition whose body is expression, evaluated on
// every call. A nil evaluator uses the expr-lang engine.
//
// The expression sees state (the collapsed substate), value (the node's raw
// value), args, path, now, and each field of a map state by name.
func ExprTransition(evaluator Evaluator, expression string) Transition {
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}
	return func(ctx *Context, substate any, args ...any) (any, error) {
		return evaluator.Evaluate(evalContext(ctx, substate, args), expression)
	}
}

// CompileTransition compiles expression once and returns a Transition that
// reuses the program. A nil evaluator uses the expr-lang engine.
func CompileTransition(evaluator Evaluator, expression string) (Transition, error) {
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}
	compiled, err := evaluator.Compile(expression)
	if err != nil {
		return nil, err
	}
	if compiled == nil {
		return nil, fmt.Errorf("%w: compile %q returned no program", ErrNoEvaluator, expression)
	}
	return func(ctx *Context, substate any, args ...any) (any, error) {
		return compiled.Evaluate(evalContext(ctx, substate, args))
	}, nil
}

func evalContext(ctx *Context, substate any, args []any) EvalContext {
	evalCtx := EvalContext{
		State: substate,
		Args:  append([]any(nil), args...),
	}
	if ctx != nil {
		evalCtx.Value = ctx.Value()
		evalCtx.Path = ctx.Path().String()
	}
	return evalCtx
}
