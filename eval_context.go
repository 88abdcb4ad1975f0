package microstate

import "time"

// EvalContext carries the inputs of an expression transition.
type EvalContext struct {
	State any
	Value any
	Args  []any
	Path  string
	Now   *time.Time
}

func (ctx EvalContext) withDefaults() EvalContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = []any{}
	}
	return ctx
}

// bindings names the variables visible to expressions. Fields of a map state
// are bound individually unless they collide with a reserved name.
func (ctx EvalContext) bindings() map[string]any {
	ctx = ctx.withDefaults()
	env := map[string]any{
		"state": ctx.State,
		"value": ctx.Value,
		"args":  ctx.Args,
		"path":  ctx.Path,
		"now":   *ctx.Now,
	}
	if fields, ok := ctx.State.(map[string]any); ok {
		for key, value := range fields {
			if _, reserved := env[key]; reserved {
				continue
			}
			env[key] = value
		}
	}
	return env
}

// Evaluator executes expressions against an EvalContext.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string) (CompiledExpression, error)
}

// CompiledExpression is a reusable expression program.
type CompiledExpression interface {
	Evaluate(ctx EvalContext) (any, error)
}
