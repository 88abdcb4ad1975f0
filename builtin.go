package microstate

// Built-in types. Their transitions are expr-lang expressions sharing one
// program cache.
var (
	builtinCache     = NewMemoryProgramCache()
	builtinEvaluator = NewExprEvaluator(ExprWithProgramCache(builtinCache))

	// Number is a primitive defaulting to 0.
	Number = NewType("Number",
		AsPrimitive(),
		WithDefault(0),
		WithTransition("increment", ExprTransition(builtinEvaluator, "state + 1")),
		WithTransition("decrement", ExprTransition(builtinEvaluator, "state - 1")),
		WithTransition("sum", ExprTransition(builtinEvaluator, "state + args[0]")),
		WithTransition("subtract", ExprTransition(builtinEvaluator, "state - args[0]")),
	)

	// String is a primitive defaulting to "".
	String = NewType("String",
		AsPrimitive(),
		WithDefault(""),
		WithTransition("concat", ExprTransition(builtinEvaluator, "state + args[0]")),
	)

	// Boolean is a primitive defaulting to false.
	Boolean = NewType("Boolean",
		AsPrimitive(),
		WithDefault(false),
		WithTransition("toggle", ExprTransition(builtinEvaluator, "!state")),
	)

	// Any is a primitive holding whatever value it is given.
	Any = NewType("Any", AsPrimitive())
)
