// Package microstate derives immutable, navigable state trees from a type
// schema and a plain value.
//
// Analyze walks a *Type and builds one Node per nested schema. Each Node
// exposes the raw value at its path, the materialized state produced by its
// type, and the transitions its type declares. Calling a transition never
// mutates anything: it computes a new root value through a path lens and
// returns a freshly derived tree rooted at the original type.
//
//	counter := microstate.NewType("Counter", microstate.WithField("count", microstate.Number))
//	root, _ := microstate.Analyze(counter, map[string]any{"count": 5})
//	count, _ := root.Child("count")
//	next, _ := count.Transition("increment")
//	next.Value() // map[count:6]
//
// Transitions can be written in Go, as expr, CEL or JS expressions
// (ExprTransition, CompileTransition), or declared in YAML documents loaded
// with LoadDefinitions.
package microstate
