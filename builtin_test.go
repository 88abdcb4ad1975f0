package microstate

import "testing"

func TestBuiltinTypes(t *testing.T) {
	cases := []struct {
		name       string
		typ        *Type
		value      any
		transition string
		args       []any
		want       any
	}{
		{name: "increment", typ: Number, value: 5, transition: "increment", want: 6},
		{name: "increment default", typ: Number, transition: "increment", want: 1},
		{name: "decrement", typ: Number, value: 5, transition: "decrement", want: 4},
		{name: "sum", typ: Number, value: 5, transition: "sum", args: []any{3}, want: 8},
		{name: "subtract", typ: Number, value: 5, transition: "subtract", args: []any{3}, want: 2},
		{name: "concat", typ: String, value: "ab", transition: "concat", args: []any{"c"}, want: "abc"},
		{name: "concat default", typ: String, transition: "concat", args: []any{"x"}, want: "x"},
		{name: "toggle", typ: Boolean, transition: "toggle", want: true},
		{name: "toggle true", typ: Boolean, value: true, transition: "toggle", want: false},
		{name: "set any", typ: Any, value: 1, transition: "set", args: []any{"z"}, want: "z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := mustAnalyze(t, tc.typ, tc.value).Transition(tc.transition, tc.args...)
			if err != nil {
				t.Fatalf("%s failed: %v", tc.transition, err)
			}
			if got := mustState(t, next); got != tc.want {
				t.Fatalf("expected %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestBuiltinsShareProgramCache(t *testing.T) {
	root := mustAnalyze(t, Number, 1)
	for i := 0; i < 3; i++ {
		next, err := root.Transition("increment")
		if err != nil {
			t.Fatalf("increment failed: %v", err)
		}
		root = next
	}
	if got := mustState(t, root); got != 4 {
		t.Fatalf("expected 4, got %#v", got)
	}
	if builtinCache.Len() == 0 {
		t.Fatalf("expected builtin programs to be cached")
	}
}

func TestTypeMetadata(t *testing.T) {
	if Number.Name() != "Number" || !Number.Primitive() {
		t.Fatalf("unexpected Number metadata")
	}
	anonymous := NewType("")
	if anonymous.String() != "<anonymous>" || anonymous.Primitive() {
		t.Fatalf("unexpected anonymous type metadata")
	}
	var nilType *Type
	if nilType.Name() != "" || nilType.Transitions() != nil {
		t.Fatalf("nil type helpers should be nil-safe")
	}
	if _, err := nilType.Construct(nil); err != ErrNilType {
		t.Fatalf("expected ErrNilType, got %v", err)
	}
}
