package microstate

import (
	"testing"
	"time"
)

func TestTraceJSONRoundTrip(t *testing.T) {
	trace := Trace{
		ID:         "trace-1",
		TreeID:     "tree-1",
		NextTreeID: "tree-2",
		Path:       "inner",
		Transition: "increment",
		Type:       "Counter",
		NextType:   "Counter",
		Args:       []any{"x"},
		Previous:   1.0,
		Next:       2.0,
		OccurredAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.ID != trace.ID || decoded.Path != trace.Path || decoded.NextTreeID != trace.NextTreeID {
		t.Fatalf("unexpected trace %+v", decoded)
	}
	if decoded.Previous != 1.0 || decoded.Next != 2.0 || !decoded.OccurredAt.Equal(trace.OccurredAt) {
		t.Fatalf("unexpected values %+v", decoded)
	}
	if len(decoded.Args) != 1 || decoded.Args[0] != "x" {
		t.Fatalf("unexpected args %v", decoded.Args)
	}

	if _, err := TraceFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected malformed payload to fail")
	}
}

func TestTraceArgsAreCopied(t *testing.T) {
	args := []any{1}
	root := mustAnalyze(t, NewType("Adder", AsPrimitive(), WithDefault(0),
		WithTransition("add", func(_ *Context, substate any, args ...any) (any, error) {
			return substate.(int) + args[0].(int), nil
		}),
	), 1)

	next, err := root.Transition("add", args...)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	args[0] = 100
	trace, _ := next.Origin()
	if trace.Args[0] != 1 {
		t.Fatalf("trace args aliased caller slice: %v", trace.Args)
	}
	again, _ := next.Origin()
	again.Args[0] = 5
	if trace, _ := next.Origin(); trace.Args[0] != 1 {
		t.Fatalf("Origin returned shared args")
	}
}
