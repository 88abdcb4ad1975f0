package microstate

import (
	"encoding/json"
	"time"
)

// Trace records one transition: where it ran, what it replaced and which tree
// it produced.
type Trace struct {
	ID         string    `json:"id"`
	TreeID     string    `json:"tree_id"`
	NextTreeID string    `json:"next_tree_id,omitempty"`
	Path       string    `json:"path"`
	Transition string    `json:"transition"`
	Type       string    `json:"type,omitempty"`
	NextType   string    `json:"next_type,omitempty"`
	Args       []any     `json:"args,omitempty"`
	Previous   any       `json:"previous,omitempty"`
	Next       any       `json:"next,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

func (t Trace) clone() Trace {
	out := t
	if len(t.Args) > 0 {
		out.Args = append([]any(nil), t.Args...)
	}
	return out
}
