// Package activity fans out microstate activity (transitions and their
// failures) to pluggable hooks.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Event is one transition outcome as seen by hooks. ObjectID is the dotted
// path of the transitioned node; the trace details live in Metadata.
type Event struct {
	Verb       string
	ActorID    string
	UserID     string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Valid reports whether the event names a verb and an object.
func (e Event) Valid() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// Path returns the node path recorded in Metadata ("" for the root).
func (e Event) Path() string {
	path, _ := e.Metadata["path"].(string)
	return path
}

// Transition returns the transition name recorded in Metadata.
func (e Event) Transition() string {
	name, _ := e.Metadata["transition"].(string)
	return name
}

// Failed reports whether the event describes a failed transition.
func (e Event) Failed() bool {
	return e.Verb == VerbTransitionFailed
}

// ActivityHook receives transition events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify calls fn; a nil HookFunc ignores the event.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks is an ordered set of hooks notified together.
type Hooks []ActivityHook

// Enabled reports whether there are any hooks to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify normalizes event and hands it to every hook in order. Invalid events
// are dropped. A failing hook does not stop the others; failures are joined
// and tagged with the verb and node they were reported for.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}
	normalized := NormalizeEvent(event)
	if !normalized.Valid() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, fmt.Errorf("activity: %s hook for %q: %w", normalized.Verb, normalized.ObjectID, err))
		}
	}
	return errors.Join(errs...)
}

// NormalizeEvent trims identifiers, copies metadata and stamps OccurredAt, so
// hooks may keep or mutate the event freely.
func NormalizeEvent(event Event) Event {
	trim := strings.TrimSpace
	out := event
	out.Verb = trim(event.Verb)
	out.ActorID = trim(event.ActorID)
	out.UserID = trim(event.UserID)
	out.TenantID = trim(event.TenantID)
	out.ObjectType = trim(event.ObjectType)
	out.ObjectID = trim(event.ObjectID)
	out.Channel = trim(event.Channel)
	out.Metadata = cloneMap(event.Metadata)
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now()
	}
	return out
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
