package activity

import (
	"strings"
	"time"
)

const (
	// VerbTransitioned marks a transition that produced a new tree.
	VerbTransitioned = "microstate.transitioned"
	// VerbTransitionFailed marks a transition whose logic returned an error.
	VerbTransitionFailed = "microstate.transition_failed"
	// ObjectTypeNode is the object type of transition events.
	ObjectTypeNode = "microstate.node"
)

// TransitionEventInput carries the fields shared by transition events.
type TransitionEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	TraceID    string
	TreeID     string
	NextTreeID string
	Path       string
	Transition string
	Type       string
	NextType   string
	Previous   any
	Next       any
	Err        error
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildTransitionEvent constructs the event for a successful transition.
func BuildTransitionEvent(input TransitionEventInput) Event {
	return buildTransitionEvent(VerbTransitioned, input)
}

// BuildTransitionFailedEvent constructs the event for a failed transition.
func BuildTransitionFailedEvent(input TransitionEventInput) Event {
	return buildTransitionEvent(VerbTransitionFailed, input)
}

func buildTransitionEvent(verb string, input TransitionEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	set("path", input.Path)
	if input.Transition != "" {
		set("transition", input.Transition)
	}
	if input.Type != "" {
		set("type", input.Type)
	}
	if input.NextType != "" && input.NextType != input.Type {
		set("next_type", input.NextType)
	}
	if input.TraceID != "" {
		set("trace_id", input.TraceID)
	}
	if input.TreeID != "" {
		set("tree_id", input.TreeID)
	}
	if input.NextTreeID != "" {
		set("next_tree_id", input.NextTreeID)
	}
	if input.Previous != nil {
		set("previous", input.Previous)
	}
	if input.Next != nil {
		set("next", input.Next)
	}
	if input.Err != nil {
		set("error", input.Err.Error())
	}

	objectID := strings.TrimSpace(input.Path)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Type)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.TreeID)
	}
	if objectID == "" {
		objectID = ObjectTypeNode
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeNode,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
