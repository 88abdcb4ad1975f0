package microstate

import "github.com/goliatone/go-microstate/pkg/activity"

// WithActivityHooks attaches hooks notified after every transition. Nil
// entries are dropped.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	normalized := activity.CompactHooks(activity.Hooks(hooks))
	return func(cfg *config) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel sets the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *config) {
		cfg.activityChannel = channel
	}
}

// emitTransition reports a transition to the configured hooks. Hook failures
// are logged and never fail the transition.
func emitTransition(cfg config, trace Trace, err error) {
	emitter := cfg.emitter()
	if !emitter.Enabled() {
		return
	}
	input := activity.TransitionEventInput{
		TraceID:    trace.ID,
		TreeID:     trace.TreeID,
		NextTreeID: trace.NextTreeID,
		Path:       trace.Path,
		Transition: trace.Transition,
		Type:       trace.Type,
		NextType:   trace.NextType,
		Previous:   trace.Previous,
		Next:       trace.Next,
		Err:        err,
		OccurredAt: trace.OccurredAt,
	}
	event := activity.BuildTransitionEvent(input)
	if err != nil {
		event = activity.BuildTransitionFailedEvent(input)
	}
	if hookErr := emitter.Emit(cfg.context(), event); hookErr != nil {
		cfg.logEvent(LogEvent{
			Kind:       EventTransition,
			Type:       trace.Type,
			Path:       trace.Path,
			Transition: trace.Transition,
			TreeID:     trace.TreeID,
			NextTreeID: trace.NextTreeID,
			Err:        hookErr,
		})
	}
}
