package microstate

import (
	"context"

	"github.com/goliatone/go-microstate/pkg/activity"
)

// Precedence selects which side wins when a composite type's instance and the
// raw value both define a field.
type Precedence int

const (
	// PrecedenceValue lets raw value fields override instance fields.
	PrecedenceValue Precedence = iota
	// PrecedenceInstance lets constructed instance fields override raw value
	// fields.
	PrecedenceInstance
)

func (p Precedence) String() string {
	switch p {
	case PrecedenceValue:
		return "value"
	case PrecedenceInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Option configures an Analyze call. Options are carried into every tree a
// transition produces.
type Option func(*config)

type config struct {
	logger          Logger
	precedence      Precedence
	activityHooks   activity.Hooks
	activityChannel string
	ctx             context.Context
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithPrecedence configures field precedence for composite state.
func WithPrecedence(p Precedence) Option {
	return func(cfg *config) {
		cfg.precedence = p
	}
}

// WithContext sets the context handed to activity hooks.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		cfg.ctx = ctx
	}
}

func (cfg config) context() context.Context {
	if cfg.ctx != nil {
		return cfg.ctx
	}
	return context.Background()
}

func (cfg config) eventLogger() Logger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return noopLogger{}
}

// logEvent stamps the configured context on event before logging it.
func (cfg config) logEvent(event LogEvent) {
	if event.Context == nil {
		event.Context = cfg.context()
	}
	cfg.eventLogger().LogEvent(event)
}

func (cfg config) emitter() *activity.Emitter {
	return activity.NewEmitter(cfg.activityHooks, activity.Config{
		Enabled: len(cfg.activityHooks) > 0,
		Channel: cfg.activityChannel,
	})
}
