package microstate

import (
	"context"
	"log/slog"
	"time"
)

// Event kinds reported to a Logger.
const (
	EventAnalyze    = "analyze"
	EventTransition = "transition"
)

// LogEvent describes an analysis or transition for logging. Context is the
// one configured with WithContext.
type LogEvent struct {
	Context    context.Context
	Kind       string
	Type       string
	Path       string
	Transition string
	TreeID     string
	NextTreeID string
	Duration   time.Duration
	Err        error
}

// Logger records engine events.
type Logger interface {
	LogEvent(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogEvent implements Logger.
func (f LoggerFunc) LogEvent(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogEvent(LogEvent) {}

// WithLogger attaches a logger to the analysis and every tree derived from it.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// SlogLogger emits events to a slog.Logger. Failures log at error level,
// everything else at debug.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger; a nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

// LogEvent implements Logger.
func (l *SlogLogger) LogEvent(event LogEvent) {
	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("type", event.Type),
		slog.String("path", event.Path),
		slog.String("tree_id", event.TreeID),
		slog.Duration("duration", event.Duration),
	}
	if event.Transition != "" {
		attrs = append(attrs, slog.String("transition", event.Transition))
	}
	if event.NextTreeID != "" {
		attrs = append(attrs, slog.String("next_tree_id", event.NextTreeID))
	}
	if event.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}
	ctx := event.Context
	if ctx == nil {
		ctx = context.Background()
	}
	l.logger.LogAttrs(ctx, level, "microstate."+event.Kind, attrs...)
}
