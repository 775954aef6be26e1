package hart

import (
	"log/slog"

	"github.com/hart-dev/hart/pkg/scheduler"
	"github.com/hart-dev/hart/pkg/telemetry"
)

// Observer receives a description of every finished render pass. The
// pass, including its Ops, must not be retained after the call returns
// unless copied.
type Observer interface {
	ObservePass(p *telemetry.Pass)
}

// ObserverFunc adapts an ordinary function to the Observer interface.
type ObserverFunc func(p *telemetry.Pass)

// ObservePass implements Observer.
func (f ObserverFunc) ObservePass(p *telemetry.Pass) { f(p) }

// Config configures an App.
type Config struct {
	// Name identifies the App in logs and spans.
	// Default: "hart".
	Name string

	// Logger is the structured logger for render passes.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Scheduler defers effects and unmount callbacks. It must run tasks
	// after the current render pass returns.
	// If nil, the App uses its own queue, drained by Flush.
	Scheduler scheduler.Scheduler

	// FlushOnRender drains the App's own queue at the end of every
	// successful Render. Ignored when Scheduler is set.
	FlushOnRender bool

	// Tracer wraps every pass in a span. If nil, passes are not traced.
	Tracer *telemetry.Tracer

	// Observers are notified after every pass, in order.
	Observers []Observer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name: "hart",
	}
}

// Option configures an App.
type Option func(*Config)

// WithConfig replaces the whole configuration. Options after it still
// apply on top.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithName sets the App name.
func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithScheduler sets the scheduler used for effects and unmounts.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(c *Config) {
		c.Scheduler = s
	}
}

// WithFlushOnRender drains the App's own queue after every Render.
func WithFlushOnRender() Option {
	return func(c *Config) {
		c.FlushOnRender = true
	}
}

// WithMetrics records every pass in m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Config) {
		c.Observers = append(c.Observers, m)
	}
}

// WithTracer traces every pass with t.
func WithTracer(t *telemetry.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}

// WithRecorder notifies o after every pass, e.g. an oplog.Recorder.
func WithRecorder(o Observer) Option {
	return func(c *Config) {
		c.Observers = append(c.Observers, o)
	}
}
