package node

import (
	"github.com/saylorsolutions/eventnode/clock"
	"go.opentelemetry.io/otel/metric"
	"log/slog"
)

type config struct {
	name     string
	log      *slog.Logger
	clock    clock.Clock
	meter    metric.Meter
	parent   *Node
	debounce []DebounceOption
}

// Option configures a [Node] created with [New].
type Option func(conf *config)

// WithName sets the name the [Node] is logged with.
// A random name is used by default.
func WithName(name string) Option {
	return func(conf *config) {
		conf.name = name
	}
}

// WithLogger sets the logger for the [Node].
// The default logger discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(conf *config) {
		conf.log = log
	}
}

// WithClock sets the [clock.Clock] used for debouncing.
// This is mostly useful for testing with a [clock.Mock].
func WithClock(c clock.Clock) Option {
	return func(conf *config) {
		conf.clock = c
	}
}

// WithMeter sets the OpenTelemetry meter used to record atomic queue metrics.
// Metrics are not recorded by default.
func WithMeter(meter metric.Meter) Option {
	return func(conf *config) {
		conf.meter = meter
	}
}

// WithParent sets the initial parent used for bubbling.
func WithParent(parent *Node) Option {
	return func(conf *config) {
		conf.parent = parent
	}
}

// WithDebounceDefaults changes the defaults used by [Node.ListenDebounce] on this [Node].
// They're applied on top of [DefaultDebounce] and any environment overrides.
func WithDebounceDefaults(opts ...DebounceOption) Option {
	return func(conf *config) {
		conf.debounce = append(conf.debounce, opts...)
	}
}
