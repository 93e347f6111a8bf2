package dispatch

type config struct {
	once bool
}

// Option changes how a listener is registered with [Target.AddListener].
type Option func(conf *config)

// Once registers a listener that is removed automatically before it's called for the first time.
func Once() Option {
	return func(conf *config) {
		conf.once = true
	}
}

// IsOnce reports whether opts include [Once].
// This lets layers on top of a [Target] keep their own bookkeeping in step with automatic removal.
func IsOnce(opts ...Option) bool {
	var conf config
	for _, opt := range opts {
		opt(&conf)
	}
	return conf.once
}
