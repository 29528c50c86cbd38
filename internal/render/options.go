package render

import "github.com/iburimskiy/touch-recorder/pkg/logger"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCapacity sets how many pointer ids are tracked.
func WithCapacity(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.capacity = n
		}
	}
}

// WithDensity sets the display density the radius setting is scaled by.
func WithDensity(d float32) Option {
	return func(e *Engine) {
		if d > 0 {
			e.density = d
		}
	}
}

// WithResetOnRelease forgets a pointer's last position and box once it
// lifts, so a later contact reusing the id starts clean.
func WithResetOnRelease(enabled bool) Option {
	return func(e *Engine) {
		e.resetOnRelease = enabled
	}
}

// WithObserver sets the sink for drawing statistics.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithNotifier sets where user visible warnings go.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notify = n
		}
	}
}
