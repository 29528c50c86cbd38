// Package config defines process configuration, its loading, and the user
// preferences the recorder reads at the start of every gesture.
package config

import "context"

const (
	WindowWidth  = 1024
	WindowHeight = 768

	// Maximum number of concurrently tracked pointer ids.
	PointerCapacity = 256

	// Contact size and pressure reported for mouse and touch input that
	// carries neither.
	InputSize     = 0.1
	InputPressure = 1.0

	// Distance in pixels from a screen edge that flags a DOWN as crossing it.
	EdgeSlop = 12

	// Lines scrolled per arrow key press in the log view.
	ScrollStep = 3
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Preferences is the YAML file holding the user preferences. Empty means
	// defaults only.
	Preferences string `koanf:"preferences"`

	// MetricsAddr enables a Prometheus listener, e.g. "127.0.0.1:9464".
	MetricsAddr string `koanf:"metrics_addr"`

	WindowWidth  int `koanf:"window_width"`
	WindowHeight int `koanf:"window_height"`

	// PointerCapacity bounds the pointer ids the renderer tracks.
	PointerCapacity int `koanf:"pointer_capacity"`

	// InputSize and InputPressure are reported for contacts whose device
	// does not measure them.
	InputSize     float64 `koanf:"input_size"`
	InputPressure float64 `koanf:"input_pressure"`

	// EdgeSlop is the edge distance in pixels that sets DOWN edge flags.
	EdgeSlop float64 `koanf:"edge_slop"`

	// ResetOnRelease forgets a pointer's last mark when it lifts instead of
	// letting the next contact with the same id inherit it.
	ResetOnRelease bool `koanf:"reset_on_release"`

	// Feedback plays a click when a contact starts.
	Feedback bool `koanf:"feedback"`

	// FeedbackSound is a wav, mp3 or flac file used instead of the built in tone.
	FeedbackSound string `koanf:"feedback_sound"`
}

// New creates a Config holding the defaults. Context is accepted first to
// follow the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		WindowWidth:     WindowWidth,
		WindowHeight:    WindowHeight,
		PointerCapacity: PointerCapacity,
		InputSize:       InputSize,
		InputPressure:   InputPressure,
		EdgeSlop:        EdgeSlop,
	}
}
