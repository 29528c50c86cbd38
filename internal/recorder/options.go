package recorder

import (
	"github.com/google/uuid"

	"github.com/iburimskiy/touch-recorder/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithClock sets the time source for image-load events.
func WithClock(c Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithFeedback sets what is told about new contacts.
func WithFeedback(f Feedback) Option {
	return func(s *Session) {
		if f != nil {
			s.feedback = f
		}
	}
}

// WithMetrics sets the metric sink.
func WithMetrics(m Metrics) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithID fixes the session id.
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		if id != uuid.Nil {
			s.id = id
		}
	}
}
