// Package metrics provides Prometheus metrics for the touch recorder.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iburimskiy/touch-recorder/internal/event"
	"github.com/iburimskiy/touch-recorder/internal/render"
)

// Manager owns the recorder metrics. A nil or disabled Manager records
// nothing, so callers never need to check.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Recording
	eventsRecorded *prometheus.CounterVec

	// Rendering
	marksDrawn       *prometheus.CounterVec
	marksSuppressed  prometheus.Counter
	transitionsDrawn prometheus.Counter
	framesPresented  prometheus.Counter

	// Log output
	logEncodes       *prometheus.CounterVec
	logEncodeLatency prometheus.Histogram

	// Failures
	settingsRejected  prometheus.Counter
	imageLoadFailures prometheus.Counter
	saveFailures      prometheus.Counter
}

// NewManager creates a manager registering on its own registry unless one
// is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "touchrec",
		subsystem:        "session",
		histogramBuckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		enabled:          true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_recorded_total",
		Help:      "Events appended to the log by kind and action",
	}, []string{"kind", "action"})

	m.marksDrawn = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "marks_drawn_total",
		Help:      "Pressure rings drawn by style",
	}, []string{"style"})

	m.marksSuppressed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "marks_suppressed_total",
		Help:      "Marks skipped because they overlapped the previous mark of the same pointer",
	})

	m.transitionsDrawn = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transitions_drawn_total",
		Help:      "Lines drawn between consecutive samples of a pointer",
	})

	m.framesPresented = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_presented_total",
		Help:      "Frames presented by the visualization engine",
	})

	m.logEncodes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "log_encodes_total",
		Help:      "Event log encodings by destination and format",
	}, []string{"destination", "human_readable"})

	m.logEncodeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "log_encode_milliseconds",
		Help:      "Time spent encoding the full event log",
		Buckets:   m.histogramBuckets,
	})

	m.settingsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settings_rejected_total",
		Help:      "Numeric preferences that could not be used",
	})

	m.imageLoadFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_load_failures_total",
		Help:      "Background images that failed to decode",
	})

	m.saveFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "save_failures_total",
		Help:      "Log saves that failed",
	})
}

func (m *Manager) on() bool { return m != nil && m.enabled }

// EventRecorded counts an appended event.
func (m *Manager) EventRecorded(e event.Event) {
	if !m.on() {
		return
	}
	action := ""
	if mo, ok := e.Motion(); ok {
		action = mo.Action.String()
	}
	m.eventsRecorded.WithLabelValues(e.Kind().String(), action).Inc()
}

// MarkDrawn implements render.Observer.
func (m *Manager) MarkDrawn(style render.Style) {
	if m.on() {
		m.marksDrawn.WithLabelValues(style.String()).Inc()
	}
}

// MarkSuppressed implements render.Observer.
func (m *Manager) MarkSuppressed() {
	if m.on() {
		m.marksSuppressed.Inc()
	}
}

// TransitionDrawn implements render.Observer.
func (m *Manager) TransitionDrawn() {
	if m.on() {
		m.transitionsDrawn.Inc()
	}
}

// FramePresented implements render.Observer.
func (m *Manager) FramePresented() {
	if m.on() {
		m.framesPresented.Inc()
	}
}

// SettingRejected implements render.Observer.
func (m *Manager) SettingRejected() {
	if m.on() {
		m.settingsRejected.Inc()
	}
}

// LogEncoded records one full log encoding.
func (m *Manager) LogEncoded(destination string, humanReadable bool, latencyMs float64) {
	if !m.on() {
		return
	}
	m.logEncodes.WithLabelValues(destination, strconv.FormatBool(humanReadable)).Inc()
	m.logEncodeLatency.Observe(latencyMs)
}

// ImageLoadFailed counts an undecodable background image.
func (m *Manager) ImageLoadFailed() {
	if m.on() {
		m.imageLoadFailures.Inc()
	}
}

// SaveFailed counts a failed log save.
func (m *Manager) SaveFailed() {
	if m.on() {
		m.saveFailures.Inc()
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
