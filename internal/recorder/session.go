// Package recorder owns one recording session: the event log, the engine
// drawing it and the text outputs produced from it.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/iburimskiy/touch-recorder/internal/codec"
	"github.com/iburimskiy/touch-recorder/internal/event"
	"github.com/iburimskiy/touch-recorder/internal/render"
	"github.com/iburimskiy/touch-recorder/pkg/logger"
)

// Log destinations, used as metric labels.
const (
	DestView  = "view"
	DestSave  = "save"
	DestDebug = "debug"
)

// ErrSaveLog wraps every failed save.
var ErrSaveLog = errors.New("save log")

// Settings is everything the session reads from the preference store.
type Settings interface {
	render.Dimensions
	ViewHumanReadable() bool
	SaveHumanReadable() bool
	DebugHumanReadable() bool
}

// FileSystem decodes background images and writes saved logs.
type FileSystem interface {
	DecodeImage(path string) (image.Image, error)
	WriteText(path, content string) error
}

// Clock reports monotonic milliseconds.
type Clock interface {
	NowMillis() int64
}

// Feedback is told about every new contact.
type Feedback interface {
	Touch()
}

// Metrics is the session's metric sink. *metrics.Manager satisfies it.
type Metrics interface {
	EventRecorded(e event.Event)
	LogEncoded(destination string, humanReadable bool, latencyMs float64)
	ImageLoadFailed()
	SaveFailed()
}

type startClock struct{ start time.Time }

func (c startClock) NowMillis() int64 { return time.Since(c.start).Milliseconds() }

type nopFeedback struct{}

func (nopFeedback) Touch() {}

type nopMetrics struct{}

func (nopMetrics) EventRecorded(event.Event)        {}
func (nopMetrics) LogEncoded(string, bool, float64) {}
func (nopMetrics) ImageLoadFailed()                 {}
func (nopMetrics) SaveFailed()                      {}

// Session is not safe for concurrent use; the host calls it from its
// update loop only.
type Session struct {
	id       uuid.UUID
	log      *event.Log
	engine   *render.Engine
	settings Settings
	files    FileSystem
	clock    Clock
	feedback Feedback
	metrics  Metrics
	logger   logger.Logger
}

// New creates a session drawing through engine.
func New(engine *render.Engine, settings Settings, files FileSystem, opts ...Option) *Session {
	s := &Session{
		id:       uuid.New(),
		log:      event.NewLog(),
		engine:   engine,
		settings: settings,
		files:    files,
		clock:    startClock{start: time.Now()},
		feedback: nopFeedback{},
		metrics:  nopMetrics{},
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID identifies the session in logs and default file names.
func (s *Session) ID() uuid.UUID { return s.id }

// Len returns the number of recorded events.
func (s *Session) Len() int { return s.log.Len() }

// Now returns the session clock in milliseconds.
func (s *Session) Now() int64 { return s.clock.NowMillis() }

// HandleMotion records m and schedules it for drawing. Sizing settings are
// re-read when a gesture starts.
func (s *Session) HandleMotion(ctx context.Context, m event.Motion) error {
	if err := m.Validate(); err != nil {
		s.logger.Warn(ctx, "motion rejected", logger.String("action", m.Action.String()), logger.Error(err))
		return err
	}

	e := event.NewMotionEvent(m)
	s.logger.Debug(ctx, "motion", logger.String("event", codec.EncodeEvent(e, s.settings.DebugHumanReadable())))

	if m.Action == event.ActionDown {
		s.engine.RefreshSettings(ctx, s.settings)
	}
	if m.Action == event.ActionDown || m.Action == event.ActionPointerDown {
		s.feedback.Touch()
	}

	s.log.Append(e)
	s.metrics.EventRecorded(e)
	s.engine.ScheduleReplay()
	return nil
}

// LoadImage records the load and makes the decoded image the background.
// The load is recorded even if decoding fails; the background is then blank
// and the error is returned.
func (s *Session) LoadImage(ctx context.Context, path string) error {
	img, err := s.files.DecodeImage(path)
	if err != nil {
		img = nil
	}

	e := event.NewImageLoadEvent(path, s.clock.NowMillis())
	s.log.Append(e)
	s.metrics.EventRecorded(e)
	s.engine.SetBackground(img)

	if err != nil {
		s.metrics.ImageLoadFailed()
		s.logger.Warn(ctx, "background image not decoded", logger.String("file", path), logger.Error(err))
		return fmt.Errorf("load image %s: %w", path, err)
	}
	s.logger.Info(ctx, "background image loaded",
		logger.String("file", path),
		logger.Int("width", img.Bounds().Dx()),
		logger.Int("height", img.Bounds().Dy()))
	return nil
}

// Clear empties the log and repaints the background on the next frame.
func (s *Session) Clear(ctx context.Context) {
	n := s.log.Len()
	s.log.Clear()
	s.engine.ScheduleClear()
	s.logger.Info(ctx, "log cleared", logger.Int("events", n))
}

// ViewLog encodes the log for on-screen display.
func (s *Session) ViewLog(ctx context.Context) string {
	return s.encode(ctx, DestView, s.settings.ViewHumanReadable())
}

// DebugDump encodes the log in the debug format.
func (s *Session) DebugDump(ctx context.Context) string {
	return s.encode(ctx, DestDebug, s.settings.DebugHumanReadable())
}

// SaveLog writes the encoded log to path. A failed save leaves path as it
// was.
func (s *Session) SaveLog(ctx context.Context, path string) error {
	text := s.encode(ctx, DestSave, s.settings.SaveHumanReadable())
	if err := s.files.WriteText(path, text); err != nil {
		s.metrics.SaveFailed()
		s.logger.Error(ctx, "log not saved", logger.String("file", path), logger.Error(err))
		return fmt.Errorf("%w to %s: %w", ErrSaveLog, path, err)
	}
	s.logger.Info(ctx, "log saved",
		logger.String("file", path),
		logger.Int("events", s.log.Len()),
		logger.Int("bytes", len(text)))
	return nil
}

// PresentFrame draws pending work and presents the surface.
func (s *Session) PresentFrame(ctx context.Context) {
	s.engine.PresentFrame(ctx, s.log)
}

func (s *Session) encode(ctx context.Context, dest string, human bool) string {
	start := time.Now()
	text := codec.Encode(s.log.Snapshot(), human)
	ms := float64(time.Since(start).Microseconds()) / 1000
	s.metrics.LogEncoded(dest, human, ms)
	s.logger.Debug(ctx, "log encoded",
		logger.String("destination", dest),
		logger.Bool("human_readable", human),
		logger.Int("events", s.log.Len()),
		logger.Float64("latency_ms", ms))
	return text
}
