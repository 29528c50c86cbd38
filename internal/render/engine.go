// Package render turns recorded pointer samples into a cumulative trace on
// a persistent Surface.
//
// Every sample becomes a ring ("mark") whose radius follows the contact size
// and whose thick portion follows the pressure. Consecutive samples of one
// pointer are joined by a thin line. A mark whose box overlaps the previous
// mark of the same pointer is skipped, except for the final mark of a
// contact which is always drawn.
package render

import (
	"context"
	"image"

	"github.com/iburimskiy/touch-recorder/internal/event"
	"github.com/iburimskiy/touch-recorder/pkg/logger"
)

// pending is the set of work the next PresentFrame must do.
type pending uint8

const (
	needsClear pending = 1 << iota
	needsImageBlit
	needsEventReplay
)

// Observer receives drawing statistics.
type Observer interface {
	MarkDrawn(style Style)
	MarkSuppressed()
	TransitionDrawn()
	FramePresented()
	SettingRejected()
}

type nopObserver struct{}

func (nopObserver) MarkDrawn(Style)  {}
func (nopObserver) MarkSuppressed()  {}
func (nopObserver) TransitionDrawn() {}
func (nopObserver) FramePresented()  {}
func (nopObserver) SettingRejected() {}

// Engine is the visualization engine. It is not safe for concurrent use.
type Engine struct {
	surface  Surface
	pointers *pointerTable
	cursor   int
	pending  pending

	background image.Image

	radiusPerUnit float32
	maxPressure   float32

	capacity       int
	density        float32
	resetOnRelease bool

	observer Observer
	notify   Notifier
	log      logger.Logger
}

// New creates an engine drawing onto s. The first frame clears the surface.
func New(s Surface, opts ...Option) *Engine {
	e := &Engine{
		surface:       s,
		pending:       needsClear,
		radiusPerUnit: DefaultRadiusPerUnit,
		maxPressure:   DefaultMaxPressure,
		capacity:      DefaultCapacity,
		density:       1,
		observer:      nopObserver{},
		notify:        nopNotifier{},
		log:           logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pointers = newPointerTable(e.capacity)
	return e
}

// ScheduleReplay asks the next frame to draw newly appended events.
func (e *Engine) ScheduleReplay() { e.pending |= needsEventReplay }

// ScheduleClear rewinds the render cursor and asks the next frame to repaint
// the background. Pointer state is kept.
func (e *Engine) ScheduleClear() {
	e.cursor = 0
	e.pending |= needsClear
}

// SetBackground stores img and asks the next frame to blit it beneath any
// further marks. A nil img blits nothing.
func (e *Engine) SetBackground(img image.Image) {
	e.background = img
	e.pending |= needsImageBlit
}

// Background returns the current background image, if any.
func (e *Engine) Background() image.Image { return e.background }

// Cursor returns the index of the first event not yet drawn.
func (e *Engine) Cursor() int { return e.cursor }

// PresentFrame performs all pending work in order (background repaint,
// image blit, event replay) and presents the surface.
func (e *Engine) PresentFrame(ctx context.Context, log *event.Log) {
	work := e.pending
	e.pending = 0

	if work&needsClear != 0 {
		e.surface.ClearToBackground()
	}
	if work&needsImageBlit != 0 && e.background != nil {
		e.surface.BlitImage(e.background, 0, 0)
	}
	if work&needsEventReplay != 0 {
		e.ProcessNewEvents(ctx, log)
	}
	e.surface.Present()
	e.observer.FramePresented()
}

// ProcessNewEvents draws every event from the cursor to the end of log and
// moves the cursor to the end. Image loads are skipped.
func (e *Engine) ProcessNewEvents(ctx context.Context, log *event.Log) {
	if e.cursor > log.Len() {
		e.cursor = 0
	}
	for i := e.cursor; i < log.Len(); i++ {
		m, ok := log.At(i).Motion()
		if !ok {
			continue
		}
		e.visualize(ctx, m)
	}
	e.cursor = log.Len()
}

func (e *Engine) visualize(ctx context.Context, m event.Motion) {
	switch m.Action {
	case event.ActionDown:
		for _, p := range m.Pointers {
			e.drawMark(ctx, p, StyleStart, false)
		}
	case event.ActionMove:
		for i, p := range m.Pointers {
			for _, h := range m.History {
				if i >= len(h.Pointers) {
					continue
				}
				hp := h.Pointers[i]
				hp.ID = p.ID
				e.drawTransition(ctx, hp)
				e.drawMark(ctx, hp, StyleRest, false)
			}
			e.drawTransition(ctx, p)
			e.drawMark(ctx, p, StyleRest, false)
		}
	case event.ActionUp, event.ActionCancel:
		for _, p := range m.Pointers {
			e.drawTransition(ctx, p)
			e.drawMark(ctx, p, StyleEnd, true)
			e.release(p.ID)
		}
	case event.ActionPointerDown:
		if p, ok := m.Origin(); ok {
			e.drawMark(ctx, p, StyleStart, false)
		}
	case event.ActionPointerUp:
		if p, ok := m.Origin(); ok {
			e.drawTransition(ctx, p)
			e.drawMark(ctx, p, StyleEnd, true)
			e.release(p.ID)
		}
	default:
		e.log.Debug(ctx, "action not visualized", logger.String("action", m.Action.String()))
	}
}

func (e *Engine) release(id int) {
	if e.resetOnRelease {
		e.pointers.reset(id)
	}
}

func (e *Engine) drawTransition(ctx context.Context, p event.Pointer) {
	st, ok := e.pointers.slot(p.ID)
	if !ok {
		e.log.Debug(ctx, "pointer id outside tracked range", logger.Int("pointer_id", p.ID))
		return
	}
	e.surface.DrawLine(st.x, st.y, p.X, p.Y, ThinStroke, StyleRest)
	e.observer.TransitionDrawn()
}

// drawMark draws the ring for p unless it overlaps the previous mark of the
// same pointer. always bypasses the overlap test.
func (e *Engine) drawMark(ctx context.Context, p event.Pointer, style Style, always bool) {
	st, ok := e.pointers.slot(p.ID)
	if !ok {
		e.log.Debug(ctx, "pointer id outside tracked range", logger.Int("pointer_id", p.ID))
		return
	}

	radius := max(1.0, p.Size*e.radiusPerUnit)
	bounds := RectAround(p.X, p.Y, radius)

	if always || !bounds.Intersects(st.bounds) {
		// one thousandth of a pressure unit per degree
		angle := min(p.Pressure, e.maxPressure) * (360.0 / e.maxPressure) * 1000.0

		e.surface.DrawArc(bounds, 0, angle, ThickStroke, style)
		if angle < 360.0 {
			e.surface.DrawArc(bounds, angle, 360.0-angle, ThinStroke, style)
		}
		st.bounds = bounds
		e.observer.MarkDrawn(style)
	} else {
		e.observer.MarkSuppressed()
	}

	st.x, st.y = p.X, p.Y
}
