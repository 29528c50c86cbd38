// Package event holds the recorded session data: decoded pointer samples,
// image loads and the append-only log they are stored in.
package event

import (
	"errors"
	"fmt"
)

// Action is the primary classification of a pointer sample.
type Action int

const (
	ActionDown Action = iota
	ActionUp
	ActionMove
	ActionCancel
	ActionOutside
	ActionPointerDown
	ActionPointerUp
)

// String returns the name used in the text log. Codes outside the known
// range render as UNKNOWN.
func (a Action) String() string {
	switch a {
	case ActionDown:
		return "DOWN"
	case ActionUp:
		return "UP"
	case ActionMove:
		return "MOVE"
	case ActionCancel:
		return "CANCEL"
	case ActionOutside:
		return "OUTSIDE"
	case ActionPointerDown:
		return "POINTER_DOWN"
	case ActionPointerUp:
		return "POINTER_UP"
	default:
		return "UNKNOWN"
	}
}

// Edge is a set of screen edges crossed by a DOWN sample.
type Edge uint8

const (
	EdgeTop Edge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// Has reports whether every flag in f is set.
func (e Edge) Has(f Edge) bool { return e&f == f && f != 0 }

// Pointer is one contact inside a sample.
type Pointer struct {
	ID       int
	X        float32
	Y        float32
	Size     float32
	Pressure float32
}

// Sample is a coalesced sub-sample of a MOVE. It carries one entry per
// pointer of the enclosing Motion, in the same order.
type Sample struct {
	Time     int64
	Pointers []Pointer
}

// Motion is one decoded contact report.
type Motion struct {
	Action Action
	// Edges is only meaningful for ActionDown.
	Edges Edge
	// PointerIndex is the slot index of the originating pointer for
	// ActionPointerDown and ActionPointerUp.
	PointerIndex int
	Time         int64
	Pointers     []Pointer
	// History is ordered oldest first.
	History []Sample
}

var (
	ErrNoPointers          = errors.New("motion has no pointers")
	ErrHistoryWidth        = errors.New("history sample pointer count mismatch")
	ErrPointerIndexInvalid = errors.New("pointer index out of range")
)

// Validate checks the structural invariants of a motion.
func (m Motion) Validate() error {
	if len(m.Pointers) == 0 {
		return ErrNoPointers
	}
	for h, s := range m.History {
		if len(s.Pointers) != len(m.Pointers) {
			return fmt.Errorf("%w: history %d has %d pointers, want %d",
				ErrHistoryWidth, h, len(s.Pointers), len(m.Pointers))
		}
	}
	if m.Action == ActionPointerDown || m.Action == ActionPointerUp {
		if m.PointerIndex < 0 || m.PointerIndex >= len(m.Pointers) {
			return fmt.Errorf("%w: %d of %d", ErrPointerIndexInvalid, m.PointerIndex, len(m.Pointers))
		}
	}
	return nil
}

// Origin returns the pointer that caused a POINTER_DOWN or POINTER_UP.
func (m Motion) Origin() (Pointer, bool) {
	if m.PointerIndex < 0 || m.PointerIndex >= len(m.Pointers) {
		return Pointer{}, false
	}
	return m.Pointers[m.PointerIndex], true
}

// ImageLoad records that a background image was loaded.
type ImageLoad struct {
	FileName string
	LoadTime int64
}

// Kind tells which variant an Event holds.
type Kind int

const (
	KindMotion Kind = iota
	KindImageLoad
)

func (k Kind) String() string {
	switch k {
	case KindMotion:
		return "motion"
	case KindImageLoad:
		return "image"
	default:
		return "unknown"
	}
}

// Event is exactly one of Motion or ImageLoad.
type Event struct {
	kind   Kind
	motion Motion
	image  ImageLoad
}

// NewMotionEvent wraps a pointer sample.
func NewMotionEvent(m Motion) Event {
	return Event{kind: KindMotion, motion: m}
}

// NewImageLoadEvent wraps an image load.
func NewImageLoadEvent(fileName string, loadTime int64) Event {
	return Event{kind: KindImageLoad, image: ImageLoad{FileName: fileName, LoadTime: loadTime}}
}

func (e Event) Kind() Kind { return e.kind }

// Motion returns the pointer sample and true if e holds one.
func (e Event) Motion() (Motion, bool) {
	return e.motion, e.kind == KindMotion
}

// ImageLoad returns the image load and true if e holds one.
func (e Event) ImageLoad() (ImageLoad, bool) {
	return e.image, e.kind == KindImageLoad
}
