// Package input turns polled contact positions into pointer-sample events.
//
// The host polls its devices once per frame and passes every contact that
// is currently down. The Tracker compares that set with the previous one
// and emits the motions a touch screen would have reported: DOWN for the
// first contact, POINTER_DOWN and POINTER_UP for further contacts, MOVE
// when any contact moved and UP when the last one lifts.
package input

import (
	"slices"

	"github.com/iburimskiy/touch-recorder/internal/event"
)

// Contact is one device contact seen in a frame. Key identifies the
// contact across frames; it is chosen by the host and never recorded.
type Contact struct {
	Key  int
	X, Y float32
}

// Config sizes a Tracker.
type Config struct {
	Width, Height float32
	// EdgeSlop is the distance from a border within which a DOWN is
	// flagged as crossing that edge.
	EdgeSlop float32
	// Size and Pressure are reported for every contact.
	Size, Pressure float32
	// Capacity bounds the pointer ids handed out. Contacts beyond it are
	// ignored until an id frees up.
	Capacity int
}

type tracked struct {
	key  int
	id   int
	x, y float32
}

// Tracker is not safe for concurrent use.
type Tracker struct {
	cfg    Config
	active []tracked // ordered by id
}

// NewTracker creates a tracker with no active contacts.
func NewTracker(cfg Config) *Tracker {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1
	}
	return &Tracker{cfg: cfg}
}

// Active returns the number of contacts being tracked.
func (t *Tracker) Active() int { return len(t.active) }

// Update compares contacts with the previous frame and returns the
// resulting motions in dispatch order: one MOVE, then releases, then
// presses.
func (t *Tracker) Update(now int64, contacts []Contact) []event.Motion {
	var out []event.Motion

	seen := make(map[int]Contact, len(contacts))
	for _, c := range contacts {
		seen[c.Key] = c
	}

	moved := false
	for i := range t.active {
		c, ok := seen[t.active[i].key]
		if !ok {
			continue
		}
		if c.X != t.active[i].x || c.Y != t.active[i].y {
			t.active[i].x, t.active[i].y = c.X, c.Y
			moved = true
		}
	}
	if moved {
		out = append(out, t.motion(event.ActionMove, now, 0))
	}

	for i := 0; i < len(t.active); {
		if _, ok := seen[t.active[i].key]; ok {
			i++
			continue
		}
		action := event.ActionPointerUp
		if len(t.active) == 1 {
			action = event.ActionUp
		}
		out = append(out, t.motion(action, now, i))
		t.active = slices.Delete(t.active, i, i+1)
	}

	for _, c := range contacts {
		if t.indexOfKey(c.Key) >= 0 {
			continue
		}
		id, ok := t.freeID()
		if !ok {
			continue
		}
		t.active = append(t.active, tracked{key: c.Key, id: id, x: c.X, y: c.Y})
		slices.SortFunc(t.active, func(a, b tracked) int { return a.id - b.id })

		if len(t.active) == 1 {
			m := t.motion(event.ActionDown, now, 0)
			m.Edges = t.edges(c.X, c.Y)
			out = append(out, m)
		} else {
			out = append(out, t.motion(event.ActionPointerDown, now, t.indexOfKey(c.Key)))
		}
	}
	return out
}

func (t *Tracker) motion(action event.Action, now int64, index int) event.Motion {
	pointers := make([]event.Pointer, len(t.active))
	for i, a := range t.active {
		pointers[i] = event.Pointer{
			ID:       a.id,
			X:        a.x,
			Y:        a.y,
			Size:     t.cfg.Size,
			Pressure: t.cfg.Pressure,
		}
	}
	return event.Motion{
		Action:       action,
		PointerIndex: index,
		Time:         now,
		Pointers:     pointers,
	}
}

func (t *Tracker) edges(x, y float32) event.Edge {
	var e event.Edge
	if y < t.cfg.EdgeSlop {
		e |= event.EdgeTop
	}
	if y > t.cfg.Height-t.cfg.EdgeSlop {
		e |= event.EdgeBottom
	}
	if x < t.cfg.EdgeSlop {
		e |= event.EdgeLeft
	}
	if x > t.cfg.Width-t.cfg.EdgeSlop {
		e |= event.EdgeRight
	}
	return e
}

// freeID returns the smallest id not held by an active contact.
func (t *Tracker) freeID() (int, bool) {
	id := 0
	for _, a := range t.active {
		if a.id != id {
			break
		}
		id++
	}
	return id, id < t.cfg.Capacity
}

func (t *Tracker) indexOfKey(key int) int {
	for i, a := range t.active {
		if a.key == key {
			return i
		}
	}
	return -1
}
