package render

// DefaultCapacity is the number of pointer ids tracked.
const DefaultCapacity = 256

// offscreen is far outside any real surface so a fresh slot never
// suppresses the first mark drawn into it.
const offscreen float32 = -100

type pointerState struct {
	x, y   float32
	bounds Rect
}

var idleState = pointerState{
	x:      offscreen,
	y:      offscreen,
	bounds: Rect{Left: offscreen, Top: offscreen, Right: offscreen, Bottom: offscreen},
}

// pointerTable holds the last drawn position and box per pointer id.
type pointerTable struct {
	slots []pointerState
}

func newPointerTable(capacity int) *pointerTable {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	t := &pointerTable{slots: make([]pointerState, capacity)}
	for i := range t.slots {
		t.slots[i] = idleState
	}
	return t
}

func (t *pointerTable) slot(id int) (*pointerState, bool) {
	if id < 0 || id >= len(t.slots) {
		return nil, false
	}
	return &t.slots[id], true
}

func (t *pointerTable) reset(id int) {
	if s, ok := t.slot(id); ok {
		*s = idleState
	}
}
