package event

// Log is the ordered, append-only history of a session. It is owned by a
// single goroutine and performs no locking.
type Log struct {
	events []Event
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds e to the end of the log.
func (l *Log) Append(e Event) {
	l.events = append(l.events, e)
}

// Clear drops every entry.
func (l *Log) Clear() {
	clear(l.events)
	l.events = l.events[:0]
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.events) }

// At returns the entry at index i.
func (l *Log) At(i int) Event { return l.events[i] }

// Snapshot returns a copy of the current entries in log order.
func (l *Log) Snapshot() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}
