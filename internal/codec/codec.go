// Package codec renders the event log as text.
//
// Two grammars share one data model: a compact one with every field on a
// single line per event, and a human readable one with one indented line per
// pointer and unit suffixes. Both carry the same values in the same order.
// There is no decoder.
package codec

import (
	"io"
	"strconv"
	"strings"

	"github.com/iburimskiy/touch-recorder/internal/event"
)

const indent = "        "

// Encode concatenates the encoding of every event in log order.
func Encode(events []event.Event, humanReadable bool) string {
	var b strings.Builder
	for _, e := range events {
		encodeEvent(&b, e, humanReadable)
	}
	return b.String()
}

// EncodeEvent encodes a single event, including its trailing newline.
func EncodeEvent(e event.Event, humanReadable bool) string {
	var b strings.Builder
	encodeEvent(&b, e, humanReadable)
	return b.String()
}

// Write streams the encoding of events to w.
func Write(w io.Writer, events []event.Event, humanReadable bool) error {
	var b strings.Builder
	for _, e := range events {
		b.Reset()
		encodeEvent(&b, e, humanReadable)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func encodeEvent(b *strings.Builder, e event.Event, human bool) {
	if m, ok := e.Motion(); ok {
		encodeMotion(b, m, human)
		return
	}
	if img, ok := e.ImageLoad(); ok {
		encodeImage(b, img, human)
	}
}

func encodeImage(b *strings.Builder, img event.ImageLoad, human bool) {
	b.WriteString("Image ")
	b.WriteString(img.FileName)
	if human {
		b.WriteByte('\n')
		b.WriteString(indent)
	} else {
		b.WriteByte(' ')
	}
	b.WriteString("At ")
	b.WriteString(strconv.FormatInt(img.LoadTime, 10))
	if human {
		b.WriteString(" ms")
	}
	b.WriteByte('\n')
}

func encodeMotion(b *strings.Builder, m event.Motion, human bool) {
	b.WriteString("Event ")
	if human {
		b.WriteString("with action ")
	}
	b.WriteString(m.Action.String())
	b.WriteByte(':')
	b.WriteByte(sep(human))

	if m.Action == event.ActionDown && m.Edges != 0 {
		encodeEdges(b, m.Edges, human)
	}

	if m.Action == event.ActionPointerDown || m.Action == event.ActionPointerUp {
		if human {
			b.WriteString(indent)
			b.WriteString("Created by pointer ")
		} else {
			b.WriteString("pointer ")
		}
		b.WriteString(strconv.Itoa(m.PointerIndex))
		b.WriteByte(sep(human))
	}

	if m.Action == event.ActionMove {
		if !human {
			b.WriteString("history ")
			b.WriteString(strconv.Itoa(len(m.History)))
			b.WriteByte(' ')
			if len(m.History) > 0 {
				writeCount(b, len(m.Pointers))
			}
		}
		for _, s := range m.History {
			for i, p := range s.Pointers {
				// ids come from the current sample; history only carries geometry
				id := p.ID
				if i < len(m.Pointers) {
					id = m.Pointers[i].ID
				}
				encodePointer(b, s.Time, i, id, p, human)
			}
		}
	}

	if !human {
		writeCount(b, len(m.Pointers))
	}
	for i, p := range m.Pointers {
		encodePointer(b, m.Time, i, p.ID, p, human)
	}
	b.WriteByte('\n')
}

func encodeEdges(b *strings.Builder, edges event.Edge, human bool) {
	if human {
		b.WriteString(indent)
		b.WriteString("Following screen edges had been crossed: ")
	} else {
		b.WriteString("edges ")
	}
	for _, e := range []struct {
		flag event.Edge
		name string
	}{
		{event.EdgeBottom, "BOTTOM"},
		{event.EdgeLeft, "LEFT"},
		{event.EdgeRight, "RIGHT"},
		{event.EdgeTop, "TOP"},
	} {
		if edges.Has(e.flag) {
			b.WriteString(e.name)
			if human {
				b.WriteByte(' ')
			} else {
				b.WriteByte('/')
			}
		}
	}
	b.WriteByte(sep(human))
}

func writeCount(b *strings.Builder, n int) {
	b.WriteString("pointers ")
	b.WriteString(strconv.Itoa(n))
	b.WriteByte(' ')
}

func encodePointer(b *strings.Builder, at int64, index, id int, p event.Pointer, human bool) {
	if human {
		b.WriteString(indent)
	}
	b.WriteString("At ")
	b.WriteString(strconv.FormatInt(at, 10))
	if human {
		b.WriteString(" ms ")
	} else {
		b.WriteByte(' ')
	}
	b.WriteString("pointer ")
	b.WriteString(strconv.Itoa(index))
	b.WriteString(" known as ")
	b.WriteString(strconv.Itoa(id))
	b.WriteString(": ")

	field(b, "x", p.X, human)
	field(b, "y", p.Y, human)
	field(b, "size", p.Size, human)
	field(b, "pressure", p.Pressure, human)

	if human {
		b.WriteByte('\n')
	}
}

func field(b *strings.Builder, name string, v float32, human bool) {
	b.WriteString(name)
	if human {
		b.WriteString(" = ")
	} else {
		b.WriteByte(' ')
	}
	b.WriteString(FormatFloat(v))
	if human {
		b.WriteString("  ")
	} else {
		b.WriteByte(' ')
	}
}

func sep(human bool) byte {
	if human {
		return '\n'
	}
	return ' '
}
