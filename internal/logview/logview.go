// Package logview keeps the scroll state of the on-screen event log.
package logview

import "strings"

// View wraps text to a fixed width and shows a window of rows.
type View struct {
	lines []string
	top   int
	rows  int
	cols  int
}

// New creates an empty view of rows lines of cols characters.
func New(rows, cols int) *View {
	return &View{rows: max(1, rows), cols: max(1, cols)}
}

// SetText replaces the content and scrolls back to the top.
func (v *View) SetText(text string) {
	v.lines = nil
	v.top = 0
	if text == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		v.lines = append(v.lines, wrap(line, v.cols)...)
	}
}

// Scroll moves the window by delta lines, stopping at either end.
func (v *View) Scroll(delta int) {
	v.top = min(max(0, v.top+delta), v.maxTop())
}

// Page scrolls by whole windows.
func (v *View) Page(delta int) { v.Scroll(delta * v.rows) }

// Visible returns the lines currently in the window.
func (v *View) Visible() []string {
	end := min(len(v.lines), v.top+v.rows)
	return v.lines[v.top:end]
}

// Lines returns the number of wrapped lines.
func (v *View) Lines() int { return len(v.lines) }

// Top returns the index of the first visible line.
func (v *View) Top() int { return v.top }

func (v *View) maxTop() int { return max(0, len(v.lines)-v.rows) }

func wrap(line string, cols int) []string {
	if len(line) <= cols {
		return []string{line}
	}
	var out []string
	for len(line) > cols {
		out = append(out, line[:cols])
		line = line[cols:]
	}
	return append(out, line)
}
