package render

import "image"

// Style selects the paint used for a primitive.
type Style int

const (
	// StyleStart marks the first sample of a contact.
	StyleStart Style = iota
	// StyleRest marks every following sample and all transition lines.
	StyleRest
	// StyleEnd marks the final sample of a contact.
	StyleEnd
)

func (s Style) String() string {
	switch s {
	case StyleStart:
		return "start"
	case StyleRest:
		return "rest"
	case StyleEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Stroke widths of the two arc weights.
const (
	ThickStroke float32 = 5.0
	ThinStroke  float32 = 1.0
)

// Rect is an axis aligned box.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// RectAround returns the square of half-size r centred on (x, y).
func RectAround(x, y, r float32) Rect {
	return Rect{Left: x - r, Top: y - r, Right: x + r, Bottom: y + r}
}

// Intersects reports whether r and o share interior area. Touching edges
// and empty boxes never intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right &&
		r.Top < o.Bottom && o.Top < r.Bottom
}

func (r Rect) CenterX() float32 { return (r.Left + r.Right) / 2 }
func (r Rect) CenterY() float32 { return (r.Top + r.Bottom) / 2 }
func (r Rect) Width() float32   { return r.Right - r.Left }
func (r Rect) Height() float32  { return r.Bottom - r.Top }

// Surface is the persistent drawing target. Angles are in degrees,
// clockwise from the positive x axis; a sweep of 360 or more is a full ring.
type Surface interface {
	ClearToBackground()
	DrawArc(bounds Rect, startAngle, sweepAngle, strokeWidth float32, style Style)
	DrawLine(x0, y0, x1, y1, strokeWidth float32, style Style)
	BlitImage(img image.Image, x, y float32)
	Present()
}
