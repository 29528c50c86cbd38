package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/touch-recorder/internal/render"
)

var (
	backgroundColor = color.White
	startColor      = color.NRGBA{R: 126, G: 0, B: 33, A: 200}
	restColor       = color.NRGBA{R: 0, G: 0, B: 0, A: 200}
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// canvas is the persistent drawing surface. Marks accumulate on an
// offscreen image that Draw copies to the screen every frame.
type canvas struct {
	img    *ebiten.Image
	frames int

	vertices []ebiten.Vertex
	indices  []uint16
}

func newCanvas(width, height int) *canvas {
	c := &canvas{img: ebiten.NewImage(width, height)}
	c.ClearToBackground()
	return c
}

func colorOf(style render.Style) color.Color {
	if style == render.StyleStart {
		return startColor
	}
	return restColor
}

func (c *canvas) ClearToBackground() { c.img.Fill(backgroundColor) }

// DrawArc strokes part of the ellipse inscribed in bounds. Angles are in
// degrees, clockwise from three o'clock. A sweep of a full turn or more
// draws the whole ring.
func (c *canvas) DrawArc(bounds render.Rect, startAngle, sweepAngle, strokeWidth float32, style render.Style) {
	if sweepAngle <= 0 {
		return
	}
	cx, cy := bounds.CenterX(), bounds.CenterY()
	r := bounds.Width() / 2

	var p vector.Path
	if sweepAngle >= 360 {
		p.MoveTo(cx+r, cy)
		p.Arc(cx, cy, r, 0, 2*math.Pi, vector.Clockwise)
		p.Close()
	} else {
		a0 := startAngle * math.Pi / 180
		a1 := (startAngle + sweepAngle) * math.Pi / 180
		p.MoveTo(cx+r*float32(math.Cos(float64(a0))), cy+r*float32(math.Sin(float64(a0))))
		p.Arc(cx, cy, r, a0, a1, vector.Clockwise)
	}
	c.stroke(&p, strokeWidth, colorOf(style))
}

func (c *canvas) DrawLine(x0, y0, x1, y1, strokeWidth float32, style render.Style) {
	vector.StrokeLine(c.img, x0, y0, x1, y1, strokeWidth, colorOf(style), true)
}

func (c *canvas) BlitImage(img image.Image, x, y float32) {
	src := ebiten.NewImageFromImage(img)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	c.img.DrawImage(src, op)
	src.Deallocate()
}

func (c *canvas) Present() { c.frames++ }

func (c *canvas) stroke(p *vector.Path, width float32, clr color.Color) {
	op := &vector.StrokeOptions{
		Width:    width,
		LineJoin: vector.LineJoinRound,
	}
	c.vertices, c.indices = p.AppendVerticesAndIndicesForStroke(c.vertices[:0], c.indices[:0], op)

	r, g, b, a := clr.RGBA()
	for i := range c.vertices {
		c.vertices[i].SrcX = 1
		c.vertices[i].SrcY = 1
		c.vertices[i].ColorR = float32(r) / 0xffff
		c.vertices[i].ColorG = float32(g) / 0xffff
		c.vertices[i].ColorB = float32(b) / 0xffff
		c.vertices[i].ColorA = float32(a) / 0xffff
	}
	c.img.DrawTriangles(c.vertices, c.indices, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
