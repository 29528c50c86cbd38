// Package game is the window host: it polls input, forwards it to the
// recording session and shows the canvas, the log view and a status line.
package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/touch-recorder/internal/config"
	"github.com/iburimskiy/touch-recorder/internal/fileio"
	"github.com/iburimskiy/touch-recorder/internal/input"
	"github.com/iburimskiy/touch-recorder/internal/logview"
	"github.com/iburimskiy/touch-recorder/internal/metrics"
	"github.com/iburimskiy/touch-recorder/internal/recorder"
	"github.com/iburimskiy/touch-recorder/internal/render"
	"github.com/iburimskiy/touch-recorder/pkg/logger"
)

const (
	// Debug font cell.
	glyphWidth  = 6
	glyphHeight = 16

	statusHeight = 20
	textMargin   = 8

	// Ticks Esc must be held to exit.
	exitHoldTicks = 30

	messageTimeout = 4 * time.Second

	mouseKey = math.MinInt
)

var (
	overlayColor = color.RGBA{R: 0, G: 0, B: 0, A: 220}
	statusColor  = color.RGBA{R: 0, G: 0, B: 0, A: 160}
)

const helpText = `Touch Recorder

  Touch or drag with the mouse to record.

  L        load a background image
  S        save the event log
  V        view the event log
  C        clear the log and the canvas
  D        dump the log to the debug output
  H        show or hide this help
  Esc      close the log view or help
           hold to exit

Log view: arrows, PageUp/PageDown and the mouse wheel scroll.`

const introMessage = "H: help  L: load image  S: save log  V: view log  C: clear"

// Options wires the host to its collaborators.
type Options struct {
	Config   *config.Config
	Settings recorder.Settings
	Metrics  *metrics.Manager
	Feedback recorder.Feedback
	Logger   logger.Logger
	// Density scales the canvas and the mark radius, like a display
	// density on a phone.
	Density float32
}

// Game implements ebiten.Game.
type Game struct {
	ctx     context.Context
	session *recorder.Session
	canvas  *canvas
	tracker *input.Tracker
	view    *logview.View
	log     logger.Logger

	width, height int
	started       time.Time

	// input edge detection
	prevKey  map[ebiten.Key]bool
	touchIDs []ebiten.TouchID

	showLog   bool
	showHelp  bool
	exitArmed bool

	message   string
	messageAt time.Time
	lastErr   error
}

// New builds the canvas, the engine and the session.
func New(ctx context.Context, o Options) *Game {
	density := o.Density
	if density <= 0 {
		density = 1
	}
	log := o.Logger
	if log == nil {
		log = logger.Discard()
	}

	width := int(float32(o.Config.WindowWidth) * density)
	height := int(float32(o.Config.WindowHeight) * density)

	g := &Game{
		ctx:     ctx,
		canvas:  newCanvas(width, height),
		log:     log,
		width:   width,
		height:  height,
		started: time.Now(),
		prevKey: map[ebiten.Key]bool{},
	}

	engine := render.New(g.canvas,
		render.WithCapacity(o.Config.PointerCapacity),
		render.WithDensity(density),
		render.WithResetOnRelease(o.Config.ResetOnRelease),
		render.WithObserver(o.Metrics),
		render.WithLogger(log.Named("render")),
		render.WithNotifier(g),
	)
	g.session = recorder.New(engine, o.Settings, fileio.Files{},
		recorder.WithFeedback(o.Feedback),
		recorder.WithMetrics(o.Metrics),
		recorder.WithLogger(log.Named("recorder")),
	)
	g.tracker = input.NewTracker(input.Config{
		Width:    float32(width),
		Height:   float32(height),
		EdgeSlop: float32(o.Config.EdgeSlop) * density,
		Size:     float32(o.Config.InputSize),
		Pressure: float32(o.Config.InputPressure),
		Capacity: o.Config.PointerCapacity,
	})
	g.view = logview.New((height-statusHeight-2*textMargin)/glyphHeight, (width-2*textMargin)/glyphWidth)

	g.notice(introMessage)
	log.Info(ctx, "session started",
		logger.String("session", g.session.ID().String()),
		logger.Int("width", width),
		logger.Int("height", height),
		logger.Float64("density", float64(density)))
	return g
}

// Session returns the recording session.
func (g *Game) Session() *recorder.Session { return g.session }

// Notify implements render.Notifier.
func (g *Game) Notify(_ context.Context, err error) { g.lastErr = err }

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) {
		if g.showLog || g.showHelp {
			g.showLog, g.showHelp = false, false
		} else {
			g.exitArmed = true
			g.notice("Hold Esc to exit")
		}
	}
	if !ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.exitArmed = false
	}
	if g.exitArmed && inpututil.KeyPressDuration(ebiten.KeyEscape) >= exitHoldTicks {
		g.log.Info(g.ctx, "exit requested", logger.Int("events", g.session.Len()))
		return ebiten.Termination
	}

	if justPressed(ebiten.KeyL) {
		g.report(g.loadImage())
	}
	if justPressed(ebiten.KeyS) {
		g.report(g.saveLog())
	}
	if justPressed(ebiten.KeyV) {
		g.toggleLog()
	}
	if justPressed(ebiten.KeyC) {
		g.session.Clear(g.ctx)
		g.lastErr = nil
		g.notice("Cleared")
	}
	if justPressed(ebiten.KeyD) {
		g.log.Info(g.ctx, "event log", logger.String("log", g.session.DebugDump(g.ctx)))
		g.notice("Log dumped to the debug output")
	}
	if justPressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
		g.showLog = false
	}

	if g.showLog {
		g.scrollLog(justPressed)
	}

	var contacts []input.Contact
	if !g.showLog && !g.showHelp {
		contacts = g.contacts()
	}
	for _, m := range g.tracker.Update(g.session.Now(), contacts) {
		if err := g.session.HandleMotion(g.ctx, m); err != nil {
			g.lastErr = err
		}
	}

	g.session.PresentFrame(g.ctx)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.canvas.img, nil)

	switch {
	case g.showHelp:
		g.drawOverlay(screen, helpText)
	case g.showLog:
		g.drawOverlay(screen, strings.Join(g.view.Visible(), "\n"))
	}

	w, h := float32(g.width), float32(g.height)
	vector.DrawFilledRect(screen, 0, h-statusHeight, w, statusHeight, statusColor, false)
	ebitenutil.DebugPrintAt(screen, g.statusLine(), textMargin, g.height-statusHeight+2)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

func (g *Game) drawOverlay(screen *ebiten.Image, text string) {
	vector.DrawFilledRect(screen, 0, 0, float32(g.width), float32(g.height-statusHeight), overlayColor, false)
	ebitenutil.DebugPrintAt(screen, text, textMargin, textMargin)
}

func (g *Game) statusLine() string {
	id := g.session.ID().String()
	status := fmt.Sprintf("%s  %s  %d events", id[:8], formatDuration(time.Since(g.started)), g.session.Len())
	if g.showLog && g.view.Lines() > 0 {
		status += fmt.Sprintf("  line %d/%d", g.view.Top()+1, g.view.Lines())
	}
	if g.message != "" && time.Since(g.messageAt) < messageTimeout {
		status += " | " + g.message
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	return status
}

func (g *Game) notice(msg string) {
	g.message = msg
	g.messageAt = time.Now()
}

func (g *Game) report(err error) {
	if err != nil {
		g.lastErr = err
	}
}

func (g *Game) toggleLog() {
	g.showHelp = false
	g.showLog = !g.showLog
	if g.showLog {
		g.view.SetText(g.session.ViewLog(g.ctx))
	}
}

func (g *Game) scrollLog(justPressed func(ebiten.Key) bool) {
	switch {
	case justPressed(ebiten.KeyArrowDown):
		g.view.Scroll(config.ScrollStep)
	case justPressed(ebiten.KeyArrowUp):
		g.view.Scroll(-config.ScrollStep)
	case justPressed(ebiten.KeyPageDown):
		g.view.Page(1)
	case justPressed(ebiten.KeyPageUp):
		g.view.Page(-1)
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.view.Scroll(-int(math.Round(dy * config.ScrollStep)))
	}
}

// contacts polls the left mouse button and every touch.
func (g *Game) contacts() []input.Contact {
	var out []input.Contact
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		out = append(out, input.Contact{Key: mouseKey, X: float32(x), Y: float32(y)})
	}
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		out = append(out, input.Contact{Key: int(id), X: float32(x), Y: float32(y)})
	}
	return out
}

func (g *Game) loadImage() error {
	path, err := zenity.SelectFile(
		zenity.Title("Load Background Image"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.tif", "*.tiff", "*.webp"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	if err := g.session.LoadImage(g.ctx, path); err != nil {
		return err
	}
	g.notice("Loaded " + filepath.Base(path))
	return nil
}

func (g *Game) saveLog() error {
	path, err := zenity.SelectFileSave(
		zenity.Title("Save Event Log"),
		zenity.ConfirmOverwrite(),
		zenity.Filename(fmt.Sprintf("touches-%s.log", g.session.ID().String()[:8])),
		zenity.FileFilters{{
			Name:     "Logs",
			Patterns: []string{"*.log", "*.txt"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	if err := g.session.SaveLog(g.ctx, path); err != nil {
		return err
	}
	g.notice("Saved " + filepath.Base(path))
	return nil
}
