package recorder_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/iburimskiy/touch-recorder/internal/event"
	"github.com/iburimskiy/touch-recorder/internal/metrics"
	"github.com/iburimskiy/touch-recorder/internal/recorder"
	"github.com/iburimskiy/touch-recorder/internal/render"
	"github.com/iburimskiy/touch-recorder/pkg/logger"
)

type surface struct{ ops []string }

func (s *surface) ClearToBackground() { s.ops = append(s.ops, "clear") }
func (s *surface) DrawArc(_ render.Rect, _, _, width float32, _ render.Style) {
	if width == render.ThickStroke {
		s.ops = append(s.ops, "mark")
	}
}
func (s *surface) DrawLine(_, _, _, _, _ float32, _ render.Style) { s.ops = append(s.ops, "line") }
func (s *surface) BlitImage(image.Image, float32, float32)       { s.ops = append(s.ops, "blit") }
func (s *surface) Present()                                      { s.ops = append(s.ops, "present") }

type settings struct {
	radius            string
	view, save, debug bool
	radiusReads       int
}

func (s *settings) RadiusPerUnit() (float32, error) {
	s.radiusReads++
	if s.radius == "bad" {
		return 0, errors.New("malformed")
	}
	return 80, nil
}
func (s *settings) MaxPressure() (float32, error) { return 360, nil }
func (s *settings) ViewHumanReadable() bool       { return s.view }
func (s *settings) SaveHumanReadable() bool       { return s.save }
func (s *settings) DebugHumanReadable() bool      { return s.debug }

type files struct {
	img       image.Image
	decodeErr error
	writeErr  error
	written   map[string]string
}

func (f *files) DecodeImage(string) (image.Image, error) { return f.img, f.decodeErr }
func (f *files) WriteText(path, content string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.written == nil {
		f.written = map[string]string{}
	}
	f.written[path] = content
	return nil
}

type clock int64

func (c clock) NowMillis() int64 { return int64(c) }

type clicks int

func (c *clicks) Touch() { *c++ }

func down(t int64, x, y float32) event.Motion {
	return event.Motion{
		Action:   event.ActionDown,
		Time:     t,
		Pointers: []event.Pointer{{ID: 0, X: x, Y: y, Size: 0.5, Pressure: 100}},
	}
}

func up(t int64, x, y float32) event.Motion {
	m := down(t, x, y)
	m.Action = event.ActionUp
	return m
}

func TestSession(t *testing.T) {
	Convey("Given a session over a recording surface", t, func() {
		ctx := context.Background()
		surf := &surface{}
		st := &settings{}
		fs := &files{img: image.NewRGBA(image.Rect(0, 0, 4, 4))}
		var c clicks
		m := metrics.NewManager()
		engine := render.New(surf)
		s := recorder.New(engine, st, fs,
			recorder.WithClock(clock(5000)),
			recorder.WithFeedback(&c),
			recorder.WithMetrics(m),
		)

		Convey("It has an id", func() {
			So(s.ID(), ShouldNotEqual, uuid.Nil)
			id := uuid.New()
			So(recorder.New(engine, st, fs, recorder.WithID(id)).ID(), ShouldEqual, id)
		})

		Convey("When a gesture is handled", func() {
			So(s.HandleMotion(ctx, down(1000, 10, 10)), ShouldBeNil)
			So(s.HandleMotion(ctx, up(1100, 200, 200)), ShouldBeNil)

			Convey("Then both events are recorded and settings were read once", func() {
				So(s.Len(), ShouldEqual, 2)
				So(st.radiusReads, ShouldEqual, 1)
				So(int(c), ShouldEqual, 1)
			})

			Convey("Then the next frame clears, draws and presents", func() {
				s.PresentFrame(ctx)
				So(surf.ops, ShouldResemble, []string{"clear", "mark", "line", "mark", "present"})
			})

			Convey("Then the view log is the compact encoding", func() {
				text := s.ViewLog(ctx)
				So(strings.HasPrefix(text,
					"Event DOWN: pointers 1 At 1000 pointer 0 known as 0: x 10.0 y 10.0 size 0.5 pressure 100.0 \n"),
					ShouldBeTrue)
				So(strings.Count(text, "\n"), ShouldEqual, 2)
			})

			Convey("Then each destination follows its own flag", func() {
				st.save = true
				So(s.SaveLog(ctx, "/tmp/a.log"), ShouldBeNil)
				So(fs.written["/tmp/a.log"], ShouldStartWith, "Event with action DOWN:\n")
				So(s.DebugDump(ctx), ShouldStartWith, "Event DOWN: ")
			})

			Convey("And then cleared", func() {
				s.PresentFrame(ctx)
				surf.ops = nil
				s.Clear(ctx)
				s.PresentFrame(ctx)

				Convey("Then the log is empty and the background is repainted", func() {
					So(s.Len(), ShouldEqual, 0)
					So(s.ViewLog(ctx), ShouldEqual, "")
					So(surf.ops, ShouldResemble, []string{"clear", "present"})
					So(engine.Cursor(), ShouldEqual, 0)
				})
			})
		})

		Convey("When a motion is invalid", func() {
			err := s.HandleMotion(ctx, event.Motion{Action: event.ActionDown})

			Convey("Then it is rejected and not recorded", func() {
				So(errors.Is(err, event.ErrNoPointers), ShouldBeTrue)
				So(s.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a secondary pointer goes down", func() {
			pd := event.Motion{
				Action:       event.ActionPointerDown,
				PointerIndex: 1,
				Pointers: []event.Pointer{
					{ID: 0, X: 10, Y: 10, Size: 0.5, Pressure: 1},
					{ID: 1, X: 300, Y: 300, Size: 0.5, Pressure: 1},
				},
			}
			So(s.HandleMotion(ctx, pd), ShouldBeNil)

			Convey("Then feedback fires without a settings refresh", func() {
				So(int(c), ShouldEqual, 1)
				So(st.radiusReads, ShouldEqual, 0)
			})
		})

		Convey("When an image loads", func() {
			So(s.LoadImage(ctx, "bg.png"), ShouldBeNil)
			s.PresentFrame(ctx)

			Convey("Then it is recorded with the clock time and blitted once", func() {
				So(s.ViewLog(ctx), ShouldEqual, "Image bg.png At 5000\n")
				So(surf.ops, ShouldResemble, []string{"clear", "blit", "present"})
				So(engine.Background(), ShouldNotBeNil)
			})
		})

		Convey("When an image fails to decode", func() {
			fs.decodeErr = errors.New("garbage")
			err := s.LoadImage(ctx, "bad.png")
			s.PresentFrame(ctx)

			Convey("Then the load is still recorded and the background is blank", func() {
				So(err, ShouldNotBeNil)
				So(s.Len(), ShouldEqual, 1)
				So(engine.Background(), ShouldBeNil)
				So(surf.ops, ShouldResemble, []string{"clear", "present"})
			})
		})

		Convey("When a save fails", func() {
			fs.writeErr = errors.New("disk full")
			So(s.HandleMotion(ctx, down(1, 1, 1)), ShouldBeNil)
			err := s.SaveLog(ctx, "/x/y.log")

			Convey("Then the error is wrapped", func() {
				So(errors.Is(err, recorder.ErrSaveLog), ShouldBeTrue)
				So(fs.written, ShouldBeNil)
			})
		})

		Convey("When the size preference is malformed", func() {
			st.radius = "bad"
			So(s.HandleMotion(ctx, down(1, 1, 1)), ShouldBeNil)

			Convey("Then the engine keeps its radius", func() {
				So(engine.RadiusPerUnit(), ShouldEqual, render.DefaultRadiusPerUnit)
				So(s.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestSessionDebugDump(t *testing.T) {
	Convey("Given debug logging", t, func() {
		var buf bytes.Buffer
		logger.SetLevel(slog.LevelDebug)
		defer logger.SetLevel(slog.LevelInfo)

		s := recorder.New(render.New(&surface{}), &settings{}, &files{},
			recorder.WithLogger(logger.NewWithWriter(&buf)))

		Convey("When a motion arrives it is dumped in the debug format", func() {
			So(s.HandleMotion(context.Background(), down(7, 1, 2)), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Event DOWN: pointers 1 At 7 pointer 0 known as 0: x 1.0 y 2.0")
		})
	})
}
