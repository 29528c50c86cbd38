package event_test

import (
	"errors"
	"testing"

	"github.com/iburimskiy/touch-recorder/internal/event"
	. "github.com/smartystreets/goconvey/convey"
)

func TestActionNames(t *testing.T) {
	Convey("Given the action codes", t, func() {
		Convey("Then known codes map to their names", func() {
			So(event.ActionDown.String(), ShouldEqual, "DOWN")
			So(event.ActionUp.String(), ShouldEqual, "UP")
			So(event.ActionMove.String(), ShouldEqual, "MOVE")
			So(event.ActionCancel.String(), ShouldEqual, "CANCEL")
			So(event.ActionOutside.String(), ShouldEqual, "OUTSIDE")
			So(event.ActionPointerDown.String(), ShouldEqual, "POINTER_DOWN")
			So(event.ActionPointerUp.String(), ShouldEqual, "POINTER_UP")
		})

		Convey("Then out of range codes render as UNKNOWN", func() {
			So(event.Action(7).String(), ShouldEqual, "UNKNOWN")
			So(event.Action(-1).String(), ShouldEqual, "UNKNOWN")
		})
	})
}

func TestEdges(t *testing.T) {
	Convey("Given a combination of edge flags", t, func() {
		e := event.EdgeBottom | event.EdgeRight

		Convey("Then each flag is tested independently", func() {
			So(e.Has(event.EdgeBottom), ShouldBeTrue)
			So(e.Has(event.EdgeRight), ShouldBeTrue)
			So(e.Has(event.EdgeTop), ShouldBeFalse)
			So(e.Has(event.EdgeLeft), ShouldBeFalse)
			So(e.Has(0), ShouldBeFalse)
		})
	})
}

func TestMotionValidate(t *testing.T) {
	Convey("Given motions", t, func() {
		p := event.Pointer{ID: 0, X: 1, Y: 2, Size: 0.1, Pressure: 1}

		Convey("When there are no pointers", func() {
			err := event.Motion{Action: event.ActionDown}.Validate()
			So(errors.Is(err, event.ErrNoPointers), ShouldBeTrue)
		})

		Convey("When a history sample is narrower than the motion", func() {
			m := event.Motion{
				Action:   event.ActionMove,
				Pointers: []event.Pointer{p, p},
				History:  []event.Sample{{Time: 1, Pointers: []event.Pointer{p}}},
			}
			So(errors.Is(m.Validate(), event.ErrHistoryWidth), ShouldBeTrue)
		})

		Convey("When a POINTER_UP names a missing slot", func() {
			m := event.Motion{Action: event.ActionPointerUp, PointerIndex: 3, Pointers: []event.Pointer{p}}
			So(errors.Is(m.Validate(), event.ErrPointerIndexInvalid), ShouldBeTrue)
			_, ok := m.Origin()
			So(ok, ShouldBeFalse)
		})

		Convey("When the motion is well formed", func() {
			m := event.Motion{Action: event.ActionPointerDown, PointerIndex: 1, Pointers: []event.Pointer{p, {ID: 4}}}
			So(m.Validate(), ShouldBeNil)
			origin, ok := m.Origin()
			So(ok, ShouldBeTrue)
			So(origin.ID, ShouldEqual, 4)
		})
	})
}

func TestEventUnion(t *testing.T) {
	Convey("Given the two event variants", t, func() {
		m := event.NewMotionEvent(event.Motion{Action: event.ActionMove, Time: 5})
		img := event.NewImageLoadEvent("bg.png", 42)

		Convey("Then each exposes only its own payload", func() {
			So(m.Kind(), ShouldEqual, event.KindMotion)
			_, ok := m.ImageLoad()
			So(ok, ShouldBeFalse)
			got, ok := m.Motion()
			So(ok, ShouldBeTrue)
			So(got.Time, ShouldEqual, 5)

			So(img.Kind(), ShouldEqual, event.KindImageLoad)
			_, ok = img.Motion()
			So(ok, ShouldBeFalse)
			load, ok := img.ImageLoad()
			So(ok, ShouldBeTrue)
			So(load.FileName, ShouldEqual, "bg.png")
			So(load.LoadTime, ShouldEqual, 42)
		})
	})
}

func TestLog(t *testing.T) {
	Convey("Given an empty log", t, func() {
		l := event.NewLog()
		So(l.Len(), ShouldEqual, 0)

		Convey("When events are appended", func() {
			l.Append(event.NewImageLoadEvent("a.png", 1))
			l.Append(event.NewMotionEvent(event.Motion{Action: event.ActionDown, Time: 2}))

			Convey("Then order is preserved", func() {
				So(l.Len(), ShouldEqual, 2)
				So(l.At(0).Kind(), ShouldEqual, event.KindImageLoad)
				So(l.At(1).Kind(), ShouldEqual, event.KindMotion)
			})

			Convey("Then a snapshot reflects the latest state and is detached", func() {
				snap := l.Snapshot()
				So(len(snap), ShouldEqual, 2)
				l.Append(event.NewImageLoadEvent("b.png", 3))
				So(len(snap), ShouldEqual, 2)
				So(len(l.Snapshot()), ShouldEqual, 3)
			})

			Convey("Then clear empties the log", func() {
				l.Clear()
				So(l.Len(), ShouldEqual, 0)
				So(l.Snapshot(), ShouldBeEmpty)
			})
		})
	})
}
