package loom

// Touch is the unified pointer event: mouse, stylus, or finger. One Touch
// value lives for the whole gesture, from down through moves to up, and
// accumulates trajectory state along the way.
//
// X and Y are rewritten as dispatch descends through transformed widgets,
// so handlers always see the pointer in their own coordinate space. The
// window-space trail (WinX/WinY, PrevX/PrevY, StartX/StartY) is never
// rewritten.
type Touch struct {
	ID int

	// Current position in the coordinate space of the widget being
	// visited. Outside dispatch this equals the window position.
	X, Y float64

	// Window-space samples.
	WinX, WinY     float64 // latest
	PrevX, PrevY   float64 // previous sample
	StartX, StartY float64 // at touch-down

	// Timestamps in milliseconds of application time.
	Time     float64
	PrevTime float64

	// DoubleTap is set on the down event when this touch follows a
	// previous tap within the configured window and distance.
	DoubleTap bool

	// Canceled marks a gesture torn down by the host (focus loss, system
	// gesture). No press fires for a canceled touch.
	Canceled bool

	// Slop is the half-extent of the hit rectangle around the pointer
	// position. Zero hit-tests the bare point.
	Slop float64

	grabbed *Widget
}

// Hits reports whether the touch's hit rectangle intersects r. A finger
// is not a point: with a configured slop, contact anywhere within
// Slop of the box counts.
func (t *Touch) Hits(r Rect) bool {
	if t.Slop <= 0 {
		return r.Contains(t.X, t.Y)
	}
	return r.Overlaps(Rect{
		X: t.X - t.Slop, Y: t.Y - t.Slop,
		W: 2 * t.Slop, H: 2 * t.Slop,
	})
}

// Grab routes every later event of this gesture exclusively to w,
// bypassing tree traversal. The grab survives until touch-up, Ungrab, or
// Cancel; if w is detached in the meantime the events are dropped.
func (t *Touch) Grab(w *Widget) {
	t.grabbed = w
	if w != nil {
		w.touching = t
	}
}

// Ungrab releases the exclusive route. Later events fall back to tree
// dispatch.
func (t *Touch) Ungrab() {
	if t.grabbed != nil && t.grabbed.touching == t {
		t.grabbed.touching = nil
	}
	t.grabbed = nil
}

// Grabbed returns the widget the gesture is bound to, or nil.
func (t *Touch) Grabbed() *Widget { return t.grabbed }

// DX and DY are the window-space deltas since the previous sample.
func (t *Touch) DX() float64 { return t.WinX - t.PrevX }
func (t *Touch) DY() float64 { return t.WinY - t.PrevY }

// TotalDX and TotalDY are the window-space deltas since touch-down.
func (t *Touch) TotalDX() float64 { return t.WinX - t.StartX }
func (t *Touch) TotalDY() float64 { return t.WinY - t.StartY }

// Wheel is a scroll-wheel or trackpad-scroll event at a window position.
// DX/DY are in logical pixels. With Ctrl held the vertical axis zooms
// instead of scrolling, anchored at the pointer.
type Wheel struct {
	X, Y   float64
	DX, DY float64
	Ctrl   bool
}
