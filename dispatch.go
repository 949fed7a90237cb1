package loom

// ============================================================================
// Pointer dispatch
// ============================================================================
//
// The host pumps raw pointer events into the App; dispatch walks the tree
// from the root, children in reverse order so the topmost sibling wins,
// rewriting coordinates through each widget's inverse transform on the
// way down. The first widget to return true consumes the event.
//
// A gesture that claims a touch grabs it: every later move/up for that
// pointer ID routes straight to the grab target with coordinates mapped
// into its space, even when the pointer has left its box.

// TouchDown feeds a pointer-down at window coordinates. Returns whether
// any widget consumed it.
func (a *App) TouchDown(id int, x, y float64) bool {
	t := &Touch{
		ID: id,
		X:  x, Y: y,
		WinX: x, WinY: y,
		PrevX: x, PrevY: y,
		StartX: x, StartY: y,
		Time: a.now, PrevTime: a.now,
		Slop: a.cfg.Input.HitSlop,
	}
	if a.now-a.lastTapTime <= a.cfg.Input.DoubleTapMs &&
		abs(x-a.lastTapX) <= a.cfg.Input.DoubleTapSlop &&
		abs(y-a.lastTapY) <= a.cfg.Input.DoubleTapSlop {
		t.DoubleTap = true
	}
	a.lastTapTime = a.now
	a.lastTapX, a.lastTapY = x, y

	a.touches[id] = t
	if a.root == nil {
		return false
	}
	return a.dispatchDown(a.root, t)
}

// TouchMove feeds a pointer-move for an active gesture.
func (a *App) TouchMove(id int, x, y float64) bool {
	t := a.touches[id]
	if t == nil {
		return false
	}
	t.PrevX, t.PrevY = t.WinX, t.WinY
	t.PrevTime = t.Time
	t.WinX, t.WinY = x, y
	t.Time = a.now

	if g := t.grabbed; g != nil {
		if g.app == nil {
			// Grab target was removed mid-gesture; drop silently.
			return false
		}
		t.X, t.Y = g.WindowToLocal(x, y)
		return a.deliverMove(g, t)
	}
	t.X, t.Y = x, y
	if a.root == nil {
		return false
	}
	return a.dispatchMove(a.root, t)
}

// TouchUp feeds a pointer-up, ending the gesture.
func (a *App) TouchUp(id int, x, y float64) bool {
	t := a.touches[id]
	if t == nil {
		return false
	}
	delete(a.touches, id)
	t.PrevX, t.PrevY = t.WinX, t.WinY
	t.PrevTime = t.Time
	t.WinX, t.WinY = x, y
	t.Time = a.now

	if g := t.grabbed; g != nil {
		if g.app == nil {
			t.Ungrab()
			return false
		}
		t.X, t.Y = g.WindowToLocal(x, y)
		consumed := a.deliverUp(g, t)
		t.Ungrab()
		return consumed
	}
	t.X, t.Y = x, y
	if a.root == nil {
		return false
	}
	return a.dispatchUp(a.root, t)
}

// CancelTouch tears down a gesture without a touch-up: the grab target is
// notified with a canceled touch and no press fires.
func (a *App) CancelTouch(id int) {
	t := a.touches[id]
	if t == nil {
		return
	}
	delete(a.touches, id)
	t.Canceled = true
	if g := t.grabbed; g != nil {
		if g.app != nil {
			t.X, t.Y = g.WindowToLocal(t.WinX, t.WinY)
			a.deliverUp(g, t)
		}
		t.Ungrab()
	}
}

// WheelEvent feeds a wheel tick at a window position. The topmost widget
// under the pointer with a wheel handler (or a scroll view) consumes it.
func (a *App) WheelEvent(e Wheel) bool {
	if a.root == nil {
		return false
	}
	return a.dispatchWheel(a.root, &e)
}

// ============================================================================
// Tree traversal
// ============================================================================

// activeChildren returns the children that participate in dispatch: all
// of them, except a notebook exposes only its active page.
func (w *Widget) activeChildren() []*Widget {
	if w.kind == KindNotebook {
		if w.activePage >= 0 && w.activePage < len(w.children) {
			return w.children[w.activePage : w.activePage+1]
		}
		return nil
	}
	return w.children
}

// descend runs fn over the children in reverse z-order with the touch
// coordinates mapped through the widget's transform, restoring them
// afterwards.
func descend(w *Widget, t *Touch, fn func(*Widget) bool) bool {
	saveX, saveY := t.X, t.Y
	if tr := w.transform; tr != nil {
		t.X, t.Y = tr.Invert().Apply(t.X, t.Y)
	}
	consumed := false
	kids := w.activeChildren()
	for i := len(kids) - 1; i >= 0; i-- {
		if fn(kids[i]) {
			consumed = true
			break
		}
	}
	t.X, t.Y = saveX, saveY
	return consumed
}

func (a *App) dispatchDown(w *Widget, t *Touch) bool {
	if !w.CanReceiveEvents() {
		return false
	}
	// A scroll view clips: pointers outside its box cannot reach the
	// content. Other containers do not clip dispatch; float children may
	// legitimately overhang their parent.
	inside := t.Hits(w.geom)
	if w.kind == KindScroll && !inside {
		return false
	}

	if descend(w, t, func(c *Widget) bool { return a.dispatchDown(c, t) }) {
		return true
	}
	return a.deliverDown(w, t, inside)
}

func (a *App) dispatchMove(w *Widget, t *Touch) bool {
	if !w.CanReceiveEvents() {
		return false
	}
	if w.kind == KindScroll && !t.Hits(w.geom) {
		return false
	}
	if descend(w, t, func(c *Widget) bool { return a.dispatchMove(c, t) }) {
		return true
	}
	return a.deliverMove(w, t)
}

func (a *App) dispatchUp(w *Widget, t *Touch) bool {
	if !w.CanReceiveEvents() {
		return false
	}
	if descend(w, t, func(c *Widget) bool { return a.dispatchUp(c, t) }) {
		return true
	}
	return a.deliverUp(w, t)
}

func (a *App) dispatchWheel(w *Widget, e *Wheel) bool {
	if !w.CanReceiveEvents() || !w.geom.Contains(e.X, e.Y) {
		return false
	}
	saveX, saveY := e.X, e.Y
	if tr := w.transform; tr != nil {
		e.X, e.Y = tr.Invert().Apply(e.X, e.Y)
	}
	consumed := false
	kids := w.activeChildren()
	for i := len(kids) - 1; i >= 0; i-- {
		if a.dispatchWheel(kids[i], e) {
			consumed = true
			break
		}
	}
	e.X, e.Y = saveX, saveY
	if consumed {
		return true
	}
	if w.onWheel != nil && w.onWheel(w, e) {
		return true
	}
	if w.kind == KindScroll {
		return w.scrollWheel(e)
	}
	return false
}

// ============================================================================
// Per-widget delivery
// ============================================================================

// deliverDown consults, in order: the responder override, the installed
// handler, the scroll controller, and finally the default claim: a
// touchable widget whose box contains the point grabs the gesture.
func (a *App) deliverDown(w *Widget, t *Touch, inside bool) bool {
	if w.responder != nil && w.responder.OnTouchDown(w, t) {
		return true
	}
	if !inside {
		return false
	}
	if w.onTouchDown != nil && w.onTouchDown(w, t) {
		return true
	}
	if w.kind == KindScroll {
		return w.scrollTouchDown(t)
	}
	if w.touchable {
		t.Grab(w)
		w.emitProp("touch_down", t)
		return true
	}
	return false
}

func (a *App) deliverMove(w *Widget, t *Touch) bool {
	if w.responder != nil && w.responder.OnTouchMove(w, t) {
		return true
	}
	if w.onTouchMove != nil && w.onTouchMove(w, t) {
		return true
	}
	if w.kind == KindScroll && w.scrollOwns(t) {
		return w.scrollTouchMove(t)
	}
	return w.touching == t
}

func (a *App) deliverUp(w *Widget, t *Touch) bool {
	if w.responder != nil && w.responder.OnTouchUp(w, t) {
		return true
	}
	if w.onTouchUp != nil && w.onTouchUp(w, t) {
		return true
	}
	if w.kind == KindScroll && w.scrollOwns(t) {
		return w.scrollTouchUp(t)
	}
	if w.touching != t {
		return false
	}
	w.touching = nil
	if !t.Canceled && t.Hits(w.geom) {
		if w.label != nil && w.label.toggle {
			w.SetSelected(!w.label.selected)
		}
		if w.onPress != nil {
			w.onPress(w)
		}
	}
	w.emitProp("touch_up", t)
	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
