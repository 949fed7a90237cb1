package loom

import "math"

// ============================================================================
// Scroll / zoom controller
// ============================================================================
//
// A scroll view is a clipped viewport over one oversized content child.
// Scrolling and zooming never move the content widget; they rebuild the
// view transform, so content geometry stays stable in content space and
// pointer dispatch converts through the same matrix that drawing uses.
//
// The controller keeps two scroll values per axis: the desired scroll the
// user (or an animation) asked for, and the effective scroll actually
// shown. On a bounded axis the effective value is clamped to
// [0, max(0, content - viewport/zoom)] in content units; an unbounded
// axis shows the desired value as-is. Desired survives content changes:
// grow the content later and the view lands where it was headed.

type scrollState struct {
	desiredX, desiredY float64
	effX, effY         float64
	zoom               float64

	// Axis enablement.
	scrollX, scrollY bool

	// A bounded axis clamps the effective scroll to the content range; an
	// unbounded one shows the desired value verbatim.
	boundX, boundY bool

	// Alignment of content smaller than the viewport on an enabled axis:
	// 0 = start, 0.5 = center, 1 = end.
	align float64

	// Kinetic state: smoothed velocity in content units per millisecond.
	velX, velY float64
	coasting   bool

	// Gesture bookkeeping.
	touches   []*Touch
	pinchDist float64
}

// NewScrollView creates a pannable, zoomable viewport. Both axes start
// enabled and bounded, and zoom starts at 1.
func NewScrollView() *Widget {
	w := NewWidget()
	w.kind = KindScroll
	w.touchable = false
	w.scroll = &scrollState{
		zoom:    1,
		scrollX: true, scrollY: true,
		boundX: true, boundY: true,
	}
	return w
}

// SetScrollAxes enables or disables panning per axis.
func (w *Widget) SetScrollAxes(x, y bool) *Widget {
	if w.scroll != nil {
		w.scroll.scrollX = x
		w.scroll.scrollY = y
		w.refreshScroll()
	}
	return w
}

// SetScrollBounds marks each axis bounded or unbounded. A bounded axis
// clamps its effective scroll to the content range; an unbounded axis
// tracks the desired value exactly, edges and all.
func (w *Widget) SetScrollBounds(x, y bool) *Widget {
	if w.scroll != nil {
		w.scroll.boundX = x
		w.scroll.boundY = y
		w.refreshScroll()
	}
	return w
}

// SetScrollAlign sets where undersized content sits on an enabled axis:
// 0 start, 0.5 center, 1 end.
func (w *Widget) SetScrollAlign(a float64) *Widget {
	if w.scroll != nil {
		w.scroll.align = a
		w.refreshScroll()
	}
	return w
}

// ScrollX and ScrollY return the desired scroll position in content units.
func (w *Widget) ScrollX() float64 {
	if w.scroll == nil {
		return 0
	}
	return w.scroll.desiredX
}

func (w *Widget) ScrollY() float64 {
	if w.scroll == nil {
		return 0
	}
	return w.scroll.desiredY
}

// EffectiveScroll returns the clamped scroll actually displayed.
func (w *Widget) EffectiveScroll() (x, y float64) {
	if w.scroll == nil {
		return 0, 0
	}
	return w.scroll.effX, w.scroll.effY
}

// Zoom returns the current zoom factor.
func (w *Widget) Zoom() float64 {
	if w.scroll == nil {
		return 1
	}
	return w.scroll.zoom
}

// ScrollTo sets the desired scroll position on both axes.
func (w *Widget) ScrollTo(x, y float64) *Widget {
	if w.scroll != nil {
		w.setScrollX(x)
		w.setScrollY(y)
	}
	return w
}

func (w *Widget) setScrollX(v float64) {
	w.scroll.desiredX = v
	w.refreshScroll()
	w.emitProp("scroll_x", v)
}

func (w *Widget) setScrollY(v float64) {
	w.scroll.desiredY = v
	w.refreshScroll()
	w.emitProp("scroll_y", v)
}

// SetZoom sets the zoom factor, clamped to the configured range and to
// the minimum that keeps content covering the viewport on enabled axes.
func (w *Widget) SetZoom(z float64) *Widget {
	if w.scroll != nil {
		w.setZoom(z)
	}
	return w
}

func (w *Widget) setZoom(z float64) {
	s := w.scroll
	z = math.Max(z, w.minZoom())
	if w.app != nil {
		if mz := w.app.cfg.Scroll.MaxZoom; mz > 0 && z > mz {
			z = mz
		}
	}
	if s.zoom == z {
		return
	}
	s.zoom = z
	w.refreshScroll()
	w.emitProp("zoom", z)
}

// minZoom is the smallest zoom that still fills the viewport with content
// on every bounded enabled axis. Unbounded axes impose no coverage
// constraint; a tiny floor keeps the transform from collapsing there and
// when content is absent.
func (w *Widget) minZoom() float64 {
	const floor = 1e-4
	cw, ch := w.contentExtent()
	min := floor
	if w.scroll.scrollX && w.scroll.boundX && cw > 0 {
		if z := w.geom.W / cw; z > min {
			min = z
		}
	}
	if w.scroll.scrollY && w.scroll.boundY && ch > 0 {
		if z := w.geom.H / ch; z > min {
			min = z
		}
	}
	// Never force zooming in past 1 just because content is small.
	if min > 1 {
		min = 1
	}
	return min
}

// contentExtent measures the children's union extent from the viewport
// origin, in content units.
func (w *Widget) contentExtent() (cw, ch float64) {
	for _, c := range w.children {
		if r := c.geom.Right() - w.geom.X; r > cw {
			cw = r
		}
		if b := c.geom.Bottom() - w.geom.Y; b > ch {
			ch = b
		}
	}
	return cw, ch
}

// refreshScroll re-clamps the scroll position and rebuilds the viewport
// transform. Desired values are left untouched.
func (w *Widget) refreshScroll() {
	s := w.scroll
	if s == nil {
		return
	}
	cw, ch := w.contentExtent()
	s.effX = s.clampAxis(s.desiredX, cw, w.geom.W, s.scrollX, s.boundX)
	s.effY = s.clampAxis(s.desiredY, ch, w.geom.H, s.scrollY, s.boundY)

	vx, vy := w.geom.X, w.geom.Y
	t := Translate(vx, vy).
		Mul(Scale(s.zoom, s.zoom)).
		Mul(Translate(-vx-s.effX, -vy-s.effY))
	w.transform = &t
	w.requestRedraw()
}

// clampAxis clamps a desired scroll value to the scrollable range. An
// unbounded axis passes the desired value through untouched. When the
// (zoomed) content is smaller than the viewport the effective scroll
// goes negative to realize the alignment policy.
func (s *scrollState) clampAxis(desired, content, viewport float64, enabled, bounded bool) float64 {
	if !enabled {
		return 0
	}
	if !bounded {
		return desired
	}
	span := viewport / s.zoom
	max := content - span
	if max <= 0 {
		return s.align * max
	}
	if desired < 0 {
		return 0
	}
	if desired > max {
		return max
	}
	return desired
}

// ============================================================================
// Gesture handling
// ============================================================================

func (w *Widget) scrollTouchDown(t *Touch) bool {
	s := w.scroll
	if !s.scrollX && !s.scrollY {
		return false
	}
	s.coasting = false
	s.velX, s.velY = 0, 0
	t.Grab(w)
	s.touches = append(s.touches, t)
	if len(s.touches) == 2 {
		s.pinchDist = touchDist(s.touches[0], s.touches[1])
	}
	return true
}

// scrollOwns reports whether the touch is one of this view's active
// drag/pinch pointers. Widget.touching only tracks the latest grab, so a
// second pinch finger must be recognized through the controller's own
// list.
func (w *Widget) scrollOwns(t *Touch) bool {
	if w.scroll == nil {
		return false
	}
	for _, st := range w.scroll.touches {
		if st == t {
			return true
		}
	}
	return false
}

func (w *Widget) scrollTouchMove(t *Touch) bool {
	s := w.scroll
	if len(s.touches) >= 2 {
		w.pinchUpdate()
		return true
	}

	dt := t.Time - t.PrevTime
	if s.scrollX {
		s.desiredX -= t.DX() / s.zoom
		if dt > 0 {
			// Average with the previous sample to smooth jittery input.
			s.velX = 0.5 * (s.velX + -t.DX()/s.zoom/dt)
		}
	}
	if s.scrollY {
		s.desiredY -= t.DY() / s.zoom
		if dt > 0 {
			s.velY = 0.5 * (s.velY + -t.DY()/s.zoom/dt)
		}
	}
	w.refreshScroll()
	w.emitProp("scroll_x", s.desiredX)
	w.emitProp("scroll_y", s.desiredY)
	return true
}

func (w *Widget) scrollTouchUp(t *Touch) bool {
	s := w.scroll
	for i, st := range s.touches {
		if st == t {
			s.touches = append(s.touches[:i], s.touches[i+1:]...)
			break
		}
	}
	if w.touching == t {
		w.touching = nil
	}
	if len(s.touches) > 0 {
		s.pinchDist = 0
		return true
	}
	if t.Canceled {
		return true
	}
	cutoff := w.velocityCutoff()
	if math.Abs(s.velX) > cutoff || math.Abs(s.velY) > cutoff {
		s.coasting = true
	}
	return true
}

// pinchUpdate rescales about the centroid of the first two touches: the
// content point under the centroid stays under it across the zoom change.
func (w *Widget) pinchUpdate() {
	s := w.scroll
	a, b := s.touches[0], s.touches[1]
	dist := touchDist(a, b)
	if s.pinchDist <= 0 || dist <= 0 {
		s.pinchDist = dist
		return
	}
	cx := (a.WinX + b.WinX) / 2
	cy := (a.WinY + b.WinY) / 2
	w.zoomAbout(cx, cy, s.zoom*dist/s.pinchDist)
	s.pinchDist = dist
}

// zoomAbout changes the zoom while keeping the content point under the
// given viewport-space anchor pinned there.
func (w *Widget) zoomAbout(ax, ay, z float64) {
	s := w.scroll
	vx, vy := w.geom.X, w.geom.Y

	// Content coordinates of the anchor before the zoom change.
	contentX := s.effX + (ax-vx)/s.zoom
	contentY := s.effY + (ay-vy)/s.zoom

	w.setZoom(z)

	if s.scrollX {
		s.desiredX = contentX - (ax-vx)/s.zoom
	}
	if s.scrollY {
		s.desiredY = contentY - (ay-vy)/s.zoom
	}
	w.refreshScroll()
}

func (w *Widget) scrollWheel(e *Wheel) bool {
	s := w.scroll
	if s == nil || (!s.scrollX && !s.scrollY) {
		return false
	}
	s.coasting = false
	if e.Ctrl && e.DY != 0 {
		w.zoomAbout(e.X, e.Y, s.zoom*math.Exp(-e.DY*0.002))
		return true
	}
	if s.scrollX {
		s.desiredX += e.DX / s.zoom
	}
	if s.scrollY {
		s.desiredY += e.DY / s.zoom
	}
	// Wheel input lands exactly where it stops; out-of-range requests do
	// not linger as pent-up desire.
	w.refreshScroll()
	s.desiredX, s.desiredY = s.effX, s.effY
	w.emitProp("scroll_x", s.desiredX)
	w.emitProp("scroll_y", s.desiredY)
	return true
}

// ============================================================================
// Kinetic coasting
// ============================================================================

// tickKinetic advances a released fling by one frame: position integrates
// the current velocity, then velocity decays exponentially, normalized to
// the configured reference interval so frame rate does not change the
// feel. An axis that hits its clamp boundary stops dead.
func (w *Widget) tickKinetic(dt float64) {
	s := w.scroll
	if s == nil || !s.coasting || dt <= 0 {
		return
	}
	decay, ref := w.decayParams()

	s.desiredX += s.velX * dt
	s.desiredY += s.velY * dt
	w.refreshScroll()

	// Only a bounded axis can hit an edge; an unbounded one coasts on.
	if s.scrollX && s.boundX && s.desiredX != s.effX {
		s.desiredX = s.effX
		s.velX = 0
	}
	if s.scrollY && s.boundY && s.desiredY != s.effY {
		s.desiredY = s.effY
		s.velY = 0
	}

	factor := math.Pow(decay, dt/ref)
	s.velX *= factor
	s.velY *= factor

	cutoff := w.velocityCutoff()
	if math.Abs(s.velX) < cutoff && math.Abs(s.velY) < cutoff {
		s.coasting = false
		s.velX, s.velY = 0, 0
	}
	w.emitProp("scroll_x", s.desiredX)
	w.emitProp("scroll_y", s.desiredY)
}

func (w *Widget) decayParams() (decay, ref float64) {
	decay, ref = 0.95, defaultDecayRefMs
	if w.app != nil {
		if d := w.app.cfg.Scroll.Decay; d > 0 && d < 1 {
			decay = d
		}
		if r := w.app.cfg.Scroll.DecayRefMs; r > 0 {
			ref = r
		}
	}
	return decay, ref
}

func (w *Widget) velocityCutoff() float64 {
	if w.app != nil && w.app.cfg.Scroll.MinVelocity > 0 {
		return w.app.cfg.Scroll.MinVelocity
	}
	return defaultMinVelocity
}

const (
	defaultDecayRefMs  = 16.0
	defaultMinVelocity = 0.01 // content units per millisecond
)

func touchDist(a, b *Touch) float64 {
	return math.Hypot(a.WinX-b.WinX, a.WinY-b.WinY)
}
