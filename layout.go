package loom

import (
	"log"
	"math"
	"os"
)

var debugLayout = os.Getenv("LOOM_DEBUG_LAYOUT") != ""

func debugLog(format string, args ...interface{}) {
	if debugLayout {
		log.Printf(format, args...)
	}
}

// ============================================================================
// Layout driver
// ============================================================================

// layoutPass walks the tree from the root and re-lays-out every dirty
// subtree, then runs the auto-fit text sizer over labels whose fit is
// stale. Called at most once per frame, before widget updates and draws.
func (a *App) layoutPass() {
	if a.root == nil {
		return
	}
	a.layoutPending = false
	a.layoutWalk(a.root)
	a.fitLabels()
}

// layoutWalk searches for dirty widgets; a dirty widget triggers a full
// layoutChildren recursion below itself.
func (a *App) layoutWalk(w *Widget) {
	if w.needsLayout {
		a.layoutChildren(w)
		return
	}
	if w.kind == KindNotebook {
		if w.activePage >= 0 && w.activePage < len(w.children) {
			a.layoutWalk(w.children[w.activePage])
		}
		return
	}
	for _, c := range w.children {
		a.layoutWalk(c)
	}
}

// layoutChildren clears the widget's dirty flag, resolves hints, arranges
// children by kind, and recurses into children even when their own flags
// are clear, so hint-driven repositioning always propagates below a dirty
// ancestor.
func (a *App) layoutChildren(w *Widget) {
	w.needsLayout = false
	debugLog("layout %s %q %v", w.kind, w.id, w.geom)

	switch w.kind {
	case KindBox:
		a.layoutBox(w)
	case KindGrid:
		a.layoutGrid(w)
	case KindNotebook:
		a.layoutNotebook(w)
	case KindScroll:
		a.layoutScroll(w)
	default:
		a.layoutFloat(w)
	}

	if w.kind == KindNotebook {
		// Inactive pages are skipped entirely, not merely hidden.
		if w.activePage >= 0 && w.activePage < len(w.children) {
			a.layoutChildren(w.children[w.activePage])
		}
		return
	}
	for _, c := range w.children {
		a.layoutChildren(c)
	}
}

// ============================================================================
// Float / default
// ============================================================================

// layoutFloat applies each child's hints independently against the
// widget's own box. No collision avoidance, no implicit sizing.
func (a *App) layoutFloat(w *Widget) {
	for _, c := range w.children {
		a.applyHints(c, w.geom)
	}
}

// ============================================================================
// Box
// ============================================================================

// layoutBox partitions the main axis between fixed children (explicit
// main-axis size hint) and flexible ones (fit-to-content or no hint),
// splitting leftover length evenly among the flexible children.
func (a *App) layoutBox(w *Widget) {
	n := len(w.children)
	if n == 0 {
		a.maybeGrowToContent(w)
		return
	}

	inner := w.geom.Inset(w.padding)
	vertical := w.orientation == Vertical

	mainProp, crossProp := PropW, PropH
	if vertical {
		mainProp, crossProp = PropH, PropW
	}

	// Pass 1: resolve fixed main-axis sizes.
	fixedTotal := 0.0
	flexible := 0
	mains := make([]float64, n)
	isFlex := make([]bool, n)
	for i, c := range w.children {
		h, ok := c.sizeHint(mainProp)
		if !ok || h.Kind == HintFit {
			isFlex[i] = true
			flexible++
			continue
		}
		v, _ := a.ResolveHint(c, mainProp, h, inner)
		mains[i] = v
		fixedTotal += v
	}

	innerMain := inner.H
	innerCross := inner.W
	if !vertical {
		innerMain, innerCross = inner.W, inner.H
	}

	spacingTotal := w.spacing * float64(n-1)
	leftover := innerMain - fixedTotal - spacingTotal

	// Flexible children split the leftover evenly. Over-subscription is
	// not rejected: shares go negative and the draw/hit layer treats the
	// results as empty boxes.
	share := 0.0
	offset := 0.0
	if flexible > 0 {
		share = leftover / float64(flexible)
	} else if leftover > 0 {
		// All children fixed: center the run in the remaining space.
		offset = leftover / 2
	}
	for i := range mains {
		if isFlex[i] {
			mains[i] = share
		}
	}

	// Pass 2: place children sequentially along the main axis, resolve
	// cross-axis sizes, and let explicit cross hints override the default
	// centering.
	pos := offset
	for i, c := range w.children {
		cross := innerCross
		if h, ok := c.sizeHint(crossProp); ok {
			if h.Kind == HintFit {
				// Content-sized cross axis keeps the child's extent.
				if vertical {
					cross = c.geom.W
				} else {
					cross = c.geom.H
				}
			} else {
				cross, _ = a.ResolveHint(c, crossProp, h, inner)
			}
		}

		if vertical {
			c.geom.H = mains[i]
			c.geom.W = cross
			c.geom.Y = inner.Y + pos
			c.geom.X = inner.X + (innerCross-cross)/2
		} else {
			c.geom.W = mains[i]
			c.geom.H = cross
			c.geom.X = inner.X + pos
			c.geom.Y = inner.Y + (innerCross-cross)/2
		}
		pos += mains[i] + w.spacing

		a.applyCrossHints(c, inner, vertical)
	}

	a.maybeGrowToContent(w)
}

// applyCrossHints applies a box child's positional hints on the cross
// axis (a vertical box honors x/center_x/right; horizontal honors
// y/center_y/bottom).
func (a *App) applyCrossHints(c *Widget, inner Rect, vertical bool) {
	for _, e := range c.hints {
		if isSizeProp(e.Prop) {
			continue
		}
		if vertical != widthLikeProp(e.Prop) {
			continue // main-axis position is owned by the stacking order
		}
		if v, ok := a.ResolveHint(c, e.Prop, e.Hint, inner); ok {
			c.setGeomProp(e.Prop, v)
		}
	}
}

// maybeGrowToContent grows a content-sized box (main-axis hint is
// fit-to-content) to exactly wrap its children, and re-flags the root
// when the size changed: ancestors above a content-sized container may
// now be stale.
func (a *App) maybeGrowToContent(w *Widget) {
	mainProp := PropW
	if w.orientation == Vertical {
		mainProp = PropH
	}
	if !w.fitsContent(mainProp) {
		return
	}

	total := 2 * w.padding
	if len(w.children) > 0 {
		for _, c := range w.children {
			if w.orientation == Vertical {
				total += c.geom.H
			} else {
				total += c.geom.W
			}
		}
		total += w.spacing * float64(len(w.children)-1)
	}

	var cur float64
	if w.orientation == Vertical {
		cur, w.geom.H = w.geom.H, total
	} else {
		cur, w.geom.W = w.geom.W, total
	}
	if math.Abs(cur-total) > 1e-9 {
		debugLog("box %q content-sized %s %.2f -> %.2f", w.id, mainProp, cur, total)
		if w.app != nil && w.app.root != nil {
			w.app.root.MarkNeedsLayout()
		}
	}
}

// ============================================================================
// Grid
// ============================================================================

// layoutGrid distributes children row-major into a fixed column count
// (or column-major into a fixed row count), deriving the free dimension
// by ceiling division. Tracks with an explicit size hint keep their
// maximum hinted extent; the remaining space spreads evenly across the
// unhinted tracks, never below zero.
func (a *App) layoutGrid(w *Widget) {
	n := len(w.children)
	if n == 0 {
		return
	}

	cols, rows := w.gridCols, w.gridRows
	if w.colMajor {
		if rows <= 0 {
			rows = 1
		}
		cols = (n + rows - 1) / rows
	} else {
		if cols <= 0 {
			cols = 1
		}
		rows = (n + cols - 1) / cols
	}

	inner := w.geom.Inset(w.padding)

	cellOf := func(i int) (row, col int) {
		if w.colMajor {
			return i % rows, i / rows
		}
		return i / cols, i % cols
	}

	// Per-track explicit maxima from hinted children.
	colW := make([]float64, cols)
	colHinted := make([]bool, cols)
	rowH := make([]float64, rows)
	rowHinted := make([]bool, rows)
	for i, c := range w.children {
		row, col := cellOf(i)
		if h, ok := c.sizeHint(PropW); ok && h.Kind != HintFit {
			v, _ := a.ResolveHint(c, PropW, h, inner)
			if v > colW[col] {
				colW[col] = v
			}
			colHinted[col] = true
		}
		if h, ok := c.sizeHint(PropH); ok && h.Kind != HintFit {
			v, _ := a.ResolveHint(c, PropH, h, inner)
			if v > rowH[row] {
				rowH[row] = v
			}
			rowHinted[row] = true
		}
	}

	spreadTracks(colW, colHinted, inner.W, w.spacing)
	spreadTracks(rowH, rowHinted, inner.H, w.spacing)

	// Cumulative offsets.
	colX := make([]float64, cols)
	x := inner.X
	for c := 0; c < cols; c++ {
		colX[c] = x
		x += colW[c] + w.spacing
	}
	rowY := make([]float64, rows)
	y := inner.Y
	for r := 0; r < rows; r++ {
		rowY[r] = y
		y += rowH[r] + w.spacing
	}

	for i, c := range w.children {
		row, col := cellOf(i)
		c.geom = Rect{X: colX[col], Y: rowY[row], W: colW[col], H: rowH[row]}
	}
}

// spreadTracks assigns the space left after explicit tracks and spacing
// evenly across the unhinted tracks. Track extents never go negative.
func spreadTracks(tracks []float64, hinted []bool, total, spacing float64) {
	remaining := total - spacing*float64(len(tracks)-1)
	unhinted := 0
	for i := range tracks {
		if hinted[i] {
			remaining -= tracks[i]
		} else {
			unhinted++
		}
	}
	if unhinted == 0 {
		return
	}
	share := remaining / float64(unhinted)
	if share < 0 {
		share = 0
	}
	for i := range tracks {
		if !hinted[i] {
			tracks[i] = share
		}
	}
}

// ============================================================================
// Notebook
// ============================================================================

// layoutNotebook gives the active page the full inner box; inactive pages
// are not touched at all.
func (a *App) layoutNotebook(w *Widget) {
	if w.activePage < 0 || w.activePage >= len(w.children) {
		return
	}
	page := w.children[w.activePage]
	page.geom = w.geom.Inset(w.padding)
	a.applyHints(page, w.geom)
}

// ============================================================================
// Scroll
// ============================================================================

// layoutScroll lays out the single content child against the viewport
// box, then re-clamps the scroll position and rebuilds the viewport
// transform, since content or viewport extents may have changed.
func (a *App) layoutScroll(w *Widget) {
	for _, c := range w.children {
		// Content children default to the viewport origin; hints may
		// still size them relative to the viewport.
		a.applyHints(c, w.geom)
		if _, ok := c.sizeHint(PropX); !ok {
			c.geom.X = w.geom.X
		}
		if _, ok := c.sizeHint(PropY); !ok {
			c.geom.Y = w.geom.Y
		}
	}
	w.refreshScroll()
}
