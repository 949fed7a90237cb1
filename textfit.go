package loom

import "math"

// ============================================================================
// Auto-fit text sizing
// ============================================================================
//
// Labels hinted fit-to-content size themselves from their text; labels
// with auto-fit enabled scale their font until the text meets the box
// they were given: overflowing text shrinks, underfilling text grows.
// Fitting runs at the tail of every layout pass, after geometry has
// settled, and is strictly bounded: a fixed iteration ceiling and a
// minimum font floor guarantee termination even for pathological
// measurer behavior.
//
// Size groups even out a set of labels (a keypad, a menu column): after
// individual fitting, every member of a named group renders at the
// group's minimum best-fit size, so no button's caption looks louder
// than its neighbors'.

const (
	defaultFitIterations = 10
	defaultFitTolerance  = 0.5 // logical pixels of acceptable overflow
	defaultMinFontSize   = 4.0
)

// fitLabels sizes content-hinted labels and shrink-fits auto-fit labels,
// then applies size-group minima in a second pass.
func (a *App) fitLabels() {
	measurer := a.Measurer()
	groups := map[string]float64{}

	a.root.Walk(func(w *Widget) bool {
		l := w.label
		if l == nil || l.text == "" {
			return true
		}
		if w.fitsContent(PropW) || w.fitsContent(PropH) {
			tw, th := measurer.MeasureText(l.text, l.fontSize)
			if w.fitsContent(PropW) {
				w.geom.W = tw
			}
			if w.fitsContent(PropH) {
				w.geom.H = th
			}
		}
		if !l.autoFit {
			return true
		}

		l.fitted = a.bestFit(l.text, l.fontSize, w.geom)
		if l.group != "" && !l.groupSkip {
			if cur, ok := groups[l.group]; !ok || l.fitted < cur {
				groups[l.group] = l.fitted
			}
		}
		return true
	})

	if len(groups) == 0 {
		return
	}
	a.root.Walk(func(w *Widget) bool {
		l := w.label
		if l != nil && l.autoFit && l.group != "" {
			if min, ok := groups[l.group]; ok {
				l.fitted = min
			}
		}
		return true
	})
}

// bestFit scales the candidate size by the available-to-measured ratio
// of the tighter axis: overflowing text shrinks, underfilling text grows
// until the limiting axis lands within tolerance of the box. Terminates
// at the iteration ceiling or the floor regardless of measurer behavior.
func (a *App) bestFit(text string, size float64, box Rect) float64 {
	iters, tol, floor := a.fitParams()
	if box.W <= 0 || box.H <= 0 {
		return floor
	}
	measurer := a.Measurer()

	for i := 0; i < iters; i++ {
		tw, th := measurer.MeasureText(text, size)
		if tw <= 0 || th <= 0 {
			return size
		}
		ratio := math.Min(box.W/tw, box.H/th)
		next := size * ratio
		if ratio >= 1 {
			// Underfilled (or exact): done once the limiting axis is
			// within tolerance of the box.
			if tw >= box.W-tol || th >= box.H-tol {
				return size
			}
			if next <= size {
				break // non-growing measurer
			}
		} else if next >= size {
			break // non-shrinking measurer
		}
		size = next
		if size <= floor {
			return floor
		}
	}
	return math.Max(size, floor)
}

func (a *App) fitParams() (iters int, tol, floor float64) {
	iters, tol, floor = defaultFitIterations, defaultFitTolerance, defaultMinFontSize
	if a.cfg.Text.FitIterations > 0 {
		iters = a.cfg.Text.FitIterations
	}
	if a.cfg.Text.FitTolerance > 0 {
		tol = a.cfg.Text.FitTolerance
	}
	if a.cfg.Text.MinFontSize > 0 {
		floor = a.cfg.Text.MinFontSize
	}
	return iters, tol, floor
}

// Measurer returns the active text measurer, defaulting to the built-in
// bitmap measurer when the backend supplied none.
func (a *App) Measurer() TextMeasurer {
	if a.measurer != nil {
		return a.measurer
	}
	return BasicMeasurer{}
}

// SetMeasurer installs the backend's text measurer and invalidates every
// fitted label.
func (a *App) SetMeasurer(m TextMeasurer) {
	a.measurer = m
	if a.root != nil {
		a.root.MarkNeedsLayout()
	}
}
