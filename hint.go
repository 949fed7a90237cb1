package loom

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// Hint Rules
// ============================================================================

// HintKind selects the basis a hint value is multiplied against.
type HintKind uint8

const (
	// HintFixed is an absolute value in logical pixels.
	HintFixed HintKind = iota

	// HintParentFrac multiplies by the parent box's extent on the hint's
	// axis. Positional targets are additionally offset by the parent's
	// own origin.
	HintParentFrac

	// HintOwnFrac multiplies by the target widget's *current* extent on
	// the hint's axis. This is what makes "square aspect" rules possible:
	// a width hint of one own-height resolves after the height has been
	// applied.
	HintOwnFrac

	// HintRootFrac multiplies by the application's logical tile-grid
	// extent on the hint's axis. The basis is absolute: ancestors are
	// ignored and no parent offset is added.
	HintRootFrac

	// HintFit leaves the property unconstrained; the layout engine or the
	// auto-fit text sizer derives it from content.
	HintFit
)

// HintAxis names which extent a fractional hint multiplies.
type HintAxis uint8

const (
	// AxisAuto picks the axis matching the target property: width-like
	// properties (w, x, center_x, right) use width, the rest use height.
	AxisAuto HintAxis = iota
	AxisW
	AxisH
)

// Hint is one declarative sizing/positioning rule for a single property.
// The zero value is Fixed(0).
type Hint struct {
	Kind  HintKind
	Value float64
	Axis  HintAxis
}

// Fixed returns an absolute hint.
func Fixed(v float64) Hint { return Hint{Kind: HintFixed, Value: v} }

// ParentFrac returns a hint relative to the parent box, axis chosen by
// the target property.
func ParentFrac(f float64) Hint { return Hint{Kind: HintParentFrac, Value: f} }

// ParentW and ParentH pin a parent-relative hint to an explicit axis.
func ParentW(f float64) Hint { return Hint{Kind: HintParentFrac, Value: f, Axis: AxisW} }
func ParentH(f float64) Hint { return Hint{Kind: HintParentFrac, Value: f, Axis: AxisH} }

// OwnW and OwnH return hints relative to the widget's own current size.
func OwnW(f float64) Hint { return Hint{Kind: HintOwnFrac, Value: f, Axis: AxisW} }
func OwnH(f float64) Hint { return Hint{Kind: HintOwnFrac, Value: f, Axis: AxisH} }

// RootW and RootH return hints relative to the application tile grid.
func RootW(f float64) Hint { return Hint{Kind: HintRootFrac, Value: f, Axis: AxisW} }
func RootH(f float64) Hint { return Hint{Kind: HintRootFrac, Value: f, Axis: AxisH} }

// FitContent returns the "derive from content" hint.
func FitContent() Hint { return Hint{Kind: HintFit} }

// Positional property names accepted by hints, SetProperty, and animations.
const (
	PropX       = "x"
	PropY       = "y"
	PropW       = "w"
	PropH       = "h"
	PropCenterX = "center_x"
	PropCenterY = "center_y"
	PropRight   = "right"
	PropBottom  = "bottom"
)

// isSizeProp reports whether the property names an extent rather than a
// position.
func isSizeProp(prop string) bool { return prop == PropW || prop == PropH }

// widthLikeProp reports whether the property resolves along the x axis.
func widthLikeProp(prop string) bool {
	switch prop {
	case PropX, PropW, PropCenterX, PropRight:
		return true
	}
	return false
}

// ParseHint parses the string rule grammar for the given target property.
//
//	"40"     absolute size / fractional position (depending on prop)
//	"0.5w"   half the parent's width
//	"0.2h"   a fifth of the parent's height
//	"1sw"    one own-width   "0.5sh"  half own-height
//	"2aw"    two app tiles wide       "3ah"  three app tiles tall
//	""       fit to content
//
// Malformed rules are configuration errors and are reported immediately
// with the offending input.
func ParseHint(prop, rule string) (Hint, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return FitContent(), nil
	}

	num := rule
	hint := Hint{}
	switch {
	case strings.HasSuffix(rule, "sw"):
		num, hint = rule[:len(rule)-2], Hint{Kind: HintOwnFrac, Axis: AxisW}
	case strings.HasSuffix(rule, "sh"):
		num, hint = rule[:len(rule)-2], Hint{Kind: HintOwnFrac, Axis: AxisH}
	case strings.HasSuffix(rule, "aw"):
		num, hint = rule[:len(rule)-2], Hint{Kind: HintRootFrac, Axis: AxisW}
	case strings.HasSuffix(rule, "ah"):
		num, hint = rule[:len(rule)-2], Hint{Kind: HintRootFrac, Axis: AxisH}
	case strings.HasSuffix(rule, "w"):
		num, hint = rule[:len(rule)-1], Hint{Kind: HintParentFrac, Axis: AxisW}
	case strings.HasSuffix(rule, "h"):
		num, hint = rule[:len(rule)-1], Hint{Kind: HintParentFrac, Axis: AxisH}
	default:
		// A pure number is absolute for sizes and a parent fraction for
		// positions ("proportion mode").
		if isSizeProp(prop) {
			hint = Hint{Kind: HintFixed}
		} else {
			hint = Hint{Kind: HintParentFrac}
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return Hint{}, fmt.Errorf("loom: malformed hint %q for property %q", rule, prop)
	}
	hint.Value = v
	return hint, nil
}

// ============================================================================
// Hint Resolution
// ============================================================================

// HintEntry binds one rule to one positional property. Entries keep
// authoring order; order matters when a width rule references own height.
type HintEntry struct {
	Prop string
	Hint Hint
}

// ResolveHint computes the concrete value of a hint against the supplied
// parent box. It is a pure function of (widget geometry, rule, parent box,
// tile grid): resolving twice with unchanged inputs yields identical
// results. The second return value is false for FitContent rules.
func (a *App) ResolveHint(w *Widget, prop string, h Hint, parent Rect) (float64, bool) {
	axis := h.Axis
	if axis == AxisAuto {
		if widthLikeProp(prop) {
			axis = AxisW
		} else {
			axis = AxisH
		}
	}

	switch h.Kind {
	case HintFixed:
		return h.Value, true

	case HintParentFrac:
		var v float64
		if axis == AxisW {
			v = h.Value * parent.W
		} else {
			v = h.Value * parent.H
		}
		// Relative positional rules are expressed in the parent's space.
		if !isSizeProp(prop) {
			if widthLikeProp(prop) {
				v += parent.X
			} else {
				v += parent.Y
			}
		}
		return v, true

	case HintOwnFrac:
		var v float64
		if axis == AxisW {
			v = h.Value * w.geom.W
		} else {
			v = h.Value * w.geom.H
		}
		if !isSizeProp(prop) {
			if widthLikeProp(prop) {
				v += parent.X
			} else {
				v += parent.Y
			}
		}
		return v, true

	case HintRootFrac:
		// Absolute basis: the root tile grid, no parent offset.
		if axis == AxisW {
			return h.Value * a.TileW(), true
		}
		return h.Value * a.TileH(), true

	case HintFit:
		return 0, false
	}
	return 0, false
}

// applyHints resolves and assigns every hint of w against the parent box.
// Rules whose basis is the widget's own opposite-axis extent are deferred
// to a second pass, so "h: 0.2h, w: 1sh" computes the height first no
// matter the authoring order.
func (a *App) applyHints(w *Widget, parent Rect) {
	var deferred []HintEntry
	for _, e := range w.hints {
		if dependsOnOppositeAxis(e) {
			deferred = append(deferred, e)
			continue
		}
		if v, ok := a.ResolveHint(w, e.Prop, e.Hint, parent); ok {
			w.setGeomProp(e.Prop, v)
		}
	}
	for _, e := range deferred {
		if v, ok := a.ResolveHint(w, e.Prop, e.Hint, parent); ok {
			w.setGeomProp(e.Prop, v)
		}
	}
}

// dependsOnOppositeAxis reports whether the entry reads the widget's own
// extent on the axis it does not set (e.g. a width rule in own-heights).
func dependsOnOppositeAxis(e HintEntry) bool {
	if e.Hint.Kind != HintOwnFrac {
		return false
	}
	if widthLikeProp(e.Prop) && e.Hint.Axis == AxisH {
		return true
	}
	if !widthLikeProp(e.Prop) && e.Hint.Axis == AxisW {
		return true
	}
	return false
}

// sizeHint returns the widget's hint for the given size property and
// whether one is present.
func (w *Widget) sizeHint(prop string) (Hint, bool) {
	for _, e := range w.hints {
		if e.Prop == prop {
			return e.Hint, true
		}
	}
	return Hint{}, false
}

// fitsContent reports whether the axis is hinted "fit to content".
// An absent hint is not fit-to-content: the widget keeps whatever size it
// was given.
func (w *Widget) fitsContent(prop string) bool {
	h, ok := w.sizeHint(prop)
	return ok && h.Kind == HintFit
}

// setGeomProp assigns a resolved value to a positional property without
// dispatching change notifications; layout owns the geometry while a pass
// is running.
func (w *Widget) setGeomProp(prop string, v float64) {
	switch prop {
	case PropX:
		w.geom.X = v
	case PropY:
		w.geom.Y = v
	case PropW:
		w.geom.W = v
	case PropH:
		w.geom.H = v
	case PropCenterX:
		w.geom.X = v - w.geom.W/2
	case PropCenterY:
		w.geom.Y = v - w.geom.H/2
	case PropRight:
		w.geom.X = v - w.geom.W
	case PropBottom:
		w.geom.Y = v - w.geom.H
	}
}

// geomProp reads a positional property.
func (w *Widget) geomProp(prop string) (float64, bool) {
	switch prop {
	case PropX:
		return w.geom.X, true
	case PropY:
		return w.geom.Y, true
	case PropW:
		return w.geom.W, true
	case PropH:
		return w.geom.H, true
	case PropCenterX:
		return w.geom.CenterX(), true
	case PropCenterY:
		return w.geom.CenterY(), true
	case PropRight:
		return w.geom.Right(), true
	case PropBottom:
		return w.geom.Bottom(), true
	}
	return 0, false
}
