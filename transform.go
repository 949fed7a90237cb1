package loom

import "math"

// Transform is a 2D affine map in column-major [a, b, c, d, tx, ty] form:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Most widgets carry no transform (nil, identity). A widget with a
// transform applies it to its children's coordinate space for both
// drawing and pointer conversion, never to itself.
type Transform [6]float64

// IdentityTransform is the do-nothing transform.
var IdentityTransform = Transform{1, 0, 0, 1, 0, 0}

// Translate returns a translation transform.
func Translate(x, y float64) Transform {
	return Transform{1, 0, 0, 1, x, y}
}

// Scale returns a (possibly non-uniform) scale transform.
func Scale(sx, sy float64) Transform {
	return Transform{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a rotation transform (radians, clockwise in the y-down
// coordinate system).
func Rotate(rad float64) Transform {
	sin, cos := math.Sincos(rad)
	return Transform{cos, sin, -sin, cos, 0, 0}
}

// Mul composes two transforms: the result applies o first, then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		t[0]*o[0] + t[2]*o[1],
		t[1]*o[0] + t[3]*o[1],
		t[0]*o[2] + t[2]*o[3],
		t[1]*o[2] + t[3]*o[3],
		t[0]*o[4] + t[2]*o[5] + t[4],
		t[1]*o[4] + t[3]*o[5] + t[5],
	}
}

// Invert returns the inverse transform, or identity if the matrix is
// singular.
func (t Transform) Invert() Transform {
	det := t[0]*t[3] - t[2]*t[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityTransform
	}
	inv := 1.0 / det
	a := t[3] * inv
	b := -t[1] * inv
	c := -t[2] * inv
	d := t[0] * inv
	return Transform{
		a, b, c, d,
		-(a*t[4] + c*t[5]),
		-(b*t[4] + d*t[5]),
	}
}

// Apply maps a point through the transform.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}

// IsIdentity reports whether the transform is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform
}

// Transform returns the widget's child-space transform, or nil for the
// identity. Scroll views recompute theirs from scroll/zoom state.
func (w *Widget) Transform() *Transform { return w.transform }

// SetTransform installs a child-space transform; pass nil to restore the
// identity.
func (w *Widget) SetTransform(t *Transform) *Widget {
	w.transform = t
	w.requestRedraw()
	return w
}

// WindowTransform composes every ancestor transform from the root down to
// (but not including) the widget itself, yielding the map from the
// widget's coordinate space to window space.
func (w *Widget) WindowTransform() Transform {
	if w.parent == nil {
		return IdentityTransform
	}
	t := w.parent.WindowTransform()
	if pt := w.parent.transform; pt != nil {
		t = t.Mul(*pt)
	}
	return t
}

// WindowToLocal converts a window-space point into the widget's own
// coordinate space.
func (w *Widget) WindowToLocal(x, y float64) (float64, float64) {
	return w.WindowTransform().Invert().Apply(x, y)
}

// LocalToWindow converts a point in the widget's coordinate space to
// window space.
func (w *Widget) LocalToWindow(x, y float64) (float64, float64) {
	return w.WindowTransform().Apply(x, y)
}
