package loom

import (
	"math"
	"testing"
)

func TestTransformCompose(t *testing.T) {
	tests := []struct {
		name   string
		tr     Transform
		inX    float64
		inY    float64
		wantX  float64
		wantY  float64
	}{
		{"identity", IdentityTransform, 3, 4, 3, 4},
		{"translate", Translate(10, -5), 3, 4, 13, -1},
		{"scale", Scale(2, 3), 3, 4, 6, 12},
		{"scale then translate", Translate(10, 0).Mul(Scale(2, 2)), 3, 4, 16, 8},
		{"translate then scale", Scale(2, 2).Mul(Translate(10, 0)), 3, 4, 26, 8},
		{"quarter turn", Rotate(math.Pi / 2), 1, 0, 0, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := tc.tr.Apply(tc.inX, tc.inY)
			approx(t, "x", x, tc.wantX)
			approx(t, "y", y, tc.wantY)
		})
	}
}

func TestTransformInvertRoundTrip(t *testing.T) {
	for _, tr := range []Transform{
		Translate(42, -17),
		Scale(3, 0.5),
		Rotate(1.1).Mul(Translate(5, 9)).Mul(Scale(2, 2)),
	} {
		inv := tr.Invert()
		x, y := inv.Apply(tr.Apply(12, 34))
		approx(t, "round-trip x", x, 12)
		approx(t, "round-trip y", y, 34)
	}
}

func TestSingularTransformInvertsToIdentity(t *testing.T) {
	if got := Scale(0, 0).Invert(); !got.IsIdentity() {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}

func TestWindowTransformComposesAncestors(t *testing.T) {
	a := newTestApp()
	root := NewWidget().SetTouchable(false)
	a.SetRoot(root)

	outer := NewWidget().SetTouchable(false)
	ot := Translate(100, 0)
	outer.SetTransform(&ot)
	root.AddChild(outer)

	inner := NewWidget().SetTouchable(false)
	it := Scale(2, 2)
	inner.SetTransform(&it)
	outer.AddChild(inner)

	leaf := NewWidget()
	inner.AddChild(leaf)

	// A widget's own transform applies to children only, never itself.
	x, y := inner.LocalToWindow(5, 5)
	approx(t, "inner x", x, 105)
	approx(t, "inner y", y, 5)

	x, y = leaf.LocalToWindow(5, 5)
	approx(t, "leaf x", x, 110)
	approx(t, "leaf y", y, 10)

	lx, ly := leaf.WindowToLocal(110, 10)
	approx(t, "leaf local x", lx, 5)
	approx(t, "leaf local y", ly, 5)
}

func TestGeometryHelpers(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	approx(t, "right", r.Right(), 40)
	approx(t, "bottom", r.Bottom(), 60)
	approx(t, "center x", r.CenterX(), 25)
	approx(t, "center y", r.CenterY(), 40)

	if !r.Contains(10, 20) {
		t.Error("top-left corner not contained")
	}
	if r.Contains(40, 20) {
		t.Error("right edge contained; the box is half-open")
	}
	degenerate := Rect{X: 0, Y: 0, W: 0, H: 10}
	if degenerate.Contains(0, 5) {
		t.Error("degenerate box contains points")
	}
}
