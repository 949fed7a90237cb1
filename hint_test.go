package loom

import (
	"strings"
	"testing"
)

func TestParseHint(t *testing.T) {
	tests := []struct {
		name string
		prop string
		rule string
		want Hint
	}{
		{"absolute size", "w", "40", Hint{Kind: HintFixed, Value: 40}},
		{"fractional position", "x", "0.5", Hint{Kind: HintParentFrac, Value: 0.5}},
		{"parent width", "w", "0.5w", Hint{Kind: HintParentFrac, Value: 0.5, Axis: AxisW}},
		{"parent height", "y", "0.2h", Hint{Kind: HintParentFrac, Value: 0.2, Axis: AxisH}},
		{"own width", "h", "1sw", Hint{Kind: HintOwnFrac, Value: 1, Axis: AxisW}},
		{"own height", "w", "0.5sh", Hint{Kind: HintOwnFrac, Value: 0.5, Axis: AxisH}},
		{"app tile width", "w", "2aw", Hint{Kind: HintRootFrac, Value: 2, Axis: AxisW}},
		{"app tile height", "h", "3ah", Hint{Kind: HintRootFrac, Value: 3, Axis: AxisH}},
		{"fit content", "w", "", Hint{Kind: HintFit}},
		{"whitespace tolerated", "h", "  12  ", Hint{Kind: HintFixed, Value: 12}},
		{"negative position", "x", "-0.25", Hint{Kind: HintParentFrac, Value: -0.25}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseHint(tc.prop, tc.rule)
			if err != nil {
				t.Fatalf("ParseHint(%q, %q): %v", tc.prop, tc.rule, err)
			}
			if got != tc.want {
				t.Errorf("ParseHint(%q, %q) = %+v, want %+v", tc.prop, tc.rule, got, tc.want)
			}
		})
	}
}

func TestParseHintErrors(t *testing.T) {
	for _, rule := range []string{"abc", "1.2.3w", "sw", "--4", "40px"} {
		t.Run(rule, func(t *testing.T) {
			_, err := ParseHint("w", rule)
			if err == nil {
				t.Fatalf("ParseHint(%q) succeeded, want error", rule)
			}
			if !strings.Contains(err.Error(), rule) {
				t.Errorf("error %q does not name the offending rule %q", err, rule)
			}
		})
	}
}

func TestResolveHintIsPure(t *testing.T) {
	a := newTestApp()
	w := NewWidget()
	w.SetSize(50, 80)
	parent := Rect{X: 10, Y: 20, W: 200, H: 100}

	for _, h := range []Hint{Fixed(40), ParentFrac(0.5), OwnH(1), RootW(2)} {
		v1, ok1 := a.ResolveHint(w, "w", h, parent)
		v2, ok2 := a.ResolveHint(w, "w", h, parent)
		if v1 != v2 || ok1 != ok2 {
			t.Errorf("resolution of %+v is not repeatable: %v vs %v", h, v1, v2)
		}
	}
}

func TestResolveHintBases(t *testing.T) {
	a := newTestApp() // 800x600 window, 16x12 tile grid => 50x50 tiles
	w := NewWidget()
	w.SetSize(60, 80)
	parent := Rect{X: 100, Y: 50, W: 200, H: 400}

	tests := []struct {
		name string
		prop string
		h    Hint
		want float64
	}{
		{"fixed ignores parent", "w", Fixed(40), 40},
		{"size fraction has no offset", "w", ParentFrac(0.5), 100},
		{"position fraction offsets by parent origin", "x", ParentFrac(0.5), 200},
		{"vertical position uses height", "y", ParentFrac(0.25), 150},
		{"explicit axis override", "w", ParentH(0.5), 200},
		{"own height basis", "w", OwnH(0.5), 40},
		{"tile basis ignores parent", "w", RootW(2), 100},
		{"tile height basis", "h", RootH(3), 150},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := a.ResolveHint(w, tc.prop, tc.h, parent)
			if !ok {
				t.Fatal("hint did not resolve")
			}
			approx(t, "value", got, tc.want)
		})
	}

	if _, ok := a.ResolveHint(w, "w", FitContent(), parent); ok {
		t.Error("fit-content resolved to a value")
	}
}

// A width rule in own-heights must see the already-resolved height, no
// matter the order the hints were installed in.
func TestApplyHintsHeightBeforeDependentWidth(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	child := NewWidget()
	child.SetHint(PropW, OwnH(0.5))      // installed first on purpose
	child.SetHint(PropH, ParentFrac(1))  // height: full parent
	root.AddChild(child)
	settle(a)

	approx(t, "child height", child.Geometry().H, 600)
	approx(t, "child width", child.Geometry().W, 300)
}

func TestApplyHintStrings(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	child := NewWidget()
	root.AddChild(child)
	err := child.ApplyHintStrings(map[string]string{
		"w":        "0.25w",
		"h":        "120",
		"center_x": "0.5",
	})
	if err != nil {
		t.Fatalf("ApplyHintStrings: %v", err)
	}
	settle(a)

	g := child.Geometry()
	approx(t, "w", g.W, 200)
	approx(t, "h", g.H, 120)
	approx(t, "center_x", g.CenterX(), 400)

	if err := child.ApplyHintStrings(map[string]string{"w": "bogus"}); err == nil {
		t.Error("malformed rule accepted")
	}
	if err := child.ApplyHintStrings(map[string]string{"diameter": "40"}); err == nil {
		t.Error("unknown property accepted")
	}
}
