package loom

import "testing"

// newTestApp returns an app with default config and an 800x600 window,
// laid out on demand via settle.
func newTestApp() *App {
	return NewApp(DefaultConfig())
}

// settle runs frames until pending layout resolves.
func settle(a *App) {
	a.Update(16)
	a.Update(16)
}

// fixedMeasurer reports width = len(text) * size * ratio and height =
// size; deterministic and linear in size, like a real face.
type fixedMeasurer struct {
	ratio float64 // per-rune width as a fraction of size
}

func (m fixedMeasurer) MeasureText(text string, size float64) (float64, float64) {
	if text == "" {
		return 0, 0
	}
	r := m.ratio
	if r == 0 {
		r = 0.5
	}
	return float64(len(text)) * size * r, size
}

// recordCanvas captures draw calls for assertions.
type recordCanvas struct {
	fills      []Rect
	texts      []string
	transforms int
	clips      int
}

func (c *recordCanvas) PushTransform(Transform) { c.transforms++ }
func (c *recordCanvas) PopTransform()           {}
func (c *recordCanvas) PushClip(Rect)           { c.clips++ }
func (c *recordCanvas) PopClip()                {}
func (c *recordCanvas) FillRect(r Rect, _ Color) {
	c.fills = append(c.fills, r)
}
func (c *recordCanvas) StrokeRect(Rect, Color, float64) {}
func (c *recordCanvas) DrawText(s string, _ Rect, _ float64, _ Color) {
	c.texts = append(c.texts, s)
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	const eps = 1e-6
	if got < want-eps || got > want+eps {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
