package ebitenbackend

import (
	"bytes"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	loom "github.com/agiangrant/loom"
)

// screenCanvas adapts an ebiten frame image to the loom.Canvas contract.
// Transforms are tracked CPU-side and concatenated into each draw's GeoM;
// clips become SubImage render targets, so clipping costs nothing per
// pixel.
type screenCanvas struct {
	screen  *ebiten.Image
	targets []*ebiten.Image
	stack   []loom.Transform

	white *ebiten.Image
	fonts *fontCache
}

func newScreenCanvas(fonts *fontCache) *screenCanvas {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &screenCanvas{white: white, fonts: fonts}
}

func (c *screenCanvas) begin(screen *ebiten.Image) {
	c.screen = screen
	c.targets = c.targets[:0]
	c.targets = append(c.targets, screen)
	c.stack = c.stack[:0]
	c.stack = append(c.stack, loom.IdentityTransform)
}

func (c *screenCanvas) target() *ebiten.Image { return c.targets[len(c.targets)-1] }
func (c *screenCanvas) current() loom.Transform {
	return c.stack[len(c.stack)-1]
}

func (c *screenCanvas) PushTransform(t loom.Transform) {
	c.stack = append(c.stack, c.current().Mul(t))
}

func (c *screenCanvas) PopTransform() {
	if len(c.stack) > 1 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// PushClip intersects with the bounding box of the transformed rect. The
// sub-image shares pixels with the screen, so nesting is free.
func (c *screenCanvas) PushClip(r loom.Rect) {
	minX, minY, maxX, maxY := transformedBounds(c.current(), r)
	clip := image.Rect(int(minX), int(minY), int(maxX+0.5), int(maxY+0.5))
	clip = clip.Intersect(c.target().Bounds())
	c.targets = append(c.targets, c.screen.SubImage(clip).(*ebiten.Image))
}

func (c *screenCanvas) PopClip() {
	if len(c.targets) > 1 {
		c.targets = c.targets[:len(c.targets)-1]
	}
}

func (c *screenCanvas) FillRect(r loom.Rect, col loom.Color) {
	if _, _, _, a := col.RGBA(); a == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	bw, bh := c.white.Bounds().Dx(), c.white.Bounds().Dy()
	op.GeoM.Scale(r.W/float64(bw), r.H/float64(bh))
	op.GeoM.Translate(r.X, r.Y)
	op.GeoM.Concat(geoM(c.current()))
	op.ColorScale.ScaleWithColor(nrgba(col))
	c.target().DrawImage(c.white, &op)
}

// StrokeRect outlines the transformed bounding box. Rotated strokes keep
// axis-aligned edges; widget chrome never rotates in practice.
func (c *screenCanvas) StrokeRect(r loom.Rect, col loom.Color, width float64) {
	minX, minY, maxX, maxY := transformedBounds(c.current(), r)
	vector.StrokeRect(c.target(),
		float32(minX), float32(minY), float32(maxX-minX), float32(maxY-minY),
		float32(width), nrgba(col), true)
}

func (c *screenCanvas) DrawText(s string, r loom.Rect, size float64, col loom.Color) {
	if s == "" || size <= 0 {
		return
	}
	face, lh := c.fonts.face(size)
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.LineSpacing = lh
	op.GeoM.Translate(r.CenterX(), r.CenterY())
	op.GeoM.Concat(geoM(c.current()))
	op.ColorScale.ScaleWithColor(nrgba(col))
	text.Draw(c.target(), s, face, op)
}

// geoM converts a loom affine matrix to an ebiten GeoM.
func geoM(t loom.Transform) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, t[0])
	g.SetElement(0, 1, t[2])
	g.SetElement(0, 2, t[4])
	g.SetElement(1, 0, t[1])
	g.SetElement(1, 1, t[3])
	g.SetElement(1, 2, t[5])
	return g
}

func transformedBounds(t loom.Transform, r loom.Rect) (minX, minY, maxX, maxY float64) {
	xs := [4]float64{}
	ys := [4]float64{}
	xs[0], ys[0] = t.Apply(r.X, r.Y)
	xs[1], ys[1] = t.Apply(r.Right(), r.Y)
	xs[2], ys[2] = t.Apply(r.X, r.Bottom())
	xs[3], ys[3] = t.Apply(r.Right(), r.Bottom())
	minX, maxX = xs[0], xs[0]
	minY, maxY = ys[0], ys[0]
	for i := 1; i < 4; i++ {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}
	return minX, minY, maxX, maxY
}

func nrgba(c loom.Color) color.NRGBA {
	r, g, b, a := c.RGBA()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// fontCache shares one parsed face source across canvas and measurer;
// GoTextFace values themselves are cheap per-size wrappers.
type fontCache struct {
	source *text.GoTextFaceSource
}

func newFontCache() (*fontCache, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	return &fontCache{source: src}, nil
}

func (f *fontCache) face(size float64) (*text.GoTextFace, float64) {
	face := &text.GoTextFace{Source: f.source, Size: size}
	m := face.Metrics()
	return face, m.HAscent + m.HDescent + m.HLineGap
}

// Measurer measures text with the same face the canvas renders with, so
// auto-fit results match what ends up on screen.
type Measurer struct {
	fonts *fontCache
}

// MeasureText implements loom.TextMeasurer.
func (m *Measurer) MeasureText(s string, size float64) (w, h float64) {
	if s == "" || size <= 0 {
		return 0, 0
	}
	face, lh := m.fonts.face(size)
	return text.Measure(s, face, lh)
}
