package loom

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Color is a packed 0xRRGGBBAA value, matching the wire format most
// rendering backends expect.
type Color uint32

// Common colors.
const (
	ColorTransparent Color = 0x00000000
	ColorBlack       Color = 0x000000FF
	ColorWhite       Color = 0xFFFFFFFF
	ColorGray        Color = 0x808080FF
)

// RGBA unpacks the color into 8-bit components.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGB packs components with full opacity.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xFF)
}

// RGBA packs components.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// WithOpacity scales the alpha channel by o (0..1).
func (c Color) WithOpacity(o float64) Color {
	if o >= 1 {
		return c
	}
	if o < 0 {
		o = 0
	}
	_, _, _, a := c.RGBA()
	return (c &^ 0xFF) | Color(uint8(float64(a)*o))
}

// Canvas is the immediate-mode drawing surface the scene graph renders
// onto. The host backend supplies one per frame; drawing never retains
// it. Transform and clip operations nest as a stack.
type Canvas interface {
	// PushTransform composes t onto the current transform for subsequent
	// draws; PopTransform restores the previous one.
	PushTransform(t Transform)
	PopTransform()

	// PushClip intersects the clip region with r in the current
	// coordinate space; PopClip restores the previous region.
	PushClip(r Rect)
	PopClip()

	// FillRect fills r with a solid color.
	FillRect(r Rect, c Color)

	// StrokeRect outlines r.
	StrokeRect(r Rect, c Color, width float64)

	// DrawText renders text centered in r at the given font size.
	DrawText(text string, r Rect, size float64, c Color)
}

// TextMeasurer reports the rendered extent of text at a candidate font
// size. The auto-fit sizer consumes this service; backends provide an
// implementation matched to their font stack.
type TextMeasurer interface {
	MeasureText(text string, size float64) (w, h float64)
}

// BasicMeasurer measures text with the fixed 7x13 bitmap face from
// golang.org/x/image, scaled linearly to the requested size. It is the
// fallback measurer when the backend supplies none, and the measurer of
// record in tests: cheap, deterministic, and monotonic in size.
type BasicMeasurer struct{}

const basicFaceHeight = 13.0

// MeasureText implements TextMeasurer. Multi-line text measures as the
// widest line by the line count.
func (BasicMeasurer) MeasureText(text string, size float64) (float64, float64) {
	if text == "" || size <= 0 {
		return 0, 0
	}
	scale := size / basicFaceHeight
	var maxW float64
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		adv := font.MeasureString(basicfont.Face7x13, line)
		if w := float64(adv.Round()) * scale; w > maxW {
			maxW = w
		}
	}
	return maxW, float64(len(lines)) * size
}
