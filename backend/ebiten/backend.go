// Package ebitenbackend hosts a loom scene graph inside an Ebitengine
// game loop: it pumps mouse, touch, and wheel input into the App, drives
// the frame clock, and renders through a Canvas backed by the screen
// image.
package ebitenbackend

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	loom "github.com/agiangrant/loom"
)

// wheelStep converts one wheel notch into logical scroll pixels.
const wheelStep = 24.0

// Game adapts a loom.App to ebiten.Game. The mouse is pointer 0; real
// touches map to pointers 1+.
type Game struct {
	app    *loom.App
	canvas *screenCanvas

	mouseDown    bool
	prevTouchIDs []ebiten.TouchID
	liveTouches  map[ebiten.TouchID][2]float64 // last known position

	lastFrame time.Time
}

// New wraps an App for ebiten.RunGame and installs the TTF measurer so
// auto-fit sizes against the real rendering face.
func New(app *loom.App) (*Game, error) {
	fonts, err := newFontCache()
	if err != nil {
		return nil, fmt.Errorf("ebitenbackend: loading font: %w", err)
	}
	app.SetMeasurer(&Measurer{fonts: fonts})
	return &Game{
		app:         app,
		canvas:      newScreenCanvas(fonts),
		liveTouches: make(map[ebiten.TouchID][2]float64),
	}, nil
}

// Run configures the window from the App's config and enters the game
// loop; it blocks until the window closes.
func Run(app *loom.App) error {
	g, err := New(app)
	if err != nil {
		return err
	}
	cfg := app.Config()
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(int(cfg.Window.Width), int(cfg.Window.Height))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

// Update implements ebiten.Game: pump input, then advance the App by the
// wall-clock delta in milliseconds.
func (g *Game) Update() error {
	now := time.Now()
	dt := 1000.0 / float64(ebiten.TPS())
	if !g.lastFrame.IsZero() {
		dt = float64(now.Sub(g.lastFrame)) / float64(time.Millisecond)
	}
	g.lastFrame = now

	g.pumpMouse()
	g.pumpTouches()
	g.pumpWheel()

	g.app.Update(dt)
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.begin(screen)
	g.app.Draw(g.canvas)
}

// Layout implements ebiten.Game: logical pixels track the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.app.WindowSize()
	if float64(outsideWidth) != w || float64(outsideHeight) != h {
		g.app.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

func (g *Game) pumpMouse() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case pressed && !g.mouseDown:
		g.app.TouchDown(0, x, y)
	case pressed && g.mouseDown:
		g.app.TouchMove(0, x, y)
	case !pressed && g.mouseDown:
		g.app.TouchUp(0, x, y)
	}
	g.mouseDown = pressed
}

func (g *Game) pumpTouches() {
	g.prevTouchIDs = ebiten.AppendTouchIDs(g.prevTouchIDs[:0])

	seen := make(map[ebiten.TouchID]struct{}, len(g.prevTouchIDs))
	for _, tid := range g.prevTouchIDs {
		seen[tid] = struct{}{}
		tx, ty := ebiten.TouchPosition(tid)
		x, y := float64(tx), float64(ty)
		if _, live := g.liveTouches[tid]; !live {
			g.app.TouchDown(pointerID(tid), x, y)
		} else {
			g.app.TouchMove(pointerID(tid), x, y)
		}
		g.liveTouches[tid] = [2]float64{x, y}
	}
	for tid, pos := range g.liveTouches {
		if _, still := seen[tid]; !still {
			delete(g.liveTouches, tid)
			// Ebiten reports no final position for a lifted touch; end the
			// gesture where it last was.
			g.app.TouchUp(pointerID(tid), pos[0], pos[1])
		}
	}
}

// pointerID keeps touch IDs clear of the mouse's pointer 0.
func pointerID(tid ebiten.TouchID) int { return int(tid) + 1 }

func (g *Game) pumpWheel() {
	wx, wy := ebiten.Wheel()
	if wx == 0 && wy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	// A wheel notch down scrolls the content down.
	g.app.WheelEvent(loom.Wheel{
		X: float64(mx), Y: float64(my),
		DX: -wx * wheelStep, DY: -wy * wheelStep,
		Ctrl: ebiten.IsKeyPressed(ebiten.KeyControlLeft) ||
			ebiten.IsKeyPressed(ebiten.KeyControlRight),
	})
}
