package loom

import (
	"log"
	"sort"
)

// App is the explicit application context every live widget belongs to.
// It owns the root of the scene graph, the binding table, the animation
// registry, the timer queue, and the coalesced layout/redraw flags. There
// is no global state: two Apps in one process are fully independent.
//
// All App methods must be called from the host's frame goroutine. The
// whole toolkit is single-threaded by contract; the frame loop is the
// only scheduler.
type App struct {
	cfg  Config
	root *Widget

	winW, winH float64

	widgetsByID map[string]*Widget
	bindings    map[*Widget]map[string][]binding
	animations  map[*Widget]*Animation
	touches     map[int]*Touch

	timers      []*timer
	nextTimerID int

	layoutPending bool
	redrawPending bool

	measurer TextMeasurer

	// Application clock in milliseconds, advanced by Update.
	now float64

	// Double-tap detection.
	lastTapTime float64
	lastTapX    float64
	lastTapY    float64
}

// NewApp creates an application context with the given configuration.
func NewApp(cfg Config) *App {
	return &App{
		cfg:         cfg,
		winW:        cfg.Window.Width,
		winH:        cfg.Window.Height,
		widgetsByID: make(map[string]*Widget),
		bindings:    make(map[*Widget]map[string][]binding),
		animations:  make(map[*Widget]*Animation),
		touches:     make(map[int]*Touch),
	}
}

// Config returns the active configuration.
func (a *App) Config() Config { return a.cfg }

// Root returns the scene graph root, or nil.
func (a *App) Root() *Widget { return a.root }

// SetRoot installs the scene graph root. The root fills the window
// unless it carries its own size hints.
func (a *App) SetRoot(w *Widget) {
	if a.root != nil {
		a.root.detach()
	}
	a.root = w
	if w != nil {
		w.parent = nil
		w.attach(a)
		if len(w.hints) == 0 {
			w.geom = Rect{W: a.winW, H: a.winH}
		}
		w.MarkNeedsLayout()
	}
}

// Resize updates the window extent; a hint-free root follows it.
func (a *App) Resize(width, height float64) {
	a.winW, a.winH = width, height
	if a.root != nil {
		if len(a.root.hints) == 0 {
			a.root.geom = Rect{W: width, H: height}
		}
		a.root.MarkNeedsLayout()
	}
}

// WindowSize returns the logical window extent.
func (a *App) WindowSize() (w, h float64) { return a.winW, a.winH }

// TileW and TileH are the extents of one cell of the application tile
// grid: the window divided into the configured column/row counts. Hints
// with the app-tile basis multiply these, ignoring ancestry entirely.
func (a *App) TileW() float64 {
	if a.cfg.Grid.Cols <= 0 {
		return a.winW
	}
	return a.winW / float64(a.cfg.Grid.Cols)
}

func (a *App) TileH() float64 {
	if a.cfg.Grid.Rows <= 0 {
		return a.winH
	}
	return a.winH / float64(a.cfg.Grid.Rows)
}

// Now returns the application clock in milliseconds.
func (a *App) Now() float64 { return a.now }

// WidgetByID finds a live widget by its assigned ID, or nil.
func (a *App) WidgetByID(id string) *Widget { return a.widgetsByID[id] }

func (a *App) registerID(w *Widget) {
	if prev, ok := a.widgetsByID[w.id]; ok && prev != w {
		a.logf("duplicate widget id %q; keeping newest", w.id)
	}
	a.widgetsByID[w.id] = w
}

func (a *App) unregisterID(w *Widget) {
	if a.widgetsByID[w.id] == w {
		delete(a.widgetsByID, w.id)
	}
}

// ============================================================================
// Coalesced invalidation
// ============================================================================

// RequestLayout schedules a layout pass before the next draw. Requests
// made during a pass coalesce into one follow-up pass, never recursion.
func (a *App) RequestLayout() {
	a.layoutPending = true
	a.redrawPending = true
}

// RequestRedraw schedules a redraw without re-layout.
func (a *App) RequestRedraw() { a.redrawPending = true }

// NeedsRedraw reports whether anything changed since the last Draw.
// Hosts that skip idle frames key off this.
func (a *App) NeedsRedraw() bool { return a.redrawPending }

func (a *App) layoutIfPending() {
	// A pass can re-flag (content-sized containers); bound the cascade to
	// a handful of passes per frame and let the rest spill into the next.
	for i := 0; i < 3 && a.layoutPending; i++ {
		a.layoutPass()
	}
}

// ============================================================================
// Timers
// ============================================================================

type timer struct {
	id       int
	due      float64 // absolute ms on the application clock
	interval float64 // 0 = one-shot
	fn       func(*App)
}

// Schedule runs fn once after delayMs on the frame clock. Returns a
// handle for CancelTimer.
func (a *App) Schedule(delayMs float64, fn func(*App)) int {
	a.nextTimerID++
	a.timers = append(a.timers, &timer{id: a.nextTimerID, due: a.now + delayMs, fn: fn})
	return a.nextTimerID
}

// ScheduleInterval runs fn every intervalMs until canceled.
func (a *App) ScheduleInterval(intervalMs float64, fn func(*App)) int {
	a.nextTimerID++
	a.timers = append(a.timers, &timer{
		id: a.nextTimerID, due: a.now + intervalMs, interval: intervalMs, fn: fn,
	})
	return a.nextTimerID
}

// CancelTimer stops a scheduled timer; unknown handles are ignored.
func (a *App) CancelTimer(id int) {
	for i, t := range a.timers {
		if t.id == id {
			a.timers = append(a.timers[:i], a.timers[i+1:]...)
			return
		}
	}
}

// fireTimers runs the due timers in due order. Callbacks may schedule
// and cancel freely; timers scheduled during the sweep wait for the next
// frame even when already due.
func (a *App) fireTimers() {
	if len(a.timers) == 0 {
		return
	}
	var due []*timer
	kept := a.timers[:0]
	for _, t := range a.timers {
		if t.due <= a.now {
			due = append(due, t)
			if t.interval > 0 {
				t.due = a.now + t.interval
				kept = append(kept, t)
			}
		} else {
			kept = append(kept, t)
		}
	}
	a.timers = kept
	sort.SliceStable(due, func(i, j int) bool { return due[i].due < due[j].due })
	for _, t := range due {
		t.fn(a)
	}
}

// ============================================================================
// Frame loop
// ============================================================================

// Update advances one frame by dt milliseconds: timers fire, animations
// step, pending layout resolves, then every widget's update callback runs
// depth-first with parents before children. Mutations made anywhere in
// here coalesce into the layout/redraw performed before the next Draw.
func (a *App) Update(dt float64) {
	a.now += dt

	a.fireTimers()

	for w, anim := range a.animations {
		if anim.tick(dt) {
			delete(a.animations, w)
		}
	}

	a.layoutIfPending()

	if a.root != nil {
		a.root.update(dt)
	}
}

// Draw resolves any layout the update phase re-flagged, renders the tree,
// and clears the redraw flag.
func (a *App) Draw(c Canvas) {
	a.layoutIfPending()
	if a.root != nil {
		a.root.Draw(c)
	}
	a.redrawPending = false
}

func (a *App) logf(format string, args ...interface{}) {
	log.Printf("loom: "+format, args...)
}
