// Package loom is a retained-mode widget scene graph: a tree of widgets
// laid out by declarative hints, drawn onto an immediate-mode canvas, and
// driven by a host frame loop.
//
// The architecture is deliberately single-threaded and cooperative: all
// layout, event dispatch, animation stepping, and drawing happen inside
// one Update call per frame. Geometry flows down through hint resolution
// and per-kind layout; pointer events flow down through transform-aware
// dispatch; dirty flags flow up and are coalesced into a single layout
// pass before the next draw.
package loom

import (
	"errors"
	"fmt"
)

// WidgetKind identifies the layout/interaction behavior of a widget.
type WidgetKind uint8

const (
	// KindWidget is the float/default kind: children are placed purely by
	// their own hints against this widget's box, with no collision
	// avoidance. Leaf widgets of this kind claim touches inside their box.
	KindWidget WidgetKind = iota

	// KindBox stacks children along one axis, splitting leftover length
	// evenly among children without a main-axis size hint.
	KindBox

	// KindGrid places children row-major into a fixed number of columns
	// (or column-major into rows).
	KindGrid

	// KindNotebook lays out and draws only the active page; inactive
	// pages receive no layout, draw, or event traffic.
	KindNotebook

	// KindScroll is a pannable/zoomable viewport over a single oversized
	// child. It owns a transform and converts pointer coordinates.
	KindScroll

	// KindLabel is a text leaf that can auto-fit its font size.
	KindLabel

	// KindButton is a label with press interaction.
	KindButton
)

func (k WidgetKind) String() string {
	switch k {
	case KindWidget:
		return "widget"
	case KindBox:
		return "box"
	case KindGrid:
		return "grid"
	case KindNotebook:
		return "notebook"
	case KindScroll:
		return "scroll"
	case KindLabel:
		return "label"
	case KindButton:
		return "button"
	}
	return "unknown"
}

// Orientation selects the main axis of a box container.
type Orientation uint8

const (
	Vertical Orientation = iota
	Horizontal
)

// Responder overrides a widget's event handling. Custom components embed
// or wrap a Widget and install themselves as its responder; returning
// true consumes the event and stops propagation.
type Responder interface {
	OnTouchDown(w *Widget, t *Touch) bool
	OnTouchMove(w *Widget, t *Touch) bool
	OnTouchUp(w *Widget, t *Touch) bool
}

// TouchHandler is a callback for pointer events. Return true to claim the
// event.
type TouchHandler func(w *Widget, t *Touch) bool

// WheelHandler is a callback for wheel events.
type WheelHandler func(w *Widget, e *Wheel) bool

// Widget is a node in the scene graph.
//
// A widget is created detached and becomes live when added to a parent
// reachable from the root. Children are ordered; insertion order is draw
// order, and draw order is z-order (later = on top). Event dispatch
// visits children in reverse so the topmost sibling wins.
type Widget struct {
	id   string
	kind WidgetKind

	geom     Rect
	hints    []HintEntry
	parent   *Widget
	children []*Widget

	app         *App
	needsLayout bool

	anim      *Animation
	transform *Transform // nil = identity; applies to children only

	visible  bool
	disabled bool
	opacity  float64

	backgroundColor *Color

	// Box parameters.
	orientation Orientation
	spacing     float64
	padding     float64

	// Grid parameters. Exactly one of gridCols/gridRows is non-zero; the
	// other dimension is derived by ceiling division.
	gridCols int
	gridRows int
	colMajor bool

	// Notebook parameters.
	activePage int

	// Label behavior, shared by KindLabel and KindButton via delegation.
	label *labelState

	// Scroll behavior, present only on KindScroll.
	scroll *scrollState

	// Event handlers.
	onTouchDown TouchHandler
	onTouchMove TouchHandler
	onTouchUp   TouchHandler
	onWheel     WheelHandler
	onPress     func(w *Widget)
	onUpdate    func(w *Widget, dt float64)
	responder   Responder

	// touchable widgets claim touch-downs inside their box when no child
	// handled them first. Leaf kinds default to true, containers to false.
	touchable bool

	// Active gesture state.
	touching *Touch

	// Custom data for application use.
	data any
}

// labelState is the text-bearing behavior embedded in label-like kinds.
type labelState struct {
	text     string
	fontSize float64
	color    Color

	// Auto-fit state.
	autoFit   bool
	fitted    float64 // last best-fit size computed by the sizer
	group     string  // size-group name; empty = none
	groupSkip bool    // compute own fit but do not drag the group minimum down

	// Toggle behavior.
	toggle   bool
	selected bool
}

// NewWidget creates a detached float/default widget.
func NewWidget() *Widget {
	return &Widget{
		kind:        KindWidget,
		visible:     true,
		opacity:     1.0,
		needsLayout: true,
		touchable:   true,
	}
}

// NewBox creates a box container with the given main axis.
func NewBox(o Orientation) *Widget {
	w := NewWidget()
	w.kind = KindBox
	w.orientation = o
	w.touchable = false
	return w
}

// NewGrid creates a grid container with a fixed column count; rows are
// derived by ceiling division.
func NewGrid(cols int) *Widget {
	w := NewWidget()
	w.kind = KindGrid
	w.gridCols = cols
	w.touchable = false
	return w
}

// NewGridRows creates a column-major grid with a fixed row count.
func NewGridRows(rows int) *Widget {
	w := NewWidget()
	w.kind = KindGrid
	w.gridRows = rows
	w.colMajor = true
	w.touchable = false
	return w
}

// NewNotebook creates a paged container showing one child at a time.
func NewNotebook() *Widget {
	w := NewWidget()
	w.kind = KindNotebook
	w.touchable = false
	return w
}

// NewLabel creates a text leaf.
func NewLabel(text string) *Widget {
	w := NewWidget()
	w.kind = KindLabel
	w.label = &labelState{text: text, fontSize: 14, color: ColorWhite}
	return w
}

// NewButton creates a pressable label.
func NewButton(text string) *Widget {
	w := NewLabel(text)
	w.kind = KindButton
	return w
}

// NewToggleButton creates a button that flips its selected state on each
// press and emits "selected".
func NewToggleButton(text string) *Widget {
	w := NewButton(text)
	w.label.toggle = true
	return w
}

// ============================================================================
// Tree structure
// ============================================================================

// ID returns the widget's author-assigned identifier, or "".
func (w *Widget) ID() string { return w.id }

// SetID assigns the identifier used by cross-widget bindings and
// App.WidgetByID.
func (w *Widget) SetID(id string) *Widget {
	if w.app != nil && w.id != "" {
		w.app.unregisterID(w)
	}
	w.id = id
	if w.app != nil && id != "" {
		w.app.registerID(w)
	}
	return w
}

// Kind returns the widget kind.
func (w *Widget) Kind() WidgetKind { return w.kind }

// Parent returns the widget's parent, or nil for the root and detached
// widgets. The reference is non-owning: a widget never keeps its parent
// alive on its own.
func (w *Widget) Parent() *Widget { return w.parent }

// App returns the application context the widget is attached to, or nil.
func (w *Widget) App() *App { return w.app }

// Children returns a copy of the child list; safe to iterate while the
// tree is mutated from handlers.
func (w *Widget) Children() []*Widget {
	out := make([]*Widget, len(w.children))
	copy(out, w.children)
	return out
}

// NumChildren returns the child count without copying.
func (w *Widget) NumChildren() int { return len(w.children) }

// AddChild appends a child. The child joins this widget's tree, a
// "child_added" notification fires on the parent, and the parent is
// marked for layout.
func (w *Widget) AddChild(child *Widget) *Widget {
	return w.InsertChild(len(w.children), child)
}

// InsertChild inserts a child at the given z position.
func (w *Widget) InsertChild(index int, child *Widget) *Widget {
	if child.parent != nil {
		child.RemoveFromParent()
	}
	if index < 0 {
		index = 0
	}
	if index >= len(w.children) {
		w.children = append(w.children, child)
	} else {
		w.children = append(w.children[:index+1], w.children[index:]...)
		w.children[index] = child
	}
	child.parent = w
	child.attach(w.app)
	w.MarkNeedsLayout()
	if w.app != nil {
		w.app.emit(w, EventChildAdded, child)
	}
	return w
}

// RemoveChild detaches a child by reference. The child's event bindings
// (as listener) are purged so no callback can fire against the detached
// subtree. Returns false if the widget is not a child.
func (w *Widget) RemoveChild(child *Widget) bool {
	for i, c := range w.children {
		if c == child {
			w.children = append(w.children[:i], w.children[i+1:]...)
			child.parent = nil
			child.detach()
			w.MarkNeedsLayout()
			if w.app != nil {
				w.app.emit(w, EventChildRemoved, child)
			}
			return true
		}
	}
	return false
}

// RemoveFromParent detaches this widget from its parent, if any.
func (w *Widget) RemoveFromParent() {
	if w.parent != nil {
		w.parent.RemoveChild(w)
	}
}

// ClearChildren removes every child.
func (w *Widget) ClearChildren() {
	for _, c := range w.Children() {
		w.RemoveChild(c)
	}
}

// attach wires the subtree into an application context.
func (w *Widget) attach(app *App) {
	if w.app == app {
		return
	}
	w.app = app
	if app != nil {
		if w.id != "" {
			app.registerID(w)
		}
		if w.anim != nil {
			app.animations[w] = w.anim
		}
	}
	for _, c := range w.children {
		c.attach(app)
	}
}

// detach unwires the subtree: ids unregister, bindings purge, animations
// stop. An in-flight grab is deliberately not released here; the host
// must ungrab before removal or later events for that pointer are
// dropped.
func (w *Widget) detach() {
	if w.app != nil {
		w.app.purgeListener(w)
		if w.id != "" {
			w.app.unregisterID(w)
		}
		delete(w.app.animations, w)
	}
	w.app = nil
	for _, c := range w.children {
		c.detach()
	}
}

// Root walks up to the tree root.
func (w *Widget) Root() *Widget {
	r := w
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Walk visits the subtree depth-first, parent before children. Return
// false from fn to stop.
func (w *Widget) Walk(fn func(*Widget) bool) bool {
	if !fn(w) {
		return false
	}
	for _, c := range w.Children() {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// ============================================================================
// Dirty protocol
// ============================================================================

// MarkNeedsLayout flags the widget so a layout pass runs before the next
// draw. Requests coalesce: flagging twice schedules one pass.
func (w *Widget) MarkNeedsLayout() {
	w.needsLayout = true
	if w.app != nil {
		w.app.RequestLayout()
	}
}

// NeedsLayout reports whether the widget is flagged dirty.
func (w *Widget) NeedsLayout() bool { return w.needsLayout }

// ============================================================================
// Hints
// ============================================================================

// SetHint attaches (or replaces) the rule for one positional property and
// marks the owning container dirty. Hints are re-evaluated on every
// layout pass; they are never cached across frames.
func (w *Widget) SetHint(prop string, h Hint) *Widget {
	for i, e := range w.hints {
		if e.Prop == prop {
			w.hints[i].Hint = h
			w.invalidateOwner()
			return w
		}
	}
	w.hints = append(w.hints, HintEntry{Prop: prop, Hint: h})
	w.invalidateOwner()
	return w
}

// ClearHint removes the rule for a property.
func (w *Widget) ClearHint(prop string) *Widget {
	for i, e := range w.hints {
		if e.Prop == prop {
			w.hints = append(w.hints[:i], w.hints[i+1:]...)
			w.invalidateOwner()
			break
		}
	}
	return w
}

// Hints returns a copy of the ordered hint entries.
func (w *Widget) Hints() []HintEntry {
	out := make([]HintEntry, len(w.hints))
	copy(out, w.hints)
	return out
}

// ApplyHintStrings parses and installs string-form rules, e.g.
// {"w": "0.5w", "h": "40", "center_x": "0.5"}. The first malformed rule
// aborts with an error naming the offending input; hints installed before
// the failure stay installed.
func (w *Widget) ApplyHintStrings(rules map[string]string) error {
	for prop, rule := range rules {
		if _, ok := w.geomProp(prop); !ok {
			return fmt.Errorf("loom: unknown hint property %q", prop)
		}
		h, err := ParseHint(prop, rule)
		if err != nil {
			return err
		}
		w.SetHint(prop, h)
	}
	return nil
}

// invalidateOwner marks the container that resolves this widget's hints.
func (w *Widget) invalidateOwner() {
	if w.parent != nil {
		w.parent.MarkNeedsLayout()
	} else {
		w.MarkNeedsLayout()
	}
}

// ============================================================================
// Geometry and visual properties
// ============================================================================

// Geometry returns the widget's box.
func (w *Widget) Geometry() Rect { return w.geom }

// SetGeometry assigns the box directly and notifies listeners.
func (w *Widget) SetGeometry(r Rect) *Widget {
	if w.geom == r {
		return w
	}
	w.geom = r
	w.notifyGeometry()
	return w
}

// SetPos moves the widget.
func (w *Widget) SetPos(x, y float64) *Widget {
	return w.SetGeometry(Rect{X: x, Y: y, W: w.geom.W, H: w.geom.H})
}

// SetSize resizes the widget.
func (w *Widget) SetSize(width, height float64) *Widget {
	return w.SetGeometry(Rect{X: w.geom.X, Y: w.geom.Y, W: width, H: height})
}

func (w *Widget) notifyGeometry() {
	w.MarkNeedsLayout()
	w.invalidateOwner()
	if w.app != nil {
		w.app.emit(w, "geometry", w.geom)
	}
}

// Opacity returns the widget's opacity (0..1).
func (w *Widget) Opacity() float64 { return w.opacity }

// SetOpacity sets the widget's opacity.
func (w *Widget) SetOpacity(o float64) *Widget {
	if w.opacity != o {
		w.opacity = o
		w.emitProp("opacity", o)
		w.requestRedraw()
	}
	return w
}

// Visible reports whether the widget draws and receives events.
func (w *Widget) Visible() bool { return w.visible }

// SetVisible shows or hides the widget subtree.
func (w *Widget) SetVisible(v bool) *Widget {
	if w.visible != v {
		w.visible = v
		w.emitProp("visible", v)
		w.invalidateOwner()
	}
	return w
}

// Disabled reports whether the widget ignores events.
func (w *Widget) Disabled() bool { return w.disabled }

// SetDisabled toggles event delivery for the subtree.
func (w *Widget) SetDisabled(d bool) *Widget {
	w.disabled = d
	return w
}

// SetBackground gives the widget a filled background.
func (w *Widget) SetBackground(c Color) *Widget {
	w.backgroundColor = &c
	w.requestRedraw()
	return w
}

// SetSpacing sets the gap between box/grid children.
func (w *Widget) SetSpacing(s float64) *Widget {
	w.spacing = s
	w.MarkNeedsLayout()
	return w
}

// SetPadding sets the uniform inner padding of a container.
func (w *Widget) SetPadding(p float64) *Widget {
	w.padding = p
	w.MarkNeedsLayout()
	return w
}

// ActivePage returns the notebook's visible page index.
func (w *Widget) ActivePage() int { return w.activePage }

// SetActivePage switches the notebook to another page.
func (w *Widget) SetActivePage(i int) *Widget {
	if i != w.activePage {
		w.activePage = i
		w.emitProp("active_page", i)
		w.MarkNeedsLayout()
	}
	return w
}

// SetTouchable controls whether the widget claims unhandled touch-downs
// inside its box.
func (w *Widget) SetTouchable(v bool) *Widget {
	w.touchable = v
	return w
}

// SetData attaches arbitrary application data.
func (w *Widget) SetData(d any) *Widget {
	w.data = d
	return w
}

// Data returns the attached application data.
func (w *Widget) Data() any { return w.data }

// ============================================================================
// Label / button surface
// ============================================================================

// Text returns the label text, or "" for non-text kinds.
func (w *Widget) Text() string {
	if w.label == nil {
		return ""
	}
	return w.label.text
}

// SetText updates the label text, re-triggering auto-fit and layout.
func (w *Widget) SetText(s string) *Widget {
	if w.label == nil {
		w.label = &labelState{fontSize: 14, color: ColorWhite}
	}
	if w.label.text != s {
		w.label.text = s
		w.label.fitted = 0
		w.emitProp("text", s)
		w.invalidateOwner()
	}
	return w
}

// FontSize returns the configured font size.
func (w *Widget) FontSize() float64 {
	if w.label == nil {
		return 0
	}
	return w.label.fontSize
}

// SetFontSize sets the font size and disables auto-fit for the widget.
func (w *Widget) SetFontSize(s float64) *Widget {
	if w.label == nil {
		w.label = &labelState{color: ColorWhite}
	}
	w.label.fontSize = s
	w.label.autoFit = false
	w.emitProp("font_size", s)
	w.requestRedraw()
	return w
}

// FittedFontSize returns the size the auto-fit pass last chose, or the
// configured size when auto-fit is off or has not run yet.
func (w *Widget) FittedFontSize() float64 {
	if w.label == nil {
		return 0
	}
	if w.label.autoFit && w.label.fitted > 0 {
		return w.label.fitted
	}
	return w.label.fontSize
}

// SetTextColor sets the text color.
func (w *Widget) SetTextColor(c Color) *Widget {
	if w.label != nil {
		w.label.color = c
		w.requestRedraw()
	}
	return w
}

// SetAutoFit enables shrink-to-fit font sizing for axes hinted
// fit-to-content.
func (w *Widget) SetAutoFit(v bool) *Widget {
	if w.label == nil {
		w.label = &labelState{fontSize: 14, color: ColorWhite}
	}
	w.label.autoFit = v
	w.invalidateOwner()
	return w
}

// SetSizeGroup places the label in a named size group: after fitting,
// every member renders at the group's minimum best-fit size.
func (w *Widget) SetSizeGroup(name string) *Widget {
	if w.label != nil {
		w.label.group = name
	}
	return w
}

// SetSizeGroupSkip excludes the label's own fit from the group minimum
// while still adopting it.
func (w *Widget) SetSizeGroupSkip(v bool) *Widget {
	if w.label != nil {
		w.label.groupSkip = v
	}
	return w
}

// Selected reports a toggle button's state.
func (w *Widget) Selected() bool {
	return w.label != nil && w.label.selected
}

// SetSelected sets a toggle button's state directly, notifying listeners
// on change.
func (w *Widget) SetSelected(v bool) *Widget {
	if w.label != nil && w.label.selected != v {
		w.label.selected = v
		w.emitProp("selected", v)
		w.requestRedraw()
	}
	return w
}

// OnPress installs a button press callback, fired on touch-up inside the
// widget after a touch-down grabbed it.
func (w *Widget) OnPress(fn func(*Widget)) *Widget {
	w.onPress = fn
	return w
}

// ============================================================================
// Event handler installation
// ============================================================================

// OnTouchDown installs a pointer-down handler, consulted after children
// and before the default claim behavior.
func (w *Widget) OnTouchDown(fn TouchHandler) *Widget { w.onTouchDown = fn; return w }

// OnTouchMove installs a pointer-move handler.
func (w *Widget) OnTouchMove(fn TouchHandler) *Widget { w.onTouchMove = fn; return w }

// OnTouchUp installs a pointer-up handler.
func (w *Widget) OnTouchUp(fn TouchHandler) *Widget { w.onTouchUp = fn; return w }

// OnWheel installs a wheel handler.
func (w *Widget) OnWheel(fn WheelHandler) *Widget { w.onWheel = fn; return w }

// OnUpdate installs a per-frame update callback (dt in milliseconds),
// called depth-first, parent before children.
func (w *Widget) OnUpdate(fn func(*Widget, float64)) *Widget { w.onUpdate = fn; return w }

// SetResponder overrides event handling wholesale; the responder sees
// events before the callback handlers and the default behavior.
func (w *Widget) SetResponder(r Responder) *Widget { w.responder = r; return w }

// Touching reports whether a pointer gesture is currently bound to this
// widget.
func (w *Widget) Touching() bool { return w.touching != nil }

// CanReceiveEvents reports whether the widget participates in dispatch.
func (w *Widget) CanReceiveEvents() bool { return w.visible && !w.disabled }

// ============================================================================
// Observable properties
// ============================================================================

// Property reads a numeric property by name. Geometry, opacity, font
// size, and the scroll/zoom properties are addressable; unknown names
// return ok=false.
func (w *Widget) Property(name string) (float64, bool) {
	if v, ok := w.geomProp(name); ok {
		return v, true
	}
	switch name {
	case "opacity":
		return w.opacity, true
	case "font_size":
		if w.label != nil {
			return w.label.fontSize, true
		}
	case "scroll_x":
		if w.scroll != nil {
			return w.scroll.desiredX, true
		}
	case "scroll_y":
		if w.scroll != nil {
			return w.scroll.desiredY, true
		}
	case "zoom":
		if w.scroll != nil {
			return w.scroll.zoom, true
		}
	}
	return 0, false
}

// SetProperty writes a numeric property by name, performing the
// assignment and then synchronously notifying listeners. This is the
// single mutation entry point used by animations and bindings.
func (w *Widget) SetProperty(name string, v float64) bool {
	switch name {
	case PropX, PropY, PropW, PropH, PropCenterX, PropCenterY, PropRight, PropBottom:
		w.setGeomProp(name, v)
		w.notifyGeometry()
	case "opacity":
		w.SetOpacity(v)
	case "font_size":
		w.SetFontSize(v)
	case "scroll_x":
		if w.scroll == nil {
			return false
		}
		w.setScrollX(v)
	case "scroll_y":
		if w.scroll == nil {
			return false
		}
		w.setScrollY(v)
	case "zoom":
		if w.scroll == nil {
			return false
		}
		w.setZoom(v)
	default:
		return false
	}
	return true
}

// Apply updates a plain mapping of property names to values: numbers go
// through SetProperty, "text" and "id" accept strings, and hint entries
// accept string rules under "hint:<prop>" keys. Failing entries are
// collected and reported together; the rest still apply.
func (w *Widget) Apply(props map[string]any) error {
	var errs []error
	for name, val := range props {
		switch v := val.(type) {
		case string:
			switch {
			case name == "text":
				w.SetText(v)
			case name == "id":
				w.SetID(v)
			case len(name) > 5 && name[:5] == "hint:":
				h, err := ParseHint(name[5:], v)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				w.SetHint(name[5:], h)
			default:
				errs = append(errs, fmt.Errorf("loom: property %q does not accept a string", name))
			}
		case float64:
			if !w.SetProperty(name, v) {
				errs = append(errs, fmt.Errorf("loom: unknown property %q", name))
			}
		case int:
			if !w.SetProperty(name, float64(v)) {
				errs = append(errs, fmt.Errorf("loom: unknown property %q", name))
			}
		case bool:
			if name == "visible" {
				w.SetVisible(v)
			} else if name == "disabled" {
				w.SetDisabled(v)
			} else {
				errs = append(errs, fmt.Errorf("loom: property %q does not accept a bool", name))
			}
		default:
			errs = append(errs, fmt.Errorf("loom: unsupported value for property %q", name))
		}
	}
	return errors.Join(errs...)
}

// emitProp fires a property-change notification when the widget is live.
func (w *Widget) emitProp(name string, v any) {
	if w.app != nil {
		w.app.emit(w, name, v)
	}
}

func (w *Widget) requestRedraw() {
	if w.app != nil {
		w.app.RequestRedraw()
	}
}

// ============================================================================
// Per-frame update and drawing
// ============================================================================

// update runs the widget's per-frame logic depth-first, parent before
// children, over a snapshot of the child list.
func (w *Widget) update(dt float64) {
	if w.onUpdate != nil {
		w.onUpdate(w, dt)
	}
	if w.kind == KindScroll && w.scroll != nil {
		w.tickKinetic(dt)
	}
	for _, c := range w.Children() {
		if c.parent == w { // child may have been removed by a handler
			c.update(dt)
		}
	}
}

// Draw renders the widget and its children. Draw order is child order;
// a widget's transform is pushed around its children only, never around
// itself.
func (w *Widget) Draw(c Canvas) {
	if !w.visible {
		return
	}
	w.drawSelf(c)

	clip := w.kind == KindScroll
	if clip {
		c.PushClip(w.geom)
	}
	if w.transform != nil {
		c.PushTransform(*w.transform)
	}
	if w.kind == KindNotebook {
		if w.activePage >= 0 && w.activePage < len(w.children) {
			w.children[w.activePage].Draw(c)
		}
	} else {
		for _, child := range w.children {
			child.Draw(c)
		}
	}
	if w.transform != nil {
		c.PopTransform()
	}
	if clip {
		c.PopClip()
	}
}

func (w *Widget) drawSelf(c Canvas) {
	if w.geom.W <= 0 || w.geom.H <= 0 {
		// Degenerate boxes from over-subscribed layouts draw nothing.
		return
	}
	if w.backgroundColor != nil {
		c.FillRect(w.geom, w.backgroundColor.WithOpacity(w.opacity))
	}
	if w.label != nil && w.label.selected {
		c.StrokeRect(w.geom, ColorWhite.WithOpacity(w.opacity), 2)
	}
	if w.label != nil && w.label.text != "" {
		size := w.label.fontSize
		if w.label.autoFit && w.label.fitted > 0 {
			size = w.label.fitted
		}
		c.DrawText(w.label.text, w.geom, size, w.label.color.WithOpacity(w.opacity))
	}
}
