package loom

import "strings"

// ============================================================================
// Property-change notification
// ============================================================================
//
// Bindings connect a (source widget, event name) pair to callbacks.
// Setters emit synchronously, in registration order, and only the
// listeners of the emitting source are visited: cost scales with the
// listeners of that source, not the binding table.
//
// Every binding has an owner widget. When the owner leaves the tree its
// bindings are purged, so no callback can fire against a detached
// subtree; a listener that slipped through anyway is logged and skipped.

// Structural events emitted by the tree operations.
const (
	EventChildAdded   = "child_added"
	EventChildRemoved = "child_removed"
)

// BindingFunc receives the emitting widget, the event name, and the
// event payload (property value, child, or touch).
type BindingFunc func(source *Widget, event string, value any)

type binding struct {
	owner *Widget
	fn    BindingFunc
}

// Bind registers fn for an event on source. The binding lives until
// Unbind or until owner detaches from the tree.
func (a *App) Bind(source *Widget, event string, owner *Widget, fn BindingFunc) {
	byEvent := a.bindings[source]
	if byEvent == nil {
		byEvent = make(map[string][]binding)
		a.bindings[source] = byEvent
	}
	byEvent[event] = append(byEvent[event], binding{owner: owner, fn: fn})
}

// Unbind removes every binding owned by owner for the event on source.
func (a *App) Unbind(source *Widget, event string, owner *Widget) {
	byEvent := a.bindings[source]
	if byEvent == nil {
		return
	}
	bs := byEvent[event][:0]
	for _, b := range byEvent[event] {
		if b.owner != owner {
			bs = append(bs, b)
		}
	}
	if len(bs) == 0 {
		delete(byEvent, event)
		if len(byEvent) == 0 {
			delete(a.bindings, source)
		}
	} else {
		byEvent[event] = bs
	}
}

// Bind registers fn for an event on this widget, owned by the widget
// itself. Binding a detached widget is a no-op that logs.
func (w *Widget) Bind(event string, fn BindingFunc) *Widget {
	if w.app == nil {
		// Nothing to register against yet; callers should attach first.
		debugLog("bind %q on detached widget %q dropped", event, w.id)
		return w
	}
	w.app.Bind(w, event, w, fn)
	return w
}

// BindPath registers fn against a string path: "sourceId.eventName"
// listens to the widget with that id, a bare event name listens to this
// widget itself. The binding is owned by this widget either way.
//
// A path whose id resolves to no live widget is logged and skipped, not
// raised: markup-driven construction installs bindings in bulk, and one
// broken reference must not abort the rest of the batch.
func (w *Widget) BindPath(path string, fn BindingFunc) *Widget {
	if w.app == nil {
		debugLog("bind %q on detached widget %q dropped", path, w.id)
		return w
	}
	id, event, qualified := strings.Cut(path, ".")
	if !qualified {
		w.app.Bind(w, path, w, fn)
		return w
	}
	source := w.app.WidgetByID(id)
	if source == nil {
		w.app.logf("binding %q skipped: no widget with id %q", path, id)
		return w
	}
	w.app.Bind(source, event, w, fn)
	return w
}

// emit delivers an event synchronously to the source's listeners, in
// registration order, over a snapshot so handlers may bind and unbind
// freely. Listeners whose owner has detached are skipped.
func (a *App) emit(source *Widget, event string, value any) {
	byEvent := a.bindings[source]
	if byEvent == nil {
		return
	}
	bs := byEvent[event]
	if len(bs) == 0 {
		return
	}
	snapshot := make([]binding, len(bs))
	copy(snapshot, bs)
	for _, b := range snapshot {
		if b.owner != nil && b.owner.app != a {
			a.logf("binding for %q on %q skipped: owner detached", event, source.id)
			continue
		}
		a.safeCall(source, event, b.fn, value)
	}
}

// safeCall isolates a listener panic to the one callback: the failure is
// logged and the remaining listeners still run.
func (a *App) safeCall(source *Widget, event string, fn BindingFunc, value any) {
	defer func() {
		if r := recover(); r != nil {
			a.logf("binding for %q on %q panicked: %v", event, source.id, r)
		}
	}()
	fn(source, event, value)
}

// purgeListener drops every binding owned by w and every binding table
// keyed by w. Called when w detaches.
func (a *App) purgeListener(w *Widget) {
	delete(a.bindings, w)
	for source, byEvent := range a.bindings {
		for event, bs := range byEvent {
			kept := bs[:0]
			for _, b := range bs {
				if b.owner != w {
					kept = append(kept, b)
				}
			}
			if len(kept) == 0 {
				delete(byEvent, event)
			} else {
				byEvent[event] = kept
			}
		}
		if len(byEvent) == 0 {
			delete(a.bindings, source)
		}
	}
}
