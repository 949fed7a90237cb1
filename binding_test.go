package loom

import "testing"

func bindFixture(t *testing.T) (*App, *Widget) {
	t.Helper()
	a := newTestApp()
	root := NewWidget().SetTouchable(false)
	a.SetRoot(root)
	return a, root
}

func TestBindingsFireSynchronouslyInOrder(t *testing.T) {
	a, root := bindFixture(t)
	w := NewWidget()
	root.AddChild(w)

	var order []int
	w.Bind("geometry", func(*Widget, string, any) { order = append(order, 1) })
	w.Bind("geometry", func(*Widget, string, any) { order = append(order, 2) })

	w.SetPos(10, 10)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("listener order = %v, want [1 2]", order)
	}

	// The payload carries the new geometry.
	var got Rect
	a.Bind(w, "geometry", root, func(_ *Widget, _ string, v any) {
		got = v.(Rect)
	})
	w.SetPos(30, 40)
	approx(t, "payload x", got.X, 30)
}

func TestChildAddedAndRemovedEvents(t *testing.T) {
	a, root := bindFixture(t)

	var events []string
	a.Bind(root, EventChildAdded, root, func(_ *Widget, e string, v any) {
		events = append(events, e+":"+v.(*Widget).ID())
	})
	a.Bind(root, EventChildRemoved, root, func(_ *Widget, e string, v any) {
		events = append(events, e+":"+v.(*Widget).ID())
	})

	c := NewWidget().SetID("c1")
	root.AddChild(c)
	root.RemoveChild(c)

	want := []string{"child_added:c1", "child_removed:c1"}
	if len(events) != 2 || events[0] != want[0] || events[1] != want[1] {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestBindPathResolvesSourceByID(t *testing.T) {
	_, root := bindFixture(t)
	display := NewLabel("").SetID("display")
	panel := NewWidget()
	root.AddChild(display)
	root.AddChild(panel)

	var got string
	panel.BindPath("display.text", func(_ *Widget, _ string, v any) {
		got = v.(string)
	})
	display.SetText("42")
	if got != "42" {
		t.Errorf("listener saw %q, want %q", got, "42")
	}
}

func TestBindPathBareNameBindsSelf(t *testing.T) {
	_, root := bindFixture(t)
	w := NewWidget()
	root.AddChild(w)

	fired := 0
	w.BindPath("opacity", func(*Widget, string, any) { fired++ })
	w.SetOpacity(0.5)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

// A path naming an unknown id is logged and skipped; the rest of the
// batch still installs.
func TestBindPathUnresolvedIDSkipped(t *testing.T) {
	_, root := bindFixture(t)
	display := NewWidget().SetID("display")
	listener := NewWidget()
	root.AddChild(display)
	root.AddChild(listener)

	fired := 0
	for _, path := range []string{"ghost.geometry", "display.geometry"} {
		listener.BindPath(path, func(*Widget, string, any) { fired++ })
	}
	display.SetPos(5, 5)
	if fired != 1 {
		t.Errorf("fired = %d, want 1 (good binding survives the broken one)", fired)
	}
}

// Removing a widget purges the bindings it owns: no callback may fire
// against a detached subtree.
func TestDetachPurgesOwnedBindings(t *testing.T) {
	a, root := bindFixture(t)
	source := NewWidget()
	listener := NewWidget()
	root.AddChild(source)
	root.AddChild(listener)

	fired := 0
	a.Bind(source, "geometry", listener, func(*Widget, string, any) { fired++ })

	source.SetPos(1, 1)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	root.RemoveChild(listener)
	source.SetPos(2, 2)
	if fired != 1 {
		t.Errorf("detached listener fired: %d calls", fired)
	}
}

func TestUnbind(t *testing.T) {
	a, root := bindFixture(t)
	w := NewWidget()
	root.AddChild(w)

	fired := 0
	a.Bind(w, "opacity", root, func(*Widget, string, any) { fired++ })
	w.SetOpacity(0.5)
	a.Unbind(w, "opacity", root)
	w.SetOpacity(0.25)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

// A panicking listener is isolated: it is logged and the remaining
// listeners still run.
func TestListenerPanicIsIsolated(t *testing.T) {
	a, root := bindFixture(t)
	w := NewWidget()
	root.AddChild(w)

	survived := false
	a.Bind(w, "opacity", root, func(*Widget, string, any) { panic("boom") })
	a.Bind(w, "opacity", root, func(*Widget, string, any) { survived = true })

	w.SetOpacity(0.3)
	if !survived {
		t.Error("listener after the panicking one did not run")
	}
}

func TestListenersMayMutateBindingsMidEmit(t *testing.T) {
	a, root := bindFixture(t)
	w := NewWidget()
	root.AddChild(w)

	calls := 0
	a.Bind(w, "opacity", root, func(*Widget, string, any) {
		calls++
		// Unbinding everything mid-emit must not break the sweep.
		a.Unbind(w, "opacity", root)
	})
	a.Bind(w, "opacity", root, func(*Widget, string, any) { calls++ })

	w.SetOpacity(0.7)
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (snapshot semantics)", calls)
	}
}
