package loom

import (
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ============================================================================
// Animation
// ============================================================================
//
// An Animation is an ordered stack of steps against one widget. Each step
// names target property values (or deltas) and a duration; steps play
// back to back, and every step captures its begin values from the
// widget's *current* state when it starts, so a gesture or another
// setter that moved the widget mid-sequence is picked up rather than
// fought. Property writes go through Widget.SetProperty, which means
// listeners fire and layout re-flags exactly as for manual mutation.
//
// At a step boundary each property snaps to its exact end value before
// the next step begins; easing never leaves a frame-rate-dependent
// residue on the final state.

// Animation is a property animation sequence. Build with Widget.Animate,
// chain To/By steps, then Start.
type Animation struct {
	target  *Widget
	steps   []animStep
	easing  ease.TweenFunc
	loop    bool
	onDone  func(*Widget)
	running bool

	index  int
	tracks []animTrack
}

type animStep struct {
	props    map[string]float64
	duration float64 // milliseconds
	relative bool
	easing   ease.TweenFunc // nil = animation default
}

type animTrack struct {
	name  string
	tween *gween.Tween
	end   float64
}

// Animate returns the widget's animation sequence, creating an empty
// stopped one on first use. Steps queued while running are appended to
// the live sequence.
func (w *Widget) Animate() *Animation {
	if w.anim == nil {
		w.anim = &Animation{target: w, easing: ease.Linear}
	}
	return w.anim
}

// To queues a step that eases the named properties to absolute target
// values over the given duration in milliseconds.
func (a *Animation) To(durationMs float64, props map[string]float64) *Animation {
	a.steps = append(a.steps, animStep{props: props, duration: durationMs})
	return a
}

// By queues a step that eases the named properties by relative deltas
// from wherever they are when the step starts.
func (a *Animation) By(durationMs float64, props map[string]float64) *Animation {
	a.steps = append(a.steps, animStep{props: props, duration: durationMs, relative: true})
	return a
}

// Ease sets the easing curve. Applied to the whole sequence when called
// before any step; applied to the most recent step otherwise.
func (a *Animation) Ease(fn ease.TweenFunc) *Animation {
	if len(a.steps) == 0 {
		a.easing = fn
	} else {
		a.steps[len(a.steps)-1].easing = fn
	}
	return a
}

// Loop makes the sequence restart from the first step after the last.
func (a *Animation) Loop(v bool) *Animation {
	a.loop = v
	return a
}

// Then installs a completion callback, fired once when the last step
// finishes (never for looping sequences).
func (a *Animation) Then(fn func(*Widget)) *Animation {
	a.onDone = fn
	return a
}

// Start begins (or restarts) playback from the first step. The first
// tick happens on the next frame.
func (a *Animation) Start() *Animation {
	a.index = 0
	a.tracks = nil
	a.running = len(a.steps) > 0
	if w := a.target; w != nil && w.app != nil && a.running {
		w.app.animations[w] = a
	}
	return a
}

// Cancel stops playback immediately, leaving every property wherever the
// last tick put it. The queued steps stay; Start replays them.
func (a *Animation) Cancel() {
	a.running = false
	a.tracks = nil
	if w := a.target; w != nil && w.app != nil {
		delete(w.app.animations, w)
	}
}

// Running reports whether the sequence is mid-playback.
func (a *Animation) Running() bool { return a.running }

// tick advances playback by dt milliseconds; returns true when the
// sequence has finished and should be unregistered.
func (a *Animation) tick(dt float64) bool {
	if !a.running {
		return true
	}
	if a.tracks == nil {
		a.buildTracks()
	}

	remaining := len(a.tracks)
	for i := range a.tracks {
		tr := &a.tracks[i]
		if tr.tween == nil {
			remaining--
			continue
		}
		v, finished := tr.tween.Update(float32(dt))
		if finished {
			// Snap to the recorded target; float32 easing must not leak
			// into the resting state.
			a.target.SetProperty(tr.name, tr.end)
			tr.tween = nil
			remaining--
			continue
		}
		a.target.SetProperty(tr.name, float64(v))
	}

	if remaining > 0 {
		return false
	}

	a.index++
	a.tracks = nil
	if a.index < len(a.steps) {
		return false
	}
	if a.loop {
		a.index = 0
		return false
	}
	a.running = false
	if a.onDone != nil {
		a.onDone(a.target)
	}
	return true
}

// buildTracks captures begin values from the widget's current state and
// lazily creates one tween per property for the active step. Properties
// are processed in name order so playback is deterministic.
func (a *Animation) buildTracks() {
	step := a.steps[a.index]
	easing := a.easing
	if step.easing != nil {
		easing = step.easing
	}

	names := make([]string, 0, len(step.props))
	for name := range step.props {
		names = append(names, name)
	}
	sort.Strings(names)

	a.tracks = make([]animTrack, 0, len(names))
	for _, name := range names {
		begin, ok := a.target.Property(name)
		if !ok {
			// Unknown property: logged and skipped, the rest of the step
			// still plays.
			if a.target.app != nil {
				a.target.app.logf("animation: widget %q has no property %q", a.target.id, name)
			}
			continue
		}
		end := step.props[name]
		if step.relative {
			end = begin + end
		}
		if step.duration <= 0 {
			// Zero-length steps apply instantly on the next tick.
			a.target.SetProperty(name, end)
			continue
		}
		a.tracks = append(a.tracks, animTrack{
			name:  name,
			tween: gween.New(float32(begin), float32(end), float32(step.duration), easing),
			end:   end,
		})
	}
}
