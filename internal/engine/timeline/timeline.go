// Package timeline drives time-based progress for animations and material
// fades. Timelines never sleep: they advance only when their Clock is ticked
// by the frame loop, and completions are delivered from inside Tick.
package timeline

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// State is the lifecycle state of a Timeline.
type State uint8

const (
	Idle     State = iota // never started
	Running               // advancing on each tick
	Paused                // attached, progress frozen
	Finished              // completed or terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Timeline maps elapsed seconds onto an eased progress value in [0, 1] and
// reports it through an update callback.
type Timeline struct {
	tween    *gween.Tween
	easing   ease.TweenFunc
	duration float32
	elapsed  float32
	state    State

	onUpdate   func(progress float32)
	onComplete func()

	clock    *Clock
	attached bool
}

// New creates an idle timeline. A nil easing means linear. onUpdate receives
// the eased progress and may be nil.
func New(duration float32, easing ease.TweenFunc, onUpdate func(progress float32)) *Timeline {
	if easing == nil {
		easing = ease.Linear
	}
	if duration < 0 {
		duration = 0
	}
	return &Timeline{
		tween:    gween.New(0, 1, duration, easing),
		easing:   easing,
		duration: duration,
		onUpdate: onUpdate,
	}
}

// Start attaches the timeline to c and begins advancing from zero.
// onComplete runs once, from inside a later Tick or from Finish.
// Starting a running or paused timeline is ignored and returns false.
func (t *Timeline) Start(c *Clock, onComplete func()) bool {
	if t.state == Running || t.state == Paused {
		return false
	}
	t.elapsed = 0
	t.state = Running
	t.onComplete = onComplete
	t.clock = c
	c.attach(t)
	t.apply(0)
	return true
}

// Pause freezes progress. Idempotent.
func (t *Timeline) Pause() {
	if t.state == Running {
		t.state = Paused
	}
}

// Resume continues a paused timeline. Idempotent.
func (t *Timeline) Resume() {
	if t.state == Paused {
		t.state = Running
	}
}

// Finish ends the timeline immediately. With jumpToEnd the update callback
// receives full progress first; otherwise the last applied value stands.
// The completion callback fires before Finish returns. Finishing an idle or
// finished timeline does nothing.
func (t *Timeline) Finish(jumpToEnd bool) {
	if t.state != Running && t.state != Paused {
		return
	}
	if jumpToEnd {
		t.elapsed = t.duration
		t.apply(1)
	}
	t.state = Finished
	t.complete()
}

// SetDuration changes the total length. A running timeline keeps its
// progress fraction, so the remaining time scales with the new duration.
func (t *Timeline) SetDuration(seconds float32) {
	if seconds < 0 {
		seconds = 0
	}
	if t.duration > 0 {
		t.elapsed = t.elapsed * seconds / t.duration
	} else {
		t.elapsed = 0
	}
	t.duration = seconds
	t.tween = gween.New(0, 1, seconds, t.easing)
}

// Duration returns the total length in seconds.
func (t *Timeline) Duration() float32 {
	return t.duration
}

// Elapsed returns the seconds advanced so far.
func (t *Timeline) Elapsed() float32 {
	return t.elapsed
}

// Fraction returns linear (un-eased) progress in [0, 1].
func (t *Timeline) Fraction() float32 {
	if t.duration <= 0 {
		if t.state == Finished {
			return 1
		}
		return 0
	}
	return t.elapsed / t.duration
}

// State returns the lifecycle state.
func (t *Timeline) State() State {
	return t.state
}

// advance moves the timeline forward by dt and reports completion.
func (t *Timeline) advance(dt float32) bool {
	t.elapsed += dt
	if t.duration <= 0 || t.elapsed >= t.duration {
		t.elapsed = t.duration
		t.apply(1)
		t.state = Finished
		return true
	}
	v, _ := t.tween.Set(t.elapsed)
	t.apply(v)
	return false
}

func (t *Timeline) apply(progress float32) {
	if t.onUpdate != nil {
		t.onUpdate(progress)
	}
}

func (t *Timeline) complete() {
	fn := t.onComplete
	t.onComplete = nil
	if fn != nil {
		fn()
	}
}
