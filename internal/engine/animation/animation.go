// Package animation runs time-based property changes on scene nodes.
//
// Animations advance on the Animator's clock, which the frame loop ticks on
// the render goroutine. Completion callbacks fire from inside that tick, or
// synchronously when an animation is terminated. Node-scoped adapters hold
// weak references so an animation never outlives or resurrects its node.
package animation

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/internal/engine/timeline"
	"github.com/Faultbox/scenecore/internal/logger"
)

// Executable is the set of runnable animations: *Animation and
// *NodeAnimation. The set is closed.
type Executable interface {
	// Execute starts the animation. onFinished runs exactly once when it
	// completes or is terminated, and never when it cannot start.
	Execute(onFinished func())
	Pause()
	Resume()
	// Terminate ends a running animation. With jumpToEnd every property
	// takes its final value; otherwise it keeps its current one.
	Terminate(jumpToEnd bool)
	SetDuration(seconds float32)
	Duration() float32
	// Copy returns an independent animation with the same channels,
	// duration and easing. ok is false when there is nothing to copy.
	Copy() (Executable, bool)
	String() string

	executable()
}

var (
	_ Executable = (*Animation)(nil)
	_ Executable = (*NodeAnimation)(nil)
)

// Animation interpolates a set of channels over one timeline.
type Animation struct {
	animator *Animator
	channels []Channel
	duration float32
	easing   ease.TweenFunc

	tl        *timeline.Timeline
	target    scene.Ref
	hasTarget bool
	claims    []claim
	orphaned  bool
}

// Easing sets the easing function. nil means linear.
func (a *Animation) Easing(fn ease.TweenFunc) *Animation {
	if fn == nil {
		fn = ease.Linear
	}
	a.easing = fn
	return a
}

// Channels returns the animated channels.
func (a *Animation) Channels() []Channel {
	return append([]Channel(nil), a.channels...)
}

// Execute runs the animation without a target node. Only channels that do
// not need a node (Custom) take effect.
func (a *Animation) Execute(onFinished func()) {
	a.ExecuteOn(nil, onFinished)
}

// ExecuteOn runs the animation on node. Each channel starts from the
// property's current value; a running animation that drives the same
// property on the same node is terminated in place first. Executing an
// animation that is still running is ignored.
func (a *Animation) ExecuteOn(node *scene.Node, onFinished func()) {
	a.animator.owner.Check("Animation.Execute")

	if a.Running() {
		logger.Debug("animation: execute ignored, already running", zap.Stringer("animation", a))
		return
	}
	if node != nil && !node.Alive() {
		logger.Debug("animation: target node destroyed", zap.Stringer("animation", a))
		return
	}

	var target scene.Ref
	if node != nil {
		target = node.Ref()
	}
	a.target = target
	a.hasTarget = node != nil
	a.orphaned = false
	// A finished run may still hold claims until its completion is delivered.
	for _, k := range a.claims {
		a.animator.unclaim(k, a)
	}
	a.claims = nil

	applies := make([]func(float32), 0, len(a.channels))
	for _, ch := range a.channels {
		k := claim{node: target.Handle(), channel: ch.Name()}
		a.animator.claim(k, a)
		apply, ok := ch.bind(target)
		if !ok {
			a.animator.unclaim(k, a)
			logger.Debug("animation: channel skipped",
				zap.String("channel", ch.Name()),
				zap.Stringer("node", target.Handle()),
			)
			continue
		}
		applies = append(applies, apply)
	}

	a.tl = timeline.New(a.duration, a.easing, func(p float32) {
		for _, apply := range applies {
			apply(p)
		}
	})
	a.animator.track(a)
	tl := a.tl
	a.tl.Start(a.animator.clock, func() { a.finishRun(tl, onFinished) })
}

// finishRun completes one run. A run whose completion is delivered after
// the animation was executed again only calls its own callback.
func (a *Animation) finishRun(tl *timeline.Timeline, onFinished func()) {
	if a.tl != tl {
		if onFinished != nil {
			onFinished()
		}
		return
	}
	a.animator.release(a)
	if a.orphaned || onFinished == nil {
		return
	}
	onFinished()
}

// orphan stops an animation whose target died without notifying the owner.
func (a *Animation) orphan() {
	a.orphaned = true
	a.tl.Finish(false)
}

// Pause freezes the animation. Idempotent.
func (a *Animation) Pause() {
	if a.tl != nil {
		a.tl.Pause()
	}
}

// Resume continues a paused animation. Idempotent.
func (a *Animation) Resume() {
	if a.tl != nil {
		a.tl.Resume()
	}
}

// Terminate ends the animation and fires its callback. Terminating an
// animation that is not running does nothing.
func (a *Animation) Terminate(jumpToEnd bool) {
	if a.tl != nil {
		a.tl.Finish(jumpToEnd)
	}
}

// SetDuration changes the length. A running animation keeps its progress
// fraction.
func (a *Animation) SetDuration(seconds float32) {
	if seconds < 0 {
		seconds = 0
	}
	a.duration = seconds
	if a.Running() {
		a.tl.SetDuration(seconds)
	}
}

// Duration returns the length in seconds.
func (a *Animation) Duration() float32 {
	return a.duration
}

// Running reports whether the animation is running or paused.
func (a *Animation) Running() bool {
	if a.tl == nil {
		return false
	}
	s := a.tl.State()
	return s == timeline.Running || s == timeline.Paused
}

// Copy returns Clone. It always succeeds.
func (a *Animation) Copy() (Executable, bool) {
	return a.Clone(), true
}

// Clone returns an idle animation with the same channels, duration and
// easing on the same animator.
func (a *Animation) Clone() *Animation {
	return &Animation{
		animator: a.animator,
		channels: a.Channels(),
		duration: a.duration,
		easing:   a.easing,
	}
}

func (a *Animation) String() string {
	names := make([]string, len(a.channels))
	for i, ch := range a.channels {
		names[i] = ch.Name()
	}
	state := timeline.Idle
	if a.tl != nil {
		state = a.tl.State()
	}
	return fmt.Sprintf("animation(%s; %.2fs, %s)", strings.Join(names, ","), a.duration, state)
}

func (a *Animation) executable() {}
