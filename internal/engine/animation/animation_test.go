package animation

import (
	"strings"
	"testing"

	"github.com/Faultbox/scenecore/internal/engine/affinity"
	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/pkg/math"
)

func setup(t *testing.T) (*Animator, *scene.Scene, *scene.Node) {
	t.Helper()
	a := NewAnimator(affinity.New("test", true))
	s := scene.New()
	return a, s, s.NewNode("target", nil)
}

func TestRunsToCompletionOnTick(t *testing.T) {
	a, _, n := setup(t)
	calls := 0

	anim := a.New(1, MoveTo(math.Vec3{X: 10}))
	anim.ExecuteOn(n, func() { calls++ })

	a.Tick(0.5)
	if got := n.Position().X; got != 5 {
		t.Errorf("halfway X = %f, want 5", got)
	}
	if calls != 0 {
		t.Fatal("callback fired before completion")
	}

	a.Tick(0.5)
	if got := n.Position(); got != (math.Vec3{X: 10}) {
		t.Errorf("final position = %+v, want (10,0,0)", got)
	}
	if calls != 1 {
		t.Errorf("callback fired %d times, want 1", calls)
	}
	if a.Running() != 0 {
		t.Errorf("Running = %d after completion, want 0", a.Running())
	}

	a.Tick(1)
	if calls != 1 {
		t.Errorf("callback fired again on later tick")
	}
}

func TestTerminate(t *testing.T) {
	tests := []struct {
		name      string
		jumpToEnd bool
		wantX     float32
	}{
		{"jump to end", true, 3.7},
		{"freeze", false, 3.7 * 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, n := setup(t)
			calls := 0
			anim := a.New(2, MoveTo(math.Vec3{X: 3.7, Y: -1.3}))
			anim.ExecuteOn(n, func() { calls++ })

			a.Tick(0.5)
			anim.Terminate(tt.jumpToEnd)

			if calls != 1 {
				t.Fatalf("callback fired %d times, want 1 (synchronously)", calls)
			}
			if got := n.Position().X; got != tt.wantX {
				t.Errorf("X = %v, want %v", got, tt.wantX)
			}
			if tt.jumpToEnd && n.Position() != (math.Vec3{X: 3.7, Y: -1.3}) {
				t.Errorf("position = %+v, want exact end value", n.Position())
			}

			anim.Terminate(true)
			a.Tick(2)
			if calls != 1 {
				t.Errorf("callback fired %d times after second terminate, want 1", calls)
			}
		})
	}
}

func TestPauseResume(t *testing.T) {
	a, _, n := setup(t)
	anim := a.New(1, OpacityTo(0))
	anim.ExecuteOn(n, nil)

	a.Tick(0.25)
	anim.Pause()
	anim.Pause()
	a.Tick(10)
	if got := n.Opacity(); got != 0.75 {
		t.Errorf("paused opacity = %f, want 0.75", got)
	}
	if !anim.Running() {
		t.Error("paused animation should count as running")
	}

	anim.Resume()
	anim.Resume()
	a.Tick(0.25)
	if got := n.Opacity(); got != 0.5 {
		t.Errorf("resumed opacity = %f, want 0.5", got)
	}
}

func TestSetDurationKeepsProgress(t *testing.T) {
	a, _, n := setup(t)
	anim := a.New(1, MoveTo(math.Vec3{X: 10}))
	anim.ExecuteOn(n, nil)

	a.Tick(0.5)
	anim.SetDuration(2)
	if anim.Duration() != 2 {
		t.Errorf("Duration = %f, want 2", anim.Duration())
	}

	a.Tick(0.5)
	if got := n.Position().X; got != 7.5 {
		t.Errorf("X after rescale = %f, want 7.5", got)
	}
}

func TestExecuteWhileRunningIgnored(t *testing.T) {
	a, _, n := setup(t)
	first, second := 0, 0
	anim := a.New(1, ScaleTo(math.Vec3{X: 2, Y: 2, Z: 2}))
	anim.ExecuteOn(n, func() { first++ })
	anim.ExecuteOn(n, func() { second++ })

	a.Tick(1)
	if first != 1 || second != 0 {
		t.Errorf("callbacks = (%d, %d), want (1, 0)", first, second)
	}

	// Re-executing after completion is allowed.
	anim.ExecuteOn(n, func() { second++ })
	a.Tick(1)
	if second != 1 {
		t.Errorf("re-execute after completion did not run")
	}
}

func TestTakeoverTerminatesPreviousOwner(t *testing.T) {
	a, _, n := setup(t)
	calls := 0
	first := a.New(1, MoveTo(math.Vec3{X: 10}), OpacityTo(0.5))
	first.ExecuteOn(n, func() { calls++ })
	a.Tick(0.5)

	second := a.New(1, MoveTo(math.Vec3{}))
	second.ExecuteOn(n, nil)

	if calls != 1 {
		t.Fatalf("previous owner callback fired %d times, want 1", calls)
	}
	if first.Running() {
		t.Error("previous owner still running")
	}
	if got := n.Position().X; got != 5 {
		t.Errorf("takeover should start from current value: X = %f, want 5", got)
	}
	if owner, ok := a.Driving(n.Handle(), "position"); !ok || owner != second {
		t.Error("position should be driven by the new animation")
	}
	if _, ok := a.Driving(n.Handle(), "opacity"); ok {
		t.Error("terminated owner should release all its channels")
	}

	a.Tick(0.5)
	if got := n.Position().X; got != 2.5 {
		t.Errorf("X = %f, want 2.5", got)
	}
}

func TestRotationEndsExactly(t *testing.T) {
	a, _, n := setup(t)
	to := math.QuatFromAxisAngle(math.Vec3{Y: 1}, 1.2)
	anim := a.New(1, RotateTo(to))
	anim.ExecuteOn(n, nil)
	a.Tick(0.3)
	anim.Terminate(true)

	if d := n.Rotation().Dot(to.Normalize()); d < 0.99999 {
		t.Errorf("rotation = %+v, want %+v", n.Rotation(), to.Normalize())
	}
}

func TestMaterialTransparencyDoesNotFade(t *testing.T) {
	a, _, n := setup(t)
	m := material.New()
	m.MarkLive(a.Clock())
	n.SetGeometry(scene.NewPlane("p", 1, 1, m))

	anim := a.New(1, MaterialTransparency(0, 0.2))
	anim.ExecuteOn(n, nil)
	a.Tick(0.5)

	if m.HasOutgoing() {
		t.Error("animated transparency should not start a material transition")
	}
	if got := m.Transparency(); got < 0.5999 || got > 0.6001 {
		t.Errorf("transparency = %f, want 0.6", got)
	}
	a.Tick(0.5)
	if got := m.Transparency(); got != 0.2 {
		t.Errorf("transparency = %f, want 0.2", got)
	}
}

func TestMissingMaterialChannelSkipped(t *testing.T) {
	a, _, n := setup(t)
	calls := 0
	anim := a.New(1, MaterialTransparency(0, 0.5), MoveTo(math.Vec3{Z: 1}))
	anim.ExecuteOn(n, func() { calls++ })

	if _, ok := a.Driving(n.Handle(), "material[0].transparency"); ok {
		t.Error("unbound channel should not hold a claim")
	}
	a.Tick(1)
	if calls != 1 || n.Position().Z != 1 {
		t.Error("remaining channels should still run to completion")
	}
}

func TestCustomChannelWithoutNode(t *testing.T) {
	a := NewAnimator(affinity.New("test", true))
	v := float32(2)
	calls := 0
	anim := a.New(1, Custom("zoom", func() float32 { return v }, func(x float32) { v = x }, 4))
	anim.Execute(func() { calls++ })

	a.Tick(0.5)
	if v != 3 {
		t.Errorf("v = %f, want 3", v)
	}
	a.Tick(0.5)
	if v != 4 || calls != 1 {
		t.Errorf("v = %f calls = %d, want 4 and 1", v, calls)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	a, s, n := setup(t)
	other := s.NewNode("other", nil)

	anim := a.New(1, MoveTo(math.Vec3{X: 1})).Easing(nil)
	cp, ok := anim.Copy()
	if !ok || cp == nil {
		t.Fatal("Copy of a base animation must succeed")
	}
	clone := cp.(*Animation)
	if clone == anim {
		t.Fatal("Copy returned the same animation")
	}

	anim.ExecuteOn(n, nil)
	clone.ExecuteOn(other, nil)
	anim.Terminate(false)
	a.Tick(1)

	if other.Position().X != 1 {
		t.Error("copy did not run independently")
	}
	if n.Position().X != 0 {
		t.Error("terminating the original moved its node")
	}
	if clone.Duration() != anim.Duration() {
		t.Error("copy should keep the duration")
	}
}

func TestNodeAnimationDeadNode(t *testing.T) {
	a, s, n := setup(t)
	na := Bind(a.New(1, MoveTo(math.Vec3{X: 1})), n)
	s.Destroy(n)

	if cp, ok := na.Copy(); ok || cp != nil {
		t.Error("Copy on a dead node should return nil, false")
	}

	calls := 0
	na.Execute(func() { calls++ })
	na.Pause()
	na.Resume()
	na.SetDuration(5)
	na.Terminate(true)
	a.Tick(2)

	if calls != 0 {
		t.Errorf("callback fired %d times for a dead node", calls)
	}
	if na.Duration() != 0 {
		t.Errorf("Duration on dead node = %f, want 0", na.Duration())
	}
	if !strings.Contains(na.String(), "destroyed") {
		t.Errorf("String = %q, want it to mention the destroyed node", na.String())
	}
}

func TestNodeAnimationSlotReuse(t *testing.T) {
	a, s, n := setup(t)
	na := Bind(a.New(1, MoveTo(math.Vec3{X: 1})), n)
	s.Destroy(n)
	reused := s.NewNode("reused", nil)

	na.Execute(nil)
	a.Tick(1)
	if reused.Position().X != 0 {
		t.Error("adapter drove a node that reused the dead node's slot")
	}
}

func TestNodeAnimationLive(t *testing.T) {
	a, _, n := setup(t)
	na := Bind(a.New(1, MoveTo(math.Vec3{X: 4})), n)

	calls := 0
	na.Execute(func() { calls++ })
	a.Tick(0.5)
	na.Terminate(true)

	if calls != 1 || n.Position().X != 4 {
		t.Errorf("calls = %d X = %f, want 1 and 4", calls, n.Position().X)
	}

	cp, ok := na.Copy()
	if !ok {
		t.Fatal("Copy on a live node should succeed")
	}
	if _, isAdapter := cp.(*NodeAnimation); !isAdapter {
		t.Errorf("Copy returned %T, want *NodeAnimation", cp)
	}
}

func TestNodeDestroyedWhileRunning(t *testing.T) {
	a, s, n := setup(t)
	calls := 0
	anim := a.New(1, MoveTo(math.Vec3{X: 1}))
	anim.ExecuteOn(n, func() { calls++ })

	a.Tick(0.25)
	s.Destroy(n)
	a.Tick(1)

	if calls != 0 {
		t.Error("callback fired after the node was destroyed")
	}
	if a.Running() != 0 {
		t.Errorf("Running = %d, want 0", a.Running())
	}
}

func TestExecuteOnDestroyedNode(t *testing.T) {
	a, s, n := setup(t)
	s.Destroy(n)
	calls := 0
	anim := a.New(1, MoveTo(math.Vec3{X: 1}))
	anim.ExecuteOn(n, func() { calls++ })
	a.Tick(1)
	if calls != 0 || anim.Running() {
		t.Error("executing on a destroyed node should do nothing")
	}
}

func TestTickFromOtherGoroutinePanics(t *testing.T) {
	a := NewAnimator(affinity.New("render", true))
	done := make(chan any)
	go func() {
		defer func() { done <- recover() }()
		a.Tick(0.1)
	}()
	if r := <-done; r == nil {
		t.Error("expected panic when ticking from a foreign goroutine")
	}
}

func TestDefaults(t *testing.T) {
	a := NewAnimator(affinity.New("test", true))
	if got := a.New(-1).Duration(); got != DefaultDuration {
		t.Errorf("default duration = %f, want %f", got, DefaultDuration)
	}
	a.SetDefaults(2, nil)
	if got := a.New(-1).Duration(); got != 2 {
		t.Errorf("configured default = %f, want 2", got)
	}
}

func TestReexecuteFromSameTickCompletion(t *testing.T) {
	a := NewAnimator(affinity.New("test", true))
	var x, y float32
	first, second := 0, 0

	other := a.New(1, Custom("x", func() float32 { return x }, func(v float32) { x = v }, 1))
	anim := a.New(1, Custom("y", func() float32 { return y }, func(v float32) { y = v }, 1))

	other.Execute(func() {
		y = 0
		anim.Execute(func() { second++ })
	})
	anim.Execute(func() { first++ })

	a.Tick(1)
	if first != 1 || second != 0 {
		t.Fatalf("after first run: first = %d, second = %d; want 1, 0", first, second)
	}
	if !anim.Running() {
		t.Fatal("second run should be running")
	}
	if got, ok := a.Driving(scene.Handle{}, anim.channels[0].Name()); !ok || got != anim {
		t.Error("second run should hold its claim")
	}

	a.Tick(0.5)
	if second != 0 {
		t.Fatal("second callback fired before the run completed")
	}
	a.Tick(0.5)
	if first != 1 || second != 1 {
		t.Errorf("first = %d, second = %d; want 1, 1", first, second)
	}
	if anim.Running() || a.Running() != 0 {
		t.Errorf("running = %v, animator running = %d after completion", anim.Running(), a.Running())
	}
}
