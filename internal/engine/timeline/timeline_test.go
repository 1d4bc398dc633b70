package timeline

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"

	"github.com/Faultbox/scenecore/internal/engine/affinity"
)

func newTestClock() *Clock {
	return NewClock(affinity.New("test", true))
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.0001
}

func TestTimelineRunsToCompletion(t *testing.T) {
	c := newTestClock()
	var last float32
	calls := 0
	tl := New(1.0, ease.Linear, func(p float32) { last = p })
	tl.Start(c, func() { calls++ })

	c.Tick(0.5)
	if !near(last, 0.5) {
		t.Errorf("progress after half = %f, want 0.5", last)
	}
	if calls != 0 {
		t.Fatal("completion fired before the end")
	}

	c.Tick(0.5)
	if last != 1 {
		t.Errorf("final progress = %f, want exactly 1", last)
	}
	if calls != 1 {
		t.Errorf("completion calls = %d, want 1", calls)
	}
	if tl.State() != Finished {
		t.Errorf("state = %v, want finished", tl.State())
	}
	if c.Active() != 0 {
		t.Errorf("clock still holds %d timelines", c.Active())
	}

	c.Tick(1)
	if calls != 1 {
		t.Errorf("completion fired again: %d", calls)
	}
}

func TestCompletionIsDeferredToTick(t *testing.T) {
	c := newTestClock()
	fired := false
	tl := New(0, nil, nil)
	tl.Start(c, func() { fired = true })

	if fired {
		t.Fatal("zero-length timeline completed synchronously in Start")
	}
	c.Tick(0)
	if !fired {
		t.Error("zero-length timeline should complete on the next tick")
	}
}

func TestPauseResumeIdempotent(t *testing.T) {
	c := newTestClock()
	var last float32
	tl := New(1.0, ease.Linear, func(p float32) { last = p })
	tl.Start(c, nil)

	c.Tick(0.25)
	tl.Pause()
	tl.Pause()
	c.Tick(0.5)
	if !near(last, 0.25) {
		t.Errorf("paused progress moved to %f", last)
	}
	if tl.State() != Paused {
		t.Errorf("state = %v, want paused", tl.State())
	}

	tl.Resume()
	tl.Resume()
	c.Tick(0.25)
	if !near(last, 0.5) {
		t.Errorf("progress after resume = %f, want 0.5", last)
	}
}

func TestFinish(t *testing.T) {
	tests := []struct {
		name      string
		jumpToEnd bool
		want      float32
	}{
		{"jump to end", true, 1},
		{"freeze", false, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClock()
			var last float32
			calls := 0
			tl := New(1.0, ease.Linear, func(p float32) { last = p })
			tl.Start(c, func() { calls++ })
			c.Tick(0.4)

			tl.Finish(tt.jumpToEnd)
			if !near(last, tt.want) {
				t.Errorf("progress = %f, want %f", last, tt.want)
			}
			if calls != 1 {
				t.Errorf("completion calls = %d, want 1", calls)
			}

			tl.Finish(true)
			c.Tick(1)
			if calls != 1 {
				t.Errorf("completion fired again: %d", calls)
			}
		})
	}
}

func TestSetDurationRescalesProgress(t *testing.T) {
	c := newTestClock()
	var last float32
	tl := New(2.0, ease.Linear, func(p float32) { last = p })
	tl.Start(c, nil)

	c.Tick(1.0) // 50%
	tl.SetDuration(4.0)
	if !near(tl.Fraction(), 0.5) {
		t.Fatalf("fraction after rescale = %f, want 0.5", tl.Fraction())
	}
	if !near(tl.Elapsed(), 2.0) {
		t.Errorf("elapsed after rescale = %f, want 2", tl.Elapsed())
	}

	c.Tick(1.0) // 3 of 4 seconds
	if !near(last, 0.75) {
		t.Errorf("progress = %f, want 0.75", last)
	}
	if tl.Duration() != 4.0 {
		t.Errorf("duration = %f, want 4", tl.Duration())
	}
}

func TestStartWhileRunningIgnored(t *testing.T) {
	c := newTestClock()
	tl := New(1.0, nil, nil)
	if !tl.Start(c, nil) {
		t.Fatal("first start should succeed")
	}
	c.Tick(0.5)
	if tl.Start(c, nil) {
		t.Error("restart while running should be ignored")
	}
	if !near(tl.Fraction(), 0.5) {
		t.Errorf("ignored restart reset progress to %f", tl.Fraction())
	}
}

func TestRestartFromCompletion(t *testing.T) {
	c := newTestClock()
	runs := 0
	tl := New(0.1, nil, nil)
	var restart func()
	restart = func() {
		runs++
		if runs < 3 {
			tl.Start(c, restart)
		}
	}
	tl.Start(c, restart)

	for i := 0; i < 10; i++ {
		c.Tick(0.1)
	}
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestEasingByName(t *testing.T) {
	if _, err := EasingByName("outCubic"); err != nil {
		t.Errorf("outCubic: %v", err)
	}
	if _, err := EasingByName("wobble"); err == nil {
		t.Error("expected error for unknown easing")
	}
}
