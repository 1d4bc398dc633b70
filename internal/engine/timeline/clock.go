package timeline

import "github.com/Faultbox/scenecore/internal/engine/affinity"

// Clock advances every attached timeline on Tick. One clock belongs to the
// render goroutine; it is the single source of time for animations and fades.
type Clock struct {
	owner  affinity.Owner
	active []*Timeline
	done   []*Timeline
	now    float64
}

// NewClock creates a clock owned by the given goroutine owner.
func NewClock(owner affinity.Owner) *Clock {
	return &Clock{owner: owner}
}

// Tick advances all running timelines by dt seconds, then delivers the
// completions of the ones that finished. Timelines started from inside an
// update or completion callback first advance on the next tick.
func (c *Clock) Tick(dt float32) {
	c.owner.Check("Clock.Tick")
	if dt < 0 {
		dt = 0
	}
	c.now += float64(dt)

	n := len(c.active)
	for i := 0; i < n; i++ {
		t := c.active[i]
		if t.state == Running && t.advance(dt) {
			c.done = append(c.done, t)
		}
	}
	c.compact()

	done := c.done
	c.done = c.done[:0]
	for _, t := range done {
		t.complete()
	}
}

// Now returns the total seconds ticked.
func (c *Clock) Now() float64 {
	return c.now
}

// Active returns the number of attached running or paused timelines.
func (c *Clock) Active() int {
	count := 0
	for _, t := range c.active {
		if t.state == Running || t.state == Paused {
			count++
		}
	}
	return count
}

func (c *Clock) attach(t *Timeline) {
	if t.attached {
		return
	}
	t.attached = true
	c.active = append(c.active, t)
}

// compact drops finished timelines while preserving start order.
func (c *Clock) compact() {
	kept := c.active[:0]
	for _, t := range c.active {
		if t.state == Running || t.state == Paused {
			kept = append(kept, t)
			continue
		}
		t.attached = false
	}
	for i := len(kept); i < len(c.active); i++ {
		c.active[i] = nil
	}
	c.active = kept
}
