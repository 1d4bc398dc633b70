package animation

import (
	"slices"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/affinity"
	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/internal/engine/timeline"
	"github.com/Faultbox/scenecore/internal/logger"
)

// DefaultDuration is the duration, in seconds, of animations created with
// a negative duration when no other default is configured.
const DefaultDuration float32 = 0.5

type claim struct {
	node    scene.Handle
	channel string
}

// Animator is the animation context of one render goroutine. It owns the
// clock that drives animations and material fades, and makes sure at most
// one running animation drives each property of each node.
type Animator struct {
	owner  affinity.Owner
	clock  *timeline.Clock
	claims map[claim]*Animation
	active []*Animation

	defaultDuration float32
	defaultEasing   ease.TweenFunc
}

// NewAnimator creates an animator owned by the calling goroutine's owner.
func NewAnimator(owner affinity.Owner) *Animator {
	return &Animator{
		owner:           owner,
		clock:           timeline.NewClock(owner),
		claims:          make(map[claim]*Animation),
		defaultDuration: DefaultDuration,
		defaultEasing:   ease.Linear,
	}
}

// Clock returns the clock animations and material fades advance on.
func (a *Animator) Clock() *timeline.Clock {
	return a.clock
}

// SetDefaults sets the duration and easing used by New when given a
// negative duration and by animations without an explicit easing.
func (a *Animator) SetDefaults(seconds float32, easing ease.TweenFunc) {
	if seconds >= 0 {
		a.defaultDuration = seconds
	}
	if easing != nil {
		a.defaultEasing = easing
	}
}

// New creates an idle animation. A negative duration uses the default.
func (a *Animator) New(seconds float32, channels ...Channel) *Animation {
	if seconds < 0 {
		seconds = a.defaultDuration
	}
	return &Animation{
		animator: a,
		channels: channels,
		duration: seconds,
		easing:   a.defaultEasing,
	}
}

// Tick advances every running animation by dt seconds. Animations whose
// node was destroyed stop without calling back.
func (a *Animator) Tick(dt float32) {
	a.owner.Check("Animator.Tick")

	for _, anim := range slices.Clone(a.active) {
		if anim.hasTarget && !anim.target.Alive() {
			logger.Debug("animation: target destroyed, stopping", zap.Stringer("animation", anim))
			anim.orphan()
		}
	}
	a.clock.Tick(dt)
}

// Running returns the number of running or paused animations.
func (a *Animator) Running() int {
	return len(a.active)
}

// Driving returns the animation currently driving channel on node.
func (a *Animator) Driving(node scene.Handle, channel string) (*Animation, bool) {
	anim, ok := a.claims[claim{node: node, channel: channel}]
	return anim, ok
}

func (a *Animator) claim(k claim, anim *Animation) {
	if prev, ok := a.claims[k]; ok && prev != anim {
		logger.Debug("animation: property taken over",
			zap.String("channel", k.channel),
			zap.Stringer("node", k.node),
			zap.Stringer("previous", prev),
		)
		prev.Terminate(false)
	}
	a.claims[k] = anim
	anim.claims = append(anim.claims, k)
}

func (a *Animator) unclaim(k claim, anim *Animation) {
	if a.claims[k] == anim {
		delete(a.claims, k)
	}
}

func (a *Animator) track(anim *Animation) {
	if !slices.Contains(a.active, anim) {
		a.active = append(a.active, anim)
	}
}

func (a *Animator) release(anim *Animation) {
	for _, k := range anim.claims {
		a.unclaim(k, anim)
	}
	anim.claims = nil
	if i := slices.Index(a.active, anim); i >= 0 {
		a.active = slices.Delete(a.active, i, i+1)
	}
}
