package demo

import (
	"testing"

	"github.com/Faultbox/scenecore/internal/engine/affinity"
	"github.com/Faultbox/scenecore/internal/engine/animation"
	"github.com/Faultbox/scenecore/internal/engine/picking"
	"github.com/Faultbox/scenecore/internal/engine/render"
	"github.com/Faultbox/scenecore/internal/engine/render/rendertest"
	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/pkg/math"
)

type rig struct {
	show     *Showcase
	animator *animation.Animator
	queue    *render.Queue
	rec      *rendertest.Recorder
	ds       []scene.Drawable
}

func newRig(t *testing.T) *rig {
	t.Helper()
	owner := affinity.New("demo-test", true)
	an := animation.NewAnimator(owner)
	return &rig{
		show:     New(45, 30),
		animator: an,
		queue:    render.NewQueue(owner, an.Clock()),
		rec:      &rendertest.Recorder{},
	}
}

func (r *rig) frame() render.Stats {
	r.ds = r.show.Scene.Collect(r.ds[:0])
	r.rec.Reset()
	ctx := render.Context{}
	r.queue.Build(ctx, r.ds)
	r.queue.RenderStencil(ctx, r.rec)
	return r.queue.Execute(ctx, r.rec)
}

func TestShowcaseFrame(t *testing.T) {
	r := newRig(t)
	st := r.frame()

	// ground 1 + three boxes 3 each + cap 3 + portal 3
	if len(r.ds) != 16 {
		t.Fatalf("drawables = %d, want 16", len(r.ds))
	}
	if st.Keys != 16 || st.Draws != 16 || st.Excluded != 0 {
		t.Errorf("stats = %+v, want 16 keys, 16 draws, 0 excluded", st)
	}

	keys := r.queue.Keys()
	transparent := 0
	for i, k := range keys {
		if k.Transparent {
			transparent++
			continue
		}
		if transparent > 0 {
			t.Fatalf("opaque key %d sorted after a transparent key", i)
		}
	}
	// glass box 3 elements + the portal's glass element
	if transparent != 4 {
		t.Errorf("transparent keys = %d, want 4", transparent)
	}

	if r.rec.Calls[0].Op != rendertest.OpClearStencil {
		t.Errorf("first call = %s, want clear-stencil", r.rec.Calls[0])
	}
	for i, c := range r.rec.Calls[1:4] {
		if c.Op != rendertest.OpWriteStencil || c.Node != r.show.Portal.Handle() || c.Bits != PortalBits {
			t.Errorf("call %d = %s, want portal stencil write", i+1, c)
		}
	}
	if n := r.rec.Count(rendertest.OpWriteStencil); n != 3 {
		t.Errorf("stencil writes = %d, want 3", n)
	}

	portal := 0
	for i, c := range r.rec.Calls {
		if c.Op != rendertest.OpDraw {
			continue
		}
		prev := r.rec.Calls[i-1]
		if prev.Op != rendertest.OpStencilBits {
			t.Fatalf("draw %d not preceded by stencil bits: %s", i, prev)
		}
		if c.Node == r.show.Portal.Handle() {
			portal++
			if prev.Bits != PortalBits {
				t.Errorf("portal draw bits = %#x, want %#x", prev.Bits, PortalBits)
			}
		} else if prev.Bits != 0 {
			t.Errorf("draw of %s bits = %#x, want 0", c.Node, prev.Bits)
		}
	}
	if portal != 3 {
		t.Errorf("portal draws = %d, want 3", portal)
	}
}

func TestToggleGlassCrossFades(t *testing.T) {
	r := newRig(t)
	r.frame()

	r.show.ToggleGlass()
	if !r.show.Glass.HasOutgoing() {
		t.Fatal("glass change after first frame should fade")
	}

	r.animator.Tick(0.1)
	if st := r.frame(); st.Keys != 20 {
		t.Errorf("keys mid-fade = %d, want 20", st.Keys)
	}

	r.animator.Tick(0.3)
	if r.show.Glass.HasOutgoing() {
		t.Fatal("fade should be released")
	}
	r.frame()
	for _, k := range r.queue.Keys() {
		if k.Transparent {
			t.Fatalf("key %+v still transparent after glass turned opaque", k)
		}
	}
}

func TestBounce(t *testing.T) {
	r := newRig(t)

	r.show.Bounce(r.animator, 1)
	r.animator.Tick(1)
	if y := r.show.Boxes[1].Position().Y; y != 2 {
		t.Fatalf("raised Y = %v, want 2", y)
	}

	r.show.Bounce(r.animator, 1)
	r.animator.Tick(1)
	if y := r.show.Boxes[1].Position().Y; y != 0.5 {
		t.Fatalf("lowered Y = %v, want 0.5", y)
	}
}

func TestRemoveDuringAnimation(t *testing.T) {
	r := newRig(t)

	anim := r.show.Spin(r.animator, 0)
	if anim == nil {
		t.Fatal("Spin returned nil for a live box")
	}
	if !r.show.Remove(0) {
		t.Fatal("Remove failed")
	}
	r.animator.Tick(0.5)
	if got := r.animator.Running(); got != 0 {
		t.Errorf("running = %d after target destroyed, want 0", got)
	}
	if got := anim.Duration(); got != 0 {
		t.Errorf("Duration on destroyed target = %v, want 0", got)
	}

	if r.show.Bounce(r.animator, 0) != nil {
		t.Error("Bounce on removed box should return nil")
	}
	if r.show.Remove(0) {
		t.Error("second Remove should fail")
	}

	r.frame()
	// box and its cap are gone
	if len(r.ds) != 10 {
		t.Errorf("drawables = %d, want 10", len(r.ds))
	}
}

func TestBoxAt(t *testing.T) {
	r := newRig(t)

	// Boxes sit at x = -2.5, 0, 2.5; shoot straight down onto the third.
	ray := picking.Ray{Origin: math.Vec3{X: 2.5, Y: 10}, Direction: math.Vec3{Y: -1}}
	if i, ok := r.show.BoxAt(ray); !ok || i != 2 {
		t.Fatalf("BoxAt = %d, %v; want 2", i, ok)
	}

	miss := picking.Ray{Origin: math.Vec3{X: 10, Y: 10}, Direction: math.Vec3{Y: -1}}
	if _, ok := r.show.BoxAt(miss); ok {
		t.Error("ray beside the boxes should miss")
	}

	r.show.Remove(2)
	if _, ok := r.show.BoxAt(ray); ok {
		t.Error("removed box should not be picked")
	}
}
