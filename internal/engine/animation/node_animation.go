package animation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/internal/logger"
)

// NodeAnimation binds an animation to a node through a weak reference. The
// reference is resolved on every call; once the node is destroyed every
// operation is a no-op and Copy reports false.
type NodeAnimation struct {
	inner  *Animation
	target scene.Ref
}

// Bind returns an adapter that runs inner on node.
func Bind(inner *Animation, node *scene.Node) *NodeAnimation {
	return &NodeAnimation{inner: inner, target: node.Ref()}
}

// BindRef returns an adapter that runs inner on the referenced node.
func BindRef(inner *Animation, target scene.Ref) *NodeAnimation {
	return &NodeAnimation{inner: inner, target: target}
}

// Target returns the weak node reference.
func (n *NodeAnimation) Target() scene.Ref {
	return n.target
}

// Execute runs the animation on the node, or does nothing if the node is
// gone. onFinished is never called in that case.
func (n *NodeAnimation) Execute(onFinished func()) {
	node, ok := n.target.Resolve()
	if !ok {
		logger.Debug("animation: execute on destroyed node", zap.Stringer("node", n.target.Handle()))
		return
	}
	n.inner.ExecuteOn(node, onFinished)
}

func (n *NodeAnimation) Pause() {
	if n.target.Alive() {
		n.inner.Pause()
	}
}

func (n *NodeAnimation) Resume() {
	if n.target.Alive() {
		n.inner.Resume()
	}
}

func (n *NodeAnimation) Terminate(jumpToEnd bool) {
	if n.target.Alive() {
		n.inner.Terminate(jumpToEnd)
	}
}

func (n *NodeAnimation) SetDuration(seconds float32) {
	if n.target.Alive() {
		n.inner.SetDuration(seconds)
	}
}

// Duration returns the inner duration, or 0 once the node is gone.
func (n *NodeAnimation) Duration() float32 {
	if !n.target.Alive() {
		return 0
	}
	return n.inner.Duration()
}

// Copy returns an adapter over a clone of the inner animation bound to the
// same node. It returns nil, false when the node is gone.
func (n *NodeAnimation) Copy() (Executable, bool) {
	if !n.target.Alive() {
		return nil, false
	}
	return &NodeAnimation{inner: n.inner.Clone(), target: n.target}, true
}

func (n *NodeAnimation) String() string {
	if !n.target.Alive() {
		return fmt.Sprintf("node %s (destroyed)", n.target.Handle())
	}
	return fmt.Sprintf("node %s: %s", n.target.Handle(), n.inner)
}

func (n *NodeAnimation) executable() {}
