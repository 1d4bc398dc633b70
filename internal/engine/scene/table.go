package scene

import "fmt"

// Handle addresses a node in a Table. A handle stays unique for the life of
// the table: destroying a node bumps its slot generation, so stale handles
// stop resolving even after the slot is reused.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the zero handle, which never resolves.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%d#%d", h.Index, h.Generation)
}

type slot struct {
	node       *Node
	generation uint32
}

// Table owns nodes and hands out generation-checked handles to them.
// It is not safe for concurrent use; the render goroutine owns it.
type Table struct {
	slots []slot
	free  []uint32
	live  int
}

// NewTable creates an empty node table.
func NewTable() *Table {
	return &Table{}
}

// Create allocates a node with default transform and returns it.
func (t *Table) Create(name string) *Node {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = uint32(len(t.slots))
		t.slots = append(t.slots, slot{})
	}

	s := &t.slots[idx]
	s.generation++
	node := newNode(t, Handle{Index: idx, Generation: s.generation}, name)
	s.node = node
	t.live++
	return node
}

// Resolve returns the node for h, or false when it has been destroyed.
func (t *Table) Resolve(h Handle) (*Node, bool) {
	if h.IsZero() || int(h.Index) >= len(t.slots) {
		return nil, false
	}
	s := t.slots[h.Index]
	if s.generation != h.Generation || s.node == nil {
		return nil, false
	}
	return s.node, true
}

// Destroy removes the node and its whole subtree. Returns false when h was
// already dead.
func (t *Table) Destroy(h Handle) bool {
	n, ok := t.Resolve(h)
	if !ok {
		return false
	}
	if p, ok := t.Resolve(n.parent); ok {
		p.removeChild(h)
	}
	t.destroy(n)
	return true
}

func (t *Table) destroy(n *Node) {
	for _, c := range n.children {
		if child, ok := t.Resolve(c); ok {
			t.destroy(child)
		}
	}
	n.children = nil
	n.parent = Handle{}
	n.dead = true

	t.slots[n.handle.Index].node = nil
	t.free = append(t.free, n.handle.Index)
	t.live--
}

// Len returns the number of live nodes.
func (t *Table) Len() int {
	return t.live
}

// Ref returns a non-owning reference to h.
func (t *Table) Ref(h Handle) Ref {
	return Ref{table: t, handle: h}
}

// Ref is a weak reference to a node: a table plus a handle. Holding a Ref
// never keeps a node alive.
type Ref struct {
	table  *Table
	handle Handle
}

// Handle returns the referenced handle.
func (r Ref) Handle() Handle {
	return r.handle
}

// Resolve returns the node if it is still alive.
func (r Ref) Resolve() (*Node, bool) {
	if r.table == nil {
		return nil, false
	}
	return r.table.Resolve(r.handle)
}

// Alive reports whether the referenced node still exists.
func (r Ref) Alive() bool {
	_, ok := r.Resolve()
	return ok
}
