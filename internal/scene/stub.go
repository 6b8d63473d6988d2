package scene

import (
	"fmt"
	"sync"
)

// StubHost is an in-memory scene tree for tests and the demo binary.
// Safe for concurrent use; the real host may complete calls off-thread.
type StubHost struct {
	mu        sync.Mutex
	next      int
	nodes     map[NodeID]*stubNode
	destroyed int
}

type stubNode struct {
	name     string
	parent   NodeID
	children []NodeID
	active   bool
	tf       Transform
}

// NewStubHost creates an empty stub scene tree.
func NewStubHost() *StubHost {
	return &StubHost{nodes: make(map[NodeID]*stubNode)}
}

// Ensure StubHost implements Host.
var _ Host = (*StubHost)(nil)

// CreateNode implements Host. New nodes start detached, active, at the
// default transform.
func (h *StubHost) CreateNode(name string) NodeID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := NodeID(fmt.Sprintf("#%d", h.next))
	h.nodes[id] = &stubNode{name: name, active: true, tf: DefaultTransform()}
	return id
}

// DestroyNode implements Host. Destroys the node and its subtree.
func (h *StubHost) DestroyNode(id NodeID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyLocked(id)
}

func (h *StubHost) destroyLocked(id NodeID) {
	n, ok := h.nodes[id]
	if !ok {
		return
	}
	for _, c := range append([]NodeID(nil), n.children...) {
		h.destroyLocked(c)
	}
	h.detachLocked(id)
	delete(h.nodes, id)
	h.destroyed++
}

// SetParent implements Host.
func (h *StubHost) SetParent(child, parent NodeID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.nodes[child]
	if !ok {
		return
	}
	h.detachLocked(child)
	n.parent = parent
	if p, ok := h.nodes[parent]; ok {
		p.children = append(p.children, child)
	}
}

// PlaceBefore implements Host. No-op unless node and anchor share a parent.
func (h *StubHost) PlaceBefore(node, anchor NodeID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.nodes[node]
	if !ok {
		return
	}
	a, ok := h.nodes[anchor]
	if !ok || a.parent != n.parent {
		return
	}
	p, ok := h.nodes[n.parent]
	if !ok {
		return
	}
	kept := p.children[:0]
	for _, c := range p.children {
		if c != node {
			kept = append(kept, c)
		}
	}
	p.children = kept
	for i, c := range p.children {
		if c == anchor {
			p.children = append(p.children[:i], append([]NodeID{node}, p.children[i:]...)...)
			return
		}
	}
}

// SetActive implements Host.
func (h *StubHost) SetActive(id NodeID, active bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n, ok := h.nodes[id]; ok {
		n.active = active
	}
}

// Active implements Host.
func (h *StubHost) Active(id NodeID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.nodes[id]
	return ok && n.active
}

// Transform implements Host.
func (h *StubHost) Transform(id NodeID) Transform {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n, ok := h.nodes[id]; ok {
		return n.tf
	}
	return Transform{}
}

// SetTransform implements Host.
func (h *StubHost) SetTransform(id NodeID, t Transform) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n, ok := h.nodes[id]; ok {
		n.tf = t
	}
}

// Children implements Host. Returns a copy.
func (h *StubHost) Children(id NodeID) []NodeID {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.nodes[id]
	if !ok || len(n.children) == 0 {
		return nil
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// Name implements Host.
func (h *StubHost) Name(id NodeID) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n, ok := h.nodes[id]; ok {
		return n.name
	}
	return ""
}

// Parent returns a node's current parent. Test helper.
func (h *StubHost) Parent(id NodeID) NodeID {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n, ok := h.nodes[id]; ok {
		return n.parent
	}
	return None
}

// Exists reports whether the node is still alive. Test helper.
func (h *StubHost) Exists(id NodeID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.nodes[id]
	return ok
}

// DestroyedCount returns how many nodes have been destroyed. Test helper.
func (h *StubHost) DestroyedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

// detachLocked removes the node from its parent's child list.
func (h *StubHost) detachLocked(id NodeID) {
	n := h.nodes[id]
	p, ok := h.nodes[n.parent]
	if !ok {
		return
	}
	for i, c := range p.children {
		if c == id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = None
}
